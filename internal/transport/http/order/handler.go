package order

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Vawe4321/vendor-core/internal/dto"
	"github.com/Vawe4321/vendor-core/internal/entity"
	"github.com/Vawe4321/vendor-core/internal/lifecycle"
	"github.com/Vawe4321/vendor-core/internal/orderfilter"
	"github.com/Vawe4321/vendor-core/internal/presentation/http/response"
	service "github.com/Vawe4321/vendor-core/internal/service/order"
	"github.com/Vawe4321/vendor-core/pkg/errorbank"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var httpTracer = otel.Tracer("github.com/Vawe4321/vendor-core/transport/http/order")

const dateLayout = "2006-01-02"

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo group.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("/:id/status", h.transition)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Number   string              `json:"number"`
		Customer dto.CustomerPayload `json:"customer"`
		Items    []struct {
			Name           string   `json:"name"`
			Quantity       int      `json:"quantity"`
			Price          float64  `json:"price"`
			Customizations []string `json:"customizations"`
		} `json:"items"`
		OrderType     string `json:"order_type"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Number == "" {
		return b.WithError(errorbank.BadRequest("number is required")).Build()
	}

	items := make([]entity.OrderItem, len(payload.Items))
	for i, item := range payload.Items {
		items[i] = entity.OrderItem{
			Name:           item.Name,
			Quantity:       item.Quantity,
			Price:          item.Price,
			Customizations: item.Customizations,
		}
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.String("order.number", payload.Number),
	))
	defer span.End()

	order, err := h.svc.Create(ctx, service.CreateInput{
		Number:        payload.Number,
		Customer:      entity.Customer(payload.Customer),
		Items:         items,
		Type:          entity.OrderType(payload.OrderType),
		PaymentMethod: entity.PaymentMethod(payload.PaymentMethod),
	})
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(toDTO(order)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) transition(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Status               string `json:"status"`
		EstimatedTimeMinutes *int   `json:"estimated_time_minutes"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Status == "" {
		return b.WithError(errorbank.BadRequest("status is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.transition", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.target_status", payload.Status),
	))
	defer span.End()

	order, err := h.svc.Transition(ctx, id, entity.Status(payload.Status), payload.EstimatedTimeMinutes)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	criteria, err := criteriaFromQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx, criteria)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		out[i] = toDTO(&orders[i])
	}
	return b.WithData(out).WithMeta("count", len(out)).Build()
}

// criteriaFromQuery parses list filters: comma-separated status/type sets,
// a rating band, an inclusive date window and free-text search.
func criteriaFromQuery(c echo.Context) (orderfilter.Criteria, error) {
	criteria := orderfilter.Criteria{SearchText: c.QueryParam("search")}

	if raw := c.QueryParam("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := entity.Status(strings.TrimSpace(part))
			if !status.Valid() {
				return criteria, errorbank.BadRequest("unknown status filter: " + string(status))
			}
			criteria.Statuses = append(criteria.Statuses, status)
		}
	}

	if raw := c.QueryParam("type"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			orderType := entity.OrderType(strings.TrimSpace(part))
			if !orderType.Valid() {
				return criteria, errorbank.BadRequest("unknown order type filter: " + string(orderType))
			}
			criteria.OrderTypes = append(criteria.OrderTypes, orderType)
		}
	}

	minRaw, maxRaw := c.QueryParam("rating_min"), c.QueryParam("rating_max")
	if minRaw != "" || maxRaw != "" {
		band := orderfilter.RatingRange{Min: 0, Max: 5}
		var err error
		if minRaw != "" {
			if band.Min, err = strconv.ParseFloat(minRaw, 64); err != nil {
				return criteria, errorbank.BadRequest("invalid rating_min", errorbank.WithCause(err))
			}
		}
		if maxRaw != "" {
			if band.Max, err = strconv.ParseFloat(maxRaw, 64); err != nil {
				return criteria, errorbank.BadRequest("invalid rating_max", errorbank.WithCause(err))
			}
		}
		criteria.Rating = &band
	}

	fromRaw, toRaw := c.QueryParam("from"), c.QueryParam("to")
	if fromRaw != "" || toRaw != "" {
		if fromRaw == "" || toRaw == "" {
			return criteria, errorbank.BadRequest("from and to must be supplied together")
		}
		from, err := time.Parse(dateLayout, fromRaw)
		if err != nil {
			return criteria, errorbank.BadRequest("invalid from date", errorbank.WithCause(err))
		}
		to, err := time.Parse(dateLayout, toRaw)
		if err != nil {
			return criteria, errorbank.BadRequest("invalid to date", errorbank.WithCause(err))
		}
		// The window is inclusive of the final day.
		criteria.Dates = &orderfilter.DateRange{From: from, To: to.Add(24*time.Hour - time.Nanosecond)}
	}

	return criteria, nil
}

func toDTO(order *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemPayload, len(order.Items))
	for i, item := range order.Items {
		items[i] = dto.OrderItemPayload{
			Name:           item.Name,
			Quantity:       item.Quantity,
			Price:          item.Price,
			Customizations: item.Customizations,
		}
	}

	var next []string
	for _, status := range lifecycle.NextStatuses(order.Status) {
		next = append(next, string(status))
	}

	return dto.OrderResponse{
		ID:                   order.ID,
		Number:               order.Number,
		Customer:             dto.CustomerPayload(order.Customer),
		Items:                items,
		TotalAmount:          order.TotalAmount,
		Status:               string(order.Status),
		PaymentStatus:        string(order.PaymentStatus),
		PaymentMethod:        string(order.PaymentMethod),
		OrderType:            string(order.Type),
		NextStatuses:         next,
		EstimatedTimeMinutes: order.EstimatedTimeMinutes,
		ActualTimeMinutes:    order.ActualTimeMinutes,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
		AcceptedAt:           order.AcceptedAt,
		ReadyAt:              order.ReadyAt,
		DeliveredAt:          order.DeliveredAt,
	}
}
