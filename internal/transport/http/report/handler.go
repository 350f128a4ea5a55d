package report

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Vawe4321/vendor-core/internal/presentation/http/response"
	service "github.com/Vawe4321/vendor-core/internal/service/report"
	"github.com/Vawe4321/vendor-core/pkg/errorbank"
	"go.opentelemetry.io/otel"
)

var httpTracer = otel.Tracer("github.com/Vawe4321/vendor-core/transport/http/report")

const dateLayout = "2006-01-02"

// Handler exposes report endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a report Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/reports")
	g.GET("/summary", h.summary)
	g.GET("/funnel", h.funnel)
}

func (h *Handler) summary(c echo.Context) error {
	b := response.New(c)

	from, to, err := windowFromQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "reports.summary")
	defer span.End()

	summary, err := h.svc.Summary(ctx, from, to)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(summary).Build()
}

func (h *Handler) funnel(c echo.Context) error {
	b := response.New(c)

	from, to, err := windowFromQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "reports.funnel")
	defer span.End()

	results, err := h.svc.Funnel(ctx, from, to)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(results).Build()
}

// windowFromQuery parses the from/to dates the range picker committed and
// widens them to full-day bounds.
func windowFromQuery(c echo.Context) (time.Time, time.Time, error) {
	fromRaw, toRaw := c.QueryParam("from"), c.QueryParam("to")
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, errorbank.BadRequest("from and to are required")
	}
	from, err := time.Parse(dateLayout, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, errorbank.BadRequest("invalid from date", errorbank.WithCause(err))
	}
	to, err := time.Parse(dateLayout, toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, errorbank.BadRequest("invalid to date", errorbank.WithCause(err))
	}
	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}
