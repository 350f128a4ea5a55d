package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Vawe4321/vendor-core/internal/cache"
	"github.com/Vawe4321/vendor-core/internal/clock"
	"github.com/Vawe4321/vendor-core/internal/config"
	"github.com/Vawe4321/vendor-core/internal/entity"
	"github.com/Vawe4321/vendor-core/internal/lifecycle"
	"github.com/Vawe4321/vendor-core/internal/messaging"
	"github.com/Vawe4321/vendor-core/internal/orderfilter"
	repo "github.com/Vawe4321/vendor-core/internal/repository/order"
	reviewrepo "github.com/Vawe4321/vendor-core/internal/repository/review"
	"github.com/Vawe4321/vendor-core/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Vawe4321/vendor-core/service/order")

// casAttempts bounds optimistic-concurrency retries before giving up with
// a conflict error.
const casAttempts = 3

// Store is the persistence collaborator for orders. The bun repository
// satisfies it; tests swap in a mock.
type Store interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	GetByNumber(ctx context.Context, number string) (*entity.Order, error)
	List(ctx context.Context, from, to time.Time) ([]entity.Order, error)
	UpdateStatusCAS(ctx context.Context, order *entity.Order, readUpdatedAt time.Time) error
}

// Ratings is the review collaborator supplying the rating join for
// filters.
type Ratings interface {
	RatingsByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64]float64, error)
}

// Service encapsulates business logic around orders.
type Service struct {
	store     Store
	ratings   Ratings
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	clock     clock.Clock
	messaging messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Reviews    *reviewrepo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
	Clock      clock.Clock
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		store:     p.Repository,
		ratings:   p.Reviews,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		clock:     p.Clock,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// CreateInput carries intake data for a new order. Payment processing and
// the customer record itself are owned by external systems.
type CreateInput struct {
	Number        string
	Customer      entity.Customer
	Items         []entity.OrderItem
	Type          entity.OrderType
	PaymentMethod entity.PaymentMethod
}

// Create validates and persists a new pending order.
func (s *Service) Create(ctx context.Context, input CreateInput) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.String("order.number", input.Number)))
	defer span.End()

	order, err := entity.NewOrder(input.Number, input.Customer, input.Items, input.Type, input.PaymentMethod, s.clock.Now())
	if err != nil {
		return nil, errorbank.BadRequest(err.Error())
	}

	if err := s.store.Create(ctx, &order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, &order); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.Int64("id", order.ID), zap.Error(err))
		}
	}

	s.publishEvent(ctx, Event{
		Type:      EventOrderCreated,
		OrderID:   order.ID,
		Number:    order.Number,
		NewStatus: order.Status,
		At:        order.CreatedAt,
	})
	return &order, nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		if s.logger != nil {
			s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	return order, nil
}

// Transition moves an order along the lifecycle graph and persists the
// result under an optimistic-concurrency guard. On a stale write the
// order is re-read and the transition recomputed, up to casAttempts times.
// estimatedMinutes applies only when the target status is accepted.
func (s *Service) Transition(ctx context.Context, id int64, target entity.Status, estimatedMinutes *int) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Transition", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.target_status", string(target)),
	))
	defer span.End()

	if !target.Valid() {
		return nil, errorbank.BadRequest(fmt.Sprintf("unknown status: %q", target))
	}
	if estimatedMinutes != nil && *estimatedMinutes <= 0 {
		return nil, errorbank.BadRequest("estimated time must be positive")
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		current, err := s.store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, errorbank.NotFound("order not found")
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
			return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
		}

		oldStatus := current.Status
		at := s.clock.Now()

		next, err := lifecycle.Transition(*current, target, at)
		if err != nil {
			switch {
			case errors.Is(err, lifecycle.ErrInvalidTransition):
				return nil, errorbank.Unprocessable(
					fmt.Sprintf("cannot move order from %s to %s", oldStatus, target),
					errorbank.WithCause(err),
				)
			case errors.Is(err, lifecycle.ErrNonMonotonicTimestamp):
				return nil, errorbank.Unprocessable("transition time precedes order history", errorbank.WithCause(err))
			default:
				return nil, errorbank.Internal("transition failed", errorbank.WithCause(err))
			}
		}

		if target == entity.StatusAccepted && estimatedMinutes != nil {
			estimate := *estimatedMinutes
			next.EstimatedTimeMinutes = &estimate
		}

		err = s.store.UpdateStatusCAS(ctx, &next, current.UpdatedAt)
		if errors.Is(err, repo.ErrStaleOrder) {
			if s.logger != nil {
				s.logger.Debug("stale order write, retrying", zap.Int64("id", id), zap.Int("attempt", attempt+1))
			}
			continue
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
			return nil, errorbank.Internal("failed to persist transition", errorbank.WithCause(err))
		}

		s.invalidateCache(ctx, id)
		s.publishEvent(ctx, Event{
			Type:      EventOrderStatusChanged,
			OrderID:   next.ID,
			Number:    next.Number,
			OldStatus: oldStatus,
			NewStatus: next.Status,
			At:        at,
		})
		return &next, nil
	}

	span.SetStatus(codes.Error, "cas conflict")
	return nil, errorbank.Conflict("order is being updated concurrently; retry")
}

// List returns the orders matching the criteria. The repository supplies a
// date-windowed snapshot; set filters, text search and the rating join are
// applied in memory on that snapshot.
func (s *Service) List(ctx context.Context, criteria orderfilter.Criteria) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	if err := criteria.Validate(); err != nil {
		return nil, errorbank.BadRequest("invalid filter criteria", errorbank.WithCause(err))
	}

	var from, to time.Time
	if criteria.Dates != nil {
		from, to = criteria.Dates.From, criteria.Dates.To
	}

	orders, err := s.store.List(ctx, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}

	var ratings map[int64]float64
	if criteria.Rating != nil {
		ids := make([]int64, len(orders))
		for i, order := range orders {
			ids[i] = order.ID
		}
		ratings, err = s.ratings.RatingsByOrderIDs(ctx, ids)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "review join error")
			return nil, errorbank.Internal("failed to load ratings", errorbank.WithCause(err))
		}
	}

	return orderfilter.Apply(orders, criteria, ratings), nil
}

func (s *Service) publishEvent(ctx context.Context, event Event) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("marshal order event", zap.Error(err))
		}
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", event.OrderID)), payload); err != nil {
		if s.logger != nil {
			s.logger.Error("publish order event", zap.Error(err), zap.String("event", string(event.Type)))
		}
	}
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("orders:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}

func (s *Service) invalidateCache(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache invalidation failed", zap.Int64("id", id), zap.Error(err))
		}
	}
}

// EventType tags messages on the order events topic.
type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// Event is published after a successful create or transition; downstream
// notification consumers fan it out to customers and staff.
type Event struct {
	Type      EventType     `json:"type"`
	OrderID   int64         `json:"order_id"`
	Number    string        `json:"number"`
	OldStatus entity.Status `json:"old_status,omitempty"`
	NewStatus entity.Status `json:"new_status"`
	At        time.Time     `json:"at"`
}
