package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Vawe4321/vendor-core/internal/config"
	"github.com/Vawe4321/vendor-core/internal/messaging"
	ordersvc "github.com/Vawe4321/vendor-core/internal/service/order"
	"github.com/Vawe4321/vendor-core/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Vawe4321/vendor-core/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderEventsHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderEventsHandler consumes order events from the bus. Status
// changes are the notification fan-out point: customers and kitchen staff
// learn about transitions from here, never from the lifecycle engine
// itself.
func NewOrderEventsHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}

		switch event.Type {
		case ordersvc.EventOrderCreated:
			logger.Info("order placed",
				zap.Int64("id", event.OrderID),
				zap.String("number", event.Number),
			)
		case ordersvc.EventOrderStatusChanged:
			logger.Info("order status changed",
				zap.Int64("id", event.OrderID),
				zap.String("number", event.Number),
				zap.String("old_status", string(event.OldStatus)),
				zap.String("new_status", string(event.NewStatus)),
				zap.Time("at", event.At),
			)
		default:
			logger.Warn("unknown order event type", zap.String("type", string(event.Type)))
		}

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
