package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/Vawe4321/vendor-core/internal/database"
	"github.com/Vawe4321/vendor-core/internal/entity"
	"github.com/Vawe4321/vendor-core/internal/lifecycle"
	"github.com/Vawe4321/vendor-core/internal/repository/review"
)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Orders seeds example orders across the lifecycle, built through the
// real constructor and transition engine so every sample satisfies the
// timestamp invariants.
func (s *Seeder) Orders(ctx context.Context) error {
	base := time.Now().UTC().Add(-6 * time.Hour)

	samples, err := sampleOrders(base)
	if err != nil {
		return err
	}

	for i := range samples {
		order := samples[i]
		_, err := s.db.NewInsert().Model(&order).
			On("CONFLICT (number) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		samples[i] = order
	}

	reviews := []review.Review{
		{OrderID: samples[0].ID, Rating: 4.5, Comment: "quick and hot", CreatedAt: base.Add(2 * time.Hour)},
		{OrderID: samples[1].ID, Rating: 3.0, CreatedAt: base.Add(3 * time.Hour)},
	}
	for i := range reviews {
		if reviews[i].OrderID == 0 {
			continue
		}
		if _, err := s.db.NewInsert().Model(&reviews[i]).Exec(ctx); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	}
	return nil
}

func sampleOrders(base time.Time) ([]entity.Order, error) {
	deliveredEstimate := 25

	delivered, err := entity.NewOrder("ORD-1000", entity.Customer{Name: "Aliya", Phone: "+7 700 111 2233", Address: "12 Abay Ave"}, []entity.OrderItem{
		{Name: "Margherita", Quantity: 1, Price: 12.50},
		{Name: "Lemonade", Quantity: 2, Price: 2.50, Customizations: []string{"no ice"}},
	}, entity.OrderTypeDelivery, entity.PaymentMethodCard, base)
	if err != nil {
		return nil, err
	}
	for i, step := range []entity.Status{entity.StatusAccepted, entity.StatusPreparing, entity.StatusReady, entity.StatusDelivered} {
		delivered, err = lifecycle.Transition(delivered, step, base.Add(time.Duration(i+1)*8*time.Minute))
		if err != nil {
			return nil, fmt.Errorf("seed delivered order: %w", err)
		}
	}
	delivered.EstimatedTimeMinutes = &deliveredEstimate
	delivered.PaymentStatus = entity.PaymentPaid

	preparing, err := entity.NewOrder("ORD-1001", entity.Customer{Name: "Bekzat", Phone: "+7 700 444 5566"}, []entity.OrderItem{
		{Name: "Plov", Quantity: 2, Price: 14.00},
	}, entity.OrderTypePickup, entity.PaymentMethodCash, base.Add(time.Hour))
	if err != nil {
		return nil, err
	}
	for i, step := range []entity.Status{entity.StatusAccepted, entity.StatusPreparing} {
		preparing, err = lifecycle.Transition(preparing, step, base.Add(time.Hour+time.Duration(i+1)*5*time.Minute))
		if err != nil {
			return nil, fmt.Errorf("seed preparing order: %w", err)
		}
	}

	rejected, err := entity.NewOrder("ORD-1002", entity.Customer{Name: "Dana"}, []entity.OrderItem{
		{Name: "Lagman", Quantity: 1, Price: 9.00},
	}, entity.OrderTypeDelivery, entity.PaymentMethodOnline, base.Add(2*time.Hour))
	if err != nil {
		return nil, err
	}
	rejected, err = lifecycle.Transition(rejected, entity.StatusRejected, base.Add(2*time.Hour+2*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("seed rejected order: %w", err)
	}

	pending, err := entity.NewOrder("ORD-1003", entity.Customer{Name: "Marat"}, []entity.OrderItem{
		{Name: "Manty", Quantity: 4, Price: 3.00},
	}, entity.OrderTypePickup, entity.PaymentMethodCash, base.Add(3*time.Hour))
	if err != nil {
		return nil, err
	}

	return []entity.Order{delivered, preparing, rejected, pending}, nil
}
