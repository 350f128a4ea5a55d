// Package review reads customer review rows. Ratings live outside the
// order record; this repository supplies the join data consumed by rating
// filters.
package review

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/Vawe4321/vendor-core/internal/database"
)

var repoTracer = otel.Tracer("github.com/Vawe4321/vendor-core/repository/review")

// Review is one customer review attached to an order.
type Review struct {
	bun.BaseModel `bun:"table:reviews"`

	ID        int64     `bun:",pk,autoincrement" json:"id"`
	OrderID   int64     `bun:"order_id" json:"order_id"`
	Rating    float64   `bun:"rating" json:"rating"`
	Comment   string    `bun:"comment,nullzero" json:"comment,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Repository reads review rows from the read replica.
type Repository struct {
	reader *bun.DB
	writer *bun.DB
}

// NewRepository wires the review repository.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader, writer: conns.Writer}
}

// Create persists a review.
func (r *Repository) Create(ctx context.Context, review *Review) error {
	ctx, span := repoTracer.Start(ctx, "ReviewRepository.Create")
	defer span.End()

	_, err := r.writer.NewInsert().Model(review).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// RatingsByOrderIDs returns order id -> rating for the given orders. An
// order with multiple reviews keeps the latest one.
func (r *Repository) RatingsByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64]float64, error) {
	if len(orderIDs) == 0 {
		return map[int64]float64{}, nil
	}

	ctx, span := repoTracer.Start(ctx, "ReviewRepository.RatingsByOrderIDs")
	defer span.End()

	var reviews []Review
	err := r.reader.NewSelect().Model(&reviews).
		Where("order_id IN (?)", bun.In(orderIDs)).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}

	ratings := make(map[int64]float64, len(reviews))
	for _, review := range reviews {
		ratings[review.OrderID] = review.Rating
	}
	return ratings, nil
}
