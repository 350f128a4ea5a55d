package orderfilter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vawe4321/vendor-core/internal/entity"
)

var day = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func order(id int64, number string, status entity.Status, orderType entity.OrderType, createdAt time.Time) entity.Order {
	return entity.Order{
		ID:       id,
		Number:   number,
		Status:   status,
		Type:     orderType,
		Customer: entity.Customer{Name: "Dana Serik"},
		Items: []entity.OrderItem{
			{Name: "Lagman", Quantity: 1, Price: 9.00},
		},
		CreatedAt: createdAt,
	}
}

func TestApplyAndAcrossDimensionsOrWithin(t *testing.T) {
	orders := []entity.Order{
		order(1, "ORD-1", entity.StatusPreparing, entity.OrderTypeDelivery, day),
		order(2, "ORD-2", entity.StatusPreparing, entity.OrderTypeDelivery, day),
		order(3, "ORD-3", entity.StatusReady, entity.OrderTypePickup, day),
		order(4, "ORD-4", entity.StatusPending, entity.OrderTypeDelivery, day),
		order(5, "ORD-5", entity.StatusPending, entity.OrderTypeDelivery, day),
	}

	got := Apply(orders, Criteria{
		Statuses:   []entity.Status{entity.StatusPreparing, entity.StatusReady},
		OrderTypes: []entity.OrderType{entity.OrderTypeDelivery},
	}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "ORD-1", got[0].Number)
	assert.Equal(t, "ORD-2", got[1].Number)
}

func TestApplyPreservesInputOrder(t *testing.T) {
	orders := []entity.Order{
		order(3, "ORD-30", entity.StatusDelivered, entity.OrderTypePickup, day),
		order(1, "ORD-10", entity.StatusDelivered, entity.OrderTypePickup, day),
		order(2, "ORD-20", entity.StatusDelivered, entity.OrderTypePickup, day),
	}

	got := Apply(orders, Criteria{Statuses: []entity.Status{entity.StatusDelivered}}, nil)

	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestApplySearchText(t *testing.T) {
	first := order(1, "ORD-77", entity.StatusPending, entity.OrderTypeDelivery, day)
	second := order(2, "ORD-78", entity.StatusPending, entity.OrderTypeDelivery, day)
	second.Items = []entity.OrderItem{{Name: "Pepperoni Pizza", Quantity: 1, Price: 11.00}}
	third := order(3, "ORD-79", entity.StatusPending, entity.OrderTypeDelivery, day)
	third.Customer = entity.Customer{Name: "Bekzat"}

	orders := []entity.Order{first, second, third}

	assert.Len(t, Apply(orders, Criteria{SearchText: "ord-77"}, nil), 1)
	assert.Len(t, Apply(orders, Criteria{SearchText: "PEPPERONI"}, nil), 1)
	assert.Len(t, Apply(orders, Criteria{SearchText: "bekz"}, nil), 1)
	assert.Empty(t, Apply(orders, Criteria{SearchText: "sushi"}, nil))
}

func TestApplyDateRangeInclusive(t *testing.T) {
	orders := []entity.Order{
		order(1, "ORD-1", entity.StatusPending, entity.OrderTypeDelivery, day.AddDate(0, 0, -2)),
		order(2, "ORD-2", entity.StatusPending, entity.OrderTypeDelivery, day),
		order(3, "ORD-3", entity.StatusPending, entity.OrderTypeDelivery, day.AddDate(0, 0, 2)),
	}

	got := Apply(orders, Criteria{Dates: &DateRange{From: day, To: day.AddDate(0, 0, 2)}}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestApplyRatingJoin(t *testing.T) {
	orders := []entity.Order{
		order(1, "ORD-1", entity.StatusDelivered, entity.OrderTypeDelivery, day),
		order(2, "ORD-2", entity.StatusDelivered, entity.OrderTypeDelivery, day),
		order(3, "ORD-3", entity.StatusDelivered, entity.OrderTypeDelivery, day),
	}
	ratings := map[int64]float64{1: 4.5, 2: 2.0}

	got := Apply(orders, Criteria{Rating: &RatingRange{Min: 4, Max: 5}}, ratings)

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	// Unrated orders never match a rating filter.
	got = Apply(orders, Criteria{Rating: &RatingRange{Min: 0, Max: 5}}, ratings)
	assert.Len(t, got, 2)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Criteria{}.Validate())
	assert.ErrorIs(t, Criteria{Rating: &RatingRange{Min: 5, Max: 1}}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, Criteria{Dates: &DateRange{From: day, To: day.AddDate(0, 0, -1)}}.Validate(), ErrInvalidRange)
	assert.NoError(t, Criteria{Dates: &DateRange{From: day, To: day}}.Validate())
}
