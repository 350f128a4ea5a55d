package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vawe4321/vendor-core/internal/entity"
)

func delivered(amount float64, estimated, actual int) entity.Order {
	at := time.Date(2024, time.May, 2, 13, 0, 0, 0, time.UTC)
	order := entity.Order{
		Status:      entity.StatusDelivered,
		TotalAmount: amount,
		DeliveredAt: &at,
	}
	if estimated > 0 {
		order.EstimatedTimeMinutes = &estimated
	}
	if actual > 0 {
		order.ActualTimeMinutes = &actual
	}
	return order
}

func TestNetSalesCountsOnlyDelivered(t *testing.T) {
	orders := []entity.Order{
		delivered(40, 0, 0),
		delivered(60, 0, 0),
		{Status: entity.StatusCancelled, TotalAmount: 100},
		{Status: entity.StatusRejected, TotalAmount: 100},
		{Status: entity.StatusPreparing, TotalAmount: 100},
	}

	assert.Equal(t, 100.0, NetSales(orders))
	assert.Equal(t, 50.0, AverageOrderValue(orders))
}

func TestAverageOrderValueEmpty(t *testing.T) {
	assert.Equal(t, 0.0, AverageOrderValue(nil))
	assert.Equal(t, 0.0, AverageOrderValue([]entity.Order{{Status: entity.StatusPending, TotalAmount: 10}}))
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 0.0, PercentChange(0, 0))
	assert.Equal(t, 100.0, PercentChange(50, 0))
	assert.Equal(t, 50.0, PercentChange(75, 50))
	assert.Equal(t, -25.0, PercentChange(75, 100))
}

func TestFunnelConversions(t *testing.T) {
	results := Funnel([]FunnelStage{
		{Name: "impressions", Count: 1000},
		{Name: "menu_opens", Count: 400},
		{Name: "cart_builds", Count: 100},
		{Name: "orders", Count: 50},
	})

	require.Len(t, results, 4)
	assert.Equal(t, 0.0, results[0].ConversionFromPrevious)
	assert.Equal(t, 40.0, results[1].ConversionFromPrevious)
	assert.Equal(t, 25.0, results[2].ConversionFromPrevious)
	assert.Equal(t, 50.0, results[3].ConversionFromPrevious)
}

func TestFunnelPassesBadRatiosThrough(t *testing.T) {
	// A later stage larger than its predecessor is upstream data error;
	// the ratio is surfaced unclamped so it stays detectable.
	results := Funnel([]FunnelStage{
		{Name: "opens", Count: 10},
		{Name: "orders", Count: 30},
	})

	require.Len(t, results, 2)
	assert.Equal(t, 300.0, results[1].ConversionFromPrevious)
}

func TestFunnelZeroPreviousStage(t *testing.T) {
	results := Funnel([]FunnelStage{
		{Name: "opens", Count: 0},
		{Name: "orders", Count: 5},
	})

	require.Len(t, results, 2)
	assert.Equal(t, 0.0, results[1].ConversionFromPrevious)
}

func TestKitchenDelay(t *testing.T) {
	orders := []entity.Order{
		delivered(10, 20, 30), // 10 late
		delivered(10, 20, 16), // early, clamps to 0
		delivered(10, 20, 24), // 4 late
		delivered(10, 0, 30),  // no estimate, excluded
		delivered(10, 20, 0),  // no actual, excluded
		{Status: entity.StatusCancelled},
	}

	assert.InDelta(t, (10.0+0.0+4.0)/3.0, KitchenDelay(orders), 1e-9)
	assert.Equal(t, 0.0, KitchenDelay(nil))
}

func TestRejectionRate(t *testing.T) {
	orders := []entity.Order{
		{Status: entity.StatusRejected},
		{Status: entity.StatusCancelled},
		{Status: entity.StatusDelivered},
		{Status: entity.StatusPreparing},
	}

	assert.Equal(t, 0.5, RejectionRate(orders))
	assert.Equal(t, 0.0, RejectionRate(nil))
}

func TestSummarize(t *testing.T) {
	current := []entity.Order{delivered(120, 0, 0), delivered(80, 0, 0)}
	previous := []entity.Order{delivered(100, 0, 0)}

	summary := Summarize(current, previous)

	assert.Equal(t, 200.0, summary.NetSales)
	assert.Equal(t, 100.0, summary.NetSalesChange)
	assert.Equal(t, 2, summary.OrderCount)
	assert.Equal(t, 100.0, summary.OrderCountChange)
	assert.Equal(t, 100.0, summary.AverageOrderValue)
	assert.Equal(t, 0.0, summary.AverageOrderValChange)
}

func TestLifecycleFunnel(t *testing.T) {
	at := time.Date(2024, time.May, 2, 12, 0, 0, 0, time.UTC)
	accepted := entity.Order{Status: entity.StatusPreparing, AcceptedAt: &at}
	done := entity.Order{Status: entity.StatusDelivered, AcceptedAt: &at, ReadyAt: &at, DeliveredAt: &at}
	rejected := entity.Order{Status: entity.StatusRejected}

	results := LifecycleFunnel([]entity.Order{accepted, done, rejected})

	require.Len(t, results, 4)
	assert.Equal(t, int64(3), results[0].Count)
	assert.Equal(t, int64(2), results[1].Count)
	assert.Equal(t, int64(1), results[2].Count)
	assert.Equal(t, int64(1), results[3].Count)
	assert.InDelta(t, 66.666, results[1].ConversionFromPrevious, 0.01)
	assert.Equal(t, 50.0, results[2].ConversionFromPrevious)
	assert.Equal(t, 100.0, results[3].ConversionFromPrevious)
}
