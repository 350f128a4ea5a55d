// Package analytics computes aggregate and comparative metrics over order
// populations. Every function is total: empty input yields documented zero
// defaults instead of an error, so dashboards never have to special-case
// quiet periods.
package analytics

import (
	"github.com/Vawe4321/vendor-core/internal/entity"
)

// FunnelStage is one step of a conversion pipeline, e.g. impressions ->
// menu opens -> orders.
type FunnelStage struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// FunnelResult annotates a stage with its conversion from the previous
// stage, in percent.
type FunnelResult struct {
	Name                   string  `json:"name"`
	Count                  int64   `json:"count"`
	ConversionFromPrevious float64 `json:"conversion_from_previous"`
}

// Summary bundles the dashboard metrics for a current period against a
// previous period of equal length.
type Summary struct {
	NetSales              float64 `json:"net_sales"`
	NetSalesChange        float64 `json:"net_sales_change"`
	OrderCount            int     `json:"order_count"`
	OrderCountChange      float64 `json:"order_count_change"`
	AverageOrderValue     float64 `json:"average_order_value"`
	AverageOrderValChange float64 `json:"average_order_value_change"`
	KitchenDelayMinutes   float64 `json:"kitchen_delay_minutes"`
	RejectionRate         float64 `json:"rejection_rate"`
}

// NetSales sums TotalAmount over delivered orders. Cancelled and rejected
// orders contribute nothing.
func NetSales(orders []entity.Order) float64 {
	var total float64
	for _, order := range orders {
		if order.Status == entity.StatusDelivered {
			total += order.TotalAmount
		}
	}
	return total
}

// DeliveredCount counts orders that reached delivery.
func DeliveredCount(orders []entity.Order) int {
	var n int
	for _, order := range orders {
		if order.Status == entity.StatusDelivered {
			n++
		}
	}
	return n
}

// AverageOrderValue is net sales divided by delivered order count, zero
// when nothing was delivered.
func AverageOrderValue(orders []entity.Order) float64 {
	delivered := DeliveredCount(orders)
	if delivered == 0 {
		return 0
	}
	return NetSales(orders) / float64(delivered)
}

// PercentChange returns the relative change from previous to current in
// percent. A zero previous with positive current reads as +100 and two
// zeroes as 0, keeping the function total and monotonic without dividing
// by zero.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// Funnel computes stage-over-stage conversion. A conversion above 100
// means the upstream data is not a funnel; the ratio is passed through
// unmodified so bad input stays visible.
func Funnel(stages []FunnelStage) []FunnelResult {
	out := make([]FunnelResult, 0, len(stages))
	for i, stage := range stages {
		result := FunnelResult{Name: stage.Name, Count: stage.Count}
		if i > 0 && stages[i-1].Count > 0 {
			result.ConversionFromPrevious = float64(stage.Count) / float64(stages[i-1].Count) * 100
		}
		out = append(out, result)
	}
	return out
}

// KitchenDelay averages max(0, actual-estimated) minutes over delivered
// orders carrying both fields. Orders missing either field are excluded
// from the average rather than counted as zero.
func KitchenDelay(orders []entity.Order) float64 {
	var total float64
	var n int
	for _, order := range orders {
		if order.Status != entity.StatusDelivered {
			continue
		}
		if order.ActualTimeMinutes == nil || order.EstimatedTimeMinutes == nil {
			continue
		}
		delay := *order.ActualTimeMinutes - *order.EstimatedTimeMinutes
		if delay < 0 {
			delay = 0
		}
		total += float64(delay)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// RejectionRate is the share of orders that ended rejected or cancelled,
// zero for an empty population.
func RejectionRate(orders []entity.Order) float64 {
	if len(orders) == 0 {
		return 0
	}
	var lost int
	for _, order := range orders {
		if order.Status == entity.StatusRejected || order.Status == entity.StatusCancelled {
			lost++
		}
	}
	return float64(lost) / float64(len(orders))
}

// Summarize computes the comparison dashboard for current versus previous
// period populations.
func Summarize(current, previous []entity.Order) Summary {
	currentSales := NetSales(current)
	previousSales := NetSales(previous)
	currentAOV := AverageOrderValue(current)
	previousAOV := AverageOrderValue(previous)

	return Summary{
		NetSales:              currentSales,
		NetSalesChange:        PercentChange(currentSales, previousSales),
		OrderCount:            DeliveredCount(current),
		OrderCountChange:      PercentChange(float64(DeliveredCount(current)), float64(DeliveredCount(previous))),
		AverageOrderValue:     currentAOV,
		AverageOrderValChange: PercentChange(currentAOV, previousAOV),
		KitchenDelayMinutes:   KitchenDelay(current),
		RejectionRate:         RejectionRate(current),
	}
}

// LifecycleFunnel derives a funnel from an order population by counting
// how many orders reached each milestone of the happy path. An order in a
// later state also counts toward every earlier stage.
func LifecycleFunnel(orders []entity.Order) []FunnelResult {
	reached := func(target entity.Status) int64 {
		var n int64
		for _, order := range orders {
			if reachedStatus(order, target) {
				n++
			}
		}
		return n
	}

	return Funnel([]FunnelStage{
		{Name: "placed", Count: int64(len(orders))},
		{Name: "accepted", Count: reached(entity.StatusAccepted)},
		{Name: "ready", Count: reached(entity.StatusReady)},
		{Name: "delivered", Count: reached(entity.StatusDelivered)},
	})
}

// reachedStatus checks milestone stamps rather than the current status so
// that, say, a delivered order still counts toward the accepted stage.
func reachedStatus(order entity.Order, target entity.Status) bool {
	switch target {
	case entity.StatusAccepted:
		return order.AcceptedAt != nil
	case entity.StatusReady:
		return order.ReadyAt != nil
	case entity.StatusDelivered:
		return order.DeliveredAt != nil
	}
	return false
}
