// Package orderfilter selects subsets of an order snapshot by
// caller-supplied criteria. Filtering is pure and stable: the input slice
// is never reordered and never modified.
package orderfilter

import (
	"errors"
	"strings"
	"time"

	"github.com/Vawe4321/vendor-core/internal/entity"
)

// ErrInvalidRange is returned by Validate for a range whose lower bound
// exceeds its upper bound.
var ErrInvalidRange = errors.New("range lower bound exceeds upper bound")

// RatingRange bounds the review rating joined from the review collaborator.
type RatingRange struct {
	Min float64
	Max float64
}

// DateRange bounds an order's CreatedAt, inclusive on both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Criteria describes one filter request. Nil/empty fields are
// unconstrained. Dimensions combine with AND; values inside a set
// dimension combine with OR.
type Criteria struct {
	Statuses   []entity.Status
	OrderTypes []entity.OrderType
	Rating     *RatingRange
	Dates      *DateRange
	SearchText string
}

// Validate checks range well-formedness. Filtering with invalid criteria
// is a caller bug, surfaced as a value-level error rather than a panic.
func (c Criteria) Validate() error {
	if c.Rating != nil && c.Rating.Min > c.Rating.Max {
		return ErrInvalidRange
	}
	if c.Dates != nil && c.Dates.From.After(c.Dates.To) {
		return ErrInvalidRange
	}
	return nil
}

// Apply returns the orders matching every supplied dimension, preserving
// input order. Ratings are joined by order ID from the review
// collaborator; an order with no rating never matches a rating filter.
func Apply(orders []entity.Order, criteria Criteria, ratings map[int64]float64) []entity.Order {
	search := strings.ToLower(strings.TrimSpace(criteria.SearchText))

	var out []entity.Order
	for _, order := range orders {
		if len(criteria.Statuses) > 0 && !containsStatus(criteria.Statuses, order.Status) {
			continue
		}
		if len(criteria.OrderTypes) > 0 && !containsType(criteria.OrderTypes, order.Type) {
			continue
		}
		if criteria.Rating != nil {
			rating, ok := ratings[order.ID]
			if !ok || rating < criteria.Rating.Min || rating > criteria.Rating.Max {
				continue
			}
		}
		if criteria.Dates != nil {
			if order.CreatedAt.Before(criteria.Dates.From) || order.CreatedAt.After(criteria.Dates.To) {
				continue
			}
		}
		if search != "" && !matchesSearch(order, search) {
			continue
		}
		out = append(out, order)
	}
	return out
}

func containsStatus(set []entity.Status, s entity.Status) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsType(set []entity.OrderType, t entity.OrderType) bool {
	for _, candidate := range set {
		if candidate == t {
			return true
		}
	}
	return false
}

// matchesSearch does a case-insensitive substring match against the order
// number, item names and customer name.
func matchesSearch(order entity.Order, search string) bool {
	if strings.Contains(strings.ToLower(order.Number), search) {
		return true
	}
	if strings.Contains(strings.ToLower(order.Customer.Name), search) {
		return true
	}
	for _, item := range order.Items {
		if strings.Contains(strings.ToLower(item.Name), search) {
			return true
		}
	}
	return false
}
