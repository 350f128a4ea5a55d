// Package lifecycle owns the order status transition graph. Every consumer
// of order state goes through this package, so there is a single source of
// truth for which moves are legal and which timestamps they stamp.
package lifecycle

import (
	"errors"
	"math"
	"time"

	"github.com/Vawe4321/vendor-core/internal/entity"
)

// ErrInvalidTransition is returned when the requested edge does not exist
// in the transition graph, including any move out of a terminal status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrNonMonotonicTimestamp is returned when the supplied time precedes the
// order's latest recorded timestamp.
var ErrNonMonotonicTimestamp = errors.New("transition timestamp precedes order history")

// transitions is the complete set of legal edges. Statuses absent from a
// target set, and statuses with an empty target set, have no outgoing
// edges.
var transitions = map[entity.Status]map[entity.Status]bool{
	entity.StatusPending:   {entity.StatusAccepted: true, entity.StatusRejected: true},
	entity.StatusAccepted:  {entity.StatusPreparing: true, entity.StatusCancelled: true},
	entity.StatusPreparing: {entity.StatusReady: true, entity.StatusCancelled: true},
	entity.StatusReady:     {entity.StatusDelivered: true, entity.StatusCancelled: true},
	entity.StatusDelivered: {},
	entity.StatusCancelled: {},
	entity.StatusRejected:  {},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to entity.Status) bool {
	targets := transitions[from]
	return targets != nil && targets[to]
}

// Terminal reports whether the status has no outgoing edges.
func Terminal(s entity.Status) bool {
	targets, known := transitions[s]
	return known && len(targets) == 0
}

// NextStatuses returns the legal targets from the given status, in a fixed
// display order.
func NextStatuses(from entity.Status) []entity.Status {
	ordered := []entity.Status{
		entity.StatusAccepted, entity.StatusPreparing, entity.StatusReady,
		entity.StatusDelivered, entity.StatusCancelled, entity.StatusRejected,
	}
	var out []entity.Status
	for _, s := range ordered {
		if CanTransition(from, s) {
			out = append(out, s)
		}
	}
	return out
}

// Transition moves an order to the target status at the given time. The
// input is never mutated; on success a modified copy is returned with
// UpdatedAt bumped, the milestone timestamp stamped when the target is
// accepted/ready/delivered, and ActualTimeMinutes derived on delivery.
func Transition(order entity.Order, target entity.Status, at time.Time) (entity.Order, error) {
	if !CanTransition(order.Status, target) {
		return entity.Order{}, ErrInvalidTransition
	}
	if at.Before(order.UpdatedAt) {
		return entity.Order{}, ErrNonMonotonicTimestamp
	}

	// Shallow copy is safe: Items are immutable after creation and every
	// pointer field set below gets a fresh allocation.
	next := order
	next.Status = target
	next.UpdatedAt = at

	switch target {
	case entity.StatusAccepted:
		stamp := at
		next.AcceptedAt = &stamp
	case entity.StatusReady:
		stamp := at
		next.ReadyAt = &stamp
	case entity.StatusDelivered:
		stamp := at
		next.DeliveredAt = &stamp
		if next.AcceptedAt != nil {
			minutes := int(math.Round(at.Sub(*next.AcceptedAt).Seconds() / 60))
			next.ActualTimeMinutes = &minutes
		}
	}

	return next, nil
}
