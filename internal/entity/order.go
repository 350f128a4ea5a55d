package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/uptrace/bun"
)

// Status enumerates the closed set of order lifecycle states. The set is
// fixed; transitions between states are owned by the lifecycle package.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPreparing, StatusReady,
		StatusDelivered, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// OrderType distinguishes how the order leaves the restaurant.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	return t == OrderTypeDelivery || t == OrderTypePickup
}

// PaymentStatus tracks the settlement state of an order's payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// PaymentMethod names how the customer pays.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCard   PaymentMethod = "card"
)

// Customer is a read-only reference to the person who placed the order.
// The customer record itself is owned by an external system; the order
// keeps a denormalised copy for display and search.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// OrderItem is a single line of an order. The item set is fixed at
// creation; modifications require a new order.
type OrderItem struct {
	Name           string   `json:"name"`
	Quantity       int      `json:"quantity"`
	Price          float64  `json:"price"`
	Customizations []string `json:"customizations,omitempty"`
}

// Subtotal returns price times quantity for the line.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order represents one customer order placed with the restaurant. Orders
// are treated as values: the lifecycle engine returns modified copies and
// never mutates its input, so snapshots can be read concurrently.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID          int64       `bun:",pk,autoincrement" json:"id"`
	Number      string      `bun:"number" json:"number"`
	Customer    Customer    `bun:"customer,type:jsonb" json:"customer"`
	Items       []OrderItem `bun:"items,type:jsonb" json:"items"`
	TotalAmount float64     `bun:"total_amount" json:"total_amount"`

	Status        Status        `bun:"status" json:"status"`
	PaymentStatus PaymentStatus `bun:"payment_status" json:"payment_status"`
	PaymentMethod PaymentMethod `bun:"payment_method" json:"payment_method"`
	Type          OrderType     `bun:"order_type" json:"order_type"`

	// EstimatedTimeMinutes is set when the restaurant accepts the order.
	// ActualTimeMinutes is derived on delivery and never set directly.
	EstimatedTimeMinutes *int `bun:"estimated_time_minutes,nullzero" json:"estimated_time_minutes,omitempty"`
	ActualTimeMinutes    *int `bun:"actual_time_minutes,nullzero" json:"actual_time_minutes,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at"`

	// Milestone timestamps exist only once the corresponding status has
	// been reached and are immutable afterwards.
	AcceptedAt  *time.Time `bun:"accepted_at,nullzero" json:"accepted_at,omitempty"`
	ReadyAt     *time.Time `bun:"ready_at,nullzero" json:"ready_at,omitempty"`
	DeliveredAt *time.Time `bun:"delivered_at,nullzero" json:"delivered_at,omitempty"`
}

// NewOrder builds a pending order from intake data. The item list must be
// non-empty with positive quantities and non-negative prices; the total is
// computed from the items so the sum invariant holds by construction.
func NewOrder(number string, customer Customer, items []OrderItem, orderType OrderType, method PaymentMethod, createdAt time.Time) (Order, error) {
	if number == "" {
		return Order{}, fmt.Errorf("order number is required")
	}
	if !orderType.Valid() {
		return Order{}, fmt.Errorf("unknown order type: %q", orderType)
	}
	if len(items) == 0 {
		return Order{}, fmt.Errorf("order %s has no items", number)
	}

	copied := make([]OrderItem, len(items))
	var total float64
	for idx, item := range items {
		if item.Name == "" {
			return Order{}, fmt.Errorf("order %s: item %d has no name", number, idx)
		}
		if item.Quantity <= 0 {
			return Order{}, fmt.Errorf("order %s: item %q has non-positive quantity %d", number, item.Name, item.Quantity)
		}
		if item.Price < 0 {
			return Order{}, fmt.Errorf("order %s: item %q has negative price", number, item.Name)
		}
		copied[idx] = item
		total += item.Subtotal()
	}

	return Order{
		Number:        number,
		Customer:      customer,
		Items:         copied,
		TotalAmount:   round2(total),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		PaymentMethod: method,
		Type:          orderType,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
