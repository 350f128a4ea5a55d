package dto

import "time"

// CustomerPayload mirrors the customer reference carried on an order.
type CustomerPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderItemPayload is one order line as exposed via transport layers.
type OrderItemPayload struct {
	Name           string   `json:"name"`
	Quantity       int      `json:"quantity"`
	Price          float64  `json:"price"`
	Customizations []string `json:"customizations,omitempty"`
}

// OrderResponse represents an order as exposed via transport layers.
// NextStatuses lists the legal transitions so clients never have to
// hardcode the lifecycle graph.
type OrderResponse struct {
	ID            int64              `json:"id"`
	Number        string             `json:"number"`
	Customer      CustomerPayload    `json:"customer"`
	Items         []OrderItemPayload `json:"items"`
	TotalAmount   float64            `json:"total_amount"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"payment_status"`
	PaymentMethod string             `json:"payment_method"`
	OrderType     string             `json:"order_type"`
	NextStatuses  []string           `json:"next_statuses,omitempty"`

	EstimatedTimeMinutes *int `json:"estimated_time_minutes,omitempty"`
	ActualTimeMinutes    *int `json:"actual_time_minutes,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}
