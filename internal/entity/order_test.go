package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intakeAt = time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC)

func TestNewOrderComputesTotalFromItems(t *testing.T) {
	order, err := NewOrder("ORD-1001", Customer{Name: "Aruzhan", Phone: "+77010000000"}, []OrderItem{
		{Name: "Margherita", Quantity: 2, Price: 12.50},
		{Name: "Cola", Quantity: 3, Price: 1.99},
	}, OrderTypeDelivery, PaymentMethodCard, intakeAt)

	require.NoError(t, err)
	assert.Equal(t, 30.97, order.TotalAmount)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, PaymentPending, order.PaymentStatus)
	assert.Equal(t, intakeAt, order.CreatedAt)
	assert.Equal(t, intakeAt, order.UpdatedAt)
	assert.Nil(t, order.AcceptedAt)
	assert.Nil(t, order.EstimatedTimeMinutes)
}

func TestNewOrderCopiesItems(t *testing.T) {
	items := []OrderItem{{Name: "Plov", Quantity: 1, Price: 14}}

	order, err := NewOrder("ORD-1002", Customer{Name: "Marat"}, items, OrderTypePickup, PaymentMethodCash, intakeAt)
	require.NoError(t, err)

	items[0].Price = 99
	assert.Equal(t, 14.0, order.Items[0].Price)
}

func TestNewOrderValidation(t *testing.T) {
	tests := []struct {
		name      string
		number    string
		items     []OrderItem
		orderType OrderType
	}{
		{name: "missing number", items: []OrderItem{{Name: "Plov", Quantity: 1, Price: 14}}, orderType: OrderTypeDelivery},
		{name: "no items", number: "ORD-1", orderType: OrderTypeDelivery},
		{name: "unknown type", number: "ORD-1", items: []OrderItem{{Name: "Plov", Quantity: 1, Price: 14}}, orderType: OrderType("drone")},
		{name: "unnamed item", number: "ORD-1", items: []OrderItem{{Quantity: 1, Price: 14}}, orderType: OrderTypeDelivery},
		{name: "zero quantity", number: "ORD-1", items: []OrderItem{{Name: "Plov", Quantity: 0, Price: 14}}, orderType: OrderTypeDelivery},
		{name: "negative price", number: "ORD-1", items: []OrderItem{{Name: "Plov", Quantity: 1, Price: -1}}, orderType: OrderTypeDelivery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.number, Customer{Name: "Marat"}, tt.items, tt.orderType, PaymentMethodCash, intakeAt)
			assert.Error(t, err)
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusAccepted, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled, StatusRejected} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("shipped").Valid())
	assert.False(t, Status("").Valid())
}

func TestSubtotal(t *testing.T) {
	assert.Equal(t, 37.50, OrderItem{Name: "Margherita", Quantity: 3, Price: 12.50}.Subtotal())
}
