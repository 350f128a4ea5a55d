package order

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vawe4321/vendor-core/internal/clock"
	"github.com/Vawe4321/vendor-core/internal/entity"
	"github.com/Vawe4321/vendor-core/internal/orderfilter"
	"github.com/Vawe4321/vendor-core/pkg/errorbank"
)

var testBase = time.Date(2024, time.April, 5, 10, 0, 0, 0, time.UTC)

func testService(store *mockStore, ratings *mockRatings) (*Service, *mapCache, *mockPublisher) {
	cacheStore := newMapCache()
	publisher := &mockPublisher{topic: "orders.status-events"}
	svc := &Service{
		store:     store,
		ratings:   ratings,
		cache:     cacheStore,
		cacheTTL:  time.Minute,
		logger:    zap.NewNop(),
		publisher: publisher,
		clock:     clock.Fixed{At: testBase.Add(15 * time.Minute)},
		messaging: messagingConfig{enabled: true, topic: publisher.topic},
	}
	return svc, cacheStore, publisher
}

func storedOrder(id int64, status entity.Status) entity.Order {
	return entity.Order{
		ID:       id,
		Number:   "ORD-2001",
		Status:   status,
		Type:     entity.OrderTypeDelivery,
		Customer: entity.Customer{Name: "Marat"},
		Items: []entity.OrderItem{
			{Name: "Plov", Quantity: 1, Price: 14.00},
		},
		TotalAmount: 14.00,
		CreatedAt:   testBase,
		UpdatedAt:   testBase,
	}
}

func TestCreateValidatesInput(t *testing.T) {
	store := newMockStore()
	svc, _, _ := testService(store, &mockRatings{})

	_, err := svc.Create(context.Background(), CreateInput{
		Number:        "ORD-1",
		Type:          entity.OrderTypeDelivery,
		PaymentMethod: entity.PaymentMethodCash,
	})

	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.KindOf(err))
	assert.Empty(t, store.orders)
}

func TestCreatePersistsAndPublishes(t *testing.T) {
	store := newMockStore()
	svc, cacheStore, publisher := testService(store, &mockRatings{})

	order, err := svc.Create(context.Background(), CreateInput{
		Number:   "ORD-1",
		Customer: entity.Customer{Name: "Marat"},
		Items: []entity.OrderItem{
			{Name: "Plov", Quantity: 2, Price: 14.00},
		},
		Type:          entity.OrderTypePickup,
		PaymentMethod: entity.PaymentMethodCash,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.Equal(t, 28.00, order.TotalAmount)
	assert.Len(t, store.orders, 1)
	assert.NotEmpty(t, cacheStore.entries)

	require.Len(t, publisher.payloads, 1)
	var event Event
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &event))
	assert.Equal(t, EventOrderCreated, event.Type)
	assert.Equal(t, entity.StatusPending, event.NewStatus)
}

func TestTransitionAcceptsWithEstimate(t *testing.T) {
	store := newMockStore(storedOrder(1, entity.StatusPending))
	svc, cacheStore, publisher := testService(store, &mockRatings{})

	estimate := 30
	order, err := svc.Transition(context.Background(), 1, entity.StatusAccepted, &estimate)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, order.Status)
	require.NotNil(t, order.AcceptedAt)
	assert.Equal(t, testBase.Add(15*time.Minute), *order.AcceptedAt)
	require.NotNil(t, order.EstimatedTimeMinutes)
	assert.Equal(t, 30, *order.EstimatedTimeMinutes)

	require.NotNil(t, store.lastWrite)
	assert.Equal(t, entity.StatusAccepted, store.lastWrite.Status)
	assert.Contains(t, cacheStore.deleted, "orders:1")

	require.Len(t, publisher.payloads, 1)
	var event Event
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &event))
	assert.Equal(t, EventOrderStatusChanged, event.Type)
	assert.Equal(t, entity.StatusPending, event.OldStatus)
	assert.Equal(t, entity.StatusAccepted, event.NewStatus)
}

func TestTransitionRejectsIllegalEdge(t *testing.T) {
	store := newMockStore(storedOrder(1, entity.StatusDelivered))
	svc, _, publisher := testService(store, &mockRatings{})

	_, err := svc.Transition(context.Background(), 1, entity.StatusPreparing, nil)

	require.Error(t, err)
	assert.Equal(t, errorbank.KindUnprocessableEntity, errorbank.KindOf(err))
	assert.Zero(t, store.casCalls)
	assert.Empty(t, publisher.payloads)
}

func TestTransitionUnknownStatus(t *testing.T) {
	store := newMockStore(storedOrder(1, entity.StatusPending))
	svc, _, _ := testService(store, &mockRatings{})

	_, err := svc.Transition(context.Background(), 1, entity.Status("vaporised"), nil)

	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.KindOf(err))
}

func TestTransitionRetriesStaleWrite(t *testing.T) {
	store := newMockStore(storedOrder(1, entity.StatusPending))
	store.staleWrites = 1
	svc, _, _ := testService(store, &mockRatings{})

	order, err := svc.Transition(context.Background(), 1, entity.StatusAccepted, nil)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, order.Status)
	assert.Equal(t, 2, store.casCalls)
}

func TestTransitionConflictAfterExhaustedRetries(t *testing.T) {
	store := newMockStore(storedOrder(1, entity.StatusPending))
	store.staleWrites = casAttempts
	svc, _, publisher := testService(store, &mockRatings{})

	_, err := svc.Transition(context.Background(), 1, entity.StatusAccepted, nil)

	require.Error(t, err)
	assert.Equal(t, errorbank.KindConflict, errorbank.KindOf(err))
	assert.Equal(t, casAttempts, store.casCalls)
	assert.Empty(t, publisher.payloads)
}

func TestTransitionNotFound(t *testing.T) {
	svc, _, _ := testService(newMockStore(), &mockRatings{})

	_, err := svc.Transition(context.Background(), 42, entity.StatusAccepted, nil)

	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.KindOf(err))
}

func TestListAppliesCriteriaAndRatingJoin(t *testing.T) {
	first := storedOrder(1, entity.StatusDelivered)
	second := storedOrder(2, entity.StatusDelivered)
	second.Number = "ORD-2002"
	third := storedOrder(3, entity.StatusCancelled)
	third.Number = "ORD-2003"

	store := newMockStore(first, second, third)
	ratings := &mockRatings{ratings: map[int64]float64{1: 5, 2: 3}}
	svc, _, _ := testService(store, ratings)

	got, err := svc.List(context.Background(), orderfilter.Criteria{
		Statuses: []entity.Status{entity.StatusDelivered},
		Rating:   &orderfilter.RatingRange{Min: 4, Max: 5},
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, 1, ratings.calls)
}

func TestListSkipsRatingJoinWithoutRatingFilter(t *testing.T) {
	store := newMockStore(storedOrder(1, entity.StatusDelivered))
	ratings := &mockRatings{}
	svc, _, _ := testService(store, ratings)

	_, err := svc.List(context.Background(), orderfilter.Criteria{})

	require.NoError(t, err)
	assert.Zero(t, ratings.calls)
}

func TestListRejectsInvalidCriteria(t *testing.T) {
	svc, _, _ := testService(newMockStore(), &mockRatings{})

	_, err := svc.List(context.Background(), orderfilter.Criteria{
		Rating: &orderfilter.RatingRange{Min: 5, Max: 1},
	})

	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.KindOf(err))
}

func TestGetFallsBackToStoreOnCacheMiss(t *testing.T) {
	store := newMockStore(storedOrder(1, entity.StatusPreparing))
	svc, cacheStore, _ := testService(store, &mockRatings{})

	order, err := svc.Get(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPreparing, order.Status)
	assert.Contains(t, cacheStore.entries, "orders:1")
}
