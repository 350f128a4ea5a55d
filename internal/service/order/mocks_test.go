package order

import (
	"context"
	"time"

	"github.com/Vawe4321/vendor-core/internal/cache"
	"github.com/Vawe4321/vendor-core/internal/entity"
	"github.com/Vawe4321/vendor-core/internal/messaging"
	repo "github.com/Vawe4321/vendor-core/internal/repository/order"
)

// mockStore implements Store for testing.
type mockStore struct {
	orders map[int64]entity.Order

	createErr   error
	listErr     error
	staleWrites int // first N CAS calls fail as stale

	casCalls  int
	lastWrite *entity.Order
}

func newMockStore(orders ...entity.Order) *mockStore {
	m := &mockStore{orders: make(map[int64]entity.Order)}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockStore) Create(_ context.Context, order *entity.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = int64(len(m.orders) + 1)
	m.orders[order.ID] = *order
	return nil
}

func (m *mockStore) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := order
	return &copied, nil
}

func (m *mockStore) GetByNumber(_ context.Context, number string) (*entity.Order, error) {
	for _, order := range m.orders {
		if order.Number == number {
			copied := order
			return &copied, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *mockStore) List(_ context.Context, _, _ time.Time) ([]entity.Order, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]entity.Order, 0, len(m.orders))
	for id := int64(1); id <= int64(len(m.orders)); id++ {
		if order, ok := m.orders[id]; ok {
			out = append(out, order)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateStatusCAS(_ context.Context, order *entity.Order, readUpdatedAt time.Time) error {
	m.casCalls++
	if m.casCalls <= m.staleWrites {
		// Simulate a concurrent writer bumping the row between read and
		// write.
		stored := m.orders[order.ID]
		stored.UpdatedAt = stored.UpdatedAt.Add(time.Millisecond)
		m.orders[order.ID] = stored
		return repo.ErrStaleOrder
	}
	stored, ok := m.orders[order.ID]
	if !ok || !stored.UpdatedAt.Equal(readUpdatedAt) {
		return repo.ErrStaleOrder
	}
	m.orders[order.ID] = *order
	m.lastWrite = order
	return nil
}

// mockRatings implements Ratings.
type mockRatings struct {
	ratings map[int64]float64
	err     error
	calls   int
}

func (m *mockRatings) RatingsByOrderIDs(_ context.Context, _ []int64) (map[int64]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.ratings, nil
}

// mapCache is an in-memory cache.Store.
type mapCache struct {
	entries map[string][]byte
	deleted []string
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return value, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	c.deleted = append(c.deleted, key)
	return nil
}

// mockPublisher captures published events.
type mockPublisher struct {
	topic    string
	payloads [][]byte
}

func (m *mockPublisher) Publish(_ context.Context, _ []byte, value []byte) error {
	m.payloads = append(m.payloads, value)
	return nil
}

func (m *mockPublisher) Consume(ctx context.Context, _ messaging.Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockPublisher) Topic() string { return m.topic }
