package order

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

// NewMemoryRepository builds an in-memory order store for tests and local runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, o Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.Items = append([]Item(nil), o.Items...)
	r.orders = append(r.orders, o)
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Order
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].User.ID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}
