package order

import (
	"context"
	"sort"
	"sync"

	"github.com/wichananm65/pharmacy-backend/internal/storage"
)

// Filter narrows FindAll. A zero BuyerID matches every order.
type Filter struct {
	BuyerID int
}

// Repository stores orders. Line items and totals are written once by Insert.
type Repository interface {
	Insert(ctx context.Context, tx storage.Tx, o Order) error
	FindByID(ctx context.Context, id string) (Order, error)
	FindAll(ctx context.Context, f Filter) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Order, error)
	DeleteByID(ctx context.Context, id string) (Order, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]Order)}
}

func (r *InMemoryRepository) Insert(ctx context.Context, tx storage.Tx, o Order) error {
	memTx, err := storage.MemoryTxFrom(tx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.orders[o.ID] = clone(o)
	r.mu.Unlock()

	memTx.OnRollback(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.orders, o.ID)
	})
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return clone(o), nil
}

func (r *InMemoryRepository) FindAll(ctx context.Context, f Filter) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		if f.BuyerID != 0 && o.Buyer.ID != f.BuyerID {
			continue
		}
		out = append(out, clone(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return clone(o), nil
}

func (r *InMemoryRepository) DeleteByID(ctx context.Context, id string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	delete(r.orders, id)
	return o, nil
}

func clone(o Order) Order {
	o.LineItems = append([]LineItem(nil), o.LineItems...)
	return o
}
