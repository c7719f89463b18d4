package product

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wichananm65/pharmacy-backend/internal/storage"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Filter narrows List. Zero values match everything.
type Filter struct {
	CategoryID int
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id int, p Product) (Product, error)
	Delete(ctx context.Context, id int) (Product, error)
	// DecrementStock removes amount units inside tx, failing with
	// ErrInsufficientStock when fewer remain and ErrNotFound when the
	// product is gone.
	DecrementStock(ctx context.Context, tx storage.Tx, id, amount int) error
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	products map[int]Product
	nextID   int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	repo := &InMemoryRepository{products: make(map[int]Product, len(seed)), nextID: 1}
	for _, p := range seed {
		repo.products[p.ID] = clone(p)
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if f.CategoryID != 0 && p.Category.ID != f.CategoryID {
			continue
		}
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateAdded.Equal(out[j].DateAdded) {
			return out[i].ID < out[j].ID
		}
		return out[i].DateAdded.Before(out[j].DateAdded)
	})
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return clone(p), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextID
	r.nextID++
	r.products[p.ID] = clone(p)
	return p, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	p.ID = id
	p.DateAdded = existing.DateAdded
	r.products[id] = clone(p)
	return p, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	delete(r.products, id)
	return p, nil
}

func (r *InMemoryRepository) DecrementStock(ctx context.Context, tx storage.Tx, id, amount int) error {
	memTx, err := storage.MemoryTxFrom(tx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return ErrNotFound
	}
	if p.NumberInStock < amount {
		return ErrInsufficientStock
	}
	p.NumberInStock -= amount
	r.products[id] = p

	memTx.OnRollback(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if p, ok := r.products[id]; ok {
			p.NumberInStock += amount
			r.products[id] = p
		}
	})
	return nil
}

func clone(p Product) Product {
	p.ActiveIngredients = append([]string(nil), p.ActiveIngredients...)
	p.Images = append([]Image(nil), p.Images...)
	return p
}
