package category

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("category not found")

// Repository defines storage operations for categories.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int) (Category, error)
	Create(ctx context.Context, c Category) (Category, error)
	Update(ctx context.Context, id int, c Category) (Category, error)
	Delete(ctx context.Context, id int) (Category, error)
}

type InMemoryRepository struct {
	mu         sync.RWMutex
	categories map[int]Category
	nextID     int
}

func NewInMemoryRepository(seed []Category) *InMemoryRepository {
	repo := &InMemoryRepository{categories: make(map[int]Category, len(seed)), nextID: 1}
	for _, c := range seed {
		repo.categories[c.ID] = c
		if c.ID >= repo.nextID {
			repo.nextID = c.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.nextID
	r.nextID++
	r.categories[c.ID] = c
	return c, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int, c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return Category{}, ErrNotFound
	}
	c.ID = id
	r.categories[id] = c
	return c, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	delete(r.categories, id)
	return c, nil
}
