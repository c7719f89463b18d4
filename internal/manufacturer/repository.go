package manufacturer

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	ErrNotFound     = errors.New("manufacturer not found")
	ErrEmailTaken   = errors.New("Manufacturer with same email already exist")
	ErrMobileTaken  = errors.New("Manufacturer with same mobile already exist")
	ErrAddressTaken = errors.New("Manufacturer with same address already exist")
)

type Repository interface {
	List(ctx context.Context) ([]Manufacturer, error)
	GetByID(ctx context.Context, id int) (Manufacturer, error)
	// FindConflict returns the first manufacturer other than excludeID sharing
	// m's email, mobile or address.
	FindConflict(ctx context.Context, m Manufacturer, excludeID int) (Manufacturer, error)
	Create(ctx context.Context, m Manufacturer) (Manufacturer, error)
	Update(ctx context.Context, id int, m Manufacturer) (Manufacturer, error)
	Delete(ctx context.Context, id int) (Manufacturer, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	items  map[int]Manufacturer
	nextID int
}

func NewInMemoryRepository(seed []Manufacturer) *InMemoryRepository {
	repo := &InMemoryRepository{items: make(map[int]Manufacturer, len(seed)), nextID: 1}
	for _, m := range seed {
		repo.items[m.ID] = m
		if m.ID >= repo.nextID {
			repo.nextID = m.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Manufacturer, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return Manufacturer{}, ErrNotFound
	}
	return m, nil
}

func (r *InMemoryRepository) FindConflict(ctx context.Context, m Manufacturer, excludeID int) (Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		existing := r.items[id]
		if id == excludeID {
			continue
		}
		if strings.EqualFold(existing.Email, m.Email) || existing.Mobile == m.Mobile || existing.Address == m.Address {
			return existing, nil
		}
	}
	return Manufacturer{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, m Manufacturer) (Manufacturer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.ID = r.nextID
	r.nextID++
	r.items[m.ID] = m
	return m, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int, m Manufacturer) (Manufacturer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return Manufacturer{}, ErrNotFound
	}
	m.ID = id
	r.items[id] = m
	return m, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int) (Manufacturer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return Manufacturer{}, ErrNotFound
	}
	delete(r.items, id)
	return m, nil
}
