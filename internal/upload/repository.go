package upload

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound        = errors.New("upload not found")
	ErrInvalidFileType = errors.New("Invalid file type")
	ErrTooLarge        = errors.New("File too large")
)

type Repository interface {
	Save(ctx context.Context, u Upload, data []byte) (Upload, error)
	GetByID(ctx context.Context, id string) (Upload, error)
	GetData(ctx context.Context, id string) (Upload, []byte, error)
}

type stored struct {
	meta Upload
	data []byte
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	files map[string]stored
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{files: make(map[string]stored)}
}

func (r *InMemoryRepository) Save(ctx context.Context, u Upload, data []byte) (Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	r.files[u.ID] = stored{meta: u, data: buf}
	return u, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[id]
	if !ok {
		return Upload{}, ErrNotFound
	}
	return f.meta, nil
}

func (r *InMemoryRepository) GetData(ctx context.Context, id string) (Upload, []byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[id]
	if !ok {
		return Upload{}, nil, ErrNotFound
	}
	return f.meta, f.data, nil
}
