package upload

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

type Service struct {
	repo     Repository
	maxBytes int64
}

func NewService(repo Repository, maxBytes int64) *Service {
	return &Service{repo: repo, maxBytes: maxBytes}
}

// Store sniffs the content and keeps only jpeg and png images. The stored
// filename is random; the original name is kept as metadata.
func (s *Service) Store(ctx context.Context, originalName string, data []byte) (Upload, error) {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return Upload{}, ErrTooLarge
	}

	detected := mimetype.Detect(data).String()
	defaultExt, ok := allowedTypes[detected]
	if !ok {
		return Upload{}, ErrInvalidFileType
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = defaultExt
	}

	u := Upload{
		ID:           uuid.NewString(),
		Filename:     strings.ReplaceAll(uuid.NewString(), "-", "") + ext,
		OriginalName: originalName,
		ContentType:  detected,
		Size:         int64(len(data)),
		UploadDate:   time.Now().UTC(),
	}
	return s.repo.Save(ctx, u, data)
}

func (s *Service) GetByID(ctx context.Context, id string) (Upload, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Upload{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Open(ctx context.Context, id string) (Upload, []byte, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Upload{}, nil, ErrNotFound
	}
	return s.repo.GetData(ctx, id)
}
