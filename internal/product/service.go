package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/pharmacy-backend/internal/category"
	"github.com/wichananm65/pharmacy-backend/internal/manufacturer"
	"github.com/wichananm65/pharmacy-backend/internal/upload"
)

var (
	ErrManufacturerNotFound = errors.New("Manufacturer with given id not found")
	ErrCategoryNotFound     = errors.New("Category with given id not found")
)

// ImagesNotFoundError lists every image id that could not be resolved.
type ImagesNotFoundError struct {
	Messages []string
}

func (e *ImagesNotFoundError) Error() string {
	return strings.Join(e.Messages, "; ")
}

type ManufacturerLookup interface {
	GetByID(ctx context.Context, id int) (manufacturer.Manufacturer, error)
}

type CategoryLookup interface {
	GetByID(ctx context.Context, id int) (category.Category, error)
}

type ImageLookup interface {
	GetByID(ctx context.Context, id string) (upload.Upload, error)
}

// Input is the writable part of a product.
type Input struct {
	Name              string
	ManufacturerID    int
	CategoryID        int
	NumberInStock     int
	ActiveIngredients []string
	Rate              float64
	Price             decimal.Decimal
	Description       string
	ImageIDs          []string
}

type Service struct {
	repo          Repository
	manufacturers ManufacturerLookup
	categories    CategoryLookup
	images        ImageLookup
	now           func() time.Time
}

func NewService(repo Repository, manufacturers ManufacturerLookup, categories CategoryLookup, images ImageLookup) *Service {
	return &Service{
		repo:          repo,
		manufacturers: manufacturers,
		categories:    categories,
		images:        images,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id int) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	p, err := s.resolve(ctx, in)
	if err != nil {
		return Product{}, err
	}
	p.DateAdded = s.now()
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id int, in Input) (Product, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return Product{}, err
	}
	p, err := s.resolve(ctx, in)
	if err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id int) (Product, error) {
	return s.repo.Delete(ctx, id)
}

// resolve turns references into the snapshots stored with the product.
func (s *Service) resolve(ctx context.Context, in Input) (Product, error) {
	m, err := s.manufacturers.GetByID(ctx, in.ManufacturerID)
	if err != nil {
		if errors.Is(err, manufacturer.ErrNotFound) {
			return Product{}, ErrManufacturerNotFound
		}
		return Product{}, err
	}

	c, err := s.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return Product{}, ErrCategoryNotFound
		}
		return Product{}, err
	}

	images := make([]Image, 0, len(in.ImageIDs))
	var missing []string
	for _, id := range in.ImageIDs {
		u, err := s.images.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, upload.ErrNotFound) {
				missing = append(missing, fmt.Sprintf("Image with id %s doesn't exist.", id))
				continue
			}
			return Product{}, err
		}
		images = append(images, Image{ID: u.ID, Filename: u.Filename})
	}
	if len(missing) > 0 {
		return Product{}, &ImagesNotFoundError{Messages: missing}
	}

	return Product{
		Name:              in.Name,
		Manufacturer:      Manufacturer{ID: m.ID, Name: m.Name, Email: m.Email},
		Category:          Category{ID: c.ID, Name: c.Name},
		NumberInStock:     in.NumberInStock,
		ActiveIngredients: in.ActiveIngredients,
		Rate:              in.Rate,
		Price:             in.Price,
		Description:       in.Description,
		Images:            images,
	}, nil
}
