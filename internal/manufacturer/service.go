package manufacturer

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(ctx context.Context) ([]Manufacturer, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (Manufacturer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, m Manufacturer) (Manufacturer, error) {
	if err := s.checkUnique(ctx, m, 0); err != nil {
		return Manufacturer{}, err
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Update(ctx context.Context, id int, m Manufacturer) (Manufacturer, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return Manufacturer{}, err
	}
	if err := s.checkUnique(ctx, m, id); err != nil {
		return Manufacturer{}, err
	}
	return s.repo.Update(ctx, id, m)
}

func (s *Service) Delete(ctx context.Context, id int) (Manufacturer, error) {
	return s.repo.Delete(ctx, id)
}

// checkUnique reports the first of email, mobile, address already used by
// another manufacturer.
func (s *Service) checkUnique(ctx context.Context, m Manufacturer, excludeID int) error {
	existing, err := s.repo.FindConflict(ctx, m, excludeID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case strings.EqualFold(existing.Email, m.Email):
		return ErrEmailTaken
	case existing.Mobile == m.Mobile:
		return ErrMobileTaken
	default:
		return ErrAddressTaken
	}
}
