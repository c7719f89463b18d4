package category

import "context"

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Category, error) {
	return s.repo.Create(ctx, Category{Name: name})
}

func (s *Service) Update(ctx context.Context, id int, name string) (Category, error) {
	return s.repo.Update(ctx, id, Category{Name: name})
}

func (s *Service) Delete(ctx context.Context, id int) (Category, error) {
	return s.repo.Delete(ctx, id)
}
