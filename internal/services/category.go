package services

import (
	"context"

	"github.com/Petroslyros/musical-instrument-shop/types"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context, offset, limit int) ([]types.Category, int, error)
	Get(ctx context.Context, id int) (types.Category, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, category types.Category) (types.Category, error)
	Update(ctx context.Context, category types.Category) (types.Category, error)
	Delete(ctx context.Context, id int) error
}

// CategoryService encapsulates category use-cases.
type CategoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, offset, limit int) ([]types.Category, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *CategoryService) Get(ctx context.Context, id int) (types.Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, category types.Category) (types.Category, error) {
	taken, err := s.repo.ExistsByName(ctx, category.Name)
	if err != nil {
		return types.Category{}, err
	}
	if taken {
		return types.Category{}, &DuplicateNameError{Entity: "Category", Name: category.Name}
	}
	return s.repo.Create(ctx, category)
}

func (s *CategoryService) Update(ctx context.Context, category types.Category) (types.Category, error) {
	existing, err := s.repo.Get(ctx, category.ID)
	if err != nil {
		return types.Category{}, err
	}

	if existing.Name != category.Name {
		taken, err := s.repo.ExistsByName(ctx, category.Name)
		if err != nil {
			return types.Category{}, err
		}
		if taken {
			return types.Category{}, &DuplicateNameError{Entity: "Category", Name: category.Name}
		}
	}

	return s.repo.Update(ctx, category)
}

func (s *CategoryService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
