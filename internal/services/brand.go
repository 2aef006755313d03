package services

import (
	"context"

	"github.com/Petroslyros/musical-instrument-shop/types"
)

// BrandRepository defines persistence operations for brands.
type BrandRepository interface {
	List(ctx context.Context, offset, limit int) ([]types.Brand, int, error)
	Get(ctx context.Context, id int) (types.Brand, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, brand types.Brand) (types.Brand, error)
	Update(ctx context.Context, brand types.Brand) (types.Brand, error)
	Delete(ctx context.Context, id int) error
}

// BrandService encapsulates brand use-cases.
type BrandService struct {
	repo BrandRepository
}

func NewBrandService(repo BrandRepository) *BrandService {
	return &BrandService{repo: repo}
}

func (s *BrandService) List(ctx context.Context, offset, limit int) ([]types.Brand, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *BrandService) Get(ctx context.Context, id int) (types.Brand, error) {
	return s.repo.Get(ctx, id)
}

func (s *BrandService) Create(ctx context.Context, brand types.Brand) (types.Brand, error) {
	taken, err := s.repo.ExistsByName(ctx, brand.Name)
	if err != nil {
		return types.Brand{}, err
	}
	if taken {
		return types.Brand{}, &DuplicateNameError{Entity: "Brand", Name: brand.Name}
	}
	return s.repo.Create(ctx, brand)
}

func (s *BrandService) Update(ctx context.Context, brand types.Brand) (types.Brand, error) {
	existing, err := s.repo.Get(ctx, brand.ID)
	if err != nil {
		return types.Brand{}, err
	}

	if existing.Name != brand.Name {
		taken, err := s.repo.ExistsByName(ctx, brand.Name)
		if err != nil {
			return types.Brand{}, err
		}
		if taken {
			return types.Brand{}, &DuplicateNameError{Entity: "Brand", Name: brand.Name}
		}
	}

	return s.repo.Update(ctx, brand)
}

func (s *BrandService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
