package services

import (
	"context"
	"fmt"
	"io"

	"github.com/Petroslyros/musical-instrument-shop/internal/storage"
	"github.com/Petroslyros/musical-instrument-shop/internal/store"
	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/google/uuid"
)

// InstrumentRepository defines persistence operations for instruments.
type InstrumentRepository interface {
	List(ctx context.Context, filter types.InstrumentFilter, offset, limit int) ([]types.Instrument, int, error)
	Get(ctx context.Context, id int) (types.Instrument, error)
	Create(ctx context.Context, instrument types.Instrument) (types.Instrument, error)
	Update(ctx context.Context, instrument types.Instrument) (types.Instrument, error)
	SetPhotoKey(ctx context.Context, id int, key string) error
	Delete(ctx context.Context, id int) error
}

// InstrumentService encapsulates instrument use-cases, including photo
// upload to object storage when a backend is configured.
type InstrumentService struct {
	repo       InstrumentRepository
	categories CategoryRepository
	brands     BrandRepository
	photos     *storage.Storage
}

func NewInstrumentService(repo InstrumentRepository, categories CategoryRepository, brands BrandRepository, photos *storage.Storage) *InstrumentService {
	return &InstrumentService{
		repo:       repo,
		categories: categories,
		brands:     brands,
		photos:     photos,
	}
}

func (s *InstrumentService) List(ctx context.Context, filter types.InstrumentFilter, offset, limit int) ([]types.Instrument, int, error) {
	if filter.CategoryID != 0 {
		exists, err := s.categories.ExistsByID(ctx, filter.CategoryID)
		if err != nil {
			return nil, 0, err
		}
		if !exists {
			return nil, 0, invalidArgf("category with id %d not found", filter.CategoryID)
		}
	}
	if filter.BrandID != 0 {
		exists, err := s.brands.ExistsByID(ctx, filter.BrandID)
		if err != nil {
			return nil, 0, err
		}
		if !exists {
			return nil, 0, invalidArgf("brand with id %d not found", filter.BrandID)
		}
	}
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *InstrumentService) Get(ctx context.Context, id int) (types.Instrument, error) {
	return s.repo.Get(ctx, id)
}

func (s *InstrumentService) Create(ctx context.Context, instrument types.Instrument) (types.Instrument, error) {
	if err := s.checkReferences(ctx, instrument); err != nil {
		return types.Instrument{}, err
	}
	return s.repo.Create(ctx, instrument)
}

func (s *InstrumentService) Update(ctx context.Context, instrument types.Instrument) (types.Instrument, error) {
	if _, err := s.repo.Get(ctx, instrument.ID); err != nil {
		return types.Instrument{}, err
	}
	if err := s.checkReferences(ctx, instrument); err != nil {
		return types.Instrument{}, err
	}
	return s.repo.Update(ctx, instrument)
}

func (s *InstrumentService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *InstrumentService) checkReferences(ctx context.Context, instrument types.Instrument) error {
	exists, err := s.categories.ExistsByID(ctx, instrument.CategoryID)
	if err != nil {
		return err
	}
	if !exists {
		return invalidArgf("category with id %d not found", instrument.CategoryID)
	}

	exists, err = s.brands.ExistsByID(ctx, instrument.BrandID)
	if err != nil {
		return err
	}
	if !exists {
		return invalidArgf("brand with id %d not found", instrument.BrandID)
	}
	return nil
}

// UploadPhoto stores an instrument photo and records its object key.
// The key embeds a fresh uuid so re-uploads never collide with stale
// cached reads.
func (s *InstrumentService) UploadPhoto(ctx context.Context, id int, r io.Reader, size int64, contentType string) (string, error) {
	if s.photos == nil {
		return "", ErrStorageDisabled
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return "", err
	}

	key := fmt.Sprintf("instruments/%d/%s", id, uuid.NewString())
	if err := s.photos.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	if err := s.repo.SetPhotoKey(ctx, id, key); err != nil {
		return "", err
	}
	return key, nil
}

// PhotoReader opens the stored photo of an instrument. It returns
// store.ErrNotFound via Get when the instrument is missing and
// ErrStorageDisabled when no backend is configured.
func (s *InstrumentService) PhotoReader(ctx context.Context, id int) (io.ReadCloser, error) {
	if s.photos == nil {
		return nil, ErrStorageDisabled
	}
	instrument, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if instrument.PhotoKey == "" {
		return nil, store.ErrNotFound
	}
	return s.photos.Get(ctx, instrument.PhotoKey)
}
