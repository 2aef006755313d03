package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Petroslyros/musical-instrument-shop/internal/storage"
	"github.com/Petroslyros/musical-instrument-shop/internal/store"
	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInstrumentRepo struct {
	instruments map[int]types.Instrument
	nextID      int
}

func newFakeInstrumentRepo() *fakeInstrumentRepo {
	return &fakeInstrumentRepo{instruments: map[int]types.Instrument{}, nextID: 1}
}

func (f *fakeInstrumentRepo) List(ctx context.Context, filter types.InstrumentFilter, offset, limit int) ([]types.Instrument, int, error) {
	var out []types.Instrument
	for _, instrument := range f.instruments {
		out = append(out, instrument)
	}
	return out, len(out), nil
}

func (f *fakeInstrumentRepo) Get(ctx context.Context, id int) (types.Instrument, error) {
	instrument, ok := f.instruments[id]
	if !ok {
		return types.Instrument{}, store.ErrNotFound
	}
	return instrument, nil
}

func (f *fakeInstrumentRepo) Create(ctx context.Context, instrument types.Instrument) (types.Instrument, error) {
	instrument.ID = f.nextID
	f.nextID++
	f.instruments[instrument.ID] = instrument
	return instrument, nil
}

func (f *fakeInstrumentRepo) Update(ctx context.Context, instrument types.Instrument) (types.Instrument, error) {
	if _, ok := f.instruments[instrument.ID]; !ok {
		return types.Instrument{}, store.ErrNotFound
	}
	f.instruments[instrument.ID] = instrument
	return instrument, nil
}

func (f *fakeInstrumentRepo) SetPhotoKey(ctx context.Context, id int, key string) error {
	instrument, ok := f.instruments[id]
	if !ok {
		return store.ErrNotFound
	}
	instrument.PhotoKey = key
	f.instruments[id] = instrument
	return nil
}

func (f *fakeInstrumentRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.instruments[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.instruments, id)
	return nil
}

// fakeRefRepo stands in for both category and brand repositories; only
// existence checks matter here.
type fakeRefRepo struct {
	ids map[int]bool
}

func (f *fakeRefRepo) List(ctx context.Context, offset, limit int) ([]types.Brand, int, error) {
	return nil, 0, nil
}

func (f *fakeRefRepo) Get(ctx context.Context, id int) (types.Brand, error) {
	return types.Brand{}, store.ErrNotFound
}

func (f *fakeRefRepo) ExistsByID(ctx context.Context, id int) (bool, error) {
	return f.ids[id], nil
}

func (f *fakeRefRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func (f *fakeRefRepo) Create(ctx context.Context, brand types.Brand) (types.Brand, error) {
	return brand, nil
}

func (f *fakeRefRepo) Update(ctx context.Context, brand types.Brand) (types.Brand, error) {
	return brand, nil
}

func (f *fakeRefRepo) Delete(ctx context.Context, id int) error {
	return nil
}

type fakeCategoryRefRepo struct {
	ids map[int]bool
}

func (f *fakeCategoryRefRepo) List(ctx context.Context, offset, limit int) ([]types.Category, int, error) {
	return nil, 0, nil
}

func (f *fakeCategoryRefRepo) Get(ctx context.Context, id int) (types.Category, error) {
	return types.Category{}, store.ErrNotFound
}

func (f *fakeCategoryRefRepo) ExistsByID(ctx context.Context, id int) (bool, error) {
	return f.ids[id], nil
}

func (f *fakeCategoryRefRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func (f *fakeCategoryRefRepo) Create(ctx context.Context, category types.Category) (types.Category, error) {
	return category, nil
}

func (f *fakeCategoryRefRepo) Update(ctx context.Context, category types.Category) (types.Category, error) {
	return category, nil
}

func (f *fakeCategoryRefRepo) Delete(ctx context.Context, id int) error {
	return nil
}

// memObjectStorage is an in-memory ObjectStorage for photo tests.
type memObjectStorage struct {
	objects map[string][]byte
}

func newMemObjectStorage() *memObjectStorage {
	return &memObjectStorage{objects: map[string][]byte{}}
}

func (m *memObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func (m *memObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memObjectStorage) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memObjectStorage) Bucket() string { return "test-bucket" }

func newInstrumentFixture(photos *storage.Storage) (*InstrumentService, *fakeInstrumentRepo) {
	repo := newFakeInstrumentRepo()
	categories := &fakeCategoryRefRepo{ids: map[int]bool{1: true}}
	brands := &fakeRefRepo{ids: map[int]bool{1: true}}
	return NewInstrumentService(repo, categories, brands, photos), repo
}

func guitar() types.Instrument {
	return types.Instrument{
		Name:       "Stratocaster",
		Price:      decimal.RequireFromString("799.99"),
		Stock:      3,
		CategoryID: 1,
		BrandID:    1,
	}
}

func TestInstrumentCreateUnknownCategory(t *testing.T) {
	svc, _ := newInstrumentFixture(nil)

	instrument := guitar()
	instrument.CategoryID = 9
	_, err := svc.Create(context.Background(), instrument)

	var invalid *InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}

func TestInstrumentCreateUnknownBrand(t *testing.T) {
	svc, _ := newInstrumentFixture(nil)

	instrument := guitar()
	instrument.BrandID = 9
	_, err := svc.Create(context.Background(), instrument)

	var invalid *InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}

func TestInstrumentListFilterUnknownBrand(t *testing.T) {
	svc, _ := newInstrumentFixture(nil)

	_, _, err := svc.List(context.Background(), types.InstrumentFilter{BrandID: 9}, 0, 20)

	var invalid *InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}

func TestUploadPhotoStorageDisabled(t *testing.T) {
	svc, repo := newInstrumentFixture(nil)
	created, err := repo.Create(context.Background(), guitar())
	require.NoError(t, err)

	_, err = svc.UploadPhoto(context.Background(), created.ID, strings.NewReader("jpeg"), 4, "image/jpeg")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestUploadPhotoRoundTrip(t *testing.T) {
	photos := storage.NewStorage(newMemObjectStorage())
	svc, repo := newInstrumentFixture(photos)
	created, err := repo.Create(context.Background(), guitar())
	require.NoError(t, err)

	key, err := svc.UploadPhoto(context.Background(), created.ID, strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	stored, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, key, stored.PhotoKey)

	reader, err := svc.PhotoReader(context.Background(), created.ID)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestPhotoReaderNoPhoto(t *testing.T) {
	photos := storage.NewStorage(newMemObjectStorage())
	svc, repo := newInstrumentFixture(photos)
	created, err := repo.Create(context.Background(), guitar())
	require.NoError(t, err)

	_, err = svc.PhotoReader(context.Background(), created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUploadPhotoUnknownInstrument(t *testing.T) {
	photos := storage.NewStorage(newMemObjectStorage())
	svc, _ := newInstrumentFixture(photos)

	_, err := svc.UploadPhoto(context.Background(), 99, strings.NewReader("jpeg"), 4, "image/jpeg")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
