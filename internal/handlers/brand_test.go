package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Petroslyros/musical-instrument-shop/internal/services"
	"github.com/Petroslyros/musical-instrument-shop/internal/store"
	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrandRepo struct {
	brands map[int]types.Brand
	nextID int
}

func newFakeBrandRepo() *fakeBrandRepo {
	return &fakeBrandRepo{brands: map[int]types.Brand{}, nextID: 1}
}

func (f *fakeBrandRepo) List(ctx context.Context, offset, limit int) ([]types.Brand, int, error) {
	var out []types.Brand
	for _, brand := range f.brands {
		out = append(out, brand)
	}
	return out, len(out), nil
}

func (f *fakeBrandRepo) Get(ctx context.Context, id int) (types.Brand, error) {
	brand, ok := f.brands[id]
	if !ok {
		return types.Brand{}, store.ErrNotFound
	}
	return brand, nil
}

func (f *fakeBrandRepo) ExistsByID(ctx context.Context, id int) (bool, error) {
	_, ok := f.brands[id]
	return ok, nil
}

func (f *fakeBrandRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, brand := range f.brands {
		if brand.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBrandRepo) Create(ctx context.Context, brand types.Brand) (types.Brand, error) {
	brand.ID = f.nextID
	f.nextID++
	f.brands[brand.ID] = brand
	return brand, nil
}

func (f *fakeBrandRepo) Update(ctx context.Context, brand types.Brand) (types.Brand, error) {
	if _, ok := f.brands[brand.ID]; !ok {
		return types.Brand{}, store.ErrNotFound
	}
	f.brands[brand.ID] = brand
	return brand, nil
}

func (f *fakeBrandRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.brands[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.brands, id)
	return nil
}

func newBrandTestRouter(t *testing.T, repo *fakeBrandRepo) (*chi.Mux, string) {
	t.Helper()

	users := newFakeUserRepo()
	mw, codec := newTestMiddleware(users)
	admin := seedUser(t, users, "root", "secret123", types.RoleAdmin)

	router := chi.NewRouter()
	router.Route("/brands", func(r chi.Router) {
		BrandRouter(r, services.NewBrandService(repo), mw)
	})
	return router, issueToken(t, codec, admin)
}

func brandRequest(t *testing.T, router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBrandCRUD(t *testing.T) {
	repo := newFakeBrandRepo()
	router, adminToken := newBrandTestRouter(t, repo)

	rec := brandRequest(t, router, http.MethodPost, "/brands", adminToken, BrandRequest{Name: "Fender", Country: "USA"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.Brand
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "Fender", created.Name)

	path := fmt.Sprintf("/brands/%d", created.ID)
	rec = brandRequest(t, router, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = brandRequest(t, router, http.MethodPut, path, adminToken, BrandRequest{Name: "Fender", Country: "Mexico"})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.Brand
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, "Mexico", updated.Country)

	rec = brandRequest(t, router, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = brandRequest(t, router, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBrandCreateDuplicate(t *testing.T) {
	repo := newFakeBrandRepo()
	router, adminToken := newBrandTestRouter(t, repo)

	rec := brandRequest(t, router, http.MethodPost, "/brands", adminToken, BrandRequest{Name: "Gibson", Country: "USA"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = brandRequest(t, router, http.MethodPost, "/brands", adminToken, BrandRequest{Name: "Gibson", Country: "USA"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBrandWriteRequiresAdmin(t *testing.T) {
	repo := newFakeBrandRepo()
	router, _ := newBrandTestRouter(t, repo)

	rec := brandRequest(t, router, http.MethodPost, "/brands", "", BrandRequest{Name: "Ibanez", Country: "Japan"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBrandCreateRequiresName(t *testing.T) {
	repo := newFakeBrandRepo()
	router, adminToken := newBrandTestRouter(t, repo)

	rec := brandRequest(t, router, http.MethodPost, "/brands", adminToken, BrandRequest{Name: "   ", Country: "USA"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrandListPagination(t *testing.T) {
	repo := newFakeBrandRepo()
	router, adminToken := newBrandTestRouter(t, repo)

	for _, name := range []string{"Fender", "Gibson", "Ibanez"} {
		rec := brandRequest(t, router, http.MethodPost, "/brands", adminToken, BrandRequest{Name: name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := brandRequest(t, router, http.MethodGet, "/brands?page=1&limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed BrandListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
	assert.Equal(t, 1, listed.Page)
	assert.Equal(t, 2, listed.Limit)
	assert.Equal(t, 3, listed.Total)

	rec = brandRequest(t, router, http.MethodGet, "/brands?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
