package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Petroslyros/musical-instrument-shop/internal/services"
	"github.com/Petroslyros/musical-instrument-shop/internal/store"
	"github.com/Petroslyros/musical-instrument-shop/internal/token"
	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[int]types.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]types.User{}, nextID: 1}
}

func (f *fakeUserRepo) add(user types.User) types.User {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) ExistsByID(ctx context.Context, id int) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	return f.add(user), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	if _, ok := f.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password string, role types.Role) types.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return repo.add(types.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		PasswordHash: string(hashed),
	})
}

func newTestMiddleware(repo *fakeUserRepo) (*AuthMiddleware, *token.Codec) {
	codec := token.NewCodec("test-secret", time.Hour)
	return NewAuthMiddleware(codec, services.NewUserService(repo)), codec
}

func protectedRouter(mw *AuthMiddleware) *chi.Mux {
	router := chi.NewRouter()
	router.With(mw.Authenticate, mw.RequireIdentity).Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		user, _ := IdentityFromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]string{"username": user.Username})
	})
	router.With(mw.Authenticate, mw.RequireAdmin).Get("/admin", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func issueToken(t *testing.T, codec *token.Codec, user types.User) string {
	t.Helper()
	tok, err := codec.Issue(user.Username, user.Role)
	require.NoError(t, err)
	return tok
}

func TestAuthenticateAnonymousRejectedByRequireIdentity(t *testing.T) {
	repo := newFakeUserRepo()
	mw, _ := newTestMiddleware(repo)
	router := protectedRouter(mw)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateValidToken(t *testing.T) {
	repo := newFakeUserRepo()
	mw, codec := newTestMiddleware(repo)
	user := seedUser(t, repo, "alice", "secret123", types.RoleCustomer)
	router := protectedRouter(mw)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, codec, user))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
}

func TestAuthenticateExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "alice", "secret123", types.RoleCustomer)

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	codec := token.NewCodec("test-secret", time.Hour).WithClock(func() time.Time { return issuedAt })
	tok, err := codec.Issue(user.Username, user.Role)
	require.NoError(t, err)
	codec.WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) })

	mw := NewAuthMiddleware(codec, services.NewUserService(repo))
	router := protectedRouter(mw)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired token")
}

func TestAuthenticateGarbageToken(t *testing.T) {
	repo := newFakeUserRepo()
	mw, _ := newTestMiddleware(repo)
	router := protectedRouter(mw)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestAuthenticateDeletedUser(t *testing.T) {
	repo := newFakeUserRepo()
	mw, codec := newTestMiddleware(repo)
	user := seedUser(t, repo, "alice", "secret123", types.RoleCustomer)
	tok := issueToken(t, codec, user)
	require.NoError(t, repo.Delete(context.Background(), user.ID))
	router := protectedRouter(mw)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestRequireAdminRejectsCustomer(t *testing.T) {
	repo := newFakeUserRepo()
	mw, codec := newTestMiddleware(repo)
	user := seedUser(t, repo, "alice", "secret123", types.RoleCustomer)
	router := protectedRouter(mw)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, codec, user))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	mw, codec := newTestMiddleware(repo)
	admin := seedUser(t, repo, "root", "secret123", types.RoleAdmin)
	router := protectedRouter(mw)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, codec, admin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
