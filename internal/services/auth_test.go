package services

import (
	"context"
	"testing"
	"time"

	"github.com/Petroslyros/musical-instrument-shop/internal/store"
	"github.com/Petroslyros/musical-instrument-shop/internal/token"
	"github.com/Petroslyros/musical-instrument-shop/types"
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

func newAuthService(repo *fakeUserRepo) (*AuthService, *token.Codec) {
	codec := token.NewCodec("test-secret", time.Hour)
	return NewAuthService(NewUserService(repo), codec), codec
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

func TestLoginSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	auth, codec := newAuthService(repo)
	seedUser(t, repo, "alice", "secret123", types.RoleCustomer)

	result, err := auth.Login(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Test", result.FirstName)
	assert.Equal(t, "User", result.LastName)

	claims, err := codec.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, types.RoleCustomer, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	auth, _ := newAuthService(repo)
	seedUser(t, repo, "alice", "secret123", types.RoleCustomer)

	_, err := auth.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	auth, _ := newAuthService(repo)

	_, err := auth.Login(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegisterCreatesCustomer(t *testing.T) {
	repo := newFakeUserRepo()
	auth, codec := newAuthService(repo)

	user, result, err := auth.Register(context.Background(), RegisterParams{
		Username:  "bob",
		Email:     "bob@example.com",
		FirstName: "Bob",
		LastName:  "Smith",
		Password:  "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, types.RoleCustomer, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

	claims, err := codec.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	auth, _ := newAuthService(repo)
	seedUser(t, repo, "bob", "secret123", types.RoleCustomer)

	_, _, err := auth.Register(context.Background(), RegisterParams{
		Username:  "bob",
		Email:     "bob2@example.com",
		FirstName: "Bob",
		LastName:  "Smith",
		Password:  "secret123",
	})

	var duplicate *DuplicateNameError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "bob", duplicate.Name)
}
