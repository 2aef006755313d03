package services

import (
	"context"
	"errors"

	"github.com/Petroslyros/musical-instrument-shop/internal/store"
	"github.com/Petroslyros/musical-instrument-shop/internal/token"
	"github.com/Petroslyros/musical-instrument-shop/types"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is what a successful login hands back to the caller: the
// user's names plus a fresh bearer token. The password and hash never
// leave this package.
type LoginResult struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Token     string `json:"token"`
}

// RegisterParams are the fields required to create an account.
type RegisterParams struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// AuthService verifies credentials and issues tokens.
type AuthService struct {
	users *UserService
	codec *token.Codec
}

func NewAuthService(users *UserService, codec *token.Codec) *AuthService {
	return &AuthService{users: users, codec: codec}
}

// Login authenticates username/password and issues a token. A missing
// user surfaces as store.ErrNotFound and a wrong password as
// ErrBadCredentials; handlers map both to the same response.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrBadCredentials
	}

	tok, err := s.codec.Issue(user.Username, user.Role)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Token:     tok,
	}, nil
}

// Register creates a CUSTOMER account with a bcrypt password hash and
// logs it in, returning the new user's token.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (types.User, LoginResult, error) {
	if _, err := s.users.GetByUsername(ctx, params.Username); err == nil {
		return types.User{}, LoginResult{}, &DuplicateNameError{Entity: "User", Name: params.Username}
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, LoginResult{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, LoginResult{}, err
	}

	user, err := s.users.Create(ctx, types.User{
		Username:     params.Username,
		Email:        params.Email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Role:         types.RoleCustomer,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return types.User{}, LoginResult{}, err
	}

	tok, err := s.codec.Issue(user.Username, user.Role)
	if err != nil {
		return types.User{}, LoginResult{}, err
	}

	return user, LoginResult{FirstName: user.FirstName, LastName: user.LastName, Token: tok}, nil
}
