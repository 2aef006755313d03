package token

import (
	"errors"
	"strings"
	"time"

	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when a token cannot be parsed or its
// signature does not verify.
var ErrMalformed = errors.New("malformed token")

// ErrExpired is returned when a well-formed token has passed its
// expiry. It is reported separately so callers can surface a distinct
// reason.
var ErrExpired = errors.New("expired token")

// Claims is the verified content of a token.
type Claims struct {
	Subject string
	Role    types.Role
}

type jwtClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed, expiring identity tokens. The
// signing secret and TTL are fixed at construction; verification is a
// pure function of the token, the secret and the clock, so a single
// Codec is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec constructs a Codec with the given HMAC secret and token TTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the codec's clock. For tests.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Issue produces a signed HS256 token with the username as subject and
// the role as a custom claim, valid from now until now+ttl.
func (c *Codec) Issue(username string, role types.Role) (string, error) {
	now := c.now()
	claims := jwtClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses and validates tokenString. It fails with ErrExpired for
// a valid-but-stale token and ErrMalformed for everything else (bad
// signature, wrong method, garbage input, missing subject).
func (c *Codec) Verify(tokenString string) (Claims, error) {
	claims := jwtClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrMalformed
	}
	if !parsed.Valid {
		return Claims{}, ErrMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, ErrMalformed
	}
	return Claims{Subject: claims.Subject, Role: types.Role(claims.Role)}, nil
}
