package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when a protected request carries no token.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken covers every verification failure: bad signature,
	// expiry, malformed input or an unexpected algorithm.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Identity is the authenticated principal a token is bound to.
type Identity struct {
	Email string
	ID    string
}

// Claims is the JWT payload.
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens. It holds no state
// besides the key.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer builds an issuer keyed by secret.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

// Sign returns a token for id that expires after ttl.
func (i *TokenIssuer) Sign(id Identity, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		Email:  id.Email,
		UserID: id.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the bound identity. Any
// failure is reported as ErrInvalidToken; the cause is available through
// VerifyDetailed for logging.
func (i *TokenIssuer) Verify(token string) (Identity, error) {
	id, err := i.VerifyDetailed(token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}

// VerifyDetailed is Verify without collapsing the error.
func (i *TokenIssuer) VerifyDetailed(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Identity{}, err
	}
	if !parsed.Valid || claims.Email == "" || claims.UserID == "" {
		return Identity{}, errors.New("token missing identity claims")
	}
	return Identity{Email: claims.Email, ID: claims.UserID}, nil
}

type identityKey struct{}

// WithIdentity stores id on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity attached by the access gate.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.Email != ""
}
