package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	want := Identity{Email: "a@x.com", ID: "u-1"}

	token, err := issuer.Sign(want, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestVerifyRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	valid, err := issuer.Sign(Identity{Email: "a@x.com", ID: "u-1"}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	past := NewTokenIssuer("secret")
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := past.Sign(Identity{Email: "a@x.com", ID: "u-1"}, time.Hour)
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Email:  "a@x.com",
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"expired":      expired,
		"alg none":     unsigned,
		"tampered":     valid[:len(valid)-2] + "xx",
		"other secret": mustSign(t, NewTokenIssuer("other"), time.Hour),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	if _, ok := IdentityFrom(context.Background()); ok {
		t.Fatalf("expected no identity on empty context")
	}
	ctx := WithIdentity(context.Background(), Identity{Email: "a@x.com", ID: "u-1"})
	id, ok := IdentityFrom(ctx)
	if !ok || id.Email != "a@x.com" {
		t.Fatalf("expected identity, got %+v %v", id, ok)
	}
}

func mustSign(t *testing.T, issuer *TokenIssuer, ttl time.Duration) string {
	t.Helper()
	token, err := issuer.Sign(Identity{Email: "a@x.com", ID: "u-1"}, ttl)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}
