package identity

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/decorhub/storefront/internal/validation"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository()).WithHashCost(bcrypt.MinCost)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, Registration{Name: "A", Email: "A@x.com", Password: "pw123", Phone: "5551230000"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if bytes.Equal(user.PasswordHash, []byte("pw123")) {
		t.Fatalf("stored hash must differ from the plaintext password")
	}
	if user.Email != "a@x.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "a@x.com", Password: "pw123"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
}

func TestAuthenticateRejectsWrongPasswords(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, Registration{Name: "A", Email: "a@x.com", Password: "pw123", Phone: "1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, pw := range []string{"", "pw12", "pw1234", "PW123", "pw123 ", " pw123"} {
		if _, err := svc.Authenticate(ctx, Credentials{Email: "a@x.com", Password: pw}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("password %q: expected ErrInvalidCredentials, got %v", pw, err)
		}
	}

	if _, err := svc.Authenticate(ctx, Credentials{Email: "b@x.com", Password: "pw123"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRegisterEnforcesUniqueness(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, Registration{Name: "A", Email: "a@x.com", Password: "pw", Phone: "111"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Register(ctx, Registration{Name: "B", Email: "a@x.com", Password: "pw", Phone: "222"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate email: expected ErrUserExists, got %v", err)
	}
	if _, err := svc.Register(ctx, Registration{Name: "C", Email: "c@x.com", Password: "pw", Phone: "111"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate phone: expected ErrUserExists, got %v", err)
	}

	// the rejected writes must leave no trace
	if exists, _ := svc.Exists(ctx, "c@x.com"); exists {
		t.Fatalf("user with duplicate phone should not be stored")
	}
}

func TestMemoryRepositoryAllowsMissingPhone(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, User{ID: "1", Email: "a@x.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, User{ID: "2", Email: "b@x.com"}); err != nil {
		t.Fatalf("second user without phone should be accepted: %v", err)
	}
	if _, err := repo.FindByID(ctx, "2"); err != nil {
		t.Fatalf("find by id: %v", err)
	}
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// 40 runes, 80 bytes
	_, err := svc.Register(ctx, Registration{Name: "A", Email: "a@x.com", Password: strings.Repeat("é", 40), Phone: "1"})
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if exists, _ := svc.Exists(ctx, "a@x.com"); exists {
		t.Fatalf("user must not be stored")
	}
}

func TestFindByID(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	user, err := svc.Register(ctx, Registration{Name: "A", Email: "a@x.com", Password: "pw123", Phone: "1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	found, err := svc.FindByID(ctx, user.ID)
	if err != nil || found.Email != "a@x.com" {
		t.Fatalf("find by id: %+v %v", found, err)
	}
	if _, err := svc.FindByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
