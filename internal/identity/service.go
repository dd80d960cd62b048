package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/decorhub/storefront/internal/validation"
)

// ErrInvalidCredentials is returned when the password does not match the stored hash.
var ErrInvalidCredentials = errors.New("invalid password")

// Service manages the credential lifecycle on top of a Repository.
type Service struct {
	repo Repository
	cost int
}

// NewService creates a new identity service hashing with bcrypt.DefaultCost.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

// Register hashes the password and stores a new user. Callers validate that
// the fields are present; uniqueness is left to the repository.
func (s *Service) Register(ctx context.Context, reg Registration) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return User{}, validation.New("Password must be at most 72 bytes")
		}
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(reg.Name),
		Email:        normalizeEmail(reg.Email),
		PasswordHash: hash,
		Phone:        strings.TrimSpace(reg.Phone),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies the password against the stored bcrypt hash.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Exists reports whether email is already registered.
func (s *Service) Exists(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

// FindByID resolves a user by id.
func (s *Service) FindByID(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByEmail resolves a user by email.
func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
