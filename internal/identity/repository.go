package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decorhub/storefront/internal/metrics"
)

var (
	// ErrUserExists is returned when email or phone is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
)

// Repository persists users. Implementations enforce email and phone
// uniqueness at write time and report violations as ErrUserExists.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db   *pgxpool.Pool
	prom *metrics.Prom
}

// NewPostgresRepository builds a Postgres-backed identity repository. prom may be nil.
func NewPostgresRepository(db *pgxpool.Pool, prom *metrics.Prom) *PostgresRepository {
	return &PostgresRepository{db: db, prom: prom}
}

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	var phone *string
	if user.Phone != "" {
		phone = &user.Phone
	}
	err = r.prom.ObserveDB("users.create", func() error {
		_, err := r.db.Exec(ctx, `INSERT INTO users (id, name, email, password_hash, phone, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, userID, user.Name, user.Email, user.PasswordHash, phone, user.CreatedAt.UTC())
		return err
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUserExists
	}
	return err
}

// FindByEmail fetches a user by email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, "users.find_by_email", `WHERE email = $1`, email)
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrUserNotFound
	}
	return r.findOne(ctx, "users.find_by_id", `WHERE id = $1`, userID)
}

func (r *PostgresRepository) findOne(ctx context.Context, op, where string, arg any) (User, error) {
	var (
		id        uuid.UUID
		phone     *string
		createdAt time.Time
		user      User
	)
	err := r.prom.ObserveDB(op, func() error {
		return r.db.QueryRow(ctx, `SELECT id, name, email, password_hash, phone, created_at FROM users `+where, arg).
			Scan(&id, &user.Name, &user.Email, &user.PasswordHash, &phone, &createdAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	user.ID = id.String()
	if phone != nil {
		user.Phone = *phone
	}
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
