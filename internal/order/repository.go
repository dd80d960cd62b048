package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decorhub/storefront/internal/identity"
	"github.com/decorhub/storefront/internal/metrics"
)

// Repository persists orders. Orders are append-only.
type Repository interface {
	Create(ctx context.Context, o Order) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

// PostgresRepository implements Repository using PostgreSQL. Items are kept
// as a jsonb document.
type PostgresRepository struct {
	db   *pgxpool.Pool
	prom *metrics.Prom
}

// NewPostgresRepository builds a Postgres-backed order store. prom may be nil.
func NewPostgresRepository(db *pgxpool.Pool, prom *metrics.Prom) *PostgresRepository {
	return &PostgresRepository{db: db, prom: prom}
}

// Create inserts o.
func (r *PostgresRepository) Create(ctx context.Context, o Order) error {
	orderID, err := uuid.Parse(o.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(o.User.ID)
	if err != nil {
		return err
	}
	return r.prom.ObserveDB("orders.create", func() error {
		_, err := r.db.Exec(ctx, `INSERT INTO orders (id, user_id, user_email, items, status, order_date)
        VALUES ($1, $2, $3, $4, $5, $6)`, orderID, userID, o.User.Email, o.Items, o.Status, o.OrderDate.UTC())
		return err
	})
}

// ListByUser returns the user's orders, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, identity.ErrUserNotFound
	}
	var orders []Order
	err = r.prom.ObserveDB("orders.list_by_user", func() error {
		rows, err := r.db.Query(ctx, `SELECT id, user_id, user_email, items, status, order_date
        FROM orders WHERE user_id = $1 ORDER BY order_date DESC`, uid)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				id, owner uuid.UUID
				o         Order
			)
			if err := rows.Scan(&id, &owner, &o.User.Email, &o.Items, &o.Status, &o.OrderDate); err != nil {
				return err
			}
			o.ID = id.String()
			o.User.ID = owner.String()
			o.OrderDate = o.OrderDate.UTC()
			orders = append(orders, o)
		}
		return rows.Err()
	})
	return orders, err
}
