package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/decorhub/storefront/internal/metrics"
)

// ErrProductNotFound is returned when a product (or any product) is missing.
var ErrProductNotFound = errors.New("product not found")

// Repository reads products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db   *pgxpool.Pool
	prom *metrics.Prom
}

// NewPostgresRepository builds a Postgres-backed catalog. prom may be nil.
func NewPostgresRepository(db *pgxpool.Pool, prom *metrics.Prom) *PostgresRepository {
	return &PostgresRepository{db: db, prom: prom}
}

const productColumns = `id, product_picture, name, product_name, model_number, quantity, size, online_price, price`

// List returns every product ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	var products []Product
	err := r.prom.ObserveDB("products.list", func() error {
		rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			products = append(products, p)
		}
		return rows.Err()
	})
	return products, err
}

// Get fetches a product by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.prom.ObserveDB("products.get", func() error {
		var err error
		p, err = scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.ProductPicture, &p.Name, &p.ProductName, &p.ModelNumber, &p.Quantity, &p.Size, &p.OnlinePrice, &p.Price)
	return p, err
}
