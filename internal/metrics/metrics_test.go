package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareCountsByRouteTemplate(t *testing.T) {
	p := New(prometheus.NewRegistry())

	app := fiber.New()
	app.Use(p.Middleware())
	app.Get("/products/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "missing" {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	for _, path := range []string{"/products/1", "/products/2", "/products/missing"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
	}

	if got := testutil.ToFloat64(p.RequestsTotal.WithLabelValues("GET", "/products/:id", "200")); got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
	if got := testutil.ToFloat64(p.RequestsTotal.WithLabelValues("GET", "/products/:id", "404")); got != 1 {
		t.Fatalf("expected 1 not found request, got %v", got)
	}
}

func TestObserveDBClassifiesErrors(t *testing.T) {
	p := New(prometheus.NewRegistry())

	dup := &pgconn.PgError{Code: "23505"}
	if err := p.ObserveDB("users.create", func() error { return dup }); !errors.Is(err, dup) {
		t.Fatalf("expected error passthrough, got %v", err)
	}
	if got := testutil.ToFloat64(p.DBErrorsTotal.WithLabelValues("users.create", "unique_violation")); got != 1 {
		t.Fatalf("expected unique_violation count 1, got %v", got)
	}

	var nilProm *Prom
	called := false
	if err := nilProm.ObserveDB("noop", func() error { called = true; return nil }); err != nil || !called {
		t.Fatalf("nil Prom should still run fn")
	}
}
