package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

var fixtures = []Product{
	{ID: "2", ProductName: "RESIN SCULPTURE", ModelNumber: "SM-BJ721", Quantity: "1", Price: 15999},
	{ID: "1", ProductName: "AGATE ORNAMENT", Quantity: "1 (Set of 2)", Price: 8999},
}

func TestServiceListAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepository(fixtures...))
	ctx := context.Background()

	products, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 2 || products[0].ID != "1" {
		t.Fatalf("expected 2 products ordered by id, got %+v", products)
	}

	p, err := svc.Get(ctx, "2")
	if err != nil || p.ProductName != "RESIN SCULPTURE" {
		t.Fatalf("get: %+v %v", p, err)
	}
	if _, err := svc.Get(ctx, "99"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	ok, err := svc.Exists(ctx, "1")
	if err != nil || !ok {
		t.Fatalf("expected product 1 to exist")
	}
	ok, err = svc.Exists(ctx, "")
	if err != nil || ok {
		t.Fatalf("expected empty id to be absent")
	}
}

func TestEmptyCatalogIsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.List(context.Background()); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestHandler(t *testing.T) {
	app := fiber.New()
	h := NewHandler(NewService(NewMemoryRepository(fixtures...)))
	app.Get("/products", h.List)
	app.Get("/products/:id", h.Get)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/products/1", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Message string  `json:"message"`
		Product Product `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Product.Price != 8999 {
		t.Fatalf("unexpected product %+v", body.Product)
	}

	missing, err := app.Test(httptest.NewRequest(http.MethodGet, "/products/404", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.StatusCode)
	}
}
