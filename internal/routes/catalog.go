package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/decorhub/storefront/internal/catalog"
)

// RegisterCatalogRoutes wires the read-only product endpoints.
func RegisterCatalogRoutes(r fiber.Router, h *catalog.Handler) {
	r.Get("/products", h.List)
	r.Get("/products/:id", h.Get)
}
