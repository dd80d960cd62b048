package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/decorhub/storefront/internal/order"
)

// RegisterOrderRoutes wires the order endpoints behind gate. idempotency runs
// after the gate so replay keys are scoped to the caller.
func RegisterOrderRoutes(r fiber.Router, h *order.Handler, gate, idempotency fiber.Handler) {
	r.Post("/order", gate, idempotency, h.Create)
	r.Get("/orders", gate, h.List)
}
