package catalog

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the product endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /products.
func (h *Handler) List(c *fiber.Ctx) error {
	products, err := h.svc.List(c.UserContext())
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return fiber.NewError(http.StatusNotFound, "No products found")
		}
		return err
	}
	return c.JSON(fiber.Map{"message": "Products fetched successfully", "products": products})
}

// Get handles GET /products/:id.
func (h *Handler) Get(c *fiber.Ctx) error {
	product, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return fiber.NewError(http.StatusNotFound, "Product not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"message": "Product fetched successfully", "product": product})
}
