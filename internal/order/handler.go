package order

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/decorhub/storefront/internal/auth"
	"github.com/decorhub/storefront/internal/identity"
	"github.com/decorhub/storefront/internal/validation"
)

// Handler exposes order endpoints. Both routes sit behind the access gate.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Items []Item `json:"items"`
}

// Create handles POST /order.
func (h *Handler) Create(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFrom(c.UserContext())
	if !ok {
		return fiber.NewError(http.StatusForbidden, "Access denied")
	}

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Order must contain at least one item")
	}

	o, err := h.svc.CreateOrder(c.UserContext(), caller, req.Items)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": verr.Message, "errors": verr.Fields})
		case errors.Is(err, identity.ErrUserNotFound):
			return fiber.NewError(http.StatusNotFound, "User not found")
		default:
			return err
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Order created successfully",
		"order":   o,
	})
}

// List handles GET /orders.
func (h *Handler) List(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFrom(c.UserContext())
	if !ok {
		return fiber.NewError(http.StatusForbidden, "Access denied")
	}
	orders, err := h.svc.ListOrders(c.UserContext(), caller)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return fiber.NewError(http.StatusNotFound, "User not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"message": "Orders fetched successfully", "orders": orders})
}
