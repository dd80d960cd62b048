package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/decorhub/storefront/internal/auth"
)

// RegisterAuthRoutes wires signup, OTP verification and login.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	r.Post("/signup", h.Signup)
	r.Post("/verify-otp", h.VerifyOTP)
	if rateLimiter != nil {
		r.Post("/login", rateLimiter, h.Login)
	} else {
		r.Post("/login", h.Login)
	}
}
