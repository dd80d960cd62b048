package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/decorhub/storefront/internal/identity"
	"github.com/decorhub/storefront/internal/otp"
	"github.com/decorhub/storefront/internal/validation"
)

// Handler exposes signup, OTP verification and login.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Signup registers a user and sends an OTP.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req SignupInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "All fields are required")
	}
	res, err := h.svc.Signup(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalid):
			return fiber.NewError(http.StatusBadRequest, "All fields are required")
		case errors.Is(err, identity.ErrUserExists):
			return fiber.NewError(http.StatusConflict, "Email already exists")
		default:
			return err
		}
	}

	message := "User registered successfully. OTP sent to the registered phone number."
	if !res.OTPSent {
		message = "User registered, but failed to send OTP"
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": message,
		"name":    res.Name,
		"email":   res.Email,
		"id":      res.ID,
		"otpSent": res.OTPSent,
		"token":   res.Token,
	})
}

// VerifyOTP checks a phone's code.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Mobile number and OTP are required.")
	}
	if err := h.svc.VerifyOTP(c.UserContext(), req); err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalid):
			return fiber.NewError(http.StatusBadRequest, "Mobile number and OTP are required.")
		case errors.Is(err, otp.ErrInvalidCode):
			return fiber.NewError(http.StatusBadRequest, "Invalid OTP.")
		default:
			return err
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "OTP verified successfully!"})
}

// Login validates credentials and returns a token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Email and password are required")
	}
	res, err := h.svc.Login(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalid):
			return fiber.NewError(http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, identity.ErrUserNotFound):
			return fiber.NewError(http.StatusUnauthorized, "No user found")
		case errors.Is(err, identity.ErrInvalidCredentials):
			return fiber.NewError(http.StatusUnauthorized, "Invalid password")
		case errors.Is(err, otp.ErrInvalidCode):
			return fiber.NewError(http.StatusBadRequest, "Invalid OTP")
		default:
			return err
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"token":   res.Token,
	})
}
