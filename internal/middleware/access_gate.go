package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/decorhub/storefront/internal/auth"
)

// IdentityLocal is the c.Locals key holding the caller's auth.Identity.
const IdentityLocal = "identity"

// AccessGate verifies the Authorization header and attaches the caller's
// identity to the request. The header may hold the raw token or
// "Bearer <token>". Missing or invalid tokens are rejected with 403.
func AccessGate(tokens *auth.TokenIssuer, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return fiber.NewError(http.StatusForbidden, "Access denied")
		}

		id, err := tokens.VerifyDetailed(raw)
		if err != nil {
			logger.DebugContext(c.UserContext(), "token rejected", slog.Any("error", err))
			return fiber.NewError(http.StatusForbidden, "Invalid token")
		}

		c.Locals(IdentityLocal, id)
		c.SetUserContext(auth.WithIdentity(c.UserContext(), id))
		return c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		header = strings.TrimSpace(header[7:])
	}
	return header
}
