package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/decorhub/storefront/internal/infra"
	"github.com/decorhub/storefront/internal/middleware"
)

// ErrorHandler renders every error as {"message": ...}. Unexpected errors
// become a generic 500 and are reported.
func ErrorHandler(logger *slog.Logger, reporter *infra.ErrorReporter) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := http.StatusInternalServerError
		message := "Server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= http.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "request failed",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
			reporter.Capture(err, map[string]string{
				"method":     c.Method(),
				"route":      c.Route().Path,
				"request_id": middleware.RequestIDFrom(c),
			})
		}

		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}
