package server

import (
	"log/slog"

	"petition/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// render renders a view inside the main layout, injecting the CSRF token
// every form template expects.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if tok, ok := c.Locals("csrfToken").(string); ok {
		data["csrfToken"] = tok
	}
	return c.Render(name, data, "layouts/main")
}

// logError records a handler-level failure with request context.
func (s *Server) logError(c *fiber.Ctx, op string, err error) {
	middleware.Logger.ErrorContext(c.UserContext(), op,
		slog.String("error", err.Error()),
		slog.String("path", c.Path()),
	)
}
