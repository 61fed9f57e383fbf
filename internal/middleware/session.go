package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/arturoeanton/go-social-front/internal/domain"
	"github.com/arturoeanton/go-social-front/internal/port"
	"github.com/arturoeanton/go-social-front/internal/session"
	"github.com/gofiber/fiber/v3"
)

const sessionKey = "session"

// RequireSession loads the cookie session and stores it in Fiber locals.
// Without one, pages redirect to /login and /api routes answer 401.
func RequireSession(m *session.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		sess, err := m.Load(c)
		if err != nil {
			if !errors.Is(err, port.ErrSessionNotFound) {
				slog.Error("load session", "error", err)
			}
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "not signed in",
				})
			}
			return c.Redirect().Status(fiber.StatusSeeOther).To("/login")
		}
		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

// GetSession extracts the session placed by RequireSession.
func GetSession(c fiber.Ctx) *domain.Session {
	s, ok := c.Locals(sessionKey).(*domain.Session)
	if !ok {
		return nil
	}
	return s
}
