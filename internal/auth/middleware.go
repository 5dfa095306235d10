package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"purchase-sale-backend/internal/config"
	"purchase-sale-backend/internal/session"
)

const CtxSessionKey = "form_session"

func JWTMiddleware(cfg *config.Config, sessions *session.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		claims, err := ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		s, err := sessions.Get(claims.SessionID())
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Session has ended, log in again")
			}
			return err
		}

		c.Locals(CtxSessionKey, s)
		return c.Next()
	}
}

// CurrentSession returns the session stored by JWTMiddleware.
func CurrentSession(c *fiber.Ctx) (*session.Session, error) {
	s, ok := c.Locals(CtxSessionKey).(*session.Session)
	if !ok || s == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "No form session")
	}
	return s, nil
}
