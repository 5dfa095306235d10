package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"purchase-sale-backend/internal/config"
	"purchase-sale-backend/internal/logger"
	"purchase-sale-backend/internal/session"
)

// ErrInvalidCredentials is returned when the operator password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginRequest struct {
	Password string `json:"password"`
}

// CheckPassword compares a password with the configured bcrypt hash. An
// empty hash accepts any password.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// POST /api/session
func LoginHandler(cfg *config.Config, sessions *session.Registry) fiber.Handler {
	log := logger.WithComponent("auth")
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := CheckPassword(cfg.OperatorPasswordHash, body.Password); err != nil {
			log.Warn().Str("ip", c.IP()).Msg("Operator login rejected")
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong password")
		}

		s := sessions.Create()
		token, err := GenerateToken(cfg.JWTSecret, s.ID, cfg.SessionTTL)
		if err != nil {
			sessions.Delete(s.ID)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create token")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"token":      token,
			"expires_at": s.ExpiresAt,
			"form":       s.Controller.View(),
		})
	}
}

// DELETE /api/session
func LogoutHandler(sessions *session.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := CurrentSession(c)
		if err != nil {
			return err
		}
		sessions.Delete(s.ID)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
