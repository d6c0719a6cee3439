package middleware

import (
	"errors"
	"strings"

	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/serviceerrors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
	LocalUserName  = "user_name"
	LocalUserRole  = "user_role"
)

// RequireAuth validates the bearer token and the stored session, then sets the
// user's identity in Locals for downstream handlers.
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		user, err := authService.ValidateToken(c.UserContext(), parts[1])
		if err != nil {
			if serviceerrors.IsOfKind(err, serviceerrors.KindStorageFailure) {
				log.Error().Err(err).Msg("token validation failed")
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
			}
			if errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrUserInactive) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserEmail, user.Email)
		c.Locals(LocalUserName, user.FullName)
		c.Locals(LocalUserRole, user.RoleCode())

		return c.Next()
	}
}

// RequireCapability asks the authorizer before the handler runs
func RequireCapability(authz service.Authorizer, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		if userID == uuid.Nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		if err := authz.Authorize(c.UserContext(), userID, capability); err != nil {
			if serviceerrors.IsOfKind(err, serviceerrors.KindForbidden) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Forbidden: requires '" + capability + "' privilege",
				})
			}
			log.Error().Err(err).Str("capability", capability).Msg("authorization check failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id, or uuid.Nil outside RequireAuth.
func UserID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(LocalUserID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
