package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/skyportlabs/panel/internal/db/models"
	fiberlogger "github.com/skyportlabs/panel/internal/logger/adapter/fiber"
	"github.com/skyportlabs/panel/internal/web/session"
)

// LocalsCurrentUser is the fiber.Locals key holding the authenticated models.User.
const LocalsCurrentUser = "CurrentUser"

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			log.Error().Msg("No session cookie found")
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil {
			log.Error().Err(err).Msg("Failed to read session")
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if sessionData.User.ID == 0 {
			log.Error().Msg("Invalid session data")
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		hasPermission, err := authService.HasPermission(sessionData.User.ID, permission)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).Str("permission", permission).
				Msg("Failed to check permission")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !hasPermission {
			log.Warn().Uint64("user_id", sessionData.User.ID).Str("permission", permission).
				Msg("User lacks required permission")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		c.Locals(LocalsCurrentUser, sessionData.User)
		c.Locals(fiberlogger.LocalsUsername, sessionData.User.Username)

		return c.Next()
	}
}

// CurrentUser returns the user stored by RequirePermission.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(LocalsCurrentUser).(models.User)

	return user, ok
}
