package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weatherdex/weather-station-api/internal/apperr"
)

// authKeyHeader carries the opaque bearer token issued at login.
const authKeyHeader = "authentication-key"

// localUser is the context key the authenticated user is stored under.
const localUser = "authUser"

// requireRole gates a route behind the authentication key header. The key is
// resolved to a user and the user's role must be one of the allowed roles.
func requireRole(users UserStore, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(authKeyHeader)
		if key == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication key required")
		}

		u, err := users.GetByAuthenticationKey(c.Context(), key)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid authentication key")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to authenticate request")
		}

		for _, role := range roles {
			if u.Role == role {
				c.Locals(localUser, u)
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Insufficient role for this operation")
	}
}
