package middleware

import (
	"strings"

	"trego/internal/apperr"
	"trego/internal/models"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(token string) (models.Principal, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token. The
// resolved principal is stored once per request for handlers and capability checks.
func AuthRequired(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Unauthorized("Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return apperr.Unauthorized("Authorization header format must be 'Bearer <token>'")
		}

		principal, err := auth.Authenticate(parts[1])
		if err != nil {
			return err
		}

		c.Locals(principalKey, principal)
		c.Locals("user_id", principal.UserID)
		c.Locals("username", principal.Username)
		return c.Next()
	}
}

// RequireCapability rejects callers whose role lacks the capability.
func RequireCapability(capability models.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := Principal(c)
		if !ok {
			return apperr.Unauthorized("not authenticated")
		}
		if !principal.Can(capability) {
			return apperr.Forbidden("role %s lacks %s", principal.Role, capability)
		}
		return c.Next()
	}
}

// Principal returns the caller stored by AuthRequired.
func Principal(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals(principalKey).(models.Principal)
	return p, ok
}
