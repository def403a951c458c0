// middleware/auth.go
package middleware

import (
	"strings"

	"fitness-duel-system/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BearerAuth verifies the access token and stores the caller's identity in
// c.Locals("user_id") and c.Locals("user_email").
func BearerAuth(tokens *auth.Tokens, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid Authorization header",
			})
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			log.Debug("rejected access token", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		c.Locals("user_id", claims.Subject)
		c.Locals("user_email", claims.Email)
		return c.Next()
	}
}

// UserID returns the identity set by BearerAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
