package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ansokolov/CourseFox/app/models"
	"github.com/ansokolov/CourseFox/internal/pkg/token"
	"github.com/ansokolov/CourseFox/internal/pkg/usercontext"
)

// BearerContext validates an optional bearer credential and populates the
// user context for the request. Requests without a credential pass through
// as anonymous; a credential that is present but invalid is rejected with
// 401 immediately, never treated as anonymous.
func BearerContext(issuer *token.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := extractBearerToken(c)
		if raw == "" {
			c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
				IsLoggedIn: false,
				IsAdmin:    false,
			})
			return c.Next()
		}

		sc, err := issuer.Validate(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "bad_token", "message": "Invalid or expired session"})
		}

		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			UserID:     sc.UserID,
			Role:       sc.Role,
			IsLoggedIn: true,
			IsAdmin:    sc.Role == models.ROLE_ADMIN || sc.Role == models.ROLE_DEV,
		})
		c.Locals(usercontext.KeyUserID, sc.UserID)
		c.Locals(usercontext.KeyRole, sc.Role)

		return c.Next()
	}
}

// RequireAPIAuth ensures a validated session for API routes and returns
// JSON 401 instead of a redirect.
func RequireAPIAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "no_token",
			"message": "login required",
		})
	}
	return c.Next()
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
