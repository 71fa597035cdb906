package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"vendocs/internal/auth"
	"vendocs/internal/model"
)

// ClaimsLocalKey is the key used to store validated JWT claims in Fiber's
// context locals.
const ClaimsLocalKey = "claims"

// Protect validates the Bearer token on each request and stores the claims in
// context locals. Requests without a valid token are rejected with 401.
func Protect(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := auth.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// Authorize allows the request through only when the authenticated role is one
// of the given roles. It must run after Protect.
func Authorize(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		for _, r := range roles {
			if claims.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// Claims returns the validated claims stored by Protect, or nil.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}
