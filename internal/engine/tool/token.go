package tool

import (
	"github.com/go-taskhub/taskhub/pkg/http/jwt"
	"github.com/go-taskhub/taskhub/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

// ActorId returns the user id of the verified caller, stored in locals by the
// authorization middleware. Empty string when the route skipped the middleware.
func ActorId(c *fiber.Ctx) string {
	claims, ok := c.Locals(middleware.ClaimsKey).(*jwt.AuthClaims)
	if !ok || claims == nil {
		return ""
	}
	return claims.UserId
}
