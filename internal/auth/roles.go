package auth

import (
	"github.com/gofiber/fiber/v2"
)

// RequireAuth redirects unauthenticated viewers to the home route. Used on
// pages that need any signed-in user.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return c.Redirect("/", fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireAdmin redirects viewers without the admin role to the home route.
// Page-level only: gateway operations re-check the role themselves so a
// demotion applies on the very next call.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.IsAdmin() {
			return c.Redirect("/", fiber.StatusFound)
		}
		return c.Next()
	}
}
