package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/olivernygren/sponge-boss/internal/domain"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller for one request. The user is
// loaded fresh from the store on every request so role changes take effect on
// the next call.
type Principal struct {
	SessionID string
	User      *domain.User
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.User.IsAdmin()
}

// PrincipalFromContext retrieves the authenticated entity, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil
}

func setPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}
