package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/olivernygren/sponge-boss/internal/auth"
	"github.com/olivernygren/sponge-boss/internal/config"
	"github.com/olivernygren/sponge-boss/internal/service"
)

const stateCookieName = "sb_oauth_state"

// AuthHandler exposes the sign-in, callback and sign-out routes.
type AuthHandler struct {
	authService *service.AuthService
	session     config.SessionConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{authService: authService, session: session}
}

// Login handles GET /auth/login: redirect to the provider consent screen.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	state, url := h.authService.BeginSignIn()

	c.Cookie(&fiber.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(url, fiber.StatusFound)
}

// Callback handles GET /auth/callback: finish the code exchange and issue a
// session. An email outside the allow-list lands on /unauthorized with no
// session issued.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	expected := c.Cookies(stateCookieName)
	h.expireCookie(c, stateCookieName)

	if state == "" || state != expected {
		return c.Redirect("/", fiber.StatusFound)
	}

	code := c.Query("code")
	if code == "" {
		return c.Redirect("/", fiber.StatusFound)
	}

	token, expiresAt, err := h.authService.CompleteSignIn(c.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrDomainNotAllowed) {
			return c.Redirect("/unauthorized", fiber.StatusFound)
		}
		return c.Redirect("/", fiber.StatusFound)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/", fiber.StatusFound)
}

// Logout handles GET /auth/logout: revoke the session and clear the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		if err := h.authService.SignOut(c.Context(), principal.SessionID); err != nil {
			return err
		}
	}
	h.expireCookie(c, h.session.CookieName)
	return c.Redirect("/", fiber.StatusFound)
}

func (h *AuthHandler) expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
}
