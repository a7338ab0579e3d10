package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/olivernygren/sponge-boss/internal/repository"
)

// SessionMiddleware resolves the session cookie into a Principal. It never
// rejects a request itself: routes that need a signed-in or admin caller use
// the guards in roles.go, and the gateway re-checks the role on every call.
type SessionMiddleware struct {
	tokens     *SessionTokenManager
	sessions   repository.SessionRepository
	users      repository.UserRepository
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *SessionTokenManager, sessions repository.SessionRepository, users repository.UserRepository, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, sessions: sessions, users: users, cookieName: cookieName}
}

// Handle loads the principal for the current request when a valid session
// cookie is present. Invalid or expired cookies are cleared and the request
// continues unauthenticated.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	raw := c.Cookies(m.cookieName)
	if raw == "" {
		return c.Next()
	}

	sessionID, err := m.tokens.ParseToken(raw)
	if err != nil {
		m.clearCookie(c)
		return c.Next()
	}

	session, err := m.sessions.GetByID(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			m.clearCookie(c)
			return c.Next()
		}
		return err
	}
	if session.Expired(time.Now()) {
		m.clearCookie(c)
		return c.Next()
	}

	user, err := m.users.GetByID(c.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			m.clearCookie(c)
			return c.Next()
		}
		return err
	}

	setPrincipal(c, &Principal{SessionID: session.ID, User: user})
	return c.Next()
}

func (m *SessionMiddleware) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
}
