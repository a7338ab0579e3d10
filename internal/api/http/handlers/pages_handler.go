package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	g "maragu.dev/gomponents"

	"github.com/olivernygren/sponge-boss/internal/auth"
	"github.com/olivernygren/sponge-boss/internal/events"
	"github.com/olivernygren/sponge-boss/internal/service"
	"github.com/olivernygren/sponge-boss/internal/view"
)

// PagesHandler serves the server-rendered pages.
type PagesHandler struct {
	admin *service.AdminService
	cache *view.Cache
}

// NewPagesHandler constructs handler.
func NewPagesHandler(admin *service.AdminService, cache *view.Cache) *PagesHandler {
	return &PagesHandler{admin: admin, cache: cache}
}

func renderPage(c *fiber.Ctx, page g.Node) error {
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(buf.String())
}

// Home handles GET /. Anonymous viewers get the sign-in prompt; signed-in
// users see the reminder checklist.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return renderPage(c, view.SignInPage())
	}

	items, err := h.admin.ListChecklistItems(c.Context())
	if err != nil {
		return err
	}
	return renderPage(c, view.HomePage(principal.User, items))
}

// Unauthorized handles GET /unauthorized, the target of a failed allow-list
// sign-in.
func (h *PagesHandler) Unauthorized(c *fiber.Ctx) error {
	return renderPage(c, view.UnauthorizedPage())
}

// Admin handles GET /admin. Route guards already ensured an admin principal.
// The content fragment is shared between admins and served from the page
// cache until a gateway mutation invalidates it.
func (h *PagesHandler) Admin(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	if cached, ok := h.cache.Get(c.Context(), events.ScopeAdminView); ok {
		return renderPage(c, view.AdminShell(principal.User, g.Raw(cached)))
	}

	users, err := h.admin.ListUsers(c.Context(), principal.User)
	if err != nil {
		return err
	}
	items, err := h.admin.ListChecklistItems(c.Context())
	if err != nil {
		return err
	}

	var fragment bytes.Buffer
	if err := view.AdminContent(users, items).Render(&fragment); err != nil {
		return err
	}
	h.cache.Set(c.Context(), events.ScopeAdminView, fragment.String())

	return renderPage(c, view.AdminShell(principal.User, g.Raw(fragment.String())))
}
