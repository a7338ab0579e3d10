package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/olivernygren/sponge-boss/internal/api/dto"
	"github.com/olivernygren/sponge-boss/internal/auth"
	"github.com/olivernygren/sponge-boss/internal/domain"
	"github.com/olivernygren/sponge-boss/internal/service"
	apperrors "github.com/olivernygren/sponge-boss/pkg/util"
)

// AdminHandler exposes the gateway operations as a JSON API. Authorization
// lives in the gateway itself; the handler only shapes payloads.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func actorFrom(c *fiber.Ctx) *domain.User {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.User
	}
	return nil
}

// ListChecklist handles GET /api/checklist. Public read.
func (h *AdminHandler) ListChecklist(c *fiber.Ctx) error {
	items, err := h.admin.ListChecklistItems(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewChecklistItemResponses(items)})
}

// AddChecklistItem handles POST /api/admin/checklist.
func (h *AdminHandler) AddChecklistItem(c *fiber.Ctx) error {
	var req dto.ChecklistItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.admin.AddChecklistItem(c.Context(), actorFrom(c), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewChecklistItemResponse(item)})
}

// UpdateChecklistItem handles PUT /api/admin/checklist/:id.
func (h *AdminHandler) UpdateChecklistItem(c *fiber.Ctx) error {
	var req dto.ChecklistItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.admin.UpdateChecklistItem(c.Context(), actorFrom(c), c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewChecklistItemResponse(item)})
}

// DeleteChecklistItem handles DELETE /api/admin/checklist/:id.
func (h *AdminHandler) DeleteChecklistItem(c *fiber.Ctx) error {
	if err := h.admin.DeleteChecklistItem(c.Context(), actorFrom(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UpdateChecklistOrder handles PUT /api/admin/checklist/order.
func (h *AdminHandler) UpdateChecklistOrder(c *fiber.Ctx) error {
	var req dto.ChecklistOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.admin.UpdateChecklistOrder(c.Context(), actorFrom(c), req.ToOrderPairs()); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.Context(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// CreateUser handles POST /api/admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.admin.CreateUser(c.Context(), actorFrom(c), req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateUserSettings handles PUT /api/admin/users/:id.
func (h *AdminHandler) UpdateUserSettings(c *fiber.Ctx) error {
	var req dto.UpdateUserSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	user, err := h.admin.UpdateUserSettings(c.Context(), actorFrom(c), c.Params("id"), role, req.IsDormant)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// DeleteUser handles DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.admin.DeleteUser(c.Context(), actorFrom(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
