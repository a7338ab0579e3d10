package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/olivernygren/sponge-boss/internal/domain"
	"github.com/olivernygren/sponge-boss/internal/events"
	"github.com/olivernygren/sponge-boss/internal/repository"
	apperrors "github.com/olivernygren/sponge-boss/pkg/util"
)

// AdminService is the mutation gateway: every privileged operation checks the
// actor's role first, validates its input before any store write, and emits
// one admin-view invalidation event per successful mutation.
type AdminService struct {
	users      repository.UserRepository
	checklist  repository.ChecklistRepository
	dispatcher events.Dispatcher
}

// AdminDependencies encapsulates collaborators for the gateway.
type AdminDependencies struct {
	UserRepo      repository.UserRepository
	ChecklistRepo repository.ChecklistRepository
	Dispatcher    events.Dispatcher
}

// NewAdminService constructs the gateway.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		users:      deps.UserRepo,
		checklist:  deps.ChecklistRepo,
		dispatcher: deps.Dispatcher,
	}
}

// requireAdmin is evaluated fresh on every call; the actor's role comes from
// the user row loaded for this request, so demotions apply on the next call.
func requireAdmin(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthenticated("sign-in required")
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

func (s *AdminService) invalidate(ctx context.Context, eventType events.EventType, actorID string) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Scope:     events.ScopeAdminView,
		ActorID:   actorID,
		Timestamp: time.Now(),
	})
}

// ListChecklistItems returns all items ascending by order, id. No auth: the
// checklist is visible to every viewer of the schedule pages.
func (s *AdminService) ListChecklistItems(ctx context.Context) ([]domain.ChecklistItem, error) {
	items, err := s.checklist.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// AddChecklistItem appends a new item after the current tail.
func (s *AdminService) AddChecklistItem(ctx context.Context, actor *domain.User, text string) (*domain.ChecklistItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("text must not be empty", nil)
	}

	item := &domain.ChecklistItem{Text: text}
	if err := s.checklist.Create(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx, events.EventChecklistChanged, actor.ID)
	return item, nil
}

// UpdateChecklistItem replaces an item's text. Idempotent for identical text.
func (s *AdminService) UpdateChecklistItem(ctx context.Context, actor *domain.User, id, text string) (*domain.ChecklistItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("text must not be empty", nil)
	}

	item, err := s.checklist.UpdateText(ctx, id, text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("checklist item", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx, events.EventChecklistChanged, actor.ID)
	return item, nil
}

// DeleteChecklistItem removes an item. A repeat delete of the same id fails
// NOT_FOUND.
func (s *AdminService) DeleteChecklistItem(ctx context.Context, actor *domain.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.checklist.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("checklist item", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	s.invalidate(ctx, events.EventChecklistChanged, actor.ID)
	return nil
}

// UpdateChecklistOrder applies all (id, order) pairs in a single store
// transaction: either every update commits or none do.
func (s *AdminService) UpdateChecklistOrder(ctx context.Context, actor *domain.User, pairs []domain.ChecklistOrder) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	for _, pair := range pairs {
		if pair.ID == "" {
			return apperrors.NewValidationError("order entry missing id", nil)
		}
	}

	if len(pairs) > 0 {
		if err := s.checklist.ReorderAll(ctx, pairs); err != nil {
			return apperrors.NewTransactionError("reorder aborted", err)
		}
	}
	s.invalidate(ctx, events.EventChecklistChanged, actor.ID)
	return nil
}

// ListUsers returns the directory ascending by name. Admin-only, unlike the
// checklist read.
func (s *AdminService) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// CreateUser adds a directory entry. New users are always MEMBER and awake.
// The email pre-check gives a friendly early error; the store's unique
// constraint is the authoritative backstop for the check-then-act race, and a
// unique violation at insert is surfaced as the same CONFLICT.
func (s *AdminService) CreateUser(ctx context.Context, actor *domain.User, name, email string) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("user email already exists", map[string]any{"email": email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:      name,
		Email:     email,
		Role:      domain.RoleMember,
		IsDormant: false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx, events.EventUserDirectoryChanged, actor.ID)
	return user, nil
}

// UpdateUserSettings changes a user's role and dormancy. Admins may demote or
// deactivate their own account; the reference behavior accepts the lockout
// risk.
func (s *AdminService) UpdateUserSettings(ctx context.Context, actor *domain.User, userID string, role domain.Role, isDormant bool) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required", nil)
	}
	if role != domain.RoleMember && role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}

	user, err := s.users.UpdateSettings(ctx, userID, role, isDormant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx, events.EventUserDirectoryChanged, actor.ID)
	return user, nil
}

// DeleteUser removes a directory entry. The store cascades dependent rows
// (sessions) through referential integrity.
func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.User, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if userID == "" {
		return apperrors.NewValidationError("user id is required", nil)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return apperrors.MapError(err)
	}
	s.invalidate(ctx, events.EventUserDirectoryChanged, actor.ID)
	return nil
}
