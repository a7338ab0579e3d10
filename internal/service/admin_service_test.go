package service

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivernygren/sponge-boss/internal/domain"
	"github.com/olivernygren/sponge-boss/internal/events"
	apperrors "github.com/olivernygren/sponge-boss/pkg/util"
)

type fakeUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeUserRepo) UpdateSettings(_ context.Context, id string, role domain.Role, isDormant bool) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.Role = role
	user.IsDormant = isDormant
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id, name string, image *string) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Name = name
	user.Image = image
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type fakeChecklistRepo struct {
	items map[string]*domain.ChecklistItem
	seq   int
}

func newFakeChecklistRepo() *fakeChecklistRepo {
	return &fakeChecklistRepo{items: make(map[string]*domain.ChecklistItem)}
}

func (r *fakeChecklistRepo) List(_ context.Context) ([]domain.ChecklistItem, error) {
	out := make([]domain.ChecklistItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeChecklistRepo) Create(_ context.Context, item *domain.ChecklistItem) error {
	maxOrder := 0
	for _, existing := range r.items {
		if existing.Order > maxOrder {
			maxOrder = existing.Order
		}
	}
	r.seq++
	item.ID = fmt.Sprintf("item-%d", r.seq)
	item.Order = maxOrder + 1
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeChecklistRepo) UpdateText(_ context.Context, id, text string) (*domain.ChecklistItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	item.Text = text
	copied := *item
	return &copied, nil
}

func (r *fakeChecklistRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

// ReorderAll mirrors the transactional contract: validate every id before
// touching any order so a bad batch changes nothing.
func (r *fakeChecklistRepo) ReorderAll(_ context.Context, pairs []domain.ChecklistOrder) error {
	for _, pair := range pairs {
		if _, ok := r.items[pair.ID]; !ok {
			return pgx.ErrNoRows
		}
	}
	for _, pair := range pairs {
		r.items[pair.ID].Order = pair.Order
	}
	return nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func setupGateway() (*AdminService, *fakeUserRepo, *fakeChecklistRepo, *recordingDispatcher) {
	users := newFakeUserRepo()
	checklist := newFakeChecklistRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewAdminService(AdminDependencies{
		UserRepo:      users,
		ChecklistRepo: checklist,
		Dispatcher:    dispatcher,
	})
	return svc, users, checklist, dispatcher
}

func admin() *domain.User {
	return &domain.User{ID: "admin-1", Name: "Admin", Email: "admin@spongeboss.se", Role: domain.RoleAdmin}
}

func member() *domain.User {
	return &domain.User{ID: "member-1", Name: "Member", Email: "member@spongeboss.se", Role: domain.RoleMember}
}

func TestPrivilegedOperationsRejectNonAdmins(t *testing.T) {
	ctx := context.Background()

	for name, actor := range map[string]*domain.User{
		"nil principal": nil,
		"member":        member(),
	} {
		t.Run(name, func(t *testing.T) {
			svc, users, checklist, dispatcher := setupGateway()

			_, err := svc.AddChecklistItem(ctx, actor, "Wash dishes")
			assertGuardError(t, actor, err)
			_, err = svc.UpdateChecklistItem(ctx, actor, "item-1", "text")
			assertGuardError(t, actor, err)
			assertGuardError(t, actor, svc.DeleteChecklistItem(ctx, actor, "item-1"))
			assertGuardError(t, actor, svc.UpdateChecklistOrder(ctx, actor, []domain.ChecklistOrder{{ID: "item-1", Order: 1}}))
			_, err = svc.ListUsers(ctx, actor)
			assertGuardError(t, actor, err)
			_, err = svc.CreateUser(ctx, actor, "Alice", "alice@spongeboss.se")
			assertGuardError(t, actor, err)
			_, err = svc.UpdateUserSettings(ctx, actor, "user-1", domain.RoleAdmin, false)
			assertGuardError(t, actor, err)
			assertGuardError(t, actor, svc.DeleteUser(ctx, actor, "user-1"))

			assert.Empty(t, users.users, "no user mutation expected")
			assert.Empty(t, checklist.items, "no checklist mutation expected")
			assert.Empty(t, dispatcher.published, "no invalidation expected")
		})
	}
}

func assertGuardError(t *testing.T, actor *domain.User, err error) {
	t.Helper()
	require.Error(t, err)
	if actor == nil {
		assert.Equal(t, "UNAUTHENTICATED", apperrors.CodeOf(err))
	} else {
		assert.Equal(t, "FORBIDDEN", apperrors.CodeOf(err))
	}
}

func TestChecklistReadIsPublic(t *testing.T) {
	svc, _, checklist, _ := setupGateway()
	ctx := context.Background()

	require.NoError(t, checklist.Create(ctx, &domain.ChecklistItem{Text: "Lock the door"}))

	items, err := svc.ListChecklistItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAddChecklistItemValidation(t *testing.T) {
	svc, _, checklist, dispatcher := setupGateway()
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := svc.AddChecklistItem(ctx, admin(), text)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", apperrors.CodeOf(err))
	}
	assert.Empty(t, checklist.items)
	assert.Empty(t, dispatcher.published)
}

func TestAddChecklistItemAppends(t *testing.T) {
	svc, _, _, dispatcher := setupGateway()
	ctx := context.Background()

	first, err := svc.AddChecklistItem(ctx, admin(), "Wash dishes")
	require.NoError(t, err)
	second, err := svc.AddChecklistItem(ctx, admin(), "  Count the till  ")
	require.NoError(t, err)
	assert.Equal(t, "Count the till", second.Text, "text is trimmed")
	assert.Greater(t, second.Order, first.Order)

	items, err := svc.ListChecklistItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []string{"Wash dishes", "Count the till"}, []string{items[0].Text, items[1].Text})

	require.Len(t, dispatcher.published, 2)
	for _, event := range dispatcher.published {
		assert.Equal(t, events.EventChecklistChanged, event.Type)
		assert.Equal(t, events.ScopeAdminView, event.Scope)
	}
}

func TestUpdateChecklistItemIsIdempotent(t *testing.T) {
	svc, _, _, _ := setupGateway()
	ctx := context.Background()

	created, err := svc.AddChecklistItem(ctx, admin(), "Sweep the floor")
	require.NoError(t, err)

	first, err := svc.UpdateChecklistItem(ctx, admin(), created.ID, "Mop the floor")
	require.NoError(t, err)
	second, err := svc.UpdateChecklistItem(ctx, admin(), created.ID, "Mop the floor")
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Order, second.Order)
}

func TestUpdateChecklistItemUnknownID(t *testing.T) {
	svc, _, _, _ := setupGateway()

	_, err := svc.UpdateChecklistItem(context.Background(), admin(), "missing", "text")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.CodeOf(err))
}

func TestDeleteChecklistItemRepeatFailsNotFound(t *testing.T) {
	svc, _, _, _ := setupGateway()
	ctx := context.Background()

	created, err := svc.AddChecklistItem(ctx, admin(), "Stack chairs")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteChecklistItem(ctx, admin(), created.ID))

	err = svc.DeleteChecklistItem(ctx, admin(), created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.CodeOf(err))
}

func TestUpdateChecklistOrderSwapsPositions(t *testing.T) {
	svc, _, _, _ := setupGateway()
	ctx := context.Background()

	a, err := svc.AddChecklistItem(ctx, admin(), "A")
	require.NoError(t, err)
	b, err := svc.AddChecklistItem(ctx, admin(), "B")
	require.NoError(t, err)

	err = svc.UpdateChecklistOrder(ctx, admin(), []domain.ChecklistOrder{
		{ID: a.ID, Order: 2},
		{ID: b.ID, Order: 1},
	})
	require.NoError(t, err)

	items, err := svc.ListChecklistItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestUpdateChecklistOrderIsAllOrNothing(t *testing.T) {
	svc, _, _, dispatcher := setupGateway()
	ctx := context.Background()

	a, err := svc.AddChecklistItem(ctx, admin(), "A")
	require.NoError(t, err)
	b, err := svc.AddChecklistItem(ctx, admin(), "B")
	require.NoError(t, err)
	publishedBefore := len(dispatcher.published)

	err = svc.UpdateChecklistOrder(ctx, admin(), []domain.ChecklistOrder{
		{ID: a.ID, Order: 9},
		{ID: "missing", Order: 10},
		{ID: b.ID, Order: 11},
	})
	require.Error(t, err)
	assert.Equal(t, "TRANSACTION_FAILED", apperrors.CodeOf(err))

	items, err := svc.ListChecklistItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.Order, items[0].Order, "order untouched after aborted batch")
	assert.Equal(t, b.Order, items[1].Order, "order untouched after aborted batch")
	assert.Len(t, dispatcher.published, publishedBefore, "no invalidation for an aborted batch")
}

func TestCreateUserConflictOnDuplicateEmail(t *testing.T) {
	svc, users, _, _ := setupGateway()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, admin(), "Alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, created.Role, "new users are always MEMBER")
	assert.False(t, created.IsDormant)

	_, err = svc.CreateUser(ctx, admin(), "Alice Again", "alice@example.com")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.CodeOf(err))
	assert.Len(t, users.users, 1, "exactly one Alice record")
}

func TestCreateUserConstraintViolationIsConflict(t *testing.T) {
	_, users, _, _ := setupGateway()
	ctx := context.Background()

	// Seed directly so the pre-check in CreateUser is raced past and the
	// fake's unique-constraint error is the signal that gets mapped.
	require.NoError(t, users.Create(ctx, &domain.User{Name: "Bob", Email: "bob@example.com", Role: domain.RoleMember}))

	err := users.Create(ctx, &domain.User{Name: "Bob Clone", Email: "bob@example.com", Role: domain.RoleMember})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.CodeOf(apperrors.MapError(err)))
}

func TestCreateUserValidation(t *testing.T) {
	svc, users, _, _ := setupGateway()
	ctx := context.Background()

	for _, input := range [][2]string{{"", "a@b.se"}, {"Alice", ""}, {"  ", "  "}} {
		_, err := svc.CreateUser(ctx, admin(), input[0], input[1])
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", apperrors.CodeOf(err))
	}
	assert.Empty(t, users.users)
}

func TestUpdateUserSettingsRoleAndDormancyTogether(t *testing.T) {
	svc, _, _, _ := setupGateway()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, admin(), "Alice", "alice@example.com")
	require.NoError(t, err)

	updated, err := svc.UpdateUserSettings(ctx, admin(), created.ID, domain.RoleAdmin, true)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.True(t, updated.IsDormant)

	listed, err := svc.ListUsers(ctx, admin())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, domain.RoleAdmin, listed[0].Role)
	assert.True(t, listed[0].IsDormant)
}

func TestUpdateUserSettingsAllowsSelfDemotion(t *testing.T) {
	svc, users, _, _ := setupGateway()
	ctx := context.Background()

	actor := admin()
	require.NoError(t, users.Create(ctx, &domain.User{Name: actor.Name, Email: actor.Email, Role: domain.RoleAdmin}))
	stored, err := users.GetByEmail(ctx, actor.Email)
	require.NoError(t, err)
	actor.ID = stored.ID

	updated, err := svc.UpdateUserSettings(ctx, actor, actor.ID, domain.RoleMember, true)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, updated.Role)
	assert.True(t, updated.IsDormant)
}

func TestUpdateUserSettingsValidation(t *testing.T) {
	svc, _, _, _ := setupGateway()
	ctx := context.Background()

	_, err := svc.UpdateUserSettings(ctx, admin(), "", domain.RoleAdmin, false)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.CodeOf(err))

	_, err = svc.UpdateUserSettings(ctx, admin(), "user-1", domain.Role("OWNER"), false)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.CodeOf(err))
}

func TestDeleteUserUnknownID(t *testing.T) {
	svc, _, _, _ := setupGateway()

	err := svc.DeleteUser(context.Background(), admin(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.CodeOf(err))
}

func TestListUsersSortedByName(t *testing.T) {
	svc, _, _, _ := setupGateway()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, admin(), "Cecilia", "cecilia@example.com")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, admin(), "Anders", "anders@example.com")
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx, admin())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Anders", users[0].Name)
	assert.Equal(t, "Cecilia", users[1].Name)
}

func TestEveryMutationInvalidatesAdminView(t *testing.T) {
	svc, _, _, dispatcher := setupGateway()
	ctx := context.Background()

	item, err := svc.AddChecklistItem(ctx, admin(), "One")
	require.NoError(t, err)
	_, err = svc.UpdateChecklistItem(ctx, admin(), item.ID, "One updated")
	require.NoError(t, err)
	require.NoError(t, svc.UpdateChecklistOrder(ctx, admin(), []domain.ChecklistOrder{{ID: item.ID, Order: 5}}))
	require.NoError(t, svc.DeleteChecklistItem(ctx, admin(), item.ID))

	user, err := svc.CreateUser(ctx, admin(), "Alice", "alice@example.com")
	require.NoError(t, err)
	_, err = svc.UpdateUserSettings(ctx, admin(), user.ID, domain.RoleMember, true)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(ctx, admin(), user.ID))

	require.Len(t, dispatcher.published, 7, "one invalidation per successful mutation")
	for _, event := range dispatcher.published {
		assert.Equal(t, events.ScopeAdminView, event.Scope)
		assert.Equal(t, "admin-1", event.ActorID)
	}
}
