package dto

import (
	"time"

	"github.com/olivernygren/sponge-boss/internal/domain"
)

// CreateUserRequest payload.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserSettingsRequest payload. Role arrives untyped and is parsed at
// the boundary.
type UpdateUserSettingsRequest struct {
	Role      string `json:"role"`
	IsDormant bool   `json:"is_dormant"`
}

// ChecklistItemRequest payload for add and text update.
type ChecklistItemRequest struct {
	Text string `json:"text"`
}

// ChecklistOrderEntry is one (id, order) pair of a reorder batch.
type ChecklistOrderEntry struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// ChecklistOrderRequest payload for the atomic reorder.
type ChecklistOrderRequest struct {
	Items []ChecklistOrderEntry `json:"items"`
}

// UserResponse is the wire form of a directory user.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsDormant bool      `json:"is_dormant"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChecklistItemResponse is the wire form of a checklist item.
type ChecklistItemResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		IsDormant: user.IsDormant,
		Image:     user.Image,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserResponses maps a slice of domain users.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// NewChecklistItemResponse maps a domain checklist item.
func NewChecklistItemResponse(item *domain.ChecklistItem) ChecklistItemResponse {
	return ChecklistItemResponse{
		ID:        item.ID,
		Text:      item.Text,
		Order:     item.Order,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// NewChecklistItemResponses maps a slice of domain checklist items.
func NewChecklistItemResponses(items []domain.ChecklistItem) []ChecklistItemResponse {
	out := make([]ChecklistItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewChecklistItemResponse(&items[i]))
	}
	return out
}

// ToOrderPairs converts the request batch into domain pairs.
func (r ChecklistOrderRequest) ToOrderPairs() []domain.ChecklistOrder {
	pairs := make([]domain.ChecklistOrder, 0, len(r.Items))
	for _, entry := range r.Items {
		pairs = append(pairs, domain.ChecklistOrder{ID: entry.ID, Order: entry.Order})
	}
	return pairs
}
