package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventChecklistChanged     EventType = "checklist_changed"
	EventUserDirectoryChanged EventType = "user_directory_changed"
)

// ScopeAdminView is the cache scope covering the rendered admin page.
const ScopeAdminView = "view:admin"

// Event represents a change emitted by the mutation gateway. Every successful
// mutation publishes exactly one event so stale rendered views get dropped.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Scope     string    `json:"scope"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
}
