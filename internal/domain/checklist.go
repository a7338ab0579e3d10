package domain

import "time"

// ChecklistItem is a reusable reminder text shown on the schedule pages.
// Display order is ascending by Order with ID as the stable tie-break.
type ChecklistItem struct {
	ID        string
	Text      string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChecklistOrder pairs an item id with its requested position. A reorder
// applies a full set of pairs atomically.
type ChecklistOrder struct {
	ID    string
	Order int
}
