package models

// Bookable kinds. Events and workshops share one lifecycle and one approval
// path, so they live in one table distinguished by kind.
const (
	KindEvent    = "event"
	KindWorkshop = "workshop"
)

// Bookable statuses. Approved and Completed are terminal for creator edits.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Bookable is an event or workshop going through the approval lifecycle.
// CoordinatorID and VenueID are 0 when unassigned; dates are YYYY-MM-DD
// strings and empty when not scheduled yet.
type Bookable struct {
	ID            int64
	Kind          string
	Title         string
	Description   string
	Status        string
	CreatorID     int64
	CreatorName   string
	CoordinatorID int64
	VenueID       int64
	StartDate     string
	EndDate       string
	CreatedAt     string
	UpdatedAt     string
}

// BookableUpdate supports PATCH-style updates via key presence.
type BookableUpdate struct {
	Title         *string
	Description   *string
	CoordinatorID *int64
	StartDate     *string
	EndDate       *string
}

// VenueConflict describes an existing booking that blocks a venue
// assignment.
type VenueConflict struct {
	BookableID  int64  `json:"bookableId"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	CreatorName string `json:"creatorName"`
}
