package models

// Budget decision values recorded in the approval history.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// BudgetLine is the per-category request attached to a bookable. Unique per
// (bookable, category). ApprovedAmount is negative-impossible but may be
// unset; HasApproved distinguishes "not reviewed" from "approved at 0".
type BudgetLine struct {
	ID              int64
	BookableID      int64
	CategoryID      int64
	CategoryName    string
	RequestedAmount float64
	SponsorAmount   float64
	ApprovedAmount  float64
	HasApproved     bool
	Remarks         string
}

// BudgetApproval is one review decision. The table is append-only; the
// latest row matches the bookable's current status.
type BudgetApproval struct {
	ID           int64
	BookableID   int64
	ReviewerID   int64
	ReviewerName string
	Decision     string
	Remarks      string
	CreatedAt    string
}

// Category is a budget/expense category.
type Category struct {
	ID       int64
	Name     string
	IsActive bool
}
