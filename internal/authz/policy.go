package authz

import (
	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
)

// Actions checked against the role allow-list. Handlers and services gate on
// these before touching the store.
const (
	ActionCreateBookable   = "bookable.create"
	ActionUpdateBookable   = "bookable.update"
	ActionDeleteBookable   = "bookable.delete"
	ActionCompleteBookable = "bookable.complete"
	ActionAssignVenue      = "bookable.assign_venue"
	ActionSubmitBudget     = "budget.submit"
	ActionReviewBudget     = "budget.review"
	ActionCreateExpense    = "expense.create"
	ActionDeleteExpense    = "expense.delete"
	ActionManageVenues     = "venue.manage"
	ActionManageCategories = "category.manage"
	ActionManageUsers      = "user.manage"
	ActionDeleteUser       = "user.delete"
)

// policy is the single static allow-list consumed by every handler, instead
// of each route re-deriving role checks. Ownership restrictions for team
// leads and coordinators are layered on top via CanView.
var policy = map[string][]string{
	ActionCreateBookable:   {domain.RoleAdmin, domain.RoleTeamLead},
	ActionUpdateBookable:   {domain.RoleAdmin, domain.RoleTeamLead},
	ActionDeleteBookable:   {domain.RoleAdmin},
	ActionCompleteBookable: {domain.RoleAdmin, domain.RoleFinance},
	ActionAssignVenue:      {domain.RoleAdmin, domain.RoleFacilities},
	ActionSubmitBudget:     {domain.RoleAdmin, domain.RoleFinance, domain.RoleTeamLead},
	ActionReviewBudget:     {domain.RoleAdmin, domain.RoleFinance},
	ActionCreateExpense:    {domain.RoleAdmin, domain.RoleFinance, domain.RoleTeamLead},
	ActionDeleteExpense:    {domain.RoleAdmin, domain.RoleFinance},
	ActionManageVenues:     {domain.RoleAdmin, domain.RoleFacilities},
	ActionManageCategories: {domain.RoleAdmin, domain.RoleFinance},
	ActionManageUsers:      {domain.RoleAdmin},
	ActionDeleteUser:       {domain.RoleAdmin},
}

// Allow reports whether role may perform action at all.
func Allow(role, action string) bool {
	for _, r := range policy[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Roles returns the allow-list for an action, for wiring route-level gates.
func Roles(action string) []string {
	return policy[action]
}

// CanView applies role-scoped visibility: team leads see only bookables they
// created, coordinators only those assigned to them, everyone else sees all.
func CanView(caller domain.Caller, b models.Bookable) bool {
	switch caller.Role {
	case domain.RoleTeamLead:
		return b.CreatorID == caller.ID
	case domain.RoleCoordinator:
		return b.CoordinatorID == caller.ID
	default:
		return true
	}
}

// VisibilityFilter returns the SQL predicate matching CanView for list
// queries. An empty condition means unrestricted.
func VisibilityFilter(caller domain.Caller) (string, []any) {
	switch caller.Role {
	case domain.RoleTeamLead:
		return "b.creator_id = ?", []any{caller.ID}
	case domain.RoleCoordinator:
		return "b.coordinator_id = ?", []any{caller.ID}
	default:
		return "", nil
	}
}
