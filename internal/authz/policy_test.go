package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventadmin/internal/domain"
	"eventadmin/internal/domain/models"
)

func TestAllow(t *testing.T) {
	cases := []struct {
		role   string
		action string
		want   bool
	}{
		{domain.RoleAdmin, ActionDeleteBookable, true},
		{domain.RoleAdmin, ActionAssignVenue, true},
		{domain.RoleFinance, ActionReviewBudget, true},
		{domain.RoleFinance, ActionAssignVenue, false},
		{domain.RoleFinance, ActionManageUsers, false},
		{domain.RoleTeamLead, ActionCreateBookable, true},
		{domain.RoleTeamLead, ActionReviewBudget, false},
		{domain.RoleTeamLead, ActionDeleteBookable, false},
		{domain.RoleCoordinator, ActionCreateBookable, false},
		{domain.RoleCoordinator, ActionSubmitBudget, false},
		{domain.RoleFacilities, ActionAssignVenue, true},
		{domain.RoleFacilities, ActionManageVenues, true},
		{domain.RoleFacilities, ActionCreateExpense, false},
		{"", ActionCreateBookable, false},
		{domain.RoleAdmin, "nonsense.action", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Allow(c.role, c.action), "role=%q action=%q", c.role, c.action)
	}
}

func TestCanView(t *testing.T) {
	b := models.Bookable{ID: 2, CreatorID: 4, CoordinatorID: 7}

	assert.True(t, CanView(domain.Caller{ID: 1, Role: domain.RoleAdmin}, b))
	assert.True(t, CanView(domain.Caller{ID: 9, Role: domain.RoleFinance}, b))
	assert.True(t, CanView(domain.Caller{ID: 3, Role: domain.RoleFacilities}, b))

	assert.True(t, CanView(domain.Caller{ID: 4, Role: domain.RoleTeamLead}, b))
	assert.False(t, CanView(domain.Caller{ID: 5, Role: domain.RoleTeamLead}, b))

	assert.True(t, CanView(domain.Caller{ID: 7, Role: domain.RoleCoordinator}, b))
	assert.False(t, CanView(domain.Caller{ID: 8, Role: domain.RoleCoordinator}, b))
}

func TestVisibilityFilter(t *testing.T) {
	cond, args := VisibilityFilter(domain.Caller{ID: 4, Role: domain.RoleTeamLead})
	assert.Equal(t, "b.creator_id = ?", cond)
	assert.Equal(t, []any{int64(4)}, args)

	cond, args = VisibilityFilter(domain.Caller{ID: 7, Role: domain.RoleCoordinator})
	assert.Equal(t, "b.coordinator_id = ?", cond)
	assert.Equal(t, []any{int64(7)}, args)

	cond, args = VisibilityFilter(domain.Caller{ID: 1, Role: domain.RoleAdmin})
	assert.Empty(t, cond)
	assert.Nil(t, args)
}
