package domain

// Roles governing authorization scope.
const (
	RoleAdmin       = "admin"
	RoleFinance     = "finance"
	RoleTeamLead    = "team_lead"
	RoleCoordinator = "coordinator"
	RoleFacilities  = "facilities"
)

// Caller carries the authenticated identity attached to a request. The
// backend trusts it as-is; verification happened in the auth middleware.
type Caller struct {
	ID    int64  `json:"userId"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleFinance, RoleTeamLead, RoleCoordinator, RoleFacilities:
		return true
	}
	return false
}

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total,omitempty"`
}
