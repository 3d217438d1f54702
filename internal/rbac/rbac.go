// Package rbac maps (role, action) pairs to allow/deny decisions.
// The permission table is pure data built once at init; unknown roles
// and unknown actions are denied.
package rbac

import "riskhub/internal/models"

// Action is one of the closed set of operations a role may be granted.
type Action string

const (
	ActionViewRisk   Action = "view_risk"
	ActionCreateRisk Action = "create_risk"
	ActionUpdateRisk Action = "update_risk"
	ActionDeleteRisk Action = "delete_risk"

	ActionViewAssignment   Action = "view_assignment"
	ActionCreateAssignment Action = "create_assignment"
	ActionUpdateAssignment Action = "update_assignment"
	ActionDeleteAssignment Action = "delete_assignment"

	ActionViewDashboard Action = "view_dashboard"
	ActionViewReports   Action = "view_reports"
	ActionViewProfile   Action = "view_profile"
	ActionManageUsers   Action = "manage_users"
)

var allActions = []Action{
	ActionViewRisk, ActionCreateRisk, ActionUpdateRisk, ActionDeleteRisk,
	ActionViewAssignment, ActionCreateAssignment, ActionUpdateAssignment, ActionDeleteAssignment,
	ActionViewDashboard, ActionViewReports, ActionViewProfile, ActionManageUsers,
}

// permissions is the static role→actions table. Admin is the superset;
// each subsequent role is strictly more restrictive.
var permissions = map[models.Role]map[Action]bool{
	models.RoleAdmin: actionSet(allActions...),
	models.RoleRiskManager: actionSet(
		ActionViewRisk, ActionCreateRisk, ActionUpdateRisk, ActionDeleteRisk,
		ActionViewAssignment, ActionCreateAssignment, ActionUpdateAssignment, ActionDeleteAssignment,
		ActionViewDashboard, ActionViewReports, ActionViewProfile,
	),
	models.RoleTeamMember: actionSet(
		ActionViewRisk, ActionCreateRisk, ActionUpdateRisk,
		ActionViewAssignment, ActionUpdateAssignment,
		ActionViewDashboard, ActionViewProfile,
	),
	models.RoleViewer: actionSet(
		ActionViewRisk, ActionViewAssignment,
		ActionViewDashboard, ActionViewProfile,
	),
}

func actionSet(actions ...Action) map[Action]bool {
	set := make(map[Action]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}
	return set
}

// Authorize reports whether role may perform action. Fails closed:
// an unknown role or unknown action is always denied.
func Authorize(role models.Role, action Action) bool {
	return permissions[role][action]
}

// ValidRole reports whether role is one of the built-in roles.
func ValidRole(role models.Role) bool {
	_, ok := permissions[role]
	return ok
}
