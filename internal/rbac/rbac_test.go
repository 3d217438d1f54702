package rbac

import (
	"testing"

	"riskhub/internal/models"
)

func TestAuthorize(t *testing.T) {
	t.Run("admin_allows_everything", func(t *testing.T) {
		for _, action := range allActions {
			if !Authorize(models.RoleAdmin, action) {
				t.Errorf("expected admin to be allowed %q", action)
			}
		}
	})

	t.Run("risk_manager_cannot_manage_users", func(t *testing.T) {
		if Authorize(models.RoleRiskManager, ActionManageUsers) {
			t.Error("expected risk manager to be denied manage_users")
		}
		if !Authorize(models.RoleRiskManager, ActionDeleteRisk) {
			t.Error("expected risk manager to be allowed delete_risk")
		}
		if !Authorize(models.RoleRiskManager, ActionViewReports) {
			t.Error("expected risk manager to be allowed view_reports")
		}
	})

	t.Run("team_member_cannot_delete", func(t *testing.T) {
		if Authorize(models.RoleTeamMember, ActionDeleteRisk) {
			t.Error("expected team member to be denied delete_risk")
		}
		if Authorize(models.RoleTeamMember, ActionDeleteAssignment) {
			t.Error("expected team member to be denied delete_assignment")
		}
		if !Authorize(models.RoleTeamMember, ActionCreateRisk) {
			t.Error("expected team member to be allowed create_risk")
		}
		if !Authorize(models.RoleTeamMember, ActionUpdateAssignment) {
			t.Error("expected team member to be allowed update_assignment")
		}
	})

	t.Run("viewer_is_read_only", func(t *testing.T) {
		allowed := []Action{ActionViewRisk, ActionViewAssignment, ActionViewDashboard, ActionViewProfile}
		for _, action := range allowed {
			if !Authorize(models.RoleViewer, action) {
				t.Errorf("expected viewer to be allowed %q", action)
			}
		}
		denied := []Action{ActionCreateRisk, ActionUpdateRisk, ActionDeleteRisk,
			ActionCreateAssignment, ActionUpdateAssignment, ActionDeleteAssignment,
			ActionViewReports, ActionManageUsers}
		for _, action := range denied {
			if Authorize(models.RoleViewer, action) {
				t.Errorf("expected viewer to be denied %q", action)
			}
		}
	})

	t.Run("fails_closed", func(t *testing.T) {
		if Authorize(models.Role("superuser"), ActionViewRisk) {
			t.Error("expected unknown role to be denied")
		}
		if Authorize(models.RoleAdmin, Action("drop_tables")) {
			t.Error("expected unknown action to be denied")
		}
		if Authorize(models.Role(""), Action("")) {
			t.Error("expected empty role and action to be denied")
		}
	})
}

func TestValidRole(t *testing.T) {
	for _, role := range []models.Role{models.RoleAdmin, models.RoleRiskManager, models.RoleTeamMember, models.RoleViewer} {
		if !ValidRole(role) {
			t.Errorf("expected %q to be a valid role", role)
		}
	}
	if ValidRole(models.Role("root")) {
		t.Error("expected unknown role to be invalid")
	}
}
