package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"riskhub/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a team member with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleTeamMember)
}

// CreateTestUserWithRole creates a user with the given role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Name:     fmt.Sprintf("Test User %d", n),
		Email:    fmt.Sprintf("user%d@test.com", n),
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestRisk creates an Identified risk with valid fields.
func CreateTestRisk(t *testing.T, db *gorm.DB, creatorID string) *models.Risk {
	t.Helper()
	return CreateTestRiskWithStatus(t, db, creatorID, models.RiskStatusIdentified)
}

// CreateTestRiskWithStatus creates a risk in the given lifecycle state.
func CreateTestRiskWithStatus(t *testing.T, db *gorm.DB, creatorID string, status models.RiskStatus) *models.Risk {
	t.Helper()

	n := nextID()
	risk := &models.Risk{
		RiskID:       fmt.Sprintf("RISK-%s-%04d", time.Now().Format("2006-01"), 9000+n),
		Category:     models.RiskCategoryOperational,
		Description:  strings.Repeat("x", 40),
		Source:       models.RiskSourceRiskAssessment,
		Status:       status,
		IdentifiedBy: creatorID,
	}
	if err := db.Create(risk).Error; err != nil {
		t.Fatalf("failed to create test risk: %v", err)
	}
	return risk
}

// CreateTestAssignment creates an assignment in the given state against a risk.
func CreateTestAssignment(t *testing.T, db *gorm.DB, riskID, assignedTo, assignedBy string, status models.AssignmentStatus) *models.Assignment {
	t.Helper()

	n := nextID()
	assignment := &models.Assignment{
		AssignmentID: fmt.Sprintf("ASGN-%s-%04d", time.Now().Format("2006-01"), 9000+n),
		RiskID:       riskID,
		AssignedTo:   assignedTo,
		AssignedBy:   assignedBy,
		Status:       status,
		Priority:     models.PriorityMedium,
		Deadline:     time.Now().Add(7 * 24 * time.Hour),
	}
	if err := db.Create(assignment).Error; err != nil {
		t.Fatalf("failed to create test assignment: %v", err)
	}
	return assignment
}
