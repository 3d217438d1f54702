package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"riskhub/internal/models"
	"riskhub/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, name, email, password string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error
	GetRefreshTokenHash(ctx context.Context, userID string) (string, error)
	ListUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateUserRole(ctx context.Context, userID string, role models.Role) (*models.User, error)
}

// RiskUpdateInput holds the optional fields of a partial risk update.
// Nil fields keep their stored value.
type RiskUpdateInput struct {
	Category    *models.RiskCategory
	Description *string
	Source      *models.RiskSource
	Trigger     *string
	Status      *models.RiskStatus
}

// RiskFilter holds optional filter parameters for listing risks.
type RiskFilter struct {
	Status   *models.RiskStatus
	Category *models.RiskCategory
}

// RiskServicer defines the contract for the risk lifecycle.
type RiskServicer interface {
	CreateRisk(ctx context.Context, creatorID string, category models.RiskCategory, description string, source models.RiskSource, trigger string, status models.RiskStatus) (*models.Risk, error)
	GetRiskByID(ctx context.Context, riskID string) (*models.Risk, error)
	ListRisks(ctx context.Context, page pagination.PageRequest, filter RiskFilter) (*pagination.PageResponse[models.Risk], error)
	UpdateRisk(ctx context.Context, riskID, actorID string, input RiskUpdateInput) (*models.Risk, error)
	DeleteRisk(ctx context.Context, riskID string) error
}

// AssignmentUpdateInput holds the optional fields of a partial assignment
// update. The deadline is not re-validated against the clock here.
type AssignmentUpdateInput struct {
	Status   *models.AssignmentStatus
	Priority *models.PriorityLevel
	Deadline *time.Time
	Notes    *string
}

// AssignmentFilter holds optional filter parameters for listing assignments.
type AssignmentFilter struct {
	RiskID     *string
	Status     *models.AssignmentStatus
	Priority   *models.PriorityLevel
	AssignedTo *string
}

// AssignmentServicer defines the contract for assignment coordination,
// including the conditional risk transition on creation.
type AssignmentServicer interface {
	CreateAssignment(ctx context.Context, riskID, assignedTo, assignedBy string, priority models.PriorityLevel, deadline time.Time, notes string, status models.AssignmentStatus) (*models.Assignment, error)
	GetAssignmentByID(ctx context.Context, assignmentID string) (*models.Assignment, error)
	ListAssignments(ctx context.Context, page pagination.PageRequest, filter AssignmentFilter) (*pagination.PageResponse[models.Assignment], error)
	UpdateAssignment(ctx context.Context, assignmentID, actorID string, input AssignmentUpdateInput) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, assignmentID string) error
}

// AuditServicer defines the contract for the append-only risk timeline.
// Append takes the caller's transaction handle: a failed audit write must
// roll back the mutation it describes.
type AuditServicer interface {
	Append(tx *gorm.DB, riskID, actorID, updateType, previousValue, newValue, comment string) (*models.RiskUpdate, error)
	ListRiskUpdates(ctx context.Context, riskID string, page pagination.PageRequest) (*pagination.PageResponse[models.RiskUpdate], error)
}

// DashboardSummary aggregates current risk and assignment state.
type DashboardSummary struct {
	TotalRisks          int64                             `json:"total_risks"`
	RisksByStatus       map[models.RiskStatus]int64       `json:"risks_by_status"`
	TotalAssignments    int64                             `json:"total_assignments"`
	AssignmentsByStatus map[models.AssignmentStatus]int64 `json:"assignments_by_status"`
	OverdueAssignments  int64                             `json:"overdue_assignments"`
}

// RiskReport aggregates risk totals for reporting.
type RiskReport struct {
	RisksByCategory       map[models.RiskCategory]int64  `json:"risks_by_category"`
	RisksByStatus         map[models.RiskStatus]int64    `json:"risks_by_status"`
	OpenAssignmentsByPrio map[models.PriorityLevel]int64 `json:"open_assignments_by_priority"`
}

// DashboardServicer defines the contract for dashboard and report aggregation.
type DashboardServicer interface {
	GetDashboard(ctx context.Context) (*DashboardSummary, error)
	GetRiskReport(ctx context.Context) (*RiskReport, error)
}
