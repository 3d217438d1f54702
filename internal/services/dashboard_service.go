package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "riskhub/internal/errors"
	"riskhub/internal/models"
)

// dashboardService aggregates risk and assignment state for display.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

type statusCount struct {
	Status string
	Count  int64
}

func countGrouped(db *gorm.DB, model interface{}, column string) ([]statusCount, error) {
	var rows []statusCount
	err := db.Model(model).
		Select(column + " AS status, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// GetDashboard returns current totals: risks and assignments by status,
// plus assignments already past their deadline but not yet terminal.
func (s *dashboardService) GetDashboard(ctx context.Context) (*DashboardSummary, error) {
	db := s.db.WithContext(ctx)

	summary := &DashboardSummary{
		RisksByStatus:       make(map[models.RiskStatus]int64),
		AssignmentsByStatus: make(map[models.AssignmentStatus]int64),
	}

	riskRows, err := countGrouped(db, &models.Risk{}, "status")
	if err != nil {
		return nil, err
	}
	for _, row := range riskRows {
		summary.RisksByStatus[models.RiskStatus(row.Status)] = row.Count
		summary.TotalRisks += row.Count
	}

	assignmentRows, err := countGrouped(db, &models.Assignment{}, "status")
	if err != nil {
		return nil, err
	}
	for _, row := range assignmentRows {
		summary.AssignmentsByStatus[models.AssignmentStatus(row.Status)] = row.Count
		summary.TotalAssignments += row.Count
	}

	if err := db.Model(&models.Assignment{}).
		Where("deadline < ? AND status NOT IN ?", time.Now(), models.TerminalAssignmentStatuses).
		Count(&summary.OverdueAssignments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return summary, nil
}

// GetRiskReport returns reporting totals grouped by category, status,
// and open-assignment priority.
func (s *dashboardService) GetRiskReport(ctx context.Context) (*RiskReport, error) {
	db := s.db.WithContext(ctx)

	report := &RiskReport{
		RisksByCategory:       make(map[models.RiskCategory]int64),
		RisksByStatus:         make(map[models.RiskStatus]int64),
		OpenAssignmentsByPrio: make(map[models.PriorityLevel]int64),
	}

	categoryRows, err := countGrouped(db, &models.Risk{}, "category")
	if err != nil {
		return nil, err
	}
	for _, row := range categoryRows {
		report.RisksByCategory[models.RiskCategory(row.Status)] = row.Count
	}

	statusRows, err := countGrouped(db, &models.Risk{}, "status")
	if err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		report.RisksByStatus[models.RiskStatus(row.Status)] = row.Count
	}

	var prioRows []statusCount
	if err := db.Model(&models.Assignment{}).
		Select("priority AS status, COUNT(*) AS count").
		Where("status NOT IN ?", models.TerminalAssignmentStatuses).
		Group("priority").
		Scan(&prioRows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, row := range prioRows {
		report.OpenAssignmentsByPrio[models.PriorityLevel(row.Status)] = row.Count
	}

	return report, nil
}
