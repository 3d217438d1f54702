package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "riskhub/internal/errors"
	"riskhub/internal/models"
	"riskhub/internal/pagination"
	"riskhub/internal/sequence"
)

// assignmentService coordinates assignments and the conditional risk
// transition that fires when the first assignment lands on a risk.
type assignmentService struct {
	db    *gorm.DB
	audit AuditServicer
}

// NewAssignmentService creates a new AssignmentServicer.
func NewAssignmentService(db *gorm.DB, audit AuditServicer) AssignmentServicer {
	return &assignmentService{db: db, audit: audit}
}

// CreateAssignment creates an assignment against an existing risk. In one
// transaction it allocates the assignment identifier, inserts the row,
// advances the risk from Identified to Assigned (a no-op for any other
// prior status), and appends an "Assignment Created" audit record. A
// failure at any step rolls the whole set back.
func (s *assignmentService) CreateAssignment(
	ctx context.Context,
	riskID, assignedTo, assignedBy string,
	priority models.PriorityLevel,
	deadline time.Time,
	notes string,
	status models.AssignmentStatus,
) (*models.Assignment, error) {
	if !models.ValidPriorityLevel(priority) {
		return nil, apperrors.ErrInvalidPriority
	}
	if !deadline.After(time.Now()) {
		return nil, apperrors.ErrDeadlineInPast
	}
	if status == "" {
		status = models.AssignmentStatusPending
	}
	if !models.ValidAssignmentStatus(status) {
		return nil, apperrors.ErrInvalidAssignmentStatus
	}

	var assignment *models.Assignment
	err := withAllocRetry(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var risk models.Risk
		if err := tx.First(&risk, "id = ?", riskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRiskNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		assignmentID, err := sequence.Next(tx, sequence.KindAssignment, time.Now())
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		assignment = &models.Assignment{
			AssignmentID: assignmentID,
			RiskID:       risk.ID,
			AssignedTo:   assignedTo,
			AssignedBy:   assignedBy,
			Status:       status,
			Priority:     priority,
			Deadline:     deadline,
			Notes:        notes,
		}
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}

		// Conditional transition: fires only when the risk is still
		// Identified at this moment; anything else is left untouched.
		if err := tx.Model(&models.Risk{}).
			Where("id = ? AND status = ?", risk.ID, models.RiskStatusIdentified).
			Update("status", models.RiskStatusAssigned).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if _, err := s.audit.Append(tx, risk.ID, assignedBy,
			models.UpdateTypeAssignmentCreated, "", assignmentID, ""); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return assignment, nil
}

// GetAssignmentByID retrieves an assignment by its internal ID.
func (s *assignmentService) GetAssignmentByID(ctx context.Context, assignmentID string) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := s.db.WithContext(ctx).First(&assignment, "id = ?", assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &assignment, nil
}

// ListAssignments returns a paginated, filtered list of assignments,
// soonest deadline first.
func (s *assignmentService) ListAssignments(ctx context.Context, page pagination.PageRequest, filter AssignmentFilter) (*pagination.PageResponse[models.Assignment], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Assignment{})
	if filter.RiskID != nil {
		base = base.Where("risk_id = ?", *filter.RiskID)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		base = base.Where("priority = ?", *filter.Priority)
	}
	if filter.AssignedTo != nil {
		base = base.Where("assigned_to = ?", *filter.AssignedTo)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assignments []models.Assignment
	if err := base.Scopes(pagination.Paginate(page)).
		Order("deadline ASC").
		Find(&assignments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assignments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateAssignment applies a coalesce-style partial update. The deadline is
// deliberately not checked against the clock: an assignment is allowed to
// become overdue. A status change appends one "Assignment Status Change"
// record against the owning risk, in the same transaction.
func (s *assignmentService) UpdateAssignment(ctx context.Context, assignmentID, actorID string, input AssignmentUpdateInput) (*models.Assignment, error) {
	updates := make(map[string]interface{})

	if input.Priority != nil {
		if !models.ValidPriorityLevel(*input.Priority) {
			return nil, apperrors.ErrInvalidPriority
		}
		updates["priority"] = *input.Priority
	}
	if input.Status != nil && !models.ValidAssignmentStatus(*input.Status) {
		return nil, apperrors.ErrInvalidAssignmentStatus
	}
	if input.Deadline != nil {
		updates["deadline"] = *input.Deadline
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	var assignment models.Assignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&assignment, "id = ?", assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrAssignmentNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if input.Status != nil && *input.Status != assignment.Status {
			updates["status"] = *input.Status
			if _, err := s.audit.Append(tx, assignment.RiskID, actorID,
				models.UpdateTypeAssignmentStatusChange,
				string(assignment.Status), string(*input.Status), ""); err != nil {
				return err
			}
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&assignment).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// DeleteAssignment removes an assignment unconditionally. No audit record
// is written for deletions.
func (s *assignmentService) DeleteAssignment(ctx context.Context, assignmentID string) error {
	assignment, err := s.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(assignment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
