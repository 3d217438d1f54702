package services

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "riskhub/internal/errors"
	"riskhub/internal/models"
	"riskhub/internal/pagination"
	"riskhub/internal/sequence"
)

// allocAttempts bounds how many times a create retries when two concurrent
// transactions race toward the same human-readable identifier.
const allocAttempts = 10

// riskService owns the risk lifecycle.
type riskService struct {
	db    *gorm.DB
	audit AuditServicer
}

// NewRiskService creates a new RiskServicer.
func NewRiskService(db *gorm.DB, audit AuditServicer) RiskServicer {
	return &riskService{db: db, audit: audit}
}

func validDescription(description string) bool {
	n := utf8.RuneCountInString(description)
	return n >= 20 && n <= 1000
}

// withAllocRetry runs fn in a transaction, retrying when the commit fails
// because a concurrently allocated identifier hit the unique index.
func withAllocRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < allocAttempts; attempt++ {
		err = db.Transaction(fn)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return apperrors.Wrap(apperrors.ErrIdentifierExhausted, err)
}

// CreateRisk registers a new risk in the Identified state (or the caller's
// explicit initial status). Creation itself is not audited; only subsequent
// status changes are.
func (s *riskService) CreateRisk(
	ctx context.Context,
	creatorID string,
	category models.RiskCategory,
	description string,
	source models.RiskSource,
	trigger string,
	status models.RiskStatus,
) (*models.Risk, error) {
	if !models.ValidRiskCategory(category) {
		return nil, apperrors.ErrInvalidRiskCategory
	}
	if !validDescription(description) {
		return nil, apperrors.ErrDescriptionLength
	}
	if !models.ValidRiskSource(source) {
		return nil, apperrors.ErrInvalidRiskSource
	}
	if status == "" {
		status = models.RiskStatusIdentified
	}
	if !models.ValidRiskStatus(status) {
		return nil, apperrors.ErrInvalidRiskStatus
	}

	var risk *models.Risk
	err := withAllocRetry(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		riskID, err := sequence.Next(tx, sequence.KindRisk, time.Now())
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		risk = &models.Risk{
			RiskID:       riskID,
			Category:     category,
			Description:  description,
			Source:       source,
			Trigger:      trigger,
			Status:       status,
			IdentifiedBy: creatorID,
		}
		return tx.Create(risk).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return risk, nil
}

// GetRiskByID retrieves a risk by its internal ID.
func (s *riskService) GetRiskByID(ctx context.Context, riskID string) (*models.Risk, error) {
	var risk models.Risk
	if err := s.db.WithContext(ctx).First(&risk, "id = ?", riskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRiskNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &risk, nil
}

// ListRisks returns a paginated, filtered list of risks, newest first.
func (s *riskService) ListRisks(ctx context.Context, page pagination.PageRequest, filter RiskFilter) (*pagination.PageResponse[models.Risk], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Risk{})
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var risks []models.Risk
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&risks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(risks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateRisk applies a coalesce-style partial update. Omitted fields keep
// their stored value. A status change appends exactly one "Status Change"
// audit record inside the same transaction as the field update.
func (s *riskService) UpdateRisk(ctx context.Context, riskID, actorID string, input RiskUpdateInput) (*models.Risk, error) {
	updates := make(map[string]interface{})

	if input.Category != nil {
		if !models.ValidRiskCategory(*input.Category) {
			return nil, apperrors.ErrInvalidRiskCategory
		}
		updates["category"] = *input.Category
	}
	if input.Description != nil {
		if !validDescription(*input.Description) {
			return nil, apperrors.ErrDescriptionLength
		}
		updates["description"] = *input.Description
	}
	if input.Source != nil {
		if !models.ValidRiskSource(*input.Source) {
			return nil, apperrors.ErrInvalidRiskSource
		}
		updates["source"] = *input.Source
	}
	if input.Trigger != nil {
		updates["trigger"] = *input.Trigger
	}
	if input.Status != nil && !models.ValidRiskStatus(*input.Status) {
		return nil, apperrors.ErrInvalidRiskStatus
	}

	var risk models.Risk
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&risk, "id = ?", riskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRiskNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// Any enumerated status may overwrite any other; the state machine
		// is deliberately permissive. Only an actual change is audited.
		if input.Status != nil && *input.Status != risk.Status {
			updates["status"] = *input.Status
			if _, err := s.audit.Append(tx, risk.ID, actorID,
				models.UpdateTypeStatusChange,
				string(risk.Status), string(*input.Status), ""); err != nil {
				return err
			}
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&risk).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &risk, nil
}

// DeleteRisk removes a risk. It fails with a conflict while any assignment
// against it is still in a non-terminal state.
func (s *riskService) DeleteRisk(ctx context.Context, riskID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var risk models.Risk
		if err := tx.First(&risk, "id = ?", riskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRiskNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var active int64
		if err := tx.Model(&models.Assignment{}).
			Where("risk_id = ? AND status NOT IN ?", risk.ID, models.TerminalAssignmentStatuses).
			Count(&active).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if active > 0 {
			return apperrors.ErrRiskHasActiveWork
		}

		if err := tx.Delete(&risk).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
