package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "riskhub/internal/errors"
	"riskhub/internal/models"
	"riskhub/internal/pagination"
)

// auditService handles the append-only risk timeline.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Append writes one immutable audit record using the caller's transaction
// handle. A storage failure propagates so the enclosing transaction rolls
// back together with the mutation being audited.
func (s *auditService) Append(tx *gorm.DB, riskID, actorID, updateType, previousValue, newValue, comment string) (*models.RiskUpdate, error) {
	record := &models.RiskUpdate{
		RiskID:        riskID,
		UpdatedBy:     actorID,
		UpdateType:    updateType,
		PreviousValue: previousValue,
		NewValue:      newValue,
		Comment:       comment,
	}

	if err := tx.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return record, nil
}

// ListRiskUpdates returns the risk's timeline, newest first.
func (s *auditService) ListRiskUpdates(ctx context.Context, riskID string, page pagination.PageRequest) (*pagination.PageResponse[models.RiskUpdate], error) {
	db := s.db.WithContext(ctx)

	// The timeline belongs to a risk; an unknown risk is a 404, not an empty list.
	var risk models.Risk
	if err := db.Select("id").First(&risk, "id = ?", riskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRiskNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	page.Defaults()

	base := db.Model(&models.RiskUpdate{}).Where("risk_id = ?", riskID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var updates []models.RiskUpdate
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC, id DESC").
		Find(&updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(updates, page.Page, page.PageSize, totalItems)
	return &result, nil
}
