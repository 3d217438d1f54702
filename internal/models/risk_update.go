package models

import (
	"time"

	"riskhub/internal/uuid"

	"gorm.io/gorm"
)

// Audit record labels written by the engine.
const (
	UpdateTypeStatusChange           = "Status Change"
	UpdateTypeAssignmentCreated      = "Assignment Created"
	UpdateTypeAssignmentStatusChange = "Assignment Status Change"
)

// RiskUpdate is one immutable audit record in a risk's activity timeline.
// Rows are only ever inserted; there is deliberately no UpdatedAt or
// DeletedAt column and no code path that modifies an existing row.
type RiskUpdate struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	RiskID        string    `gorm:"type:uuid;not null;index" json:"risk_id"`
	UpdatedBy     string    `gorm:"type:uuid;not null" json:"updated_by"`
	UpdateType    string    `gorm:"not null" json:"update_type"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (u *RiskUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New()
	}
	return nil
}
