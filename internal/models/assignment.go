package models

import "time"

// AssignmentStatus represents the working state of an assignment.
type AssignmentStatus string

const (
	AssignmentStatusPending     AssignmentStatus = "Pending"
	AssignmentStatusInProgress  AssignmentStatus = "In Progress"
	AssignmentStatusUnderReview AssignmentStatus = "Under Review"
	AssignmentStatusCompleted   AssignmentStatus = "Completed"
	AssignmentStatusCancelled   AssignmentStatus = "Cancelled"
)

// PriorityLevel represents the urgency of an assignment.
type PriorityLevel string

const (
	PriorityCritical PriorityLevel = "Critical"
	PriorityHigh     PriorityLevel = "High"
	PriorityMedium   PriorityLevel = "Medium"
	PriorityLow      PriorityLevel = "Low"
)

// Assignment represents work delegated against a risk. AssignmentID is the
// human-readable identifier (e.g. ASGN-2024-05-0003); RiskID is the owning
// risk's internal UUID and is immutable after creation. The deadline is
// validated against the clock only at creation, so an assignment may become
// overdue without ever being rejected on update.
type Assignment struct {
	Base
	AssignmentID string           `gorm:"uniqueIndex;not null" json:"assignment_id"`
	RiskID       string           `gorm:"type:uuid;not null;index" json:"risk_id"`
	AssignedTo   string           `gorm:"type:uuid;not null;index" json:"assigned_to"`
	AssignedBy   string           `gorm:"type:uuid;not null" json:"assigned_by"`
	Status       AssignmentStatus `gorm:"not null;default:'Pending';index" json:"assignment_status"`
	Priority     PriorityLevel    `gorm:"not null" json:"priority_level"`
	Deadline     time.Time        `gorm:"not null" json:"deadline_date"`
	Notes        string           `json:"notes,omitempty"`
}

// TerminalAssignmentStatuses lists the states that no longer block deletion
// of the owning risk and don't count as open or overdue work.
var TerminalAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusCompleted,
	AssignmentStatusCancelled,
}

// ValidAssignmentStatus reports whether s is one of the enumerated states.
func ValidAssignmentStatus(s AssignmentStatus) bool {
	switch s {
	case AssignmentStatusPending, AssignmentStatusInProgress,
		AssignmentStatusUnderReview, AssignmentStatusCompleted, AssignmentStatusCancelled:
		return true
	}
	return false
}

// ValidPriorityLevel reports whether p is one of the enumerated priorities.
func ValidPriorityLevel(p PriorityLevel) bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}
