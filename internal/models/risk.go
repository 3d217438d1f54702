package models

// RiskStatus represents where a risk currently sits in its lifecycle.
type RiskStatus string

const (
	RiskStatusIdentified   RiskStatus = "Identified"
	RiskStatusAssigned     RiskStatus = "Assigned"
	RiskStatusInMitigation RiskStatus = "In Mitigation"
	RiskStatusResolved     RiskStatus = "Resolved"
	RiskStatusClosed       RiskStatus = "Closed"
)

// RiskCategory classifies the nature of a risk.
type RiskCategory string

const (
	RiskCategoryStrategic    RiskCategory = "Strategic"
	RiskCategoryOperational  RiskCategory = "Operational"
	RiskCategoryFinancial    RiskCategory = "Financial"
	RiskCategoryCompliance   RiskCategory = "Compliance"
	RiskCategorySecurity     RiskCategory = "Security"
	RiskCategoryTechnical    RiskCategory = "Technical"
	RiskCategoryReputational RiskCategory = "Reputational"
)

// RiskSource identifies how a risk was surfaced.
type RiskSource string

const (
	RiskSourceInternalAudit    RiskSource = "Internal Audit"
	RiskSourceExternalAudit    RiskSource = "External Audit"
	RiskSourceRiskAssessment   RiskSource = "Risk Assessment"
	RiskSourceIncidentReport   RiskSource = "Incident Report"
	RiskSourceEmployeeReport   RiskSource = "Employee Report"
	RiskSourceManagementReview RiskSource = "Management Review"
)

// Risk represents an organizational risk. RiskID is the human-readable,
// period-scoped identifier (e.g. RISK-2024-05-0007) assigned once at
// creation and never reused; the Base.ID UUID stays internal.
type Risk struct {
	Base
	RiskID       string       `gorm:"uniqueIndex;not null" json:"risk_id"`
	Category     RiskCategory `gorm:"not null" json:"risk_category"`
	Description  string       `gorm:"not null" json:"risk_description"`
	Source       RiskSource   `gorm:"not null" json:"risk_source"`
	Trigger      string       `json:"risk_trigger,omitempty"`
	Status       RiskStatus   `gorm:"not null;default:'Identified';index" json:"status"`
	IdentifiedBy string       `gorm:"type:uuid;not null;index" json:"identified_by"`

	Assignments []Assignment `gorm:"foreignKey:RiskID" json:"assignments,omitempty"`
	Updates     []RiskUpdate `gorm:"foreignKey:RiskID" json:"updates,omitempty"`
}

// ValidRiskStatus reports whether s is one of the enumerated lifecycle states.
func ValidRiskStatus(s RiskStatus) bool {
	switch s {
	case RiskStatusIdentified, RiskStatusAssigned, RiskStatusInMitigation,
		RiskStatusResolved, RiskStatusClosed:
		return true
	}
	return false
}

// ValidRiskCategory reports whether c is one of the enumerated categories.
func ValidRiskCategory(c RiskCategory) bool {
	switch c {
	case RiskCategoryStrategic, RiskCategoryOperational, RiskCategoryFinancial,
		RiskCategoryCompliance, RiskCategorySecurity, RiskCategoryTechnical,
		RiskCategoryReputational:
		return true
	}
	return false
}

// ValidRiskSource reports whether s is one of the enumerated sources.
func ValidRiskSource(s RiskSource) bool {
	switch s {
	case RiskSourceInternalAudit, RiskSourceExternalAudit, RiskSourceRiskAssessment,
		RiskSourceIncidentReport, RiskSourceEmployeeReport, RiskSourceManagementReview:
		return true
	}
	return false
}
