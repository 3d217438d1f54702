package models

import "time"

// Role is the sole authorization axis for a user.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleRiskManager Role = "risk_manager"
	RoleTeamMember  Role = "team_member"
	RoleViewer      Role = "viewer"
)

// User represents the user model in the database
type User struct {
	Base
	Name             string     `gorm:"not null" json:"name"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	Role             Role       `gorm:"not null;default:'team_member'" json:"role"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
}
