// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"riskhub/internal/models"
	"riskhub/internal/rbac"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("risk_category", validateRiskCategory)
		_ = v.RegisterValidation("risk_source", validateRiskSource)
		_ = v.RegisterValidation("risk_status", validateRiskStatus)
		_ = v.RegisterValidation("assignment_status", validateAssignmentStatus)
		_ = v.RegisterValidation("priority_level", validatePriorityLevel)
		_ = v.RegisterValidation("user_role", validateUserRole)
	}
}

func validateRiskCategory(fl validator.FieldLevel) bool {
	return models.ValidRiskCategory(models.RiskCategory(fl.Field().String()))
}

func validateRiskSource(fl validator.FieldLevel) bool {
	return models.ValidRiskSource(models.RiskSource(fl.Field().String()))
}

func validateRiskStatus(fl validator.FieldLevel) bool {
	return models.ValidRiskStatus(models.RiskStatus(fl.Field().String()))
}

func validateAssignmentStatus(fl validator.FieldLevel) bool {
	return models.ValidAssignmentStatus(models.AssignmentStatus(fl.Field().String()))
}

func validatePriorityLevel(fl validator.FieldLevel) bool {
	return models.ValidPriorityLevel(models.PriorityLevel(fl.Field().String()))
}

func validateUserRole(fl validator.FieldLevel) bool {
	return rbac.ValidRole(models.Role(fl.Field().String()))
}
