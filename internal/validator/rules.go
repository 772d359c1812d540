package validator

import (
	"log"

	"circuithub_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs the club's custom validation tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule failing to register is a startup bug, not a runtime case.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-role': any known role
	mustRegister("is-role", validateRole)

	// 'is-requestable-role': a role a user may request for themselves
	mustRegister("is-requestable-role", validateRequestableRole)

	// 'is-project-status': project lifecycle values
	mustRegister("is-project-status", validateProjectStatus)
}

func validateRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empty
	}
	return models.ValidRole(value)
}

func validateRequestableRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.SelfRequestableRole(value)
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ProjectStatus(value) {
	case models.ProjectStatusPlanning, models.ProjectStatusActive, models.ProjectStatusCompleted, models.ProjectStatusArchived:
		return true
	default:
		return false
	}
}
