package global

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	expomodels "expo_leads/internal/api/expo/models"
	"expo_leads/internal/common"

	"github.com/go-playground/validator/v10"
)

// InitValidator creates the shared validator and registers the custom tags
func InitValidator() {
	Validate = validator.New()
	Validate.RegisterTagNameFunc(fieldName)

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("priority", validatePriority)
	_ = Validate.RegisterValidation("requirement", validateRequirement)
}

// fieldName reports fields by their json (or form) name so messages match the payload
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// validateNoXSS rejects values carrying obvious script injection
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"onmouseover=",
		"eval(",
		"document.cookie",
		"<iframe",
		"<object",
		"<embed",
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validatePriority accepts one of Normal, Imp, Most Imp, Urgent
func validatePriority(fl validator.FieldLevel) bool {
	return expomodels.Priority(fl.Field().String()).Valid()
}

// validateRequirement accepts one of EMS, BMS, Other
func validateRequirement(fl validator.FieldLevel) bool {
	return expomodels.ValidRequirement(fl.Field().String())
}

// ValidateStruct runs the validator and turns the first failure into a ValidationError
func ValidateStruct(input interface{}) error {
	if Validate == nil {
		InitValidator()
	}
	err := Validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return common.ValidationError(validationMessage(verrs[0]))
	}
	return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "priority":
		return fmt.Sprintf("Invalid priority: %v", fe.Value())
	case "requirement":
		return fmt.Sprintf("Invalid requirement: %v", fe.Value())
	case "no_xss":
		return fmt.Sprintf("%s contains forbidden content", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Invalid value for %s", fe.Field())
}
