// file: internal/services/validation.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validateRequest runs struct-tag validation and converts failures into a
// ServiceError with per-field details.
func validateRequest(v *validator.Validate, req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError("invalid request", err)
	}

	details := make(map[string]interface{}, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		details[field] = fe.Tag()
		fields = append(fields, field)
	}

	svcErr := NewValidationError(
		fmt.Sprintf("validation failed for: %s", strings.Join(fields, ", ")), err)
	svcErr.Details = details
	return svcErr
}
