package usecase

import (
	"fmt"
	"net/mail"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateCaptureSignupInput(input CaptureSignupInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	} else if len(input.Email) > 254 {
		errors = append(errors, ValidationError{"email", "must not exceed 254 characters"})
	}

	if strings.TrimSpace(input.Source) == "" {
		errors = append(errors, ValidationError{"source", "is required"})
	} else if len(input.Source) > 100 {
		errors = append(errors, ValidationError{"source", "must not exceed 100 characters"})
	}

	return errors
}
