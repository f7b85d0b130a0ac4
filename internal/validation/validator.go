package validation

import (
	"strings"

	"wikiquiz/internal/domain"
)

// History pagination bounds.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateRequest validates the quiz generation request body
func (v *Validator) ValidateGenerateRequest(url string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(url) == "" {
		errors = append(errors, domain.NewMissingFieldError("url"))
	}

	return errors
}

// ValidateHistoryParams validates history pagination parameters
func (v *Validator) ValidateHistoryParams(skip, limit int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if skip < 0 {
		errors = append(errors, domain.ValidationError{Field: "skip", Reason: "must not be negative"})
	}
	if limit < 1 || limit > MaxHistoryLimit {
		errors = append(errors, domain.NewOutOfRangeError("limit", limit, 1, MaxHistoryLimit))
	}

	return errors
}
