package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"

	// URL errors
	CodeInvalidURL ErrorCode = "INVALID_URL"

	// Article extraction errors
	CodeArticleNotFound   ErrorCode = "ARTICLE_NOT_FOUND"
	CodeExtractionTimeout ErrorCode = "EXTRACTION_TIMEOUT"
	CodeExtractionParse   ErrorCode = "EXTRACTION_PARSE_ERROR"

	// Model errors
	CodeModelUnavailable      ErrorCode = "MODEL_UNAVAILABLE"
	CodeModelOutputUnparsable ErrorCode = "MODEL_OUTPUT_UNPARSABLE"
	CodeSchemaValidation      ErrorCode = "SCHEMA_VALIDATION_FAILED"
	CodeGenerationFailed      ErrorCode = "QUIZ_GENERATION_FAILED"

	// Quiz errors
	CodeQuizNotFound ErrorCode = "QUIZ_NOT_FOUND"
)

// ErrDuplicateURL is returned by the repository when an insert collides with
// the unique index on the quiz URL. Callers recover by re-reading the row
// that won the race.
var ErrDuplicateURL = errors.New("quiz already exists for url")

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInvalidURLError(rawURL string, reason string) *DomainError {
	err := NewError(CodeInvalidURL, fmt.Sprintf("Not a valid Wikipedia article URL: %s", reason), nil)
	err.Context = map[string]interface{}{"url": rawURL}
	return err
}

func NewArticleNotFoundError(url string) *DomainError {
	return NewError(CodeArticleNotFound, fmt.Sprintf("Article not found: %s", url), nil)
}

func NewExtractionTimeoutError(url string, cause error) *DomainError {
	return NewError(CodeExtractionTimeout, fmt.Sprintf("Timed out fetching article: %s", url), cause)
}

func NewExtractionParseError(url string, reason string) *DomainError {
	err := NewError(CodeExtractionParse, fmt.Sprintf("Failed to extract article content: %s", reason), nil)
	err.Context = map[string]interface{}{"url": url}
	return err
}

func NewModelUnavailableError(cause error) *DomainError {
	return NewError(CodeModelUnavailable, "Language model request failed", cause)
}

func NewModelOutputUnparsableError(cause error) *DomainError {
	return NewError(CodeModelOutputUnparsable, "Model response did not contain valid JSON", cause)
}

// NewSchemaValidationError reports a structural problem with the generated
// payload as a whole (missing quiz array, question count out of bounds).
func NewSchemaValidationError(reason string) *DomainError {
	return NewError(CodeSchemaValidation, fmt.Sprintf("Generated quiz failed validation: %s", reason), nil)
}

// NewQuestionValidationError reports the first failing question. The index
// and reason are carried in Context so clients can see which entry broke.
func NewQuestionValidationError(index int, reason string) *DomainError {
	err := NewError(CodeSchemaValidation, fmt.Sprintf("Generated question %d failed validation: %s", index, reason), nil)
	err.Context = map[string]interface{}{
		"question_index": index,
		"reason":         reason,
	}
	return err
}

func NewQuizGenerationFailedError(cause error) *DomainError {
	return NewError(CodeGenerationFailed, "Quiz generation produced invalid content", cause)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

// ValidationError represents a single request validation failure
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors aggregates request validation failures so a response can
// report all of them at once
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Reason: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Reason: fmt.Sprintf("has invalid format: %s", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{Field: field, Reason: fmt.Sprintf("must be between %d and %d, got %d", min, max, value)}
}
