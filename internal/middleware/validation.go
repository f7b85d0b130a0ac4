package middleware

import (
	"strconv"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateGenerateQuizRequest validates the quiz generation request body
func (vm *ValidationMiddleware) ValidateGenerateQuizRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GenerateQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.ValidationErrors{
				domain.NewInvalidFormatError("body", "malformed JSON"),
			}
		}

		if errors := vm.validator.ValidateGenerateRequest(req.URL); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		// Store validated request in context for handlers to use
		c.Locals("validated_generate_request", &req)
		return c.Next()
	}
}

// ValidateHistoryParams validates history pagination query parameters
func (vm *ValidationMiddleware) ValidateHistoryParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip := 0
		if skipStr := c.Query("skip"); skipStr != "" {
			parsed, err := strconv.Atoi(skipStr)
			if err != nil {
				return domain.ValidationErrors{
					domain.NewInvalidFormatError("skip", skipStr),
				}
			}
			skip = parsed
		}

		limit := validation.DefaultHistoryLimit
		if limitStr := c.Query("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil {
				return domain.ValidationErrors{
					domain.NewInvalidFormatError("limit", limitStr),
				}
			}
			limit = parsed
		}

		if errors := vm.validator.ValidateHistoryParams(skip, limit); len(errors) > 0 {
			return errors
		}

		// Store validated values in context
		c.Locals("validated_skip", skip)
		c.Locals("validated_limit", limit)
		return c.Next()
	}
}
