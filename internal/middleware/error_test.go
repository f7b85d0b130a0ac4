package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http/httptest"
	"os"
	"testing"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "debug", Env: "development"}); err != nil {
		log.Fatalf("Failed to initialize logger for middleware tests: %v", err)
	}
	os.Exit(m.Run())
}

// newFailingApp returns an app whose only route fails with the given error,
// so every response goes through the centralized error handler.
func newFailingApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        *domain.DomainError
		wantStatus int
	}{
		{"InvalidURL", domain.NewInvalidURLError("not-a-url", "host is not wikipedia.org"), fiber.StatusBadRequest},
		{"InvalidInput", domain.NewInvalidInputError("url is required"), fiber.StatusBadRequest},
		{"QuizNotFound", domain.NewQuizNotFoundError("01JXAMPLE0000000000000000A"), fiber.StatusNotFound},
		{"SchemaValidation", domain.NewSchemaValidationError("expected between 5 and 10 questions"), fiber.StatusUnprocessableEntity},
		{"GenerationFailed", domain.NewQuizGenerationFailedError(errors.New("both attempts produced invalid content")), fiber.StatusUnprocessableEntity},
		{"ModelOutputUnparsable", domain.NewModelOutputUnparsableError(errors.New("no JSON object found")), fiber.StatusUnprocessableEntity},
		{"ArticleNotFound", domain.NewArticleNotFoundError("https://en.wikipedia.org/wiki/Missing"), fiber.StatusBadGateway},
		{"ExtractionTimeout", domain.NewExtractionTimeoutError("https://en.wikipedia.org/wiki/Slow", errors.New("context deadline exceeded")), fiber.StatusBadGateway},
		{"ExtractionParse", domain.NewExtractionParseError("https://en.wikipedia.org/wiki/Odd", "no recognizable article body"), fiber.StatusBadGateway},
		{"ModelUnavailable", domain.NewModelUnavailableError(errors.New("connection refused")), fiber.StatusBadGateway},
		{"Internal", domain.NewInternalError("unexpected state", errors.New("boom")), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newFailingApp(tt.err)

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(tt.err.Code), body.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("generate quiz: %w", domain.NewQuizNotFoundError("01JXAMPLE0000000000000000A"))
	app := newFailingApp(wrapped)

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestErrorHandler_DomainErrorContextBecomesDetails(t *testing.T) {
	app := newFailingApp(domain.NewQuestionValidationError(3, "answer not among options"))

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.CodeSchemaValidation), body.Code)
	assert.EqualValues(t, 3, body.Details["question_index"])
	assert.Equal(t, "answer not among options", body.Details["reason"])
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	validationErrs := domain.ValidationErrors{
		domain.NewMissingFieldError("url"),
		domain.NewOutOfRangeError("limit", 500, 1, 100),
	}
	app := newFailingApp(validationErrs)

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.CodeValidation), body.Code)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "url", body.Errors[0].Field)
	assert.Equal(t, "limit", body.Errors[1].Field)
}

func TestErrorHandler_FiberErrorPassesThrough(t *testing.T) {
	app := newFailingApp(fiber.NewError(fiber.StatusServiceUnavailable, "maintenance"))

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "HTTP_ERROR", body.Code)
}

func TestErrorHandler_UnknownErrorIsInternal(t *testing.T) {
	app := newFailingApp(errors.New("driver: bad connection"))

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.CodeInternal), body.Code)
}
