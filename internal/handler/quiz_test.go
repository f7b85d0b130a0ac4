package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/handler"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/middleware"
	"wikiquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "debug", Env: "development"}); err != nil {
		log.Fatalf("Failed to initialize logger for handler tests: %v", err)
	}
	os.Exit(m.Run())
}

// MockQuizService is a manual mock of service.QuizService
type MockQuizService struct {
	GenerateQuizFromURLFunc func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	GetQuizHistoryFunc      func(ctx context.Context, skip, limit int) (*dto.QuizHistoryResponse, error)
	GetQuizByIDFunc         func(ctx context.Context, id string) (*dto.QuizResponse, error)
	DeleteQuizFunc          func(ctx context.Context, id string) error
}

func (m *MockQuizService) GenerateQuizFromURL(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	if m.GenerateQuizFromURLFunc != nil {
		return m.GenerateQuizFromURLFunc(ctx, req)
	}
	panic("MockQuizService.GenerateQuizFromURLFunc not implemented")
}
func (m *MockQuizService) GetQuizHistory(ctx context.Context, skip, limit int) (*dto.QuizHistoryResponse, error) {
	if m.GetQuizHistoryFunc != nil {
		return m.GetQuizHistoryFunc(ctx, skip, limit)
	}
	panic("MockQuizService.GetQuizHistoryFunc not implemented")
}
func (m *MockQuizService) GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error) {
	if m.GetQuizByIDFunc != nil {
		return m.GetQuizByIDFunc(ctx, id)
	}
	panic("MockQuizService.GetQuizByIDFunc not implemented")
}
func (m *MockQuizService) DeleteQuiz(ctx context.Context, id string) error {
	if m.DeleteQuizFunc != nil {
		return m.DeleteQuizFunc(ctx, id)
	}
	panic("MockQuizService.DeleteQuizFunc not implemented")
}

// newTestApp wires the quiz routes the same way cmd/api does, with the
// centralized error handler and validation middleware in place.
func newTestApp(svc service.QuizService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	vm := middleware.NewValidationMiddleware()
	h := handler.NewQuizHandler(svc)

	app.Post("/quiz/generate", vm.ValidateGenerateQuizRequest(), h.GenerateQuiz)
	app.Get("/quiz/history", vm.ValidateHistoryParams(), h.GetQuizHistory)
	app.Get("/quiz/:id", h.GetQuizByID)
	app.Delete("/quiz/:id", h.DeleteQuiz)
	return app
}

func sampleQuizResponse() *dto.QuizResponse {
	return &dto.QuizResponse{
		ID:       "01HGZ8VNRYXS8QKNJV5GRWPWDQ",
		URL:      "https://en.wikipedia.org/wiki/Alan_Turing",
		Title:    "Alan Turing",
		Summary:  "English mathematician and computer scientist.",
		Sections: []string{"Early life", "Cryptanalysis"},
		KeyEntities: dto.KeyEntities{
			People:        []string{"Alan Turing"},
			Organizations: []string{"GCHQ"},
			Locations:     []string{"Bletchley Park"},
		},
		Quiz: []dto.Question{
			{
				Question:    "Where did Turing work during the war?",
				Options:     []string{"Bletchley Park", "Cambridge", "Manchester", "London"},
				Answer:      "Bletchley Park",
				Difficulty:  "easy",
				Explanation: "He led Hut 8 at Bletchley Park.",
			},
		},
		RelatedTopics: []string{"Enigma machine", "Bombe"},
		CreatedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGenerateQuiz(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var receivedReq *dto.GenerateQuizRequest
		svc := &MockQuizService{
			GenerateQuizFromURLFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				receivedReq = req
				return sampleQuizResponse(), nil
			},
		}
		app := newTestApp(svc)

		body, _ := json.Marshal(dto.GenerateQuizRequest{
			URL:          "https://en.wikipedia.org/wiki/Alan_Turing",
			NumQuestions: 7,
		})
		req := httptest.NewRequest("POST", "/quiz/generate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		require.NotNil(t, receivedReq)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Alan_Turing", receivedReq.URL)
		assert.Equal(t, 7, receivedReq.NumQuestions)

		var got dto.QuizResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "01HGZ8VNRYXS8QKNJV5GRWPWDQ", got.ID)
		assert.Equal(t, "Alan Turing", got.Title)
		assert.Len(t, got.Quiz, 1)
		assert.Equal(t, []string{"Alan Turing"}, got.KeyEntities.People)
	})

	t.Run("MalformedBodyRejected", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFromURLFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				assert.Fail(t, "service should not be called for a malformed body")
				return nil, nil
			},
		}
		app := newTestApp(svc)

		req := httptest.NewRequest("POST", "/quiz/generate", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var got middleware.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, string(domain.CodeValidation), got.Code)
	})

	t.Run("MissingURLRejected", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFromURLFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				assert.Fail(t, "service should not be called when url is missing")
				return nil, nil
			},
		}
		app := newTestApp(svc)

		req := httptest.NewRequest("POST", "/quiz/generate", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var got middleware.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got.Errors, 1)
		assert.Equal(t, "url", got.Errors[0].Field)
	})

	t.Run("InvalidURLReturns400", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFromURLFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				return nil, domain.NewInvalidURLError(req.URL, "host is not a wikipedia domain")
			},
		}
		app := newTestApp(svc)

		body, _ := json.Marshal(dto.GenerateQuizRequest{URL: "https://example.com/wiki/Foo"})
		req := httptest.NewRequest("POST", "/quiz/generate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var got middleware.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, string(domain.CodeInvalidURL), got.Code)
		assert.Equal(t, "https://example.com/wiki/Foo", got.Details["url"])
	})

	t.Run("GenerationFailureReturns422", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFromURLFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				return nil, domain.NewQuizGenerationFailedError(domain.NewSchemaValidationError("question count 3 outside [5, 10]"))
			},
		}
		app := newTestApp(svc)

		body, _ := json.Marshal(dto.GenerateQuizRequest{URL: "https://en.wikipedia.org/wiki/Alan_Turing"})
		req := httptest.NewRequest("POST", "/quiz/generate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		var got middleware.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, string(domain.CodeGenerationFailed), got.Code)
	})

	t.Run("ModelUnavailableReturns502", func(t *testing.T) {
		svc := &MockQuizService{
			GenerateQuizFromURLFunc: func(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
				return nil, domain.NewModelUnavailableError(context.DeadlineExceeded)
			},
		}
		app := newTestApp(svc)

		body, _ := json.Marshal(dto.GenerateQuizRequest{URL: "https://en.wikipedia.org/wiki/Alan_Turing"})
		req := httptest.NewRequest("POST", "/quiz/generate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, 5000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	})
}

func TestGetQuizHistory(t *testing.T) {
	t.Run("PassesPaginationThrough", func(t *testing.T) {
		var gotSkip, gotLimit int
		svc := &MockQuizService{
			GetQuizHistoryFunc: func(ctx context.Context, skip, limit int) (*dto.QuizHistoryResponse, error) {
				gotSkip, gotLimit = skip, limit
				return &dto.QuizHistoryResponse{Quizzes: []dto.QuizSummary{}, Total: 42, Skip: skip, Limit: limit}, nil
			},
		}
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/quiz/history?skip=10&limit=20", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, 10, gotSkip)
		assert.Equal(t, 20, gotLimit)

		var got dto.QuizHistoryResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, 42, got.Total)
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		var gotSkip, gotLimit int
		svc := &MockQuizService{
			GetQuizHistoryFunc: func(ctx context.Context, skip, limit int) (*dto.QuizHistoryResponse, error) {
				gotSkip, gotLimit = skip, limit
				return &dto.QuizHistoryResponse{Quizzes: []dto.QuizSummary{}}, nil
			},
		}
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/quiz/history", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, 0, gotSkip)
		assert.Equal(t, 50, gotLimit)
	})

	t.Run("NonNumericLimitRejected", func(t *testing.T) {
		svc := &MockQuizService{
			GetQuizHistoryFunc: func(ctx context.Context, skip, limit int) (*dto.QuizHistoryResponse, error) {
				assert.Fail(t, "service should not be called for a non numeric limit")
				return nil, nil
			},
		}
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/quiz/history?limit=abc", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("NegativeSkipRejected", func(t *testing.T) {
		svc := &MockQuizService{
			GetQuizHistoryFunc: func(ctx context.Context, skip, limit int) (*dto.QuizHistoryResponse, error) {
				assert.Fail(t, "service should not be called for a negative skip")
				return nil, nil
			},
		}
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/quiz/history?skip=-1", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var got middleware.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got.Errors, 1)
		assert.Equal(t, "skip", got.Errors[0].Field)
	})
}

func TestGetQuizByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockQuizService{
			GetQuizByIDFunc: func(ctx context.Context, id string) (*dto.QuizResponse, error) {
				assert.Equal(t, "01HGZ8VNRYXS8QKNJV5GRWPWDQ", id)
				return sampleQuizResponse(), nil
			},
		}
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/quiz/01HGZ8VNRYXS8QKNJV5GRWPWDQ", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got dto.QuizResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "Alan Turing", got.Title)
	})

	t.Run("NotFoundReturns404", func(t *testing.T) {
		svc := &MockQuizService{
			GetQuizByIDFunc: func(ctx context.Context, id string) (*dto.QuizResponse, error) {
				return nil, domain.NewQuizNotFoundError(id)
			},
		}
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/quiz/does-not-exist", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		var got middleware.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, string(domain.CodeQuizNotFound), got.Code)
	})
}

func TestDeleteQuiz(t *testing.T) {
	t.Run("ReturnsNoContent", func(t *testing.T) {
		var deletedID string
		svc := &MockQuizService{
			DeleteQuizFunc: func(ctx context.Context, id string) error {
				deletedID = id
				return nil
			},
		}
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest("DELETE", "/quiz/01HGZ8VNRYXS8QKNJV5GRWPWDQ", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "01HGZ8VNRYXS8QKNJV5GRWPWDQ", deletedID)

		body, _ := io.ReadAll(resp.Body)
		assert.Empty(t, body)
	})

	t.Run("MissingQuizStillReturnsNoContent", func(t *testing.T) {
		svc := &MockQuizService{
			DeleteQuizFunc: func(ctx context.Context, id string) error {
				return nil
			},
		}
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest("DELETE", "/quiz/unknown-id", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})
}
