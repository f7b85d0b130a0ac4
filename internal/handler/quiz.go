package handler

import (
	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests. Errors returned from
// handlers are mapped to responses by the ErrorHandler middleware.
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GenerateQuiz creates a quiz from a Wikipedia article URL.
// @Summary Generate a quiz from a Wikipedia article
// @Description Fetches the article, generates multiple-choice questions with a language model, and stores the result. If the URL was already processed the stored quiz is returned without regenerating.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Article URL and optional question count"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid request body or URL"
// @Failure 422 {object} middleware.ErrorResponse "Model output failed validation"
// @Failure 502 {object} middleware.ErrorResponse "Article fetch or model call failed"
// @Router /quiz/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	req, ok := c.Locals("validated_generate_request").(*dto.GenerateQuizRequest)
	if !ok {
		return domain.NewInternalError("Validated request missing from context", nil)
	}

	resp, err := h.service.GenerateQuizFromURL(c.Context(), req)
	if err != nil {
		return err
	}

	logger.Get().Info("Quiz generated",
		zap.String("quiz_id", resp.ID),
		zap.String("url", resp.URL),
	)
	return c.JSON(resp)
}

// GetQuizHistory lists previously generated quizzes.
// @Summary List generated quizzes
// @Description Returns stored quizzes ordered by creation time, newest first.
// @Tags quiz
// @Produce json
// @Param skip query int false "Number of quizzes to skip" default(0)
// @Param limit query int false "Maximum number of quizzes to return" default(50)
// @Success 200 {object} dto.QuizHistoryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid pagination parameters"
// @Router /quiz/history [get]
func (h *QuizHandler) GetQuizHistory(c *fiber.Ctx) error {
	skip, skipOK := c.Locals("validated_skip").(int)
	limit, limitOK := c.Locals("validated_limit").(int)
	if !skipOK || !limitOK {
		return domain.NewInternalError("Validated pagination missing from context", nil)
	}

	resp, err := h.service.GetQuizHistory(c.Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuizByID returns a single stored quiz.
// @Summary Get a quiz by ID
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuizByID(c *fiber.Ctx) error {
	resp, err := h.service.GetQuizByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuiz removes a stored quiz.
// @Summary Delete a quiz
// @Description Deletes the quiz with the given ID. Deleting an ID that does not exist is not an error.
// @Tags quiz
// @Param id path string true "Quiz ID"
// @Success 204 "Quiz deleted"
// @Router /quiz/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.service.DeleteQuiz(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
