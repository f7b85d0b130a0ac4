package quizgen

import (
	"context"
	"encoding/json"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/validation"
)

// generationAttempts bounds how often a single GenerateQuiz call will
// re-prompt the model after rejecting its output. Transport failures are
// never retried; only parse and schema rejections are.
const generationAttempts = 2

// Generator implements domain.QuizGenerationService on top of a
// langchaingo model.
type Generator struct {
	llm       llms.Model
	validator *validation.Validator
	cfg       config.LLMConfig
}

var _ domain.QuizGenerationService = (*Generator)(nil)

// NewGenerator creates a quiz generation service backed by the given model.
func NewGenerator(llm llms.Model, validator *validation.Validator, cfg config.LLMConfig) *Generator {
	return &Generator{
		llm:       llm,
		validator: validator,
		cfg:       cfg,
	}
}

// GenerateQuiz implements domain.QuizGenerationService. numQuestions is
// clamped into the schema bounds so a misconfigured caller cannot request
// a quiz the validator would always reject.
func (g *Generator) GenerateQuiz(ctx context.Context, article *domain.Article, numQuestions int) ([]domain.Question, error) {
	l := logger.Get()

	if numQuestions < validation.MinQuestions {
		numQuestions = validation.MinQuestions
	}
	if numQuestions > validation.MaxQuestions {
		numQuestions = validation.MaxQuestions
	}

	prompt := buildQuizPrompt(article, numQuestions)
	l.Debug("Generating quiz",
		zap.String("url", article.URL),
		zap.Int("num_questions", numQuestions),
		zap.Int("prompt_chars", len(prompt)))

	var lastErr error
	for attempt := 1; attempt <= generationAttempts; attempt++ {
		raw, err := callModel(ctx, g.llm, g.cfg, prompt)
		if err != nil {
			return nil, domain.NewModelUnavailableError(err)
		}

		questions, err := g.parseQuiz(raw)
		if err == nil {
			l.Info("Quiz generated",
				zap.String("url", article.URL),
				zap.Int("questions", len(questions)),
				zap.Int("attempt", attempt))
			return questions, nil
		}

		lastErr = err
		l.Warn("Model output rejected",
			zap.String("url", article.URL),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return nil, domain.NewQuizGenerationFailedError(lastErr)
}

// parseQuiz turns raw model output into validated questions. Extraction
// and unmarshalling failures surface as MODEL_OUTPUT_UNPARSABLE; shape
// violations keep the validator's SCHEMA_VALIDATION code.
func (g *Generator) parseQuiz(raw string) ([]domain.Question, error) {
	rawJSON, err := ExtractJSON(raw)
	if err != nil {
		return nil, domain.NewModelOutputUnparsableError(err)
	}

	var payload validation.QuizPayload
	if err := json.Unmarshal(rawJSON, &payload); err != nil {
		return nil, domain.NewModelOutputUnparsableError(err)
	}

	return g.validator.ValidateQuiz(&payload)
}
