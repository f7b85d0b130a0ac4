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

// TopicsService implements domain.RelatedTopicsService. Callers treat its
// failures as non-fatal, so it reports errors instead of inventing topics.
type TopicsService struct {
	llm       llms.Model
	validator *validation.Validator
	cfg       config.LLMConfig
}

var _ domain.RelatedTopicsService = (*TopicsService)(nil)

// NewTopicsService creates a related-topics service backed by the given model.
func NewTopicsService(llm llms.Model, validator *validation.Validator, cfg config.LLMConfig) *TopicsService {
	return &TopicsService{
		llm:       llm,
		validator: validator,
		cfg:       cfg,
	}
}

// GenerateRelatedTopics implements domain.RelatedTopicsService.
func (s *TopicsService) GenerateRelatedTopics(ctx context.Context, article *domain.Article) ([]string, error) {
	l := logger.Get()

	prompt := buildRelatedTopicsPrompt(article)

	var lastErr error
	for attempt := 1; attempt <= generationAttempts; attempt++ {
		raw, err := callModel(ctx, s.llm, s.cfg, prompt)
		if err != nil {
			return nil, domain.NewModelUnavailableError(err)
		}

		topics, err := s.parseTopics(raw, article.Title)
		if err == nil {
			l.Info("Related topics generated",
				zap.String("url", article.URL),
				zap.Int("topics", len(topics)),
				zap.Int("attempt", attempt))
			return topics, nil
		}

		lastErr = err
		l.Warn("Topics output rejected",
			zap.String("url", article.URL),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return nil, domain.NewQuizGenerationFailedError(lastErr)
}

func (s *TopicsService) parseTopics(raw string, articleTitle string) ([]string, error) {
	rawJSON, err := ExtractJSON(raw)
	if err != nil {
		return nil, domain.NewModelOutputUnparsableError(err)
	}

	var payload validation.TopicsPayload
	if err := json.Unmarshal(rawJSON, &payload); err != nil {
		return nil, domain.NewModelOutputUnparsableError(err)
	}

	return s.validator.ValidateRelatedTopics(&payload, articleTitle)
}
