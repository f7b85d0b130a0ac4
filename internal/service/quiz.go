package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/wikiurl"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuizFromURL(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	GetQuizHistory(ctx context.Context, skip, limit int) (*dto.QuizHistoryResponse, error)
	GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, id string) error
}

// quizService implements QuizService
type quizService struct {
	repo         domain.QuizRepository
	extractor    domain.ArticleExtractor
	generator    domain.QuizGenerationService
	topics       domain.RelatedTopicsService
	articleCache ArticleCacheService
	cfg          *config.Config
	sfGroup      singleflight.Group
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	repo domain.QuizRepository,
	extractor domain.ArticleExtractor,
	generator domain.QuizGenerationService,
	topics domain.RelatedTopicsService,
	articleCache ArticleCacheService,
	cfg *config.Config,
) QuizService {
	return &quizService{
		repo:         repo,
		extractor:    extractor,
		generator:    generator,
		topics:       topics,
		articleCache: articleCache,
		cfg:          cfg,
	}
}

// GenerateQuizFromURL implements QuizService. The URL is canonicalized
// first, an already stored quiz for that URL is returned as is, and
// concurrent generations for one URL collapse into a single flight.
func (s *quizService) GenerateQuizFromURL(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	canonicalURL, err := wikiurl.Normalize(req.URL)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetQuizByURL(ctx, canonicalURL)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up quiz by url", err)
	}
	if existing != nil {
		logger.Get().Info("Quiz already exists for url, returning stored quiz",
			zap.String("url", canonicalURL),
			zap.String("quiz_id", existing.ID))
		return dto.FromDomainQuiz(existing), nil
	}

	numQuestions := req.NumQuestions
	if numQuestions <= 0 {
		numQuestions = s.cfg.Quiz.NumQuestions
	}

	// The first caller's question count wins for everyone in the flight.
	result, err, shared := s.sfGroup.Do(canonicalURL, func() (interface{}, error) {
		return s.generateAndStore(ctx, canonicalURL, numQuestions)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Quiz generation shared with a concurrent request", zap.String("url", canonicalURL))
	}

	return dto.FromDomainQuiz(result.(*domain.Quiz)), nil
}

// generateAndStore runs the extraction and generation pipeline for one
// canonical URL and persists the result.
func (s *quizService) generateAndStore(ctx context.Context, canonicalURL string, numQuestions int) (*domain.Quiz, error) {
	article, err := s.getArticle(ctx, canonicalURL)
	if err != nil {
		return nil, err
	}

	questions, err := s.generator.GenerateQuiz(ctx, article, numQuestions)
	if err != nil {
		return nil, err
	}

	relatedTopics := s.relatedTopics(ctx, article)

	quiz := domain.NewQuiz(article, questions, relatedTopics)
	if err := s.repo.SaveQuiz(ctx, quiz); err != nil {
		if errors.Is(err, domain.ErrDuplicateURL) {
			// Another instance stored this URL while we were generating.
			// Its quiz is the durable one, so return that instead.
			winner, errGet := s.repo.GetQuizByURL(ctx, canonicalURL)
			if errGet != nil {
				return nil, domain.NewInternalError("Failed to load quiz after duplicate url conflict", errGet)
			}
			if winner == nil {
				return nil, domain.NewInternalError("Quiz vanished after duplicate url conflict", nil)
			}
			logger.Get().Info("Concurrent generation stored this url first, returning stored quiz",
				zap.String("url", canonicalURL),
				zap.String("quiz_id", winner.ID))
			return winner, nil
		}
		return nil, domain.NewInternalError("Failed to save quiz", err)
	}

	logger.Get().Info("Quiz generated and stored",
		zap.String("url", canonicalURL),
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(quiz.Questions)),
		zap.Int("related_topics", len(quiz.RelatedTopics)))
	return quiz, nil
}

// getArticle serves the article from cache when possible and extracts
// from Wikipedia otherwise. Cache failures never fail the request.
func (s *quizService) getArticle(ctx context.Context, canonicalURL string) (*domain.Article, error) {
	if s.articleCache != nil {
		article, err := s.articleCache.GetArticle(ctx, canonicalURL)
		if err != nil {
			logger.Get().Warn("QuizService: Article cache read failed, extracting from source",
				zap.Error(err),
				zap.String("url", canonicalURL))
		} else if article != nil {
			return article, nil
		}
	}

	article, err := s.extractor.Extract(ctx, canonicalURL)
	if err != nil {
		return nil, err
	}

	if s.articleCache != nil {
		if errPut := s.articleCache.PutArticle(ctx, article); errPut != nil {
			logger.Get().Warn("QuizService: Article cache write failed",
				zap.Error(errPut),
				zap.String("url", canonicalURL))
		}
	}
	return article, nil
}

// relatedTopics is a best effort enrichment. Any failure degrades to an
// empty list rather than failing the whole generation.
func (s *quizService) relatedTopics(ctx context.Context, article *domain.Article) []string {
	if s.topics == nil {
		return []string{}
	}

	topics, err := s.topics.GenerateRelatedTopics(ctx, article)
	if err != nil {
		logger.Get().Warn("QuizService: Related topics generation failed, continuing without topics",
			zap.Error(err),
			zap.String("url", article.URL))
		return []string{}
	}
	return topics
}

// GetQuizHistory implements QuizService
func (s *quizService) GetQuizHistory(ctx context.Context, skip, limit int) (*dto.QuizHistoryResponse, error) {
	quizzes, total, err := s.repo.ListQuizzes(ctx, skip, limit)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}

	summaries := make([]dto.QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, dto.FromDomainQuizSummary(quiz))
	}

	return &dto.QuizHistoryResponse{
		Quizzes: summaries,
		Total:   total,
		Skip:    skip,
		Limit:   limit,
	}, nil
}

// GetQuizByID implements QuizService
func (s *quizService) GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error) {
	quiz, err := s.repo.GetQuizByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return dto.FromDomainQuiz(quiz), nil
}

// DeleteQuiz implements QuizService. Deleting an unknown id succeeds so
// the operation can be retried safely.
func (s *quizService) DeleteQuiz(ctx context.Context, id string) error {
	if err := s.repo.DeleteQuiz(ctx, id); err != nil {
		return domain.NewInternalError("Failed to delete quiz", err)
	}
	logger.Get().Info("Quiz deleted", zap.String("quiz_id", id))
	return nil
}
