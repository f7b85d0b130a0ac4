package domain

import "context"

// QuizGenerationService defines the interface for turning an extracted
// article into validated multiple-choice questions.
type QuizGenerationService interface {
	// GenerateQuiz prompts the model with the article content and returns
	// the validated question set. Content-level failures (unparsable output,
	// schema violations) are retried once internally; a second failure
	// surfaces as CodeGenerationFailed. Transport failures surface
	// immediately as CodeModelUnavailable.
	GenerateQuiz(ctx context.Context, article *Article, numQuestions int) ([]Question, error)
}

// RelatedTopicsService defines the interface for the secondary generation
// pass that suggests further reading topics for an article.
type RelatedTopicsService interface {
	// GenerateRelatedTopics returns 5-7 topics related to the article but
	// distinct from its title. Callers treat failures as non-fatal.
	GenerateRelatedTopics(ctx context.Context, article *Article) ([]string, error)
}
