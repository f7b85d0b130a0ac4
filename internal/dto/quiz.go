package dto

import (
	"time"

	"wikiquiz/internal/domain"
)

// GenerateQuizRequest represents the quiz generation request body
// @Description Request body for generating a quiz from a Wikipedia article
type GenerateQuizRequest struct {
	URL          string `json:"url"`
	NumQuestions int    `json:"num_questions,omitempty"`
}

// KeyEntities groups the named entities extracted from an article
// @Description Named entities mentioned in the article
type KeyEntities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// Question represents one multiple choice question in the API response
type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// QuizResponse represents a generated quiz in the API response
// @Description Quiz generated from a Wikipedia article
type QuizResponse struct {
	ID            string      `json:"id"`
	URL           string      `json:"url"`
	Title         string      `json:"title"`
	Summary       string      `json:"summary"`
	Sections      []string    `json:"sections"`
	KeyEntities   KeyEntities `json:"key_entities"`
	Quiz          []Question  `json:"quiz"`
	RelatedTopics []string    `json:"related_topics"`
	CreatedAt     time.Time   `json:"created_at"`
}

// QuizSummary is the abbreviated quiz shape used in history listings
type QuizSummary struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuizHistoryResponse represents one page of previously generated quizzes
// @Description Paginated quiz history, newest first
type QuizHistoryResponse struct {
	Quizzes []QuizSummary `json:"quizzes"`
	Total   int           `json:"total"`
	Skip    int           `json:"skip"`
	Limit   int           `json:"limit"`
}

// HealthResponse reports liveness of the service and its backends
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// FromDomainQuiz maps a domain quiz onto the wire shape. Collection
// fields are never null in responses, so nil slices become empty ones
// here rather than in every handler.
func FromDomainQuiz(quiz *domain.Quiz) *QuizResponse {
	if quiz == nil {
		return nil
	}

	questions := make([]Question, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, Question{
			Question:    q.Text,
			Options:     emptyIfNil(q.Options),
			Answer:      q.Answer,
			Difficulty:  q.Difficulty,
			Explanation: q.Explanation,
		})
	}

	return &QuizResponse{
		ID:       quiz.ID,
		URL:      quiz.URL,
		Title:    quiz.Title,
		Summary:  quiz.Summary,
		Sections: emptyIfNil(quiz.Sections),
		KeyEntities: KeyEntities{
			People:        emptyIfNil(quiz.Entities.People),
			Organizations: emptyIfNil(quiz.Entities.Organizations),
			Locations:     emptyIfNil(quiz.Entities.Locations),
		},
		Quiz:          questions,
		RelatedTopics: emptyIfNil(quiz.RelatedTopics),
		CreatedAt:     quiz.CreatedAt,
	}
}

// FromDomainQuizSummary maps a domain quiz onto the history listing shape.
func FromDomainQuizSummary(quiz *domain.Quiz) QuizSummary {
	return QuizSummary{
		ID:            quiz.ID,
		URL:           quiz.URL,
		Title:         quiz.Title,
		Summary:       quiz.Summary,
		QuestionCount: len(quiz.Questions),
		CreatedAt:     quiz.CreatedAt,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
