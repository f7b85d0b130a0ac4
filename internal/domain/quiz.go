package domain

import (
	"strings"
	"time"
)

// Recognized difficulty levels. Anything else coming back from the model is
// a schema violation.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// NormalizeDifficulty lowercases a difficulty label so validation and
// storage agree on one spelling.
func NormalizeDifficulty(diff string) string {
	return strings.ToLower(strings.TrimSpace(diff))
}

// IsValidDifficulty reports whether the (already normalized) difficulty is
// one of the recognized levels.
func IsValidDifficulty(diff string) bool {
	switch diff {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// OptionsPerQuestion is the fixed number of choices every generated
// question must offer.
const OptionsPerQuestion = 4

// Question represents a single multiple-choice question
type Question struct {
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// Validate validates the question
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ValidationError{Field: "question", Reason: "is required"}
	}
	if len(q.Options) != OptionsPerQuestion {
		return ValidationError{Field: "options", Reason: "must contain exactly 4 entries"}
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return ValidationError{Field: "options", Reason: "must not contain empty entries"}
		}
		if _, dup := seen[opt]; dup {
			return ValidationError{Field: "options", Reason: "must not contain duplicate entries"}
		}
		seen[opt] = struct{}{}
	}
	if _, ok := seen[q.Answer]; !ok {
		return ValidationError{Field: "answer", Reason: "does not match any option"}
	}
	if !IsValidDifficulty(q.Difficulty) {
		return ValidationError{Field: "difficulty", Reason: "must be one of easy, medium, hard"}
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return ValidationError{Field: "explanation", Reason: "is required"}
	}
	return nil
}

// Quiz represents a generated quiz together with the article context it was
// built from. URL is canonical; at most one quiz is retained per URL.
type Quiz struct {
	ID            string
	URL           string
	Title         string
	Summary       string
	Sections      []string
	Entities      EntitySet
	Questions     []Question
	RelatedTopics []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewQuiz creates a new Quiz instance from an extracted article and the
// validated generation output. ID and timestamps are assigned on save.
func NewQuiz(article *Article, questions []Question, relatedTopics []string) *Quiz {
	if relatedTopics == nil {
		relatedTopics = []string{}
	}
	return &Quiz{
		URL:           article.URL,
		Title:         article.Title,
		Summary:       article.Summary,
		Sections:      article.Sections,
		Entities:      article.Entities,
		Questions:     questions,
		RelatedTopics: relatedTopics,
	}
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	if q.URL == "" {
		return ValidationError{Field: "url", Reason: "is required"}
	}
	if q.Title == "" {
		return ValidationError{Field: "title", Reason: "is required"}
	}
	if len(q.Questions) == 0 {
		return ValidationError{Field: "questions", Reason: "at least one question is required"}
	}
	return nil
}
