package validation

import (
	"fmt"
	"strings"

	"wikiquiz/internal/domain"
)

// Acceptance bounds for generated content.
const (
	MinQuestions     = 5
	MaxQuestions     = 10
	MinRelatedTopics = 5
	MaxRelatedTopics = 7
)

// QuizPayload mirrors the JSON object the model is instructed to emit for
// quiz generation.
type QuizPayload struct {
	Quiz []QuestionPayload `json:"quiz"`
}

// QuestionPayload is one question as the model emits it, before any
// validation has run.
type QuestionPayload struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// TopicsPayload mirrors the JSON object for related-topic generation.
type TopicsPayload struct {
	Topics []string `json:"topics"`
}

// ValidateQuiz checks a parsed generation payload against the quiz schema
// and converts it into domain questions. Acceptance is all-or-nothing: a
// single bad question rejects the entire payload, so a partial quiz can
// never reach persistence.
func (v *Validator) ValidateQuiz(payload *QuizPayload) ([]domain.Question, error) {
	if payload == nil || payload.Quiz == nil {
		return nil, domain.NewSchemaValidationError("missing quiz array")
	}

	count := len(payload.Quiz)
	if count < MinQuestions || count > MaxQuestions {
		return nil, domain.NewSchemaValidationError(
			fmt.Sprintf("question count %d outside [%d, %d]", count, MinQuestions, MaxQuestions))
	}

	questions := make([]domain.Question, 0, count)
	for i, qp := range payload.Quiz {
		question := domain.Question{
			Text:        strings.TrimSpace(qp.Question),
			Options:     qp.Options,
			Answer:      qp.Answer,
			Difficulty:  domain.NormalizeDifficulty(qp.Difficulty),
			Explanation: strings.TrimSpace(qp.Explanation),
		}
		if err := question.Validate(); err != nil {
			return nil, domain.NewQuestionValidationError(i, err.Error())
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// ValidateRelatedTopics checks a parsed topics payload: entries are
// deduplicated case-insensitively, the article title itself is filtered
// out, and overflow beyond the maximum is truncated. Ending up below the
// minimum is a schema failure.
func (v *Validator) ValidateRelatedTopics(payload *TopicsPayload, articleTitle string) ([]string, error) {
	if payload == nil || payload.Topics == nil {
		return nil, domain.NewSchemaValidationError("missing topics array")
	}

	title := strings.ToLower(strings.TrimSpace(articleTitle))
	seen := make(map[string]struct{}, len(payload.Topics))
	topics := make([]string, 0, len(payload.Topics))
	for _, raw := range payload.Topics {
		topic := strings.TrimSpace(raw)
		if topic == "" {
			continue
		}
		key := strings.ToLower(topic)
		if key == title {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		topics = append(topics, topic)
		if len(topics) == MaxRelatedTopics {
			break
		}
	}

	if len(topics) < MinRelatedTopics {
		return nil, domain.NewSchemaValidationError(
			fmt.Sprintf("related topic count %d below minimum %d", len(topics), MinRelatedTopics))
	}
	return topics, nil
}
