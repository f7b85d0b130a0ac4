package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/repository/models"
	"wikiquiz/internal/util"
)

// quizColumns aliases every column to its lowercase name. Oracle folds
// unquoted identifiers to uppercase, which breaks sqlx struct scanning.
const quizColumns = `
	id "id",
	url "url",
	title "title",
	summary "summary",
	sections "sections",
	key_entities "key_entities",
	questions "questions",
	related_topics "related_topics",
	created_at "created_at",
	updated_at "updated_at"`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter.
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// SaveQuiz implements domain.QuizRepository. The adapter owns id and
// timestamp assignment; both are written back to the domain object on
// success. A unique constraint hit on url maps to domain.ErrDuplicateURL
// so the service can re-read the winning row.
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	modelQuiz := toModelQuiz(quiz)
	if modelQuiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	modelQuiz.ID = util.NewULID()
	now := time.Now()
	modelQuiz.CreatedAt = now
	modelQuiz.UpdatedAt = now

	query := `INSERT INTO quizzes (
		id, url, title, summary, sections, key_entities,
		questions, related_topics, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10
	)`

	_, err := a.db.ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.URL,
		modelQuiz.Title,
		modelQuiz.Summary,
		modelQuiz.Sections,
		modelQuiz.KeyEntities,
		modelQuiz.Questions,
		modelQuiz.RelatedTopics,
		modelQuiz.CreatedAt,
		modelQuiz.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateURL
		}
		return fmt.Errorf("failed to save quiz: %w", err)
	}

	quiz.ID = modelQuiz.ID
	quiz.CreatedAt = modelQuiz.CreatedAt
	quiz.UpdatedAt = modelQuiz.UpdatedAt
	return nil
}

// GetQuizByID implements domain.QuizRepository. Returns (nil, nil) when
// no row matches.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = :1`

	err := a.db.GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// GetQuizByURL implements domain.QuizRepository. Returns (nil, nil) when
// no row matches.
func (a *QuizDatabaseAdapter) GetQuizByURL(ctx context.Context, url string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE url = :1`

	err := a.db.GetContext(ctx, &modelQuiz, query, url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by url: %w", err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// ListQuizzes implements domain.QuizRepository. Rows come back newest
// first; id breaks ties between quizzes created in the same instant so
// pages never overlap.
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context, offset, limit int) ([]*domain.Quiz, int, error) {
	var total int
	if err := a.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM quizzes`); err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	var modelQuizzes []models.Quiz
	query := `SELECT ` + quizColumns + `
	FROM quizzes
	ORDER BY created_at DESC, id DESC
	OFFSET :1 ROWS FETCH NEXT :2 ROWS ONLY`

	if err := a.db.SelectContext(ctx, &modelQuizzes, query, offset, limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(modelQuizzes))
	for i := range modelQuizzes {
		quizzes = append(quizzes, toDomainQuiz(&modelQuizzes[i]))
	}
	return quizzes, total, nil
}

// DeleteQuiz implements domain.QuizRepository. Deleting an id that does
// not exist is not an error.
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, id string) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}
	return nil
}

// isUniqueViolation reports whether err is Oracle's unique constraint
// violation (ORA-00001), raised when two generations race on one url.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}

// Helper functions for model conversion

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:       m.ID,
		URL:      m.URL,
		Title:    m.Title,
		Summary:  util.NullStringToString(m.Summary),
		Sections: []string(m.Sections),
		Entities: domain.EntitySet{
			People:        m.KeyEntities.People,
			Organizations: m.KeyEntities.Organizations,
			Locations:     m.KeyEntities.Locations,
		},
		Questions:     toDomainQuestions(m.Questions),
		RelatedTopics: []string(m.RelatedTopics),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toModelQuiz(d *domain.Quiz) *models.Quiz {
	if d == nil {
		return nil
	}
	return &models.Quiz{
		ID:       d.ID,
		URL:      d.URL,
		Title:    d.Title,
		Summary:  util.StringToNullString(d.Summary),
		Sections: models.StringSlice(d.Sections),
		KeyEntities: models.Entities{
			People:        d.Entities.People,
			Organizations: d.Entities.Organizations,
			Locations:     d.Entities.Locations,
		},
		Questions:     toModelQuestions(d.Questions),
		RelatedTopics: models.StringSlice(d.RelatedTopics),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDomainQuestions(questions models.QuestionSlice) []domain.Question {
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		out = append(out, domain.Question{
			Text:        q.Text,
			Options:     q.Options,
			Answer:      q.Answer,
			Difficulty:  q.Difficulty,
			Explanation: q.Explanation,
		})
	}
	return out
}

func toModelQuestions(questions []domain.Question) models.QuestionSlice {
	out := make(models.QuestionSlice, 0, len(questions))
	for _, q := range questions {
		out = append(out, models.Question{
			Text:        q.Text,
			Options:     q.Options,
			Answer:      q.Answer,
			Difficulty:  q.Difficulty,
			Explanation: q.Explanation,
		})
	}
	return out
}
