package domain

import "context"

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	// SaveQuiz persists a new quiz. It assigns the ID and timestamps when
	// they are unset, and returns ErrDuplicateURL when another quiz already
	// holds the same canonical URL.
	SaveQuiz(ctx context.Context, quiz *Quiz) error

	// GetQuizByID retrieves a quiz by its ID. Returns (nil, nil) when no
	// quiz exists with that ID.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// GetQuizByURL retrieves the quiz stored for a canonical article URL.
	// Returns (nil, nil) when the URL has no quiz yet.
	GetQuizByURL(ctx context.Context, url string) (*Quiz, error)

	// ListQuizzes returns a page of quizzes ordered newest first, together
	// with the total number of stored quizzes.
	ListQuizzes(ctx context.Context, offset, limit int) ([]*Quiz, int, error)

	// DeleteQuiz removes a quiz. Deleting an ID that does not exist is not
	// an error.
	DeleteQuiz(ctx context.Context, id string) error
}
