package domain

import (
	"context"
	"time"
)

// QuizAttempt is one user's run through a quiz. Answers maps question
// IDs (as strings) to the submitted option text. Score and CompletedAt
// are nil until the attempt is completed; completion is monotonic.
type QuizAttempt struct {
	ID          string
	QuizID      string
	UserID      string
	Answers     map[string]string
	Score       *float64
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Completed reports whether the attempt has been finalized.
func (a *QuizAttempt) Completed() bool {
	return a.CompletedAt != nil
}

// ScoreAttempt compares submitted answers against the quiz's questions
// by exact string equality. The percentage is 100*correct/total, or 0
// for a quiz with no questions. Pure; callers decide when to persist.
func ScoreAttempt(attempt *QuizAttempt, questions []Question) (percentage float64, correct int, total int) {
	total = len(questions)
	for _, q := range questions {
		if attempt.Answers[q.ID] == q.Answer {
			correct++
		}
	}
	if total > 0 {
		percentage = float64(correct) / float64(total) * 100
	}
	return percentage, correct, total
}

// AttemptRepository defines persistence for quiz attempts.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
	// GetAttempt returns the attempt only if it belongs to the user;
	// foreign attempts look like they do not exist.
	GetAttempt(ctx context.Context, attemptID, userID string) (*QuizAttempt, error)
	UpdateAnswers(ctx context.Context, attempt *QuizAttempt) error
	CompleteAttempt(ctx context.Context, attempt *QuizAttempt) error
}
