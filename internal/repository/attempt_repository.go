package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizly/internal/domain"
	"quizly/internal/repository/models"
	"quizly/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxAttemptRepository implements domain.AttemptRepository using sqlx.
type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates a new attempt repository.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

func toDomainAttempt(m *models.QuizAttempt) *domain.QuizAttempt {
	if m == nil {
		return nil
	}
	attempt := &domain.QuizAttempt{
		ID:        m.ID,
		QuizID:    m.QuizID,
		UserID:    m.UserID,
		Answers:   map[string]string(m.Answers),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if attempt.Answers == nil {
		attempt.Answers = map[string]string{}
	}
	if m.Score.Valid {
		score := m.Score.Float64
		attempt.Score = &score
	}
	if m.CompletedAt.Valid {
		completedAt := m.CompletedAt.Time
		attempt.CompletedAt = &completedAt
	}
	return attempt
}

// CreateAttempt inserts a fresh attempt with an empty answer map.
func (r *sqlxAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	query := `INSERT INTO quiz_attempts (id, quiz_id, user_id, answers, score, completed_at, created_at, updated_at)
	          VALUES (:id, :quiz_id, :user_id, :answers, :score, :completed_at, :created_at, :updated_at)`

	now := time.Now()
	attempt.CreatedAt = now
	attempt.UpdatedAt = now

	row := &models.QuizAttempt{
		ID:          attempt.ID,
		QuizID:      attempt.QuizID,
		UserID:      attempt.UserID,
		Answers:     models.StringMap(attempt.Answers),
		Score:       util.Float64PtrToNullFloat64(attempt.Score),
		CompletedAt: util.TimePtrToNullTime(attempt.CompletedAt),
		CreatedAt:   attempt.CreatedAt,
		UpdatedAt:   attempt.UpdatedAt,
	}

	if _, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, row); err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

// GetAttempt retrieves an attempt scoped to its owner. Not found is
// (nil, nil); a foreign user's attempt is indistinguishable from a
// missing one.
func (r *sqlxAttemptRepository) GetAttempt(ctx context.Context, attemptID, userID string) (*domain.QuizAttempt, error) {
	var attempt models.QuizAttempt
	query := `SELECT * FROM quiz_attempts WHERE id = :id AND user_id = :user_id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare attempt query: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"id": attemptID, "user_id": userID}
	if err := stmt.GetContext(ctx, &attempt, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return toDomainAttempt(&attempt), nil
}

// UpdateAnswers persists the attempt's current answer map.
func (r *sqlxAttemptRepository) UpdateAnswers(ctx context.Context, attempt *domain.QuizAttempt) error {
	query := `UPDATE quiz_attempts SET answers = :answers, updated_at = :updated_at
	          WHERE id = :id AND user_id = :user_id`

	attempt.UpdatedAt = time.Now()
	args := map[string]interface{}{
		"id":         attempt.ID,
		"user_id":    attempt.UserID,
		"answers":    models.StringMap(attempt.Answers),
		"updated_at": attempt.UpdatedAt,
	}

	result, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, args)
	if err != nil {
		return fmt.Errorf("failed to update attempt answers: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CompleteAttempt writes score and completion timestamp in one update.
func (r *sqlxAttemptRepository) CompleteAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	query := `UPDATE quiz_attempts SET score = :score, completed_at = :completed_at, updated_at = :updated_at
	          WHERE id = :id AND user_id = :user_id`

	attempt.UpdatedAt = time.Now()
	args := map[string]interface{}{
		"id":           attempt.ID,
		"user_id":      attempt.UserID,
		"score":        util.Float64PtrToNullFloat64(attempt.Score),
		"completed_at": util.TimePtrToNullTime(attempt.CompletedAt),
		"updated_at":   attempt.UpdatedAt,
	}

	result, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, args)
	if err != nil {
		return fmt.Errorf("failed to complete attempt: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
