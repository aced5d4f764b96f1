package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizly/internal/domain"
	"quizly/internal/repository/models"
	"quizly/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxQuizRepository implements domain.QuizRepository using sqlx.
// Writes go through GetExecutor so quiz+question creation can share
// one transaction.
type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new quiz repository.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:          m.ID,
		Title:       m.Title.String,
		Description: m.Description.String,
		VideoURL:    m.VideoURL,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainQuestion(m *models.Question) domain.Question {
	return domain.Question{
		ID:            m.ID,
		QuizID:        m.QuizID,
		QuestionTitle: m.QuestionTitle,
		Options:       []string(m.Options),
		Answer:        m.Answer,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// CreateQuiz inserts one quiz row.
func (r *sqlxQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	query := `INSERT INTO quizzes (id, title, description, video_url, user_id, created_at, updated_at)
	          VALUES (:id, :title, :description, :video_url, :user_id, :created_at, :updated_at)`

	now := time.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	row := &models.Quiz{
		ID:          quiz.ID,
		Title:       util.StringToNullString(quiz.Title),
		Description: util.StringToNullString(quiz.Description),
		VideoURL:    quiz.VideoURL,
		UserID:      quiz.UserID,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
	}

	if _, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, row); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

// CreateQuestion inserts one question row.
func (r *sqlxQuizRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	query := `INSERT INTO questions (id, quiz_id, question_title, question_options, answer, created_at, updated_at)
	          VALUES (:id, :quiz_id, :question_title, :question_options, :answer, :created_at, :updated_at)`

	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now

	row := &models.Question{
		ID:            question.ID,
		QuizID:        question.QuizID,
		QuestionTitle: question.QuestionTitle,
		Options:       models.StringSlice(question.Options),
		Answer:        question.Answer,
		CreatedAt:     question.CreatedAt,
		UpdatedAt:     question.UpdatedAt,
	}

	if _, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, row); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// GetQuizByID retrieves a quiz without its questions. Not found is
// (nil, nil).
func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	var quiz models.Quiz
	query := `SELECT * FROM quizzes WHERE id = :id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare quiz query: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &quiz, map[string]interface{}{"id": quizID}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}
	return toDomainQuiz(&quiz), nil
}

// GetQuizzesByUserID lists a user's quizzes, newest first.
func (r *sqlxQuizRepository) GetQuizzesByUserID(ctx context.Context, userID string) ([]domain.Quiz, error) {
	var rows []models.Quiz
	query := `SELECT * FROM quizzes WHERE user_id = :user_id ORDER BY created_at DESC`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare quiz list query: %w", err)
	}
	defer stmt.Close()

	if err := stmt.SelectContext(ctx, &rows, map[string]interface{}{"user_id": userID}); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, *toDomainQuiz(&rows[i]))
	}
	return quizzes, nil
}

// GetQuestionsByQuizID lists a quiz's questions in creation order.
func (r *sqlxQuizRepository) GetQuestionsByQuizID(ctx context.Context, quizID string) ([]domain.Question, error) {
	var rows []models.Question
	query := `SELECT * FROM questions WHERE quiz_id = :quiz_id ORDER BY created_at ASC, id ASC`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare question list query: %w", err)
	}
	defer stmt.Close()

	if err := stmt.SelectContext(ctx, &rows, map[string]interface{}{"quiz_id": quizID}); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	questions := make([]domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

// CountQuestionsByQuizID counts a quiz's questions without loading
// their content.
func (r *sqlxQuizRepository) CountQuestionsByQuizID(ctx context.Context, quizID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM questions WHERE quiz_id = :quiz_id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare question count query: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &count, map[string]interface{}{"quiz_id": quizID}); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// UpdateQuiz applies the non-nil fields of update. A no-op update
// still bumps updated_at.
func (r *sqlxQuizRepository) UpdateQuiz(ctx context.Context, quizID string, update domain.QuizUpdate) error {
	setClauses := []string{"updated_at = :updated_at"}
	args := map[string]interface{}{
		"id":         quizID,
		"updated_at": time.Now(),
	}

	if update.Title != nil {
		setClauses = append(setClauses, "title = :title")
		args["title"] = util.StringToNullString(*update.Title)
	}
	if update.Description != nil {
		setClauses = append(setClauses, "description = :description")
		args["description"] = util.StringToNullString(*update.Description)
	}
	if update.VideoURL != nil {
		setClauses = append(setClauses, "video_url = :video_url")
		args["video_url"] = *update.VideoURL
	}

	query := fmt.Sprintf(`UPDATE quizzes SET %s WHERE id = :id`, strings.Join(setClauses, ", "))

	result, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, args)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
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

// DeleteQuiz removes a quiz; questions and attempts cascade in the
// schema.
func (r *sqlxQuizRepository) DeleteQuiz(ctx context.Context, quizID string) error {
	query := `DELETE FROM quizzes WHERE id = :id`

	result, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, map[string]interface{}{"id": quizID})
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
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
