package models

import (
	"database/sql"
	"time"
)

// User is the users table row.
type User struct {
	ID           string    `db:"ID"`
	Username     string    `db:"USERNAME"`
	Email        string    `db:"EMAIL"`
	PasswordHash string    `db:"PASSWORD_HASH"`
	CreatedAt    time.Time `db:"CREATED_AT"`
	UpdatedAt    time.Time `db:"UPDATED_AT"`
}

// Quiz is the quizzes table row.
type Quiz struct {
	ID          string         `db:"ID"`
	Title       sql.NullString `db:"TITLE"`
	Description sql.NullString `db:"DESCRIPTION"`
	VideoURL    string         `db:"VIDEO_URL"`
	UserID      string         `db:"USER_ID"`
	CreatedAt   time.Time      `db:"CREATED_AT"`
	UpdatedAt   time.Time      `db:"UPDATED_AT"`
}

// Question is the questions table row. Options is a JSON array in a
// CLOB column.
type Question struct {
	ID            string      `db:"ID"`
	QuizID        string      `db:"QUIZ_ID"`
	QuestionTitle string      `db:"QUESTION_TITLE"`
	Options       StringSlice `db:"QUESTION_OPTIONS"`
	Answer        string      `db:"ANSWER"`
	CreatedAt     time.Time   `db:"CREATED_AT"`
	UpdatedAt     time.Time   `db:"UPDATED_AT"`
}

// QuizAttempt is the quiz_attempts table row. Answers is a JSON object
// in a CLOB column; Score and CompletedAt stay NULL until completion.
type QuizAttempt struct {
	ID          string          `db:"ID"`
	QuizID      string          `db:"QUIZ_ID"`
	UserID      string          `db:"USER_ID"`
	Answers     StringMap       `db:"ANSWERS"`
	Score       sql.NullFloat64 `db:"SCORE"`
	CompletedAt sql.NullTime    `db:"COMPLETED_AT"`
	CreatedAt   time.Time       `db:"CREATED_AT"`
	UpdatedAt   time.Time       `db:"UPDATED_AT"`
}
