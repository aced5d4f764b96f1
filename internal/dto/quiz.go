package dto

import "time"

// CreateQuizRequest is the body for POST /createQuiz.
type CreateQuizRequest struct {
	URL string `json:"url"`
}

// UpdateQuizRequest carries the mutable quiz fields for PUT/PATCH.
// Pointers distinguish "absent" from "set to empty".
type UpdateQuizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url"`
}

// QuestionResponse is one question as exposed to the quiz owner.
type QuestionResponse struct {
	ID              string    `json:"id"`
	QuestionTitle   string    `json:"question_title"`
	QuestionOptions []string  `json:"question_options"`
	Answer          string    `json:"answer"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// QuizResponse is a quiz with its questions.
type QuizResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	VideoURL    string             `json:"video_url"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Questions   []QuestionResponse `json:"questions"`
}

// QuizSummary is a quiz without its question content, carrying only a
// question count.
type QuizSummary struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	VideoURL       string    `json:"video_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	QuestionsCount int       `json:"questions_count"`
}

// RecentQuizzesResponse buckets the caller's quizzes by creation date.
type RecentQuizzesResponse struct {
	Today         []QuizSummary `json:"today"`
	LastSevenDays []QuizSummary `json:"last_7_days"`
}

// AttemptResponse is the state of one quiz attempt.
type AttemptResponse struct {
	ID          string            `json:"id"`
	QuizID      string            `json:"quiz"`
	Answers     map[string]string `json:"answers"`
	Score       *float64          `json:"score"`
	CompletedAt *time.Time        `json:"completed_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SaveAnswerRequest is the body for PATCH /attempts/:id/answer.
type SaveAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// CompleteAttemptResponse reports the computed score.
type CompleteAttemptResponse struct {
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	Percentage     string  `json:"percentage"`
}

// QuestionResult is the per-question breakdown of a completed attempt.
type QuestionResult struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	UserAnswer    string   `json:"user_answer"`
	IsCorrect     bool     `json:"is_correct"`
}

// AttemptResultsResponse is the body for GET /attempts/:id/results.
type AttemptResultsResponse struct {
	QuizTitle   string           `json:"quiz_title"`
	Score       *float64         `json:"score"`
	CompletedAt *time.Time       `json:"completed_at"`
	Results     []QuestionResult `json:"results"`
}
