package domain

import (
	"context"
	"time"
)

// QuestionCount and OptionCount are the structural invariants every
// generated quiz must satisfy.
const (
	QuestionCount = 10
	OptionCount   = 4
)

// DefaultQuizTitle is used when neither the model nor the video
// metadata supplied a title.
const DefaultQuizTitle = "Untitled Quiz"

// Quiz is a persisted quiz owned by exactly one user.
type Quiz struct {
	ID          string
	Title       string
	Description string
	VideoURL    string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Questions   []Question
}

// Question is one multiple-choice question. Options always has exactly
// four entries and Answer equals one of them; both are enforced at
// generation-validation time, not re-checked on read.
type Question struct {
	ID            string
	QuizID        string
	QuestionTitle string
	Options       []string
	Answer        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// VideoMetadata describes a source video. All fields may be zero:
// metadata extraction degrades silently.
type VideoMetadata struct {
	Title       string
	Description string
	Duration    int64
	Thumbnail   string
}

// CandidateQuiz is an AI-generated quiz that passed structural
// validation but has not been persisted yet.
type CandidateQuiz struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []CandidateQuestion `json:"questions"`
}

// CandidateQuestion mirrors the JSON shape the model is instructed to
// produce.
type CandidateQuestion struct {
	QuestionTitle string   `json:"question_title"`
	Options       []string `json:"question_options"`
	Answer        string   `json:"answer"`
}

// QuizUpdate carries the mutable quiz fields. Nil pointers mean "leave
// unchanged" so PUT and PATCH share one repository call.
type QuizUpdate struct {
	Title       *string
	Description *string
	VideoURL    *string
}

// VideoSource resolves a video URL to metadata and a local audio file.
type VideoSource interface {
	// GetMetadata never fails: on any extraction error it returns a
	// zero-valued VideoMetadata.
	GetMetadata(ctx context.Context, url string) VideoMetadata
	// DownloadAudio downloads and converts the audio track, returning
	// the path of the resulting file. Single attempt, no retry.
	DownloadAudio(ctx context.Context, url string) (string, error)
	// Cleanup removes a downloaded audio file and its temp directory.
	// Best effort: it never fails and tolerates empty or stale paths.
	Cleanup(path string)
}

// Transcriber converts an audio file into plain text in one blocking
// call.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// QuizGenerator turns a transcript into a validated candidate quiz.
type QuizGenerator interface {
	Generate(ctx context.Context, transcript, titleHint string) (*CandidateQuiz, error)
}

// QuizRepository defines persistence for quizzes and their questions.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	CreateQuestion(ctx context.Context, question *Question) error
	GetQuizByID(ctx context.Context, quizID string) (*Quiz, error)
	GetQuizzesByUserID(ctx context.Context, userID string) ([]Quiz, error)
	GetQuestionsByQuizID(ctx context.Context, quizID string) ([]Question, error)
	CountQuestionsByQuizID(ctx context.Context, quizID string) (int, error)
	UpdateQuiz(ctx context.Context, quizID string, update QuizUpdate) error
	DeleteQuiz(ctx context.Context, quizID string) error
}

// TransactionManager runs a function within a storage transaction.
// Repositories called with the returned context join that transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
