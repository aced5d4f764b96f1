package service

import (
	"context"
	"fmt"
	"time"

	"quizly/internal/domain"
	"quizly/internal/dto"
	"quizly/internal/logger"
	"quizly/internal/util"

	"go.uber.org/zap"
)

// AttemptService defines quiz-taking operations.
type AttemptService interface {
	StartAttempt(ctx context.Context, userID, quizID string) (*dto.AttemptResponse, error)
	SaveAnswer(ctx context.Context, userID, attemptID string, req dto.SaveAnswerRequest) (*dto.AttemptResponse, error)
	CompleteAttempt(ctx context.Context, userID, attemptID string) (*dto.CompleteAttemptResponse, error)
	GetResults(ctx context.Context, userID, attemptID string) (*dto.AttemptResultsResponse, error)
}

type attemptServiceImpl struct {
	attemptRepo domain.AttemptRepository
	quizRepo    domain.QuizRepository
}

// NewAttemptService creates a new instance of AttemptService.
func NewAttemptService(attemptRepo domain.AttemptRepository, quizRepo domain.QuizRepository) AttemptService {
	return &attemptServiceImpl{
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
	}
}

// StartAttempt creates a fresh attempt against one of the caller's own
// quizzes. Foreign and missing quizzes both surface as not-found.
func (s *attemptServiceImpl) StartAttempt(ctx context.Context, userID, quizID string) (*dto.AttemptResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil || quiz.UserID != userID {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	attempt := &domain.QuizAttempt{
		ID:      util.NewULID(),
		QuizID:  quizID,
		UserID:  userID,
		Answers: map[string]string{},
	}
	if err := s.attemptRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, domain.NewInternalError("failed to create attempt", err)
	}

	logger.Get().Info("Quiz attempt started",
		zap.String("attemptID", attempt.ID),
		zap.String("quizID", quizID),
		zap.String("userID", userID))
	return toAttemptResponse(attempt), nil
}

// getOwnAttempt loads an attempt scoped to the caller. Foreign or
// missing attempts both surface as not-found.
func (s *attemptServiceImpl) getOwnAttempt(ctx context.Context, userID, attemptID string) (*domain.QuizAttempt, error) {
	attempt, err := s.attemptRepo.GetAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempt", err)
	}
	if attempt == nil {
		return nil, domain.NewAttemptNotFoundError(attemptID)
	}
	return attempt, nil
}

// SaveAnswer upserts one answer in the attempt's answer map. The
// question ID is stored as given; scoring resolves it against the
// quiz's actual questions.
func (s *attemptServiceImpl) SaveAnswer(ctx context.Context, userID, attemptID string, req dto.SaveAnswerRequest) (*dto.AttemptResponse, error) {
	if req.QuestionID == "" || req.Answer == "" {
		return nil, domain.NewInvalidInputError("question_id and answer are required")
	}

	attempt, err := s.getOwnAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	attempt.Answers[req.QuestionID] = req.Answer
	if err := s.attemptRepo.UpdateAnswers(ctx, attempt); err != nil {
		return nil, domain.NewInternalError("failed to save answer", err)
	}

	return toAttemptResponse(attempt), nil
}

// CompleteAttempt scores the attempt and finalizes it. Completion is
// monotonic: a second call fails instead of re-scoring.
func (s *attemptServiceImpl) CompleteAttempt(ctx context.Context, userID, attemptID string) (*dto.CompleteAttemptResponse, error) {
	attempt, err := s.getOwnAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Completed() {
		return nil, domain.NewError(domain.CodeAlreadyCompleted, "Quiz attempt is already completed", nil)
	}

	questions, err := s.quizRepo.GetQuestionsByQuizID(ctx, attempt.QuizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}

	percentage, correct, total := domain.ScoreAttempt(attempt, questions)

	now := time.Now()
	attempt.Score = &percentage
	attempt.CompletedAt = &now
	if err := s.attemptRepo.CompleteAttempt(ctx, attempt); err != nil {
		return nil, domain.NewInternalError("failed to complete attempt", err)
	}

	logger.Get().Info("Quiz attempt completed",
		zap.String("attemptID", attempt.ID),
		zap.String("userID", userID),
		zap.Float64("score", percentage))
	return &dto.CompleteAttemptResponse{
		Score:          percentage,
		CorrectAnswers: correct,
		TotalQuestions: total,
		Percentage:     fmt.Sprintf("%.1f%%", percentage),
	}, nil
}

// GetResults returns the per-question breakdown of a completed
// attempt. Incomplete attempts have no results to show.
func (s *attemptServiceImpl) GetResults(ctx context.Context, userID, attemptID string) (*dto.AttemptResultsResponse, error) {
	attempt, err := s.getOwnAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if !attempt.Completed() {
		return nil, domain.NewError(domain.CodeNotCompleted, "Quiz attempt is not completed yet", nil)
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	questions, err := s.quizRepo.GetQuestionsByQuizID(ctx, attempt.QuizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}

	results := make([]dto.QuestionResult, 0, len(questions))
	for _, q := range questions {
		userAnswer := attempt.Answers[q.ID]
		results = append(results, dto.QuestionResult{
			Question:      q.QuestionTitle,
			Options:       q.Options,
			CorrectAnswer: q.Answer,
			UserAnswer:    userAnswer,
			IsCorrect:     userAnswer == q.Answer,
		})
	}

	resp := &dto.AttemptResultsResponse{
		Score:       attempt.Score,
		CompletedAt: attempt.CompletedAt,
		Results:     results,
	}
	if quiz != nil {
		resp.QuizTitle = quiz.Title
	}
	return resp, nil
}

func toAttemptResponse(attempt *domain.QuizAttempt) *dto.AttemptResponse {
	return &dto.AttemptResponse{
		ID:          attempt.ID,
		QuizID:      attempt.QuizID,
		Answers:     attempt.Answers,
		Score:       attempt.Score,
		CompletedAt: attempt.CompletedAt,
		CreatedAt:   attempt.CreatedAt,
		UpdatedAt:   attempt.UpdatedAt,
	}
}
