package handler

import (
	"context"
	"errors"
	"time"

	"quizly/internal/domain"
	"quizly/internal/dto"
	"quizly/internal/middleware"
	"quizly/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Func-field mocks so each test overrides only what it needs.

type MockAuthService struct {
	RegisterFunc           func(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	LoginFunc              func(ctx context.Context, username, password string) (*domain.User, string, string, error)
	RefreshAccessTokenFunc func(ctx context.Context, refreshTokenString string) (string, error)
	LogoutFunc             func(ctx context.Context, accessToken, refreshToken string) error
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, errors.New("RegisterFunc not set")
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*domain.User, string, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return nil, "", "", errors.New("LoginFunc not set")
}

func (m *MockAuthService) CreateJWT(ctx context.Context, userID string, ttl time.Duration, tokenType string) (string, error) {
	return "", errors.New("CreateJWT not set")
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	return nil, errors.New("ValidateJWT not set")
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (string, error) {
	if m.RefreshAccessTokenFunc != nil {
		return m.RefreshAccessTokenFunc(ctx, refreshTokenString)
	}
	return "", errors.New("RefreshAccessTokenFunc not set")
}

func (m *MockAuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, accessToken, refreshToken)
	}
	return errors.New("LogoutFunc not set")
}

func (m *MockAuthService) IsBlacklisted(ctx context.Context, tokenString string) (bool, error) {
	return false, nil
}

type MockQuizService struct {
	CreateQuizFromVideoFunc func(ctx context.Context, userID, url string) (*dto.QuizResponse, error)
	GetQuizzesFunc          func(ctx context.Context, userID string) ([]dto.QuizResponse, error)
	GetRecentQuizzesFunc    func(ctx context.Context, userID string) (*dto.RecentQuizzesResponse, error)
	GetQuizFunc             func(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error)
	UpdateQuizFunc          func(ctx context.Context, userID, quizID string, req dto.UpdateQuizRequest) (*dto.QuizResponse, error)
	DeleteQuizFunc          func(ctx context.Context, userID, quizID string) error
}

func (m *MockQuizService) CreateQuizFromVideo(ctx context.Context, userID, url string) (*dto.QuizResponse, error) {
	return m.CreateQuizFromVideoFunc(ctx, userID, url)
}

func (m *MockQuizService) GetQuizzes(ctx context.Context, userID string) ([]dto.QuizResponse, error) {
	return m.GetQuizzesFunc(ctx, userID)
}

func (m *MockQuizService) GetRecentQuizzes(ctx context.Context, userID string) (*dto.RecentQuizzesResponse, error) {
	return m.GetRecentQuizzesFunc(ctx, userID)
}

func (m *MockQuizService) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
	return m.GetQuizFunc(ctx, userID, quizID)
}

func (m *MockQuizService) UpdateQuiz(ctx context.Context, userID, quizID string, req dto.UpdateQuizRequest) (*dto.QuizResponse, error) {
	return m.UpdateQuizFunc(ctx, userID, quizID, req)
}

func (m *MockQuizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	return m.DeleteQuizFunc(ctx, userID, quizID)
}

type MockAttemptService struct {
	StartAttemptFunc    func(ctx context.Context, userID, quizID string) (*dto.AttemptResponse, error)
	SaveAnswerFunc      func(ctx context.Context, userID, attemptID string, req dto.SaveAnswerRequest) (*dto.AttemptResponse, error)
	CompleteAttemptFunc func(ctx context.Context, userID, attemptID string) (*dto.CompleteAttemptResponse, error)
	GetResultsFunc      func(ctx context.Context, userID, attemptID string) (*dto.AttemptResultsResponse, error)
}

func (m *MockAttemptService) StartAttempt(ctx context.Context, userID, quizID string) (*dto.AttemptResponse, error) {
	return m.StartAttemptFunc(ctx, userID, quizID)
}

func (m *MockAttemptService) SaveAnswer(ctx context.Context, userID, attemptID string, req dto.SaveAnswerRequest) (*dto.AttemptResponse, error) {
	return m.SaveAnswerFunc(ctx, userID, attemptID, req)
}

func (m *MockAttemptService) CompleteAttempt(ctx context.Context, userID, attemptID string) (*dto.CompleteAttemptResponse, error) {
	return m.CompleteAttemptFunc(ctx, userID, attemptID)
}

func (m *MockAttemptService) GetResults(ctx context.Context, userID, attemptID string) (*dto.AttemptResultsResponse, error) {
	return m.GetResultsFunc(ctx, userID, attemptID)
}

var (
	_ service.AuthService    = (*MockAuthService)(nil)
	_ service.QuizService    = (*MockQuizService)(nil)
	_ service.AttemptService = (*MockAttemptService)(nil)
)

// newTestApp builds a fiber app with the real error handler and a stub
// auth layer that fixes the user ID.
func newTestApp(userID string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, userID)
		return c.Next()
	})
	return app
}
