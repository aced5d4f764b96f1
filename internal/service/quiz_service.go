package service

import (
	"context"
	"time"

	"quizly/internal/config"
	"quizly/internal/domain"
	"quizly/internal/dto"
	"quizly/internal/logger"
	"quizly/internal/util"
	"quizly/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// QuizService defines quiz creation and management operations.
type QuizService interface {
	CreateQuizFromVideo(ctx context.Context, userID, url string) (*dto.QuizResponse, error)
	GetQuizzes(ctx context.Context, userID string) ([]dto.QuizResponse, error)
	GetRecentQuizzes(ctx context.Context, userID string) (*dto.RecentQuizzesResponse, error)
	GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error)
	UpdateQuiz(ctx context.Context, userID, quizID string, req dto.UpdateQuizRequest) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, userID, quizID string) error
}

type quizServiceImpl struct {
	quizRepo    domain.QuizRepository
	txManager   domain.TransactionManager
	videoSource domain.VideoSource
	transcriber domain.Transcriber
	generator   domain.QuizGenerator
	pipelineCfg config.PipelineConfig
	sem         *semaphore.Weighted
}

// NewQuizService creates a new instance of QuizService. The semaphore
// caps how many download-transcribe-generate pipelines run at once so
// a burst of requests cannot exhaust disk or API quota.
func NewQuizService(
	quizRepo domain.QuizRepository,
	txManager domain.TransactionManager,
	videoSource domain.VideoSource,
	transcriber domain.Transcriber,
	generator domain.QuizGenerator,
	pipelineCfg config.PipelineConfig,
) QuizService {
	maxConcurrent := pipelineCfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &quizServiceImpl{
		quizRepo:    quizRepo,
		txManager:   txManager,
		videoSource: videoSource,
		transcriber: transcriber,
		generator:   generator,
		pipelineCfg: pipelineCfg,
		sem:         semaphore.NewWeighted(maxConcurrent),
	}
}

// CreateQuizFromVideo runs the full pipeline for a YouTube URL:
// metadata, audio download, transcription, generation, then one
// transaction persisting the quiz and its questions. The audio file is
// removed on every exit path once downloaded.
func (s *quizServiceImpl) CreateQuizFromVideo(ctx context.Context, userID, url string) (*dto.QuizResponse, error) {
	if validationErrs := validation.ValidateYouTubeURL(url); len(validationErrs) > 0 {
		return nil, validationErrs
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, domain.NewInternalError("failed to acquire pipeline slot", err)
	}
	defer s.sem.Release(1)

	appLogger := logger.Get()
	metadata := s.videoSource.GetMetadata(ctx, url)

	downloadCtx, cancelDownload := context.WithTimeout(ctx, s.pipelineCfg.DownloadTimeout)
	defer cancelDownload()
	audioPath, err := s.videoSource.DownloadAudio(downloadCtx, url)
	if err != nil {
		return nil, err
	}
	defer s.videoSource.Cleanup(audioPath)

	transcribeCtx, cancelTranscribe := context.WithTimeout(ctx, s.pipelineCfg.TranscribeTimeout)
	defer cancelTranscribe()
	transcript, err := s.transcriber.Transcribe(transcribeCtx, audioPath)
	if err != nil {
		return nil, err
	}

	generateCtx, cancelGenerate := context.WithTimeout(ctx, s.pipelineCfg.GenerateTimeout)
	defer cancelGenerate()
	candidate, err := s.generator.Generate(generateCtx, transcript, metadata.Title)
	if err != nil {
		return nil, err
	}

	quiz := s.buildQuiz(userID, url, metadata, candidate)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.quizRepo.CreateQuiz(txCtx, quiz); err != nil {
			return err
		}
		for i := range quiz.Questions {
			if err := s.quizRepo.CreateQuestion(txCtx, &quiz.Questions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to save quiz", err)
	}

	appLogger.Info("Quiz created from video",
		zap.String("quizID", quiz.ID),
		zap.String("userID", userID),
		zap.String("url", url),
		zap.String("videoID", validation.ExtractVideoID(url)))
	return toQuizResponse(quiz, quiz.Questions), nil
}

// buildQuiz assembles the domain quiz from the validated candidate.
// Title falls back from the model's title to the video's, then to the
// default.
func (s *quizServiceImpl) buildQuiz(userID, url string, metadata domain.VideoMetadata, candidate *domain.CandidateQuiz) *domain.Quiz {
	title := candidate.Title
	if title == "" {
		title = metadata.Title
	}
	if title == "" {
		title = domain.DefaultQuizTitle
	}

	quiz := &domain.Quiz{
		ID:          util.NewULID(),
		Title:       title,
		Description: candidate.Description,
		VideoURL:    url,
		UserID:      userID,
	}
	for _, cq := range candidate.Questions {
		quiz.Questions = append(quiz.Questions, domain.Question{
			ID:            util.NewULID(),
			QuizID:        quiz.ID,
			QuestionTitle: cq.QuestionTitle,
			Options:       cq.Options,
			Answer:        cq.Answer,
		})
	}
	return quiz
}

// GetQuizzes lists the caller's quizzes with their questions, newest
// quiz first.
func (s *quizServiceImpl) GetQuizzes(ctx context.Context, userID string) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizRepo.GetQuizzesByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		questions, err := s.quizRepo.GetQuestionsByQuizID(ctx, quizzes[i].ID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load questions", err)
		}
		responses = append(responses, *toQuizResponse(&quizzes[i], questions))
	}
	return responses, nil
}

// GetRecentQuizzes buckets the caller's quizzes into those created
// today and those created in the seven days before today. Older
// quizzes are left out.
func (s *quizServiceImpl) GetRecentQuizzes(ctx context.Context, userID string) (*dto.RecentQuizzesResponse, error) {
	quizzes, err := s.quizRepo.GetQuizzesByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}

	year, month, day := time.Now().Date()
	todayStart := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	weekStart := todayStart.AddDate(0, 0, -7)

	resp := &dto.RecentQuizzesResponse{
		Today:         []dto.QuizSummary{},
		LastSevenDays: []dto.QuizSummary{},
	}
	for i := range quizzes {
		created := quizzes[i].CreatedAt
		if created.Before(weekStart) {
			continue
		}
		count, err := s.quizRepo.CountQuestionsByQuizID(ctx, quizzes[i].ID)
		if err != nil {
			return nil, domain.NewInternalError("failed to count questions", err)
		}
		summary := toQuizSummary(&quizzes[i], count)
		if created.Before(todayStart) {
			resp.LastSevenDays = append(resp.LastSevenDays, summary)
		} else {
			resp.Today = append(resp.Today, summary)
		}
	}
	return resp, nil
}

// getOwnedQuiz loads a quiz and enforces ownership. A missing quiz is
// a not-found; someone else's quiz is a forbidden.
func (s *quizServiceImpl) getOwnedQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	if quiz.UserID != userID {
		return nil, domain.NewForbiddenError("You do not have permission to access this quiz")
	}
	return quiz, nil
}

// GetQuiz retrieves one quiz with questions.
func (s *quizServiceImpl) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
	quiz, err := s.getOwnedQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.quizRepo.GetQuestionsByQuizID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}
	return toQuizResponse(quiz, questions), nil
}

// UpdateQuiz applies the provided fields and returns the updated quiz.
// PUT and PATCH both land here; absent fields stay untouched.
func (s *quizServiceImpl) UpdateQuiz(ctx context.Context, userID, quizID string, req dto.UpdateQuizRequest) (*dto.QuizResponse, error) {
	if _, err := s.getOwnedQuiz(ctx, userID, quizID); err != nil {
		return nil, err
	}

	if req.VideoURL != nil {
		if validationErrs := validation.ValidateYouTubeURL(*req.VideoURL); len(validationErrs) > 0 {
			return nil, validationErrs
		}
	}

	update := domain.QuizUpdate{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
	}
	if err := s.quizRepo.UpdateQuiz(ctx, quizID, update); err != nil {
		return nil, domain.NewInternalError("failed to update quiz", err)
	}

	return s.GetQuiz(ctx, userID, quizID)
}

// DeleteQuiz removes a quiz and, via schema cascades, its questions
// and attempts.
func (s *quizServiceImpl) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	if _, err := s.getOwnedQuiz(ctx, userID, quizID); err != nil {
		return err
	}
	if err := s.quizRepo.DeleteQuiz(ctx, quizID); err != nil {
		return domain.NewInternalError("failed to delete quiz", err)
	}
	logger.Get().Info("Quiz deleted",
		zap.String("quizID", quizID),
		zap.String("userID", userID))
	return nil
}

func toQuizSummary(quiz *domain.Quiz, questionsCount int) dto.QuizSummary {
	return dto.QuizSummary{
		ID:             quiz.ID,
		Title:          quiz.Title,
		Description:    quiz.Description,
		VideoURL:       quiz.VideoURL,
		CreatedAt:      quiz.CreatedAt,
		UpdatedAt:      quiz.UpdatedAt,
		QuestionsCount: questionsCount,
	}
}

func toQuizResponse(quiz *domain.Quiz, questions []domain.Question) *dto.QuizResponse {
	resp := &dto.QuizResponse{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		VideoURL:    quiz.VideoURL,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
		Questions:   make([]dto.QuestionResponse, 0, len(questions)),
	}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			ID:              q.ID,
			QuestionTitle:   q.QuestionTitle,
			QuestionOptions: q.Options,
			Answer:          q.Answer,
			CreatedAt:       q.CreatedAt,
			UpdatedAt:       q.UpdatedAt,
		})
	}
	return resp
}
