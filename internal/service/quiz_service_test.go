package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"quizly/internal/config"
	"quizly/internal/domain"
	"quizly/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		DownloadTimeout:   time.Minute,
		TranscribeTimeout: time.Minute,
		GenerateTimeout:   time.Minute,
		MaxConcurrent:     2,
	}
}

type quizServiceMocks struct {
	quizRepo    *MockQuizRepository
	txManager   *MockTransactionManager
	videoSource *MockVideoSource
	transcriber *MockTranscriber
	generator   *MockQuizGenerator
}

func newTestQuizService() (QuizService, *quizServiceMocks) {
	m := &quizServiceMocks{
		quizRepo:    new(MockQuizRepository),
		txManager:   new(MockTransactionManager),
		videoSource: new(MockVideoSource),
		transcriber: new(MockTranscriber),
		generator:   new(MockQuizGenerator),
	}
	svc := NewQuizService(m.quizRepo, m.txManager, m.videoSource, m.transcriber, m.generator, testPipelineConfig())
	return svc, m
}

func candidateFixture(title string) *domain.CandidateQuiz {
	candidate := &domain.CandidateQuiz{
		Title:       title,
		Description: "About the video.",
	}
	for i := 0; i < domain.QuestionCount; i++ {
		candidate.Questions = append(candidate.Questions, domain.CandidateQuestion{
			QuestionTitle: fmt.Sprintf("Question %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			Answer:        "C",
		})
	}
	return candidate
}

func TestCreateQuizFromVideo_Success(t *testing.T) {
	svc, m := newTestQuizService()

	m.videoSource.On("GetMetadata", mock.Anything, testVideoURL).
		Return(domain.VideoMetadata{Title: "Video Title"})
	m.videoSource.On("DownloadAudio", mock.Anything, testVideoURL).
		Return("/tmp/quizly-audio-1/audio.wav", nil)
	m.videoSource.On("Cleanup", "/tmp/quizly-audio-1/audio.wav").Return()
	m.transcriber.On("Transcribe", mock.Anything, "/tmp/quizly-audio-1/audio.wav").
		Return("the transcript", nil)
	m.generator.On("Generate", mock.Anything, "the transcript", "Video Title").
		Return(candidateFixture("Generated Title"), nil)
	m.txManager.On("WithTransaction", mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuiz", mock.Anything, mock.AnythingOfType("*domain.Quiz")).Return(nil)
	m.quizRepo.On("CreateQuestion", mock.Anything, mock.AnythingOfType("*domain.Question")).Return(nil)

	resp, err := svc.CreateQuizFromVideo(context.Background(), "user1", testVideoURL)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "Generated Title", resp.Title)
	assert.Equal(t, testVideoURL, resp.VideoURL)
	assert.Len(t, resp.Questions, domain.QuestionCount)
	m.quizRepo.AssertNumberOfCalls(t, "CreateQuestion", domain.QuestionCount)
	m.videoSource.AssertCalled(t, "Cleanup", "/tmp/quizly-audio-1/audio.wav")
}

func TestCreateQuizFromVideo_TitleFallsBackToMetadata(t *testing.T) {
	svc, m := newTestQuizService()

	m.videoSource.On("GetMetadata", mock.Anything, testVideoURL).
		Return(domain.VideoMetadata{Title: "Video Title"})
	m.videoSource.On("DownloadAudio", mock.Anything, testVideoURL).Return("/tmp/a/audio.wav", nil)
	m.videoSource.On("Cleanup", mock.Anything).Return()
	m.transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("text", nil)
	m.generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(candidateFixture(""), nil)
	m.txManager.On("WithTransaction", mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuiz", mock.Anything, mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuestion", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.CreateQuizFromVideo(context.Background(), "user1", testVideoURL)

	assert.NoError(t, err)
	assert.Equal(t, "Video Title", resp.Title)
}

func TestCreateQuizFromVideo_TitleFallsBackToDefault(t *testing.T) {
	svc, m := newTestQuizService()

	m.videoSource.On("GetMetadata", mock.Anything, testVideoURL).
		Return(domain.VideoMetadata{})
	m.videoSource.On("DownloadAudio", mock.Anything, testVideoURL).Return("/tmp/a/audio.wav", nil)
	m.videoSource.On("Cleanup", mock.Anything).Return()
	m.transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("text", nil)
	m.generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(candidateFixture(""), nil)
	m.txManager.On("WithTransaction", mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuiz", mock.Anything, mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuestion", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.CreateQuizFromVideo(context.Background(), "user1", testVideoURL)

	assert.NoError(t, err)
	assert.Equal(t, domain.DefaultQuizTitle, resp.Title)
}

func TestCreateQuizFromVideo_RejectsInvalidURL(t *testing.T) {
	svc, m := newTestQuizService()

	_, err := svc.CreateQuizFromVideo(context.Background(), "user1", "https://vimeo.com/123")

	var validationErrs domain.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
	m.videoSource.AssertNotCalled(t, "DownloadAudio")
}

func TestCreateQuizFromVideo_DownloadFailure(t *testing.T) {
	svc, m := newTestQuizService()

	m.videoSource.On("GetMetadata", mock.Anything, testVideoURL).Return(domain.VideoMetadata{})
	m.videoSource.On("DownloadAudio", mock.Anything, testVideoURL).
		Return("", domain.NewDownloadError(errors.New("video unavailable")))

	_, err := svc.CreateQuizFromVideo(context.Background(), "user1", testVideoURL)

	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeDownloadFailed, domainErr.Code)
	m.transcriber.AssertNotCalled(t, "Transcribe")
	m.videoSource.AssertNotCalled(t, "Cleanup")
}

func TestCreateQuizFromVideo_TranscriptionFailureStillCleansUp(t *testing.T) {
	svc, m := newTestQuizService()

	m.videoSource.On("GetMetadata", mock.Anything, testVideoURL).Return(domain.VideoMetadata{})
	m.videoSource.On("DownloadAudio", mock.Anything, testVideoURL).Return("/tmp/a/audio.wav", nil)
	m.videoSource.On("Cleanup", "/tmp/a/audio.wav").Return()
	m.transcriber.On("Transcribe", mock.Anything, "/tmp/a/audio.wav").
		Return("", domain.NewTranscriptionError(errors.New("api down")))

	_, err := svc.CreateQuizFromVideo(context.Background(), "user1", testVideoURL)

	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeTranscriptionFailed, domainErr.Code)
	m.videoSource.AssertCalled(t, "Cleanup", "/tmp/a/audio.wav")
	m.generator.AssertNotCalled(t, "Generate")
}

func TestCreateQuizFromVideo_GenerationFailureStillCleansUp(t *testing.T) {
	svc, m := newTestQuizService()

	m.videoSource.On("GetMetadata", mock.Anything, testVideoURL).Return(domain.VideoMetadata{})
	m.videoSource.On("DownloadAudio", mock.Anything, testVideoURL).Return("/tmp/a/audio.wav", nil)
	m.videoSource.On("Cleanup", "/tmp/a/audio.wav").Return()
	m.transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("text", nil)
	m.generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.NewAIInvalidJSONError(errors.New("not json")))

	_, err := svc.CreateQuizFromVideo(context.Background(), "user1", testVideoURL)

	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeAIInvalidJSON, domainErr.Code)
	m.videoSource.AssertCalled(t, "Cleanup", "/tmp/a/audio.wav")
	m.quizRepo.AssertNotCalled(t, "CreateQuiz")
}

func TestCreateQuizFromVideo_PersistFailureRollsUp(t *testing.T) {
	svc, m := newTestQuizService()

	m.videoSource.On("GetMetadata", mock.Anything, testVideoURL).Return(domain.VideoMetadata{})
	m.videoSource.On("DownloadAudio", mock.Anything, testVideoURL).Return("/tmp/a/audio.wav", nil)
	m.videoSource.On("Cleanup", mock.Anything).Return()
	m.transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("text", nil)
	m.generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(candidateFixture("T"), nil)
	m.txManager.On("WithTransaction", mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuiz", mock.Anything, mock.Anything).Return(errors.New("ORA-12170"))

	_, err := svc.CreateQuizFromVideo(context.Background(), "user1", testVideoURL)

	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInternal, domainErr.Code)
}

func TestGetQuiz_OwnershipAndExistence(t *testing.T) {
	t.Run("owner sees quiz with questions", func(t *testing.T) {
		svc, m := newTestQuizService()
		m.quizRepo.On("GetQuizByID", mock.Anything, "quiz1").
			Return(&domain.Quiz{ID: "quiz1", UserID: "user1", Title: "T"}, nil)
		m.quizRepo.On("GetQuestionsByQuizID", mock.Anything, "quiz1").
			Return([]domain.Question{{ID: "q1", Options: []string{"A", "B", "C", "D"}}}, nil)

		resp, err := svc.GetQuiz(context.Background(), "user1", "quiz1")
		assert.NoError(t, err)
		assert.Len(t, resp.Questions, 1)
	})

	t.Run("foreign quiz is forbidden", func(t *testing.T) {
		svc, m := newTestQuizService()
		m.quizRepo.On("GetQuizByID", mock.Anything, "quiz1").
			Return(&domain.Quiz{ID: "quiz1", UserID: "someone-else"}, nil)

		_, err := svc.GetQuiz(context.Background(), "user1", "quiz1")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeForbidden, domainErr.Code)
	})

	t.Run("missing quiz is not found", func(t *testing.T) {
		svc, m := newTestQuizService()
		m.quizRepo.On("GetQuizByID", mock.Anything, "missing").Return(nil, nil)

		_, err := svc.GetQuiz(context.Background(), "user1", "missing")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
	})
}

func TestUpdateQuiz_PartialUpdate(t *testing.T) {
	svc, m := newTestQuizService()

	title := "Renamed"
	m.quizRepo.On("GetQuizByID", mock.Anything, "quiz1").
		Return(&domain.Quiz{ID: "quiz1", UserID: "user1", Title: "Old"}, nil)
	m.quizRepo.On("UpdateQuiz", mock.Anything, "quiz1", domain.QuizUpdate{Title: &title}).Return(nil)
	m.quizRepo.On("GetQuestionsByQuizID", mock.Anything, "quiz1").Return([]domain.Question{}, nil)

	_, err := svc.UpdateQuiz(context.Background(), "user1", "quiz1", dto.UpdateQuizRequest{Title: &title})

	assert.NoError(t, err)
	m.quizRepo.AssertExpectations(t)
}

func TestUpdateQuiz_RejectsBadVideoURL(t *testing.T) {
	svc, m := newTestQuizService()

	badURL := "https://example.com/video"
	m.quizRepo.On("GetQuizByID", mock.Anything, "quiz1").
		Return(&domain.Quiz{ID: "quiz1", UserID: "user1"}, nil)

	_, err := svc.UpdateQuiz(context.Background(), "user1", "quiz1", dto.UpdateQuizRequest{VideoURL: &badURL})

	var validationErrs domain.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
	m.quizRepo.AssertNotCalled(t, "UpdateQuiz")
}

func TestDeleteQuiz(t *testing.T) {
	svc, m := newTestQuizService()

	m.quizRepo.On("GetQuizByID", mock.Anything, "quiz1").
		Return(&domain.Quiz{ID: "quiz1", UserID: "user1"}, nil)
	m.quizRepo.On("DeleteQuiz", mock.Anything, "quiz1").Return(nil)

	err := svc.DeleteQuiz(context.Background(), "user1", "quiz1")

	assert.NoError(t, err)
	m.quizRepo.AssertExpectations(t)
}

func TestGetQuizzes_ListsNewestFirstWithQuestions(t *testing.T) {
	svc, m := newTestQuizService()

	m.quizRepo.On("GetQuizzesByUserID", mock.Anything, "user1").
		Return([]domain.Quiz{{ID: "quiz2"}, {ID: "quiz1"}}, nil)
	m.quizRepo.On("GetQuestionsByQuizID", mock.Anything, "quiz2").Return([]domain.Question{}, nil)
	m.quizRepo.On("GetQuestionsByQuizID", mock.Anything, "quiz1").Return([]domain.Question{}, nil)

	resp, err := svc.GetQuizzes(context.Background(), "user1")

	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, "quiz2", resp[0].ID)
}

func TestGetRecentQuizzes_BucketsByCreationDate(t *testing.T) {
	svc, m := newTestQuizService()

	now := time.Now()
	m.quizRepo.On("GetQuizzesByUserID", mock.Anything, "user1").
		Return([]domain.Quiz{
			{ID: "today1", CreatedAt: now},
			{ID: "week1", CreatedAt: now.AddDate(0, 0, -3)},
			{ID: "old1", CreatedAt: now.AddDate(0, 0, -10)},
		}, nil)
	m.quizRepo.On("CountQuestionsByQuizID", mock.Anything, "today1").Return(10, nil)
	m.quizRepo.On("CountQuestionsByQuizID", mock.Anything, "week1").Return(10, nil)

	resp, err := svc.GetRecentQuizzes(context.Background(), "user1")

	assert.NoError(t, err)
	assert.Len(t, resp.Today, 1)
	assert.Equal(t, "today1", resp.Today[0].ID)
	assert.Equal(t, 10, resp.Today[0].QuestionsCount)
	assert.Len(t, resp.LastSevenDays, 1)
	assert.Equal(t, "week1", resp.LastSevenDays[0].ID)
	m.quizRepo.AssertNotCalled(t, "CountQuestionsByQuizID", mock.Anything, "old1")
}

func TestGetRecentQuizzes_EmptyBucketsStayEmptyLists(t *testing.T) {
	svc, m := newTestQuizService()

	m.quizRepo.On("GetQuizzesByUserID", mock.Anything, "user1").
		Return([]domain.Quiz{}, nil)

	resp, err := svc.GetRecentQuizzes(context.Background(), "user1")

	assert.NoError(t, err)
	assert.NotNil(t, resp.Today)
	assert.NotNil(t, resp.LastSevenDays)
	assert.Empty(t, resp.Today)
	assert.Empty(t, resp.LastSevenDays)
}
