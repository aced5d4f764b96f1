package transcriber

import (
	"context"
	"fmt"

	"quizly/internal/domain"
	"quizly/internal/logger"

	openai "github.com/sashabaranov/go-openai"

	"go.uber.org/zap"
)

// transcriptionClient is the slice of the OpenAI client the transcriber
// needs. Tests substitute it.
type transcriptionClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperTranscriber implements domain.Transcriber against the OpenAI
// Whisper API.
type WhisperTranscriber struct {
	client transcriptionClient
}

// NewWhisperTranscriber creates a transcriber using the given API key.
func NewWhisperTranscriber(apiKey string) (*WhisperTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	return &WhisperTranscriber{client: openai.NewClient(apiKey)}, nil
}

// NewWhisperTranscriberWithClient creates a transcriber with a caller
// supplied client.
func NewWhisperTranscriberWithClient(client transcriptionClient) *WhisperTranscriber {
	return &WhisperTranscriber{client: client}
}

// Transcribe sends the audio file to Whisper and returns the plain
// transcript text.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
	})
	if err != nil {
		logger.Get().Error("transcription request failed",
			zap.String("audio_path", audioPath),
			zap.Error(err))
		return "", domain.NewTranscriptionError(err)
	}

	return resp.Text, nil
}

var _ domain.Transcriber = (*WhisperTranscriber)(nil)
