package videosource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"quizly/internal/domain"
	"quizly/internal/logger"

	"go.uber.org/zap"
)

// audioFileName is the fixed name yt-dlp writes the converted track to
// inside the per-download temp directory.
const audioFileName = "audio.wav"

// YtdlpVideoSource implements domain.VideoSource by shelling out to
// yt-dlp. Each download gets its own temp directory so Cleanup can
// remove everything at once.
type YtdlpVideoSource struct {
	binaryPath string
}

// NewYtdlpVideoSource creates a video source backed by the yt-dlp
// binary at binaryPath.
func NewYtdlpVideoSource(binaryPath string) *YtdlpVideoSource {
	if binaryPath == "" {
		binaryPath = "yt-dlp"
	}
	return &YtdlpVideoSource{binaryPath: binaryPath}
}

// ytdlpInfo is the subset of yt-dlp's --dump-json output we keep.
type ytdlpInfo struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Thumbnail   string  `json:"thumbnail"`
}

// GetMetadata extracts video metadata without downloading. Any failure
// degrades to a zero-valued result; quiz creation proceeds without a
// title hint.
func (s *YtdlpVideoSource) GetMetadata(ctx context.Context, url string) domain.VideoMetadata {
	cmd := exec.CommandContext(ctx, s.binaryPath,
		"--quiet",
		"--no-warnings",
		"--dump-json",
		"--skip-download",
		url,
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		logger.Get().Warn("failed to extract video metadata",
			zap.String("url", url),
			zap.Error(err))
		return domain.VideoMetadata{}
	}

	var info ytdlpInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		logger.Get().Warn("failed to parse video metadata",
			zap.String("url", url),
			zap.Error(err))
		return domain.VideoMetadata{}
	}

	return domain.VideoMetadata{
		Title:       info.Title,
		Description: info.Description,
		Duration:    int64(info.Duration),
		Thumbnail:   info.Thumbnail,
	}
}

// DownloadAudio downloads the video's audio track and converts it to
// WAV. Returns the path of the resulting file. Single attempt; the
// caller owns retry policy and must Cleanup the returned path.
func (s *YtdlpVideoSource) DownloadAudio(ctx context.Context, url string) (string, error) {
	tempDir, err := os.MkdirTemp("", "quizly-audio-*")
	if err != nil {
		return "", domain.NewDownloadError(fmt.Errorf("failed to create temp directory: %w", err))
	}

	outputTemplate := filepath.Join(tempDir, "audio.%(ext)s")
	cmd := exec.CommandContext(ctx, s.binaryPath,
		"--quiet",
		"--no-warnings",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "wav",
		"--audio-quality", "192K",
		"-o", outputTemplate,
		url,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.RemoveAll(tempDir)
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", domain.NewDownloadError(fmt.Errorf("yt-dlp failed: %s: %w", msg, err))
		}
		return "", domain.NewDownloadError(fmt.Errorf("yt-dlp failed: %w", err))
	}

	audioPath := filepath.Join(tempDir, audioFileName)
	if _, err := os.Stat(audioPath); err != nil {
		os.RemoveAll(tempDir)
		return "", domain.NewDownloadError(fmt.Errorf("audio file not found after download"))
	}

	return audioPath, nil
}

// Cleanup removes the audio file and its temp directory. Best effort:
// errors are logged and swallowed, and an empty path is a no-op.
func (s *YtdlpVideoSource) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Get().Warn("failed to remove audio file",
			zap.String("path", path),
			zap.Error(err))
	}

	parentDir := filepath.Dir(path)
	if strings.HasPrefix(parentDir, os.TempDir()) {
		if err := os.RemoveAll(parentDir); err != nil {
			logger.Get().Warn("failed to remove temp directory",
				zap.String("dir", parentDir),
				zap.Error(err))
		}
	}
}

var _ domain.VideoSource = (*YtdlpVideoSource)(nil)
