package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quizly/internal/domain"
	"quizly/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"go.uber.org/zap"
)

// quizStructureTemplate is the JSON shape the model is instructed to
// produce. It doubles as documentation of what ValidateCandidate
// enforces.
const quizStructureTemplate = `{
  "title": "Create a concise quiz title based on the topic of the transcript.",
  "description": "Summarize the transcript in no more than 150 characters. Do not include any quiz questions or answers.",
  "questions": [
    {
      "question_title": "The question goes here.",
      "question_options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "The correct answer from the above options"
    },
    ...
    (exactly 10 questions)
  ]
}`

const quizRequirements = `Requirements:
- Each question must have exactly 4 distinct answer options.
- Only one correct answer is allowed per question, and it must be present in 'question_options'.
- The output must be valid JSON and parsable as-is.
- Do not include explanations, comments, or any text outside the JSON.`

// GeminiQuizGenerator implements domain.QuizGenerator through the
// langchaingo Google AI provider.
type GeminiQuizGenerator struct {
	llm llms.Model
}

// NewGeminiQuizGenerator creates a generator against the Gemini API.
func NewGeminiQuizGenerator(ctx context.Context, apiKey, modelName string) (*GeminiQuizGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("Gemini model name cannot be empty")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	return &GeminiQuizGenerator{llm: llm}, nil
}

// NewGeminiQuizGeneratorWithModel creates a generator with a caller
// supplied model. Tests use this.
func NewGeminiQuizGeneratorWithModel(llm llms.Model) *GeminiQuizGenerator {
	return &GeminiQuizGenerator{llm: llm}
}

// BuildPrompt assembles the generation prompt from a transcript. The
// title hint is accepted for parity with metadata extraction but the
// model derives the title from the transcript itself.
func BuildPrompt(transcript, titleHint string) string {
	_ = titleHint
	return fmt.Sprintf(`Based on the following transcript, generate a quiz in valid JSON format.

The quiz must follow this exact structure:

%s

%s

%s`, quizStructureTemplate, quizRequirements, transcript)
}

// StripCodeFence removes a leading "```json" fence and a trailing
// "```" if the model wrapped its response in one.
func StripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-len("```")]
	}
	return strings.TrimSpace(cleaned)
}

// ValidateCandidate enforces the structural rules on a parsed quiz:
// exactly ten questions, four options each, and every answer present in
// its options. Error messages use 1-based question positions.
func ValidateCandidate(candidate *domain.CandidateQuiz) error {
	if len(candidate.Questions) != domain.QuestionCount {
		return fmt.Errorf("quiz must have exactly %d questions, got %d", domain.QuestionCount, len(candidate.Questions))
	}
	for i, q := range candidate.Questions {
		if len(q.Options) != domain.OptionCount {
			return fmt.Errorf("question %d: must have exactly %d options", i+1, domain.OptionCount)
		}
		found := false
		for _, opt := range q.Options {
			if q.Answer == opt {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("question %d: answer must be one of the options", i+1)
		}
	}
	return nil
}

// Generate prompts the model with the transcript and returns a
// structurally valid candidate quiz.
func (g *GeminiQuizGenerator) Generate(ctx context.Context, transcript, titleHint string) (*domain.CandidateQuiz, error) {
	prompt := BuildPrompt(transcript, titleHint)

	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		logger.Get().Error("quiz generation request failed", zap.Error(err))
		return nil, domain.NewGenerationError("Failed to generate quiz", err)
	}

	cleaned := StripCodeFence(response)

	var candidate domain.CandidateQuiz
	if err := json.Unmarshal([]byte(cleaned), &candidate); err != nil {
		logger.Get().Error("quiz generation returned invalid JSON",
			zap.String("response", cleaned),
			zap.Error(err))
		return nil, domain.NewAIInvalidJSONError(err)
	}

	if err := ValidateCandidate(&candidate); err != nil {
		return nil, domain.NewGenerationError(err.Error(), err)
	}

	return &candidate, nil
}

var _ domain.QuizGenerator = (*GeminiQuizGenerator)(nil)
