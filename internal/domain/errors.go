package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode identifies a class of domain failure. The HTTP layer maps
// codes to status codes; services only ever speak in codes.
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Quiz and attempt specific errors
	CodeQuizNotFound     ErrorCode = "QUIZ_NOT_FOUND"
	CodeAttemptNotFound  ErrorCode = "ATTEMPT_NOT_FOUND"
	CodeAlreadyCompleted ErrorCode = "ALREADY_COMPLETED"
	CodeNotCompleted     ErrorCode = "NOT_COMPLETED"

	// Pipeline specific errors. These all collapse to a generic 500 at
	// the boundary; the distinction exists for logs and tests.
	CodeDownloadFailed      ErrorCode = "DOWNLOAD_FAILED"
	CodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	CodeGenerationFailed    ErrorCode = "GENERATION_FAILED"
	CodeAIInvalidJSON       ErrorCode = "AI_INVALID_JSON"
)

// DomainError is the error type services return.
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON hides the cause from clients.
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

func NewAttemptNotFoundError(attemptID string) *DomainError {
	return NewError(CodeAttemptNotFound, fmt.Sprintf("Quiz attempt not found with ID: %s", attemptID), nil)
}

func NewDownloadError(cause error) *DomainError {
	return NewError(CodeDownloadFailed, "Failed to download audio", cause)
}

func NewTranscriptionError(cause error) *DomainError {
	return NewError(CodeTranscriptionFailed, "Failed to transcribe audio", cause)
}

func NewGenerationError(message string, cause error) *DomainError {
	return NewError(CodeGenerationFailed, message, cause)
}

// NewAIInvalidJSONError marks the specific case where the model
// replied with something that is not parseable JSON, as opposed to a
// transport or shape failure.
func NewAIInvalidJSONError(cause error) *DomainError {
	return NewError(CodeAIInvalidJSON, "AI response was not valid JSON", cause)
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field errors so registration and update
// endpoints can report everything wrong with a request at once.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Error()
}

func NewFieldError(field, message string) FieldError {
	return FieldError{Field: field, Message: message}
}
