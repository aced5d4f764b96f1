package handler

import (
	"quizly/internal/domain"
	"quizly/internal/dto"
	"quizly/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AttemptHandler struct {
	attemptService service.AttemptService
}

func NewAttemptHandler(attemptService service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// StartAttempt begins a new attempt at a quiz.
// @Summary Start a quiz attempt
// @Tags attempts
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 201 {object} dto.AttemptResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Security CookieAuth
// @Router /quizzes/{id}/start [post]
func (h *AttemptHandler) StartAttempt(c *fiber.Ctx) error {
	attempt, err := h.attemptService.StartAttempt(c.Context(), userID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(attempt)
}

// SaveAnswer records or overwrites one answer on an open attempt.
// @Summary Save an answer
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param request body dto.SaveAnswerRequest true "Question ID and answer"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} middleware.ErrorResponse "Missing question_id or answer"
// @Failure 404 {object} middleware.ErrorResponse "Attempt not found"
// @Security CookieAuth
// @Router /attempts/{id}/answer [patch]
func (h *AttemptHandler) SaveAnswer(c *fiber.Ctx) error {
	var req dto.SaveAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	attempt, err := h.attemptService.SaveAnswer(c.Context(), userID(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(attempt)
}

// CompleteAttempt scores and finalizes an attempt.
// @Summary Complete a quiz attempt
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.CompleteAttemptResponse
// @Failure 400 {object} middleware.ErrorResponse "Attempt already completed"
// @Failure 404 {object} middleware.ErrorResponse "Attempt not found"
// @Security CookieAuth
// @Router /attempts/{id}/complete [post]
func (h *AttemptHandler) CompleteAttempt(c *fiber.Ctx) error {
	result, err := h.attemptService.CompleteAttempt(c.Context(), userID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetResults returns the per-question breakdown of a completed attempt.
// @Summary Get attempt results
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResultsResponse
// @Failure 400 {object} middleware.ErrorResponse "Attempt not completed"
// @Failure 404 {object} middleware.ErrorResponse "Attempt not found"
// @Security CookieAuth
// @Router /attempts/{id}/results [get]
func (h *AttemptHandler) GetResults(c *fiber.Ctx) error {
	results, err := h.attemptService.GetResults(c.Context(), userID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(results)
}
