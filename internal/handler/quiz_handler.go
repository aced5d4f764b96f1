package handler

import (
	"quizly/internal/domain"
	"quizly/internal/dto"
	"quizly/internal/middleware"
	"quizly/internal/service"

	"github.com/gofiber/fiber/v2"
)

type QuizHandler struct {
	quizService service.QuizService
}

func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// userID pulls the authenticated user's ID set by the auth middleware.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.UserIDKey).(string)
	return id
}

// CreateQuiz generates a quiz from a YouTube URL.
// @Summary Create a quiz from a video
// @Description Downloads the video's audio, transcribes it and generates a 10-question quiz.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "YouTube URL"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid URL"
// @Failure 500 {object} middleware.ErrorResponse "Pipeline failure"
// @Security CookieAuth
// @Router /createQuiz [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	quiz, err := h.quizService.CreateQuizFromVideo(c.Context(), userID(c), req.URL)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// GetQuizzes lists the caller's quizzes.
// @Summary List quizzes
// @Description Returns all quizzes owned by the authenticated user, newest first.
// @Tags quizzes
// @Produce json
// @Success 200 {array} dto.QuizResponse
// @Security CookieAuth
// @Router /quizzes [get]
func (h *QuizHandler) GetQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.quizService.GetQuizzes(c.Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(quizzes)
}

// GetRecentQuizzes lists the caller's quizzes created today and in the
// last seven days.
// @Summary List recent quizzes
// @Description Returns the caller's quizzes bucketed into today and the seven days before today.
// @Tags quizzes
// @Produce json
// @Success 200 {object} dto.RecentQuizzesResponse
// @Security CookieAuth
// @Router /quizzes/recent [get]
func (h *QuizHandler) GetRecentQuizzes(c *fiber.Ctx) error {
	recent, err := h.quizService.GetRecentQuizzes(c.Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(recent)
}

// GetQuiz returns one quiz with its questions.
// @Summary Get a quiz
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 403 {object} middleware.ErrorResponse "Not the quiz owner"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Security CookieAuth
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizService.GetQuiz(c.Context(), userID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// UpdateQuiz modifies a quiz's title, description or video URL. Serves
// both PUT and PATCH; fields absent from the body stay unchanged.
// @Summary Update a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.UpdateQuizRequest true "Fields to update"
// @Success 200 {object} dto.QuizResponse
// @Failure 403 {object} middleware.ErrorResponse "Not the quiz owner"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Security CookieAuth
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	quiz, err := h.quizService.UpdateQuiz(c.Context(), userID(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// DeleteQuiz removes a quiz and everything attached to it.
// @Summary Delete a quiz
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 204 "No content"
// @Failure 403 {object} middleware.ErrorResponse "Not the quiz owner"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Security CookieAuth
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.quizService.DeleteQuiz(c.Context(), userID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
