package handler

import (
	"time"

	"quizly/internal/config"
	"quizly/internal/domain"
	"quizly/internal/dto"
	"quizly/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

type AuthHandler struct {
	authService service.AuthService
	appConfig   *config.Config
}

func NewAuthHandler(authService service.AuthService, appConfig *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		appConfig:   appConfig,
	}
}

// setTokenCookie writes an auth cookie. Secure is only dropped outside
// production so local development over plain HTTP keeps working.
func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.appConfig.IsProduction(),
		SameSite: "Lax",
		Path:     "/",
	})
}

func (h *AuthHandler) clearTokenCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.appConfig.IsProduction(),
		SameSite: "Lax",
		Path:     "/",
	})
}

func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// Register creates a new user account.
// @Summary Register a new user
// @Description Creates a user from username, email and password.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Validation errors"
// @Router /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	user, err := h.authService.Register(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		Detail: "User created successfully",
		User:   toUserResponse(user),
	})
}

// Login authenticates a user and sets the auth cookies.
// @Summary Log in
// @Description Verifies credentials and sets access and refresh token cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} middleware.ErrorResponse "Invalid credentials"
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	user, accessToken, refreshToken, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, accessTokenCookie, accessToken, h.appConfig.JWT.AccessTokenTTL)
	h.setTokenCookie(c, refreshTokenCookie, refreshToken, h.appConfig.JWT.RefreshTokenTTL)

	return c.JSON(dto.LoginResponse{
		Detail: "Login successful",
		User:   toUserResponse(user),
	})
}

// Logout revokes both tokens and clears the auth cookies.
// @Summary Log out
// @Description Blacklists the current tokens and clears the auth cookies.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	accessToken := c.Cookies(accessTokenCookie)
	refreshToken := c.Cookies(refreshTokenCookie)

	if err := h.authService.Logout(c.Context(), accessToken, refreshToken); err != nil {
		return err
	}

	h.clearTokenCookie(c, accessTokenCookie)
	h.clearTokenCookie(c, refreshTokenCookie)

	return c.JSON(dto.MessageResponse{Detail: "Logout successful"})
}

// RefreshToken mints a new access token from the refresh cookie.
// @Summary Refresh access token
// @Description Issues a new access token cookie from a valid refresh token cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} middleware.ErrorResponse "Invalid or revoked refresh token"
// @Router /token/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies(refreshTokenCookie)
	if refreshToken == "" {
		return domain.NewUnauthorizedError("Refresh token is missing")
	}

	newAccessToken, err := h.authService.RefreshAccessToken(c.Context(), refreshToken)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, accessTokenCookie, newAccessToken, h.appConfig.JWT.AccessTokenTTL)

	return c.JSON(dto.MessageResponse{Detail: "Token refreshed"})
}
