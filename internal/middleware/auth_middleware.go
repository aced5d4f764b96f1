package middleware

import (
	"strings"

	"quizly/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	AccessTokenCookie   = "access_token"
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

// extractToken returns the access token from the auth cookie, falling
// back to the Authorization header for non-browser clients.
func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(AccessTokenCookie); cookie != "" {
		return cookie
	}
	authHeader := c.Get(AuthorizationHeader)
	if strings.HasPrefix(authHeader, BearerSchema) {
		return strings.TrimPrefix(authHeader, BearerSchema)
	}
	return ""
}

// Protected is a middleware function that protects routes by requiring a valid JWT.
// It validates the token using the provided AuthService and sets the userID in the context.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_TOKEN",
				Message: "Authentication credentials were not provided",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := authService.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Token is invalid or expired",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if claims.TokenType != service.TokenTypeAccess {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN_TYPE",
				Message: "Token is not an access token",
				Status:  fiber.StatusUnauthorized,
			})
		}

		blacklisted, err := authService.IsBlacklisted(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Code:    "INTERNAL_ERROR",
				Message: "Internal server error",
				Status:  fiber.StatusInternalServerError,
			})
		}
		if blacklisted {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "TOKEN_REVOKED",
				Message: "Token has been revoked",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(UserIDKey, claims.UserID)

		return c.Next()
	}
}
