package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizly/internal/config"
	"quizly/internal/domain"
	"quizly/internal/dto"
	"quizly/internal/logger"
	"quizly/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	minPasswordLength = 8
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (user *domain.User, accessToken string, refreshToken string, err error)
	CreateJWT(ctx context.Context, userID string, ttl time.Duration, tokenType string) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	RefreshAccessToken(ctx context.Context, refreshTokenString string) (newAccessToken string, err error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	IsBlacklisted(ctx context.Context, tokenString string) (bool, error)
}

type authServiceImpl struct {
	userRepo  domain.UserRepository
	blacklist domain.TokenBlacklist
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo domain.UserRepository, blacklist domain.TokenBlacklist, jwtConfig config.JWTConfig) (AuthService, error) {
	if jwtConfig.SecretKey == "" {
		return nil, errors.New("JWT secret key is not configured")
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		blacklist: blacklist,
		jwtConfig: jwtConfig,
	}, nil
}

// Register validates the request, checks for duplicate username and
// email, and stores the user with a bcrypt password hash. All field
// failures are collected so the client sees them at once.
func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	var fieldErrors domain.ValidationErrors

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" {
		fieldErrors = append(fieldErrors, domain.NewFieldError("username", "This field is required."))
	}
	if email == "" {
		fieldErrors = append(fieldErrors, domain.NewFieldError("email", "This field is required."))
	} else if !strings.Contains(email, "@") {
		fieldErrors = append(fieldErrors, domain.NewFieldError("email", "Enter a valid email address."))
	}
	if req.Password == "" {
		fieldErrors = append(fieldErrors, domain.NewFieldError("password", "This field is required."))
	} else if len(req.Password) < minPasswordLength {
		fieldErrors = append(fieldErrors, domain.NewFieldError("password",
			fmt.Sprintf("Password must be at least %d characters long.", minPasswordLength)))
	}

	if username != "" {
		existing, err := s.userRepo.GetUserByUsername(ctx, username)
		if err != nil {
			return nil, domain.NewInternalError("failed to check username", err)
		}
		if existing != nil {
			fieldErrors = append(fieldErrors, domain.NewFieldError("username", "A user with that username already exists."))
		}
	}
	if email != "" {
		existing, err := s.userRepo.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, domain.NewInternalError("failed to check email", err)
		}
		if existing != nil {
			fieldErrors = append(fieldErrors, domain.NewFieldError("email", "A user with that email already exists."))
		}
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := &domain.User{
		ID:           util.NewULID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, domain.NewInternalError("failed to create user", err)
	}

	logger.Get().Info("New user registered",
		zap.String("userID", user.ID),
		zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and issues an access and refresh token
// pair. A missing user and a wrong password are indistinguishable to
// the caller.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", "", domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, "", "", domain.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", domain.NewUnauthorizedError("Invalid credentials")
	}

	accessToken, err := s.CreateJWT(ctx, user.ID, s.jwtConfig.AccessTokenTTL, TokenTypeAccess)
	if err != nil {
		return nil, "", "", domain.NewInternalError("failed to create access token", err)
	}
	refreshToken, err := s.CreateJWT(ctx, user.ID, s.jwtConfig.RefreshTokenTTL, TokenTypeRefresh)
	if err != nil {
		return nil, "", "", domain.NewInternalError("failed to create refresh token", err)
	}

	logger.Get().Info("User logged in", zap.String("userID", user.ID))
	return user, accessToken, refreshToken, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, userID string, ttl time.Duration, tokenType string) (string, error) {
	claims := dto.AuthClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.SecretKey))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired",
				zap.Error(err),
				zap.String("token_snippet", tokenString[:min(len(tokenString), 20)]+"..."))
		} else {
			appLogger.Warn("JWT validation failed",
				zap.Error(err),
				zap.String("token_snippet", tokenString[:min(len(tokenString), 20)]+"..."))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

// RefreshAccessToken validates a refresh token, rejects blacklisted
// ones, and mints a fresh access token. The refresh token itself stays
// valid until expiry or logout.
func (s *authServiceImpl) RefreshAccessToken(ctx context.Context, refreshTokenString string) (string, error) {
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return "", domain.NewUnauthorizedError("Invalid refresh token")
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", domain.NewUnauthorizedError("Not a refresh token")
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, refreshTokenString)
	if err != nil {
		return "", domain.NewInternalError("failed to check token blacklist", err)
	}
	if blacklisted {
		return "", domain.NewUnauthorizedError("Token has been revoked")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return "", domain.NewUnauthorizedError("User no longer exists")
	}

	newAccessToken, err := s.CreateJWT(ctx, user.ID, s.jwtConfig.AccessTokenTTL, TokenTypeAccess)
	if err != nil {
		return "", domain.NewInternalError("failed to create access token", err)
	}

	logger.Get().Info("Access token refreshed", zap.String("userID", user.ID))
	return newAccessToken, nil
}

// Logout blacklists both tokens for their remaining lifetime. Tokens
// that fail to parse are skipped; expired tokens need no entry.
func (s *authServiceImpl) Logout(ctx context.Context, accessToken, refreshToken string) error {
	for _, tokenString := range []string{accessToken, refreshToken} {
		if tokenString == "" {
			continue
		}
		claims, err := s.ValidateJWT(ctx, tokenString)
		if err != nil {
			continue
		}
		if claims.ExpiresAt == nil {
			continue
		}
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.blacklist.Blacklist(ctx, tokenString, ttl); err != nil {
			return domain.NewInternalError("failed to blacklist token", err)
		}
	}
	return nil
}

// IsBlacklisted reports whether a token was revoked by a logout.
func (s *authServiceImpl) IsBlacklisted(ctx context.Context, tokenString string) (bool, error) {
	return s.blacklist.IsBlacklisted(ctx, tokenString)
}
