package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims carried by both token types.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// RegisterRequest is the body for POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterResponse confirms account creation.
type RegisterResponse struct {
	Detail string       `json:"detail"`
	User   UserResponse `json:"user"`
}

// LoginResponse is returned alongside the auth cookies.
type LoginResponse struct {
	Detail string       `json:"detail"`
	User   UserResponse `json:"user"`
}

// MessageResponse is a generic detail message.
type MessageResponse struct {
	Detail string `json:"detail"`
}
