package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizly/internal/domain"
	"quizly/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new user repository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	return &models.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// CreateUser inserts a new user.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
	          VALUES (:id, :username, :email, :password_hash, :created_at, :updated_at)`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, fromDomainUser(user))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) getUserBy(ctx context.Context, query string, args map[string]interface{}) (*domain.User, error) {
	var user models.User

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare user query: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &user, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found is not an error; services decide
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(&user), nil
}

// GetUserByID retrieves a user by internal ID.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getUserBy(ctx,
		`SELECT * FROM users WHERE id = :id`,
		map[string]interface{}{"id": userID})
}

// GetUserByUsername retrieves a user by username.
func (r *sqlxUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUserBy(ctx,
		`SELECT * FROM users WHERE username = :username`,
		map[string]interface{}{"username": username})
}

// GetUserByEmail retrieves a user by email.
func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUserBy(ctx,
		`SELECT * FROM users WHERE email = :email`,
		map[string]interface{}{"email": email})
}
