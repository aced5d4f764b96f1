package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"quizly/internal/domain"
	"quizly/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

// setupTestDB creates a new sqlx.DB instance and sqlmock for
// repository testing.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

var userColumns = []string{"ID", "USERNAME", "EMAIL", "PASSWORD_HASH", "CREATED_AT", "UPDATED_AT"}

func TestToDomainUser(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	modelUser := &models.User{
		ID:           "user1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	domainUser := toDomainUser(modelUser)
	assert.NotNil(t, domainUser)
	assert.Equal(t, modelUser.ID, domainUser.ID)
	assert.Equal(t, modelUser.Username, domainUser.Username)
	assert.Equal(t, modelUser.Email, domainUser.Email)
	assert.Equal(t, modelUser.PasswordHash, domainUser.PasswordHash)
	assert.True(t, modelUser.CreatedAt.Equal(domainUser.CreatedAt))

	assert.Nil(t, toDomainUser(nil))
}

func TestSQLXUserRepository_GetUserByUsername_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(userColumns).
		AddRow("user1", "alice", "alice@example.com", "$2a$10$hash", now, now)

	mock.ExpectPrepare(`SELECT \* FROM users WHERE username = .+`).
		ExpectQuery().
		WithArgs("alice").
		WillReturnRows(rows)

	user, err := repo.GetUserByUsername(context.Background(), "alice")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "user1", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_GetUserByUsername_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	mock.ExpectPrepare(`SELECT \* FROM users WHERE username = .+`).
		ExpectQuery().
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetUserByUsername(context.Background(), "nobody")

	assert.NoError(t, err, "not found is (nil, nil), not an error")
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_GetUserByEmail_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(userColumns).
		AddRow("user1", "alice", "alice@example.com", "$2a$10$hash", now, now)

	mock.ExpectPrepare(`SELECT \* FROM users WHERE email = .+`).
		ExpectQuery().
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	user, err := repo.GetUserByEmail(context.Background(), "alice@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_CreateUser_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	user := &domain.User{
		ID:           "new-user-id",
		Username:     "bob",
		Email:        "bob@example.com",
		PasswordHash: "$2a$10$hash",
	}

	mock.ExpectExec(`INSERT INTO users \(id, username, email, password_hash, created_at, updated_at\)`).
		WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateUser(context.Background(), user)

	assert.NoError(t, err)
	assert.False(t, user.CreatedAt.IsZero(), "CreateUser stamps timestamps")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_CreateUser_DBError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New("ORA-00001: unique constraint violated"))

	err := repo.CreateUser(context.Background(), &domain.User{ID: "dup"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
