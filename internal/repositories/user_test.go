package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestUserReadRepository_GetByEmail(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserReadRepository(sqlxDB)
	ctx := context.Background()

	query := regexp.QuoteMeta("SELECT user_id, email, password_hash, created_at, updated_at FROM users WHERE email = $1 LIMIT 1")

	t.Run("Found", func(t *testing.T) {
		userID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(query).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "password_hash", "created_at", "updated_at"}).
				AddRow(userID, "alice@example.com", "hash", now, now))

		user, err := repo.GetByEmail(ctx, "alice@example.com")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, userID, user.UserID)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "password_hash", "created_at", "updated_at"}))

		user, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("QueryError", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("alice@example.com").
			WillReturnError(errors.New("db down"))

		user, err := repo.GetByEmail(ctx, "alice@example.com")
		assert.Error(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Save(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserWriteRepository(sqlxDB, nil)
	ctx := context.Background()

	query := regexp.QuoteMeta("INSERT INTO users (user_id, email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW()) RETURNING user_id")

	userID := uuid.New()
	mock.ExpectQuery(query).
		WithArgs(sqlmock.AnyArg(), "bob@example.com", "hashed").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(userID))

	saved, err := repo.Save(ctx, "bob@example.com", "hashed")
	assert.NoError(t, err)
	assert.Equal(t, userID, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Save_DuplicateEmail(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserWriteRepository(sqlxDB, nil)
	ctx := context.Background()

	query := regexp.QuoteMeta("INSERT INTO users (user_id, email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW()) RETURNING user_id")

	mock.ExpectQuery(query).
		WithArgs(sqlmock.AnyArg(), "bob@example.com", "hashed").
		WillReturnError(errors.New(`duplicate key value violates unique constraint "users_email_key"`))

	_, err := repo.Save(ctx, "bob@example.com", "hashed")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Save_UsesContextTransaction(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	ctx := context.Background()

	mock.ExpectBegin()
	query := regexp.QuoteMeta("INSERT INTO users (user_id, email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW()) RETURNING user_id")
	userID := uuid.New()
	mock.ExpectQuery(query).
		WithArgs(sqlmock.AnyArg(), "carol@example.com", "hashed").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(userID))
	mock.ExpectCommit()

	tx, err := sqlxDB.Beginx()
	assert.NoError(t, err)

	repo := NewUserWriteRepository(sqlxDB, func(context.Context) *sqlx.Tx { return tx })

	saved, err := repo.Save(ctx, "carol@example.com", "hashed")
	assert.NoError(t, err)
	assert.Equal(t, userID, saved)

	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
