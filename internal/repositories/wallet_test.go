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

func TestWalletWriteRepository_Create(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewWalletWriteRepository(sqlxDB, nil)
	ctx := context.Background()

	userID := uuid.New()
	query := regexp.QuoteMeta("INSERT INTO wallets (wallet_id, user_id, balance, created_at, updated_at) VALUES ($1, $2, 0, NOW(), NOW())")

	mock.ExpectExec(query).
		WithArgs(sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(ctx, userID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletWriteRepository_AdjustBalance(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewWalletWriteRepository(sqlxDB, nil)
	ctx := context.Background()

	userID := uuid.New()
	query := regexp.QuoteMeta("UPDATE wallets SET balance = balance + $2, updated_at = NOW() WHERE user_id = $1 RETURNING balance")

	t.Run("PositiveDelta", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID, 1000.0).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(1000.0))

		balance, err := repo.AdjustBalance(ctx, userID, 1000.0)
		assert.NoError(t, err)
		assert.Equal(t, 1000.0, balance)
	})

	t.Run("NegativeDelta", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID, -200.0).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(800.0))

		balance, err := repo.AdjustBalance(ctx, userID, -200.0)
		assert.NoError(t, err)
		assert.Equal(t, 800.0, balance)
	})

	t.Run("QueryError", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID, 50.0).
			WillReturnError(errors.New("db down"))

		_, err := repo.AdjustBalance(ctx, userID, 50.0)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletWriteRepository_AdjustBalance_UsesContextTransaction(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectBegin()
	query := regexp.QuoteMeta("UPDATE wallets SET balance = balance + $2, updated_at = NOW() WHERE user_id = $1 RETURNING balance")
	mock.ExpectQuery(query).
		WithArgs(userID, 100.0).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(100.0))
	mock.ExpectCommit()

	tx, err := sqlxDB.Beginx()
	assert.NoError(t, err)

	repo := NewWalletWriteRepository(sqlxDB, func(context.Context) *sqlx.Tx { return tx })

	balance, err := repo.AdjustBalance(ctx, userID, 100.0)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, balance)

	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletReadRepository_GetByUserID(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewWalletReadRepository(sqlxDB)
	ctx := context.Background()

	userID := uuid.New()
	walletID := uuid.New()
	now := time.Now()
	query := regexp.QuoteMeta("SELECT wallet_id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1")

	mock.ExpectQuery(query).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_id", "user_id", "balance", "created_at", "updated_at"}).
			AddRow(walletID, userID, 800.0, now, now))

	wallet, err := repo.GetByUserID(ctx, userID)
	assert.NoError(t, err)
	assert.NotNil(t, wallet)
	assert.Equal(t, 800.0, wallet.Balance)
	assert.Equal(t, userID, wallet.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
