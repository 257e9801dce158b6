package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
	"github.com/sbilibin2017/gw-finance-tracker/internal/models"
)

// TransactionWriteRepository handles ledger write operations
type TransactionWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTransactionWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a ledger entry. The creation timestamp is server-assigned
// and written back into txn.
func (r *TransactionWriteRepository) Save(ctx context.Context, txn *models.TransactionDB) error {
	query := `
		INSERT INTO transactions (transaction_id, user_id, type, amount, category, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	args := []any{txn.TransactionID, txn.UserID, txn.Type, txn.Amount, txn.Category, txn.Description}

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	err := sqlx.GetContext(ctx, executor, &txn.CreatedAt, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", txn.CreatedAt,
		"error", err,
	)

	return err
}

// Delete removes a ledger entry by id.
func (r *TransactionWriteRepository) Delete(ctx context.Context, transactionID uuid.UUID) error {
	query := `
		DELETE FROM transactions
		WHERE transaction_id = $1
	`

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	res, err := executor.ExecContext(ctx, query, transactionID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{transactionID},
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// TransactionReadRepository handles ledger read operations
type TransactionReadRepository struct {
	db *sqlx.DB
}

func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// GetByID retrieves a single ledger entry. Returns (nil, nil) when no
// entry with that id exists.
func (r *TransactionReadRepository) GetByID(ctx context.Context, transactionID uuid.UUID) (*models.TransactionDB, error) {
	const query = `
		SELECT transaction_id, user_id, type, amount, category, description, created_at
		FROM transactions
		WHERE transaction_id = $1
	`

	var txn models.TransactionDB
	err := r.db.GetContext(ctx, &txn, query, transactionID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{transactionID},
		"result", txn,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// List returns the user's transactions matching the filter, ordered by the
// filter's sort key and direction. Predicates combine with AND and the
// result is always scoped to the given user. The sort key must have been
// validated against models.SortColumn by the caller; anything else falls
// back to the creation timestamp here as a last line of defense against
// interpolating untrusted input into the query.
func (r *TransactionReadRepository) List(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionDB, error) {
	query := `
		SELECT transaction_id, user_id, type, amount, category, description, created_at
		FROM transactions
		WHERE user_id = $1
	`
	args := []any{userID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND description LIKE $%d", len(args))
	}
	if filter.Type != "" && filter.Type != models.FilterAll {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Category != "" && filter.Category != models.FilterAll {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}

	column, ok := models.SortColumn(filter.SortBy)
	if !ok {
		column, _ = models.SortColumn("")
	}
	direction := "ASC"
	if filter.Order == models.OrderDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	var txns []models.TransactionDB
	err := r.db.SelectContext(ctx, &txns, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", len(txns),
		"error", err,
	)

	return txns, err
}
