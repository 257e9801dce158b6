package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
	"github.com/sbilibin2017/gw-finance-tracker/internal/models"
)

var (
	// ErrInvalidTransactionType is returned when the type is neither "income" nor "expense".
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	// ErrInvalidAmount is returned for non-finite, zero, or negative amounts.
	ErrInvalidAmount = errors.New("amount must be a positive finite number")
	// ErrInvalidSortKey is returned for sort keys outside the allowed set.
	ErrInvalidSortKey = errors.New("invalid sort key")
	// ErrTransactionNotFound is returned when no transaction with the given id exists.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrNotTransactionOwner is returned when a user tries to delete another user's transaction.
	ErrNotTransactionOwner = errors.New("transaction belongs to another user")
)

// TransactionWriter defines ledger write operations.
type TransactionWriter interface {
	Save(ctx context.Context, txn *models.TransactionDB) error      // Inserts a ledger entry
	Delete(ctx context.Context, transactionID uuid.UUID) error      // Removes a ledger entry
}

// TransactionReader defines ledger read operations.
type TransactionReader interface {
	GetByID(ctx context.Context, transactionID uuid.UUID) (*models.TransactionDB, error)                    // Fetches one entry, nil when absent
	List(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionDB, error) // Lists a user's entries
}

// BalanceAdjuster applies signed deltas to a user's wallet balance.
type BalanceAdjuster interface {
	AdjustBalance(ctx context.Context, userID uuid.UUID, delta float64) (float64, error)
}

// EventWriter defines a Kafka writer abstraction.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the writer
}

// ContextInvalidator drops a user's cached chatbot context after a mutation.
type ContextInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// LedgerService maintains the transaction ledger and keeps the wallet
// balance consistent with it: balance always equals the signed sum of the
// currently existing transactions. Adjustments are incremental, so both
// mutating operations must run inside the per-request database transaction.
type LedgerService struct {
	writer      TransactionWriter
	reader      TransactionReader
	wallets     BalanceAdjuster
	eventWriter EventWriter
	cache       ContextInvalidator
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	writer TransactionWriter,
	reader TransactionReader,
	wallets BalanceAdjuster,
	eventWriter EventWriter,
	cache ContextInvalidator,
) *LedgerService {
	return &LedgerService{
		writer:      writer,
		reader:      reader,
		wallets:     wallets,
		eventWriter: eventWriter,
		cache:       cache,
	}
}

// publishEvent publishes a ledger mutation to Kafka. Failures are logged,
// never propagated: event delivery is not part of the unit of work. Events
// fire before the surrounding request transaction commits, so a consumer
// may see an event for a mutation that later rolls back; events are hints,
// the ledger is the source of truth.
func (s *LedgerService) publishEvent(ctx context.Context, txn *models.TransactionDB, operation string) {
	if s.eventWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "transaction_id", txn.TransactionID)
		return
	}

	event := models.TransactionEvent{
		EventID:       uuid.NewString(),
		TransactionID: txn.TransactionID.String(),
		UserID:        txn.UserID.String(),
		Type:          txn.Type,
		Amount:        txn.Amount,
		Category:      txn.Category,
		Operation:     operation,
		Timestamp:     time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal event for Kafka", "transaction_id", txn.TransactionID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: data,
	}

	if err := s.eventWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish event to Kafka", "transaction_id", txn.TransactionID, "error", err)
	} else {
		logger.Log.Infow("Event published to Kafka", "transaction_id", txn.TransactionID, "operation", operation)
	}
}

// invalidateContext drops the user's cached chatbot context, best effort.
// Running before
// the transaction commits costs at most a spurious cache miss on rollback.
func (s *LedgerService) invalidateContext(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Errorw("failed to invalidate chat context", "userID", userID, "error", err)
	}
}

// AddTransaction records a ledger entry and applies its effect to the
// wallet balance: +amount for income, -amount for expense. Zero and
// negative amounts are rejected; refunds are modeled as income entries.
func (s *LedgerService) AddTransaction(ctx context.Context, userID uuid.UUID, txnType string, amount float64, category, description string) (*models.TransactionDB, float64, error) {
	if txnType != models.TypeIncome && txnType != models.TypeExpense {
		logger.Log.Warnw("invalid transaction type", "type", txnType)
		return nil, 0, ErrInvalidTransactionType
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		logger.Log.Warnw("invalid transaction amount", "amount", amount)
		return nil, 0, ErrInvalidAmount
	}

	txn := &models.TransactionDB{
		TransactionID: uuid.New(),
		UserID:        userID,
		Type:          txnType,
		Amount:        amount,
		Category:      category,
		Description:   description,
	}

	if err := s.writer.Save(ctx, txn); err != nil {
		logger.Log.Errorw("failed to save transaction", "userID", userID, "error", err)
		return nil, 0, err
	}

	delta := amount
	if txnType == models.TypeExpense {
		delta = -amount
	}

	newBalance, err := s.wallets.AdjustBalance(ctx, userID, delta)
	if err != nil {
		logger.Log.Errorw("failed to adjust balance", "userID", userID, "delta", delta, "error", err)
		return nil, 0, err
	}

	s.publishEvent(ctx, txn, "created")
	s.invalidateContext(ctx, userID)

	return txn, newBalance, nil
}

// DeleteTransaction removes a ledger entry owned by the caller after
// applying the exact inverse of its original balance effect. Deleting a
// foreign transaction is refused, not silently ignored.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) (float64, error) {
	txn, err := s.reader.GetByID(ctx, transactionID)
	if err != nil {
		logger.Log.Errorw("failed to load transaction", "transactionID", transactionID, "error", err)
		return 0, err
	}
	if txn == nil {
		return 0, ErrTransactionNotFound
	}
	if txn.UserID != userID {
		logger.Log.Warnw("cross-user delete refused", "transactionID", transactionID, "owner", txn.UserID, "caller", userID)
		return 0, ErrNotTransactionOwner
	}

	delta := txn.Amount
	if txn.Type == models.TypeIncome {
		delta = -txn.Amount
	}

	newBalance, err := s.wallets.AdjustBalance(ctx, userID, delta)
	if err != nil {
		logger.Log.Errorw("failed to adjust balance", "userID", userID, "delta", delta, "error", err)
		return 0, err
	}

	if err := s.writer.Delete(ctx, transactionID); err != nil {
		logger.Log.Errorw("failed to delete transaction", "transactionID", transactionID, "error", err)
		return 0, err
	}

	s.publishEvent(ctx, txn, "deleted")
	s.invalidateContext(ctx, userID)

	return newBalance, nil
}

// ListTransactions returns the caller's transactions matching the filter.
// Predicates combine with AND; unknown sort keys are rejected rather than
// silently ignored.
func (s *LedgerService) ListTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionDB, error) {
	if _, ok := models.SortColumn(filter.SortBy); !ok {
		logger.Log.Warnw("invalid sort key", "sort_by", filter.SortBy)
		return nil, ErrInvalidSortKey
	}

	txns, err := s.reader.List(ctx, userID, filter)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "userID", userID, "error", err)
		return nil, err
	}

	return txns, nil
}
