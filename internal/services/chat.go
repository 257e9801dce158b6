package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
	"github.com/sbilibin2017/gw-finance-tracker/internal/models"
)

// Answerer defines the external extractive question-answering collaborator.
type Answerer interface {
	Answer(ctx context.Context, question, contextText string) (string, error)
}

// ContextCache caches the serialized transaction history per user.
type ContextCache interface {
	Get(ctx context.Context, userID uuid.UUID) (string, error)
	Set(ctx context.Context, userID uuid.UUID, contextBlob string) error
}

// ChatService answers free-text questions about the caller's own
// transaction history by feeding it as context to the QA collaborator.
type ChatService struct {
	reader TransactionReader
	cache  ContextCache
	qa     Answerer
}

// NewChatService creates a new ChatService.
func NewChatService(reader TransactionReader, cache ContextCache, qa Answerer) *ChatService {
	return &ChatService{
		reader: reader,
		cache:  cache,
		qa:     qa,
	}
}

// SerializeTransactions turns ledger entries into the context blob for the
// QA model, one line per transaction.
func SerializeTransactions(txns []models.TransactionDB) string {
	lines := make([]string, 0, len(txns))
	for _, t := range txns {
		lines = append(lines, fmt.Sprintf("%s - %.2f - %s - %s", t.Type, t.Amount, t.Category, t.Description))
	}
	return strings.Join(lines, "\n")
}

// contextFor returns the serialized history for a user, from cache when
// possible. Cache failures fall back to the database.
func (s *ChatService) contextFor(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.cache != nil {
		if blob, err := s.cache.Get(ctx, userID); err == nil {
			return blob, nil
		}
	}

	txns, err := s.reader.List(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return "", err
	}

	blob := SerializeTransactions(txns)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, blob); err != nil {
			logger.Log.Errorw("failed to cache chat context", "userID", userID, "error", err)
		}
	}

	return blob, nil
}

// Ask answers a question about the caller's transaction history. An
// inference failure is converted into the reply text instead of an error:
// the chat never hard-fails the page. A storage failure is still returned
// to the caller as an error.
func (s *ChatService) Ask(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	contextBlob, err := s.contextFor(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to build chat context", "userID", userID, "error", err)
		return "", err
	}

	reply, err := s.qa.Answer(ctx, message, contextBlob)
	if err != nil {
		logger.Log.Errorw("inference failed", "userID", userID, "error", err)
		return fmt.Sprintf("Error generating response: %v", err), nil
	}

	return reply, nil
}
