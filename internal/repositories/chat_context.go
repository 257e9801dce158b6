package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
)

// ErrChatContextNotCached is returned when the user's serialized history
// is not present in the cache.
var ErrChatContextNotCached = fmt.Errorf("chat context not found in cache")

// ChatContextCacheRepository caches the serialized transaction history used
// as the question-answering context, one blob per user, with expiration.
// The ledger service invalidates the entry on every create/delete.
type ChatContextCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached contexts
}

// NewChatContextCacheRepository creates a new repository instance with optional TTL
func NewChatContextCacheRepository(client *redis.Client, expiration time.Duration) *ChatContextCacheRepository {
	return &ChatContextCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func chatContextKey(userID uuid.UUID) string {
	return fmt.Sprintf("chat_context:%s", userID)
}

// Get fetches the cached context blob for a user
func (r *ChatContextCacheRepository) Get(ctx context.Context, userID uuid.UUID) (string, error) {
	key := chatContextKey(userID)

	val, err := r.client.Get(ctx, key).Result()

	logger.Log.Infow(
		"key", key,
		"result_size", len(val),
		"error", err,
	)

	if err != nil {
		if err == redis.Nil {
			return "", ErrChatContextNotCached
		}
		return "", err
	}

	return val, nil
}

// Set caches the context blob for a user with expiration
func (r *ChatContextCacheRepository) Set(ctx context.Context, userID uuid.UUID, contextBlob string) error {
	key := chatContextKey(userID)
	err := r.client.Set(ctx, key, contextBlob, r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"value_size", len(contextBlob),
		"result", "ok",
		"error", err,
	)

	return err
}

// Invalidate drops the cached context for a user
func (r *ChatContextCacheRepository) Invalidate(ctx context.Context, userID uuid.UUID) error {
	key := chatContextKey(userID)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow(
		"key", key,
		"result", "deleted",
		"error", err,
	)

	return err
}
