package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// FilterAll is the sentinel filter value meaning "no filter".
const FilterAll = "all"

// Sort directions
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// TransactionDB represents a ledger entry in the database.
// Transactions are created and deleted, never updated in place.
type TransactionDB struct {
	TransactionID uuid.UUID `json:"transaction_id" db:"transaction_id"` // Primary key
	UserID        uuid.UUID `json:"user_id" db:"user_id"`               // Identifier of the owning user
	Type          string    `json:"type" db:"type"`                     // "income" or "expense"
	Amount        float64   `json:"amount" db:"amount"`                 // Positive, currency-agnostic amount
	Category      string    `json:"category" db:"category"`             // Free-text category label
	Description   string    `json:"description" db:"description"`       // Free-text description
	CreatedAt     time.Time `json:"created_at" db:"created_at"`         // Server-assigned creation timestamp
}

// TransactionFilter holds the optional, AND-combined predicates and
// ordering for listing a user's transactions.
type TransactionFilter struct {
	Search   string // substring match against description, case-sensitive
	Type     string // "income", "expense", or "all"/empty for no filter
	Category string // exact category, or "all"/empty for no filter
	SortBy   string // one of the keys accepted by SortColumn, empty means "timestamp"
	Order    string // "asc" (default) or "desc"
}

// sortColumns maps exposed sort keys to the underlying table columns.
var sortColumns = map[string]string{
	"timestamp":   "created_at",
	"amount":      "amount",
	"category":    "category",
	"type":        "type",
	"description": "description",
}

// SortColumn resolves a sort key to a table column. The empty key defaults
// to the creation timestamp; unknown keys are reported via ok=false so the
// caller can reject them instead of silently ignoring them.
func SortColumn(key string) (column string, ok bool) {
	if key == "" {
		return sortColumns["timestamp"], true
	}
	column, ok = sortColumns[key]
	return column, ok
}

// TransactionEvent is the message published to Kafka whenever a ledger
// entry is created or deleted.
type TransactionEvent struct {
	EventID       string  `json:"event_id"`       // Unique identifier of the event itself
	TransactionID string  `json:"transaction_id"` // Identifier of the affected ledger entry
	UserID        string  `json:"user_id"`        // Identifier of the owning user
	Type          string  `json:"type"`           // "income" or "expense"
	Amount        float64 `json:"amount"`         // Transaction amount
	Category      string  `json:"category"`       // Transaction category
	Operation     string  `json:"operation"`      // "created" or "deleted"
	Timestamp     int64   `json:"timestamp"`      // Unix timestamp of the event
}
