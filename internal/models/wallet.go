package models

import (
	"time"

	"github.com/google/uuid"
)

// WalletDB represents a wallet row in the database.
// Each user owns exactly one wallet, created at signup with a zero balance.
type WalletDB struct {
	WalletID  uuid.UUID `json:"wallet_id" db:"wallet_id"`   // Unique wallet identifier
	UserID    uuid.UUID `json:"user_id" db:"user_id"`       // Identifier of the wallet's owner
	Balance   float64   `json:"balance" db:"balance"`       // Running total: sum of income minus sum of expenses
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Timestamp when the wallet was created
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // Timestamp of the last balance adjustment
}
