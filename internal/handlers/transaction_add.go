package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
	"github.com/sbilibin2017/gw-finance-tracker/internal/models"
	"github.com/sbilibin2017/gw-finance-tracker/internal/services"
)

// TransactionAdder defines the interface that the transaction creation service must implement.
type TransactionAdder interface {
	AddTransaction(ctx context.Context, userID uuid.UUID, txnType string, amount float64, category, description string) (*models.TransactionDB, float64, error)
}

// AddTransactionRequest represents the JSON body for recording a transaction
// swagger:model AddTransactionRequest
type AddTransactionRequest struct {
	// Transaction type
	// required: true
	// default: expense
	Type string `json:"type"`

	// Positive amount
	// required: true
	// default: 42.50
	Amount float64 `json:"amount"`

	// Category label
	// default: groceries
	Category string `json:"category"`

	// Description
	// default: weekly shopping
	Description string `json:"description"`
}

// AddTransactionResponse represents a successful transaction creation response
// swagger:model AddTransactionResponse
type AddTransactionResponse struct {
	// The recorded transaction
	Transaction models.TransactionDB `json:"transaction"`

	// Wallet balance after the transaction is applied
	// default: 757.50
	NewBalance float64 `json:"new_balance"`
}

// NewAddTransactionHandler returns an HTTP handler for recording a transaction.
// @Summary Record a transaction
// @Description Records an income or expense transaction and adjusts the wallet balance atomically
// @Tags transactions
// @Accept json
// @Produce json
// @Param addTransactionRequest body handlers.AddTransactionRequest true "Transaction to record"
// @Success 201 {object} handlers.AddTransactionResponse "Transaction recorded"
// @Failure 400 {object} handlers.TransactionsErrorResponse "Invalid type or amount"
// @Failure 401 {object} handlers.TransactionsErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.TransactionsErrorResponse "Internal server error"
// @Router /transactions [post]
// @Security BearerAuth
func NewAddTransactionHandler(
	svc TransactionAdder,
	tokenGetter AuthTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := claimsFromRequest(w, r, tokenGetter)
		if !ok {
			return
		}

		var req AddTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionsErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		txn, newBalance, err := svc.AddTransaction(ctx, claims.UserID, req.Type, req.Amount, req.Category, req.Description)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidTransactionType):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{
					Error: "Invalid transaction type",
				})
			case errors.Is(err, services.ErrInvalidAmount):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{
					Error: "Invalid amount",
				})
			default:
				logger.Log.Errorw("failed to add transaction", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(AddTransactionResponse{
			Transaction: *txn,
			NewBalance:  newBalance,
		})
	}
}
