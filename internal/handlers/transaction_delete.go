package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
	"github.com/sbilibin2017/gw-finance-tracker/internal/services"
)

// TransactionDeleter defines the interface that the transaction deletion service must implement.
type TransactionDeleter interface {
	DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) (float64, error)
}

// DeleteTransactionResponse represents a successful transaction deletion response
// swagger:model DeleteTransactionResponse
type DeleteTransactionResponse struct {
	// Success message
	// default: Transaction deleted
	Message string `json:"message"`

	// Wallet balance after the transaction's effect is reversed
	// default: 800.0
	NewBalance float64 `json:"new_balance"`
}

// NewDeleteTransactionHandler returns an HTTP handler for deleting a transaction.
// @Summary Delete a transaction
// @Description Deletes one of the caller's transactions and reverses its effect on the wallet balance
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} handlers.DeleteTransactionResponse "Transaction deleted"
// @Failure 400 {object} handlers.TransactionsErrorResponse "Invalid transaction ID"
// @Failure 401 {object} handlers.TransactionsErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.TransactionsErrorResponse "Transaction belongs to another user"
// @Failure 404 {object} handlers.TransactionsErrorResponse "Transaction not found"
// @Failure 500 {object} handlers.TransactionsErrorResponse "Internal server error"
// @Router /transactions/{transactionID} [delete]
// @Security BearerAuth
func NewDeleteTransactionHandler(
	svc TransactionDeleter,
	tokenGetter AuthTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := claimsFromRequest(w, r, tokenGetter)
		if !ok {
			return
		}

		transactionID, err := uuid.Parse(chi.URLParam(r, "transactionID"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionsErrorResponse{
				Error: "Invalid transaction ID",
			})
			return
		}

		newBalance, err := svc.DeleteTransaction(ctx, claims.UserID, transactionID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTransactionNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{
					Error: "Transaction not found",
				})
			case errors.Is(err, services.ErrNotTransactionOwner):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{
					Error: "Transaction belongs to another user",
				})
			default:
				logger.Log.Errorw("failed to delete transaction",
					"userID", claims.UserID, "transactionID", transactionID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DeleteTransactionResponse{
			Message:    "Transaction deleted",
			NewBalance: newBalance,
		})
	}
}
