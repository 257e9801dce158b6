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

// TransactionLister defines the interface that the transaction listing service must implement.
type TransactionLister interface {
	ListTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionDB, error)
}

// TransactionsListResponse represents a successful transaction list response
// swagger:model TransactionsListResponse
type TransactionsListResponse struct {
	// Matching transactions, in the requested order
	Transactions []models.TransactionDB `json:"transactions"`
}

// TransactionsErrorResponse represents an error response for transaction endpoints
// swagger:model TransactionsErrorResponse
type TransactionsErrorResponse struct {
	// Error message
	// default: Invalid sort key
	Error string `json:"error"`
}

// NewListTransactionsHandler returns an HTTP handler for listing transactions.
// @Summary List transactions
// @Description Returns the caller's transactions, filtered by search/type/category and sorted by the requested key
// @Tags transactions
// @Produce json
// @Param search query string false "Substring match against description"
// @Param type query string false "Transaction type filter" Enums(all, income, expense)
// @Param category query string false "Category filter, 'all' for no filter"
// @Param sort_by query string false "Sort key" Enums(timestamp, amount, category, type, description)
// @Param order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} handlers.TransactionsListResponse "Transactions"
// @Failure 400 {object} handlers.TransactionsErrorResponse "Invalid sort key"
// @Failure 401 {object} handlers.TransactionsErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.TransactionsErrorResponse "Internal server error"
// @Router /transactions [get]
// @Security BearerAuth
func NewListTransactionsHandler(
	svc TransactionLister,
	tokenGetter AuthTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := claimsFromRequest(w, r, tokenGetter)
		if !ok {
			return
		}

		q := r.URL.Query()
		filter := models.TransactionFilter{
			Search:   q.Get("search"),
			Type:     q.Get("type"),
			Category: q.Get("category"),
			SortBy:   q.Get("sort_by"),
			Order:    q.Get("order"),
		}

		txns, err := svc.ListTransactions(ctx, claims.UserID, filter)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidSortKey):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{
					Error: "Invalid sort key",
				})
			default:
				logger.Log.Errorw("failed to list transactions", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransactionsErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TransactionsListResponse{
			Transactions: txns,
		})
	}
}
