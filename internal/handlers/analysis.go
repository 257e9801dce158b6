package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
)

// ChartRenderer defines the interface that the analytics service must implement.
type ChartRenderer interface {
	Charts(ctx context.Context, userID uuid.UUID) (pie, bar string, err error)
}

// AnalysisResponse represents rendered expense charts.
// Both fields are base64-encoded PNG images; they are empty strings when the
// caller has no expense transactions.
// swagger:model AnalysisResponse
type AnalysisResponse struct {
	// Base64-encoded PNG pie chart of expenses by category
	PieChart string `json:"pie_chart"`

	// Base64-encoded PNG bar chart of expenses by category
	BarChart string `json:"bar_chart"`
}

// AnalysisErrorResponse represents an error response for the analysis endpoint
// swagger:model AnalysisErrorResponse
type AnalysisErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewAnalysisHandler returns an HTTP handler for expense chart rendering.
// @Summary Expense analysis charts
// @Description Renders pie and bar charts of the caller's expenses grouped by category
// @Tags analysis
// @Produce json
// @Success 200 {object} handlers.AnalysisResponse "Rendered charts"
// @Failure 401 {object} handlers.AnalysisErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.AnalysisErrorResponse "Internal server error"
// @Router /analysis [get]
// @Security BearerAuth
func NewAnalysisHandler(
	svc ChartRenderer,
	tokenGetter AuthTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := claimsFromRequest(w, r, tokenGetter)
		if !ok {
			return
		}

		pie, bar, err := svc.Charts(ctx, claims.UserID)
		if err != nil {
			logger.Log.Errorw("failed to render charts", "userID", claims.UserID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(AnalysisErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(AnalysisResponse{
			PieChart: pie,
			BarChart: bar,
		})
	}
}
