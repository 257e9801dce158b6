package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-finance-tracker/internal/charts"
	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
	"github.com/sbilibin2017/gw-finance-tracker/internal/models"
)

// AnalyticsService aggregates the expense subset of a user's transactions
// by category and renders the two chart artifacts.
type AnalyticsService struct {
	reader TransactionReader
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(reader TransactionReader) *AnalyticsService {
	return &AnalyticsService{reader: reader}
}

// ExpenseTotalsByCategory sums expense amounts per category. Income
// transactions are excluded entirely.
func ExpenseTotalsByCategory(txns []models.TransactionDB) map[string]float64 {
	totals := make(map[string]float64)
	for _, t := range txns {
		if t.Type == models.TypeExpense {
			totals[t.Category] += t.Amount
		}
	}
	return totals
}

// Charts renders the pie and bar summaries for a user's expenses. When the
// user has no expense transactions both artifacts are empty strings.
func (s *AnalyticsService) Charts(ctx context.Context, userID uuid.UUID) (pie, bar string, err error) {
	txns, err := s.reader.List(ctx, userID, models.TransactionFilter{})
	if err != nil {
		logger.Log.Errorw("failed to list transactions for analysis", "userID", userID, "error", err)
		return "", "", err
	}

	totals := ExpenseTotalsByCategory(txns)

	pie, err = charts.RenderPie(totals)
	if err != nil {
		logger.Log.Errorw("failed to render pie chart", "userID", userID, "error", err)
		return "", "", err
	}

	bar, err = charts.RenderBar(totals)
	if err != nil {
		logger.Log.Errorw("failed to render bar chart", "userID", userID, "error", err)
		return "", "", err
	}

	return pie, bar, nil
}
