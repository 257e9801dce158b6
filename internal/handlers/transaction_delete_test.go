package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-finance-tracker/internal/jwt"
	"github.com/sbilibin2017/gw-finance-tracker/internal/services"
)

func TestDeleteTransactionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTokenGetter := NewMockAuthTokener(ctrl)
	mockDeleter := NewMockTransactionDeleter(ctrl)

	userID := uuid.New()
	transactionID := uuid.New()
	token := "valid-token"

	expectClaims := func() {
		mockTokenGetter.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
			Return(token, nil)
		mockTokenGetter.EXPECT().GetClaims(gomock.Any(), token).
			Return(&jwt.Claims{UserID: userID}, nil)
	}

	tests := []struct {
		name            string
		pathID          string
		setupMocks      func()
		expectedStatus  int
		expectedBalance float64
	}{
		{
			name:   "deletes a transaction",
			pathID: transactionID.String(),
			setupMocks: func() {
				expectClaims()
				mockDeleter.EXPECT().DeleteTransaction(gomock.Any(), userID, transactionID).
					Return(800.0, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedBalance: 800.0,
		},
		{
			name:   "invalid transaction id",
			pathID: "not-a-uuid",
			setupMocks: func() {
				expectClaims()
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "transaction not found",
			pathID: transactionID.String(),
			setupMocks: func() {
				expectClaims()
				mockDeleter.EXPECT().DeleteTransaction(gomock.Any(), userID, transactionID).
					Return(0.0, services.ErrTransactionNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "transaction owned by another user",
			pathID: transactionID.String(),
			setupMocks: func() {
				expectClaims()
				mockDeleter.EXPECT().DeleteTransaction(gomock.Any(), userID, transactionID).
					Return(0.0, services.ErrNotTransactionOwner)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "unauthorized missing token",
			pathID: transactionID.String(),
			setupMocks: func() {
				mockTokenGetter.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("no token"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "internal server error",
			pathID: transactionID.String(),
			setupMocks: func() {
				expectClaims()
				mockDeleter.EXPECT().DeleteTransaction(gomock.Any(), userID, transactionID).
					Return(0.0, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMocks()
			handler := NewDeleteTransactionHandler(mockDeleter, mockTokenGetter)

			req := httptest.NewRequest(http.MethodDelete, "/transactions/"+tt.pathID, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("transactionID", tt.pathID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp DeleteTransactionResponse
				err := json.Unmarshal(rr.Body.Bytes(), &resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBalance, resp.NewBalance)
			}
		})
	}
}
