package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-finance-tracker/internal/services"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoginer := NewMockLoginer(ctrl)

	tests := []struct {
		name           string
		body           string
		setupMocks     func()
		expectedStatus int
		expectedToken  string
	}{
		{
			name: "successful login",
			body: `{"email":"john@example.com","password":"secret123"}`,
			setupMocks: func() {
				mockLoginer.EXPECT().Login(gomock.Any(), "john@example.com", "secret123").
					Return("jwt-token", nil)
			},
			expectedStatus: http.StatusOK,
			expectedToken:  "jwt-token",
		},
		{
			name:           "invalid request body",
			body:           `{not json`,
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "wrong password",
			body: `{"email":"john@example.com","password":"wrong"}`,
			setupMocks: func() {
				mockLoginer.EXPECT().Login(gomock.Any(), "john@example.com", "wrong").
					Return("", services.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			body: `{"email":"nobody@example.com","password":"secret123"}`,
			setupMocks: func() {
				mockLoginer.EXPECT().Login(gomock.Any(), "nobody@example.com", "secret123").
					Return("", services.ErrUserDoesNotExist)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "internal server error",
			body: `{"email":"john@example.com","password":"secret123"}`,
			setupMocks: func() {
				mockLoginer.EXPECT().Login(gomock.Any(), "john@example.com", "secret123").
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMocks()
			handler := NewLoginHandler(mockLoginer)

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedToken != "" {
				var resp LoginResponse
				err := json.Unmarshal(rr.Body.Bytes(), &resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedToken, resp.Token)
			}
		})
	}
}
