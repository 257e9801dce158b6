package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-finance-tracker/internal/jwt"
	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
)

// AuthTokener defines the token operations needed by authenticated handlers.
type AuthTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// claimsFromRequest extracts token claims from the request, writing a 401
// response when the token is missing or invalid.
func claimsFromRequest(w http.ResponseWriter, r *http.Request, tokenGetter AuthTokener) (*jwt.Claims, bool) {
	ctx := r.Context()

	token, err := tokenGetter.GetTokenFromRequest(ctx, r)
	if err != nil {
		logger.Log.Errorw("failed to get token from request", "error", err)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
		return nil, false
	}

	claims, err := tokenGetter.GetClaims(ctx, token)
	if err != nil {
		logger.Log.Errorw("failed to parse token claims", "error", err)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
		return nil, false
	}

	return claims, true
}
