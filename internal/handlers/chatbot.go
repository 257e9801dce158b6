package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
)

// Asker defines the interface that the chat service must implement.
type Asker interface {
	Ask(ctx context.Context, userID uuid.UUID, message string) (string, error)
}

// ChatRequest represents the JSON body for a chatbot question
// swagger:model ChatRequest
type ChatRequest struct {
	// Natural-language question about the caller's transaction history
	// required: true
	// default: How much did I spend on groceries?
	Message string `json:"message"`
}

// ChatResponse represents a chatbot reply
// swagger:model ChatResponse
type ChatResponse struct {
	// Generated answer, or an error description when inference failed
	// default: You spent 42.50 on groceries.
	Reply string `json:"reply"`
}

// ChatErrorResponse represents an error response for the chatbot endpoint
// swagger:model ChatErrorResponse
type ChatErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewChatHandler returns an HTTP handler for the transaction-history chatbot.
// @Summary Ask the chatbot
// @Description Answers a natural-language question about the caller's transaction history. Inference failures are reported inside the reply, not as HTTP errors.
// @Tags chatbot
// @Accept json
// @Produce json
// @Param chatRequest body handlers.ChatRequest true "Question"
// @Success 200 {object} handlers.ChatResponse "Reply"
// @Failure 400 {object} handlers.ChatErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ChatErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ChatErrorResponse "Internal server error"
// @Router /chatbot [post]
// @Security BearerAuth
func NewChatHandler(
	svc Asker,
	tokenGetter AuthTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := claimsFromRequest(w, r, tokenGetter)
		if !ok {
			return
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ChatErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		reply, err := svc.Ask(ctx, claims.UserID, req.Message)
		if err != nil {
			logger.Log.Errorw("failed to answer chat message", "userID", claims.UserID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ChatErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ChatResponse{
			Reply: reply,
		})
	}
}
