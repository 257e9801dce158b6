package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sbilibin2017/gw-finance-tracker/internal/logger"
)

// ErrInference is returned when the question-answering service fails:
// unreachable, non-200 response, or a malformed reply.
var ErrInference = errors.New("inference failed")

// QAHTTPFacade calls an external extractive question-answering service
// over HTTP. The model selects an answer span from the supplied context
// text; it never generates new text.
type QAHTTPFacade struct {
	client *http.Client
	url    string
}

// NewQAHTTPFacade creates a new facade for the QA service at url.
// The timeout bounds the whole inference call so a hanging model server
// cannot block a request indefinitely.
func NewQAHTTPFacade(url string, timeout time.Duration) *QAHTTPFacade {
	return &QAHTTPFacade{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

type qaRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaResponse struct {
	Answer string `json:"answer"`
}

// Answer sends (question, context) to the QA service and returns the
// extracted answer span verbatim.
func (f *QAHTTPFacade) Answer(ctx context.Context, question, contextText string) (string, error) {
	body, err := json.Marshal(qaRequest{Question: question, Context: contextText})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Errorw("QA service request failed", "url", f.url, "error", err)
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Errorw("QA service returned non-OK status", "url", f.url, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: unexpected status %d", ErrInference, resp.StatusCode)
	}

	var qaResp qaResponse
	if err := json.NewDecoder(resp.Body).Decode(&qaResp); err != nil {
		logger.Log.Errorw("failed to decode QA service response", "url", f.url, "error", err)
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}

	return qaResp.Answer, nil
}
