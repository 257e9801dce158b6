package facades

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQAHTTPFacade_Answer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Question string `json:"question"`
			Context  string `json:"context"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "how much did I spend on food?", req.Question)
		assert.Contains(t, req.Context, "expense - 200.00 - food")

		json.NewEncoder(w).Encode(map[string]string{"answer": "200.00"})
	}))
	defer srv.Close()

	facade := NewQAHTTPFacade(srv.URL, 5*time.Second)

	answer, err := facade.Answer(context.Background(),
		"how much did I spend on food?",
		"income - 1000.00 - salary - monthly\nexpense - 200.00 - food - groceries")
	assert.NoError(t, err)
	assert.Equal(t, "200.00", answer)
}

func TestQAHTTPFacade_Answer_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	facade := NewQAHTTPFacade(srv.URL, 5*time.Second)

	_, err := facade.Answer(context.Background(), "question", "context")
	assert.ErrorIs(t, err, ErrInference)
}

func TestQAHTTPFacade_Answer_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	facade := NewQAHTTPFacade(srv.URL, 5*time.Second)

	_, err := facade.Answer(context.Background(), "question", "context")
	assert.ErrorIs(t, err, ErrInference)
}

func TestQAHTTPFacade_Answer_ServiceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	facade := NewQAHTTPFacade(srv.URL, time.Second)

	_, err := facade.Answer(context.Background(), "question", "context")
	assert.ErrorIs(t, err, ErrInference)
}

func TestQAHTTPFacade_Answer_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"answer": "late"})
	}))
	defer srv.Close()

	facade := NewQAHTTPFacade(srv.URL, 50*time.Millisecond)

	_, err := facade.Answer(context.Background(), "question", "context")
	assert.ErrorIs(t, err, ErrInference)
}
