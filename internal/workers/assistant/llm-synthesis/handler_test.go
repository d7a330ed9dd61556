// internal/workers/assistant/llm-synthesis/handler_test.go
package llmsynthesis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shubharambh-workers/internal/models"
)

// TestLogger implements the Logger interface for testing
type TestLogger struct {
	t *testing.T
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{t: t}
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	return l
}

func newHandlerFor(t *testing.T, serverURL string, timeout time.Duration) *Handler {
	cfg := LoadConfig()
	cfg.GenAIBaseURL = serverURL
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return NewHandler(cfg, NewTestLogger(t))
}

func TestExecute_Success(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPrompt, _ = body["prompt"].(string)
		json.NewEncoder(w).Encode(map[string]string{"text": "  We have 3 great venues in Hyderabad.  "})
	}))
	defer server.Close()

	h := newHandlerFor(t, server.URL, 0)
	output, err := h.Execute(context.Background(), &Input{
		Question: "venues in Hyderabad?",
		Context:  "Shubharambh catalog: 120 listings",
		History: []models.ChatTurn{
			{Role: models.RoleUser, Content: "hi"},
			{Role: models.RoleAssistant, Content: "hello"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "We have 3 great venues in Hyderabad.", output.Reply)
	assert.Contains(t, gotPrompt, "Shubharambh catalog: 120 listings")
	assert.Contains(t, gotPrompt, "venues in Hyderabad?")
	assert.Contains(t, gotPrompt, "user: hi")
}

func TestExecute_EmptyTextIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "   "})
	}))
	defer server.Close()

	h := newHandlerFor(t, server.URL, 0)
	_, err := h.Execute(context.Background(), &Input{Question: "hi", Context: "ctx"})

	assert.ErrorIs(t, err, ErrLLMSynthesisFailed)
}

func TestExecute_NonOKStatusNoRetry(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	h := newHandlerFor(t, server.URL, 0)
	_, err := h.Execute(context.Background(), &Input{Question: "hi", Context: "ctx"})

	assert.ErrorIs(t, err, ErrLLMSynthesisFailed)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls), "a failed call is not retried")
}

func TestExecute_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	h := newHandlerFor(t, server.URL, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := h.Execute(ctx, &Input{Question: "hi", Context: "ctx"})

	assert.ErrorIs(t, err, ErrLLMTimeout)
}

func TestExecute_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	h := newHandlerFor(t, server.URL, 0)
	_, err := h.Execute(context.Background(), &Input{Question: "hi", Context: "ctx"})

	assert.ErrorIs(t, err, ErrLLMSynthesisFailed)
}
