package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/periplo/periplo/internal/chat"
	"github.com/periplo/periplo/internal/log"
)

// stubService implements ChatService for handler tests.
type stubService struct {
	result *chat.Result
	err    error

	gotCategory string
	gotQuery    string
}

func (s *stubService) Handle(_ context.Context, category, query string) (*chat.Result, error) {
	s.gotCategory = category
	s.gotQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeChatResponse(t *testing.T, w *httptest.ResponseRecorder) ChatResponse {
	t.Helper()
	var resp ChatResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestChatHandler(t *testing.T) {
	t.Parallel()

	t.Run("success returns text and sources", func(t *testing.T) {
		t.Parallel()

		svc := &stubService{result: &chat.Result{
			Text: "Taverna X is great",
			Sources: []chat.Source{
				{Title: "Taverna X - Website", URI: "https://tavernax.example"},
			},
		}}
		h := NewChatHandler(svc, log.NewNop())

		w := postChat(t, h, `{"category":"food","query":"Where can I eat?"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, "food", svc.gotCategory)
		assert.Equal(t, "Where can I eat?", svc.gotQuery)

		resp := decodeChatResponse(t, w)
		assert.Equal(t, "Taverna X is great", resp.Text)
		assert.Equal(t, []Source{
			{Title: "Taverna X - Website", URI: "https://tavernax.example"},
		}, resp.Sources)
	})

	t.Run("sources serialize as empty array, not null", func(t *testing.T) {
		t.Parallel()

		svc := &stubService{result: &chat.Result{Text: "hi", Sources: []chat.Source{}}}
		h := NewChatHandler(svc, log.NewNop())

		w := postChat(t, h, `{"category":"food","query":"hello"}`)

		assert.Contains(t, w.Body.String(), `"sources":[]`)
	})

	t.Run("invalid input maps to 400 with fixed message", func(t *testing.T) {
		t.Parallel()

		svc := &stubService{err: fmt.Errorf("%w: bad category", chat.ErrInvalidInput)}
		h := NewChatHandler(svc, log.NewNop())

		w := postChat(t, h, `{"category":"../etc","query":"hi"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeChatResponse(t, w)
		assert.Equal(t, "Invalid input. Please refine your request.", resp.Text)
		assert.Empty(t, resp.Sources)
		assert.NotNil(t, resp.Sources)
	})

	t.Run("malformed JSON body maps to 400", func(t *testing.T) {
		t.Parallel()

		h := NewChatHandler(&stubService{}, log.NewNop())
		w := postChat(t, h, `not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeChatResponse(t, w)
		assert.Equal(t, "Invalid input. Please refine your request.", resp.Text)
	})

	t.Run("pipeline failure maps to 500 with cause", func(t *testing.T) {
		t.Parallel()

		svc := &stubService{err: errors.New("loading category \"food\": file vanished")}
		h := NewChatHandler(svc, log.NewNop())

		w := postChat(t, h, `{"category":"food","query":"hi"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeChatResponse(t, w)
		assert.Contains(t, resp.Text, "I'm sorry, I had a problem processing that request.")
		assert.Contains(t, resp.Text, "file vanished")
		assert.Empty(t, resp.Sources)
	})

	t.Run("userQuery field is not accepted", func(t *testing.T) {
		t.Parallel()

		svc := &stubService{err: fmt.Errorf("%w: empty query", chat.ErrInvalidInput)}
		h := NewChatHandler(svc, log.NewNop())

		w := postChat(t, h, `{"category":"food","userQuery":"Where can I eat?"}`)

		// The legacy field is ignored, so the pipeline sees an empty query.
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "", svc.gotQuery)
	})

	t.Run("GET method not allowed", func(t *testing.T) {
		t.Parallel()

		h := NewChatHandler(&stubService{}, log.NewNop())
		mux := http.NewServeMux()
		h.RegisterRoutes(mux)

		req := httptest.NewRequest(http.MethodGet, "/chat", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("oversized body still yields a well-formed response", func(t *testing.T) {
		t.Parallel()

		svc := &stubService{err: fmt.Errorf("%w: query exceeds limit", chat.ErrInvalidInput)}
		h := NewChatHandler(svc, log.NewNop())

		var buf bytes.Buffer
		buf.WriteString(`{"category":"food","query":"`)
		buf.WriteString(strings.Repeat("a", 2000))
		buf.WriteString(`"}`)

		w := postChat(t, h, buf.String())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
