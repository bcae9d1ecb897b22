package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/periplo/periplo/internal/chat"
	"github.com/periplo/periplo/internal/log"
)

// ChatService is the request pipeline the chat handler drives.
type ChatService interface {
	Handle(ctx context.Context, category, query string) (*chat.Result, error)
}

// ChatRequest is the inbound wire format for POST /chat.
//
// The user's text travels in "query". Earlier client/server pairings
// disagreed between "query" and "userQuery"; "query" is the canonical
// field and "userQuery" is not accepted (see DESIGN.md).
type ChatRequest struct {
	Category string `json:"category"`
	Query    string `json:"query"`
}

// ChatResponse is the outbound wire format. Sources is always present,
// empty on errors.
type ChatResponse struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Source is a titled link attached to the response.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// User-facing messages for the two error classes. Every failure produces a
// well-formed ChatResponse; raw stack traces never reach the client.
const (
	invalidInputMessage = "Invalid input. Please refine your request."
	serverErrorFormat   = "I'm sorry, I had a problem processing that request. (Error: %v)"
)

// ChatHandler handles the POST /chat endpoint.
type ChatHandler struct {
	svc    ChatService
	logger log.Logger
}

// NewChatHandler creates a chat handler backed by the given pipeline.
func NewChatHandler(svc ChatService, logger log.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /chat", h.handleChat)
}

func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("malformed request body", "error", err)
		writeJSON(w, http.StatusBadRequest, ChatResponse{
			Text:    invalidInputMessage,
			Sources: []Source{},
		})
		return
	}

	h.logger.Info("chat request received", "category", req.Category)

	result, err := h.svc.Handle(r.Context(), req.Category, req.Query)
	if err != nil {
		if errors.Is(err, chat.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, ChatResponse{
				Text:    invalidInputMessage,
				Sources: []Source{},
			})
			return
		}
		h.logger.Error("chat pipeline failed", "category", req.Category, "error", err)
		writeJSON(w, http.StatusInternalServerError, ChatResponse{
			Text:    fmt.Sprintf(serverErrorFormat, err),
			Sources: []Source{},
		})
		return
	}

	sources := make([]Source, 0, len(result.Sources))
	for _, s := range result.Sources {
		sources = append(sources, Source{Title: s.Title, URI: s.URI})
	}
	writeJSON(w, http.StatusOK, ChatResponse{Text: result.Text, Sources: sources})
}
