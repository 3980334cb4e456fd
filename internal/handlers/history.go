package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"thesis-chatbot/internal/contextutil"
	"thesis-chatbot/internal/llm"
	"thesis-chatbot/internal/service"
)

// HistoryHandler handles HTTP requests for session transcripts.
type HistoryHandler struct {
	chatService service.ChatService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(chatService service.ChatService) *HistoryHandler {
	return &HistoryHandler{chatService: chatService}
}

// HistoryResponse represents the transcript of one chat session.
type HistoryResponse struct {
	Messages []llm.Message `json:"messages"`
	Error    string        `json:"error,omitempty"`
}

// ServeHTTP handles GET /chat/history/{session_id}.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	sessionID := chi.URLParam(r, "session_id")

	messages, err := h.chatService.History(ctx, sessionID)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			logger.WarnContext(ctx, "rejected history request", "error", err)
			writeError(w, http.StatusBadRequest, validationErr.Error())
			return
		}

		// Storage trouble degrades to an empty transcript so a fresh
		// session can still load the UI.
		logger.ErrorContext(ctx, "failed to load chat history", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusOK, HistoryResponse{
			Messages: []llm.Message{},
			Error:    "failed to load history",
		})
		return
	}

	if messages == nil {
		messages = []llm.Message{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Messages: messages})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
