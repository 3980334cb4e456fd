package handlers

import (
	"net/http"

	"thesis-chatbot/internal/contextutil"
	"thesis-chatbot/internal/service"
)

// CheckDocsHandler handles the document-availability diagnostic endpoint.
type CheckDocsHandler struct {
	chatService service.ChatService
}

// NewCheckDocsHandler creates a new CheckDocsHandler.
func NewCheckDocsHandler(chatService service.ChatService) *CheckDocsHandler {
	return &CheckDocsHandler{chatService: chatService}
}

// CheckDocsResponse reports whether the vector store returns documents
// for a probe query.
type CheckDocsResponse struct {
	Status          string `json:"status"`
	DocumentsFound  bool   `json:"documents_found"`
	SampleDocLength int    `json:"sample_doc_length"`
	Error           string `json:"error,omitempty"`
}

// ServeHTTP handles GET /debug/check-docs.
func (h *CheckDocsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	result, err := h.chatService.CheckDocs(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "document check failed", "error", err)
		writeJSON(w, http.StatusOK, CheckDocsResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, CheckDocsResponse{
		Status:          "ok",
		DocumentsFound:  result.DocumentsFound,
		SampleDocLength: result.SampleDocLength,
	})
}
