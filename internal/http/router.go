package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"thesis-chatbot/internal/handlers"
	"thesis-chatbot/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService service.ChatService
	CORSOrigins []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS(deps.CORSOrigins))

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	historyHandler := handlers.NewHistoryHandler(deps.ChatService)
	healthHandler := handlers.NewHealthHandler()
	checkDocsHandler := handlers.NewCheckDocsHandler(deps.ChatService)

	r.Method(http.MethodPost, "/chat", chatHandler)
	r.Method(http.MethodGet, "/chat/history/{session_id}", historyHandler)
	r.Method(http.MethodGet, "/health", healthHandler)
	r.Method(http.MethodGet, "/debug/check-docs", checkDocsHandler)

	return r
}
