package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_deps.go -package=mocks thesis-chatbot/internal/service HistoryStore,Retriever,Generator,Contextualizer,ChatService

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"thesis-chatbot/internal/contextutil"
	"thesis-chatbot/internal/llm"
	"thesis-chatbot/internal/retrieval"
)

// HistoryStore is the per-session transcript the service reads before
// generation and appends to after each completed exchange.
type HistoryStore interface {
	Load(ctx context.Context, sessionID uuid.UUID) ([]llm.Message, error)
	Append(ctx context.Context, sessionID uuid.UUID, msg llm.Message) error
}

// Retriever produces the selected context chunks for a standalone query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]retrieval.Chunk, error)
}

// Generator is the generation capability the service consumes.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (string, error)
	GenerateStream(ctx context.Context, req llm.GenerateRequest, callback func(chunk string) error) error
}

// Contextualizer rewrites follow-up questions into standalone queries.
type Contextualizer interface {
	Contextualize(ctx context.Context, question string, history []llm.Message) (string, error)
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message   string
	SessionID string
}

// CheckDocsResult reports whether a probe similarity search found documents.
type CheckDocsResult struct {
	DocumentsFound  bool
	SampleDocLength int
}

// ChatService provides the RAG chat functionality.
type ChatService interface {
	// StreamChat answers a question, forwarding each generated text
	// increment to callback as soon as it is available, and persists the
	// completed exchange to the session history.
	StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) error
	// History returns the transcript for a session.
	History(ctx context.Context, sessionID string) ([]llm.Message, error)
	// CheckDocs runs one probe similarity search against the vector store.
	CheckDocs(ctx context.Context) (CheckDocsResult, error)
}

// appendTimeout bounds the post-stream history writes, which run on a
// context detached from the (possibly disconnected) request.
const appendTimeout = 10 * time.Second

// checkDocsQuery is the fixed probe used by CheckDocs.
const checkDocsQuery = "quantum computing"

// chatService implements ChatService.
type chatService struct {
	history        HistoryStore
	contextualizer Contextualizer
	retriever      Retriever
	llm            Generator

	// sessions serializes concurrent exchanges on the same session so a
	// later request observes the appends of earlier completed ones.
	sessions sync.Map // uuid.UUID -> *sync.Mutex
}

// NewChatService creates a new ChatService.
func NewChatService(history HistoryStore, contextualizer Contextualizer, retriever Retriever, generator Generator) ChatService {
	return &chatService{
		history:        history,
		contextualizer: contextualizer,
		retriever:      retriever,
		llm:            generator,
	}
}

func (s *chatService) sessionLock(id uuid.UUID) *sync.Mutex {
	lock, _ := s.sessions.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// StreamChat runs the full pipeline for one exchange: load history,
// contextualize, retrieve, format, generate (streaming), persist.
func (s *chatService) StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) error {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Message) == "" {
		return &ValidationError{Field: "message", Message: "cannot be empty"}
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return &ValidationError{Field: "session_id", Message: "must be a valid UUID"}
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.history.Load(ctx, sessionID)
	if err != nil {
		return External(fmt.Errorf("failed to load session history: %w", err))
	}

	// Contextualization strictly precedes retrieval: the rewritten text is
	// retrieval's query input.
	standalone, err := s.contextualizer.Contextualize(ctx, req.Message, history)
	if err != nil {
		return External(err)
	}

	chunks, err := s.retriever.Retrieve(ctx, standalone)
	if err != nil {
		return External(err)
	}
	contextText := retrieval.FormatContext(chunks)

	logger.InfoContext(ctx, "generating answer",
		"session_id", sessionID,
		"history_turns", len(history),
		"chunks", len(chunks),
		"context_length", len(contextText),
	)

	var answer strings.Builder
	err = s.llm.GenerateStream(ctx, llm.GenerateRequest{
		System:      answerInstruction,
		History:     history,
		Prompt:      fmt.Sprintf("Context: %s\n\nQuestion: %s", contextText, req.Message),
		Temperature: answerTemperature,
	}, func(chunk string) error {
		answer.WriteString(chunk)
		return callback(chunk)
	})
	if err != nil {
		return External(fmt.Errorf("generation failed: %w", err))
	}

	// The caller already has the full answer; persistence failures are
	// reported but do not fail the exchange. Detached context: the client
	// may have disconnected right after the last increment.
	appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), appendTimeout)
	defer cancel()

	if err := s.history.Append(appendCtx, sessionID, llm.Message{Role: llm.RoleUser, Content: req.Message}); err != nil {
		logger.ErrorContext(ctx, "failed to persist user turn", "session_id", sessionID, "error", err)
		return nil
	}
	if err := s.history.Append(appendCtx, sessionID, llm.Message{Role: llm.RoleAssistant, Content: answer.String()}); err != nil {
		logger.ErrorContext(ctx, "failed to persist assistant turn", "session_id", sessionID, "error", err)
	}

	return nil
}

// History returns the transcript for a session in chronological order.
func (s *chatService) History(ctx context.Context, sessionID string) ([]llm.Message, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, &ValidationError{Field: "session_id", Message: "must be a valid UUID"}
	}

	messages, err := s.history.Load(ctx, id)
	if err != nil {
		return nil, External(fmt.Errorf("failed to load session history: %w", err))
	}
	return messages, nil
}

// CheckDocs runs one similarity search through the full retrieval pipeline
// and reports whether any documents came back.
func (s *chatService) CheckDocs(ctx context.Context) (CheckDocsResult, error) {
	chunks, err := s.retriever.Retrieve(ctx, checkDocsQuery)
	if err != nil {
		return CheckDocsResult{}, External(err)
	}

	result := CheckDocsResult{DocumentsFound: len(chunks) > 0}
	if len(chunks) > 0 {
		result.SampleDocLength = len(chunks[0].Content)
	}
	return result, nil
}
