package retrieval

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_deps.go -package=mocks thesis-chatbot/internal/retrieval Generator,Embedder,Searcher

import (
	"context"
	"fmt"
	"strings"

	"thesis-chatbot/internal/contextutil"
	"thesis-chatbot/internal/llm"
)

// contextualizeInstruction asks the model to rewrite a follow-up question
// into standalone form without answering it.
const contextualizeInstruction = "Given a chat history and the latest user question " +
	"which might reference context in the chat history, " +
	"formulate a standalone question which can be understood " +
	"without the chat history. Do NOT answer the question, " +
	"just reformulate it if needed and otherwise return it as is."

// historyWindow bounds how many recent turns are sent to the rewrite call.
const historyWindow = 6

// Generator is the generation capability the contextualizer consumes.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (string, error)
}

// Contextualizer conditionally rewrites the latest user question into a
// standalone query using recent conversation history, so retrieval does not
// depend on pronoun resolution.
type Contextualizer struct {
	llm       Generator
	threshold int
}

// NewContextualizer creates a Contextualizer. Histories with at most
// threshold turns skip the rewrite call entirely.
func NewContextualizer(g Generator, threshold int) *Contextualizer {
	return &Contextualizer{llm: g, threshold: threshold}
}

// Contextualize returns a standalone form of question. Short histories
// return the question unchanged (a latency optimization: they rarely carry
// referential ambiguity). A rewrite failure fails the whole request, never
// silently falling back to the raw question.
func (c *Contextualizer) Contextualize(ctx context.Context, question string, history []llm.Message) (string, error) {
	if len(history) <= c.threshold {
		return question, nil
	}

	logger := contextutil.LoggerFromContext(ctx)

	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	rewritten, err := c.llm.Generate(ctx, llm.GenerateRequest{
		System:  contextualizeInstruction,
		History: recent,
		Prompt:  question,
	})
	if err != nil {
		return "", fmt.Errorf("failed to contextualize question: %w", err)
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return "", fmt.Errorf("empty rewrite for question")
	}

	logger.DebugContext(ctx, "question contextualized",
		"original", question, "rewritten", rewritten, "history_turns", len(history))
	return rewritten, nil
}
