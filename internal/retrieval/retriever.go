package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"thesis-chatbot/internal/contextutil"
	"thesis-chatbot/internal/vectorstore"
)

// Embedder turns query text into a vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Searcher is the similarity-search capability the retriever consumes.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, k int) ([]vectorstore.Document, error)
}

// Retriever runs the retrieval pipeline for one query: embed, search,
// classify by source authority, then apply quota-based selection.
type Retriever struct {
	embedder      Embedder
	store         Searcher
	policy        Policy
	primarySource string
}

// NewRetriever creates a Retriever. The policy must already be validated.
func NewRetriever(embedder Embedder, store Searcher, policy Policy, primarySource string) *Retriever {
	return &Retriever{
		embedder:      embedder,
		store:         store,
		policy:        policy,
		primarySource: primarySource,
	}
}

// Retrieve returns the selected context chunks for a standalone query,
// ordered primary-then-secondary, each partition in similarity rank order.
// Fewer than TotalK results (including zero) is not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	docs, err := r.store.Search(ctx, embedding, r.policy.SearchK)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	// Dedupe by identity while preserving similarity rank.
	seen := make(map[string]bool, len(docs))
	candidates := make([]Chunk, 0, len(docs))
	for _, doc := range docs {
		if doc.ID != "" && seen[doc.ID] {
			continue
		}
		seen[doc.ID] = true
		candidates = append(candidates, Chunk{
			ID:      doc.ID,
			Content: doc.Content,
			Source:  SourceName(doc.Meta),
			Primary: IsPrimary(doc.Meta, r.primarySource),
		})
	}

	selected := SelectChunks(candidates, r.policy)

	logger.InfoContext(ctx, "retrieval completed",
		"candidates", len(candidates),
		"selected", len(selected),
		"primary_selected", countPrimary(selected),
		slog.Int("total_k", r.policy.TotalK),
	)
	return selected, nil
}

func countPrimary(chunks []Chunk) int {
	var n int
	for _, c := range chunks {
		if c.Primary {
			n++
		}
	}
	return n
}
