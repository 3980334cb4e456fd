package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"thesis-chatbot/internal/contextutil"
)

// rowQuerier is the subset of pgxpool.Pool used by the store.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGVectorStore implements VectorStore over a Postgres table with a pgvector
// embedding column. The table is populated by the external ingestion job;
// this store only reads it.
type PGVectorStore struct {
	db         rowQuerier
	collection string
}

// NewPGVectorStore creates a store scoped to one document collection.
func NewPGVectorStore(db rowQuerier, collection string) *PGVectorStore {
	return &PGVectorStore{db: db, collection: collection}
}

// Search returns the k nearest chunks by cosine distance, best match first.
func (s *PGVectorStore) Search(ctx context.Context, embedding []float32, k int) ([]Document, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("empty query embedding")
	}

	vec := pgvector.NewVector(embedding)
	rows, err := s.db.Query(ctx,
		`SELECT id, content, metadata, 1 - (embedding <=> $1) AS similarity
		 FROM document_chunks
		 WHERE collection = $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		vec, s.collection, k,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			doc     Document
			rawMeta []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &rawMeta, &doc.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		doc.Meta = parseMeta(rawMeta)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	logger.DebugContext(ctx, "similarity search completed",
		"collection", s.collection, "k", k, "results", len(docs))
	return docs, nil
}

// parseMeta decodes a JSONB metadata payload, tolerating absent or
// malformed metadata by returning an empty map.
func parseMeta(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil || meta == nil {
		return map[string]any{}
	}
	return meta
}
