package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks thesis-chatbot/internal/vectorstore VectorStore

import "context"

// Document is one retrieved chunk of source text with its ingestion metadata.
type Document struct {
	ID         string
	Content    string
	Meta       map[string]any
	Similarity float32
}

// VectorStore performs similarity search over embedded document chunks.
// Results are ordered best match first.
type VectorStore interface {
	Search(ctx context.Context, embedding []float32, k int) ([]Document, error)
}
