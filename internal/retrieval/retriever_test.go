package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"thesis-chatbot/internal/retrieval"
	"thesis-chatbot/internal/retrieval/mocks"
	"thesis-chatbot/internal/vectorstore"
)

var testPolicy = retrieval.Policy{SearchK: 15, TotalK: 8, PrimaryRatio: 0.75}

func thesisDoc(id, content string) vectorstore.Document {
	return vectorstore.Document{
		ID:      id,
		Content: content,
		Meta:    map[string]any{"source": "thesis", "is_thesis": true},
	}
}

func paperDoc(id, content string) vectorstore.Document {
	return vectorstore.Document{
		ID:      id,
		Content: content,
		Meta:    map[string]any{"source": "paper.pdf"},
	}
}

func TestRetrieve_ClassifiesAndSelects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := mocks.NewMockEmbedder(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	query := "what is the decoherence model"
	embedding := []float32{0.1, 0.2, 0.3}

	embedder.EXPECT().EmbedQuery(gomock.Any(), query).Return(embedding, nil)
	searcher.EXPECT().Search(gomock.Any(), embedding, 15).Return([]vectorstore.Document{
		paperDoc("s0", "supporting a"),
		thesisDoc("p0", "thesis a"),
		paperDoc("s1", "supporting b"),
		thesisDoc("p1", "thesis b"),
	}, nil)

	r := retrieval.NewRetriever(embedder, searcher, testPolicy, "thesis")
	got, err := r.Retrieve(context.Background(), query)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}

	// 2 primary available (target 6), then secondary fill: p0, p1, s0, s1.
	wantIDs := []string{"p0", "p1", "s0", "s1"}
	if len(got) != len(wantIDs) {
		t.Fatalf("Retrieve() returned %d chunks, want %d", len(got), len(wantIDs))
	}
	for i, c := range got {
		if c.ID != wantIDs[i] {
			t.Errorf("position %d: got %s, want %s", i, c.ID, wantIDs[i])
		}
	}
	if !got[0].Primary || got[2].Primary {
		t.Error("Retrieve() misclassified chunk authority")
	}
	if got[2].Source != "paper.pdf" {
		t.Errorf("Retrieve() source = %q, want %q", got[2].Source, "paper.pdf")
	}
}

func TestRetrieve_DeduplicatesByIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := mocks.NewMockEmbedder(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	embedder.EXPECT().EmbedQuery(gomock.Any(), gomock.Any()).Return([]float32{1}, nil)
	searcher.EXPECT().Search(gomock.Any(), gomock.Any(), 15).Return([]vectorstore.Document{
		thesisDoc("p0", "thesis a"),
		thesisDoc("p0", "thesis a"),
		paperDoc("s0", "supporting a"),
	}, nil)

	r := retrieval.NewRetriever(embedder, searcher, testPolicy, "thesis")
	got, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Retrieve() returned %d chunks, want 2 after dedupe", len(got))
	}
}

func TestRetrieve_EmptyResultsAreNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := mocks.NewMockEmbedder(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	embedder.EXPECT().EmbedQuery(gomock.Any(), gomock.Any()).Return([]float32{1}, nil)
	searcher.EXPECT().Search(gomock.Any(), gomock.Any(), 15).Return(nil, nil)

	r := retrieval.NewRetriever(embedder, searcher, testPolicy, "thesis")
	got, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Retrieve() returned %d chunks, want 0", len(got))
	}
}

func TestRetrieve_EmbedFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := mocks.NewMockEmbedder(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	embedder.EXPECT().EmbedQuery(gomock.Any(), gomock.Any()).Return(nil, errors.New("provider down"))

	r := retrieval.NewRetriever(embedder, searcher, testPolicy, "thesis")
	if _, err := r.Retrieve(context.Background(), "q"); err == nil {
		t.Error("Retrieve() should propagate embedding failure")
	}
}

func TestRetrieve_SearchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := mocks.NewMockEmbedder(ctrl)
	searcher := mocks.NewMockSearcher(ctrl)

	embedder.EXPECT().EmbedQuery(gomock.Any(), gomock.Any()).Return([]float32{1}, nil)
	searcher.EXPECT().Search(gomock.Any(), gomock.Any(), 15).Return(nil, errors.New("store unreachable"))

	r := retrieval.NewRetriever(embedder, searcher, testPolicy, "thesis")
	if _, err := r.Retrieve(context.Background(), "q"); err == nil {
		t.Error("Retrieve() should propagate search failure")
	}
}
