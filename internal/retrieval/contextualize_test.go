package retrieval_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/mock/gomock"

	"thesis-chatbot/internal/llm"
	"thesis-chatbot/internal/retrieval"
	"thesis-chatbot/internal/retrieval/mocks"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func history(n int) []llm.Message {
	msgs := make([]llm.Message, 0, n)
	for i := 0; i < n; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: "turn"})
	}
	return msgs
}

func TestContextualize_IdentityBelowThreshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockGenerator(ctrl)
	// No Generate calls expected.
	c := retrieval.NewContextualizer(mockLLM, 2)

	for _, turns := range []int{0, 1, 2} {
		got, err := c.Contextualize(context.Background(), "What is a qubit?", history(turns))
		if err != nil {
			t.Fatalf("Contextualize() with %d turns: unexpected error %v", turns, err)
		}
		if got != "What is a qubit?" {
			t.Errorf("Contextualize() with %d turns = %q, want identity", turns, got)
		}
	}
}

func TestContextualize_RewritesAboveThreshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockGenerator(ctrl)
	mockLLM.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.GenerateRequest) (string, error) {
			if req.System == "" {
				t.Error("rewrite call missing its instruction")
			}
			if req.Prompt != "How does it scale?" {
				t.Errorf("rewrite prompt = %q", req.Prompt)
			}
			return "How does the surface code scale?\n", nil
		})

	c := retrieval.NewContextualizer(mockLLM, 2)
	got, err := c.Contextualize(context.Background(), "How does it scale?", history(3))
	if err != nil {
		t.Fatalf("Contextualize() unexpected error: %v", err)
	}
	if got != "How does the surface code scale?" {
		t.Errorf("Contextualize() = %q", got)
	}
	if got == "How does it scale?" {
		t.Error("Contextualize() should have produced a rewritten question")
	}
}

func TestContextualize_BoundsHistoryWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockGenerator(ctrl)
	mockLLM.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.GenerateRequest) (string, error) {
			if len(req.History) > 6 {
				t.Errorf("rewrite call sent %d turns, window is 6", len(req.History))
			}
			return "standalone question", nil
		})

	c := retrieval.NewContextualizer(mockLLM, 2)
	if _, err := c.Contextualize(context.Background(), "and then?", history(20)); err != nil {
		t.Fatalf("Contextualize() unexpected error: %v", err)
	}
}

func TestContextualize_FailureFailsRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockGenerator(ctrl)
	mockLLM.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("", errors.New("model unavailable"))

	c := retrieval.NewContextualizer(mockLLM, 2)
	if _, err := c.Contextualize(context.Background(), "and then?", history(3)); err == nil {
		t.Error("Contextualize() should fail when the rewrite call fails, never fall back silently")
	}
}

func TestContextualize_EmptyRewriteIsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLLM := mocks.NewMockGenerator(ctrl)
	mockLLM.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("   \n", nil)

	c := retrieval.NewContextualizer(mockLLM, 2)
	if _, err := c.Contextualize(context.Background(), "and then?", history(3)); err == nil {
		t.Error("Contextualize() should reject an empty rewrite")
	}
}
