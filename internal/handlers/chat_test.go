package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"thesis-chatbot/internal/service"
	"thesis-chatbot/internal/service/mocks"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewChatHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChatService := mocks.NewMockChatService(ctrl)
	handler := NewChatHandler(mockChatService)

	if handler == nil {
		t.Fatal("NewChatHandler() returned nil")
	}
	if handler.chatService != mockChatService {
		t.Error("NewChatHandler() chatService not set correctly")
	}
}

func TestChatHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		body          any
		mockSetup     func(*mocks.MockChatService)
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "streams answer as plain text",
			body: ChatRequest{Message: "Hello", SessionID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req service.ChatRequest, callback func(string) error) error {
						if req.Message != "Hello" {
							t.Errorf("service received message %q", req.Message)
						}
						for _, c := range []string{"Hi ", "there!"} {
							if err := callback(c); err != nil {
								return err
							}
						}
						return nil
					})
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				if got := w.Body.String(); got != "Hi there!" {
					t.Errorf("body = %q, want %q", got, "Hi there!")
				}
				if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
					t.Errorf("Content-Type = %q, want text/plain", ct)
				}
			},
		},
		{
			name:       "invalid JSON body",
			body:       "not json",
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "validation error yields 400 JSON",
			body: ChatRequest{Message: "", SessionID: "bad"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&service.ValidationError{Field: "session_id", Message: "must be a valid UUID"})
			},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if !strings.Contains(resp.Error, "session_id") {
					t.Errorf("error = %q, want mention of session_id", resp.Error)
				}
			},
		},
		{
			name: "upstream failure before first chunk yields 502",
			body: ChatRequest{Message: "Hello", SessionID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(service.External(errors.New("model down")))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "mid-stream failure appends terminal marker",
			body: ChatRequest{Message: "Hello", SessionID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ service.ChatRequest, callback func(string) error) error {
						if err := callback("partial "); err != nil {
							return err
						}
						return service.External(errors.New("model died"))
					})
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				got := w.Body.String()
				if !strings.HasPrefix(got, "partial ") {
					t.Errorf("body = %q, want delivered prefix preserved", got)
				}
				if !strings.HasSuffix(got, streamErrorMarker) {
					t.Errorf("body = %q, want terminal error marker", got)
				}
			},
		},
		{
			name: "empty answer still succeeds",
			body: ChatRequest{Message: "Hello", SessionID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				if w.Body.Len() != 0 {
					t.Errorf("body = %q, want empty", w.Body.String())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)
			handler := NewChatHandler(mockChatService)

			var body bytes.Buffer
			switch b := tt.body.(type) {
			case string:
				body.WriteString(b)
			default:
				if err := json.NewEncoder(&body).Encode(b); err != nil {
					t.Fatalf("encode request body: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/chat", &body)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}
