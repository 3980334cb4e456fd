package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thesis-chatbot/internal/config"
	"thesis-chatbot/internal/http"
	"thesis-chatbot/internal/llm"
	"thesis-chatbot/internal/retrieval"
	"thesis-chatbot/internal/service"
	"thesis-chatbot/internal/storage"
	"thesis-chatbot/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	connString := cfg.ConnString()
	if err := storage.Migrate(connString); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	pool, err := storage.NewPool(ctx, connString, cfg.PoolMinSize, cfg.PoolMaxSize)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	slog.Info("Database initialized", "min_conns", cfg.PoolMinSize, "max_conns", cfg.PoolMaxSize)

	// Gemini client covers both generation and query embeddings
	llmClient, err := llm.NewClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, cfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	slog.Info("Gemini client ready", "model", cfg.GeminiModel, "embedding_model", cfg.EmbeddingModel)

	vectorStore := vectorstore.NewPGVectorStore(pool, cfg.VectorCollection)

	policy := retrieval.Policy{
		SearchK:      cfg.SearchK,
		TotalK:       cfg.TotalK,
		PrimaryRatio: cfg.PrimaryRatio,
	}
	if err := policy.Validate(); err != nil {
		log.Fatalf("Invalid retrieval policy: %v", err)
	}
	retriever := retrieval.NewRetriever(llmClient, vectorStore, policy, cfg.PrimarySource)
	contextualizer := retrieval.NewContextualizer(llmClient, cfg.RewriteThreshold)
	slog.Info("Retrieval pipeline initialized",
		"collection", cfg.VectorCollection,
		"search_k", cfg.SearchK,
		"total_k", cfg.TotalK,
		"primary_ratio", cfg.PrimaryRatio,
	)

	historyRepo := storage.NewHistoryRepo(pool)
	chatService := service.NewChatService(historyRepo, contextualizer, retriever, llmClient)

	router := http.NewRouter(&http.Deps{
		ChatService: chatService,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting API server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
