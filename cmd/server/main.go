package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/adapters/embedding"
	"github.com/brunobiangulo/legalrag/adapters/index/pgvector"
	"github.com/brunobiangulo/legalrag/adapters/index/sqlitevec"
	"github.com/brunobiangulo/legalrag/adapters/llmchat"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := legalrag.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			slog.Error("opening config", "error", err)
			os.Exit(1)
		}
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			slog.Error("parsing config", "error", err)
			os.Exit(1)
		}
		f.Close()
	}

	if v := os.Getenv("LEGALRAG_CHAT_BASE_URL"); v != "" {
		cfg.Chat.BaseURL = v
	}
	if v := os.Getenv("LEGALRAG_EMBED_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("LEGALRAG_CHAT_API_KEY"); v != "" {
		cfg.Chat.APIKey = v
	}
	if v := os.Getenv("LEGALRAG_EMBED_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("LEGALRAG_CHAT_MODEL"); v != "" {
		cfg.Chat.Model = v
	}
	if v := os.Getenv("LEGALRAG_EMBED_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("LEGALRAG_INDEX_BACKEND"); v != "" {
		cfg.Index.Backend = v
	}
	if v := os.Getenv("LEGALRAG_SQLITE_PATH"); v != "" {
		cfg.Index.SQLitePath = v
	}
	if v := os.Getenv("LEGALRAG_POSTGRES_DSN"); v != "" {
		cfg.Index.PostgresDSN = v
	}
	if v := os.Getenv("LEGALRAG_CACHE_REDIS_URL"); v != "" {
		cfg.Cache.Enabled = true
		cfg.Cache.RedisURL = v
	}

	if cfg.Chat.APIKey == "" {
		switch cfg.Chat.Provider {
		case "openai":
			cfg.Chat.APIKey = os.Getenv("OPENAI_API_KEY")
		case "groq":
			cfg.Chat.APIKey = os.Getenv("GROQ_API_KEY")
		}
	}
	if cfg.Embedding.APIKey == "" {
		switch cfg.Embedding.Provider {
		case "openai":
			cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		case "groq":
			cfg.Embedding.APIKey = os.Getenv("GROQ_API_KEY")
		}
	}

	index, closeIndex, err := openIndex(cfg)
	if err != nil {
		slog.Error("opening vector index", "error", err)
		os.Exit(1)
	}
	defer closeIndex()

	embedder := embedding.New(cfg.Embedding, cfg.EmbeddingDimension, cfg.AllowEmbeddingFallback)
	chat := llmchat.New(cfg.Chat)

	svc, err := legalrag.New(cfg, embedder, index, chat)
	if err != nil {
		slog.Error("creating service", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	h := newHandler(svc, time.Duration(cfg.QueryDeadlineMS)*time.Millisecond)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ingest", h.handleIngest)
	mux.HandleFunc("POST /query", h.handleQuery)
	mux.HandleFunc("POST /analyze", h.handleAnalyze)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Middleware chain: recovery -> logging -> mux. Authentication and CORS
	// are the HTTP surface's concern, explicitly out of scope for this core.
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // query responses stream through an external LLM call
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// openIndex opens the configured vector-index backing, returning it along
// with a close func (a no-op for backings with no connection to release).
func openIndex(cfg legalrag.Config) (legalrag.Index, func(), error) {
	switch cfg.Index.Backend {
	case "pgvector":
		idx, err := pgvector.Open(context.Background(), cfg.Index.PostgresDSN, cfg.Index.Table, cfg.EmbeddingDimension)
		if err != nil {
			return nil, nil, err
		}
		return idx, func() { idx.Close() }, nil
	default:
		idx, err := sqlitevec.Open(cfg.Index.SQLitePath, cfg.EmbeddingDimension)
		if err != nil {
			return nil, nil, err
		}
		return idx, func() { idx.Close() }, nil
	}
}
