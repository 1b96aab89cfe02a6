package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	httpadapter "github.com/parsa-ai/parsa/internal/adapters/http"
	"github.com/parsa-ai/parsa/internal/bootstrap"
	"github.com/parsa-ai/parsa/internal/config"
	"github.com/parsa-ai/parsa/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "api")
	if err != nil {
		slog.Error("bootstrap error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Index.Rebuild(ctx); err != nil {
		slog.Error("initial index build failed", "error", err)
		os.Exit(1)
	}

	// Rebuild the lexical index whenever the worker finishes ingesting
	// a document.
	go func() {
		err := app.Queue.SubscribeCorpusUpdated(ctx, func(handlerCtx context.Context, documentID string) error {
			rebuildCtx, cancel := context.WithTimeout(handlerCtx, 2*time.Minute)
			defer cancel()
			slog.Info("corpus_updated", "document_id", documentID)
			return app.Index.Rebuild(rebuildCtx)
		})
		if err != nil && ctx.Err() == nil {
			slog.Error("corpus subscription failed", "error", err)
		}
	}()

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)
	router := httpadapter.NewRouter(
		app.AskUC,
		app.IngestUC,
		app.Repo,
		app.PipelineMetrics.Handler(),
		limiter,
	).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api shutdown error", "error", err)
	}
}
