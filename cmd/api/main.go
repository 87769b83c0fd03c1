package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/renewintel/ddroom/internal/adapters/http"
	"github.com/renewintel/ddroom/internal/bootstrap"
	"github.com/renewintel/ddroom/internal/config"
	"github.com/renewintel/ddroom/internal/observability/logging"
	"github.com/renewintel/ddroom/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.EnsureSchema(ctx); err != nil {
		slog.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	router := httpadapter.NewRouter(httpadapter.Deps{
		Ingestor:   app.Ingest,
		Documents:  app.Documents,
		Remover:    app.Remover,
		Classifier: app.Classifier,
		Extractor:  app.Extractor,
		QA:         app.QA,
		Checklist:  app.Checklist,
		Summary:    app.Summary,

		Metrics:          httpMetrics,
		DefaultProjectID: cfg.ProjectID,

		UseLLMClassification: cfg.UseLLMClassification,
		UseLLMExtraction:     cfg.UseLLMExtraction,

		RateLimitPerMinute:  cfg.RateLimitPerMinute,
		MaxInFlightRequests: cfg.MaxInFlightRequests,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", httpMetrics.Handler())
	mux.Handle("/", router.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api shutdown failed", "error", err)
	}
}
