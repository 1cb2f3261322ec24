package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docugenius/api/internal/config"
	"docugenius/api/internal/engines"
	"docugenius/api/internal/handle"
	"docugenius/api/internal/health"
	"docugenius/api/internal/httpserver"
	"docugenius/api/internal/logging"
	"docugenius/api/internal/metrics"
	"docugenius/api/internal/structure"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.Load())
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// the API still answers without keys, every /ask/ then reports a failure
	if err := cfg.Validate(); err != nil {
		log.Warn("config", zap.Error(err))
	}

	engs := engines.Build(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := handle.New(engs, structure.NewAssembler(),
		handle.WithLogger(log),
		handle.WithMetrics(metrics.NewAsk(reg)),
		handle.WithTimeout(cfg.LLMTimeout),
	)
	hh := &health.Handler{
		Version:     handle.Version,
		Environment: cfg.Environment,
		Started:     time.Now(),
		Ready:       func() bool { return len(engs.Available()) > 0 },
		Keys: map[string]bool{
			"openai_api_key": cfg.OpenAIAPIKey != "",
			"gemini_api_key": cfg.GeminiAPIKey != "",
		},
		Probe: health.HostProbe,
	}

	router := httpserver.NewRouter(httpserver.Deps{
		Handle:      h,
		Health:      hh,
		Gatherer:    reg,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
	})

	log.Info("docugenius starting",
		zap.String("environment", cfg.Environment),
		zap.Strings("engines", engs.Available()),
		zap.String("default_engine", cfg.LLMProvider))
	return httpserver.Serve(ctx, ":"+cfg.Port, router, log)
}
