// Package main provides the extraction API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pagelens/pagelens/internal/artifacts"
	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/engine"
	"github.com/pagelens/pagelens/internal/engine/tesseract"
	"github.com/pagelens/pagelens/internal/extract"
	"github.com/pagelens/pagelens/internal/observability"
)

func main() {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfgPath := os.Getenv("PAGELENS_CONFIG")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "pagelens",
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("output_dir", cfg.Artifacts.OutputDir).
		Int("cpu_threads", cfg.Engine.CPUThreads).
		Msg("Starting extraction API")

	// The engine is initialized once and shared by every request.
	eng, err := tesseract.New(engine.Options{
		Languages:                 cfg.Engine.Languages,
		RecognitionModel:          cfg.Engine.RecognitionModel,
		EnableOrientationClassify: cfg.Engine.EnableOrientationClassify,
		EnableTextlineOrientation: cfg.Engine.EnableTextlineOrientation,
		EnableChartRecognition:    cfg.Engine.EnableChartRecognition,
		CPUThreads:                cfg.Engine.CPUThreads,
		RenderDPI:                 cfg.Engine.RenderDPI,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Extraction engine unavailable")
	}

	writer := artifacts.NewWriter(cfg.Artifacts.HTMLPreview)
	service := extract.NewService(eng, writer, logger, extract.Config{
		OutputDir:     cfg.Artifacts.OutputDir,
		MaxConcurrent: cfg.Engine.MaxConcurrent,
	})

	router := NewRouter(logger, service, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}
