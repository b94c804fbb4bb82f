package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arvele/medassist-api/catalog"
	"github.com/arvele/medassist-api/config"
	"github.com/arvele/medassist-api/handlers"
	"github.com/arvele/medassist-api/health"
	"github.com/arvele/medassist-api/llm"
	"github.com/arvele/medassist-api/logging"
	"github.com/arvele/medassist-api/orchestrator"
	"github.com/arvele/medassist-api/scheduler"
	"github.com/arvele/medassist-api/server"
	"github.com/arvele/medassist-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine, the environment may be set by the host
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogDir)

	validator := validation.NewDataValidator()
	loader := catalog.NewFileLoader(cfg.DatasetPath, validator)
	container := catalog.NewContainer()

	// The initial dataset must load and validate; a rejected dataset
	// prevents serving entirely rather than answering from a broken catalog
	dataset, err := loader.Load()
	if err != nil {
		logging.Error("Failed to load initial dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}
	container.ReplaceData(dataset)
	scheduler.LogDataQuality(validator.ReportDataQuality(dataset))
	logging.Info("Catalog loaded",
		"path", cfg.DatasetPath,
		"products", len(dataset.Products),
		"dosage_rules", len(dataset.DosageRules),
		"interactions", len(dataset.Interactions),
		"coverage", len(dataset.Coverage),
	)

	sched := scheduler.NewScheduler(container, loader, validator)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	renderer := llm.New(cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMAPIKey)
	if renderer.Enabled() {
		logging.Info("Response renderer enabled", "model", cfg.LLMModel)
	}

	orch := orchestrator.New(container)
	handler := handlers.NewHandler(container, validator, orch, renderer, health.NewHealthChecker(container))
	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
