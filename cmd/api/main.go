package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/docs"
	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/handler"
	"github.com/BarkinBalci/event-dataset-generator/internal/job"
	"github.com/BarkinBalci/event-dataset-generator/internal/lineage"
	"github.com/BarkinBalci/event-dataset-generator/internal/logger"
	"github.com/BarkinBalci/event-dataset-generator/internal/queue/sqs"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository/sinks"
	"github.com/BarkinBalci/event-dataset-generator/internal/service"
	"github.com/BarkinBalci/event-dataset-generator/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

// @title Event Dataset Generator API
// @version 1.0
// @description Generates synthetic user, session and event datasets and streams them into analytical sinks
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "generator-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.New(cfg.Telemetry, "generator-api")
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.Error("Failed to shut down telemetry", zap.Error(err))
		}
	}()

	// Run notifications are optional
	var hooks []job.FinishHook
	if cfg.SQS.QueueURL != "" {
		sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			log.Fatal("Failed to create SQS client", zap.Error(err))
		}
		hooks = append(hooks, service.NotifyHook(sqsClient, log))
	}

	// Validate the base profile once so a broken file fails at startup
	if p, err := cfg.Generator.BaseProfile(); err != nil {
		log.Fatal("Failed to load generation profile", zap.Error(err))
	} else if err := p.Validate(); err != nil {
		log.Fatal("Invalid generation profile", zap.Error(err))
	}

	factory := sinks.NewFactory(cfg, log)
	jobs := job.NewManager(log, hooks...)
	registry := lineage.NewRegistry(log)

	generatorService := service.NewGeneratorService(factory, jobs, registry,
		cfg.Generator.BaseProfile, provider.Meter(), log)

	// Initialize handler
	h := handler.NewHandler(generatorService, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API server starting", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down API server", zap.Error(err))
	}

	// a running job keeps its previous live tables when cancelled
	if j := jobs.Current(); j != nil && !j.Snapshot().State.Terminal() {
		j.Cancel()
		if err := j.Wait(shutdownCtx); err != nil {
			log.Warn("Generation job stopped", zap.String("job_id", j.ID()), zap.Error(err))
		}
	}
}
