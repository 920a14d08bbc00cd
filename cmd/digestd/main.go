package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marketbrief/marketbrief/internal/api"
	"github.com/marketbrief/marketbrief/internal/config"
	"github.com/marketbrief/marketbrief/internal/database"
	"github.com/marketbrief/marketbrief/internal/delivery"
	"github.com/marketbrief/marketbrief/internal/digest"
	"github.com/marketbrief/marketbrief/internal/metrics"
	"github.com/marketbrief/marketbrief/internal/normalize"
	"github.com/marketbrief/marketbrief/internal/pipeline"
	"github.com/marketbrief/marketbrief/internal/schedule"
	"github.com/marketbrief/marketbrief/internal/source"
	"github.com/marketbrief/marketbrief/internal/store"
	"github.com/marketbrief/marketbrief/internal/translate"
	"github.com/marketbrief/marketbrief/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/digestd.local.yaml", "path to config file")
	flag.Parse()

	// Local overrides from .env, if present
	_ = godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting digestd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
		"timezone", cfg.Schedule.Timezone,
	)

	zone, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "timezone", cfg.Schedule.Timezone, "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := store.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	logger.Info("database connected")

	tenants := store.NewPGTenants(pool)
	markers := store.NewPGMarkers(pool)

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	// Source adapters
	adapters := []source.Adapter{
		source.NewMacro(apiClient, logger),
		source.NewEarnings(source.EarningsConfig{
			BatchSize:  cfg.Sources.QuoteBatchSize,
			BatchDelay: cfg.Sources.QuoteBatchDelay,
		}, apiClient, logger),
	}

	// Localization chain: static table first, remote service as fallback
	var fallback translate.Localizer
	if cfg.Translate.URL != "" {
		fallback = translate.NewClient(cfg.Translate.URL, cfg.Translate.Timeout, logger)
	}
	localizer := translate.NewTable(fallback)

	normalizer := normalize.New(normalize.Config{
		TargetCountry: cfg.Sources.TargetCountry,
		Zone:          zone,
		DayStartHour:  cfg.Digest.DayStartHour,
	}, localizer, logger)

	builder := digest.NewBuilder(zone, cfg.Digest.SectionLimit)

	telegram := delivery.NewTelegram(
		cfg.Delivery.Telegram.APIURL,
		cfg.Delivery.Telegram.BotToken,
		cfg.Delivery.Telegram.Timeout,
		logger,
	)

	// Metrics on a dedicated registry so the health server only exposes ours
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	pipe := pipeline.New(
		pipeline.Config{
			Specs:        pipeline.DefaultSpecs(),
			Zone:         zone,
			DayStartHour: cfg.Digest.DayStartHour,
		},
		adapters,
		normalizer,
		builder,
		tenants,
		telegram,
		m,
		logger,
	)

	// Scheduler tasks from config
	tasks := make([]schedule.Task, 0, len(cfg.Schedule.Tasks))
	for _, tc := range cfg.Schedule.Tasks {
		task, err := schedule.NewTask(tc.Kind, tc.At, tc.Tolerance)
		if err != nil {
			logger.Error("invalid task config", "error", err)
			os.Exit(1)
		}
		tasks = append(tasks, task)
	}

	scheduler := schedule.New(schedule.Config{
		PollInterval: cfg.Schedule.PollInterval,
		Zone:         zone,
		Tasks:        tasks,
	}, markers, pipe, logger)

	// Start health/metrics server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: createHealthHandler(pool, registry, cfg.Metrics.Path, logger),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	if err := scheduler.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	logger.Info("digestd running",
		"instance_id", cfg.Instance.ID,
		"tasks", len(tasks),
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warn("scheduler shutdown incomplete", "error", err)
	}
	healthServer.Shutdown(shutdownCtx)

	logger.Info("digestd stopped")
}

// createHealthHandler creates the HTTP handler for health checks and metrics.
func createHealthHandler(pool *pgxpool.Pool, registry *prometheus.Registry, metricsPath string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.Handle(metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return mux
}
