package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/feedfilter/internal/api"
	"github.com/jonesrussell/feedfilter/internal/classifier"
	"github.com/jonesrussell/feedfilter/internal/config"
	"github.com/jonesrussell/feedfilter/internal/database"
	"github.com/jonesrussell/feedfilter/internal/domain"
	"github.com/jonesrussell/feedfilter/internal/logging"
	"github.com/jonesrussell/feedfilter/internal/processor"
	"github.com/jonesrussell/feedfilter/internal/richclient"
	"github.com/jonesrussell/feedfilter/internal/storage"
	"github.com/jonesrussell/feedfilter/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "feedfilter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting feedfilter",
		"version", cfg.Service.Version,
		"port", cfg.Service.Port,
		"storage", cfg.Storage.Backend)

	tp := telemetry.NewProvider()

	kv, history, db, err := buildStorage(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	learningRepo := storage.NewLearningStoreRepository(kv, logger.Named("storage"))

	library := classifier.DefaultLibrary()
	local := classifier.NewClassifier(library, logger.Named("classifier"), tp)
	adjuster := classifier.NewAdjuster(logger.Named("learning"), tp)
	feedback := classifier.NewFeedbackProcessor(learningRepo, logger.Named("feedback"), tp)

	var rich *richclient.Client
	if cfg.Remote.URL != "" {
		rich = richclient.NewClient(richclient.Config{
			BaseURL: cfg.Remote.URL,
			Timeout: cfg.Remote.Timeout,
			RPS:     cfg.Remote.RPS,
		})
		logger.Info("Rich classifier enabled", "url", cfg.Remote.URL)
	}

	var lister processor.FeedbackLister
	if history != nil {
		lister = history
	}

	pipeline := processor.NewPipeline(
		local, adjuster, learningRepo, rich, lister, tp,
		logger.Named("pipeline"),
		processor.Config{
			Concurrency:    cfg.Service.Concurrency,
			RecentFeedback: cfg.Remote.RecentFeedback,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if rich != nil {
		scheduler := processor.NewProfileScheduler(
			feedback.RegenerationDue(), rich, lister, learningRepo,
			logger.Named("profile"), cfg.Remote.ProfileDebounce)
		go scheduler.Run(ctx)
	}

	handler := api.NewHandler(
		pipeline, feedback, learningRepo, historyRecorder(history),
		library, defaultSettings(cfg, library), logger.Named("api"))

	server := api.NewServer(api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, handler, tp.Handler(), logger.Named("api"))

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("Server stopped gracefully")
	}

	return nil
}

// buildStorage wires the configured backend. The memory backend has no
// feedback history; sqlite and postgres provide both the key/value
// store and the history archive from one connection.
func buildStorage(cfg *config.Config, logger *logging.ZapLogger) (
	storage.KeyValueStore, *database.FeedbackHistoryRepository, *sqlx.DB, error,
) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemoryStore(), nil, nil, nil
	case "sqlite":
		db, err := database.Connect("sqlite3", cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return buildDBRepositories(db)
	case "postgres":
		db, err := database.Connect("postgres", cfg.Storage.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return buildDBRepositories(db)
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func buildDBRepositories(db *sqlx.DB) (
	storage.KeyValueStore, *database.FeedbackHistoryRepository, *sqlx.DB, error,
) {
	kv, err := database.NewKVRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("init key/value store: %w", err)
	}
	history, err := database.NewFeedbackHistoryRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("init feedback history: %w", err)
	}
	return kv, history, db, nil
}

// historyRecorder converts a possibly-nil concrete repository into the
// handler's optional interface without producing a typed nil.
func historyRecorder(history *database.FeedbackHistoryRepository) api.FeedbackRecorder {
	if history == nil {
		return nil
	}
	return history
}

// defaultSettings builds the engine settings served when a request does
// not carry its own. With no categories configured, every library
// category is enabled.
func defaultSettings(cfg *config.Config, library *classifier.PatternLibrary) domain.Settings {
	settings := cfg.Settings()
	if len(settings.Categories) > 0 {
		return settings
	}
	categories := make(map[string]domain.CategoryConfig)
	for _, cat := range library.Categories() {
		categories[cat.ID] = domain.CategoryConfig{Enabled: true, Label: cat.Label}
	}
	settings.Categories = categories
	return settings
}

func configPath() string {
	if path := os.Getenv("FEEDFILTER_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}
