package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milosz-sonski/training-plans-api/internal/api"
	"github.com/milosz-sonski/training-plans-api/internal/config"
	"github.com/milosz-sonski/training-plans-api/internal/events"
	"github.com/milosz-sonski/training-plans-api/internal/repository"
	"github.com/milosz-sonski/training-plans-api/internal/service"
	"github.com/milosz-sonski/training-plans-api/internal/storage"
	"go.uber.org/zap"
)

// Version represents the application version
const Version = "0.1.0"

// Service represents the application service
type Service struct {
	config    *config.Config
	logger    *zap.Logger
	sugar     *zap.SugaredLogger
	server    *http.Server
	db        *sql.DB
	publisher events.Publisher
	plans     *service.TrainingPlanService
}

// NewLogger builds the process logger for the given environment
func NewLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// NewService creates a new application service
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	logger, err := NewLogger(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	sugar := logger.Sugar()

	s := &Service{
		config: cfg,
		logger: logger,
		sugar:  sugar,
	}

	repo, err := s.openRepository(ctx)
	if err != nil {
		return nil, err
	}

	// Snapshot export stays disabled unless a bucket is configured
	var store storage.S3Interface
	if cfg.S3.Enabled {
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
			CDNBaseURL:      cfg.S3.CDNBaseURL,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			s.Cleanup()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = client
	}

	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		s.publisher = events.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
		sugar.Infow("Publishing plan events", "brokers", brokers, "topic", cfg.Kafka.Topic)
	} else {
		s.publisher = events.NoopPublisher{}
	}

	s.plans = service.NewTrainingPlanService(repo, s.publisher, store, sugar)

	if err := seed(ctx, cfg, s.plans, sugar); err != nil {
		s.Cleanup()
		return nil, err
	}

	renderer, err := api.NewTemplateRenderer()
	if err != nil {
		s.Cleanup()
		return nil, fmt.Errorf("failed to load views: %w", err)
	}

	router := api.NewRouter(sugar, cfg, s.plans, renderer)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// openRepository picks the plan store for the configured driver
func (s *Service) openRepository(ctx context.Context) (repository.TrainingPlanRepository, error) {
	if s.config.DB.Driver == config.DriverMemory {
		s.sugar.Info("Using in-memory plan store")
		return repository.NewInMemoryTrainingPlanRepository(), nil
	}

	db, err := openDatabase(ctx, s.config, s.sugar)
	if err != nil {
		return nil, err
	}
	s.db = db

	return repository.NewPostgresTrainingPlanRepository(db), nil
}

// Start starts the service
func (s *Service) Start() error {
	s.sugar.Infow("Starting training plans service",
		"version", Version,
		"environment", s.config.Environment,
		"port", s.config.Port,
		"driver", s.config.DB.Driver,
	)

	go func() {
		s.sugar.Infof("Server listening on port %d", s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.sugar.Fatalf("Server failed: %v", err)
		}
	}()

	return nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
func (s *Service) WaitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	s.sugar.Infof("Shutting down server: %v", sig)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.sugar.Errorw("Server forced to shutdown", "error", err)
		return
	}

	s.sugar.Info("Server exited gracefully")
}

// Cleanup performs cleanup tasks
func (s *Service) Cleanup() {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.sugar.Errorw("Error closing event publisher", "error", err)
		}
	}

	repository.CloseDB(s.db, s.sugar)

	s.sugar.Info("Cleanup completed")

	if err := s.logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
	}
}

// Migrate creates the database schema and loads the seed file without
// starting the HTTP server
func Migrate(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) error {
	if cfg.DB.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate requires the %s driver, got %q", config.DriverPostgres, cfg.DB.Driver)
	}

	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repository.CloseDB(db, logger)

	plans := service.NewTrainingPlanService(repository.NewPostgresTrainingPlanRepository(db), nil, nil, logger)
	return seed(ctx, cfg, plans, logger)
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*sql.DB, error) {
	db, err := repository.NewDBConnection(ctx, repository.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Name:     cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := repository.CreateTablesIfNotExist(ctx, db, logger); err != nil {
		repository.CloseDB(db, logger)
		return nil, fmt.Errorf("failed to create database tables: %w", err)
	}

	return db, nil
}

// seed loads SEED_FILE into an empty store
func seed(ctx context.Context, cfg *config.Config, plans *service.TrainingPlanService, logger *zap.SugaredLogger) error {
	if cfg.SeedFile == "" {
		return nil
	}

	seedPlans, err := config.LoadSeedPlans(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed plans: %w", err)
	}

	created, err := plans.SeedPlans(ctx, seedPlans)
	if err != nil {
		return fmt.Errorf("failed to seed plans: %w", err)
	}

	logger.Infow("Seed file processed", "file", cfg.SeedFile, "created", created)
	return nil
}
