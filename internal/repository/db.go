package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// DBConfig holds database connection configuration
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the lib/pq connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// NewDBConnection creates a new database connection pool
func NewDBConnection(ctx context.Context, cfg DBConfig, logger *zap.SugaredLogger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infow("Connected to database",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Name,
		"user", cfg.User,
	)

	return db, nil
}

// CreateTablesIfNotExist creates the training_plans table if it doesn't exist
func CreateTablesIfNotExist(ctx context.Context, db *sql.DB, logger *zap.SugaredLogger) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS training_plans (
			id              BIGSERIAL PRIMARY KEY,
			name            VARCHAR(100) NOT NULL,
			description     VARCHAR(1000) NOT NULL,
			exercises       TEXT NOT NULL,
			training_days   TEXT NOT NULL,
			created_by      VARCHAR(100) NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create training_plans table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_training_plans_created_by ON training_plans(created_by)
	`)
	if err != nil {
		return fmt.Errorf("failed to create index on training_plans.created_by: %w", err)
	}

	logger.Info("Database tables created or verified")
	return nil
}

// CloseDB gracefully closes the database connection
func CloseDB(db *sql.DB, logger *zap.SugaredLogger) {
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Errorw("Error closing database connection", "error", err)
		} else {
			logger.Info("Database connection closed")
		}
	}
}
