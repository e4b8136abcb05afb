package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the service
type Config struct {
	// Core service configuration
	Environment     string        `mapstructure:"ENVIRONMENT"`
	Port            int           `mapstructure:"PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	MetricsEnabled  bool          `mapstructure:"METRICS_ENABLED"`
	SeedFile        string        `mapstructure:"SEED_FILE"`

	// Database configuration
	DB struct {
		Driver   string `mapstructure:"DB_DRIVER"`
		Host     string `mapstructure:"DB_HOST"`
		Port     int    `mapstructure:"DB_PORT"`
		User     string `mapstructure:"DB_USER"`
		Password string `mapstructure:"DB_PASSWORD"`
		Name     string `mapstructure:"DB_NAME"`
		SSLMode  string `mapstructure:"DB_SSLMODE"`
	} `mapstructure:",squash"`

	// S3 storage configuration for plan snapshots
	S3 struct {
		Enabled         bool   `mapstructure:"S3_ENABLED"`
		Region          string `mapstructure:"S3_REGION"`
		Bucket          string `mapstructure:"S3_BUCKET"`
		AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
		Endpoint        string `mapstructure:"S3_ENDPOINT"`
		CDNBaseURL      string `mapstructure:"S3_CDN_BASE_URL"`
		UsePathStyle    bool   `mapstructure:"S3_USE_PATH_STYLE"`
	} `mapstructure:",squash"`

	// Kafka configuration for plan change events
	Kafka struct {
		Brokers string `mapstructure:"KAFKA_BROKERS"`
		Topic   string `mapstructure:"KAFKA_TOPIC"`
	} `mapstructure:",squash"`

	// JWT Authentication configuration
	Auth struct {
		Enabled bool   `mapstructure:"AUTH_ENABLED"`
		Secret  string `mapstructure:"JWT_SECRET"`
	} `mapstructure:",squash"`
}

// KafkaBrokers returns the configured broker addresses
func (c *Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.Kafka.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Validate checks option combinations that cannot be expressed as defaults
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.DB.Driver)
	}

	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is set")
	}

	if c.S3.Enabled && c.S3.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when S3_ENABLED is set")
	}

	return nil
}

// Load reads the configuration from environment variables and returns a Config struct
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()
	// An explicitly empty variable overrides its default
	v.AllowEmptyEnv(true)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Optional: Read from config file if specified
	configFile := v.GetString("CONFIG_FILE")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal config into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The test environment never touches external systems
	if cfg.Environment == "test" {
		cfg.DB.Driver = DriverMemory
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Core service defaults
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", 8080)
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("SEED_FILE", "")

	// Database defaults
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "training_plans")
	v.SetDefault("DB_SSLMODE", "disable")

	// S3 defaults
	v.SetDefault("S3_ENABLED", false)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "training-plans")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_CDN_BASE_URL", "")
	v.SetDefault("S3_USE_PATH_STYLE", false)

	// Kafka defaults
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "training-plans.events")

	// JWT defaults
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "")
}
