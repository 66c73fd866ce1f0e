package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Supported values of DATA_SOURCE.
const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
	SourceSheets   = "sheets"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Data     DataConfig
	S3       S3Config
	Sheets   SheetsConfig
	Cache    CacheConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// DataConfig selects where the three datasets are read from.
type DataConfig struct {
	Source string // file, s3, postgres or sheets
	Dir    string // local directory holding sales.csv, menu.csv, expenses.csv
}

// S3Config holds S3 configuration for the dataset objects.
type S3Config struct {
	Bucket        string
	Region        string
	Prefix        string // Path prefix within bucket (e.g., "restaurant/")
	Endpoint      string // S3-compatible endpoint; empty means AWS
	AccessKey     string
	SecretKey     string
	FallbackLocal bool // read DATA_DIR when S3 fails
}

// SheetsConfig holds Google Sheets configuration.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// CacheConfig controls the in-memory snapshot of the datasets.
type CacheConfig struct {
	Enabled         bool
	RefreshSchedule string // cron spec; empty disables scheduled refresh
}

// Load loads configuration from a .env file, if present, and the environment.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "restaurant"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Data: DataConfig{
			Source: getEnv("DATA_SOURCE", SourceFile),
			Dir:    getEnv("DATA_DIR", "data"),
		},
		S3: S3Config{
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Prefix:        getEnv("S3_PREFIX", ""),
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			AccessKey:     getEnv("S3_ACCESS_KEY", ""),
			SecretKey:     getEnv("S3_SECRET_KEY", ""),
			FallbackLocal: getEnvAsBool("S3_FALLBACK_LOCAL", false),
		},
		Sheets: SheetsConfig{
			CredentialsPath: getEnv("SHEETS_CREDENTIALS_PATH", ""),
			SpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
		},
		Cache: CacheConfig{
			Enabled:         getEnvAsBool("CACHE_ENABLED", true),
			RefreshSchedule: getEnv("CACHE_REFRESH_SCHEDULE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Data.Source {
	case SourceFile:
		if c.Data.Dir == "" {
			return fmt.Errorf("data directory is required for the file source")
		}
	case SourceS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required for the s3 source")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required for the s3 source")
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			return fmt.Errorf("S3 access key and secret key must be set together")
		}
		if c.S3.FallbackLocal && c.Data.Dir == "" {
			return fmt.Errorf("data directory is required when S3 falls back to local files")
		}
	case SourcePostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
	case SourceSheets:
		if c.Sheets.CredentialsPath == "" {
			return fmt.Errorf("sheets credentials path is required for the sheets source")
		}
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet id is required for the sheets source")
		}
	default:
		return fmt.Errorf("invalid data source: %s (must be file, s3, postgres, or sheets)", c.Data.Source)
	}

	if c.Cache.RefreshSchedule != "" {
		if !c.Cache.Enabled {
			return fmt.Errorf("cache refresh schedule requires the cache to be enabled")
		}
		if _, err := cron.ParseStandard(c.Cache.RefreshSchedule); err != nil {
			return fmt.Errorf("invalid cache refresh schedule %q: %w", c.Cache.RefreshSchedule, err)
		}
	}

	return nil
}

// Validate checks the database settings.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
