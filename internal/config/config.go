// Package config loads application settings for the builder, server, and
// migrate commands: defaults, then an optional .env file, then environment
// variables, then an optional YAML file named by BUILDER_CONFIG.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"energy-model-builder/pkg/database"
)

// DatabaseConfig holds model database connection settings
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Path            string        `yaml:"path"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// ServerConfig holds inspection API settings
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// InputsConfig names the documents a build reads
type InputsConfig struct {
	Scenario      string `yaml:"scenario"`
	Generators    string `yaml:"generators"`
	Storage       string `yaml:"storage"`
	Fuels         string `yaml:"fuels"`
	Distribution  string `yaml:"distribution"`
	Demand        string `yaml:"demand"`
	HourlyLoads   string `yaml:"hourly_loads"`
	ConversionDir string `yaml:"conversion_dir"`
	Template      string `yaml:"template"`
	OutputDir     string `yaml:"output_dir"`
}

// BuildConfig controls batching and the error policy
type BuildConfig struct {
	BatchSize int  `yaml:"batch_size"`
	KeepGoing bool `yaml:"keep_going"`
}

// Config is the application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Inputs   InputsConfig   `yaml:"inputs"`
	Build    BuildConfig    `yaml:"build"`
}

// LoadConfig loads configuration from .env, the environment, and BUILDER_CONFIG.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:          getenvDefault("DB_DRIVER", database.DriverSQLite),
			Path:            os.Getenv("DB_PATH"),
			Host:            getenvDefault("DB_HOST", "localhost"),
			Port:            getenvIntDefault("DB_PORT", 5432),
			User:            getenvDefault("DB_USER", "postgres"),
			Password:        os.Getenv("DB_PASSWORD"),
			Database:        getenvDefault("DB_NAME", "energy_model"),
			SSLMode:         getenvDefault("DB_SSLMODE", "disable"),
			MaxOpenConns:    getenvIntDefault("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getenvIntDefault("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getenvDurationDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getenvDurationDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Server: ServerConfig{
			Host:         getenvDefault("SERVER_HOST", "0.0.0.0"),
			Port:         getenvIntDefault("SERVER_PORT", 8080),
			ReadTimeout:  getenvDurationDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getenvDurationDefault("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getenvDurationDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:      getenvDefault("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getenvIntDefault("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getenvIntDefault("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getenvIntDefault("LOG_MAX_AGE_DAYS", 28),
		},
		Inputs: InputsConfig{
			Scenario:      os.Getenv("BUILDER_SCENARIO"),
			Generators:    os.Getenv("BUILDER_GENERATORS"),
			Storage:       os.Getenv("BUILDER_STORAGE"),
			Fuels:         os.Getenv("BUILDER_FUELS"),
			Distribution:  os.Getenv("BUILDER_DISTRIBUTION"),
			Demand:        os.Getenv("BUILDER_DEMAND"),
			HourlyLoads:   os.Getenv("BUILDER_HOURLY_LOADS"),
			ConversionDir: getenvDefault("BUILDER_CONVERSION_DIR", "data/unit_conversions"),
			Template:      os.Getenv("BUILDER_TEMPLATE"),
			OutputDir:     getenvDefault("BUILDER_OUTPUT_DIR", "output"),
		},
		Build: BuildConfig{
			BatchSize: getenvIntDefault("BUILDER_BATCH_SIZE", 1000),
			KeepGoing: getenvBoolDefault("BUILDER_KEEP_GOING", false),
		},
	}

	if path := os.Getenv("BUILDER_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case database.DriverSQLite:
	case database.DriverPostgres:
		if c.Database.Host == "" || c.Database.Database == "" {
			return errors.New("config: postgres requires DB_HOST and DB_NAME")
		}
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Build.BatchSize <= 0 {
		return fmt.Errorf("config: batch size must be positive, got %d", c.Build.BatchSize)
	}
	return nil
}

// ConnectionConfig converts the database settings into a connection config.
func (c *Config) ConnectionConfig() *database.Config {
	return &database.Config{
		Driver:          c.Database.Driver,
		Path:            c.Database.Path,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		Database:        c.Database.Database,
		SSLMode:         c.Database.SSLMode,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
	}
}

func getenvDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := getenvDefault(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := getenvDefault(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDurationDefault(key string, fallback time.Duration) time.Duration {
	value := getenvDefault(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
