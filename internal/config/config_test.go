package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("BUILDER_CONFIG", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("BUILDER_BATCH_SIZE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Database.Driver != "sqlite3" {
		t.Errorf("Database.Driver = %v, want sqlite3", cfg.Database.Driver)
	}
	if cfg.Build.BatchSize != 1000 {
		t.Errorf("Build.BatchSize = %v, want 1000", cfg.Build.BatchSize)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfig_EnvAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builder.yaml")
	doc := `
database:
  driver: postgres
  host: db.internal
  database: models
inputs:
  scenario: scenarios/base.toml
build:
  keep_going: true
server:
  read_timeout: 5s
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BUILDER_CONFIG", path)
	t.Setenv("BUILDER_BATCH_SIZE", "250")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"driver", cfg.Database.Driver, "postgres"},
		{"host", cfg.Database.Host, "db.internal"},
		{"scenario", cfg.Inputs.Scenario, "scenarios/base.toml"},
		{"keep going", cfg.Build.KeepGoing, true},
		{"batch size", cfg.Build.BatchSize, 250},
		{"log level", cfg.Logging.Level, "debug"},
		{"read timeout", cfg.Server.ReadTimeout, 5 * time.Second},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	dbCfg := cfg.ConnectionConfig()
	if dbCfg.Driver != "postgres" || dbCfg.Host != "db.internal" {
		t.Errorf("ConnectionConfig() = %+v", dbCfg)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "sqlite3"},
			Server:   ServerConfig{Port: 8080},
			Build:    BuildConfig{BatchSize: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"postgres without host", func(c *Config) { c.Database.Driver = "postgres" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"zero batch", func(c *Config) { c.Build.BatchSize = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
