// Package config loads the service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file values.
const (
	EnvDatabaseDSN = "COTAS_DATABASE_DSN"
	EnvServerPort  = "COTAS_SERVER_PORT"
	EnvLogLevel    = "COTAS_LOG_LEVEL"
)

// Config is the root service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"` // Listen port.
}

// DatabaseConfig holds the storage connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // SQLite path or PostgreSQL DSN.
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // logrus level name.
	File  string `yaml:"file"`  // When set, logs rotate into this file.
}

// Default returns the configuration used when no file is present, matching
// the embedded-SQLite fallback of the original deployment.
func Default() Config {
	return Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{DSN: "cota-investments.db"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration file at path and applies env overrides.
// A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, errRead := os.ReadFile(path)
	if errRead != nil {
		if !os.IsNotExist(errRead) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
		}
	} else if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
	}

	applyEnv(&cfg)

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return Config{}, fmt.Errorf("config: database dsn is empty")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("config: invalid server port %d", cfg.Server.Port)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDatabaseDSN)); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if portRaw := strings.TrimSpace(os.Getenv(EnvServerPort)); portRaw != "" {
		if port, errParse := strconv.Atoi(portRaw); errParse == nil {
			cfg.Server.Port = port
		}
	}
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.Logging.Level = level
	}
}
