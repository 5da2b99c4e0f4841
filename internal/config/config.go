package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for devlingo.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Quiz     QuizConfig     `yaml:"quiz"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls the file logger. The terminal belongs to the TUI, so logs
// never go to stdout or stderr.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type AuthConfig struct {
	SessionTTL time.Duration `yaml:"session_ttl"`
	// Secret signs session tokens. Empty means a per-database secret is
	// generated and stored on first use.
	Secret string `yaml:"secret"`
}

type QuizConfig struct {
	Lives int `yaml:"lives"`
}

// Home returns the devlingo state directory (~/.devlingo).
func Home() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".devlingo"), nil
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig(dir string) Config {
	return Config{
		Database: DatabaseConfig{Path: filepath.Join(dir, "devlingo.db")},
		Log: LogConfig{
			File:  filepath.Join(dir, "devlingo.log"),
			Level: "info",
		},
		Auth: AuthConfig{SessionTTL: 30 * 24 * time.Hour},
		Quiz: QuizConfig{Lives: 3},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// DEVLINGO_CONFIG (default ~/.devlingo/config.yaml) and DEVLINGO_* environment
// variables, in that order of precedence.
func Load() (*Config, error) {
	dir, err := Home()
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig(dir)

	path := getEnv("DEVLINGO_CONFIG", filepath.Join(dir, "config.yaml"))
	if err := loadFile(path, &cfg); err != nil {
		return nil, err
	}

	cfg.Database.Path = getEnv("DEVLINGO_DB", cfg.Database.Path)
	cfg.Log.File = getEnv("DEVLINGO_LOG_FILE", cfg.Log.File)
	cfg.Log.Level = getEnv("DEVLINGO_LOG_LEVEL", cfg.Log.Level)
	cfg.Auth.SessionTTL = getEnvAsDuration("DEVLINGO_SESSION_TTL", cfg.Auth.SessionTTL)
	cfg.Auth.Secret = getEnv("DEVLINGO_AUTH_SECRET", cfg.Auth.Secret)
	cfg.Quiz.Lives = getEnvAsInt("DEVLINGO_LIVES", cfg.Quiz.Lives)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFile overlays the YAML file at path onto cfg. A missing file is not an error.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "off": true}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database path is required")
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Auth.SessionTTL)
	}
	if c.Quiz.Lives < 1 {
		return fmt.Errorf("quiz lives must be at least 1, got %d", c.Quiz.Lives)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
