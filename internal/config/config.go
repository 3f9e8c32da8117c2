package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	DocsRoot      string
	IndexPath     string
	APIPort       string
	LogLevel      slog.Level
	LogFormat     string
	BuildWorkers  int
	MaxLimit      int
	SnippetLength int
	WatchDebounce time.Duration
	Extensions    []string
	IgnoreDirs    []string
}

// fileConfig is the optional YAML file named by DOCSEARCH_CONFIG.
type fileConfig struct {
	Extensions []string `yaml:"extensions"`
	IgnoreDirs []string `yaml:"ignore_dirs"`
}

var defaultIgnoreDirs = []string{"node_modules", "__pycache__"}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DocsRoot:   getEnv("DOCS_ROOT", "./references"),
		IndexPath:  getEnv("INDEX_PATH", "./data/docsearch.db"),
		APIPort:    getEnv("API_PORT", "9000"),
		LogFormat:  strings.ToLower(getEnv("LOG_FORMAT", "text")),
		IgnoreDirs: defaultIgnoreDirs,
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.BuildWorkers, err = getPositiveInt("BUILD_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.MaxLimit, err = getPositiveInt("MAX_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.SnippetLength, err = getPositiveInt("SNIPPET_LENGTH", 200); err != nil {
		return nil, err
	}

	debounce, err := time.ParseDuration(getEnv("WATCH_DEBOUNCE", "2s"))
	if err != nil {
		return nil, fmt.Errorf("WATCH_DEBOUNCE must be a valid duration: %w", err)
	}
	if debounce <= 0 {
		return nil, fmt.Errorf("WATCH_DEBOUNCE must be greater than 0")
	}
	cfg.WatchDebounce = debounce

	if path := getEnv("DOCSEARCH_CONFIG", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyFile overlays the corpus settings of a YAML config file.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(fc.Extensions) > 0 {
		c.Extensions = fc.Extensions
	}
	if fc.IgnoreDirs != nil {
		c.IgnoreDirs = fc.IgnoreDirs
	}
	return nil
}

// parseLogLevel maps a LOG_LEVEL value to a slog level.
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}

// getPositiveInt parses an integer environment variable that must be greater than 0.
func getPositiveInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
