// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	APIBaseURL           string
	HTTPTimeout          time.Duration
	DefaultRangeDays     int
	NotificationDuration time.Duration
	CostAlertThreshold   float64
	LogLevel             string
	LogFile              string

	// EnvFile is the .env file that was loaded, empty when none was found.
	EnvFile string
}

// Default values
const (
	defaultAPIBaseURL           = "http://localhost:5000"
	defaultHTTPTimeout          = 30 * time.Second
	defaultRangeDays            = 7
	defaultNotificationDuration = 5 * time.Second
	defaultLogLevel             = "info"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	envFile := ""
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			envFile = path
			break
		}
	}

	return fromEnv(envFile)
}

// LoadFile re-reads a specific .env file, overriding values already present
// in the environment. Used when the watched file changes.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Overload(path); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return fromEnv(path)
}

func fromEnv(envFile string) (*Config, error) {
	cfg := &Config{
		APIBaseURL:           strings.TrimRight(getEnvString("LLMDASH_API_URL", defaultAPIBaseURL), "/"),
		HTTPTimeout:          getEnvDuration("LLMDASH_HTTP_TIMEOUT", defaultHTTPTimeout),
		DefaultRangeDays:     getEnvInt("LLMDASH_DEFAULT_RANGE_DAYS", defaultRangeDays),
		NotificationDuration: getEnvDuration("LLMDASH_NOTIFICATION_DURATION", defaultNotificationDuration),
		CostAlertThreshold:   getEnvFloat("LLMDASH_COST_ALERT", 0),
		LogLevel:             getEnvString("LOG_LEVEL", defaultLogLevel),
		LogFile:              getEnvString("LOG_FILE", getDefaultLogPath()),
		EnvFile:              envFile,
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("LLMDASH_API_URL must be an absolute http(s) URL, got %q", cfg.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("LLMDASH_API_URL must use http or https, got %q", u.Scheme)
	}

	if cfg.DefaultRangeDays < 1 {
		cfg.DefaultRangeDays = defaultRangeDays
	}
	if cfg.NotificationDuration <= 0 {
		cfg.NotificationDuration = defaultNotificationDuration
	}

	if err := ensureDir(filepath.Dir(cfg.LogFile)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "llmdash", ".env"),
			filepath.Join(home, ".llmdash", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "llmdash.log"
	}
	return filepath.Join(home, ".config", "llmdash", "llmdash.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
