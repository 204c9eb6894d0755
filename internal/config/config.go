// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Data    DataConfig
	Server  ServerConfig
	Auth    AuthConfig
	Search  SearchConfig
	Preview PreviewConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds data storage configuration.
// BasePath is the directory holding the sqlite database, the search index
// and the auth key.
type DataConfig struct {
	BasePath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed CORS origins (default: *)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes).
	// Set by auth.LoadOrGenerateKey during bootstrap.
	AccessTokenKey []byte
	// Access token lifetime, e.g. 24h.
	AccessTokenDuration time.Duration
}

// SearchConfig holds resource search configuration.
type SearchConfig struct {
	// DefaultLimit is the page size used when the request carries none (default: 9).
	DefaultLimit int
	// MaxLimit caps the requested page size (default: 100).
	MaxLimit int
	// Analyzer selects the text analyzer for the search index.
	// "en" stems and lowercases, "standard" lowercases without stemming,
	// "keyword" matches exactly. Case sensitivity of matching follows from
	// this choice rather than being hard-coded.
	Analyzer string
}

// PreviewConfig holds link preview resolver configuration.
type PreviewConfig struct {
	// Timeout for the single outbound GET (default: 10s).
	Timeout time.Duration
	// MaxBodyBytes caps how much of the target page is read (default: 2 MiB).
	MaxBodyBytes int64
	// RPS and Burst configure per-host outbound rate limiting.
	RPS   float64
	Burst int
	// UserAgent sent on outbound preview fetches.
	UserAgent string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for data storage")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")
	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (e.g., 24h)")
	searchAnalyzer := flag.String("search-analyzer", "", "Search analyzer (en, standard, keyword)")
	previewTimeout := flag.String("preview-timeout", "", "Preview fetch timeout (default: 10s)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			AccessTokenKey: nil, // Set by auth.LoadOrGenerateKey during bootstrap
		},
		Search: SearchConfig{
			DefaultLimit: getIntConfigValue("", "SEARCH_DEFAULT_LIMIT", 9),
			MaxLimit:     getIntConfigValue("", "SEARCH_MAX_LIMIT", 100),
			Analyzer:     getConfigValue(*searchAnalyzer, "SEARCH_ANALYZER", "en"),
		},
		Preview: PreviewConfig{
			MaxBodyBytes: int64(getIntConfigValue("", "PREVIEW_MAX_BODY_BYTES", 2<<20)),
			RPS:          1.0,
			Burst:        3,
			UserAgent:    getConfigValue("", "PREVIEW_USER_AGENT", "linkstash/1.0"),
		},
	}

	// Parse durations.
	var err error
	if cfg.Auth.AccessTokenDuration, err = parseDurationValue(*accessTokenDuration, "ACCESS_TOKEN_DURATION", "24h"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Preview.Timeout, err = parseDurationValue(*previewTimeout, "PREVIEW_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	// Expand and validate the data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	validAnalyzers := map[string]bool{
		"en":       true,
		"standard": true,
		"keyword":  true,
	}
	if !validAnalyzers[c.Search.Analyzer] {
		return fmt.Errorf("invalid search analyzer: %s (must be en, standard, or keyword)", c.Search.Analyzer)
	}

	if c.Search.DefaultLimit < 1 {
		return fmt.Errorf("search default limit must be positive, got %d", c.Search.DefaultLimit)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search max limit %d is below the default limit %d", c.Search.MaxLimit, c.Search.DefaultLimit)
	}

	return nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/linkstash/data when unset.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "linkstash", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// parseDurationValue resolves a duration from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(strings.ReplaceAll(envKey, "_", " ")), strValue, err)
	}
	return d, nil
}

// splitList splits a comma-separated value, trimming whitespace.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
