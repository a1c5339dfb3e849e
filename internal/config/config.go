// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/listenupapp/libreria/internal/validation"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Catalog CatalogConfig
	Server  ServerConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `env:"ENV" validate:"oneof=development staging production"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// CatalogConfig locates the data files and controls how they are read.
type CatalogConfig struct {
	// DataPath is the directory cover paths are resolved against (default: ./data).
	DataPath string `env:"DATA_PATH" validate:"required"`
	// CategoriesPath defaults to {data}/categorias.csv.
	CategoriesPath string `env:"CATEGORIES_PATH" validate:"required"`
	// BooksPath defaults to {data}/libros.csv.
	BooksPath string `env:"BOOKS_PATH" validate:"required,nefield=CategoriesPath"`
	// Encoding of both files: utf-8, latin1 or windows-1252 (default: utf-8).
	Encoding string `env:"DATA_ENCODING" validate:"oneof=utf-8 utf8 latin1 iso-8859-1 windows-1252 cp1252"`
	// StrictCategoryNames rejects duplicate category names at load time (default: false).
	StrictCategoryNames bool `env:"STRICT_CATEGORY_NAMES"`
	// Watch reloads the catalog when either file changes (default: true).
	Watch bool `env:"WATCH"`
	// SettleDelay is how long a file must stay unchanged before a reload (default: 250ms).
	SettleDelay time.Duration `env:"WATCH_SETTLE_DELAY" validate:"gte=0"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Port defaults to 8080.
	Port string `env:"SERVER_PORT" validate:"required,numeric"`
	// Timeouts default to 15s read, 15s write and 60s idle.
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" validate:"gt=0"`
	// MutationRPS and MutationBurst limit renames, deletions and reloads per client (default: 2 rps, burst 5).
	MutationRPS   float64 `env:"MUTATION_RPS" validate:"gt=0"`
	MutationBurst int     `env:"MUTATION_BURST" validate:"gte=1"`
	// AllowedOrigins enables CORS for the listed origins. Empty disables CORS.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("libreria", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	// Catalog flags
	dataPath := fs.String("data-path", "", "Directory holding the data files and covers (default: ./data)")
	categoriesPath := fs.String("categories", "", "Categories file (default: {data}/categorias.csv)")
	booksPath := fs.String("books", "", "Books file (default: {data}/libros.csv)")
	encoding := fs.String("encoding", "", "Data file encoding: utf-8, latin1, windows-1252 (default: utf-8)")
	strict := fs.String("strict-categories", "", "Reject duplicate category names (default: false)")
	watch := fs.String("watch", "", "Reload when the data files change (default: true)")
	settleDelay := fs.String("settle-delay", "", "Quiet period before a reload (default: 250ms)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	mutationRPS := fs.String("mutation-rps", "", "Mutations per second per client (default: 2)")
	mutationBurst := fs.String("mutation-burst", "", "Mutation burst per client (default: 5)")
	allowedOrigins := fs.String("allowed-origins", "", "Comma separated CORS origins")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// godotenv never overrides variables already set, which keeps the
	// environment above the file.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %q: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(getConfigValue(*logLevel, "LOG_LEVEL", "info")),
		},
		Catalog: CatalogConfig{
			DataPath:            getConfigValue(*dataPath, "DATA_PATH", "data"),
			CategoriesPath:      getConfigValue(*categoriesPath, "CATEGORIES_PATH", ""),
			BooksPath:           getConfigValue(*booksPath, "BOOKS_PATH", ""),
			Encoding:            strings.ToLower(getConfigValue(*encoding, "DATA_ENCODING", "utf-8")),
			StrictCategoryNames: getBoolConfigValue(*strict, "STRICT_CATEGORY_NAMES", false),
			Watch:               getBoolConfigValue(*watch, "WATCH", true),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			MutationBurst:  getIntConfigValue(*mutationBurst, "MUTATION_BURST", 5),
			AllowedOrigins: splitList(getConfigValue(*allowedOrigins, "ALLOWED_ORIGINS", "")),
		},
	}

	rps, err := getFloatConfigValue(*mutationRPS, "MUTATION_RPS", 2)
	if err != nil {
		return nil, err
	}
	cfg.Server.MutationRPS = rps

	durations := []struct {
		target *time.Duration
		flag   string
		envKey string
		def    string
		label  string
	}{
		{&cfg.Catalog.SettleDelay, *settleDelay, "WATCH_SETTLE_DELAY", "250ms", "settle delay"},
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s", "read timeout"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", "write timeout"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", "idle timeout"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.label, raw, err)
		}
		*d.target = parsed
	}

	if err := cfg.expandCatalogPaths(); err != nil {
		return nil, fmt.Errorf("invalid catalog path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	return validation.New().Validate(c)
}

// Address returns the listen address for the HTTP server.
func (c ServerConfig) Address() string {
	return ":" + c.Port
}

// expandCatalogPaths makes every catalog path absolute. The data files
// default to fixed names inside the data directory.
func (c *Config) expandCatalogPaths() error {
	dataPath, err := expandPath(c.Catalog.DataPath, "")
	if err != nil {
		return err
	}
	c.Catalog.DataPath = dataPath

	categoriesPath, err := expandPath(c.Catalog.CategoriesPath, filepath.Join(dataPath, "categorias.csv"))
	if err != nil {
		return err
	}
	c.Catalog.CategoriesPath = categoriesPath

	booksPath, err := expandPath(c.Catalog.BooksPath, filepath.Join(dataPath, "libros.csv"))
	if err != nil {
		return err
	}
	c.Catalog.BooksPath = booksPath
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

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
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
// Unparseable values fall back to the default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseFloat(strings.TrimSpace(strValue), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return result, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
