package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default configuration file name.
const FileName = "ledger-dashboard.yaml"

// Config represents the top-level ledger-dashboard.yaml configuration.
type Config struct {
	Tool    ToolConfig    `yaml:"tool"`
	Server  ServerConfig  `yaml:"server"`
	History HistoryConfig `yaml:"history"`
	Display DisplayConfig `yaml:"display"`
}

// ToolConfig selects the accounting tool binaries and the per-invocation
// wall-clock limit.
type ToolConfig struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// Timeout returns the invocation limit as a duration.
func (t ToolConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutMS) * time.Millisecond
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port            int   `yaml:"port"`
	MaxUploadBytes  int64 `yaml:"max_upload_bytes"`
	ShutdownSeconds int   `yaml:"shutdown_seconds"`
}

// HistoryConfig locates the run-history database.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// DisplayConfig controls report rendering.
type DisplayConfig struct {
	Currency string `yaml:"currency"` // ISO 4217 code
}

// Load reads a ledger-dashboard.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault reads the config at path, falling back to Default when the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Tool: ToolConfig{
			Primary:   "hledger",
			Secondary: "ledger",
			TimeoutMS: 5000,
		},
		Server: ServerConfig{
			Port:            8080,
			MaxUploadBytes:  10 << 20,
			ShutdownSeconds: 10,
		},
		History: HistoryConfig{
			Path: "ledger-dashboard.db",
		},
		Display: DisplayConfig{
			Currency: "USD",
		},
	}
}

// ApplyEnv loads a .env file when present and overlays LEDGER_* environment
// variables onto the config. Unset or malformed variables leave the config
// untouched.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("LEDGER_TOOL_PRIMARY"); v != "" {
		c.Tool.Primary = v
	}
	if v := os.Getenv("LEDGER_TOOL_SECONDARY"); v != "" {
		c.Tool.Secondary = v
	}
	if n, ok := intEnv("LEDGER_TOOL_TIMEOUT_MS"); ok {
		c.Tool.TimeoutMS = n
	}
	if n, ok := intEnv("LEDGER_SERVER_PORT"); ok {
		c.Server.Port = n
	}
	if n, ok := intEnv("LEDGER_MAX_UPLOAD_BYTES"); ok {
		c.Server.MaxUploadBytes = int64(n)
	}
	if v := os.Getenv("LEDGER_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("LEDGER_DISPLAY_CURRENCY"); v != "" {
		c.Display.Currency = v
	}
}

func intEnv(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
