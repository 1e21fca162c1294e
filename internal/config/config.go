package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the connection settings for one Monarch device plus the
// ambient settings of the process that controls it.
type Config struct {
	Host           string `toml:"host"`
	User           string `toml:"user"`
	Password       string `toml:"password"`
	PollEnabled    bool   `toml:"poll"`
	PollIntervalMS int    `toml:"poll_interval_ms"`

	LogFile     string `toml:"log_file"`
	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"`
}

const (
	defaultConfigPath     = "~/.config/monarchctl/config.toml"
	defaultLogFile        = "~/.local/state/monarchctl/monarchctl.log"
	defaultLogLevel       = "info"
	defaultMetricsAddr    = ":9742"
	defaultPollIntervalMS = 10000
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		PollIntervalMS: defaultPollIntervalMS,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		MetricsAddr:    defaultMetricsAddr,
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// Absent keys keep their defaults because Unmarshal only touches keys
	// present in the document.
	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg.Normalize(), nil
}

// Save writes cfg to path, creating directories as needed. The file holds a
// password so it is written owner-readable only.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	bytes, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Normalize trims string fields and fills empty ambient settings with defaults.
func (c Config) Normalize() Config {
	c.Host = strings.TrimSpace(c.Host)
	c.User = strings.TrimSpace(c.User)

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogFile = strings.TrimSpace(c.LogFile)
	if c.LogFile == "" {
		c.LogFile = defaultLogFile
	}
	c.LogFile = mustExpand(c.LogFile)
	c.MetricsAddr = strings.TrimSpace(c.MetricsAddr)
	if c.MetricsAddr == "" {
		c.MetricsAddr = defaultMetricsAddr
	}
	if c.PollIntervalMS < 0 {
		c.PollIntervalMS = 0
	}
	return c
}

// Validate reports whether the config can reach a device.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("device host is not configured")
	}
	return nil
}

// ResolvePath returns the absolute config file location for path, or for the
// default path when path is empty.
func ResolvePath(path string) (string, error) {
	return resolvePath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ to the home directory and returns an
// absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
