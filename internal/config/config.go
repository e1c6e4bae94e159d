// Package config loads tada settings from defaults, TOML files and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultAPIURL    = "http://localhost:8080/api/v1/items"
	DefaultTimeout   = 10 * time.Second
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultTheme     = "classic"
	DefaultAddr      = ":8080"
	DefaultStore     = "json"

	userDirName     = ".tada"
	userFileName    = "config.toml"
	projectFileName = "tada.toml"
)

// Config holds everything the client, the TUI and the dev backend need.
type Config struct {
	APIURL    string `toml:"api_url"`
	Timeout   string `toml:"timeout"`
	LogFile   string `toml:"log_file"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	Theme     string `toml:"theme"`

	Server ServerConfig `toml:"server"`

	// Files lists the config files that were read, in load order.
	Files []string `toml:"-"`
}

// ServerConfig configures `tada serve`.
type ServerConfig struct {
	Addr  string `toml:"addr"`
	Store string `toml:"store"` // json | sqlite
	Data  string `toml:"data"`
}

// DataPath returns Data, or a default file name for the chosen store.
func (s ServerConfig) DataPath() string {
	if s.Data != "" {
		return s.Data
	}
	if s.Store == "sqlite" {
		return "items.db"
	}
	return "items.json"
}

// Load reads configuration in priority order:
// 1. Defaults
// 2. User config file (~/.tada/config.toml, or $TADA_CONFIG)
// 3. Project config file (./tada.toml)
// 4. Environment variables
func Load() (*Config, error) {
	return LoadFrom(findUserConfigFile(), findProjectConfigFile())
}

// LoadUser is Load with path in place of the user config file lookup.
func LoadUser(path string) (*Config, error) {
	return LoadFrom(path, findProjectConfigFile())
}

// LoadFrom is Load with explicit file paths; empty paths are skipped.
func LoadFrom(files ...string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	for _, f := range files {
		if f == "" {
			continue
		}
		if err := loadConfigFile(cfg, f); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", f, err)
		}
		cfg.Files = append(cfg.Files, f)
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.Timeout = DefaultTimeout.String()
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Theme = DefaultTheme
	cfg.Server = ServerConfig{
		Addr:  DefaultAddr,
		Store: DefaultStore,
	}
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	cfg.APIURL = getEnv("TADA_API_URL", cfg.APIURL)
	cfg.Timeout = getEnv("TADA_TIMEOUT", cfg.Timeout)
	cfg.LogFile = getEnv("TADA_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = getEnv("TADA_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("TADA_LOG_FORMAT", cfg.LogFormat)
	cfg.Theme = getEnv("TADA_THEME", cfg.Theme)
	cfg.Server.Addr = getEnv("TADA_ADDR", cfg.Server.Addr)
	cfg.Server.Store = getEnv("TADA_STORE", cfg.Server.Store)
	cfg.Server.Data = getEnv("TADA_DATA", cfg.Server.Data)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks values that would otherwise fail late, deep inside a request.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url: want an http(s) URL, got %q", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url: missing host in %q", c.APIURL)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	switch c.Server.Store {
	case "json", "sqlite":
	default:
		return fmt.Errorf("server.store: want json or sqlite, got %q", c.Server.Store)
	}
	return nil
}

// TimeoutDuration parses Timeout. Zero disables the client timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	if d < 0 {
		return 0, errors.New("timeout: must not be negative")
	}
	return d, nil
}

func findUserConfigFile() string {
	if p := strings.TrimSpace(os.Getenv("TADA_CONFIG")); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return existing(filepath.Join(home, userDirName, userFileName))
}

func findProjectConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return existing(filepath.Join(wd, projectFileName))
}

func existing(p string) string {
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		return p
	}
	return ""
}
