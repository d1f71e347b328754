package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/deevus/sankhya-tui/sankhya"
)

// Defaults applied by LoadFrom.
const (
	DefaultSplashDelay  = time.Second
	DefaultToastTimeout = 5 * time.Second
	DefaultStaleTTL     = 30 * time.Second
	DefaultExportFormat = "json"
	DefaultBranch       = 1
)

// Duration is a time.Duration read from a TOML string such as "1s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the top-level configuration.
type Config struct {
	LogFile  string                  `toml:"log_file"`
	LogLevel string                  `toml:"log_level"`
	UI       UIConfig                `toml:"ui"`
	Export   ExportConfig            `toml:"export"`
	Servers  map[string]ServerConfig `toml:"servers"`
}

// UIConfig tunes the terminal UI.
type UIConfig struct {
	SplashDelay  Duration `toml:"splash_delay"`
	ToastTimeout Duration `toml:"toast_timeout"`
	StaleTTL     Duration `toml:"stale_ttl"`
}

// ExportConfig controls where summaries are written.
type ExportConfig struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
}

// ServerConfig holds connection details for one automation backend.
type ServerConfig struct {
	BaseURL            string   `toml:"base_url"`
	APIPath            string   `toml:"api_path"`
	EventsPath         string   `toml:"events_path"`
	DefaultBranch      int      `toml:"default_branch"`
	InsecureSkipVerify bool     `toml:"insecure_skip_verify"`
	RequestTimeout     Duration `toml:"request_timeout"`
}

// DefaultPath returns the default config file path using XDG conventions.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "sankhya-tui", "config.toml")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".cache")
	}
	return filepath.Join(dir, "sankhya-tui", "sankhya-tui.log")
}

// LoadFrom reads and parses the config file at the given path, applies
// defaults and validates server profiles.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("config has no servers defined")
	}

	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogPath()
	}
	cfg.LogFile = expandPath(cfg.LogFile)
	if cfg.UI.SplashDelay.Duration == 0 {
		cfg.UI.SplashDelay.Duration = DefaultSplashDelay
	}
	if cfg.UI.ToastTimeout.Duration == 0 {
		cfg.UI.ToastTimeout.Duration = DefaultToastTimeout
	}
	if cfg.UI.StaleTTL.Duration == 0 {
		cfg.UI.StaleTTL.Duration = DefaultStaleTTL
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = DefaultExportFormat
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "."
	}
	cfg.Export.Dir = expandPath(cfg.Export.Dir)

	for name, server := range cfg.Servers {
		if server.BaseURL == "" {
			return nil, fmt.Errorf("server %q: base_url is required", name)
		}
		u, err := url.Parse(server.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("server %q: base_url %q must be an http(s) URL", name, server.BaseURL)
		}
		if server.APIPath == "" {
			server.APIPath = sankhya.DefaultAPIPath
		}
		if server.EventsPath == "" {
			server.EventsPath = sankhya.DefaultEventPath
		}
		if server.DefaultBranch == 0 {
			server.DefaultBranch = DefaultBranch
		}
		cfg.Servers[name] = server
	}
	return &cfg, nil
}

// expandPath expands ~ to $HOME and then expands all environment variables.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "$HOME" + path[1:]
	}
	return os.ExpandEnv(path)
}

// ServerNames returns the sorted list of server profile names.
func (c *Config) ServerNames() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
