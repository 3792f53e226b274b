// Package config resolves client settings.
//
// Precedence, lowest first: built-in defaults, ~/.wishlist/config.json,
// WISHLIST_* environment variables, command-line flags (applied by the cli
// package).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppName = "wishlist"

	// EnvPrefix prefixes every environment override (WISHLIST_BASE_URL, ...).
	EnvPrefix = "WISHLIST"

	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second
	DefaultTailGap = 1000
	DefaultFormat  = "json"
	configFileName = "config.json"
	stateFileName  = "state.sqlite"
	logFileName    = "wishlist.log"
)

type Config struct {
	// BaseURL is the root of the wishlist service.
	BaseURL string `json:"baseUrl,omitempty" envconfig:"BASE_URL"`

	// Timeout bounds each request; zero disables it.
	Timeout Duration `json:"timeout,omitempty" envconfig:"TIMEOUT"`

	// TailGap is added to the last row's position when an item is dropped on
	// the last row.
	TailGap int64 `json:"tailGap,omitempty" envconfig:"TAIL_GAP"`

	// LogFile receives JSON logs. "-" disables logging.
	LogFile string `json:"logFile,omitempty" envconfig:"LOG_FILE"`
	Debug   bool   `json:"debug,omitempty" envconfig:"DEBUG"`

	// Format is the CLI output format (json|table).
	Format string `json:"format,omitempty" envconfig:"FORMAT"`

	// StateDir holds the local session database. Defaults to the config dir.
	StateDir string `json:"stateDir,omitempty" envconfig:"STATE_DIR"`

	TUI TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is light|dark|auto.
	Theme string `json:"theme,omitempty" envconfig:"THEME"`
	// Mouse enables mouse drag-and-drop in the item panel.
	Mouse *bool `json:"mouse,omitempty"`
}

// MouseEnabled defaults to true.
func (t TUIConfig) MouseEnabled() bool { return t.Mouse == nil || *t.Mouse }

// Duration is a time.Duration that reads "30s"-style strings from JSON and
// the environment.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int64
		if err2 := json.Unmarshal(b, &n); err2 != nil {
			return fmt.Errorf("duration must be a string like \"30s\": %w", err)
		}
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	return d.Decode(s)
}

// Decode implements envconfig.Decoder.
func (d *Duration) Decode(s string) error {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func Defaults() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: Duration(DefaultTimeout),
		TailGap: DefaultTailGap,
		Format:  DefaultFormat,
	}
}

// Dir returns the config directory. WISHLIST_CONFIG_DIR overrides it, which
// keeps tests away from the real home directory.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+AppName), nil
}

// Load builds the config from defaults, the config file in dir (if present)
// and the environment. An empty dir means Dir().
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		d, err := Dir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	cfg := Defaults()

	b, err := os.ReadFile(filepath.Join(dir, configFileName))
	switch {
	case err == nil:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Join(dir, configFileName), err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	// No default tags: unset variables leave file/default values in place.
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if strings.TrimSpace(cfg.StateDir) == "" {
		cfg.StateDir = dir
	}
	if strings.TrimSpace(cfg.LogFile) == "" {
		cfg.LogFile = filepath.Join(dir, logFileName)
	}
	return &cfg, nil
}

// Save writes cfg to dir/config.json.
func Save(dir string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, configFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base url must be an absolute http(s) URL: %q", c.BaseURL)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if c.TailGap <= 0 {
		return errors.New("tail gap must be positive")
	}
	switch c.Format {
	case "json", "table":
	default:
		return fmt.Errorf("unknown format: %s", c.Format)
	}
	return nil
}

// StatePath is the local session database.
func (c *Config) StatePath() string {
	return filepath.Join(c.StateDir, stateFileName)
}

// LogPath returns the log file, or "" when logging is disabled.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) == "-" {
		return ""
	}
	return c.LogFile
}
