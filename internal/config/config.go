package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Provider names accepted in the providers list.
const (
	ProviderLyricwiki = "lyricwiki"
	ProviderLrclib    = "lrclib"
)

const appName = "lyricbar"

type Config struct {
	CacheDir  string   `koanf:"cache_dir"` // empty means the XDG cache directory
	Providers []string `koanf:"providers"` // queried in order until one has lyrics

	Log       LogConfig       `koanf:"log"`
	HTTP      HTTPConfig      `koanf:"http"`
	Lyricwiki LyricwikiConfig `koanf:"lyricwiki"`
	Lrclib    LrclibConfig    `koanf:"lrclib"`
	MPRIS     MPRISConfig     `koanf:"mpris"`
	Notify    NotifyConfig    `koanf:"notify"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
	Format string `koanf:"format"` // "text", "logfmt", "json"
}

// HTTPConfig holds settings shared by every remote provider.
type HTTPConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`
}

// LyricwikiConfig holds the lyricwiki endpoints. URLs use the {artist} and
// {title} placeholders.
type LyricwikiConfig struct {
	PrimaryURL   string `koanf:"primary_url"`
	SecondaryURL string `koanf:"secondary_url"`
	PagePrefix   string `koanf:"page_prefix"`
	APIPrefix    string `koanf:"api_prefix"`
}

// LrclibConfig holds the lrclib endpoint.
type LrclibConfig struct {
	BaseURL string `koanf:"base_url"` // e.g., "https://lrclib.net/api/"
}

// MPRISConfig selects the player followed by the watch command.
type MPRISConfig struct {
	Player string `koanf:"player"` // bus name suffix, e.g. "spotify"; empty picks the first player
}

// NotifyConfig controls desktop notifications sent by the watch command.
type NotifyConfig struct {
	Enabled bool          `koanf:"enabled"`
	Timeout time.Duration `koanf:"timeout"` // 0 lets the notification server decide
}

// Default returns the configuration used when no file sets a value.
// Endpoint fields left empty fall back to each provider's own defaults.
func Default() *Config {
	return &Config{
		Providers: []string{ProviderLyricwiki, ProviderLrclib},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		HTTP: HTTPConfig{
			Timeout: 10 * time.Second,
		},
	}
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given files in order (last wins). Missing files are
// skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.CacheDir != "" {
		cfg.CacheDir = expandPath(cfg.CacheDir)
	}

	for i, name := range cfg.Providers {
		cfg.Providers[i] = strings.ToLower(strings.TrimSpace(name))
	}

	cfg.Lrclib.BaseURL = strings.TrimSpace(cfg.Lrclib.BaseURL)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/lyricbar/config.toml
	paths = append(paths, filepath.Join(xdg.ConfigHome, appName, "config.toml"))

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ProviderNames lists the providers lyricbar knows about.
func ProviderNames() []string {
	return []string{ProviderLyricwiki, ProviderLrclib}
}

// Validate reports unknown providers, duplicate providers and bad log settings.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Providers))
	for _, name := range c.Providers {
		if !slices.Contains(ProviderNames(), name) {
			return fmt.Errorf("unknown provider %q (known: %s)", name, strings.Join(ProviderNames(), ", "))
		}
		if seen[name] {
			return fmt.Errorf("provider %q listed twice", name)
		}
		seen[name] = true
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "logfmt", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("negative http timeout %s", c.HTTP.Timeout)
	}
	if c.Notify.Timeout < 0 {
		return fmt.Errorf("negative notify timeout %s", c.Notify.Timeout)
	}
	return nil
}

// HasProvider returns true if the named provider is enabled.
func (c *Config) HasProvider(name string) bool {
	return slices.Contains(c.Providers, name)
}

// LogFile returns where the watch command writes its log.
func LogFile() (string, error) {
	return xdg.StateFile(filepath.Join(appName, appName+".log"))
}
