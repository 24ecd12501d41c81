// Package app wires configuration, providers and hosts into the lyricbar
// commands.
package app

import (
	"fmt"
	"log/slog"

	"github.com/llehouerou/lyricbar/internal/config"
	"github.com/llehouerou/lyricbar/internal/host"
	"github.com/llehouerou/lyricbar/internal/lrclib"
	"github.com/llehouerou/lyricbar/internal/lyrics"
	"github.com/llehouerou/lyricbar/internal/lyricwiki"
)

// App holds what every command shares.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	cache  *lyrics.Cache
	chain  *lyrics.Chain

	announcer announcer // nil unless notifications are enabled
}

// New builds the cache and the provider chain from cfg.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	providers := make([]lyrics.Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		p, err := NewProvider(name, cfg, logger)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	root := cfg.CacheDir
	if root == "" {
		root = lyrics.DefaultCacheRoot()
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		cache:  lyrics.NewCache(root, logger),
		chain:  lyrics.NewChain(logger, providers...),
	}, nil
}

// NewProvider builds one provider by name.
func NewProvider(name string, cfg *config.Config, logger *slog.Logger) (lyrics.Provider, error) {
	switch name {
	case config.ProviderLyricwiki:
		return lyricwiki.New(lyricwikiConfig(cfg), logger), nil
	case config.ProviderLrclib:
		return lrclib.NewProvider(lrclib.New(lrclibOptions(cfg)...)), nil
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}

func lyricwikiConfig(cfg *config.Config) lyricwiki.Config {
	c := lyricwiki.DefaultConfig()
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&c.PrimaryURL, cfg.Lyricwiki.PrimaryURL)
	override(&c.SecondaryURL, cfg.Lyricwiki.SecondaryURL)
	override(&c.PagePrefix, cfg.Lyricwiki.PagePrefix)
	override(&c.APIPrefix, cfg.Lyricwiki.APIPrefix)
	override(&c.UserAgent, cfg.HTTP.UserAgent)
	if cfg.HTTP.Timeout > 0 {
		c.Timeout = cfg.HTTP.Timeout
	}
	return c
}

func lrclibOptions(cfg *config.Config) []lrclib.Option {
	var opts []lrclib.Option
	if cfg.Lrclib.BaseURL != "" {
		opts = append(opts, lrclib.WithBaseURL(cfg.Lrclib.BaseURL))
	}
	if cfg.HTTP.UserAgent != "" {
		opts = append(opts, lrclib.WithUserAgent(cfg.HTTP.UserAgent))
	}
	if cfg.HTTP.Timeout > 0 {
		opts = append(opts, lrclib.WithTimeout(cfg.HTTP.Timeout))
	}
	return opts
}

// Cache returns the lyrics cache.
func (a *App) Cache() *lyrics.Cache { return a.cache }

// Providers returns the configured provider names in query order.
func (a *App) Providers() []string { return a.chain.Names() }

// NewResolver creates a resolver session over a host.
func (a *App) NewResolver(meta host.Metadata, files host.Files, display host.Display) *lyrics.Resolver {
	return lyrics.NewResolver(lyrics.Options{
		Metadata: meta,
		Files:    files,
		Cache:    a.cache,
		Chain:    a.chain,
		Display:  display,
		Logger:   a.logger,
	})
}
