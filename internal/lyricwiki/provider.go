// Package lyricwiki fetches lyrics from the Open Lyrics Database, falling
// back to a LyricWiki-style MediaWiki site.
//
// A lookup takes up to three requests: the primary database page, the wiki
// search API (whose truncated lyrics are published immediately), and the
// wiki revision API for the full article.
package lyricwiki

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/llehouerou/lyricbar/internal/lyrics"
)

// ProviderName identifies the provider in configuration.
const ProviderName = "lyricwiki"

// Disclaimers prepended to lyrics coming from the wiki.
const (
	FallbackDisclaimer = "Lyrics found on a fallback database (LyricWiki - lyrics.wikia.com)\n" +
		"Please make sure the following lyrics are correct and add the text to the Open Lyrics Database:\n" +
		"https://github.com/Lyrics/lyrics/wiki/Contributing\n\n"
	NetworkErrorDisclaimer = "Lyrics found on a fallback database (LyricWiki - lyrics.wikia.com) - " +
		"the Open Lyrics Database server seems down:\n" +
		"https://github.com/Lyrics/lyrics\n"
)

// Values the servers use to say they have nothing.
const (
	primaryNotFound   = "Not Found"
	secondaryNotFound = "Not found"
)

// Element names read from the responses.
const (
	elemPre      = "pre"
	elemLyrics   = "lyrics"
	elemURL      = "url"
	elemRevision = "rev"
)

var lyricsMarkupRe = regexp.MustCompile(`(?s)<lyrics>\s*(.*?)\s*</lyrics>`)

// Config holds endpoints and HTTP settings. URL templates use the
// {artist} and {title} placeholders, filled with query-escaped values.
type Config struct {
	PrimaryURL   string
	SecondaryURL string
	// PagePrefix is the wiki front-end prefix of article URLs returned by
	// the secondary search; it is replaced by APIPrefix to fetch raw content.
	PagePrefix string
	APIPrefix  string
	UserAgent  string
	Timeout    time.Duration
}

// DefaultConfig returns the historical public endpoints. They are HTTP only.
func DefaultConfig() Config {
	return Config{
		PrimaryURL:   "http://lyrics.rys.pw/?artist={artist}&title={title}",
		SecondaryURL: "http://lyrics.wikia.com/api.php?action=lyrics&fmt=xml&artist={artist}&song={title}",
		PagePrefix:   "http://lyrics.wikia.com/",
		APIPrefix:    "http://lyrics.wikia.com/api.php?action=query&prop=revisions&rvprop=content&format=xml&titles=",
		UserAgent:    "lyricbar/1.0 (https://github.com/llehouerou/lyricbar)",
		Timeout:      10 * time.Second,
	}
}

// Provider implements lyrics.Provider.
type Provider struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a provider.
func New(cfg Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With("component", ProviderName),
	}
}

// Name implements lyrics.Provider.
func (p *Provider) Name() string { return ProviderName }

// Fetch implements lyrics.Provider.
func (p *Provider) Fetch(ctx context.Context, req lyrics.Request) lyrics.Result {
	artist, title := escape(req.Key.Artist), escape(req.Key.Title)

	disclaimer := FallbackDisclaimer
	primaryURL := expand(p.cfg.PrimaryURL, artist, title)
	p.logger.Debug("querying primary database", "url", primaryURL)

	text, err := p.readPrimary(ctx, primaryURL)
	switch {
	case err != nil:
		p.logger.Warn("couldn't read primary database, maybe the server is down", "url", primaryURL, "error", err)
		disclaimer = NetworkErrorDisclaimer
	case text == primaryNotFound:
		return lyrics.NotFoundResult()
	case text != "":
		return lyrics.FoundResult(text)
	}

	return p.fetchSecondary(ctx, req, expand(p.cfg.SecondaryURL, artist, title), disclaimer)
}

// readPrimary returns the text following the first pre element, or "" when
// the page has none.
func (p *Provider) readPrimary(ctx context.Context, rawURL string) (string, error) {
	var text string
	err := p.scan(ctx, rawURL, func(name string, next func() (string, error)) (bool, error) {
		if name != elemPre {
			return false, nil
		}
		var err error
		text, err = next()
		return true, err
	})
	return text, err
}

func (p *Provider) fetchSecondary(ctx context.Context, req lyrics.Request, searchURL, disclaimer string) lyrics.Result {
	p.logger.Debug("querying fallback database", "url", searchURL)

	var pageURL string
	notFound := false
	err := p.scan(ctx, searchURL, func(name string, next func() (string, error)) (bool, error) {
		switch name {
		case elemLyrics:
			value, err := next()
			if err != nil {
				return true, err
			}
			if value == secondaryNotFound {
				notFound = true
				return true, nil
			}
			// Show the cropped lyrics until the full article arrives
			req.PublishPartial(disclaimer + "\n" + value)
		case elemURL:
			value, err := next()
			pageURL = strings.TrimSpace(value)
			return true, err
		}
		return false, nil
	})
	if err != nil {
		return lyrics.FailedResult(err)
	}
	if notFound || pageURL == "" {
		return lyrics.NotFoundResult()
	}

	revisionURL, ok := rewriteToRevisionURL(pageURL, p.cfg.PagePrefix, p.cfg.APIPrefix)
	if !ok {
		p.logger.Warn("unexpected article URL", "url", pageURL, "prefix", p.cfg.PagePrefix)
		return lyrics.NotFoundResult()
	}
	p.logger.Debug("fetching full article", "url", revisionURL)

	raw, err := p.readRevision(ctx, revisionURL)
	if err != nil {
		return lyrics.FailedResult(err)
	}

	body, ok := extractLyrics(raw)
	if !ok {
		return lyrics.NotFoundResult()
	}
	return lyrics.FoundResult(disclaimer + body)
}

// readRevision returns the raw markup of the first rev element.
func (p *Provider) readRevision(ctx context.Context, rawURL string) (string, error) {
	var raw string
	err := p.scan(ctx, rawURL, func(name string, next func() (string, error)) (bool, error) {
		if name != elemRevision {
			return false, nil
		}
		var err error
		raw, err = next()
		return true, err
	})
	return raw, err
}

// rewriteToRevisionURL turns a wiki article URL into a revision API query
// for the same page title.
func rewriteToRevisionURL(pageURL, pagePrefix, apiPrefix string) (string, bool) {
	if pagePrefix == "" || !strings.HasPrefix(pageURL, pagePrefix) {
		return "", false
	}
	return apiPrefix + strings.TrimPrefix(pageURL, pagePrefix), true
}

// extractLyrics returns the trimmed text between <lyrics> and </lyrics>.
func extractLyrics(markup string) (string, bool) {
	m := lyricsMarkupRe.FindStringSubmatch(markup)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
