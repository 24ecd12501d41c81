package lrclib

import (
	"context"
	"errors"
	"strings"

	"github.com/llehouerou/lyricbar/internal/lyrics"
)

// ProviderName identifies the lrclib provider in configuration.
const ProviderName = "lrclib"

// Provider adapts Client to lyrics.Provider.
type Provider struct {
	client *Client
}

// NewProvider creates an lrclib provider.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name implements lyrics.Provider.
func (p *Provider) Name() string { return ProviderName }

// Fetch implements lyrics.Provider. An exact match is tried first, then a
// free-text search whose first result with lyrics is used.
func (p *Provider) Fetch(ctx context.Context, req lyrics.Request) lyrics.Result {
	result, err := p.client.Get(ctx, req.Key.Artist, req.Key.Title, 0)
	switch {
	case err == nil:
		if text := plainLyrics(result); text != "" {
			return lyrics.FoundResult(text)
		}
	case errors.Is(err, ErrNotFound):
	default:
		return lyrics.FailedResult(err)
	}

	results, err := p.client.Search(ctx, req.Key.Artist+" "+req.Key.Title)
	switch {
	case errors.Is(err, ErrNotFound):
		return lyrics.NotFoundResult()
	case err != nil:
		return lyrics.FailedResult(err)
	}
	for i := range results {
		if text := plainLyrics(&results[i]); text != "" {
			return lyrics.FoundResult(text)
		}
	}
	return lyrics.NotFoundResult()
}

// plainLyrics returns unsynced lyrics for a result, converting synced LRC
// when no plain text is available. Instrumentals have no lyrics.
func plainLyrics(r *LyricsResult) string {
	if r.Instrumental {
		return ""
	}
	if r.HasPlainLyrics() {
		return strings.TrimSpace(r.PlainLyrics)
	}
	if r.HasSyncedLyrics() {
		return lyrics.PlainFromLRC(r.SyncedLyrics)
	}
	return ""
}
