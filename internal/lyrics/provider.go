package lyrics

import (
	"context"
	"log/slog"

	"github.com/llehouerou/lyricbar/internal/host"
)

// Request is a remote lookup for one track.
type Request struct {
	Track host.TrackID
	Key   Key
	// Partial shows intermediate text for Track while the lookup continues.
	Partial func(text string)
}

// PublishPartial forwards text to Partial when set.
func (r Request) PublishPartial(text string) {
	if r.Partial != nil {
		r.Partial(text)
	}
}

// Provider fetches lyrics from one remote source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, req Request) Result
}

// Chain tries providers in order until one finds lyrics.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a chain over providers, queried in the given order.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		providers: providers,
		logger:    logger.With("component", "providers"),
	}
}

// Names returns the provider names in query order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Fetch returns the first Found result and the name of the provider that
// produced it. Providers after a success are not called. When nothing is
// found the result is NotFound and the name is empty.
func (c *Chain) Fetch(ctx context.Context, req Request) (Result, string) {
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return FailedResult(err), ""
		}

		res := p.Fetch(ctx, req)
		switch res.Status {
		case Found:
			c.logger.Debug("lyrics found", "provider", p.Name(), "artist", req.Key.Artist, "title", req.Key.Title)
			return res, p.Name()
		case Failed:
			c.logger.Warn("provider failed", "provider", p.Name(), "artist", req.Key.Artist, "title", req.Key.Title, "error", res.Err)
		case NotFound:
			c.logger.Debug("provider has no lyrics", "provider", p.Name(), "artist", req.Key.Artist, "title", req.Key.Title)
		}
	}
	return NotFoundResult(), ""
}
