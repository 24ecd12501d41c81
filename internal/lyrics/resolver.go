package lyrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/llehouerou/lyricbar/internal/host"
)

// Messages shown while resolving.
const (
	LoadingMessage  = "Loading..."
	NotFoundMessage = "Lyrics not found.\n" +
		"Please consider finding/creating correct lyrics and adding them to the Open Lyrics Database:\n" +
		"https://github.com/Lyrics/lyrics/wiki/Contributing"
)

// Sources reported in FetchResult besides provider names.
const (
	SourceTag       = "tag"
	SourceCache     = "cache"
	SourceNotFound  = "not_found"
	SourceSkipped   = "skipped"
	SourceCancelled = "cancelled"
)

// FetchResult describes how a resolution ended.
type FetchResult struct {
	Text   string
	Source string // SourceTag, SourceCache, a provider name, SourceNotFound, SourceSkipped or SourceCancelled
}

// Options configures a Resolver.
type Options struct {
	Metadata host.Metadata
	Files    host.Files // optional
	Cache    *Cache
	Chain    *Chain
	Display  host.Display
	Logger   *slog.Logger
}

// Resolver is the lyrics session: it resolves lyrics for track changes and
// remembers the last track it resolved.
type Resolver struct {
	meta    host.Metadata
	tags    *TagSource
	cache   *Cache
	chain   *Chain
	display host.Display
	logger  *slog.Logger

	mu      sync.Mutex
	last    host.TrackID
	hasLast bool
}

// NewResolver creates a resolver session.
func NewResolver(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chain := opts.Chain
	if chain == nil {
		chain = NewChain(logger)
	}
	display := opts.Display
	if display == nil {
		display = host.DisplayFunc(func(host.TrackID, string) {})
	}
	return &Resolver{
		meta:    opts.Metadata,
		tags:    NewTagSource(opts.Metadata, opts.Files, logger),
		cache:   opts.Cache,
		chain:   chain,
		display: display,
		logger:  logger.With("component", "resolver"),
	}
}

// Cache returns the cache used by the resolver.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Reset forgets the last resolved track, so the next Resolve for it runs
// again. Call it when playback stops.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = ""
	r.hasLast = false
}

// remember records id as the last resolved track. It returns false when id
// was already the last one.
func (r *Resolver) remember(id host.TrackID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasLast && r.last == id {
		return false
	}
	r.last = id
	r.hasLast = true
	return true
}

// Resolve finds lyrics for t and publishes them, trying in order:
//  1. lyrics embedded in the track
//  2. the disk cache
//  3. the provider chain, caching what it finds
//
// Resolving the same track twice in a row is a no-op. A resolution whose
// ctx ends before the providers answer publishes nothing more and reports
// SourceCancelled.
func (r *Resolver) Resolve(ctx context.Context, t host.Track) FetchResult {
	id := t.ID()
	if !r.remember(id) {
		return FetchResult{Source: SourceSkipped}
	}

	if res := r.tags.Fetch(t); res.IsFound() {
		r.display.Publish(id, res.Text)
		return FetchResult{Text: res.Text, Source: SourceTag}
	}

	r.display.Publish(id, LoadingMessage)

	artist, title := host.ArtistTitle(r.meta, t)
	key := Key{Artist: artist, Title: title}
	if !key.Valid() {
		r.logger.Debug("track lacks artist or title", "track", id)
		return r.notFound(id)
	}

	if r.cache != nil {
		if res := r.cache.Load(key); res.IsFound() {
			r.display.Publish(id, res.Text)
			return FetchResult{Text: res.Text, Source: SourceCache}
		}
	}

	req := Request{
		Track: id,
		Key:   key,
		Partial: func(text string) {
			r.display.Publish(id, text)
		},
	}
	res, provider := r.chain.Fetch(ctx, req)
	if !res.IsFound() {
		if ctx.Err() != nil {
			// Interrupted before every provider answered; nothing to show.
			r.logger.Debug("resolution cancelled", "track", id)
			return FetchResult{Source: SourceCancelled}
		}
		return r.notFound(id)
	}

	r.display.Publish(id, res.Text)
	if r.cache != nil && !r.cache.Save(key, res.Text) {
		r.logger.Warn("lyrics not cached", "artist", artist, "title", title)
	}
	return FetchResult{Text: res.Text, Source: provider}
}

func (r *Resolver) notFound(id host.TrackID) FetchResult {
	r.display.Publish(id, NotFoundMessage)
	return FetchResult{Text: NotFoundMessage, Source: SourceNotFound}
}

// RemoveSelected deletes the cache entries of the selected tracks and
// returns how many were removed.
func RemoveSelected(meta host.Metadata, sel host.Selection, cache *Cache) int {
	removed := 0
	for _, t := range sel.Selected() {
		artist, title := host.ArtistTitle(meta, t)
		key := Key{Artist: artist, Title: title}
		if !cache.Exists(key) {
			continue
		}
		if err := cache.Remove(key); err != nil {
			cache.logger.Error("could not remove cache entry", "path", cache.Path(key), "error", err)
			continue
		}
		removed++
	}
	return removed
}
