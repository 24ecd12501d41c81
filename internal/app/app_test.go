package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lyricbar/internal/config"
	"github.com/llehouerou/lyricbar/internal/host"
	"github.com/llehouerou/lyricbar/internal/lrclib"
	"github.com/llehouerou/lyricbar/internal/lyrics"
	"github.com/llehouerou/lyricbar/internal/lyricwiki"
	"github.com/llehouerou/lyricbar/internal/mpris"
	"github.com/llehouerou/lyricbar/internal/notify"
	"github.com/llehouerou/lyricbar/internal/tags"
)

// createTaggedMP3 writes a single MPEG frame with an ID3v2 artist and title.
func createTaggedMP3(t *testing.T, name, artist, title string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	frame := make([]byte, 417)
	frame[0], frame[1], frame[2] = 0xff, 0xfb, 0x90
	require.NoError(t, os.WriteFile(path, frame, 0o600))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	tag.SetArtist(artist)
	tag.SetTitle(title)
	require.NoError(t, tag.Save())
	require.NoError(t, tag.Close())
	return path
}

type fakeProvider struct {
	name  string
	fetch func(ctx context.Context, req lyrics.Request) lyrics.Result
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(ctx context.Context, req lyrics.Request) lyrics.Result {
	return p.fetch(ctx, req)
}

func newTestApp(t *testing.T, providers ...lyrics.Provider) *App {
	t.Helper()
	cfg := config.Default()
	cfg.CacheDir = t.TempDir()
	logger := slog.New(slog.DiscardHandler)
	return &App{
		cfg:    cfg,
		logger: logger,
		cache:  lyrics.NewCache(cfg.CacheDir, logger),
		chain:  lyrics.NewChain(logger, providers...),
	}
}

func TestNew_BuildsConfiguredProviders(t *testing.T) {
	cfg := config.Default()
	cfg.CacheDir = t.TempDir()
	cfg.Providers = []string{config.ProviderLrclib, config.ProviderLyricwiki}

	a, err := New(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{lrclib.ProviderName, lyricwiki.ProviderName}, a.Providers())
	assert.Equal(t, cfg.CacheDir, a.Cache().Root())
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Providers = []string{"genius"}

	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestNew_DefaultCacheRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Providers = nil

	a, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, lyrics.DefaultCacheRoot(), a.Cache().Root())
}

func TestLyricwikiConfig_Overrides(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Timeout = 3 * time.Second
	cfg.HTTP.UserAgent = "agent"
	cfg.Lyricwiki.PrimaryURL = "http://primary.test/{artist}/{title}"

	got := lyricwikiConfig(cfg)
	def := lyricwiki.DefaultConfig()

	assert.Equal(t, "http://primary.test/{artist}/{title}", got.PrimaryURL)
	assert.Equal(t, def.SecondaryURL, got.SecondaryURL)
	assert.Equal(t, def.PagePrefix, got.PagePrefix)
	assert.Equal(t, "agent", got.UserAgent)
	assert.Equal(t, 3*time.Second, got.Timeout)
}

func TestGet_CacheHit(t *testing.T) {
	a := newTestApp(t)
	path := createTaggedMP3(t, "a.mp3", "Artist", "Song")
	require.True(t, a.cache.Save(lyrics.Key{Artist: "Artist", Title: "Song"}, "cached words"))
	var stdout, stderr bytes.Buffer

	err := a.Get(context.Background(), []string{path}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "== Artist - Song [cache]\ncached words\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestGet_NotFoundAndUnreadable(t *testing.T) {
	a := newTestApp(t)
	path := createTaggedMP3(t, "a.mp3", "Artist", "Song")
	missing := filepath.Join(t.TempDir(), "missing.mp3")
	var stdout, stderr bytes.Buffer

	err := a.Get(context.Background(), []string{missing, path}, &stdout, &stderr)

	assert.ErrorIs(t, err, ErrPartial)
	assert.Contains(t, stdout.String(), "["+lyrics.SourceNotFound+"]")
	assert.Contains(t, stdout.String(), lyrics.NotFoundMessage)
	assert.Contains(t, stderr.String(), "Failed to read file tags '"+missing+"'")
}

func TestEmbed_WritesProviderLyrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(lrclib.LyricsResult{PlainLyrics: "from lrclib"})
	}))
	defer srv.Close()
	a := newTestApp(t, lrclib.NewProvider(lrclib.New(lrclib.WithBaseURL(srv.URL))))
	path := createTaggedMP3(t, "a.mp3", "Artist", "Song")
	var stdout, stderr bytes.Buffer

	err := a.Embed(context.Background(), []string{path}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "lyrics embedded from lrclib")
	info, err := tags.ReadInfo(path)
	require.NoError(t, err)
	assert.Equal(t, "from lrclib", info.Lyrics)

	stdout.Reset()
	require.NoError(t, a.Embed(context.Background(), []string{path}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "already has lyrics")
}

func TestEmbed_NothingFound(t *testing.T) {
	a := newTestApp(t)
	path := createTaggedMP3(t, "a.mp3", "Artist", "Song")
	var stdout, stderr bytes.Buffer

	require.NoError(t, a.Embed(context.Background(), []string{path}, &stdout, &stderr))

	assert.Contains(t, stdout.String(), "no lyrics found")
	info, err := tags.ReadInfo(path)
	require.NoError(t, err)
	assert.Empty(t, info.Lyrics)
}

func TestForget(t *testing.T) {
	a := newTestApp(t)
	cached := createTaggedMP3(t, "a.mp3", "Artist", "Song")
	uncached := createTaggedMP3(t, "b.mp3", "Artist", "Other")
	key := lyrics.Key{Artist: "Artist", Title: "Song"}
	require.True(t, a.cache.Save(key, "words"))
	var stdout, stderr bytes.Buffer

	require.NoError(t, a.Forget([]string{cached, uncached}, &stdout, &stderr))

	assert.Equal(t, "removed 1 cached entry\n", stdout.String())
	assert.False(t, a.cache.Exists(key))
}

func TestListCache(t *testing.T) {
	a := newTestApp(t)
	require.True(t, a.cache.Save(lyrics.Key{Artist: "A", Title: "One"}, "12345"))
	require.True(t, a.cache.Save(lyrics.Key{Artist: "B", Title: "Two"}, "123"))
	var stdout bytes.Buffer

	require.NoError(t, a.ListCache(&stdout))

	out := stdout.String()
	assert.Contains(t, out, "A-One")
	assert.Contains(t, out, "B-Two")
	assert.Contains(t, out, "5 B")
	assert.Contains(t, out, "2 entries, 8 B in "+a.cache.Root())
}

func TestListCache_Empty(t *testing.T) {
	a := newTestApp(t)
	var stdout bytes.Buffer

	require.NoError(t, a.ListCache(&stdout))
	assert.Equal(t, "0 entries, 0 B in "+a.cache.Root()+"\n", stdout.String())
}

type recordedPublish struct {
	id   host.TrackID
	text string
}

type recordingDisplay struct {
	mu        sync.Mutex
	tracks    []host.TrackID
	publishes []recordedPublish
	stops     int
}

func (d *recordingDisplay) Publish(id host.TrackID, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.publishes = append(d.publishes, recordedPublish{id, text})
}

func (d *recordingDisplay) SetTrack(id host.TrackID, _, _ string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tracks = append(d.tracks, id)
}

func (d *recordingDisplay) Stopped() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
}

func TestFollow_CancelsPreviousResolution(t *testing.T) {
	started := make(chan struct{})
	provider := &fakeProvider{name: "fake", fetch: func(ctx context.Context, req lyrics.Request) lyrics.Result {
		if req.Key.Title == "Slow" {
			close(started)
			<-ctx.Done()
			return lyrics.FailedResult(ctx.Err())
		}
		return lyrics.FoundResult("fast words")
	}}
	a := newTestApp(t, provider)

	lib := host.NewLibrary()
	slow := host.NewTrack("slow", map[string]string{host.KeyArtist: "A", host.KeyTitle: "Slow"})
	fast := host.NewTrack("fast", map[string]string{host.KeyArtist: "A", host.KeyTitle: "Fast"})
	lib.Add(slow)
	lib.Add(fast)
	display := &recordingDisplay{}
	resolver := a.NewResolver(lib, lib, display)

	events := make(chan mpris.Event)
	finished := make(chan struct{})
	go func() {
		a.follow(context.Background(), events, lib, resolver, display)
		close(finished)
	}()

	events <- mpris.Event{Kind: mpris.EventTrackChanged, Track: slow}
	<-started
	events <- mpris.Event{Kind: mpris.EventTrackChanged, Track: fast}
	require.Eventually(t, func() bool {
		return display.has(recordedPublish{"fast", "fast words"})
	}, 2*time.Second, 5*time.Millisecond)
	events <- mpris.Event{Kind: mpris.EventStopped}
	close(events)
	<-finished

	display.mu.Lock()
	defer display.mu.Unlock()
	assert.Equal(t, []host.TrackID{"slow", "fast"}, display.tracks)
	assert.Equal(t, 1, display.stops)
	assert.NotContains(t, display.publishes, recordedPublish{"slow", "fast words"})
	assert.NotContains(t, display.publishes, recordedPublish{"slow", lyrics.NotFoundMessage})
	assert.True(t, a.cache.Exists(lyrics.Key{Artist: "A", Title: "Fast"}))
	assert.False(t, a.cache.Exists(lyrics.Key{Artist: "A", Title: "Slow"}))
}

func TestFollow_ClosedStreamFinishesResolution(t *testing.T) {
	var calls atomic.Int32
	provider := &fakeProvider{name: "fake", fetch: func(_ context.Context, _ lyrics.Request) lyrics.Result {
		calls.Add(1)
		return lyrics.FoundResult("words")
	}}
	a := newTestApp(t, provider)

	lib := host.NewLibrary()
	tr := host.NewTrack("t", map[string]string{host.KeyArtist: "A", host.KeyTitle: "Song"})
	lib.Add(tr)
	display := &recordingDisplay{}
	resolver := a.NewResolver(lib, lib, display)

	events := make(chan mpris.Event, 1)
	events <- mpris.Event{Kind: mpris.EventTrackChanged, Track: tr}
	close(events)
	a.follow(context.Background(), events, lib, resolver, display)

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, display.has(recordedPublish{"t", "words"}))
	assert.False(t, display.has(recordedPublish{"t", lyrics.NotFoundMessage}))
}

func (d *recordingDisplay) has(p recordedPublish) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, got := range d.publishes {
		if got == p {
			return true
		}
	}
	return false
}

func TestFollow_MetadataChangeResolvesAgain(t *testing.T) {
	var calls atomic.Int32
	provider := &fakeProvider{name: "fake", fetch: func(_ context.Context, req lyrics.Request) lyrics.Result {
		calls.Add(1)
		return lyrics.FoundResult("words for " + req.Key.Title)
	}}
	a := newTestApp(t, provider)

	lib := host.NewLibrary()
	partial := host.NewTrack("t", map[string]string{host.KeyArtist: "A"})
	lib.Add(partial)
	display := &recordingDisplay{}
	resolver := a.NewResolver(lib, lib, display)

	events := make(chan mpris.Event)
	finished := make(chan struct{})
	go func() {
		a.follow(context.Background(), events, lib, resolver, display)
		close(finished)
	}()

	events <- mpris.Event{Kind: mpris.EventTrackChanged, Track: partial}
	require.Eventually(t, func() bool {
		return display.has(recordedPublish{"t", lyrics.NotFoundMessage})
	}, 2*time.Second, 5*time.Millisecond)

	full := host.NewTrack("t", map[string]string{host.KeyArtist: "A", host.KeyTitle: "Song"})
	lib.Add(full)
	events <- mpris.Event{Kind: mpris.EventMetadataChanged, Track: full}
	require.Eventually(t, func() bool {
		return display.has(recordedPublish{"t", "words for Song"})
	}, 2*time.Second, 5*time.Millisecond)
	close(events)
	<-finished

	assert.Equal(t, int32(1), calls.Load())
}

type announcement struct {
	summary string
	body    string
	urgency notify.Urgency
}

type recordingAnnouncer struct {
	mu      sync.Mutex
	shown   []announcement
	cleared int
}

func (r *recordingAnnouncer) Announce(summary, body string, urgency notify.Urgency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, announcement{summary, body, urgency})
	return nil
}

func (r *recordingAnnouncer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shown)
}

func (r *recordingAnnouncer) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared++
	return nil
}

func TestFollow_AnnouncesResults(t *testing.T) {
	provider := &fakeProvider{name: "fake", fetch: func(_ context.Context, req lyrics.Request) lyrics.Result {
		if req.Key.Title == "Known" {
			return lyrics.FoundResult("words")
		}
		return lyrics.NotFoundResult()
	}}
	a := newTestApp(t, provider)
	rec := &recordingAnnouncer{}
	a.announcer = rec

	lib := host.NewLibrary()
	known := host.NewTrack("k", map[string]string{host.KeyArtist: "A", host.KeyTitle: "Known"})
	unknown := host.NewTrack("u", map[string]string{host.KeyArtist: "A", host.KeyTitle: "Unknown"})
	lib.Add(known)
	lib.Add(unknown)
	display := &recordingDisplay{}
	resolver := a.NewResolver(lib, lib, display)

	events := make(chan mpris.Event)
	finished := make(chan struct{})
	go func() {
		a.follow(context.Background(), events, lib, resolver, display)
		close(finished)
	}()

	lib.Play("k")
	events <- mpris.Event{Kind: mpris.EventTrackChanged, Track: known}
	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	lib.Play("u")
	events <- mpris.Event{Kind: mpris.EventTrackChanged, Track: unknown}
	require.Eventually(t, func() bool { return rec.count() == 2 }, 2*time.Second, 5*time.Millisecond)
	events <- mpris.Event{Kind: mpris.EventStopped}
	close(events)
	<-finished

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []announcement{
		{"A - Known", "Lyrics from fake", notify.UrgencyLow},
		{"A - Unknown", "No lyrics found", notify.UrgencyNormal},
	}, rec.shown)
	assert.Equal(t, 1, rec.cleared)
}

func TestFollow_NoAnnouncementWhenNotPlaying(t *testing.T) {
	provider := &fakeProvider{name: "fake", fetch: func(_ context.Context, _ lyrics.Request) lyrics.Result {
		return lyrics.FoundResult("words")
	}}
	a := newTestApp(t, provider)
	rec := &recordingAnnouncer{}
	a.announcer = rec

	lib := host.NewLibrary()
	tr := host.NewTrack("t", map[string]string{host.KeyArtist: "A", host.KeyTitle: "Song"})
	lib.Add(tr)
	display := &recordingDisplay{}
	resolver := a.NewResolver(lib, lib, display)

	events := make(chan mpris.Event, 1)
	events <- mpris.Event{Kind: mpris.EventTrackChanged, Track: tr}
	close(events)
	a.follow(context.Background(), events, lib, resolver, display)

	assert.True(t, display.has(recordedPublish{"t", "words"}))
	assert.Zero(t, rec.count())
}

func TestAnnounce_Sources(t *testing.T) {
	a := newTestApp(t)
	rec := &recordingAnnouncer{}
	a.announcer = rec

	a.announce("A", "T", lyrics.FetchResult{Source: lyrics.SourceSkipped})
	a.announce("A", "T", lyrics.FetchResult{Source: lyrics.SourceCancelled})
	a.announce("A", "T", lyrics.FetchResult{Source: lyrics.SourceTag})
	a.announce("", "T", lyrics.FetchResult{Source: lyrics.SourceCache})

	assert.Equal(t, []announcement{
		{"A - T", "Lyrics from file tags", notify.UrgencyLow},
		{"T", "Lyrics from cache", notify.UrgencyLow},
	}, rec.shown)
}

func TestAnnounce_Disabled(t *testing.T) {
	a := newTestApp(t)
	assert.NotPanics(t, func() {
		a.announce("A", "T", lyrics.FetchResult{Source: lyrics.SourceTag})
		a.clearAnnouncement()
	})
}
