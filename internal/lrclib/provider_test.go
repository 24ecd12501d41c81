package lrclib

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lyricbar/internal/lyrics"
)

type fakeAPI struct {
	get          *LyricsResult
	getStatus    int
	search       []LyricsResult
	searchStatus int

	mu        sync.Mutex
	searches  int
	userAgent string
}

func (a *fakeAPI) searchCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.searches
}

func (a *fakeAPI) agent() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userAgent
}

func (a *fakeAPI) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/get", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.userAgent = r.Header.Get("User-Agent")
		a.mu.Unlock()
		assert.Equal(t, "Artist", r.URL.Query().Get("artist_name"))
		assert.Equal(t, "Song/X", r.URL.Query().Get("track_name"))
		if a.getStatus != 0 {
			w.WriteHeader(a.getStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(a.get)
	})
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.searches++
		a.mu.Unlock()
		assert.Equal(t, "Artist Song/X", r.URL.Query().Get("q"))
		if a.searchStatus != 0 {
			w.WriteHeader(a.searchStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(a.search)
	})
	return mux
}

func newTestProvider(t *testing.T, api *fakeAPI) *Provider {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return NewProvider(New(WithBaseURL(srv.URL+"/api/"), WithUserAgent("test-agent")))
}

var testRequest = lyrics.Request{
	Track: "t1",
	Key:   lyrics.Key{Artist: "Artist", Title: "Song/X"},
}

func TestProvider_PlainLyrics(t *testing.T) {
	api := &fakeAPI{get: &LyricsResult{PlainLyrics: "  Line one\nLine two\n"}}
	p := newTestProvider(t, api)

	res := p.Fetch(context.Background(), testRequest)

	assert.Equal(t, lyrics.FoundResult("Line one\nLine two"), res)
	assert.Equal(t, "test-agent", api.agent())
	assert.Zero(t, api.searchCount())
}

func TestProvider_SyncedLyricsConverted(t *testing.T) {
	api := &fakeAPI{get: &LyricsResult{SyncedLyrics: "[00:02.00]Second\n[00:01.00]First"}}
	p := newTestProvider(t, api)

	res := p.Fetch(context.Background(), testRequest)

	assert.Equal(t, lyrics.FoundResult("First\nSecond"), res)
}

func TestProvider_NotFoundFallsBackToSearch(t *testing.T) {
	api := &fakeAPI{
		getStatus: http.StatusNotFound,
		search: []LyricsResult{
			{Instrumental: true, PlainLyrics: "ignored"},
			{PlainLyrics: "found by search"},
		},
	}
	p := newTestProvider(t, api)

	res := p.Fetch(context.Background(), testRequest)

	assert.Equal(t, lyrics.FoundResult("found by search"), res)
	assert.Equal(t, 1, api.searchCount())
}

func TestProvider_NothingAnywhere(t *testing.T) {
	api := &fakeAPI{getStatus: http.StatusNotFound}
	p := newTestProvider(t, api)

	res := p.Fetch(context.Background(), testRequest)

	assert.Equal(t, lyrics.NotFound, res.Status)
}

func TestProvider_ServerErrorFails(t *testing.T) {
	api := &fakeAPI{getStatus: http.StatusInternalServerError}
	p := newTestProvider(t, api)

	res := p.Fetch(context.Background(), testRequest)

	require.Equal(t, lyrics.Failed, res.Status)
	assert.ErrorIs(t, res.Err, ErrStatus)
	assert.Zero(t, api.searchCount())
}

func TestProvider_SearchNotFound(t *testing.T) {
	api := &fakeAPI{getStatus: http.StatusNotFound, searchStatus: http.StatusNotFound}
	p := newTestProvider(t, api)

	res := p.Fetch(context.Background(), testRequest)

	assert.Equal(t, lyrics.NotFound, res.Status)
	assert.NoError(t, res.Err)
}

func TestProvider_SearchFailure(t *testing.T) {
	api := &fakeAPI{getStatus: http.StatusNotFound, searchStatus: http.StatusBadGateway}
	p := newTestProvider(t, api)

	res := p.Fetch(context.Background(), testRequest)

	require.Equal(t, lyrics.Failed, res.Status)
	assert.ErrorIs(t, res.Err, ErrStatus)
}

func TestClient_GetDuration(t *testing.T) {
	seen := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.URL.Query().Get("duration")
		_ = json.NewEncoder(w).Encode(LyricsResult{ID: 7})
	}))
	t.Cleanup(srv.Close)

	res, err := New(WithBaseURL(srv.URL)).Get(context.Background(), "A", "T", 183600*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 7, res.ID)
	assert.Equal(t, "184", <-seen)
}

func TestProvider_Name(t *testing.T) {
	assert.Equal(t, ProviderName, NewProvider(New()).Name())
}
