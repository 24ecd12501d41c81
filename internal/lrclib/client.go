// Package lrclib provides a client for the lrclib.net lyrics API.
package lrclib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when lrclib has no record for the query.
	ErrNotFound = errors.New("lyrics not found")
	// ErrStatus wraps any other non-200 answer.
	ErrStatus = errors.New("unexpected status")
)

const (
	// DefaultBaseURL is the public lrclib.net API.
	DefaultBaseURL   = "https://lrclib.net/api"
	DefaultUserAgent = "lyricbar/1.0 (https://github.com/llehouerou/lyricbar)"
)

// Client is an lrclib.net API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another lrclib instance.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a new lrclib client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LyricsResult represents the response from the lrclib API.
type LyricsResult struct {
	ID           int     `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Get returns the exact match for artist and title. A positive duration
// narrows the match to tracks of that length, to the second.
func (c *Client) Get(ctx context.Context, artist, title string, duration time.Duration) (*LyricsResult, error) {
	params := url.Values{
		"artist_name": {artist},
		"track_name":  {title},
	}
	if duration > 0 {
		params.Set("duration", strconv.Itoa(int(duration.Round(time.Second).Seconds())))
	}

	var result LyricsResult
	if err := c.getJSON(ctx, "get", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search returns every record matching a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]LyricsResult, error) {
	var results []LyricsResult
	if err := c.getJSON(ctx, "search", url.Values{"q": {query}}, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// getJSON GETs an API endpoint and decodes the body into out. A 404 maps
// to ErrNotFound.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s: %w: %s", endpoint, ErrStatus, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// HasSyncedLyrics returns true if the result contains synced (LRC) lyrics.
func (r *LyricsResult) HasSyncedLyrics() bool {
	return r.SyncedLyrics != ""
}

// HasPlainLyrics returns true if the result contains plain text lyrics.
func (r *LyricsResult) HasPlainLyrics() bool {
	return r.PlainLyrics != ""
}
