package host

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/llehouerou/lyricbar/internal/tags"
)

// ErrNoFile is returned when a track has no underlying file.
var ErrNoFile = errors.New("track has no file")

// FileTrack is a track backed by a local music file.
type FileTrack struct {
	id   TrackID
	meta map[string]string
}

// ID implements Track.
func (t *FileTrack) ID() TrackID { return t.id }

// NewTrack creates a track with the given metadata. A non-empty KeyURI
// value is used as the file path.
func NewTrack(id TrackID, meta map[string]string) *FileTrack {
	m := maps.Clone(meta)
	if m == nil {
		m = make(map[string]string)
	}
	return &FileTrack{id: id, meta: m}
}

// Meta returns a copy of the track metadata.
func (t *FileTrack) Meta() map[string]string {
	return maps.Clone(t.meta)
}

// Library is an in-memory host over local music files. It implements
// Metadata, Files, Player and Selection.
type Library struct {
	mu       sync.Mutex
	tracks   []*FileTrack
	byID     map[TrackID]*FileTrack
	selected map[TrackID]bool
	playing  TrackID
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{
		byID:     make(map[TrackID]*FileTrack),
		selected: make(map[TrackID]bool),
	}
}

// AddFile reads the tags of a music file and adds it as a track whose ID is
// the file path.
func (l *Library) AddFile(path string) (*FileTrack, error) {
	info, err := tags.ReadInfo(path)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	t := NewTrack(TrackID(path), map[string]string{
		KeyArtist: info.Artist,
		KeyTitle:  info.Title,
		KeyAlbum:  info.Album,
		KeyLyrics: info.Lyrics,
		KeyURI:    path,
	})
	l.Add(t)
	return t, nil
}

// Add adds a track, replacing any track with the same ID.
func (l *Library) Add(t *FileTrack) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.byID[t.id]; !ok {
		l.tracks = append(l.tracks, t)
	} else {
		for i, existing := range l.tracks {
			if existing.id == t.id {
				l.tracks[i] = t
			}
		}
	}
	l.byID[t.id] = t
}

// Remove drops tracks from the library, clearing their selection.
func (l *Library) Remove(ids ...TrackID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		if _, ok := l.byID[id]; !ok {
			continue
		}
		delete(l.byID, id)
		delete(l.selected, id)
		l.tracks = slices.DeleteFunc(l.tracks, func(t *FileTrack) bool { return t.id == id })
	}
}

// Tracks returns all tracks in insertion order.
func (l *Library) Tracks() []Track {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Track, len(l.tracks))
	for i, t := range l.tracks {
		out[i] = t
	}
	return out
}

// Lock implements Metadata.
func (l *Library) Lock() { l.mu.Lock() }

// Unlock implements Metadata.
func (l *Library) Unlock() { l.mu.Unlock() }

// FindMeta implements Metadata. The caller must hold the lock.
func (l *Library) FindMeta(t Track, key string) (string, bool) {
	ft, ok := l.byID[t.ID()]
	if !ok {
		return "", false
	}
	v, ok := ft.meta[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// OpenFile implements Files.
func (l *Library) OpenFile(t Track) (tags.File, error) {
	path := FindMetaLocked(l, t, KeyURI)
	if path == "" {
		return nil, ErrNoFile
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ReadFrames implements Files.
func (l *Library) ReadFrames(_ Track, f tags.File) ([]tags.Frame, error) {
	return tags.ReadFrames(f)
}

// Play marks a track as playing.
func (l *Library) Play(id TrackID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.playing = id
}

// Stop clears the playing track.
func (l *Library) Stop() { l.Play("") }

// PlayingTrack implements Player.
func (l *Library) PlayingTrack() (Track, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.byID[l.playing]
	if !ok {
		return nil, false
	}
	return t, true
}

// Select marks tracks as selected.
func (l *Library) Select(ids ...TrackID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		l.selected[id] = true
	}
}

// SelectAll marks every track as selected.
func (l *Library) SelectAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.tracks {
		l.selected[t.id] = true
	}
}

// Selected implements Selection. Tracks are returned in insertion order.
func (l *Library) Selected() []Track {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Track
	for _, t := range l.tracks {
		if l.selected[t.id] {
			out = append(out, t)
		}
	}
	return out
}

// Verify interfaces at compile time.
var (
	_ Metadata  = (*Library)(nil)
	_ Files     = (*Library)(nil)
	_ Player    = (*Library)(nil)
	_ Selection = (*Library)(nil)
)
