// Package host defines what the lyrics pipeline needs from the media player
// that embeds it, and provides a file-backed implementation of it.
package host

import "github.com/llehouerou/lyricbar/internal/tags"

// Metadata keys understood by FindMeta.
const (
	KeyArtist = "artist"
	KeyTitle  = "title"
	KeyAlbum  = "album"
	KeyLyrics = "lyrics"
	KeyURI    = ":URI"
)

// TrackID identifies a playable item. It is compared by value.
type TrackID string

// ID implements Track, so a bare ID can stand for its track.
func (id TrackID) ID() TrackID { return id }

// Track is a host-owned playable item. The pipeline only borrows it for
// the duration of a call and keeps nothing but its ID.
type Track interface {
	ID() TrackID
}

// Metadata gives locked access to track metadata.
// Every FindMeta call must happen between Lock and Unlock.
type Metadata interface {
	Lock()
	Unlock()
	FindMeta(t Track, key string) (string, bool)
}

// Files gives access to the audio file behind a track.
type Files interface {
	// OpenFile opens the underlying file. The caller closes it.
	OpenFile(t Track) (tags.File, error)
	// ReadFrames reads the embedded tag frames of an opened file.
	ReadFrames(t Track, f tags.File) ([]tags.Frame, error)
}

// Player reports what is currently playing.
type Player interface {
	PlayingTrack() (Track, bool)
}

// Display shows text for a track. Implementations should ignore text for
// a track that is no longer current.
type Display interface {
	Publish(id TrackID, text string)
}

// Selection lists the tracks the user has selected.
type Selection interface {
	Selected() []Track
}

// IsPlaying reports whether t is the track p is playing.
func IsPlaying(p Player, t Track) bool {
	playing, ok := p.PlayingTrack()
	if !ok || t == nil {
		return false
	}
	return playing.ID() == t.ID()
}

// FindMetaLocked reads one metadata value under the metadata lock.
func FindMetaLocked(m Metadata, t Track, key string) string {
	m.Lock()
	defer m.Unlock()
	v, _ := m.FindMeta(t, key)
	return v
}

// ArtistTitle reads artist and title under a single lock acquisition.
func ArtistTitle(m Metadata, t Track) (artist, title string) {
	m.Lock()
	defer m.Unlock()
	artist, _ = m.FindMeta(t, KeyArtist)
	title, _ = m.FindMeta(t, KeyTitle)
	return artist, title
}

// PlayingOnly wraps d so that text is shown only for the track p is
// playing. Results that arrive after the player moved on are dropped.
func PlayingOnly(p Player, d Display) Display {
	return DisplayFunc(func(id TrackID, text string) {
		if IsPlaying(p, id) {
			d.Publish(id, text)
		}
	})
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(id TrackID, text string)

// Publish implements Display.
func (f DisplayFunc) Publish(id TrackID, text string) { f(id, text) }
