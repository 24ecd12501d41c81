package mpris

import (
	"maps"

	"github.com/godbus/dbus/v5"

	"github.com/llehouerou/lyricbar/internal/host"
)

// EventKind tells what changed on the player.
type EventKind int

const (
	// EventTrackChanged means a different track started.
	EventTrackChanged EventKind = iota
	// EventMetadataChanged means the current track's metadata was updated,
	// typically when a player fills in tags after announcing the track.
	EventMetadataChanged
	// EventStopped means nothing is playing anymore.
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventTrackChanged:
		return "track_changed"
	case EventMetadataChanged:
		return "metadata_changed"
	case EventStopped:
		return "stopped"
	}
	return "unknown"
}

// Event is emitted by Session.Update.
type Event struct {
	Kind  EventKind
	Track host.Track // nil for EventStopped
}

// Session keeps the state of one followed player. Its library holds only
// the current track and serves as the lyrics host.
type Session struct {
	lib     *host.Library
	current host.TrackID
	meta    map[string]string
}

// NewSession creates an idle session.
func NewSession() *Session {
	return &Session{lib: host.NewLibrary()}
}

// Host returns the host implementation backed by the session.
func (s *Session) Host() *host.Library { return s.lib }

// Update applies a player state and reports what changed. Paused tracks
// stay current. Update is not safe for concurrent use.
func (s *Session) Update(status Status, metadata map[string]dbus.Variant) (Event, bool) {
	var track *host.FileTrack
	ok := false
	if status != StatusStopped {
		track, ok = TrackFromMetadata(metadata)
	}

	if !ok {
		if s.current == "" {
			return Event{}, false
		}
		s.lib.Stop()
		s.lib.Remove(s.current)
		s.current = ""
		s.meta = nil
		return Event{Kind: EventStopped}, true
	}

	meta := track.Meta()
	if track.ID() == s.current {
		if maps.Equal(meta, s.meta) {
			return Event{}, false
		}
		s.lib.Add(track)
		s.meta = meta
		return Event{Kind: EventMetadataChanged, Track: track}, true
	}

	if s.current != "" {
		s.lib.Remove(s.current)
	}
	s.lib.Add(track)
	s.lib.Play(track.ID())
	s.current = track.ID()
	s.meta = meta
	return Event{Kind: EventTrackChanged, Track: track}, true
}
