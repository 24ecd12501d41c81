// Package mpris follows a media player over the MPRIS D-Bus interface and
// exposes what it plays as a lyrics host.
package mpris

import (
	"net/url"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/llehouerou/lyricbar/internal/host"
)

// D-Bus names of the MPRIS specification.
const (
	busPrefix     = "org.mpris.MediaPlayer2."
	objectPath    = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	playerIface   = "org.mpris.MediaPlayer2.Player"
	propsIface    = "org.freedesktop.DBus.Properties"
	propsChanged  = propsIface + ".PropertiesChanged"
	noTrackPath   = "/org/mpris/MediaPlayer2/TrackList/NoTrack"
	propStatus    = "PlaybackStatus"
	propMetadata  = "Metadata"
	metaTrackID   = "mpris:trackid"
	metaArtist    = "xesam:artist"
	metaTitle     = "xesam:title"
	metaAlbum     = "xesam:album"
	metaURL       = "xesam:url"
	metaLyrics    = "xesam:asText"
	artistJoinSep = ", "
)

// Status is an MPRIS playback status.
type Status string

const (
	StatusPlaying Status = "Playing"
	StatusPaused  Status = "Paused"
	StatusStopped Status = "Stopped"
)

// TrackFromMetadata maps an MPRIS metadata dictionary to a host track.
// It returns false when the player reports no track.
func TrackFromMetadata(m map[string]dbus.Variant) (*host.FileTrack, bool) {
	meta := map[string]string{
		host.KeyArtist: strings.Join(stringsValue(m[metaArtist]), artistJoinSep),
		host.KeyTitle:  stringValue(m[metaTitle]),
		host.KeyAlbum:  stringValue(m[metaAlbum]),
		host.KeyLyrics: stringValue(m[metaLyrics]),
	}

	rawURL := stringValue(m[metaURL])
	if path, ok := filePath(rawURL); ok {
		meta[host.KeyURI] = path
	}

	id := stringValue(m[metaTrackID])
	if id == noTrackPath {
		id = ""
	}
	if id == "" {
		id = rawURL
	}
	if id == "" && (meta[host.KeyArtist] != "" || meta[host.KeyTitle] != "") {
		id = meta[host.KeyArtist] + "\x00" + meta[host.KeyTitle]
	}
	if id == "" {
		return nil, false
	}
	return host.NewTrack(host.TrackID(id), meta), true
}

// filePath returns the local path of a file:// URL.
func filePath(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return "", false
	}
	return u.Path, true
}

func stringValue(v dbus.Variant) string {
	switch s := v.Value().(type) {
	case string:
		return s
	case dbus.ObjectPath:
		return string(s)
	}
	return ""
}

// stringsValue accepts both the standard string list and a bare string,
// which some players send for xesam:artist.
func stringsValue(v dbus.Variant) []string {
	switch s := v.Value().(type) {
	case []string:
		return s
	case string:
		if s == "" {
			return nil
		}
		return []string{s}
	}
	return nil
}
