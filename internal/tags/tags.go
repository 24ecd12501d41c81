// Package tags reads and writes the lyrics-related parts of music file tags.
// It understands ID3v2 (MP3), Vorbis comments (FLAC, Ogg, Opus) and MP4 atoms.
package tags

import (
	"io"
	"strings"
)

// File extensions supported by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// Container magic bytes used to pick a reader.
const (
	id3Magic  = "ID3"
	flacMagic = "fLaC"
)

// Frame identifiers surfaced by ReadFrames.
const (
	// FrameUSLT is the ID3v2 unsynchronised lyrics frame.
	FrameUSLT = "USLT"
	// FrameLyrics is the Vorbis comment / MP4 lyrics field.
	FrameLyrics = "LYRICS"
)

// File is an open music file. *os.File satisfies it.
type File interface {
	io.ReadSeeker
	io.Closer
	Name() string
}

// Frame is one metadata record embedded in a music file.
// Size is the encoded frame body size for ID3v2 frames and the raw comment
// length for Vorbis comments. Text is the decoded payload, with the
// encoding/language/descriptor prefix already stripped for USLT frames.
type Frame struct {
	ID   string
	Size int
	Text string
}

// Info holds the fields needed to look lyrics up for a file.
type Info struct {
	Path   string
	Artist string
	Title  string
	Album  string
	Lyrics string
}

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	ext := strings.ToLower(path)
	if idx := strings.LastIndex(ext, "."); idx >= 0 {
		ext = ext[idx:]
	} else {
		return false
	}
	switch ext {
	case ExtMP3, ExtFLAC, ExtOPUS, ExtOGG, ExtOGA, ExtM4A, ExtMP4:
		return true
	}
	return false
}

// taglibTags wraps a taglib result map with helper methods.
type taglibTags map[string][]string

// get returns the first value for any of the given keys, or empty string if not found.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
