package lyrics

import (
	"log/slog"

	"github.com/llehouerou/lyricbar/internal/host"
	"github.com/llehouerou/lyricbar/internal/tags"
)

// usltHeaderLen is the USLT body prefix before the lyrics: text encoding
// (1 byte), language (3 bytes) and an empty descriptor terminator (1 byte).
const usltHeaderLen = 5

// TagSource reads lyrics already embedded in a track.
type TagSource struct {
	meta   host.Metadata
	files  host.Files
	logger *slog.Logger
}

// NewTagSource creates a tag source. files may be nil for hosts without
// file access, in which case only the metadata field is consulted.
func NewTagSource(meta host.Metadata, files host.Files, logger *slog.Logger) *TagSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagSource{
		meta:   meta,
		files:  files,
		logger: logger.With("component", "tags"),
	}
}

// Fetch returns embedded lyrics for t. The free-text lyrics field wins over
// tag frames. Unreadable files are NotFound, never Failed.
func (s *TagSource) Fetch(t host.Track) Result {
	if lyrics := host.FindMetaLocked(s.meta, t, host.KeyLyrics); lyrics != "" {
		return FoundResult(lyrics)
	}
	if s.files == nil {
		return NotFoundResult()
	}
	return s.fetchFromFrames(t)
}

func (s *TagSource) fetchFromFrames(t host.Track) Result {
	f, err := s.files.OpenFile(t)
	if err != nil {
		s.logger.Debug("could not open track file", "track", t.ID(), "error", err)
		return NotFoundResult()
	}
	defer f.Close()

	frames, err := s.files.ReadFrames(t, f)
	if err != nil {
		s.logger.Debug("could not read tag frames", "track", t.ID(), "error", err)
		return NotFoundResult()
	}

	for _, fr := range frames {
		switch fr.ID {
		case tags.FrameUSLT:
			if fr.Size > usltHeaderLen && fr.Text != "" {
				return FoundResult(fr.Text)
			}
		case tags.FrameLyrics:
			if fr.Text != "" {
				return FoundResult(fr.Text)
			}
		}
	}
	return NotFoundResult()
}
