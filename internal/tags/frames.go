package tags

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
	"go.senan.xyz/taglib"
)

// ReadFrames returns the metadata frames embedded in f.
// The container is detected from its magic bytes, not from the file name.
func ReadFrames(f File) ([]Frame, error) {
	magic := make([]byte, len(flacMagic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}

	switch {
	case string(magic[:len(id3Magic)]) == id3Magic:
		return readID3Frames(f)
	case string(magic) == flacMagic:
		return readFLACFrames(f)
	default:
		return readContainerFrames(f)
	}
}

// readID3Frames lists every ID3v2 frame with its decoded text payload.
func readID3Frames(r io.Reader) ([]Frame, error) {
	id3tag, err := id3v2.ParseReader(r, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("parse id3v2: %w", err)
	}

	all := id3tag.AllFrames()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var frames []Frame
	for _, id := range ids {
		for _, fr := range all[id] {
			frames = append(frames, Frame{
				ID:   id,
				Size: fr.Size(),
				Text: id3FrameText(fr),
			})
		}
	}
	return frames, nil
}

func id3FrameText(fr id3v2.Framer) string {
	switch f := fr.(type) {
	case id3v2.UnsynchronisedLyricsFrame:
		return f.Lyrics
	case id3v2.TextFrame:
		return f.Text
	case id3v2.CommentFrame:
		return f.Text
	case id3v2.UserDefinedTextFrame:
		return f.Value
	}
	return ""
}

// readFLACFrames lists the Vorbis comments of a FLAC stream.
func readFLACFrames(r io.Reader) ([]Frame, error) {
	f, err := goflac.ParseMetadata(r)
	if err != nil {
		return nil, fmt.Errorf("parse flac: %w", err)
	}

	var frames []Frame
	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, fmt.Errorf("parse vorbis comment: %w", err)
		}
		for _, c := range cmts.Comments {
			key, value, ok := strings.Cut(c, "=")
			if !ok {
				continue
			}
			frames = append(frames, Frame{
				ID:   normalizeCommentKey(key),
				Size: len(c),
				Text: value,
			})
		}
	}
	return frames, nil
}

// readContainerFrames handles Ogg, Opus and MP4 files. dhowden/tag is tried
// first; TagLib is the fallback for files it cannot parse.
func readContainerFrames(f File) ([]Frame, error) {
	m, err := tag.ReadFrom(f)
	if err == nil {
		if lyrics := m.Lyrics(); lyrics != "" {
			return []Frame{{ID: FrameLyrics, Size: len(lyrics), Text: lyrics}}, nil
		}
		return nil, nil
	}

	rawTags, err := taglib.ReadTags(f.Name())
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	keys := make([]string, 0, len(rawTags))
	for k := range rawTags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var frames []Frame
	for _, k := range keys {
		for _, v := range rawTags[k] {
			frames = append(frames, Frame{ID: normalizeCommentKey(k), Size: len(v), Text: v})
		}
	}
	return frames, nil
}

// normalizeCommentKey maps the lyrics comment variants used by taggers onto
// FrameLyrics and upper-cases everything else.
func normalizeCommentKey(key string) string {
	key = strings.ToUpper(key)
	if key == "UNSYNCEDLYRICS" || key == "UNSYNCED LYRICS" {
		return FrameLyrics
	}
	return key
}
