package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sorrow446/go-mp4tag"
	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
	"go.senan.xyz/taglib"
)

// lyricsLanguage is the ISO-639-2 code written into new USLT frames.
const lyricsLanguage = "eng"

// WriteLyrics embeds plain lyrics into a music file, replacing any lyrics
// already present. The file must already exist and is modified in place.
func WriteLyrics(path, lyrics string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtMP3:
		return writeMP3Lyrics(path, lyrics)
	case ExtFLAC:
		return writeFLACLyrics(path, lyrics)
	case ExtM4A, ExtMP4:
		return writeM4ALyrics(path, lyrics)
	case ExtOPUS, ExtOGG, ExtOGA:
		return writeLyricsWithTaglib(path, lyrics)
	default:
		return fmt.Errorf("unsupported file format: %s", ext)
	}
}

func writeMP3Lyrics(path, lyrics string) error {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer id3tag.Close()

	id3tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	id3tag.DeleteFrames(FrameUSLT)
	id3tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
		Encoding: id3v2.EncodingUTF8,
		Language: lyricsLanguage,
		Lyrics:   lyrics,
	})

	if err := id3tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

func writeFLACLyrics(path, lyrics string) error {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	cmtIdx := -1
	for i, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			cmtIdx = i
			break
		}
	}

	// Keep every existing comment except previous lyrics
	cmts := flacvorbis.New()
	if cmtIdx >= 0 {
		existing, err := flacvorbis.ParseFromMetaDataBlock(*f.Meta[cmtIdx])
		if err != nil {
			return fmt.Errorf("parse vorbis comment: %w", err)
		}
		cmts.Vendor = existing.Vendor
		for _, c := range existing.Comments {
			key, _, _ := strings.Cut(c, "=")
			if normalizeCommentKey(key) == FrameLyrics {
				continue
			}
			cmts.Comments = append(cmts.Comments, c)
		}
	}
	if err := cmts.Add(FrameLyrics, lyrics); err != nil {
		return fmt.Errorf("add lyrics: %w", err)
	}

	block := cmts.Marshal()
	if cmtIdx >= 0 {
		f.Meta[cmtIdx] = &block
	} else {
		f.Meta = append(f.Meta, &block)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

// writeM4ALyrics sets the ©lyr atom, leaving other atoms untouched.
func writeM4ALyrics(path, lyrics string) error {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer mp4.Close()

	if err := mp4.Write(&mp4tag.MP4Tags{Lyrics: lyrics}, nil); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func writeLyricsWithTaglib(path, lyrics string) error {
	if err := taglib.WriteTags(path, map[string][]string{FrameLyrics: {lyrics}}, 0); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}
