package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// ReadInfo reads the artist, title, album and embedded lyrics of a music file.
// Unlike a full tag read, a missing title is left empty rather than
// replaced by the file name: lyrics lookups need the real title.
func ReadInfo(path string) (*Info, error) {
	if strings.ToLower(filepath.Ext(path)) == ExtMP3 {
		// dhowden/tag has issues with some UTF-16 encoded ID3 tags
		return readMP3Info(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return readInfoWithTaglib(path)
	}

	return &Info{
		Path:   path,
		Artist: m.Artist(),
		Title:  m.Title(),
		Album:  m.Album(),
		Lyrics: m.Lyrics(),
	}, nil
}

// readMP3Info reads MP3 fields using the id3v2 library.
func readMP3Info(path string) (*Info, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	info := &Info{
		Path:   path,
		Artist: id3tag.Artist(),
		Title:  id3tag.Title(),
		Album:  id3tag.Album(),
	}
	for _, fr := range id3tag.GetFrames(FrameUSLT) {
		if uslf, ok := fr.(id3v2.UnsynchronisedLyricsFrame); ok && uslf.Lyrics != "" {
			info.Lyrics = uslf.Lyrics
			break
		}
	}
	return info, nil
}

// readInfoWithTaglib is the fallback when dhowden/tag cannot parse a file.
func readInfoWithTaglib(path string) (*Info, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	tags := taglibTags(rawTags)

	return &Info{
		Path:   path,
		Artist: tags.get(taglib.Artist),
		Title:  tags.get(taglib.Title),
		Album:  tags.get(taglib.Album),
		Lyrics: tags.get(FrameLyrics, "UNSYNCEDLYRICS"),
	}, nil
}
