package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/lyricbar/internal/errmsg"
	"github.com/llehouerou/lyricbar/internal/host"
	"github.com/llehouerou/lyricbar/internal/lyrics"
	"github.com/llehouerou/lyricbar/internal/tags"
)

// ErrPartial is returned when some files of a command failed. Each failure
// has already been reported.
var ErrPartial = errors.New("some files failed")

// loadFiles adds paths to a new library, reporting unreadable files to w.
func (a *App) loadFiles(paths []string, w io.Writer) (*host.Library, []*host.FileTrack, bool) {
	lib := host.NewLibrary()
	tracks := make([]*host.FileTrack, 0, len(paths))
	ok := true
	for _, path := range paths {
		t, err := lib.AddFile(path)
		if err != nil {
			fmt.Fprintln(w, errmsg.FormatWith(errmsg.OpReadTags, path, err))
			ok = false
			continue
		}
		tracks = append(tracks, t)
	}
	return lib, tracks, ok
}

// Get resolves lyrics for audio files and prints them.
func (a *App) Get(ctx context.Context, paths []string, stdout, stderr io.Writer) error {
	lib, tracks, ok := a.loadFiles(paths, stderr)
	resolver := a.NewResolver(lib, lib, nil)

	for i, t := range tracks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		artist, title := host.ArtistTitle(lib, t)
		res := resolver.Resolve(ctx, t)
		if res.Source == lyrics.SourceCancelled {
			return ctx.Err()
		}
		a.logger.Debug("resolved", "track", t.ID(), "source", res.Source)

		if i > 0 {
			fmt.Fprintln(stdout)
		}
		fmt.Fprintf(stdout, "== %s - %s [%s]\n", artist, title, res.Source)
		fmt.Fprintln(stdout, res.Text)
	}

	if !ok {
		return ErrPartial
	}
	return nil
}

// Embed resolves lyrics for audio files and writes them into their tags.
// Files that already carry lyrics or have none anywhere are left untouched.
func (a *App) Embed(ctx context.Context, paths []string, stdout, stderr io.Writer) error {
	lib, tracks, ok := a.loadFiles(paths, stderr)
	resolver := a.NewResolver(lib, lib, nil)

	for _, t := range tracks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		path := string(t.ID())
		res := resolver.Resolve(ctx, t)
		switch res.Source {
		case lyrics.SourceCancelled:
			return ctx.Err()
		case lyrics.SourceTag:
			fmt.Fprintf(stdout, "%s: already has lyrics\n", path)
			continue
		case lyrics.SourceNotFound, lyrics.SourceSkipped:
			fmt.Fprintf(stdout, "%s: no lyrics found\n", path)
			continue
		}
		if err := tags.WriteLyrics(path, res.Text); err != nil {
			fmt.Fprintln(stderr, errmsg.FormatWith(errmsg.OpEmbedLyrics, path, err))
			ok = false
			continue
		}
		fmt.Fprintf(stdout, "%s: lyrics embedded from %s\n", path, res.Source)
	}

	if !ok {
		return ErrPartial
	}
	return nil
}

// Forget removes the cached lyrics of audio files.
func (a *App) Forget(paths []string, stdout, stderr io.Writer) error {
	lib, _, ok := a.loadFiles(paths, stderr)
	lib.SelectAll()

	removed := lyrics.RemoveSelected(lib, lib, a.cache)
	fmt.Fprintf(stdout, "removed %d cached %s\n", removed, plural(removed, "entry", "entries"))

	if !ok {
		return ErrPartial
	}
	return nil
}

// ListCache prints every cache entry with its size and age.
func (a *App) ListCache(stdout io.Writer) error {
	entries, err := a.cache.Entries()
	if err != nil {
		return err
	}

	var total int64
	for _, e := range entries {
		fmt.Fprintf(stdout, "%8s  %-14s  %s\n", humanize.Bytes(uint64(e.Size)), humanize.Time(e.ModTime), e.Name)
		total += e.Size
	}
	fmt.Fprintf(stdout, "%s %s, %s in %s\n",
		humanize.Comma(int64(len(entries))), plural(len(entries), "entry", "entries"),
		humanize.Bytes(uint64(total)), a.cache.Root())
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
