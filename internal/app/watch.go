package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricbar/internal/host"
	"github.com/llehouerou/lyricbar/internal/lyrics"
	"github.com/llehouerou/lyricbar/internal/mpris"
	"github.com/llehouerou/lyricbar/internal/notify"
	"github.com/llehouerou/lyricbar/internal/ui/lyricsview"
)

// trackDisplay is the part of the view the follower drives.
type trackDisplay interface {
	host.Display
	SetTrack(id host.TrackID, artist, title string)
	Stopped()
}

// announcer is the desktop notification sink used when notify is enabled.
type announcer interface {
	Announce(summary, body string, urgency notify.Urgency) error
	Clear() error
}

// Watch follows the configured MPRIS player and shows lyrics for every
// track it plays until the view is closed or ctx is done.
func (a *App) Watch(ctx context.Context) error {
	watcher, err := mpris.Connect(a.cfg.MPRIS.Player, a.logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if a.cfg.Notify.Enabled {
		n, err := notify.New()
		if err != nil {
			return err
		}
		a.announcer = notify.NewAnnouncer(n, a.cfg.Notify.Timeout)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		lyricsview.New(fmt.Sprintf("following %s", watcher.Player())),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	display := lyricsview.NewProgramDisplay(program)
	h := watcher.Session().Host()
	resolver := a.NewResolver(h, h, host.PlayingOnly(h, display))

	events := make(chan mpris.Event)
	go func() {
		if err := watcher.Run(ctx, events); err != nil {
			a.logger.Error("player watch stopped", "error", err)
			display.Status("player lost: " + err.Error())
		}
	}()
	go a.follow(ctx, events, h, resolver, display)

	_, err = program.Run()
	cancel()
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// playerHost is what the follower reads from the player.
type playerHost interface {
	host.Metadata
	host.Player
}

// follow resolves lyrics for player events, one track at a time. A new
// event cancels the resolution in progress and waits for it to return.
// When events closes, the last resolution runs to completion.
func (a *App) follow(ctx context.Context, events <-chan mpris.Event, h playerHost, resolver *lyrics.Resolver, display trackDisplay) {
	cancel := context.CancelFunc(func() {})
	done := make(chan struct{})
	close(done)

	for ev := range events {
		cancel()
		<-done

		switch ev.Kind {
		case mpris.EventStopped:
			resolver.Reset()
			display.Stopped()
			a.clearAnnouncement()
			continue
		case mpris.EventMetadataChanged:
			resolver.Reset()
		case mpris.EventTrackChanged:
		}

		artist, title := host.ArtistTitle(h, ev.Track)
		display.SetTrack(ev.Track.ID(), artist, title)

		var rctx context.Context
		rctx, cancel = context.WithCancel(ctx)
		done = make(chan struct{})
		go func(t host.Track, done chan<- struct{}) {
			defer close(done)
			res := resolver.Resolve(rctx, t)
			if res.Source == lyrics.SourceCancelled || rctx.Err() != nil {
				return
			}
			a.logger.Info("lyrics resolved", "artist", artist, "title", title, "source", res.Source)
			if !host.IsPlaying(h, t) {
				a.logger.Debug("track no longer playing", "track", t.ID())
				return
			}
			a.announce(artist, title, res)
		}(ev.Track, done)
	}

	<-done
	cancel()
}

func (a *App) announce(artist, title string, res lyrics.FetchResult) {
	if a.announcer == nil {
		return
	}

	summary := title
	if artist != "" {
		summary = artist + " - " + title
	}

	var body string
	urgency := notify.UrgencyLow
	switch res.Source {
	case lyrics.SourceSkipped, lyrics.SourceCancelled:
		return
	case lyrics.SourceNotFound:
		body = "No lyrics found"
		urgency = notify.UrgencyNormal
	case lyrics.SourceTag:
		body = "Lyrics from file tags"
	case lyrics.SourceCache:
		body = "Lyrics from cache"
	default:
		body = "Lyrics from " + res.Source
	}

	if err := a.announcer.Announce(summary, body, urgency); err != nil {
		a.logger.Warn("notification failed", "error", err)
	}
}

func (a *App) clearAnnouncement() {
	if a.announcer == nil {
		return
	}
	if err := a.announcer.Clear(); err != nil {
		a.logger.Warn("notification close failed", "error", err)
	}
}
