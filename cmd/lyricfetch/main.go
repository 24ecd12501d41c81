// Manual check of a single lyrics provider against the live service.
//
//	go run ./cmd/lyricfetch -provider lyricwiki -artist "Daft Punk" -title "One More Time"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/llehouerou/lyricbar/internal/app"
	"github.com/llehouerou/lyricbar/internal/config"
	"github.com/llehouerou/lyricbar/internal/host"
	"github.com/llehouerou/lyricbar/internal/logging"
	"github.com/llehouerou/lyricbar/internal/lyrics"
)

func main() {
	provider := flag.String("provider", config.ProviderLyricwiki, "provider to query")
	artist := flag.String("artist", "", "track artist")
	title := flag.String("title", "", "track title")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.Log.Level = "debug"
	logger := logging.Setup(cfg.Log, os.Stderr)

	key := lyrics.Key{Artist: *artist, Title: *title}
	if !key.Valid() {
		logger.Error("both -artist and -title are required")
		os.Exit(2)
	}

	p, err := app.NewProvider(*provider, cfg, logger)
	if err != nil {
		logger.Error("couldn't create provider", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res := p.Fetch(ctx, lyrics.Request{
		Track: host.TrackID("fetch"),
		Key:   key,
		Partial: func(text string) {
			logger.Info("partial result", "after", time.Since(start).Round(time.Millisecond))
			fmt.Println(text)
			fmt.Println("----")
		},
	})

	logger.Info("final result", "provider", p.Name(), "status", res.Status, "after", time.Since(start).Round(time.Millisecond), "error", res.Err)
	if res.IsFound() {
		fmt.Println(res.Text)
	}
}
