//go:build !linux

package mpris

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNoPlayer is returned when no matching MPRIS player is on the bus.
var ErrNoPlayer = errors.New("MPRIS is only available on Linux")

// Watcher is unavailable on non-Linux platforms.
type Watcher struct{}

// Connect always fails on non-Linux platforms.
func Connect(_ string, _ *slog.Logger) (*Watcher, error) {
	return nil, ErrNoPlayer
}

// Session returns an idle session.
func (w *Watcher) Session() *Session { return NewSession() }

// Player returns an empty name.
func (w *Watcher) Player() string { return "" }

// Run closes events and returns immediately.
func (w *Watcher) Run(_ context.Context, events chan<- Event) error {
	close(events)
	return ErrNoPlayer
}

// Close is a no-op on non-Linux platforms.
func (w *Watcher) Close() error {
	return nil
}
