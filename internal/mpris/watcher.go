//go:build linux

package mpris

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/godbus/dbus/v5"
)

// ErrNoPlayer is returned when no matching MPRIS player is on the bus.
var ErrNoPlayer = errors.New("no MPRIS player found")

// Watcher follows one MPRIS player on the session bus.
type Watcher struct {
	conn    *dbus.Conn
	busName string
	session *Session
	logger  *slog.Logger
}

// Connect opens the session bus and picks a player. An empty name selects
// the first player found; otherwise name is matched against the bus name
// suffix, e.g. "mpv" or "spotify".
func Connect(name string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("list bus names: %w", err)
	}

	busName, ok := pickPlayer(names, name)
	if !ok {
		_ = conn.Close()
		if name != "" {
			return nil, fmt.Errorf("%w: %s", ErrNoPlayer, name)
		}
		return nil, ErrNoPlayer
	}

	return &Watcher{
		conn:    conn,
		busName: busName,
		session: NewSession(),
		logger:  logger.With("component", "mpris", "player", strings.TrimPrefix(busName, busPrefix)),
	}, nil
}

// Session returns the state of the followed player.
func (w *Watcher) Session() *Session { return w.session }

// Player returns the followed bus name.
func (w *Watcher) Player() string { return w.busName }

// Run emits player events until ctx is done. The current state is emitted
// first. Run closes events on return.
func (w *Watcher) Run(ctx context.Context, events chan<- Event) error {
	defer close(events)

	if err := w.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(objectPath),
		dbus.WithMatchInterface(propsIface),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchSender(w.busName),
	); err != nil {
		return fmt.Errorf("subscribe to player: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	w.conn.Signal(signals)
	defer w.conn.RemoveSignal(signals)

	w.poll(ctx, events)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-signals:
			if !ok {
				return errors.New("session bus closed")
			}
			if !isPlayerChange(sig) {
				continue
			}
			w.poll(ctx, events)
		}
	}
}

// Close releases the bus connection.
func (w *Watcher) Close() error {
	return w.conn.Close()
}

// poll reads the full player state and forwards any resulting event.
// A player that cannot be read is treated as stopped.
func (w *Watcher) poll(ctx context.Context, events chan<- Event) {
	status, metadata, err := w.read()
	if err != nil {
		w.logger.Warn("couldn't read player state", "error", err)
		status, metadata = StatusStopped, nil
	}

	ev, changed := w.session.Update(status, metadata)
	if !changed {
		return
	}
	w.logger.Debug("player event", "kind", ev.Kind)

	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func (w *Watcher) read() (Status, map[string]dbus.Variant, error) {
	obj := w.conn.Object(w.busName, objectPath)

	statusProp, err := obj.GetProperty(playerIface + "." + propStatus)
	if err != nil {
		return "", nil, fmt.Errorf("get playback status: %w", err)
	}
	status, _ := statusProp.Value().(string)

	metaProp, err := obj.GetProperty(playerIface + "." + propMetadata)
	if err != nil {
		return "", nil, fmt.Errorf("get metadata: %w", err)
	}
	metadata, _ := metaProp.Value().(map[string]dbus.Variant)

	return Status(status), metadata, nil
}

func isPlayerChange(sig *dbus.Signal) bool {
	if sig.Path != objectPath || sig.Name != propsChanged || len(sig.Body) < 2 {
		return false
	}
	iface, _ := sig.Body[0].(string)
	if iface != playerIface {
		return false
	}
	changed, _ := sig.Body[1].(map[string]dbus.Variant)
	_, status := changed[propStatus]
	_, meta := changed[propMetadata]
	return status || meta
}
