//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest  = "org.freedesktop.Notifications"
	notifyPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyIface = "org.freedesktop.Notifications"
)

type busNotifier struct {
	obj dbus.BusObject
}

// New connects to the notification server on the session bus. Without a
// session bus it returns Nop so the caller can carry on silently.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return Nop{}, nil //nolint:nilerr // notifications are optional
	}
	return &busNotifier{obj: conn.Object(notifyDest, notifyPath)}, nil
}

// Notify implements Notifier.
func (b *busNotifier) Notify(n Notification) (uint32, error) {
	var id uint32
	err := b.obj.Call(notifyIface+".Notify", 0,
		appName,
		n.ReplacesID,
		n.Icon,
		n.Title,
		n.Body,
		[]string{},
		hints(n.Urgency),
		n.Timeout,
	).Store(&id)
	if err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}
	return id, nil
}

// Close implements Notifier.
func (b *busNotifier) Close(id uint32) error {
	if err := b.obj.Call(notifyIface+".CloseNotification", 0, id).Err; err != nil {
		return fmt.Errorf("close notification %d: %w", id, err)
	}
	return nil
}

func hints(u Urgency) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(u)),
		"desktop-entry": dbus.MakeVariant(appName),
		"category":      dbus.MakeVariant("x-lyricbar.lyrics"),
	}
}
