// Package notify shows desktop notifications over D-Bus when lyrics are
// resolved for a new track.
package notify

// Urgency levels of the freedesktop notification protocol.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// appName is sent as the notification's application name.
const appName = "lyricbar"

// Notification is one desktop notification.
type Notification struct {
	Title      string
	Body       string
	Icon       string  // icon name or image path
	Timeout    int32   // milliseconds; -1 lets the server decide, 0 never expires
	ReplacesID uint32  // id of a notification to replace in place
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns the id the server assigned to it.
	Notify(n Notification) (uint32, error)
	// Close removes a notification by id.
	Close(id uint32) error
}

// Nop discards notifications. New returns it when no notification server
// can be reached.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(Notification) (uint32, error) { return 0, nil }

// Close implements Notifier.
func (Nop) Close(uint32) error { return nil }
