package notify

import (
	"sync"
	"time"
)

// Announcer keeps a single notification on screen, replacing the previous
// one on every call.
type Announcer struct {
	notifier Notifier
	timeout  int32

	mu   sync.Mutex
	last uint32
}

// NewAnnouncer wraps n. A zero timeout leaves expiry to the server.
func NewAnnouncer(n Notifier, timeout time.Duration) *Announcer {
	ms := int32(-1)
	if timeout > 0 {
		ms = int32(timeout / time.Millisecond)
	}
	return &Announcer{notifier: n, timeout: ms}
}

// Announce shows summary and body, replacing the last announcement.
func (a *Announcer) Announce(summary, body string, urgency Urgency) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, err := a.notifier.Notify(Notification{
		Title:      summary,
		Body:       body,
		Icon:       "audio-x-generic",
		Timeout:    a.timeout,
		ReplacesID: a.last,
		Urgency:    urgency,
	})
	if err != nil {
		return err
	}
	a.last = id
	return nil
}

// Clear closes the last announcement, if any.
func (a *Announcer) Clear() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.last == 0 {
		return nil
	}
	id := a.last
	a.last = 0
	return a.notifier.Close(id)
}
