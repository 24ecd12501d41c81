//go:build !linux

package notify

// New returns Nop: desktop notifications need a D-Bus session bus.
func New() (Notifier, error) {
	return Nop{}, nil
}
