package lyricsview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lyricbar/internal/host"
)

// Sender is implemented by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramDisplay forwards publishes to a running view. It is safe to use
// from any goroutine.
type ProgramDisplay struct {
	sender Sender
}

// NewProgramDisplay creates a display bound to a program.
func NewProgramDisplay(s Sender) *ProgramDisplay {
	return &ProgramDisplay{sender: s}
}

// Publish implements host.Display.
func (d *ProgramDisplay) Publish(id host.TrackID, text string) {
	d.sender.Send(PublishMsg{ID: id, Text: text})
}

// SetTrack switches the view to a new track.
func (d *ProgramDisplay) SetTrack(id host.TrackID, artist, title string) {
	d.sender.Send(TrackMsg{ID: id, Artist: artist, Title: title})
}

// Stopped clears the view.
func (d *ProgramDisplay) Stopped() {
	d.sender.Send(StoppedMsg{})
}

// Status replaces the status line.
func (d *ProgramDisplay) Status(text string) {
	d.sender.Send(StatusMsg(text))
}

var _ host.Display = (*ProgramDisplay)(nil)
