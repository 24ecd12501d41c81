// Package lyricsview is the terminal view of the watch command: the current
// track on top and its lyrics in a scrollable viewport.
package lyricsview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/lyricbar/internal/host"
	"github.com/llehouerou/lyricbar/internal/ui/render"
	"github.com/llehouerou/lyricbar/internal/ui/styles"
)

// headerHeight is the track line plus its border.
const (
	headerHeight = 2
	statusHeight = 1
	idleText     = "Nothing playing"
)

// TrackMsg announces the track whose lyrics are about to be published.
type TrackMsg struct {
	ID     host.TrackID
	Artist string
	Title  string
}

// PublishMsg carries text for a track. Text for any other track than the
// current one is discarded.
type PublishMsg struct {
	ID   host.TrackID
	Text string
}

// StoppedMsg clears the view when playback stops.
type StoppedMsg struct{}

// StatusMsg replaces the status line.
type StatusMsg string

type keyMap struct {
	Quit key.Binding
	Top  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Top:  key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	}
}

// Model is a bubbletea model.
type Model struct {
	viewport viewport.Model
	keys     keyMap

	track  host.TrackID
	artist string
	title  string
	text   string
	status string

	width  int
	height int
}

// New creates an idle view with the given status line.
func New(status string) Model {
	return Model{
		viewport: viewport.New(0, 0),
		keys:     defaultKeyMap(),
		status:   status,
	}
}

// Track returns the ID of the displayed track.
func (m Model) Track() host.TrackID { return m.track }

// Text returns the displayed lyrics text.
func (m Model) Text() string { return m.text }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-statusHeight, 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil
		}

	case TrackMsg:
		m.track = msg.ID
		m.artist = msg.Artist
		m.title = msg.Title
		m.text = ""
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case PublishMsg:
		if msg.ID != m.track {
			return m, nil
		}
		m.text = msg.Text
		m.refresh()
		m.viewport.GotoTop()
		return m, nil

	case StoppedMsg:
		m.track = ""
		m.artist, m.title, m.text = "", "", ""
		m.refresh()
		return m, nil

	case StatusMsg:
		m.status = string(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) refresh() {
	body := m.text
	if m.track == "" {
		body = idleText
	}
	m.viewport.SetContent(styles.T().S().Lyrics.Render(render.Wrap(render.Lines(body), m.width)))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		m.viewport.View(),
		m.statusLine(),
	)
}

func (m Model) header() string {
	t := styles.T()
	s := t.S()

	var line string
	switch {
	case m.track == "":
		line = s.Subtle.Render(idleText)
	default:
		title := render.Truncate(m.title, m.width)
		line = t.Title(title)
		if m.artist != "" {
			if room := m.width - lipgloss.Width(title) - 3; room > 0 {
				line += s.Artist.Render(" · " + render.Truncate(m.artist, room))
			}
		}
	}
	return s.Header.Width(m.width).Render(line)
}

func (m Model) statusLine() string {
	s := styles.T().S()
	right := ""
	if m.viewport.TotalLineCount() > m.viewport.Height {
		right = s.Subtle.Render(fmt.Sprintf("%.0f%%", m.viewport.ScrollPercent()*100))
	}
	return render.Row(s.Status.Render(render.Truncate(m.status, m.width/2)), right, m.width)
}
