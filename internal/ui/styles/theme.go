// Package styles holds the colors and lipgloss styles of the lyrics view.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles.
type Theme struct {
	Primary   lipgloss.Color // track title, gradient start
	Secondary lipgloss.Color // gradient end

	FgBase   lipgloss.Color // lyrics text
	FgMuted  lipgloss.Color // artist, disclaimers
	FgSubtle lipgloss.Color // status bar, loading

	Border lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles for the lyrics view.
type Styles struct {
	Lyrics  lipgloss.Style
	Artist  lipgloss.Style
	Subtle  lipgloss.Style
	Header  lipgloss.Style // bottom border under the track line
	Status  lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Border: lipgloss.Color("#585858"),

	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

// Title renders a track title with the theme gradient.
func (t *Theme) Title(text string) string {
	return ApplyBoldGradient(text, t.Primary, t.Secondary)
}

func (t *Theme) buildStyles() *Styles {
	return &Styles{
		Lyrics: lipgloss.NewStyle().Foreground(t.FgBase),
		Artist: lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Status:  lipgloss.NewStyle().Foreground(t.FgSubtle).Italic(true),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}
