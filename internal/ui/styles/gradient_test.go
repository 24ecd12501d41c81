package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestApplyGradient_KeepsText(t *testing.T) {
	for _, text := range []string{"", "A", "Harder, Better", "Café 🎵"} {
		got := ApplyBoldGradient(text, T().Primary, T().Secondary)
		if stripped := ansi.Strip(got); stripped != text {
			t.Errorf("ApplyBoldGradient(%q) stripped = %q", text, stripped)
		}
	}
}

func TestBlend_Endpoints(t *testing.T) {
	colors := blend(3, lipgloss.Color("#000000"), lipgloss.Color("#ffffff"))

	if len(colors) != 3 {
		t.Fatalf("len(colors) = %d, want 3", len(colors))
	}
	if got := colors[0].Hex(); got != "#000000" {
		t.Errorf("first color = %s, want #000000", got)
	}
	if got := colors[2].Hex(); got != "#ffffff" {
		t.Errorf("last color = %s, want #ffffff", got)
	}
}

func TestToColorful_ANSIFallsBackToGray(t *testing.T) {
	if got := toColorful(lipgloss.Color("240")).Hex(); got != "#808080" {
		t.Errorf("toColorful(240) = %s, want #808080", got)
	}
}
