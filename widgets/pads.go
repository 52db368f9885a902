package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PadWidth is the inner width of a rendered pad
const PadWidth = 9

// PadView is everything needed to draw one pad
type PadView struct {
	Label   string // big character in the middle, also the key to press
	Name    string
	Color   lipgloss.Color
	Flash   lipgloss.Color
	Lit     bool // just hit
	Counter int
}

// RenderPad renders a single bordered pad
func RenderPad(p PadView) string {
	color := p.Color
	if p.Lit {
		color = p.Flash
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(PadWidth).
		Align(lipgloss.Center)

	label := lipgloss.NewStyle().Bold(true).Foreground(color).Render(p.Label)
	if p.Lit {
		label = lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(color).Render(" " + p.Label + " ")
	}

	name := lipgloss.NewStyle().Foreground(color).Render(truncate(p.Name, PadWidth))
	count := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("%d", p.Counter))

	return box.Render(lipgloss.JoinVertical(lipgloss.Center, "", label, "", name, count))
}

// RenderPadRow joins pads horizontally with one column of spacing
func RenderPadRow(pads []string) string {
	var parts []string
	for i, p := range pads {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, p)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
