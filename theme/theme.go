package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
}

func New(palette *Palette) *Theme {
	return &Theme{Palette: palette}
}

// Default is the built-in plasma theme
func Default() *Theme {
	return New(MustBuiltin("plasma"))
}

// Load picks a palette file, falling back to the built-in one when path is empty
func Load(path string) (*Theme, error) {
	if path == "" {
		return Default(), nil
	}
	p, err := LoadGPL(path)
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG     = 0.0 // deep purple
	RoleMuted  = 0.2 // purple-magenta
	RoleFG     = 0.4 // pink-purple (readable)
	RoleAccent = 0.5 // vivid magenta
	RoleFlash  = 1.0 // bright yellow
)

// Pads use the warm end of the palette so they read on dark terminals
const (
	padLow  = 0.3
	padHigh = 0.9
)

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Flash() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFlash))
}

// PadRGB spreads pad i of n across the palette. Shared with the Launchpad LEDs.
func (t *Theme) PadRGB(i, n int) RGB {
	if n <= 1 {
		return t.Palette.Lookup(padLow)
	}
	norm := padLow + (padHigh-padLow)*float64(i)/float64(n-1)
	return t.Palette.Lookup(norm)
}

// PadColor is PadRGB as a lipgloss color
func (t *Theme) PadColor(i, n int) lipgloss.Color {
	return rgbToLipgloss(t.PadRGB(i, n))
}

// FlashRGB is the color of a pad right after it was hit
func (t *Theme) FlashRGB() RGB {
	return t.Palette.Lookup(RoleFlash)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
