package habit

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Appearance is the display color of a habit as sRGB channels in [0,1].
// It carries no behavior in the engine.
type Appearance struct {
	Red     float64
	Green   float64
	Blue    float64
	Opacity float64
}

// DefaultAppearance returns the green used for habits created without a color.
func DefaultAppearance() Appearance {
	return Appearance{Red: 0.204, Green: 0.78, Blue: 0.349, Opacity: 1}
}

// ParseAppearance parses a "#rrggbb" hex color into a fully opaque
// Appearance.
func ParseAppearance(hex string) (Appearance, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Appearance{}, fmt.Errorf("habit: parse color %q: %w", hex, err)
	}
	return Appearance{Red: c.R, Green: c.G, Blue: c.B, Opacity: 1}, nil
}

// Hex returns the color as "#rrggbb", ignoring opacity.
func (a Appearance) Hex() string {
	return colorful.Color{R: a.Red, G: a.Green, B: a.Blue}.Clamped().Hex()
}
