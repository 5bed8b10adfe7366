package render

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette turns a luminance in [0, 1] into a pixel color.
type Palette interface {
	Color(l float64) color.NRGBA
}

// Grayscale writes the luminance, scaled to 8 bits and truncated, into R, G
// and B alike.
type Grayscale struct{}

// Color implements Palette.
func (Grayscale) Color(l float64) color.NRGBA {
	v := uint8(0xFF * clamp01(l))
	return color.NRGBA{R: v, G: v, B: v, A: 0xFF}
}

// Gradient blends from Dark (luminance 0) to Light (luminance 1) in
// CIE L*a*b* space, which keeps perceived brightness monotonic.
type Gradient struct {
	Dark  colorful.Color
	Light colorful.Color
}

// Color implements Palette.
func (g Gradient) Color(l float64) color.NRGBA {
	r, gr, b := g.Dark.BlendLab(g.Light, clamp01(l)).Clamped().RGB255()
	return color.NRGBA{R: r, G: gr, B: b, A: 0xFF}
}

// ParsePalette parses a palette description.
//
// Accepted forms:
//   - "" or "gray": Grayscale
//   - "#RRGGBB:#RRGGBB": Gradient from the first (dark) to the second (light)
//     color; the 3-digit "#RGB" form is accepted as well
func ParsePalette(s string) (Palette, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "gray") || strings.EqualFold(s, "grey") {
		return Grayscale{}, nil
	}

	darkHex, lightHex, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("palette %q: want #dark:#light", s)
	}
	dark, err := colorful.Hex(strings.TrimSpace(darkHex))
	if err != nil {
		return nil, fmt.Errorf("palette %q: dark color: %w", s, err)
	}
	light, err := colorful.Hex(strings.TrimSpace(lightHex))
	if err != nil {
		return nil, fmt.Errorf("palette %q: light color: %w", s, err)
	}
	return Gradient{Dark: dark, Light: light}, nil
}
