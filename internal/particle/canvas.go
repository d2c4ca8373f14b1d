package particle

import (
	"fmt"
	"image/color"
)

// Canvas is the rendering context particles draw into. Implementations keep
// the composite operation and global alpha as state until changed, the same
// way an HTML canvas 2D context does.
//
// Colors passed to the fill methods are straight (not premultiplied) RGBA.
type Canvas interface {
	// SetCompositeOperation selects the blend mode for subsequent fills.
	// op is one of Composites.
	SetCompositeOperation(op string)

	// SetGlobalAlpha sets the alpha multiplier for subsequent fills.
	SetGlobalAlpha(alpha float64)

	// FillCircle fills a solid disk.
	FillCircle(x, y, radius float64, c color.RGBA)

	// FillRadialGradient fills a disk whose color runs from inner at the
	// center to outer at the rim.
	FillRadialGradient(x, y, radius float64, inner, outer color.RGBA)
}

// CompositeSourceOver is the default composite operation (normal alpha blending).
const CompositeSourceOver = "source-over"

// Composites lists the composite operations a particle may name.
var Composites = []string{
	CompositeSourceOver,
	"source-in",
	"source-out",
	"source-atop",
	"destination-over",
	"destination-in",
	"destination-out",
	"destination-atop",
	"lighter",
	"copy",
	"xor",
}

// IsComposite reports whether op is a known composite operation.
func IsComposite(op string) bool {
	for _, c := range Composites {
		if c == op {
			return true
		}
	}
	return false
}

// DisplayColor converts the particle's color channels to an opaque RGBA.
// Channels are clamped to [0, 255] and truncated toward zero.
func DisplayColor(p *Particle) color.RGBA {
	return color.RGBA{R: channel(p.R), G: channel(p.G), B: channel(p.B), A: 0xff}
}

func channel(v float64) uint8 {
	switch {
	case v != v || v <= 0: // NaN 也归零
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
