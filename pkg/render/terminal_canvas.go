package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/emberfx/internal/particle"
)

// halfBlock draws the upper pixel of a cell in the foreground color and the
// lower pixel in the background color.
const halfBlock = '▀'

// minPixelRadius exceeds half a pixel diagonal.
const minPixelRadius = 0.75

// TerminalCanvas rasterizes particles into a pixel grid two pixels tall per
// terminal cell and writes it to a tcell screen.
//
// Terminal cells carry no alpha, so composites that depend on destination
// alpha are approximated:
//   - lighter adds the source color
//   - copy replaces the pixel with the source over the background
//   - xor and destination-out erase toward the background
//   - everything else blends source-over
type TerminalCanvas struct {
	cols, rows int
	scale      float64 // 世界坐标单位 / 像素

	background colorful.Color
	pixels     []colorful.Color

	composite string
	alpha     float64
}

// NewTerminalCanvas creates a canvas for a cols x rows terminal. scale is the
// number of world units per pixel; values <= 0 mean 1.
func NewTerminalCanvas(cols, rows int, scale float64, background colorful.Color) *TerminalCanvas {
	if !(scale > 0) {
		scale = 1
	}
	c := &TerminalCanvas{scale: scale, background: background}
	c.Resize(cols, rows)
	c.SetCompositeOperation(particle.CompositeSourceOver)
	c.SetGlobalAlpha(1)
	return c
}

// Resize changes the terminal size and clears the canvas.
func (c *TerminalCanvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c.cols, c.rows = cols, rows
	c.pixels = make([]colorful.Color, cols*rows*2)
	c.Clear()
}

// Size returns the pixel grid size.
func (c *TerminalCanvas) Size() (width, height int) {
	return c.cols, c.rows * 2
}

// Scale returns the number of world units per pixel.
func (c *TerminalCanvas) Scale() float64 {
	return c.scale
}

// Clear fills every pixel with the background and resets the draw state.
func (c *TerminalCanvas) Clear() {
	for i := range c.pixels {
		c.pixels[i] = c.background
	}
	c.SetCompositeOperation(particle.CompositeSourceOver)
	c.SetGlobalAlpha(1)
}

// Pixel returns the color at pixel (px, py). Out of range pixels report the
// background.
func (c *TerminalCanvas) Pixel(px, py int) colorful.Color {
	w, h := c.Size()
	if px < 0 || py < 0 || px >= w || py >= h {
		return c.background
	}
	return c.pixels[py*w+px]
}

// SetCompositeOperation implements particle.Canvas.
func (c *TerminalCanvas) SetCompositeOperation(op string) {
	c.composite = op
}

// SetGlobalAlpha implements particle.Canvas.
func (c *TerminalCanvas) SetGlobalAlpha(alpha float64) {
	c.alpha = clamp01(alpha)
}

// FillCircle implements particle.Canvas.
func (c *TerminalCanvas) FillCircle(x, y, radius float64, col color.RGBA) {
	c.fill(x, y, radius, col, col)
}

// FillRadialGradient implements particle.Canvas.
func (c *TerminalCanvas) FillRadialGradient(x, y, radius float64, inner, outer color.RGBA) {
	c.fill(x, y, radius, inner, outer)
}

func (c *TerminalCanvas) fill(x, y, radius float64, inner, outer color.RGBA) {
	if !(radius > 0) || c.alpha == 0 {
		return
	}

	w, h := c.Size()
	if w == 0 || h == 0 {
		return
	}

	// 转换到像素坐标；极小的粒子至少覆盖最近的像素中心
	cx, cy, r := x/c.scale, y/c.scale, math.Max(radius/c.scale, minPixelRadius)

	x0, x1 := clampInt(int(math.Floor(cx-r)), 0, w-1), clampInt(int(math.Ceil(cx+r)), 0, w-1)
	y0, y1 := clampInt(int(math.Floor(cy-r)), 0, h-1), clampInt(int(math.Ceil(cy+r)), 0, h-1)

	in, inA := toColorful(inner)
	out, outA := toColorful(outer)

	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			d := math.Hypot(float64(px)+0.5-cx, float64(py)+0.5-cy)
			if d > r {
				continue
			}
			t := d / r
			src := in.BlendRgb(out, t)
			a := (inA + (outA-inA)*t) * c.alpha
			i := py*w + px
			c.pixels[i] = c.composeOne(c.pixels[i], src, a)
		}
	}
}

func (c *TerminalCanvas) composeOne(dst, src colorful.Color, a float64) colorful.Color {
	switch c.composite {
	case "lighter":
		return colorful.Color{R: dst.R + src.R*a, G: dst.G + src.G*a, B: dst.B + src.B*a}.Clamped()
	case "copy":
		return c.background.BlendRgb(src, a)
	case "xor", "destination-out":
		return dst.BlendRgb(c.background, a)
	}
	return dst.BlendRgb(src, a)
}

// Show writes the canvas to screen, one half-block glyph per cell.
// It does not call screen.Show.
func (c *TerminalCanvas) Show(screen tcell.Screen) {
	w, _ := c.Size()
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			top := c.pixels[(row*2)*w+col]
			bottom := c.pixels[(row*2+1)*w+col]
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
}

func toColorful(col color.RGBA) (colorful.Color, float64) {
	return colorful.Color{
		R: float64(col.R) / 0xff,
		G: float64(col.G) / 0xff,
		B: float64(col.B) / 0xff,
	}, float64(col.A) / 0xff
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
