// Package render provides particle.Canvas back ends.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/emberfx/internal/particle"
)

const (
	minSegments = 12
	maxSegments = 64
)

var (
	whiteImage = ebiten.NewImage(3, 3)

	// whiteSubImage 是纯白 1x1 贴图，顶点颜色决定最终颜色
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// EbitenCanvas draws particles onto an ebiten image with DrawTriangles.
// Disks are triangle fans around the center; gradients interpolate vertex
// colors from the center to the rim.
type EbitenCanvas struct {
	dst *ebiten.Image

	composite string
	blend     ebiten.Blend
	alpha     float64

	// 顶点与索引缓冲（复用，避免每次绘制分配）
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewEbitenCanvas creates a canvas drawing into dst.
func NewEbitenCanvas(dst *ebiten.Image) *EbitenCanvas {
	c := &EbitenCanvas{
		vertices: make([]ebiten.Vertex, 0, maxSegments+1),
		indices:  make([]uint16, 0, maxSegments*3),
	}
	c.Reset(dst)
	return c
}

// Reset retargets the canvas and restores source-over blending at full alpha.
// Call it once per frame with the screen image.
func (c *EbitenCanvas) Reset(dst *ebiten.Image) {
	c.dst = dst
	c.SetCompositeOperation(particle.CompositeSourceOver)
	c.SetGlobalAlpha(1)
}

// SetCompositeOperation implements particle.Canvas.
func (c *EbitenCanvas) SetCompositeOperation(op string) {
	if op == c.composite {
		return
	}
	c.composite = op
	c.blend = BlendFor(op)
}

// SetGlobalAlpha implements particle.Canvas. Alpha is clamped to [0, 1].
func (c *EbitenCanvas) SetGlobalAlpha(alpha float64) {
	c.alpha = clamp01(alpha)
}

// FillCircle implements particle.Canvas.
func (c *EbitenCanvas) FillCircle(x, y, radius float64, col color.RGBA) {
	c.fill(x, y, radius, col, col)
}

// FillRadialGradient implements particle.Canvas.
func (c *EbitenCanvas) FillRadialGradient(x, y, radius float64, inner, outer color.RGBA) {
	c.fill(x, y, radius, inner, outer)
}

func (c *EbitenCanvas) fill(x, y, radius float64, inner, outer color.RGBA) {
	if c.dst == nil || !(radius > 0) || c.alpha == 0 {
		return
	}

	c.vertices, c.indices = buildFan(c.vertices[:0], c.indices[:0], x, y, radius,
		vertexColor(inner, c.alpha), vertexColor(outer, c.alpha), segmentsFor(radius))

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	op.Blend = c.blend
	op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
	c.dst.DrawTriangles(c.vertices, c.indices, whiteSubImage, op)
}

// BlendFor maps a canvas composite operation to the equivalent ebiten blend.
// Unknown operations fall back to source-over.
func BlendFor(op string) ebiten.Blend {
	switch op {
	case "lighter":
		return ebiten.BlendLighter
	case "copy":
		return ebiten.BlendCopy
	case "xor":
		return ebiten.BlendXor
	case "source-in":
		return ebiten.BlendSourceIn
	case "source-out":
		return ebiten.BlendSourceOut
	case "source-atop":
		return ebiten.BlendSourceAtop
	case "destination-over":
		return ebiten.BlendDestinationOver
	case "destination-in":
		return ebiten.BlendDestinationIn
	case "destination-out":
		return ebiten.BlendDestinationOut
	case "destination-atop":
		return ebiten.BlendDestinationAtop
	}
	return ebiten.BlendSourceOver
}

// segmentsFor picks a fan resolution of roughly one segment per 4 pixels of
// circumference.
func segmentsFor(radius float64) int {
	n := int(math.Ceil(2 * math.Pi * radius / 4))
	if n < minSegments {
		return minSegments
	}
	if n > maxSegments {
		return maxSegments
	}
	return n
}

// vertexColor converts a straight RGBA color to vertex components with the
// global alpha applied.
func vertexColor(col color.RGBA, alpha float64) [4]float32 {
	return [4]float32{
		float32(col.R) / 0xff,
		float32(col.G) / 0xff,
		float32(col.B) / 0xff,
		float32(float64(col.A) / 0xff * alpha),
	}
}

// buildFan appends a triangle fan approximating a disk: vertex 0 is the
// center colored inner, vertices 1..segments lie on the rim colored outer.
func buildFan(vs []ebiten.Vertex, is []uint16, x, y, radius float64, inner, outer [4]float32, segments int) ([]ebiten.Vertex, []uint16) {
	base := uint16(len(vs))
	vs = append(vs, ebiten.Vertex{
		DstX: float32(x), DstY: float32(y),
		SrcX: 1, SrcY: 1,
		ColorR: inner[0], ColorG: inner[1], ColorB: inner[2], ColorA: inner[3],
	})

	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		vs = append(vs, ebiten.Vertex{
			DstX: float32(x + math.Cos(angle)*radius),
			DstY: float32(y + math.Sin(angle)*radius),
			SrcX: 1, SrcY: 1,
			ColorR: outer[0], ColorG: outer[1], ColorB: outer[2], ColorA: outer[3],
		})

		next := uint16((i + 1) % segments)
		is = append(is, base, base+1+uint16(i), base+1+next)
	}
	return vs, is
}

func clamp01(v float64) float64 {
	switch {
	case v != v || v <= 0:
		return 0
	case v >= 1:
		return 1
	}
	return v
}
