package particle

import (
	"image/color"
	"math"
	"math/rand"
)

// Built-in shape names.
const (
	ShapePoint     = "point"
	ShapeRectangle = "rectangle"
	ShapeEllipse   = "ellipse"

	ShapeCircle = "circle"
	ShapeGlow   = "glow"
)

// PointShape always spawns at the emitter origin.
func PointShape() (u, v float64) {
	return 0, 0
}

// RectangleShape spawns uniformly over the emitter footprint.
func RectangleShape() (u, v float64) {
	return rand.Float64(), rand.Float64()
}

// EllipseShape spawns uniformly over the disk inscribed in the footprint.
// The radius uses sqrt(U) so the density is uniform over area.
func EllipseShape() (u, v float64) {
	angle := RandomInRange(0, 2*math.Pi)
	r := math.Sqrt(rand.Float64())
	return math.Cos(angle)*r/2 + 0.5, math.Sin(angle)*r/2 + 0.5
}

// DrawCircle fills a solid disk of diameter size.
func DrawCircle(c Canvas, x, y, size float64, col color.RGBA) {
	c.FillCircle(x, y, size/2, col)
}

// DrawGlow fills a disk of diameter size fading from col at the center to
// the same RGB with zero alpha at the rim.
func DrawGlow(c Canvas, x, y, size float64, col color.RGBA) {
	rim := col
	rim.A = 0
	c.FillRadialGradient(x, y, size/2, col, rim)
}
