package particle

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

// fillCall records one fill issued to recordCanvas.
type fillCall struct {
	kind         string
	x, y, radius float64
	inner, outer color.RGBA
}

type recordCanvas struct {
	fills []fillCall
}

func (c *recordCanvas) SetCompositeOperation(string) {}
func (c *recordCanvas) SetGlobalAlpha(float64)       {}

func (c *recordCanvas) FillCircle(x, y, radius float64, col color.RGBA) {
	c.fills = append(c.fills, fillCall{kind: "circle", x: x, y: y, radius: radius, inner: col})
}

func (c *recordCanvas) FillRadialGradient(x, y, radius float64, inner, outer color.RGBA) {
	c.fills = append(c.fills, fillCall{kind: "gradient", x: x, y: y, radius: radius, inner: inner, outer: outer})
}

// TestEmitterShapes_Bounds tests that the built-in samplers stay inside the unit square
func TestEmitterShapes_Bounds(t *testing.T) {
	for i := 0; i < 5000; i++ {
		if u, v := PointShape(); u != 0 || v != 0 {
			t.Fatalf("PointShape() = (%v, %v), want (0, 0)", u, v)
		}

		u, v := RectangleShape()
		if u < 0 || u > 1 || v < 0 || v > 1 {
			t.Fatalf("RectangleShape() = (%v, %v), out of [0,1]²", u, v)
		}

		u, v = EllipseShape()
		if u < 0 || u > 1 || v < 0 || v > 1 {
			t.Fatalf("EllipseShape() = (%v, %v), out of [0,1]²", u, v)
		}
		// inscribed circle of radius 0.5 around (0.5, 0.5)
		if d := math.Hypot(u-0.5, v-0.5); d > 0.5+1e-12 {
			t.Fatalf("EllipseShape() = (%v, %v), %v from center", u, v, d)
		}
	}
}

// TestEllipseShape_AreaUniform tests that the inner half radius gets about a quarter of the samples
func TestEllipseShape_AreaUniform(t *testing.T) {
	const n = 20000
	inner := 0
	for i := 0; i < n; i++ {
		u, v := EllipseShape()
		if math.Hypot(u-0.5, v-0.5) < 0.25 {
			inner++
		}
	}
	ratio := float64(inner) / n
	if ratio < 0.22 || ratio > 0.28 {
		t.Errorf("inner-disk ratio = %.3f, want ~0.25", ratio)
	}
}

// TestParticleShapes tests what the built-in particle shapes ask of the canvas
func TestParticleShapes(t *testing.T) {
	col := color.RGBA{R: 255, G: 128, B: 0, A: 255}

	t.Run("Circle", func(t *testing.T) {
		c := &recordCanvas{}
		DrawCircle(c, 10, 20, 8, col)
		if len(c.fills) != 1 {
			t.Fatalf("expected 1 fill, got %d", len(c.fills))
		}
		f := c.fills[0]
		if f.kind != "circle" || f.x != 10 || f.y != 20 || f.radius != 4 || f.inner != col {
			t.Errorf("unexpected fill %+v", f)
		}
	})

	t.Run("Glow", func(t *testing.T) {
		c := &recordCanvas{}
		DrawGlow(c, 1, 2, 6, col)
		if len(c.fills) != 1 {
			t.Fatalf("expected 1 fill, got %d", len(c.fills))
		}
		f := c.fills[0]
		if f.kind != "gradient" || f.radius != 3 {
			t.Errorf("unexpected fill %+v", f)
		}
		if f.inner != col {
			t.Errorf("inner = %v, want %v", f.inner, col)
		}
		want := color.RGBA{R: 255, G: 128, B: 0, A: 0}
		if f.outer != want {
			t.Errorf("outer = %v, want %v", f.outer, want)
		}
	})
}

// TestRegistry tests lookups, duplicate registration and independence
func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, name := range []string{ShapePoint, ShapeRectangle, ShapeEllipse} {
		if _, err := r.EmitterShape(name); err != nil {
			t.Errorf("EmitterShape(%q) error: %v", name, err)
		}
	}
	for _, name := range []string{ShapeCircle, ShapeGlow} {
		if _, err := r.ParticleShape(name); err != nil {
			t.Errorf("ParticleShape(%q) error: %v", name, err)
		}
	}

	if _, err := r.EmitterShape("spiral"); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("EmitterShape(spiral) error = %v, want ErrUnknownShape", err)
	}
	if _, err := r.ParticleShape("star"); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("ParticleShape(star) error = %v, want ErrUnknownShape", err)
	}

	line := func() (float64, float64) { return 0.5, 0 }
	if err := r.RegisterEmitterShape("line", line); err != nil {
		t.Fatalf("RegisterEmitterShape(line) error: %v", err)
	}
	if err := r.RegisterEmitterShape("line", line); !errors.Is(err, ErrDuplicateShape) {
		t.Errorf("second RegisterEmitterShape(line) error = %v, want ErrDuplicateShape", err)
	}
	if err := r.RegisterParticleShape(ShapeCircle, DrawGlow); !errors.Is(err, ErrDuplicateShape) {
		t.Errorf("RegisterParticleShape(circle) error = %v, want ErrDuplicateShape", err)
	}

	r.ReplaceEmitterShape(ShapePoint, line)
	fn, _ := r.EmitterShape(ShapePoint)
	if u, _ := fn(); u != 0.5 {
		t.Errorf("replaced point shape returned u=%v, want 0.5", u)
	}

	// A fresh default registry is unaffected.
	other := DefaultRegistry()
	if _, err := other.EmitterShape("line"); err == nil {
		t.Error("registries should not share state")
	}
	fn, _ = other.EmitterShape(ShapePoint)
	if u, v := fn(); u != 0 || v != 0 {
		t.Error("default point shape was modified through another registry")
	}

	wantNames := []string{ShapeEllipse, "line", ShapePoint, ShapeRectangle}
	names := r.EmitterShapeNames()
	if len(names) != len(wantNames) {
		t.Fatalf("EmitterShapeNames() = %v, want %v", names, wantNames)
	}
	for i := range names {
		if names[i] != wantNames[i] {
			t.Fatalf("EmitterShapeNames() = %v, want %v", names, wantNames)
		}
	}
}

// TestCompile_CustomParticleShape tests that Compile binds shapes from the given registry
func TestCompile_CustomParticleShape(t *testing.T) {
	r := NewRegistry()
	drawn := 0
	if err := r.RegisterParticleShape("dot", func(c Canvas, x, y, size float64, col color.RGBA) { drawn++ }); err != nil {
		t.Fatal(err)
	}

	def, err := Compile(r, "dot", nil)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if def.Shape() != "dot" {
		t.Errorf("Shape() = %q, want dot", def.Shape())
	}
	def.Render(&recordCanvas{}, 0, 0, 1, color.RGBA{})
	if drawn != 1 {
		t.Errorf("custom shape drawn %d times, want 1", drawn)
	}

	if _, err := Compile(r, ShapeCircle, nil); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("empty registry should not know circle, got %v", err)
	}
}

// TestDisplayColor tests channel clamping, truncation and hex formatting
func TestDisplayColor(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    string
	}{
		{"Truncates", 254.9, 15.99, 0.5, "#fe0f00"},
		{"Clamps", 300, -20, 255, "#ff00ff"},
		{"Black", 0, 0, 0, "#000000"},
		{"NaN", math.NaN(), 16, 1, "#001001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Particle{R: tt.r, G: tt.g, B: tt.b}
			c := DisplayColor(p)
			if got := Hex(c); got != tt.want {
				t.Errorf("Hex(DisplayColor()) = %q, want %q", got, tt.want)
			}
			if c.A != 0xff {
				t.Errorf("alpha = %d, want 255", c.A)
			}
		})
	}
}

// TestIsComposite tests the composite operation list
func TestIsComposite(t *testing.T) {
	for _, op := range []string{"source-over", "lighter", "xor", "destination-out"} {
		if !IsComposite(op) {
			t.Errorf("IsComposite(%q) = false", op)
		}
	}
	for _, op := range []string{"", "normal", "multiply"} {
		if IsComposite(op) {
			t.Errorf("IsComposite(%q) = true", op)
		}
	}
}
