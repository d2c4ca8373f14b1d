package particle

import (
	"fmt"
	"image/color"
	"sort"
)

// EmitterShapeFunc samples a normalised spawn offset (u, v) in [0, 1]².
type EmitterShapeFunc func() (u, v float64)

// ShapeFunc draws one particle centered at (x, y) with diameter size.
type ShapeFunc func(c Canvas, x, y, size float64, col color.RGBA)

// Registry holds the named emitter shapes and particle shapes that Compile and
// the particle system resolve by name. Registries are independent: each
// simulation can carry its own.
type Registry struct {
	emitterShapes  map[string]EmitterShapeFunc
	particleShapes map[string]ShapeFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		emitterShapes:  make(map[string]EmitterShapeFunc),
		particleShapes: make(map[string]ShapeFunc),
	}
}

// DefaultRegistry returns a new registry holding the built-in shapes:
// emitter shapes point, rectangle, ellipse and particle shapes circle, glow.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.emitterShapes[ShapePoint] = PointShape
	r.emitterShapes[ShapeRectangle] = RectangleShape
	r.emitterShapes[ShapeEllipse] = EllipseShape
	r.particleShapes[ShapeCircle] = DrawCircle
	r.particleShapes[ShapeGlow] = DrawGlow
	return r
}

// RegisterEmitterShape adds an emitter shape. Registering a taken name fails
// with ErrDuplicateShape; use ReplaceEmitterShape to overwrite on purpose.
func (r *Registry) RegisterEmitterShape(name string, fn EmitterShapeFunc) error {
	if _, ok := r.emitterShapes[name]; ok {
		return fmt.Errorf("emitter shape %q: %w", name, ErrDuplicateShape)
	}
	r.emitterShapes[name] = fn
	return nil
}

// ReplaceEmitterShape adds or overwrites an emitter shape.
func (r *Registry) ReplaceEmitterShape(name string, fn EmitterShapeFunc) {
	r.emitterShapes[name] = fn
}

// RegisterParticleShape adds a particle shape. Registering a taken name fails
// with ErrDuplicateShape; use ReplaceParticleShape to overwrite on purpose.
func (r *Registry) RegisterParticleShape(name string, fn ShapeFunc) error {
	if _, ok := r.particleShapes[name]; ok {
		return fmt.Errorf("particle shape %q: %w", name, ErrDuplicateShape)
	}
	r.particleShapes[name] = fn
	return nil
}

// ReplaceParticleShape adds or overwrites a particle shape.
func (r *Registry) ReplaceParticleShape(name string, fn ShapeFunc) {
	r.particleShapes[name] = fn
}

// EmitterShape looks up an emitter shape by name.
func (r *Registry) EmitterShape(name string) (EmitterShapeFunc, error) {
	fn, ok := r.emitterShapes[name]
	if !ok || fn == nil {
		return nil, fmt.Errorf("emitter shape %q: %w", name, ErrUnknownShape)
	}
	return fn, nil
}

// ParticleShape looks up a particle shape by name.
func (r *Registry) ParticleShape(name string) (ShapeFunc, error) {
	fn, ok := r.particleShapes[name]
	if !ok || fn == nil {
		return nil, fmt.Errorf("particle shape %q: %w", name, ErrUnknownShape)
	}
	return fn, nil
}

// EmitterShapeNames returns the registered emitter shape names, sorted.
func (r *Registry) EmitterShapeNames() []string {
	names := make([]string, 0, len(r.emitterShapes))
	for name := range r.emitterShapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParticleShapeNames returns the registered particle shape names, sorted.
func (r *Registry) ParticleShapeNames() []string {
	names := make([]string, 0, len(r.particleShapes))
	for name := range r.particleShapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
