// Package particle compiles declarative particle definitions into per-particle
// update programs.
//
// A definition is an ordered list of stops. Each stop assigns values to a
// subset of the recognised attributes at a time offset in [0, 100] percent of
// the particle's lifetime. Compile lowers the stops into a flat buffer of value
// descriptions plus an interpolation Program; every spawned particle samples the
// buffer once and then runs the shared Program each frame.
package particle

import (
	"errors"
	"math"
)

// Configuration errors. Callers match them with errors.Is; the returned errors
// carry the offending stop, attribute or shape name.
var (
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrStopZeroOnly     = errors.New("attribute may only be set on the first stop")
	ErrValueType        = errors.New("value has the wrong type for attribute")
	ErrUnknownComposite = errors.New("unknown composite operation")
	ErrUnknownShape     = errors.New("unknown shape")
	ErrDuplicateShape   = errors.New("shape already registered")
	ErrMissingParticle  = errors.New(`"particle" option is missing`)
	ErrInvalidConfig    = errors.New("invalid emitter configuration")
)

// Stop is one authored keyframe.
//
// Attrs maps attribute names (see Attribute) to value descriptions. Offset is ignored
// for the first stop, which always sits at 0.
type Stop struct {
	Offset float64
	Attrs  map[string]Value
}

// Attribute identifies one of the recognised stop attributes.
type Attribute int

// The attribute set is closed. The declaration order is also the order in
// which the compiler visits the attributes of a stop.
const (
	AttrDuration Attribute = iota
	AttrSize
	AttrSpeed
	AttrDirection
	AttrGravity
	AttrGravityDirection
	AttrR
	AttrG
	AttrB
	AttrA
	AttrComposite

	attributeCount
)

var attributeNames = [attributeCount]string{
	AttrDuration:         "duration",
	AttrSize:             "size",
	AttrSpeed:            "speed",
	AttrDirection:        "direction",
	AttrGravity:          "gravity",
	AttrGravityDirection: "gravityDirection",
	AttrR:                "r",
	AttrG:                "g",
	AttrB:                "b",
	AttrA:                "a",
	AttrComposite:        "composite",
}

// String returns the authored name of the attribute.
func (a Attribute) String() string {
	if a < 0 || a >= attributeCount {
		return "attribute(?)"
	}
	return attributeNames[a]
}

// LookupAttribute resolves an authored attribute name.
func LookupAttribute(name string) (Attribute, bool) {
	for i, n := range attributeNames {
		if n == name {
			return Attribute(i), true
		}
	}
	return 0, false
}

// EmitterConfig describes an emitter to create.
//
// Start from DefaultEmitterConfig: the zero value has Rate 0 and Duration 0,
// which are valid but degenerate (no particles, emitter removed after one frame).
type EmitterConfig struct {
	// Particle is the compiled definition every spawned particle uses. Required.
	Particle *Definition

	// Shape names the emitter shape sampler (see Registry). Empty means "rectangle".
	Shape string

	// Footprint: particles spawn at (X + u*Width, Y + v*Height).
	X, Y          float64
	Width, Height float64

	// Duration is the emitter lifetime in frames; math.Inf(1) runs until removed.
	Duration float64

	// Rate is particles per frame and may be fractional.
	Rate float64

	// SpeedX and SpeedY are added to the velocity of every spawned particle.
	SpeedX, SpeedY float64
}

// DefaultEmitterConfig returns the documented defaults: rectangle shape, one
// particle per frame, infinite duration.
func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		Shape:    ShapeRectangle,
		Duration: math.Inf(1),
		Rate:     1,
	}
}
