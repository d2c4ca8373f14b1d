package components

import (
	"github.com/decker502/emberfx/internal/particle"
)

// EmitterComponent represents a live particle emitter.
//
// Each frame the ParticleSystem adds Rate to Delayed, spawns one particle per
// whole unit of accumulated credit, then decrements Remaining. The emitter is
// removed once Remaining drops to zero or below.
//
// This is a pure data component following ECS principles - it contains no methods.
type EmitterComponent struct {
	// Configuration (创建时的配置副本)
	Config particle.EmitterConfig

	// Shape is the emitter shape sampler resolved from Config.Shape at creation.
	Shape particle.EmitterShapeFunc

	// Spawn timing (发射时机)
	Delayed   float64 // Accumulated spawn credit in particles
	Remaining float64 // Frames left before the emitter is removed

	// Particle tracking (粒子追踪)
	TotalLaunched int // Total number of particles spawned so far
	Dropped       int // Spawns discarded by the particle cap

	// Index is the emitter's slot in the system's emitter bag, or -1 once
	// removed. Kept current across swap removals by the ParticleSystem.
	Index int
}
