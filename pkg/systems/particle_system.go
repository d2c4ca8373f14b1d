package systems

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/emberfx/internal/particle"
	"github.com/decker502/emberfx/pkg/components"
	"github.com/decker502/emberfx/pkg/pool"
)

// ParticleSystem manages all particle emitters and individual particles.
// It handles spawning particles from emitters, running each particle's
// compiled program every frame, and destroying particles when their lifetime
// expires.
//
// The system processes one frame in two phases:
//  1. Update all emitters (accumulate rate, spawn new particles, expire emitters)
//  2. Update all particles (run the program, age, expire)
//
// Particles spawned in phase 1 are not advanced until the next frame.
//
// The system owns both pools. It is not safe for concurrent use.
type ParticleSystem struct {
	Registry *particle.Registry

	particles *pool.Bag[particle.Particle]
	emitters  *pool.Bag[*components.EmitterComponent]

	// maxParticles caps the particle pool (0 = unlimited)
	maxParticles int
}

// NewParticleSystem creates a new ParticleSystem instance.
// A nil registry means particle.DefaultRegistry().
func NewParticleSystem(reg *particle.Registry) *ParticleSystem {
	if reg == nil {
		reg = particle.DefaultRegistry()
	}
	return &ParticleSystem{
		Registry:  reg,
		particles: pool.NewBag[particle.Particle](256),
		emitters:  pool.NewBag[*components.EmitterComponent](16),
	}
}

// CreateEmitter validates cfg and starts a new emitter. The returned component
// is the handle for RemoveEmitter; it is owned by the system.
func (ps *ParticleSystem) CreateEmitter(cfg particle.EmitterConfig) (*components.EmitterComponent, error) {
	if cfg.Particle == nil {
		return nil, particle.ErrMissingParticle
	}
	if cfg.Rate < 0 || math.IsNaN(cfg.Rate) || math.IsInf(cfg.Rate, 0) {
		return nil, fmt.Errorf("%w: rate=%v", particle.ErrInvalidConfig, cfg.Rate)
	}
	if math.IsNaN(cfg.Duration) {
		return nil, fmt.Errorf("%w: duration=NaN", particle.ErrInvalidConfig)
	}
	if cfg.Shape == "" {
		cfg.Shape = particle.ShapeRectangle
	}

	shape, err := ps.Registry.EmitterShape(cfg.Shape)
	if err != nil {
		return nil, fmt.Errorf("emitter: %w", err)
	}

	emitter := &components.EmitterComponent{
		Config:    cfg,
		Shape:     shape,
		Remaining: cfg.Duration,
	}
	emitter.Index = ps.emitters.Add(emitter)

	log.Printf("[ParticleSystem] 创建发射器: shape=%s, pos=(%.1f, %.1f), size=%.0fx%.0f, rate=%.2f, duration=%v",
		cfg.Shape, cfg.X, cfg.Y, cfg.Width, cfg.Height, cfg.Rate, cfg.Duration)

	return emitter, nil
}

// RemoveEmitter stops an emitter before its duration runs out. Particles it
// already spawned live on. Returns false if the emitter is no longer live.
func (ps *ParticleSystem) RemoveEmitter(emitter *components.EmitterComponent) bool {
	if emitter == nil || emitter.Index < 0 || emitter.Index >= ps.emitters.Len() {
		return false
	}
	if ps.emitters.Get(emitter.Index) != emitter {
		return false
	}
	ps.removeEmitterAt(emitter.Index)
	return true
}

// Update processes all emitters and particles for one frame.
func (ps *ParticleSystem) Update() {
	live := ps.particles.Len()
	ps.updateEmitters()
	ps.updateParticles(live)
}

// updateParticles advances the first live particles of the pool, the ones
// that existed before this frame's spawns, and destroys expired ones.
func (ps *ParticleSystem) updateParticles(live int) {
	for i := 0; i < live; {
		p := ps.particles.At(i)
		p.Advance()
		p.Age++

		if !p.Expired() {
			i++
			continue
		}

		// 先与最后一个旧粒子交换，保证本帧新生成的粒子不会被换进待处理区间
		live--
		ps.particles.Swap(i, live)
		ps.particles.RemoveAt(live)
	}
}

// ParticleCount returns the number of live particles.
func (ps *ParticleSystem) ParticleCount() int {
	return ps.particles.Len()
}

// EmitterCount returns the number of live emitters.
func (ps *ParticleSystem) EmitterCount() int {
	return ps.emitters.Len()
}

// Particle returns the live particle at index i, 0 <= i < ParticleCount().
// The pointer is valid until the next Update or Clear.
func (ps *ParticleSystem) Particle(i int) *particle.Particle {
	return ps.particles.At(i)
}

// Emitter returns the live emitter at index i, 0 <= i < EmitterCount().
func (ps *ParticleSystem) Emitter(i int) *components.EmitterComponent {
	return ps.emitters.Get(i)
}

// SetMaxParticles caps the number of live particles. Spawns over the cap are
// dropped; the emitter still spends the credit. n <= 0 removes the cap.
func (ps *ParticleSystem) SetMaxParticles(n int) {
	if n < 0 {
		n = 0
	}
	ps.maxParticles = n
}

// MaxParticles returns the particle cap (0 = unlimited).
func (ps *ParticleSystem) MaxParticles() int {
	return ps.maxParticles
}

// Clear removes every particle and emitter.
func (ps *ParticleSystem) Clear() {
	for i := 0; i < ps.emitters.Len(); i++ {
		ps.emitters.Get(i).Index = -1
	}
	particles, emitters := ps.particles.Len(), ps.emitters.Len()
	ps.emitters.Clear()
	ps.particles.Clear()

	log.Printf("[ParticleSystem] 已清空: %d 个粒子, %d 个发射器", particles, emitters)
}
