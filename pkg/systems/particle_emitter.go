package systems

import (
	"github.com/decker502/emberfx/internal/particle"
	"github.com/decker502/emberfx/pkg/components"
)

// updateEmitters runs the spawn schedule of every live emitter and removes
// the ones whose duration has run out.
func (ps *ParticleSystem) updateEmitters() {
	for i := 0; i < ps.emitters.Len(); {
		emitter := ps.emitters.Get(i)

		// 每帧累积发射额度，每满 1 生成一个粒子，小数部分留到下一帧
		emitter.Delayed += emitter.Config.Rate
		for emitter.Delayed >= 1 {
			emitter.Delayed--
			ps.spawnParticle(emitter)
		}

		emitter.Remaining--
		if emitter.Remaining <= 0 {
			// 被换到 i 的发射器本帧还未处理，不前进游标
			ps.removeEmitterAt(i)
			continue
		}
		i++
	}
}

// spawnParticle creates one particle from the emitter's definition at a
// point sampled from the emitter shape.
func (ps *ParticleSystem) spawnParticle(emitter *components.EmitterComponent) {
	if ps.maxParticles > 0 && ps.particles.Len() >= ps.maxParticles {
		emitter.Dropped++
		return
	}

	cfg := &emitter.Config
	u, v := emitter.Shape()

	var p particle.Particle
	cfg.Particle.Init(&p)
	p.X = cfg.X + u*cfg.Width
	p.Y = cfg.Y + v*cfg.Height
	p.VelocityX += cfg.SpeedX
	p.VelocityY += cfg.SpeedY

	ps.particles.Add(p)
	emitter.TotalLaunched++
}

// removeEmitterAt swap-removes the emitter at i and refreshes the cached
// index of the emitter moved into its slot.
func (ps *ParticleSystem) removeEmitterAt(i int) {
	removed := ps.emitters.Get(i)
	removed.Index = -1

	if moved, ok := ps.emitters.RemoveAt(i); ok {
		moved.Index = i
	}
}
