package systems

import (
	"github.com/decker502/emberfx/internal/particle"
)

// ParticleRenderSystem 负责把 ParticleSystem 中的存活粒子绘制到 Canvas
// 绘制顺序即粒子池顺序（无排序，无 Z 序保证）
type ParticleRenderSystem struct {
	particles *ParticleSystem
}

// NewParticleRenderSystem 创建一个新的 ParticleRenderSystem 实例
func NewParticleRenderSystem(ps *ParticleSystem) *ParticleRenderSystem {
	return &ParticleRenderSystem{particles: ps}
}

// Draw 渲染所有存活粒子
// 每个粒子：设置混合模式与全局透明度，计算显示颜色，再调用定义绑定的形状函数
func (s *ParticleRenderSystem) Draw(c particle.Canvas) {
	n := s.particles.ParticleCount()
	for i := 0; i < n; i++ {
		p := s.particles.Particle(i)
		def := p.Definition()
		if def == nil {
			continue
		}

		c.SetCompositeOperation(p.Composite)
		c.SetGlobalAlpha(p.A)
		def.Render(c, p.X, p.Y, p.Size, particle.DisplayColor(p))
	}
}
