package systems

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/decker502/emberfx/internal/particle"
)

// recordingCanvas 记录所有绘制调用，便于断言调用顺序
type recordingCanvas struct {
	calls []string
}

func (c *recordingCanvas) SetCompositeOperation(op string) {
	c.calls = append(c.calls, "composite "+op)
}

func (c *recordingCanvas) SetGlobalAlpha(alpha float64) {
	c.calls = append(c.calls, fmt.Sprintf("alpha %.2f", alpha))
}

func (c *recordingCanvas) FillCircle(x, y, radius float64, col color.RGBA) {
	c.calls = append(c.calls, fmt.Sprintf("circle %.0f,%.0f r=%.1f %s", x, y, radius, particle.Hex(col)))
}

func (c *recordingCanvas) FillRadialGradient(x, y, radius float64, inner, outer color.RGBA) {
	c.calls = append(c.calls, fmt.Sprintf("gradient %.0f,%.0f r=%.1f %s a=%d->%d", x, y, radius, particle.Hex(inner), inner.A, outer.A))
}

// TestParticleRenderSystem_Draw 测试每个粒子的状态设置顺序与颜色计算
func TestParticleRenderSystem_Draw(t *testing.T) {
	tests := []struct {
		name  string
		shape string
		attrs map[string]particle.Value
		want  []string
	}{
		{
			name:  "Circle",
			shape: particle.ShapeCircle,
			attrs: map[string]particle.Value{
				"size":      particle.Const(6),
				"r":         particle.Const(255.9),
				"g":         particle.Const(10),
				"a":         particle.Const(0.5),
				"composite": particle.Str("lighter"),
			},
			want: []string{"composite lighter", "alpha 0.50", "circle 12,34 r=3.0 #ff0a00"},
		},
		{
			name:  "Glow with defaults",
			shape: particle.ShapeGlow,
			attrs: map[string]particle.Value{
				"b": particle.Const(300),
			},
			want: []string{"composite source-over", "alpha 1.00", "gradient 12,34 r=0.5 #0000ff a=255->0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := particle.Compile(nil, tt.shape, []particle.Stop{{Attrs: tt.attrs}})
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}

			ps := NewParticleSystem(nil)
			cfg := particle.DefaultEmitterConfig()
			cfg.Particle = def
			cfg.Shape = particle.ShapePoint
			cfg.X, cfg.Y = 12, 34
			cfg.Duration = 1
			mustEmitter(t, ps, cfg)
			ps.Update()

			canvas := &recordingCanvas{}
			NewParticleRenderSystem(ps).Draw(canvas)

			if len(canvas.calls) != len(tt.want) {
				t.Fatalf("calls = %q, want %q", canvas.calls, tt.want)
			}
			for i := range tt.want {
				if canvas.calls[i] != tt.want[i] {
					t.Errorf("call %d = %q, want %q", i, canvas.calls[i], tt.want[i])
				}
			}
		})
	}
}

// TestParticleRenderSystem_DrawsEveryParticle 测试每个存活粒子恰好绘制一次
func TestParticleRenderSystem_DrawsEveryParticle(t *testing.T) {
	ps := NewParticleSystem(nil)
	cfg := particle.DefaultEmitterConfig()
	cfg.Particle = lifetimeDef(t, 3)
	cfg.Rate = 4
	mustEmitter(t, ps, cfg)

	rs := NewParticleRenderSystem(ps)
	for frame := 0; frame < 6; frame++ {
		ps.Update()

		canvas := &recordingCanvas{}
		rs.Draw(canvas)
		if got, want := len(canvas.calls), 3*ps.ParticleCount(); got != want {
			t.Errorf("frame %d: %d canvas calls, want %d", frame, got, want)
		}
	}
}

// TestParticleRenderSystem_Empty 测试没有粒子时不产生任何调用
func TestParticleRenderSystem_Empty(t *testing.T) {
	canvas := &recordingCanvas{}
	NewParticleRenderSystem(NewParticleSystem(nil)).Draw(canvas)
	if len(canvas.calls) != 0 {
		t.Errorf("calls = %q, want none", canvas.calls)
	}
}
