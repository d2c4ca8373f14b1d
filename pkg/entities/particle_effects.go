package entities

import (
	"math"

	"github.com/decker502/emberfx/internal/particle"
)

type attrs = map[string]particle.Value

// builtinEffects 内置粒子效果（时间单位：帧，按 60 TPS 调校）
func builtinEffects() []Effect {
	c, rg := particle.Const, particle.Range

	return []Effect{
		{
			Name:  "fire",
			Shape: particle.ShapeGlow,
			Stops: []particle.Stop{
				{Attrs: attrs{
					"duration": rg(30, 50), "size": rg(14, 22),
					"speed": rg(0.5, 1.5), "direction": rg(80, 100),
					"gravity": c(0.03), "gravityDirection": c(90),
					"r": c(255), "g": rg(150, 200), "b": c(40), "a": c(0.9),
					"composite": particle.Str("lighter"),
				}},
				{Offset: 50, Attrs: attrs{"g": c(70), "b": c(0)}},
				{Offset: 100, Attrs: attrs{"size": c(4), "r": c(120), "g": c(20), "a": c(0)}},
			},
			Emitter: emitterTemplate(particle.ShapeRectangle, 40, 6, 3, math.Inf(1)),
		},
		{
			Name:  "smoke",
			Shape: particle.ShapeCircle,
			Stops: []particle.Stop{
				{Attrs: attrs{
					"duration": rg(90, 140), "size": rg(10, 16),
					"speed": rg(0.3, 0.6), "direction": rg(85, 95),
					"r": c(90), "g": c(90), "b": c(90), "a": c(0),
				}},
				{Offset: 20, Attrs: attrs{"a": c(0.4)}},
				{Offset: 100, Attrs: attrs{"size": c(40), "r": c(160), "g": c(160), "b": c(160), "a": c(0)}},
			},
			Emitter: emitterTemplate(particle.ShapeEllipse, 30, 30, 0.5, math.Inf(1)),
		},
		{
			Name:  "sparks",
			Shape: particle.ShapeCircle,
			Stops: []particle.Stop{
				{Attrs: attrs{
					"duration": rg(20, 40), "size": rg(2, 3),
					"speed": rg(3, 6), "direction": rg(0, 360),
					"gravity": c(0.15), "gravityDirection": c(270),
					"r": c(255), "g": particle.Choice(200, 255), "b": c(120),
					"composite": particle.Str("lighter"),
				}},
				{Offset: 100, Attrs: attrs{"g": c(80), "a": c(0)}},
			},
			Emitter: emitterTemplate(particle.ShapePoint, 0, 0, 4, math.Inf(1)),
		},
		{
			Name:  "fountain",
			Shape: particle.ShapeCircle,
			Stops: []particle.Stop{
				{Attrs: attrs{
					"duration": rg(60, 90), "size": c(4),
					"speed": rg(5, 7), "direction": rg(80, 100),
					"gravity": c(0.2), "gravityDirection": c(270),
					"r": c(80), "g": c(160), "b": c(255), "a": c(0.8),
				}},
				{Offset: 100, Attrs: attrs{"a": c(0.2)}},
			},
			Emitter: emitterTemplate(particle.ShapePoint, 0, 0, 2, math.Inf(1)),
		},
		{
			Name:  "snow",
			Shape: particle.ShapeCircle,
			Stops: []particle.Stop{
				{Attrs: attrs{
					"duration": rg(200, 300), "size": rg(2, 5),
					"speed": rg(0.5, 1), "direction": rg(260, 280),
					"r": c(255), "g": c(255), "b": c(255), "a": c(0.9),
				}},
				{Offset: 90, Attrs: attrs{"a": c(0.9)}},
				{Offset: 100, Attrs: attrs{"a": c(0)}},
			},
			Emitter: emitterTemplate(particle.ShapeRectangle, 640, 0, 0.8, math.Inf(1)),
		},
		{
			Name:  "fade",
			Shape: particle.ShapeCircle,
			Stops: []particle.Stop{
				{Attrs: attrs{
					"duration": c(60), "size": c(12),
					"r": c(255), "g": c(255), "b": c(255),
				}},
				{Offset: 100, Attrs: attrs{"size": c(1), "a": c(0)}},
			},
			Emitter: emitterTemplate(particle.ShapePoint, 0, 0, 1, math.Inf(1)),
		},
		{
			Name:  "burst",
			Shape: particle.ShapeGlow,
			Stops: []particle.Stop{
				{Attrs: attrs{
					"duration": rg(30, 60), "size": rg(6, 12),
					"speed": rg(1, 4), "direction": rg(0, 360),
					"r": rg(200, 255), "g": rg(50, 150), "b": c(255),
					"composite": particle.OneOf("lighter", "source-over"),
				}},
				{Offset: 100, Attrs: attrs{"size": c(0), "a": c(0)}},
			},
			Emitter: emitterTemplate(particle.ShapePoint, 0, 0, 60, 1),
		},
	}
}

func emitterTemplate(shape string, width, height, rate, duration float64) particle.EmitterConfig {
	cfg := particle.DefaultEmitterConfig()
	cfg.Shape = shape
	cfg.Width, cfg.Height = width, height
	cfg.Rate = rate
	cfg.Duration = duration
	return cfg
}
