package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/emberfx/internal/particle"
)

// TestBlendFor 测试 composite 名称到 ebiten 混合模式的映射
func TestBlendFor(t *testing.T) {
	tests := []struct {
		op   string
		want ebiten.Blend
	}{
		{"source-over", ebiten.BlendSourceOver},
		{"lighter", ebiten.BlendLighter},
		{"copy", ebiten.BlendCopy},
		{"xor", ebiten.BlendXor},
		{"source-in", ebiten.BlendSourceIn},
		{"source-out", ebiten.BlendSourceOut},
		{"source-atop", ebiten.BlendSourceAtop},
		{"destination-over", ebiten.BlendDestinationOver},
		{"destination-in", ebiten.BlendDestinationIn},
		{"destination-out", ebiten.BlendDestinationOut},
		{"destination-atop", ebiten.BlendDestinationAtop},
		{"unknown", ebiten.BlendSourceOver},
		{"", ebiten.BlendSourceOver},
	}
	for _, tt := range tests {
		if got := BlendFor(tt.op); got != tt.want {
			t.Errorf("BlendFor(%q) = %+v, want %+v", tt.op, got, tt.want)
		}
	}

	// 每个已知 composite 都应有专门的映射
	for _, op := range particle.Composites {
		if op != particle.CompositeSourceOver && BlendFor(op) == ebiten.BlendSourceOver {
			t.Errorf("BlendFor(%q) falls back to source-over", op)
		}
	}
}

// TestBuildFan 测试三角扇的顶点位置、颜色与索引
func TestBuildFan(t *testing.T) {
	inner := [4]float32{1, 0.5, 0, 1}
	outer := [4]float32{1, 0.5, 0, 0}

	vs, is := buildFan(nil, nil, 10, 20, 5, inner, outer, 16)

	if len(vs) != 17 {
		t.Fatalf("expected 17 vertices, got %d", len(vs))
	}
	if len(is) != 48 {
		t.Fatalf("expected 48 indices, got %d", len(is))
	}

	if vs[0].DstX != 10 || vs[0].DstY != 20 || vs[0].ColorA != 1 {
		t.Errorf("center vertex = %+v", vs[0])
	}
	for i, v := range vs[1:] {
		d := math.Hypot(float64(v.DstX)-10, float64(v.DstY)-20)
		if math.Abs(d-5) > 1e-4 {
			t.Errorf("rim vertex %d at distance %v, want 5", i, d)
		}
		if v.ColorA != 0 || v.ColorR != 1 {
			t.Errorf("rim vertex %d color = (%v, %v, %v, %v)", i, v.ColorR, v.ColorG, v.ColorB, v.ColorA)
		}
	}

	for i := 0; i < len(is); i += 3 {
		if is[i] != 0 {
			t.Errorf("triangle %d does not start at the center", i/3)
		}
		if is[i+1] >= 17 || is[i+2] >= 17 {
			t.Errorf("triangle %d indexes out of range: %v", i/3, is[i:i+3])
		}
	}
	// 最后一个三角形闭合回第一个边缘顶点
	if last := is[len(is)-1]; last != 1 {
		t.Errorf("closing index = %d, want 1", last)
	}
}

// TestBuildFan_AppendsWithOffset 测试追加到已有缓冲时索引带偏移
func TestBuildFan_AppendsWithOffset(t *testing.T) {
	var c [4]float32
	vs, is := buildFan(nil, nil, 0, 0, 1, c, c, 12)
	vs, is = buildFan(vs, is, 5, 5, 1, c, c, 12)

	if len(vs) != 26 || len(is) != 72 {
		t.Fatalf("got %d vertices, %d indices", len(vs), len(is))
	}
	if is[36] != 13 {
		t.Errorf("second fan center index = %d, want 13", is[36])
	}
}

// TestSegmentsFor 测试分段数随半径变化并有上下限
func TestSegmentsFor(t *testing.T) {
	if got := segmentsFor(0.5); got != minSegments {
		t.Errorf("segmentsFor(0.5) = %d, want %d", got, minSegments)
	}
	if got := segmentsFor(1000); got != maxSegments {
		t.Errorf("segmentsFor(1000) = %d, want %d", got, maxSegments)
	}
	if a, b := segmentsFor(10), segmentsFor(30); a > b {
		t.Errorf("segmentsFor should not shrink with radius: %d > %d", a, b)
	}
}

// TestVertexColor 测试颜色归一化与全局透明度
func TestVertexColor(t *testing.T) {
	got := vertexColor(color.RGBA{R: 255, G: 0, B: 51, A: 255}, 0.5)
	want := [4]float32{1, 0, 0.2, 0.5}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("component %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestEbitenCanvas_State 测试混合模式与透明度状态
func TestEbitenCanvas_State(t *testing.T) {
	c := NewEbitenCanvas(ebiten.NewImage(64, 64))

	if c.blend != ebiten.BlendSourceOver || c.alpha != 1 {
		t.Errorf("initial state blend=%+v alpha=%v", c.blend, c.alpha)
	}

	c.SetCompositeOperation("lighter")
	c.SetGlobalAlpha(1.5)
	if c.blend != ebiten.BlendLighter {
		t.Errorf("blend = %+v, want lighter", c.blend)
	}
	if c.alpha != 1 {
		t.Errorf("alpha = %v, want clamped 1", c.alpha)
	}
	c.SetGlobalAlpha(math.NaN())
	if c.alpha != 0 {
		t.Errorf("alpha = %v, want 0 for NaN", c.alpha)
	}

	c.Reset(ebiten.NewImage(8, 8))
	if c.composite != particle.CompositeSourceOver || c.alpha != 1 {
		t.Errorf("after Reset composite=%q alpha=%v", c.composite, c.alpha)
	}
}

// TestEbitenCanvas_Fill 测试绘制不会崩溃并复用缓冲
func TestEbitenCanvas_Fill(t *testing.T) {
	c := NewEbitenCanvas(ebiten.NewImage(64, 64))
	red := color.RGBA{R: 255, A: 255}

	c.FillCircle(32, 32, 10, red)
	if len(c.vertices) != segmentsFor(10)+1 {
		t.Errorf("vertices = %d, want %d", len(c.vertices), segmentsFor(10)+1)
	}

	c.FillRadialGradient(32, 32, 2, red, color.RGBA{R: 255})
	if len(c.vertices) != minSegments+1 {
		t.Errorf("vertices = %d, want %d", len(c.vertices), minSegments+1)
	}

	// 零半径不绘制，缓冲保持上次内容
	c.FillCircle(0, 0, 0, red)
	if len(c.vertices) != minSegments+1 {
		t.Errorf("zero radius should not rebuild the fan")
	}
}
