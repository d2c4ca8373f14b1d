package game

import (
	"errors"
	"image/color"
	"testing"

	"github.com/decker502/emberfx/internal/particle"
	"github.com/decker502/emberfx/pkg/config"
	"github.com/decker502/emberfx/pkg/entities"
)

// newTestViewer 创建不放置启动发射器的查看器
func newTestViewer(t *testing.T, sm *SettingsManager) *ParticleViewer {
	t.Helper()
	v, err := NewParticleViewer(config.DefaultViewerConfig(), sm)
	if err != nil {
		t.Fatalf("NewParticleViewer() error: %v", err)
	}
	return v
}

// TestNewParticleViewer 测试默认选择和启动发射器
func TestNewParticleViewer(t *testing.T) {
	cfg := config.DefaultViewerConfig()
	cfg.Emitters = []config.EmitterPlacement{
		{Effect: "fire", X: 100, Y: 100},
		{Effect: "snow", X: 400, Y: 0},
	}

	v, err := NewParticleViewer(cfg, nil)
	if err != nil {
		t.Fatalf("NewParticleViewer() error: %v", err)
	}

	if got := v.System.EmitterCount(); got != 2 {
		t.Errorf("EmitterCount: got %d, want 2", got)
	}
	if got := v.CurrentEffect(); got != "fire" {
		t.Errorf("CurrentEffect: got %q, want fire", got)
	}
	if got := v.System.MaxParticles(); got != cfg.MaxParticles {
		t.Errorf("MaxParticles: got %d, want %d", got, cfg.MaxParticles)
	}
	if v.Paused() {
		t.Error("viewer should start unpaused by default")
	}
}

// TestNewParticleViewerUnknownEffect 测试启动发射器引用未知效果
func TestNewParticleViewerUnknownEffect(t *testing.T) {
	cfg := config.DefaultViewerConfig()
	cfg.Emitters = []config.EmitterPlacement{{Effect: "plasma"}}

	if _, err := NewParticleViewer(cfg, nil); !errors.Is(err, entities.ErrUnknownEffect) {
		t.Errorf("expected ErrUnknownEffect, got %v", err)
	}
}

// TestNewParticleViewerOverrides 测试配置中的属性覆盖
func TestNewParticleViewerOverrides(t *testing.T) {
	cfg := config.DefaultViewerConfig()
	cfg.Effects = map[string]map[string]string{"fade": {"size": "30"}}

	v, err := NewParticleViewer(cfg, nil)
	if err != nil {
		t.Fatalf("NewParticleViewer() error: %v", err)
	}
	def, err := v.Library.Definition("fade")
	if err != nil {
		t.Fatal(err)
	}
	var p particle.Particle
	def.Init(&p)
	if p.Size != 30 {
		t.Errorf("overridden fade size: got %v, want 30", p.Size)
	}

	cfg.Effects = map[string]map[string]string{"fade": {"composite": "3"}}
	if _, err := NewParticleViewer(cfg, nil); !errors.Is(err, particle.ErrValueType) {
		t.Errorf("expected ErrValueType for a numeric composite, got %v", err)
	}
}

// TestParticleViewerRestoresSettings 测试从设置恢复上次的效果和暂停状态
func TestParticleViewerRestoresSettings(t *testing.T) {
	sm, _ := NewSettingsManager(nil)
	sm.SetLastEffect("sparks")
	sm.SetPaused(true)

	v := newTestViewer(t, sm)
	if got := v.CurrentEffect(); got != "sparks" {
		t.Errorf("CurrentEffect: got %q, want sparks", got)
	}
	if !v.Paused() {
		t.Error("viewer should restore the paused state")
	}

	// 未知的 LastEffect 回退到第一个效果
	sm.SetLastEffect("removed-effect")
	v = newTestViewer(t, sm)
	if got, want := v.CurrentEffect(), v.EffectNames()[0]; got != want {
		t.Errorf("CurrentEffect: got %q, want %q", got, want)
	}
}

// TestParticleViewerNavigation 测试效果切换（循环）
func TestParticleViewerNavigation(t *testing.T) {
	sm, _ := NewSettingsManager(nil)
	v := newTestViewer(t, sm)
	names := v.EffectNames()
	n := len(names)

	if err := v.SelectEffect(names[0]); err != nil {
		t.Fatal(err)
	}
	v.PreviousEffect()
	if v.CurrentIndex() != n-1 {
		t.Errorf("PreviousEffect from 0: got index %d, want %d", v.CurrentIndex(), n-1)
	}
	v.NextEffect()
	if v.CurrentIndex() != 0 {
		t.Errorf("NextEffect from last: got index %d, want 0", v.CurrentIndex())
	}
	v.NextEffect()
	if got := sm.GetSettings().LastEffect; got != names[1] {
		t.Errorf("LastEffect setting: got %q, want %q", got, names[1])
	}

	if err := v.SelectEffect("plasma"); !errors.Is(err, entities.ErrUnknownEffect) {
		t.Errorf("SelectEffect(plasma): expected ErrUnknownEffect, got %v", err)
	}
}

// TestParticleViewerSpawnAndPause 测试生成、暂停和清空
func TestParticleViewerSpawnAndPause(t *testing.T) {
	v := newTestViewer(t, nil)
	if err := v.SelectEffect("fade"); err != nil {
		t.Fatal(err)
	}

	emitter, err := v.Spawn(200, 150)
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if emitter.Config.X != 200 || emitter.Config.Y != 150 {
		t.Errorf("fade emitter origin: got (%v, %v), want (200, 150)", emitter.Config.X, emitter.Config.Y)
	}

	// fade: 每帧 1 个粒子，寿命 60 帧
	for i := 0; i < 3; i++ {
		v.Update()
	}
	if got := v.System.ParticleCount(); got != 3 {
		t.Errorf("ParticleCount after 3 frames: got %d, want 3", got)
	}

	if !v.TogglePause() {
		t.Fatal("TogglePause should report paused")
	}
	if !v.Settings().GetSettings().Paused {
		t.Error("paused state should be recorded in settings")
	}
	v.Update()
	v.Update()
	if got := v.System.ParticleCount(); got != 3 {
		t.Errorf("ParticleCount while paused: got %d, want 3", got)
	}
	if v.Frame() != 3 {
		t.Errorf("Frame: got %d, want 3", v.Frame())
	}

	v.TogglePause()
	v.Clear()
	if v.System.ParticleCount() != 0 || v.System.EmitterCount() != 0 {
		t.Error("Clear should remove every particle and emitter")
	}
	if emitter.Index != -1 {
		t.Errorf("cleared emitter index: got %d, want -1", emitter.Index)
	}
}

// TestParticleViewerDraw 测试绘制转发到画布
func TestParticleViewerDraw(t *testing.T) {
	v := newTestViewer(t, nil)
	if err := v.SelectEffect("fade"); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Spawn(0, 0); err != nil {
		t.Fatal(err)
	}
	v.Update()
	v.Update()

	c := &countingCanvas{}
	v.Draw(c)
	if c.fills != 2 {
		t.Errorf("fills: got %d, want 2", c.fills)
	}
	if c.composite != particle.CompositeSourceOver {
		t.Errorf("composite: got %q, want %q", c.composite, particle.CompositeSourceOver)
	}
}

// TestParticleViewerClosePersists 测试 Close 保存设置
func TestParticleViewerClosePersists(t *testing.T) {
	gdataManager := openTestStorage(t, "test_viewer_close")
	sm, _ := NewSettingsManager(gdataManager)

	v := newTestViewer(t, sm)
	if err := v.SelectEffect("smoke"); err != nil {
		t.Fatal(err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reloaded, _ := NewSettingsManager(gdataManager)
	if got := reloaded.GetSettings().LastEffect; got != "smoke" {
		t.Errorf("persisted LastEffect: got %q, want smoke", got)
	}
}

type countingCanvas struct {
	fills     int
	composite string
}

func (c *countingCanvas) SetCompositeOperation(op string) {
	c.composite = op
}

func (c *countingCanvas) SetGlobalAlpha(float64) {}

func (c *countingCanvas) FillCircle(x, y, radius float64, col color.RGBA) {
	c.fills++
}

func (c *countingCanvas) FillRadialGradient(x, y, radius float64, inner, outer color.RGBA) {
	c.fills++
}
