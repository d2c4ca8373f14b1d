package game

import (
	"fmt"
	"log"

	"github.com/decker502/emberfx/internal/particle"
	"github.com/decker502/emberfx/pkg/components"
	"github.com/decker502/emberfx/pkg/config"
	"github.com/decker502/emberfx/pkg/entities"
	"github.com/decker502/emberfx/pkg/systems"
)

// ParticleViewer 查看器的共享状态
// 职责：
//   - 持有效果库、粒子系统和渲染系统
//   - 维护当前选中的效果和暂停状态
//   - 把用户操作（切换、生成、暂停、清空）同步到 SettingsManager
//
// ebiten 和终端两个查看器只负责输入和画布，其余逻辑都在这里。
type ParticleViewer struct {
	Library  *entities.EffectLibrary
	System   *systems.ParticleSystem
	Renderer *systems.ParticleRenderSystem

	settingsManager *SettingsManager

	effectNames []string
	current     int
	paused      bool
	frame       int

	// StatusMessage 最近一次操作的提示信息
	StatusMessage string
}

// NewParticleViewer 根据配置创建查看器
//
// 参数：
//   - cfg: 查看器配置（属性覆盖、粒子上限、启动发射器）
//   - sm: 设置管理器，可为 nil（使用不持久化的默认设置）
//
// 返回：
//   - *ParticleViewer: 查看器实例，启动发射器已放置
//   - error: 覆盖无效或启动发射器引用未知效果时返回错误
func NewParticleViewer(cfg *config.ViewerConfig, sm *SettingsManager) (*ParticleViewer, error) {
	if cfg == nil {
		cfg = config.DefaultViewerConfig()
	}
	if sm == nil {
		sm, _ = NewSettingsManager(nil)
	}

	reg := particle.DefaultRegistry()
	lib := entities.NewEffectLibrary(reg)
	ps := systems.NewParticleSystem(reg)
	ps.SetMaxParticles(cfg.MaxParticles)

	v := &ParticleViewer{
		Library:         lib,
		System:          ps,
		Renderer:        systems.NewParticleRenderSystem(ps),
		settingsManager: sm,
		effectNames:     lib.Names(),
	}

	overrides, err := cfg.EffectOverrides()
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		if err := v.ApplyOverride(o); err != nil {
			return nil, err
		}
	}

	// 恢复上次的选择
	settings := sm.GetSettings()
	v.current = v.indexOf(settings.LastEffect)
	if v.current < 0 {
		v.current = 0
	}
	v.paused = settings.Paused

	for _, placement := range cfg.Emitters {
		if _, err := entities.CreateParticleEffect(ps, lib, placement.Effect, placement.X, placement.Y); err != nil {
			return nil, fmt.Errorf("failed to place startup emitter: %w", err)
		}
	}

	log.Printf("[ParticleViewer] 初始化完成: %d 个效果, %d 个启动发射器, 当前效果 %s",
		len(v.effectNames), len(cfg.Emitters), v.CurrentEffect())
	return v, nil
}

// ApplyOverride 覆盖效果首个关键帧的一个属性
func (v *ParticleViewer) ApplyOverride(o config.Override) error {
	if err := v.Library.Override(o.Effect, o.Attribute, o.Value); err != nil {
		return err
	}
	log.Printf("[ParticleViewer] 属性覆盖: %s.%s = %s", o.Effect, o.Attribute, o.Value)
	return nil
}

func (v *ParticleViewer) indexOf(name string) int {
	for i, n := range v.effectNames {
		if n == name {
			return i
		}
	}
	return -1
}

// EffectNames 返回可选效果名（已排序）
func (v *ParticleViewer) EffectNames() []string {
	return v.effectNames
}

// CurrentEffect 返回当前选中的效果名
func (v *ParticleViewer) CurrentEffect() string {
	if len(v.effectNames) == 0 {
		return ""
	}
	return v.effectNames[v.current]
}

// CurrentIndex 返回当前效果在 EffectNames() 中的下标
func (v *ParticleViewer) CurrentIndex() int {
	return v.current
}

// SelectEffect 按名字选中效果
func (v *ParticleViewer) SelectEffect(name string) error {
	i := v.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", entities.ErrUnknownEffect, name)
	}
	v.selectIndex(i)
	return nil
}

// NextEffect 切换到下一个效果（循环）
func (v *ParticleViewer) NextEffect() {
	v.step(1)
}

// PreviousEffect 切换到上一个效果（循环）
func (v *ParticleViewer) PreviousEffect() {
	v.step(-1)
}

func (v *ParticleViewer) step(delta int) {
	n := len(v.effectNames)
	if n == 0 {
		return
	}
	v.selectIndex(((v.current+delta)%n + n) % n)
}

func (v *ParticleViewer) selectIndex(i int) {
	v.current = i
	v.settingsManager.SetLastEffect(v.effectNames[i])
	v.StatusMessage = fmt.Sprintf("Selected: %s (%d/%d)", v.effectNames[i], i+1, len(v.effectNames))
}

// Spawn 在 (x, y) 生成当前效果的发射器
func (v *ParticleViewer) Spawn(x, y float64) (*components.EmitterComponent, error) {
	name := v.CurrentEffect()
	emitter, err := entities.CreateParticleEffect(v.System, v.Library, name, x, y)
	if err != nil {
		v.StatusMessage = fmt.Sprintf("Error: %v", err)
		return nil, err
	}
	v.StatusMessage = fmt.Sprintf("Spawned: %s at (%.0f, %.0f)", name, x, y)
	return emitter, nil
}

// TogglePause 切换暂停状态，返回切换后的状态
func (v *ParticleViewer) TogglePause() bool {
	v.paused = !v.paused
	v.settingsManager.SetPaused(v.paused)
	if v.paused {
		v.StatusMessage = "PAUSED - press P to resume"
	} else {
		v.StatusMessage = "Resumed"
	}
	return v.paused
}

// Paused 返回是否暂停
func (v *ParticleViewer) Paused() bool {
	return v.paused
}

// Clear 清空所有粒子和发射器
func (v *ParticleViewer) Clear() {
	v.System.Clear()
	v.StatusMessage = "Cleared all particles"
}

// Update 推进一帧模拟（暂停时不推进）
func (v *ParticleViewer) Update() {
	if v.paused {
		return
	}
	v.System.Update()
	v.frame++
}

// Frame 返回已模拟的帧数
func (v *ParticleViewer) Frame() int {
	return v.frame
}

// Draw 把所有存活粒子绘制到画布
func (v *ParticleViewer) Draw(c particle.Canvas) {
	v.Renderer.Draw(c)
}

// Settings 返回设置管理器
func (v *ParticleViewer) Settings() *SettingsManager {
	return v.settingsManager
}

// Stats 返回统计信息行
func (v *ParticleViewer) Stats() string {
	return fmt.Sprintf("Effect: %s (%d/%d)  Particles: %d  Emitters: %d  Frame: %d",
		v.CurrentEffect(), v.current+1, len(v.effectNames),
		v.System.ParticleCount(), v.System.EmitterCount(), v.frame)
}

// Close 保存设置
func (v *ParticleViewer) Close() error {
	return v.settingsManager.Save()
}
