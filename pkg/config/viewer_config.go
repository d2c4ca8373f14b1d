package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/decker502/emberfx/internal/particle"
	"github.com/decker502/emberfx/pkg/embedded"
)

// DefaultViewerConfigPath 默认配置文件位置（磁盘优先，其次为嵌入数据）
const DefaultViewerConfigPath = "data/viewer.yaml"

// ViewerConfig 粒子查看器配置
//
// 控制窗口、刷新率、背景色、粒子上限，以及启动时放置的发射器。
//
// 配置文件位置: data/viewer.yaml
type ViewerConfig struct {
	// Window 窗口设置（ebiten 查看器）
	Window WindowConfig `yaml:"window"`

	// TPS 每秒模拟帧数，粒子的时间单位是帧
	TPS int `yaml:"tps"`

	// Background 背景色，"#rrggbb" 格式
	Background string `yaml:"background"`

	// MaxParticles 粒子数量上限（0 表示不限制）
	MaxParticles int `yaml:"maxParticles"`

	// Terminal 终端查看器设置
	Terminal TerminalConfig `yaml:"terminal"`

	// Effects 效果首个关键帧的属性覆盖
	// key: 效果名；value: 属性名 → 取值文本（如 "[2 4]"、"{lighter|copy}"）
	Effects map[string]map[string]string `yaml:"effects"`

	// Emitters 启动时放置的发射器
	Emitters []EmitterPlacement `yaml:"emitters"`
}

// WindowConfig 窗口设置
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// TerminalConfig 终端查看器设置
type TerminalConfig struct {
	// Scale 每个终端像素对应的世界坐标单位（每个字符格为上下两个像素）
	Scale float64 `yaml:"scale"`
}

// EmitterPlacement 启动发射器
type EmitterPlacement struct {
	// Effect 效果名（见 entities.EffectLibrary）
	Effect string `yaml:"effect"`

	// X, Y 发射区域中心的世界坐标
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// DefaultViewerConfig 返回内置默认配置
func DefaultViewerConfig() *ViewerConfig {
	return &ViewerConfig{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "emberfx",
		},
		TPS:          60,
		Background:   "#101018",
		MaxParticles: 5000,
		Terminal: TerminalConfig{
			Scale: 8,
		},
	}
}

// LoadViewerConfig 加载查看器配置
//
// 从指定路径加载 YAML 格式的配置文件，未出现的字段保留默认值。
//
// 参数:
//   - path: 配置文件路径（如 "data/viewer.yaml"）
//
// 返回:
//   - *ViewerConfig: 加载成功后的配置结构
//   - error: 加载失败时返回错误
func LoadViewerConfig(path string) (*ViewerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read viewer config: %w", err)
	}
	return ParseViewerConfig(data)
}

// ResolveViewerConfig 按优先级加载查看器配置
//
// 查找顺序：
//  1. 磁盘上的 path
//  2. 嵌入数据中的 path
//  3. DefaultViewerConfig()
//
// 只有文件不存在时才会回退；文件存在但内容无效时返回错误。
func ResolveViewerConfig(path string) (*ViewerConfig, error) {
	cfg, err := LoadViewerConfig(path)
	if err == nil {
		log.Printf("[ViewerConfig] Loaded %s from disk", path)
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if embedded.Exists(path) {
		cfg, err := LoadEmbeddedViewerConfig(path)
		if err != nil {
			return nil, err
		}
		log.Printf("[ViewerConfig] Loaded embedded %s", path)
		return cfg, nil
	}

	log.Printf("[ViewerConfig] %s not found, using defaults", path)
	return DefaultViewerConfig(), nil
}

// LoadEmbeddedViewerConfig 从嵌入数据加载查看器配置
func LoadEmbeddedViewerConfig(path string) (*ViewerConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded viewer config %s: %w", path, err)
	}
	return ParseViewerConfig(data)
}

// ParseViewerConfig 解析并验证 YAML 配置内容
func ParseViewerConfig(data []byte) (*ViewerConfig, error) {
	config := DefaultViewerConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse viewer config: %w", err)
	}

	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid viewer config: %w", err)
	}

	return config, nil
}

// Validate 验证配置有效性
//
// 检查配置值是否在合理范围内：
//   - 窗口尺寸为正，TPS 在 1-240 之间
//   - 背景色为合法的十六进制颜色
//   - 属性覆盖的属性名已知，取值文本可解析
//   - 每个启动发射器都指定了效果名
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *ViewerConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size invalid: %dx%d", c.Window.Width, c.Window.Height)
	}

	if c.TPS < 1 || c.TPS > 240 {
		return fmt.Errorf("tps out of range [1, 240]: %d", c.TPS)
	}

	if _, err := c.BackgroundColor(); err != nil {
		return err
	}

	if c.MaxParticles < 0 {
		return fmt.Errorf("maxParticles cannot be negative: %d", c.MaxParticles)
	}

	if !(c.Terminal.Scale > 0) {
		return fmt.Errorf("terminal scale must be positive: %v", c.Terminal.Scale)
	}

	if _, err := c.EffectOverrides(); err != nil {
		return err
	}

	for i, e := range c.Emitters {
		if e.Effect == "" {
			return fmt.Errorf("emitter %d: effect name is required", i)
		}
	}

	return nil
}

// BackgroundColor 解析背景色
func (c *ViewerConfig) BackgroundColor() (colorful.Color, error) {
	col, err := colorful.Hex(c.Background)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("background color %q invalid: %w", c.Background, err)
	}
	return col, nil
}

// Override 单个属性覆盖
type Override struct {
	Effect    string
	Attribute string
	Value     particle.Value
}

// EffectOverrides 解析所有属性覆盖，按效果名和属性名排序
func (c *ViewerConfig) EffectOverrides() ([]Override, error) {
	var out []Override
	for effect, attrs := range c.Effects {
		for attr, text := range attrs {
			if _, ok := particle.LookupAttribute(attr); !ok {
				return nil, fmt.Errorf("effect %s: %w %q", effect, particle.ErrUnknownAttribute, attr)
			}
			v, err := particle.ParseValue(text)
			if err != nil {
				return nil, fmt.Errorf("effect %s: attribute %s: %w", effect, attr, err)
			}
			out = append(out, Override{Effect: effect, Attribute: attr, Value: v})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Effect != out[j].Effect {
			return out[i].Effect < out[j].Effect
		}
		return out[i].Attribute < out[j].Attribute
	})
	return out, nil
}

// ParseOverride 解析命令行覆盖 "effect.attribute=value"
//
// 例如 "fire.size=[2 4]"、"sparks.composite={lighter|copy}"。
func ParseOverride(text string) (Override, error) {
	key, value, ok := strings.Cut(text, "=")
	if !ok {
		return Override{}, fmt.Errorf("override %q: missing '='", text)
	}
	effect, attr, ok := strings.Cut(strings.TrimSpace(key), ".")
	if !ok || effect == "" || attr == "" {
		return Override{}, fmt.Errorf("override %q: key must be effect.attribute", text)
	}
	if _, known := particle.LookupAttribute(attr); !known {
		return Override{}, fmt.Errorf("override %q: %w %q", text, particle.ErrUnknownAttribute, attr)
	}
	v, err := particle.ParseValue(value)
	if err != nil {
		return Override{}, fmt.Errorf("override %q: %w", text, err)
	}
	return Override{Effect: effect, Attribute: attr, Value: v}, nil
}
