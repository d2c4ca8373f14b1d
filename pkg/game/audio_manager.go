package game

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// 音频采样率
const cueSampleRate = beep.SampleRate(44100)

// CueType 提示音类型
type CueType int

const (
	// CueSpawn 生成发射器（短促的上扬音）
	CueSpawn CueType = iota
	// CueClear 清空所有粒子（低沉的下降音）
	CueClear
)

// AudioManager 提示音管理器
// 职责：
//   - 在终端查看器中为生成和清空操作播放短提示音
//   - 从 SettingsManager 读取音效开关和音量
//
// 提示音由程序合成，不依赖音频文件。
type AudioManager struct {
	mu              sync.Mutex
	settingsManager *SettingsManager // 设置管理器（可为 nil，视为音效关闭）
	mixer           *beep.Mixer
	initialized     bool
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - sm: SettingsManager 实例（用于读取音效设置，可为 nil）
//
// 返回：
//   - *AudioManager: 音频管理器实例，需调用 Initialize() 打开音频设备
func NewAudioManager(sm *SettingsManager) *AudioManager {
	return &AudioManager{
		settingsManager: sm,
		mixer:           &beep.Mixer{},
	}
}

// Initialize 打开音频设备
// 重复调用是安全的
func (am *AudioManager) Initialize() error {
	am.mu.Lock()
	defer am.mu.Unlock()

	if am.initialized {
		return nil
	}

	if err := speaker.Init(cueSampleRate, cueSampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(am.mixer)
	am.initialized = true
	log.Printf("[AudioManager] Speaker initialized at %d Hz", cueSampleRate)
	return nil
}

// PlayCue 播放提示音
//
// 返回：
//   - bool: 是否实际播放（音效关闭、音量为 0 或设备未初始化时返回 false）
func (am *AudioManager) PlayCue(cue CueType) bool {
	volume := am.cueVolume()
	if volume <= 0 {
		return false
	}

	am.mu.Lock()
	defer am.mu.Unlock()
	if !am.initialized {
		return false
	}

	speaker.Lock()
	am.mixer.Add(NewCueStreamer(cue, volume))
	speaker.Unlock()
	return true
}

// cueVolume 返回当前音量，音效关闭时为 0
func (am *AudioManager) cueVolume() float64 {
	if am.settingsManager == nil {
		return 0
	}
	settings := am.settingsManager.GetSettings()
	if !settings.SoundEnabled {
		return 0
	}
	return settings.SoundVolume
}

// NewCueStreamer 创建提示音流
// 音量 <= 0 时返回静音流
func NewCueStreamer(cue CueType, volume float64) beep.Streamer {
	var tone *chirpGenerator
	switch cue {
	case CueClear:
		tone = &chirpGenerator{sr: cueSampleRate, from: 440, to: 180, decay: 10}
	default:
		tone = &chirpGenerator{sr: cueSampleRate, from: 660, to: 1320, decay: 18}
	}
	s := beep.Take(cueSampleRate.N(120*time.Millisecond), tone)

	// math.Log2(0) 为 -Inf，音量为 0 时直接静音
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(clampVolume(volume))}
}

// chirpGenerator 频率线性滑动、指数衰减的正弦音
type chirpGenerator struct {
	sr       beep.SampleRate
	from, to float64 // 起止频率 (Hz)
	decay    float64 // 衰减速度 (1/s)

	pos   int
	phase float64
}

func (g *chirpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	// 滑动时长与 Take 的长度一致
	const sweep = 0.12
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		k := math.Min(t/sweep, 1)
		freq := g.from + (g.to-g.from)*k

		g.phase += 2 * math.Pi * freq / float64(g.sr)
		sample := 0.5 * math.Exp(-t*g.decay) * math.Sin(g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *chirpGenerator) Err() error {
	return nil
}
