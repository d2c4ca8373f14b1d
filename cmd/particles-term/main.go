// Package main provides the emberfx particle viewer for terminals.
//
// Each character cell shows two pixels with a half-block glyph, so a 100x37
// terminal at the default scale of 8 covers an 800x592 world.
//
// Usage:
//
//	go run ./cmd/particles-term [flags]
//
// Flags:
//
//	--config <path>            Viewer config (default data/viewer.yaml, falls back to embedded data)
//	--effect <name>            Start with a specific effect
//	--set effect.attr=value    Override an attribute of an effect's first stop (repeatable)
//	--max <n>                  Particle cap (overrides maxParticles in the config)
//	--sound                    Enable the spawn/clear audio cue
//	--log <file>               Write logs to file (logging is off otherwise)
//
// Controls:
//
//	Mouse Click       - Spawn the current effect under the cursor
//	Space             - Spawn the current effect at the screen center
//	Left/Right Arrow  - Previous/next effect
//	P                 - Toggle pause
//	R                 - Clear all particles and emitters
//	H                 - Toggle the status line
//	S                 - Toggle the audio cue
//	Q/Escape/Ctrl+C   - Quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/emberfx"
	"github.com/decker502/emberfx/pkg/config"
	"github.com/decker502/emberfx/pkg/embedded"
	"github.com/decker502/emberfx/pkg/game"
	"github.com/decker502/emberfx/pkg/render"
)

// overrideFlags 可重复的 --set 参数
type overrideFlags []string

func (f *overrideFlags) String() string {
	return strings.Join(*f, ", ")
}

func (f *overrideFlags) Set(v string) error {
	*f = append(*f, v)
	return nil
}

var (
	configFlag = flag.String("config", config.DefaultViewerConfigPath, "Viewer config path")
	effectFlag = flag.String("effect", "", "Start with specific effect name")
	maxFlag    = flag.Int("max", -1, "Particle cap (0 = unlimited, default from config)")
	soundFlag  = flag.Bool("sound", false, "Enable the audio cue")
	logFlag    = flag.String("log", "", "Log file (terminal output is reserved for the viewer)")
	setFlags   overrideFlags
)

func init() {
	flag.Var(&setFlags, "set", "Override effect.attribute=value (repeatable)")
}

// TerminalViewer 终端查看器
type TerminalViewer struct {
	screen tcell.Screen
	viewer *game.ParticleViewer
	canvas *render.TerminalCanvas
	audio  *game.AudioManager

	tps         int
	lastButtons tcell.ButtonMask
}

// NewTerminalViewer creates the viewer on an initialized screen
func NewTerminalViewer(screen tcell.Screen, cfg *config.ViewerConfig, sm *game.SettingsManager) (*TerminalViewer, error) {
	viewer, err := game.NewParticleViewer(cfg, sm)
	if err != nil {
		return nil, err
	}

	for _, text := range setFlags {
		o, err := config.ParseOverride(text)
		if err != nil {
			return nil, err
		}
		if err := viewer.ApplyOverride(o); err != nil {
			return nil, err
		}
	}

	if *effectFlag != "" {
		if err := viewer.SelectEffect(*effectFlag); err != nil {
			return nil, err
		}
	}

	background, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}

	cols, rows := screen.Size()
	tv := &TerminalViewer{
		screen: screen,
		viewer: viewer,
		canvas: render.NewTerminalCanvas(cols, rows, cfg.Terminal.Scale, background),
		audio:  game.NewAudioManager(viewer.Settings()),
		tps:    cfg.TPS,
	}

	// 音频设备不可用时继续运行（无声）
	if err := tv.audio.Initialize(); err != nil {
		log.Printf("Audio initialization failed: %v", err)
	}

	return tv, nil
}

// run 事件循环：输入事件来自 PollEvent 协程，模拟由定时器驱动
func (tv *TerminalViewer) run() {
	ticker := time.NewTicker(time.Second / time.Duration(tv.tps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := tv.screen.PollEvent()
			if ev == nil {
				// Fini 之后 PollEvent 返回 nil
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !tv.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			tv.viewer.Update()
			tv.draw()
		}
	}
}

// handleEvent 处理一个输入事件，返回 false 表示退出
func (tv *TerminalViewer) handleEvent(ev tcell.Event) bool {
	v := tv.viewer

	switch ev := ev.(type) {
	case *tcell.EventResize:
		tv.screen.Sync()
		tv.canvas.Resize(tv.screen.Size())

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.PreviousEffect()
		case tcell.KeyRight:
			v.NextEffect()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case ' ':
				w, h := tv.canvas.Size()
				tv.spawn(float64(w)*tv.canvas.Scale()/2, float64(h)*tv.canvas.Scale()/2)
			case 'p', 'P':
				v.TogglePause()
			case 'r', 'R':
				v.Clear()
				tv.audio.PlayCue(game.CueClear)
			case 'h', 'H':
				v.Settings().SetShowHUD(!v.Settings().GetSettings().ShowHUD)
			case 's', 'S':
				sm := v.Settings()
				sm.SetSoundEnabled(!sm.GetSettings().SoundEnabled)
				v.StatusMessage = fmt.Sprintf("Sound: %v", sm.GetSettings().SoundEnabled)
			}
		}

	case *tcell.EventMouse:
		// 只在按下的那一刻生成，拖动不重复生成
		buttons := ev.Buttons()
		if buttons&tcell.Button1 != 0 && tv.lastButtons&tcell.Button1 == 0 {
			col, row := ev.Position()
			scale := tv.canvas.Scale()
			tv.spawn((float64(col)+0.5)*scale, (float64(row)*2+1)*scale)
		}
		tv.lastButtons = buttons
	}
	return true
}

func (tv *TerminalViewer) spawn(x, y float64) {
	if _, err := tv.viewer.Spawn(x, y); err != nil {
		log.Printf("Failed to spawn %s: %v", tv.viewer.CurrentEffect(), err)
		return
	}
	tv.audio.PlayCue(game.CueSpawn)
}

// draw 渲染一帧
func (tv *TerminalViewer) draw() {
	tv.canvas.Clear()
	tv.viewer.Draw(tv.canvas)
	tv.canvas.Show(tv.screen)

	if tv.viewer.Settings().GetSettings().ShowHUD {
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
		tv.drawText(0, 0, tv.viewer.Stats(), style)
		status := tv.viewer.StatusMessage
		if tv.viewer.Paused() {
			status = "PAUSED  " + status
		}
		tv.drawText(0, 1, status, style)
	}

	tv.screen.Show()
}

func (tv *TerminalViewer) drawText(x, y int, text string, style tcell.Style) {
	cols, _ := tv.screen.Size()
	for _, r := range text {
		if x >= cols {
			return
		}
		tv.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func main() {
	flag.Parse()

	// 终端被查看器占用，日志只写文件
	log.SetOutput(io.Discard)
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	embedded.Init(emberfx.DataFS)

	cfg, err := config.ResolveViewerConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *maxFlag >= 0 {
		cfg.MaxParticles = *maxFlag
	}

	storage, err := game.OpenStorage("emberfx")
	if err != nil {
		log.Printf("Warning: %v (settings will not be saved)", err)
	}
	sm, _ := game.NewSettingsManager(storage)
	if *soundFlag {
		sm.SetSoundEnabled(true)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	tv, err := NewTerminalViewer(screen, cfg, sm)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to initialize viewer: %v\n", err)
		os.Exit(1)
	}

	tv.run()
	screen.Fini()

	if err := tv.viewer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save settings: %v\n", err)
	}
}
