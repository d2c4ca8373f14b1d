// Package main provides the emberfx particle viewer (ebiten window).
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--config <path>            Viewer config (default data/viewer.yaml, falls back to embedded data)
//	--effect <name>            Start with a specific effect (e.g., --effect=sparks)
//	--set effect.attr=value    Override an attribute of an effect's first stop (repeatable)
//	--max <n>                  Particle cap (overrides maxParticles in the config)
//	--verbose                  Enable verbose logging
//
// Controls:
//
//	Mouse Click       - Spawn the current effect at the cursor
//	Space             - Spawn the current effect at the screen center
//	Left/Right Arrow  - Previous/next effect
//	P                 - Toggle pause
//	R                 - Clear all particles and emitters
//	H                 - Toggle the statistics overlay
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/emberfx"
	"github.com/decker502/emberfx/pkg/config"
	"github.com/decker502/emberfx/pkg/embedded"
	"github.com/decker502/emberfx/pkg/game"
	"github.com/decker502/emberfx/pkg/render"
)

// errQuit 用户请求退出
var errQuit = errors.New("quit requested")

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
	configFlag  = flag.String("config", config.DefaultViewerConfigPath, "Viewer config path")
	effectFlag  = flag.String("effect", "", "Start with specific effect name")
	maxFlag     = flag.Int("max", -1, "Particle cap (0 = unlimited, default from config)")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
	setFlags    overrideFlags
)

func init() {
	flag.Var(&setFlags, "set", "Override effect.attribute=value (repeatable)")
}

// ParticleViewerGame implements ebiten.Game for the particle viewer
type ParticleViewerGame struct {
	viewer *game.ParticleViewer
	canvas *render.EbitenCanvas

	width, height int
	background    color.Color
}

// NewParticleViewerGame creates a new particle viewer game instance
func NewParticleViewerGame(cfg *config.ViewerConfig, sm *game.SettingsManager) (*ParticleViewerGame, error) {
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

	return &ParticleViewerGame{
		viewer:     viewer,
		canvas:     render.NewEbitenCanvas(nil),
		width:      cfg.Window.Width,
		height:     cfg.Window.Height,
		background: background,
	}, nil
}

// Update handles input and advances the simulation by one frame
func (g *ParticleViewerGame) Update() error {
	v := g.viewer

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		v.PreviousEffect()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		v.NextEffect()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		v.Settings().SetShowHUD(!v.Settings().GetSettings().ShowHUD)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.spawn(float64(g.width)/2, float64(g.height)/2)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.spawn(float64(x), float64(y))
	}

	v.Update()
	return nil
}

func (g *ParticleViewerGame) spawn(x, y float64) {
	if _, err := g.viewer.Spawn(x, y); err != nil {
		log.Printf("Failed to spawn %s: %v", g.viewer.CurrentEffect(), err)
	}
}

// Draw renders the particles and the overlay
func (g *ParticleViewerGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)

	g.canvas.Reset(screen)
	g.viewer.Draw(g.canvas)

	if g.viewer.Settings().GetSettings().ShowHUD {
		g.drawUI(screen)
	}
}

// drawUI draws the statistics and controls overlay
func (g *ParticleViewerGame) drawUI(screen *ebiten.Image) {
	v := g.viewer

	ebitenutil.DebugPrintAt(screen, v.Stats(), 10, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %.0f  FPS: %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()), 10, 30)
	if v.StatusMessage != "" {
		ebitenutil.DebugPrintAt(screen, v.StatusMessage, 10, 50)
	}

	controls := []string{
		"<-/-> = Prev/Next effect  Click/Space = Spawn  R = Clear",
		"P = Pause  H = Hide overlay  Q = Quit",
	}
	y := g.height - len(controls)*20 - 10
	for i, line := range controls {
		ebitenutil.DebugPrintAt(screen, line, 10, y+i*20)
	}

	if v.Paused() {
		ebitenutil.DebugPrintAt(screen, "PAUSED (Press P to resume)", g.width-200, 10)
	}
}

// Layout returns the game's logical screen size
func (g *ParticleViewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func main() {
	flag.Parse()

	// 默认静音运行；如需详细调试，传入 --verbose
	if !*verboseFlag {
		log.SetOutput(io.Discard)
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

	// 设置存储打开失败时以降级模式运行（不持久化）
	storage, err := game.OpenStorage("emberfx")
	if err != nil {
		log.Printf("Warning: %v (settings will not be saved)", err)
	}
	sm, _ := game.NewSettingsManager(storage)

	g, err := NewParticleViewerGame(cfg, sm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize viewer: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.TPS)

	runErr := ebiten.RunGame(g)
	if err := g.viewer.Close(); err != nil {
		log.Printf("Warning: failed to save settings: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, errQuit) {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		os.Exit(1)
	}

	log.Println("Particle viewer closed")
}
