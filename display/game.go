package display

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/kami"
)

// RunConfig configures Run. Zero values select defaults.
type RunConfig struct {
	// Title is the window title. Empty uses "kami".
	Title string
	// Width and Height are the window size. Zero uses 1280x720.
	Width, Height int
	// ShowFPS draws an FPS, TPS and widget count overlay.
	ShowFPS bool
	// Script, if non-nil, replaces mouse input with the scripted frames.
	Script *kami.ScriptRunner
	// ExitOnScriptDone ends the run once Script is exhausted.
	ExitOnScriptDone bool
	// Assets is searched for each kind's asset image. Nil draws every
	// widget as a tinted quad.
	Assets fs.FS
	// Background is the clear colour. Nil uses a dark slate.
	Background color.Color
}

var defaultBackground = color.RGBA{R: 26, G: 28, B: 38, A: 255}

// Game adapts an Engine to ebiten.Game.
type Game struct {
	engine   *kami.Engine
	renderer *Renderer
	camera   *Camera
	input    Input
	cfg      RunConfig
}

// NewGame builds a Game for engine. The caller runs it with ebiten.RunGame,
// or uses Run.
func NewGame(engine *kami.Engine, cfg RunConfig) (*Game, error) {
	if engine == nil {
		return nil, errors.New("display: nil engine")
	}
	if cfg.Title == "" {
		cfg.Title = "kami"
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	if cfg.Background == nil {
		cfg.Background = defaultBackground
	}
	r, err := NewRenderer(engine, cfg.Assets)
	if err != nil {
		return nil, err
	}
	return &Game{
		engine:   engine,
		renderer: r,
		camera:   NewCamera(kami.Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}),
		cfg:      cfg,
	}, nil
}

// Camera returns the game's camera.
func (g *Game) Camera() *Camera { return g.camera }

// Renderer returns the game's renderer.
func (g *Game) Renderer() *Renderer { return g.renderer }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))

	var in kami.FrameInput
	if s := g.cfg.Script; s != nil {
		if s.Done() {
			if g.cfg.ExitOnScriptDone {
				return ebiten.Termination
			}
		} else {
			in, _ = s.Next()
		}
	} else {
		in = g.input.Poll(g.camera)
	}

	g.engine.Tick(in)
	g.renderer.Update(dt)
	g.camera.Update(dt)
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background)
	g.renderer.Draw(screen, g.camera)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nwidgets: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), g.engine.Registry().Len()))
	}
}

// Layout implements ebiten.Game. The viewport tracks the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.camera.SetViewport(kami.Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)})
	return outsideWidth, outsideHeight
}

// Run opens a window and runs engine until the window is closed or, with
// ExitOnScriptDone, the script ends.
func Run(engine *kami.Engine, cfg RunConfig) error {
	g, err := NewGame(engine, cfg)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
