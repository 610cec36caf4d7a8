package ebitenrender

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/arbor"
)

// defaultTPS is used when Ebitengine reports no fixed tick rate.
const defaultTPS = 60

// ClickFunc receives the topmost node under a left click (nil when the click
// hit nothing) and the click's screen position.
type ClickFunc func(hit *arbor.Node, x, y float64)

// Game adapts an arbor scene to ebiten.Game. Each Update advances the scene
// by one tick of 1/TPS seconds; each Draw renders it into the screen.
type Game struct {
	Scene *arbor.Scene
	// Width and Height are the logical screen size returned from Layout.
	Width, Height int
	// ClearColor fills the screen before the scene is drawn. A zero alpha
	// leaves the screen untouched.
	ClearColor arbor.Color
	// OnUpdate runs before the scene tick. A non-nil error ends the game.
	OnUpdate func() error
	// OnClick is called for every left-button press.
	OnClick ClickFunc

	renderer *Renderer
}

// NewGame creates a Game for scene with the given logical size.
func NewGame(scene *arbor.Scene, width, height int) *Game {
	return &Game{Scene: scene, Width: width, Height: height, renderer: New(nil)}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.OnUpdate != nil {
		if err := g.OnUpdate(); err != nil {
			return err
		}
	}
	if g.OnClick != nil && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		x, y := float64(mx), float64(my)
		g.OnClick(g.Scene.HitTest(x, y), x, y)
	}
	g.Scene.Update(tickSeconds())
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.ClearColor.A > 0 {
		screen.Fill(toRGBA(g.ClearColor))
	}
	if g.renderer == nil {
		g.renderer = New(nil)
	}
	g.renderer.SetTarget(screen)
	g.Scene.Draw(g.renderer)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Width <= 0 || g.Height <= 0 {
		return outsideWidth, outsideHeight
	}
	return g.Width, g.Height
}

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ClearColor    arbor.Color
	ShowFPS       bool
	OnUpdate      func() error
	OnClick       ClickFunc
}

// Run opens a window and drives scene until the window is closed or
// OnUpdate returns an error. It blocks.
func Run(scene *arbor.Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)

	if cfg.ShowFPS {
		if err := scene.Add(NewFPSNode()); err != nil {
			return err
		}
	}

	g := NewGame(scene, cfg.Width, cfg.Height)
	g.ClearColor = cfg.ClearColor
	g.OnUpdate = cfg.OnUpdate
	g.OnClick = cfg.OnClick
	scene.Logger().Info("window opened", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	return ebiten.RunGame(g)
}

func tickSeconds() float64 {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = defaultTPS
	}
	return 1 / float64(tps)
}

func toRGBA(c arbor.Color) color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
