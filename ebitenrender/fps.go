package ebitenrender

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/arbor"
)

// fpsOrder keeps the FPS readout above ordinary scene content.
const fpsOrder = 1 << 20

// NewFPSNode creates a position-fixed node that displays the current FPS and
// TPS. The text is refreshed about every 0.5 seconds, even while the scene is
// paused.
func NewFPSNode() *arbor.Node {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	img := ebiten.NewImage(100, 32)

	n := arbor.NewNode("fps")
	n.SetSize(100, 32)
	n.SetPositionFixed(true)
	n.SetOrder(fpsOrder)
	n.Interactable = false

	since := 0.5 // draw on the first tick
	n.OnFixedUpdate = func(dt float64) {
		since += dt
		if since < 0.5 {
			return
		}
		since = 0

		img.Clear()
		// Semi-transparent background for readability
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	n.OnDraw = func(r arbor.Renderer) {
		if er, ok := r.(*Renderer); ok {
			er.DrawImage(img)
		}
	}
	return n
}
