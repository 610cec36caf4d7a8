package main

import (
	charmLog "github.com/charmbracelet/log"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/script"
	"github.com/phanxgames/arbor/termrender"
)

// The demo is laid out in terminal cells; the window command zooms in.
const (
	sceneW = 80
	sceneH = 24

	boxW   = 6
	boxH   = 2
	rowGap = 4
)

const defaultScript = `
actions:
  patrol:
    loop:
      sequence:
        - move_by: {duration: 2, x: 40, ease: in_out_sine}
        - move_by: {duration: 2, x: -40, ease: in_out_sine}
  pulse:
    loop:
      sequence:
        - scale_to: {duration: 0.75, x: 1.5, y: 1.5, ease: out_quad}
        - scale_to: {duration: 0.75, x: 1, y: 1, ease: in_quad}
  blink:
    loop:
      sequence:
        - fade_out: 1
        - fade_in: 1
  spin:
    loop:
      rotate_by: {duration: 2, value: 360}
`

var palette = []arbor.Color{
	{R: 0.35, G: 0.75, B: 1, A: 1},
	{R: 1, G: 0.55, B: 0.3, A: 1},
	{R: 0.5, G: 1, B: 0.5, A: 1},
	{R: 1, G: 0.85, B: 0.3, A: 1},
	{R: 0.85, G: 0.5, B: 1, A: 1},
}

// buildScene lays out one box per library action and starts the action on it.
func buildScene(cfg arbor.Config, lib *script.Library, logger *charmLog.Logger) (*arbor.Scene, error) {
	scene := arbor.NewSceneWithConfig(cfg)
	if logger != nil {
		scene.SetLogger(logger)
	}

	title := scene.NewNode("title")
	title.SetPosition(2, 0)
	title.SetPositionFixed(true)
	title.Interactable = false
	title.OnDraw = func(r arbor.Renderer) {
		if tr, ok := r.(*termrender.Renderer); ok {
			tr.DrawText("arbor demo: q to quit", arbor.ColorWhite)
		}
	}
	if err := scene.Add(title); err != nil {
		return nil, err
	}

	for i, name := range lib.Names() {
		action, _ := lib.Get(name)
		box := arbor.NewRect(name, boxW, boxH, palette[i%len(palette)])
		box.SetPivot(0.5, 0.5)
		box.SetPosition(4+boxW/2, float64(2+i*rowGap)+boxH/2)
		if err := scene.Add(box); err != nil {
			return nil, err
		}
		if _, err := box.RunAction(action); err != nil {
			return nil, err
		}
		scene.Logger().Debug("box", "action", name, "duration", action.Duration())
	}
	return scene, nil
}

// fitCamera zooms the cell-sized layout to fill a width x height window.
func fitCamera(scene *arbor.Scene, width, height int) *arbor.Camera {
	cam := scene.NewCamera(arbor.Rect{Width: float64(width), Height: float64(height)})
	cam.Zoom = min(float64(width)/sceneW, float64(height)/sceneH)
	cam.X, cam.Y = sceneW/2, sceneH/2
	return cam
}
