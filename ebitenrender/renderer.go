// Package ebitenrender draws arbor scenes into Ebitengine images and runs
// them in a window.
//
// Usage:
//
//	scene := arbor.NewScene()
//	// build the tree...
//	err := ebitenrender.Run(scene, ebitenrender.RunConfig{
//		Title: "demo", Width: 640, Height: 480,
//	})
package ebitenrender

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/arbor"
)

var whitePixelImage *ebiten.Image

// whitePixel returns a lazily-initialized 1x1 white image used for solid fills.
func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

// Renderer implements arbor.Renderer over an *ebiten.Image.
type Renderer struct {
	target *ebiten.Image
	geoM   ebiten.GeoM
	alpha  float64
	op     ebiten.DrawImageOptions
}

// New creates a Renderer drawing into target.
func New(target *ebiten.Image) *Renderer {
	return &Renderer{target: target, alpha: 1}
}

// SetTarget switches the image drawn into, typically the screen passed to
// ebiten.Game.Draw each frame.
func (r *Renderer) SetTarget(target *ebiten.Image) {
	r.target = target
}

// Target returns the current draw target.
func (r *Renderer) Target() *ebiten.Image { return r.target }

// SetTransform implements arbor.Renderer.
func (r *Renderer) SetTransform(m arbor.Matrix) {
	r.geoM = GeoM(m)
}

// SetOpacity implements arbor.Renderer.
func (r *Renderer) SetOpacity(alpha float64) {
	r.alpha = alpha
}

// FillRect implements arbor.Renderer by stretching a white pixel over the
// node's content rectangle.
func (r *Renderer) FillRect(w, h float64, c arbor.Color) {
	if r.target == nil || w <= 0 || h <= 0 {
		return
	}
	r.op.GeoM.Reset()
	r.op.GeoM.Scale(w, h)
	r.op.GeoM.Concat(r.geoM)
	r.op.ColorScale = colorScale(c, r.alpha)
	r.target.DrawImage(whitePixel(), &r.op)
}

// DrawImage draws img at the node's content origin with the current matrix
// and opacity. Nodes call it from OnDraw after a type assertion on the
// renderer.
func (r *Renderer) DrawImage(img *ebiten.Image) {
	if r.target == nil || img == nil {
		return
	}
	r.op.GeoM.Reset()
	r.op.GeoM.Concat(r.geoM)
	r.op.ColorScale = colorScale(arbor.ColorWhite, r.alpha)
	r.target.DrawImage(img, &r.op)
}

// GeoM converts an arbor matrix [a b c d tx ty] into an ebiten.GeoM.
func GeoM(m arbor.Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// colorScale premultiplies c by its own alpha and the node opacity.
func colorScale(c arbor.Color, opacity float64) ebiten.ColorScale {
	var cs ebiten.ColorScale
	a := float32(c.A * opacity)
	cs.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	return cs
}
