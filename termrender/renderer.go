// Package termrender draws arbor scenes into a terminal through tcell. One
// world unit maps to one terminal cell; opacity is shown by shading glyphs.
package termrender

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/arbor"
)

// Shading glyphs from most to least opaque.
var shades = [...]rune{'█', '▓', '▒', '░'}

// Renderer implements arbor.Renderer over a tcell.Screen.
type Renderer struct {
	screen tcell.Screen
	m      arbor.Matrix
	inv    arbor.Matrix
	alpha  float64
}

// New creates a Renderer drawing into screen.
func New(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen, m: arbor.Identity, inv: arbor.Identity, alpha: 1}
}

// SetTransform implements arbor.Renderer.
func (r *Renderer) SetTransform(m arbor.Matrix) {
	r.m = m
	r.inv = m.Invert()
}

// SetOpacity implements arbor.Renderer.
func (r *Renderer) SetOpacity(alpha float64) {
	r.alpha = alpha
}

// FillRect implements arbor.Renderer. A cell is filled when its center falls
// inside the transformed rectangle.
func (r *Renderer) FillRect(w, h float64, c arbor.Color) {
	a := c.A * r.alpha
	if w <= 0 || h <= 0 || a <= 0 {
		return
	}
	glyph := shade(a)
	style := tcell.StyleDefault.Foreground(rgb(c))

	sw, sh := r.screen.Size()
	b := r.m.BoundsOf(arbor.Rect{Width: w, Height: h})
	x0 := max(0, int(math.Floor(b.X)))
	y0 := max(0, int(math.Floor(b.Y)))
	x1 := min(sw-1, int(math.Ceil(b.X+b.Width)))
	y1 := min(sh-1, int(math.Ceil(b.Y+b.Height)))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			lx, ly := r.inv.Apply(float64(x)+0.5, float64(y)+0.5)
			if lx < 0 || ly < 0 || lx >= w || ly >= h {
				continue
			}
			r.screen.SetContent(x, y, glyph, nil, style)
		}
	}
}

// DrawText writes s starting at the cell under the node's content origin.
// Text is not rotated or scaled.
func (r *Renderer) DrawText(s string, c arbor.Color) {
	if r.alpha*c.A <= 0 {
		return
	}
	ox, oy := r.m.Apply(0, 0)
	x, y := int(math.Floor(ox)), int(math.Floor(oy))
	sw, sh := r.screen.Size()
	if y < 0 || y >= sh {
		return
	}
	style := tcell.StyleDefault.Foreground(rgb(c))
	for _, ch := range s {
		if x >= sw {
			break
		}
		if x >= 0 {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
}

// shade picks a glyph for an effective opacity in (0, 1].
func shade(alpha float64) rune {
	switch {
	case alpha >= 0.75:
		return shades[0]
	case alpha >= 0.5:
		return shades[1]
	case alpha >= 0.25:
		return shades[2]
	default:
		return shades[3]
	}
}

func rgb(c arbor.Color) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int32 {
	return int32(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
