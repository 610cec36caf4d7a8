package ebitenrender

import (
	"math"
	"testing"

	"github.com/phanxgames/arbor"
)

const epsilon = 1e-6

func TestGeoMMatchesMatrix(t *testing.T) {
	m := arbor.Translation(30, -4).
		Mul(arbor.RotationAbout(33, 5, 5)).
		Mul(arbor.ScaleAbout(2, 0.5, 0, 0))
	g := GeoM(m)

	for _, p := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {7.5, -3}} {
		wx, wy := m.Apply(p[0], p[1])
		gx, gy := g.Apply(p[0], p[1])
		if math.Abs(wx-gx) > epsilon || math.Abs(wy-gy) > epsilon {
			t.Errorf("Apply(%v) = (%v, %v), want (%v, %v)", p, gx, gy, wx, wy)
		}
	}
}

func TestGeoMIdentity(t *testing.T) {
	g := GeoM(arbor.Identity)
	if !g.IsInvertible() {
		t.Fatal("identity should be invertible")
	}
	x, y := g.Apply(3, 4)
	if x != 3 || y != 4 {
		t.Errorf("Apply(3, 4) = (%v, %v), want (3, 4)", x, y)
	}
}

func TestColorScalePremultiplies(t *testing.T) {
	cs := colorScale(arbor.Color{R: 1, G: 0.5, B: 0, A: 0.5}, 0.5)
	want := [4]float32{0.25, 0.125, 0, 0.25}
	got := [4]float32{cs.R(), cs.G(), cs.B(), cs.A()}
	if got != want {
		t.Errorf("colorScale = %v, want %v", got, want)
	}
}

func TestRendererStateWithoutTarget(t *testing.T) {
	r := New(nil)
	r.SetTransform(arbor.Translation(1, 2))
	r.SetOpacity(0.5)
	// No target: fills are dropped rather than panicking.
	r.FillRect(10, 10, arbor.ColorWhite)
	r.DrawImage(nil)
	if r.Target() != nil {
		t.Error("Target should be nil")
	}
	x, y := r.geoM.Apply(0, 0)
	if x != 1 || y != 2 {
		t.Errorf("geoM origin = (%v, %v), want (1, 2)", x, y)
	}
}

func TestToRGBA(t *testing.T) {
	got := toRGBA(arbor.Color{R: 1, G: 2, B: -1, A: 1})
	if got.R != 255 || got.G != 255 || got.B != 0 || got.A != 255 {
		t.Errorf("toRGBA = %+v", got)
	}
}

func TestLayout(t *testing.T) {
	g := NewGame(arbor.NewScene(), 320, 240)
	if w, h := g.Layout(1000, 1000); w != 320 || h != 240 {
		t.Errorf("Layout = %dx%d, want 320x240", w, h)
	}
	g.Width = 0
	if w, h := g.Layout(800, 600); w != 800 || h != 600 {
		t.Errorf("Layout = %dx%d, want the outside size", w, h)
	}
}
