package arbor

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is the scene's view transform. Each tick it can chase a node, play
// a scripted scroll and clamp itself to world bounds. Nodes marked
// position-fixed ignore it.
type Camera struct {
	// X and Y are the world point shown at the viewport center.
	X, Y float64
	// Zoom scales the world; values above 1 zoom in.
	Zoom float64
	// Rotation in degrees, clockwise.
	Rotation float64
	// Viewport is the screen rectangle the camera renders into.
	Viewport Rect

	// CullEnabled skips drawing nodes whose screen bounds miss the viewport.
	// Their children are still visited.
	CullEnabled bool

	// BoundsEnabled keeps the visible area inside Bounds (world space).
	BoundsEnabled bool
	Bounds        Rect

	follow *cameraFollow
	scroll *cameraScroll

	view, inv Matrix
	stale     bool
	cached    [4]float64 // X, Y, Zoom, Rotation behind view
}

type cameraFollow struct {
	target *Node
	offset Vec2
	lerp   float64
}

// cameraScroll eases a 0..1 progress value; the position is interpolated in
// float64 so the end point is exact.
type cameraScroll struct {
	from, to Vec2
	progress *gween.Tween
}

// NewCamera returns a camera at the world origin with zoom 1 and culling on.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:        1,
		Viewport:    viewport,
		CullEnabled: true,
		stale:       true,
	}
}

// Follow chases node's world pivot plus (offsetX, offsetY). Each tick the
// camera closes lerp of the remaining distance, so 1 snaps.
func (c *Camera) Follow(node *Node, offsetX, offsetY, lerp float64) {
	if node == nil {
		c.follow = nil
		return
	}
	c.follow = &cameraFollow{target: node, offset: Vec2{X: offsetX, Y: offsetY}, lerp: lerp}
}

// Unfollow stops chasing.
func (c *Camera) Unfollow() { c.follow = nil }

// Following returns the node being chased, or nil.
func (c *Camera) Following() *Node {
	if c.follow == nil {
		return nil
	}
	return c.follow.target
}

// ScrollTo glides the camera to (x, y) over duration seconds. A nil easeFn
// is linear. It replaces any scroll already running.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scroll = &cameraScroll{
		from:     Vec2{X: c.X, Y: c.Y},
		to:       Vec2{X: x, Y: y},
		progress: gween.New(0, 1, duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo is still running.
func (c *Camera) Scrolling() bool { return c.scroll != nil }

// SetBounds turns on clamping to bounds.
func (c *Camera) SetBounds(bounds Rect) {
	c.Bounds = bounds
	c.BoundsEnabled = true
}

// ClearBounds turns clamping off.
func (c *Camera) ClearBounds() { c.BoundsEnabled = false }

func (c *Camera) update(dt float64) {
	if f := c.follow; f != nil {
		if f.target.IsDisposed() {
			c.follow = nil
		} else {
			piv, size := f.target.Pivot(), f.target.RealSize()
			wx, wy := f.target.LocalToWorld(size.Width*piv.X, size.Height*piv.Y)
			c.X += (wx + f.offset.X - c.X) * f.lerp
			c.Y += (wy + f.offset.Y - c.Y) * f.lerp
		}
	}

	if s := c.scroll; s != nil {
		p, done := s.progress.Update(float32(dt))
		if done {
			p = 1
			c.scroll = nil
		}
		t := float64(p)
		c.X = s.from.X + (s.to.X-s.from.X)*t
		c.Y = s.from.Y + (s.to.Y-s.from.Y)*t
	}

	if c.BoundsEnabled {
		halfW := c.Viewport.Width / (2 * c.Zoom)
		halfH := c.Viewport.Height / (2 * c.Zoom)
		c.X = clampAxis(c.X, c.Bounds.X, c.Bounds.Width, halfW)
		c.Y = clampAxis(c.Y, c.Bounds.Y, c.Bounds.Height, halfH)
	}
}

// clampAxis keeps v within [lo+half, lo+size-half]; a span narrower than the
// view centers it.
func clampAxis(v, lo, size, half float64) float64 {
	minV, maxV := lo+half, lo+size-half
	if minV > maxV {
		return lo + size/2
	}
	return math.Max(minV, math.Min(v, maxV))
}

// ViewMatrix returns the world-to-screen matrix: translate by (-X, -Y),
// rotate by -Rotation, scale by Zoom, then move to the viewport center.
// It is cached until a camera field changes.
func (c *Camera) ViewMatrix() Matrix {
	key := [4]float64{c.X, c.Y, c.Zoom, c.Rotation}
	if c.stale || key != c.cached {
		c.view = Translation(c.Viewport.X+c.Viewport.Width/2, c.Viewport.Y+c.Viewport.Height/2).
			Mul(ScaleAbout(c.Zoom, c.Zoom, 0, 0)).
			Mul(RotationAbout(-c.Rotation, 0, 0)).
			Mul(Translation(-c.X, -c.Y))
		c.inv = c.view.Invert()
		c.cached = key
		c.stale = false
	}
	return c.view
}

// WorldToScreen maps a world point to the screen.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.ViewMatrix().Apply(wx, wy)
}

// ScreenToWorld maps a screen point into the world.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.ViewMatrix()
	return c.inv.Apply(sx, sy)
}

// VisibleBounds is the world-space AABB of what the viewport shows.
func (c *Camera) VisibleBounds() Rect {
	c.ViewMatrix()
	return c.inv.BoundsOf(c.Viewport)
}

// MarkDirty forces the next ViewMatrix call to recompute. Needed after a
// Viewport change, which the cache key does not cover.
func (c *Camera) MarkDirty() { c.stale = true }
