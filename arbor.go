package arbor

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default fill color.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, pivots, scales, and skew angles.
type Vec2 struct {
	X float64 `toml:"x" yaml:"x"`
	Y float64 `toml:"y" yaml:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Size is a width and height pair.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// ContainsRect reports whether other lies entirely inside r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.X+other.Width <= r.X+r.Width &&
		other.Y >= r.Y && other.Y+other.Height <= r.Y+r.Height
}

// Renderer is the drawing backend a scene renders into. Before each node's
// own draw callback the scene pushes that node's final matrix and display
// opacity; backends must not assume matrices carry over between nodes.
type Renderer interface {
	SetTransform(m Matrix)
	SetOpacity(alpha float64)
	// FillRect fills the local rectangle (0, 0, w, h) under the current
	// transform and opacity.
	FillRect(w, h float64, c Color)
}
