package arbor

import "math"

// Matrix is a 2D affine transform stored as [a, b, c, d, tx, ty].
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// A point maps as x' = a*x + c*y + tx, y' = b*x + d*y + ty.
type Matrix [6]float64

// Identity is the identity affine matrix.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Translation returns a matrix that translates by (x, y).
func Translation(x, y float64) Matrix {
	return Matrix{1, 0, 0, 1, x, y}
}

// ScaleAbout returns a matrix that scales by (sx, sy) around the point (px, py).
func ScaleAbout(sx, sy, px, py float64) Matrix {
	return Matrix{sx, 0, 0, sy, px - sx*px, py - sy*py}
}

// SkewAbout returns a matrix that skews by the given angles (degrees) around
// the point (px, py). The X angle shears along the horizontal axis.
func SkewAbout(angleX, angleY, px, py float64) Matrix {
	tanX := math.Tan(angleX * math.Pi / 180)
	tanY := math.Tan(angleY * math.Pi / 180)
	return Matrix{1, tanY, tanX, 1, -py * tanX, -px * tanY}
}

// RotationAbout returns a matrix that rotates by deg degrees around the point
// (px, py). Positive angles rotate clockwise on a Y-down screen.
func RotationAbout(deg, px, py float64) Matrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Matrix{
		cos, sin, -sin, cos,
		px - cos*px + sin*py,
		py - sin*px - cos*py,
	}
}

// Mul returns m * c: the transform that applies c first, then m.
func (m Matrix) Mul(c Matrix) Matrix {
	return Matrix{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Invert returns the inverse of m.
// Returns Identity if m is singular (determinant ≈ 0).
func (m Matrix) Invert() Matrix {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyVec transforms v.
func (m Matrix) ApplyVec(v Vec2) Vec2 {
	x, y := m.Apply(v.X, v.Y)
	return Vec2{x, y}
}

// BoundsOf returns the axis-aligned bounding box of r after transformation by m.
func (m Matrix) BoundsOf(r Rect) Rect {
	x0, y0 := m.Apply(r.X, r.Y)
	x1, y1 := m.Apply(r.X+r.Width, r.Y)
	x2, y2 := m.Apply(r.X+r.Width, r.Y+r.Height)
	x3, y3 := m.Apply(r.X, r.Y+r.Height)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// computeLocalTransforms composes a node's own transform about its pivot point.
//
// Composition order (first applied on the right):
//
//	initial = Translate(X, Y) * Rotate(pivot) * Skew(pivot) * Scale(pivot)
//	final   = Translate(-pivot) * initial
//
// Children compose against initial; the node's own content draws with final,
// which places the pivot point at (X, Y).
func computeLocalTransforms(n *Node) (initial, final Matrix) {
	px := n.size.Width * n.pivot.X
	py := n.size.Height * n.pivot.Y

	initial = ScaleAbout(n.scale.X, n.scale.Y, px, py)
	if n.skew.X != 0 || n.skew.Y != 0 {
		initial = SkewAbout(n.skew.X, n.skew.Y, px, py).Mul(initial)
	}
	if n.rotation != 0 {
		initial = RotationAbout(n.rotation, px, py).Mul(initial)
	}
	initial = Translation(n.pos.X, n.pos.Y).Mul(initial)
	final = Translation(-px, -py).Mul(initial)
	return initial, final
}

// updateTransform recomputes the node's cached matrices if they are stale.
// A recompute always flags every direct child, so children never read a
// parent initial matrix older than the one they were composed against.
func (n *Node) updateTransform() {
	if !n.transformDirty {
		return
	}

	n.initial, n.final = computeLocalTransforms(n)
	if !n.positionFixed && n.parent != nil {
		n.initial = n.parent.initial.Mul(n.initial)
		n.final = n.parent.initial.Mul(n.final)
	}
	n.transformDirty = false

	for _, child := range n.children {
		child.transformDirty = true
	}
}

// refreshTransform brings the node's matrices up to date outside the update
// pass by recomputing any stale ancestors top-down first.
func (n *Node) refreshTransform() {
	var chain [debugMaxTreeDepth]*Node
	path := chain[:0]
	for p := n; p != nil; p = p.parent {
		path = append(path, p)
	}
	for i := len(path) - 1; i >= 0; i-- {
		path[i].updateTransform()
	}
}

// --- Transform property setters ---

// SetPosition sets the node's position and marks it dirty.
func (n *Node) SetPosition(x, y float64) {
	if n.pos.X == x && n.pos.Y == y {
		return
	}
	n.pos = Vec2{x, y}
	n.transformDirty = true
}

// SetX sets the node's X position.
func (n *Node) SetX(x float64) { n.SetPosition(x, n.pos.Y) }

// SetY sets the node's Y position.
func (n *Node) SetY(y float64) { n.SetPosition(n.pos.X, y) }

// Move offsets the node's position by (dx, dy).
func (n *Node) Move(dx, dy float64) {
	n.SetPosition(n.pos.X+dx, n.pos.Y+dy)
}

// Position returns the node's position in its parent's space.
func (n *Node) Position() Vec2 { return n.pos }

// SetSize sets the node's unscaled content size and marks it dirty.
func (n *Node) SetSize(width, height float64) {
	if n.size.Width == width && n.size.Height == height {
		return
	}
	n.size = Size{width, height}
	n.transformDirty = true
}

// RealSize returns the unscaled content size.
func (n *Node) RealSize() Size { return n.size }

// Width returns the content width multiplied by ScaleX.
func (n *Node) Width() float64 { return n.size.Width * n.scale.X }

// Height returns the content height multiplied by ScaleY.
func (n *Node) Height() float64 { return n.size.Height * n.scale.Y }

// SetScale sets the node's scale factors and marks it dirty.
func (n *Node) SetScale(sx, sy float64) {
	if n.scale.X == sx && n.scale.Y == sy {
		return
	}
	n.scale = Vec2{sx, sy}
	n.transformDirty = true
}

// Scale returns the node's scale factors.
func (n *Node) Scale() Vec2 { return n.scale }

// SetSkew sets the node's skew angles in degrees and marks it dirty.
func (n *Node) SetSkew(angleX, angleY float64) {
	if n.skew.X == angleX && n.skew.Y == angleY {
		return
	}
	n.skew = Vec2{angleX, angleY}
	n.transformDirty = true
}

// Skew returns the node's skew angles in degrees.
func (n *Node) Skew() Vec2 { return n.skew }

// SetRotation sets the node's rotation in degrees and marks it dirty.
func (n *Node) SetRotation(deg float64) {
	if n.rotation == deg {
		return
	}
	n.rotation = deg
	n.transformDirty = true
}

// Rotation returns the node's rotation in degrees.
func (n *Node) Rotation() float64 { return n.rotation }

// SetPivot sets the normalized pivot point. Both components are clamped to [0, 1].
func (n *Node) SetPivot(px, py float64) {
	px, py = clamp01(px), clamp01(py)
	if n.pivot.X == px && n.pivot.Y == py {
		return
	}
	n.pivot = Vec2{px, py}
	n.transformDirty = true
}

// Pivot returns the normalized pivot point.
func (n *Node) Pivot() Vec2 { return n.pivot }

// SetPositionFixed exempts the node from inheriting ancestor transforms and
// the scene camera. Used for overlays that stay put on screen.
func (n *Node) SetPositionFixed(fixed bool) {
	if n.positionFixed == fixed {
		return
	}
	n.positionFixed = fixed
	n.transformDirty = true
}

// PositionFixed reports whether the node ignores ancestor transforms.
func (n *Node) PositionFixed() bool { return n.positionFixed }

// MarkDirty forces the node's transform to be recomputed on the next pass.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// InitialTransform returns the matrix children compose against, recomputing
// stale ancestors first.
func (n *Node) InitialTransform() Matrix {
	n.refreshTransform()
	return n.initial
}

// FinalTransform returns the matrix used to draw and hit-test the node's own
// content, recomputing stale ancestors first.
func (n *Node) FinalTransform() Matrix {
	n.refreshTransform()
	return n.final
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's content space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return n.FinalTransform().Invert().Apply(wx, wy)
}

// LocalToWorld converts a point in this node's content space to world space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return n.FinalTransform().Apply(lx, ly)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
