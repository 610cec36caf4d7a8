package arbor

import (
	"fmt"
	"math"
	"strings"
)

// Shape is a hit area in a node's local content space. Exact geometry lives
// in the shape; the node only supplies points transformed by its final matrix.
type Shape interface {
	Contains(x, y float64) bool
	Bounds() Rect
}

// HitRect is a rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Bounds returns the rectangle itself.
func (r HitRect) Bounds() Rect { return Rect(r) }

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Bounds returns the circle's bounding square.
func (c HitCircle) Bounds() Rect {
	return Rect{c.CenterX - c.Radius, c.CenterY - c.Radius, 2 * c.Radius, 2 * c.Radius}
}

// HitEllipse is an axis-aligned elliptical hit area in local coordinates.
type HitEllipse struct {
	CenterX, CenterY, RadiusX, RadiusY float64
}

// Contains reports whether (x, y) lies inside or on the ellipse.
func (e HitEllipse) Contains(x, y float64) bool {
	if e.RadiusX <= 0 || e.RadiusY <= 0 {
		return false
	}
	dx := (x - e.CenterX) / e.RadiusX
	dy := (y - e.CenterY) / e.RadiusY
	return dx*dx+dy*dy <= 1
}

// Bounds returns the ellipse's bounding rectangle.
func (e HitEllipse) Bounds() Rect {
	return Rect{e.CenterX - e.RadiusX, e.CenterY - e.RadiusY, 2 * e.RadiusX, 2 * e.RadiusY}
}

// ShapeKind selects the shape a node derives from its size when no explicit
// shape is set.
type ShapeKind uint8

const (
	ShapeNone    ShapeKind = iota // hit-test against the size rectangle only
	ShapeRect                     // HitRect covering the node's size
	ShapeCircle                   // HitCircle inscribed in the node's size
	ShapeEllipse                  // HitEllipse inscribed in the node's size
)

var shapeKindNames = [...]string{"none", "rect", "circle", "ellipse"}

func (k ShapeKind) String() string {
	if int(k) < len(shapeKindNames) {
		return shapeKindNames[k]
	}
	return fmt.Sprintf("ShapeKind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k ShapeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ShapeKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	if name == "" {
		*k = ShapeNone
		return nil
	}
	for i, s := range shapeKindNames {
		if s == name {
			*k = ShapeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown shape kind %q", name)
}

// shapeFor builds the shape of the given kind for a content size.
func shapeFor(kind ShapeKind, size Size) Shape {
	switch kind {
	case ShapeCircle:
		r := math.Min(size.Width, size.Height) / 2
		return HitCircle{size.Width / 2, size.Height / 2, r}
	case ShapeEllipse:
		return HitEllipse{size.Width / 2, size.Height / 2, size.Width / 2, size.Height / 2}
	default:
		return HitRect{0, 0, size.Width, size.Height}
	}
}

// Relation describes how two transformed shapes relate.
type Relation uint8

const (
	RelationUnknown     Relation = iota // the collider could not decide
	RelationDisjoint                    // no overlap
	RelationIsContained                 // the first shape lies inside the second
	RelationContains                    // the first shape contains the second
	RelationOverlap                     // partial overlap
)

// Collider answers shape relation queries. Implementations own the exact
// intersection math; nodes only pass in their current final matrices.
type Collider interface {
	Relation(a Shape, am Matrix, b Shape, bm Matrix) Relation
}

// BoundsCollider compares the world-space bounding boxes of two shapes.
// It is the collider used when a Config does not name one.
type BoundsCollider struct{}

// Relation implements Collider using axis-aligned bounding boxes.
func (BoundsCollider) Relation(a Shape, am Matrix, b Shape, bm Matrix) Relation {
	if a == nil || b == nil {
		return RelationUnknown
	}
	ra := am.BoundsOf(a.Bounds())
	rb := bm.BoundsOf(b.Bounds())
	switch {
	case !ra.Intersects(rb):
		return RelationDisjoint
	case rb.ContainsRect(ra):
		return RelationIsContained
	case ra.ContainsRect(rb):
		return RelationContains
	default:
		return RelationOverlap
	}
}

// --- Node hit testing ---

// SetShape sets an explicit hit shape. Passing nil reverts to the shape
// derived from the node's size and configured ShapeKind.
func (n *Node) SetShape(s Shape) {
	n.shape = s
}

// Shape returns the node's effective hit shape.
func (n *Node) Shape() Shape {
	if n.shape != nil {
		return n.shape
	}
	return shapeFor(n.shapeKind, n.size)
}

// hasArea reports whether the node has something to hit: an explicit shape
// or a non-zero size.
func (n *Node) hasArea() bool {
	return n.shape != nil || n.size.Width > 0 || n.size.Height > 0
}

// ContainsPoint reports whether the world-space point p lies within the
// node's hit shape. A stale transform is recomputed first. A zero-size node
// without a shape contains nothing.
func (n *Node) ContainsPoint(p Vec2) bool {
	if !n.hasArea() {
		return false
	}
	lx, ly := n.WorldToLocal(p.X, p.Y)
	return n.Shape().Contains(lx, ly)
}

// RelationWith reports how this node's shape relates to other's, using the
// node's collider.
func (n *Node) RelationWith(other *Node) Relation {
	if other == nil {
		return RelationUnknown
	}
	c := n.collider
	if c == nil {
		c = BoundsCollider{}
	}
	return c.Relation(n.Shape(), n.FinalTransform(), other.Shape(), other.FinalTransform())
}

// Intersects reports whether this node's shape overlaps other's in any way.
func (n *Node) Intersects(other *Node) bool {
	switch n.RelationWith(other) {
	case RelationUnknown, RelationDisjoint:
		return false
	default:
		return true
	}
}
