package arbor

import "testing"

func TestHitRectContains(t *testing.T) {
	r := HitRect{X: 10, Y: 10, Width: 20, Height: 10}
	tests := []struct {
		x, y float64
		want bool
	}{
		{15, 15, true},
		{10, 10, true}, // edges are inclusive
		{30, 20, true},
		{9, 15, false},
		{15, 21, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestHitCircleContains(t *testing.T) {
	c := HitCircle{CenterX: 5, CenterY: 5, Radius: 5}
	if !c.Contains(5, 0) {
		t.Error("point on the circle should be inside")
	}
	if c.Contains(0, 0) {
		t.Error("corner of the bounding square should be outside")
	}
	if c.Bounds() != (Rect{0, 0, 10, 10}) {
		t.Errorf("Bounds = %v, want {0 0 10 10}", c.Bounds())
	}
}

func TestHitEllipseContains(t *testing.T) {
	e := HitEllipse{CenterX: 10, CenterY: 5, RadiusX: 10, RadiusY: 5}
	if !e.Contains(0, 5) || !e.Contains(10, 0) {
		t.Error("points on the ellipse should be inside")
	}
	if e.Contains(1, 1) {
		t.Error("(1, 1) is outside the ellipse")
	}
	if (HitEllipse{RadiusX: 0, RadiusY: 5}).Contains(0, 0) {
		t.Error("degenerate ellipse contains nothing")
	}
}

func TestShapeKindText(t *testing.T) {
	for _, k := range []ShapeKind{ShapeNone, ShapeRect, ShapeCircle, ShapeEllipse} {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back ShapeKind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != k {
			t.Errorf("roundtrip %v = %v", k, back)
		}
	}

	var k ShapeKind
	if err := k.UnmarshalText([]byte(" Circle ")); err != nil || k != ShapeCircle {
		t.Errorf("UnmarshalText(\" Circle \") = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("star")); err == nil {
		t.Error("unknown kind should fail")
	}
	if got := ShapeKind(9).String(); got != "ShapeKind(9)" {
		t.Errorf("String = %q", got)
	}
}

func TestNodeShapeFromKind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultShape = ShapeCircle
	n := NewNodeWithConfig("n", cfg)
	n.SetSize(20, 10)

	c, ok := n.Shape().(HitCircle)
	if !ok {
		t.Fatalf("Shape = %T, want HitCircle", n.Shape())
	}
	if c != (HitCircle{10, 5, 5}) {
		t.Errorf("circle = %+v, want inscribed {10 5 5}", c)
	}

	n.SetShape(HitRect{Width: 1, Height: 1})
	if _, ok := n.Shape().(HitRect); !ok {
		t.Error("explicit shape should win")
	}
	n.SetShape(nil)
	if _, ok := n.Shape().(HitCircle); !ok {
		t.Error("clearing the shape should restore the derived one")
	}
}

func TestContainsPoint(t *testing.T) {
	parent := NewNode("parent")
	parent.SetPosition(100, 100)
	n := NewNode("n")
	n.SetSize(10, 10)
	n.SetPivot(0.5, 0.5)
	n.SetScale(2, 2)
	mustAdd(t, parent, n)

	// Scaled about its center at (100, 100): covers 90..110.
	if !n.ContainsPoint(Vec2{91, 109}) {
		t.Error("point inside the scaled node should hit")
	}
	if n.ContainsPoint(Vec2{89, 100}) {
		t.Error("point outside the scaled node should miss")
	}
}

func TestContainsPointZeroSize(t *testing.T) {
	s := NewScene()
	n := NewNode("marker")
	n.SetPosition(50, 50)
	if err := s.Add(n); err != nil {
		t.Fatal(err)
	}
	if n.ContainsPoint(Vec2{50, 50}) {
		t.Error("a zero-size node without a shape should contain nothing")
	}
	if got := s.HitTest(50, 50); got != nil {
		t.Errorf("HitTest = %v, want nil", got.Name())
	}

	n.SetShape(HitCircle{0, 0, 5})
	if !n.ContainsPoint(Vec2{50, 50}) {
		t.Error("an explicit shape should hit at the origin")
	}
	if got := s.HitTest(50, 50); got != n {
		t.Error("HitTest should agree with ContainsPoint once a shape is set")
	}
}

func TestRelationWith(t *testing.T) {
	big := NewNode("big")
	big.SetSize(100, 100)
	small := NewNode("small")
	small.SetSize(10, 10)
	small.SetPosition(20, 20)
	edge := NewNode("edge")
	edge.SetSize(50, 50)
	edge.SetPosition(80, 80)
	far := NewNode("far")
	far.SetSize(5, 5)
	far.SetPosition(500, 500)

	tests := []struct {
		a, b *Node
		want Relation
	}{
		{small, big, RelationIsContained},
		{big, small, RelationContains},
		{big, edge, RelationOverlap},
		{big, far, RelationDisjoint},
		{big, nil, RelationUnknown},
	}
	for _, tt := range tests {
		if got := tt.a.RelationWith(tt.b); got != tt.want {
			t.Errorf("%s.RelationWith(%s) = %v, want %v", tt.a.Name(), nodeName(tt.b), got, tt.want)
		}
	}

	if !big.Intersects(small) || !big.Intersects(edge) || big.Intersects(far) {
		t.Error("Intersects should follow the relation")
	}
}

// fixedCollider always reports the same relation.
type fixedCollider Relation

func (c fixedCollider) Relation(Shape, Matrix, Shape, Matrix) Relation { return Relation(c) }

func TestConfiguredCollider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Collider = fixedCollider(RelationOverlap)
	a := NewNodeWithConfig("a", cfg)
	b := NewNode("b")
	b.SetPosition(1000, 1000)
	if got := a.RelationWith(b); got != RelationOverlap {
		t.Errorf("RelationWith = %v, want the configured collider's answer", got)
	}
}
