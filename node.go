package arbor

import (
	"errors"
	"fmt"

	"github.com/minio/highwayhash"
)

// nameHashKey keys the node-name hash. HighwayHash requires exactly 32 bytes.
var nameHashKey = []byte("arbor-node-name-hash-key-32bytes")

func hashName(name string) uint64 {
	return highwayhash.Sum64([]byte(name), nameHashKey)
}

// nodeIDCounter is a plain counter (no atomic — arbor is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene graph element: geometry, opacity, ordering,
// and an owned list of children. A single flat struct serves every node;
// behavior is attached through the callback fields.
type Node struct {
	// ID is unique per process and zeroed on Dispose.
	ID uint32

	name string
	hash uint64

	// Hierarchy
	parent   *Node
	children []*Node
	scene    *Scene
	refs     int

	// Local geometry
	pos      Vec2
	size     Size
	pivot    Vec2
	scale    Vec2
	skew     Vec2
	rotation float64
	order    int

	// Opacity: realOpacity is set by the owner, displayOpacity is derived.
	realOpacity    float64
	displayOpacity float64

	// Cached transforms
	initial Matrix
	final   Matrix

	// Flags
	visible        bool
	autoUpdate     bool
	positionFixed  bool
	transformDirty bool
	sortDirty      bool
	inScene        bool
	disposed       bool

	// Hit testing
	shape     Shape
	shapeKind ShapeKind
	collider  Collider

	// Color is used by nodes that fill themselves (see NewRect).
	Color Color

	// Interactable controls whether Scene.HitTest considers this node.
	Interactable bool

	// UserData is arbitrary data carried with the node.
	UserData any

	// Per-node callbacks (nil by default; zero cost when unused).
	OnUpdate      func(dt float64) // skipped while paused or when auto-update is off
	OnFixedUpdate func(dt float64) // runs every frame, even while paused
	OnDraw        func(r Renderer) // called after the node's matrix and opacity are pushed
	OnEnter       func()           // the node became part of a scene
	OnExit        func()           // the node left its scene

	iterBuf []*Node // reused snapshot of children for traversal
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node, cfg Config) {
	n.ID = nextNodeID()
	n.scale = Vec2{1, 1}
	n.pivot = Vec2{clamp01(cfg.DefaultPivot.X), clamp01(cfg.DefaultPivot.Y)}
	n.realOpacity = 1
	n.displayOpacity = 1
	n.initial = Identity
	n.final = Identity
	n.visible = true
	n.autoUpdate = true
	n.transformDirty = true
	n.shapeKind = cfg.DefaultShape
	n.collider = cfg.Collider
	n.Color = ColorWhite
	n.Interactable = true
}

// NewNode creates a detached node using DefaultConfig.
func NewNode(name string) *Node {
	return NewNodeWithConfig(name, DefaultConfig())
}

// NewNodeWithConfig creates a detached node whose default pivot, shape, and
// collider come from cfg.
func NewNodeWithConfig(name string, cfg Config) *Node {
	n := &Node{}
	nodeDefaults(n, cfg)
	if name != "" {
		n.name = name
		n.hash = hashName(name)
	}
	return n
}

// NewRect creates a node of the given size that fills its content area with c.
func NewRect(name string, w, h float64, c Color) *Node {
	n := NewNode(name)
	n.SetSize(w, h)
	n.Color = c
	n.OnDraw = func(r Renderer) {
		r.FillRect(n.size.Width, n.size.Height, n.Color)
	}
	return n
}

// --- Identity ---

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// SetName renames the node. Empty names are rejected.
func (n *Node) SetName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if n.name != name {
		n.name = name
		n.hash = hashName(name)
	}
	return nil
}

// --- Tree manipulation ---

// AddChild attaches child keeping its current draw order.
// See AddChildWithOrder for the failure cases.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return ErrNilNode
	}
	return n.AddChildWithOrder(child, child.order)
}

// AddChildWithOrder attaches child with the given draw order and takes a
// reference to it. It fails without mutating either tree if child already
// has a parent (or is a scene root), or if child is n or one of n's ancestors.
func (n *Node) AddChildWithOrder(child *Node, order int) error {
	if child == nil {
		return ErrNilNode
	}
	if n.debugging() {
		n.scene.debugCheckDisposed(n, "AddChild (parent)")
		n.scene.debugCheckDisposed(child, "AddChild (child)")
	}
	if n.disposed || child.disposed {
		return ErrDisposed
	}
	if child.parent != nil || child.isSceneRoot() {
		return fmt.Errorf("add %q to %q: %w", child.name, n.name, ErrHasParent)
	}
	if isAncestor(child, n) {
		return fmt.Errorf("add %q to %q: %w", child.name, n.name, ErrCycle)
	}

	n.children = append(n.children, child)
	child.order = order
	child.refs++
	child.parent = n
	child.updateOpacity()
	if n.scene != nil {
		child.setScene(n.scene)
	}
	if n.inScene {
		child.enter()
	}
	child.transformDirty = true
	n.sortDirty = true

	if n.debugging() {
		n.scene.debugCheckTreeDepth(child)
		n.scene.debugCheckChildCount(n)
	}
	return nil
}

// AddChildren attaches each node in order, keeping each node's draw order.
// Nodes that fail are skipped; the joined errors are returned.
func (n *Node) AddChildren(nodes ...*Node) error {
	var errs []error
	for _, c := range nodes {
		if err := n.AddChild(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveChild detaches child from n and releases n's reference to it.
// Reports false if child is not a direct child of n.
//
// A child left with no references is disposed at the end of the current
// Scene.Update, after which AddChild rejects it with ErrDisposed. Reattach it
// within the same tick, or Retain it first to keep it across ticks.
func (n *Node) RemoveChild(child *Node) bool {
	if child == nil || child.parent != n {
		return false
	}
	for i, c := range n.children {
		if c == child {
			n.removeChildAt(i)
			n.detach(child)
			return true
		}
	}
	return false
}

// RemoveChildrenNamed detaches every direct child with the given name and
// returns how many were removed. Release rules are those of RemoveChild.
func (n *Node) RemoveChildrenNamed(name string) int {
	if name == "" {
		return 0
	}
	h := hashName(name)
	removed := 0
	for i := 0; i < len(n.children); {
		c := n.children[i]
		if c.hash == h && c.name == name {
			n.removeChildAt(i)
			n.detach(c)
			removed++
			continue
		}
		i++
	}
	return removed
}

// RemoveFromParent detaches n from its parent. Reports false if n has no parent.
func (n *Node) RemoveFromParent() bool {
	if n.parent == nil {
		return false
	}
	return n.parent.RemoveChild(n)
}

// RemoveAllChildren detaches every child of n. Release rules are those of
// RemoveChild.
func (n *Node) RemoveAllChildren() {
	for len(n.children) > 0 {
		last := len(n.children) - 1
		c := n.children[last]
		n.removeChildAt(last)
		n.detach(c)
	}
}

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Scene returns the scene the node is linked to, or nil.
func (n *Node) Scene() *Scene { return n.scene }

// InScene reports whether the node is currently part of a scene.
func (n *Node) InScene() bool { return n.inScene }

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Child returns the first direct child with the given name, or nil.
// Names are compared by hash first, then by string.
func (n *Node) Child(name string) *Node {
	if name == "" {
		return nil
	}
	h := hashName(name)
	for _, c := range n.children {
		if c.hash == h && c.name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child with the given name.
func (n *Node) ChildrenNamed(name string) []*Node {
	if name == "" {
		return nil
	}
	h := hashName(name)
	var out []*Node
	for _, c := range n.children {
		if c.hash == h && c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// SetOrder sets the node's draw order and marks the parent's children as unsorted.
// Children with a negative order are visited before their parent.
func (n *Node) SetOrder(order int) {
	if n.order == order {
		return
	}
	n.order = order
	if n.parent != nil {
		n.parent.sortDirty = true
	}
}

// Order returns the node's draw order.
func (n *Node) Order() int { return n.order }

// --- Visual state ---

// SetVisible shows or hides the node and its whole subtree.
func (n *Node) SetVisible(v bool) { n.visible = v }

// Visible reports whether the node is drawn.
func (n *Node) Visible() bool { return n.visible }

// SetAutoUpdate enables or disables the node's OnUpdate callback.
// Children are still updated.
func (n *Node) SetAutoUpdate(v bool) { n.autoUpdate = v }

// AutoUpdate reports whether OnUpdate runs each frame.
func (n *Node) AutoUpdate() bool { return n.autoUpdate }

// SetOpacity sets the node's own opacity, clamped to [0, 1], and recomputes
// the display opacity of the node and every descendant.
func (n *Node) SetOpacity(a float64) {
	n.realOpacity = clamp01(a)
	n.updateOpacity()
}

// Opacity returns the node's own opacity.
func (n *Node) Opacity() float64 { return n.realOpacity }

// DisplayOpacity returns the node's opacity multiplied by its ancestors'.
func (n *Node) DisplayOpacity() float64 { return n.displayOpacity }

func (n *Node) updateOpacity() {
	if n.parent != nil {
		n.displayOpacity = n.realOpacity * n.parent.displayOpacity
	} else {
		n.displayOpacity = n.realOpacity
	}
	for _, c := range n.children {
		c.updateOpacity()
	}
}

// --- Traversal ---

// Update runs one update pass over the subtree rooted at n: sort children if
// needed, refresh the transform, update children with a negative order, run
// the node's callbacks, then update the remaining children.
func (n *Node) Update(dt float64) {
	n.update(dt, false)
}

func (n *Node) update(dt float64, paused bool) {
	if n.disposed {
		return
	}
	n.sortChildren()
	n.updateTransform()

	kids := n.snapshotChildren()
	i := 0
	for ; i < len(kids) && kids[i].order < 0; i++ {
		if kids[i].parent == n {
			kids[i].update(dt, paused)
		}
	}

	if n.autoUpdate && !paused && n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	if n.OnFixedUpdate != nil {
		n.OnFixedUpdate(dt)
	}

	for ; i < len(kids); i++ {
		if kids[i].parent == n {
			kids[i].update(dt, paused)
		}
	}
	clear(kids)
}

// Render draws the subtree rooted at n into r. Hidden nodes are skipped with
// their whole subtree.
func (n *Node) Render(r Renderer) {
	n.render(r, drawState{view: Identity})
}

// drawState is the per-pass context threaded through render.
type drawState struct {
	view    Matrix // camera view, Identity for fixed nodes
	cull    Rect   // screen-space visible area
	culling bool
}

func (n *Node) render(r Renderer, ds drawState) {
	if !n.visible || n.disposed {
		return
	}
	n.sortChildren()
	n.updateTransform()
	if n.positionFixed {
		ds.view = Identity
	}

	kids := n.snapshotChildren()
	i := 0
	for ; i < len(kids) && kids[i].order < 0; i++ {
		if kids[i].parent == n {
			kids[i].render(r, ds)
		}
	}

	m := ds.view.Mul(n.final)
	if !ds.culling || !n.culled(m, ds.cull) {
		r.SetTransform(m)
		r.SetOpacity(n.displayOpacity)
		if n.OnDraw != nil {
			n.OnDraw(r)
		}
	}

	for ; i < len(kids); i++ {
		if kids[i].parent == n {
			kids[i].render(r, ds)
		}
	}
	clear(kids)
}

// culled reports whether the node's own content lies outside cull when drawn
// with m. Nodes without a size are never culled.
func (n *Node) culled(m Matrix, cull Rect) bool {
	if n.size.Width == 0 && n.size.Height == 0 {
		return false
	}
	return !m.BoundsOf(Rect{Width: n.size.Width, Height: n.size.Height}).Intersects(cull)
}

// snapshotChildren copies the child list into a reused buffer so callbacks
// may attach or detach nodes while the traversal is in progress.
func (n *Node) snapshotChildren() []*Node {
	n.iterBuf = append(n.iterBuf[:0], n.children...)
	return n.iterBuf
}

// sortChildren stable-sorts the children by order when flagged.
// Uses insertion sort: zero allocations, stable, and optimal for the typical
// case of few children that are nearly sorted (O(n) when already sorted).
func (n *Node) sortChildren() {
	if !n.sortDirty {
		return
	}
	kids := n.children
	for i := 1; i < len(kids); i++ {
		key := kids[i]
		j := i - 1
		for j >= 0 && kids[j].order > key.order {
			kids[j+1] = kids[j]
			j--
		}
		kids[j+1] = key
	}
	n.sortDirty = false
}

// --- Scene linkage ---

func (n *Node) isSceneRoot() bool {
	return n.scene != nil && n.scene.root == n
}

func (n *Node) setScene(s *Scene) {
	n.scene = s
	for _, c := range n.children {
		c.setScene(s)
	}
}

// enter marks the subtree as part of a scene. Nodes already in a scene are
// not notified again.
func (n *Node) enter() {
	if n.inScene {
		return
	}
	n.inScene = true
	if n.OnEnter != nil {
		n.OnEnter()
	}
	if n.scene != nil {
		n.scene.emit(SceneEvent{Type: EventNodeEnter, NodeID: n.ID, NodeName: n.name})
	}
	for i := 0; i < len(n.children); i++ {
		n.children[i].enter()
	}
}

// exit is the inverse of enter.
func (n *Node) exit() {
	if !n.inScene {
		return
	}
	n.inScene = false
	if n.OnExit != nil {
		n.OnExit()
	}
	if n.scene != nil {
		n.scene.emit(SceneEvent{Type: EventNodeExit, NodeID: n.ID, NodeName: n.name})
	}
	for i := 0; i < len(n.children); i++ {
		n.children[i].exit()
	}
}

// --- Ownership ---

// Retain takes an additional reference to n. A retained node survives being
// detached from a scene until the matching Release.
func (n *Node) Retain() {
	n.refs++
}

// Release drops a reference taken with Retain. A detached node whose count
// reaches zero is disposed.
func (n *Node) Release() {
	if n.refs > 0 {
		n.refs--
	}
	if n.refs == 0 && n.parent == nil && !n.isSceneRoot() {
		n.Dispose()
	}
}

// RefCount returns the number of holders of n (its parent included).
func (n *Node) RefCount() int { return n.refs }

// detach unlinks a child already removed from n.children.
func (n *Node) detach(child *Node) {
	scene := child.scene
	if child.inScene {
		child.exit()
	}
	child.parent = nil
	if child.scene != nil {
		child.setScene(nil)
	}
	child.updateOpacity()
	child.transformDirty = true
	if child.refs > 0 {
		child.refs--
	}
	if child.refs == 0 && scene != nil {
		scene.deferRelease(child)
	}
}

// Dispose detaches n from its parent, marks it disposed, and releases its
// children. Children still referenced elsewhere survive as detached nodes;
// the rest are disposed too. Actions targeting n are dropped on the next tick.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	if n.inScene {
		n.exit()
	}
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, c := range n.children {
		c.parent = nil
		c.setScene(nil)
		c.inScene = false
		if c.refs > 0 {
			c.refs--
		}
		if c.refs == 0 {
			c.dispose()
		} else {
			c.updateOpacity()
			c.transformDirty = true
		}
	}
	clear(n.children)
	n.children = nil
	n.iterBuf = nil
	n.scene = nil
	n.shape = nil
	n.collider = nil
	n.UserData = nil
	n.OnUpdate = nil
	n.OnFixedUpdate = nil
	n.OnDraw = nil
	n.OnEnter = nil
	n.OnExit = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Actions ---

// RunAction starts a on n with the scene's scheduler. If a is already bound
// to another node a clone is started instead; the started action is returned.
func (n *Node) RunAction(a Action) (Action, error) {
	if n.scene == nil {
		return nil, ErrNoScene
	}
	return n.scene.actions.Start(a, n), nil
}

// StopActions stops n's actions with the given name ("" matches all).
func (n *Node) StopActions(name string) int {
	if n.scene == nil {
		return 0
	}
	return n.scene.actions.Stop(n, name)
}

// PauseActions pauses n's running actions with the given name ("" matches all).
func (n *Node) PauseActions(name string) int {
	if n.scene == nil {
		return 0
	}
	return n.scene.actions.Pause(n, name)
}

// ResumeActions resumes n's paused actions with the given name ("" matches all).
func (n *Node) ResumeActions(name string) int {
	if n.scene == nil {
		return 0
	}
	return n.scene.actions.Resume(n, name)
}

// StopAllActions stops every action targeting n.
func (n *Node) StopAllActions() int { return n.StopActions("") }

// PauseAllActions pauses every action targeting n.
func (n *Node) PauseAllActions() int { return n.PauseActions("") }

// ResumeAllActions resumes every action targeting n.
func (n *Node) ResumeAllActions() int { return n.ResumeActions("") }

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildAt removes the child at index i without touching its links.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildAt(i int) {
	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
}

func (n *Node) debugging() bool {
	return n.scene != nil && n.scene.debug
}
