package arbor

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Scene is the top-level object that owns the node tree, the action
// scheduler, an optional camera, and the release pool for nodes whose last
// reference was dropped during a tick.
type Scene struct {
	root    *Node
	cfg     Config
	actions *Scheduler
	camera  *Camera
	store   EntityStore
	logger  *log.Logger
	debug   bool
	paused  bool

	releasePool []*Node
	hitBuf      []hitEntry
}

// hitEntry is a hit-test candidate with the matrix it was drawn with.
type hitEntry struct {
	node *Node
	m    Matrix
}

// NewScene creates a scene using DefaultConfig.
func NewScene() *Scene {
	return NewSceneWithConfig(DefaultConfig())
}

// NewSceneWithConfig creates a scene with a pre-created root node. Nodes
// built with Scene.NewNode take their defaults from cfg.
func NewSceneWithConfig(cfg Config) *Scene {
	logger := newLogger(os.Stderr, log.WarnLevel)
	if err := cfg.normalize(); err != nil {
		logger.Warn("config rejected, using warn level", "err", err)
		cfg.LogLevel = "warn"
	}
	logger.SetLevel(cfg.level())

	s := &Scene{
		cfg:    cfg,
		logger: logger,
		debug:  cfg.Debug,
	}
	s.actions = NewScheduler()
	s.actions.SetLogger(logger)
	s.actions.emit = s.emit

	root := NewNodeWithConfig("root", cfg)
	root.refs = 1
	root.scene = s
	s.root = root
	root.enter()
	return s
}

// Root returns the scene's root node. The scene owns it; it cannot be
// attached elsewhere.
func (s *Scene) Root() *Node {
	return s.root
}

// Config returns the configuration the scene was built with.
func (s *Scene) Config() Config {
	return s.cfg
}

// NewNode creates a detached node using the scene's configuration.
func (s *Scene) NewNode(name string) *Node {
	return NewNodeWithConfig(name, s.cfg)
}

// Actions returns the scene's action scheduler.
func (s *Scene) Actions() *Scheduler {
	return s.actions
}

// Add attaches n to the root node.
func (s *Scene) Add(n *Node) error {
	return s.root.AddChild(n)
}

// Remove detaches n from the root node.
func (s *Scene) Remove(n *Node) bool {
	return s.root.RemoveChild(n)
}

// Child returns the root's first child with the given name, or nil.
func (s *Scene) Child(name string) *Node {
	return s.root.Child(name)
}

// Camera returns the scene camera, or nil.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// SetCamera sets the camera applied to non-fixed nodes. Nil removes it.
func (s *Scene) SetCamera(cam *Camera) {
	s.camera = cam
}

// NewCamera creates a camera with the given viewport and makes it the scene camera.
func (s *Scene) NewCamera(viewport Rect) *Camera {
	s.camera = NewCamera(viewport)
	return s.camera
}

// Pause stops advancing actions and skips OnUpdate callbacks. OnFixedUpdate
// callbacks and the camera keep running.
func (s *Scene) Pause() { s.paused = true }

// Resume undoes Pause.
func (s *Scene) Resume() { s.paused = false }

// Paused reports whether the scene is paused.
func (s *Scene) Paused() bool { return s.paused }

// Update runs one tick: advance actions, update the camera, update the node
// tree, then dispose nodes released during the tick that nobody retained.
func (s *Scene) Update(dt float64) {
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if !s.paused {
		s.actions.Advance(dt)
	}
	if s.debug {
		stats.advanceTime = time.Since(t0)
		t0 = time.Now()
	}

	if s.camera != nil {
		s.camera.update(dt)
	}
	s.root.update(dt, s.paused)
	if s.debug {
		stats.updateTime = time.Since(t0)
		t0 = time.Now()
	}

	stats.released = s.drainReleasePool()
	if s.debug {
		stats.releaseTime = time.Since(t0)
		stats.actionCount = s.actions.Len()
		stats.nodeCount = countNodes(s.root)
		s.debugLog(stats)
	}
}

// Draw renders the node tree into r, applying the camera view to nodes that
// are not position-fixed.
func (s *Scene) Draw(r Renderer) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.root.render(r, s.drawState())
	if s.debug {
		s.debugLogDraw(time.Since(t0))
	}
}

func (s *Scene) drawState() drawState {
	ds := drawState{view: Identity}
	if s.camera != nil {
		ds.view = s.camera.ViewMatrix()
		if s.camera.CullEnabled && s.camera.Viewport.Width > 0 && s.camera.Viewport.Height > 0 {
			ds.culling = true
			ds.cull = s.camera.Viewport
		}
	}
	return ds
}

// HitTest returns the topmost visible, interactable node whose hit shape
// contains the screen point (x, y), or nil. Nodes are tested in reverse
// render order.
func (s *Scene) HitTest(x, y float64) *Node {
	ds := s.drawState()
	s.hitBuf = s.collectHittable(s.root, ds.view, s.hitBuf[:0])
	defer clear(s.hitBuf)

	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		e := s.hitBuf[i]
		lx, ly := e.m.Invert().Apply(x, y)
		if e.node.Shape().Contains(lx, ly) {
			return e.node
		}
	}
	return nil
}

// collectHittable appends hit candidates in render order.
func (s *Scene) collectHittable(n *Node, view Matrix, buf []hitEntry) []hitEntry {
	if !n.visible || n.disposed {
		return buf
	}
	n.refreshTransform()
	n.sortChildren()
	if n.positionFixed {
		view = Identity
	}

	i := 0
	for ; i < len(n.children) && n.children[i].order < 0; i++ {
		buf = s.collectHittable(n.children[i], view, buf)
	}
	if n.Interactable && n.hasArea() {
		buf = append(buf, hitEntry{node: n, m: view.Mul(n.final)})
	}
	for ; i < len(n.children); i++ {
		buf = s.collectHittable(n.children[i], view, buf)
	}
	return buf
}

// SetEntityStore sets the optional event sink for node and action events.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access is logged as an error, tree depth and child count warnings are
// logged, and
// per-tick timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Debug reports whether debug mode is on.
func (s *Scene) Debug() bool { return s.debug }

// SetLogger replaces the scene's logger, which the scheduler shares.
// Nil is ignored.
func (s *Scene) SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	s.logger = l
	s.actions.SetLogger(l)
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *log.Logger {
	return s.logger
}

// deferRelease queues a node whose reference count dropped to zero.
func (s *Scene) deferRelease(n *Node) {
	s.releasePool = append(s.releasePool, n)
}

// drainReleasePool disposes queued nodes that are still unowned and returns
// how many were disposed. Nodes re-attached or retained since are kept.
func (s *Scene) drainReleasePool() int {
	disposed := 0
	for i := 0; i < len(s.releasePool); i++ {
		n := s.releasePool[i]
		if n.disposed || n.refs > 0 || n.parent != nil || n.isSceneRoot() {
			continue
		}
		s.logger.Debug("release node", "node", n.name)
		n.Dispose()
		disposed++
	}
	clear(s.releasePool)
	s.releasePool = s.releasePool[:0]
	return disposed
}
