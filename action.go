package arbor

import (
	"math"

	"github.com/google/uuid"
	"github.com/tanema/gween/ease"
)

// ActionState is the lifecycle state of an Action.
type ActionState uint8

const (
	ActionIdle     ActionState = iota // built or cloned, not yet started
	ActionRunning                     // advancing each tick
	ActionPaused                      // scheduled but not advancing
	ActionFinished                    // ran to completion
	ActionStopped                     // stopped externally
)

var actionStateNames = [...]string{"idle", "running", "paused", "finished", "stopped"}

func (s ActionState) String() string {
	if int(s) < len(actionStateNames) {
		return actionStateNames[s]
	}
	return "unknown"
}

// Action is a time-driven mutation bound to one target node. Actions are
// built with the constructors in this package (MoveBy, Sequence, Repeat, ...)
// and run with Scheduler.Start or Node.RunAction.
//
// An action never owns its target. Clone returns an independent Idle copy of
// the configuration; Reverse returns a new action that undoes the original.
type Action interface {
	ID() string
	Name() string
	SetName(name string)
	Target() *Node
	State() ActionState
	// Done reports whether the action finished or was stopped.
	Done() bool

	// Duration is the total run time in seconds; +Inf for infinite repeats.
	Duration() float64
	Elapsed() float64
	// Progress is Elapsed/Duration clamped to [0, 1].
	Progress() float64

	Pause()
	Resume()
	Stop()

	Clone() Action
	Reverse() Action

	base() *actionBase
	// init binds target, resets progress, and samples start values.
	init(target *Node)
	// step advances a running action by dt and returns the unused part of dt.
	step(dt float64) float64
}

// actionBase carries the state every action shares.
type actionBase struct {
	id       string
	name     string
	target   *Node
	state    ActionState
	elapsed  float64
	duration float64

	scheduled bool // held by a Scheduler
	pending   bool // scheduled but not yet initialized
}

func newActionBase(duration float64) actionBase {
	return actionBase{id: uuid.NewString(), duration: math.Max(duration, 0)}
}

// cloneBase returns a fresh Idle base with the same configuration.
func (a *actionBase) cloneBase() actionBase {
	return actionBase{id: uuid.NewString(), name: a.name, duration: a.duration}
}

func (a *actionBase) base() *actionBase   { return a }
func (a *actionBase) ID() string          { return a.id }
func (a *actionBase) Name() string        { return a.name }
func (a *actionBase) SetName(name string) { a.name = name }
func (a *actionBase) Target() *Node       { return a.target }
func (a *actionBase) State() ActionState  { return a.state }
func (a *actionBase) Duration() float64   { return a.duration }
func (a *actionBase) Elapsed() float64    { return a.elapsed }

func (a *actionBase) Done() bool {
	return a.state == ActionFinished || a.state == ActionStopped
}

func (a *actionBase) Progress() float64 {
	switch {
	case a.state == ActionFinished:
		return 1
	case math.IsInf(a.duration, 1):
		return 0
	case a.duration == 0:
		return 0
	}
	return clamp01(a.elapsed / a.duration)
}

// Pause suspends a running action, or holds a scheduled one before its first
// tick. It stays scheduled.
func (a *actionBase) Pause() {
	if a.state == ActionRunning || a.state == ActionIdle {
		a.state = ActionPaused
	}
}

// Resume continues a paused action.
func (a *actionBase) Resume() {
	if a.state == ActionPaused {
		a.state = ActionRunning
	}
}

// Stop ends the action. The scheduler removes it on its next compaction.
func (a *actionBase) Stop() {
	if !a.Done() {
		a.state = ActionStopped
	}
}

// start binds the target and resets progress.
func (a *actionBase) start(target *Node) {
	a.target = target
	a.elapsed = 0
	a.state = ActionRunning
}

// --- Gradual actions ---

// gradual is the base of actions that interpolate over their duration.
type gradual struct {
	actionBase
	ease ease.TweenFunc
}

func newGradual(duration float64) gradual {
	return gradual{actionBase: newActionBase(duration)}
}

func (g *gradual) cloneGradual() gradual {
	return gradual{actionBase: g.cloneBase(), ease: g.ease}
}

func (g *gradual) setEase(fn ease.TweenFunc) { g.ease = fn }

// advance adds dt to the elapsed time and returns the eased fraction, the
// part of dt past the end of the duration, and whether the end was reached.
func (g *gradual) advance(dt float64) (frac, rest float64, done bool) {
	g.elapsed += dt
	if g.elapsed >= g.duration {
		rest = g.elapsed - g.duration
		g.elapsed = g.duration
		g.state = ActionFinished
		return 1, rest, true
	}
	if g.ease == nil {
		return g.elapsed / g.duration, 0, false
	}
	return float64(g.ease(float32(g.elapsed), 0, 1, float32(g.duration))), 0, false
}

// easer is implemented by actions whose interpolation curve can be changed.
type easer interface {
	setEase(fn ease.TweenFunc)
}

// WithEase sets the easing curve of a gradual action and returns it.
// A nil fn means linear. Actions without a curve are returned unchanged.
func WithEase(a Action, fn ease.TweenFunc) Action {
	if e, ok := a.(easer); ok {
		e.setEase(fn)
	}
	return a
}

// Named sets the action's name and returns it.
func Named(name string, a Action) Action {
	a.SetName(name)
	return a
}

// property selects the node field a tween drives.
type property uint8

const (
	propPosition property = iota
	propScale
	propRotation
	propOpacity
)

func (p property) read(n *Node) Vec2 {
	switch p {
	case propPosition:
		return n.pos
	case propScale:
		return n.scale
	case propRotation:
		return Vec2{X: n.rotation}
	default:
		return Vec2{X: n.realOpacity}
	}
}

func (p property) write(n *Node, v Vec2) {
	switch p {
	case propPosition:
		n.SetPosition(v.X, v.Y)
	case propScale:
		n.SetScale(v.X, v.Y)
	case propRotation:
		n.SetRotation(v.X)
	default:
		n.SetOpacity(v.X)
	}
}

// tween interpolates one node property from the value sampled at init.
// Relative tweens add value; absolute tweens move to value.
type tween struct {
	gradual
	prop     property
	absolute bool
	value    Vec2

	from    Vec2
	delta   Vec2
	sampled bool
}

func newTween(duration float64, prop property, absolute bool, value Vec2) *tween {
	return &tween{gradual: newGradual(duration), prop: prop, absolute: absolute, value: value}
}

func (t *tween) init(target *Node) {
	t.start(target)
	t.from = t.prop.read(target)
	t.delta = t.value
	if t.absolute {
		t.delta = t.value.Sub(t.from)
	}
	t.sampled = true
}

func (t *tween) step(dt float64) float64 {
	frac, rest, _ := t.advance(dt)
	if t.target != nil && !t.target.disposed {
		t.prop.write(t.target, t.from.Add(t.delta.Mul(frac)))
	}
	return rest
}

func (t *tween) Clone() Action {
	return &tween{gradual: t.cloneGradual(), prop: t.prop, absolute: t.absolute, value: t.value}
}

// Reverse negates a relative tween. An absolute tween reverses to an absolute
// tween back to the value it sampled when it last started; one that never
// started has nothing to return to and reverses to a clone.
func (t *tween) Reverse() Action {
	if !t.absolute {
		r := newTween(t.duration, t.prop, false, t.value.Mul(-1))
		r.ease = t.ease
		return r
	}
	if !t.sampled {
		return t.Clone()
	}
	r := newTween(t.duration, t.prop, true, t.from)
	r.ease = t.ease
	return r
}

// MoveBy moves the target by (dx, dy) over duration seconds.
func MoveBy(duration, dx, dy float64) Action {
	return newTween(duration, propPosition, false, Vec2{dx, dy})
}

// MoveTo moves the target to (x, y) over duration seconds.
func MoveTo(duration, x, y float64) Action {
	return newTween(duration, propPosition, true, Vec2{x, y})
}

// ScaleBy adds (dx, dy) to the target's scale over duration seconds.
func ScaleBy(duration, dx, dy float64) Action {
	return newTween(duration, propScale, false, Vec2{dx, dy})
}

// ScaleTo scales the target to (sx, sy) over duration seconds.
func ScaleTo(duration, sx, sy float64) Action {
	return newTween(duration, propScale, true, Vec2{sx, sy})
}

// RotateBy rotates the target by deg degrees over duration seconds.
func RotateBy(duration, deg float64) Action {
	return newTween(duration, propRotation, false, Vec2{X: deg})
}

// RotateTo rotates the target to deg degrees over duration seconds.
func RotateTo(duration, deg float64) Action {
	return newTween(duration, propRotation, true, Vec2{X: deg})
}

// OpacityBy adds delta to the target's opacity over duration seconds.
// The result is clamped to [0, 1] on every step.
func OpacityBy(duration, delta float64) Action {
	return newTween(duration, propOpacity, false, Vec2{X: delta})
}

// OpacityTo changes the target's opacity to alpha over duration seconds.
func OpacityTo(duration, alpha float64) Action {
	return newTween(duration, propOpacity, true, Vec2{X: clamp01(alpha)})
}

// FadeIn raises the target's opacity to 1.
func FadeIn(duration float64) Action { return OpacityTo(duration, 1) }

// FadeOut lowers the target's opacity to 0.
func FadeOut(duration float64) Action { return OpacityTo(duration, 0) }

// delay waits for its duration without touching the target.
type delay struct {
	gradual
}

// Delay waits for duration seconds. Its reverse is an equal delay.
func Delay(duration float64) Action {
	return &delay{gradual: newGradual(duration)}
}

func (d *delay) init(target *Node) { d.start(target) }

func (d *delay) step(dt float64) float64 {
	_, rest, _ := d.advance(dt)
	return rest
}

func (d *delay) Clone() Action   { return &delay{gradual: d.cloneGradual()} }
func (d *delay) Reverse() Action { return d.Clone() }

// --- Instant actions ---

// callFunc runs fn once and finishes in the same step.
type callFunc struct {
	actionBase
	fn func(target *Node)
}

// CallFunc calls fn with the target when it runs. It takes no time.
func CallFunc(fn func(target *Node)) Action {
	return &callFunc{actionBase: newActionBase(0), fn: fn}
}

func (c *callFunc) init(target *Node) { c.start(target) }

func (c *callFunc) step(dt float64) float64 {
	c.state = ActionFinished
	if c.fn != nil {
		c.fn(c.target)
	}
	return dt
}

func (c *callFunc) Clone() Action   { return &callFunc{actionBase: c.cloneBase(), fn: c.fn} }
func (c *callFunc) Reverse() Action { return c.Clone() }
