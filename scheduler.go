package arbor

import (
	"io"

	"github.com/charmbracelet/log"
)

// Scheduler owns every live action, indexed by target node, and advances
// them once per tick. A Scene owns one; NewScheduler builds a standalone one
// for hosts that drive actions without a scene.
type Scheduler struct {
	actions  []Action
	byTarget map[*Node][]Action
	iterBuf  []Action

	logger *log.Logger
	emit   func(SceneEvent)
}

// NewScheduler creates an empty scheduler that logs nowhere.
func NewScheduler() *Scheduler {
	return &Scheduler{
		byTarget: make(map[*Node][]Action),
		logger:   log.New(io.Discard),
	}
}

// SetLogger replaces the scheduler's logger. Nil is ignored.
func (s *Scheduler) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Start binds a to target and schedules it. The action is initialized on the
// next Advance and steps in that same tick.
//
// If a is already bound to a different node, a clone is scheduled instead so
// the two nodes never share progress. Starting an action that is already
// scheduled on target restarts it. The scheduled action is returned; nil is
// returned for a nil action or target.
func (s *Scheduler) Start(a Action, target *Node) Action {
	if a == nil || target == nil {
		s.logger.Warn("start ignored", "action_nil", a == nil, "target_nil", target == nil)
		return nil
	}
	if target.disposed {
		s.logger.Warn("start on disposed node", "node", target.name)
		return nil
	}
	b := a.base()
	if b.target != nil && b.target != target {
		a = a.Clone()
		b = a.base()
	}
	b.target = target
	b.state = ActionIdle
	b.elapsed = 0
	b.pending = true
	if b.scheduled {
		s.logger.Debug("restart action", "action", b.name, "id", b.id, "node", target.name)
		return a
	}
	b.scheduled = true
	s.actions = append(s.actions, a)
	s.byTarget[target] = append(s.byTarget[target], a)
	return a
}

// Advance steps every running action by dt, then drops finished and stopped
// ones. Actions started during Advance first run on the next tick. Actions
// whose target was disposed are stopped.
func (s *Scheduler) Advance(dt float64) {
	if len(s.actions) == 0 {
		return
	}
	s.iterBuf = append(s.iterBuf[:0], s.actions...)
	for _, a := range s.iterBuf {
		b := a.base()
		if !b.scheduled || b.Done() {
			continue
		}
		if b.target == nil || b.target.disposed {
			b.Stop()
			continue
		}
		if b.pending {
			if b.state == ActionPaused {
				continue
			}
			b.pending = false
			a.init(b.target)
			s.notify(EventActionStarted, b)
		}
		if b.state != ActionRunning {
			continue
		}
		a.step(dt)
	}
	clear(s.iterBuf)
	s.compact()
}

// compact removes finished and stopped actions, index-advancing only on keep.
func (s *Scheduler) compact() {
	kept := s.actions[:0]
	for _, a := range s.actions {
		b := a.base()
		if !b.Done() {
			kept = append(kept, a)
			continue
		}
		b.scheduled = false
		s.unindex(a)
		if b.state == ActionStopped {
			s.notify(EventActionStopped, b)
		} else {
			s.notify(EventActionFinished, b)
		}
	}
	clear(s.actions[len(kept):])
	s.actions = kept
}

func (s *Scheduler) unindex(a Action) {
	target := a.base().target
	list := s.byTarget[target]
	for i, x := range list {
		if x == a {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			list = list[:len(list)-1]
			break
		}
	}
	if len(list) == 0 {
		delete(s.byTarget, target)
		return
	}
	s.byTarget[target] = list
}

func (s *Scheduler) notify(t EventType, b *actionBase) {
	if s.emit == nil {
		return
	}
	ev := SceneEvent{Type: t, ActionID: b.id, ActionName: b.name}
	if b.target != nil {
		ev.NodeID = b.target.ID
		ev.NodeName = b.target.name
	}
	s.emit(ev)
}

// each calls fn for every live action on target whose name matches
// ("" matches all) and returns how many fn accepted.
func (s *Scheduler) each(target *Node, name string, fn func(Action) bool) int {
	n := 0
	for _, a := range s.byTarget[target] {
		if a.Done() || (name != "" && a.Name() != name) {
			continue
		}
		if fn(a) {
			n++
		}
	}
	return n
}

// eachNamed calls fn for every live action with the given name on any target.
func (s *Scheduler) eachNamed(name string, fn func(Action) bool) int {
	n := 0
	for _, a := range s.actions {
		if a.Done() || a.Name() != name {
			continue
		}
		if fn(a) {
			n++
		}
	}
	return n
}

func stopAction(a Action) bool { a.Stop(); return true }

func pauseAction(a Action) bool {
	if a.State() != ActionRunning && a.State() != ActionIdle {
		return false
	}
	a.Pause()
	return true
}

func resumeAction(a Action) bool {
	if a.State() != ActionPaused {
		return false
	}
	a.Resume()
	return true
}

// Stop stops target's actions with the given name ("" matches all) and
// returns how many were stopped.
func (s *Scheduler) Stop(target *Node, name string) int {
	return s.each(target, name, stopAction)
}

// Pause pauses target's actions with the given name ("" matches all).
// A paused action that has not run yet is initialized when resumed.
func (s *Scheduler) Pause(target *Node, name string) int {
	return s.each(target, name, pauseAction)
}

// Resume resumes target's paused actions with the given name ("" matches all).
func (s *Scheduler) Resume(target *Node, name string) int {
	return s.each(target, name, resumeAction)
}

// StopNamed stops every action with the given name on any target.
func (s *Scheduler) StopNamed(name string) int {
	return s.eachNamed(name, stopAction)
}

// PauseNamed pauses every action with the given name on any target.
func (s *Scheduler) PauseNamed(name string) int {
	return s.eachNamed(name, pauseAction)
}

// ResumeNamed resumes every action with the given name on any target.
func (s *Scheduler) ResumeNamed(name string) int {
	return s.eachNamed(name, resumeAction)
}

// Actions returns the live actions targeting n in start order.
func (s *Scheduler) Actions(n *Node) []Action {
	var out []Action
	for _, a := range s.byTarget[n] {
		if !a.Done() {
			out = append(out, a)
		}
	}
	return out
}

// Named returns the live actions with the given name on any target.
func (s *Scheduler) Named(name string) []Action {
	var out []Action
	for _, a := range s.actions {
		if !a.Done() && a.Name() == name {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of live actions.
func (s *Scheduler) Len() int {
	n := 0
	for _, a := range s.actions {
		if !a.Done() {
			n++
		}
	}
	return n
}

// Clear stops and removes every action immediately.
func (s *Scheduler) Clear() {
	for _, a := range s.actions {
		a.Stop()
	}
	s.compact()
}
