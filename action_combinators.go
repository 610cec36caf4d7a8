package arbor

import "math"

// sequence runs first to completion, then second. The second action is
// initialized in the tick the first finishes and receives the leftover time.
type sequence struct {
	actionBase
	first, second Action
}

// Sequence runs the actions one after another. More than two actions are
// folded left into nested two-action sequences. An empty call returns a
// zero-length Delay; a single action is returned as is.
func Sequence(actions ...Action) Action {
	switch len(actions) {
	case 0:
		return Delay(0)
	case 1:
		return actions[0]
	}
	acc := actions[0]
	for _, a := range actions[1:] {
		acc = newSequence(acc, a)
	}
	return acc
}

func newSequence(first, second Action) *sequence {
	return &sequence{
		actionBase: newActionBase(first.Duration() + second.Duration()),
		first:      first,
		second:     second,
	}
}

func (s *sequence) init(target *Node) {
	s.start(target)
	s.first.init(target)
	s.second.base().state = ActionIdle
}

func (s *sequence) step(dt float64) float64 {
	rest := dt
	if !s.first.Done() {
		// The finished check runs after stepping so a zero-length first
		// action still gets its one step.
		rest = s.first.step(rest)
		if !s.first.Done() {
			s.elapsed += dt - rest
			return rest
		}
		s.second.init(s.target)
	}
	rest = s.second.step(rest)
	s.elapsed += dt - rest
	if s.second.Done() {
		s.state = ActionFinished
	}
	return rest
}

func (s *sequence) Clone() Action {
	return &sequence{actionBase: s.cloneBase(), first: s.first.Clone(), second: s.second.Clone()}
}

// Reverse runs the reversed second action, then the reversed first.
func (s *sequence) Reverse() Action {
	r := newSequence(s.second.Reverse(), s.first.Reverse())
	r.name = s.name
	return r
}

// spawn runs two actions side by side and finishes when both have.
type spawn struct {
	actionBase
	a, b Action
}

// Spawn runs the actions in parallel. More than two actions are folded left.
func Spawn(actions ...Action) Action {
	switch len(actions) {
	case 0:
		return Delay(0)
	case 1:
		return actions[0]
	}
	acc := actions[0]
	for _, a := range actions[1:] {
		acc = newSpawn(acc, a)
	}
	return acc
}

func newSpawn(a, b Action) *spawn {
	return &spawn{
		actionBase: newActionBase(math.Max(a.Duration(), b.Duration())),
		a:          a,
		b:          b,
	}
}

func (s *spawn) init(target *Node) {
	s.start(target)
	s.a.init(target)
	s.b.init(target)
}

func (s *spawn) step(dt float64) float64 {
	ra, rb := dt, dt
	if !s.a.Done() {
		ra = s.a.step(dt)
	}
	if !s.b.Done() {
		rb = s.b.step(dt)
	}
	rest := math.Min(ra, rb)
	s.elapsed += dt - rest
	if s.a.Done() && s.b.Done() {
		s.state = ActionFinished
	}
	return rest
}

func (s *spawn) Clone() Action {
	return &spawn{actionBase: s.cloneBase(), a: s.a.Clone(), b: s.b.Clone()}
}

func (s *spawn) Reverse() Action {
	r := newSpawn(s.a.Reverse(), s.b.Reverse())
	r.name = s.name
	return r
}

// repeat re-runs its inner action a fixed number of times, or forever.
type repeat struct {
	actionBase
	inner Action
	times int
	count int
}

// Repeat runs action times times in a row. A negative count repeats forever;
// zero finishes on the first step without running action.
func Repeat(action Action, times int) Action {
	if times < 0 {
		times = -1
	}
	d := action.Duration() * float64(times)
	if times < 0 {
		d = math.Inf(1)
	}
	return &repeat{actionBase: newActionBase(d), inner: action, times: times}
}

// Loop repeats action forever.
func Loop(action Action) Action {
	return Repeat(action, -1)
}

// Count returns how many cycles have completed since the last start.
func (r *repeat) Count() int { return r.count }

func (r *repeat) init(target *Node) {
	r.start(target)
	r.count = 0
	if r.times != 0 {
		r.inner.init(target)
	}
}

func (r *repeat) step(dt float64) float64 {
	if r.times == 0 {
		r.state = ActionFinished
		return dt
	}
	rest := dt
	for {
		before := rest
		rest = r.inner.step(rest)
		if !r.inner.Done() {
			break
		}
		r.count++
		if r.times > 0 && r.count >= r.times {
			r.state = ActionFinished
			break
		}
		r.inner.init(r.target)
		// An infinite repeat of an instant cycle would never leave this loop.
		if rest <= 0 || (rest == before && r.times < 0) {
			break
		}
	}
	r.elapsed += dt - rest
	if r.state != ActionFinished {
		return 0
	}
	return rest
}

func (r *repeat) Clone() Action {
	return &repeat{actionBase: r.cloneBase(), inner: r.inner.Clone(), times: r.times}
}

func (r *repeat) Reverse() Action {
	rev := Repeat(r.inner.Reverse(), r.times)
	rev.SetName(r.name)
	return rev
}
