package arbor

import "testing"

func TestStartBindsTarget(t *testing.T) {
	n := NewNode("n")
	s := NewScheduler()
	a := s.Start(MoveBy(1, 1, 0), n)
	if a.Target() != n {
		t.Error("Start should bind the target")
	}
	if a.State() != ActionIdle {
		t.Errorf("State = %v, want idle until the first tick", a.State())
	}
	if s.Len() != 1 || len(s.Actions(n)) != 1 {
		t.Error("action should be scheduled and indexed")
	}
}

func TestStartNil(t *testing.T) {
	s := NewScheduler()
	if s.Start(nil, NewNode("n")) != nil || s.Start(Delay(1), nil) != nil {
		t.Error("Start with nil arguments should return nil")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestStartOnOtherTargetClones(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	s := NewScheduler()
	act := MoveBy(1, 10, 0)
	first := s.Start(act, a)
	second := s.Start(act, b)
	if first != act {
		t.Error("first start should schedule the action itself")
	}
	if second == act || second.Target() != b {
		t.Fatal("starting on another node should schedule a clone")
	}
	if act.Target() != a {
		t.Error("original stays bound to its first target")
	}

	s.Advance(0.5)
	assertPos(t, a, 5, 0)
	assertPos(t, b, 5, 0)
}

func TestStartSameTargetRestarts(t *testing.T) {
	n := NewNode("n")
	s := NewScheduler()
	act := MoveBy(1, 10, 0)
	s.Start(act, n)
	s.Advance(0.5)

	if s.Start(act, n) != act {
		t.Fatal("restart should keep the same action")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	s.Advance(0.5)
	// Restarted from (5, 0).
	assertPos(t, n, 10, 0)
	if act.Done() {
		t.Error("restarted action should still be running")
	}
}

func TestStartOnDisposedNode(t *testing.T) {
	n := NewNode("n")
	n.Dispose()
	s := NewScheduler()
	if s.Start(Delay(1), n) != nil {
		t.Error("Start on a disposed node should return nil")
	}
}

func TestDisposedTargetDropped(t *testing.T) {
	n := NewNode("n")
	s := NewScheduler()
	a := s.Start(MoveBy(1, 10, 0), n)
	s.Advance(0.5)
	n.Dispose()
	s.Advance(0.5)
	if a.State() != ActionStopped {
		t.Errorf("State = %v, want stopped", a.State())
	}
	if s.Len() != 0 || len(s.Actions(n)) != 0 {
		t.Error("action on a disposed node should be dropped")
	}
}

func TestBatchOpsByName(t *testing.T) {
	n := NewNode("n")
	other := NewNode("other")
	s := NewScheduler()
	walk := s.Start(Named("walk", MoveBy(1, 10, 0)), n)
	spin := s.Start(Named("spin", RotateBy(1, 90)), n)
	otherWalk := s.Start(Named("walk", MoveBy(1, 10, 0)), other)

	if got := s.Pause(n, "walk"); got != 1 {
		t.Errorf("Pause = %d, want 1", got)
	}
	s.Advance(0.5)
	assertPos(t, n, 0, 0)
	assertNear(t, "Rotation", n.Rotation(), 45)
	assertPos(t, other, 5, 0)
	if walk.State() != ActionPaused {
		t.Errorf("walk State = %v, want paused", walk.State())
	}

	if got := s.Resume(n, ""); got != 1 {
		t.Errorf("Resume = %d, want 1", got)
	}
	s.Advance(0.25)
	assertPos(t, n, 2.5, 0)

	if got := s.Stop(n, ""); got != 2 {
		t.Errorf("Stop = %d, want 2", got)
	}
	s.Advance(0.25)
	if !walk.Done() || !spin.Done() || otherWalk.Done() {
		t.Error("only n's actions should be stopped")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestPausedBeforeFirstTickInitsOnResume(t *testing.T) {
	n := NewNode("n")
	s := NewScheduler()
	s.Start(MoveBy(1, 10, 0), n)
	s.Pause(n, "")
	s.Advance(0.5)
	n.SetPosition(100, 0)
	s.Resume(n, "")
	s.Advance(0.5)
	assertPos(t, n, 105, 0)
}

func TestPauseReturnedActionBeforeFirstTick(t *testing.T) {
	n := NewNode("n")
	s := NewScheduler()
	a := s.Start(MoveBy(1, 10, 0), n)
	a.Pause()
	if a.State() != ActionPaused {
		t.Fatalf("State = %v, want paused", a.State())
	}
	s.Advance(0.5)
	assertPos(t, n, 0, 0)

	a.Resume()
	s.Advance(0.5)
	assertPos(t, n, 5, 0)
}

func TestStopMissingIsNoOp(t *testing.T) {
	n := NewNode("n")
	s := NewScheduler()
	s.Start(Named("a", Delay(1)), n)
	if s.Stop(n, "missing") != 0 || s.StopNamed("missing") != 0 {
		t.Error("stopping a missing name should report 0")
	}
	if s.Stop(NewNode("stranger"), "") != 0 {
		t.Error("stopping on a node without actions should report 0")
	}
}

func TestNamedOpsAcrossTargets(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	s := NewScheduler()
	s.Start(Named("blink", Delay(1)), a)
	s.Start(Named("blink", Delay(1)), b)
	s.Start(Named("other", Delay(1)), b)

	if got := len(s.Named("blink")); got != 2 {
		t.Errorf("Named = %d, want 2", got)
	}
	if got := s.PauseNamed("blink"); got != 2 {
		t.Errorf("PauseNamed = %d, want 2", got)
	}
	if got := s.ResumeNamed("blink"); got != 2 {
		t.Errorf("ResumeNamed = %d, want 2", got)
	}
	if got := s.StopNamed("blink"); got != 2 {
		t.Errorf("StopNamed = %d, want 2", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStopFromCallbackDuringAdvance(t *testing.T) {
	n := NewNode("n")
	s := NewScheduler()
	victim := MoveBy(1, 10, 0)
	s.Start(CallFunc(func(*Node) { victim.Stop() }), n)
	s.Start(victim, n)

	s.Advance(0.5)
	assertPos(t, n, 0, 0)
	if victim.State() != ActionStopped || s.Len() != 0 {
		t.Error("action stopped mid-tick should not step and should be removed")
	}
}

func TestStartFromCallbackRunsNextTick(t *testing.T) {
	n := NewNode("n")
	s := NewScheduler()
	var late Action
	s.Start(CallFunc(func(target *Node) {
		late = s.Start(MoveBy(1, 10, 0), target)
	}), n)

	s.Advance(0.5)
	if late == nil || late.State() != ActionIdle {
		t.Fatal("action started mid-tick should wait for the next tick")
	}
	assertPos(t, n, 0, 0)
	s.Advance(0.5)
	assertPos(t, n, 5, 0)
}

func TestClear(t *testing.T) {
	n := NewNode("n")
	s := NewScheduler()
	a := s.Start(Delay(1), n)
	s.Start(Delay(1), n)
	s.Clear()
	if s.Len() != 0 || len(s.Actions(n)) != 0 {
		t.Error("Clear should remove everything")
	}
	if a.State() != ActionStopped {
		t.Errorf("State = %v, want stopped", a.State())
	}
}

func TestRestartAfterFinish(t *testing.T) {
	n := NewNode("n")
	s := NewScheduler()
	a := s.Start(MoveBy(1, 10, 0), n)
	s.Advance(1)
	if !a.Done() || s.Len() != 0 {
		t.Fatal("action should be finished and removed")
	}
	s.Start(a, n)
	s.Advance(1)
	assertPos(t, n, 20, 0)
}

func TestNodeActionHelpers(t *testing.T) {
	s := newTestScene()
	n := NewNode("n")
	mustAdd(t, s.Root(), n)

	a, err := n.RunAction(Named("move", MoveBy(1, 10, 0)))
	if err != nil {
		t.Fatal(err)
	}
	s.Update(0.5)
	if n.PauseActions("move") != 1 {
		t.Error("PauseActions should pause the move")
	}
	s.Update(0.5)
	assertPos(t, n, 5, 0)
	if n.ResumeAllActions() != 1 {
		t.Error("ResumeAllActions should resume the move")
	}
	if n.PauseAllActions() != 1 || n.ResumeActions("") != 1 {
		t.Error("pause/resume all should affect the move")
	}
	if n.StopActions("move") != 1 || !a.Done() {
		t.Error("StopActions should stop the move")
	}
}
