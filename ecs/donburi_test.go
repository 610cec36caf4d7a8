package ecs

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []arbor.SceneEvent
	SceneEventType.Subscribe(world, func(w donburi.World, e arbor.SceneEvent) {
		received = append(received, e)
	})

	store.EmitEvent(arbor.SceneEvent{
		Type:     arbor.EventNodeEnter,
		NodeID:   42,
		NodeName: "hero",
	})
	store.EmitEvent(arbor.SceneEvent{
		Type:       arbor.EventActionFinished,
		ActionID:   "a1",
		ActionName: "walk",
	})

	// Events are queued; process them.
	SceneEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != arbor.EventNodeEnter || e.NodeID != 42 || e.NodeName != "hero" {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != arbor.EventActionFinished || e.ActionName != "walk" {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiStore_ImplementsEntityStore(t *testing.T) {
	world := donburi.NewWorld()
	var store arbor.EntityStore = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	SceneEventType.Subscribe(world, func(w donburi.World, e arbor.SceneEvent) {
		count1++
	})
	SceneEventType.Subscribe(world, func(w donburi.World, e arbor.SceneEvent) {
		count2++
	})

	store.EmitEvent(arbor.SceneEvent{Type: arbor.EventNodeExit})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestDonburiStore_SceneLifecycle(t *testing.T) {
	world := donburi.NewWorld()
	scene := arbor.NewScene()
	scene.SetLogger(log.New(io.Discard))
	scene.SetEntityStore(NewDonburiStore(world))

	counts := map[arbor.EventType]int{}
	SceneEventType.Subscribe(world, func(w donburi.World, e arbor.SceneEvent) {
		counts[e.Type]++
	})

	n := arbor.NewNode("n")
	if err := scene.Add(n); err != nil {
		t.Fatal(err)
	}
	if _, err := n.RunAction(arbor.Delay(0.5)); err != nil {
		t.Fatal(err)
	}
	scene.Update(0.5)
	scene.Remove(n)
	SceneEventType.ProcessEvents(world)

	for _, typ := range []arbor.EventType{
		arbor.EventNodeEnter, arbor.EventActionStarted, arbor.EventActionFinished, arbor.EventNodeExit,
	} {
		if counts[typ] != 1 {
			t.Errorf("%s count = %d, want 1", typ, counts[typ])
		}
	}
}

func TestDonburiStore_FiltersTypes(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world, arbor.EventActionFinished, arbor.EventActionStopped)

	var got []arbor.EventType
	SceneEventType.Subscribe(world, func(w donburi.World, e arbor.SceneEvent) {
		got = append(got, e.Type)
	})

	for _, typ := range []arbor.EventType{
		arbor.EventNodeEnter, arbor.EventActionStarted, arbor.EventActionFinished,
		arbor.EventActionStopped, arbor.EventNodeExit,
	} {
		store.EmitEvent(arbor.SceneEvent{Type: typ})
	}
	SceneEventType.ProcessEvents(world)

	if len(got) != 2 || got[0] != arbor.EventActionFinished || got[1] != arbor.EventActionStopped {
		t.Errorf("published %v, want [action_finished action_stopped]", got)
	}
}
