package ecs

import (
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type every arbor scene event is
// published on: node enter and exit, and action started, finished and
// stopped. SceneEvent.Type tells them apart.
var SceneEventType = events.NewEventType[arbor.SceneEvent]()

// donburiStore publishes into one world. A zero mask publishes everything.
type donburiStore struct {
	world donburi.World
	mask  uint32
}

// NewDonburiStore returns an arbor.EntityStore that queues scene events on
// SceneEventType in world. With no types given it forwards every event;
// otherwise only the listed types are published, so a system that only
// cares about finished actions does not pay for per-node enter traffic.
//
// Queued events are delivered by SceneEventType.ProcessEvents or
// events.ProcessAllEvents, usually once per ECS tick after Scene.Update.
func NewDonburiStore(world donburi.World, only ...arbor.EventType) arbor.EntityStore {
	s := &donburiStore{world: world}
	for _, t := range only {
		s.mask |= 1 << t
	}
	return s
}

func (s *donburiStore) EmitEvent(event arbor.SceneEvent) {
	if s.mask != 0 && s.mask&(1<<event.Type) == 0 {
		return
	}
	SceneEventType.Publish(s.world, event)
}
