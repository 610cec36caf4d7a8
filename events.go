package arbor

// EventType identifies a scene lifecycle event.
type EventType uint8

const (
	EventNodeEnter      EventType = iota // a node became part of the scene
	EventNodeExit                        // a node left the scene
	EventActionStarted                   // an action was bound and initialized
	EventActionFinished                  // an action ran to completion
	EventActionStopped                   // an action was stopped before completion
)

var eventTypeNames = [...]string{
	"node_enter",
	"node_exit",
	"action_started",
	"action_finished",
	"action_stopped",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// SceneEvent carries a lifecycle event to an EntityStore.
type SceneEvent struct {
	Type       EventType
	NodeID     uint32
	NodeName   string
	ActionID   string // empty for node events
	ActionName string
}

// EntityStore is the interface for forwarding scene events to an ECS or any
// other external sink.
type EntityStore interface {
	// EmitEvent delivers a scene event.
	EmitEvent(event SceneEvent)
}

// emit forwards ev to the scene's EntityStore, if any.
func (s *Scene) emit(ev SceneEvent) {
	if s.store == nil {
		return
	}
	s.store.EmitEvent(ev)
}
