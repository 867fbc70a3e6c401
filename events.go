package kami

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SpawnedEvent is published for every widget created by a flush. It carries
// everything a renderer needs to create the widget's visual.
type SpawnedEvent struct {
	Handle   Handle
	Kind     string
	Position Vec3
	Label    string
	Asset    string
}

// DespawnedEvent is published for every widget destroyed by a flush.
// Position is the widget's last position.
type DespawnedEvent struct {
	Handle   Handle
	Kind     string
	Position Vec3
}

// CombinedEvent is published when a drop matches a rule. Effects is the
// rule's effect list and MUST NOT be mutated.
type CombinedEvent struct {
	Dragged      Handle
	DraggedKind  string
	Target       Handle
	TargetKind   string
	Effects      []Effect
	DropPosition Vec2
}

// Event types published on the engine's donburi world. Subscribe with
// the Subscribe method of each type. Events are delivered at the end of each
// Engine.Tick: spawns, then despawns, then combinations, each in publish
// order.
var (
	SpawnedEventType   = events.NewEventType[SpawnedEvent]()
	DespawnedEventType = events.NewEventType[DespawnedEvent]()
	CombinedEventType  = events.NewEventType[CombinedEvent]()
)

// deliverEvents dispatches queued events to subscribers.
func deliverEvents(w donburi.World) {
	SpawnedEventType.ProcessEvents(w)
	DespawnedEventType.ProcessEvents(w)
	CombinedEventType.ProcessEvents(w)
}
