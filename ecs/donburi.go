package ecs

import (
	"github.com/phanxgames/eventstream"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for eventstream scene events.
// Events are queued on publish; call ProcessEvents or events.ProcessAllEvents
// from a system to deliver them.
var SceneEventType = events.NewEventType[eventstream.SceneEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Scene events are published to SceneEventType in dispatch order. Nothing
// reaches subscribers until the world's systems process the queue, so a
// handler's state change and the ECS reaction can land in different ticks.
func NewDonburiStore(world donburi.World) eventstream.EntityStore {
	return &donburiStore{world: world}
}

// EmitEvent queues event on the world. It is delivered by the next
// SceneEventType.ProcessEvents or events.ProcessAllEvents call.
func (s *donburiStore) EmitEvent(event eventstream.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}
