package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/islet"
)

// SignalEventType is the Donburi event type for islet signals.
var SignalEventType = events.NewEventType[islet.Signal]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink returns a SignalSink backed by a Donburi world. Signals are
// queued on SignalEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) islet.SignalSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitSignal(sig islet.Signal) {
	SignalEventType.Publish(s.world, sig)
}

// Process delivers every queued signal to the subscribers of world. Call it
// from the tick that owns the world.
func Process(world donburi.World) {
	SignalEventType.ProcessEvents(world)
}
