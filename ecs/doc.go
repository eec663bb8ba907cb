// Package ecs bridges islet's outbound signals into a [Donburi] world.
//
// [NewDonburiSink] returns an islet.SignalSink that publishes every signal
// (frame advanced, animation ended, loading finished) as a typed event.
// Subscribe to [SignalEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	player := islet.NewFramePlayerFiles(paths, islet.FramePlayerOptions{Sink: sink})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
