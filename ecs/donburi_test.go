package ecs

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/yohamta/donburi"

	"github.com/phanxgames/islet"
)

func TestNewDonburiSink(t *testing.T) {
	if NewDonburiSink(donburi.NewWorld()) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSinkQueuesUntilProcessed(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []islet.Signal
	SignalEventType.Subscribe(world, func(w donburi.World, s islet.Signal) {
		received = append(received, s)
	})

	sink.EmitSignal(islet.Signal{Kind: islet.SignalFrameAdvanced, Source: "intro", Frame: 3})
	sink.EmitSignal(islet.Signal{Kind: islet.SignalLoadingFinished, Source: "intro", Failed: 1})

	if len(received) != 0 {
		t.Fatalf("signals delivered before ProcessEvents: %d", len(received))
	}
	Process(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(received))
	}
	if s := received[0]; s.Kind != islet.SignalFrameAdvanced || s.Frame != 3 || s.Source != "intro" {
		t.Errorf("first signal = %+v", s)
	}
	if s := received[1]; s.Kind != islet.SignalLoadingFinished || s.Failed != 1 {
		t.Errorf("second signal = %+v", s)
	}
}

func TestFramePlayerSignalsReachWorld(t *testing.T) {
	world := donburi.NewWorld()
	var kinds []islet.SignalKind
	SignalEventType.Subscribe(world, func(w donburi.World, s islet.Signal) {
		kinds = append(kinds, s.Kind)
	})

	o := islet.DefaultFramePlayerOptions()
	o.Loop = false
	o.Sink = NewDonburiSink(world)
	p := islet.NewFramePlayer(2, func(ctx context.Context, i int) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}, o)
	if err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := p.Preloader().Wait(ctx); err != nil {
		t.Fatal(err)
	}

	p.Update(0) // observes readiness and autoplays
	step := p.Interval()
	p.Update(step) // frame 1
	p.Update(step) // past the end
	Process(world)

	want := []islet.SignalKind{islet.SignalLoadingFinished, islet.SignalFrameAdvanced, islet.SignalAnimationEnded}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}
