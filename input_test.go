package islet

import (
	"testing"
)

// drain runs Update until every injected event is consumed.
func drain(p *Pointer) {
	for p.Pending() > 0 {
		p.Update()
	}
}

func TestInjectClick(t *testing.T) {
	p := NewPointer(200, 100)
	var clicks []PointerEvent
	drags := 0
	p.OnClick(func(e PointerEvent) { clicks = append(clicks, e) })
	p.OnDrag(func(PointerEvent) { drags++ })

	p.InjectClick(150, 25)
	if p.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", p.Pending())
	}
	drain(p)
	if len(clicks) != 1 {
		t.Fatalf("clicks = %d, want 1", len(clicks))
	}
	if drags != 0 {
		t.Errorf("drags = %d, want 0", drags)
	}
	e := clicks[0]
	if e.X != 150 || e.Y != 25 {
		t.Errorf("click at (%v, %v), want (150, 25)", e.X, e.Y)
	}
	assertNear(t, "NX", e.NX, 0.5)
	assertNear(t, "NY", e.NY, 0.5)
}

func TestInjectDrag(t *testing.T) {
	p := NewPointer(200, 200)
	var total float64
	drags := 0
	clicks := 0
	p.OnDrag(func(e PointerEvent) {
		drags++
		total += e.DX
	})
	p.OnClick(func(PointerEvent) { clicks++ })

	// press, three moves, release
	p.InjectDrag(0, 0, 100, 0, 5)
	if p.Pending() != 5 {
		t.Fatalf("Pending = %d, want 5", p.Pending())
	}
	p.Update() // press
	p.Update() // first move crosses the dead zone
	if !p.Dragging() {
		t.Error("not dragging after the first move")
	}
	drain(p)
	if p.Dragging() {
		t.Error("still dragging after release")
	}
	if clicks != 0 {
		t.Errorf("a drag produced %d clicks", clicks)
	}
	if drags != 3 {
		t.Errorf("drag events = %d, want 3", drags)
	}
	assertNear(t, "drag dx", total, 75)
}

func TestDeadZoneKeepsClick(t *testing.T) {
	p := NewPointer(100, 100)
	clicks := 0
	p.OnClick(func(PointerEvent) { clicks++ })
	p.InjectPress(10, 10)
	p.InjectMove(12, 11)
	p.InjectRelease(12, 11)
	drain(p)
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1 for movement inside the dead zone", clicks)
	}
}

func TestOnMoveDeltas(t *testing.T) {
	p := NewPointer(100, 100)
	var moves []PointerEvent
	p.OnMove(func(e PointerEvent) { moves = append(moves, e) })
	p.InjectRelease(10, 10)
	p.InjectRelease(10, 10)
	p.InjectRelease(30, 5)
	drain(p)
	if len(moves) != 1 {
		t.Fatalf("moves = %d, want 1 (no event without movement)", len(moves))
	}
	if moves[0].DX != 20 || moves[0].DY != -5 {
		t.Errorf("delta = (%v, %v), want (20, -5)", moves[0].DX, moves[0].DY)
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	p := NewPointer(100, 100)
	a, b := 0, 0
	ha := p.OnClick(func(PointerEvent) { a++ })
	p.OnClick(func(PointerEvent) { b++ })
	ha.Remove()
	ha.Remove()
	CallbackHandle{}.Remove()

	p.InjectClick(1, 1)
	drain(p)
	if a != 0 || b != 1 {
		t.Errorf("a=%d b=%d, want 0 and 1", a, b)
	}
}

func TestPointerNormalizeZeroSize(t *testing.T) {
	p := NewPointer(100, 100)
	p.Resize(0, 0)
	nx, ny := p.normalize(50, 50)
	if nx != 0 || ny != 0 {
		t.Errorf("normalize on empty surface = (%v, %v)", nx, ny)
	}
}
