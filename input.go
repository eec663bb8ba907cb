package islet

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultDragDeadZone = 4.0 // pixels

// PointerEvent describes one pointer notification in surface pixels.
type PointerEvent struct {
	X, Y float64
	// DX, DY are the movement since the previous event (drag and move).
	DX, DY float64
	// NX, NY are X, Y mapped to [-1, 1] with +Y up, for parallax.
	NX, NY float64
}

type pointerHandler struct {
	id uint32
	fn func(PointerEvent)
}

type pointerEventKind uint8

const (
	pointerMove pointerEventKind = iota
	pointerClick
	pointerDrag
	numPointerKinds
)

// CallbackHandle allows removing a registered pointer callback.
type CallbackHandle struct {
	id   uint32
	kind pointerEventKind
	p    *Pointer
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.p == nil {
		return
	}
	s := h.p.handlers[h.kind]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			h.p.handlers[h.kind] = s[:len(s)-1]
			return
		}
	}
}

type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// Pointer tracks the primary pointer (the mouse, or the first touch) of a
// surface and turns it into move, click and drag callbacks. A press that
// moves less than the dead zone before release is a click; anything farther
// is a drag.
type Pointer struct {
	// DragDeadZone is the movement in pixels before a press becomes a drag.
	DragDeadZone float64

	width, height float64

	down           bool
	dragging       bool
	startX, startY float64
	lastX, lastY   float64
	hasLast        bool
	touchID        ebiten.TouchID
	touching       bool
	touchBuf       []ebiten.TouchID
	injectQueue    []syntheticPointerEvent
	handlers       [numPointerKinds][]pointerHandler
	nextID         uint32
}

// NewPointer returns a pointer tracker for a w×h surface.
func NewPointer(w, h int) *Pointer {
	return &Pointer{DragDeadZone: defaultDragDeadZone, width: float64(w), height: float64(h)}
}

// Resize updates the surface size used for normalized coordinates.
func (p *Pointer) Resize(w, h int) {
	p.width, p.height = float64(w), float64(h)
}

func (p *Pointer) on(kind pointerEventKind, fn func(PointerEvent)) CallbackHandle {
	p.nextID++
	p.handlers[kind] = append(p.handlers[kind], pointerHandler{id: p.nextID, fn: fn})
	return CallbackHandle{id: p.nextID, kind: kind, p: p}
}

// OnMove registers a callback for every pointer movement.
func (p *Pointer) OnMove(fn func(PointerEvent)) CallbackHandle { return p.on(pointerMove, fn) }

// OnClick registers a callback for clicks.
func (p *Pointer) OnClick(fn func(PointerEvent)) CallbackHandle { return p.on(pointerClick, fn) }

// OnDrag registers a callback for drag movement.
func (p *Pointer) OnDrag(fn func(PointerEvent)) CallbackHandle { return p.on(pointerDrag, fn) }

func (p *Pointer) fire(kind pointerEventKind, x, y, dx, dy float64) {
	e := PointerEvent{X: x, Y: y, DX: dx, DY: dy}
	e.NX, e.NY = p.normalize(x, y)
	for _, h := range p.handlers[kind] {
		h.fn(e)
	}
}

func (p *Pointer) normalize(x, y float64) (nx, ny float64) {
	if p.width <= 0 || p.height <= 0 {
		return 0, 0
	}
	return x/p.width*2 - 1, -(y/p.height*2 - 1)
}

// InjectPress queues a press at (x, y). Injected events are consumed one per
// Update, before any real input is read.
func (p *Pointer) InjectPress(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a movement with the button held.
func (p *Pointer) InjectMove(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a release at (x, y).
func (p *Pointer) InjectRelease(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a press and a release at the same point.
func (p *Pointer) InjectClick(x, y float64) {
	p.InjectPress(x, y)
	p.InjectRelease(x, y)
}

// InjectDrag queues a press at the start, frames-2 interpolated moves and a
// release at the end. frames below 2 is treated as 2.
func (p *Pointer) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	p.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	p.InjectRelease(toX, toY)
}

// Pending returns the number of queued synthetic events.
func (p *Pointer) Pending() int { return len(p.injectQueue) }

// Update consumes one injected event if any is queued, otherwise reads the
// live mouse and touch state.
func (p *Pointer) Update() {
	if len(p.injectQueue) > 0 {
		e := p.injectQueue[0]
		copy(p.injectQueue, p.injectQueue[1:])
		p.injectQueue = p.injectQueue[:len(p.injectQueue)-1]
		p.process(e.x, e.y, e.pressed)
		return
	}
	p.touchBuf = ebiten.AppendTouchIDs(p.touchBuf[:0])
	if p.touching {
		for _, id := range p.touchBuf {
			if id == p.touchID {
				tx, ty := ebiten.TouchPosition(id)
				p.process(float64(tx), float64(ty), true)
				return
			}
		}
		p.touching = false
		p.process(p.lastX, p.lastY, false)
		return
	}
	if len(p.touchBuf) > 0 {
		p.touching = true
		p.touchID = p.touchBuf[0]
		tx, ty := ebiten.TouchPosition(p.touchID)
		p.process(float64(tx), float64(ty), true)
		return
	}
	mx, my := ebiten.CursorPosition()
	p.process(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// process runs the press/drag/release state machine for one sample.
func (p *Pointer) process(x, y float64, pressed bool) {
	dx, dy := 0.0, 0.0
	if p.hasLast {
		dx, dy = x-p.lastX, y-p.lastY
	}
	if dx != 0 || dy != 0 {
		p.fire(pointerMove, x, y, dx, dy)
	}

	switch {
	case pressed && !p.down:
		p.down = true
		p.dragging = false
		p.startX, p.startY = x, y
	case pressed && p.down:
		if !p.dragging && math.Hypot(x-p.startX, y-p.startY) >= p.DragDeadZone {
			p.dragging = true
			// The dead-zone travel counts toward the first drag step.
			dx, dy = x-p.startX, y-p.startY
		}
		if p.dragging && (dx != 0 || dy != 0) {
			p.fire(pointerDrag, x, y, dx, dy)
		}
	case !pressed && p.down:
		if !p.dragging {
			p.fire(pointerClick, x, y, 0, 0)
		}
		p.down = false
		p.dragging = false
	}
	p.lastX, p.lastY = x, y
	p.hasLast = true
}

// Dragging reports whether a drag is in progress.
func (p *Pointer) Dragging() bool { return p.dragging }
