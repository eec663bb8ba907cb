package islet

import (
	"errors"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrSurfaceClosed is returned when a stopped surface is run or stepped.
var ErrSurfaceClosed = errors.New("islet: surface closed")

// DrawFunc renders one frame onto screen.
type DrawFunc func(screen *ebiten.Image)

// Surface is one rendering surface: it owns a Scheduler, tracks the pointer,
// follows resizes and draws through a DrawFunc. It implements ebiten.Game.
//
// Each surface ticks independently. Stop tears the surface down: the
// scheduler is cancelled before its next tick and the host loop exits.
type Surface struct {
	ID   uuid.UUID
	Name string

	Scheduler *Scheduler
	Pointer   *Pointer

	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string
	// FixedStep ticks with 1/TPS instead of measured wall time.
	FixedStep bool

	draw          DrawFunc
	width, height int
	resize        []resizeEntry
	nextResizeID  uint32
	clock         *Clock
	closed        atomic.Bool

	showFPS         bool
	fps             fpsOverlay
	screenshotQueue []string
	script          *Script
}

// NewSurface returns a w×h surface drawing with draw.
func NewSurface(name string, w, h int, draw DrawFunc) *Surface {
	w, h = max(1, w), max(1, h)
	s := &Surface{
		ID:            uuid.New(),
		Name:          name,
		Scheduler:     NewScheduler(),
		Pointer:       NewPointer(w, h),
		ScreenshotDir: "screenshots",
		draw:          draw,
		width:         w,
		height:        h,
	}
	logDebug("surface created", "surface", s.Name, "id", s.ID, "w", w, "h", h)
	return s
}

// Size returns the current surface size in pixels.
func (s *Surface) Size() (w, h int) { return s.width, s.height }

type resizeEntry struct {
	id uint32
	fn func(w, h int)
}

// ResizeHandle removes a callback registered with OnResize.
type ResizeHandle struct {
	s  *Surface
	id uint32
}

// Remove unregisters the callback. It is safe on a zero handle and more
// than once.
func (h ResizeHandle) Remove() {
	if h.s == nil {
		return
	}
	h.s.resize = slices.DeleteFunc(h.s.resize, func(e resizeEntry) bool { return e.id == h.id })
}

// OnResize registers fn to run whenever the surface size changes. fn also
// runs immediately with the current size so dependents start consistent.
func (s *Surface) OnResize(fn func(w, h int)) ResizeHandle {
	s.nextResizeID++
	s.resize = append(s.resize, resizeEntry{id: s.nextResizeID, fn: fn})
	fn(s.width, s.height)
	return ResizeHandle{s: s, id: s.nextResizeID}
}

// SetDrawFunc replaces the frame renderer.
func (s *Surface) SetDrawFunc(draw DrawFunc) { s.draw = draw }

// SetShowFPS toggles the FPS/TPS overlay.
func (s *Surface) SetShowFPS(on bool) { s.showFPS = on }

// Update implements ebiten.Game. It reads input and runs one scheduler tick.
func (s *Surface) Update() error {
	if s.closed.Load() {
		return ebiten.Termination
	}
	if s.script != nil {
		s.script.step(s)
		if s.closed.Load() {
			return ebiten.Termination
		}
	}
	s.Pointer.Update()
	var dt float64
	if s.FixedStep || s.clock == nil {
		dt = 1 / float64(ebiten.TPS())
		if s.clock == nil && !s.FixedStep {
			s.clock = NewClock()
		}
	} else {
		dt = s.clock.Delta()
	}
	if s.showFPS {
		s.fps.update(dt)
	}
	if !s.Scheduler.Tick(dt) {
		return ebiten.Termination
	}
	return nil
}

// Step runs one tick of dt seconds without a host loop, for headless use.
func (s *Surface) Step(dt float64) error {
	if s.closed.Load() || !s.Scheduler.Tick(dt) {
		return ErrSurfaceClosed
	}
	return nil
}

// Draw implements ebiten.Game.
func (s *Surface) Draw(screen *ebiten.Image) {
	if s.closed.Load() {
		return
	}
	if s.draw != nil {
		s.draw(screen)
	}
	if s.showFPS {
		s.fps.draw(screen)
	}
	s.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The surface always matches the outside
// size; a change notifies every OnResize callback.
func (s *Surface) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := max(1, outsideWidth), max(1, outsideHeight)
	if w != s.width || h != s.height {
		s.width, s.height = w, h
		s.Pointer.Resize(w, h)
		for _, e := range slices.Clone(s.resize) {
			e.fn(w, h)
		}
	}
	return w, h
}

// Stop tears the surface down. It may be called from any goroutine and more
// than once.
func (s *Surface) Stop() {
	if s.closed.CompareAndSwap(false, true) {
		s.Scheduler.Stop()
		logDebug("surface stopped", "surface", s.Name, "id", s.ID)
	}
}

// Closed reports whether Stop was called.
func (s *Surface) Closed() bool { return s.closed.Load() }

// RunConfig configures Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	ShowFPS   bool
	// PauseOnBlur stops ticking while the window is unfocused. Scenes keep
	// animating in the background by default.
	PauseOnBlur bool
}

// Run opens a window and drives s until the window closes or s is stopped.
func Run(s *Surface, cfg RunConfig) error {
	if s.Closed() {
		return ErrSurfaceClosed
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetRunnableOnUnfocused(!cfg.PauseOnBlur)
	s.showFPS = s.showFPS || cfg.ShowFPS
	logInfo("surface running", "surface", s.Name, "id", s.ID)
	err := ebiten.RunGame(s)
	s.Stop()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
