package islet

import "math"

// PuppySize is the logical edge of the square puppy canvas.
const PuppySize = 64

var puppyShadow = Color{0, 0, 0, 0.35}

// PuppyLoaderOptions configures NewPuppyLoader.
type PuppyLoaderOptions struct {
	Label      string
	Scanlines  bool
	Background Color
	Zoom       float64
}

// DefaultPuppyLoaderOptions returns the tail-wagging dog on a transparent
// background.
func DefaultPuppyLoaderOptions() PuppyLoaderOptions {
	return PuppyLoaderOptions{Zoom: 1}
}

// PuppyLoader draws the sitting dog wagging its tail over a soft shadow.
type PuppyLoader struct {
	PuppyLoaderOptions

	canvas *PixelCanvas
	sprite *PixelSprite
	t      float64
}

// NewPuppyLoader builds the loader.
func NewPuppyLoader(o PuppyLoaderOptions) *PuppyLoader {
	l := &PuppyLoader{
		PuppyLoaderOptions: o,
		canvas:             NewPixelCanvas(PuppySize, PuppySize),
		sprite:             PuppySprite(),
	}
	if o.Zoom > 0 {
		l.canvas.Zoom = o.Zoom
	}
	l.Render()
	return l
}

// Canvas returns the logical framebuffer.
func (l *PuppyLoader) Canvas() *PixelCanvas { return l.canvas }

// Frame returns the tail frame: the tail swaps sides every ten 60 Hz frames.
func (l *PuppyLoader) Frame() int {
	f := int(math.Floor(l.t * 60))
	return (f / 10) % 2
}

// Update advances the wag clock.
func (l *PuppyLoader) Update(dt float64) {
	if dt > 0 {
		l.t += dt
	}
}

// Render paints the current frame.
func (l *PuppyLoader) Render() {
	c := l.canvas
	c.Clear(l.Background)

	ox := PuppySize/2 - l.sprite.W/2
	oy := PuppySize/2 - l.sprite.H/2 + 3
	for i := 0; i < 3; i++ {
		rw := 12 - 2*i
		c.FillRect(PuppySize/2-rw/2, oy+13+i, rw, 1, puppyShadow)
	}
	l.sprite.Draw(c, l.Frame(), ox, oy, 1)

	if l.Label != "" {
		bw := max(32, labelBoxWidth(l.Label))
		bx := (PuppySize - bw) >> 1
		drawLabelBox(c, l.Label, bx, PuppySize*78/100, bw, 10, 2, PuppyCollar)
	}
	if l.Scanlines {
		c.Scanlines(0.06)
	}
}

// Attach wires the loader into s.
func (l *PuppyLoader) Attach(s *Surface) (detach func()) { return attachPixel(s, l) }
