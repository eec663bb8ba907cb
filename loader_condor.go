package islet

import (
	"math"
)

// Logical resolution of the condor loader.
const (
	CondorWidth  = 240
	CondorHeight = 120
)

const (
	condorStars       = 40
	condorStarScroll  = 0.2
	condorWorldSpeed  = 30 // logical pixels per second at speed 1
	condorFlapRate    = 8  // flap phase units per second
	condorSpriteScale = 4
	condorBob         = 6
	condorGroundY     = 100
	condorScanAlpha   = 0.08
)

type mountainLayer struct {
	color    Color
	base     float64
	amp      float64
	parallax float64
}

var (
	condorMountains = [...]mountainLayer{
		{Hex("#243042"), 70, 6, 0.35},
		{Hex("#2f3e56"), 84, 4, 0.5},
	}
	condorGroundDark  = Hex("#2a2a2a")
	condorGroundLight = Hex("#3a3a3a")
	condorStarColor   = Hex("#e5e7eb")
	condorAccent      = Hex("#49d1ff")
)

// CondorLoaderOptions configures NewCondorLoader.
type CondorLoaderOptions struct {
	Label      string
	Speed      float64
	Scanlines  bool
	Background Color
	// Zoom multiplies the fitted integer scale.
	Zoom float64
	Seed uint64
}

// DefaultCondorLoaderOptions returns the flying condor over the Andes.
func DefaultCondorLoaderOptions() CondorLoaderOptions {
	return CondorLoaderOptions{
		Label:      "Loading...",
		Speed:      0.8,
		Scanlines:  true,
		Background: Hex("#0b0f16"),
		Zoom:       1,
		Seed:       1,
	}
}

type condorStar struct {
	x, y, twinkle float64
}

// CondorLoader is the side-scrolling pixel loader: a flapping condor over
// parallax mountains, a striped ground and twinkling stars.
type CondorLoader struct {
	CondorLoaderOptions

	canvas *PixelCanvas
	sprite *PixelSprite
	stars  []condorStar

	t      float64
	worldX float64
	flap   float64
}

// NewCondorLoader builds the loader.
func NewCondorLoader(o CondorLoaderOptions) *CondorLoader {
	l := &CondorLoader{
		CondorLoaderOptions: o,
		canvas:              NewPixelCanvas(CondorWidth, CondorHeight),
		sprite:              CondorSprite(),
	}
	if o.Zoom > 0 {
		l.canvas.Zoom = o.Zoom
	}
	rng := NewRand(o.Seed)
	l.stars = make([]condorStar, condorStars)
	for i := range l.stars {
		l.stars[i] = condorStar{rng.Float64(), rng.Float64(), rng.Float64()}
	}
	l.Render()
	return l
}

// Canvas returns the logical framebuffer.
func (l *CondorLoader) Canvas() *PixelCanvas { return l.canvas }

// WorldX returns the scroll distance in logical pixels.
func (l *CondorLoader) WorldX() float64 { return l.worldX }

// Frame returns the condor sprite frame currently shown.
func (l *CondorLoader) Frame() int { return int(math.Floor(l.flap)) % 2 }

// Update advances scroll, flap and twinkle by dt seconds.
func (l *CondorLoader) Update(dt float64) {
	if !(dt > 0) {
		return
	}
	l.t += dt
	l.worldX += dt * condorWorldSpeed * l.Speed
	l.flap += dt * condorFlapRate
}

// Render paints the current frame.
func (l *CondorLoader) Render() {
	c := l.canvas
	const w, h = float64(CondorWidth), float64(CondorHeight)
	c.Clear(l.Background)

	starShift := LayerOffset(l.worldX, condorStarScroll, w)
	for _, s := range l.stars {
		if math.Sin(l.t*5+s.twinkle*2*math.Pi)*0.5+0.5 <= 0.6 {
			continue
		}
		x := math.Mod(s.x*w-starShift+w, w)
		c.FillRect(int(x), int(s.y*h*0.5), 1, 1, condorStarColor)
	}

	for _, m := range condorMountains {
		shift := LayerOffset(l.worldX, m.parallax, w)
		for x := -w; x < 2*w; x += 4 {
			px := int(math.Floor(x - shift))
			py := int(math.Floor(m.base + math.Sin((x+l.worldX*0.1)*0.03)*m.amp))
			c.FillRect(px, py, 4, CondorHeight-py, m.color)
		}
	}

	groundShift := LayerOffset(l.worldX, 1, w)
	for x := -w; x < 2*w; x += 8 {
		px := int(math.Floor(x - groundShift))
		c.FillRect(px, condorGroundY, 8, 4, condorGroundDark)
		c.FillRect(px, condorGroundY+4, 8, 4, condorGroundLight)
	}

	cx := int(w * 0.35)
	cy := int(math.Floor(64 + math.Sin(l.t*4)*condorBob))
	l.sprite.Draw(c, l.Frame(), cx, cy, condorSpriteScale)

	if l.Label != "" {
		bw := labelBoxWidth(l.Label)
		bx := (CondorWidth - bw) / 2
		drawLabelBox(c, l.Label, bx, CondorHeight-18, bw, 12, 3, condorAccent)
	}
	if l.Scanlines {
		c.Scanlines(condorScanAlpha)
	}
}

// Attach wires the loader into s.
func (l *CondorLoader) Attach(s *Surface) (detach func()) { return attachPixel(s, l) }
