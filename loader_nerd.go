package islet

import "math"

// Logical size of the nerd loader: the 64×64 face plus a label row.
const (
	NerdWidth  = 64
	NerdHeight = 72
)

var (
	nerdSkin    = Hex("#ffe7c7")
	nerdOutline = Hex("#0b0f16")
)

// NerdLoaderOptions configures NewNerdLoader.
type NerdLoaderOptions struct {
	Label      string
	Accent     Color
	Text       Color
	Background Color
	Zoom       float64
}

// DefaultNerdLoaderOptions returns the bespectacled face with cyan glasses.
func DefaultNerdLoaderOptions() NerdLoaderOptions {
	return NerdLoaderOptions{
		Label:  "Loading...",
		Accent: Hex("#49d1ff"),
		Text:   Hex("#e5e7eb"),
		Zoom:   1,
	}
}

// blinkScale returns the vertical eye scale of a blink that closes to 0.1
// during the first 8% of each period, starting delay seconds in.
func blinkScale(t, period, delay float64) float64 {
	p := math.Mod(t-delay, period)
	if p < 0 {
		p += period
	}
	p /= period
	switch {
	case p < 0.04:
		return 1 - 0.9*(p/0.04)
	case p < 0.08:
		return 0.1 + 0.9*((p-0.04)/0.04)
	}
	return 1
}

// thinkPhase returns 0 at the ends and 1 at the middle of a period.
func thinkPhase(t, period, delay float64) float64 {
	p := math.Mod(t-delay, period)
	if p < 0 {
		p += period
	}
	return 1 - math.Abs(2*p/period-1)
}

func cubicAt(p0, p1, p2, p3, t float64) float64 {
	u := 1 - t
	return u*u*u*p0 + 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t*p3
}

// NerdLoader is a face with glasses that blinks, bobs its mouth and thinks
// in pulsing dots.
type NerdLoader struct {
	NerdLoaderOptions

	canvas *PixelCanvas
	fringe [NerdWidth][2]float64 // per column: top and bottom of the hair
	t      float64
}

// NewNerdLoader builds the loader.
func NewNerdLoader(o NerdLoaderOptions) *NerdLoader {
	l := &NerdLoader{NerdLoaderOptions: o, canvas: NewPixelCanvas(NerdWidth, NerdHeight)}
	if o.Zoom > 0 {
		l.canvas.Zoom = o.Zoom
	}
	l.traceFringe()
	l.Render()
	return l
}

// traceFringe samples the two curves bounding the hair band.
func (l *NerdLoader) traceFringe() {
	for x := range l.fringe {
		l.fringe[x] = [2]float64{math.Inf(1), math.Inf(-1)}
	}
	const steps = 256
	for i := 0; i <= steps; i++ {
		t := float64(i) / steps
		top := [2]float64{cubicAt(8, 22, 42, 56, t), cubicAt(16, 6, 6, 16, t)}
		bot := [2]float64{cubicAt(8, 20, 44, 56, t), cubicAt(18, 8, 8, 18, t)}
		for _, p := range [2][2]float64{top, bot} {
			x := int(p[0])
			if x < 0 || x >= NerdWidth {
				continue
			}
			l.fringe[x][0] = math.Min(l.fringe[x][0], p[1])
			l.fringe[x][1] = math.Max(l.fringe[x][1], p[1])
		}
	}
}

// Canvas returns the logical framebuffer.
func (l *NerdLoader) Canvas() *PixelCanvas { return l.canvas }

// Update advances the animation clock.
func (l *NerdLoader) Update(dt float64) {
	if dt > 0 {
		l.t += dt
	}
}

// Render paints the current frame.
func (l *NerdLoader) Render() {
	c := l.canvas
	c.Clear(l.Background)

	c.FillRoundRect(7, 9, 50, 46, 11, nerdOutline)
	c.FillRoundRect(9, 11, 46, 42, 9, nerdSkin)
	for x, span := range l.fringe {
		if span[0] > span[1] {
			continue
		}
		y0, y1 := int(math.Floor(span[0])), int(math.Ceil(span[1]))
		c.FillRect(x, y0, 1, y1-y0, nerdOutline)
	}

	c.StrokeRect(16, 28, 12, 10, l.Accent)
	c.StrokeRect(17, 29, 10, 8, l.Accent)
	c.StrokeRect(36, 28, 12, 10, l.Accent)
	c.StrokeRect(37, 29, 10, 8, l.Accent)
	c.FillRect(28, 31, 8, 2, l.Accent)

	l.drawEye(20, blinkScale(l.t, 2.6, 0))
	l.drawEye(40, blinkScale(l.t, 2.8, 0.2))

	bob := int(math.Round(0.5 - 0.5*math.Cos(2*math.Pi*l.t/2.2)))
	c.FillRect(29, 42-bob, 6, 2, nerdOutline)

	c.FillCircle(49, 14, 4.5, l.Accent.WithAlpha(0.15))
	c.FillCircle(52, 9, 6.5, l.Accent.WithAlpha(0.12))
	for i, x := range [3]float64{52, 54.5, 57} {
		k := thinkPhase(l.t, 1.2, float64(i)*0.2)
		c.FillCircle(x, 9-2*k, 1.1, l.Accent.WithAlpha(0.2+0.8*k))
	}

	if l.Label != "" {
		x := (NerdWidth - MeasureText(l.Label) + 1) / 2
		DrawText(c, l.Label, x, NerdHeight-GlyphHeight-1, l.Text.WithAlpha(0.8).RGBA8())
	}
}

// drawEye draws a 3×3 eye at column x squashed vertically to scale.
func (l *NerdLoader) drawEye(x int, scale float64) {
	h := max(1, int(math.Round(3*scale)))
	l.canvas.FillRect(x, 34-h/2, 3, h, nerdOutline)
}

// Attach wires the loader into s.
func (l *NerdLoader) Attach(s *Surface) (detach func()) { return attachPixel(s, l) }
