package islet

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Toggle layout in surface pixels.
const (
	toggleMargin   = 12
	togglePadX     = 12
	togglePadY     = 8
	toggleGap      = 8
	toggleIcon     = 16
	togglePillW    = 48
	togglePillH    = 24
	toggleKnob     = 18
	toggleKnobDay  = 26
	toggleKnobNite = 3
	toggleSlide    = 0.2 // seconds
)

var (
	togglePanelColor = color.RGBA{0, 0, 0, 89}
	togglePillDay    = Hex("#38bdf8")
	togglePillNight  = Hex("#334155")
	toggleSunColor   = Hex("#ffd166")
	toggleMoonColor  = Hex("#cbd5e1")
)

// DayNightToggle is the sun/moon switch drawn in the top-right corner of the
// island surface. It owns only its hit region and knob animation; the scene
// decides what a click means.
type DayNightToggle struct {
	on    bool
	knobX float64
	slide *gween.Tween

	surfaceW int
}

// NewDayNightToggle returns a toggle showing state on (day).
func NewDayNightToggle(on bool) *DayNightToggle {
	t := &DayNightToggle{on: on}
	t.knobX = t.knobTarget()
	return t
}

func (t *DayNightToggle) knobTarget() float64 {
	if t.on {
		return toggleKnobDay
	}
	return toggleKnobNite
}

// On reports whether the toggle shows day.
func (t *DayNightToggle) On() bool { return t.on }

// Resize records the surface width so the toggle stays right-aligned.
func (t *DayNightToggle) Resize(w, h int) { t.surfaceW = w }

// Bounds returns the panel rectangle in surface pixels.
func (t *DayNightToggle) Bounds() Rect {
	w := float64(2*togglePadX + 2*toggleIcon + 2*toggleGap + togglePillW)
	h := float64(2*togglePadY + togglePillH)
	return Rect{X: float64(t.surfaceW) - toggleMargin - w, Y: toggleMargin, Width: w, Height: h}
}

// Contains reports whether (x, y) hits the panel.
func (t *DayNightToggle) Contains(x, y float64) bool {
	b := t.Bounds()
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Set shows state on, sliding the knob.
func (t *DayNightToggle) Set(on bool) {
	if on == t.on {
		return
	}
	t.on = on
	t.slide = gween.New(float32(t.knobX), float32(t.knobTarget()), toggleSlide, ease.InOutQuad)
}

// Update advances the knob slide.
func (t *DayNightToggle) Update(dt float64) {
	if t.slide == nil {
		return
	}
	v, done := t.slide.Update(float32(dt))
	t.knobX = float64(v)
	if done {
		t.slide = nil
	}
}

// Draw paints the panel, icons, pill and knob.
func (t *DayNightToggle) Draw(screen *ebiten.Image) {
	b := t.Bounds()
	fillRoundRect(screen, b.X, b.Y, b.Width, b.Height, 12, togglePanelColor)

	cy := float32(b.Y + b.Height/2)
	moonX := float32(b.X + togglePadX + toggleIcon/2)
	vector.DrawFilledCircle(screen, moonX, cy, toggleIcon/2-2, toggleMoonColor.toRGBA(), true)

	pillX := b.X + togglePadX + toggleIcon + toggleGap
	pillY := b.Y + togglePadY
	pill := togglePillNight
	if t.on {
		pill = togglePillDay
	}
	fillRoundRect(screen, pillX, pillY, togglePillW, togglePillH, togglePillH/2, pill.toRGBA())

	r := float32(toggleKnob) / 2
	vector.DrawFilledCircle(screen, float32(pillX+t.knobX)+r, float32(pillY+3)+r, r, ColorWhite.toRGBA(), true)

	sunX := float32(pillX + togglePillW + toggleGap + toggleIcon/2)
	vector.DrawFilledCircle(screen, sunX, cy, toggleIcon/2-2, toggleSunColor.toRGBA(), true)
}

// fillRoundRect fills a rectangle with corner radius r.
func fillRoundRect(dst *ebiten.Image, x, y, w, h, r float64, c color.Color) {
	r = min(r, w/2, h/2)
	fx, fy, fw, fh, fr := float32(x), float32(y), float32(w), float32(h), float32(r)
	var p vector.Path
	p.MoveTo(fx+fr, fy)
	p.ArcTo(fx+fw, fy, fx+fw, fy+fh, fr)
	p.ArcTo(fx+fw, fy+fh, fx, fy+fh, fr)
	p.ArcTo(fx, fy+fh, fx, fy, fr)
	p.ArcTo(fx, fy, fx+fw, fy, fr)
	p.Close()

	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	cr, cg, cb, ca := c.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 0.5, 0.5
		vs[i].ColorR = float32(cr) / 0xffff
		vs[i].ColorG = float32(cg) / 0xffff
		vs[i].ColorB = float32(cb) / 0xffff
		vs[i].ColorA = float32(ca) / 0xffff
	}
	dst.DrawTriangles(vs, is, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}
