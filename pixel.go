package islet

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

// PixelCanvas is a fixed logical-resolution RGBA framebuffer for the retro
// loaders. Drawing happens in logical pixels; Present scales the buffer to
// the surface by a whole number so no pixel is ever split across a seam.
//
// PixelCanvas implements tinygo's drivers.Displayer, so tinyfont can draw
// onto it directly.
type PixelCanvas struct {
	// Zoom multiplies the fitted scale before it is floored.
	Zoom float64
	// MinScale is the smallest integer scale Resize picks.
	MinScale int

	buf   *image.RGBA
	scale int
	offX  int
	offY  int

	img *ebiten.Image
	op  ebiten.DrawImageOptions
}

// NewPixelCanvas returns a transparent w×h canvas. Sizes below 1 are raised
// to 1.
func NewPixelCanvas(w, h int) *PixelCanvas {
	w, h = max(1, w), max(1, h)
	return &PixelCanvas{
		Zoom:     1,
		MinScale: 1,
		buf:      image.NewRGBA(image.Rect(0, 0, w, h)),
		scale:    1,
	}
}

// Width returns the logical width.
func (c *PixelCanvas) Width() int { return c.buf.Rect.Dx() }

// Height returns the logical height.
func (c *PixelCanvas) Height() int { return c.buf.Rect.Dy() }

// Size implements drivers.Displayer.
func (c *PixelCanvas) Size() (x, y int16) {
	return int16(c.Width()), int16(c.Height())
}

// SetPixel implements drivers.Displayer. Out-of-range pixels are ignored and
// translucent colors blend over the existing pixel.
func (c *PixelCanvas) SetPixel(x, y int16, col color.RGBA) {
	c.blend(int(x), int(y), col)
}

// Display implements drivers.Displayer. The canvas is presented by Present,
// so there is nothing to flush.
func (c *PixelCanvas) Display() error { return nil }

// At returns the pixel at (x, y), or transparent outside the canvas.
func (c *PixelCanvas) At(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(c.buf.Rect)) {
		return color.RGBA{}
	}
	return c.buf.RGBAAt(x, y)
}

// Image returns the backing buffer. It is reused across frames.
func (c *PixelCanvas) Image() *image.RGBA { return c.buf }

func (c *PixelCanvas) blend(x, y int, col color.RGBA) {
	if !(image.Point{x, y}.In(c.buf.Rect)) || col.A == 0 {
		return
	}
	if col.A == 255 {
		c.buf.SetRGBA(x, y, col)
		return
	}
	// col is straight alpha; the buffer holds premultiplied values.
	dst := c.buf.RGBAAt(x, y)
	a := uint32(col.A)
	ia := 255 - a
	c.buf.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(col.R)*a + uint32(dst.R)*ia) / 255),
		G: uint8((uint32(col.G)*a + uint32(dst.G)*ia) / 255),
		B: uint8((uint32(col.B)*a + uint32(dst.B)*ia) / 255),
		A: uint8(a + uint32(dst.A)*ia/255),
	})
}

// Clear fills the whole canvas with col, replacing what was there.
func (c *PixelCanvas) Clear(col Color) {
	p := col.toRGBA()
	pix := c.buf.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = p.R, p.G, p.B, p.A
	}
}

// FillRect fills the w×h rectangle at (x, y), clipped to the canvas.
func (c *PixelCanvas) FillRect(x, y, w, h int, col Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(c.buf.Rect)
	if r.Empty() {
		return
	}
	rgba := col.RGBA8()
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			c.blend(px, py, rgba)
		}
	}
}

// StrokeRect draws a one-pixel outline of the w×h rectangle at (x, y).
func (c *PixelCanvas) StrokeRect(x, y, w, h int, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.FillRect(x, y, w, 1, col)
	c.FillRect(x, y+h-1, w, 1, col)
	c.FillRect(x, y+1, 1, h-2, col)
	c.FillRect(x+w-1, y+1, 1, h-2, col)
}

// FillCircle fills every pixel whose center lies within r of (cx, cy).
func (c *PixelCanvas) FillCircle(cx, cy, r float64, col Color) {
	if !(r > 0) {
		return
	}
	rgba := col.RGBA8()
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) <= r {
				c.blend(x, y, rgba)
			}
		}
	}
}

// Scanlines darkens every other logical row with black at alpha.
func (c *PixelCanvas) Scanlines(alpha float64) {
	col := Color{0, 0, 0, Clamp(alpha, 0, 1)}
	for y := 0; y < c.Height(); y += 2 {
		c.FillRect(0, y, c.Width(), 1, col)
	}
}

// IntScale picks the integer scale that fits a logicalW×logicalH canvas
// into a surfaceW×surfaceH surface, multiplied by zoom and never below
// minScale.
func IntScale(surfaceW, surfaceH, logicalW, logicalH int, zoom float64, minScale int) int {
	if logicalW <= 0 || logicalH <= 0 || !(zoom > 0) {
		return max(1, minScale)
	}
	fit := math.Min(float64(surfaceW)/float64(logicalW), float64(surfaceH)/float64(logicalH))
	return max(1, minScale, int(math.Floor(fit*zoom)))
}

// Resize recomputes the presentation scale and centering offsets for a
// surface of w×h pixels.
func (c *PixelCanvas) Resize(w, h int) {
	c.scale = IntScale(w, h, c.Width(), c.Height(), c.Zoom, c.MinScale)
	c.offX = (w - c.Width()*c.scale) / 2
	c.offY = (h - c.Height()*c.scale) / 2
}

// Scale returns the current presentation scale.
func (c *PixelCanvas) Scale() int { return c.scale }

// Offset returns where the scaled canvas' top-left corner lands on the
// surface. It may be negative when MinScale forces overflow.
func (c *PixelCanvas) Offset() (x, y int) { return c.offX, c.offY }

// Present uploads the buffer and draws it onto dst at the integer scale with
// nearest-neighbor filtering.
func (c *PixelCanvas) Present(dst *ebiten.Image) {
	c.DrawAt(dst, float64(c.offX), float64(c.offY), float64(c.scale), 1)
}

// DrawAt uploads the buffer and draws it onto dst with its top-left corner
// at (x, y), magnified by scale and faded by alpha.
func (c *PixelCanvas) DrawAt(dst *ebiten.Image, x, y, scale float64, alpha float32) {
	if c.img == nil {
		c.img = ebiten.NewImage(c.Width(), c.Height())
	}
	c.img.WritePixels(c.buf.Pix)
	c.op.GeoM.Reset()
	c.op.GeoM.Scale(scale, scale)
	c.op.GeoM.Translate(x, y)
	c.op.ColorScale.Reset()
	c.op.ColorScale.ScaleAlpha(alpha)
	c.op.Filter = ebiten.FilterNearest
	dst.DrawImage(c.img, &c.op)
}

// Upscaled returns a copy of the canvas scaled by the current integer scale,
// for screenshots and headless output.
func (c *PixelCanvas) Upscaled() *image.RGBA {
	s := max(1, c.scale)
	out := image.NewRGBA(image.Rect(0, 0, c.Width()*s, c.Height()*s))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), c.buf, c.buf.Bounds(), xdraw.Src, nil)
	return out
}

// Dispose releases the GPU image.
func (c *PixelCanvas) Dispose() {
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
}

// FillRoundRect fills the w×h rectangle at (x, y) with corners of radius r.
func (c *PixelCanvas) FillRoundRect(x, y, w, h int, r float64, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r = Clamp(r, 0, float64(min(w, h))/2)
	rgba := col.RGBA8()
	x0, y0 := float64(x), float64(y)
	x1, y1 := x0+float64(w), y0+float64(h)
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			fx, fy := float64(px)+0.5, float64(py)+0.5
			// Distance into the nearest corner square, if any.
			dx := math.Max(0, math.Max(x0+r-fx, fx-(x1-r)))
			dy := math.Max(0, math.Max(y0+r-fy, fy-(y1-r)))
			if dx*dx+dy*dy <= r*r {
				c.blend(px, py, rgba)
			}
		}
	}
}

// pixelScene is a canvas animation: Update advances its clock, Render paints
// the current frame into Canvas.
type pixelScene interface {
	Update(dt float64)
	Render()
	Canvas() *PixelCanvas
}

// attachPixel wires a canvas animation into s: its clock runs in the
// simulate phase, painting in the compose phase, and the surface presents
// the canvas at an integer scale.
func attachPixel(s *Surface, p pixelScene) (detach func()) {
	c := p.Canvas()
	sim := s.Scheduler.Add(PhaseSimulate, p.Update)
	comp := s.Scheduler.Add(PhaseCompose, func(float64) { p.Render() })
	resize := s.OnResize(c.Resize)
	s.SetDrawFunc(c.Present)
	return func() {
		sim.Remove()
		comp.Remove()
		resize.Remove()
		s.SetDrawFunc(nil)
		c.Dispose()
	}
}

var (
	labelBoxColor  = Hex("#0f172a")
	labelTextColor = Hex("#e5e7eb")
)

// labelBoxWidth is the width of a label box that fits label with 5 pixels
// of padding on each side.
func labelBoxWidth(label string) int { return MeasureText(label) + 10 }

// drawLabelBox paints a dark box with a one-pixel border and the upper-cased
// label inset by (5, pad).
func drawLabelBox(c *PixelCanvas, label string, x, y, w, h, pad int, border Color) {
	c.FillRect(x, y, w, h, labelBoxColor)
	c.StrokeRect(x, y, w, h, border)
	DrawText(c, label, x+5, y+pad, labelTextColor.RGBA8())
}

// LayerOffset returns the scroll of a parallax layer: worldX scaled by the
// layer's factor, wrapped into [0, period).
func LayerOffset(worldX, factor, period float64) float64 {
	if !(period > 0) {
		return 0
	}
	o := math.Mod(worldX*factor, period)
	if o < 0 {
		o += period
	}
	return o
}
