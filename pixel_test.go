package islet

import (
	"image/color"
	"testing"
)

var (
	transparent = color.RGBA{}
	opaqueRed   = color.RGBA{255, 0, 0, 255}
	testRed     = Color{1, 0, 0, 1}
)

func TestFillRectClips(t *testing.T) {
	c := NewPixelCanvas(8, 8)
	c.FillRect(-2, -2, 4, 4, testRed)
	if c.At(0, 0) != opaqueRed || c.At(1, 1) != opaqueRed {
		t.Error("visible part of the rectangle not filled")
	}
	if c.At(2, 2) != transparent {
		t.Errorf("pixel outside the rectangle = %v", c.At(2, 2))
	}
	c.FillRect(20, 20, 4, 4, testRed)
	c.FillRect(0, 0, 0, 5, testRed)
}

func TestFillRectBlends(t *testing.T) {
	c := NewPixelCanvas(2, 2)
	c.Clear(ColorBlack)
	c.FillRect(0, 0, 1, 1, Color{1, 1, 1, 0.5})
	if got, want := c.At(0, 0), (color.RGBA{128, 128, 128, 255}); got != want {
		t.Errorf("blended = %v, want %v", got, want)
	}
	if got := c.At(1, 1); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("untouched = %v", got)
	}
}

func TestClearPremultiplies(t *testing.T) {
	c := NewPixelCanvas(1, 1)
	c.Clear(Color{1, 0.5, 0, 0.5})
	if got, want := c.At(0, 0), (color.RGBA{128, 64, 0, 128}); got != want {
		t.Errorf("Clear = %v, want %v", got, want)
	}
}

func TestStrokeRect(t *testing.T) {
	c := NewPixelCanvas(6, 6)
	c.StrokeRect(0, 0, 4, 3, testRed)
	for _, p := range [][2]int{{0, 0}, {3, 0}, {0, 2}, {3, 2}, {0, 1}, {3, 1}, {1, 0}, {2, 2}} {
		if c.At(p[0], p[1]) != opaqueRed {
			t.Errorf("outline pixel %v not set", p)
		}
	}
	if c.At(1, 1) != transparent || c.At(4, 0) != transparent {
		t.Error("stroke filled the inside or overran")
	}
}

func TestFillCircleUsesPixelCenters(t *testing.T) {
	c := NewPixelCanvas(10, 10)
	c.FillCircle(4, 4, 2, testRed)
	if c.At(4, 4) != opaqueRed || c.At(4, 2) != opaqueRed {
		t.Error("pixels inside the circle not filled")
	}
	if c.At(4, 1) != transparent || c.At(0, 0) != transparent {
		t.Error("pixels outside the circle filled")
	}
	c.FillCircle(1, 1, 0, testRed)
	if c.At(1, 1) != transparent {
		t.Error("zero radius drew")
	}
}

func TestScanlines(t *testing.T) {
	c := NewPixelCanvas(4, 4)
	c.Clear(ColorWhite)
	c.Scanlines(1)
	if c.At(0, 0) != (color.RGBA{0, 0, 0, 255}) || c.At(0, 2) != (color.RGBA{0, 0, 0, 255}) {
		t.Error("even rows not darkened")
	}
	if c.At(0, 1) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("odd row darkened")
	}
}

func TestIntScale(t *testing.T) {
	tests := []struct {
		sw, sh, lw, lh int
		zoom           float64
		min            int
		want           int
	}{
		{640, 480, 240, 120, 1, 1, 2},
		{640, 480, 240, 120, 2, 1, 5},
		{100, 100, 240, 120, 1, 1, 1},
		{100, 100, 240, 120, 1, 3, 3},
		{640, 480, 0, 120, 1, 2, 2},
		{640, 480, 240, 120, 0, 0, 1},
	}
	for _, tt := range tests {
		if got := IntScale(tt.sw, tt.sh, tt.lw, tt.lh, tt.zoom, tt.min); got != tt.want {
			t.Errorf("IntScale(%d, %d, %d, %d, %v, %d) = %d, want %d",
				tt.sw, tt.sh, tt.lw, tt.lh, tt.zoom, tt.min, got, tt.want)
		}
	}
}

func TestResizeCenters(t *testing.T) {
	c := NewPixelCanvas(CondorWidth, CondorHeight)
	c.Resize(640, 480)
	if c.Scale() != 2 {
		t.Fatalf("Scale = %d, want 2", c.Scale())
	}
	if x, y := c.Offset(); x != 80 || y != 120 {
		t.Errorf("Offset = (%d, %d), want (80, 120)", x, y)
	}
	c.MinScale = 4
	c.Resize(640, 480)
	if x, _ := c.Offset(); x != -160 {
		t.Errorf("overflowing offset = %d, want -160", x)
	}
}

func TestUpscaled(t *testing.T) {
	c := NewPixelCanvas(3, 2)
	c.FillRect(0, 0, 1, 1, testRed)
	c.Resize(6, 4)
	out := c.Upscaled()
	if b := out.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
		t.Fatalf("bounds = %v", b)
	}
	if out.RGBAAt(1, 1) != opaqueRed || out.RGBAAt(2, 2) != transparent {
		t.Error("nearest-neighbor scaling lost the pixel block")
	}
}

func TestFillRoundRectCorners(t *testing.T) {
	c := NewPixelCanvas(10, 10)
	c.FillRoundRect(0, 0, 10, 10, 3, testRed)
	if c.At(0, 0) != transparent || c.At(9, 9) != transparent {
		t.Error("corner pixel filled")
	}
	if c.At(5, 0) != opaqueRed || c.At(5, 5) != opaqueRed || c.At(0, 5) != opaqueRed {
		t.Error("edge or center not filled")
	}
}

func TestLayerOffset(t *testing.T) {
	assertNear(t, "negative wraps", LayerOffset(-5, 1, 100), 95)
	assertNear(t, "factor", LayerOffset(250, 0.5, 100), 25)
	assertNear(t, "no period", LayerOffset(250, 1, 0), 0)
}

func TestGlyphFallback(t *testing.T) {
	lower, ok := Glyph('a')
	upper, _ := Glyph('A')
	if !ok || lower != upper {
		t.Error("lower-case did not map to the upper-case glyph")
	}
	g, ok := Glyph('€')
	q, _ := Glyph('?')
	if ok || g != q {
		t.Error("unmapped rune should fall back to '?'")
	}
}

func TestMeasureText(t *testing.T) {
	if got := MeasureText("LOADING€"); got != 32 {
		t.Errorf("MeasureText = %d, want 32", got)
	}
	if got := MeasureText("AB\nC"); got != 8 {
		t.Errorf("multiline = %d, want 8", got)
	}
	if MeasureText("") != 0 {
		t.Error("empty text has width")
	}
}

func TestDrawText(t *testing.T) {
	c := NewPixelCanvas(16, 16)
	x, y := DrawText(c, "I", 2, 1, opaqueRed)
	if x != 2+GlyphAdvance || y != 1 {
		t.Errorf("cursor = (%d, %d)", x, y)
	}
	for col := 0; col < 3; col++ {
		if c.At(2+col, 1) != opaqueRed {
			t.Errorf("top bar pixel %d not set", col)
		}
	}
	if c.At(2, 2) != transparent || c.At(3, 2) != opaqueRed {
		t.Error("stem drawn in the wrong column")
	}
	_, y = DrawText(c, "A\nB", 0, 0, opaqueRed)
	if y != LineAdvance {
		t.Errorf("newline cursor y = %d", y)
	}
}

func TestDrawTinyText(t *testing.T) {
	c := NewPixelCanvas(40, 10)
	if w := DrawTinyText(c, "hi", 0, 6, opaqueRed); w <= 0 {
		t.Errorf("width = %d", w)
	}
	lit := 0
	for y := 0; y < 10; y++ {
		for x := 0; x < 40; x++ {
			if c.At(x, y).A != 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("nothing drawn")
	}
}

func TestCondorLoaderClock(t *testing.T) {
	l := NewCondorLoader(DefaultCondorLoaderOptions())
	if l.Frame() != 0 || l.WorldX() != 0 {
		t.Fatal("loader did not start at rest")
	}
	l.Update(0.5)
	assertNear(t, "worldX", l.WorldX(), 0.5*condorWorldSpeed*0.8)
	if l.Frame() != 0 {
		t.Errorf("Frame after 4 flaps = %d", l.Frame())
	}
	l.Update(0.125)
	if l.Frame() != 1 {
		t.Errorf("Frame after 5 flaps = %d", l.Frame())
	}
	l.Update(-1)
	l.Update(0)
	assertNear(t, "worldX after bad dt", l.WorldX(), 0.625*condorWorldSpeed*0.8)
}

func TestLabelBoxFitsText(t *testing.T) {
	if got := labelBoxWidth("Loading..."); got != 10*GlyphAdvance+10 {
		t.Errorf("labelBoxWidth = %d", got)
	}
	o := DefaultCondorLoaderOptions()
	o.Scanlines = false
	l := NewCondorLoader(o)
	l.Render()
	c := l.Canvas()
	bw := labelBoxWidth(o.Label)
	bx, y := (CondorWidth-bw)/2, CondorHeight-18
	accent := condorAccent.RGBA8()
	if c.At(bx, y) != accent || c.At(bx+bw-1, y) != accent {
		t.Error("label box border not at the measured width")
	}
	if c.At(bx+bw, y) == accent {
		t.Error("label box wider than its text")
	}
}

func TestCondorLoaderDeterministic(t *testing.T) {
	a := NewCondorLoader(DefaultCondorLoaderOptions())
	b := NewCondorLoader(DefaultCondorLoaderOptions())
	for i := 0; i < 30; i++ {
		a.Update(1.0 / 60)
		b.Update(1.0 / 60)
	}
	a.Render()
	b.Render()
	pa, pb := a.Canvas().Image().Pix, b.Canvas().Image().Pix
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("same seed rendered differently at byte %d", i)
		}
	}
	if a.Canvas().Width() != CondorWidth || a.Canvas().Height() != CondorHeight {
		t.Error("wrong logical size")
	}
}

func TestPuppyLoaderWag(t *testing.T) {
	l := NewPuppyLoader(DefaultPuppyLoaderOptions())
	if l.Frame() != 0 {
		t.Fatal("puppy did not start on frame 0")
	}
	l.Update(0.17)
	if l.Frame() != 1 {
		t.Errorf("Frame after ten 60 Hz frames = %d", l.Frame())
	}
	l.Update(0.17)
	if l.Frame() != 0 {
		t.Errorf("Frame after twenty 60 Hz frames = %d", l.Frame())
	}
	l.Render()
	if l.Canvas().At(0, 0) != transparent {
		t.Error("default background should stay transparent")
	}
}

func TestBlinkScale(t *testing.T) {
	const period = 2.6
	assertNear(t, "start", blinkScale(0, period, 0), 1)
	if got := blinkScale(0.04*period, period, 0); !approxEqual(got, 0.1, 1e-6) {
		t.Errorf("closed = %v, want 0.1", got)
	}
	assertNear(t, "open", blinkScale(period/2, period, 0), 1)
	// Before its delay the blink clock wraps back into the previous period.
	assertNear(t, "delayed", blinkScale(0.1, period, 0.2), 1)
}

func TestThinkPhase(t *testing.T) {
	assertNear(t, "start", thinkPhase(0, 1.2, 0), 0)
	assertNear(t, "quarter", thinkPhase(0.3, 1.2, 0), 0.5)
	assertNear(t, "middle", thinkPhase(0.6, 1.2, 0), 1)
	assertNear(t, "delay", thinkPhase(0.8, 1.2, 0.2), 1)
}

func TestNerdLoaderFringe(t *testing.T) {
	l := NewNerdLoader(DefaultNerdLoaderOptions())
	top, bottom := l.fringe[32][0], l.fringe[32][1]
	if !approxEqual(top, 8.5, 0.5) || !approxEqual(bottom, 10.5, 0.5) {
		t.Errorf("fringe at the middle column = [%v, %v]", top, bottom)
	}
	if l.Canvas().Width() != NerdWidth || l.Canvas().Height() != NerdHeight {
		t.Error("wrong logical size")
	}
}
