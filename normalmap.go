package islet

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is an immutable RGBA pixel grid produced by a synthesis routine.
// Regenerate a new Texture rather than editing one.
type Texture struct {
	width, height int
	pix           []byte // straight alpha, row-major RGBA

	img *ebiten.Image // created on first draw
}

func newTexture(w, h int) *Texture {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Texture{width: w, height: h, pix: make([]byte, 4*w*h)}
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Pix returns the raw RGBA bytes. The returned slice MUST NOT be mutated.
func (t *Texture) Pix() []byte { return t.pix }

// At returns the pixel at (x, y), wrapping out-of-range coordinates.
func (t *Texture) At(x, y int) color.RGBA {
	x = wrapIndex(x, t.width)
	y = wrapIndex(y, t.height)
	i := 4 * (y*t.width + x)
	return color.RGBA{t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3]}
}

// RGBA returns a copy of the texture as an image.RGBA (premultiplied).
func (t *Texture) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	for i := 0; i < len(t.pix); i += 4 {
		a := uint32(t.pix[i+3])
		img.Pix[i] = uint8(uint32(t.pix[i]) * a / 255)
		img.Pix[i+1] = uint8(uint32(t.pix[i+1]) * a / 255)
		img.Pix[i+2] = uint8(uint32(t.pix[i+2]) * a / 255)
		img.Pix[i+3] = uint8(a)
	}
	return img
}

// Image returns the GPU image for this texture, uploading it on first use.
func (t *Texture) Image() *ebiten.Image {
	if t.img == nil {
		t.img = ebiten.NewImageFromImage(t.RGBA())
	}
	return t.img
}

// Dispose releases the GPU image. The pixel data stays valid.
func (t *Texture) Dispose() {
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
}

func (t *Texture) set(x, y int, r, g, b, a uint8) {
	i := 4 * (y*t.width + x)
	t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3] = r, g, b, a
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// HeightField is the tileable water height function sampled on a Res×Res
// grid. Every term has an integer number of periods across the grid, so
// h(x, y) == h(x+Res, y) == h(x, y+Res).
type HeightField struct {
	Res   int
	Tiles int
}

func (f HeightField) normalized() HeightField {
	if f.Res < 4 {
		f.Res = 4
	}
	if f.Tiles < 1 {
		f.Tiles = 1
	}
	return f
}

// Height evaluates the field at grid coordinates (x, y).
func (f HeightField) Height(x, y float64) float64 {
	f = f.normalized()
	a := x / float64(f.Res) * 2 * math.Pi
	b := y / float64(f.Res) * 2 * math.Pi
	k := float64(f.Tiles)
	half := float64(max(1, f.Tiles/2))
	cross := math.Round(1.3 * k)
	return 0.5*math.Sin(k*a) +
		0.35*math.Sin(k*b+math.Sin(half*a)) +
		0.15*math.Sin(half*a+cross*b)
}

// Gradient returns the central-difference gradient at integer grid point
// (x, y), wrapping neighbor indices modulo Res.
func (f HeightField) Gradient(x, y int) (dx, dy float64) {
	f = f.normalized()
	xl, xr := wrapIndex(x-1, f.Res), wrapIndex(x+1, f.Res)
	yu, yd := wrapIndex(y-1, f.Res), wrapIndex(y+1, f.Res)
	yy, xx := float64(wrapIndex(y, f.Res)), float64(wrapIndex(x, f.Res))
	dx = (f.Height(float64(xr), yy) - f.Height(float64(xl), yy)) / 2
	dy = (f.Height(xx, float64(yd)) - f.Height(xx, float64(yu))) / 2
	return dx, dy
}

// WaterNormalMap synthesizes a tileable normal map from the height field:
// n = normalize(-dh/dx, -dh/dy, 1), packed as (n*0.5+0.5)*255.
func WaterNormalMap(res, tiles int) *Texture {
	f := HeightField{Res: res, Tiles: tiles}.normalized()
	t := newTexture(f.Res, f.Res)
	for y := 0; y < f.Res; y++ {
		for x := 0; x < f.Res; x++ {
			dx, dy := f.Gradient(x, y)
			r, g, b := packNormal(-dx, -dy, 1)
			t.set(x, y, r, g, b, 255)
		}
	}
	return t
}

// lagoonNormal is the lagoon's analytic ripple normal at texture angles
// (u, v). The inner sine runs at whole frequency so the map wraps in u.
func lagoonNormal(u, v float64) (nx, ny, nz float64) {
	nx = math.Sin(u) * 0.12
	ny = math.Sin(v+math.Sin(u)) * 0.10
	nz = math.Sqrt(math.Max(0, 1-nx*nx-ny*ny))
	return nx, ny, nz
}

// LagoonNormalMap synthesizes the lagoon's normal texture. It tiles in both
// directions; repetition comes from the material's tile count.
func LagoonNormalMap(size int) *Texture {
	if size < 4 {
		size = 4
	}
	t := newTexture(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u := float64(x) / float64(size) * 2 * math.Pi
			v := float64(y) / float64(size) * 2 * math.Pi
			r, g, b := packNormal(lagoonNormal(u, v))
			t.set(x, y, r, g, b, 255)
		}
	}
	return t
}

func packNormal(x, y, z float64) (r, g, b uint8) {
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		x, y, z, l = 0, 0, 1, 1
	}
	pack := func(c float64) uint8 {
		return uint8(math.Round(Clamp((c/l*0.5+0.5)*255, 0, 255)))
	}
	return pack(x), pack(y), pack(z)
}

// unpackNormal is the inverse of packNormal, up to quantization.
func unpackNormal(c color.RGBA) Vec3 {
	n := Vec3{
		float64(c.R)/255*2 - 1,
		float64(c.G)/255*2 - 1,
		float64(c.B)/255*2 - 1,
	}
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return Vec3{0, 0, 1}
}

// ShadeNormalMap bakes a normal texture against a light direction (in
// tangent space, z up) into a grayscale modulation texture:
// lum = base + gain*dot(n, light).
func ShadeNormalMap(nm *Texture, light Vec3, base, gain float64) *Texture {
	if l := light.Len(); l > 0 {
		light = light.Mul(1 / l)
	} else {
		light = Vec3{0, 0, 1}
	}
	t := newTexture(nm.width, nm.height)
	for y := 0; y < nm.height; y++ {
		for x := 0; x < nm.width; x++ {
			n := unpackNormal(nm.At(x, y))
			v := to8(base + gain*n.Dot(light))
			t.set(x, y, v, v, v, 255)
		}
	}
	return t
}

// GradientStop is one color stop of a RadialGradient.
type GradientStop struct {
	Offset float64 // 0 at the center, 1 at the edge
	Color  Color
}

// RadialGradient renders a size×size texture fading through stops from the
// center outward. An empty stop list yields a transparent texture.
func RadialGradient(size int, stops []GradientStop) *Texture {
	if size < 1 {
		size = 1
	}
	t := newTexture(size, size)
	if len(stops) == 0 {
		return t
	}
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			col := gradientAt(stops, Clamp(d, 0, 1)).RGBA8()
			t.set(x, y, col.R, col.G, col.B, col.A)
		}
	}
	return t
}

func gradientAt(stops []GradientStop, d float64) Color {
	if d <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if d <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return a.Color.Lerp(b.Color, (d-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}

// SunGlowStops are the day sky's sun halo stops.
var SunGlowStops = []GradientStop{
	{0, Color{1, 246.0 / 255, 179.0 / 255, 0.9}},
	{0.4, Color{1, 220.0 / 255, 120.0 / 255, 0.35}},
	{1, Color{1, 200.0 / 255, 80.0 / 255, 0}},
}
