package islet

import (
	"image/color"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Pixel font metrics, in logical pixels.
const (
	GlyphWidth   = 3
	GlyphHeight  = 5
	GlyphAdvance = 4 // glyph plus one pixel of spacing
	LineAdvance  = 6
)

// pixelGlyphs maps upper-case runes to five 3-bit rows, most significant bit
// on the left.
var pixelGlyphs = map[rune][GlyphHeight]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b111, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b111, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b111, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b010, 0b001},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b111, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'0': {0b111, 0b101, 0b101, 0b101, 0b111},
	'1': {0b010, 0b110, 0b010, 0b010, 0b111},
	'2': {0b111, 0b001, 0b111, 0b100, 0b111},
	'3': {0b111, 0b001, 0b111, 0b001, 0b111},
	'4': {0b101, 0b101, 0b111, 0b001, 0b001},
	'5': {0b111, 0b100, 0b111, 0b001, 0b111},
	'6': {0b111, 0b100, 0b111, 0b101, 0b111},
	'7': {0b111, 0b001, 0b001, 0b001, 0b001},
	'8': {0b111, 0b101, 0b111, 0b101, 0b111},
	'9': {0b111, 0b101, 0b111, 0b001, 0b111},
	' ': {0, 0, 0, 0, 0},
	'.': {0, 0, 0, 0, 0b010},
	':': {0, 0b010, 0, 0b010, 0},
	'-': {0, 0, 0b111, 0, 0},
	'?': {0b111, 0b001, 0b011, 0, 0b010},
}

// Glyph returns the bitmap for r. Lower-case letters use their upper-case
// glyph; anything unmapped returns the '?' glyph with ok false.
func Glyph(r rune) (g [GlyphHeight]uint8, ok bool) {
	g, ok = pixelGlyphs[unicode.ToUpper(r)]
	if !ok {
		g = pixelGlyphs['?']
	}
	return g, ok
}

// MeasureText returns the cursor advance of the widest line of s.
func MeasureText(s string) int {
	w, line := 0, 0
	for _, r := range s {
		if r == '\n' {
			line = 0
			continue
		}
		line += GlyphAdvance
		w = max(w, line)
	}
	return w
}

// eachGlyphPixel walks the lit pixels of s laid out from (0, 0) and returns
// the final cursor.
func eachGlyphPixel(s string, fn func(x, y int)) (cx, cy int) {
	for _, r := range s {
		if r == '\n' {
			cx, cy = 0, cy+LineAdvance
			continue
		}
		g, _ := Glyph(r)
		for row, bits := range g {
			for col := 0; col < GlyphWidth; col++ {
				if bits&(1<<(GlyphWidth-1-col)) != 0 {
					fn(cx+col, cy+row)
				}
			}
		}
		cx += GlyphAdvance
	}
	return cx, cy
}

// DrawText rasterizes s with the 3×5 font onto d with its top-left corner at
// (x, y). Unmapped runes draw as '?'. It returns the cursor after the last
// rune.
func DrawText(d drivers.Displayer, s string, x, y int, c color.RGBA) (cx, cy int) {
	cx, cy = eachGlyphPixel(s, func(px, py int) {
		d.SetPixel(int16(x+px), int16(y+py), c)
	})
	return x + cx, y + cy
}

// DrawTextImage draws s with the 3×5 font onto an ebiten image, each font
// pixel a scale×scale square.
func DrawTextImage(dst *ebiten.Image, s string, x, y, scale float64, c Color) {
	rgba := c.toRGBA()
	eachGlyphPixel(s, func(px, py int) {
		vector.DrawFilledRect(dst,
			float32(x+float64(px)*scale), float32(y+float64(py)*scale),
			float32(scale), float32(scale), rgba, false)
	})
}

// DrawTinyText draws s with tinyfont's TomThumb face, which covers
// lower-case and punctuation the 3×5 font lacks. y is the baseline. It
// returns the drawn width in pixels.
func DrawTinyText(d drivers.Displayer, s string, x, y int16, c color.RGBA) int {
	tinyfont.WriteLine(d, &tinyfont.TomThumb, x, y, s, c)
	_, w := tinyfont.LineWidth(&tinyfont.TomThumb, s)
	return int(w)
}
