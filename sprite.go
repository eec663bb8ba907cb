package islet

// PixelSprite is a small multi-frame bitmap. Each frame is a row-major list
// of palette indices; index 0 is transparent.
type PixelSprite struct {
	W, H    int
	Palette []Color
	Frames  [][]uint8
}

// NewPixelSprite returns a sprite with frames blank frames.
func NewPixelSprite(w, h, frames int, palette ...Color) *PixelSprite {
	w, h, frames = max(1, w), max(1, h), max(1, frames)
	s := &PixelSprite{W: w, H: h, Palette: append([]Color{{}}, palette...)}
	for i := 0; i < frames; i++ {
		s.Frames = append(s.Frames, make([]uint8, w*h))
	}
	return s
}

// ParseSprite builds a sprite from ASCII art. Every frame is a list of rows of
// equal width; legend maps a byte to a palette entry. Bytes missing from the
// legend are transparent.
func ParseSprite(legend map[byte]Color, frames ...[]string) *PixelSprite {
	if len(frames) == 0 || len(frames[0]) == 0 {
		return NewPixelSprite(1, 1, 1)
	}
	h, w := len(frames[0]), len(frames[0][0])
	var palette []Color
	index := map[byte]uint8{}
	// Stable palette order keeps frames comparable across runs.
	for b := 0; b < 256; b++ {
		if c, ok := legend[byte(b)]; ok {
			palette = append(palette, c)
			index[byte(b)] = uint8(len(palette))
		}
	}
	s := NewPixelSprite(w, h, len(frames), palette...)
	for f, rows := range frames {
		for y := 0; y < h && y < len(rows); y++ {
			for x := 0; x < w && x < len(rows[y]); x++ {
				s.Frames[f][y*w+x] = index[rows[y][x]]
			}
		}
	}
	return s
}

// Fill paints a w×h block of palette index ci into frame f, clipped.
func (s *PixelSprite) Fill(f, x, y, w, h int, ci uint8) {
	if f < 0 || f >= len(s.Frames) {
		return
	}
	for py := max(0, y); py < min(s.H, y+h); py++ {
		for px := max(0, x); px < min(s.W, x+w); px++ {
			s.Frames[f][py*s.W+px] = ci
		}
	}
}

// At returns the palette index at (x, y) of frame f; frames wrap.
func (s *PixelSprite) At(f, x, y int) uint8 {
	if x < 0 || y < 0 || x >= s.W || y >= s.H {
		return 0
	}
	n := len(s.Frames)
	return s.Frames[((f%n)+n)%n][y*s.W+x]
}

// Draw blits frame f at (x, y) with every sprite pixel a scale×scale block.
// Frames wrap, so a running counter can be passed directly.
func (s *PixelSprite) Draw(c *PixelCanvas, f, x, y, scale int) {
	scale = max(1, scale)
	for sy := 0; sy < s.H; sy++ {
		for sx := 0; sx < s.W; sx++ {
			ci := s.At(f, sx, sy)
			if ci == 0 || int(ci) >= len(s.Palette) {
				continue
			}
			c.FillRect(x+sx*scale, y+sy*scale, scale, scale, s.Palette[ci])
		}
	}
}

// Condor sprite colors.
var (
	CondorBody = Hex("#161616")
	CondorBeak = Hex("#f4b23f")
	CondorEye  = Hex("#ffffff")
)

// CondorSprite returns the 16×12 condor with its wings up (frame 0) and down
// (frame 1).
func CondorSprite() *PixelSprite {
	legend := map[byte]Color{'b': CondorBody, 'y': CondorBeak, 'w': CondorEye}
	up := []string{
		"................",
		"................",
		"................",
		"..b.........b...",
		"...bbb..bbb.....",
		".....bbbbbb.....",
		".....bbbbbbbw...",
		"....bbbbbbbbbyy.",
		"....bbbbbbb.....",
		"................",
		"................",
		"................",
	}
	down := []string{
		"................",
		"................",
		"................",
		"................",
		"................",
		".....bbbbbb.....",
		".....bbbbbbbw...",
		"....bbbbbbbbbyy.",
		"...bbbbbbbb.....",
		"..b.........b...",
		"................",
		"................",
	}
	return ParseSprite(legend, up, down)
}

// Puppy sprite colors.
var (
	PuppyFur     = Hex("#e7c59a")
	PuppyEar     = Hex("#b0855b")
	PuppyNose    = Hex("#2b2b2b")
	PuppyEye     = Hex("#1a1a1a")
	PuppyCollar  = Hex("#49d1ff")
	PuppyWhite   = Hex("#ffffff")
	PuppyOutline = Hex("#0b0f16")
)

// PuppySprite returns the 16×16 sitting dog with its tail left (frame 0) and
// right (frame 1). The dark outline is painted first and the fill over it.
// The tail's fill covers its own outline, so only the fill is kept.
func PuppySprite() *PixelSprite {
	s := NewPixelSprite(16, 16, 2, PuppyOutline, PuppyFur, PuppyEar, PuppyNose, PuppyEye, PuppyCollar, PuppyWhite)
	const (
		outline = iota + 1
		fur
		ear
		nose
		eye
		collar
		white
	)
	type block struct {
		x, y, w, h int
		ci         uint8
	}
	body := []block{
		// outline
		{6, 2, 4, 1, outline}, {5, 3, 6, 1, outline}, {5, 4, 6, 1, outline},
		{4, 5, 8, 1, outline}, {3, 6, 10, 1, outline}, {3, 7, 10, 1, outline}, {4, 8, 8, 1, outline},
		{5, 9, 6, 1, outline}, {5, 10, 6, 1, outline}, {6, 11, 4, 1, outline}, {7, 12, 2, 1, outline},
		// head and face
		{6, 3, 4, 1, fur}, {5, 4, 6, 1, fur}, {6, 5, 4, 1, fur},
		{9, 5, 1, 1, eye}, {8, 6, 1, 1, nose},
		{6, 2, 1, 1, ear}, {9, 2, 1, 1, ear},
		// body
		{4, 6, 8, 1, fur}, {4, 7, 8, 1, fur}, {5, 8, 6, 1, fur}, {5, 9, 6, 1, fur}, {6, 10, 4, 1, fur}, {7, 11, 2, 1, fur},
		{6, 7, 2, 1, white}, {6, 8, 2, 1, white},
		{5, 6, 6, 1, collar},
		{6, 12, 1, 1, white}, {9, 12, 1, 1, white},
	}
	for f, wag := range [2]int{-1, 1} {
		for _, b := range body {
			s.Fill(f, b.x, b.y, b.w, b.h, b.ci)
		}
		s.Fill(f, 13+wag, 8, 1, 1, fur)
		s.Fill(f, 12+wag, 9, 1, 1, fur)
	}
	return s
}

// BadgeSprite rasterizes ChacanaBadgePattern as a 5×5 sprite.
func BadgeSprite(a, b Color) *PixelSprite {
	return ParseSprite(map[byte]Color{'A': a, 'B': b}, ChacanaBadgePattern[:])
}
