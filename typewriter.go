package islet

import (
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"tinygo.org/x/tinyfont"
)

// Typewriter reveals a text one rune at a time.
type Typewriter struct {
	// CharDelay is the time between revealed runes, in seconds. Zero or
	// negative reveals the whole text at once.
	CharDelay float64

	text    []rune
	elapsed float64
}

// NewTypewriter starts revealing text at one rune per charDelay seconds.
func NewTypewriter(text string, charDelay float64) *Typewriter {
	return &Typewriter{CharDelay: charDelay, text: []rune(text)}
}

// SetText replaces the text and restarts the reveal.
func (w *Typewriter) SetText(s string) {
	w.text = []rune(s)
	w.elapsed = 0
}

// Text returns the full text.
func (w *Typewriter) Text() string { return string(w.text) }

// Update advances the reveal clock.
func (w *Typewriter) Update(dt float64) {
	if dt > 0 {
		w.elapsed += dt
	}
}

// Shown returns how many runes are visible.
func (w *Typewriter) Shown() int {
	if !(w.CharDelay > 0) {
		return len(w.text)
	}
	n := int(math.Floor(w.elapsed/w.CharDelay + 1e-9))
	return min(len(w.text), n)
}

// Visible returns the revealed prefix.
func (w *Typewriter) Visible() string { return string(w.text[:w.Shown()]) }

// Done reports whether every rune is visible.
func (w *Typewriter) Done() bool { return w.Shown() == len(w.text) }

// CaretOn reports whether the blinking caret is lit: on for the first half
// of every second.
func (w *Typewriter) CaretOn() bool {
	_, frac := math.Modf(w.elapsed)
	return frac < 0.5
}

const (
	bubblePad       = 3
	bubbleTail      = 4
	bubbleLineH     = 6 // TomThumb line advance
	bubbleAscent    = 5
	bubbleEnterTime = 0.26
)

// SpeechBubbleOptions configures NewSpeechBubble.
type SpeechBubbleOptions struct {
	Background Color
	Border     Color
	Text       Color
	// MaxWidth caps the text column in logical pixels; words wrap.
	MaxWidth int
	// CharDelay is the typewriter delay per rune in seconds.
	CharDelay float64
	Caret     bool
	// Scale is the integer magnification used when drawn.
	Scale int
}

// DefaultSpeechBubbleOptions returns a translucent white bubble with a
// magenta border.
func DefaultSpeechBubbleOptions() SpeechBubbleOptions {
	return SpeechBubbleOptions{
		Background: Color{1, 1, 1, 0.9},
		Border:     Hex("#e5007a"),
		Text:       Hex("#111111"),
		MaxWidth:   96,
		CharDelay:  0.018,
		Caret:      true,
		Scale:      2,
	}
}

// SpeechBubble is a pixel speech bubble with a tail on its left side whose
// text types itself out. Layout is computed on the full text so the bubble
// does not grow while typing.
type SpeechBubble struct {
	SpeechBubbleOptions

	tw     *Typewriter
	lines  []string
	canvas *PixelCanvas
	age    float64
}

// NewSpeechBubble lays out text and starts typing it.
func NewSpeechBubble(text string, o SpeechBubbleOptions) *SpeechBubble {
	b := &SpeechBubble{SpeechBubbleOptions: o, tw: NewTypewriter(text, o.CharDelay)}
	b.layout()
	return b
}

// SetText restarts the bubble with new text.
func (b *SpeechBubble) SetText(text string) {
	b.tw.SetText(text)
	b.age = 0
	b.layout()
}

// Typewriter returns the reveal state.
func (b *SpeechBubble) Typewriter() *Typewriter { return b.tw }

// Lines returns the wrapped lines of the full text.
func (b *SpeechBubble) Lines() []string { return b.lines }

func textWidth(s string) int {
	_, w := tinyfont.LineWidth(&tinyfont.TomThumb, s)
	return int(w)
}

// wrapText greedily breaks s into lines no wider than maxW pixels. Words
// wider than maxW get a line of their own.
func wrapText(s string, maxW int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			next := word
			if line != "" {
				next = line + " " + word
			}
			if line != "" && maxW > 0 && textWidth(next) > maxW {
				lines = append(lines, line)
				next = word
			}
			line = next
		}
		lines = append(lines, line)
	}
	return lines
}

func (b *SpeechBubble) layout() {
	b.lines = wrapText(b.tw.Text(), b.MaxWidth)
	w := 0
	for _, l := range b.lines {
		w = max(w, textWidth(l))
	}
	// Room for the caret after the widest line.
	w += 4
	cw := bubbleTail + w + 2*bubblePad + 2
	ch := len(b.lines)*bubbleLineH + 2*bubblePad + 2
	if b.canvas != nil {
		b.canvas.Dispose()
	}
	b.canvas = NewPixelCanvas(cw, ch)
}

// Update advances typing, caret and the entrance fade.
func (b *SpeechBubble) Update(dt float64) {
	if dt > 0 {
		b.age += dt
	}
	b.tw.Update(dt)
}

// Render paints the bubble into its canvas.
func (b *SpeechBubble) Render() {
	c := b.canvas
	c.Clear(Color{})
	w, h := c.Width(), c.Height()
	bx := bubbleTail
	c.FillRoundRect(bx, 0, w-bx, h, 4, b.Border)
	c.FillRoundRect(bx+1, 1, w-bx-2, h-2, 3, b.Background)

	// Tail: a left-pointing triangle, border first then fill.
	mid := h / 2
	for i := 0; i <= bubbleTail; i++ {
		c.FillRect(i, mid-i/2, 1, i+1, b.Border)
	}
	for i := 2; i <= bubbleTail+1; i++ {
		c.FillRect(i, mid-i/2+1, 1, max(0, i-1), b.Background)
	}

	text := b.Text.RGBA8()
	left := bx + 1 + bubblePad
	remaining := b.tw.Shown()
	var cx, cy int16
	for i, line := range b.lines {
		y := int16(1 + bubblePad + bubbleAscent + i*bubbleLineH)
		runes := []rune(line)
		n := min(remaining, len(runes))
		part := string(runes[:n])
		tinyfont.WriteLine(c, &tinyfont.TomThumb, int16(left), y, part, text)
		remaining -= n
		if i < len(b.lines)-1 {
			// The break consumed a space or newline.
			remaining--
		}
		cx, cy = int16(left+textWidth(part)), y
		if remaining <= 0 {
			break
		}
	}
	if b.Caret && b.tw.CaretOn() {
		c.FillRect(int(cx)+1, int(cy)-bubbleAscent, 1, bubbleAscent+1, b.Text)
	}
}

// DrawAt presents the bubble with its tail tip at (x, y) on dst.
func (b *SpeechBubble) DrawAt(dst *ebiten.Image, x, y float64) {
	k := Clamp(b.age/bubbleEnterTime, 0, 1)
	// Ease-out entrance from 86% size and full transparency.
	k = 1 - (1-k)*(1-k)
	scale := float64(max(1, b.Scale)) * (0.86 + 0.14*k)
	h := float64(b.canvas.Height()) * scale
	b.canvas.DrawAt(dst, x, y-h/2, scale, float32(k))
}

// Dispose releases the canvas image.
func (b *SpeechBubble) Dispose() { b.canvas.Dispose() }
