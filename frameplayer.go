package islet

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNoFrames is returned by FramePlayer.Load when there is nothing to play.
var ErrNoFrames = errors.New("islet: frame player has no frames")

const defaultFramePlayerFPS = 12

// FramePlayerOptions configures a FramePlayer.
type FramePlayerOptions struct {
	// Name identifies the player in logs and signals.
	Name string
	// FPS is the playback rate. Values below 1 are treated as 1.
	FPS      int
	AutoPlay bool
	Loop     bool
	// InitialFrame is clamped to the frame range.
	InitialFrame int
	// CrossFade blends consecutive frames over this many seconds. Zero cuts.
	CrossFade float32
	// OnFrame is called with the new index whenever the frame advances.
	OnFrame func(i int)
	// OnEnd is called when playback runs past the last frame.
	OnEnd func()
	// Sink receives SignalLoadingFinished, SignalFrameAdvanced and
	// SignalAnimationEnded, always from Update.
	Sink SignalSink
	// Concurrency bounds parallel frame loads.
	Concurrency int
}

// DefaultFramePlayerOptions returns 12 fps looping autoplay.
func DefaultFramePlayerOptions() FramePlayerOptions {
	return FramePlayerOptions{Name: "frames", FPS: defaultFramePlayerFPS, AutoPlay: true, Loop: true}
}

// FramePlayer plays an image sequence at a fixed rate. Frames are preloaded
// in the background; playback starts only once every load has settled.
// Frames that failed to load show a checkerboard placeholder.
//
// Update and the playback controls are called from the tick goroutine.
type FramePlayer struct {
	FramePlayerOptions

	pre      *Preloader[image.Image]
	count    int
	src      []image.Image
	images   []*ebiten.Image
	ready    bool
	started  bool
	idx      int
	playing  bool
	interval float64
	since    float64

	prev int
	fade *gween.Tween
	mix  float32

	w, h int
}

// NewFramePlayer returns a player for count frames fetched through load.
func NewFramePlayer(count int, load LoadFunc[image.Image], o FramePlayerOptions) *FramePlayer {
	p := &FramePlayer{FramePlayerOptions: o, count: max(0, count), prev: -1, mix: 1}
	p.SetFPS(o.FPS)
	p.idx = Clamp(o.InitialFrame, 0, max(0, p.count-1))
	p.pre = NewPreloader(o.Name, p.count, load)
	p.pre.Concurrency = o.Concurrency
	p.pre.Placeholder = func(int) image.Image { return placeholderFrame() }
	return p
}

// NewFramePlayerFiles returns a player for the image files at paths. PNG,
// JPEG, GIF, BMP and WebP are decoded.
func NewFramePlayerFiles(paths []string, o FramePlayerOptions) *FramePlayer {
	return NewFramePlayer(len(paths), func(ctx context.Context, i int) (image.Image, error) {
		return LoadImageFile(ctx, paths[i])
	}, o)
}

// LoadImageFile decodes the image at path.
func LoadImageFile(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}

// placeholderFrame is a 16×16 magenta and black checkerboard.
func placeholderFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if (x/4+y/4)%2 == 0 {
				c = color.RGBA{255, 0, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Load starts preloading. It returns ErrNoFrames for an empty sequence.
func (p *FramePlayer) Load(ctx context.Context) error {
	if p.count == 0 {
		return ErrNoFrames
	}
	p.pre.Start(ctx)
	return nil
}

// Preloader exposes the underlying loader, e.g. to Wait on it.
func (p *FramePlayer) Preloader() *Preloader[image.Image] { return p.pre }

// Ready reports whether the frames have settled and playback may run.
func (p *FramePlayer) Ready() bool { return p.ready }

// Len returns the number of frames.
func (p *FramePlayer) Len() int { return p.count }

// Play starts playback. Before the frames are ready it only arms playback.
func (p *FramePlayer) Play() {
	p.playing = true
}

// Pause stops playback on the current frame.
func (p *FramePlayer) Pause() { p.playing = false }

// Toggle flips between playing and paused.
func (p *FramePlayer) Toggle() { p.playing = !p.playing }

// IsPlaying reports whether playback is running.
func (p *FramePlayer) IsPlaying() bool { return p.playing }

// Seek jumps to frame i, clamped to the sequence.
func (p *FramePlayer) Seek(i int) {
	p.idx = Clamp(i, 0, max(0, p.count-1))
	p.fade = nil
	p.mix = 1
}

// CurrentFrame returns the frame index on screen.
func (p *FramePlayer) CurrentFrame() int { return p.idx }

// SetFPS changes the playback rate. Values below 1 are treated as 1.
func (p *FramePlayer) SetFPS(fps int) {
	p.interval = 1 / float64(max(1, fps))
}

// Interval returns the time per frame in seconds.
func (p *FramePlayer) Interval() float64 { return p.interval }

// Update advances playback by dt seconds. At most one frame advances per
// call; leftover time carries over modulo the frame interval.
func (p *FramePlayer) Update(dt float64) {
	if !p.ready {
		if !p.pre.Ready() {
			return
		}
		res := p.pre.Result()
		p.src = res.Items
		p.ready = true
		emit(p.Sink, Signal{Kind: SignalLoadingFinished, Source: p.Name, Failed: res.Failed()})
		if p.AutoPlay && !p.started {
			p.playing = true
		}
		p.started = true
		return
	}
	if p.fade != nil {
		v, done := p.fade.Update(float32(dt))
		p.mix = v
		if done {
			p.fade = nil
			p.mix = 1
		}
	}
	if !p.playing || p.count == 0 || !(dt > 0) {
		return
	}
	p.since += dt
	if p.since < p.interval {
		return
	}
	p.since = math.Mod(p.since, p.interval)
	p.advance()
}

func (p *FramePlayer) advance() {
	next := p.idx + 1
	if next < p.count {
		p.show(next)
		return
	}
	if p.OnEnd != nil {
		p.OnEnd()
	}
	emit(p.Sink, Signal{Kind: SignalAnimationEnded, Source: p.Name, Frame: p.idx})
	if p.Loop {
		p.show(0)
		return
	}
	p.playing = false
}

func (p *FramePlayer) show(i int) {
	if p.CrossFade > 0 && i != p.idx {
		p.prev = p.idx
		p.fade = gween.New(0, 1, p.CrossFade, ease.Linear)
		p.mix = 0
	}
	p.idx = i
	if p.OnFrame != nil {
		p.OnFrame(i)
	}
	emit(p.Sink, Signal{Kind: SignalFrameAdvanced, Source: p.Name, Frame: i})
}

// Resize records the surface size used to fit frames.
func (p *FramePlayer) Resize(w, h int) { p.w, p.h = w, h }

func (p *FramePlayer) image(i int) *ebiten.Image {
	if i < 0 || i >= len(p.src) || p.src[i] == nil {
		return nil
	}
	if p.images == nil {
		p.images = make([]*ebiten.Image, len(p.src))
	}
	if p.images[i] == nil {
		p.images[i] = ebiten.NewImageFromImage(p.src[i])
	}
	return p.images[i]
}

// Draw renders the current frame centered on dst at the largest integer
// scale that fits. Nothing is drawn before the frames are ready.
func (p *FramePlayer) Draw(dst *ebiten.Image) {
	if !p.ready {
		return
	}
	cur := p.image(p.idx)
	if cur == nil {
		return
	}
	if p.fade != nil {
		if prev := p.image(p.prev); prev != nil {
			p.drawFrame(dst, prev, 1)
		}
	}
	p.drawFrame(dst, cur, p.mix)
}

func (p *FramePlayer) drawFrame(dst, img *ebiten.Image, alpha float32) {
	b := img.Bounds()
	w, h := p.w, p.h
	if w == 0 || h == 0 {
		w, h = dst.Bounds().Dx(), dst.Bounds().Dy()
	}
	s := IntScale(w, h, b.Dx(), b.Dy(), 1, 1)
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(s), float64(s))
	op.GeoM.Translate(float64(w-b.Dx()*s)/2, float64(h-b.Dy()*s)/2)
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(img, &op)
}

// Attach wires the player into s.
func (p *FramePlayer) Attach(s *Surface) (detach func()) {
	sim := s.Scheduler.Add(PhaseSimulate, p.Update)
	resize := s.OnResize(p.Resize)
	s.SetDrawFunc(p.Draw)
	return func() {
		sim.Remove()
		resize.Remove()
		s.SetDrawFunc(nil)
	}
}

// Dispose releases the GPU images.
func (p *FramePlayer) Dispose() {
	for i, img := range p.images {
		if img != nil {
			img.Deallocate()
			p.images[i] = nil
		}
	}
}
