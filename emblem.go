package islet

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// stage is the plumbing shared by the single-scene animations: a scene, its
// motion arena and the wiring into a Surface.
type stage struct {
	Scene  *Scene
	Motion *MotionWorld
}

func newStage(eye Vec3, fov float64, w, h int) stage {
	cam := NewOrbitCamera(eye, Vec3{}, fov, Rect{Width: float64(max(1, w)), Height: float64(max(1, h))})
	return stage{Scene: NewScene(cam), Motion: NewMotionWorld()}
}

// attach registers simulate in the simulate phase, forwards pointer moves to
// move (if non-nil) and draws with draw.
func (st *stage) attach(s *Surface, simulate TickFunc, draw DrawFunc, move func(PointerEvent)) (detach func()) {
	sim := s.Scheduler.Add(PhaseSimulate, simulate)
	var moved CallbackHandle
	if move != nil {
		moved = s.Pointer.OnMove(move)
	}
	resize := s.OnResize(st.Scene.Resize)
	s.SetDrawFunc(draw)
	return func() {
		sim.Remove()
		moved.Remove()
		resize.Remove()
		s.SetDrawFunc(nil)
	}
}

// Dispose drops the motion state and the node tree.
func (st *stage) Dispose() {
	st.Motion.Clear()
	st.Scene.Dispose()
}

// ChacanaLoaderOptions configures NewChacanaLoader.
type ChacanaLoaderOptions struct {
	Width, Height int
	Label         string
	Glow          Color
	Base          Color
	Background    Color
}

// DefaultChacanaLoaderOptions returns the glowing blue emblem on near-black.
func DefaultChacanaLoaderOptions() ChacanaLoaderOptions {
	return ChacanaLoaderOptions{
		Width:      480,
		Height:     300,
		Label:      "Loading...",
		Glow:       Hex("#49d1ff"),
		Base:       Hex("#1a1a1a"),
		Background: Hex("#030712"),
	}
}

var chacanaLabelColor = Color{228.0 / 255, 228.0 / 255, 231.0 / 255, 0.8}

// ChacanaLoader is the full-bleed loading screen: the extruded emblem spins,
// tilts, floats and pulses its glow above a centered label.
type ChacanaLoader struct {
	stage
	Label string
	Glow  Color

	emblem *Node
	exit   *TweenGroup
	t      float64
	w, h   int
}

// NewChacanaLoader builds the loader scene.
func NewChacanaLoader(o ChacanaLoaderOptions) *ChacanaLoader {
	l := &ChacanaLoader{
		stage: newStage(Vec3{0, 0, 8}, 45, o.Width, o.Height),
		Label: o.Label,
		Glow:  o.Glow,
		w:     o.Width,
		h:     o.Height,
	}
	l.Scene.Background = o.Background
	l.Scene.Lighting = Lighting{
		Ambient: []AmbientLight{{Color: ColorWhite, Intensity: 0.2}},
		Directional: []DirectionalLight{
			{Position: Vec3{5, 6, 8}, Color: ColorWhite, Intensity: 0.6},
			{Position: Vec3{-6, -4, -3}, Color: ColorWhite, Intensity: 0.3},
		},
	}
	l.emblem = NewMesh("chacana", ChacanaEmblem(), Glowing(o.Base, o.Glow, 1))
	l.Scene.Root().AddChild(l.emblem)
	l.Update(0)
	return l
}

// Update advances the emblem clock.
func (l *ChacanaLoader) Update(dt float64) {
	l.t += dt
	p := EmblemPoseAt(l.t)
	l.emblem.SetRotation(p.Rotation[0], p.Rotation[1], p.Rotation[2])
	l.emblem.Position[1] = p.PositionY
	l.emblem.MarkDirty()
	l.emblem.Material.EmissiveIntensity = p.EmissiveIntensity
	l.emblem.Material.Emissive = l.Glow.HueShift(p.HueShift)
	if l.exit != nil {
		l.exit.Update(dt)
	}
}

// Dismiss shrinks the emblem away over duration seconds and hides the label.
// The pose keeps animating while it shrinks.
func (l *ChacanaLoader) Dismiss(duration float32) {
	if l.exit != nil {
		return
	}
	l.Label = ""
	l.exit = TweenScale(l.emblem, Vec3{}, duration, ease.InBack)
}

// Dismissed reports whether a Dismiss has finished.
func (l *ChacanaLoader) Dismissed() bool { return l.exit != nil && l.exit.Done }

// Resize follows the surface size.
func (l *ChacanaLoader) Resize(w, h int) {
	l.w, l.h = w, h
	l.Scene.Resize(w, h)
}

// Draw renders the emblem and the label.
func (l *ChacanaLoader) Draw(screen *ebiten.Image) {
	l.Scene.Draw(screen)
	if l.Label == "" {
		return
	}
	const scale = 2
	tw := float64(MeasureText(l.Label)) * scale
	DrawTextImage(screen, l.Label, (float64(l.w)-tw)/2, float64(l.h)/2+80, scale, chacanaLabelColor)
}

// Attach wires the loader into s.
func (l *ChacanaLoader) Attach(s *Surface) (detach func()) {
	d := l.attach(s, l.Update, l.Draw, nil)
	resize := s.OnResize(l.Resize)
	return func() {
		resize.Remove()
		d()
	}
}

// ChacanaFieldOptions configures NewChacanaField.
type ChacanaFieldOptions struct {
	Width, Height int
	Points        ChacanaPointsParams
	PointSize     float64
	Opacity       float64
}

// DefaultChacanaFieldOptions returns the page background field.
func DefaultChacanaFieldOptions() ChacanaFieldOptions {
	return ChacanaFieldOptions{
		Width:     800,
		Height:    600,
		Points:    DefaultChacanaPointsParams(),
		PointSize: 0.012,
		Opacity:   0.95,
	}
}

var (
	fieldFloat  = FloatParams{Speed: 0.6, RotationIntensity: 0.2, FloatIntensity: 0.3}
	bannerFloat = FloatParams{Speed: 0.9, RotationIntensity: 0.15, FloatIntensity: 0.2}
)

const (
	fieldSpin         = 0.06
	fieldParallax     = 0.2
	fieldSmoothing    = 0.06
	bannerSpin        = 0.15
	bannerParallax    = 0.25
	bannerBlockDepth  = 0.35
	bannerBlockFill   = 0.95
	bannerDefaultSize = 1.8
)

// ChacanaField is the transparent background point cloud. It spins slowly,
// hovers, and tilts toward the pointer.
type ChacanaField struct {
	stage
	points   *Node
	parallax MotionHandle
}

// NewChacanaField builds the field.
func NewChacanaField(o ChacanaFieldOptions) *ChacanaField {
	f := &ChacanaField{stage: newStage(Vec3{0, 0, 2.2}, 50, o.Width, o.Height)}
	f.Scene.Background = Color{}
	float := NewGroup("float")
	f.Scene.Root().AddChild(float)
	f.Motion.AddFloater(NewFloater(float, fieldFloat))

	f.points = NewPoints("chacana-points", ChacanaPoints(o.Points), o.PointSize,
		Material{Color: Color{1, 1, 1, Clamp(o.Opacity, 0, 1)}, Unlit: true})
	float.AddChild(f.points)
	f.parallax = f.Motion.AddParallax(NewParallax(f.points, fieldParallax, fieldSmoothing))
	return f
}

// Point feeds a pointer position in [-1, 1]², +Y up.
func (f *ChacanaField) Point(x, y float64) {
	if p := f.Motion.Parallax(f.parallax); p != nil {
		p.Point(x, y)
	}
}

// Update spins the cloud and advances hover and parallax.
func (f *ChacanaField) Update(dt float64) {
	f.points.Rotate(0, 0, dt*fieldSpin)
	f.Motion.Update(dt)
}

// Draw renders the field.
func (f *ChacanaField) Draw(screen *ebiten.Image) { f.Scene.Draw(screen) }

// Attach wires the field into s.
func (f *ChacanaField) Attach(s *Surface) (detach func()) {
	return f.attach(s, f.Update, f.Draw, func(e PointerEvent) { f.Point(e.NX, e.NY) })
}

// HeaderBannerOptions configures NewHeaderBanner.
type HeaderBannerOptions struct {
	Width, Height int
	Size          float64
	Palette       []Color
	// Parallax tilts the banner toward the pointer.
	Parallax bool
}

// DefaultHeaderBannerOptions returns the page header banner.
func DefaultHeaderBannerOptions() HeaderBannerOptions {
	return HeaderBannerOptions{Width: 960, Height: 240, Size: bannerDefaultSize, Palette: AndeanPalette, Parallax: true}
}

// HeaderBanner is the block-built chacana of the page header.
type HeaderBanner struct {
	stage
	blocks   *Node
	parallax MotionHandle
	enabled  bool
}

// NewHeaderBanner builds the banner.
func NewHeaderBanner(o HeaderBannerOptions) *HeaderBanner {
	if !(o.Size > 0) {
		o.Size = bannerDefaultSize
	}
	b := &HeaderBanner{stage: newStage(Vec3{0, 0, 3}, 50, o.Width, o.Height), enabled: o.Parallax}
	b.Scene.Background = Color{}
	b.Scene.Lighting = Lighting{
		Ambient:     []AmbientLight{{Color: ColorWhite, Intensity: 0.6}},
		Directional: []DirectionalLight{{Position: Vec3{2, 3, 4}, Color: ColorWhite, Intensity: 1.1}},
	}

	tilt := NewGroup("parallax")
	b.Scene.Root().AddChild(tilt)
	b.parallax = b.Motion.AddParallax(NewParallax(tilt, bannerParallax, fieldSmoothing))
	float := NewGroup("float")
	tilt.AddChild(float)
	b.Motion.AddFloater(NewFloater(float, bannerFloat))

	b.blocks = NewGroup("chacana-blocks")
	float.AddChild(b.blocks)
	blocks, cell := ChacanaBlocks(o.Size, len(o.Palette))
	geo := BoxGeometry(cell*bannerBlockFill, cell*bannerBlockFill, cell*bannerBlockDepth)
	for _, bl := range blocks {
		n := NewMesh("block", geo, Material{Color: paletteAt(o.Palette, bl.ColorIndex)})
		n.SetPosition(bl.Position[0], bl.Position[1], bl.Position[2])
		b.blocks.AddChild(n)
	}
	return b
}

// Point feeds a pointer position in [-1, 1]², +Y up. Ignored when parallax
// is disabled.
func (b *HeaderBanner) Point(x, y float64) {
	if !b.enabled {
		return
	}
	if p := b.Motion.Parallax(b.parallax); p != nil {
		p.Point(x, y)
	}
}

// Update spins the blocks and advances hover and parallax.
func (b *HeaderBanner) Update(dt float64) {
	b.blocks.Rotate(0, 0, dt*bannerSpin)
	b.Motion.Update(dt)
}

// Draw renders the banner.
func (b *HeaderBanner) Draw(screen *ebiten.Image) { b.Scene.Draw(screen) }

// Attach wires the banner into s.
func (b *HeaderBanner) Attach(s *Surface) (detach func()) {
	return b.attach(s, b.Update, b.Draw, func(e PointerEvent) { b.Point(e.NX, e.NY) })
}
