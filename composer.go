package islet

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Island scene placement. Distances are world units.
var (
	islandCameraEye    = Vec3{7, 1.4, 0}
	islandOrbitTarget  = Vec3{0, 0.7, 0}
	islandGroupRotY    = math.Pi / 1.1
	islandPersonRotY   = math.Pi / -2.3
	islandFloat        = FloatParams{Speed: 0.6, RotationIntensity: 0.05, FloatIntensity: 0.06}
	islandInnerLagoon  = LagoonParams{Radius: 2.4, Segments: 128, Irregularity: 1, Seed: 1.7}
	islandDomeColor    = Hex("#e9cfa2")
	islandBaseColor    = Hex("#e7c79a")
	islandRockColor    = Hex("#c8b899")
	islandSunColor     = Hex("#fff6b3")
	islandMoonColor    = Hex("#d8dde6")
	islandMoonRimColor = Hex("#cfe3ff")
	islandBubbleAnchor = Vec3{0.06, 0.34, 0} // beside the head, person-local
)

const (
	islandCameraFOV      = 30
	islandMaxPolar       = 0.55 * math.Pi
	islandDomeSpin       = 0.15 // radians per second
	islandInnerSpeed     = 0.12
	islandInnerTiles     = 6
	islandHorizonRadius  = 240
	islandHorizonY       = -0.08
	islandSkyDistance    = 60
	islandSunRadius      = 0.6
	islandSunHalo        = 4
	islandMoonRimLight   = 0.35
	islandGlowResolution = 128
)

// IslandOptions configures NewIslandScene.
type IslandOptions struct {
	Width, Height int
	// Scale resizes the floating island group.
	Scale float64
	Day   bool
	// AutoRotate spins the island dome.
	AutoRotate bool
	// Controls enables drag orbiting of the camera.
	Controls bool

	DayParams   SceneParameterSet
	NightParams SceneParameterSet
	Lagoon      LagoonParams
	Swimmer     SwimmerParams
	Palm        PalmOptions
	Dome        DomeParams
	Stars       StarfieldParams
	// MoonTexture maps the moon sphere; nil draws a flat disc color.
	MoonTexture *Texture
}

// DefaultIslandOptions returns the night-time island used on the home page.
func DefaultIslandOptions() IslandOptions {
	return IslandOptions{
		Width:       640,
		Height:      420,
		Scale:       1,
		DayParams:   DayParameters(),
		NightParams: NightParameters(),
		Lagoon:      DefaultLagoonParams(),
		Swimmer:     IslandSwimmerParams(),
		Palm:        DefaultPalmOptions(),
		Dome:        DefaultDomeParams(),
		Stars:       DefaultStarfieldParams(),
	}
}

// IslandScene composes the island diorama: sky, horizon, two lagoons, the
// floating island with its palm, person and swimming turtle. Motion state
// lives in a MotionWorld; the composer reads it after every simulate phase
// and blends lighting through an Environment.
type IslandScene struct {
	Scene  *Scene
	Env    *Environment
	Motion *MotionWorld
	Toggle *DayNightToggle

	outer, inner         *LagoonSurface
	outerNode, innerNode *Node
	horizon              *Node
	sun, sunGlow         *Node
	stars, moon          *Node
	floatGroup, dome     *Node
	palm                 *Palm
	person, turtle       *VoxelRig

	swimmer MotionHandle
	paddle  MotionHandle
	float   MotionHandle

	bubble *SpeechBubble

	autoRotate bool
	controls   bool

	directional [3]DirectionalLight
}

// NewIslandScene builds the scene graph and registers its motion state.
func NewIslandScene(o IslandOptions) *IslandScene {
	if !(o.Scale > 0) {
		o.Scale = 1
	}
	cam := NewOrbitCamera(islandCameraEye, Vec3{}, islandCameraFOV,
		Rect{Width: float64(max(1, o.Width)), Height: float64(max(1, o.Height))})
	sc := &IslandScene{
		Scene:  NewScene(cam),
		Env:    NewEnvironment(o.DayParams, o.NightParams, o.Day),
		Motion: NewMotionWorld(),
		Toggle: NewDayNightToggle(o.Day),
	}
	sc.Toggle.Resize(o.Width, o.Height)
	root := sc.Scene.Root()
	cur := sc.Env.Current()

	sc.buildSky(root, o)

	sc.horizon = NewMesh("horizon", CircleDisc(islandHorizonRadius, 64), Material{Color: cur.Ground})
	sc.horizon.SetPosition(0, islandHorizonY, 0)
	root.AddChild(sc.horizon)

	sc.outer = NewLagoonSurface(o.Lagoon, cur.Lagoon, cur.LagoonSpeed, int(math.Round(cur.LagoonTiles)))
	sc.outerNode = sc.outer.NewNode("lagoon")
	root.AddChild(sc.outerNode)

	sc.floatGroup = NewGroup("float")
	sc.floatGroup.SetUniformScale(o.Scale)
	root.AddChild(sc.floatGroup)
	sc.float = sc.Motion.AddFloater(NewFloater(sc.floatGroup, islandFloat))

	sc.inner = NewLagoonSurface(islandInnerLagoon, Hex("#44aaed"), islandInnerSpeed, islandInnerTiles)
	sc.innerNode = sc.inner.NewNode("inner-lagoon")
	// Lift the inner disc a hair above the outer one so the painter's sort
	// keeps it on top.
	sc.innerNode.SetPosition(0, 0.002, 0)
	sc.floatGroup.AddChild(sc.innerNode)

	island := NewGroup("island")
	island.SetRotation(0, islandGroupRotY, 0)
	sc.floatGroup.AddChild(island)
	sc.buildIsland(island, o)

	sc.SetInteractiveControls(o.Controls)
	sc.SetAutoRotate(o.AutoRotate)
	sc.compose(0)
	logDebug("island scene built", "day", o.Day, "motion", sc.Motion.Len())
	return sc
}

func (sc *IslandScene) buildSky(root *Node, o IslandOptions) {
	sc.sun = NewGroup("sun")
	core := NewMesh("sun-core", Sphere(SphereParams{Radius: islandSunRadius, WidthSegments: 32, HeightSegments: 32}),
		Material{Color: islandSunColor, Unlit: true})
	sc.sunGlow = NewMesh("sun-halo", PlaneGeometry(islandSunHalo, islandSunHalo), Material{
		Color:       ColorWhite,
		Texture:     RadialGradient(islandGlowResolution, SunGlowStops),
		Unlit:       true,
		DoubleSided: true,
	})
	sc.sun.AddChild(sc.sunGlow)
	sc.sun.AddChild(core)
	root.AddChild(sc.sun)

	sc.stars = NewPoints("stars", Starfield(o.Stars), 0.35, Material{Color: ColorWhite, Unlit: true})
	root.AddChild(sc.stars)

	mat := Material{Color: islandMoonColor, Unlit: true}
	if o.MoonTexture != nil {
		mat = Material{Color: ColorWhite, Texture: o.MoonTexture, Unlit: true}
	}
	sc.moon = NewMesh("moon", Sphere(SphereParams{Radius: 1, WidthSegments: 48, HeightSegments: 48}), mat)
	root.AddChild(sc.moon)
}

func (sc *IslandScene) buildIsland(island *Node, o IslandOptions) {
	sc.dome = NewGroup("dome")
	sc.dome.AddChild(NewMesh("dome", IslandDome(o.Dome), Material{Color: islandDomeColor}))
	base := NewMesh("base", IslandBase(o.Dome), Material{Color: islandBaseColor})
	base.SetPosition(0, 0.001, 0)
	sc.dome.AddChild(base)
	island.AddChild(sc.dome)

	rock := NewMesh("rock", Icosahedron(0.06), Material{Color: islandRockColor})
	rock.SetPosition(0.20, 0.35, 0)
	island.AddChild(rock)
	pebble := NewMesh("rock", Icosahedron(0.045), Material{Color: islandRockColor})
	pebble.SetPosition(0.05, 0.35, 0.08)
	island.AddChild(pebble)

	palmSpot := NewGroup("palm-spot")
	palmSpot.SetPosition(0.02, 0.20, -0.02)
	sc.palm = NewPalm(o.Palm)
	palmSpot.AddChild(sc.palm.Root)
	island.AddChild(palmSpot)

	sc.person = NewPerson(DefaultPersonOptions())
	sc.person.Root.SetPosition(0.23, 0.35, -0.01)
	sc.person.Root.SetRotation(0, islandPersonRotY, 0)
	island.AddChild(sc.person.Root)

	sc.turtle = NewTurtle(DefaultTurtleOptions())
	swimmer := NewGroup("swimmer")
	swimmer.AddChild(sc.turtle.Root)
	island.AddChild(swimmer)
	sc.swimmer = sc.Motion.AddSwimmer(NewSwimmer(o.Swimmer), swimmer)
	sc.paddle = sc.Motion.AddRig(NewTurtleAnimator(sc.turtle))
}

// IsDay reports the toggle state.
func (sc *IslandScene) IsDay() bool { return sc.Env.IsDay() }

// SetDayMode switches the target lighting. The change blends over several
// seconds.
func (sc *IslandScene) SetDayMode(day bool) {
	sc.Env.SetDay(day)
	sc.Toggle.Set(day)
}

// ToggleDay flips day and night and returns the new state.
func (sc *IslandScene) ToggleDay() bool {
	day := sc.Env.Toggle()
	sc.Toggle.Set(day)
	return day
}

// SetAutoRotate enables the island's slow spin.
func (sc *IslandScene) SetAutoRotate(on bool) { sc.autoRotate = on }

// SetInteractiveControls enables drag orbiting. While enabled it takes
// precedence over auto-rotation and the camera orbits the island top instead
// of the origin.
func (sc *IslandScene) SetInteractiveControls(on bool) {
	sc.controls = on
	cam := sc.Scene.Camera()
	eye := cam.Eye()
	cam.Interactive = on
	if on {
		cam.Target = islandOrbitTarget
		cam.MaxPolar = islandMaxPolar
	} else {
		cam.Target = Vec3{}
		cam.MaxPolar = math.Pi
	}
	cam.SetEye(eye)
}

// Swimmer returns the turtle's live motion state, or nil once torn down.
func (sc *IslandScene) Swimmer() *Swimmer { return sc.Motion.Swimmer(sc.swimmer) }

// Resize follows the surface size.
func (sc *IslandScene) Resize(w, h int) {
	sc.Scene.Resize(w, h)
	sc.Toggle.Resize(w, h)
}

// HandleClick flips day and night when (x, y) hits the toggle. It reports
// whether the click was consumed.
func (sc *IslandScene) HandleClick(x, y float64) bool {
	if !sc.Toggle.Contains(x, y) {
		return false
	}
	sc.ToggleDay()
	return true
}

// HandleDrag orbits the camera when controls are enabled.
func (sc *IslandScene) HandleDrag(dx, dy float64) {
	if sc.controls {
		sc.Scene.Camera().Drag(dx, dy)
	}
}

// simulate advances every motion state and the lighting blend.
func (sc *IslandScene) simulate(dt float64) {
	sc.Motion.Update(dt)
	sc.Env.Update(dt)
	sc.palm.Update(dt)
	sc.Toggle.Update(dt)
	if sc.bubble != nil {
		sc.bubble.Update(dt)
	}
	if sc.autoRotate && !sc.controls {
		sc.dome.Rotate(0, dt*islandDomeSpin, 0)
	}
	sc.Scene.Camera().Update(dt)
}

// compose writes the blended environment into the scene.
func (sc *IslandScene) compose(dt float64) {
	c := sc.Env.Current()
	sc.Scene.Background = c.Background
	sc.Env.Apply(&sc.Scene.Lighting)

	// Moon rim light fades in with the night.
	copy(sc.directional[:2], sc.Scene.Lighting.Directional)
	m := c.MoonPosition
	sc.directional[2] = DirectionalLight{
		Position:  Vec3{m[0] - 2, m[1] + 1, m[2] + 2},
		Color:     islandMoonRimColor,
		Intensity: islandMoonRimLight * (1 - c.Daylight),
	}
	sc.Scene.Lighting.Directional = sc.directional[:]

	sc.horizon.Material.Color = c.Ground

	sc.outer.Color = c.Lagoon
	sc.outer.Speed = c.LagoonSpeed
	sc.outer.Tiles = c.LagoonTiles
	sc.outer.Update(dt)
	sc.outer.Sync(sc.outerNode)
	sc.inner.Update(dt)
	sc.inner.Sync(sc.innerNode)

	sc.composeSky(c)
	if sc.bubble != nil {
		sc.bubble.Render()
	}
}

func (sc *IslandScene) composeSky(c SceneParameterSet) {
	day := Clamp(c.Daylight, 0, 1)

	dir := c.SunPosition.Normalize()
	sc.sun.Visible = day > 0.01
	sc.sun.Position = dir.Mul(islandSkyDistance)
	sc.sun.MarkDirty()
	// Cylindrical billboard: the halo turns to face the camera around Y.
	eye := sc.Scene.Camera().Eye()
	to := eye.Sub(sc.sun.Position)
	sc.sunGlow.SetRotation(0, math.Atan2(to[0], to[2]), 0)
	sc.sunGlow.Material.Color = Color{1, 1, 1, day}

	sc.stars.Visible = day < 0.99
	sc.stars.Material.Color = Color{1, 1, 1, 1 - day}

	sc.moon.Visible = c.MoonPosition[1] > -10
	sc.moon.SetPosition(c.MoonPosition[0], c.MoonPosition[1], c.MoonPosition[2])
}

// Say shows a speech bubble beside the person that types text out. An empty
// text hides it.
func (sc *IslandScene) Say(text string, o SpeechBubbleOptions) {
	if sc.bubble != nil {
		sc.bubble.Dispose()
		sc.bubble = nil
	}
	if text == "" {
		return
	}
	sc.bubble = NewSpeechBubble(text, o)
	sc.bubble.Render()
}

// Bubble returns the current speech bubble, or nil.
func (sc *IslandScene) Bubble() *SpeechBubble { return sc.bubble }

// Draw renders the scene, the speech bubble and the toggle.
func (sc *IslandScene) Draw(screen *ebiten.Image) {
	sc.Scene.Draw(screen)
	if sc.bubble != nil {
		head := sc.person.Root.LocalToWorld(islandBubbleAnchor)
		if x, y, _, ok := sc.Scene.Camera().Project(head); ok {
			sc.bubble.DrawAt(screen, x, y)
		}
	}
	sc.Toggle.Draw(screen)
}

// Attach wires the scene into s: motion runs in the simulate phase, scene
// writes in the compose phase, and pointer input drives the toggle and the
// camera. It returns a function that detaches everything.
func (sc *IslandScene) Attach(s *Surface) (detach func()) {
	sim := s.Scheduler.Add(PhaseSimulate, sc.simulate)
	comp := s.Scheduler.Add(PhaseCompose, sc.compose)
	click := s.Pointer.OnClick(func(e PointerEvent) { sc.HandleClick(e.X, e.Y) })
	drag := s.Pointer.OnDrag(func(e PointerEvent) { sc.HandleDrag(e.DX, e.DY) })
	resize := s.OnResize(sc.Resize)
	s.SetDrawFunc(sc.Draw)
	return func() {
		sim.Remove()
		comp.Remove()
		click.Remove()
		drag.Remove()
		resize.Remove()
		s.SetDrawFunc(nil)
	}
}

// Dispose drops every motion state and the node tree.
func (sc *IslandScene) Dispose() {
	sc.Motion.Clear()
	sc.Scene.Dispose()
}
