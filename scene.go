package islet

import (
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the retained 3D scene: a node tree, the camera looking at it, the
// frame's lighting and the clear color. Composers mutate it once per tick and
// the surface draws it.
type Scene struct {
	root       *Node
	camera     *OrbitCamera
	Lighting   Lighting
	Background Color

	renderer *Renderer
	debug    bool
	last     debugStats
}

// NewScene creates a scene with a pre-created root group and the given camera.
func NewScene(cam *OrbitCamera) *Scene {
	if cam == nil {
		cam = NewOrbitCamera(Vec3{0, 0, 5}, Vec3{}, 50, Rect{Width: 640, Height: 480})
	}
	return &Scene{
		root:       NewGroup("root"),
		camera:     cam,
		Background: ColorBlack,
		renderer:   NewRenderer(),
	}
}

// Root returns the scene's root group.
func (s *Scene) Root() *Node {
	return s.root
}

// Camera returns the scene camera.
func (s *Scene) Camera() *OrbitCamera {
	return s.camera
}

// Resize updates the camera viewport to a w×h surface.
func (s *Scene) Resize(w, h int) {
	s.camera.SetViewport(Rect{Width: float64(w), Height: float64(h)})
}

// Draw clears screen to Background and renders the tree.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.Background.toRGBA())
	s.last = s.renderer.Render(screen, s.root, s.camera, &s.Lighting)
	s.debugLog(s.last)
}

// Dispose tears down the node tree. The scene must not be drawn afterwards.
func (s *Scene) Dispose() {
	s.root.Dispose()
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled {
		getLogger().SetLevel(log.DebugLevel)
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool
