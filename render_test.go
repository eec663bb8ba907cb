package islet

import (
	"testing"
)

// buildCommands runs traversal and sorting without submitting, so no GPU
// image is needed.
func buildCommands(root *Node, lighting *Lighting) []RenderCommand {
	r := NewRenderer()
	r.build(root, testCamera(), lighting)
	r.mergeSort()
	return r.commands
}

func TestRenderBackFaceCulling(t *testing.T) {
	root := NewGroup("root")
	root.AddChild(NewMesh("box", BoxGeometry(1, 1, 1), Basic(ColorWhite)))
	if got := len(buildCommands(root, &Lighting{})); got != 2 {
		t.Errorf("single-sided box: %d triangles, want 2 (front face only)", got)
	}

	root = NewGroup("root")
	m := Basic(ColorWhite)
	m.DoubleSided = true
	root.AddChild(NewMesh("box", BoxGeometry(1, 1, 1), m))
	if got := len(buildCommands(root, &Lighting{})); got != 12 {
		t.Errorf("double-sided box: %d triangles, want 12", got)
	}
}

func TestRenderPointsEmitQuads(t *testing.T) {
	root := NewGroup("root")
	geo := NewPointGeometry([]Vec3{{0, 0, 0}, {0.5, 0, 0}, {0, 0.5, 0}}, nil)
	root.AddChild(NewPoints("stars", geo, 0.05, Material{Color: ColorWhite, Unlit: true}))
	if got := len(buildCommands(root, nil)); got != 6 {
		t.Errorf("3 points: %d triangles, want 6", got)
	}
}

func TestRenderSkipsInvisibleSubtree(t *testing.T) {
	root := NewGroup("root")
	hidden := NewGroup("hidden")
	hidden.Visible = false
	hidden.AddChild(NewMesh("plane", PlaneGeometry(1, 1), Basic(ColorWhite)))
	root.AddChild(hidden)
	if got := len(buildCommands(root, nil)); got != 0 {
		t.Errorf("invisible subtree emitted %d triangles", got)
	}
}

func TestRenderSortsFarToNear(t *testing.T) {
	root := NewGroup("root")
	near := NewMesh("near", PlaneGeometry(1, 1), Material{Color: Color{1, 0, 0, 1}, Unlit: true})
	near.SetPosition(0, 0, 1)
	far := NewMesh("far", PlaneGeometry(1, 1), Material{Color: Color{0, 0, 1, 1}, Unlit: true})
	far.SetPosition(0, 0, -1)
	root.AddChild(near)
	root.AddChild(far)

	cmds := buildCommands(root, nil)
	if len(cmds) != 4 {
		t.Fatalf("commands = %d, want 4", len(cmds))
	}
	for i := 0; i < 2; i++ {
		if cmds[i].verts[0].ColorB != 1 {
			t.Errorf("command %d is not from the far plane", i)
		}
	}
	for i := 1; i < len(cmds); i++ {
		if cmds[i].depth > cmds[i-1].depth {
			t.Errorf("depth not descending at %d: %v > %v", i, cmds[i].depth, cmds[i-1].depth)
		}
	}
}

func TestRenderLayerBeatsDepth(t *testing.T) {
	root := NewGroup("root")
	near := NewMesh("near", PlaneGeometry(1, 1), Material{Color: Color{1, 0, 0, 1}, Unlit: true})
	near.SetPosition(0, 0, 1)
	far := NewMesh("far", PlaneGeometry(1, 1), Material{Color: Color{0, 0, 1, 1}, Unlit: true})
	far.SetPosition(0, 0, -1)
	far.RenderLayer = 1
	root.AddChild(near)
	root.AddChild(far)

	cmds := buildCommands(root, nil)
	if cmds[0].verts[0].ColorR != 1 {
		t.Error("lower layer should draw first regardless of depth")
	}
}

func TestMergeSortStable(t *testing.T) {
	r := NewRenderer()
	depths := []float64{3, 1, 3, 2, 1, 3, 2, 5, 0, 2}
	for i, d := range depths {
		r.commands = append(r.commands, RenderCommand{depth: d, treeOrder: i})
	}
	r.mergeSort()
	for i := 1; i < len(r.commands); i++ {
		a, b := r.commands[i-1], r.commands[i]
		if a.depth < b.depth {
			t.Fatalf("not far-to-near at %d", i)
		}
		if a.depth == b.depth && a.treeOrder > b.treeOrder {
			t.Fatalf("unstable at %d: tree order %d before %d", i, a.treeOrder, b.treeOrder)
		}
	}
}

func TestRenderUnlitKeepsColor(t *testing.T) {
	root := NewGroup("root")
	root.AddChild(NewMesh("plane", PlaneGeometry(1, 1), Material{Color: Color{1, 1, 1, 0.5}, Unlit: true}))
	cmds := buildCommands(root, &Lighting{})
	if len(cmds) == 0 {
		t.Fatal("no commands")
	}
	v := cmds[0].verts[0]
	if v.ColorA != 0.5 || v.ColorR != 0.5 {
		t.Errorf("vertex color = (%v, %v), want premultiplied (0.5, 0.5)", v.ColorR, v.ColorA)
	}
}

func TestLightingShade(t *testing.T) {
	l := &Lighting{
		Ambient:     []AmbientLight{{Color: ColorWhite, Intensity: 0.2}},
		Directional: []DirectionalLight{{Position: Vec3{0, 10, 0}, Color: ColorWhite, Intensity: 0.1}},
	}
	up := l.Shade(Basic(ColorWhite), ColorWhite, Vec3{0, 1, 0}, 1)
	down := l.Shade(Basic(ColorWhite), ColorWhite, Vec3{0, -1, 0}, 1)
	if up.R <= down.R {
		t.Errorf("lit side %v should be brighter than the dark side %v", up.R, down.R)
	}
	assertNear(t, "dark side", down.R, 0.2)

	glow := l.Shade(Glowing(ColorBlack, ColorWhite, 1), ColorBlack, Vec3{0, -1, 0}, 1)
	assertNear(t, "emissive", glow.R, 1)

	l.Fog = &Fog{Color: Color{0, 0, 1, 1}, Near: 1, Far: 2}
	fogged := l.Shade(Basic(ColorWhite), ColorWhite, Vec3{0, 1, 0}, 5)
	assertNear(t, "fogged R", fogged.R, 0)
	assertNear(t, "fogged B", fogged.B, 1)
}
