package islet

import (
	"testing"
)

func TestNewGroupDefaults(t *testing.T) {
	n := NewGroup("g")
	if n.Type != NodeTypeGroup {
		t.Errorf("Type = %d, want NodeTypeGroup", n.Type)
	}
	if n.Scale != (Vec3{1, 1, 1}) {
		t.Errorf("Scale = %v, want (1,1,1)", n.Scale)
	}
	if !n.Visible {
		t.Error("Visible = false, want true")
	}
	if n.ID == 0 {
		t.Error("ID = 0, want non-zero")
	}
}

func TestNewMeshPointTopology(t *testing.T) {
	tri := NewMesh("tri", BoxGeometry(1, 1, 1), Basic(ColorWhite))
	if tri.Type != NodeTypeMesh {
		t.Errorf("box Type = %d, want NodeTypeMesh", tri.Type)
	}
	pts := NewMesh("pts", NewPointGeometry([]Vec3{{}, {1, 0, 0}}, nil), Basic(ColorWhite))
	if pts.Type != NodeTypePoints {
		t.Errorf("point geometry Type = %d, want NodeTypePoints", pts.Type)
	}
}

func TestNewPointsDefaultSize(t *testing.T) {
	n := NewPoints("stars", NewPointGeometry([]Vec3{{}}, nil), 0, Basic(ColorWhite))
	if n.PointSize != defaultPointSize {
		t.Errorf("PointSize = %v, want %v", n.PointSize, defaultPointSize)
	}
	n = NewPoints("stars", NewPointGeometry([]Vec3{{}}, nil), 0.5, Basic(ColorWhite))
	if n.PointSize != 0.5 {
		t.Errorf("PointSize = %v, want 0.5", n.PointSize)
	}
}

func TestUniqueIDs(t *testing.T) {
	seen := make(map[uint32]bool)
	for i := 0; i < 100; i++ {
		n := NewGroup("")
		if seen[n.ID] {
			t.Fatalf("duplicate ID %d", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestAddChildReparent(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewGroup("c")
	a.AddChild(c)
	b.AddChild(c)
	if c.Parent != b {
		t.Error("child not reparented")
	}
	if a.NumChildren() != 0 || b.NumChildren() != 1 {
		t.Errorf("children: a=%d b=%d, want 0 and 1", a.NumChildren(), b.NumChildren())
	}
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestAddChildPanics(t *testing.T) {
	root := NewGroup("root")
	child := NewGroup("child")
	root.AddChild(child)
	expectPanic(t, "cycle", func() { child.AddChild(root) })
	expectPanic(t, "self", func() { root.AddChild(root) })
	expectPanic(t, "nil", func() { root.AddChild(nil) })
	expectPanic(t, "index", func() { root.AddChildAt(NewGroup("x"), 5) })
	expectPanic(t, "wrong parent", func() { NewGroup("other").RemoveChild(child) })
}

func TestAddChildAtOrder(t *testing.T) {
	root := NewGroup("root")
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	root.AddChild(a)
	root.AddChild(c)
	root.AddChildAt(b, 1)
	got := ""
	for _, n := range root.Children() {
		got += n.Name
	}
	if got != "abc" {
		t.Errorf("order = %q, want abc", got)
	}
	if root.ChildAt(0) != a {
		t.Error("ChildAt(0) != a")
	}
}

func TestRemoveChildren(t *testing.T) {
	root := NewGroup("root")
	kids := []*Node{NewGroup("a"), NewGroup("b")}
	for _, k := range kids {
		root.AddChild(k)
	}
	root.RemoveChildren()
	if root.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", root.NumChildren())
	}
	for _, k := range kids {
		if k.Parent != nil || k.IsDisposed() {
			t.Errorf("%s: parent=%v disposed=%v", k.Name, k.Parent, k.IsDisposed())
		}
	}
	// No-op without a parent.
	kids[0].RemoveFromParent()
}

func TestFindTagAndTagged(t *testing.T) {
	root := NewGroup("turtle")
	body := NewGroup("body")
	root.AddChild(body)
	for i := 0; i < 4; i++ {
		limb := NewGroup("flipper")
		limb.Tag = TagLimb
		body.AddChild(limb)
	}
	head := NewGroup("head")
	head.Tag = TagHead
	root.AddChild(head)

	if got := root.FindTag(TagHead); got != head {
		t.Errorf("FindTag(head) = %v", got)
	}
	if got := root.FindTag(TagTail); got != nil {
		t.Errorf("FindTag(tail) = %v, want nil", got)
	}
	if got := len(root.Tagged(TagLimb)); got != 4 {
		t.Errorf("Tagged(limb) = %d, want 4", got)
	}
}

func TestWalkSkipsSubtree(t *testing.T) {
	root := NewGroup("root")
	skip := NewGroup("skip")
	root.AddChild(skip)
	skip.AddChild(NewGroup("hidden"))
	root.AddChild(NewGroup("seen"))
	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n != skip
	})
	want := []string{"root", "skip", "seen"}
	if len(names) != len(want) {
		t.Fatalf("walked %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("walked %v, want %v", names, want)
			break
		}
	}
}

func TestDisposeSubtree(t *testing.T) {
	root := NewGroup("root")
	mesh := NewMesh("m", BoxGeometry(1, 1, 1), Basic(ColorWhite))
	leaf := NewGroup("leaf")
	root.AddChild(mesh)
	mesh.AddChild(leaf)
	geo := mesh.Geometry

	mesh.Dispose()
	if !mesh.IsDisposed() || !leaf.IsDisposed() {
		t.Error("subtree not disposed")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed node still attached")
	}
	if mesh.Geometry != nil {
		t.Error("disposed mesh still references geometry")
	}
	// Shared geometry is untouched.
	if geo.VertexCount() != 24 {
		t.Errorf("shared box geometry VertexCount = %d, want 24", geo.VertexCount())
	}
	mesh.Dispose()
}

func TestDebugDisposedPanics(t *testing.T) {
	globalDebug = true
	defer func() { globalDebug = false }()
	n := NewGroup("gone")
	n.Dispose()
	expectPanic(t, "add to disposed", func() { n.AddChild(NewGroup("x")) })
}
