package islet

import (
	"math"
	"testing"
)

func TestLocalTransformIdentity(t *testing.T) {
	n := NewGroup("n")
	assertVec3(t, "origin", n.LocalToWorld(Vec3{1, 2, 3}), Vec3{1, 2, 3}, epsilon)
}

func TestLocalTransformOrder(t *testing.T) {
	// Scale first, then rotate, then translate.
	n := NewGroup("n")
	n.SetScale(2, 2, 2)
	n.SetRotation(0, math.Pi/2, 0)
	n.SetPosition(10, 0, 0)
	// (1,0,0) -> (2,0,0) -> rotated about Y by 90° -> (0,0,-2) -> (10,0,-2)
	assertVec3(t, "point", n.LocalToWorld(Vec3{1, 0, 0}), Vec3{10, 0, -2}, 1e-9)
}

func TestWorldTransformParentChild(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	parent.SetPosition(1, 0, 0)
	parent.SetUniformScale(2)
	child.SetPosition(0, 1, 0)
	assertVec3(t, "child world", child.WorldPosition(), Vec3{1, 2, 0}, epsilon)
}

func TestWorldMatrixFollowsParentChange(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	child.SetPosition(0, 1, 0)
	assertVec3(t, "before", child.WorldPosition(), Vec3{0, 1, 0}, epsilon)

	parent.SetPosition(5, 0, 0)
	assertVec3(t, "after", child.WorldPosition(), Vec3{5, 1, 0}, epsilon)

	// Direct field edits need MarkDirty.
	parent.Position = Vec3{0, 0, 7}
	parent.MarkDirty()
	assertVec3(t, "marked", child.WorldPosition(), Vec3{0, 1, 7}, epsilon)
}

func TestUpdateWorldMatchesWorldMatrix(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewGroup("b")
	root.AddChild(a)
	a.AddChild(b)
	root.SetRotation(0, 0, math.Pi/2)
	a.SetPosition(1, 0, 0)
	b.SetPosition(1, 0, 0)
	root.UpdateWorld()
	if b.transformDirty || a.transformDirty {
		t.Error("UpdateWorld left nodes dirty")
	}
	got := b.worldTransform.Col(3).Vec3()
	assertVec3(t, "b", got, Vec3{0, 2, 0}, 1e-9)
}

func TestRotateAccumulates(t *testing.T) {
	n := NewGroup("n")
	n.Rotate(0.1, 0, 0)
	n.Rotate(0.2, 0.5, 0)
	assertVec3(t, "rotation", n.Rotation, Vec3{0.3, 0.5, 0}, 1e-12)
}

func TestWorldToLocalRoundtrip(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	parent.SetPosition(3, -2, 1)
	parent.SetRotation(0.3, 0.7, -0.2)
	child.SetScale(2, 0.5, 1.5)
	child.SetPosition(0.5, 0.5, 0.5)

	p := Vec3{1.25, -4, 2}
	back := child.WorldToLocal(child.LocalToWorld(p))
	assertVec3(t, "roundtrip", back, p, 1e-9)
}

func TestWorldToLocalSingular(t *testing.T) {
	n := NewGroup("flat")
	n.SetScale(1, 0, 1)
	p := Vec3{1, 2, 3}
	assertVec3(t, "singular", n.WorldToLocal(p), p, 0)
}
