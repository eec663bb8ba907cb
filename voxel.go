package islet

import (
	"math"
)

// Tags used by voxel rigs. Simulators look limbs up by tag, never by child
// position.
const (
	TagLimb   = "limb"
	TagHead   = "head"
	TagTail   = "tail"
	TagScreen = "screen"
)

var boxCache = NewGeometryCache(buildBox)

// BoxGeometry returns a memoized axis-aligned box centered at the origin.
// Each face has its own four vertices so faces shade flat.
func BoxGeometry(w, h, d float64) *Geometry {
	return boxCache.Get([3]float64{w, h, d})
}

func buildBox(size [3]float64) *Geometry {
	if !(size[0] > 0) || !(size[1] > 0) || !(size[2] > 0) {
		return pointGeometry()
	}
	hx, hy, hz := size[0]/2, size[1]/2, size[2]/2
	// Each face: normal axis, and the two in-plane axes (u, v) such that
	// u × v points along the normal.
	faces := [6]struct{ n, u, v Vec3 }{
		{Vec3{1, 0, 0}, Vec3{0, 0, -1}, Vec3{0, 1, 0}},
		{Vec3{-1, 0, 0}, Vec3{0, 0, 1}, Vec3{0, 1, 0}},
		{Vec3{0, 1, 0}, Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{Vec3{0, -1, 0}, Vec3{1, 0, 0}, Vec3{0, 0, 1}},
		{Vec3{0, 0, 1}, Vec3{1, 0, 0}, Vec3{0, 1, 0}},
		{Vec3{0, 0, -1}, Vec3{-1, 0, 0}, Vec3{0, 1, 0}},
	}
	half := Vec3{hx, hy, hz}
	scale := func(v Vec3) Vec3 { return Vec3{v[0] * half[0], v[1] * half[1], v[2] * half[2]} }
	pos := make([]Vec3, 0, 24)
	uvs := make([]Vec2, 0, 24)
	idx := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(pos))
		c := scale(f.n)
		u, v := scale(f.u), scale(f.v)
		pos = append(pos,
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		)
		uvs = append(uvs, Vec2{0, 0}, Vec2{1, 0}, Vec2{1, 1}, Vec2{0, 1})
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}
	g := newGeometry(TopologyTriangles, pos, idx, nil)
	g.uvs = uvs
	return g
}

// PlaneGeometry returns a w×h quad in the XY plane facing +Z.
func PlaneGeometry(w, h float64) *Geometry {
	if !(w > 0) || !(h > 0) {
		return pointGeometry()
	}
	hw, hh := w/2, h/2
	g := newGeometry(TopologyTriangles,
		[]Vec3{{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0}},
		[]uint32{0, 1, 2, 0, 2, 3}, nil)
	g.uvs = []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	return g
}

// box is a convenience for a colored box mesh at (x, y, z).
func box(name string, w, h, d float64, c Color, x, y, z float64) *Node {
	n := NewMesh(name, BoxGeometry(w, h, d), Material{Color: c})
	n.SetPosition(x, y, z)
	return n
}

// VoxelRig is a character assembled from boxes. Limbs, Head and Tail are the
// tagged handles animators drive.
type VoxelRig struct {
	Root  *Node
	Limbs []*Node
	Head  *Node
	Tail  *Node
	// Screen is the emissive laptop display of a seated person, if any.
	Screen *Node

	// LimbPhase holds a phase offset per limb, in Limbs order.
	LimbPhase []float64
	Scale     float64
	// BaseY is the rest height of Root.
	BaseY float64
}

// Dispose removes the rig from the tree.
func (r *VoxelRig) Dispose() {
	r.Root.Dispose()
	r.Limbs, r.Head, r.Tail, r.Screen = nil, nil, nil, nil
}

// TurtleOptions configures NewTurtle.
type TurtleOptions struct {
	Scale     float64
	Shell     Color
	Skin      Color
	Underside Color
}

// DefaultTurtleOptions returns the island turtle.
func DefaultTurtleOptions() TurtleOptions {
	return TurtleOptions{
		Scale:     0.22,
		Shell:     Hex("#2c7a4b"),
		Skin:      Hex("#8fbf7a"),
		Underside: Hex("#c9a66b"),
	}
}

// NewTurtle builds a voxel turtle facing +Z with four tagged flippers.
func NewTurtle(o TurtleOptions) *VoxelRig {
	s := o.Scale
	if !(s > 0) {
		s = 1
	}
	root := NewGroup("turtle")

	shell := NewGroup("shell")
	shell.AddChild(box("shell", 0.7*s, 0.18*s, 0.9*s, o.Shell, 0, 0.12*s, 0))
	shell.AddChild(box("shell", 0.6*s, 0.18*s, 0.8*s, o.Shell, 0, 0.2*s, 0))
	shell.AddChild(box("shell", 0.4*s, 0.18*s, 0.6*s, o.Shell, 0, 0.3*s, 0))
	shell.AddChild(box("plastron", 0.68*s, 0.06*s, 0.86*s, o.Underside, 0, 0.03*s, 0))
	root.AddChild(shell)

	head := NewGroup("head")
	head.Tag = TagHead
	head.SetPosition(0, 0.10*s, 0.52*s)
	head.AddChild(box("head", 0.18*s, 0.18*s, 0.22*s, o.Skin, 0, 0, 0))
	eye := Hex("#111")
	head.AddChild(box("eye", 0.03*s, 0.03*s, 0.01*s, eye, -0.07*s, 0.03*s, 0.07*s))
	head.AddChild(box("eye", 0.03*s, 0.03*s, 0.01*s, eye, 0.07*s, 0.03*s, 0.07*s))
	root.AddChild(head)

	rig := &VoxelRig{Root: root, Head: head, Scale: s}
	// front-left, front-right, back-left, back-right
	legs := [4][2]float64{{-1, 1}, {1, 1}, {-1, -1}, {1, -1}}
	for i, l := range legs {
		leg := NewGroup("flipper")
		leg.Tag = TagLimb
		leg.SetPosition(l[0]*0.28*s, 0.02*s, l[1]*0.28*s)
		leg.AddChild(box("flipper", 0.14*s, 0.08*s, 0.24*s, o.Skin, 0, 0, 0))
		root.AddChild(leg)
		rig.Limbs = append(rig.Limbs, leg)
		rig.LimbPhase = append(rig.LimbPhase, float64(i+2))
	}

	tail := box("tail", 0.06*s, 0.06*s, 0.12*s, o.Skin, 0, 0.06*s, -0.52*s)
	tail.Tag = TagTail
	root.AddChild(tail)
	rig.Tail = tail
	return rig
}

// DogOptions configures NewDog.
type DogOptions struct {
	Scale  float64
	Body   Color
	Ear    Color
	Muzzle Color
	Eye    Color
}

// DefaultDogOptions returns the tan voxel dog.
func DefaultDogOptions() DogOptions {
	return DogOptions{
		Scale:  1,
		Body:   Hex("#caa27a"),
		Ear:    Hex("#8a6747"),
		Muzzle: Hex("#e8d0b0"),
		Eye:    Hex("#111111"),
	}
}

// NewDog builds a voxel dog facing +X.
func NewDog(o DogOptions) *VoxelRig {
	s := o.Scale
	if !(s > 0) {
		s = 1
	}
	root := NewGroup("dog")
	root.AddChild(box("body", 0.55*s, 0.28*s, 0.30*s, o.Body, 0, 0.22*s, 0))

	rig := &VoxelRig{Root: root, Scale: s}
	for i, l := range [4][2]float64{{-1, 1}, {1, 1}, {-1, -1}, {1, -1}} {
		leg := box("leg", 0.10*s, 0.20*s, 0.10*s, o.Body, l[0]*0.20*s, 0.10*s, l[1]*0.12*s)
		leg.Tag = TagLimb
		root.AddChild(leg)
		rig.Limbs = append(rig.Limbs, leg)
		rig.LimbPhase = append(rig.LimbPhase, float64(i)*math.Pi/2)
	}
	root.AddChild(box("neck", 0.10*s, 0.12*s, 0.10*s, o.Body, 0.24*s, 0.28*s, 0))

	head := NewGroup("head")
	head.Tag = TagHead
	head.SetPosition(0.36*s, 0.28*s, 0)
	head.AddChild(box("head", 0.22*s, 0.22*s, 0.22*s, o.Body, 0, 0, 0))
	head.AddChild(box("ear", 0.06*s, 0.10*s, 0.06*s, o.Ear, -0.10*s, 0.14*s, 0))
	head.AddChild(box("ear", 0.06*s, 0.10*s, 0.06*s, o.Ear, 0.10*s, 0.14*s, 0))
	head.AddChild(box("muzzle", 0.12*s, 0.10*s, 0.16*s, o.Muzzle, 0.13*s, -0.02*s, 0))
	head.AddChild(box("nose", 0.04*s, 0.04*s, 0.06*s, Hex("#222"), 0.20*s, -0.02*s, 0))
	head.AddChild(box("eye", 0.03*s, 0.03*s, 0.01*s, o.Eye, 0.05*s, 0.04*s, 0.08*s))
	head.AddChild(box("eye", 0.03*s, 0.03*s, 0.01*s, o.Eye, 0.05*s, 0.04*s, -0.08*s))
	root.AddChild(head)
	rig.Head = head

	tail := box("tail", 0.16*s, 0.06*s, 0.06*s, o.Body, -0.30*s, 0.28*s, 0)
	tail.Tag = TagTail
	root.AddChild(tail)
	rig.Tail = tail
	return rig
}

// PersonOptions configures NewPerson.
type PersonOptions struct {
	Scale           float64
	ScreenColor     Color
	ScreenIntensity float64
	Skin            Color
	Shirt           Color
	Pants           Color
	BadgeA, BadgeB  Color
}

// DefaultPersonOptions returns the seated developer of the island scene.
func DefaultPersonOptions() PersonOptions {
	return PersonOptions{
		Scale:           0.9,
		ScreenColor:     Hex("#8BE9FD"),
		ScreenIntensity: 1.7,
		Skin:            Hex("#f1c27d"),
		Shirt:           Hex("#3994a4"),
		Pants:           Hex("#06df02"),
		BadgeA:          Hex("#00d2e5"),
		BadgeB:          Hex("#ff530a"),
	}
}

// NewPerson builds a seated voxel person holding a laptop, facing +Z.
func NewPerson(o PersonOptions) *VoxelRig {
	root := NewGroup("person")
	if o.Scale > 0 {
		root.SetUniformScale(o.Scale)
	}
	rig := &VoxelRig{Root: root, Scale: o.Scale}

	for _, sx := range []float64{-1, 1} {
		root.AddChild(box("thigh", 0.06, 0.035, 0.12, o.Pants, sx*0.035, 0.055, 0.055))
		calf := box("calf", 0.05, 0.11, 0.04, o.Skin, sx*0.035, 0, 0.096)
		calf.Tag = TagLimb
		root.AddChild(calf)
		rig.Limbs = append(rig.Limbs, calf)
		rig.LimbPhase = append(rig.LimbPhase, 0)
	}

	torso := NewGroup("torso")
	torso.SetPosition(0, 0.13, 0.02)
	torso.SetRotation(-0.15, 0, 0)
	torso.AddChild(box("torso", 0.12, 0.13, 0.07, o.Shirt, 0, 0, 0))
	badge := NewChacanaBadge(0.05, 0.002*o.Scale, o.BadgeA, o.BadgeB)
	badge.SetPosition(0, 0.02, 0.04)
	torso.AddChild(badge)
	root.AddChild(torso)

	neck := NewGroup("neck")
	neck.SetPosition(0, 0.20, 0.01)
	neck.SetRotation(0.02, 0, 0)
	neck.AddChild(box("neck", 0.05, 0.02, 0.07, o.Skin, 0, 0, 0))
	root.AddChild(neck)

	ho := DefaultHeadOptions()
	ho.Mouth = true
	ho.Eye = Hex("#141414")
	head := NewBlockHead(ho)
	head.SetPosition(0, 0.27, 0.03)
	root.AddChild(head)
	rig.Head = head

	for _, sx := range []float64{-1, 1} {
		arm := box("arm", 0.037, 0.09, 0.04, o.Skin, sx*0.08, 0.15, 0.031)
		arm.SetRotation(-0.8, 0, 0)
		root.AddChild(arm)
	}
	lh := box("hand", 0.04, 0.029, 0.063, o.Skin, -0.076, 0.117, 0.080)
	lh.SetRotation(0, 0.1, 0)
	rh := box("hand", 0.04, 0.029, 0.063, o.Skin, 0.076, 0.117, 0.085)
	rh.SetRotation(0, -0.1, 0)
	root.AddChild(lh)
	root.AddChild(rh)

	laptop := NewGroup("laptop")
	laptop.SetPosition(0, 0.08, 0.09)
	laptop.SetRotation(-0.25, 0, 0)
	laptop.AddChild(box("keyboard", 0.14, 0.006, 0.09, Hex("#202833"), 0, 0, 0))

	lid := NewGroup("lid")
	lid.SetPosition(0, 0.045, 0.06)
	lid.SetRotation(math.Pi/1.5, 0, 0)
	lid.AddChild(box("lid", 0.18, 0.006, 0.09, Hex("#2a3a4a"), 0, 0, 0))
	logo := NewChacanaBadge(0.05, 0.002*o.Scale, o.BadgeA, o.BadgeB)
	logo.SetPosition(0, 0.004, 0.003)
	logo.SetRotation(math.Pi/1.99, 0, 0)
	lid.AddChild(logo)
	screen := NewMesh("display", PlaneGeometry(0.13, 0.08), Glowing(Hex("#0b1220"), o.ScreenColor, o.ScreenIntensity))
	screen.Tag = TagScreen
	screen.SetPosition(0, -0.004, 0)
	screen.SetRotation(-math.Pi/2, 0, 0)
	lid.AddChild(screen)
	laptop.AddChild(lid)
	root.AddChild(laptop)
	rig.Screen = screen
	return rig
}

// HeadOptions configures NewBlockHead.
type HeadOptions struct {
	Scale                 float64
	Skin, Eye, Ear        Color
	Mouth                 bool
	Hat, Hair, Beard      bool
	HatColor, Brim        Color
	HairColor, BeardColor Color
	BadgeA, BadgeB        Color
}

// DefaultHeadOptions is a capped, bearded block head.
func DefaultHeadOptions() HeadOptions {
	return HeadOptions{
		Scale:      1,
		Skin:       Hex("#f1c27d"),
		Eye:        Hex("#111111"),
		Ear:        Hex("#e7b97b"),
		Hat:        true,
		Hair:       true,
		Beard:      true,
		HatColor:   Hex("#111827"),
		Brim:       Hex("#0f172a"),
		HairColor:  Hex("#2b2b2b"),
		BeardColor: Hex("#2b2b2b"),
		BadgeA:     Hex("#E5007A"),
		BadgeB:     Hex("#7A1FA0"),
	}
}

// NewBlockHead builds a cube head with ears, eyes and optional mouth, hair,
// beard and a cap carrying a small chacana badge.
func NewBlockHead(o HeadOptions) *Node {
	k := o.Scale
	if !(k > 0) {
		k = 1
	}
	s := 0.12 * k
	half := s / 2
	eye := 0.018 * k
	eyeZ := half + 0.0015
	mouthY := -0.02 * k

	g := NewGroup("head")
	g.Tag = TagHead
	g.AddChild(box("skull", s, s, s, o.Skin, 0, 0, 0))

	earW, earH, earD := 0.022*k, 0.028*k, 0.02*k
	earX := half + earW/2 - 0.002
	g.AddChild(box("ear", earW, earH, earD, o.Ear, -earX, 0, 0))
	g.AddChild(box("ear", earW, earH, earD, o.Ear, earX, 0, 0))

	for _, sx := range []float64{-1, 1} {
		e := NewMesh("eye", PlaneGeometry(eye, eye), Material{Color: o.Eye, DoubleSided: true})
		e.SetPosition(sx*0.028*k, 0.015*k, eyeZ)
		g.AddChild(e)
	}
	if o.Mouth {
		m := NewMesh("mouth", PlaneGeometry(0.036*k, 0.008*k), Material{Color: Hex("#3a2c24"), DoubleSided: true})
		m.SetPosition(0, mouthY, eyeZ)
		g.AddChild(m)
	}

	capInset := 0.002 * k
	if o.Hair {
		hairThick := 0.012 * k
		sideW, sideH := 0.022*k, 0.055*k
		sideX := half - sideW/2 - capInset
		g.AddChild(box("hair", sideW, sideH, s*0.9, o.HairColor, -sideX, 0, 0))
		g.AddChild(box("hair", sideW, sideH, s*0.9, o.HairColor, sideX, 0, 0))
		g.AddChild(box("nape", s*0.98, 0.06*k, hairThick, o.HairColor, 0, -(sideH/2)+0.005*k, -half+hairThick/2+0.001))
		g.AddChild(box("fringe", s*0.7, hairThick, hairThick, o.HairColor, 0, 0.02*k, half-hairThick/2-0.002))
	}
	if o.Beard {
		thick, w, h := 0.008*k, 0.09*k, 0.04*k
		z := half + thick/2 - 0.0005
		g.AddChild(box("beard", w*0.9, h, thick, o.BeardColor, 0, mouthY-h/2-0.004*k, z))
		g.AddChild(box("cheek", w*0.25, h*0.7, thick, o.BeardColor, -w*0.55, mouthY-h/4, z))
		g.AddChild(box("cheek", w*0.25, h*0.7, thick, o.BeardColor, w*0.55, mouthY-h/4, z))
	}
	if o.Hat {
		capH := 0.045 * k
		brimDepth, brimThick := 0.06*k, 0.01*k
		capY := half - capH/2 + 0.002
		g.AddChild(box("cap", s+0.004*k, capH, s+0.004*k, o.HatColor, 0, capY, 0))
		g.AddChild(box("brim", s*0.8, brimThick, brimDepth, o.Brim, 0, capY-capH/2+0.002*k, half+brimDepth/2-0.003*k))
		badge := NewChacanaBadge(0.022*k, 0.002*k, o.BadgeA, o.BadgeB)
		badge.SetPosition(0, capY+capH*0.1, half+0.001)
		g.AddChild(badge)
	}
	return g
}
