package islet

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CatmullRom is a centripetal Catmull-Rom spline through Points. The curve is
// open: the end segments use mirrored phantom points.
type CatmullRom struct {
	Points []Vec3

	arcLengths []float64
}

// arcDivisions is the sampling density of the arc-length table.
const arcDivisions = 200

// NewCatmullRom copies pts into a new curve.
func NewCatmullRom(pts []Vec3) *CatmullRom {
	return &CatmullRom{Points: append([]Vec3(nil), pts...)}
}

// Point returns the curve position at parameter t ∈ [0, 1].
func (c *CatmullRom) Point(t float64) Vec3 {
	pts := c.Points
	l := len(pts)
	switch l {
	case 0:
		return Vec3{}
	case 1:
		return pts[0]
	}
	t = Clamp(t, 0, 1)
	p := float64(l-1) * t
	i := int(math.Floor(p))
	w := p - float64(i)
	if i >= l-1 {
		i, w = l-2, 1
	}

	var p0, p3 Vec3
	if i > 0 {
		p0 = pts[i-1]
	} else {
		p0 = pts[0].Mul(2).Sub(pts[1])
	}
	p1, p2 := pts[i], pts[i+1]
	if i+2 < l {
		p3 = pts[i+2]
	} else {
		p3 = pts[l-1].Mul(2).Sub(pts[l-2])
	}

	dt0 := math.Pow(p0.Sub(p1).LenSqr(), 0.25)
	dt1 := math.Pow(p1.Sub(p2).LenSqr(), 0.25)
	dt2 := math.Pow(p2.Sub(p3).LenSqr(), 0.25)
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}
	var out Vec3
	for k := 0; k < 3; k++ {
		out[k] = nonuniformCR(p0[k], p1[k], p2[k], p3[k], dt0, dt1, dt2, w)
	}
	return out
}

func nonuniformCR(x0, x1, x2, x3, dt0, dt1, dt2, w float64) float64 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1
	c0, c1 := x1, t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2
	return c0 + c1*w + c2*w*w + c3*w*w*w
}

func (c *CatmullRom) lengths() []float64 {
	if c.arcLengths != nil {
		return c.arcLengths
	}
	c.arcLengths = make([]float64, arcDivisions+1)
	prev := c.Point(0)
	for i := 1; i <= arcDivisions; i++ {
		cur := c.Point(float64(i) / arcDivisions)
		c.arcLengths[i] = c.arcLengths[i-1] + cur.Sub(prev).Len()
		prev = cur
	}
	return c.arcLengths
}

// Length returns the approximate arc length.
func (c *CatmullRom) Length() float64 {
	ls := c.lengths()
	return ls[len(ls)-1]
}

// uToT maps an arc-length fraction u to the curve parameter t.
func (c *CatmullRom) uToT(u float64) float64 {
	ls := c.lengths()
	total := ls[len(ls)-1]
	if total == 0 {
		return u
	}
	target := Clamp(u, 0, 1) * total
	lo, hi := 0, len(ls)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if ls[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if ls[lo] == target || lo == 0 {
		return float64(lo) / arcDivisions
	}
	before := ls[lo-1]
	seg := ls[lo] - before
	frac := 0.0
	if seg > 0 {
		frac = (target - before) / seg
	}
	return (float64(lo-1) + frac) / arcDivisions
}

// PointAt returns the point at arc-length fraction u.
func (c *CatmullRom) PointAt(u float64) Vec3 { return c.Point(c.uToT(u)) }

// TangentAt returns the unit tangent at arc-length fraction u.
func (c *CatmullRom) TangentAt(u float64) Vec3 {
	const delta = 1e-4
	t := c.uToT(u)
	t1, t2 := math.Max(0, t-delta), math.Min(1, t+delta)
	d := c.Point(t2).Sub(c.Point(t1))
	if l := d.Len(); l > 0 {
		return d.Mul(1 / l)
	}
	return Vec3{0, 1, 0}
}

// frames computes parallel-transport frames at segments+1 evenly spaced
// arc-length positions.
func (c *CatmullRom) frames(segments int) (tangents, normals, binormals []Vec3) {
	tangents = make([]Vec3, segments+1)
	normals = make([]Vec3, segments+1)
	binormals = make([]Vec3, segments+1)
	for i := range tangents {
		tangents[i] = c.TangentAt(float64(i) / float64(segments))
	}

	t0 := tangents[0]
	axis := Vec3{1, 0, 0}
	mn := math.Abs(t0[0])
	if a := math.Abs(t0[1]); a <= mn {
		mn, axis = a, Vec3{0, 1, 0}
	}
	if a := math.Abs(t0[2]); a <= mn {
		axis = Vec3{0, 0, 1}
	}
	v := t0.Cross(axis).Normalize()
	normals[0] = t0.Cross(v)
	binormals[0] = t0.Cross(normals[0])

	for i := 1; i <= segments; i++ {
		normals[i] = normals[i-1]
		ax := tangents[i-1].Cross(tangents[i])
		if ax.Len() > 1e-12 {
			ax = ax.Normalize()
			theta := math.Acos(Clamp(tangents[i-1].Dot(tangents[i]), -1, 1))
			normals[i] = mgl64.HomogRotate3D(theta, ax).Mul4x1(normals[i].Vec4(0)).Vec3()
		}
		binormals[i] = tangents[i].Cross(normals[i])
	}
	return tangents, normals, binormals
}

// Tube sweeps a circle of radius along the curve.
func Tube(c *CatmullRom, tubular int, radius float64, radial int) *Geometry {
	if len(c.Points) < 2 || !(radius > 0) {
		return pointGeometry()
	}
	tubular = max(tubular, 1)
	radial = max(radial, 3)
	_, normals, binormals := c.frames(tubular)

	pos := make([]Vec3, 0, (tubular+1)*(radial+1))
	for i := 0; i <= tubular; i++ {
		p := c.PointAt(float64(i) / float64(tubular))
		n, b := normals[i], binormals[i]
		for j := 0; j <= radial; j++ {
			v := float64(j) / float64(radial) * 2 * math.Pi
			s, co := math.Sin(v), -math.Cos(v)
			dir := n.Mul(co).Add(b.Mul(s))
			pos = append(pos, p.Add(dir.Mul(radius)))
		}
	}
	idx := make([]uint32, 0, tubular*radial*6)
	row := uint32(radial + 1)
	for j := 1; j <= tubular; j++ {
		for i := 1; i <= radial; i++ {
			a := row*uint32(j-1) + uint32(i-1)
			b := row*uint32(j) + uint32(i-1)
			cc := row*uint32(j) + uint32(i)
			d := row*uint32(j-1) + uint32(i)
			idx = append(idx, a, b, d, b, cc, d)
		}
	}
	return newGeometry(TopologyTriangles, pos, idx, nil)
}

// LeafBend controls the post-extrusion displacement of a leaf blade.
type LeafBend struct {
	Droop     float64 // z offset at the tip, applied as -Droop*t²
	TipTaper  float64 // width multiplier at the tip
	Serration float64 // edge wave amplitude at the base
	Frequency float64 // edge wave count along the blade
}

// DefaultLeafBend is the palm leaf's bend.
var DefaultLeafBend = LeafBend{Droop: 0.35, TipTaper: 0.6, Serration: 0.012, Frequency: 14}

// Bend applies the droop/taper/serration pass to g by each vertex's
// normalized height t along Y.
func (b LeafBend) Bend(g *Geometry) *Geometry {
	mn, mx := g.Bounds()
	span := mx[1] - mn[1]
	if span <= 0 {
		return g
	}
	return g.mapPositions(func(_ int, v Vec3) Vec3 {
		t := (v[1] - mn[1]) / span
		v[2] += -b.Droop * t * t
		v[0] *= Lerp(1, b.TipTaper, t)
		v[0] += sign(v[0]) * math.Sin(t*math.Pi*b.Frequency) * b.Serration * (1 - t)
		return v
	})
}

// LeafShape is the palm leaf outline: a pointed blade 1.28 units long.
func LeafShape() *Shape {
	s := NewShape()
	s.MoveTo(0, 0)
	s.QuadTo(0.28, 0.15, 0.12, 0.72)
	s.QuadTo(0.06, 0.98, 0, 1.28)
	s.QuadTo(-0.06, 0.98, -0.12, 0.72)
	s.QuadTo(-0.28, 0.15, 0, 0)
	return s
}

var leafCache = NewGeometryCache(func(b LeafBend) *Geometry {
	g := Extrude(LeafShape(), ExtrudeOptions{
		Depth:          0.012,
		Steps:          1,
		BevelEnabled:   true,
		BevelSegments:  1,
		BevelThickness: 0.008,
		BevelSize:      0.006,
	})
	return b.Bend(g)
})

// LeafGeometry returns the memoized, bent palm leaf.
func LeafGeometry() *Geometry { return leafCache.Get(DefaultLeafBend) }

// TrunkPoints is the palm trunk's centerline.
var TrunkPoints = []Vec3{
	{0, 0, 0},
	{0.03, 0.22, 0.01},
	{0.06, 0.52, 0.03},
	{0.04, 0.9, 0.01},
	{0, 1.18, 0},
}

type trunkKey struct {
	tubular, radial int
	radius          float64
}

var trunkCache = NewGeometryCache(func(k trunkKey) *Geometry {
	g := Tube(NewCatmullRom(TrunkPoints), k.tubular, k.radius, k.radial)
	// Growth rings.
	return g.mapPositions(func(_ int, v Vec3) Vec3 {
		r := 1 + math.Sin(v[1]*18)*0.004
		return Vec3{v[0] * r, v[1], v[2] * r}
	})
})

// TrunkGeometry returns the memoized ringed palm trunk.
func TrunkGeometry() *Geometry {
	return trunkCache.Get(trunkKey{tubular: 120, radial: 10, radius: 0.045})
}

// PalmOptions configures NewPalm.
type PalmOptions struct {
	Leaves     int   `toml:"leaves" yaml:"leaves"`
	AutoRotate bool  `toml:"auto_rotate" yaml:"auto_rotate"`
	TrunkColor Color `toml:"trunk_color" yaml:"trunk_color"`
	LeafColor  Color `toml:"leaf_color" yaml:"leaf_color"`
	RibColor   Color `toml:"rib_color" yaml:"rib_color"`
	NutColor   Color `toml:"nut_color" yaml:"nut_color"`
}

// DefaultPalmOptions matches the island's small palm.
func DefaultPalmOptions() PalmOptions {
	return PalmOptions{
		Leaves:     6,
		TrunkColor: Hex("#6f4c2d"),
		LeafColor:  Hex("#1fbf83"),
		RibColor:   Hex("#bba35b"),
		NutColor:   Hex("#b08a4b"),
	}
}

// Palm is an assembled palm tree.
type Palm struct {
	Root   *Node
	Crown  *Node
	Leaves []*Node

	autoRotate bool
}

// NewPalm assembles trunk, leaf crown and coconuts.
func NewPalm(o PalmOptions) *Palm {
	if o.Leaves < 1 {
		o.Leaves = 1
	}
	root := NewGroup("palm")
	root.SetPosition(0.22, 0, 0)
	root.SetScale(0.9, 0.9, 0.9)

	root.AddChild(NewMesh("trunk", TrunkGeometry(), Material{Color: o.TrunkColor}))

	crown := NewGroup("crown")
	crown.SetPosition(0, 1.2, 0)
	root.AddChild(crown)

	const ring = -0.05
	leaf := LeafGeometry()
	p := &Palm{Root: root, Crown: crown, autoRotate: o.AutoRotate}
	for i := 0; i < o.Leaves; i++ {
		rotY := float64(i) / float64(o.Leaves) * 2 * math.Pi
		tilt := degToRad(18 + float64(i%3))
		scale := 0.7 + float64(i%2)*0.08
		drop := degToRad(40 + float64(i%3)*6)

		arm := NewGroup("leaf-arm")
		arm.SetPosition(math.Sin(rotY)*ring, 0, math.Cos(rotY)*ring)
		arm.SetRotation(0, rotY, 0)
		blade := NewGroup("leaf")
		blade.SetRotation(degToRad(-48)-drop, 0, tilt)
		blade.SetScale(scale, scale, scale)
		blade.AddChild(NewMesh("blade", leaf, Material{Color: o.LeafColor}))
		rib := NewMesh("rib", BoxGeometry(0.019, 0.5*scale, 0.009), Material{Color: o.RibColor})
		rib.SetPosition(0, 0, 0.009)
		blade.AddChild(rib)
		arm.AddChild(blade)
		crown.AddChild(arm)
		p.Leaves = append(p.Leaves, blade)
	}

	nut := Sphere(SphereParams{Radius: 0.065, WidthSegments: 18, HeightSegments: 18})
	n1 := NewMesh("coconut", nut, Material{Color: o.NutColor})
	n1.SetPosition(0.05, -0.06, 0.03)
	crown.AddChild(n1)
	n2 := NewMesh("coconut", Sphere(SphereParams{Radius: 0.049, WidthSegments: 18, HeightSegments: 18}), Material{Color: o.NutColor})
	n2.SetPosition(-0.04, -0.02, -0.02)
	crown.AddChild(n2)
	return p
}

// Update spins the palm when auto-rotation is enabled.
func (p *Palm) Update(dt float64) {
	if p.autoRotate {
		p.Root.Rotate(0, dt*0.35, 0)
	}
}

// SetAutoRotate toggles the palm's own spin.
func (p *Palm) SetAutoRotate(on bool) { p.autoRotate = on }
