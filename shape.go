package islet

import (
	"math"
	"sort"
)

// DefaultCurveSegments is the number of line segments each curve in a Path is
// flattened into.
const DefaultCurveSegments = 12

// Path is a 2D outline built from line and quadratic curve segments.
type Path struct {
	// CurveSegments overrides DefaultCurveSegments when > 0.
	CurveSegments int

	pts []Vec2
	cur Vec2
}

// MoveTo starts a new outline at (x, y), discarding any previous points.
func (p *Path) MoveTo(x, y float64) *Path {
	p.pts = append(p.pts[:0], Vec2{x, y})
	p.cur = Vec2{x, y}
	return p
}

// LineTo adds a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) *Path {
	p.pts = append(p.pts, Vec2{x, y})
	p.cur = Vec2{x, y}
	return p
}

// QuadTo adds a quadratic Bézier from the current point through control
// point (cx, cy) to (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) *Path {
	n := p.CurveSegments
	if n <= 0 {
		n = DefaultCurveSegments
	}
	p0 := p.cur
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		p.pts = append(p.pts, Vec2{
			X: u*u*p0.X + 2*u*t*cx + t*t*x,
			Y: u*u*p0.Y + 2*u*t*cy + t*t*y,
		})
	}
	p.cur = Vec2{x, y}
	return p
}

// Polygon appends a closed polyline through pts.
func (p *Path) Polygon(pts []Vec2) *Path {
	if len(pts) == 0 {
		return p
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, q := range pts[1:] {
		p.LineTo(q.X, q.Y)
	}
	return p
}

// Points returns the flattened outline without consecutive duplicates or a
// repeated closing point.
func (p *Path) Points() []Vec2 {
	out := make([]Vec2, 0, len(p.pts))
	for _, q := range p.pts {
		if len(out) > 0 && nearVec2(out[len(out)-1], q) {
			continue
		}
		out = append(out, q)
	}
	for len(out) > 1 && nearVec2(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

// Shape is an outer Path with optional hole paths.
type Shape struct {
	Path
	Holes []*Path
}

// NewShape returns an empty shape.
func NewShape() *Shape { return &Shape{} }

// AddHole appends a hole outline and returns it for building.
func (s *Shape) AddHole() *Path {
	h := &Path{CurveSegments: s.CurveSegments}
	s.Holes = append(s.Holes, h)
	return h
}

func nearVec2(a, b Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-10 && math.Abs(a.Y-b.Y) < 1e-10
}

func signedArea(pts []Vec2) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}

func reversed(pts []Vec2) []Vec2 {
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func cross2(o, a, b Vec2) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Triangulate returns counter-clockwise triangles over contour with holes.
// Indices address the concatenation of contour followed by each hole.
// contour must be counter-clockwise and holes clockwise; see orientShape.
func Triangulate(contour []Vec2, holes [][]Vec2) []uint32 {
	if len(contour) < 3 {
		return nil
	}
	all := append([]Vec2(nil), contour...)
	ring := make([]int, len(contour))
	for i := range ring {
		ring[i] = i
	}

	type holeRef struct {
		start, n int
		maxX     float64
	}
	refs := make([]holeRef, 0, len(holes))
	for _, h := range holes {
		if len(h) < 3 {
			continue
		}
		r := holeRef{start: len(all), n: len(h), maxX: math.Inf(-1)}
		for _, p := range h {
			r.maxX = math.Max(r.maxX, p.X)
		}
		all = append(all, h...)
		refs = append(refs, r)
	}
	// Bridge holes right to left so earlier bridges never cross later ones.
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].maxX > refs[j].maxX })
	for _, r := range refs {
		ring = bridgeHole(all, ring, r.start, r.n)
	}
	return earClip(all, ring)
}

// bridgeHole splices the hole at all[start:start+n] into ring through a
// mutually visible vertex pair.
func bridgeHole(all []Vec2, ring []int, start, n int) []int {
	m := start
	for i := start + 1; i < start+n; i++ {
		if all[i].X > all[m].X {
			m = i
		}
	}
	mp := all[m]

	type cand struct {
		pos  int
		dist float64
	}
	var cands []cand
	for k, vi := range ring {
		v := all[vi]
		cands = append(cands, cand{k, (v.X-mp.X)*(v.X-mp.X) + (v.Y-mp.Y)*(v.Y-mp.Y)})
	}
	sort.Slice(cands, func(i, j int) bool {
		ri, rj := all[ring[cands[i].pos]].X >= mp.X, all[ring[cands[j].pos]].X >= mp.X
		if ri != rj {
			return ri
		}
		return cands[i].dist < cands[j].dist
	})

	best := cands[0].pos
	for _, c := range cands {
		if segmentVisible(all, ring, start, n, ring[c.pos], m) {
			best = c.pos
			break
		}
	}

	out := make([]int, 0, len(ring)+n+2)
	out = append(out, ring[:best+1]...)
	for k := 0; k <= n; k++ {
		out = append(out, start+(m-start+k)%n)
	}
	out = append(out, ring[best])
	out = append(out, ring[best+1:]...)
	return out
}

// segmentVisible reports whether segment a-b crosses no edge of the ring or
// of the hole being bridged.
func segmentVisible(all []Vec2, ring []int, hs, hn, a, b int) bool {
	pa, pb := all[a], all[b]
	check := func(i, j int) bool {
		if i == a || i == b || j == a || j == b {
			return true
		}
		return !segmentsCross(pa, pb, all[i], all[j])
	}
	for k := range ring {
		if !check(ring[k], ring[(k+1)%len(ring)]) {
			return false
		}
	}
	for k := 0; k < hn; k++ {
		if !check(hs+k, hs+(k+1)%hn) {
			return false
		}
	}
	return true
}

func segmentsCross(p1, p2, q1, q2 Vec2) bool {
	d1 := cross2(q1, q2, p1)
	d2 := cross2(q1, q2, p2)
	d3 := cross2(p1, p2, q1)
	d4 := cross2(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func earClip(all []Vec2, ring []int) []uint32 {
	idx := make([]uint32, 0, 3*len(ring))
	poly := append([]int(nil), ring...)
	guard := 0
	for len(poly) > 3 && guard < 4*len(ring)*len(ring) {
		guard++
		clipped := false
		for i := range poly {
			p := poly[(i+len(poly)-1)%len(poly)]
			c := poly[i]
			n := poly[(i+1)%len(poly)]
			if !isEar(all, poly, p, c, n) {
				continue
			}
			idx = append(idx, uint32(p), uint32(c), uint32(n))
			poly = append(poly[:i], poly[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Numerically stuck: drop the flattest vertex and continue.
			k := flattestVertex(all, poly)
			poly = append(poly[:k], poly[k+1:]...)
		}
	}
	if len(poly) == 3 && cross2(all[poly[0]], all[poly[1]], all[poly[2]]) > 0 {
		idx = append(idx, uint32(poly[0]), uint32(poly[1]), uint32(poly[2]))
	}
	return idx
}

func isEar(all []Vec2, poly []int, p, c, n int) bool {
	a, b, d := all[p], all[c], all[n]
	if cross2(a, b, d) <= 1e-14 {
		return false
	}
	for _, k := range poly {
		if k == p || k == c || k == n {
			continue
		}
		q := all[k]
		if nearVec2(q, a) || nearVec2(q, b) || nearVec2(q, d) {
			continue
		}
		if cross2(a, b, q) >= 0 && cross2(b, d, q) >= 0 && cross2(d, a, q) >= 0 {
			return false
		}
	}
	return true
}

func flattestVertex(all []Vec2, poly []int) int {
	best, bestArea := 0, math.Inf(1)
	for i := range poly {
		a := all[poly[(i+len(poly)-1)%len(poly)]]
		b := all[poly[i]]
		c := all[poly[(i+1)%len(poly)]]
		if ar := math.Abs(cross2(a, b, c)); ar < bestArea {
			best, bestArea = i, ar
		}
	}
	return best
}

// ExtrudeOptions mirrors the usual extrusion parameters: a body of Depth
// along +Z with optional rounded bevels on both caps.
type ExtrudeOptions struct {
	Depth          float64
	Steps          int
	BevelEnabled   bool
	BevelThickness float64
	BevelSize      float64
	BevelOffset    float64
	BevelSegments  int
}

// orientShape returns a counter-clockwise contour and clockwise holes.
func orientShape(s *Shape) (contour []Vec2, holes [][]Vec2) {
	contour = s.Points()
	if signedArea(contour) < 0 {
		contour = reversed(contour)
	}
	for _, h := range s.Holes {
		pts := h.Points()
		if len(pts) < 3 {
			continue
		}
		if signedArea(pts) > 0 {
			pts = reversed(pts)
		}
		holes = append(holes, pts)
	}
	return contour, holes
}

// bevelVectors returns per-vertex miter vectors pointing away from the solid.
// Their length is 1/cos(half the turn angle), so offsetting by s keeps every
// edge exactly s away from its original line.
func bevelVectors(loop []Vec2) []Vec2 {
	n := len(loop)
	out := make([]Vec2, n)
	for i := range loop {
		prev := loop[(i+n-1)%n]
		cur := loop[i]
		next := loop[(i+1)%n]
		n1 := edgeNormal(prev, cur)
		n2 := edgeNormal(cur, next)
		d := 1 + n1.X*n2.X + n1.Y*n2.Y
		if d < 1e-6 {
			out[i] = n1
			continue
		}
		out[i] = Vec2{(n1.X + n2.X) / d, (n1.Y + n2.Y) / d}
	}
	return out
}

// edgeNormal is the right-hand unit normal of a→b, which points outward for
// a counter-clockwise loop.
func edgeNormal(a, b Vec2) Vec2 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l < 1e-12 {
		return Vec2{}
	}
	return Vec2{dy / l, -dx / l}
}

// Extrude builds a closed solid from s. Degenerate outlines return a point.
func Extrude(s *Shape, o ExtrudeOptions) *Geometry {
	contour, holes := orientShape(s)
	if len(contour) < 3 || math.Abs(signedArea(contour)) < 1e-12 {
		logDebug("extrude: degenerate outline", "points", len(contour))
		return pointGeometry()
	}
	if o.Steps < 1 {
		o.Steps = 1
	}
	if o.BevelSegments < 1 {
		o.BevelSegments = 1
	}

	loops := append([][]Vec2{contour}, holes...)
	var flat, bevel []Vec2
	var loopStart []int
	for _, l := range loops {
		loopStart = append(loopStart, len(flat))
		flat = append(flat, l...)
		bevel = append(bevel, bevelVectors(l)...)
	}
	caps := Triangulate(contour, holes)

	type layer struct{ z, size float64 }
	var layers []layer
	if o.BevelEnabled {
		bs := o.BevelSegments
		for b := 0; b <= bs; b++ {
			t := float64(b) / float64(bs)
			layers = append(layers, layer{
				z:    -o.BevelThickness * math.Cos(t*math.Pi/2),
				size: o.BevelSize*math.Sin(t*math.Pi/2) + o.BevelOffset,
			})
		}
		for st := 1; st <= o.Steps; st++ {
			layers = append(layers, layer{o.Depth * float64(st) / float64(o.Steps), o.BevelSize + o.BevelOffset})
		}
		for b := bs - 1; b >= 0; b-- {
			t := float64(b) / float64(bs)
			layers = append(layers, layer{
				z:    o.Depth + o.BevelThickness*math.Cos(t*math.Pi/2),
				size: o.BevelSize*math.Sin(t*math.Pi/2) + o.BevelOffset,
			})
		}
	} else {
		for st := 0; st <= o.Steps; st++ {
			layers = append(layers, layer{o.Depth * float64(st) / float64(o.Steps), 0})
		}
	}

	nv := len(flat)
	pos := make([]Vec3, 0, nv*len(layers))
	for _, l := range layers {
		for i, p := range flat {
			pos = append(pos, Vec3{p.X + bevel[i].X*l.size, p.Y + bevel[i].Y*l.size, l.z})
		}
	}

	var idx []uint32
	back := uint32((len(layers) - 1) * nv)
	for t := 0; t+2 < len(caps); t += 3 {
		a, b, c := caps[t], caps[t+1], caps[t+2]
		idx = append(idx, c, b, a)
		idx = append(idx, back+a, back+b, back+c)
	}
	for li, l := range loops {
		s0 := loopStart[li]
		for i := range l {
			j := (i + 1) % len(l)
			for k := 0; k+1 < len(layers); k++ {
				a := uint32(k*nv + s0 + i)
				b := uint32(k*nv + s0 + j)
				c := uint32((k+1)*nv + s0 + j)
				d := uint32((k+1)*nv + s0 + i)
				idx = append(idx, a, b, c, a, c, d)
			}
		}
	}
	return newGeometry(TopologyTriangles, pos, idx, nil)
}

// Centered returns a copy translated so its bounding box is centered on the
// origin.
func (g *Geometry) Centered() *Geometry {
	mn, mx := g.Bounds()
	c := mn.Add(mx).Mul(0.5)
	return g.mapPositions(func(_ int, p Vec3) Vec3 { return p.Sub(c) })
}
