package islet

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Topology describes how a Geometry's vertices are assembled.
type Topology uint8

const (
	TopologyTriangles Topology = iota // indices hold triangle triples
	TopologyPoints                    // each vertex is drawn as a point sprite
)

// Geometry is an immutable vertex/topology buffer produced by a generator.
// Vertex count and topology are fixed at creation; derived geometry (a
// displacement pass, a transform) is always a new Geometry. Values may be
// shared read-only across scenes.
type Geometry struct {
	topology  Topology
	positions []Vec3
	normals   []Vec3
	colors    []Color
	uvs       []Vec2
	indices   []uint32

	boundsMin, boundsMax Vec3
}

// NewGeometry copies positions and indices into a new triangle Geometry and
// computes smooth vertex normals. len(indices) must be a multiple of 3;
// trailing indices are dropped otherwise.
func NewGeometry(positions []Vec3, indices []uint32) *Geometry {
	pos := append([]Vec3(nil), positions...)
	idx := append([]uint32(nil), indices[:len(indices)/3*3]...)
	return newGeometry(TopologyTriangles, pos, idx, nil)
}

// NewPointGeometry copies positions and per-vertex colors into a point
// Geometry. colors may be nil or must match len(positions).
func NewPointGeometry(positions []Vec3, colors []Color) *Geometry {
	pos := append([]Vec3(nil), positions...)
	var cols []Color
	if len(colors) == len(positions) {
		cols = append([]Color(nil), colors...)
	}
	return newGeometry(TopologyPoints, pos, nil, cols)
}

// newGeometry takes ownership of the given slices.
func newGeometry(topo Topology, pos []Vec3, idx []uint32, cols []Color) *Geometry {
	g := &Geometry{topology: topo, positions: pos, indices: idx, colors: cols}
	g.computeBounds()
	if topo == TopologyTriangles {
		g.normals = vertexNormals(pos, idx)
	}
	return g
}

// pointGeometry is a single vertex at the origin, the fallback for degenerate
// generator input.
func pointGeometry() *Geometry {
	return newGeometry(TopologyPoints, []Vec3{{}}, nil, nil)
}

// Topology returns how vertices are assembled.
func (g *Geometry) Topology() Topology { return g.topology }

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.positions) }

// TriangleCount returns the number of triangles (0 for point geometry).
func (g *Geometry) TriangleCount() int { return len(g.indices) / 3 }

// Positions returns the vertex positions. The returned slice MUST NOT be mutated.
func (g *Geometry) Positions() []Vec3 { return g.positions }

// Normals returns smooth vertex normals, or nil for point geometry.
// The returned slice MUST NOT be mutated.
func (g *Geometry) Normals() []Vec3 { return g.normals }

// Colors returns per-vertex colors, or nil. The returned slice MUST NOT be mutated.
func (g *Geometry) Colors() []Color { return g.colors }

// UVs returns per-vertex texture coordinates in [0,1], or nil.
// The returned slice MUST NOT be mutated.
func (g *Geometry) UVs() []Vec2 { return g.uvs }

// Indices returns triangle indices. The returned slice MUST NOT be mutated.
func (g *Geometry) Indices() []uint32 { return g.indices }

// Bounds returns the axis-aligned bounding box.
func (g *Geometry) Bounds() (minV, maxV Vec3) { return g.boundsMin, g.boundsMax }

// Transformed returns a copy with every position multiplied by m.
func (g *Geometry) Transformed(m mgl64.Mat4) *Geometry {
	return g.mapPositions(func(_ int, p Vec3) Vec3 {
		return mgl64.TransformCoordinate(p, m)
	})
}

// WithColor returns a copy with every vertex colored c.
func (g *Geometry) WithColor(c Color) *Geometry {
	out := g.clone()
	out.colors = make([]Color, len(g.positions))
	for i := range out.colors {
		out.colors[i] = c
	}
	return out
}

// WithUVs returns a copy using the given texture coordinates, which must
// match the vertex count. Mismatched input returns g unchanged.
func (g *Geometry) WithUVs(uvs []Vec2) *Geometry {
	if len(uvs) != len(g.positions) {
		return g
	}
	out := g.clone()
	out.uvs = append([]Vec2(nil), uvs...)
	return out
}

// mapPositions builds a new geometry whose positions are fn(i, p). Topology,
// colors and UVs carry over; normals are recomputed.
func (g *Geometry) mapPositions(fn func(i int, p Vec3) Vec3) *Geometry {
	pos := make([]Vec3, len(g.positions))
	for i, p := range g.positions {
		pos[i] = fn(i, p)
	}
	out := newGeometry(g.topology, pos, g.indices, g.colors)
	out.uvs = g.uvs
	return out
}

func (g *Geometry) clone() *Geometry {
	c := *g
	return &c
}

func (g *Geometry) computeBounds() {
	if len(g.positions) == 0 {
		g.boundsMin, g.boundsMax = Vec3{}, Vec3{}
		return
	}
	mn, mx := g.positions[0], g.positions[0]
	for _, p := range g.positions[1:] {
		for k := 0; k < 3; k++ {
			mn[k] = math.Min(mn[k], p[k])
			mx[k] = math.Max(mx[k], p[k])
		}
	}
	g.boundsMin, g.boundsMax = mn, mx
}

// MergeGeometry concatenates triangle geometries, offsetting indices.
// Colors are kept only when every input carries them.
func MergeGeometry(gs ...*Geometry) *Geometry {
	var pos []Vec3
	var idx []uint32
	var cols []Color
	keepColors := true
	for _, g := range gs {
		if g == nil || g.topology != TopologyTriangles {
			continue
		}
		base := uint32(len(pos))
		pos = append(pos, g.positions...)
		for _, i := range g.indices {
			idx = append(idx, base+i)
		}
		if g.colors == nil {
			keepColors = false
		} else {
			cols = append(cols, g.colors...)
		}
	}
	if len(pos) == 0 {
		return pointGeometry()
	}
	if !keepColors {
		cols = nil
	}
	return newGeometry(TopologyTriangles, pos, idx, cols)
}

// vertexNormals accumulates area-weighted face normals per vertex.
func vertexNormals(pos []Vec3, idx []uint32) []Vec3 {
	n := make([]Vec3, len(pos))
	for t := 0; t+2 < len(idx); t += 3 {
		a, b, c := idx[t], idx[t+1], idx[t+2]
		if int(a) >= len(pos) || int(b) >= len(pos) || int(c) >= len(pos) {
			continue
		}
		fn := pos[b].Sub(pos[a]).Cross(pos[c].Sub(pos[a]))
		n[a] = n[a].Add(fn)
		n[b] = n[b].Add(fn)
		n[c] = n[c].Add(fn)
	}
	for i, v := range n {
		if l := v.Len(); l > 1e-12 {
			n[i] = v.Mul(1 / l)
		}
	}
	return n
}

// faceNormal returns the unit normal of triangle (a, b, c) with
// counter-clockwise winding, or +Y for a degenerate triangle.
func faceNormal(a, b, c Vec3) Vec3 {
	fn := b.Sub(a).Cross(c.Sub(a))
	if l := fn.Len(); l > 1e-12 {
		return fn.Mul(1 / l)
	}
	return Vec3{0, 1, 0}
}
