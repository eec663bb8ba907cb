package islet

import (
	"math"
	"math/rand/v2"
)

// NewRand returns a deterministic generator for seed. Every randomized
// generator takes one so output is reproducible.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SphereParams describes a (partial) UV sphere. Zero PhiLength/ThetaLength
// mean a full sweep.
type SphereParams struct {
	Radius         float64
	WidthSegments  int
	HeightSegments int
	PhiStart       float64
	PhiLength      float64
	ThetaStart     float64
	ThetaLength    float64
}

var sphereCache = NewGeometryCache(buildSphere)

// Sphere returns a memoized UV sphere.
func Sphere(p SphereParams) *Geometry {
	if p.WidthSegments < 3 {
		p.WidthSegments = 3
	}
	if p.HeightSegments < 2 {
		p.HeightSegments = 2
	}
	if p.PhiLength == 0 {
		p.PhiLength = 2 * math.Pi
	}
	if p.ThetaLength == 0 {
		p.ThetaLength = math.Pi
	}
	return sphereCache.Get(p)
}

func buildSphere(p SphereParams) *Geometry {
	if !(p.Radius > 0) {
		return pointGeometry()
	}
	ws, hs := p.WidthSegments, p.HeightSegments
	thetaEnd := math.Min(p.ThetaStart+p.ThetaLength, math.Pi)
	pos := make([]Vec3, 0, (ws+1)*(hs+1))
	uvs := make([]Vec2, 0, (ws+1)*(hs+1))
	for iy := 0; iy <= hs; iy++ {
		v := float64(iy) / float64(hs)
		th := p.ThetaStart + v*p.ThetaLength
		for ix := 0; ix <= ws; ix++ {
			u := float64(ix) / float64(ws)
			ph := p.PhiStart + u*p.PhiLength
			pos = append(pos, Vec3{
				-p.Radius * math.Cos(ph) * math.Sin(th),
				p.Radius * math.Cos(th),
				p.Radius * math.Sin(ph) * math.Sin(th),
			})
			uvs = append(uvs, Vec2{u, 1 - v})
		}
	}
	row := uint32(ws + 1)
	var idx []uint32
	for iy := 0; iy < hs; iy++ {
		for ix := 0; ix < ws; ix++ {
			a := uint32(iy)*row + uint32(ix+1)
			b := uint32(iy)*row + uint32(ix)
			c := uint32(iy+1)*row + uint32(ix)
			d := uint32(iy+1)*row + uint32(ix+1)
			if iy != 0 || p.ThetaStart > 0 {
				idx = append(idx, a, b, d)
			}
			if iy != hs-1 || thetaEnd < math.Pi {
				idx = append(idx, b, c, d)
			}
		}
	}
	g := newGeometry(TopologyTriangles, pos, idx, nil)
	g.uvs = uvs
	return g
}

// CircleDisc is a flat disc of the given radius in the XZ plane facing +Y.
func CircleDisc(radius float64, segments int) *Geometry {
	return LagoonDisc(LagoonParams{Radius: radius, Segments: segments})
}

// DomeParams selects an island dome.
type DomeParams struct {
	Radius   float64 `toml:"radius" yaml:"radius"`
	Segments int     `toml:"segments" yaml:"segments"`
	Flatten  float64 `toml:"flatten" yaml:"flatten"`   // vertical scale of the hemisphere
	Jitter   float64 `toml:"jitter" yaml:"jitter"`     // max relative radial noise at the base
	Seed     uint64  `toml:"seed" yaml:"seed"`
}

// DefaultDomeParams is the island's sand dome.
func DefaultDomeParams() DomeParams {
	return DomeParams{Radius: 0.42, Segments: 32, Flatten: 0.85, Jitter: 0.006, Seed: 1}
}

// IslandBase is the flat sand disc under the dome.
func IslandBase(p DomeParams) *Geometry {
	return CircleDisc(p.Radius, p.Segments)
}

var domeCache = NewGeometryCache(buildDome)

// IslandDome returns a flattened, slightly irregular hemisphere. Coincident
// vertices (the UV seam and the pole) receive identical noise so the surface
// stays closed.
func IslandDome(p DomeParams) *Geometry {
	if p.Segments < 3 {
		p.Segments = 3
	}
	if p.Flatten <= 0 {
		p.Flatten = 1
	}
	return domeCache.Get(p)
}

func buildDome(p DomeParams) *Geometry {
	hemi := Sphere(SphereParams{
		Radius:         p.Radius,
		WidthSegments:  p.Segments,
		HeightSegments: p.Segments,
		ThetaLength:    math.Pi / 2,
	})
	if hemi.VertexCount() < 2 {
		return hemi
	}
	rng := NewRand(p.Seed)
	type key [3]int64
	noise := make(map[key]float64)
	top := p.Radius * p.Flatten
	return hemi.mapPositions(func(_ int, v Vec3) Vec3 {
		v[1] *= p.Flatten
		k := key{int64(math.Round(v[0] * 1e6)), int64(math.Round(v[1] * 1e6)), int64(math.Round(v[2] * 1e6))}
		n, ok := noise[k]
		if !ok {
			t := Clamp(v[1]/top, 0, 1)
			n = (rng.Float64() - 0.5) * p.Jitter * (1 - t*0.6)
			noise[k] = n
		}
		return v.Mul(1 + n)
	})
}

// Icosahedron returns a regular icosahedron (detail 0) of the given radius.
func Icosahedron(radius float64) *Geometry {
	if !(radius > 0) {
		return pointGeometry()
	}
	t := (1 + math.Sqrt(5)) / 2
	raw := []Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	pos := make([]Vec3, len(raw))
	for i, v := range raw {
		pos[i] = v.Normalize().Mul(radius)
	}
	idx := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	return newGeometry(TopologyTriangles, pos, idx, nil)
}

// StarfieldParams configures Starfield.
type StarfieldParams struct {
	Radius float64
	Depth  float64
	Count  int
	Seed   uint64
}

// DefaultStarfieldParams is the night sky.
func DefaultStarfieldParams() StarfieldParams {
	return StarfieldParams{Radius: 80, Depth: 40, Count: 6000, Seed: 7}
}

// Starfield scatters Count points on nested shells between Radius and
// Radius+Depth, brightest on the inner shells.
func Starfield(p StarfieldParams) *Geometry {
	if p.Count <= 0 || !(p.Radius > 0) {
		return pointGeometry()
	}
	rng := NewRand(p.Seed)
	pos := make([]Vec3, p.Count)
	cols := make([]Color, p.Count)
	r := p.Radius + p.Depth
	for i := range pos {
		r -= p.Depth / float64(p.Count) * rng.Float64()
		phi := math.Acos(1 - 2*rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		pos[i] = Vec3{
			r * math.Sin(phi) * math.Sin(theta),
			r * math.Cos(phi),
			r * math.Sin(phi) * math.Cos(theta),
		}
		b := 0.6 + 0.4*rng.Float64()
		cols[i] = Color{b, b, b, 1}
	}
	return newGeometry(TopologyPoints, pos, nil, cols)
}
