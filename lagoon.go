package islet

import (
	"math"
)

// LagoonParams selects a deformed lagoon disc. It is comparable and used as
// the memoization key.
type LagoonParams struct {
	Radius       float64 `toml:"radius" yaml:"radius"`
	Segments     int     `toml:"segments" yaml:"segments"`
	Irregularity float64 `toml:"irregularity" yaml:"irregularity"` // 0 = perfect circle, 1 = rim varies by 10% of Radius
	Seed         float64 `toml:"seed" yaml:"seed"`
}

// DefaultLagoonParams matches the island scene's water disc.
func DefaultLagoonParams() LagoonParams {
	return LagoonParams{Radius: 2, Segments: 128, Irregularity: 1, Seed: 1.7}
}

// Rim harmonics: weights sum to 1 so the deformation never exceeds the
// amplitude.
var (
	rimWeights     = [3]float64{0.40, 0.35, 0.25}
	rimFrequencies = [3]float64{2, 3, 5}
	rimPhaseScale  = [3]float64{1, 1.3, -0.7}
)

const (
	rimAmplitude = 0.1  // fraction of radius at irregularity 1
	rimTolerance = 1e-3 // radius match for rim detection
)

func (p LagoonParams) normalized() LagoonParams {
	if p.Segments < 3 {
		p.Segments = 3
	}
	if math.IsNaN(p.Radius) {
		p.Radius = 0
	}
	if math.IsNaN(p.Irregularity) {
		p.Irregularity = 0
	}
	p.Irregularity = Clamp(p.Irregularity, 0, 1)
	if math.IsNaN(p.Seed) || math.IsInf(p.Seed, 0) {
		p.Seed = 0
	}
	return p
}

var lagoonCache = NewGeometryCache(buildLagoonDisc)

// LagoonDisc returns the deformed disc for p. The disc lies in the XZ plane
// facing +Y: vertex 0 is the center followed by Segments rim vertices (no
// duplicated seam vertex). Identical parameters return the same *Geometry.
//
// A non-positive or NaN radius yields a single point.
func LagoonDisc(p LagoonParams) *Geometry {
	return lagoonCache.Get(p.normalized())
}

// RimOffset returns the radial displacement applied at angle theta.
func (p LagoonParams) RimOffset(theta float64) float64 {
	p = p.normalized()
	var s float64
	for i := range rimWeights {
		s += rimWeights[i] * math.Sin(rimFrequencies[i]*theta+rimPhaseScale[i]*p.Seed)
	}
	return rimAmplitude * p.Radius * p.Irregularity * s
}

func buildLagoonDisc(p LagoonParams) *Geometry {
	if !(p.Radius > 0) || math.IsInf(p.Radius, 0) {
		logDebug("lagoon: degenerate radius, using point", "radius", p.Radius)
		return pointGeometry()
	}
	n := p.Segments
	local := make([]Vec2, n+1)
	uvs := make([]Vec2, n+1)
	uvs[0] = Vec2{0.5, 0.5}
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		x, y := p.Radius*math.Cos(theta), p.Radius*math.Sin(theta)
		local[i+1] = Vec2{x, y}
		uvs[i+1] = Vec2{(x/p.Radius + 1) / 2, (y/p.Radius + 1) / 2}
	}

	// Rim pass: only vertices on the nominal radius move.
	for i, v := range local {
		r := math.Hypot(v.X, v.Y)
		if math.Abs(r-p.Radius) > rimTolerance {
			continue
		}
		theta := math.Atan2(v.Y, v.X)
		scale := (r + p.RimOffset(theta)) / r
		local[i] = Vec2{v.X * scale, v.Y * scale}
	}

	pos := make([]Vec3, n+1)
	for i, v := range local {
		// Lay the XY disc onto XZ so it faces +Y.
		pos[i] = Vec3{v.X, 0, -v.Y}
	}
	idx := make([]uint32, 0, n*3)
	for i := 0; i < n; i++ {
		next := (i+1)%n + 1
		idx = append(idx, 0, uint32(i+1), uint32(next))
	}
	g := newGeometry(TopologyTriangles, pos, idx, nil)
	g.uvs = uvs
	return g
}

// LagoonSurface is the animated water disc: a deformed lagoon with a tiled,
// scrolling normal texture. The texture itself is never regenerated while
// scrolling; only Offset changes.
type LagoonSurface struct {
	Params LagoonParams
	Color  Color
	// Speed scales the scroll rate of the normal texture.
	Speed float64
	// Tiles is the number of texture repeats across the disc. It may be
	// fractional while the environment eases between two values.
	Tiles float64

	// Offset is the current texture scroll in texture units.
	Offset Vec2

	normal *Texture
	ripple *Texture
}

// NewLagoonSurface builds a lagoon using the analytic lagoon normal map.
func NewLagoonSurface(p LagoonParams, c Color, speed float64, tiles int) *LagoonSurface {
	return newSurface(p, c, speed, tiles, LagoonNormalMap(lagoonNormalSize))
}

// NewWaterSurface builds a lagoon whose normals come from the tileable
// height field instead of the analytic lagoon map.
func NewWaterSurface(p LagoonParams, c Color, speed float64, tiles int) *LagoonSurface {
	return newSurface(p, c, speed, tiles, WaterNormalMap(lagoonNormalSize, waterWaves))
}

func newSurface(p LagoonParams, c Color, speed float64, tiles int, normal *Texture) *LagoonSurface {
	if tiles < 1 {
		tiles = 1
	}
	return &LagoonSurface{
		Params: p,
		Color:  c,
		Speed:  speed,
		Tiles:  float64(tiles),
		normal: normal,
		ripple: ShadeNormalMap(normal, rippleLight, rippleBase, rippleGain),
	}
}

const (
	lagoonNormalSize = 128
	waterWaves       = 4
	rippleBase       = 0.8
	rippleGain       = 0.25
)

// rippleLight is the tangent-space light the ripple texture is baked against.
var rippleLight = Vec3{0.35, 0.5, 1}

// Geometry returns the disc geometry for the current parameters.
func (l *LagoonSurface) Geometry() *Geometry { return LagoonDisc(l.Params) }

// NormalMap returns the lagoon's normal texture.
func (l *LagoonSurface) NormalMap() *Texture { return l.normal }

// Update scrolls the normal texture.
func (l *LagoonSurface) Update(dt float64) {
	l.Offset.X += dt * l.Speed * 0.05
	l.Offset.Y += dt * l.Speed * 0.03
	// Keep the offset bounded; the texture repeats every unit.
	l.Offset.X -= math.Floor(l.Offset.X)
	l.Offset.Y -= math.Floor(l.Offset.Y)
}

// Material returns the water material for the current color and scroll.
func (l *LagoonSurface) Material() Material {
	return Material{
		Color:         l.Color,
		Texture:       l.ripple,
		TextureRepeat: l.Tiles,
		TextureOffset: l.Offset,
	}
}

// NewNode returns a mesh node showing the lagoon.
func (l *LagoonSurface) NewNode(name string) *Node {
	return NewMesh(name, l.Geometry(), l.Material())
}

// Sync copies the current geometry and material onto n.
func (l *LagoonSurface) Sync(n *Node) {
	n.Geometry = l.Geometry()
	n.Material = l.Material()
}
