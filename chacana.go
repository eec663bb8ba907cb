package islet

import (
	"math"
)

// chacanaOutline is the stepped cross walked clockwise from the left arm, in
// units where each step is 1.
var chacanaOutline = []Vec2{
	{-3, 1}, {-1, 1}, {-1, 3}, {1, 3}, {1, 1}, {3, 1},
	{3, -1}, {1, -1}, {1, -3}, {-1, -3}, {-1, -1}, {-3, -1},
}

// ChacanaHoleHalfSize is the half-width of the square cut from the center.
const ChacanaHoleHalfSize = 0.75

// ChacanaOutline returns a copy of the cross outline scaled by step.
func ChacanaOutline(step float64) []Vec2 {
	out := make([]Vec2, len(chacanaOutline))
	for i, p := range chacanaOutline {
		out[i] = Vec2{p.X * step, p.Y * step}
	}
	return out
}

// ChacanaShape is the cross outline with an optional square hole of the given
// half-size. hole <= 0 leaves the cross solid.
func ChacanaShape(step, hole float64) *Shape {
	s := NewShape()
	s.Polygon(ChacanaOutline(step))
	if hole > 0 {
		s.AddHole().Polygon([]Vec2{{-hole, -hole}, {hole, -hole}, {hole, hole}, {-hole, hole}})
	}
	return s
}

// DefaultEmblemExtrude is the beveled slab of the loading emblem.
var DefaultEmblemExtrude = ExtrudeOptions{
	Depth:          0.7,
	BevelEnabled:   true,
	BevelThickness: 0.18,
	BevelSize:      0.18,
	BevelSegments:  3,
}

var emblemCache = NewGeometryCache(func(o ExtrudeOptions) *Geometry {
	return Extrude(ChacanaShape(1, ChacanaHoleHalfSize), o).Centered()
})

// ChacanaEmblem returns the extruded, beveled cross with its central hole,
// centered on the origin.
func ChacanaEmblem() *Geometry {
	return emblemCache.Get(DefaultEmblemExtrude)
}

// EmblemPose is the emblem's transform and glow at time t.
type EmblemPose struct {
	Rotation          Vec3
	PositionY         float64
	EmissiveIntensity float64
	HueShift          float64
}

// EmblemPoseAt evaluates the emblem's slow spin, tilt, float and pulse.
func EmblemPoseAt(t float64) EmblemPose {
	return EmblemPose{
		Rotation:          Vec3{math.Sin(t*0.35) * 0.15, t * 0.45, 0},
		PositionY:         math.Sin(t*0.8) * 0.08,
		EmissiveIntensity: 0.7 + math.Sin(t*2.2)*0.3,
		HueShift:          math.Sin(t*0.1) * 0.02,
	}
}

// ChacanaPattern is the stepped cross rasterized on a 7×7 grid, row 0 on top.
var ChacanaPattern = [7][7]bool{
	{false, false, true, true, true, false, false},
	{false, true, true, true, true, true, false},
	{true, true, true, true, true, true, true},
	{true, true, true, true, true, true, true},
	{true, true, true, true, true, true, true},
	{false, true, true, true, true, true, false},
	{false, false, true, true, true, false, false},
}

// AndeanPalette runs from the center color outwards to the rim.
var AndeanPalette = []Color{
	Hex("#E5007A"), Hex("#FF3EA5"), Hex("#7A1FA0"), Hex("#FF8A00"), Hex("#FFD54A"),
}

// ChacanaPointsParams configures ChacanaPoints.
type ChacanaPointsParams struct {
	Grid    int     // points per side across the whole pattern
	Size    float64 // world width of the pattern
	Jitter  float64 // max xy displacement per point
	Depth   float64 // z spread
	Palette []Color
	Seed    uint64
}

// DefaultChacanaPointsParams is the background field.
func DefaultChacanaPointsParams() ChacanaPointsParams {
	return ChacanaPointsParams{Grid: 84, Size: 1.2, Jitter: 0.015, Depth: 0.08, Palette: AndeanPalette, Seed: 3}
}

// ChacanaPoints samples a sub-grid of points inside every "on" cell of
// ChacanaPattern. Each point is jittered and colored by its distance from the
// center. An empty palette colors every point white.
func ChacanaPoints(p ChacanaPointsParams) *Geometry {
	if !(p.Size > 0) {
		logDebug("chacana points: non-positive size", "size", p.Size)
		return pointGeometry()
	}
	const n = len(ChacanaPattern)
	sub := max(1, p.Grid/n)
	cell := p.Size / float64(n)
	rng := NewRand(p.Seed)

	var pos []Vec3
	var cols []Color
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !ChacanaPattern[i][j] {
				continue
			}
			for si := 0; si < sub; si++ {
				for sj := 0; sj < sub; sj++ {
					x := (float64(j) + (float64(sj)+0.5)/float64(sub) - float64(n)/2.0) * cell
					y := (float64(n)/2.0 - (float64(i) + (float64(si)+0.5)/float64(sub))) * cell
					z := (rng.Float64() - 0.5) * p.Depth
					pos = append(pos, Vec3{
						x + (rng.Float64()-0.5)*p.Jitter,
						y + (rng.Float64()-0.5)*p.Jitter,
						z,
					})
					t := Clamp(math.Hypot(x, y)/(p.Size*0.5), 0, 1)
					cols = append(cols, paletteAt(p.Palette, int((1-t)*float64(len(p.Palette)-1))))
				}
			}
		}
	}
	return newGeometry(TopologyPoints, pos, nil, cols)
}

func paletteAt(palette []Color, i int) Color {
	if len(palette) == 0 {
		return ColorWhite
	}
	return palette[Clamp(i, 0, len(palette)-1)]
}

// ChacanaBlock is one cell of the block banner.
type ChacanaBlock struct {
	Position   Vec3
	ColorIndex int
}

// ChacanaBlocks lays ChacanaPattern out as size×size blocks centered on the
// origin and returns them with the cell edge length. Color indices count
// from the rim (0) inwards up to paletteLen-1.
func ChacanaBlocks(size float64, paletteLen int) ([]ChacanaBlock, float64) {
	const n = len(ChacanaPattern)
	cell := size / float64(n)
	radius := size * 0.5
	var out []ChacanaBlock
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !ChacanaPattern[i][j] {
				continue
			}
			x := (float64(j) - float64(n)/2.0 + 0.5) * cell
			y := (float64(n)/2.0 - float64(i) - 0.5) * cell
			ci := 0
			if paletteLen > 0 && radius > 0 {
				t := Clamp(math.Hypot(x, y)/radius, 0, 1)
				ci = min(paletteLen-1, int(math.Floor((1-t)*float64(paletteLen))))
			}
			out = append(out, ChacanaBlock{Position: Vec3{x, y, 0}, ColorIndex: ci})
		}
	}
	return out, cell
}

// ChacanaBadgePattern is the small 5×5 badge: 'A' cells take the primary
// color, 'B' the center accent, '.' is empty.
var ChacanaBadgePattern = [5]string{
	".AAA.",
	"AAAAA",
	"AABAA",
	"AAAAA",
	".AAA.",
}

// NewChacanaBadge builds the badge as a group of thin boxes facing +Z, sized
// size across and depth thick, resting on z=0.
func NewChacanaBadge(size, depth float64, a, b Color) *Node {
	g := NewGroup("chacana-badge")
	if !(size > 0) || !(depth > 0) {
		return g
	}
	const n = len(ChacanaBadgePattern)
	cell := size / float64(n)
	for y, row := range ChacanaBadgePattern {
		for x, ch := range row {
			var c Color
			switch ch {
			case 'A':
				c = a
			case 'B':
				c = b
			default:
				continue
			}
			px := (float64(x) - float64(n)/2.0 + 0.5) * cell
			py := (float64(n)/2.0 - float64(y) - 0.5) * cell
			g.AddChild(box("badge-cell", cell*0.95, cell*0.95, depth, c, px, py, depth/2))
		}
	}
	return g
}
