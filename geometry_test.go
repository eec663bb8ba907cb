package islet

import (
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"testing"
)

func triangleArea(pts []Vec2, idx []uint32) (total float64, clockwise int) {
	for i := 0; i+2 < len(idx); i += 3 {
		a := cross2(pts[idx[i]], pts[idx[i+1]], pts[idx[i+2]]) / 2
		if a < 0 {
			clockwise++
		}
		total += math.Abs(a)
	}
	return total, clockwise
}

func TestPathPointsDropDuplicates(t *testing.T) {
	var p Path
	p.MoveTo(0, 0).LineTo(0, 0).LineTo(1, 0).LineTo(1, 1).LineTo(0, 0)
	if got := p.Points(); len(got) != 3 {
		t.Errorf("Points = %v, want 3 distinct points", got)
	}
	p.CurveSegments = 4
	p.MoveTo(0, 0).QuadTo(1, 1, 2, 0)
	pts := p.Points()
	if len(pts) != 5 {
		t.Fatalf("quad flattened into %d points, want 5", len(pts))
	}
	if pts[2] != (Vec2{1, 0.5}) {
		t.Errorf("curve midpoint = %v", pts[2])
	}
}

func TestTriangulateCrossWithHole(t *testing.T) {
	contour, holes := orientShape(ChacanaShape(1, ChacanaHoleHalfSize))
	if signedArea(contour) <= 0 || signedArea(holes[0]) >= 0 {
		t.Fatal("orientShape did not orient contour CCW and hole CW")
	}
	idx := Triangulate(contour, holes)
	all := append(append([]Vec2(nil), contour...), holes[0]...)
	area, cw := triangleArea(all, idx)
	if !approxEqual(area, 17.75, 1e-9) {
		t.Errorf("triangulated area = %v, want 17.75", area)
	}
	if cw != 0 {
		t.Errorf("%d clockwise triangles", cw)
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	if idx := Triangulate([]Vec2{{0, 0}, {1, 0}}, nil); idx != nil {
		t.Errorf("two points triangulated into %v", idx)
	}
}

func TestExtrudeSquare(t *testing.T) {
	s := NewShape()
	s.Polygon([]Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	g := Extrude(s, ExtrudeOptions{Depth: 2})
	if g.VertexCount() != 8 {
		t.Errorf("VertexCount = %d, want 8", g.VertexCount())
	}
	if g.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d, want 12", g.TriangleCount())
	}
	mn, mx := g.Bounds()
	assertVec3(t, "min", mn, Vec3{0, 0, 0}, epsilon)
	assertVec3(t, "max", mx, Vec3{1, 1, 2}, epsilon)

	mn, mx = g.Centered().Bounds()
	assertVec3(t, "centered min", mn, Vec3{-0.5, -0.5, -1}, epsilon)
	assertVec3(t, "centered max", mx, Vec3{0.5, 0.5, 1}, epsilon)
}

func TestExtrudeDegenerate(t *testing.T) {
	s := NewShape()
	s.Polygon([]Vec2{{0, 0}, {1, 1}, {2, 2}})
	if g := Extrude(s, ExtrudeOptions{Depth: 1}); g.Topology() != TopologyPoints || g.VertexCount() != 1 {
		t.Errorf("collinear outline gave %d vertices", g.VertexCount())
	}
}

func TestChacanaEmblemCentered(t *testing.T) {
	g := ChacanaEmblem()
	if g != ChacanaEmblem() {
		t.Error("emblem geometry rebuilt on second call")
	}
	mn, mx := g.Bounds()
	c := mn.Add(mx).Mul(0.5)
	assertVec3(t, "center", c, Vec3{}, 1e-9)
	// Bevel grows the 6-wide cross by BevelSize on each side.
	assertNear(t, "width", mx[0]-mn[0], 6+2*DefaultEmblemExtrude.BevelSize)
	assertNear(t, "depth", mx[2]-mn[2], DefaultEmblemExtrude.Depth+2*DefaultEmblemExtrude.BevelThickness)
}

func TestChacanaOutlineCopy(t *testing.T) {
	a := ChacanaOutline(2)
	a[0] = Vec2{}
	if b := ChacanaOutline(2); b[0] != (Vec2{-6, 2}) {
		t.Errorf("outline shared or mis-scaled: %v", b[0])
	}
}

func TestChacanaPoints(t *testing.T) {
	g := ChacanaPoints(DefaultChacanaPointsParams())
	if g.VertexCount() != 37*144 {
		t.Errorf("VertexCount = %d, want %d", g.VertexCount(), 37*144)
	}
	if len(g.Colors()) != g.VertexCount() {
		t.Error("not every point is colored")
	}
	again := ChacanaPoints(DefaultChacanaPointsParams())
	if again.Positions()[100] != g.Positions()[100] {
		t.Error("same seed produced different points")
	}
	p := DefaultChacanaPointsParams()
	p.Palette = nil
	if c := ChacanaPoints(p).Colors()[0]; c != ColorWhite {
		t.Errorf("empty palette color = %v", c)
	}
	p.Size = 0
	if ChacanaPoints(p).VertexCount() != 1 {
		t.Error("zero size should give the point placeholder")
	}
}

func TestChacanaBlocks(t *testing.T) {
	blocks, cell := ChacanaBlocks(7, len(AndeanPalette))
	if len(blocks) != 37 {
		t.Fatalf("blocks = %d, want 37", len(blocks))
	}
	assertNear(t, "cell", cell, 1)
	for _, b := range blocks {
		if b.Position == (Vec3{}) && b.ColorIndex != len(AndeanPalette)-1 {
			t.Errorf("center block color = %d", b.ColorIndex)
		}
		if b.ColorIndex < 0 || b.ColorIndex >= len(AndeanPalette) {
			t.Errorf("color index %d out of range", b.ColorIndex)
		}
	}
}

func TestChacanaBadge(t *testing.T) {
	g := NewChacanaBadge(1, 0.1, ColorWhite, ColorBlack)
	if n := len(g.Children()); n != 21 {
		t.Errorf("badge cells = %d, want 21", n)
	}
	if len(NewChacanaBadge(0, 0.1, ColorWhite, ColorBlack).Children()) != 0 {
		t.Error("zero-size badge has cells")
	}
}

func TestEmblemPoseAt(t *testing.T) {
	p := EmblemPoseAt(0)
	assertNear(t, "intensity", p.EmissiveIntensity, 0.7)
	assertVec3(t, "rotation", p.Rotation, Vec3{}, epsilon)
	p = EmblemPoseAt(2)
	assertNear(t, "spin", p.Rotation[1], 0.9)
}

func TestPixelSprites(t *testing.T) {
	s := ParseSprite(map[byte]Color{'x': ColorBlack}, []string{"x.", ".x"})
	if s.W != 2 || s.H != 2 || len(s.Palette) != 2 {
		t.Fatalf("sprite = %+v", s)
	}
	if s.At(0, 0, 0) != 1 || s.At(0, 1, 0) != 0 || s.At(3, 1, 1) != 1 {
		t.Error("pixel indices wrong")
	}
	if s.At(0, -1, 0) != 0 {
		t.Error("out of range pixel not transparent")
	}

	condor := CondorSprite()
	if condor.W != 16 || condor.H != 12 || len(condor.Frames) != 2 {
		t.Fatalf("condor sprite %dx%d with %d frames", condor.W, condor.H, len(condor.Frames))
	}
	same := true
	for i := range condor.Frames[0] {
		if condor.Frames[0][i] != condor.Frames[1][i] {
			same = false
		}
	}
	if same {
		t.Error("wing frames are identical")
	}

	c := NewPixelCanvas(8, 8)
	s.Draw(c, 0, 1, 1, 2)
	black := ColorBlack.RGBA8()
	if c.At(1, 1) != black || c.At(2, 2) != black || c.At(3, 1) != transparent {
		t.Error("sprite blit at scale 2 wrong")
	}
}

func TestGeometryCacheSharesBuilds(t *testing.T) {
	var builds atomic.Int32
	c := NewGeometryCache(func(r float64) *Geometry {
		builds.Add(1)
		return Icosahedron(r)
	})
	var wg sync.WaitGroup
	out := make([]*Geometry, 8)
	for i := range out {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = c.Get(1)
		}()
	}
	wg.Wait()
	for _, g := range out {
		if g != out[0] {
			t.Fatal("concurrent Get returned different geometry")
		}
	}
	if builds.Load() != 1 || c.Len() != 1 {
		t.Errorf("builds = %d, Len = %d", builds.Load(), c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Error("Purge left entries")
	}
	if c.Get(1) == out[0] {
		t.Error("Get after Purge returned the old geometry")
	}
}

func TestIslandDomeSeamClosed(t *testing.T) {
	p := DefaultDomeParams()
	p.Jitter = 0.2
	g := IslandDome(p)
	pos := g.Positions()
	row := p.Segments + 1
	for i := 1; i < row; i++ {
		if pos[i] != pos[0] {
			t.Fatalf("pole vertex %d = %v, want %v", i, pos[i], pos[0])
		}
	}
	for iy := 0; iy <= p.Segments; iy++ {
		a, b := pos[iy*row], pos[iy*row+p.Segments]
		if a.Sub(b).Len() > 1e-9 {
			t.Errorf("seam opens at row %d: %v vs %v", iy, a, b)
		}
	}
	_, mx := g.Bounds()
	if mx[1] > p.Radius*p.Flatten*1.1 {
		t.Errorf("dome height = %v", mx[1])
	}
}

func TestIcosahedronOnSphere(t *testing.T) {
	g := Icosahedron(2)
	if g.VertexCount() != 12 || g.TriangleCount() != 20 {
		t.Fatalf("%d vertices, %d triangles", g.VertexCount(), g.TriangleCount())
	}
	for _, p := range g.Positions() {
		assertNear(t, "radius", p.Len(), 2)
	}
}

func TestStarfieldShell(t *testing.T) {
	p := StarfieldParams{Radius: 10, Depth: 5, Count: 200, Seed: 1}
	g := Starfield(p)
	if g.VertexCount() != 200 {
		t.Fatalf("VertexCount = %d", g.VertexCount())
	}
	for _, v := range g.Positions() {
		if l := v.Len(); l < 10-1e-9 || l > 15+1e-9 {
			t.Fatalf("star at radius %v outside the shell", l)
		}
	}
	if Starfield(StarfieldParams{}).VertexCount() != 1 {
		t.Error("empty starfield should give the point placeholder")
	}
}

func TestCatmullRomEndsAndLength(t *testing.T) {
	c := NewCatmullRom([]Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
	assertVec3(t, "start", c.Point(0), Vec3{0, 0, 0}, 1e-9)
	assertVec3(t, "end", c.Point(1), Vec3{2, 0, 0}, 1e-9)
	if !approxEqual(c.Length(), 2, 1e-6) {
		t.Errorf("Length = %v, want 2", c.Length())
	}
	assertVec3(t, "mid", c.PointAt(0.5), Vec3{1, 0, 0}, 1e-3)
	assertVec3(t, "tangent", c.TangentAt(0.5), Vec3{1, 0, 0}, 1e-6)
}

func TestTube(t *testing.T) {
	c := NewCatmullRom([]Vec3{{0, 0, 0}, {0, 1, 0}, {0, 2, 0}})
	g := Tube(c, 8, 0.1, 6)
	for _, v := range g.Positions() {
		if r := math.Hypot(v[0], v[2]); !approxEqual(r, 0.1, 1e-6) {
			t.Fatalf("vertex %v off the tube radius: %v", v, r)
		}
	}
}

func TestHeightFieldTiles(t *testing.T) {
	f := HeightField{Res: 64, Tiles: 3}
	for _, p := range [][2]float64{{0, 0}, {5, 17}, {63, 40}} {
		assertNear(t, "x period", f.Height(p[0], p[1]), f.Height(p[0]+64, p[1]))
		assertNear(t, "y period", f.Height(p[0], p[1]), f.Height(p[0], p[1]+64))
	}
	dx0, dy0 := f.Gradient(0, 10)
	dx1, dy1 := f.Gradient(64, 10)
	if dx0 != dx1 || dy0 != dy1 {
		t.Error("gradient does not wrap")
	}
}

func TestWaterNormalMapSeam(t *testing.T) {
	const res = 32
	nm := WaterNormalMap(res, 2)
	if nm.Width() != res || nm.Height() != res {
		t.Fatalf("size = %dx%d", nm.Width(), nm.Height())
	}
	f := HeightField{Res: res, Tiles: 2}
	// The left edge uses the right column as its neighbor.
	for y := 0; y < res; y++ {
		dx, _ := f.Gradient(0, y)
		want := (f.Height(1, float64(y)) - f.Height(res-1, float64(y))) / 2
		if !approxEqual(dx, want, 1e-12) {
			t.Fatalf("row %d: gradient %v, want %v", y, dx, want)
		}
		if n := unpackNormal(nm.At(0, y)); n[2] <= 0 {
			t.Fatalf("normal at row %d points down: %v", y, n)
		}
	}
}

func TestLagoonNormalWraps(t *testing.T) {
	for _, v := range []float64{0, 0.7, 2, math.Pi, 5.5} {
		ax, ay, az := lagoonNormal(0, v)
		bx, by, bz := lagoonNormal(2*math.Pi, v)
		if !approxEqual(ax, bx, 1e-9) || !approxEqual(ay, by, 1e-9) || !approxEqual(az, bz, 1e-9) {
			t.Errorf("u seam at v=%v: (%v, %v, %v) vs (%v, %v, %v)", v, ax, ay, az, bx, by, bz)
		}
		_, cy, _ := lagoonNormal(v, 0)
		_, dy, _ := lagoonNormal(v, 2*math.Pi)
		if !approxEqual(cy, dy, 1e-9) {
			t.Errorf("v seam at u=%v: %v vs %v", v, cy, dy)
		}
	}
	tex := LagoonNormalMap(16)
	r, g, b := packNormal(lagoonNormal(0, 0))
	if got := tex.At(0, 0); got.R != r || got.G != g || got.B != b {
		t.Errorf("texel (0, 0) = %v", got)
	}
}

func TestPackNormal(t *testing.T) {
	r, g, b := packNormal(0, 0, 0)
	if r != 128 || g != 128 || b != 255 {
		t.Errorf("zero vector packed to (%d, %d, %d)", r, g, b)
	}
	r, g, b = packNormal(1, -2, 2)
	n := unpackNormal(color.RGBA{r, g, b, 255})
	assertVec3(t, "roundtrip", n, Vec3{1.0 / 3, -2.0 / 3, 2.0 / 3}, 0.01)
}

func TestRadialGradient(t *testing.T) {
	tex := RadialGradient(16, []GradientStop{{0, ColorWhite}, {1, Color{1, 1, 1, 0}}})
	center, corner := tex.At(8, 8), tex.At(0, 0)
	if center.A <= corner.A {
		t.Errorf("center alpha %d <= corner alpha %d", center.A, corner.A)
	}
	if corner.A != 0 {
		t.Errorf("corner alpha = %d", corner.A)
	}
	if RadialGradient(4, nil).At(2, 2).A != 0 {
		t.Error("no stops should be transparent")
	}
}
