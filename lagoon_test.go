package islet

import (
	"math"
	"testing"
)

func rimRadii(g *Geometry) []float64 {
	pos := g.Positions()
	out := make([]float64, 0, len(pos)-1)
	for _, p := range pos[1:] {
		out = append(out, math.Hypot(p[0], p[2]))
	}
	return out
}

func TestLagoonDiscVertexCountAndBounds(t *testing.T) {
	for _, p := range []LagoonParams{
		{Radius: 2, Segments: 128, Irregularity: 1, Seed: 1.7},
		{Radius: 0.5, Segments: 3, Irregularity: 0.5, Seed: -4},
		{Radius: 10, Segments: 64, Irregularity: 0, Seed: 9},
	} {
		g := LagoonDisc(p)
		if g.VertexCount() != p.Segments+1 {
			t.Errorf("%+v: vertices = %d, want %d", p, g.VertexCount(), p.Segments+1)
		}
		if g.TriangleCount() != p.Segments {
			t.Errorf("%+v: triangles = %d, want %d", p, g.TriangleCount(), p.Segments)
		}
		lo := p.Radius * (1 - 0.1*p.Irregularity)
		hi := p.Radius * (1 + 0.1*p.Irregularity)
		for i, r := range rimRadii(g) {
			if r < lo-1e-9 || r > hi+1e-9 {
				t.Errorf("%+v: rim %d radius %v outside [%v, %v]", p, i, r, lo, hi)
			}
		}
		if c := g.Positions()[0]; c != (Vec3{}) {
			t.Errorf("%+v: center = %v, want origin", p, c)
		}
	}
}

func TestLagoonDiscDeterministic(t *testing.T) {
	p := LagoonParams{Radius: 2.4, Segments: 96, Irregularity: 0.8, Seed: 3.3}
	a := buildLagoonDisc(p.normalized())
	b := buildLagoonDisc(p.normalized())
	pa, pb := a.Positions(), b.Positions()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("vertex %d differs: %v vs %v", i, pa[i], pb[i])
		}
	}
	if LagoonDisc(p) != LagoonDisc(p) {
		t.Error("identical parameters should share one geometry")
	}
}

func TestIslandInnerLagoonWithinRimCap(t *testing.T) {
	p := islandInnerLagoon
	if p.normalized().Irregularity != p.Irregularity {
		t.Fatalf("irregularity %v is clamped by the generator", p.Irregularity)
	}
	for _, r := range rimRadii(LagoonDisc(p)) {
		if math.Abs(r-p.Radius) > 0.1*p.Radius*p.Irregularity+1e-9 {
			t.Fatalf("rim radius %v outside the 10%% cap of %v", r, p.Radius)
		}
	}
}

func TestLagoonDiscScenario(t *testing.T) {
	p := LagoonParams{Radius: 3.2, Segments: 200, Irregularity: 0.15, Seed: 0}
	radii := rimRadii(LagoonDisc(p))
	if len(radii) != 200 {
		t.Fatalf("rim vertices = %d, want 200", len(radii))
	}
	var sum, maxDev float64
	for _, r := range radii {
		sum += r
		maxDev = math.Max(maxDev, math.Abs(r-3.2))
	}
	if avg := sum / 200; !approxEqual(avg, 3.2, 1e-3) {
		t.Errorf("average radius = %v, want ~3.2", avg)
	}
	if maxDev > 0.15*0.1*3.2+1e-9 {
		t.Errorf("max deviation = %v, want <= 0.048", maxDev)
	}
}

func TestLagoonDiscIrregularityClamped(t *testing.T) {
	p := LagoonParams{Radius: 1, Segments: 32, Irregularity: 5}
	for _, r := range rimRadii(LagoonDisc(p)) {
		if r > 1.1+1e-9 || r < 0.9-1e-9 {
			t.Fatalf("radius %v exceeds 10%% cap", r)
		}
	}
}

func TestLagoonDiscDegenerate(t *testing.T) {
	for _, p := range []LagoonParams{
		{Radius: 0, Segments: 32},
		{Radius: -1, Segments: 32},
		{Radius: math.NaN(), Segments: 32},
	} {
		g := LagoonDisc(p)
		if g == nil || g.VertexCount() != 1 {
			t.Errorf("%+v: want single-point fallback, got %v vertices", p, g.VertexCount())
		}
	}
	// Too few segments are raised to a triangle.
	if g := LagoonDisc(LagoonParams{Radius: 1, Segments: 0}); g.VertexCount() != 4 {
		t.Errorf("segments 0: vertices = %d, want 4", g.VertexCount())
	}
}

func TestLagoonDiscFacesUp(t *testing.T) {
	g := LagoonDisc(DefaultLagoonParams())
	pos, idx := g.Positions(), g.Indices()
	n := faceNormal(pos[idx[0]], pos[idx[1]], pos[idx[2]])
	if n[1] < 0.99 {
		t.Errorf("disc normal = %v, want +Y", n)
	}
}

func TestLagoonSurfaceScroll(t *testing.T) {
	s := NewLagoonSurface(DefaultLagoonParams(), Hex("#44aaed"), 0.2, 8)
	before := s.Offset
	s.Update(1)
	if s.Offset == before {
		t.Error("offset did not scroll")
	}
}
