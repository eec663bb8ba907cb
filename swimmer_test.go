package islet

import (
	"math"
	"testing"
)

func TestSwimmerAnnulus(t *testing.T) {
	p := DefaultSwimmerParams()
	minR, maxR := p.Annulus()
	assertNear(t, "minR", minR, 0.67)
	if !approxEqual(maxR, 1.64, 1e-9) {
		t.Errorf("maxR = %v, want 1.64", maxR)
	}
}

func TestSwimmerAnnulusDegenerate(t *testing.T) {
	p := SwimmerParams{LagoonRadius: 0.1, IslandRadius: 1}
	minR, maxR := p.Annulus()
	if maxR <= minR {
		t.Errorf("annulus collapsed: [%v, %v]", minR, maxR)
	}
}

func TestSwimmerStaysInAnnulus(t *testing.T) {
	p := DefaultSwimmerParams()
	p.Speed = 0.15
	s := NewSwimmer(p)
	minR, maxR := s.Annulus()
	for i := 0; i < 1000; i++ {
		s.Update(1.0 / 60)
		if s.R < minR || s.R > maxR {
			t.Fatalf("tick %d: r = %v outside [%v, %v]", i, s.R, minR, maxR)
		}
	}
}

func TestSwimmerStaysInAnnulusUnderKicks(t *testing.T) {
	s := NewSwimmer(DefaultSwimmerParams())
	minR, maxR := s.Annulus()
	dts := []float64{0.001, 0.5, 1.0 / 30, 0.25, 2, 1.0 / 144}
	for i := 0; i < 600; i++ {
		if i%50 == 0 {
			// Large outward and inward velocity spikes.
			s.VR = 20 * math.Pow(-1, float64(i/50))
		}
		s.Update(dts[i%len(dts)])
		if s.R < minR || s.R > maxR {
			t.Fatalf("step %d: r = %v outside [%v, %v]", i, s.R, minR, maxR)
		}
	}
}

func TestSwimmerFrameRateIndependence(t *testing.T) {
	a := NewSwimmer(DefaultSwimmerParams())
	b := NewSwimmer(DefaultSwimmerParams())
	a.R, b.R = 1.2, 1.2
	a.VR, b.VR = 0.3, 0.3
	a.Theta, b.Theta = 1, 1

	a.Update(0.1)
	for i := 0; i < 10; i++ {
		b.Update(0.01)
	}
	if !approxEqual(a.R, b.R, 1e-3) {
		t.Errorf("r: one 100ms step = %v, ten 10ms steps = %v", a.R, b.R)
	}
	if !approxEqual(a.VR, b.VR, 1e-2) {
		t.Errorf("vr: %v vs %v", a.VR, b.VR)
	}
	if !approxEqual(a.Theta, b.Theta, 1e-9) {
		t.Errorf("theta: %v vs %v", a.Theta, b.Theta)
	}
	if !approxEqual(a.Clock, b.Clock, 1e-9) {
		t.Errorf("clock: %v vs %v", a.Clock, b.Clock)
	}
}

func TestSwimmerIgnoresNonPositiveDt(t *testing.T) {
	s := NewSwimmer(DefaultSwimmerParams())
	before := *s
	s.Update(0)
	s.Update(-1)
	s.Update(math.NaN())
	if *s != before {
		t.Error("state changed on non-positive dt")
	}
}

func TestSwimmerContinuous(t *testing.T) {
	s := NewSwimmer(DefaultSwimmerParams())
	prev := s.Pose().Position
	for i := 0; i < 600; i++ {
		s.Update(1.0 / 60)
		cur := s.Pose().Position
		if d := cur.Sub(prev).Len(); d > 0.05 {
			t.Fatalf("tick %d: jumped %v", i, d)
		}
		prev = cur
	}
}

func TestSwimmerSeedPicksAngle(t *testing.T) {
	p := DefaultSwimmerParams()
	a := NewSwimmer(p)
	b := NewSwimmer(p)
	if a.Theta != b.Theta {
		t.Error("same seed, different start angle")
	}
	p.Seed = 99
	if c := NewSwimmer(p); c.Theta == a.Theta {
		t.Error("different seed, same start angle")
	}
}

func TestSwimmerPoseOnCircle(t *testing.T) {
	p := DefaultSwimmerParams()
	p.Origin = Vec3{1, 0, -2}
	s := NewSwimmer(p)
	s.Update(0.5)
	pos := s.Pose().Position
	r := math.Hypot(pos[0]-1, pos[2]+2)
	if !approxEqual(r, s.R, 1e-9) {
		t.Errorf("pose radius = %v, want %v", r, s.R)
	}
}
