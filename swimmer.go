package islet

import (
	"math"
)

// SwimmerParams configures an orbital swimmer circling inside a lagoon,
// between the island shore and the outer rim.
type SwimmerParams struct {
	Origin       Vec3    `toml:"origin" yaml:"origin"`               // lagoon center; only X and Z are used
	WaterY       float64 `toml:"water_y" yaml:"water_y"`             // water surface height
	LagoonRadius float64 `toml:"lagoon_radius" yaml:"lagoon_radius"`
	Margin       float64 `toml:"margin" yaml:"margin"`               // outer margin as a fraction of LagoonRadius
	IslandRadius float64 `toml:"island_radius" yaml:"island_radius"`
	InnerMargin  float64 `toml:"inner_margin" yaml:"inner_margin"`   // clearance kept from the island, in world units
	Speed        float64 `toml:"speed" yaml:"speed"`
	Bob          float64 `toml:"bob" yaml:"bob"`                     // vertical bob amplitude
	NoiseAmp     float64 `toml:"noise_amp" yaml:"noise_amp"`         // radial target wander
	NoiseFreq    float64 `toml:"noise_freq" yaml:"noise_freq"`       // radial target wander rate
	Seed         uint64  `toml:"seed" yaml:"seed"`                   // picks the starting angle
}

// DefaultSwimmerParams returns the standalone swimmer defaults.
func DefaultSwimmerParams() SwimmerParams {
	return SwimmerParams{
		LagoonRadius: 2,
		Margin:       0.18,
		IslandRadius: 0.42,
		InnerMargin:  0.25,
		Speed:        0.35,
		Bob:          0.035,
		NoiseAmp:     0.18,
		NoiseFreq:    0.25,
	}
}

// IslandSwimmerParams returns the slower turtle orbit of the island scene.
func IslandSwimmerParams() SwimmerParams {
	p := DefaultSwimmerParams()
	p.InnerMargin = 0.28
	p.Margin = 0.20
	p.Speed = 0.15
	p.Bob = 0.03
	p.NoiseAmp = 0.16
	return p
}

// Spring constants of the radial controller.
const (
	swimmerStiffness   = 4.5
	swimmerDamping     = 2.6
	swimmerBorderForce = 8.0
	swimmerEdgeBand    = 0.15 // fraction of the annulus width
	swimmerTargetInset = 0.05
	swimmerOmegaGain   = 2.2
	swimmerMaxStep     = 1.0 / 120
	swimmerWaterLift   = 0.015
)

// Annulus returns the radii the swimmer is confined to.
func (p SwimmerParams) Annulus() (minR, maxR float64) {
	minR = math.Max(0.05, p.IslandRadius+p.InnerMargin)
	maxR = math.Max(minR+0.05, p.LagoonRadius*(1-p.Margin))
	return minR, maxR
}

// Swimmer integrates a point orbiting at constant angular speed while a
// damped spring pulls its radius toward a slowly wandering target. The state
// fields are exported so callers can snapshot or restore a swimmer; only
// Update should advance them.
type Swimmer struct {
	Params SwimmerParams

	Theta float64 // angle around the lagoon, radians
	R     float64 // distance from the lagoon center
	VR    float64 // radial velocity
	Clock float64 // seconds simulated so far

	minR, maxR float64
}

// NewSwimmer returns a swimmer resting on the middle of its annulus at an
// angle chosen from p.Seed.
func NewSwimmer(p SwimmerParams) *Swimmer {
	s := &Swimmer{Params: p}
	s.minR, s.maxR = p.Annulus()
	s.R = (s.minR + s.maxR) * 0.5
	s.Theta = NewRand(p.Seed).Float64() * 2 * math.Pi
	return s
}

// Annulus returns the radii the swimmer is confined to.
func (s *Swimmer) Annulus() (minR, maxR float64) {
	return s.minR, s.maxR
}

// Target returns the radius the spring is pulling toward at the current clock.
func (s *Swimmer) Target() float64 {
	base := (s.minR + s.maxR) * 0.5
	noise := math.Sin(s.Clock*s.Params.NoiseFreq) * s.Params.NoiseAmp
	lo, hi := s.minR+swimmerTargetInset, s.maxR-swimmerTargetInset
	if lo > hi {
		return base
	}
	return Clamp(base+noise, lo, hi)
}

// Update advances the swimmer by dt seconds. Long frames are split into
// steps of at most 1/120 s so the spring behaves the same at any frame rate.
// Non-positive dt is ignored.
func (s *Swimmer) Update(dt float64) {
	if !(dt > 0) {
		return
	}
	for dt > 0 {
		h := math.Min(dt, swimmerMaxStep)
		s.step(h)
		dt -= h
	}
}

func (s *Swimmer) step(dt float64) {
	omega := s.Params.Speed / math.Max(1e-4, s.Params.LagoonRadius) * swimmerOmegaGain
	s.Theta = math.Mod(s.Theta+omega*dt, 2*math.Pi)
	s.Clock += dt

	target := s.Target()
	r, vr := s.R, s.VR
	border := 0.0
	edge := swimmerEdgeBand * (s.maxR - s.minR)
	switch {
	case r < s.minR+edge:
		border += (1 - Clamp((r-s.minR)/edge, 0, 1)) * swimmerBorderForce
	case r > s.maxR-edge:
		border -= (1 - Clamp((s.maxR-r)/edge, 0, 1)) * swimmerBorderForce
	}
	a := swimmerStiffness*(target-r) - swimmerDamping*vr + border
	vr += a * dt
	r += vr * dt

	if r < s.minR {
		r = s.minR
		vr = math.Max(0, vr)
	}
	if r > s.maxR {
		r = s.maxR
		vr = math.Min(0, vr)
	}
	s.R, s.VR = r, vr
}

// SwimmerPose is a swimmer's world placement.
type SwimmerPose struct {
	Position Vec3
	Yaw      float64
}

// Pose returns the current position and heading. The swimmer bobs twice per
// lap and faces along its direction of travel.
func (s *Swimmer) Pose() SwimmerPose {
	sin, cos := math.Sincos(s.Theta)
	o := s.Params.Origin
	return SwimmerPose{
		Position: Vec3{
			o[0] + s.R*cos,
			s.Params.WaterY + swimmerWaterLift + math.Sin(2*s.Theta)*s.Params.Bob,
			o[2] + s.R*sin,
		},
		Yaw: math.Atan2(-s.R*sin, s.R*cos),
	}
}

// Apply places n at the current pose.
func (s *Swimmer) Apply(n *Node) {
	p := s.Pose()
	n.SetPosition(p.Position[0], p.Position[1], p.Position[2])
	n.SetRotation(0, p.Yaw, 0)
}
