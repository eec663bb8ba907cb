package islet

import "math"

// AmbientLight adds uniform light to every lit surface.
type AmbientLight struct {
	Color     Color
	Intensity float64
}

// DirectionalLight shines from Position toward Target (the origin by default).
type DirectionalLight struct {
	Position  Vec3
	Target    Vec3
	Color     Color
	Intensity float64
}

// Direction returns the unit vector pointing from the surface toward the light.
func (d DirectionalLight) Direction() Vec3 {
	v := d.Position.Sub(d.Target)
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return Vec3{0, 1, 0}
}

// Fog fades distant geometry linearly into Color between Near and Far.
type Fog struct {
	Color     Color
	Near, Far float64
}

// Factor returns the fog blend for a view distance, in [0, 1].
func (f Fog) Factor(dist float64) float64 {
	if f.Far <= f.Near {
		if dist >= f.Far {
			return 1
		}
		return 0
	}
	return Clamp((dist-f.Near)/(f.Far-f.Near), 0, 1)
}

// Lighting is the full light setup of one frame.
type Lighting struct {
	Ambient     []AmbientLight
	Directional []DirectionalLight
	// Environment is a hemispheric fill: sky-facing normals receive the full
	// intensity, ground-facing normals half of it.
	Environment float64
	Fog         *Fog
}

// Shade returns the lit color of a surface with material m and base color
// base, oriented along normal, seen from viewDist away.
func (l *Lighting) Shade(m Material, base Color, normal Vec3, viewDist float64) Color {
	if m.Unlit || l == nil {
		return base
	}
	var r, g, b float64
	for _, a := range l.Ambient {
		r += a.Color.R * a.Intensity
		g += a.Color.G * a.Intensity
		b += a.Color.B * a.Intensity
	}
	if l.Environment > 0 {
		hemi := l.Environment * (0.75 + 0.25*Clamp(normal[1], -1, 1))
		r, g, b = r+hemi, g+hemi, b+hemi
	}
	for _, d := range l.Directional {
		if d.Intensity <= 0 {
			continue
		}
		lambert := math.Max(0, normal.Dot(d.Direction())) * d.Intensity * math.Pi
		r += d.Color.R * lambert
		g += d.Color.G * lambert
		b += d.Color.B * lambert
	}
	out := Color{base.R * r, base.G * g, base.B * b, base.A}
	if e := m.emission(); e != (Color{}) {
		out = out.Add(e)
	}
	out = Color{clamp01(out.R), clamp01(out.G), clamp01(out.B), out.A}
	if l.Fog != nil {
		out = out.Lerp(Color{l.Fog.Color.R, l.Fog.Color.G, l.Fog.Color.B, out.A}, l.Fog.Factor(viewDist))
	}
	return out
}
