package islet

import (
	"math"

	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

// Clamp limits v to [lo, hi].
func Clamp[T number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly between a and b.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// SmoothFactor converts a per-frame smoothing factor tuned at 60 Hz into the
// equivalent factor for a step of dt seconds: 1-(1-f)^(dt*60).
// The result is always in [0, 1], so a smoothing step never overshoots.
func SmoothFactor(f, dt float64) float64 {
	f = Clamp(f, 0, 1)
	if dt <= 0 {
		return 0
	}
	if f == 1 {
		return 1
	}
	return 1 - math.Pow(1-f, dt*60)
}

// sign returns -1 for negative v and 1 otherwise, matching the convention that
// vertices on the axis are pushed to the positive side.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180
}

func lerpVec3(a, b Vec3, t float64) Vec3 {
	return Vec3{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t, a[2] + (b[2]-a[2])*t}
}
