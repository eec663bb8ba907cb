package islet

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec3(t *testing.T, name string, got, want Vec3, eps float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}
