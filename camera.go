package islet

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// orbitAnim holds active orbit-to tweens for azimuth and polar angle.
type orbitAnim struct {
	azimuth *gween.Tween
	polar   *gween.Tween
	doneA   bool
	doneP   bool
}

// OrbitCamera is a perspective camera orbiting Target at a fixed distance.
// It is driven by pointer drags when Interactive is set, and by OrbitTo
// animations otherwise.
type OrbitCamera struct {
	Target Vec3
	// FOV is the vertical field of view in degrees.
	FOV       float64
	Near, Far float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	// MinPolar and MaxPolar bound the angle from +Y, in radians.
	MinPolar, MaxPolar float64
	// RotateSpeed is radians of orbit per pixel of drag.
	RotateSpeed float64
	// Damping is the per-frame (60 Hz) decay of drag momentum, in (0, 1].
	Damping float64
	// Interactive enables drag orbiting.
	Interactive bool

	azimuth, polar, distance float64
	azVel, polVel            float64

	orbit *orbitAnim

	view, proj mgl64.Mat4
	dirty      bool
}

// NewOrbitCamera places a camera at eye looking at target.
func NewOrbitCamera(eye, target Vec3, fov float64, viewport Rect) *OrbitCamera {
	c := &OrbitCamera{
		Target:      target,
		FOV:         fov,
		Near:        0.1,
		Far:         2000,
		Viewport:    viewport,
		MinPolar:    0,
		MaxPolar:    math.Pi,
		RotateSpeed: 2 * math.Pi / 1000,
		Damping:     0.05,
		dirty:       true,
	}
	c.SetEye(eye)
	return c
}

// SetEye moves the camera to eye, keeping Target.
func (c *OrbitCamera) SetEye(eye Vec3) {
	off := eye.Sub(c.Target)
	c.distance = off.Len()
	if c.distance == 0 {
		c.distance = 1
		off = Vec3{0, 0, 1}
	}
	c.polar = math.Acos(Clamp(off[1]/c.distance, -1, 1))
	c.azimuth = math.Atan2(off[0], off[2])
	c.dirty = true
}

// Eye returns the camera position in world space.
func (c *OrbitCamera) Eye() Vec3 {
	sp := math.Sin(c.polar)
	return c.Target.Add(Vec3{
		c.distance * sp * math.Sin(c.azimuth),
		c.distance * math.Cos(c.polar),
		c.distance * sp * math.Cos(c.azimuth),
	})
}

// Angles returns the current azimuth and polar angle in radians.
func (c *OrbitCamera) Angles() (azimuth, polar float64) { return c.azimuth, c.polar }

// Distance returns the orbit radius.
func (c *OrbitCamera) Distance() float64 { return c.distance }

// SetViewport updates the render rectangle after a resize.
func (c *OrbitCamera) SetViewport(r Rect) {
	if r != c.Viewport {
		c.Viewport = r
		c.dirty = true
	}
}

// Drag applies a pointer drag of (dx, dy) pixels. Ignored unless Interactive.
// A drag cancels any running OrbitTo animation.
func (c *OrbitCamera) Drag(dx, dy float64) {
	if !c.Interactive {
		return
	}
	c.orbit = nil
	c.azVel -= dx * c.RotateSpeed
	c.polVel -= dy * c.RotateSpeed
}

// OrbitTo animates the camera to the given angles over duration seconds.
func (c *OrbitCamera) OrbitTo(azimuth, polar float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	c.orbit = &orbitAnim{
		azimuth: gween.New(float32(c.azimuth), float32(azimuth), duration, easeFn),
		polar:   gween.New(float32(c.polar), float32(polar), duration, easeFn),
	}
}

// Update advances drag momentum and orbit animations by dt seconds.
func (c *OrbitCamera) Update(dt float64) {
	prevA, prevP := c.azimuth, c.polar

	if c.orbit != nil {
		if !c.orbit.doneA {
			v, done := c.orbit.azimuth.Update(float32(dt))
			c.azimuth = float64(v)
			c.orbit.doneA = done
		}
		if !c.orbit.doneP {
			v, done := c.orbit.polar.Update(float32(dt))
			c.polar = float64(v)
			c.orbit.doneP = done
		}
		if c.orbit.doneA && c.orbit.doneP {
			c.orbit = nil
		}
	}

	if c.azVel != 0 || c.polVel != 0 {
		k := SmoothFactor(c.Damping, dt)
		c.azimuth += c.azVel * k
		c.polar += c.polVel * k
		c.azVel -= c.azVel * k
		c.polVel -= c.polVel * k
		if math.Abs(c.azVel) < 1e-6 && math.Abs(c.polVel) < 1e-6 {
			c.azVel, c.polVel = 0, 0
		}
	}

	c.polar = Clamp(c.polar, math.Max(c.MinPolar, 1e-6), math.Min(c.MaxPolar, math.Pi-1e-6))

	if c.azimuth != prevA || c.polar != prevP {
		c.dirty = true
	}
}

func (c *OrbitCamera) computeMatrices() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.view = mgl64.LookAtV(c.Eye(), c.Target, Vec3{0, 1, 0})
	aspect := 1.0
	if c.Viewport.Height > 0 {
		aspect = c.Viewport.Width / c.Viewport.Height
	}
	c.proj = mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewMatrix returns the world-to-camera matrix.
func (c *OrbitCamera) ViewMatrix() mgl64.Mat4 {
	c.computeMatrices()
	return c.view
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() mgl64.Mat4 {
	c.computeMatrices()
	return c.proj
}

// Project maps a world point to screen coordinates. depth is the distance
// along the view axis; ok is false for points behind the near plane.
func (c *OrbitCamera) Project(p Vec3) (sx, sy, depth float64, ok bool) {
	c.computeMatrices()
	v := c.view.Mul4x1(p.Vec4(1))
	depth = -v[2]
	if depth < c.Near {
		return 0, 0, depth, false
	}
	clip := c.proj.Mul4x1(v)
	if clip[3] == 0 {
		return 0, 0, depth, false
	}
	nx, ny := clip[0]/clip[3], clip[1]/clip[3]
	sx = c.Viewport.X + (nx+1)/2*c.Viewport.Width
	sy = c.Viewport.Y + (1-ny)/2*c.Viewport.Height
	return sx, sy, depth, true
}

// PixelsPerUnit returns how many screen pixels one world unit spans at depth.
func (c *OrbitCamera) PixelsPerUnit(depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return c.Viewport.Height / (2 * depth * math.Tan(mgl64.DegToRad(c.FOV)/2))
}

// MarkDirty forces a recomputation of the view and projection matrices.
func (c *OrbitCamera) MarkDirty() {
	c.dirty = true
}
