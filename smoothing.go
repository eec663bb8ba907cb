package islet

// Smoothed eases Value toward Target by exponential smoothing. Factor is the
// per-frame fraction at 60 Hz; Update rescales it for the actual step so the
// settle time does not depend on the frame rate. Value never overshoots.
type Smoothed[T any] struct {
	Value  T
	Target T
	Factor float64

	lerp func(a, b T, t float64) T
}

// NewSmoothedFloat returns a smoothed scalar starting at v.
func NewSmoothedFloat(v, factor float64) *Smoothed[float64] {
	return &Smoothed[float64]{Value: v, Target: v, Factor: factor, lerp: Lerp[float64]}
}

// NewSmoothedColor returns a smoothed color starting at c.
func NewSmoothedColor(c Color, factor float64) *Smoothed[Color] {
	return &Smoothed[Color]{Value: c, Target: c, Factor: factor, lerp: Color.Lerp}
}

// NewSmoothedVec3 returns a smoothed vector starting at v.
func NewSmoothedVec3(v Vec3, factor float64) *Smoothed[Vec3] {
	return &Smoothed[Vec3]{Value: v, Target: v, Factor: factor, lerp: lerpVec3}
}

// Set changes the target; Value keeps easing from where it is.
func (s *Smoothed[T]) Set(target T) { s.Target = target }

// Snap jumps straight to v. Only initialization should need this.
func (s *Smoothed[T]) Snap(v T) {
	s.Value = v
	s.Target = v
}

// Update advances the smoothing by dt seconds and returns the new value.
func (s *Smoothed[T]) Update(dt float64) T {
	s.Value = s.lerp(s.Value, s.Target, SmoothFactor(s.Factor, dt))
	return s.Value
}

// Parallax tilts a node toward a pointer position in [-1, 1]², easing the
// rotation so the response lags the pointer.
type Parallax struct {
	Node      *Node
	Intensity float64 // rotation in radians at the edge of the surface

	rot *Smoothed[Vec3]
}

// NewParallax returns a parallax driver for n.
func NewParallax(n *Node, intensity, factor float64) *Parallax {
	return &Parallax{Node: n, Intensity: intensity, rot: NewSmoothedVec3(n.Rotation, factor)}
}

// Point sets the pointer position: x to the right, y up.
func (p *Parallax) Point(x, y float64) {
	x, y = Clamp(x, -1, 1), Clamp(y, -1, 1)
	t := p.rot.Target
	p.rot.Set(Vec3{y * p.Intensity, x * p.Intensity, t[2]})
}

// Update eases the node's X and Y rotation toward the pointer. Z rotation is
// left for other drivers.
func (p *Parallax) Update(dt float64) {
	p.rot.Target[2] = p.Node.Rotation[2]
	p.rot.Value[2] = p.Node.Rotation[2]
	v := p.rot.Update(dt)
	p.Node.SetRotation(v[0], v[1], p.Node.Rotation[2])
}
