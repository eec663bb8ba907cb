package islet

import "math"

// Oscillator is a closed-form sine of time: Offset + Amplitude·sin(Frequency·t + Phase).
type Oscillator struct {
	Amplitude float64
	Frequency float64 // radians per second
	Phase     float64
	Offset    float64
}

// At evaluates the oscillator at t seconds.
func (o Oscillator) At(t float64) float64 {
	return o.Offset + o.Amplitude*math.Sin(o.Frequency*t+o.Phase)
}

// FloatParams configures the slow hover applied to floating groups.
type FloatParams struct {
	Speed             float64
	RotationIntensity float64
	FloatIntensity    float64
}

// FloatPose is the rotation and vertical offset of a floating group.
type FloatPose struct {
	Rotation Vec3
	OffsetY  float64
}

// At evaluates the hover at t seconds.
func (p FloatParams) At(t float64) FloatPose {
	a := t / 4 * p.Speed
	sin, cos := math.Sincos(a)
	return FloatPose{
		Rotation: Vec3{
			cos / 8 * p.RotationIntensity,
			sin / 8 * p.RotationIntensity,
			sin / 20 * p.RotationIntensity,
		},
		OffsetY: sin / 10 * p.FloatIntensity,
	}
}

// Floater drives a node's hover from its own running clock.
type Floater struct {
	Params FloatParams
	Node   *Node
	BaseY  float64

	t float64
}

// NewFloater wraps n, keeping its current height as the rest height.
func NewFloater(n *Node, p FloatParams) *Floater {
	return &Floater{Params: p, Node: n, BaseY: n.Position[1]}
}

// Update advances the clock and writes the pose.
func (f *Floater) Update(dt float64) {
	f.t += dt
	pose := f.Params.At(f.t)
	f.Node.SetRotation(pose.Rotation[0], pose.Rotation[1], pose.Rotation[2])
	f.Node.Position[1] = f.BaseY + pose.OffsetY
	f.Node.MarkDirty()
}

// RigAnimator drives a VoxelRig's tagged parts from a running clock: a body
// bob, a limb paddle, a head bob and a tail wag. Zero oscillators leave that
// part alone.
type RigAnimator struct {
	Rig *VoxelRig

	Body Oscillator // Root Y, added to Rig.BaseY
	Limb Oscillator // limb X rotation; each limb adds its LimbPhase
	Head Oscillator // head Y
	Tail Oscillator // tail Y rotation

	t float64
}

// NewTurtleAnimator returns the turtle's gentle bob and flipper paddle.
func NewTurtleAnimator(r *VoxelRig) *RigAnimator {
	return &RigAnimator{
		Rig:  r,
		Body: Oscillator{Amplitude: 0.01 * r.Scale, Frequency: 1.5},
		Limb: Oscillator{Amplitude: 0.25, Frequency: 4},
	}
}

// NewDogAnimator returns the dog's head bob and tail wag.
func NewDogAnimator(r *VoxelRig) *RigAnimator {
	return &RigAnimator{
		Rig:  r,
		Head: Oscillator{Amplitude: 0.01 * r.Scale, Frequency: 3, Offset: 0.28 * r.Scale},
		Tail: Oscillator{Amplitude: 0.4, Frequency: 8},
	}
}

// Time returns the animator's running clock.
func (a *RigAnimator) Time() float64 { return a.t }

// Update advances the clock by dt and poses the rig.
func (a *RigAnimator) Update(dt float64) {
	a.t += dt
	r := a.Rig
	if r == nil || r.Root == nil || r.Root.IsDisposed() {
		return
	}
	if a.Body.Amplitude != 0 {
		r.Root.Position[1] = r.BaseY + a.Body.At(a.t)
		r.Root.MarkDirty()
	}
	if a.Limb.Amplitude != 0 {
		for i, limb := range r.Limbs {
			o := a.Limb
			if i < len(r.LimbPhase) {
				o.Phase += r.LimbPhase[i]
			}
			limb.Rotation[0] = o.At(a.t)
			limb.MarkDirty()
		}
	}
	if a.Head != (Oscillator{}) && r.Head != nil {
		r.Head.Position[1] = a.Head.At(a.t)
		r.Head.MarkDirty()
	}
	if a.Tail.Amplitude != 0 && r.Tail != nil {
		r.Tail.Rotation[1] = a.Tail.At(a.t)
		r.Tail.MarkDirty()
	}
}
