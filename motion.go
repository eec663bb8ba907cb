package islet

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// MotionHandle identifies one simulated instance in a MotionWorld. Dropping
// the handle through Remove tears the instance down; it never ticks again.
type MotionHandle = donburi.Entity

// Components stored per motion entity.
var (
	swimmerComp  = donburi.NewComponentType[Swimmer]()
	rigComp      = donburi.NewComponentType[RigAnimator]()
	floaterComp  = donburi.NewComponentType[Floater]()
	parallaxComp = donburi.NewComponentType[Parallax]()
	targetComp   = donburi.NewComponentType[motionTarget]()
)

// motionTarget is the node a simulator writes its output to.
type motionTarget struct {
	Node *Node
}

var (
	swimmerQuery  = donburi.NewQuery(filter.Contains(swimmerComp))
	rigQuery      = donburi.NewQuery(filter.Contains(rigComp))
	floaterQuery  = donburi.NewQuery(filter.Contains(floaterComp))
	parallaxQuery = donburi.NewQuery(filter.Contains(parallaxComp))
)

// MotionWorld owns every MotionState of a scene in one arena. Each state is
// an entity; composers keep handles and look state up each tick instead of
// holding pointers into it. A MotionWorld is updated from the scheduler's
// simulate phase only and is not safe for concurrent use.
type MotionWorld struct {
	world donburi.World
}

// NewMotionWorld returns an empty arena.
func NewMotionWorld() *MotionWorld {
	return &MotionWorld{world: donburi.NewWorld()}
}

// World exposes the underlying donburi world, e.g. to publish events on it.
func (m *MotionWorld) World() donburi.World { return m.world }

// Len returns the number of live motion instances.
func (m *MotionWorld) Len() int { return m.world.Len() }

// AddSwimmer registers s and, when n is non-nil, poses n from it every tick.
func (m *MotionWorld) AddSwimmer(s *Swimmer, n *Node) MotionHandle {
	e := m.world.Create(swimmerComp, targetComp)
	entry := m.world.Entry(e)
	swimmerComp.SetValue(entry, *s)
	targetComp.SetValue(entry, motionTarget{Node: n})
	if n != nil {
		swimmerComp.Get(entry).Apply(n)
	}
	return e
}

// AddRig registers a voxel rig animator.
func (m *MotionWorld) AddRig(a *RigAnimator) MotionHandle {
	e := m.world.Create(rigComp)
	rigComp.SetValue(m.world.Entry(e), *a)
	return e
}

// AddFloater registers a hovering group.
func (m *MotionWorld) AddFloater(f *Floater) MotionHandle {
	e := m.world.Create(floaterComp)
	floaterComp.SetValue(m.world.Entry(e), *f)
	return e
}

// AddParallax registers a pointer-driven tilt.
func (m *MotionWorld) AddParallax(p *Parallax) MotionHandle {
	e := m.world.Create(parallaxComp)
	parallaxComp.SetValue(m.world.Entry(e), *p)
	return e
}

// Valid reports whether h still refers to a live instance.
func (m *MotionWorld) Valid(h MotionHandle) bool {
	return m.world.Valid(h)
}

// Remove tears the instance down. Removing an unknown handle is a no-op.
func (m *MotionWorld) Remove(h MotionHandle) {
	if m.world.Valid(h) {
		m.world.Remove(h)
	}
}

// Swimmer returns the live swimmer state behind h, or nil.
func (m *MotionWorld) Swimmer(h MotionHandle) *Swimmer {
	if !m.world.Valid(h) {
		return nil
	}
	entry := m.world.Entry(h)
	if !entry.HasComponent(swimmerComp) {
		return nil
	}
	return swimmerComp.Get(entry)
}

// Rig returns the live rig animator behind h, or nil.
func (m *MotionWorld) Rig(h MotionHandle) *RigAnimator {
	if !m.world.Valid(h) {
		return nil
	}
	entry := m.world.Entry(h)
	if !entry.HasComponent(rigComp) {
		return nil
	}
	return rigComp.Get(entry)
}

// Parallax returns the live parallax driver behind h, or nil.
func (m *MotionWorld) Parallax(h MotionHandle) *Parallax {
	if !m.world.Valid(h) {
		return nil
	}
	entry := m.world.Entry(h)
	if !entry.HasComponent(parallaxComp) {
		return nil
	}
	return parallaxComp.Get(entry)
}

// Update advances every instance by dt, exactly once each.
func (m *MotionWorld) Update(dt float64) {
	swimmerQuery.Each(m.world, func(entry *donburi.Entry) {
		s := swimmerComp.Get(entry)
		s.Update(dt)
		if n := targetComp.Get(entry).Node; n != nil && !n.IsDisposed() {
			s.Apply(n)
		}
	})
	rigQuery.Each(m.world, func(entry *donburi.Entry) {
		rigComp.Get(entry).Update(dt)
	})
	floaterQuery.Each(m.world, func(entry *donburi.Entry) {
		f := floaterComp.Get(entry)
		if f.Node != nil && !f.Node.IsDisposed() {
			f.Update(dt)
		}
	})
	parallaxQuery.Each(m.world, func(entry *donburi.Entry) {
		p := parallaxComp.Get(entry)
		if p.Node != nil && !p.Node.IsDisposed() {
			p.Update(dt)
		}
	})
}

// Clear removes every instance.
func (m *MotionWorld) Clear() {
	var all []donburi.Entity
	collect := func(entry *donburi.Entry) { all = append(all, entry.Entity()) }
	swimmerQuery.Each(m.world, collect)
	rigQuery.Each(m.world, collect)
	floaterQuery.Each(m.world, collect)
	parallaxQuery.Each(m.world, collect)
	for _, e := range all {
		m.world.Remove(e)
	}
}
