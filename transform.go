package islet

import "github.com/go-gl/mathgl/mgl64"

// computeLocalTransform composes the node's local matrix:
//
//	Translate(Position) * Rx * Ry * Rz * Scale
//
// which matches an XYZ Euler order (X applied last).
func computeLocalTransform(n *Node) mgl64.Mat4 {
	m := mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	if n.Rotation != (Vec3{}) {
		m = m.Mul4(mgl64.HomogRotate3DX(n.Rotation[0])).
			Mul4(mgl64.HomogRotate3DY(n.Rotation[1])).
			Mul4(mgl64.HomogRotate3DZ(n.Rotation[2]))
	}
	if n.Scale != (Vec3{1, 1, 1}) {
		m = m.Mul4(mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
	}
	return m
}

// updateWorldTransform recomputes a node's worldTransform.
// parentRecomputed indicates whether the parent was recomputed this frame,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parent mgl64.Mat4, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldTransform = parent.Mul4(computeLocalTransform(n))
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, recompute)
	}
}

// UpdateWorld refreshes world matrices for n's subtree. Call it on the root
// after mutating transforms; the renderer does so once per frame.
func (n *Node) UpdateWorld() {
	parent := mgl64.Ident4()
	if n.Parent != nil {
		parent = n.Parent.WorldMatrix()
	}
	updateWorldTransform(n, parent, false)
}

// WorldMatrix returns the node's world matrix, recomputing the ancestor chain
// when anything on it is dirty.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	dirty := false
	for p := n; p != nil; p = p.Parent {
		if p.transformDirty {
			dirty = true
			break
		}
	}
	if !dirty {
		return n.worldTransform
	}
	parent := mgl64.Ident4()
	if n.Parent != nil {
		parent = n.Parent.WorldMatrix()
	}
	n.worldTransform = parent.Mul4(computeLocalTransform(n))
	n.transformDirty = false
	for _, c := range n.children {
		c.transformDirty = true
	}
	return n.worldTransform
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = Vec3{x, y, z}
	n.transformDirty = true
}

// SetRotation sets the node's Euler rotation (radians) and marks it dirty.
func (n *Node) SetRotation(x, y, z float64) {
	n.Rotation = Vec3{x, y, z}
	n.transformDirty = true
}

// Rotate adds to the node's Euler rotation.
func (n *Node) Rotate(dx, dy, dz float64) {
	n.Rotation = n.Rotation.Add(Vec3{dx, dy, dz})
	n.transformDirty = true
}

// SetScale sets the node's per-axis scale and marks it dirty.
func (n *Node) SetScale(sx, sy, sz float64) {
	n.Scale = Vec3{sx, sy, sz}
	n.transformDirty = true
}

// SetUniformScale sets the same scale on every axis.
func (n *Node) SetUniformScale(s float64) {
	n.SetScale(s, s, s)
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Coordinate conversion ---

// LocalToWorld converts a local-space point to world space.
func (n *Node) LocalToWorld(p Vec3) Vec3 {
	return mgl64.TransformCoordinate(p, n.WorldMatrix())
}

// WorldToLocal converts a world-space point to this node's local space.
// A singular world matrix maps to the input unchanged.
func (n *Node) WorldToLocal(p Vec3) Vec3 {
	m := n.WorldMatrix()
	if det := m.Det(); det > -1e-12 && det < 1e-12 {
		return p
	}
	return mgl64.TransformCoordinate(p, m.Inv())
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}
