package islet

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Node IDs come from a plain counter; scene graphs are built and mutated on
// one goroutine.
var lastNodeID uint32

func nextNodeID() uint32 {
	lastNodeID++
	return lastNodeID
}

// Node is the retained scene graph element. A single flat struct is used for
// groups, meshes and point clouds to avoid interface dispatch during traversal.
// Geometry is shared read-only; everything else on a Node belongs to its scene.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType
	// Tag is an explicit handle used by simulators and composers to find the
	// nodes they drive (limbs, heads, tails) without relying on child order.
	Tag string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Rotation is Euler XYZ in radians.
	Position Vec3
	Rotation Vec3
	Scale    Vec3

	worldTransform mgl64.Mat4
	transformDirty bool

	Visible bool
	// RenderLayer draws lower layers first regardless of depth.
	RenderLayer uint8

	// Mesh and point fields
	Geometry  *Geometry
	Material  Material
	PointSize float64 // world-space point size (NodeTypePoints)

	// Metadata
	UserData any

	disposed bool
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Scale = Vec3{1, 1, 1}
	n.Visible = true
	n.transformDirty = true
	n.worldTransform = mgl64.Ident4()
}

// NewGroup creates a transform-only node with no visual representation.
func NewGroup(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeGroup}
	nodeDefaults(n)
	return n
}

// NewMesh creates a node that renders triangle geometry with a material.
// A point-topology geometry is accepted and drawn as points.
func NewMesh(name string, geo *Geometry, mat Material) *Node {
	t := NodeTypeMesh
	if geo != nil && geo.Topology() == TopologyPoints {
		t = NodeTypePoints
	}
	n := &Node{Name: name, Type: t, Geometry: geo, Material: mat, PointSize: defaultPointSize}
	nodeDefaults(n)
	return n
}

// NewPoints creates a point-cloud node. Each vertex is drawn as a square of
// the given world-space size, colored by the geometry's vertex colors when
// present and by the material color otherwise.
func NewPoints(name string, geo *Geometry, size float64, mat Material) *Node {
	if size <= 0 {
		size = defaultPointSize
	}
	n := &Node{Name: name, Type: NodeTypePoints, Geometry: geo, Material: mat, PointSize: size}
	nodeDefaults(n)
	return n
}

const defaultPointSize = 0.012

// AddChild appends child, detaching it from any previous parent. It panics
// on a nil child or when child is an ancestor of n.
func (n *Node) AddChild(child *Node) { n.insert(child, -1) }

// AddChildAt inserts child before position index; index may equal the
// child count. It otherwise behaves like AddChild.
func (n *Node) AddChildAt(child *Node, index int) { n.insert(child, index) }

func (n *Node) insert(child *Node, index int) {
	switch {
	case child == nil:
		panic("islet: cannot add nil child")
	case isAncestor(child, n):
		panic("islet: adding child would create a cycle")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if child.Parent != nil {
		child.Parent.unlink(child)
	}
	if index < 0 {
		index = len(n.children)
	} else if index > len(n.children) {
		panic("islet: child index out of range")
	}
	n.children = slices.Insert(n.children, index, child)
	child.Parent = n
	child.markDirty()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child. It panics if n is not child's parent.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("islet: child's parent is not this node")
	}
	n.unlink(child)
	child.Parent = nil
	child.markDirty()
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// RemoveChildren detaches every child without disposing them.
func (n *Node) RemoveChildren() {
	for _, c := range n.children {
		c.Parent = nil
		c.markDirty()
	}
	clear(n.children)
	n.children = n.children[:0]
}

// Children returns the child list, which callers must not modify.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns len(n.Children()).
func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns the child at index.
func (n *Node) ChildAt(index int) *Node { return n.children[index] }

// Walk calls fn for n and every descendant in depth-first order. Returning
// false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// FindTag returns the first node in the subtree (including n) whose Tag is
// tag, or nil.
func (n *Node) FindTag(tag string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Tag == tag {
			found = c
			return false
		}
		return true
	})
	return found
}

// Tagged returns every node in the subtree whose Tag is tag, in depth-first order.
func (n *Node) Tagged(tag string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Tag == tag {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Shared geometry is left intact.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Geometry = nil
	n.Material.Texture = nil
	n.UserData = nil
}

// IsDisposed reports whether Dispose was called on n or an ancestor.
func (n *Node) IsDisposed() bool { return n.disposed }

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// unlink drops child from n.children and leaves child.Parent alone.
func (n *Node) unlink(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}

// markDirty flags n and its whole subtree for a world transform update.
func (n *Node) markDirty() {
	n.Walk(func(c *Node) bool {
		c.transformDirty = true
		return true
	})
}
