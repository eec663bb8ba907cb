package islet

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderCommand is one projected, shaded triangle emitted during traversal.
// Point clouds emit two commands per point.
type RenderCommand struct {
	verts       [3]ebiten.Vertex
	image       *ebiten.Image // nil draws with the white pixel
	depth       float64       // mean view-space depth, larger is farther
	RenderLayer uint8
	treeOrder   int
}

// maxBatchVertices bounds a single DrawTriangles32 submission.
const maxBatchVertices = 65532

// Renderer rasterizes a node tree with a painter's algorithm: triangles are
// flat-shaded per face, sorted far to near and submitted in batches that share
// a source image. It keeps its buffers between frames.
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	commands []RenderCommand
	sortBuf  []RenderCommand
	verts    []ebiten.Vertex
	inds     []uint32

	// per-frame traversal context
	cam      *OrbitCamera
	lighting *Lighting
	eye      Vec3
}

// NewRenderer returns a renderer with preallocated command buffers.
func NewRenderer() *Renderer {
	return &Renderer{
		commands: make([]RenderCommand, 0, defaultCommandCap),
		sortBuf:  make([]RenderCommand, 0, defaultCommandCap),
	}
}

const defaultCommandCap = 4096

// Render draws root as seen by cam into target. It does not clear target.
func (r *Renderer) Render(target *ebiten.Image, root *Node, cam *OrbitCamera, lighting *Lighting) debugStats {
	var stats debugStats
	t0 := time.Now()
	r.build(root, cam, lighting)
	stats.traverseTime = time.Since(t0)

	t0 = time.Now()
	r.mergeSort()
	stats.sortTime = time.Since(t0)
	stats.commandCount = len(r.commands)

	t0 = time.Now()
	stats.drawCallCount = r.submit(target)
	stats.submitTime = time.Since(t0)
	return stats
}

// build refreshes world matrices and fills r.commands for root's subtree.
func (r *Renderer) build(root *Node, cam *OrbitCamera, lighting *Lighting) {
	r.commands = r.commands[:0]
	r.cam = cam
	r.lighting = lighting
	r.eye = cam.Eye()
	root.UpdateWorld()
	treeOrder := 0
	r.traverse(root, &treeOrder)
	r.cam, r.lighting = nil, nil
}

func (r *Renderer) traverse(n *Node, treeOrder *int) {
	if !n.Visible {
		return
	}
	switch n.Type {
	case NodeTypeMesh:
		if n.Geometry != nil && n.Geometry.TriangleCount() > 0 {
			r.emitMesh(n, treeOrder)
		}
	case NodeTypePoints:
		if n.Geometry != nil && n.Geometry.VertexCount() > 0 {
			r.emitPoints(n, treeOrder)
		}
	}
	for _, child := range n.children {
		r.traverse(child, treeOrder)
	}
}

func (r *Renderer) emitMesh(n *Node, treeOrder *int) {
	g := n.Geometry
	m := n.Material
	world := n.worldTransform
	pos := g.Positions()
	cols := g.Colors()
	uvs := g.UVs()
	idx := g.Indices()

	var img *ebiten.Image
	var tw, th float32
	if m.Texture != nil && uvs != nil {
		img = m.Texture.Image()
		tw, th = float32(m.Texture.Width()), float32(m.Texture.Height())
	}

	for t := 0; t+2 < len(idx); t += 3 {
		ia, ib, ic := idx[t], idx[t+1], idx[t+2]
		wa := mgl64.TransformCoordinate(pos[ia], world)
		wb := mgl64.TransformCoordinate(pos[ib], world)
		wc := mgl64.TransformCoordinate(pos[ic], world)
		normal := faceNormal(wa, wb, wc)
		center := wa.Add(wb).Add(wc).Mul(1.0 / 3)
		toEye := r.eye.Sub(center)
		if normal.Dot(toEye) < 0 {
			if !m.DoubleSided {
				continue
			}
			normal = normal.Mul(-1)
		}

		ax, ay, da, okA := r.cam.Project(wa)
		bx, by, db, okB := r.cam.Project(wb)
		cx, cy, dc, okC := r.cam.Project(wc)
		if !okA || !okB || !okC {
			continue
		}

		base := m.Color
		if cols != nil {
			base = base.Mul(cols[ia].Lerp(cols[ib], 0.5).Lerp(cols[ic], 1.0/3))
		}
		shaded := r.lighting.Shade(m, base, normal, toEye.Len())
		cr, cg, cb, ca := premul32(shaded)

		cmd := RenderCommand{
			image:       img,
			depth:       (da + db + dc) / 3,
			RenderLayer: n.RenderLayer,
		}
		screen := [3][2]float64{{ax, ay}, {bx, by}, {cx, cy}}
		tri := [3]uint32{ia, ib, ic}
		for k := 0; k < 3; k++ {
			v := ebiten.Vertex{
				DstX: float32(screen[k][0]), DstY: float32(screen[k][1]),
				SrcX: 0.5, SrcY: 0.5,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			}
			if img != nil {
				uv := m.uv(uvs[tri[k]])
				v.SrcX = float32(uv.X) * tw
				v.SrcY = float32(1-uv.Y) * th
			}
			cmd.verts[k] = v
		}
		*treeOrder++
		cmd.treeOrder = *treeOrder
		r.commands = append(r.commands, cmd)
	}
}

func (r *Renderer) emitPoints(n *Node, treeOrder *int) {
	g := n.Geometry
	m := n.Material
	world := n.worldTransform
	cols := g.Colors()
	scale := n.worldScale()
	for i, p := range g.Positions() {
		wp := mgl64.TransformCoordinate(p, world)
		sx, sy, depth, ok := r.cam.Project(wp)
		if !ok {
			continue
		}
		half := float32(n.PointSize * scale * r.cam.PixelsPerUnit(depth) / 2)
		if half < 0.5 {
			half = 0.5
		}
		base := m.Color
		if cols != nil {
			base = base.Mul(cols[i])
		}
		var shaded Color
		if m.Unlit {
			shaded = base
		} else {
			shaded = r.lighting.Shade(m, base, r.eye.Sub(wp).Normalize(), r.eye.Sub(wp).Len())
		}
		cr, cg, cb, ca := premul32(shaded)
		x, y := float32(sx), float32(sy)
		corner := func(dx, dy float32) ebiten.Vertex {
			return ebiten.Vertex{
				DstX: x + dx, DstY: y + dy, SrcX: 0.5, SrcY: 0.5,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			}
		}
		tl, tr := corner(-half, -half), corner(half, -half)
		bl, br := corner(-half, half), corner(half, half)
		*treeOrder++
		r.commands = append(r.commands,
			RenderCommand{verts: [3]ebiten.Vertex{tl, tr, bl}, depth: depth, RenderLayer: n.RenderLayer, treeOrder: *treeOrder},
			RenderCommand{verts: [3]ebiten.Vertex{tr, br, bl}, depth: depth, RenderLayer: n.RenderLayer, treeOrder: *treeOrder},
		)
	}
}

// worldScale approximates the node's uniform world scale from its matrix.
func (n *Node) worldScale() float64 {
	return n.worldTransform.Col(0).Vec3().Len()
}

func premul32(c Color) (r, g, b, a float32) {
	a = float32(clamp01(c.A))
	return float32(clamp01(c.R)) * a, float32(clamp01(c.G)) * a, float32(clamp01(c.B)) * a, a
}

// --- Merge sort ---

// commandLessOrEqual orders commands by layer, then far to near, then by tree
// order. Using <= for treeOrder keeps the sort stable.
func commandLessOrEqual(a, b *RenderCommand) bool {
	if a.RenderLayer != b.RenderLayer {
		return a.RenderLayer < b.RenderLayer
	}
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts r.commands in place using r.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (r *Renderer) mergeSort() {
	n := len(r.commands)
	if n <= 1 {
		return
	}
	if cap(r.sortBuf) < n {
		r.sortBuf = make([]RenderCommand, n)
	}
	r.sortBuf = r.sortBuf[:n]

	a, b := r.commands, r.sortBuf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(r.commands, r.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}

// --- Submission ---

// submit draws the sorted commands, merging consecutive commands that share
// a source image into one DrawTriangles32 call. Returns the draw call count.
func (r *Renderer) submit(target *ebiten.Image) int {
	calls := 0
	var cur *ebiten.Image
	first := true
	for i := range r.commands {
		cmd := &r.commands[i]
		if !first && (cmd.image != cur || len(r.verts)+3 > maxBatchVertices) {
			if r.flush(target, cur) {
				calls++
			}
		}
		first = false
		cur = cmd.image
		base := uint32(len(r.verts))
		r.verts = append(r.verts, cmd.verts[:]...)
		r.inds = append(r.inds, base, base+1, base+2)
	}
	if r.flush(target, cur) {
		calls++
	}
	return calls
}

func (r *Renderer) flush(target *ebiten.Image, img *ebiten.Image) bool {
	if len(r.verts) == 0 {
		return false
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	src := img
	if src == nil {
		src = ensureWhitePixel()
	} else {
		op.Address = ebiten.AddressRepeat
		op.Filter = ebiten.FilterLinear
	}
	target.DrawTriangles32(r.verts, r.inds, src, &op)
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	return true
}

// whitePixelImage is the lazily created 1x1 source for untextured triangles
// (no sync.Once: drawing happens on the game goroutine only).
var whitePixelImage *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(ColorWhite.toRGBA())
	}
	return whitePixelImage
}
