package islet

import (
	"fmt"
	"time"
)

// Thresholds for debug-mode tree warnings.
const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// debugStats is what one Renderer.Render call measured.
type debugStats struct {
	traverseTime  time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	commandCount  int
	drawCallCount int
}

func (d debugStats) total() time.Duration { return d.traverseTime + d.sortTime + d.submitTime }

func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	logDebug("frame",
		"traverse", stats.traverseTime, "sort", stats.sortTime, "submit", stats.submitTime,
		"total", stats.total(), "triangles", stats.commandCount, "drawCalls", stats.drawCallCount)
}

// debugCheckDisposed panics when a disposed node takes part in op.
func debugCheckDisposed(n *Node, op string) {
	if !n.disposed {
		return
	}
	panic(fmt.Sprintf("islet debug: %s on disposed node %q", op, n.Name))
}

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logWarn("deep scene graph", "node", n.Name, "depth", depth, "max", debugMaxTreeDepth)
	}
}

func debugCheckChildCount(n *Node) {
	if c := len(n.children); c > debugMaxChildCount {
		logWarn("wide scene graph", "node", n.Name, "children", c, "max", debugMaxChildCount)
	}
}
