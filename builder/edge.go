package builder

import (
	"sort"
	"strings"
)

// NodePath addresses a field inside a composite output or input: empty for
// the root, one segment per level of bundle/list nesting.
type NodePath []string

func (p NodePath) String() string { return strings.Join(p, ".") }

// Edge wires one node's output (or a field of it) to another node's input
// (or a field of it). SrcNode/DstNode are indices into the owning
// GraphBuilder's NodeBuilders slice, not yet-assigned NodeIDs.
type Edge struct {
	SrcNode    int
	DstNode    int
	OutputPath NodePath
	InputPath  NodePath
}

// canonicalSort orders edges deterministically so wiring order never depends
// on the order callers happened to append edges in, matching the
// reproducibility the rest of the engine's evaluation order guarantees.
func canonicalSort(edges []Edge) []Edge {
	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.SrcNode != b.SrcNode {
			return a.SrcNode < b.SrcNode
		}
		if a.DstNode != b.DstNode {
			return a.DstNode < b.DstNode
		}
		if ap, bp := a.OutputPath.String(), b.OutputPath.String(); ap != bp {
			return ap < bp
		}
		return a.InputPath.String() < b.InputPath.String()
	})
	return sorted
}
