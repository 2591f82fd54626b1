package builder

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sbl8/tsflow/graph"
	"github.com/sbl8/tsflow/tserr"
	"github.com/sbl8/tsflow/tstype"
)

// GraphBuilder is an immutable factory for one graph: a list of node
// builders and the edges wiring them together. MakeInstance produces a
// runtime graph.Graph; ReleaseInstance tears one down.
//
// Grounded on the reference implementation's PythonGraphBuilder.make_instance:
// allocate every node first, then resolve and bind every edge, and only
// after every edge is bound call Initialise on every node — never
// interleaved, so a node's Initialise never observes a partially wired
// sibling.
type GraphBuilder struct {
	Name         string
	NodeBuilders []*NodeBuilder
	Edges        []Edge

	// DisallowPushSources, when set, rejects MakeInstance with
	// tserr.ErrPushSourceNotSupported if any NodeBuilder declares itself a
	// push source. SwitchNode and MapNode set this on every nested
	// GraphBuilder they instantiate (spec section 4.2: nested graphs may
	// not declare push sources of their own).
	DisallowPushSources bool
}

// MakeInstance builds a runtime graph: validate scalar args, rank nodes and
// order push sources into the required prefix, allocate, wire edges, and
// initialise.
func (gb *GraphBuilder) MakeInstance(id graph.GraphID) (*graph.Graph, error) {
	if len(gb.NodeBuilders) == 0 {
		return nil, tserr.ErrNoSinkNodes
	}

	for _, nb := range gb.NodeBuilders {
		if err := nb.Validate(); err != nil {
			return nil, err
		}
	}

	pushSources := make(map[int]bool, len(gb.NodeBuilders))
	for i, nb := range gb.NodeBuilders {
		if nb.IsPushSource {
			pushSources[i] = true
		}
	}

	ranks, err := RankGraph(len(gb.NodeBuilders), gb.Edges, pushSources, gb.DisallowPushSources)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(gb.NodeBuilders))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ai, bi := order[a], order[b]
		if pushSources[ai] != pushSources[bi] {
			return pushSources[ai]
		}
		if ranks[ai] != ranks[bi] {
			return ranks[ai] < ranks[bi]
		}
		return ai < bi
	})

	ordinalByBuilderIdx := make([]int, len(gb.NodeBuilders))
	for ordinal, builderIdx := range order {
		ordinalByBuilderIdx[builderIdx] = ordinal
	}

	nodes := make([]*graph.Node, len(order))
	for ordinal, builderIdx := range order {
		nodes[ordinal] = gb.NodeBuilders[builderIdx].MakeInstance(graph.NodeID(builderIdx))
	}

	pushSourceEnd := 0
	for _, builderIdx := range order {
		if !pushSources[builderIdx] {
			break
		}
		pushSourceEnd++
	}

	for _, e := range canonicalSort(gb.Edges) {
		if e.SrcNode < 0 || e.SrcNode >= len(nodes) || e.DstNode < 0 || e.DstNode >= len(nodes) {
			return nil, &tserr.InvalidEdgePathError{SrcNode: e.SrcNode, DstNode: e.DstNode, Reason: "node index out of range"}
		}
		srcNode := nodes[ordinalByBuilderIdx[e.SrcNode]]
		dstNode := nodes[ordinalByBuilderIdx[e.DstNode]]

		output, err := resolveOutputPath(srcNode.Output(), e.OutputPath)
		if err != nil {
			return nil, withEdgeContext(err, e)
		}
		input, err := resolveInputPath(dstNode.Input(), e.InputPath)
		if err != nil {
			return nil, withEdgeContext(err, e)
		}
		input.BindOutput(output)
	}

	for _, n := range nodes {
		if err := n.Initialise(); err != nil {
			return nil, fmt.Errorf("builder: initialise node %d: %w", n.ID(), err)
		}
	}

	return graph.NewGraph(id, gb.Name, nodes, pushSourceEnd), nil
}

// ReleaseInstance disposes every node in g. Matching the reference
// implementation's release_instance, disposal order is the reverse of
// construction order so that a sink's resources (e.g. an open file) close
// before the source feeding it is torn down.
func (gb *GraphBuilder) ReleaseInstance(g *graph.Graph) {
	nodes := g.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		nodes[i].Dispose()
	}
}

func withEdgeContext(err error, e Edge) error {
	if pathErr, ok := err.(*tserr.InvalidEdgePathError); ok {
		pathErr.SrcNode = e.SrcNode
		pathErr.DstNode = e.DstNode
	}
	return err
}

func resolveOutputPath(root tstype.Output, path NodePath) (tstype.Output, error) {
	cur := root
	for _, seg := range path {
		if cur == nil {
			return nil, &tserr.InvalidEdgePathError{Path: path, Reason: "path descends past a nil output"}
		}
		switch o := cur.(type) {
		case *tstype.BundleOutput:
			cur = o.Child(seg)
		case *tstype.ListOutput:
			idx, convErr := strconv.Atoi(seg)
			if convErr != nil {
				return nil, &tserr.InvalidEdgePathError{Path: path, Reason: "list index must be numeric: " + seg}
			}
			if idx < 0 || idx >= o.Len() {
				return nil, &tserr.InvalidEdgePathError{Path: path, Reason: "list index out of range: " + seg}
			}
			cur = o.At(idx)
		default:
			return nil, &tserr.InvalidEdgePathError{Path: path, Reason: "cannot descend into a non-composite output"}
		}
	}
	if cur == nil {
		return nil, &tserr.InvalidEdgePathError{Path: path, Reason: "output path resolved to nothing"}
	}
	return cur, nil
}

func resolveInputPath(root tstype.Input, path NodePath) (tstype.Input, error) {
	cur := root
	for _, seg := range path {
		if cur == nil {
			return nil, &tserr.InvalidEdgePathError{Path: path, Reason: "path descends past a nil input"}
		}
		switch i := cur.(type) {
		case *tstype.BundleInput:
			cur = i.Child(seg)
		case *tstype.ListInput:
			idx, convErr := strconv.Atoi(seg)
			if convErr != nil {
				return nil, &tserr.InvalidEdgePathError{Path: path, Reason: "list index must be numeric: " + seg}
			}
			if idx < 0 || idx >= i.Len() {
				return nil, &tserr.InvalidEdgePathError{Path: path, Reason: "list index out of range: " + seg}
			}
			cur = i.At(idx)
		default:
			return nil, &tserr.InvalidEdgePathError{Path: path, Reason: "cannot descend into a non-composite input"}
		}
	}
	if cur == nil {
		return nil, &tserr.InvalidEdgePathError{Path: path, Reason: "input path resolved to nothing"}
	}
	return cur, nil
}
