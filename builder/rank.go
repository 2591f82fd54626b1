package builder

import (
	"fmt"
	"sort"

	"github.com/sbl8/tsflow/tserr"
)

// RankGraph computes a topological rank per node from Kahn's algorithm over
// the edge list, generalized with two refinements the engine's evaluation
// order depends on: every push-source node is forced to rank 0 regardless
// of in-degree (it is the wavefront everything else flows from within a
// tick), and every sink node (zero out-degree, and not itself a push
// source) is forced up to the graph's maximum rank, so a pull source with no
// consumers never gets ordered ahead of nodes that could still read from it
// after further wiring.
//
// disallowPushSources rejects a graph containing any push source outright,
// before ranking: nested subgraphs (spec section 4.2) may not declare their
// own push sources, since a push-source node's evaluation bypasses the
// ranked scheduling a nested graph's host relies on to drive it.
//
// Grounded on model.Graph.topologicalSort's level-assignment approach in the
// teacher repository, generalized from a fixed binary node layout to an
// arbitrary edge list.
func RankGraph(nodeCount int, edges []Edge, pushSources map[int]bool, disallowPushSources bool) ([]int, error) {
	if disallowPushSources {
		for i := 0; i < nodeCount; i++ {
			if pushSources[i] {
				return nil, tserr.ErrPushSourceNotSupported
			}
		}
	}

	adjacency := make([][]int, nodeCount)
	inDegree := make([]int, nodeCount)
	outDegree := make([]int, nodeCount)

	for _, e := range edges {
		if e.SrcNode < 0 || e.SrcNode >= nodeCount || e.DstNode < 0 || e.DstNode >= nodeCount {
			return nil, &tserr.InvalidEdgePathError{SrcNode: e.SrcNode, DstNode: e.DstNode, Reason: "node index out of range"}
		}
	}

	seen := make(map[[2]int]bool)
	for _, e := range edges {
		key := [2]int{e.SrcNode, e.DstNode}
		if seen[key] {
			continue
		}
		seen[key] = true
		adjacency[e.SrcNode] = append(adjacency[e.SrcNode], e.DstNode)
		inDegree[e.DstNode]++
		outDegree[e.SrcNode]++
	}

	rank := make([]int, nodeCount)
	for i := range rank {
		rank[i] = -1
	}

	var queue []int
	for i := 0; i < nodeCount; i++ {
		if pushSources[i] || inDegree[i] == 0 {
			rank[i] = 0
			queue = append(queue, i)
		}
	}
	sort.Ints(queue)

	processed := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		processed++
		var newlyReady []int
		for _, next := range adjacency[cur] {
			if rank[cur]+1 > rank[next] {
				rank[next] = rank[cur] + 1
			}
			inDegree[next]--
			if inDegree[next] == 0 && !pushSources[next] {
				newlyReady = append(newlyReady, next)
			}
		}
		sort.Ints(newlyReady)
		queue = append(queue, newlyReady...)
	}
	for i := 0; i < nodeCount; i++ {
		if pushSources[i] {
			rank[i] = 0
		}
	}

	if processed != nodeCount {
		return nil, &tserr.BuilderInvariantError{
			NodeBuilder: "<graph>",
			Reason:      fmt.Sprintf("graph contains a cycle, ranked %d of %d nodes", processed, nodeCount),
		}
	}

	maxRank := 0
	for _, r := range rank {
		if r > maxRank {
			maxRank = r
		}
	}
	for i := 0; i < nodeCount; i++ {
		if outDegree[i] == 0 && !pushSources[i] {
			rank[i] = maxRank
		}
	}

	return rank, nil
}
