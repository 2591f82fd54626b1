package graph

import (
	"time"

	"github.com/sbl8/tsflow/tstype"
)

// ExecutionContext is the minimal surface the Graph needs from whatever
// drives it (a BackTestExecutionContext or a RealTimeExecutionContext, both
// defined in package runtime): the current engine time. Defining the
// interface here, on the consumer side, is what lets graph avoid importing
// runtime while runtime freely imports graph.
type ExecutionContext interface {
	CurrentEngineTime() tstype.EngineTime
}

// Graph is the runtime instance produced by GraphBuilder.MakeInstance: an
// ordered array of nodes partitioned so push sources occupy a contiguous
// prefix, a per-node scheduler slot, the owning execution context, and the
// post-evaluation notification queue time-series outputs register cleanup
// callbacks on (see tstype.SetOutput).
type Graph struct {
	id   GraphID
	name string

	nodes         []*Node
	pushSourceEnd int

	scheduledTime []tstype.EngineTime

	execContext ExecutionContext

	afterEvalQueue []func()
}

// NewGraph constructs a runtime graph from already-wired nodes. nodes must
// be ordered by rank with every push-source node occupying the prefix
// [0:pushSourceEnd); this ordering is the ranking algorithm's contract with
// the engine (see package builder).
func NewGraph(id GraphID, name string, nodes []*Node, pushSourceEnd int) *Graph {
	g := &Graph{
		id:            id,
		name:          name,
		nodes:         nodes,
		pushSourceEnd: pushSourceEnd,
		scheduledTime: make([]tstype.EngineTime, len(nodes)),
	}
	for i, n := range nodes {
		n.graph = g
		n.ordinal = i
		g.scheduledTime[i] = tstype.MinDT
	}
	return g
}

func (g *Graph) ID() GraphID   { return g.id }
func (g *Graph) Name() string  { return g.name }
func (g *Graph) Nodes() []*Node { return g.nodes }
func (g *Graph) Len() int      { return len(g.nodes) }

// PushSourceNodesEnd is the exclusive upper bound of the push-source prefix:
// nodes[0:PushSourceNodesEnd()] are push sources, the rest are ranked
// pull-evaluated nodes.
func (g *Graph) PushSourceNodesEnd() int { return g.pushSourceEnd }

func (g *Graph) SetExecutionContext(ctx ExecutionContext) { g.execContext = ctx }
func (g *Graph) ExecutionContext() ExecutionContext       { return g.execContext }

// Now implements tstype.Clock: every output in this graph stamps its
// last-modified time against this.
func (g *Graph) Now() tstype.EngineTime {
	if g.execContext == nil {
		return tstype.MinDT
	}
	return g.execContext.CurrentEngineTime()
}

// AddAfterEvaluationNotification implements tstype.Notifier.
func (g *Graph) AddAfterEvaluationNotification(fn func()) {
	g.afterEvalQueue = append(g.afterEvalQueue, fn)
}

// DrainAfterEvaluationNotifications runs and clears every callback queued
// during the evaluation pass that just finished. Called once per tick by
// the engine, after every node has been evaluated.
func (g *Graph) DrainAfterEvaluationNotifications() {
	pending := g.afterEvalQueue
	g.afterEvalQueue = nil
	for _, fn := range pending {
		fn()
	}
}

// ScheduledTime returns the engine time from which the node at ordinal is
// due to run: the engine evaluates it on the first tick at or after it.
func (g *Graph) ScheduledTime(ordinal int) tstype.EngineTime {
	return g.scheduledTime[ordinal]
}

// SetScheduledTime overwrites a node's due time unconditionally; used by the
// engine to reset a slot to MaxDT immediately before evaluating it, so a
// node that doesn't reschedule itself falls silent until something else
// wakes it.
func (g *Graph) SetScheduledTime(ordinal int, t tstype.EngineTime) {
	g.scheduledTime[ordinal] = t
}

// requestSchedule is Node.Schedule's implementation: it takes the earlier of
// the node's existing due time and the newly requested one, so multiple
// requests before the next tick converge on the earliest.
func (g *Graph) requestSchedule(ordinal int, delta time.Duration) {
	requested := g.Now().Add(delta)
	if requested.Before(g.scheduledTime[ordinal]) {
		g.scheduledTime[ordinal] = requested
	}
}

// NextProposedTime is the minimum scheduled time across every node,
// excluding push sources (which never drive the proposed clock since they
// tick on external arrival, not on a schedule). MaxDT if nothing is due.
func (g *Graph) NextProposedTime() tstype.EngineTime {
	next := tstype.MaxDT
	for i := g.pushSourceEnd; i < len(g.nodes); i++ {
		if g.scheduledTime[i].Before(next) {
			next = g.scheduledTime[i]
		}
	}
	return next
}

// HasPendingPush reports whether any push-source node has a queued value
// waiting to be drained.
func (g *Graph) HasPendingPush() bool {
	for i := 0; i < g.pushSourceEnd; i++ {
		if g.nodes[i].PendingPush() {
			return true
		}
	}
	return false
}
