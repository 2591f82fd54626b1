package runtime

import (
	"github.com/sbl8/tsflow/graph"
	"github.com/sbl8/tsflow/tserr"
	"github.com/sbl8/tsflow/tstype"
)

// GraphEngine drives one graph through time: Run alternates evaluateGraph
// (propagate changes in rank order for the current tick) with
// advanceEngineTime (decide the next tick) until the requested end time or
// an explicit stop request is reached.
//
// Grounded on the reference implementation's PythonGraphEngine
// (hg._impl._runtime._graph_engine), including its exact
// advance_engine_time precedence and its push-source-nodes-bypass-before/
// after-node-notifications evaluation split. One deliberate correction: the
// reference implementation's stop() calls notify_before_start_node
// immediately after a node's stop() — a bug the spec this engine implements
// calls out explicitly. This engine uses the symmetric, corrected pair
// (notifyBeforeStopNode / notifyAfterStopNode) instead.
type GraphEngine struct {
	graph     *graph.Graph
	ctx       ExecutionContext
	observers []Observer
}

func NewGraphEngine(g *graph.Graph, ctx ExecutionContext, observers ...Observer) *GraphEngine {
	g.SetExecutionContext(ctx)
	return &GraphEngine{graph: g, ctx: ctx, observers: observers}
}

func (e *GraphEngine) Graph() *graph.Graph        { return e.graph }
func (e *GraphEngine) Context() ExecutionContext  { return e.ctx }

// RequestStop asks the engine to wind down at the next advanceEngineTime
// rather than continuing to the originally requested end time.
func (e *GraphEngine) RequestStop() { e.ctx.RequestStop() }

// Run starts every node, evaluates and advances the clock alternately from
// start to end inclusive, and stops every node on the way out — even if an
// evaluation or a node's own start failed partway through.
func (e *GraphEngine) Run(start, end tstype.EngineTime) (runErr error) {
	if end.Before(start) {
		return tserr.ErrInvalidTimeRange
	}
	e.ctx.SetCurrentEngineTime(start)

	if err := e.startAll(); err != nil {
		_ = e.stopAll()
		return err
	}
	defer func() {
		if stopErr := e.stopAll(); runErr == nil {
			runErr = stopErr
		}
	}()

	for !e.ctx.CurrentEngineTime().After(end) {
		if err := e.evaluateGraph(); err != nil {
			return err
		}
		// A stop requested during this tick's evaluation (by an observer or
		// a node) skips any remaining ticks, but engine time still has to
		// land on end_time before Run returns: advanceEngineTime's own stop
		// branch does exactly that (and nothing else, since StopRequested
		// is still true), so call it once here instead of looping back
		// around to evaluateGraph a second time.
		if e.ctx.StopRequested() {
			e.advanceEngineTime()
			return nil
		}
		e.advanceEngineTime()
	}
	return nil
}

func (e *GraphEngine) startAll() error {
	e.notifyBeforeStart()
	for _, n := range e.graph.Nodes() {
		e.notifyBeforeStartNode(n)
		err := n.Start()
		e.notifyAfterStartNode(n)
		if err != nil {
			return &tserr.NodeLifecycleError{NodeID: int(n.ID()), Phase: "start", Err: err}
		}
	}
	e.notifyAfterStart()
	return nil
}

func (e *GraphEngine) stopAll() error {
	e.notifyBeforeStop()
	var firstErr error
	for _, n := range e.graph.Nodes() {
		e.notifyBeforeStopNode(n)
		if err := n.Stop(); err != nil && firstErr == nil {
			firstErr = &tserr.NodeLifecycleError{NodeID: int(n.ID()), Phase: "stop", Err: err}
		}
		e.notifyAfterStopNode(n)
	}
	e.notifyAfterStop()
	return firstErr
}

// evaluateGraph runs exactly one tick: any push source with queued values
// first (bypassing before/after node notifications, since they are not
// scheduled nodes in the ranked sense), then every ranked node whose
// scheduler slot is due, in rank order. A node's slot is reset to MaxDT
// immediately before it runs so it falls silent next tick unless its own
// evaluation (or a newly-modified active input) reschedules it.
func (e *GraphEngine) evaluateGraph() error {
	e.notifyBeforeEvaluation()
	now := e.ctx.CurrentEngineTime()

	if e.graph.HasPendingPush() {
		for i := 0; i < e.graph.PushSourceNodesEnd(); i++ {
			n := e.graph.Nodes()[i]
			for n.PendingPush() {
				if err := n.Eval(); err != nil {
					return &tserr.NodeEvalError{NodeID: int(n.ID()), Err: err}
				}
			}
		}
	}

	for i := e.graph.PushSourceNodesEnd(); i < e.graph.Len(); i++ {
		if e.graph.ScheduledTime(i).After(now) {
			continue
		}
		e.graph.SetScheduledTime(i, tstype.MaxDT)
		n := e.graph.Nodes()[i]
		e.notifyBeforeNodeEvaluation(n)
		err := n.Eval()
		e.notifyAfterNodeEvaluation(n)
		if err != nil {
			return &tserr.NodeEvalError{NodeID: int(n.ID()), Err: err}
		}
	}

	e.graph.DrainAfterEvaluationNotifications()
	e.notifyAfterEvaluation()
	return nil
}

// advanceEngineTime picks the next current engine time, in the reference
// implementation's precedence order: an explicit stop request jumps
// straight to end time; otherwise if wall clock has already reached (or
// passed) the next proposed time, engine time jumps to that proposed time;
// otherwise, if a push source has pending values, engine time catches up to
// wall clock so the push can be observed promptly; otherwise the engine
// waits for wall clock to reach the proposed time.
func (e *GraphEngine) advanceEngineTime() {
	if e.ctx.StopRequested() {
		e.ctx.SetCurrentEngineTime(e.ctx.EndTime())
		return
	}

	proposed := e.graph.NextProposedTime()
	wall := e.ctx.WallClockTime()

	if !wall.Before(proposed) {
		e.ctx.SetCurrentEngineTime(proposed)
		return
	}
	if e.graph.HasPendingPush() || e.ctx.PushHasPendingValues() {
		e.ctx.SetCurrentEngineTime(wall)
		return
	}
	e.ctx.WaitUntilProposedEngineTime(proposed)
}

func (e *GraphEngine) notifyBeforeStart() {
	for _, o := range e.observers {
		o.OnBeforeStart()
	}
}
func (e *GraphEngine) notifyAfterStart() {
	for _, o := range e.observers {
		o.OnAfterStart()
	}
}
func (e *GraphEngine) notifyBeforeStop() {
	for _, o := range e.observers {
		o.OnBeforeStop()
	}
}
func (e *GraphEngine) notifyAfterStop() {
	for _, o := range e.observers {
		o.OnAfterStop()
	}
}
func (e *GraphEngine) notifyBeforeStartNode(n *graph.Node) {
	for _, o := range e.observers {
		o.OnBeforeStartNode(n)
	}
}
func (e *GraphEngine) notifyAfterStartNode(n *graph.Node) {
	for _, o := range e.observers {
		o.OnAfterStartNode(n)
	}
}
func (e *GraphEngine) notifyBeforeStopNode(n *graph.Node) {
	for _, o := range e.observers {
		o.OnBeforeStopNode(n)
	}
}
func (e *GraphEngine) notifyAfterStopNode(n *graph.Node) {
	for _, o := range e.observers {
		o.OnAfterStopNode(n)
	}
}
func (e *GraphEngine) notifyBeforeEvaluation() {
	for _, o := range e.observers {
		o.OnBeforeEvaluation()
	}
}
func (e *GraphEngine) notifyAfterEvaluation() {
	for _, o := range e.observers {
		o.OnAfterEvaluation()
	}
}
func (e *GraphEngine) notifyBeforeNodeEvaluation(n *graph.Node) {
	for _, o := range e.observers {
		o.OnBeforeNodeEvaluation(n)
	}
}
func (e *GraphEngine) notifyAfterNodeEvaluation(n *graph.Node) {
	for _, o := range e.observers {
		o.OnAfterNodeEvaluation(n)
	}
}
