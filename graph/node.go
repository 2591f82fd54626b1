package graph

import (
	"time"

	"github.com/sbl8/tsflow/tstype"
)

// EvalFunc is the user evaluation callback contract: read ticked/active
// inputs off n.Input(), write results onto n.Output() via ApplyResult. A
// returned error either propagates to the engine's caller or, if the node
// declares CaptureException, is recorded on the node's error output instead.
type EvalFunc func(n *Node) error

// LifecycleFunc backs a node's optional start/stop hooks.
type LifecycleFunc func(n *Node) error

// Node is the runtime instance of a single wired graph node: its identifier,
// input/output roots, scalar argument record, optional error output, owning
// graph back-reference, and the scheduler slot the engine reads to decide
// whether to evaluate it on a given tick.
type Node struct {
	id      NodeID
	graph   *Graph
	ordinal int

	input  tstype.Input
	output tstype.Output

	scalarArgs any

	errorOutput      *tstype.ScalarOutput[error]
	captureException bool

	isPushSource bool
	pushQueue    chan any

	evalFn  EvalFunc
	startFn LifecycleFunc
	stopFn  LifecycleFunc
}

// NodeConfig is the declarative description a NodeBuilder hands to
// NewNode; everything here is set once, at construction.
type NodeConfig struct {
	Input             tstype.Input
	Output            tstype.Output
	ScalarArgs        any
	CaptureException  bool
	IsPushSource      bool
	PushQueueCapacity int
	EvalFn            EvalFunc
	StartFn           LifecycleFunc
	StopFn            LifecycleFunc
}

func NewNode(id NodeID, cfg NodeConfig) *Node {
	n := &Node{
		id:               id,
		input:            cfg.Input,
		output:           cfg.Output,
		scalarArgs:       cfg.ScalarArgs,
		captureException: cfg.CaptureException,
		isPushSource:     cfg.IsPushSource,
		evalFn:           cfg.EvalFn,
		startFn:          cfg.StartFn,
		stopFn:           cfg.StopFn,
	}
	if cfg.CaptureException {
		n.errorOutput = tstype.NewScalarOutput[error](tstype.Scalar("error"))
	}
	if cfg.IsPushSource {
		capacity := cfg.PushQueueCapacity
		if capacity <= 0 {
			capacity = 64
		}
		n.pushQueue = make(chan any, capacity)
	}
	return n
}

func (n *Node) ID() NodeID             { return n.id }
func (n *Node) Input() tstype.Input    { return n.input }
func (n *Node) Output() tstype.Output  { return n.output }
func (n *Node) ScalarArgs() any        { return n.scalarArgs }
func (n *Node) IsPushSource() bool     { return n.isPushSource }
func (n *Node) Graph() *Graph          { return n.graph }
func (n *Node) Ordinal() int           { return n.ordinal }

func (n *Node) ErrorOutput() *tstype.ScalarOutput[error] { return n.errorOutput }

// AttachInput and AttachOutput complete construction for node builders that
// need the node itself (as a tstype.Scheduler) to build its input/output
// trees, which must exist before the node does. Builders call these once,
// immediately after NewNode, before any wiring happens.
func (n *Node) AttachInput(in tstype.Input)   { n.input = in }
func (n *Node) AttachOutput(out tstype.Output) { n.output = out }

// Schedule requests re-evaluation of this node at current engine time plus
// delta. Passing 0 requests evaluation in the current tick, which is how an
// output notifies its active subscribers: Output implements no scheduling
// itself, it just calls Schedule(0) on every subscriber (see tstype.header).
func (n *Node) Schedule(delta time.Duration) {
	if n.graph == nil {
		return
	}
	n.graph.requestSchedule(n.ordinal, delta)
}

// Push enqueues a value for a push-source node without blocking the
// producer; it is the only concurrency boundary in the runtime. Returns
// false if the queue is full, which the caller (an external feed) should
// treat as backpressure.
func (n *Node) Push(v any) bool {
	if n.pushQueue == nil {
		return false
	}
	select {
	case n.pushQueue <- v:
		return true
	default:
		return false
	}
}

// PendingPush reports whether a push source has at least one queued value.
func (n *Node) PendingPush() bool {
	return n.pushQueue != nil && len(n.pushQueue) > 0
}

// DrainPush pulls the next queued value for a push-source node's evaluation.
func (n *Node) DrainPush() (any, bool) {
	if n.pushQueue == nil {
		return nil, false
	}
	select {
	case v := <-n.pushQueue:
		return v, true
	default:
		return nil, false
	}
}

// Initialise wires the node's output to the owning graph's clock and
// post-evaluation notification queue. Called once, after every edge in the
// graph has been resolved, never before.
func (n *Node) Initialise() error {
	if n.output != nil {
		n.output.SetClock(n.graph)
		n.output.SetNotifier(n.graph)
	}
	if n.errorOutput != nil {
		n.errorOutput.SetClock(n.graph)
	}
	return nil
}

func (n *Node) Start() error {
	if n.startFn != nil {
		return n.startFn(n)
	}
	return nil
}

// Eval runs the user callback. A returned error is captured onto the
// node's error output when CaptureException is set, otherwise it propagates.
func (n *Node) Eval() error {
	if n.evalFn == nil {
		return nil
	}
	if err := n.evalFn(n); err != nil {
		if n.captureException && n.errorOutput != nil {
			n.errorOutput.Set(err)
			return nil
		}
		return err
	}
	return nil
}

func (n *Node) Stop() error {
	if n.stopFn != nil {
		return n.stopFn(n)
	}
	return nil
}

// Dispose releases any resources the node holds; push sources close and drop
// their queue, after which Push returns false.
func (n *Node) Dispose() {
	if n.pushQueue != nil {
		close(n.pushQueue)
		n.pushQueue = nil
	}
}
