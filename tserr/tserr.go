// Package tserr defines the error vocabulary used across tsflow: wiring,
// construction, runtime, scheduling, and lifecycle failures. Each kind has
// its own sentinel or typed error so callers can errors.Is/errors.As instead
// of matching on message text, following the wrapped-error convention the
// rest of this module's dependencies use.
package tserr

import (
	"errors"
	"fmt"
)

// Wiring errors: raised while resolving edges between node builders, before
// any node exists.
var (
	ErrNoSinkNodes           = errors.New("tsflow: graph has no sink nodes")
	ErrPushSourceNotSupported = errors.New("tsflow: push source node used where only pull sources are permitted")
)

// InvalidEdgePathError reports an edge whose output_path or input_path does
// not resolve against the node's declared schema.
type InvalidEdgePathError struct {
	SrcNode, DstNode int
	Path             []string
	Reason           string
}

func (e *InvalidEdgePathError) Error() string {
	return fmt.Sprintf("tsflow: invalid edge path %v from node %d to node %d: %s", e.Path, e.SrcNode, e.DstNode, e.Reason)
}

// Construction errors: raised by GraphBuilder.MakeInstance while allocating
// and validating nodes, before wiring.
type BuilderInvariantError struct {
	NodeBuilder string
	Reason      string
}

func (e *BuilderInvariantError) Error() string {
	return fmt.Sprintf("tsflow: builder invariant violated for %q: %s", e.NodeBuilder, e.Reason)
}

// ScalarArgValidationError wraps a validator.v10 failure on a node's scalar
// argument record.
type ScalarArgValidationError struct {
	NodeBuilder string
	Err         error
}

func (e *ScalarArgValidationError) Error() string {
	return fmt.Sprintf("tsflow: scalar args invalid for %q: %v", e.NodeBuilder, e.Err)
}

func (e *ScalarArgValidationError) Unwrap() error { return e.Err }

// Runtime errors: raised or captured during node evaluation.
type NodeEvalError struct {
	NodeID int
	Err    error
}

func (e *NodeEvalError) Error() string {
	return fmt.Sprintf("tsflow: node %d evaluation failed: %v", e.NodeID, e.Err)
}

func (e *NodeEvalError) Unwrap() error { return e.Err }

// Scheduling errors: raised by the engine's run entrypoint.
var ErrInvalidTimeRange = errors.New("tsflow: end_time must not be before start_time")

// Lifecycle errors: raised by a node's start or stop hook. The engine still
// attempts stop() on every other node during unwind even after one returns
// an error; NodeLifecycleError records which node and which phase failed.
type NodeLifecycleError struct {
	NodeID int
	Phase  string // "start" or "stop"
	Err    error
}

func (e *NodeLifecycleError) Error() string {
	return fmt.Sprintf("tsflow: node %d failed during %s: %v", e.NodeID, e.Phase, e.Err)
}

func (e *NodeLifecycleError) Unwrap() error { return e.Err }
