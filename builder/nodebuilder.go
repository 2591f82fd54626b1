package builder

import (
	"github.com/go-playground/validator/v10"

	"github.com/sbl8/tsflow/graph"
	"github.com/sbl8/tsflow/tserr"
	"github.com/sbl8/tsflow/tstype"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NodeBuilder is an immutable factory for one runtime node. Fields are
// supplied once at construction (usually by a package like internal/demo
// that knows the concrete input/output shape for a given node kind) and
// MakeInstance is called once per graph instantiation.
type NodeBuilder struct {
	Name string

	// ScalarArgs, if non-nil, is a pointer to a struct carrying
	// validator.v10 tags; Validate runs it at make_instance time and
	// surfaces failures as construction errors rather than panics.
	ScalarArgs any

	CaptureException  bool
	IsPushSource      bool
	PushQueueCapacity int

	// NewInput and NewOutput build this node's input/output trees. NewInput
	// receives the node itself (as a tstype.Scheduler) because activating
	// an input subscribes its owning node to whatever output it's bound to.
	NewInput  func(owner tstype.Scheduler) tstype.Input
	NewOutput func() tstype.Output

	EvalFn  graph.EvalFunc
	StartFn graph.LifecycleFunc
	StopFn  graph.LifecycleFunc
}

// Validate checks ScalarArgs against its validator tags, if present.
func (b *NodeBuilder) Validate() error {
	if b.ScalarArgs == nil {
		return nil
	}
	if err := validate.Struct(b.ScalarArgs); err != nil {
		return &tserr.ScalarArgValidationError{NodeBuilder: b.Name, Err: err}
	}
	return nil
}

// MakeInstance allocates a runtime node. Its input/output trees exist after
// this call but are not yet wired to anything or initialised; that happens
// in GraphBuilder.MakeInstance once every node in the graph has been
// allocated.
func (b *NodeBuilder) MakeInstance(id graph.NodeID) *graph.Node {
	n := graph.NewNode(id, graph.NodeConfig{
		ScalarArgs:        b.ScalarArgs,
		CaptureException:  b.CaptureException,
		IsPushSource:      b.IsPushSource,
		PushQueueCapacity: b.PushQueueCapacity,
		EvalFn:            b.EvalFn,
		StartFn:           b.StartFn,
		StopFn:            b.StopFn,
	})
	if b.NewInput != nil {
		n.AttachInput(b.NewInput(n))
	}
	if b.NewOutput != nil {
		n.AttachOutput(b.NewOutput())
	}
	return n
}
