package tstype

import "time"

// Clock is implemented by the owning graph and answers "what engine time is
// it right now". Outputs stamp their last-modified time against it rather
// than storing a per-tick dirty flag that must be cleared: Modified() is
// simply lastModified == clock.Now().
type Clock interface {
	Now() EngineTime
}

// Notifier lets a value register a callback to run once, after the current
// graph evaluation completes. Set outputs use this to clear their added/
// removed delta between ticks (see SetOutput).
type Notifier interface {
	AddAfterEvaluationNotification(fn func())
}

// Scheduler is the owning node's re-evaluation request surface. An output
// notifies every active subscriber's Schedule(0) when it is marked modified,
// which is how "this node has a modified active input" becomes "this node is
// scheduled for the current tick" without the engine polling every edge.
type Scheduler interface {
	Schedule(delta EngineTimeDelta)
}

// EngineTimeDelta is a duration expressed against engine time, kept as its
// own name so call sites read as scheduling intent rather than wall-clock
// duration arithmetic.
type EngineTimeDelta = time.Duration

// Output is the common read/write surface of every time-series output shape.
// Concrete types (ScalarOutput[T], BundleOutput, SetOutput[T], ListOutput,
// RefOutput) each embed header and add shape-specific accessors; callers that
// need the concrete shape type-assert or type-switch on the concrete type
// rather than growing this interface.
type Output interface {
	TypeMeta() *TypeMeta

	Valid() bool
	Modified() bool
	LastModified() EngineTime

	Value() any
	DeltaValue() any

	// ApplyResult sets the output's value from a node's evaluation result and
	// marks it modified at the clock's current time. The shape of v is
	// shape-specific: a Go value of the scalar's element type for
	// ScalarOutput, a map[string]any for BundleOutput, a SetDelta[T] or a
	// plain set for SetOutput, a map[int]any of slot index to value for
	// ListOutput, and another Output for
	// RefOutput.
	ApplyResult(v any)

	MarkModified()
	MarkInvalid()

	Subscribe(s Scheduler)
	Unsubscribe(s Scheduler)

	SetClock(c Clock)
	SetNotifier(n Notifier)
}

// Input is the common read surface of every time-series input shape.
type Input interface {
	TypeMeta() *TypeMeta

	Valid() bool
	Modified() bool
	Active() bool
	LastModified() EngineTime

	Value() any
	DeltaValue() any

	MakeActive()
	MakePassive()

	// BindOutput peers this input directly to an output of a matching
	// schema. Composite inputs (bundle/list) that are bound this way answer
	// has_peer()==true and delegate every read straight to the output.
	BindOutput(o Output)
	BoundOutput() Output
	HasPeer() bool
}

// SetDelta describes an explicit added/removed change to a set output, as an
// alternative to ApplyResult receiving a full replacement set.
type SetDelta[T comparable] struct {
	Added   map[T]struct{}
	Removed map[T]struct{}
}
