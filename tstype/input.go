package tstype

// BoundInput is the base of every input shape: a peer Output binding plus
// active/passive state. Activating subscribes the owning node to the bound
// output so it is scheduled whenever that output ticks; deactivating
// unsubscribes. Composite inputs (BundleInput) embed this for the peered
// case and add aggregate behaviour for the unbound case.
type BoundInput struct {
	meta   *TypeMeta
	owner  Scheduler
	output Output
	active bool
}

func NewBoundInput(meta *TypeMeta, owner Scheduler) *BoundInput {
	return &BoundInput{meta: meta, owner: owner}
}

func (i *BoundInput) TypeMeta() *TypeMeta { return i.meta }

func (i *BoundInput) BoundOutput() Output { return i.output }

func (i *BoundInput) HasPeer() bool { return i.output != nil }

func (i *BoundInput) Valid() bool {
	if i.output == nil {
		return false
	}
	return i.output.Valid()
}

func (i *BoundInput) Modified() bool {
	if i.output == nil {
		return false
	}
	return i.output.Modified()
}

func (i *BoundInput) LastModified() EngineTime {
	if i.output == nil {
		return MinDT
	}
	return i.output.LastModified()
}

func (i *BoundInput) Value() any {
	if i.output == nil {
		return nil
	}
	return i.output.Value()
}

func (i *BoundInput) DeltaValue() any {
	if i.output == nil {
		return nil
	}
	return i.output.DeltaValue()
}

func (i *BoundInput) Active() bool { return i.active }

func (i *BoundInput) MakeActive() {
	if i.active {
		return
	}
	i.active = true
	if i.output != nil {
		i.output.Subscribe(i.owner)
	}
}

func (i *BoundInput) MakePassive() {
	if !i.active {
		return
	}
	i.active = false
	if i.output != nil {
		i.output.Unsubscribe(i.owner)
	}
}

// BindOutput peers this input to o. If already active against a previous
// output, the subscription moves to the new one so the node keeps being
// scheduled on future ticks of whatever it is now bound to.
func (i *BoundInput) BindOutput(o Output) {
	if i.active && i.output != nil {
		i.output.Unsubscribe(i.owner)
	}
	i.output = o
	if i.active && o != nil {
		o.Subscribe(i.owner)
	}
}

// ScalarInput is a typed read view over a peered scalar output.
type ScalarInput[T any] struct {
	*BoundInput
}

func NewScalarInput[T any](meta *TypeMeta, owner Scheduler) *ScalarInput[T] {
	return &ScalarInput[T]{NewBoundInput(meta, owner)}
}

func (i *ScalarInput[T]) Get() T {
	v := i.Value()
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// SetInput is a typed read view over a peered set output.
type SetInput[T comparable] struct {
	*BoundInput
}

func NewSetInput[T comparable](meta *TypeMeta, owner Scheduler) *SetInput[T] {
	return &SetInput[T]{NewBoundInput(meta, owner)}
}

func (i *SetInput[T]) peer() *SetOutput[T] {
	so, _ := i.BoundOutput().(*SetOutput[T])
	return so
}

func (i *SetInput[T]) Contains(v T) bool {
	if p := i.peer(); p != nil {
		return p.Contains(v)
	}
	return false
}

func (i *SetInput[T]) WasAdded(v T) bool {
	if p := i.peer(); p != nil {
		return p.WasAdded(v)
	}
	return false
}

func (i *SetInput[T]) WasRemoved(v T) bool {
	if p := i.peer(); p != nil {
		return p.WasRemoved(v)
	}
	return false
}

// RefInput is a read view over a peered reference output.
type RefInput struct {
	*BoundInput
}

func NewRefInput(meta *TypeMeta, owner Scheduler) *RefInput {
	return &RefInput{NewBoundInput(meta, owner)}
}

// Resolve follows the bound reference output down to its current leaf, or
// nil if unbound.
func (i *RefInput) Resolve() Output {
	ro, ok := i.BoundOutput().(*RefOutput)
	if !ok {
		return nil
	}
	return ro.Resolve()
}
