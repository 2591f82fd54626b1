package tstype

// ListInput is a fixed-size, index-addressed collection of child inputs. It
// can be bound two ways: peered, when wired directly to a single ListOutput
// of matching schema (every aggregate read delegates straight to that
// output), or unbound, when each slot is wired to its own independent
// output (every aggregate read recomputes over the children). Mirrors
// BundleInput's has_peer dispatch, generalized from name keys to slot
// indices.
type ListInput struct {
	BoundInput
	children []Input
}

func NewListInput(meta *TypeMeta, owner Scheduler, newChild func(int) Input) *ListInput {
	l := &ListInput{
		BoundInput: *NewBoundInput(meta, owner),
		children:   make([]Input, meta.Size),
	}
	for i := range l.children {
		l.children[i] = newChild(i)
	}
	return l
}

func (l *ListInput) At(idx int) Input { return l.children[idx] }

func (l *ListInput) Len() int { return len(l.children) }

// BindOutput peers the list to o and, when o is itself a ListOutput, also
// binds each child input to the matching child output so At(idx) keeps
// working regardless of whether callers read through the peered aggregate
// or through an individual slot.
func (l *ListInput) BindOutput(o Output) {
	l.BoundInput.BindOutput(o)
	lo, ok := o.(*ListOutput)
	if !ok {
		return
	}
	for i := range l.children {
		if i < lo.Len() {
			l.children[i].BindOutput(lo.At(i))
		}
	}
}

// Valid for the unbound case is the disjunction over children, matching
// BundleInput.Valid.
func (l *ListInput) Valid() bool {
	if l.HasPeer() {
		return l.BoundInput.Valid()
	}
	for _, c := range l.children {
		if c.Valid() {
			return true
		}
	}
	return false
}

func (l *ListInput) Modified() bool {
	if l.HasPeer() {
		return l.BoundInput.Modified()
	}
	for _, c := range l.children {
		if c.Modified() {
			return true
		}
	}
	return false
}

func (l *ListInput) LastModified() EngineTime {
	if l.HasPeer() {
		return l.BoundInput.LastModified()
	}
	latest := MinDT
	for _, c := range l.children {
		if lm := c.LastModified(); lm.After(latest) {
			latest = lm
		}
	}
	return latest
}

func (l *ListInput) Value() any {
	if l.HasPeer() {
		return l.BoundInput.Value()
	}
	out := make(map[int]any, len(l.children))
	for i, c := range l.children {
		if c.Valid() {
			out[i] = c.Value()
		}
	}
	return out
}

func (l *ListInput) DeltaValue() any {
	if l.HasPeer() {
		return l.BoundInput.DeltaValue()
	}
	out := make(map[int]any, len(l.children))
	for i, c := range l.children {
		if c.Modified() {
			out[i] = c.DeltaValue()
		}
	}
	return out
}

// Active reports whether every child is active when unbound, matching
// MakeActive, which activates every child at once in that case.
func (l *ListInput) Active() bool {
	if l.HasPeer() {
		return l.BoundInput.Active()
	}
	if len(l.children) == 0 {
		return false
	}
	for _, c := range l.children {
		if !c.Active() {
			return false
		}
	}
	return true
}

func (l *ListInput) MakeActive() {
	if l.HasPeer() {
		l.BoundInput.MakeActive()
		return
	}
	for _, c := range l.children {
		c.MakeActive()
	}
}

func (l *ListInput) MakePassive() {
	if l.HasPeer() {
		l.BoundInput.MakePassive()
		return
	}
	for _, c := range l.children {
		c.MakePassive()
	}
}
