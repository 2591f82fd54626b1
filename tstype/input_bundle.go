package tstype

// BundleInput is a named collection of child inputs. It can be bound two
// ways: peered, when wired directly to a single BundleOutput of matching
// schema (every aggregate read delegates straight to that output), or
// unbound, when each child is wired to its own independent output (every
// aggregate read recomputes over the children). This mirrors has_peer
// branching in the reference implementation's bundle input exactly.
type BundleInput struct {
	BoundInput
	order    []string
	children map[string]Input
}

func NewBundleInput(meta *TypeMeta, owner Scheduler, newChild func(BundleField) Input) *BundleInput {
	b := &BundleInput{
		BoundInput: *NewBoundInput(meta, owner),
		order:      make([]string, len(meta.Fields)),
		children:   make(map[string]Input, len(meta.Fields)),
	}
	for i, f := range meta.Fields {
		b.order[i] = f.Name
		b.children[f.Name] = newChild(f)
	}
	return b
}

func (b *BundleInput) Child(name string) Input { return b.children[name] }

func (b *BundleInput) Fields() []string { return b.order }

// BindOutput peers the bundle to o and, when o is itself a BundleOutput,
// also binds each child input to the matching child output so that
// Child(name) keeps working regardless of whether callers read through the
// peered aggregate or through an individual field.
func (b *BundleInput) BindOutput(o Output) {
	b.BoundInput.BindOutput(o)
	bo, ok := o.(*BundleOutput)
	if !ok {
		return
	}
	for _, name := range b.order {
		b.children[name].BindOutput(bo.Child(name))
	}
}

// Valid for the unbound case is the disjunction over children (any valid
// child makes the bundle valid), matching _tsb.py's
// valid = any(ts.valid for ts in self.values()).
func (b *BundleInput) Valid() bool {
	if b.HasPeer() {
		return b.BoundInput.Valid()
	}
	for _, name := range b.order {
		if b.children[name].Valid() {
			return true
		}
	}
	return false
}

func (b *BundleInput) Modified() bool {
	if b.HasPeer() {
		return b.BoundInput.Modified()
	}
	for _, name := range b.order {
		if b.children[name].Modified() {
			return true
		}
	}
	return false
}

func (b *BundleInput) LastModified() EngineTime {
	if b.HasPeer() {
		return b.BoundInput.LastModified()
	}
	latest := MinDT
	for _, name := range b.order {
		if lm := b.children[name].LastModified(); lm.After(latest) {
			latest = lm
		}
	}
	return latest
}

func (b *BundleInput) Value() any {
	if b.HasPeer() {
		return b.BoundInput.Value()
	}
	out := make(map[string]any, len(b.order))
	for _, name := range b.order {
		c := b.children[name]
		if c.Valid() {
			out[name] = c.Value()
		}
	}
	return out
}

func (b *BundleInput) DeltaValue() any {
	if b.HasPeer() {
		return b.BoundInput.DeltaValue()
	}
	out := make(map[string]any, len(b.order))
	for _, name := range b.order {
		c := b.children[name]
		if c.Modified() {
			out[name] = c.DeltaValue()
		}
	}
	return out
}

// Active reports whether every child is active when unbound, matching
// MakeActive, which activates every child at once in that case.
func (b *BundleInput) Active() bool {
	if b.HasPeer() {
		return b.BoundInput.Active()
	}
	if len(b.order) == 0 {
		return false
	}
	for _, name := range b.order {
		if !b.children[name].Active() {
			return false
		}
	}
	return true
}

func (b *BundleInput) MakeActive() {
	if b.HasPeer() {
		b.BoundInput.MakeActive()
		return
	}
	for _, name := range b.order {
		b.children[name].MakeActive()
	}
}

func (b *BundleInput) MakePassive() {
	if b.HasPeer() {
		b.BoundInput.MakePassive()
		return
	}
	for _, name := range b.order {
		b.children[name].MakePassive()
	}
}
