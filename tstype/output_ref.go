package tstype

// RefOutput carries a late-bound pointer to another output rather than a
// value of its own. Reading through it (Value/Valid) always resolves to
// whatever the current target is; Modified() reflects only rebinding, not
// activity on the target. A consumer bound to a reference is therefore only
// re-scheduled when the reference itself is rebound, never merely because
// the resolved target happened to tick — the target's own subscribers
// (if any) are a separate concern.
type RefOutput struct {
	header
	meta   *TypeMeta
	target Output
}

func NewRefOutput(meta *TypeMeta) *RefOutput {
	return &RefOutput{meta: meta}
}

func (r *RefOutput) TypeMeta() *TypeMeta { return r.meta }

// Bind points the reference at a new target and marks the reference itself
// modified at the current engine time, whether or not the target changed.
func (r *RefOutput) Bind(target Output) {
	r.target = target
	r.markModifiedNow()
}

// Resolve follows a chain of references down to the first non-reference
// output, or nil if unbound.
func (r *RefOutput) Resolve() Output {
	cur := r.target
	for cur != nil {
		rr, ok := cur.(*RefOutput)
		if !ok {
			return cur
		}
		cur = rr.target
	}
	return nil
}

// Valid reports whether the resolved target is valid; an unbound reference
// is invalid.
func (r *RefOutput) Valid() bool {
	t := r.Resolve()
	return t != nil && t.Valid()
}

func (r *RefOutput) Value() any {
	t := r.Resolve()
	if t == nil {
		return nil
	}
	return t.Value()
}

func (r *RefOutput) DeltaValue() any {
	if !r.Modified() {
		return nil
	}
	return r.Value()
}

// ApplyResult accepts another Output and rebinds to it.
func (r *RefOutput) ApplyResult(v any) {
	t, ok := v.(Output)
	if !ok {
		return
	}
	r.Bind(t)
}

func (r *RefOutput) MarkModified() { r.markModifiedNow() }

func (r *RefOutput) MarkInvalid() { r.markInvalid() }
