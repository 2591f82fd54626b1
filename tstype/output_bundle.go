package tstype

// BundleOutput is a fixed, named collection of child outputs sharing one
// schema. Ticking any child bubbles a modification onto the bundle itself
// (via header.onModified), so a peered reader can check the bundle's own
// Modified() instead of scanning every field.
type BundleOutput struct {
	header
	meta     *TypeMeta
	order    []string
	children map[string]Output
}

// NewBundleOutput builds an (initially empty) bundle output for meta and
// wires each child's modification to bubble up to the bundle. newChild
// produces the output for each field; callers typically pass a constructor
// closure that dispatches on field.Type.Kind.
func NewBundleOutput(meta *TypeMeta, newChild func(BundleField) Output) *BundleOutput {
	b := &BundleOutput{
		meta:     meta,
		order:    make([]string, len(meta.Fields)),
		children: make(map[string]Output, len(meta.Fields)),
	}
	for i, f := range meta.Fields {
		b.order[i] = f.Name
		child := newChild(f)
		if h, ok := child.(interface{ setOnModified(func(EngineTime)) }); ok {
			h.setOnModified(func(t EngineTime) { b.markModifiedAt(t) })
		}
		b.children[f.Name] = child
	}
	return b
}

func (b *BundleOutput) TypeMeta() *TypeMeta { return b.meta }

func (b *BundleOutput) Child(name string) Output { return b.children[name] }

func (b *BundleOutput) Fields() []string { return b.order }

func (b *BundleOutput) SetClock(c Clock) {
	b.header.SetClock(c)
	for _, name := range b.order {
		b.children[name].SetClock(c)
	}
}

func (b *BundleOutput) SetNotifier(n Notifier) {
	b.header.SetNotifier(n)
	for _, name := range b.order {
		b.children[name].SetNotifier(n)
	}
}

func (b *BundleOutput) Value() any {
	out := make(map[string]any, len(b.order))
	for _, name := range b.order {
		c := b.children[name]
		if c.Valid() {
			out[name] = c.Value()
		}
	}
	return out
}

func (b *BundleOutput) DeltaValue() any {
	out := make(map[string]any, len(b.order))
	for _, name := range b.order {
		c := b.children[name]
		if c.Modified() {
			out[name] = c.DeltaValue()
		}
	}
	return out
}

// ApplyResult accepts a map of field name to child value and applies each
// present field to its child, which in turn bubbles modification up to the
// bundle itself.
func (b *BundleOutput) ApplyResult(v any) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}
	for name, cv := range m {
		if c, ok := b.children[name]; ok {
			c.ApplyResult(cv)
		}
	}
}

func (b *BundleOutput) MarkModified() { b.markModifiedNow() }

func (b *BundleOutput) MarkInvalid() {
	b.markInvalid()
	for _, name := range b.order {
		b.children[name].MarkInvalid()
	}
}
