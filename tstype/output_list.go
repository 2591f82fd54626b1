package tstype

// ListOutput is a fixed-size, index-addressed collection of homogeneous
// child outputs. It bubbles child modification up to itself exactly like
// BundleOutput, so a peered list input can check one Modified() flag.
type ListOutput struct {
	header
	meta     *TypeMeta
	children []Output
}

func NewListOutput(meta *TypeMeta, newChild func(int) Output) *ListOutput {
	l := &ListOutput{meta: meta, children: make([]Output, meta.Size)}
	for i := range l.children {
		child := newChild(i)
		if h, ok := child.(interface{ setOnModified(func(EngineTime)) }); ok {
			h.setOnModified(func(t EngineTime) { l.markModifiedAt(t) })
		}
		l.children[i] = child
	}
	return l
}

func (l *ListOutput) TypeMeta() *TypeMeta { return l.meta }

func (l *ListOutput) At(i int) Output { return l.children[i] }

func (l *ListOutput) Len() int { return len(l.children) }

func (l *ListOutput) SetClock(c Clock) {
	l.header.SetClock(c)
	for _, c2 := range l.children {
		c2.SetClock(c)
	}
}

func (l *ListOutput) SetNotifier(n Notifier) {
	l.header.SetNotifier(n)
	for _, c := range l.children {
		c.SetNotifier(n)
	}
}

func (l *ListOutput) Value() any {
	out := make([]any, len(l.children))
	for i, c := range l.children {
		if c.Valid() {
			out[i] = c.Value()
		}
	}
	return out
}

func (l *ListOutput) DeltaValue() any {
	out := make(map[int]any, len(l.children))
	for i, c := range l.children {
		if c.Modified() {
			out[i] = c.DeltaValue()
		}
	}
	return out
}

// ApplyResult accepts a map[int]any of slot index to child value, applying
// each present slot.
func (l *ListOutput) ApplyResult(v any) {
	m, ok := v.(map[int]any)
	if !ok {
		return
	}
	for i, cv := range m {
		if i >= 0 && i < len(l.children) {
			l.children[i].ApplyResult(cv)
		}
	}
}

func (l *ListOutput) MarkModified() { l.markModifiedNow() }

func (l *ListOutput) MarkInvalid() {
	l.markInvalid()
	for _, c := range l.children {
		c.MarkInvalid()
	}
}
