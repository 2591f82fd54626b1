package tstype

// header is the state every output shape shares: validity, last-modified
// time, the clock it stamps against, the post-evaluation notifier it can
// register cleanup callbacks with, active subscribers to notify on
// modification, and an optional bubble-up hook so a composite's child can
// mark its parent modified too.
type header struct {
	valid        bool
	lastModified EngineTime

	clock    Clock
	notifier Notifier

	subs map[Scheduler]struct{}

	// onModified is invoked, in addition to notifying subs, whenever this
	// output is marked modified. Composite outputs (bundle, list) wire this
	// on each child so that ticking any field also ticks the parent, which
	// is what lets a peered bundle input observe modification with a single
	// check against the parent rather than scanning every field.
	onModified func(EngineTime)
}

func (h *header) Valid() bool { return h.valid }

func (h *header) Modified() bool {
	return h.clock != nil && h.valid && h.lastModified.Equal(h.clock.Now())
}

func (h *header) LastModified() EngineTime { return h.lastModified }

func (h *header) SetClock(c Clock) { h.clock = c }

func (h *header) SetNotifier(n Notifier) { h.notifier = n }

// setOnModified installs the bubble-up hook a composite output uses to wire
// its children's modifications back to itself. Unexported: only composite
// output constructors within this package need it.
func (h *header) setOnModified(fn func(EngineTime)) { h.onModified = fn }

func (h *header) Subscribe(s Scheduler) {
	if h.subs == nil {
		h.subs = make(map[Scheduler]struct{})
	}
	h.subs[s] = struct{}{}
}

func (h *header) Unsubscribe(s Scheduler) {
	delete(h.subs, s)
}

// markModifiedAt stamps the header, wakes every active subscriber for the
// current tick, and bubbles the modification up through onModified. It is
// idempotent within a tick: calling it twice at the same instant notifies
// subscribers twice, which schedulers tolerate (Schedule sets a slot, it
// doesn't accumulate), but skips re-running the bubble to avoid runaway
// recursion in deeply nested bundles.
func (h *header) markModifiedAt(t EngineTime) {
	alreadyAtT := h.valid && h.lastModified.Equal(t)
	h.valid = true
	h.lastModified = t
	for s := range h.subs {
		s.Schedule(0)
	}
	if !alreadyAtT && h.onModified != nil {
		h.onModified(t)
	}
}

func (h *header) markModifiedNow() {
	if h.clock == nil {
		return
	}
	h.markModifiedAt(h.clock.Now())
}

func (h *header) markInvalid() {
	h.valid = false
}
