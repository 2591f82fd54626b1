package tstype

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is a manually-advanced Clock for deterministic tests.
type testClock struct{ now EngineTime }

func (c *testClock) Now() EngineTime { return c.now }

// testScheduler records Schedule calls so tests can assert a node would have
// been woken without needing a real engine.
type testScheduler struct{ scheduled int }

func (s *testScheduler) Schedule(_ time.Duration) { s.scheduled++ }

// testNotifier runs queued callbacks synchronously when Flush is called,
// standing in for the graph's real post-evaluation queue.
type testNotifier struct{ pending []func() }

func (n *testNotifier) AddAfterEvaluationNotification(fn func()) {
	n.pending = append(n.pending, fn)
}

func (n *testNotifier) Flush() {
	pending := n.pending
	n.pending = nil
	for _, fn := range pending {
		fn()
	}
}

func t0() EngineTime { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
func t1() EngineTime { return t0().Add(time.Second) }

func TestTypeMetaEqualAndString(t *testing.T) {
	a := Bundle(BundleField{Name: "x", Type: Scalar("float64")}, BundleField{Name: "y", Type: Scalar("float64")})
	b := Bundle(BundleField{Name: "x", Type: Scalar("float64")}, BundleField{Name: "y", Type: Scalar("float64")})
	assert.True(t, a.Equal(b))
	assert.Equal(t, "BUNDLE{x: float64, y: float64}", a.String())

	c := Set(Scalar("string"))
	assert.False(t, a.Equal(c))
	assert.Equal(t, "SET[string]", c.String())
}

func TestTypeMetaResolveParametric(t *testing.T) {
	generic := Bundle(BundleField{Name: "v", Type: Scalar("T")})
	resolved, err := generic.Resolve(map[string]*TypeMeta{"T": Scalar("int")})
	require.NoError(t, err)
	assert.Equal(t, "int", resolved.Fields[0].Type.ScalarName)
}

func TestScalarOutputModifiedIsTimeComparison(t *testing.T) {
	clk := &testClock{now: t0()}
	o := NewScalarOutput[int](Scalar("int"))
	o.SetClock(clk)

	assert.False(t, o.Valid())
	o.Set(42)
	assert.True(t, o.Valid())
	assert.True(t, o.Modified())
	assert.Equal(t, 42, o.Get())

	clk.now = t1()
	assert.False(t, o.Modified(), "modified must be false once engine time moves on")
	assert.True(t, o.Valid(), "validity persists across ticks")
}

func TestScalarOutputSubscribeSchedulesOnModify(t *testing.T) {
	clk := &testClock{now: t0()}
	o := NewScalarOutput[int](Scalar("int"))
	o.SetClock(clk)
	sched := &testScheduler{}
	o.Subscribe(sched)

	o.Set(1)
	assert.Equal(t, 1, sched.scheduled)

	o.Unsubscribe(sched)
	o.Set(2)
	assert.Equal(t, 1, sched.scheduled, "unsubscribed scheduler must not be woken")
}

func TestScalarInputActivation(t *testing.T) {
	clk := &testClock{now: t0()}
	out := NewScalarOutput[int](Scalar("int"))
	out.SetClock(clk)
	node := &testScheduler{}
	in := NewScalarInput[int](Scalar("int"), node)

	in.BindOutput(out)
	out.Set(1)
	assert.Equal(t, 0, node.scheduled, "passive input must not schedule its node")

	in.MakeActive()
	out.Set(2)
	assert.Equal(t, 1, node.scheduled)

	in.MakePassive()
	out.Set(3)
	assert.Equal(t, 1, node.scheduled, "deactivated input must stop scheduling")
}

func newBundleMeta() *TypeMeta {
	return Bundle(
		BundleField{Name: "x", Type: Scalar("float64")},
		BundleField{Name: "y", Type: Scalar("float64")},
	)
}

func newBundleOutput(clk Clock) *BundleOutput {
	meta := newBundleMeta()
	b := NewBundleOutput(meta, func(f BundleField) Output {
		return NewScalarOutput[float64](f.Type)
	})
	b.SetClock(clk)
	return b
}

func TestBundleOutputBubblesModificationFromChild(t *testing.T) {
	clk := &testClock{now: t0()}
	b := newBundleOutput(clk)

	b.Child("x").ApplyResult(1.0)
	assert.True(t, b.Modified(), "ticking one field must mark the bundle modified")
	assert.Equal(t, map[string]any{"x": 1.0}, b.DeltaValue())
}

func TestBundleInputPeeredDelegatesToOutput(t *testing.T) {
	clk := &testClock{now: t0()}
	out := newBundleOutput(clk)
	node := &testScheduler{}
	in := NewBundleInput(newBundleMeta(), node, func(f BundleField) Input {
		return NewScalarInput[float64](f.Type, node)
	})

	in.BindOutput(out)
	assert.True(t, in.HasPeer())

	out.Child("x").ApplyResult(1.0)
	out.Child("y").ApplyResult(2.0)
	assert.True(t, in.Modified())
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0}, in.Value())

	clk.now = t1()
	out.Child("x").ApplyResult(3.0)
	assert.True(t, in.Modified(), "bundle as a whole modified when any peered field ticks")
	assert.Equal(t, map[string]any{"x": 3.0}, in.DeltaValue())
}

func TestBundleInputUnboundAggregatesOverChildren(t *testing.T) {
	node := &testScheduler{}
	in := NewBundleInput(newBundleMeta(), node, func(f BundleField) Input {
		return NewScalarInput[float64](f.Type, node)
	})
	assert.False(t, in.HasPeer())
	assert.False(t, in.Valid(), "unbound bundle is invalid until at least one child is bound and valid")

	clk := &testClock{now: t0()}
	xOut := NewScalarOutput[float64](Scalar("float64"))
	xOut.SetClock(clk)
	yOut := NewScalarOutput[float64](Scalar("float64"))
	yOut.SetClock(clk)

	in.Child("x").BindOutput(xOut)
	in.Child("y").BindOutput(yOut)
	xOut.Set(1.0)
	assert.True(t, in.Valid(), "valid as soon as any child is valid, even though y has never ticked")
	assert.Equal(t, map[string]any{"x": 1.0}, in.Value())

	yOut.Set(2.0)
	assert.True(t, in.Valid())
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0}, in.Value())
}

func TestSetOutputDeltaResetsAfterEvaluation(t *testing.T) {
	clk := &testClock{now: t0()}
	notifier := &testNotifier{}
	s := NewSetOutput[string](Set(Scalar("string")))
	s.SetClock(clk)
	s.SetNotifier(notifier)

	s.ApplyResult(map[string]struct{}{"a": {}, "b": {}})
	assert.True(t, s.Contains("a"))
	assert.True(t, s.WasAdded("a"))

	notifier.Flush()
	assert.False(t, s.WasAdded("a"), "added/removed must clear once the evaluation's after-hooks run")
	assert.True(t, s.Contains("a"), "membership itself must persist across the reset")
}

func TestSetOutputRejectsSimultaneousAddRemove(t *testing.T) {
	clk := &testClock{now: t0()}
	notifier := &testNotifier{}
	s := NewSetOutput[string](Set(Scalar("string")))
	s.SetClock(clk)
	s.SetNotifier(notifier)
	s.ApplyResult(map[string]struct{}{"a": {}})
	notifier.Flush()

	s.ApplyResult(SetDelta[string]{
		Added:   map[string]struct{}{"a": {}},
		Removed: map[string]struct{}{"a": {}},
	})
	assert.True(t, s.Contains("a"), "element present in both added and removed must be dropped from the delta, not applied")
}

func TestListOutputBubblesAndIndexes(t *testing.T) {
	clk := &testClock{now: t0()}
	meta := List(Scalar("int"), 3)
	l := NewListOutput(meta, func(int) Output { return NewScalarOutput[int](Scalar("int")) })
	l.SetClock(clk)

	l.At(1).ApplyResult(9)
	assert.True(t, l.Modified())
	assert.Equal(t, 9, l.At(1).Value())
}

func TestRefOutputRebindMarksModifiedButNotTargetActivity(t *testing.T) {
	clk := &testClock{now: t0()}
	a := NewScalarOutput[int](Scalar("int"))
	a.SetClock(clk)
	b := NewScalarOutput[int](Scalar("int"))
	b.SetClock(clk)
	a.Set(10)

	ref := NewRefOutput(Ref(Scalar("int")))
	ref.SetClock(clk)
	ref.Bind(a)
	assert.True(t, ref.Modified())
	assert.Equal(t, 10, ref.Value())

	clk.now = t1()
	assert.False(t, ref.Modified(), "no further rebind, no further modification")
	b.Set(20)
	assert.False(t, ref.Modified(), "target ticking alone must not modify the reference")

	ref.Bind(b)
	assert.True(t, ref.Modified())
	assert.Equal(t, 20, ref.Value())
}
