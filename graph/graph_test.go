package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbl8/tsflow/tstype"
)

type fixedContext struct{ now tstype.EngineTime }

func (c *fixedContext) CurrentEngineTime() tstype.EngineTime { return c.now }

func t0() tstype.EngineTime { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestNodeLifecycleAndEval(t *testing.T) {
	out := tstype.NewScalarOutput[int](tstype.Scalar("int"))
	started, stopped, evaluated := false, false, false

	n := NewNode(1, NodeConfig{
		Output:  out,
		EvalFn:  func(n *Node) error { evaluated = true; out.Set(42); return nil },
		StartFn: func(n *Node) error { started = true; return nil },
		StopFn:  func(n *Node) error { stopped = true; return nil },
	})

	g := NewGraph(RootGraphID(1), "g", []*Node{n}, 0)
	g.SetExecutionContext(&fixedContext{now: t0()})

	require.NoError(t, n.Initialise())
	require.NoError(t, n.Start())
	assert.True(t, started)

	require.NoError(t, n.Eval())
	assert.True(t, evaluated)
	assert.Equal(t, 42, out.Get())
	assert.True(t, out.Modified())

	require.NoError(t, n.Stop())
	assert.True(t, stopped)
}

func TestNodeCapturesExceptionOntoErrorOutput(t *testing.T) {
	boom := assert.AnError
	n := NewNode(1, NodeConfig{
		CaptureException: true,
		EvalFn:           func(n *Node) error { return boom },
	})
	g := NewGraph(RootGraphID(1), "g", []*Node{n}, 0)
	g.SetExecutionContext(&fixedContext{now: t0()})
	require.NoError(t, n.Initialise())

	err := n.Eval()
	assert.NoError(t, err, "captured errors must not propagate")
	assert.True(t, n.ErrorOutput().Valid())
	assert.Equal(t, boom, n.ErrorOutput().Get())
}

func TestScheduleTakesEarliestRequest(t *testing.T) {
	n := NewNode(1, NodeConfig{})
	g := NewGraph(RootGraphID(1), "g", []*Node{n}, 0)
	g.SetExecutionContext(&fixedContext{now: t0()})

	g.SetScheduledTime(0, tstype.MaxDT)
	n.Schedule(5 * time.Second)
	n.Schedule(time.Second)
	assert.Equal(t, t0().Add(time.Second), g.ScheduledTime(0), "earlier request must win")
}

func TestNextProposedTimeExcludesPushSources(t *testing.T) {
	pull := NewNode(1, NodeConfig{})
	push := NewNode(2, NodeConfig{IsPushSource: true})
	g := NewGraph(RootGraphID(1), "g", []*Node{push, pull}, 1)
	g.SetExecutionContext(&fixedContext{now: t0()})

	g.SetScheduledTime(0, tstype.MinDT) // push source slot, ignored
	g.SetScheduledTime(1, t0().Add(10*time.Second))
	assert.Equal(t, t0().Add(10*time.Second), g.NextProposedTime())
}

func TestPushQueueSingleProducerNonBlocking(t *testing.T) {
	n := NewNode(1, NodeConfig{IsPushSource: true, PushQueueCapacity: 1})
	assert.True(t, n.Push(1))
	assert.False(t, n.Push(2), "full queue must reject rather than block")
	assert.True(t, n.PendingPush())

	v, ok := n.DrainPush()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.False(t, n.PendingPush())
}

func TestDescribeSnapshotRoundTrip(t *testing.T) {
	n1 := NewNode(1, NodeConfig{})
	n2 := NewNode(2, NodeConfig{IsPushSource: true})
	g := NewGraph(RootGraphID(7), "demo", []*Node{n2, n1}, 1)

	snap := g.Describe()
	assert.Equal(t, "demo", snap.Name)
	assert.Equal(t, 1, snap.PushSourceEnd)

	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)
	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap, decoded)
}
