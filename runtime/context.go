// Package runtime drives a wired graph.Graph through time: the two
// execution-context flavours (deterministic back-test and wall-clock
// real-time), the GraphEngine tick loop, and the lifecycle/evaluation
// observer hooks tooling hangs logging and metrics off of.
package runtime

import (
	"time"

	"github.com/sbl8/tsflow/tstype"
)

// ExecutionContext is the engine's clock and stop/push signal source. A
// graph.Graph holds one as its graph.ExecutionContext (a narrower interface
// of just CurrentEngineTime); the engine needs the rest to drive
// advanceEngineTime.
type ExecutionContext interface {
	CurrentEngineTime() tstype.EngineTime
	SetCurrentEngineTime(t tstype.EngineTime)

	StartTime() tstype.EngineTime
	EndTime() tstype.EngineTime

	// WallClockTime is "what time would a real clock say it is right now",
	// used to decide whether the engine may advance to a node's proposed
	// scheduled time or must wait for wall-clock to catch up.
	WallClockTime() tstype.EngineTime

	// PushHasPendingValues reports push activity the context itself knows
	// about, independent of any graph's own push-source node queues (which
	// the engine checks separately via graph.HasPendingPush).
	PushHasPendingValues() bool

	// WaitUntilProposedEngineTime blocks (or, in back-test mode, is never
	// called) until wall-clock time reaches proposed.
	WaitUntilProposedEngineTime(proposed tstype.EngineTime)

	RequestStop()
	StopRequested() bool

	// EngineLag is wall-clock time elapsed since the engine time was last
	// advanced, the metric a real-time deployment alarms on when it grows
	// unbounded.
	EngineLag() time.Duration
}

// BackTestExecutionContext drives engine time deterministically across a
// fixed [start, end] window as fast as the graph can be evaluated: wall
// clock is treated as always past any proposed time, so the engine never
// waits for anything but its own computation.
//
// Grounded on the reference implementation's BackTestExecutionContext
// (hg._impl._runtime._graph_engine): current_engine_time setter also stamps
// a wall-clock anchor used for engine_lag, and push_has_pending_values is
// always false at the context level (push-source activity is read from the
// graph's own queues instead, by the engine).
type BackTestExecutionContext struct {
	startTime, endTime, currentTime tstype.EngineTime
	wallClockAnchor                 time.Time
	stopRequested                    bool
}

func NewBackTestExecutionContext(start, end tstype.EngineTime) *BackTestExecutionContext {
	return &BackTestExecutionContext{startTime: start, endTime: end, currentTime: start, wallClockAnchor: time.Now()}
}

func (c *BackTestExecutionContext) CurrentEngineTime() tstype.EngineTime { return c.currentTime }

func (c *BackTestExecutionContext) SetCurrentEngineTime(t tstype.EngineTime) {
	c.currentTime = t
	c.wallClockAnchor = time.Now()
}

func (c *BackTestExecutionContext) StartTime() tstype.EngineTime { return c.startTime }
func (c *BackTestExecutionContext) EndTime() tstype.EngineTime   { return c.endTime }

// WallClockTime always reports the maximum representable time: back-test
// mode never throttles on real time.
func (c *BackTestExecutionContext) WallClockTime() tstype.EngineTime { return tstype.MaxDT }

func (c *BackTestExecutionContext) PushHasPendingValues() bool { return false }

// WaitUntilProposedEngineTime is never reached in back-test mode (wall clock
// never trails a proposed time), but is implemented for completeness and
// for tests that call it directly.
func (c *BackTestExecutionContext) WaitUntilProposedEngineTime(proposed tstype.EngineTime) {
	c.SetCurrentEngineTime(proposed)
}

func (c *BackTestExecutionContext) RequestStop()     { c.stopRequested = true }
func (c *BackTestExecutionContext) StopRequested() bool { return c.stopRequested }

func (c *BackTestExecutionContext) EngineLag() time.Duration { return time.Since(c.wallClockAnchor) }

// RealTimeExecutionContext drives engine time from the real wall clock,
// bounding engine_lag by sleeping until a node's proposed time actually
// arrives instead of racing ahead. It is documented as a full contract here;
// wiring it to a live external clock/feed is left to a deployment, per the
// spec's real-time support being a contract rather than a bundled adaptor.
type RealTimeExecutionContext struct {
	startTime, endTime, currentTime tstype.EngineTime
	stopRequested                    bool
	pushPending                      func() bool
}

func NewRealTimeExecutionContext(start, end tstype.EngineTime, pushPending func() bool) *RealTimeExecutionContext {
	if pushPending == nil {
		pushPending = func() bool { return false }
	}
	return &RealTimeExecutionContext{startTime: start, endTime: end, currentTime: start, pushPending: pushPending}
}

func (c *RealTimeExecutionContext) CurrentEngineTime() tstype.EngineTime { return c.currentTime }
func (c *RealTimeExecutionContext) SetCurrentEngineTime(t tstype.EngineTime) { c.currentTime = t }
func (c *RealTimeExecutionContext) StartTime() tstype.EngineTime { return c.startTime }
func (c *RealTimeExecutionContext) EndTime() tstype.EngineTime   { return c.endTime }
func (c *RealTimeExecutionContext) WallClockTime() tstype.EngineTime { return time.Now() }
func (c *RealTimeExecutionContext) PushHasPendingValues() bool      { return c.pushPending() }

func (c *RealTimeExecutionContext) WaitUntilProposedEngineTime(proposed tstype.EngineTime) {
	wait := proposed.Sub(time.Now())
	if wait > 0 {
		time.Sleep(wait)
	}
}

func (c *RealTimeExecutionContext) RequestStop()        { c.stopRequested = true }
func (c *RealTimeExecutionContext) StopRequested() bool { return c.stopRequested }
func (c *RealTimeExecutionContext) EngineLag() time.Duration {
	return time.Since(c.currentTime)
}
