// Package demo holds a handful of node builders used only to give
// cmd/tsrun something to wire and run. It is deliberately not a built-in operator
// library: two arithmetic nodes, adapted down from the teacher's SIMD
// kernel catalog (kernels/ops.go) to plain float64 scalar arithmetic, since
// tensor/SIMD operations have no place in a time-series value model and a
// concrete operator library is out of scope for this module.
package demo

import (
	"time"

	"github.com/sbl8/tsflow/builder"
	"github.com/sbl8/tsflow/graph"
	"github.com/sbl8/tsflow/tstype"
)

// TickerArgs is the scalar argument record for Ticker, validated at
// make_instance time via struct tags.
type TickerArgs struct {
	Start    float64
	Step     float64       `validate:"required"`
	Interval time.Duration `validate:"required"`
}

// Ticker is a pull-source node: it emits Start, then Start+Step every
// Interval, rescheduling itself each time it runs.
func Ticker(args TickerArgs) *builder.NodeBuilder {
	value := args.Start
	first := true
	return &builder.NodeBuilder{
		Name:       "ticker",
		ScalarArgs: &args,
		NewOutput:  func() tstype.Output { return tstype.NewScalarOutput[float64](tstype.Scalar("float64")) },
		EvalFn: func(n *graph.Node) error {
			if !first {
				value += args.Step
			}
			first = false
			n.Output().ApplyResult(value)
			n.Schedule(args.Interval)
			return nil
		},
	}
}

// sumInputMeta is the two-field schema Adder's input expects: an unbound
// bundle of two scalar float64 fields.
func sumInputMeta() *tstype.TypeMeta {
	return tstype.Bundle(
		tstype.BundleField{Name: "a", Type: tstype.Scalar("float64")},
		tstype.BundleField{Name: "b", Type: tstype.Scalar("float64")},
	)
}

// Adder sums two active scalar inputs, re-evaluating whenever either ticks.
func Adder() *builder.NodeBuilder {
	meta := sumInputMeta()
	return &builder.NodeBuilder{
		Name: "adder",
		NewInput: func(owner tstype.Scheduler) tstype.Input {
			return tstype.NewBundleInput(meta, owner, func(f tstype.BundleField) tstype.Input {
				return tstype.NewScalarInput[float64](f.Type, owner)
			})
		},
		NewOutput: func() tstype.Output { return tstype.NewScalarOutput[float64](tstype.Scalar("float64")) },
		EvalFn: func(n *graph.Node) error {
			in := n.Input().(*tstype.BundleInput)
			a := in.Child("a").(*tstype.ScalarInput[float64]).Get()
			b := in.Child("b").(*tstype.ScalarInput[float64]).Get()
			n.Output().ApplyResult(a + b)
			return nil
		},
	}
}

// Doubler scales a single active scalar input by two.
func Doubler() *builder.NodeBuilder {
	return &builder.NodeBuilder{
		Name:      "doubler",
		NewInput:  func(owner tstype.Scheduler) tstype.Input { return tstype.NewScalarInput[float64](tstype.Scalar("float64"), owner) },
		NewOutput: func() tstype.Output { return tstype.NewScalarOutput[float64](tstype.Scalar("float64")) },
		EvalFn: func(n *graph.Node) error {
			in := n.Input().(*tstype.ScalarInput[float64])
			n.Output().ApplyResult(in.Get() * 2)
			return nil
		},
	}
}

// ActivateAll makes every input on every node in nodes active; a convenience
// for demo graphs, which have no reason to ever run a node passively.
func ActivateAll(nodes []*graph.Node) {
	for _, n := range nodes {
		if in := n.Input(); in != nil {
			in.MakeActive()
		}
	}
}
