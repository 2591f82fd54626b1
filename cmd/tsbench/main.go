// Command tsbench measures tick throughput for a demo graph run through a
// back-test execution context. It replaces the teacher's sublperf, which
// timed raw SIMD kernel calls (vector/matrix/activation ops) in isolation —
// this runtime has no kernel catalog, so tsbench times what this domain
// actually has a throughput concern about: how many engine ticks per second
// a graph of a given width can sustain.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sbl8/tsflow/builder"
	"github.com/sbl8/tsflow/graph"
	"github.com/sbl8/tsflow/runtime"
	"github.com/sbl8/tsflow/tstype"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		width int
		ticks int
	)

	cmd := &cobra.Command{
		Use:   "tsbench",
		Short: "Benchmark tick throughput of a fan-out demo graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("tsflow benchmark\n")
			fmt.Printf("================\n")
			fmt.Printf("graph width: %d doublers\n", width)
			fmt.Printf("ticks:       %d\n\n", ticks)

			g, err := buildFanOutGraph(width, ticks)
			if err != nil {
				return err
			}

			start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 0, ticks)
			ctx := runtime.NewBackTestExecutionContext(start, end)
			engine := runtime.NewGraphEngine(g, ctx)

			wallStart := time.Now()
			if err := engine.Run(start, end); err != nil {
				return fmt.Errorf("tsbench: run: %w", err)
			}
			elapsed := time.Since(wallStart)

			totalEvals := int64(ticks) * int64(width+1)
			fmt.Printf("elapsed:          %v\n", elapsed)
			fmt.Printf("node evaluations: %d\n", totalEvals)
			fmt.Printf("throughput:       %.2f evals/ms\n", float64(totalEvals)/float64(elapsed.Milliseconds()+1))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 64, "number of parallel doubler nodes fed by the source")
	cmd.Flags().IntVar(&ticks, "ticks", 1000, "number of daily ticks to run")

	return cmd
}

// buildFanOutGraph wires one counter source feeding width independent
// doubler nodes, so throughput scales with how many ranked nodes the engine
// must walk per tick.
func buildFanOutGraph(width, ticks int) (*graph.Graph, error) {
	tick := 0
	source := &builder.NodeBuilder{
		Name:      "source",
		NewOutput: func() tstype.Output { return tstype.NewScalarOutput[int](tstype.Scalar("int")) },
		EvalFn: func(n *graph.Node) error {
			tick++
			n.Output().ApplyResult(tick)
			if tick < ticks {
				n.Schedule(24 * time.Hour)
			}
			return nil
		},
	}

	builders := make([]*builder.NodeBuilder, 0, width+1)
	builders = append(builders, source)
	edges := make([]builder.Edge, 0, width)
	for i := 0; i < width; i++ {
		builders = append(builders, &builder.NodeBuilder{
			Name:      fmt.Sprintf("doubler-%d", i),
			NewInput:  func(owner tstype.Scheduler) tstype.Input { return tstype.NewScalarInput[int](tstype.Scalar("int"), owner) },
			NewOutput: func() tstype.Output { return tstype.NewScalarOutput[int](tstype.Scalar("int")) },
			EvalFn: func(n *graph.Node) error {
				in := n.Input().(*tstype.ScalarInput[int])
				n.Output().ApplyResult(in.Get() * 2)
				return nil
			},
		})
		edges = append(edges, builder.Edge{SrcNode: 0, DstNode: i + 1})
	}

	gb := &builder.GraphBuilder{Name: "tsbench-fanout", NodeBuilders: builders, Edges: edges}
	g, err := gb.MakeInstance(graph.RootGraphID(1))
	if err != nil {
		return nil, err
	}
	for _, n := range g.Nodes() {
		if in, ok := n.Input().(*tstype.ScalarInput[int]); ok {
			in.MakeActive()
		}
	}
	return g, nil
}
