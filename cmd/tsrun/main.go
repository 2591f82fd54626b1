// Command tsrun wires a small demo graph (ticker -> doubler) and drives
// it through a back-test or real-time execution context, printing each
// sink tick to stdout. It replaces the teacher's sublrun, which loaded a
// compiled model file from disk and fed it raw bytes — this runtime has no
// model file or bytecode format, so tsrun constructs its graph directly in
// Go and reports on the graph it built instead of decoding one.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sbl8/tsflow/builder"
	"github.com/sbl8/tsflow/config"
	"github.com/sbl8/tsflow/graph"
	"github.com/sbl8/tsflow/internal/demo"
	tsflowruntime "github.com/sbl8/tsflow/runtime"
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
		envFile  string
		start    float64
		step     float64
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "tsrun",
		Short: "Run a demo tsflow graph through an execution context",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			gb := &builder.GraphBuilder{
				Name: "tsrun-demo",
				NodeBuilders: []*builder.NodeBuilder{
					demo.Ticker(demo.TickerArgs{Start: start, Step: step, Interval: interval}),
					demo.Doubler(),
				},
				Edges: []builder.Edge{{SrcNode: 0, DstNode: 1}},
			}
			g, err := gb.MakeInstance(graph.RootGraphID(1))
			if err != nil {
				return fmt.Errorf("tsrun: build graph: %w", err)
			}
			demo.ActivateAll(g.Nodes())

			observer := tsflowruntime.NewLoggingObserver(log)
			sink := sinkObserver{node: g.Nodes()[len(g.Nodes())-1]}

			var engineCtx tsflowruntime.ExecutionContext
			var runStart, runEnd tstype.EngineTime
			switch cfg.Mode {
			case config.RunModeRealTime:
				notifyCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				rt := tsflowruntime.NewRealTimeExecutionContext(cfg.StartTime, cfg.EndTime, func() bool { return false })
				go func() {
					<-notifyCtx.Done()
					rt.RequestStop()
				}()
				engineCtx = rt
			default:
				engineCtx = tsflowruntime.NewBackTestExecutionContext(cfg.StartTime, cfg.EndTime)
			}
			runStart, runEnd = cfg.StartTime, cfg.EndTime

			engine := tsflowruntime.NewGraphEngine(g, engineCtx, observer, sink)
			return engine.Run(runStart, runEnd)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "optional .env file to load configuration from")
	cmd.Flags().Float64Var(&start, "start", 0, "ticker start value")
	cmd.Flags().Float64Var(&step, "step", 1, "ticker step per tick")
	cmd.Flags().DurationVar(&interval, "interval", 24*time.Hour, "ticker interval between ticks")

	return cmd
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
}

// sinkObserver prints the final node's output every tick it changes,
// standing in for tsrun's need to show engine progress without a real
// output-serialization format to report through.
type sinkObserver struct {
	tsflowruntime.NoopObserver
	node *graph.Node
}

func (s sinkObserver) OnAfterEvaluation() {
	out := s.node.Output()
	if out.Modified() {
		fmt.Printf("%s sink=%v\n", out.LastModified().Format(time.RFC3339), out.Value())
	}
}
