// Package tsflow implements a reactive dataflow runtime for time-series
// computations: typed nodes wired into graphs, evaluated tick by tick by a
// deterministic engine that can run a fixed historical window (back-test)
// or follow the wall clock (real-time).
//
// tsflow reimagines a graph of computations as nodes exchanging time-series
// values — scalars, bundles, sets, lists, and references — where
// "modified" means a value's last-modified time equals the engine's
// current time, not a dirty flag a caller must remember to clear. Each
// tick, only nodes whose scheduler slot is due, or whose active input just
// ticked, are evaluated; every other node is skipped.
//
// # Architecture Overview
//
// The tsflow runtime consists of several key components:
//
//   - tstype: typed time-series values (scalar/bundle/set/list/ref) and the
//     modified/valid/active semantics every output and input shares
//   - graph: the structural runtime — nodes, graphs, scheduler slots, the
//     single-producer push queue that is the one concurrency boundary
//   - builder: immutable NodeBuilder/GraphBuilder factories that rank,
//     allocate, wire, and initialise a graph instance from a declarative
//     description
//   - runtime: the GraphEngine tick loop, back-test and real-time execution
//     contexts, observer hooks, and the switch/map nested-subgraph nodes
//   - tserr: the typed error hierarchy (wiring, construction, runtime,
//     scheduling, lifecycle) that builder and runtime report failures with
//
// # Basic Usage
//
//	gb := &builder.GraphBuilder{
//	    Name:         "demo",
//	    NodeBuilders: []*builder.NodeBuilder{demo.Ticker(args), demo.Doubler()},
//	    Edges:        []builder.Edge{{SrcNode: 0, DstNode: 1}},
//	}
//	g, err := gb.MakeInstance(graph.RootGraphID(1))
//	ctx := runtime.NewBackTestExecutionContext(start, end)
//	engine := runtime.NewGraphEngine(g, ctx)
//	err = engine.Run(start, end)
//
// # Package Structure
//
//   - tstype: time-series value shapes and change-tracking
//   - graph: structural runtime entities
//   - builder: graph construction, ranking, and wiring
//   - runtime: the evaluation engine and execution contexts
//   - tserr: typed errors
//   - config: environment-driven run configuration
//   - internal/demo: node builders used only by cmd/tsrun
//   - cmd/tsrun, cmd/tsbench: command-line tools
package tsflow
