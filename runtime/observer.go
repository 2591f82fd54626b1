package runtime

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sbl8/tsflow/graph"
)

// Observer is notified at every phase transition of a GraphEngine run: the
// lifecycle boundary (start/stop, and per-node start/stop within it) and the
// per-tick evaluation boundary (evaluate_graph, and per-node evaluation
// within it). Implementations are expected to embed NoopObserver and
// override only the hooks they care about, the way gokit's dag decorators
// wrap a handler rather than reimplement it.
type Observer interface {
	OnBeforeStart()
	OnAfterStart()
	OnBeforeStop()
	OnAfterStop()

	OnBeforeStartNode(n *graph.Node)
	OnAfterStartNode(n *graph.Node)
	OnBeforeStopNode(n *graph.Node)
	OnAfterStopNode(n *graph.Node)

	OnBeforeEvaluation()
	OnAfterEvaluation()
	OnBeforeNodeEvaluation(n *graph.Node)
	OnAfterNodeEvaluation(n *graph.Node)
}

// NoopObserver implements Observer with empty methods so concrete observers
// only need to override the hooks they use.
type NoopObserver struct{}

func (NoopObserver) OnBeforeStart()                         {}
func (NoopObserver) OnAfterStart()                          {}
func (NoopObserver) OnBeforeStop()                          {}
func (NoopObserver) OnAfterStop()                           {}
func (NoopObserver) OnBeforeStartNode(n *graph.Node)         {}
func (NoopObserver) OnAfterStartNode(n *graph.Node)          {}
func (NoopObserver) OnBeforeStopNode(n *graph.Node)          {}
func (NoopObserver) OnAfterStopNode(n *graph.Node)           {}
func (NoopObserver) OnBeforeEvaluation()                     {}
func (NoopObserver) OnAfterEvaluation()                      {}
func (NoopObserver) OnBeforeNodeEvaluation(n *graph.Node)     {}
func (NoopObserver) OnAfterNodeEvaluation(n *graph.Node)      {}

// LoggingObserver emits one zerolog event per lifecycle transition and per
// captured node error; it deliberately does not log every node evaluation at
// info level, since that would fire once per node per tick on anything
// non-trivial. A node evaluation is logged only when the node captured an
// exception onto its error output, and then at error level.
type LoggingObserver struct {
	NoopObserver
	log zerolog.Logger
}

// NewLoggingObserver tags every event this observer emits with a fresh
// run_id, so log lines from concurrent engine runs in the same process can
// be told apart without threading a correlation id through every call site.
func NewLoggingObserver(log zerolog.Logger) *LoggingObserver {
	return &LoggingObserver{log: log.With().Str("component", "engine").Str("run_id", uuid.NewString()).Logger()}
}

func (o *LoggingObserver) OnBeforeStart() { o.log.Info().Msg("engine starting") }
func (o *LoggingObserver) OnAfterStart()  { o.log.Info().Msg("engine started") }
func (o *LoggingObserver) OnBeforeStop()  { o.log.Info().Msg("engine stopping") }
func (o *LoggingObserver) OnAfterStop()   { o.log.Info().Msg("engine stopped") }

func (o *LoggingObserver) OnAfterStartNode(n *graph.Node) {
	o.log.Debug().Int("node_id", int(n.ID())).Msg("node started")
}

func (o *LoggingObserver) OnAfterStopNode(n *graph.Node) {
	o.log.Debug().Int("node_id", int(n.ID())).Msg("node stopped")
}

func (o *LoggingObserver) OnAfterNodeEvaluation(n *graph.Node) {
	if errOut := n.ErrorOutput(); errOut != nil && errOut.Modified() {
		o.log.Error().Int("node_id", int(n.ID())).Err(errOut.Get()).Msg("node evaluation captured an exception")
	}
}
