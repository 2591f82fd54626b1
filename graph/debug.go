package graph

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Snapshot is a debug/inspection view of a graph's structure: identifiers,
// rank order, and the push-source partition. It carries no time-series
// state and is never used to resume a run; it exists purely so tooling
// (debug logging, tests) can serialize "what does this wiring look like"
// without reaching into unexported fields.
type Snapshot struct {
	ID            string
	Name          string
	NodeCount     int
	PushSourceEnd int
	NodeIDs       []int
}

// Describe builds a Snapshot of the current graph.
func (g *Graph) Describe() Snapshot {
	ids := make([]int, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = int(n.id)
	}
	return Snapshot{
		ID:            g.id.String(),
		Name:          g.name,
		NodeCount:     len(g.nodes),
		PushSourceEnd: g.pushSourceEnd,
		NodeIDs:       ids,
	}
}

// EncodeSnapshot gob-encodes a Snapshot for debug logging or a -dump flag,
// following the teacher's gob fallback (model.Graph.SerializeGob) rather
// than its bespoke binary layout, since a snapshot has no alignment or
// payload-pointer concerns to optimize for.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("graph: encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("graph: decode snapshot: %w", err)
	}
	return s, nil
}
