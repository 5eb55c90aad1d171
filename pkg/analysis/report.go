package analysis

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/NishanthRao01/bankguard/pkg/cache"
	"github.com/NishanthRao01/bankguard/pkg/core/rag"
	"github.com/NishanthRao01/bankguard/pkg/core/safety"
	"github.com/NishanthRao01/bankguard/pkg/core/state"
)

// BuildReport validates a snapshot and evaluates it with both engines.
//
// The safety engine and the deadlock detector run independently on the same
// snapshot; their verdicts are aggregated with the derived metrics into one
// Report. Validation failures return an error carrying an INVALID_* code and
// no report.
func BuildReport(s *state.State, opts Options) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		warnUnsatisfiableClaims(s, opts)
	}

	report := &Report{
		Metrics: state.ComputeMetrics(s),
	}

	verdict := safety.Evaluate(s)
	report.SafeState = verdict.Safe
	report.SafeSequence = append([]string{}, verdict.Sequence...)
	if opts.IncludeTrace {
		report.Trace = tracePasses(verdict.Trace)
	}

	detection := rag.Detect(s)
	report.DeadlockDetected = detection.Deadlocked
	report.DeadlockCycle = cycleEdges(detection.Cycle)

	if opts.IncludeGraph {
		report.Graph = dumpGraph(rag.Build(s))
	}

	return report, nil
}

// SnapshotHash returns the content hash identifying a snapshot. Identical
// snapshots always hash identically, so the hash doubles as a cache key
// component and as a stable identifier in API responses.
func SnapshotHash(s *state.State) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("serialize snapshot: %w", err)
	}
	return cache.Hash(data), nil
}

// warnUnsatisfiableClaims logs every process whose maximum claim exceeds the
// total units in the system. Such a process cannot finish even with all other
// processes done, so no grant order makes the snapshot safe. The snapshot is
// still analyzable, which is why this warns instead of failing validation.
func warnUnsatisfiableClaims(s *state.State, opts Options) {
	total := s.TotalAllocated()
	for j, avail := range s.Available {
		total[j] += avail
	}
	for i, name := range s.Processes {
		for j, max := range s.MaxDemand[i] {
			if max > total[j] {
				opts.Logger.Warnf("process %s claims up to %d of %s but the system holds %d",
					name, max, s.Resources[j], total[j])
				break
			}
		}
	}
}

// tracePasses converts engine passes into their serializable form.
func tracePasses(passes []safety.Pass) []TracePass {
	out := make([]TracePass, len(passes))
	for i, p := range passes {
		out[i] = TracePass{
			Work:    slices.Clone(p.Work),
			Granted: append([]string{}, p.Granted...),
		}
	}
	return out
}

// cycleEdges converts graph edges into their name-identified cycle form.
func cycleEdges(cycle []rag.Edge) []CycleEdge {
	out := make([]CycleEdge, 0, len(cycle))
	for _, e := range cycle {
		out = append(out, CycleEdge{
			From:     e.From.Name,
			To:       e.To.Name,
			Relation: string(e.Relation),
		})
	}
	return out
}

// dumpGraph converts a resource-allocation graph into its serializable form.
func dumpGraph(g *rag.Graph) *GraphDump {
	dump := &GraphDump{
		Nodes: make([]GraphNode, 0, g.NodeCount()),
		Edges: make([]GraphEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		dump.Nodes = append(dump.Nodes, GraphNode{
			ID:   n.ID(),
			Kind: n.Kind.String(),
			Name: n.Name,
		})
	}
	for _, e := range g.Edges() {
		dump.Edges = append(dump.Edges, GraphEdge{
			From:     e.From.ID(),
			To:       e.To.ID(),
			Relation: string(e.Relation),
		})
	}
	return dump
}
