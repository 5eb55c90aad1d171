// Package rag builds resource-allocation graphs and detects deadlocks as
// directed cycles in them.
//
// The graph is bipartite: one node per process, one node per resource type.
// A hold edge (resource → process) exists wherever a process holds units of a
// resource; a wait edge (process → resource) exists wherever a process still
// needs a resource it holds none of and no units are free. A directed cycle
// through such edges is a circular wait, the defining condition of deadlock
// under single-instance-per-edge semantics.
//
// Construction and traversal order are fully deterministic, so identical
// snapshots always produce identical cycles.
package rag

import (
	"fmt"
	"slices"

	"github.com/NishanthRao01/bankguard/pkg/core/state"
)

// NodeKind distinguishes the two sides of the bipartite graph, plus the
// synthetic aggregate node used by the starvation fast path.
type NodeKind int

const (
	// KindProcess is a process node.
	KindProcess NodeKind = iota
	// KindResource is a resource-type node.
	KindResource
	// KindPool is the synthetic "Resources" aggregate that the total
	// starvation fast path pairs every process with. It never appears in a
	// graph built by Build.
	KindPool
)

// String returns the lowercase kind name.
func (k NodeKind) String() string {
	switch k {
	case KindProcess:
		return "process"
	case KindResource:
		return "resource"
	case KindPool:
		return "pool"
	default:
		return "unknown"
	}
}

// Node identifies a vertex in the resource-allocation graph. Nodes are keyed
// by (Kind, Index), never by display name, so duplicate names in the input
// cannot merge two vertices.
type Node struct {
	Kind  NodeKind // Process, resource or synthetic pool
	Index int      // Position in the snapshot's process/resource list
	Name  string   // Display name, used in output only
}

// ID returns a short stable identifier, unique within one graph.
func (n Node) ID() string {
	switch n.Kind {
	case KindProcess:
		return fmt.Sprintf("p%d", n.Index)
	case KindResource:
		return fmt.Sprintf("r%d", n.Index)
	default:
		return "pool"
	}
}

// Relation labels the direction-specific meaning of an edge.
type Relation string

const (
	// RelationHolds marks a resource → process edge: the process holds
	// units of the resource.
	RelationHolds Relation = "holds"
	// RelationWaits marks a process → resource edge: the process needs the
	// resource and none is available.
	RelationWaits Relation = "waits"
)

// Edge is a directed edge of the resource-allocation graph.
type Edge struct {
	From     Node
	To       Node
	Relation Relation
}

// Result is the outcome of deadlock detection.
type Result struct {
	// Deadlocked reports whether a circular wait (or total starvation)
	// was found.
	Deadlocked bool
	// Cycle holds the edges of one detected cycle in traversal order, or
	// the synthetic starvation pairing. Empty when Deadlocked is false.
	Cycle []Edge
}

// Graph is a resource-allocation graph over a snapshot. Process nodes occupy
// ordinals [0, P), resource nodes [P, P+R). Adjacency lists preserve
// insertion order, which Build keeps row-major by (process, resource), so
// traversals are deterministic.
//
// Use Build to construct a Graph; the zero value is empty but valid.
type Graph struct {
	nodes []Node
	edges []Edge
	out   [][]int // ordinal → successor ordinals, insertion order
}

// Build constructs the resource-allocation graph for a validated snapshot.
//
// For every process i and resource j, scanned row-major:
//   - need[i][j] > 0, allocation[i][j] == 0, available[j] == 0 adds the
//     wait edge process i → resource j
//   - allocation[i][j] > 0 adds the hold edge resource j → process i
//
// The two conditions are mutually exclusive for a given (i, j).
func Build(s *state.State) *Graph {
	numProc, numRes := s.NumProcesses(), s.NumResources()

	g := &Graph{
		nodes: make([]Node, 0, numProc+numRes),
		out:   make([][]int, numProc+numRes),
	}
	for i, name := range s.Processes {
		g.nodes = append(g.nodes, Node{Kind: KindProcess, Index: i, Name: name})
	}
	for j, name := range s.Resources {
		g.nodes = append(g.nodes, Node{Kind: KindResource, Index: j, Name: name})
	}

	need := s.Need()
	for i := 0; i < numProc; i++ {
		for j := 0; j < numRes; j++ {
			procOrd, resOrd := i, numProc+j
			if need[i][j] > 0 && s.Allocation[i][j] == 0 && s.Available[j] == 0 {
				g.addEdge(procOrd, resOrd)
			}
			if s.Allocation[i][j] > 0 {
				g.addEdge(resOrd, procOrd)
			}
		}
	}
	return g
}

func (g *Graph) addEdge(from, to int) {
	g.edges = append(g.edges, g.edge(from, to))
	g.out[from] = append(g.out[from], to)
}

// edge materializes the directed edge between two ordinals. The graph is
// bipartite, so the relation follows from the source kind.
func (g *Graph) edge(from, to int) Edge {
	relation := RelationHolds
	if g.nodes[from].Kind == KindProcess {
		relation = RelationWaits
	}
	return Edge{From: g.nodes[from], To: g.nodes[to], Relation: relation}
}

// Nodes returns all nodes: processes first, then resources, each in snapshot
// order. The returned slice is shared; treat it as read-only.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// FindCycle searches for a directed cycle and returns its edges in traversal
// order, or nil if the graph is acyclic.
//
// The search is a depth-first traversal with white/gray/black coloring,
// started from each node in ordinal order, visiting successors in insertion
// order. Hitting a gray node closes a cycle; the portion of the current DFS
// path from that node onward is returned. Any one cycle suffices, and the
// deterministic order guarantees it is always the same one for the same
// graph.
//
// Runs in O(V + E) time and O(V) space.
func (g *Graph) FindCycle() []Edge {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(g.nodes))
	var stack []int
	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		stack = append(stack, u)
		for _, v := range g.out[u] {
			switch color[v] {
			case white:
				if dfs(v) {
					return true
				}
			case gray:
				// Back-edge u → v: the stack from v onward is the cycle.
				start := slices.Index(stack, v)
				cycle = slices.Clone(stack[start:])
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[u] = black
		return false
	}

	for u := range g.nodes {
		if color[u] == white && dfs(u) {
			return g.cycleEdges(cycle)
		}
	}
	return nil
}

// cycleEdges converts an ordinal ring into its edge list, closing the ring
// from the last ordinal back to the first.
func (g *Graph) cycleEdges(ordinals []int) []Edge {
	edges := make([]Edge, 0, len(ordinals))
	for k, u := range ordinals {
		edges = append(edges, g.edge(u, ordinals[(k+1)%len(ordinals)]))
	}
	return edges
}

// Detect runs deadlock detection on a validated snapshot.
//
// A fast path handles total starvation first: when no resource has a single
// free unit and every process still has outstanding need, no process can
// ever proceed. The reported cycle is then a synthetic pairing of every
// process with the aggregate "Resources" pool node rather than an exact
// graph cycle; it is an intentional, documented approximation of the
// all-blocked state. Snapshots with zero processes never take the fast path
// and are never deadlocked.
//
// In every other state Detect builds the resource-allocation graph and
// reports the first cycle found by [Graph.FindCycle].
func Detect(s *state.State) Result {
	if cycle, ok := starvation(s); ok {
		return Result{Deadlocked: true, Cycle: cycle}
	}
	g := Build(s)
	if cycle := g.FindCycle(); cycle != nil {
		return Result{Deadlocked: true, Cycle: cycle}
	}
	return Result{}
}

// starvation reports total starvation: nothing available anywhere and every
// process still needing something.
func starvation(s *state.State) ([]Edge, bool) {
	if s.NumProcesses() == 0 {
		return nil, false
	}
	for _, units := range s.Available {
		if units != 0 {
			return nil, false
		}
	}

	need := s.Need()
	for i := range need {
		outstanding := false
		for _, units := range need[i] {
			if units > 0 {
				outstanding = true
				break
			}
		}
		if !outstanding {
			return nil, false
		}
	}

	pool := Node{Kind: KindPool, Name: "Resources"}
	cycle := make([]Edge, 0, s.NumProcesses())
	for i, name := range s.Processes {
		cycle = append(cycle, Edge{
			From:     Node{Kind: KindProcess, Index: i, Name: name},
			To:       pool,
			Relation: RelationWaits,
		})
	}
	return cycle, true
}
