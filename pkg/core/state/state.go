// Package state defines the allocation snapshot evaluated by the safety and
// deadlock engines, its validation rules, and the derived presentation
// metrics.
//
// A [State] is pure value data: processes and resources are labels indexing
// the rows and columns of the allocation and max-demand matrices, and nothing
// outlives a single computation. Constructors deep-copy their inputs so a
// State never aliases caller-owned memory, which keeps every downstream
// computation re-entrant.
package state

import "slices"

// State is a snapshot of a resource-allocation system.
//
// Processes and Resources hold display names; index i identifies process i
// across Allocation, MaxDemand and derived matrices, index j identifies
// resource j across matrix columns and Available.
//
// The JSON field names define the wire and file format shared by the API and
// scenario files.
//
// The zero value is a valid empty system (no processes, no resources).
// State is not safe for concurrent mutation; treat it as immutable after
// construction.
type State struct {
	// Processes holds the process display names (row labels).
	Processes []string `json:"processes" toml:"processes"`

	// Resources holds the resource display names (column labels).
	Resources []string `json:"resources" toml:"resources"`

	// Allocation[i][j] is the units of resource j held by process i.
	Allocation [][]int `json:"allocation" toml:"allocation"`

	// MaxDemand[i][j] is the max units of resource j process i may request.
	MaxDemand [][]int `json:"max_demand" toml:"max_demand"`

	// Available[j] is the free units of resource j.
	Available []int `json:"available" toml:"available"`
}

// New builds a State from caller-supplied slices, deep-copying every matrix
// and vector so the returned State shares no memory with its arguments.
// No validation is performed; call [Validate] before handing the State to an
// engine.
func New(processes, resources []string, allocation, maxDemand [][]int, available []int) *State {
	return &State{
		Processes:  slices.Clone(processes),
		Resources:  slices.Clone(resources),
		Allocation: cloneMatrix(allocation),
		MaxDemand:  cloneMatrix(maxDemand),
		Available:  slices.Clone(available),
	}
}

// NumProcesses returns the number of processes in the snapshot.
func (s *State) NumProcesses() int { return len(s.Processes) }

// NumResources returns the number of resource types in the snapshot.
func (s *State) NumResources() int { return len(s.Resources) }

// Need returns the derived need matrix, Need[i][j] = MaxDemand[i][j] -
// Allocation[i][j]: the units process i may still request. The result is
// freshly allocated on every call. For a validated State every entry is
// non-negative.
func (s *State) Need() [][]int {
	need := make([][]int, len(s.Allocation))
	for i := range s.Allocation {
		row := make([]int, len(s.Allocation[i]))
		for j := range s.Allocation[i] {
			row[j] = s.MaxDemand[i][j] - s.Allocation[i][j]
		}
		need[i] = row
	}
	return need
}

// TotalAllocated returns the column sums of the allocation matrix: the units
// of each resource currently held across all processes.
func (s *State) TotalAllocated() []int {
	totals := make([]int, s.NumResources())
	for i := range s.Allocation {
		for j, units := range s.Allocation[i] {
			if j < len(totals) {
				totals[j] += units
			}
		}
	}
	return totals
}

// Clone returns a deep copy sharing no memory with the receiver.
func (s *State) Clone() *State {
	return New(s.Processes, s.Resources, s.Allocation, s.MaxDemand, s.Available)
}

func cloneMatrix(m [][]int) [][]int {
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = slices.Clone(row)
	}
	return out
}
