package state

import "slices"

// ProcessStatus classifies a process for display purposes.
type ProcessStatus string

const (
	// StatusComplete means the process has a fully satisfied need (it will
	// never request anything again).
	StatusComplete ProcessStatus = "Complete"
	// StatusRunning means the process still has outstanding need but holds
	// at least one resource unit.
	StatusRunning ProcessStatus = "Running"
	// StatusWaiting means the process has outstanding need and holds nothing.
	StatusWaiting ProcessStatus = "Waiting"
)

// Metrics holds derived presentation values. They carry no new invariants;
// everything here is a pure function of the snapshot.
type Metrics struct {
	// ResourceUtilization[j] is the percentage of resource j's total units
	// currently allocated. A resource with zero total units reports 0.
	ResourceUtilization []float64 `json:"resource_utilization"`
	// ProcessStates[i] classifies process i as Complete, Running or Waiting.
	ProcessStates []ProcessStatus `json:"process_states"`
	// TotalResources[j] is allocated plus available units of resource j.
	TotalResources []int `json:"total_resources"`
	// TotalAllocated[j] is the units of resource j held across all processes.
	TotalAllocated []int `json:"total_allocated"`
	// TotalAvailable[j] mirrors the snapshot's available vector.
	TotalAvailable []int `json:"total_available"`
}

// ComputeMetrics derives the presentation metrics for a validated snapshot.
func ComputeMetrics(s *State) Metrics {
	allocated := s.TotalAllocated()

	totals := make([]int, s.NumResources())
	utilization := make([]float64, s.NumResources())
	for j := range totals {
		totals[j] = allocated[j] + s.Available[j]
		if totals[j] > 0 {
			utilization[j] = float64(allocated[j]) / float64(totals[j]) * 100
		}
	}

	need := s.Need()
	states := make([]ProcessStatus, s.NumProcesses())
	for i := range states {
		switch {
		case allZero(need[i]):
			states[i] = StatusComplete
		case anyPositive(s.Allocation[i]):
			states[i] = StatusRunning
		default:
			states[i] = StatusWaiting
		}
	}

	return Metrics{
		ResourceUtilization: utilization,
		ProcessStates:       states,
		TotalResources:      totals,
		TotalAllocated:      allocated,
		TotalAvailable:      slices.Clone(s.Available),
	}
}

func allZero(row []int) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}

func anyPositive(row []int) bool {
	for _, v := range row {
		if v > 0 {
			return true
		}
	}
	return false
}
