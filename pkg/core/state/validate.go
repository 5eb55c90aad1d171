package state

import "github.com/NishanthRao01/bankguard/pkg/errors"

// Validate checks the structural and semantic consistency of the snapshot.
// It is the precondition for the safety and deadlock engines, which assume
// validated input and do not re-check.
//
// Checks run in order, short-circuiting on the first failure:
//
//  1. Row counts: the allocation and max-demand matrices must have exactly
//     one row per process.
//  2. Column counts: every allocation and max-demand row, and the available
//     vector, must have exactly one entry per resource. Jagged rows are
//     rejected here rather than crashing an engine on an index later.
//  3. Entry ranges: allocation and max-demand entries must be non-negative,
//     and no process may hold more of a resource than its declared max need.
//  4. Availability: no available count may be negative.
//
// The returned error is an *errors.Error with an INVALID_* code; use
// errors.UserMessage for a display string. A nil return means the snapshot
// is safe to hand to the engines.
func (s *State) Validate() error {
	if len(s.Allocation) != len(s.Processes) {
		return errors.New(errors.ErrCodeInvalidDimension,
			"number of processes (%d) doesn't match allocation matrix rows (%d)",
			len(s.Processes), len(s.Allocation))
	}
	if len(s.MaxDemand) != len(s.Processes) {
		return errors.New(errors.ErrCodeInvalidDimension,
			"max demand matrix dimensions don't match allocation matrix")
	}

	for i, row := range s.Allocation {
		if len(row) != len(s.Resources) {
			if i == 0 {
				return errors.New(errors.ErrCodeInvalidDimension,
					"number of resources (%d) doesn't match allocation matrix columns (%d)",
					len(s.Resources), len(row))
			}
			return errors.New(errors.ErrCodeInvalidDimension,
				"allocation matrix row %d has %d columns, expected %d",
				i, len(row), len(s.Resources))
		}
	}
	for _, row := range s.MaxDemand {
		if len(row) != len(s.Resources) {
			return errors.New(errors.ErrCodeInvalidDimension,
				"max demand matrix dimensions don't match allocation matrix")
		}
	}
	if len(s.Available) != len(s.Resources) {
		return errors.New(errors.ErrCodeInvalidDimension,
			"available vector has %d entries, expected %d",
			len(s.Available), len(s.Resources))
	}

	for i := range s.Allocation {
		for j := range s.Allocation[i] {
			alloc, max := s.Allocation[i][j], s.MaxDemand[i][j]
			if alloc < 0 {
				return errors.New(errors.ErrCodeInvalidValue,
					"process %s has a negative allocation of resource %s",
					s.Processes[i], s.Resources[j])
			}
			if max < 0 {
				return errors.New(errors.ErrCodeInvalidValue,
					"process %s has a negative max demand for resource %s",
					s.Processes[i], s.Resources[j])
			}
			if alloc > max {
				return errors.New(errors.ErrCodeInvalidValue,
					"process %s is allocated %d units of resource %s, but declared max need is %d",
					s.Processes[i], alloc, s.Resources[j], max)
			}
		}
	}

	for _, units := range s.Available {
		if units < 0 {
			return errors.New(errors.ErrCodeInvalidValue,
				"available resources cannot be negative")
		}
	}

	return nil
}
