// Package safety implements the Banker's Algorithm safe-state check.
//
// A snapshot is safe when some completion order exists in which every process
// can acquire its full declared demand and release everything it holds. The
// engine simulates exactly that: repeatedly grant every process whose
// remaining need fits into the free pool, return its allocation to the pool,
// and stop when either everyone finished (safe) or a full pass grants nobody
// (unsafe).
//
// Evaluate assumes a validated snapshot (see the state package) and performs
// a pure computation: no I/O, no shared state, safe for concurrent use.
package safety

import (
	"slices"

	"github.com/NishanthRao01/bankguard/pkg/core/state"
)

// Pass records one scan over the unfinished processes, for step-by-step
// inspection of the simulation.
type Pass struct {
	// Work is the free resource pool at the start of the pass.
	Work []int
	// Granted lists the processes granted during the pass, in index order.
	// Empty on the final pass of an unsafe evaluation.
	Granted []string
}

// Result is the outcome of a safe-state evaluation.
type Result struct {
	// Safe reports whether a completion order exists.
	Safe bool
	// Sequence is a completion order covering every process when Safe,
	// nil otherwise.
	Sequence []string
	// Trace holds one entry per simulation pass, including the stalled
	// final pass of an unsafe evaluation.
	Trace []Pass
}

// Evaluate runs the Banker's Algorithm on a validated snapshot.
//
// # Algorithm
//
// Compute need = max demand − allocation and start with work as a copy of
// the available vector. Each pass scans unfinished processes in index order;
// a process whose need fits into work is granted immediately: it is marked
// finished, appended to the sequence, and its whole allocation is added back
// into work before the scan continues. Later processes in the same pass see
// the grown pool. A pass that grants no process proves no completion order
// exists.
//
// All grantable processes are taken within a pass rather than restarting the
// scan after each grant. This affects the exact sequence, never the verdict:
// releases only ever grow work, so any process grantable at the start of a
// pass is still grantable later in it.
//
// Zero processes are vacuously safe with an empty sequence.
//
// # Performance
//
// Worst case O(P² · R) for P processes and R resource types: at least one
// process finishes per pass, and each pass costs O(P · R).
func Evaluate(s *state.State) Result {
	n := s.NumProcesses()
	need := s.Need()
	work := slices.Clone(s.Available)
	finish := make([]bool, n)

	var sequence []string
	var trace []Pass

	for completed := 0; completed < n; {
		pass := Pass{Work: slices.Clone(work)}

		for i := 0; i < n; i++ {
			if finish[i] || !fits(need[i], work) {
				continue
			}
			for j := range work {
				work[j] += s.Allocation[i][j]
			}
			finish[i] = true
			sequence = append(sequence, s.Processes[i])
			pass.Granted = append(pass.Granted, s.Processes[i])
			completed++
		}

		trace = append(trace, pass)
		if len(pass.Granted) == 0 {
			return Result{Safe: false, Trace: trace}
		}
	}

	return Result{Safe: true, Sequence: sequence, Trace: trace}
}

// fits reports whether every entry of need is covered by work.
func fits(need, work []int) bool {
	for j, units := range need {
		if units > work[j] {
			return false
		}
	}
	return true
}
