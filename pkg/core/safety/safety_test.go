package safety

import (
	"reflect"
	"testing"

	"github.com/NishanthRao01/bankguard/pkg/core/state"
)

func textbook() *state.State {
	return state.New(
		[]string{"P0", "P1", "P2", "P3", "P4"},
		[]string{"A", "B", "C"},
		[][]int{
			{0, 1, 0},
			{2, 0, 0},
			{3, 0, 2},
			{2, 1, 1},
			{0, 0, 2},
		},
		[][]int{
			{7, 5, 3},
			{3, 2, 2},
			{9, 0, 2},
			{2, 2, 2},
			{4, 3, 3},
		},
		[]int{3, 3, 2},
	)
}

// Two processes each holding one unit the other still needs, with nothing
// available: the classical circular wait.
func circularWait() *state.State {
	return state.New(
		[]string{"P0", "P1"},
		[]string{"R0", "R1"},
		[][]int{{1, 0}, {0, 1}},
		[][]int{{1, 1}, {1, 1}},
		[]int{0, 0},
	)
}

func TestEvaluateTextbook(t *testing.T) {
	res := Evaluate(textbook())

	if !res.Safe {
		t.Fatal("Safe = false, want true")
	}
	want := []string{"P1", "P3", "P4", "P0", "P2"}
	if !reflect.DeepEqual(res.Sequence, want) {
		t.Errorf("Sequence = %v, want %v", res.Sequence, want)
	}
}

func TestEvaluateTextbookTrace(t *testing.T) {
	res := Evaluate(textbook())

	if len(res.Trace) != 2 {
		t.Fatalf("len(Trace) = %d, want 2", len(res.Trace))
	}

	first := res.Trace[0]
	if want := []int{3, 3, 2}; !reflect.DeepEqual(first.Work, want) {
		t.Errorf("Trace[0].Work = %v, want %v", first.Work, want)
	}
	if want := []string{"P1", "P3", "P4"}; !reflect.DeepEqual(first.Granted, want) {
		t.Errorf("Trace[0].Granted = %v, want %v", first.Granted, want)
	}

	second := res.Trace[1]
	if want := []int{7, 4, 5}; !reflect.DeepEqual(second.Work, want) {
		t.Errorf("Trace[1].Work = %v, want %v", second.Work, want)
	}
	if want := []string{"P0", "P2"}; !reflect.DeepEqual(second.Granted, want) {
		t.Errorf("Trace[1].Granted = %v, want %v", second.Granted, want)
	}
}

func TestEvaluateUnsafe(t *testing.T) {
	res := Evaluate(circularWait())

	if res.Safe {
		t.Fatal("Safe = true, want false")
	}
	if res.Sequence != nil {
		t.Errorf("Sequence = %v, want nil", res.Sequence)
	}
	if len(res.Trace) != 1 {
		t.Fatalf("len(Trace) = %d, want 1", len(res.Trace))
	}
	if len(res.Trace[0].Granted) != 0 {
		t.Errorf("Trace[0].Granted = %v, want empty (stalled pass)", res.Trace[0].Granted)
	}
}

func TestEvaluateZeroProcesses(t *testing.T) {
	res := Evaluate(state.New(nil, []string{"A"}, nil, nil, []int{1}))

	if !res.Safe {
		t.Error("Safe = false, want true (vacuously safe)")
	}
	if len(res.Sequence) != 0 {
		t.Errorf("Sequence = %v, want empty", res.Sequence)
	}
}

// A safe sequence must name every process exactly once.
func TestSequenceIsPermutation(t *testing.T) {
	s := textbook()
	res := Evaluate(s)

	if !res.Safe {
		t.Fatal("Safe = false, want true")
	}
	seen := make(map[string]int)
	for _, name := range res.Sequence {
		seen[name]++
	}
	if len(res.Sequence) != s.NumProcesses() {
		t.Fatalf("len(Sequence) = %d, want %d", len(res.Sequence), s.NumProcesses())
	}
	for _, name := range s.Processes {
		if seen[name] != 1 {
			t.Errorf("process %s appears %d times in sequence, want 1", name, seen[name])
		}
	}
}

// Granting the system more free units can never turn a safe state unsafe.
func TestSafetyMonotonicInAvailable(t *testing.T) {
	base := textbook()
	if !Evaluate(base).Safe {
		t.Fatal("base state must be safe")
	}

	for j := range base.Resources {
		for delta := 1; delta <= 3; delta++ {
			s := base.Clone()
			s.Available[j] += delta
			if !Evaluate(s).Safe {
				t.Errorf("adding %d units of %s turned a safe state unsafe",
					delta, base.Resources[j])
			}
		}
	}
}

// The circular wait resolves once either resource has a spare unit.
func TestCircularWaitResolvedByAvailability(t *testing.T) {
	s := circularWait()
	s.Available = []int{1, 0}

	res := Evaluate(s)
	if !res.Safe {
		t.Fatal("Safe = false, want true with a spare unit of R0")
	}
	if want := []string{"P1", "P0"}; !reflect.DeepEqual(res.Sequence, want) {
		t.Errorf("Sequence = %v, want %v", res.Sequence, want)
	}
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	s := textbook()
	before := s.Clone()

	Evaluate(s)

	if !reflect.DeepEqual(s, before) {
		t.Error("Evaluate mutated its input state")
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	s := textbook()
	first := Evaluate(s)
	second := Evaluate(s)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated evaluation differs: %+v vs %+v", first, second)
	}
}
