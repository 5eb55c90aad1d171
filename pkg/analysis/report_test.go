package analysis

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/NishanthRao01/bankguard/pkg/core/state"
	"github.com/NishanthRao01/bankguard/pkg/errors"
)

// textbook is the classical five-process, three-resource example.
func textbook() *state.State {
	return state.New(
		[]string{"P0", "P1", "P2", "P3", "P4"},
		[]string{"A", "B", "C"},
		[][]int{{0, 1, 0}, {2, 0, 0}, {3, 0, 2}, {2, 1, 1}, {0, 0, 2}},
		[][]int{{7, 5, 3}, {3, 2, 2}, {9, 0, 2}, {2, 2, 2}, {4, 3, 3}},
		[]int{3, 3, 2},
	)
}

// crossedHolds is a snapshot with two processes each holding one resource the
// other needs, plus an idle process that keeps the starvation fast path from
// triggering, so the deadlock verdict comes from cycle search.
func crossedHolds() *state.State {
	return state.New(
		[]string{"P0", "P1", "P2"},
		[]string{"R0", "R1"},
		[][]int{{1, 0}, {0, 1}, {0, 0}},
		[][]int{{1, 1}, {1, 1}, {0, 0}},
		[]int{0, 0},
	)
}

func TestBuildReportTextbook(t *testing.T) {
	report, err := BuildReport(textbook(), Options{})
	if err != nil {
		t.Fatalf("BuildReport() error: %v", err)
	}

	if !report.SafeState {
		t.Error("Textbook snapshot should be safe")
	}
	want := []string{"P1", "P3", "P4", "P0", "P2"}
	if !slices.Equal(report.SafeSequence, want) {
		t.Errorf("SafeSequence = %v, want %v", report.SafeSequence, want)
	}
	if report.DeadlockDetected {
		t.Error("Textbook snapshot should not be deadlocked")
	}
	if report.DeadlockCycle == nil || len(report.DeadlockCycle) != 0 {
		t.Errorf("DeadlockCycle should be empty and non-nil, got %v", report.DeadlockCycle)
	}
	if !slices.Equal(report.Metrics.TotalResources, []int{10, 5, 7}) {
		t.Errorf("TotalResources = %v, want [10 5 7]", report.Metrics.TotalResources)
	}
	if report.Trace != nil {
		t.Error("Trace should be absent unless requested")
	}
	if report.Graph != nil {
		t.Error("Graph should be absent unless requested")
	}
}

func TestBuildReportIncludeTrace(t *testing.T) {
	report, err := BuildReport(textbook(), Options{IncludeTrace: true})
	if err != nil {
		t.Fatalf("BuildReport() error: %v", err)
	}

	if len(report.Trace) != 2 {
		t.Fatalf("Trace should have 2 passes, got %d", len(report.Trace))
	}
	if !slices.Equal(report.Trace[0].Work, []int{3, 3, 2}) {
		t.Errorf("Pass 1 work = %v, want [3 3 2]", report.Trace[0].Work)
	}
	if !slices.Equal(report.Trace[0].Granted, []string{"P1", "P3", "P4"}) {
		t.Errorf("Pass 1 granted = %v, want [P1 P3 P4]", report.Trace[0].Granted)
	}
	if !slices.Equal(report.Trace[1].Work, []int{7, 4, 5}) {
		t.Errorf("Pass 2 work = %v, want [7 4 5]", report.Trace[1].Work)
	}
	if !slices.Equal(report.Trace[1].Granted, []string{"P0", "P2"}) {
		t.Errorf("Pass 2 granted = %v, want [P0 P2]", report.Trace[1].Granted)
	}
}

func TestBuildReportIncludeGraph(t *testing.T) {
	report, err := BuildReport(textbook(), Options{IncludeGraph: true})
	if err != nil {
		t.Fatalf("BuildReport() error: %v", err)
	}

	if report.Graph == nil {
		t.Fatal("Graph should be present when requested")
	}
	if len(report.Graph.Nodes) != 8 {
		t.Errorf("Graph nodes = %d, want 8", len(report.Graph.Nodes))
	}
	if len(report.Graph.Edges) != 8 {
		t.Errorf("Graph edges = %d, want 8", len(report.Graph.Edges))
	}
	if report.Graph.Nodes[0].ID != "p0" || report.Graph.Nodes[0].Kind != "process" {
		t.Errorf("First node = %+v, want process p0", report.Graph.Nodes[0])
	}
	if report.Graph.Nodes[5].ID != "r0" || report.Graph.Nodes[5].Kind != "resource" {
		t.Errorf("Sixth node = %+v, want resource r0", report.Graph.Nodes[5])
	}
}

func TestBuildReportDeadlock(t *testing.T) {
	report, err := BuildReport(crossedHolds(), Options{})
	if err != nil {
		t.Fatalf("BuildReport() error: %v", err)
	}

	if report.SafeState {
		t.Error("Crossed holds should be unsafe")
	}
	if len(report.SafeSequence) != 0 {
		t.Errorf("Unsafe snapshot should have empty sequence, got %v", report.SafeSequence)
	}
	if !report.DeadlockDetected {
		t.Fatal("Crossed holds should be deadlocked")
	}

	want := []CycleEdge{
		{From: "P0", To: "R1", Relation: "waits"},
		{From: "R1", To: "P1", Relation: "holds"},
		{From: "P1", To: "R0", Relation: "waits"},
		{From: "R0", To: "P0", Relation: "holds"},
	}
	if !slices.Equal(report.DeadlockCycle, want) {
		t.Errorf("DeadlockCycle = %v, want %v", report.DeadlockCycle, want)
	}
}

func TestBuildReportValidationError(t *testing.T) {
	snap := state.New(
		[]string{"P0"},
		[]string{"R0"},
		[][]int{{5}},
		[][]int{{3}}, // allocation exceeds max demand
		[]int{0},
	)

	report, err := BuildReport(snap, Options{})
	if err == nil {
		t.Fatal("Invalid snapshot should fail")
	}
	if report != nil {
		t.Error("Invalid snapshot should not produce a report")
	}
	if !errors.IsValidation(err) {
		t.Errorf("Expected a validation error, got %v", err)
	}
}

func TestBuildReportEmptySystem(t *testing.T) {
	report, err := BuildReport(&state.State{}, Options{})
	if err != nil {
		t.Fatalf("BuildReport() error: %v", err)
	}

	if !report.SafeState {
		t.Error("Empty system should be vacuously safe")
	}
	if report.SafeSequence == nil || len(report.SafeSequence) != 0 {
		t.Errorf("Empty system sequence should be empty and non-nil, got %v", report.SafeSequence)
	}
	if report.DeadlockDetected {
		t.Error("Empty system should not be deadlocked")
	}
}

func TestReportJSONShape(t *testing.T) {
	report, err := BuildReport(crossedHolds(), Options{})
	if err != nil {
		t.Fatalf("BuildReport() error: %v", err)
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	s := string(data)

	if !strings.Contains(s, `"safe_state":false`) {
		t.Errorf("JSON missing safe_state: %s", s)
	}
	if !strings.Contains(s, `"safe_sequence":[]`) {
		t.Errorf("JSON safe_sequence should be [] not null: %s", s)
	}
	if !strings.Contains(s, `"deadlock_detected":true`) {
		t.Errorf("JSON missing deadlock_detected: %s", s)
	}
	if strings.Contains(s, `"trace"`) {
		t.Errorf("JSON should omit trace unless requested: %s", s)
	}
	if strings.Contains(s, `"graph"`) {
		t.Errorf("JSON should omit graph unless requested: %s", s)
	}

	// Cached reports must survive a decode round trip
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if decoded.DeadlockDetected != report.DeadlockDetected {
		t.Error("Round trip changed the deadlock verdict")
	}
	if !slices.Equal(decoded.DeadlockCycle, report.DeadlockCycle) {
		t.Error("Round trip changed the deadlock cycle")
	}
}

func TestSnapshotHash(t *testing.T) {
	first, err := SnapshotHash(textbook())
	if err != nil {
		t.Fatalf("SnapshotHash() error: %v", err)
	}
	second, err := SnapshotHash(textbook())
	if err != nil {
		t.Fatalf("SnapshotHash() error: %v", err)
	}
	if first != second {
		t.Error("Identical snapshots should hash identically")
	}

	changed := textbook()
	changed.Available[0]++
	other, err := SnapshotHash(changed)
	if err != nil {
		t.Fatalf("SnapshotHash() error: %v", err)
	}
	if other == first {
		t.Error("Different snapshots should hash differently")
	}
}
