// Package analysis provides the core evaluation pipeline for Bankguard.
//
// This package implements the complete validate → analyze → render pipeline
// that can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Analyze: Validate the snapshot and run the safety and deadlock engines
//  2. Render: Generate resource-allocation-graph artifacts (DOT, SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// The analyze stage always runs; the render stage runs only when output
// formats are requested.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := analysis.NewRunner(cache, nil, logger)
//	opts := analysis.Options{
//	    IncludeTrace: true,
//	    Formats:      []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, snap, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Report.SafeState)
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Analyze only
//	report, err := runner.Analyze(ctx, snap, opts)
//
//	// Render artifacts for an already-analyzed snapshot
//	artifacts, err := runner.Render(ctx, snap, opts)
package analysis

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/NishanthRao01/bankguard/pkg/cache"
	"github.com/NishanthRao01/bankguard/pkg/core/state"
	"github.com/NishanthRao01/bankguard/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// DefaultRankdir is the default graph layout direction.
const DefaultRankdir = "LR"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidRankdirs is the set of supported graph layout directions.
var ValidRankdirs = map[string]bool{
	"TB": true,
	"LR": true,
	"BT": true,
	"RL": true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Analyze options
	IncludeTrace bool `json:"include_trace,omitempty"` // Attach per-pass grant trace to the report
	IncludeGraph bool `json:"include_graph,omitempty"` // Attach the full allocation graph to the report
	Refresh      bool `json:"refresh,omitempty"`       // Bypass cached results and recompute

	// Render options
	Formats []string `json:"formats,omitempty"`
	Rankdir string   `json:"rankdir,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Report is the aggregated safety and deadlock verdict.
	Report *Report

	// SnapshotHash is the content hash of the analyzed snapshot.
	SnapshotHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ProcessCount  int
	ResourceCount int
	AnalyzeTime   time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalysisHit bool // Whether the report came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Report - Aggregated Verdict
// =============================================================================

// Report is the aggregated result of evaluating one snapshot: the safety
// verdict, the deadlock verdict, and the derived presentation metrics.
// Its JSON field names define the API response shape.
type Report struct {
	// SafeState reports whether a safe completion order exists.
	SafeState bool `json:"safe_state"`

	// SafeSequence is a completion order covering every process when
	// SafeState is true, empty otherwise. Never null in JSON.
	SafeSequence []string `json:"safe_sequence"`

	// DeadlockDetected reports whether the snapshot contains a deadlock.
	DeadlockDetected bool `json:"deadlock_detected"`

	// DeadlockCycle is the hold/wait cycle witnessing the deadlock, empty
	// when DeadlockDetected is false. Never null in JSON.
	DeadlockCycle []CycleEdge `json:"deadlock_cycle"`

	// Metrics holds derived presentation data (utilization, process states).
	Metrics state.Metrics `json:"metrics"`

	// Trace is the per-pass grant trace, present when requested via
	// Options.IncludeTrace.
	Trace []TracePass `json:"trace,omitempty"`

	// Graph is the full resource-allocation graph, present when requested
	// via Options.IncludeGraph.
	Graph *GraphDump `json:"graph,omitempty"`
}

// CycleEdge is one edge of a deadlock cycle, identified by node display
// names. Relation is "holds" for resource→process edges and "waits" for
// process→resource edges.
type CycleEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// TracePass records one scan pass of the safety engine: the work vector at
// the start of the pass and the processes granted during it.
type TracePass struct {
	Work    []int    `json:"work"`
	Granted []string `json:"granted"`
}

// GraphDump is the serializable form of the resource-allocation graph.
type GraphDump struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is one node of the serialized graph. ID is the stable node
// identifier ("p0", "r1", ...), Name the display label.
type GraphNode struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// GraphEdge is one edge of the serialized graph, keyed by node ID so that
// duplicate display names stay unambiguous.
type GraphEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: dot, svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRankdir checks that a graph layout direction is valid.
func ValidateRankdir(rankdir string) error {
	if !ValidRankdirs[rankdir] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid rankdir: %q (must be one of: TB, LR, BT, RL)", rankdir)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Rankdir == "" {
		o.Rankdir = DefaultRankdir
	}
	if err := ValidateRankdir(o.Rankdir); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// WantsArtifacts reports whether any render formats were requested.
func (o *Options) WantsArtifacts() bool {
	return len(o.Formats) > 0
}

// AnalysisKeyOpts returns cache key options for the analyze stage.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		Trace: o.IncludeTrace,
		Graph: o.IncludeGraph,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Rankdir: o.Rankdir,
	}
}
