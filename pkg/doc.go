// Package pkg provides the core libraries for Bankguard resource-allocation analysis.
//
// # Overview
//
// Bankguard inspects snapshots of a resource-allocation system (processes,
// resource types, allocation and maximum-demand matrices) and answers two
// questions: is the state safe, and if not, is it already deadlocked? The
// pkg directory is organized into four main areas:
//
//  1. [core] - Domain logic (snapshot state, safety evaluation, graph detection, rendering)
//  2. [analysis] - Orchestration with caching (reports, artifacts)
//  3. [scenario] - Snapshot import/export (JSON and TOML documents)
//  4. [api] - HTTP service exposing analysis over REST
//
// # Architecture
//
// The typical data flow through Bankguard:
//
//	Snapshot document (JSON/TOML)
//	         ↓
//	    [scenario] package (decode + validate)
//	         ↓
//	    [core/state] package (matrices, need, metrics)
//	         ↓
//	    [core/safety] + [core/rag] packages (safe sequence, cycle detection)
//	         ↓
//	    [analysis] package (report assembly, cached artifacts)
//	         ↓
//	    JSON report / DOT / SVG / PNG output
//
// # Quick Start
//
// Load a snapshot and evaluate it:
//
//	import (
//	    "github.com/NishanthRao01/bankguard/pkg/core/rag"
//	    "github.com/NishanthRao01/bankguard/pkg/core/safety"
//	    "github.com/NishanthRao01/bankguard/pkg/scenario"
//	)
//
//	// 1. Import the snapshot
//	snap, _ := scenario.Import("snapshot.json")
//
//	// 2. Run the safety check
//	res := safety.Evaluate(snap)
//	if res.Safe {
//	    fmt.Println("safe order:", res.Sequence)
//	}
//
//	// 3. Check for deadlock when unsafe
//	if !res.Safe {
//	    det := rag.Detect(snap)
//	    if det.Deadlocked {
//	        fmt.Println("cycle:", det.Cycle)
//	    }
//	}
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/state] - Snapshot representation: allocation, maximum demand, the
// derived need matrix, validation, and utilization metrics.
//
// [core/safety] - Banker's algorithm safety evaluation. Produces the safe
// completion sequence and a per-pass trace of the scan.
//
// [core/rag] - Resource-allocation graph construction and deadlock
// detection via cycle search, including the pool starvation case.
//
// [core/render/ragviz] - Graph visualization. Emits DOT and renders SVG
// and PNG through Graphviz, highlighting deadlock cycles.
//
// ## Orchestration
//
// [analysis] - Complete analysis pipeline (evaluate → detect → report)
// used by CLI and API. Ensures consistent behavior across entry points and
// caches reports and rendered artifacts.
//
// ## Infrastructure
//
// [cache] - Cache backends: FileCache for the CLI (filesystem), RedisCache
// for the API (shared), NullCache for tests and --no-cache runs.
//
// [scenario] - Snapshot document serialization (JSON and TOML) with
// format detection by extension.
//
// [errors] - Coded errors and label/filename validation shared across
// packages.
//
// [observability] - Hook points for timing and counting analysis runs.
//
// [api] - REST service (chi router) with request logging, recovery, and
// an embedded usage page.
//
// [buildinfo] - Version metadata stamped at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/core/...       # Domain logic only
//	go test -run Example         # Examples only
//
// [core]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/core
// [core/state]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/core/state
// [core/safety]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/core/safety
// [core/rag]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/core/rag
// [core/render/ragviz]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/core/render/ragviz
// [analysis]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/analysis
// [cache]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/cache
// [scenario]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/scenario
// [errors]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/errors
// [observability]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/observability
// [api]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/api
// [buildinfo]: https://pkg.go.dev/github.com/NishanthRao01/bankguard/pkg/buildinfo
package pkg
