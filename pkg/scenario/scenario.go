// Package scenario reads and writes allocation snapshots as scenario files.
//
// A scenario document carries the five snapshot fields in JSON or TOML:
//
//	{
//	  "processes":  ["P0", "P1"],
//	  "resources":  ["R0", "R1"],
//	  "allocation": [[1, 0], [0, 1]],
//	  "max_demand": [[1, 1], [1, 1]],
//	  "available":  [0, 0]
//	}
//
// The processes and resources lists are optional: omitted lists default to
// generated names (P0, P1, ... and R0, R1, ...) sized from the matrices.
// Display names are checked at decode time; structural consistency between
// the matrices is the snapshot validator's job and is deliberately not
// duplicated here.
//
// Format selection is explicit in [Read] and [Write], or derived from the
// file extension by [Import], [Export] and [DetectFormat].
package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/NishanthRao01/bankguard/pkg/core/state"
	"github.com/NishanthRao01/bankguard/pkg/errors"
)

// Scenario file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// document is the wire shape of a scenario file.
type document struct {
	Processes  []string `json:"processes,omitempty" toml:"processes,omitempty"`
	Resources  []string `json:"resources,omitempty" toml:"resources,omitempty"`
	Allocation [][]int  `json:"allocation" toml:"allocation"`
	MaxDemand  [][]int  `json:"max_demand" toml:"max_demand"`
	Available  []int    `json:"available" toml:"available"`
}

// DetectFormat derives the scenario format from a file extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"cannot detect scenario format of %q (use a .json or .toml extension)", filepath.Base(path))
	}
}

// Read decodes a snapshot from r in the given format.
//
// Malformed documents are reported as INVALID_SCENARIO errors rather than
// raw decoder errors, so callers can treat them as input failures. The
// returned snapshot shares no memory with the decoder buffers and has not
// been validated yet.
func Read(r io.Reader, format string) (*state.State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var doc document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "malformed JSON scenario")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "malformed TOML scenario")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported scenario format: %q", format)
	}

	return doc.toState()
}

// Import reads a snapshot from the file at path, deriving the format from
// the file extension.
func Import(path string) (*state.State, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scenario file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	snap, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Write encodes a snapshot to w in the given format.
// The output can be re-imported with [Read] for round-trip processing.
func Write(s *state.State, w io.Writer, format string) error {
	doc := document{
		Processes:  s.Processes,
		Resources:  s.Resources,
		Allocation: s.Allocation,
		MaxDemand:  s.MaxDemand,
		Available:  s.Available,
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported scenario format: %q", format)
	}
}

// Export writes a snapshot to a file at path, deriving the format from the
// file extension. This is a convenience wrapper around [Write] for
// file-based output.
func Export(s *state.State, path string) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(s, f, format)
}

// toState turns a decoded document into a snapshot, filling in generated
// display names for omitted lists and rejecting unusable names.
func (d *document) toState() (*state.State, error) {
	processes := d.Processes
	if processes == nil {
		processes = defaultNames("P", len(d.Allocation))
	}

	resources := d.Resources
	if resources == nil {
		n := len(d.Available)
		if len(d.Allocation) > 0 {
			n = len(d.Allocation[0])
		}
		resources = defaultNames("R", n)
	}

	for _, name := range processes {
		if err := errors.ValidateLabel("process", name); err != nil {
			return nil, err
		}
	}
	for _, name := range resources {
		if err := errors.ValidateLabel("resource", name); err != nil {
			return nil, err
		}
	}

	return state.New(processes, resources, d.Allocation, d.MaxDemand, d.Available), nil
}

// defaultNames generates prefix0..prefixN-1.
func defaultNames(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return names
}
