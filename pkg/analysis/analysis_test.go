package analysis

import (
	"testing"

	"github.com/NishanthRao01/bankguard/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateRankdir(t *testing.T) {
	tests := []struct {
		rankdir string
		wantErr bool
	}{
		{"TB", false},
		{"LR", false},
		{"BT", false},
		{"RL", false},
		{"lr", true}, // case-sensitive
		{"diagonal", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateRankdir(tt.rankdir)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRankdir(%q) error = %v, wantErr %v", tt.rankdir, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Empty options should pass: %v", err)
	}

	// Check defaults were set
	if opts.Rankdir != DefaultRankdir {
		t.Errorf("Rankdir should be %s, got %s", DefaultRankdir, opts.Rankdir)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateRejectsBadFormat(t *testing.T) {
	opts := Options{Formats: []string{"gif"}}

	err := opts.ValidateAndSetDefaults()
	if err == nil {
		t.Fatal("Invalid format should fail")
	}
	if !errors.IsValidation(err) {
		t.Errorf("Format error should be a validation error, got %v", err)
	}
}

func TestOptionsValidateRejectsBadRankdir(t *testing.T) {
	opts := Options{Rankdir: "sideways"}

	err := opts.ValidateAndSetDefaults()
	if err == nil {
		t.Fatal("Invalid rankdir should fail")
	}
	if !errors.IsValidation(err) {
		t.Errorf("Rankdir error should be a validation error, got %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"dot"}}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalRankdir := opts.Rankdir
	originalLogger := opts.Logger

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Rankdir != originalRankdir {
		t.Error("Rankdir changed on second call")
	}
	if opts.Logger != originalLogger {
		t.Error("Logger changed on second call")
	}
}

func TestOptionsWantsArtifacts(t *testing.T) {
	opts := Options{}
	if opts.WantsArtifacts() {
		t.Error("Empty formats should not want artifacts")
	}

	opts.Formats = []string{"svg"}
	if !opts.WantsArtifacts() {
		t.Error("Non-empty formats should want artifacts")
	}
}

func TestOptionsKeyOpts(t *testing.T) {
	opts := Options{IncludeTrace: true, Rankdir: "TB"}

	keyOpts := opts.AnalysisKeyOpts()
	if !keyOpts.Trace {
		t.Error("AnalysisKeyOpts should carry the trace flag")
	}
	if keyOpts.Graph {
		t.Error("AnalysisKeyOpts should not set an unrequested graph flag")
	}

	artOpts := opts.ArtifactKeyOpts("svg")
	if artOpts.Format != "svg" {
		t.Errorf("ArtifactKeyOpts format = %q, want svg", artOpts.Format)
	}
	if artOpts.Rankdir != "TB" {
		t.Errorf("ArtifactKeyOpts rankdir = %q, want TB", artOpts.Rankdir)
	}
}
