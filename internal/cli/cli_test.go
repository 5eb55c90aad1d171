package cli

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/NishanthRao01/bankguard/pkg/analysis"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	if c.Logger == nil {
		t.Fatal("New() should set a logger")
	}

	c.Logger.Info("hello")
	if buf.Len() == 0 {
		t.Error("logger should write to the provided writer")
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.Logger.Debug("before")
	if buf.Len() != 0 {
		t.Fatal("debug message should be filtered at info level")
	}

	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("after")
	if buf.Len() == 0 {
		t.Error("debug message should pass after SetLogLevel(debug)")
	}
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	if root.Use != "bankguard" {
		t.Errorf("root.Use = %q, want %q", root.Use, "bankguard")
	}
	if !root.SilenceUsage {
		t.Error("root command should silence usage on errors")
	}

	want := map[string]bool{
		"analyze":    false,
		"trace":      false,
		"render":     false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	// PersistentPreRunE must stay an E-variant so main.go can chain it.
	if root.PersistentPreRunE == nil {
		t.Fatal("root command should set PersistentPreRunE")
	}

	// ExecuteContext would seed the context; do the same before invoking
	// the hook directly.
	root.SetContext(context.Background())
	if err := root.PersistentPreRunE(root, nil); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	got := loggerFromContext(root.Context())
	if got != c.Logger {
		t.Error("PersistentPreRunE should attach the CLI logger to the command context")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty defaults to dot",
			input: "",
			want:  []string{analysis.FormatDOT},
		},
		{
			name:  "single format",
			input: "svg",
			want:  []string{"svg"},
		},
		{
			name:  "multiple formats",
			input: "dot,svg,png",
			want:  []string{"dot", "svg", "png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewCacheDisabled(t *testing.T) {
	store, err := newCache(true)
	if err != nil {
		t.Fatalf("newCache(true) error: %v", err)
	}
	defer store.Close()

	// The null cache never stores anything.
	ctx := context.Background()
	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("disabled cache should never report a hit")
	}
}

func TestNewRunnerUsesCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, log.InfoLevel)
	runner, err := c.newRunner(false)
	if err != nil {
		t.Fatalf("newRunner error: %v", err)
	}
	defer runner.Close()

	if runner.Cache == nil {
		t.Error("runner should carry a cache")
	}
	if runner.Logger != c.Logger {
		t.Error("runner should reuse the CLI logger")
	}
}
