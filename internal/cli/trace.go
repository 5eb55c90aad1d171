package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/NishanthRao01/bankguard/pkg/analysis"
	"github.com/NishanthRao01/bankguard/pkg/core/state"
)

// traceCommand creates the trace command for stepping through safety passes.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		plain   bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "trace [scenario-file]",
		Short: "Step through the safety passes interactively",
		Long: `Step through the safety passes interactively.

The trace command runs the banker's safety check and shows each scan pass:
the work vector at the start of the pass and the processes granted during
it. The final screen shows the verdict.

Use --plain to print all passes sequentially instead (for pipes and CI logs).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTrace(cmd.Context(), args[0], plain, noCache, refresh)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print passes sequentially without the interactive viewer")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results and recompute")

	return cmd
}

// runTrace runs the analysis with tracing enabled and shows the passes.
func (c *CLI) runTrace(ctx context.Context, input string, plain, noCache, refresh bool) error {
	snap, err := loadScenario(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := analysis.Options{
		IncludeTrace: true,
		Refresh:      refresh,
		Logger:       c.Logger,
	}

	report, err := runner.Analyze(ctx, snap, opts)
	if err != nil {
		return fmt.Errorf("trace %s: %w", input, err)
	}

	if plain {
		printTrace(snap, report)
		return nil
	}

	p := tea.NewProgram(NewTraceModel(snap, report))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run trace viewer: %w", err)
	}
	return nil
}

// printTrace prints every pass sequentially, then the verdict.
func printTrace(snap *state.State, report *analysis.Report) {
	for i, pass := range report.Trace {
		printInfo("Pass %d", i+1)
		printDetail("Work: %s", formatVector(snap.Resources, pass.Work))
		if len(pass.Granted) == 0 {
			printDetail("Granted: none")
		} else {
			printDetail("Granted: %s", strings.Join(pass.Granted, ", "))
		}
	}
	printNewline()
	printVerdictLine(report)
}

// formatVector renders a resource vector as "A=7 B=4 C=5". Missing names
// fall back to positional labels.
func formatVector(names []string, values []int) string {
	parts := make([]string, len(values))
	for j, v := range values {
		name := fmt.Sprintf("R%d", j)
		if j < len(names) {
			name = names[j]
		}
		parts[j] = fmt.Sprintf("%s=%d", name, v)
	}
	return strings.Join(parts, " ")
}
