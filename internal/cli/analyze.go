package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/NishanthRao01/bankguard/pkg/analysis"
	"github.com/NishanthRao01/bankguard/pkg/core/state"
	"github.com/NishanthRao01/bankguard/pkg/scenario"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	output  string // output file path for the JSON report (stdout if empty)
	asJSON  bool   // print the report as JSON instead of formatted output
	noCache bool   // disable caching
	refresh bool   // bypass cached results and recompute
	graph   bool   // include the allocation graph in the JSON report
}

// analyzeCommand creates the analyze command for snapshot verdicts.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze [scenario-file]",
		Short: "Report the safety and deadlock verdict for a snapshot",
		Long: `Report the safety and deadlock verdict for a snapshot.

The analyze command reads a scenario file (JSON or TOML), validates it, and
runs the banker's safety check. Safe snapshots report a completion order for
every process; unsafe snapshots are additionally checked for a deadlock
cycle in the resource-allocation graph.

Results are cached locally for faster subsequent runs.

Use 'trace' to step through the safety passes interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON report to a file (implies --json)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON instead of formatted output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached results and recompute")
	cmd.Flags().BoolVar(&opts.graph, "graph", false, "include the allocation graph in the JSON report")

	return cmd
}

// runAnalyze loads the snapshot, runs the safety check, and prints the verdict.
func (c *CLI) runAnalyze(ctx context.Context, input string, aopts analyzeOpts) error {
	snap, err := loadScenario(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(aopts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := analysis.Options{
		IncludeGraph: aopts.graph,
		Refresh:      aopts.refresh,
		Logger:       c.Logger,
	}

	spinner := newSpinner(ctx, "Analyzing snapshot...")
	spinner.Start()

	report, cacheHit, err := runner.AnalyzeWithCacheInfo(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return fmt.Errorf("analyze %s: %w", input, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if aopts.asJSON || aopts.output != "" {
		if err := writeReport(report, aopts.output, c.Logger); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}

	printVerdictLine(report)
	printNewline()
	fmt.Println(resourceTable(snap, report.Metrics))
	fmt.Println(processTable(snap, report.Metrics))
	printStats(len(snap.Processes), len(snap.Resources), cacheHit)
	printNewline()
	printNextStep("Render the allocation graph", "bankguard render "+input)

	return nil
}

// loadScenario reads a scenario file and logs the snapshot dimensions.
func loadScenario(ctx context.Context, path string) (*state.State, error) {
	logger := loggerFromContext(ctx)
	snap, err := scenario.Import(path)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Loaded snapshot: %d processes, %d resources", len(snap.Processes), len(snap.Resources))
	return snap, nil
}

// printVerdictLine prints the one-line safety verdict with its witness
// (the safe sequence or the deadlock cycle).
func printVerdictLine(report *analysis.Report) {
	switch {
	case report.SafeState:
		printSuccess("Safe state")
		printKeyValue("Sequence", formatSequence(report.SafeSequence))
	case report.DeadlockDetected:
		printError("Deadlock detected")
		printCycle(report.DeadlockCycle)
	default:
		printWarning("Unsafe state")
		printDetail("No completion order covers every process")
	}
}

// formatSequence joins process names with arrows.
func formatSequence(seq []string) string {
	sep := StyleDim.Render(" " + iconArrow + " ")
	parts := make([]string, len(seq))
	for i, name := range seq {
		parts[i] = StyleHighlight.Render(name)
	}
	return strings.Join(parts, sep)
}

// printCycle prints the hold/wait edges of a deadlock cycle.
func printCycle(cycle []analysis.CycleEdge) {
	for _, e := range cycle {
		fmt.Println("  " +
			StyleValue.Render(e.From) + " " +
			StyleDim.Render(iconArrow) + " " +
			StyleValue.Render(e.To) + " " +
			StyleDim.Render("("+e.Relation+")"))
	}
}

// resourceTable renders per-resource totals and utilization.
func resourceTable(snap *state.State, m state.Metrics) string {
	rows := make([][]string, 0, len(snap.Resources))
	for j, name := range snap.Resources {
		rows = append(rows, []string{
			name,
			strconv.Itoa(m.TotalResources[j]),
			strconv.Itoa(m.TotalAllocated[j]),
			strconv.Itoa(m.TotalAvailable[j]),
			fmt.Sprintf("%.0f%%", m.ResourceUtilization[j]),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Resource", "Total", "Allocated", "Available", "Use").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}

// processTable renders the per-process classification.
func processTable(snap *state.State, m state.Metrics) string {
	rows := make([][]string, 0, len(snap.Processes))
	for i, name := range snap.Processes {
		rows = append(rows, []string{name, string(m.ProcessStates[i])})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Process", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 && row >= 0 && row < len(m.ProcessStates) {
				switch m.ProcessStates[row] {
				case state.StatusComplete:
					return lipgloss.NewStyle().Foreground(colorGreen)
				case state.StatusWaiting:
					return lipgloss.NewStyle().Foreground(colorYellow)
				}
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// writeReport serializes the report as indented JSON to path (or stdout if empty).
// The logger is notified on success with the output path.
func writeReport(report *analysis.Report, path string, logger interface{ Infof(string, ...any) }) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if path != "" {
		logger.Infof("Wrote report to %s", path)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
