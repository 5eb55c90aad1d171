package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NishanthRao01/bankguard/pkg/analysis"
)

// renderCommand creates the render command for drawing allocation graphs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		rankdir    string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "render [scenario-file]",
		Short: "Draw the resource-allocation graph",
		Long: `Draw the resource-allocation graph.

The render command reads a scenario file and draws its resource-allocation
graph: processes and resources as nodes, hold edges solid and wait edges
dashed. When the snapshot is deadlocked, the cycle edges are drawn red.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := analysis.Options{
				Formats: parseFormats(formatsStr),
				Rankdir: rankdir,
				Refresh: refresh,
			}
			if err := analysis.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := analysis.ValidateRankdir(opts.Rankdir); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), svg, png, json (comma-separated)")
	cmd.Flags().StringVar(&rankdir, "rankdir", analysis.DefaultRankdir, "graph layout direction: LR (default), TB, BT, RL")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached artifacts and re-render")

	return cmd
}

// runRender loads the snapshot and renders the requested artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts analysis.Options, output string, noCache bool) error {
	snap, err := loadScenario(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinner(ctx, "Rendering allocation graph...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", input, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts:     artifacts,
		formats:       opts.Formats,
		input:         input,
		output:        output,
		cacheHit:      cacheHit,
		processCount:  len(snap.Processes),
		resourceCount: len(snap.Resources),
	})
}

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts     map[string][]byte
	formats       []string
	input         string
	output        string
	cacheHit      bool
	processCount  int
	resourceCount int
}

// writeArtifacts writes one file per requested format and prints the summary.
// A single format goes to the output path as given; multiple formats share
// the base path with per-format extensions.
func writeArtifacts(p artifactWriteParams) error {
	var paths []string

	if len(p.formats) == 1 {
		format := p.formats[0]
		path := p.output
		if path == "" {
			path = basePath("", p.input) + "." + format
		}
		if err := writeArtifact(p.artifacts[format], path); err != nil {
			return err
		}
		paths = append(paths, path)
	} else {
		base := basePath(p.output, p.input)
		for _, format := range p.formats {
			path := base + "." + format
			if err := writeArtifact(p.artifacts[format], path); err != nil {
				return err
			}
			paths = append(paths, path)
		}
	}

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.processCount, p.resourceCount, p.cacheHit)

	return nil
}

// writeArtifact writes one rendered artifact to path.
func writeArtifact(data []byte, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
// This is used when generating multiple files (e.g., snapshot.dot, snapshot.svg).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Strip known format extensions from output path
	ext := filepath.Ext(output)
	if analysis.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
