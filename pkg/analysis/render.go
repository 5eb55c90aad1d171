package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NishanthRao01/bankguard/pkg/core/rag"
	"github.com/NishanthRao01/bankguard/pkg/core/render/ragviz"
	"github.com/NishanthRao01/bankguard/pkg/core/state"
	"github.com/NishanthRao01/bankguard/pkg/errors"
	"github.com/NishanthRao01/bankguard/pkg/observability"
)

// RenderGraph builds the resource-allocation graph for a snapshot and renders
// it in the requested formats. A detected deadlock cycle is highlighted in
// the output, so a rendered artifact is always consistent with the report for
// the same snapshot.
func RenderGraph(ctx context.Context, snap *state.State, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	g := rag.Build(snap)
	dot := ragviz.ToDOT(g, ragviz.Options{
		Rankdir:   opts.Rankdir,
		Highlight: rag.Detect(snap).Cycle,
	})

	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		observability.Analysis().OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = ragviz.RenderSVG(dot)
		case FormatPNG:
			data, err = ragviz.RenderPNG(dot)
		case FormatJSON:
			data, err = json.MarshalIndent(dumpGraph(g), "", "  ")
		default:
			err = errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		observability.Analysis().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
