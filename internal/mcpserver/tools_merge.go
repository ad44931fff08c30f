package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/erraggy/docmerge/codec"
	"github.com/erraggy/docmerge/internal/textdiff"
	"github.com/erraggy/docmerge/merger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mergeInput struct {
	Base     docInput   `json:"base"               jsonschema:"The base document"`
	Overlays []docInput `json:"overlays"           jsonschema:"Overlay documents, applied in order"`
	Coerce   string     `json:"coerce,omitempty"   jsonschema:"How to treat non-mapping intermediate values: falsy (replace them) or absent (skip the leaf). Defaults to DOCMERGE_COERCE."`
	Format   string     `json:"format,omitempty"   jsonschema:"Output format (yaml, json or toml). Defaults to the base document's format."`
	DryRun   bool       `json:"dry_run,omitempty"  jsonschema:"Return a unified diff of the changes without writing anything"`
	Output   string     `json:"output,omitempty"   jsonschema:"File path to write result. If omitted the result is returned inline."`
}

type mergeOverlayRecord struct {
	Index           int    `json:"index"`
	Source          string `json:"source"`
	LeavesWritten   int    `json:"leaves_written"`
	LeavesBlocked   int    `json:"leaves_blocked,omitempty"`
	MappingsCreated int    `json:"mappings_created"`
}

type mergeOutput struct {
	OverlaysApplied int                  `json:"overlays_applied"`
	LeavesWritten   int                  `json:"leaves_written"`
	LeavesBlocked   int                  `json:"leaves_blocked,omitempty"`
	MappingsCreated int                  `json:"mappings_created"`
	Format          string               `json:"format"`
	Overlays        []mergeOverlayRecord `json:"overlays,omitempty"`
	Warnings        []string             `json:"warnings,omitempty"`
	Diff            string               `json:"diff,omitempty"`
	WrittenTo       string               `json:"written_to,omitempty"`
	Document        string               `json:"document,omitempty"`
	Summary         string               `json:"summary"`
}

func handleMerge(_ context.Context, _ *mcp.CallToolRequest, input mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
	if len(input.Overlays) == 0 {
		return errResult(fmt.Errorf("at least one overlay is required")), mergeOutput{}, nil
	}
	if len(input.Overlays) > cfg.MaxOverlays {
		return errResult(fmt.Errorf("too many overlays: %d exceeds maximum %d; set DOCMERGE_MAX_OVERLAYS to increase",
			len(input.Overlays), cfg.MaxOverlays)), mergeOutput{}, nil
	}

	if input.Output != "" && !input.DryRun {
		files := make([]string, 0, len(input.Overlays)+1)
		files = append(files, input.Base.File)
		for _, o := range input.Overlays {
			files = append(files, o.File)
		}
		if err := codec.CheckOutputPath(input.Output, files); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
	}

	mode := cfg.Coerce
	if input.Coerce != "" {
		var err error
		if mode, err = merger.ParseCoercionMode(input.Coerce); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
	}

	base, err := input.Base.resolve()
	if err != nil {
		return errResult(fmt.Errorf("base: %w", err)), mergeOutput{}, nil
	}
	overlays := make([]*codec.Document, 0, len(input.Overlays))
	for i, o := range input.Overlays {
		doc, err := o.resolve()
		if err != nil {
			return errResult(fmt.Errorf("overlay[%d]: %w", i, err)), mergeOutput{}, nil
		}
		overlays = append(overlays, doc)
	}

	format := base.Format
	if input.Format != "" {
		if format, err = codec.ParseFormat(input.Format); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
	}

	var before []byte
	if input.DryRun {
		if before, err = codec.Encode(base.Root, format); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
	}

	m := merger.New()
	m.Coercion = mode
	var result *merger.MergeResult
	if input.DryRun {
		result, err = m.DryRun(base, overlays...)
	} else {
		result, err = m.MergeParsed(base, overlays...)
	}
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	data, err := codec.Encode(result.Document, format)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	output := mergeOutput{
		OverlaysApplied: result.OverlaysApplied,
		LeavesWritten:   result.LeavesWritten,
		LeavesBlocked:   result.LeavesBlocked,
		MappingsCreated: result.MappingsCreated,
		Format:          format.String(),
		Warnings:        result.WarningStrings(),
	}
	output.Overlays = makeSlice[mergeOverlayRecord](len(result.Overlays))
	for _, r := range result.Overlays {
		output.Overlays = append(output.Overlays, mergeOverlayRecord{
			Index:           r.Index,
			Source:          r.Source,
			LeavesWritten:   r.LeavesWritten,
			LeavesBlocked:   r.LeavesBlocked,
			MappingsCreated: r.MappingsCreated,
		})
	}
	output.Summary = buildMergeSummary(result)

	if input.DryRun {
		output.Diff = textdiff.Unified(base.SourcePath, "merged", string(before), string(data), textdiff.DefaultContext)
		output.Summary += " (dry run - no changes applied)"
		return nil, output, nil
	}

	if input.Output != "" {
		if err := codec.WriteFile(input.Output, data); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), mergeOutput{}, nil
		}
		output.WrittenTo = filepath.Base(input.Output)
	} else {
		output.Document = string(data)
	}

	return nil, output, nil
}

func buildMergeSummary(result *merger.MergeResult) string {
	summary := fmt.Sprintf("Merged %s: %s written",
		formatCount(result.OverlaysApplied, "overlay"), formatCount(result.LeavesWritten, "leaf value"))
	if result.LeavesBlocked > 0 {
		summary += ", " + formatCount(result.LeavesBlocked, "leaf value") + " blocked"
	}
	if n := len(result.Warnings); n > 0 {
		summary += " with " + formatCount(n, "warning")
	}
	return summary + "."
}
