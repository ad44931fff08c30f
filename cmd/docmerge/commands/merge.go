package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/docmerge"
	"github.com/erraggy/docmerge/codec"
	"github.com/erraggy/docmerge/internal/cliutil"
	"github.com/erraggy/docmerge/internal/textdiff"
	"github.com/erraggy/docmerge/merger"
)

// MergeFlags contains flags for the merge command
type MergeFlags struct {
	Output  string
	Format  string
	Coerce  string
	DryRun  bool
	Quiet   bool
	Verbose bool
}

// SetupMergeFlags creates and configures a FlagSet for the merge command.
// Returns the FlagSet and a MergeFlags struct with bound flag variables.
func SetupMergeFlags() (*flag.FlagSet, *MergeFlags) {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	flags := &MergeFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Format, "f", "", "output format: yaml, json or toml (default: format of the base document)")
	fs.StringVar(&flags.Format, "format", "", "output format: yaml, json or toml (default: format of the base document)")
	fs.StringVar(&flags.Coerce, "coerce", merger.CoerceFalsy.String(), "intermediate value handling: "+strings.Join(merger.ValidCoercionModes(), " or "))
	fs.BoolVar(&flags.DryRun, "n", false, "print a diff of the changes instead of the merged document")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "print a diff of the changes instead of the merged document")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "v", false, "log each merge step to stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log each merge step to stderr")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: docmerge merge [flags] <base> <overlay>...\n\n")
		Writef(fs.Output(), "Deep-merge overlay documents into a base document, in order.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  docmerge merge config.yaml prod.yaml\n")
		Writef(fs.Output(), "  docmerge merge -o merged.json config.json prod.yaml local.toml\n")
		Writef(fs.Output(), "  docmerge merge --dry-run config.yaml prod.yaml\n")
		Writef(fs.Output(), "  docmerge merge --coerce absent config.yaml prod.yaml\n")
		Writef(fs.Output(), "  cat config.yaml | docmerge merge -q - prod.yaml\n")
		Writef(fs.Output(), "\nPipelining:\n")
		Writef(fs.Output(), "  - Use '-' as the base path to read from stdin\n")
		Writef(fs.Output(), "  - Use --quiet/-q to suppress diagnostic output for pipelining\n")
		Writef(fs.Output(), "\nNotes:\n")
		Writef(fs.Output(), "  - Later overlays win over earlier ones\n")
		Writef(fs.Output(), "  - Sequences are replaced whole, never merged element by element\n")
		Writef(fs.Output(), "  - Null values in an overlay are ignored\n")
		Writef(fs.Output(), "  - Base and overlays may use different formats\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Documents merged successfully\n")
		Writef(fs.Output(), "  1    Merge failed\n")
	}

	return fs, flags
}

// HandleMerge executes the merge command
func HandleMerge(args []string) error {
	fs, flags := SetupMergeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("merge requires a base file and at least one overlay file")
	}
	inputs := fs.Args()
	basePath, overlayPaths := inputs[0], inputs[1:]

	stdinCount := 0
	for _, p := range inputs {
		if p == StdinFilePath {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return fmt.Errorf("stdin ('-') can be used for only one input")
	}

	mode, err := merger.ParseCoercionMode(flags.Coerce)
	if err != nil {
		return err
	}

	var outFormat codec.Format
	if flags.Format != "" {
		if outFormat, err = codec.ParseFormat(flags.Format); err != nil {
			return err
		}
	}

	if flags.Output != "" && !flags.DryRun {
		if err := ValidateOutputPath(flags.Output, inputs); err != nil {
			return err
		}
	}

	startTime := time.Now()
	loader := &codec.Loader{}
	base, err := loader.ParseFile(basePath)
	if err != nil {
		return fmt.Errorf("parsing base document: %w", err)
	}
	overlays := make([]*codec.Document, 0, len(overlayPaths))
	for i, p := range overlayPaths {
		doc, err := loader.ParseFile(p)
		if err != nil {
			return fmt.Errorf("parsing overlay[%d]: %w", i, err)
		}
		overlays = append(overlays, doc)
	}
	if outFormat == codec.FormatUnknown {
		outFormat = base.Format
	}

	var before []byte
	if flags.DryRun {
		if before, err = codec.Encode(base.Root, outFormat); err != nil {
			return fmt.Errorf("encoding base document: %w", err)
		}
	}

	result, err := merger.MergeWithOptions(
		merger.WithBaseParsed(base),
		merger.WithOverlaysParsed(overlays...),
		merger.WithCoercion(mode),
		merger.WithLogger(newLogger(flags.Verbose, os.Stderr)),
		merger.WithDryRun(flags.DryRun),
	)
	if err != nil {
		return fmt.Errorf("merging documents: %w", err)
	}
	totalTime := time.Since(startTime)

	data, err := codec.Encode(result.Document, outFormat)
	if err != nil {
		return fmt.Errorf("encoding merged document: %w", err)
	}

	if flags.DryRun {
		return printDryRun(flags, basePath, overlayPaths, result, before, data, totalTime)
	}

	if !flags.Quiet {
		printMergeReport(basePath, overlayPaths, result, totalTime)
	}

	if flags.Output != "" {
		cleanedOutput := filepath.Clean(flags.Output)
		if err := codec.WriteFile(cleanedOutput, data); err != nil {
			return err
		}
		if !flags.Quiet {
			Writef(os.Stderr, "\nOutput written to: %s\n", cleanedOutput)
		}
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("writing result to stdout: %w", err)
	}
	return nil
}

func printMergeHeader(title, basePath string, overlayPaths []string, totalTime time.Duration) {
	cliutil.Banner(os.Stderr, title)
	Writef(os.Stderr, "docmerge version: %s\n", docmerge.Version())
	Writef(os.Stderr, "Base: %s\n", FormatDocPath(basePath))
	for i, p := range overlayPaths {
		Writef(os.Stderr, "Overlay[%d]: %s\n", i, FormatDocPath(p))
	}
	Writef(os.Stderr, "Total Time: %v\n\n", totalTime)
}

func printMergeStats(result *merger.MergeResult) {
	Writef(os.Stderr, "Overlays applied: %d\n", result.OverlaysApplied)
	Writef(os.Stderr, "Leaves written:   %d\n", result.LeavesWritten)
	Writef(os.Stderr, "Mappings created: %d\n", result.MappingsCreated)
	if result.LeavesBlocked > 0 {
		Writef(os.Stderr, "Leaves blocked:   %d\n", result.LeavesBlocked)
	}

	if result.HasWarnings() {
		palette := stderrPalette()
		Writef(os.Stderr, "\nWarnings:\n")
		for _, w := range result.WarningStrings() {
			Writef(os.Stderr, "  - %s\n", palette.Warning(w))
		}
	}
}

func printMergeReport(basePath string, overlayPaths []string, result *merger.MergeResult, totalTime time.Duration) {
	printMergeHeader("Document Merge", basePath, overlayPaths, totalTime)
	printMergeStats(result)

	Writef(os.Stderr, "\n")
	if result.HasWarnings() {
		Writef(os.Stderr, "✓ Merged %d overlay(s) with %d warning(s)\n", result.OverlaysApplied, len(result.Warnings))
	} else {
		Writef(os.Stderr, "✓ Merged %d overlay(s)\n", result.OverlaysApplied)
	}
}

func printDryRun(flags *MergeFlags, basePath string, overlayPaths []string, result *merger.MergeResult, before, after []byte, totalTime time.Duration) error {
	diff := textdiff.Unified(FormatDocPath(basePath), "merged", string(before), string(after), textdiff.DefaultContext)

	if !flags.Quiet {
		printMergeHeader("Document Merge Dry Run", basePath, overlayPaths, totalTime)
		printMergeStats(result)
		Writef(os.Stderr, "\n")
	}

	if diff == "" {
		if !flags.Quiet {
			Writef(os.Stderr, "ℹ️  No changes would be made\n")
		}
		return nil
	}

	Writef(os.Stderr, "%s", stderrPalette().Diff(diff))
	if !flags.Quiet {
		Writef(os.Stderr, "\nℹ️  No changes were made (dry-run mode)\n")
	}
	return nil
}
