package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/docmerge/codec"
	"github.com/erraggy/docmerge/merger"
	"github.com/erraggy/docmerge/tree"
)

// FlattenFlags contains flags for the flatten command
type FlattenFlags struct {
	Format string
}

// SetupFlattenFlags creates and configures a FlagSet for the flatten command.
// Returns the FlagSet and a FlattenFlags struct with bound flag variables.
func SetupFlattenFlags() (*flag.FlagSet, *FlattenFlags) {
	fs := flag.NewFlagSet("flatten", flag.ContinueOnError)
	flags := &FlattenFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: docmerge flatten [flags] <file>\n\n")
		Writef(fs.Output(), "List every leaf of a document with its key path, sorted by path.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  docmerge flatten config.yaml\n")
		Writef(fs.Output(), "  docmerge flatten --format json prod.toml\n")
		Writef(fs.Output(), "  cat config.json | docmerge flatten -\n")
		Writef(fs.Output(), "\nOutput:\n")
		Writef(fs.Output(), "  text prints one 'path = value' line per leaf, with the value as JSON.\n")
		Writef(fs.Output(), "  Null values and empty mappings have no leaves and are not listed.\n")
	}

	return fs, flags
}

// HandleFlatten executes the flatten command
func HandleFlatten(args []string) error {
	fs, flags := SetupFlattenFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("flatten requires exactly one file")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	doc, err := codec.ParseFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	leaves := merger.FlattenAll(doc.Root)
	if flags.Format == FormatText {
		for _, leaf := range leaves {
			value, err := json.Marshal(leaf.Value)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", leaf.Path, err)
			}
			Writef(os.Stdout, "%s = %s\n", leaf.Path, value)
		}
		return nil
	}

	format := codec.FormatJSON
	if flags.Format == FormatYAML {
		format = codec.FormatYAML
	}
	data, err := codec.Encode(leafList(leaves), format)
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("writing result to stdout: %w", err)
	}
	return nil
}

// leafList renders leaves as a sequence of {path, keys, value} mappings.
func leafList(leaves []merger.Leaf) *tree.Node {
	items := make([]*tree.Node, 0, len(leaves))
	for _, leaf := range leaves {
		keys := make([]*tree.Node, len(leaf.Path))
		for i, k := range leaf.Path {
			keys[i] = tree.Scalar(k)
		}
		entry := tree.NewMapping()
		entry.Set("path", tree.Scalar(leaf.Path.String()))
		entry.Set("keys", tree.Sequence(keys...))
		entry.Set("value", leaf.Value)
		items = append(items, entry)
	}
	return tree.Sequence(items...)
}
