package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/docmerge"
	"github.com/erraggy/docmerge/cmd/docmerge/commands"
	"github.com/erraggy/docmerge/internal/mcpserver"
)

// validCommands lists every top-level command for typo suggestions.
var validCommands = []string{"merge", "flatten", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "--version":
		fmt.Print(docmerge.BuildInfo())
	case "help", "-h", "--help":
		printUsage()
	case "merge":
		err = commands.HandleMerge(os.Args[2:])
	case "flatten":
		err = commands.HandleFlatten(os.Args[2:])
	case "mcp":
		err = runMCP()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

// suggestCommand returns the closest valid command within an edit distance
// of 2, or "" if none is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, cmd := range validCommands {
		if d := levenshtein(input, cmd); d < bestDist {
			best = cmd
			bestDist = d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`docmerge - Deep-merge YAML, JSON and TOML configuration documents

Usage:
  docmerge <command> [options]

Commands:
  merge       Merge overlay documents into a base document
  flatten     List every leaf of a document with its key path
  mcp         Start an MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  docmerge merge config.yaml prod.yaml
  docmerge merge -o merged.yaml config.yaml prod.yaml local.toml
  docmerge merge --dry-run config.yaml prod.yaml
  docmerge flatten --format json config.yaml

Run 'docmerge <command> --help' for more information on a command.`)
}
