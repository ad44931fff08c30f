package mcpserver

import (
	"context"
	"fmt"
	"slices"

	"github.com/erraggy/docmerge/merger"
	"github.com/erraggy/docmerge/tree"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type flattenInput struct {
	Document docInput `json:"document"         jsonschema:"The document to flatten"`
	Prefix   string   `json:"prefix,omitempty" jsonschema:"Only list leaves under this key path, written as returned in leaf paths, e.g. server.tls or servers[\"api.example.com\"]"`
	Offset   int      `json:"offset,omitempty" jsonschema:"Number of leaves to skip"`
	Limit    int      `json:"limit,omitempty"  jsonschema:"Maximum number of leaves to return. Defaults to DOCMERGE_FLATTEN_LIMIT."`
}

type flattenLeaf struct {
	Path  string   `json:"path"`
	Keys  []string `json:"keys"`
	Value any      `json:"value"`
}

type flattenOutput struct {
	Total    int           `json:"total"`
	Returned int           `json:"returned"`
	Leaves   []flattenLeaf `json:"leaves,omitempty"`
	Summary  string        `json:"summary"`
}

func handleFlatten(_ context.Context, _ *mcp.CallToolRequest, input flattenInput) (*mcp.CallToolResult, flattenOutput, error) {
	doc, err := input.Document.resolve()
	if err != nil {
		return errResult(err), flattenOutput{}, nil
	}

	prefix, err := tree.ParsePath(input.Prefix)
	if err != nil {
		return errResult(err), flattenOutput{}, nil
	}

	leaves := merger.FlattenAll(doc.Root)
	if !prefix.IsRoot() {
		leaves = slices.DeleteFunc(leaves, func(l merger.Leaf) bool { return !l.Path.HasPrefix(prefix) })
	}

	page := paginate(leaves, input.Offset, input.Limit)
	output := flattenOutput{
		Total:    len(leaves),
		Returned: len(page),
		Leaves:   makeSlice[flattenLeaf](len(page)),
	}
	for _, l := range page {
		output.Leaves = append(output.Leaves, flattenLeaf{
			Path:  l.Path.String(),
			Keys:  append([]string{}, l.Path...),
			Value: l.Value.ToAny(),
		})
	}

	output.Summary = fmt.Sprintf("%s in %s", formatCount(output.Total, "leaf value"), doc.SourcePath)
	if output.Returned < output.Total {
		output.Summary += fmt.Sprintf(", showing %d from offset %d", output.Returned, input.Offset)
	}
	return nil, output, nil
}
