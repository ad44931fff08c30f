package merger_test

import (
	"fmt"
	"log"

	"github.com/erraggy/docmerge/codec"
	"github.com/erraggy/docmerge/merger"
)

// Example demonstrates merging an overlay using functional options.
func Example() {
	base, err := codec.ParseBytes([]byte("server:\n  host: localhost\n  port: 8080\n"), "base.yaml")
	if err != nil {
		log.Fatal(err)
	}
	prod, err := codec.ParseBytes([]byte(`{"server": {"port": 443, "tls": true}}`), "prod.json")
	if err != nil {
		log.Fatal(err)
	}

	result, err := merger.MergeWithOptions(
		merger.WithBaseParsed(base),
		merger.WithOverlaysParsed(prod),
	)
	if err != nil {
		log.Fatal(err)
	}

	out, err := codec.Encode(result.Document, codec.FormatYAML)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Leaves written: %d\n", result.LeavesWritten)
	fmt.Print(string(out))
	// Output:
	// Leaves written: 2
	// server:
	//   host: localhost
	//   port: 443
	//   tls: true
}

// ExampleFlatten lists every leaf of a document.
func ExampleFlatten() {
	doc, err := codec.ParseBytes([]byte("a:\n  b: 1\n  c: ~\nd: [x, y]\n"), "doc.yaml")
	if err != nil {
		log.Fatal(err)
	}
	for path, value := range merger.Flatten(doc.Root) {
		fmt.Println(path, value.ToAny())
	}
	// Output:
	// a.b 1
	// d [x y]
}

// ExampleMerger_DryRun previews a merge without touching the base.
func ExampleMerger_DryRun() {
	base, _ := codec.ParseBytes([]byte("a: 0\n"), "base.yaml")
	overlay, _ := codec.ParseBytes([]byte("a:\n  b: 1\n"), "overlay.yaml")

	m := merger.New()
	result, err := m.DryRun(base, overlay)
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range result.WarningStrings() {
		fmt.Println(w)
	}
	a, _ := base.Root.Get("a")
	fmt.Println("base a:", a.Value())
	// Output:
	// overlay[0] overlay.yaml: a: falsy value replaced by a mapping to write a.b
	// base a: 0
}
