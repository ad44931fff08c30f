// Package codec loads structured documents into trees and serializes trees
// back to text.
//
// Three formats are supported: YAML, JSON and TOML. The format is taken
// from the file extension when there is one and sniffed from the content
// otherwise: content starting with '{' or '[' is JSON, anything else is
// YAML.
//
//	doc, err := codec.ParseFile("config.yaml")
//	if err != nil {
//		return err
//	}
//	data, err := codec.Encode(doc.Root, doc.Format)
//
// YAML and JSON documents keep their key order. TOML is decoded through
// go-toml/v2 into Go maps, so TOML tables come back with sorted keys.
//
// An empty document (no content, or only comments) loads as an empty
// mapping. Failures are reported as [docerrors.ResourceError] when the
// input cannot be read and [docerrors.ParseError] when it cannot be parsed.
package codec
