package tree

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Path is an ordered sequence of mapping keys leading from a document root
// to a node. The empty path addresses the root itself.
type Path []string

// Child returns a new path with key appended. The receiver is not modified
// and the result never shares its backing array with p.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// IsRoot reports whether p addresses the document root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Compare orders paths key by key, shorter prefixes first.
func (p Path) Compare(other Path) int {
	return slices.Compare(p, other)
}

// String renders p in dotted form, e.g. server.tls.cert.
// Keys that are empty or contain a dot, bracket, quote or whitespace are
// written in bracket notation: servers["api.example.com"].port.
// The root path renders as "$".
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	for i, key := range p {
		if needsQuoting(key) {
			b.WriteByte('[')
			b.WriteString(strconv.Quote(key))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(key)
	}
	return b.String()
}

func needsQuoting(key string) bool {
	if key == "" || key == "$" {
		return true
	}
	return strings.ContainsAny(key, ".[]\"' \t\n\r")
}

// ParsePath parses the form produced by Path.String. "$" and "" give the
// root path. Bare keys are separated by dots and bracketed keys hold a Go
// quoted string: servers["api.example.com"].port.
func ParsePath(s string) (Path, error) {
	if s == "" || s == "$" {
		return Path{}, nil
	}
	var p Path
	for i := 0; i < len(s); {
		if s[i] == '[' {
			quoted, err := strconv.QuotedPrefix(s[i+1:])
			if err != nil {
				return nil, fmt.Errorf("tree: invalid path %q: bad quoted key at offset %d", s, i)
			}
			key, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, fmt.Errorf("tree: invalid path %q: %w", s, err)
			}
			i += 1 + len(quoted)
			if i >= len(s) || s[i] != ']' {
				return nil, fmt.Errorf("tree: invalid path %q: missing ] at offset %d", s, i)
			}
			i++
			p = append(p, key)
			continue
		}
		if len(p) > 0 {
			if s[i] != '.' {
				return nil, fmt.Errorf("tree: invalid path %q: expected . or [ at offset %d", s, i)
			}
			i++
		}
		end := i
		for end < len(s) && s[end] != '.' && s[end] != '[' {
			end++
		}
		if end == i {
			return nil, fmt.Errorf("tree: invalid path %q: empty key at offset %d", s, i)
		}
		p = append(p, s[i:end])
		i = end
	}
	return p, nil
}

// HasPrefix reports whether prefix is a leading run of the keys of p.
// Every path has the root path as a prefix.
func (p Path) HasPrefix(prefix Path) bool {
	return len(p) >= len(prefix) && slices.Equal(p[:len(prefix)], prefix)
}
