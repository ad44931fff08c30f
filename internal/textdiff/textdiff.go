// Package textdiff produces line-oriented unified diffs of two texts.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of change a diff line represents.
type Op int

const (
	// OpEqual marks a line present in both texts.
	OpEqual Op = iota
	// OpDelete marks a line only in the old text.
	OpDelete
	// OpInsert marks a line only in the new text.
	OpInsert
)

// Line is one line of a diff, without its trailing newline.
type Line struct {
	Op   Op
	Text string
}

// DefaultContext is the number of unchanged lines shown around each change.
const DefaultContext = 3

// Lines diffs a and b line by line.
func Lines(a, b string) []Line {
	dmp := diffmatchpatch.New()
	ca, cb, table := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), table)

	var out []Line
	for _, d := range diffs {
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		default:
			op = OpEqual
		}
		for _, text := range splitLines(d.Text) {
			out = append(out, Line{Op: op, Text: text})
		}
	}
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\n")
	}
	return parts
}

// Unified renders a unified diff between a and b with the given number of
// context lines. It returns "" when the texts are equal.
func Unified(fromName, toName, a, b string, context int) string {
	if context < 0 {
		context = 0
	}
	lines := Lines(a, b)

	// aAt and bAt hold the zero-based line number each diff line starts at.
	aAt := make([]int, len(lines))
	bAt := make([]int, len(lines))
	ai, bi := 0, 0
	for i, l := range lines {
		aAt[i], bAt[i] = ai, bi
		switch l.Op {
		case OpEqual:
			ai++
			bi++
		case OpDelete:
			ai++
		case OpInsert:
			bi++
		}
	}

	var sb strings.Builder
	for i := 0; i < len(lines); {
		if lines[i].Op == OpEqual {
			i++
			continue
		}
		start := max(0, i-context)
		last := i
		for j := i; j < len(lines); j++ {
			if lines[j].Op != OpEqual {
				last = j
			} else if j-last > 2*context {
				break
			}
		}
		stop := min(len(lines), last+context+1)

		if sb.Len() == 0 {
			fmt.Fprintf(&sb, "--- %s\n+++ %s\n", fromName, toName)
		}
		writeHunk(&sb, lines[start:stop], aAt[start], bAt[start])
		i = stop
	}
	return sb.String()
}

func writeHunk(sb *strings.Builder, hunk []Line, aStart, bStart int) {
	aCount, bCount := 0, 0
	for _, l := range hunk {
		if l.Op != OpInsert {
			aCount++
		}
		if l.Op != OpDelete {
			bCount++
		}
	}
	fmt.Fprintf(sb, "@@ -%s +%s @@\n", hunkRange(aStart, aCount), hunkRange(bStart, bCount))
	for _, l := range hunk {
		switch l.Op {
		case OpDelete:
			sb.WriteByte('-')
		case OpInsert:
			sb.WriteByte('+')
		default:
			sb.WriteByte(' ')
		}
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
}

// hunkRange formats a range the way diff -u does: an empty range names the
// line before it.
func hunkRange(start, count int) string {
	switch count {
	case 0:
		return fmt.Sprintf("%d,0", start)
	case 1:
		return fmt.Sprintf("%d", start+1)
	default:
		return fmt.Sprintf("%d,%d", start+1, count)
	}
}
