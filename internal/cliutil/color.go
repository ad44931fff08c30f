package cliutil

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether output to f should be colored: f must be a
// terminal and NO_COLOR must be unset.
func ColorEnabled(f *os.File) bool {
	if f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Palette colors diff output. A disabled palette returns text unchanged.
type Palette struct {
	added   *color.Color
	removed *color.Color
	hunk    *color.Color
	header  *color.Color
	warning *color.Color
}

// NewPalette returns a palette that colors only when enabled is true,
// regardless of the global color.NoColor setting.
func NewPalette(enabled bool) *Palette {
	p := &Palette{
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		hunk:    color.New(color.FgCyan),
		header:  color.New(color.Bold),
		warning: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.added, p.removed, p.hunk, p.header, p.warning} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Diff colors each line of a unified diff by its prefix.
func (p *Palette) Diff(diff string) string {
	if diff == "" {
		return ""
	}
	lines := strings.SplitAfter(diff, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body, nl := strings.CutSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			sb.WriteString(p.header.Sprint(body))
		case strings.HasPrefix(body, "@@"):
			sb.WriteString(p.hunk.Sprint(body))
		case strings.HasPrefix(body, "+"):
			sb.WriteString(p.added.Sprint(body))
		case strings.HasPrefix(body, "-"):
			sb.WriteString(p.removed.Sprint(body))
		default:
			sb.WriteString(body)
		}
		if nl {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Warning colors a warning line yellow.
func (p *Palette) Warning(s string) string {
	return p.warning.Sprint(s)
}
