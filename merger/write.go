package merger

import (
	"fmt"
	"slices"

	"github.com/erraggy/docmerge/docerrors"
	"github.com/erraggy/docmerge/tree"
)

// CoercionMode decides what the path writer does when a path runs through
// a value that is not a mapping.
type CoercionMode int

const (
	// CoerceFalsy replaces any non-mapping intermediate value with a new
	// empty mapping: a missing key, null, false, 0 and "" alike, and also
	// truthy scalars and sequences that cannot be descended into. The
	// previous value is lost. This is the default.
	CoerceFalsy CoercionMode = iota

	// CoerceAbsent creates mappings only for missing keys and null values.
	// A leaf whose path crosses any other non-mapping value is not written
	// and the base keeps its value.
	CoerceAbsent
)

// String returns the flag name of the mode.
func (m CoercionMode) String() string {
	switch m {
	case CoerceFalsy:
		return "falsy"
	case CoerceAbsent:
		return "absent"
	default:
		return fmt.Sprintf("CoercionMode(%d)", int(m))
	}
}

// ValidCoercionModes returns the names accepted by ParseCoercionMode.
func ValidCoercionModes() []string {
	return []string{CoerceFalsy.String(), CoerceAbsent.String()}
}

// ParseCoercionMode converts a mode name into a CoercionMode.
// The empty string selects the default, CoerceFalsy.
func ParseCoercionMode(name string) (CoercionMode, error) {
	switch name {
	case "", "falsy":
		return CoerceFalsy, nil
	case "absent":
		return CoerceAbsent, nil
	default:
		return CoerceFalsy, &docerrors.ConfigError{
			Option:  "coerce",
			Value:   name,
			Message: "must be one of: falsy, absent",
		}
	}
}

// WriteStats describes what a single Write did to the base tree.
type WriteStats struct {
	// Written is true if the value was stored.
	Written bool

	// Replaced is true if the final key already held a value.
	Replaced bool

	// Created counts the intermediate mappings created along the path.
	Created int

	// Coerced lists intermediate paths whose previous non-null value was
	// destroyed to make room for a mapping.
	Coerced []tree.Path

	// Clobbered is the subset of Coerced whose previous value was not
	// falsy: a non-empty string, a non-zero number, true, or a sequence.
	Clobbered []tree.Path

	// BlockedAt is the intermediate path that stopped a CoerceAbsent write.
	// It is nil when the write was not blocked.
	BlockedAt tree.Path
}

// Write stores value at path inside base, creating intermediate mappings
// as needed and overwriting whatever the final key held before.
//
// An empty path is a no-op, as is a base that is not a mapping. The value
// is stored as given, without copying.
func Write(base *tree.Node, path tree.Path, value *tree.Node, mode CoercionMode) WriteStats {
	var stats WriteStats
	if len(path) == 0 || !base.IsMapping() {
		return stats
	}

	cursor := base
	for i, key := range path[:len(path)-1] {
		child, exists := cursor.Get(key)
		if !child.IsMapping() {
			if exists && !child.IsNull() {
				if mode == CoerceAbsent {
					stats.BlockedAt = slices.Clone(path[:i+1])
					return stats
				}
				at := slices.Clone(path[:i+1])
				stats.Coerced = append(stats.Coerced, at)
				if !child.IsFalsy() {
					stats.Clobbered = append(stats.Clobbered, at)
				}
			}
			child = tree.NewMapping()
			cursor.Set(key, child)
			stats.Created++
		}
		cursor = child
	}

	last := path[len(path)-1]
	_, stats.Replaced = cursor.Get(last)
	cursor.Set(last, value)
	stats.Written = true
	return stats
}
