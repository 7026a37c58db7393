package tableio

import (
	"fmt"
	"sort"

	tabskema "github.com/reoring/tabskema"
)

// Rename replaces the whole header with names. The data rows are shared with
// t; only the header row is new.
func Rename(t tabskema.Table, names ...string) (tabskema.Table, error) {
	if len(t) == 0 || len(t[0]) != len(names) {
		return nil, fmt.Errorf("%w: rename: table has %d columns, got %d names",
			tabskema.ErrConfiguration, len(t.Header()), len(names))
	}
	return withHeader(t, append([]string(nil), names...)), nil
}

// RenameMap renames columns old -> new. Every old name must be present; the
// first matching column is renamed.
func RenameMap(t tabskema.Table, mapping map[string]string) (tabskema.Table, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("%w: rename: table has no header", tabskema.ErrConfiguration)
	}
	header := append([]string(nil), t.Header()...)
	olds := make([]string, 0, len(mapping))
	for old := range mapping {
		olds = append(olds, old)
	}
	// Resolve against the input header so swapped names do not interact.
	sort.Strings(olds)
	for _, old := range olds {
		j := t.Index(old)
		if j < 0 {
			return nil, &tabskema.ColumnError{Column: old, Reason: "cannot rename", Err: tabskema.ErrColumnNotFound}
		}
		header[j] = mapping[old]
	}
	return withHeader(t, header), nil
}

func withHeader(t tabskema.Table, header []string) tabskema.Table {
	out := make(tabskema.Table, len(t))
	copy(out, t)
	out[0] = header
	return out
}
