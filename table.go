package tabskema

// Table is an ordered sequence of rows of string cells. Row 0 is the header;
// header[j] names column j. The validator never mutates a Table.
type Table [][]string

// Row is one record of a Table.
type Row []string

// Cell returns the cell at index i, or "" when the row is shorter than i.
// Out-of-range cells read the same as null cells.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Header returns row 0, or nil for an empty table.
func (t Table) Header() Row {
	if len(t) == 0 {
		return nil
	}
	return Row(t[0])
}

// DataLen returns the number of data rows (header excluded).
func (t Table) DataLen() int {
	if len(t) == 0 {
		return 0
	}
	return len(t) - 1
}

// Index resolves a column name with first-match lookup; -1 when absent.
func (t Table) Index(name string) int {
	for j, h := range t.Header() {
		if h == name {
			return j
		}
	}
	return -1
}

// DuplicateColumns lists header names that occur more than once, in order of
// their second occurrence.
func (t Table) DuplicateColumns() []string {
	seen := map[string]int{}
	var dups []string
	for _, h := range t.Header() {
		seen[h]++
		if seen[h] == 2 {
			dups = append(dups, h)
		}
	}
	return dups
}

// RowNumber converts a 0-based table index into the reported row number,
// which counts the header as row 1.
func RowNumber(i int) int { return i + 1 }
