// Package tableio moves tables in and out of tabskema.Table: delimited text,
// CSV, JSON and YAML documents, header renaming, and struct slices.
package tableio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	tabskema "github.com/reoring/tabskema"
)

// Defaults used by ReadDelimited and ToDelimited when an argument is empty.
const (
	DefaultDelimiter = ","
	DefaultLineBreak = "\r\n"
)

// ReadDelimited splits s into lines on linebreak, dropping empty lines, then
// each line into cells on delim. Quoting is not interpreted; use ReadCSV for
// quoted input.
func ReadDelimited(s, delim, linebreak string) tabskema.Table {
	if delim == "" {
		delim = DefaultDelimiter
	}
	if linebreak == "" {
		linebreak = DefaultLineBreak
	}
	var t tabskema.Table
	for _, line := range strings.Split(s, linebreak) {
		if line == "" {
			continue
		}
		t = append(t, strings.Split(line, delim))
	}
	return t
}

// ToDelimited joins cells with delim and rows with linebreak. It is the
// inverse of ReadDelimited for tables without empty rows.
func ToDelimited(t tabskema.Table, delim, linebreak string) string {
	if delim == "" {
		delim = DefaultDelimiter
	}
	if linebreak == "" {
		linebreak = DefaultLineBreak
	}
	lines := make([]string, len(t))
	for i, r := range t {
		lines[i] = strings.Join(r, delim)
	}
	return strings.Join(lines, linebreak)
}

// CSVOptions tunes ReadCSV and WriteCSV. The zero value reads and writes
// standard comma separated files.
type CSVOptions struct {
	Comma rune
	// Comment, when set, drops lines starting with it.
	Comment rune
	// TrimLeadingSpace drops leading white space in a cell.
	TrimLeadingSpace bool
	// UseCRLF writes \r\n line endings.
	UseCRLF bool
}

// ReadCSV reads an RFC 4180 document. Rows may have differing lengths; the
// validator's row policy decides what to do with them.
func ReadCSV(r io.Reader, opts CSVOptions) (tabskema.Table, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.Comment = opts.Comment
	cr.TrimLeadingSpace = opts.TrimLeadingSpace
	cr.FieldsPerRecord = -1
	var t tabskema.Table
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %w", tabskema.ErrMalformedInput, err)
		}
		t = append(t, rec)
	}
}

// WriteCSV writes t as RFC 4180 records.
func WriteCSV(w io.Writer, t tabskema.Table, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}
	cw.UseCRLF = opts.UseCRLF
	if err := cw.WriteAll(t); err != nil {
		return fmt.Errorf("tableio: write csv: %w", err)
	}
	return nil
}
