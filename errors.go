package tabskema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired       = "required"
	CodeGroupRequired  = "group_required"
	CodeUniqueness     = "uniqueness"
	CodeInvalidInteger = "invalid_integer"
	CodeInvalidNumber  = "invalid_number"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeInvalidEnum    = "invalid_enum"
	// Cross-column comparisons within one row
	CodeFieldTooSmall = "field_too_small"
	CodeFieldTooBig   = "field_too_big"
	// Produced by rules/ predicates
	CodePattern         = "pattern"
	CodeTooShort        = "too_short"
	CodeTooLong         = "too_long"
	CodeInvalidFormat   = "invalid_format"
	CodeInvalidEnumFold = "invalid_enum_fold"
	// Any custom predicate that does not return a *RuleError
	CodeCustom = "custom"
)

// Structural errors. They indicate a setup mistake and are returned, never
// folded into Issues.
var (
	ErrColumnNotFound  = errors.New("tabskema: column not found")
	ErrMalformedInput  = errors.New("tabskema: malformed input")
	ErrConfiguration   = errors.New("tabskema: invalid configuration")
	ErrDuplicateColumn = errors.New("tabskema: duplicate column name")
)

// Issue represents a single diagnostic produced by a constraint.
type Issue struct {
	Row     int    // 1-based row number including the header; the first data row is 2.
	Column  string // Field name, or "(a, b)" for a composite field.
	Code    string // One of the codes listed above.
	Message string
	Value   string // Offending cell value; composite values are rendered as "(x, y)".
	// Params carries structured parameters (e.g., {"min":1, "allowed":[...]})
	// for i18n and observability.
	Params map[string]any
	// Rule records the builder method or custom rule name that produced this issue.
	Rule string
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at row 2 (id)
		fmt.Fprintf(b, "%s at row %d (%s)", it.Code, it.Row, it.Column)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// FormatRowTag renders the fixed-width row tag used by the text report.
func FormatRowTag(row int) string { return fmt.Sprintf("[ Row#%06d ]", row) }

// Text renders the canonical report: one line per issue, row tag followed by
// the message. An empty string means no issues.
func (iss Issues) Text() string {
	if len(iss) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, it := range iss {
		b.WriteString(FormatRowTag(it.Row))
		b.WriteByte(' ')
		b.WriteString(it.Message)
		b.WriteByte('\n')
	}
	return b.String()
}

// ByRow groups issues by row number. Order within a row is preserved.
func (iss Issues) ByRow() map[int]Issues {
	out := make(map[int]Issues)
	for _, it := range iss {
		out[it.Row] = append(out[it.Row], it)
	}
	return out
}

// Rows returns the distinct row numbers that have at least one issue, ascending.
func (iss Issues) Rows() []int {
	seen := make(map[int]struct{}, len(iss))
	var rows []int
	for _, it := range iss {
		if _, ok := seen[it.Row]; ok {
			continue
		}
		seen[it.Row] = struct{}{}
		rows = append(rows, it.Row)
	}
	sort.Ints(rows)
	return rows
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ColumnError reports a column reference that could not be resolved.
type ColumnError struct {
	Column string
	Reason string
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %q", e.Err, e.Column)
	}
	return fmt.Sprintf("%v: %q (%s)", e.Err, e.Column, e.Reason)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// RowError reports a data row whose length does not match the header.
type RowError struct {
	Row  int // 1-based, header included
	Want int
	Got  int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%v: row %d has %d cells, header has %d", ErrMalformedInput, e.Row, e.Got, e.Want)
}

func (e *RowError) Unwrap() error { return ErrMalformedInput }

// RuleError lets custom predicates attach an issue code and parameters.
// Predicates returning plain errors are reported with CodeCustom.
type RuleError struct {
	Code    string
	Message string
	Params  map[string]any
}

func (e *RuleError) Error() string { return e.Message }

// NewRuleError builds a RuleError; kv is read as alternating key/value pairs.
func NewRuleError(code, msg string, kv ...any) *RuleError {
	return &RuleError{Code: code, Message: msg, Params: paramsOf(kv)}
}
