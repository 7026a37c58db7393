package tabskema

import (
	"strings"
)

// Field holds the constraints of one column. It is created by
// Validator.Field and bound to the column index resolved at that time.
// Builder methods append constraints and return the Field for chaining.
type Field struct {
	v           *Validator
	name        string
	index       int
	ref         ColumnRef
	constraints []constraint
}

func newField(v *Validator, name string, index int) *Field {
	return &Field{v: v, name: name, index: index, ref: RefOf(name)}
}

// Name returns the column name.
func (f *Field) Name() string { return f.name }

// Index returns the resolved column index.
func (f *Field) Index() int { return f.index }

// Len returns the number of attached constraints.
func (f *Field) Len() int { return len(f.constraints) }

func (f *Field) add(c constraint) *Field {
	f.constraints = append(f.constraints, c)
	return f
}

// onCell attaches a constraint that only looks at this field's cell.
func (f *Field) onCell(fn func(s string) (Issue, bool)) *Field {
	idx := f.index
	return f.add(constraintFunc(func(r Row) (Issue, bool) { return fn(r.Cell(idx)) }))
}

func (f *Field) msg(code string, data map[string]string) string {
	if data == nil {
		data = map[string]string{}
	}
	data["field"] = f.name
	return f.v.m.msg(code, data)
}

// IsRequired fails when the cell is blank after trimming whitespace.
func (f *Field) IsRequired() *Field {
	ref := f.ref.Rule("IsRequired")
	return f.onCell(func(s string) (Issue, bool) {
		if !IsBlank(s) {
			return Issue{}, false
		}
		return ref.Issue(CodeRequired, f.msg(CodeRequired, nil), s), true
	})
}

// IsUnique fails for every row whose raw cell value was already seen. The
// first occurrence always passes. Seen values persist for the lifetime of
// the constraint unless the validator resets them (see UniquePolicy).
func (f *Field) IsUnique() *Field {
	return f.add(&uniqueCell{f: f, ref: f.ref.Rule("IsUnique"), seen: newSeenSet()})
}

type uniqueCell struct {
	f    *Field
	ref  ColumnRef
	seen *seenSet
}

func (u *uniqueCell) check(r Row) (Issue, bool) {
	s := r.Cell(u.f.index)
	if u.seen.add(s) {
		return Issue{}, false
	}
	return u.ref.Issue(CodeUniqueness, u.f.msg(CodeUniqueness, map[string]string{"value": s}), s), true
}

func (u *uniqueCell) reset() { u.seen.reset() }

// IsInteger fails for non-blank cells that are not base-10 integers.
func (f *Field) IsInteger() *Field {
	ref := f.ref.Rule("IsInteger")
	return f.onCell(func(s string) (Issue, bool) {
		if IsBlank(s) {
			return Issue{}, false
		}
		if _, ok := ParseInteger(s); ok {
			return Issue{}, false
		}
		return ref.Issue(CodeInvalidInteger, f.msg(CodeInvalidInteger, map[string]string{"value": s}), s), true
	})
}

// IsNumeric fails for non-blank cells that are not decimal numbers.
func (f *Field) IsNumeric() *Field {
	ref := f.ref.Rule("IsNumeric")
	return f.onCell(func(s string) (Issue, bool) {
		if IsBlank(s) {
			return Issue{}, false
		}
		if _, ok := ParseNumber(s); ok {
			return Issue{}, false
		}
		return ref.Issue(CodeInvalidNumber, f.msg(CodeInvalidNumber, map[string]string{"value": s}), s), true
	})
}

// IsGreaterThan fails when the cell parses as a number that is not strictly
// greater than threshold. Blank or unparseable cells pass.
func (f *Field) IsGreaterThan(threshold float64) *Field {
	ref := f.ref.Rule("IsGreaterThan")
	return f.onCell(func(s string) (Issue, bool) {
		n, ok := ParseNumber(s)
		if !ok || n > threshold {
			return Issue{}, false
		}
		m := f.msg(CodeTooSmall, map[string]string{"min": FormatNumber(threshold), "value": s})
		return ref.Issue(CodeTooSmall, m, s, "min", threshold), true
	})
}

// IsLessThan fails when the cell parses as a number that is not strictly
// less than threshold. Blank or unparseable cells pass.
func (f *Field) IsLessThan(threshold float64) *Field {
	ref := f.ref.Rule("IsLessThan")
	return f.onCell(func(s string) (Issue, bool) {
		n, ok := ParseNumber(s)
		if !ok || n < threshold {
			return Issue{}, false
		}
		m := f.msg(CodeTooBig, map[string]string{"max": FormatNumber(threshold), "value": s})
		return ref.Issue(CodeTooBig, m, s, "max", threshold), true
	})
}

// IsIn fails when a non-blank cell is not exactly one of values.
func (f *Field) IsIn(values ...string) *Field {
	allowed := append([]string(nil), values...)
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	joined := strings.Join(allowed, ", ")
	ref := f.ref.Rule("IsIn")
	return f.onCell(func(s string) (Issue, bool) {
		if IsBlank(s) {
			return Issue{}, false
		}
		if _, ok := set[s]; ok {
			return Issue{}, false
		}
		m := f.msg(CodeInvalidEnum, map[string]string{"allowed": joined, "value": s})
		return ref.Issue(CodeInvalidEnum, m, s, "allowed", allowed), true
	})
}

// IsGreaterThanField compares this cell with the target field's cell in the
// same row. The target is looked up when Validate runs, so it may be
// registered after this call. Blank or unparseable cells on either side pass.
func (f *Field) IsGreaterThanField(target string) *Field {
	return f.add(f.numericComparator("IsGreaterThanField", target, CodeFieldTooSmall, func(a, b float64) bool { return a > b }))
}

// IsLessThanField is the mirror of IsGreaterThanField.
func (f *Field) IsLessThanField(target string) *Field {
	return f.add(f.numericComparator("IsLessThanField", target, CodeFieldTooBig, func(a, b float64) bool { return a < b }))
}

func (f *Field) numericComparator(rule, target, code string, pass func(a, b float64) bool) *fieldComparator {
	ref := f.ref.Rule(rule)
	return &fieldComparator{owner: f, target: target, fn: func(s1, s2 string) (Issue, bool) {
		v1, ok1 := ParseNumber(s1)
		v2, ok2 := ParseNumber(s2)
		if !ok1 || !ok2 || pass(v1, v2) {
			return Issue{}, false
		}
		m := f.msg(code, map[string]string{"target": target, "value": s1, "other": s2})
		return ref.Issue(code, m, s1, "target", target, "other", s2), true
	}}
}

// Check attaches a custom single-cell predicate. A non-nil error becomes an
// issue whose message is the field name followed by the error text. Errors of
// type *RuleError keep their code and params; other errors use CodeCustom.
func (f *Field) Check(rule string, fn func(cell string) error) *Field {
	if fn == nil {
		return f
	}
	ref := f.ref.Rule(rule)
	return f.onCell(func(s string) (Issue, bool) {
		if err := fn(s); err != nil {
			return f.errIssue(ref, s, err), true
		}
		return Issue{}, false
	})
}

// CompareWith attaches a custom comparator between this cell and the target
// field's cell in the same row. The target is resolved like IsGreaterThanField.
func (f *Field) CompareWith(rule, target string, fn func(cell, other string) error) *Field {
	if fn == nil {
		return f
	}
	ref := f.ref.Rule(rule)
	return f.add(&fieldComparator{owner: f, target: target, fn: func(s1, s2 string) (Issue, bool) {
		if err := fn(s1, s2); err != nil {
			iss := f.errIssue(ref, s1, err)
			if iss.Params == nil {
				iss.Params = map[string]any{}
			}
			iss.Params["target"] = target
			iss.Params["other"] = s2
			return iss, true
		}
		return Issue{}, false
	}})
}

func (f *Field) errIssue(ref ColumnRef, value string, err error) Issue {
	return f.v.m.ruleIssue(ref, f.name, value, err)
}

// fieldComparator evaluates a two-cell predicate against a target field that
// is resolved lazily and then memoized.
type fieldComparator struct {
	owner  *Field
	target string
	other  *Field
	fn     func(cell, other string) (Issue, bool)
}

func (c *fieldComparator) resolve(v *Validator) error {
	if c.other != nil {
		return nil
	}
	t, ok := v.fields[c.target]
	if !ok {
		reason := "not registered as a field"
		if v.table.Index(c.target) < 0 {
			reason = "not present in the header"
		}
		return &ColumnError{Column: c.target, Reason: reason, Err: ErrColumnNotFound}
	}
	c.other = t
	return nil
}

func (c *fieldComparator) check(r Row) (Issue, bool) {
	if c.other == nil {
		return Issue{}, false
	}
	return c.fn(r.Cell(c.owner.index), r.Cell(c.other.index))
}
