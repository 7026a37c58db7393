package tabskema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/tabskema/i18n"
)

// constraint is one predicate over a row. It returns the issue (without row
// number) and true when the row violates it.
type constraint interface {
	check(r Row) (Issue, bool)
}

// accumulator is implemented by constraints that remember earlier rows.
type accumulator interface {
	reset()
}

// deferred is implemented by constraints whose column references are resolved
// when Validate runs rather than when they are declared.
type deferred interface {
	resolve(v *Validator) error
}

type constraintFunc func(r Row) (Issue, bool)

func (f constraintFunc) check(r Row) (Issue, bool) { return f(r) }

// messenger renders messages with the validator's translator.
type messenger struct{ tr i18n.Translator }

func (m messenger) msg(code string, data map[string]string) string {
	if m.tr != nil {
		return m.tr.Message(code, data)
	}
	return i18n.T(code, data)
}

// ruleIssue turns a custom predicate error into an issue for the named
// field or group. A *RuleError keeps its code and a copy of its params.
func (m messenger) ruleIssue(ref ColumnRef, name, value string, err error) Issue {
	iss := ref.Issue(CodeCustom, name+" "+err.Error(), value)
	var re *RuleError
	if !errors.As(err, &re) {
		return iss
	}
	iss.Code = re.Code
	if len(re.Params) > 0 {
		iss.Params = make(map[string]any, len(re.Params))
		for k, v := range re.Params {
			iss.Params[k] = v
		}
	}
	if msg, ok := m.localize(re, value); ok {
		iss.Message = name + " " + msg
	}
	return iss
}

// localize re-renders a coded rule message with the translator installed by
// WithTranslator. Templates that expect {field} are left alone since the
// rule message is already prefixed with the name.
func (m messenger) localize(re *RuleError, value string) (string, bool) {
	if m.tr == nil || re.Code == CodeCustom {
		return "", false
	}
	data := map[string]string{"value": value}
	for k, v := range re.Params {
		if ss, ok := v.([]string); ok {
			data[k] = strings.Join(ss, ", ")
			continue
		}
		data[k] = fmt.Sprint(v)
	}
	out := m.tr.Message(re.Code, data)
	if out == "" || out == re.Code || strings.Contains(out, "{field}") {
		return "", false
	}
	return out, true
}

// seenSet accumulates raw cell values for single-column uniqueness.
type seenSet struct{ m map[string]struct{} }

func newSeenSet() *seenSet { return &seenSet{m: map[string]struct{}{}} }

// add inserts s and reports whether it was absent.
func (s *seenSet) add(v string) bool {
	if _, ok := s.m[v]; ok {
		return false
	}
	s.m[v] = struct{}{}
	return true
}

func (s *seenSet) reset() { s.m = map[string]struct{}{} }
