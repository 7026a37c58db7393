package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	tabskema "github.com/reoring/tabskema"
	"github.com/reoring/tabskema/i18n"
)

// Op defines simple comparison operators for NumberCompare/TextCompare.
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

var opSymbols = map[Op]string{Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">="}

// String returns the operator symbol.
func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp parses an operator symbol ("==", "!=", "<", "<=", ">", ">=").
// "=" is accepted as an alias of "==".
func ParseOp(s string) (Op, error) {
	s = strings.TrimSpace(s)
	if s == "=" {
		return Eq, nil
	}
	for op, sym := range opSymbols {
		if sym == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown operator %q", tabskema.ErrConfiguration, s)
}

// Rule is a single-cell predicate usable with Field.Check.
type Rule = func(cell string) error

// Comparator is a two-cell predicate usable with Field.CompareWith.
type Comparator = func(cell, other string) error

// Matches requires the cell to match pattern. Blank cells pass.
// It panics if pattern does not compile, like regexp.MustCompile.
func Matches(pattern string) Rule {
	re := regexp.MustCompile(pattern)
	return func(s string) error {
		if tabskema.IsBlank(s) || re.MatchString(s) {
			return nil
		}
		return tabskema.NewRuleError(tabskema.CodePattern,
			i18n.T(tabskema.CodePattern, map[string]string{"pattern": pattern, "value": s}),
			"pattern", pattern)
	}
}

// MinLength requires at least n characters (runes). Blank cells pass.
func MinLength(n int) Rule {
	return func(s string) error {
		if tabskema.IsBlank(s) || utf8.RuneCountInString(s) >= n {
			return nil
		}
		return tabskema.NewRuleError(tabskema.CodeTooShort,
			i18n.T(tabskema.CodeTooShort, map[string]string{"min": fmt.Sprint(n), "value": s}),
			"min", n)
	}
}

// MaxLength allows at most n characters (runes).
func MaxLength(n int) Rule {
	return func(s string) error {
		if utf8.RuneCountInString(s) <= n {
			return nil
		}
		return tabskema.NewRuleError(tabskema.CodeTooLong,
			i18n.T(tabskema.CodeTooLong, map[string]string{"max": fmt.Sprint(n), "value": s}),
			"max", n)
	}
}

// OneOfFold is the case-insensitive counterpart of Field.IsIn. Blank cells pass.
func OneOfFold(values ...string) Rule {
	allowed := append([]string(nil), values...)
	return func(s string) error {
		if tabskema.IsBlank(s) {
			return nil
		}
		for _, a := range allowed {
			if strings.EqualFold(a, s) {
				return nil
			}
		}
		return tabskema.NewRuleError(tabskema.CodeInvalidEnumFold,
			i18n.T(tabskema.CodeInvalidEnumFold, map[string]string{"allowed": strings.Join(allowed, ", "), "value": s}),
			"allowed", allowed)
	}
}

// Date requires the cell to parse with the given time layout. Blank cells pass.
func Date(layout string) Rule {
	return func(s string) error {
		if tabskema.IsBlank(s) {
			return nil
		}
		if _, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return nil
		}
		return tabskema.NewRuleError(tabskema.CodeInvalidFormat,
			i18n.T(tabskema.CodeInvalidFormat, map[string]string{"layout": layout, "value": s}),
			"layout", layout)
	}
}

// Optional skips r for blank cells.
func Optional(r Rule) Rule {
	return func(s string) error {
		if r == nil || tabskema.IsBlank(s) {
			return nil
		}
		return r(s)
	}
}

// And runs every rule and stops at the first failure.
func And(rules ...Rule) Rule {
	return func(s string) error {
		for _, r := range rules {
			if r == nil {
				continue
			}
			if err := r(s); err != nil {
				return err
			}
		}
		return nil
	}
}

// Or succeeds if any rule passes. When all fail the first failure is returned.
func Or(rules ...Rule) Rule {
	return func(s string) error {
		var first error
		for _, r := range rules {
			if r == nil {
				continue
			}
			err := r(s)
			if err == nil {
				return nil
			}
			if first == nil {
				first = err
			}
		}
		return first
	}
}

// NumberCompare compares both cells as numbers. Blank or unparseable cells on
// either side pass, like Field.IsGreaterThanField.
func NumberCompare(op Op) Comparator {
	return func(a, b string) error {
		x, ok1 := tabskema.ParseNumber(a)
		y, ok2 := tabskema.ParseNumber(b)
		if !ok1 || !ok2 || compareOrdered(x, y, op) {
			return nil
		}
		return compareErr(op, a, b)
	}
}

// TextCompare compares both cells as strings (byte order).
func TextCompare(op Op) Comparator {
	return func(a, b string) error {
		if compareOrdered(a, b, op) {
			return nil
		}
		return compareErr(op, a, b)
	}
}

func compareErr(op Op, a, b string) error {
	return tabskema.NewRuleError(tabskema.CodeCustom,
		fmt.Sprintf("should be %s the compared value, got: %s, %s", op, a, b),
		"op", op.String(), "other", b)
}

func compareOrdered[T float64 | string](a, b T, op Op) bool {
	switch op {
	case Eq:
		return a == b
	case Ne:
		return a != b
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	default:
		return false
	}
}

// ErrNotEqual is returned by Equal when cells differ.
var ErrNotEqual = errors.New("should equal the compared value")

// Equal requires both cells to be identical strings.
func Equal() Comparator {
	return func(a, b string) error {
		if a == b {
			return nil
		}
		return ErrNotEqual
	}
}
