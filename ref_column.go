package tabskema

import "fmt"

// ColumnRef builds Issues for a field or composite field in a chain-safe way.
// The row number is stamped by the validator when the issue is collected.
type ColumnRef struct {
	name string
	rule string
}

// RefOf returns a ColumnRef for the given display name.
func RefOf(name string) ColumnRef { return ColumnRef{name: name} }

// Name returns the display name.
func (r ColumnRef) Name() string { return r.name }

// Rule returns a copy that tags issues with the given rule name.
func (r ColumnRef) Rule(rule string) ColumnRef { return ColumnRef{name: r.name, rule: rule} }

// Issue creates an Issue; kv is read as alternating key/value pairs into Params.
func (r ColumnRef) Issue(code, msg, value string, kv ...any) Issue {
	return Issue{Column: r.name, Code: code, Message: msg, Value: value, Params: paramsOf(kv), Rule: r.rule}
}

func paramsOf(kv []any) map[string]any {
	if len(kv) < 2 {
		return nil
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return m
}
