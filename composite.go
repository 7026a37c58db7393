package tabskema

// CompositeField holds constraints over a group of columns. Its identity is
// the ordered tuple of column names it was requested with.
type CompositeField struct {
	v           *Validator
	names       Tuple
	indices     []int
	name        string
	ref         ColumnRef
	constraints []constraint
}

func newCompositeField(v *Validator, names Tuple, indices []int) *CompositeField {
	name := names.String()
	return &CompositeField{
		v:       v,
		names:   append(Tuple(nil), names...),
		indices: indices,
		name:    name,
		ref:     RefOf(name),
	}
}

// Name returns the display name, e.g. "(a, b)".
func (c *CompositeField) Name() string { return c.name }

// Columns returns a copy of the column names in request order.
func (c *CompositeField) Columns() []string { return append([]string(nil), c.names...) }

// Indices returns a copy of the resolved column indices, parallel to Columns.
func (c *CompositeField) Indices() []int { return append([]int(nil), c.indices...) }

// Len returns the number of attached constraints.
func (c *CompositeField) Len() int { return len(c.constraints) }

// values extracts the group's cells in request order.
func (c *CompositeField) values(r Row) Tuple {
	out := make(Tuple, len(c.indices))
	for i, idx := range c.indices {
		out[i] = r.Cell(idx)
	}
	return out
}

func (c *CompositeField) add(k constraint) *CompositeField {
	c.constraints = append(c.constraints, k)
	return c
}

func (c *CompositeField) msg(code string, data map[string]string) string {
	if data == nil {
		data = map[string]string{}
	}
	data["field"] = c.name
	return c.v.m.msg(code, data)
}

// IsRequired fails only when every cell of the group is blank.
func (c *CompositeField) IsRequired() *CompositeField {
	ref := c.ref.Rule("IsRequired")
	return c.add(constraintFunc(func(r Row) (Issue, bool) {
		vals := c.values(r)
		for _, s := range vals {
			if !IsBlank(s) {
				return Issue{}, false
			}
		}
		return ref.Issue(CodeGroupRequired, c.msg(CodeGroupRequired, nil), vals.String()), true
	}))
}

// IsUnique fails for every row whose value tuple was already seen.
func (c *CompositeField) IsUnique() *CompositeField {
	return c.add(&uniqueTuple{c: c, ref: c.ref.Rule("IsUnique"), seen: newTupleSet()})
}

type uniqueTuple struct {
	c    *CompositeField
	ref  ColumnRef
	seen *tupleSet
}

func (u *uniqueTuple) check(r Row) (Issue, bool) {
	vals := u.c.values(r)
	if u.seen.add(vals) {
		return Issue{}, false
	}
	s := vals.String()
	return u.ref.Issue(CodeUniqueness, u.c.msg(CodeUniqueness, map[string]string{"value": s}), s), true
}

func (u *uniqueTuple) reset() { u.seen.reset() }

// Check attaches a custom predicate over the group's cells (request order).
// Messages are built like Field.Check.
func (c *CompositeField) Check(rule string, fn func(values []string) error) *CompositeField {
	if fn == nil {
		return c
	}
	ref := c.ref.Rule(rule)
	return c.add(constraintFunc(func(r Row) (Issue, bool) {
		vals := c.values(r)
		err := fn(vals)
		if err == nil {
			return Issue{}, false
		}
		return c.v.m.ruleIssue(ref, c.name, vals.String(), err), true
	}))
}
