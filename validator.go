package tabskema

import (
	"context"
	"fmt"
)

// Validator owns a Table and the registry of fields and composite fields
// declared against it.
//
// A Validator is not safe for concurrent use: the registries and the
// uniqueness accumulators are mutated without synchronization.
type Validator struct {
	table      Table
	opts       options
	m          messenger
	fields     map[string]*Field
	order      []*Field
	composites *tupleMap[*CompositeField]
}

// New creates a Validator over t. It fails only when the header policy is
// HeaderStrict and the header repeats a column name.
func New(t Table, opts ...Option) (*Validator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.header == HeaderStrict {
		if dups := t.DuplicateColumns(); len(dups) > 0 {
			return nil, &ColumnError{Column: dups[0], Reason: "declared more than once in the header", Err: ErrDuplicateColumn}
		}
	}
	return &Validator{
		table:      t,
		opts:       o,
		m:          messenger{tr: o.translator},
		fields:     map[string]*Field{},
		composites: newTupleMap[*CompositeField](),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(t Table, opts ...Option) *Validator {
	v, err := New(t, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Table returns the validated table.
func (v *Validator) Table() Table { return v.table }

// Field returns the Field for column name, creating it on first use. The
// column index is resolved once with first-match lookup.
func (v *Validator) Field(name string) (*Field, error) {
	if f, ok := v.fields[name]; ok {
		return f, nil
	}
	idx := v.table.Index(name)
	if idx < 0 {
		return nil, &ColumnError{Column: name, Err: ErrColumnNotFound}
	}
	f := newField(v, name, idx)
	v.fields[name] = f
	v.order = append(v.order, f)
	v.opts.logger.Debug("field registered", "column", name, "index", idx)
	return f, nil
}

// MustField is like Field but panics on error.
func (v *Validator) MustField(name string) *Field {
	f, err := v.Field(name)
	if err != nil {
		panic(err)
	}
	return f
}

// CompositeField returns the CompositeField for the ordered column names,
// creating it on first use. ("a","b") and ("b","a") are distinct.
func (v *Validator) CompositeField(names ...string) (*CompositeField, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: composite field needs at least one column", ErrConfiguration)
	}
	key := Tuple(names)
	if c, ok := v.composites.get(key); ok {
		return c, nil
	}
	indices := make([]int, len(names))
	for i, n := range names {
		idx := v.table.Index(n)
		if idx < 0 {
			return nil, &ColumnError{Column: n, Reason: "in composite " + key.String(), Err: ErrColumnNotFound}
		}
		indices[i] = idx
	}
	c := newCompositeField(v, key, indices)
	v.composites.put(key, c)
	v.opts.logger.Debug("composite field registered", "columns", c.name, "indices", indices)
	return c, nil
}

// MustCompositeField is like CompositeField but panics on error.
func (v *Validator) MustCompositeField(names ...string) *CompositeField {
	c, err := v.CompositeField(names...)
	if err != nil {
		panic(err)
	}
	return c
}

// Fields returns the registered fields in registration order.
func (v *Validator) Fields() []*Field { return append([]*Field(nil), v.order...) }

// CompositeFields returns the registered composite fields in registration order.
func (v *Validator) CompositeFields() []*CompositeField {
	return append([]*CompositeField(nil), v.composites.values()...)
}

// Reset clears the state of every uniqueness constraint.
func (v *Validator) Reset() {
	v.each(func(c constraint) {
		if a, ok := c.(accumulator); ok {
			a.reset()
		}
	})
}

func (v *Validator) each(fn func(constraint)) {
	for _, f := range v.order {
		for _, c := range f.constraints {
			fn(c)
		}
	}
	for _, cf := range v.composites.values() {
		for _, c := range cf.constraints {
			fn(c)
		}
	}
}

// resolve binds deferred column references (cross-field comparators).
func (v *Validator) resolve() error {
	var err error
	v.each(func(c constraint) {
		if err != nil {
			return
		}
		if d, ok := c.(deferred); ok {
			err = d.resolve(v)
		}
	})
	return err
}

func (v *Validator) checkShape() error {
	want := len(v.table.Header())
	for i := 1; i < len(v.table); i++ {
		if got := len(v.table[i]); got != want {
			return &RowError{Row: RowNumber(i), Want: want, Got: got}
		}
	}
	return nil
}

// Validate runs every registered constraint against every data row and
// returns the collected issues in row order; within a row fields come before
// composite fields, each in registration order, constraints in append order.
//
// Structural problems (an unresolvable comparator target, or a misaligned row
// under RowStrict) are returned as errors before any row is scanned. Content
// violations never abort the pass. When ctx is canceled the issues gathered
// so far are returned together with ctx.Err().
//
// Under UniqueAccumulate, calling Validate again reuses the values seen by
// earlier calls, so previously unique rows are reported as duplicates.
func (v *Validator) Validate(ctx context.Context) (Issues, error) {
	if v.opts.unique == UniqueResetPerRun {
		v.Reset()
	}
	if err := v.resolve(); err != nil {
		return nil, err
	}
	if v.opts.rows == RowStrict {
		if err := v.checkShape(); err != nil {
			return nil, err
		}
	}
	var out Issues
	for i := 1; i < len(v.table); i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		row := Row(v.table[i])
		for _, f := range v.order {
			out = collect(out, f.constraints, row, i)
		}
		for _, cf := range v.composites.values() {
			out = collect(out, cf.constraints, row, i)
		}
	}
	v.opts.logger.Debug("validation finished",
		"rows", v.table.DataLen(),
		"fields", len(v.order),
		"composites", v.composites.len(),
		"issues", len(out),
	)
	return out, nil
}

// Report runs Validate and renders the text report.
func (v *Validator) Report(ctx context.Context) (string, error) {
	iss, err := v.Validate(ctx)
	return iss.Text(), err
}

func collect(out Issues, cs []constraint, row Row, i int) Issues {
	for _, c := range cs {
		if iss, bad := c.check(row); bad {
			iss.Row = RowNumber(i)
			out = append(out, iss)
		}
	}
	return out
}
