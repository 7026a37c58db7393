// Package tabskema validates tabular data (rows of text cells with a header
// row) against declaratively registered rules.
//
// - Lazy, name-keyed registry: Field(name) and CompositeField(names...) create rule holders on first use
// - Built-in constraints: required, unique, integer, numeric, range, membership, cross-column comparison
// - A stable diagnostic model via Issues (row number, column, code, message)
//
// Design policy:
// - Keep the engine in the root package; put rule files under schema/, table I/O under tableio/,
// reusable predicates under rules/, and the CLI under cmd/tabskema.
// - Content violations are data (Issues); setup mistakes are errors.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	v, err := tabskema.New(table)
//	v.MustField("UserId").IsRequired().IsUnique().IsInteger()
//	v.MustField("Gender").IsIn("M", "F")
//	v.MustField("End").IsGreaterThanField("Start")
//	v.MustField("Start").IsNumeric()
//	v.MustCompositeField("Name", "Birthday").IsUnique()
//
//	iss, err := v.Validate(ctx)
//	fmt.Print(iss.Text()) // [ Row#000002 ] UserId cannot be empty
package tabskema
