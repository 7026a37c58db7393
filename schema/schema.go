// Package schema loads declarative rule documents (YAML or JSON) and applies
// them to a tabskema.Validator.
//
// A document lists policies, per-column rules and composite rules:
//
//	header: strict
//	unique: reset
//	fields:
//	  - column: UserId
//	    required: true
//	    unique: true
//	    integer: true
//	  - column: End
//	    greater_than_column: Start
//	composites:
//	  - columns: [Name, Birthday]
//	    unique: true
//
// Within one field entry constraints are appended in the order the keys are
// declared on FieldRule, regardless of their order in the file.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	tabskema "github.com/reoring/tabskema"
	"github.com/reoring/tabskema/rules"
)

// Format selects the document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// ErrUnknownFormat is returned when a file extension maps to no Format.
var ErrUnknownFormat = errors.New("schema: unknown document format")

// Document is the root of a rule file.
type Document struct {
	Header     string          `yaml:"header,omitempty" json:"header,omitempty"`
	Unique     string          `yaml:"unique,omitempty" json:"unique,omitempty"`
	Rows       string          `yaml:"rows,omitempty" json:"rows,omitempty"`
	Fields     []FieldRule     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Composites []CompositeRule `yaml:"composites,omitempty" json:"composites,omitempty"`
}

// FieldRule declares the constraints of one column.
type FieldRule struct {
	Column            string        `yaml:"column" json:"column"`
	Required          bool          `yaml:"required,omitempty" json:"required,omitempty"`
	Unique            bool          `yaml:"unique,omitempty" json:"unique,omitempty"`
	Integer           bool          `yaml:"integer,omitempty" json:"integer,omitempty"`
	Numeric           bool          `yaml:"numeric,omitempty" json:"numeric,omitempty"`
	GreaterThan       *float64      `yaml:"greater_than,omitempty" json:"greater_than,omitempty"`
	LessThan          *float64      `yaml:"less_than,omitempty" json:"less_than,omitempty"`
	In                []string      `yaml:"in,omitempty" json:"in,omitempty"`
	GreaterThanColumn string        `yaml:"greater_than_column,omitempty" json:"greater_than_column,omitempty"`
	LessThanColumn    string        `yaml:"less_than_column,omitempty" json:"less_than_column,omitempty"`
	Pattern           string        `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	MinLength         *int          `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength         *int          `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	Date              string        `yaml:"date,omitempty" json:"date,omitempty"`
	Compare           []CompareRule `yaml:"compare,omitempty" json:"compare,omitempty"`
}

// CompareRule compares a column numerically against another column.
type CompareRule struct {
	Op     string `yaml:"op" json:"op"`
	Column string `yaml:"column" json:"column"`
}

// CompositeRule declares the constraints of a column group.
type CompositeRule struct {
	Columns  []string `yaml:"columns" json:"columns"`
	Required bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Unique   bool     `yaml:"unique,omitempty" json:"unique,omitempty"`
}

// FormatFromPath picks the Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Parse decodes and checks a document. Unknown keys are rejected.
func Parse(data []byte, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("schema: decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("schema: decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
	if err := doc.Check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads and parses a document, picking the format by extension.
func LoadFile(path string) (*Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, f)
}

// Encode renders the document in the given format.
func (d *Document) Encode(f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
}

// Check reports every configuration problem in the document. The returned
// error matches tabskema.ErrConfiguration.
func (d *Document) Check() error {
	var errs []error
	bad := func(format string, a ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{tabskema.ErrConfiguration}, a...)...))
	}
	if _, err := headerPolicy(d.Header); err != nil {
		errs = append(errs, err)
	}
	if _, err := uniquePolicy(d.Unique); err != nil {
		errs = append(errs, err)
	}
	if _, err := rowPolicy(d.Rows); err != nil {
		errs = append(errs, err)
	}
	for i, fr := range d.Fields {
		if fr.Column == "" {
			bad("fields[%d]: column is empty", i)
		}
		if fr.Pattern != "" {
			if _, err := regexp.Compile(fr.Pattern); err != nil {
				bad("fields[%d] (%s): pattern: %v", i, fr.Column, err)
			}
		}
		if fr.MinLength != nil && *fr.MinLength < 0 {
			bad("fields[%d] (%s): min_length is negative", i, fr.Column)
		}
		if fr.MaxLength != nil && *fr.MaxLength < 0 {
			bad("fields[%d] (%s): max_length is negative", i, fr.Column)
		}
		for j, cr := range fr.Compare {
			if cr.Column == "" {
				bad("fields[%d] (%s): compare[%d]: column is empty", i, fr.Column, j)
			}
			if _, err := rules.ParseOp(cr.Op); err != nil {
				errs = append(errs, fmt.Errorf("fields[%d] (%s): compare[%d]: %w", i, fr.Column, j, err))
			}
		}
	}
	for i, cr := range d.Composites {
		if len(cr.Columns) == 0 {
			bad("composites[%d]: columns is empty", i)
		}
		for j, c := range cr.Columns {
			if c == "" {
				bad("composites[%d]: columns[%d] is empty", i, j)
			}
		}
	}
	return errors.Join(errs...)
}

// Options maps the document policies to validator options.
func (d *Document) Options() ([]tabskema.Option, error) {
	hp, err := headerPolicy(d.Header)
	if err != nil {
		return nil, err
	}
	up, err := uniquePolicy(d.Unique)
	if err != nil {
		return nil, err
	}
	rp, err := rowPolicy(d.Rows)
	if err != nil {
		return nil, err
	}
	return []tabskema.Option{
		tabskema.WithHeaderPolicy(hp),
		tabskema.WithUniquePolicy(up),
		tabskema.WithRowPolicy(rp),
	}, nil
}

// NewValidator builds a validator over t with the document's policies and
// rules. extra options are applied after the document's own.
func (d *Document) NewValidator(t tabskema.Table, extra ...tabskema.Option) (*tabskema.Validator, error) {
	opts, err := d.Options()
	if err != nil {
		return nil, err
	}
	v, err := tabskema.New(t, append(opts, extra...)...)
	if err != nil {
		return nil, err
	}
	if err := d.Apply(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Apply registers the document's rules on v. Column references are resolved
// immediately, so unknown columns fail with tabskema.ErrColumnNotFound.
func (d *Document) Apply(v *tabskema.Validator) error {
	for _, fr := range d.Fields {
		f, err := v.Field(fr.Column)
		if err != nil {
			return err
		}
		if err := applyField(f, fr); err != nil {
			return err
		}
	}
	for _, cr := range d.Composites {
		c, err := v.CompositeField(cr.Columns...)
		if err != nil {
			return err
		}
		if cr.Required {
			c.IsRequired()
		}
		if cr.Unique {
			c.IsUnique()
		}
	}
	return nil
}

func applyField(f *tabskema.Field, fr FieldRule) error {
	if fr.Required {
		f.IsRequired()
	}
	if fr.Unique {
		f.IsUnique()
	}
	if fr.Integer {
		f.IsInteger()
	}
	if fr.Numeric {
		f.IsNumeric()
	}
	if fr.GreaterThan != nil {
		f.IsGreaterThan(*fr.GreaterThan)
	}
	if fr.LessThan != nil {
		f.IsLessThan(*fr.LessThan)
	}
	if len(fr.In) > 0 {
		f.IsIn(fr.In...)
	}
	if fr.GreaterThanColumn != "" {
		f.IsGreaterThanField(fr.GreaterThanColumn)
	}
	if fr.LessThanColumn != "" {
		f.IsLessThanField(fr.LessThanColumn)
	}
	if fr.Pattern != "" {
		re, err := regexp.Compile(fr.Pattern)
		if err != nil {
			return fmt.Errorf("%w: %s: pattern: %v", tabskema.ErrConfiguration, fr.Column, err)
		}
		f.Check("pattern", rules.Matches(re.String()))
	}
	if fr.MinLength != nil {
		f.Check("min_length", rules.MinLength(*fr.MinLength))
	}
	if fr.MaxLength != nil {
		f.Check("max_length", rules.MaxLength(*fr.MaxLength))
	}
	if fr.Date != "" {
		f.Check("date", rules.Date(fr.Date))
	}
	for _, cr := range fr.Compare {
		op, err := rules.ParseOp(cr.Op)
		if err != nil {
			return err
		}
		f.CompareWith("compare "+op.String()+" "+cr.Column, cr.Column, rules.NumberCompare(op))
	}
	return nil
}

func headerPolicy(s string) (tabskema.HeaderPolicy, error) {
	switch strings.ToLower(s) {
	case "", "alias":
		return tabskema.HeaderAlias, nil
	case "strict":
		return tabskema.HeaderStrict, nil
	default:
		return 0, fmt.Errorf("%w: header policy %q (want alias or strict)", tabskema.ErrConfiguration, s)
	}
}

func uniquePolicy(s string) (tabskema.UniquePolicy, error) {
	switch strings.ToLower(s) {
	case "", "accumulate":
		return tabskema.UniqueAccumulate, nil
	case "reset":
		return tabskema.UniqueResetPerRun, nil
	default:
		return 0, fmt.Errorf("%w: unique policy %q (want accumulate or reset)", tabskema.ErrConfiguration, s)
	}
}

func rowPolicy(s string) (tabskema.RowPolicy, error) {
	switch strings.ToLower(s) {
	case "", "lenient":
		return tabskema.RowLenient, nil
	case "strict":
		return tabskema.RowStrict, nil
	default:
		return 0, fmt.Errorf("%w: row policy %q (want lenient or strict)", tabskema.ErrConfiguration, s)
	}
}
