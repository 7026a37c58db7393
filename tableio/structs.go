package tableio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	tabskema "github.com/reoring/tabskema"
)

// ColumnKey resolves the column a struct field maps to.
// Priority: table:"name" > json tag name > field name; "-" disables the field.
func ColumnKey(sf reflect.StructField) string {
	if tt := sf.Tag.Get("table"); tt != "" {
		if i := strings.IndexByte(tt, ','); i >= 0 {
			tt = tt[:i]
		}
		if tt != "" {
			return tt
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			jt = jt[:i]
		}
		if jt != "" {
			return jt
		}
	}
	return sf.Name
}

type column struct {
	key   string
	index []int
	typ   reflect.Type
}

var timeType = reflect.TypeOf(time.Time{})

func columnsOf(rt reflect.Type) ([]column, error) {
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: tableio: %s is not a struct", tabskema.ErrConfiguration, rt)
	}
	var cols []column
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := ColumnKey(sf)
		if key == "-" {
			continue
		}
		if !supported(sf.Type) {
			return nil, fmt.Errorf("%w: tableio: field %s has unsupported type %s", tabskema.ErrConfiguration, sf.Name, sf.Type)
		}
		cols = append(cols, column{key: key, index: sf.Index, typ: sf.Type})
	}
	return cols, nil
}

func supported(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Tabulate renders items as a table: one column per exported field in
// declaration order, one row per item. Nil pointers render as "".
// An empty slice yields a nil table.
func Tabulate[T any](items []T) (tabskema.Table, error) {
	if len(items) == 0 {
		return nil, nil
	}
	cols, err := columnsOf(reflect.TypeOf(items[0]))
	if err != nil {
		return nil, err
	}
	header := make([]string, len(cols))
	for j, c := range cols {
		header[j] = c.key
	}
	t := make(tabskema.Table, 0, len(items)+1)
	t = append(t, header)
	for _, it := range items {
		rv := reflect.ValueOf(it)
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = formatValue(rv.FieldByIndex(c.index))
		}
		t = append(t, row)
	}
	return t, nil
}

// Generate builds one T per data row. Fields whose column is absent from the
// header keep their zero value; blank cells leave the zero value (nil for
// pointers). Conversion failures report the row number and column.
func Generate[T any](t tabskema.Table) ([]T, error) {
	if len(t) == 0 {
		return nil, nil
	}
	var zero T
	cols, err := columnsOf(reflect.TypeOf(zero))
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(cols))
	for j, c := range cols {
		idx[j] = t.Index(c.key)
	}
	out := make([]T, 0, t.DataLen())
	for i := 1; i < len(t); i++ {
		var item T
		rv := reflect.ValueOf(&item).Elem()
		row := tabskema.Row(t[i])
		for j, c := range cols {
			if idx[j] < 0 {
				continue
			}
			cell := row.Cell(idx[j])
			if err := setValue(rv.FieldByIndex(c.index), cell); err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %w",
					tabskema.ErrMalformedInput, tabskema.RowNumber(i), c.key, err)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func formatValue(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Type() == timeType {
		return v.Interface().(time.Time).Format(time.RFC3339)
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return tabskema.FormatNumber(v.Float())
	default:
		return fmt.Sprint(v.Interface())
	}
}

func setValue(v reflect.Value, cell string) error {
	if tabskema.IsBlank(cell) && v.Kind() != reflect.String {
		return nil
	}
	if v.Kind() == reflect.Pointer {
		p := reflect.New(v.Type().Elem())
		if err := setValue(p.Elem(), cell); err != nil {
			return err
		}
		v.Set(p)
		return nil
	}
	s := strings.TrimSpace(cell)
	if v.Type() == timeType {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(ts))
		return nil
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(cell)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return fmt.Errorf("unsupported type %s", v.Type())
	}
	return nil
}
