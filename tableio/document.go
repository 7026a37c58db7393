package tableio

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	tabskema "github.com/reoring/tabskema"
)

// document is the object shape accepted by ReadJSON and ReadYAML and written
// by WriteJSON:
//
//	{"header": ["a", "b"], "rows": [["1", "2"]]}
//
// A bare array of rows (header first) is accepted as well.
type document struct {
	Header []string   `json:"header" yaml:"header"`
	Rows   [][]string `json:"rows" yaml:"rows"`
}

func (d document) table() tabskema.Table {
	if d.Header == nil && len(d.Rows) == 0 {
		return nil
	}
	t := make(tabskema.Table, 0, len(d.Rows)+1)
	t = append(t, d.Header)
	return append(t, d.Rows...)
}

// ReadJSON decodes a table document. Cells must be JSON strings.
func ReadJSON(r io.Reader) (tabskema.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tableio: read json: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var rows [][]string
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("%w: json: %w", tabskema.ErrMalformedInput, err)
		}
		return rows, nil
	}
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: json: %w", tabskema.ErrMalformedInput, err)
	}
	return doc.table(), nil
}

// WriteJSON encodes t in the object shape with a trailing newline.
func WriteJSON(w io.Writer, t tabskema.Table) error {
	doc := document{Header: t.Header(), Rows: [][]string{}}
	if len(t) > 1 {
		doc.Rows = t[1:]
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("tableio: write json: %w", err)
	}
	return nil
}

// ReadYAML decodes a table document in either shape. Scalar cells are read
// as their literal text, so 1 and "1" are the same cell.
func ReadYAML(r io.Reader) (tabskema.Table, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: yaml: %w", tabskema.ErrMalformedInput, err)
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		var rows [][]string
		if err := root.Decode(&rows); err != nil {
			return nil, fmt.Errorf("%w: yaml: %w", tabskema.ErrMalformedInput, err)
		}
		return rows, nil
	case yaml.MappingNode:
		var doc document
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: yaml: %w", tabskema.ErrMalformedInput, err)
		}
		return doc.table(), nil
	default:
		return nil, fmt.Errorf("%w: yaml: expected a sequence or mapping at line %d", tabskema.ErrMalformedInput, root.Line)
	}
}
