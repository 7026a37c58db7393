// Package report renders validation issues for people and machines.
package report

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	tabskema "github.com/reoring/tabskema"
)

// Summary aggregates a run.
type Summary struct {
	Rows       int            `json:"rows"`
	FailedRows int            `json:"failed_rows"`
	Issues     int            `json:"issues"`
	ByCode     map[string]int `json:"by_code,omitempty"`
}

// Summarize counts issues over a table with rows data rows.
func Summarize(iss tabskema.Issues, rows int) Summary {
	s := Summary{Rows: rows, Issues: len(iss), FailedRows: len(iss.Rows())}
	if len(iss) > 0 {
		s.ByCode = make(map[string]int)
		for _, it := range iss {
			s.ByCode[it.Code]++
		}
	}
	return s
}

// Clean reports whether the run found nothing.
func (s Summary) Clean() bool { return s.Issues == 0 }

// WriteText writes the tagged report, one line per issue.
func WriteText(w io.Writer, iss tabskema.Issues) error {
	_, err := io.WriteString(w, iss.Text())
	return err
}

// WriteSummary writes a one-line human summary.
func WriteSummary(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w, "%d rows checked, %d failed, %d issues\n", s.Rows, s.FailedRows, s.Issues)
	return err
}

type issueJSON struct {
	Row     int            `json:"row"`
	Column  string         `json:"column"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Value   string         `json:"value"`
	Rule    string         `json:"rule,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

type documentJSON struct {
	Summary Summary     `json:"summary"`
	Issues  []issueJSON `json:"issues"`
}

// WriteJSON writes {"summary": ..., "issues": [...]} followed by a newline.
func WriteJSON(w io.Writer, iss tabskema.Issues, s Summary) error {
	doc := documentJSON{Summary: s, Issues: make([]issueJSON, len(iss))}
	for i, it := range iss {
		doc.Issues[i] = issueJSON{
			Row:     it.Row,
			Column:  it.Column,
			Code:    it.Code,
			Message: it.Message,
			Value:   it.Value,
			Rule:    it.Rule,
			Params:  it.Params,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}
