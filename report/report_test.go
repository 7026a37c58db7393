package report_test

import (
	"bytes"
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tabskema"
	"github.com/reoring/tabskema/report"
)

func issues(t *testing.T) (tabskema.Issues, int) {
	t.Helper()
	table := tabskema.Table{
		{"id", "kind"},
		{"1", "a"},
		{"", "z"},
		{"1", "a"},
	}
	v := tabskema.MustNew(table)
	v.MustField("id").IsRequired().IsUnique()
	v.MustField("kind").IsIn("a", "b")
	iss, err := v.Validate(context.Background())
	require.NoError(t, err)
	return iss, table.DataLen()
}

func TestSummarize(t *testing.T) {
	iss, rows := issues(t)
	s := report.Summarize(iss, rows)
	assert.Equal(t, 3, s.Rows)
	assert.Equal(t, 2, s.FailedRows)
	assert.Equal(t, 3, s.Issues)
	assert.Equal(t, map[string]int{
		tabskema.CodeRequired:    1,
		tabskema.CodeInvalidEnum: 1,
		tabskema.CodeUniqueness:  1,
	}, s.ByCode)
	assert.False(t, s.Clean())

	clean := report.Summarize(nil, 10)
	assert.True(t, clean.Clean())
	assert.Nil(t, clean.ByCode)
}

func TestWriteText(t *testing.T) {
	iss, rows := issues(t)
	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, iss))
	assert.Equal(t, iss.Text(), buf.String())

	buf.Reset()
	require.NoError(t, report.WriteSummary(&buf, report.Summarize(iss, rows)))
	assert.Equal(t, "3 rows checked, 2 failed, 3 issues\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	iss, rows := issues(t)
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, iss, report.Summarize(iss, rows)))

	var got struct {
		Summary report.Summary `json:"summary"`
		Issues  []struct {
			Row     int            `json:"row"`
			Column  string         `json:"column"`
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Rule    string         `json:"rule"`
			Params  map[string]any `json:"params"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got.Summary.Issues)
	require.Len(t, got.Issues, 3)
	assert.Equal(t, 3, got.Issues[0].Row)
	assert.Equal(t, "id cannot be empty", got.Issues[0].Message)
	assert.Equal(t, "kind", got.Issues[1].Column)
	assert.Equal(t, []any{"a", "b"}, got.Issues[1].Params["allowed"])
	assert.Equal(t, tabskema.CodeUniqueness, got.Issues[2].Code)

	buf.Reset()
	require.NoError(t, report.WriteJSON(&buf, nil, report.Summarize(nil, 0)))
	assert.Contains(t, buf.String(), `"issues": []`)
}
