package tabskema_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tabskema"
)

func users() tabskema.Table {
	return tabskema.Table{
		{"UserId", "Name", "Gender", "Birthday"},
		{"1", "Alice", "F", "1990-01-02"},
		{"2", "Bob", "M", "1985-05-06"},
		{"2", "", "X", ""},
	}
}

func TestValidate_NoRulesYieldsEmptyReport(t *testing.T) {
	v := tabskema.MustNew(users())
	iss, err := v.Validate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, iss)
	assert.Equal(t, "", iss.Text())
}

func TestValidate_EmptyTable(t *testing.T) {
	v := tabskema.MustNew(nil)
	iss, err := v.Validate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, iss)

	_, err = v.Field("any")
	assert.ErrorIs(t, err, tabskema.ErrColumnNotFound)
}

func TestField_UnknownColumnFailsBeforeScan(t *testing.T) {
	v := tabskema.MustNew(users())
	f, err := v.Field("Nope")
	assert.Nil(t, f)
	require.ErrorIs(t, err, tabskema.ErrColumnNotFound)

	var ce *tabskema.ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Nope", ce.Column)

	assert.Panics(t, func() { v.MustField("Nope") })
}

func TestField_IsIdempotent(t *testing.T) {
	v := tabskema.MustNew(users())
	a := v.MustField("Name")
	b := v.MustField("Name")
	assert.Same(t, a, b)
	assert.Equal(t, 1, a.Index())
	assert.Len(t, v.Fields(), 1)
}

func TestField_DuplicateHeaderAliasesFirstMatch(t *testing.T) {
	table := tabskema.Table{
		{"a", "a"},
		{"", "filled"},
	}
	v := tabskema.MustNew(table)
	f := v.MustField("a").IsRequired()
	assert.Equal(t, 0, f.Index())

	iss, err := v.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, 2, iss[0].Row)
}

func TestNew_StrictHeaderRejectsDuplicates(t *testing.T) {
	_, err := tabskema.New(tabskema.Table{{"a", "b", "a"}}, tabskema.WithHeaderPolicy(tabskema.HeaderStrict))
	require.ErrorIs(t, err, tabskema.ErrDuplicateColumn)

	var ce *tabskema.ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "a", ce.Column)

	assert.Panics(t, func() {
		tabskema.MustNew(tabskema.Table{{"a", "a"}}, tabskema.WithHeaderPolicy(tabskema.HeaderStrict))
	})
}

func TestValidate_OrderAndRowNumbering(t *testing.T) {
	v := tabskema.MustNew(users())
	v.MustCompositeField("Name", "Birthday").IsRequired()
	v.MustField("UserId").IsUnique()
	v.MustField("Name").IsRequired()
	v.MustField("Gender").IsIn("M", "F")

	iss, err := v.Validate(context.Background())
	require.NoError(t, err)

	want := "[ Row#000004 ] UserId should be unique, found duplicate: 2\n" +
		"[ Row#000004 ] Name cannot be empty\n" +
		"[ Row#000004 ] Gender should be one of: {M, F}, got: X\n" +
		"[ Row#000004 ] (Name, Birthday) cannot all be empty\n"
	assert.Equal(t, want, iss.Text())

	for _, it := range iss {
		assert.Equal(t, 4, it.Row)
	}
	assert.Equal(t, []string{
		tabskema.CodeUniqueness, tabskema.CodeRequired, tabskema.CodeInvalidEnum, tabskema.CodeGroupRequired,
	}, codes(iss))
}

func TestValidate_FirstDataRowIsRowTwo(t *testing.T) {
	v := tabskema.MustNew(tabskema.Table{{"a"}, {""}})
	v.MustField("a").IsRequired()
	iss, err := v.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, 2, iss[0].Row)
	assert.Equal(t, "[ Row#000002 ] a cannot be empty\n", iss.Text())
}

func TestValidate_ViolationsNeverAbortThePass(t *testing.T) {
	table := tabskema.Table{{"n"}}
	for i := 0; i < 50; i++ {
		table = append(table, []string{"x"})
	}
	v := tabskema.MustNew(table)
	v.MustField("n").IsInteger().IsRequired()
	iss, err := v.Validate(context.Background())
	require.NoError(t, err)
	assert.Len(t, iss, 50)
	assert.Equal(t, 51, iss[len(iss)-1].Row)
}

func TestValidate_RepeatedRunsAccumulateUniqueness(t *testing.T) {
	table := tabskema.Table{{"id"}, {"a"}, {"b"}}
	v := tabskema.MustNew(table)
	v.MustField("id").IsUnique()

	first, err := v.Validate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, first)

	// Values seen by the first run are still remembered.
	second, err := v.Validate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, second.Rows())

	v.Reset()
	third, err := v.Validate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestValidate_ResetPerRunPolicy(t *testing.T) {
	table := tabskema.Table{{"a", "b"}, {"1", "2"}, {"2", "1"}}
	v := tabskema.MustNew(table, tabskema.WithUniquePolicy(tabskema.UniqueResetPerRun))
	v.MustField("a").IsUnique()
	v.MustCompositeField("a", "b").IsUnique()

	for i := 0; i < 3; i++ {
		iss, err := v.Validate(context.Background())
		require.NoError(t, err)
		assert.Empty(t, iss)
	}
}

func TestValidate_StrictRowsRejectMisalignedInput(t *testing.T) {
	table := tabskema.Table{{"a", "b"}, {"1", "2"}, {"1"}}
	v := tabskema.MustNew(table, tabskema.WithRowPolicy(tabskema.RowStrict))
	v.MustField("a").IsRequired()

	iss, err := v.Validate(context.Background())
	assert.Nil(t, iss)
	require.ErrorIs(t, err, tabskema.ErrMalformedInput)

	var re *tabskema.RowError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 3, re.Row)
	assert.Equal(t, 2, re.Want)
	assert.Equal(t, 1, re.Got)
}

func TestValidate_LenientRowsReadMissingCellsAsBlank(t *testing.T) {
	table := tabskema.Table{{"a", "b"}, {"1"}}
	v := tabskema.MustNew(table)
	v.MustField("b").IsRequired()
	iss, err := v.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "", iss[0].Value)
}

func TestValidate_CanceledContext(t *testing.T) {
	v := tabskema.MustNew(users())
	v.MustField("Name").IsRequired()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	iss, err := v.Validate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, iss)
}

func TestValidate_LogsSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	v := tabskema.MustNew(users(), tabskema.WithLogger(logger))
	v.MustField("Name").IsRequired()
	_, err := v.Validate(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "field registered")
	assert.Contains(t, buf.String(), "validation finished")
	assert.Contains(t, buf.String(), "issues=1")
}

type shout struct{}

func (shout) Message(code string, data map[string]string) string { return code + "!" + data["field"] }

func TestValidate_WithTranslator(t *testing.T) {
	v := tabskema.MustNew(users(), tabskema.WithTranslator(shout{}))
	v.MustField("Name").IsRequired()
	iss, err := v.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "required!Name", iss[0].Message)
}

func TestReport_MatchesText(t *testing.T) {
	v := tabskema.MustNew(users())
	v.MustField("Gender").IsIn("M", "F")
	s, err := v.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[ Row#000004 ] Gender should be one of: {M, F}, got: X\n", s)
}

func TestIssues_ErrorAndAsIssues(t *testing.T) {
	iss := tabskema.Issues{
		{Row: 2, Column: "a", Code: tabskema.CodeRequired},
		{Row: 3, Column: "a", Code: tabskema.CodeRequired},
		{Row: 3, Column: "b", Code: tabskema.CodeTooBig},
		{Row: 5, Column: "c", Code: tabskema.CodeTooSmall},
	}
	assert.Equal(t, "required at row 2 (a); required at row 3 (a); too_big at row 3 (b); ... (total 4)", iss.Error())
	assert.Equal(t, []int{2, 3, 5}, iss.Rows())
	assert.Len(t, iss.ByRow()[3], 2)

	var err error = iss
	got, ok := tabskema.AsIssues(err)
	require.True(t, ok)
	assert.Len(t, got, 4)

	_, ok = tabskema.AsIssues(errors.New("plain"))
	assert.False(t, ok)
	_, ok = tabskema.AsIssues(nil)
	assert.False(t, ok)

	assert.Len(t, tabskema.AppendIssues(nil, tabskema.Issue{Row: 9}), 1)
	assert.Equal(t, "", tabskema.Issues(nil).Error())
}

func codes(iss tabskema.Issues) []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}
