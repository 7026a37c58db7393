package benchmarks_test

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	tabskema "github.com/reoring/tabskema"
	"github.com/reoring/tabskema/tableio"
)

// ---- Helpers ----

// generateTable returns a header plus n rows shaped like a user export.
// Every tenth row repeats the previous id so uniqueness has work to do.
func generateTable(n int) tabskema.Table {
	t := make(tabskema.Table, 0, n+1)
	t = append(t, []string{"id", "name", "gender", "start", "end"})
	for i := 0; i < n; i++ {
		id := i
		if i%10 == 9 {
			id = i - 1
		}
		gender := "M"
		if i%2 == 0 {
			gender = "F"
		}
		t = append(t, []string{
			strconv.Itoa(id),
			"name" + strconv.Itoa(i%500),
			gender,
			strconv.Itoa(i),
			strconv.Itoa(i + i%3 - 1),
		})
	}
	return t
}

func newValidator(b *testing.B, t tabskema.Table) *tabskema.Validator {
	b.Helper()
	v, err := tabskema.New(t, tabskema.WithUniquePolicy(tabskema.UniqueResetPerRun))
	if err != nil {
		b.Fatalf("new: %v", err)
	}
	v.MustField("id").IsRequired().IsUnique().IsInteger()
	v.MustField("gender").IsIn("M", "F")
	v.MustField("start").IsNumeric()
	v.MustField("end").IsGreaterThanField("start")
	v.MustCompositeField("name", "gender").IsUnique()
	return v
}

// ---- Benchmarks ----

func BenchmarkValidate(b *testing.B) {
	for _, n := range []int{1_000, 100_000} {
		t := generateTable(n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			v := newValidator(b, t)
			ctx := context.Background()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := v.Validate(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCompositeUnique(b *testing.B) {
	t := generateTable(50_000)
	v, err := tabskema.New(t, tabskema.WithUniquePolicy(tabskema.UniqueResetPerRun))
	if err != nil {
		b.Fatal(err)
	}
	v.MustCompositeField("id", "name", "gender").IsUnique()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := v.Validate(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReadCSV(b *testing.B) {
	var buf bytes.Buffer
	if err := tableio.WriteCSV(&buf, generateTable(10_000), tableio.CSVOptions{}); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tableio.ReadCSV(bytes.NewReader(data), tableio.CSVOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}
