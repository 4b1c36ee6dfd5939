package table

import (
	"math"
	"testing"
)

func TestFromRecordsCollapsesDuplicateColumns(t *testing.T) {
	header := []string{"ID", "X", "ID", "Y"}
	records := [][]any{
		{"a", 1.0, "shadowed", 2.0},
		{"b", 3.0},
	}
	tbl, collapsed := FromRecords(header, records)
	if collapsed != 1 {
		t.Fatalf("collapsed = %d, want 1", collapsed)
	}
	want := []string{"ID", "X", "Y"}
	got := tbl.Columns()
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("columns = %v, want %v", got, want)
		}
	}
	if tbl.Rows[0]["ID"] != "a" {
		t.Fatalf("first occurrence should win, got %v", tbl.Rows[0]["ID"])
	}
	if tbl.Rows[1]["Y"] != nil {
		t.Fatalf("short record should pad with nil, got %v", tbl.Rows[1]["Y"])
	}
}

func TestFloatCoercion(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{"12.5", 12.5},
		{" 7 ", 7},
		{"not a number", 0},
		{int64(4), 4},
		{3.25, 3.25},
		{[]byte("2.5"), 2.5},
		{true, 1},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, c := range cases {
		if got := Float(c.in); got != c.want {
			t.Fatalf("Float(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsBlank(t *testing.T) {
	for _, v := range []any{nil, "", "   ", "\t", []byte("  ")} {
		if !IsBlank(v) {
			t.Fatalf("IsBlank(%q) = false, want true", v)
		}
	}
	for _, v := range []any{"x", 0.0, int64(0), " a "} {
		if IsBlank(v) {
			t.Fatalf("IsBlank(%v) = true, want false", v)
		}
	}
}

func TestFilterDropsInPlace(t *testing.T) {
	tbl, _ := FromRecords([]string{"A"}, [][]any{{1.0}, {2.0}, {3.0}})
	dropped := tbl.Filter(func(r Row) bool { return Float(r["A"]) != 2 })
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if tbl.Len() != 2 {
		t.Fatalf("len = %d, want 2", tbl.Len())
	}
}

func TestAddColumnIdempotent(t *testing.T) {
	tbl := New([]string{"A"})
	tbl.AddColumn("B")
	tbl.AddColumn("B")
	if n := len(tbl.Columns()); n != 2 {
		t.Fatalf("columns = %d, want 2", n)
	}
}
