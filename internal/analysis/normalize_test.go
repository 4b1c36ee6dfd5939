package analysis

import (
	"errors"
	"testing"

	"github.com/emrekoca/zscout/internal/config"
	"github.com/emrekoca/zscout/internal/table"
)

func normalizeConfig() config.Analysis {
	return config.Analysis{
		BaseQuantityColumn: "QTY",
		NormalizeMap:       map[string]string{"TIME": "UNIT"},
	}
}

func TestNormalizeFormula(t *testing.T) {
	tbl, _ := table.FromRecords(
		[]string{"QTY", "TIME", "UNIT"},
		[][]any{
			{10.0, 60.0, 2.0},  // (60*1000)/(10*2) = 3000
			{10.0, 60.0, 0.0},  // zero unit -> 0
			{0.0, 60.0, 2.0},   // zero base -> 0
			{10.0, "abc", 2.0}, // non-numeric value -> 0 before the formula
			{10.0, nil, 2.0},   // missing value -> 0
		},
	)
	created, err := Normalize(tbl, normalizeConfig())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(created) != 1 || created[0] != "NORM_TIME_PER_UNIT" {
		t.Fatalf("created = %v", created)
	}
	want := []float64{3000, 0, 0, 0, 0}
	for i, w := range want {
		if got := table.Float(tbl.Rows[i]["NORM_TIME_PER_UNIT"]); got != w {
			t.Fatalf("row %d normalized = %v, want %v", i, got, w)
		}
	}
}

func TestNormalizeMissingBaseColumn(t *testing.T) {
	tbl, _ := table.FromRecords([]string{"TIME", "UNIT"}, [][]any{{60.0, 2.0}})
	_, err := Normalize(tbl, normalizeConfig())
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
	if len(ce.Columns) != 1 || ce.Columns[0] != "QTY" {
		t.Fatalf("offending columns = %v", ce.Columns)
	}
}

func TestNormalizeAllZeroBase(t *testing.T) {
	tbl, _ := table.FromRecords([]string{"QTY", "TIME", "UNIT"}, [][]any{
		{0.0, 60.0, 2.0},
		{"0", 30.0, 1.0},
	})
	if _, err := Normalize(tbl, normalizeConfig()); err == nil {
		t.Fatal("want error for all-zero base column")
	}
}

func TestNormalizeSkipsAbsentPairs(t *testing.T) {
	cfg := normalizeConfig()
	cfg.NormalizeMap["MISSING"] = "ALSO_MISSING"
	tbl, _ := table.FromRecords([]string{"QTY", "TIME", "UNIT"}, [][]any{{10.0, 60.0, 2.0}})
	created, err := Normalize(tbl, cfg)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(created) != 1 || created[0] != "NORM_TIME_PER_UNIT" {
		t.Fatalf("created = %v, want only the present pair", created)
	}
}

func TestNormalizeDeterministicOrder(t *testing.T) {
	cfg := config.Analysis{
		BaseQuantityColumn: "QTY",
		NormalizeMap:       map[string]string{"B_COL": "U", "A_COL": "U", "C_COL": "U"},
	}
	tbl, _ := table.FromRecords([]string{"QTY", "A_COL", "B_COL", "C_COL", "U"}, [][]any{{1.0, 1.0, 1.0, 1.0, 1.0}})
	created, err := Normalize(tbl, cfg)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []string{"NORM_A_COL_PER_UNIT", "NORM_B_COL_PER_UNIT", "NORM_C_COL_PER_UNIT"}
	for i := range want {
		if created[i] != want[i] {
			t.Fatalf("created = %v, want %v", created, want)
		}
	}
}
