package analysis

import (
	"math"
	"sort"

	"github.com/emrekoca/zscout/internal/config"
	"github.com/emrekoca/zscout/internal/table"
)

// Normalize derives a per-unit metric column for every value/unit pair in
// the normalize map, dividing by the base quantity column:
//
//	0                              when unit == 0 or base == 0
//	(value * 1000) / (base * unit) otherwise
//
// Source cells coerce to 0 when non-numeric; non-finite results collapse to
// 0. Pairs whose value or unit column is absent from the table are skipped.
// It returns the ordered list of created column names, which becomes the
// analysis set for detection. Pairs are processed in sorted value-column
// order so the derived order is stable.
func Normalize(t *table.Table, cfg config.Analysis) ([]string, error) {
	base := cfg.BaseQuantityColumn
	if !t.HasColumn(base) {
		return nil, &ConfigError{Reason: "base quantity column not in fetched data", Columns: []string{base}}
	}
	allZero := true
	for _, row := range t.Rows {
		if table.Float(row[base]) != 0 {
			allZero = false
			break
		}
	}
	if t.Len() > 0 && allZero {
		return nil, &ConfigError{Reason: "base quantity column is zero for every row", Columns: []string{base}}
	}

	namer := NewNamer(cfg.Naming)
	valueCols := make([]string, 0, len(cfg.NormalizeMap))
	for v := range cfg.NormalizeMap {
		valueCols = append(valueCols, v)
	}
	sort.Strings(valueCols)

	var created []string
	for _, valCol := range valueCols {
		unitCol := cfg.NormalizeMap[valCol]
		if !t.HasColumn(valCol) || !t.HasColumn(unitCol) {
			continue
		}
		normCol := namer.Column(RoleNormalized, valCol)
		t.AddColumn(normCol)
		for _, row := range t.Rows {
			v := table.Float(row[valCol])
			u := table.Float(row[unitCol])
			b := table.Float(row[base])
			var out float64
			if u != 0 && b != 0 {
				out = (v * 1000) / (b * u)
			}
			if math.IsNaN(out) || math.IsInf(out, 0) {
				out = 0
			}
			row[normCol] = out
		}
		created = append(created, normCol)
	}
	return created, nil
}
