// Package report turns a detection result into a rendering plan and writes
// it as a styled workbook.
package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/emrekoca/zscout/internal/analysis"
	"github.com/emrekoca/zscout/internal/config"
	"github.com/emrekoca/zscout/internal/table"
)

// Cell is one rendered value plus its formatting decisions.
type Cell struct {
	Value any
	// Numeric cells carry a fixed-decimal number format; Decimals is
	// ignored otherwise.
	Numeric   bool
	Decimals  int
	Highlight bool
}

// Plan is the ordered rendering contract for the workbook: display labels
// first, then one cell row per outlier row.
type Plan struct {
	Headers []string
	Rows    [][]Cell
}

// Build assembles the display columns (identifying columns, then each
// analysis column's value followed by its group average), resolves labels,
// rounds display values, and decides per-cell highlighting. Base columns
// absent from the detection table are skipped; the pipeline warns about
// them when the dataset is fetched.
func Build(det *analysis.Detection, analysisCols []string, acfg config.Analysis, rcfg config.Report) *Plan {
	namer := analysis.NewNamer(acfg.Naming)
	normalized := acfg.BaseQuantityColumn != "" && len(acfg.NormalizeMap) > 0

	type column struct {
		name     string
		label    string
		numeric  bool
		decimals int
	}
	var cols []column

	for _, c := range rcfg.BaseColumns {
		if !det.Table.HasColumn(c) {
			continue
		}
		cols = append(cols, column{name: c, label: displayLabel(rcfg.ColumnLabels, c, c)})
	}
	for _, c := range analysisCols {
		base := c
		if normalized {
			base = namer.BaseMetric(c)
		}
		baseLabel := displayLabel(rcfg.ColumnLabels, base, base)
		avgCol := namer.Column(analysis.RoleGroupAverage, c)
		avgLabel := displayLabel(rcfg.ColumnLabels, avgCol, "Avg. "+baseLabel)
		cols = append(cols,
			column{name: c, label: baseLabel, numeric: true, decimals: acfg.AnalysisPrecision},
			column{name: avgCol, label: avgLabel, numeric: true, decimals: acfg.AveragePrecision},
		)
	}

	plan := &Plan{}
	for _, c := range cols {
		plan.Headers = append(plan.Headers, c.label)
	}
	for _, row := range det.Table.Rows {
		flagged := splitFlags(table.Text(row[det.FlagColumn]))
		cells := make([]Cell, 0, len(cols))
		for _, c := range cols {
			cell := Cell{Highlight: flagged[c.label]}
			if c.numeric {
				cell.Numeric = true
				cell.Decimals = c.decimals
				cell.Value = round(table.Float(row[c.name]), c.decimals)
			} else {
				cell.Value = row[c.name]
			}
			cells = append(cells, cell)
		}
		plan.Rows = append(plan.Rows, cells)
	}
	return plan
}

func displayLabel(labels map[string]string, key, fallback string) string {
	if lbl, ok := labels[key]; ok && lbl != "" {
		return lbl
	}
	return fallback
}

func splitFlags(flag string) map[string]bool {
	out := make(map[string]bool)
	for _, part := range strings.Split(flag, ", ") {
		if part != "" {
			out[part] = true
		}
	}
	return out
}

// round returns v rounded half-up to the given number of decimals.
func round(v float64, decimals int) float64 {
	return decimal.NewFromFloat(v).Round(int32(decimals)).InexactFloat64()
}
