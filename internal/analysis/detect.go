// Package analysis implements the normalization and grouped z-score outlier
// engine: dynamic column derivation, two-pass group statistics, and the
// strict |z| > threshold outlier test.
package analysis

import (
	"math"
	"strings"

	"github.com/emrekoca/zscout/internal/config"
	"github.com/emrekoca/zscout/internal/table"
)

// Detector flags rows whose z-score within their group exceeds the
// configured threshold on any analysis column.
type Detector struct {
	Config config.Analysis
	// Labels resolves technical column names to display labels for the
	// flag text; unresolved names fall back to the technical name.
	Labels map[string]string
	// BaseColumns are the identifying columns; rows with a blank value in
	// any base column present in the table are dropped before detection.
	BaseColumns []string
	// Normalized marks the analysis columns as normalizer output, so flag
	// labels name the original business metric instead of the derived one.
	Normalized bool
}

// Detection is the outcome of a detector run. Table holds only the flagged
// rows, each carrying its z-score, group-average, and flag columns.
type Detection struct {
	Table      *table.Table
	FlagColumn string
	// Dropped counts rows removed for blank identifying values.
	Dropped int
}

type groupStat struct {
	n    int
	sum  float64
	sum2 float64
}

func (g *groupStat) mean() float64 { return g.sum / float64(g.n) }

// std returns the sample standard deviation, 0 for groups of one.
func (g *groupStat) std() float64 {
	if g.n < 2 {
		return 0
	}
	m := g.mean()
	v := (g.sum2 - float64(g.n)*m*m) / float64(g.n-1)
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// Run validates the configured columns against the table, computes grouped
// statistics, and returns the flagged rows. Validation is fail-fast: a
// missing group-by or analysis column yields a ConfigError and no partial
// output.
func (d Detector) Run(t *table.Table, analysisCols []string) (*Detection, error) {
	namer := NewNamer(d.Config.Naming)
	det := &Detection{FlagColumn: namer.FlagColumn()}

	// Blank identifying values make a row unreportable; drop it. Base
	// columns absent from the table are ignored here (the report stage
	// warns about them).
	var present []string
	for _, c := range d.BaseColumns {
		if t.HasColumn(c) {
			present = append(present, c)
		}
	}
	det.Dropped = t.Filter(func(r table.Row) bool {
		for _, c := range present {
			if table.IsBlank(r[c]) {
				return false
			}
		}
		return true
	})
	if t.Len() == 0 {
		det.Table = table.New(t.Columns())
		return det, nil
	}

	if missing := t.Missing(d.Config.GroupByColumns); len(missing) > 0 {
		return nil, &ConfigError{Reason: "group-by columns not in fetched data", Columns: missing}
	}
	if missing := t.Missing(analysisCols); len(missing) > 0 {
		return nil, &ConfigError{Reason: "analysis columns not in fetched data", Columns: missing}
	}

	keys := groupKeys(t, d.Config.GroupByColumns)

	// Two passes per analysis column: aggregate per group, then join each
	// row back to its group's mean and std.
	for _, col := range analysisCols {
		stats := make(map[string]*groupStat)
		for i, row := range t.Rows {
			v := table.Float(row[col])
			gs := stats[keys[i]]
			if gs == nil {
				gs = &groupStat{}
				stats[keys[i]] = gs
			}
			gs.n++
			gs.sum += v
			gs.sum2 += v * v
		}
		zCol := namer.Column(RoleZScore, col)
		avgCol := namer.Column(RoleGroupAverage, col)
		t.AddColumn(zCol)
		t.AddColumn(avgCol)
		for i, row := range t.Rows {
			gs := stats[keys[i]]
			mean := gs.mean()
			var z float64
			if sd := gs.std(); sd > 0 {
				z = (table.Float(row[col]) - mean) / sd
			}
			row[zCol] = z
			row[avgCol] = mean
		}
	}

	// A row's flag is the ordered, comma-joined list of labels whose
	// |z| strictly exceeds the threshold. Empty flag ⇒ not an outlier.
	t.AddColumn(det.FlagColumn)
	for _, row := range t.Rows {
		var parts []string
		for _, col := range analysisCols {
			z := table.Float(row[namer.Column(RoleZScore, col)])
			if math.Abs(z) > d.Config.ZScoreThreshold {
				parts = append(parts, d.label(namer, col))
			}
		}
		row[det.FlagColumn] = strings.Join(parts, ", ")
	}
	t.Filter(func(r table.Row) bool {
		return table.Text(r[det.FlagColumn]) != ""
	})
	det.Table = t
	return det, nil
}

// label resolves the display label naming an analysis column in flag text.
// Normalized columns resolve through their original business metric.
func (d Detector) label(namer Namer, col string) string {
	base := col
	if d.Normalized {
		base = namer.BaseMetric(col)
	}
	if lbl, ok := d.Labels[base]; ok && lbl != "" {
		return lbl
	}
	return base
}

// groupKeys computes each row's group key from the group-by columns. An
// empty group-by list puts the whole table in one group.
func groupKeys(t *table.Table, groupBy []string) []string {
	keys := make([]string, t.Len())
	if len(groupBy) == 0 {
		return keys
	}
	var b strings.Builder
	for i, row := range t.Rows {
		b.Reset()
		for j, c := range groupBy {
			if j > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(table.Text(row[c]))
		}
		keys[i] = b.String()
	}
	return keys
}
