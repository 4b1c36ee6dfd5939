// Package pipeline sequences a run: configuration checks, fetch, optional
// normalization, outlier detection, and report emission.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emrekoca/zscout/internal/analysis"
	"github.com/emrekoca/zscout/internal/config"
	"github.com/emrekoca/zscout/internal/fetch"
	"github.com/emrekoca/zscout/internal/report"
	"github.com/emrekoca/zscout/internal/utils"
)

// Result summarizes a completed run. ReportPath is empty when no outliers
// were found and therefore no file was written.
type Result struct {
	RunID      string
	Fetched    int
	Dropped    int
	Outliers   int
	ReportPath string
	// Warnings are non-halting data-quality notes: collapsed duplicate
	// columns, dropped rows, report columns missing from the data.
	Warnings []string
}

// Run executes the whole pipeline once. Configuration problems surface as
// *analysis.ConfigError; expected empty outcomes (no rows, no outliers) are
// not errors.
func Run(ctx context.Context, src fetch.Source, cfg *config.Config, runID string) (*Result, error) {
	res := &Result{RunID: runID}

	// Static checks first; no data is touched when the configuration is
	// inconsistent.
	if overlap := intersect(cfg.Analysis.AnalysisColumns, cfg.Report.BaseColumns); len(overlap) > 0 {
		return res, &analysis.ConfigError{Reason: "analysis columns overlap report base columns", Columns: overlap}
	}
	normalized := cfg.Analysis.BaseQuantityColumn != "" && len(cfg.Analysis.NormalizeMap) > 0
	if !normalized && len(cfg.Analysis.AnalysisColumns) == 0 {
		return res, &analysis.ConfigError{Reason: "no analysis mode configured: set base_quantity_column with normalize_map, or analysis_columns"}
	}

	ds, err := src.Fetch(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch data: %w", err)
	}
	res.Fetched = ds.Table.Len()
	if ds.Collapsed > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d duplicate column(s) collapsed to first occurrence", ds.Collapsed))
	}
	if res.Fetched == 0 {
		res.Warnings = append(res.Warnings, "no rows fetched; nothing to analyze")
		return res, nil
	}
	// Warn about absent report columns up front, whether or not any outlier
	// survives to the report stage.
	for _, c := range cfg.Report.BaseColumns {
		if !ds.Table.HasColumn(c) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("report column %q not in data, skipped", c))
		}
	}

	analysisCols := cfg.Analysis.AnalysisColumns
	if normalized {
		analysisCols, err = analysis.Normalize(ds.Table, cfg.Analysis)
		if err != nil {
			return res, err
		}
		if len(analysisCols) == 0 {
			res.Warnings = append(res.Warnings, "normalize_map produced no columns; nothing to analyze")
			return res, nil
		}
	}

	det, err := analysis.Detector{
		Config:      cfg.Analysis,
		Labels:      cfg.Report.ColumnLabels,
		BaseColumns: cfg.Report.BaseColumns,
		Normalized:  normalized,
	}.Run(ds.Table, analysisCols)
	if err != nil {
		return res, err
	}
	res.Dropped = det.Dropped
	if det.Dropped > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d row(s) dropped for blank identifying values", det.Dropped))
	}
	res.Outliers = det.Table.Len()
	if res.Outliers == 0 {
		return res, nil
	}

	plan := report.Build(det, analysisCols, cfg.Analysis, cfg.Report)
	path := outputPath(cfg.Report.OutputFilename)
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return res, fmt.Errorf("ensure output directory: %w", err)
		}
	}
	if err := report.WriteXLSX(plan, path, cfg.Report.HighlightColor, runID); err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}

// outputPath joins the configured filename under OUTPUT_DIRECTORY when set.
func outputPath(filename string) string {
	if dir := os.Getenv("OUTPUT_DIRECTORY"); dir != "" {
		return filepath.Join(dir, filename)
	}
	return filename
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[s] = true
	}
	var out []string
	for _, s := range a {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}
