package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/emrekoca/zscout/internal/utils"
)

// SheetName is the single sheet every report is written to.
const SheetName = "Outliers"

// WriteXLSX renders the plan into a workbook at path: bold header row,
// fixed-decimal number formats, and the highlight fill on flagged cells.
// The file is written atomically so a failed save leaves no partial report.
func WriteXLSX(plan *Plan, path, highlightColor, runID string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for i, h := range plan.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	styles := newStyleCache(f, normalizeColor(highlightColor))
	for r, row := range plan.Rows {
		for c, cell := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(SheetName, name, cell.Value); err != nil {
				return fmt.Errorf("write cell %s: %w", name, err)
			}
			id, err := styles.get(cell)
			if err != nil {
				return fmt.Errorf("cell style: %w", err)
			}
			if id != 0 {
				if err := f.SetCellStyle(SheetName, name, name, id); err != nil {
					return fmt.Errorf("style cell %s: %w", name, err)
				}
			}
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:     "zscout",
		Identifier:  runID,
		Description: "Grouped z-score outlier report",
	}); err != nil {
		return fmt.Errorf("doc props: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// styleCache deduplicates workbook styles per (numeric, decimals, highlight)
// combination; excelize style IDs are workbook-global.
type styleCache struct {
	f     *excelize.File
	color string
	ids   map[string]int
}

func newStyleCache(f *excelize.File, color string) *styleCache {
	return &styleCache{f: f, color: color, ids: map[string]int{}}
}

func (s *styleCache) get(cell Cell) (int, error) {
	if !cell.Numeric && !cell.Highlight {
		return 0, nil
	}
	key := fmt.Sprintf("%v|%d|%v", cell.Numeric, cell.Decimals, cell.Highlight)
	if id, ok := s.ids[key]; ok {
		return id, nil
	}
	st := &excelize.Style{}
	if cell.Numeric {
		numFmt := decimalFormat(cell.Decimals)
		st.CustomNumFmt = &numFmt
	}
	if cell.Highlight {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.color}}
	}
	id, err := s.f.NewStyle(st)
	if err != nil {
		return 0, err
	}
	s.ids[key] = id
	return id, nil
}

// decimalFormat returns the number format for a fixed decimal count,
// e.g. 2 -> "0.00".
func decimalFormat(decimals int) string {
	if decimals <= 0 {
		return "0"
	}
	return "0." + strings.Repeat("0", decimals)
}

// normalizeColor strips a leading '#' so config colors may use CSS style.
func normalizeColor(c string) string {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if c == "" {
		return "FFC7CE"
	}
	return c
}
