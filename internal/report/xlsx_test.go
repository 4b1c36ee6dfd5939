package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func fixturePlan() *Plan {
	return &Plan{
		Headers: []string{"Identifier", "Metric X", "Avg. Metric X"},
		Rows: [][]Cell{
			{
				{Value: "row-1"},
				{Value: 100.46, Numeric: true, Decimals: 2, Highlight: true},
				{Value: 17.3, Numeric: true, Decimals: 1},
			},
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteXLSX(fixturePlan(), path, "#FFC7CE", "run-123"); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue(SheetName, "A1"); got != "Identifier" {
		t.Fatalf("A1 = %q", got)
	}
	if got, _ := f.GetCellValue(SheetName, "B2"); got != "100.46" {
		t.Fatalf("B2 = %q, want formatted to 2 decimals", got)
	}
	if got, _ := f.GetCellValue(SheetName, "C2"); got != "17.3" {
		t.Fatalf("C2 = %q, want formatted to 1 decimal", got)
	}

	// The flagged cell carries the highlight fill; the average does not.
	styleID, err := f.GetCellStyle(SheetName, "B2")
	if err != nil {
		t.Fatalf("GetCellStyle: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if !strings.Contains(strings.ToUpper(strings.Join(style.Fill.Color, ",")), "FFC7CE") {
		t.Fatalf("B2 fill = %v, want highlight color", style.Fill.Color)
	}

	props, err := f.GetDocProps()
	if err != nil {
		t.Fatalf("GetDocProps: %v", err)
	}
	if props.Identifier != "run-123" {
		t.Fatalf("doc identifier = %q, want run ID", props.Identifier)
	}
}

func TestWriteXLSXLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing-subdir", "report.xlsx")
	if err := WriteXLSX(fixturePlan(), path, "FFC7CE", "run-123"); err == nil {
		t.Fatal("want error for unwritable path")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("partial file left behind: %v", err)
	}
}
