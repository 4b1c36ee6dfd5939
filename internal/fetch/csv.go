package fetch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/emrekoca/zscout/internal/table"
)

// CSVSource fetches the table from a delimited file instead of a database.
// The first record is the header.
type CSVSource struct {
	Path string
	// Delimiter for the file. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
}

// Fetch reads the whole file into a table. Empty cells become nil; every
// other cell stays text and is coerced where a stage needs numbers.
func (s *CSVSource) Fetch(_ context.Context) (*Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := s.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(s.Path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			t, _ := table.FromRecords(nil, nil)
			return &Dataset{Table: t}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records [][]any
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		row := make([]any, len(rec))
		for i, v := range rec {
			v = strings.TrimSpace(v)
			if v == "" {
				row[i] = nil
			} else {
				row[i] = v
			}
		}
		records = append(records, row)
	}

	t, collapsed := table.FromRecords(header, records)
	return &Dataset{Table: t, Collapsed: collapsed}, nil
}

// sniffDelimiter peeks at the first line to pick among comma, semicolon,
// and tab; a .tsv extension always means tab.
func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	f, err := os.Open(path)
	if err != nil {
		return ','
	}
	defer f.Close()
	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	line := string(buf[:n])
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ',', strings.Count(line, ",")
	if c := strings.Count(line, ";"); c > bestCount {
		best, bestCount = ';', c
	}
	if c := strings.Count(line, "\t"); c > bestCount {
		best = '\t'
	}
	return best
}
