package source

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readWorkbook reads the first sheet that has a header row. Cell values are
// read raw so dates arrive as serial numbers regardless of cell formatting.
func readWorkbook(f File) ([]v1.Record, error) {
	wb, err := excelize.OpenFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", f.Path, err)
	}
	defer wb.Close()

	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, f.Path, err)
		}
		if records, ok := tabulate(f, rows); ok {
			return records, nil
		}
	}
	return []v1.Record{}, nil
}

// readCSV reads a CSV file written either as UTF-8 (with or without BOM) or
// as EUC-KR, which is what older Korean spreadsheet exports produce.
func readCSV(f File) ([]v1.Record, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s as EUC-KR: %w", f.Path, err)
		}
		raw = decoded
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.Path, err)
		}
		// The reader skips blank lines; pad so row numbers stay line numbers.
		line, _ := r.FieldPos(0)
		for len(rows) < line-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, row)
	}

	records, _ := tabulate(f, rows)
	if records == nil {
		records = []v1.Record{}
	}
	return records, nil
}

// tabulate turns a grid into records keyed by the first non-empty row.
// Record.Row is the 1-based row number in the file. Blank cells, blank
// header columns and fully blank rows are dropped; a repeated header keeps
// its first column.
func tabulate(f File, rows [][]string) ([]v1.Record, bool) {
	header := -1
	for i, row := range rows {
		if !blankRow(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, false
	}

	columns := make([]string, len(rows[header]))
	seen := make(map[string]bool, len(columns))
	for i, name := range rows[header] {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		columns[i] = name
	}

	records := make([]v1.Record, 0, len(rows)-header-1)
	for i := header + 1; i < len(rows); i++ {
		data := make(map[string]interface{})
		for j, cell := range rows[i] {
			if j >= len(columns) || columns[j] == "" {
				continue
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				data[columns[j]] = cell
			}
		}
		if len(data) == 0 {
			continue
		}
		records = append(records, v1.Record{
			Dataset:    f.Dataset,
			SourceFile: f.Path,
			Row:        i + 1,
			Data:       data,
		})
	}
	return records, true
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
