package v1

import (
	"fmt"
	"strings"
)

// Record is one row of business activity read from a source file.
// It separates the provenance (where the row came from) from the row itself.
type Record struct {
	// --- Provenance ---

	// Dataset is the partition the row belongs to, usually a year ("2024").
	Dataset string `json:"dataset"`

	// SourceFile is the path of the spreadsheet or CSV the row was read from.
	SourceFile string `json:"source_file"`

	// Row is the 1-based data row index inside SourceFile (header excluded).
	Row int `json:"row"`

	// --- Row payload ---

	// Data maps column headers to cell values. Values are strings when read
	// from a file and may be float64 after a round trip through JSON.
	// Records are immutable once loaded; nothing downstream mutates Data.
	Data map[string]interface{} `json:"data"`
}

// Validate ensures the record carries its provenance and a payload.
func (r *Record) Validate() error {
	if r.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}

	if r.Data == nil {
		return fmt.Errorf("data is required")
	}

	return nil
}

// Value returns the first non-empty value among the given field names.
// A string made only of whitespace counts as empty.
func (r *Record) Value(fields ...string) (interface{}, bool) {
	for _, field := range fields {
		v, ok := r.Data[field]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// Text is Value rendered as a trimmed string ("" when absent).
func (r *Record) Text(fields ...string) string {
	v, ok := r.Value(fields...)
	if !ok {
		return ""
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
