package sqlstore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/core/storage"
)

// rebind rewrites "?" placeholders as "$1", "$2", ... for postgres.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// marshalRowData encodes a record's cell map. Empty maps are stored as "{}"
// rather than NULL.
func marshalRowData(rec *v1.Record) (string, error) {
	if rec.Data == nil {
		return "{}", nil
	}
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal row %d: %w", rec.Row, err)
	}
	return string(data), nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecordRow scans (source_path, row_index, data) into a Record.
func scanRecordRow(row scanner, dataset string) (v1.Record, error) {
	rec := v1.Record{Dataset: dataset}
	var data []byte

	if err := row.Scan(&rec.SourceFile, &rec.Row, &data); err != nil {
		return v1.Record{}, fmt.Errorf("failed to scan record row: %w", err)
	}
	if err := json.Unmarshal(data, &rec.Data); err != nil {
		return v1.Record{}, fmt.Errorf("failed to unmarshal row %s#%d: %w", rec.SourceFile, rec.Row, err)
	}
	return rec, nil
}

func scanSourceRow(row scanner) (storage.SourceFile, error) {
	var (
		src   storage.SourceFile
		mtime int64
	)
	if err := row.Scan(&src.Path, &src.Dataset, &mtime, &src.RowCount, &src.IngestID, &src.IngestedAt); err != nil {
		return storage.SourceFile{}, fmt.Errorf("failed to scan source row: %w", err)
	}
	src.MTime = fromUnixNano(mtime)
	return src, nil
}

// Mtimes are kept as integer nanoseconds so both dialects compare them
// exactly.
func toUnixNano(t time.Time) int64 { return t.UTC().UnixNano() }

func fromUnixNano(n int64) time.Time { return time.Unix(0, n).UTC() }
