package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
)

// ErrNotTracked is returned when a source file has never been ingested.
var ErrNotTracked = errors.New("source file not tracked")

// SourceFile is the durable tracking row for one ingested source file.
type SourceFile struct {
	Path       string
	Dataset    string
	MTime      time.Time
	RowCount   int
	IngestID   string
	IngestedAt time.Time
}

// RecordStore is the durable mirror of raw records, keyed by source file.
// Rows of a file are only ever replaced wholesale.
type RecordStore interface {
	// UpsertSource replaces every row of file.Path with rows and records
	// file.MTime. It reports false without writing when the stored mtime is
	// already at or past file.MTime.
	UpsertSource(ctx context.Context, file SourceFile, rows []v1.Record) (bool, error)

	// ReadRecords returns every stored row of a dataset ordered by source
	// file and row index.
	ReadRecords(ctx context.Context, dataset string) ([]v1.Record, error)

	// TrackedMTime returns the recorded mtime, or ErrNotTracked.
	TrackedMTime(ctx context.Context, path string) (time.Time, error)

	// TrackedSources lists the tracking rows of a dataset.
	TrackedSources(ctx context.Context, dataset string) ([]SourceFile, error)

	// DeleteSource forgets a file and all of its rows.
	DeleteSource(ctx context.Context, path string) error

	Ping(ctx context.Context) error
}
