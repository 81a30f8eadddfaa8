package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/metrics"
	"github.com/aevon-lab/salesboard/internal/source"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const snapshotVersion = 1

// saveSnapshot writes every in-memory entry to the snapshot file. The file
// is replaced atomically so a crash never leaves a torn snapshot.
func (m *Manager) saveSnapshot() error {
	if m.opts.SnapshotPath == "" {
		return nil
	}

	m.snapshotMu.Lock()
	defer m.snapshotMu.Unlock()

	m.mu.RLock()
	entries := make(map[string]*entry, len(m.entries))
	for k, e := range m.entries {
		entries[k] = e
	}
	m.mu.RUnlock()

	data, err := encodeSnapshot(entries)
	if err != nil {
		return err
	}
	return writeAtomic(m.opts.SnapshotPath, data)
}

// RestoreSnapshot loads the snapshot written by a previous process. An entry
// is kept only if its dataset still has exactly the files it was built from
// and none of them is newer than the entry. It returns the number of
// entries restored.
func (m *Manager) RestoreSnapshot(ctx context.Context) (int, error) {
	if m.opts.SnapshotPath == "" {
		return 0, nil
	}

	data, err := os.ReadFile(m.opts.SnapshotPath)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read snapshot: %w", err)
	}

	entries, err := decodeSnapshot(data)
	if err != nil {
		return 0, fmt.Errorf("decode snapshot %s: %w", m.opts.SnapshotPath, err)
	}

	restored := 0
	for key, e := range entries {
		files, err := m.listFiles(ctx, key)
		if err != nil {
			return restored, err
		}
		if !sameFiles(e.files, files) || newest(files).After(e.createdAt) {
			metrics.RecordLookup(metrics.LayerSnapshot, metrics.ResultStale)
			slog.Info("[CacheManager] Discarding stale snapshot entry",
				"dataset", key,
				"snapshot_at", e.createdAt,
				"newest_source", newest(files))
			continue
		}

		m.mu.Lock()
		if _, exists := m.entries[key]; !exists {
			m.entries[key] = e
			restored++
		}
		m.mu.Unlock()
		metrics.RecordLookup(metrics.LayerSnapshot, metrics.ResultHit)
	}

	slog.Info("[CacheManager] Snapshot restored", "path", m.opts.SnapshotPath, "datasets", restored)
	return restored, nil
}

func sameFiles(seen map[string]time.Time, files []source.File) bool {
	if len(seen) != len(files) {
		return false
	}
	for _, f := range files {
		if _, ok := seen[f.Path]; !ok {
			return false
		}
	}
	return true
}

func encodeSnapshot(entries map[string]*entry) ([]byte, error) {
	datasets := make(map[string]*structpb.Value, len(entries))
	for key, e := range entries {
		files := make(map[string]*structpb.Value, len(e.files))
		for path, mtime := range e.files {
			files[path] = structpb.NewStringValue(mtime.UTC().Format(time.RFC3339Nano))
		}

		records := make([]*structpb.Value, len(e.records))
		for i := range e.records {
			rec := &e.records[i]
			records[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
				"source_file": structpb.NewStringValue(rec.SourceFile),
				"row":         structpb.NewNumberValue(float64(rec.Row)),
				"data":        structpb.NewStructValue(toStruct(rec.Data)),
			}})
		}

		datasets[key] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"created_at": structpb.NewStringValue(e.createdAt.UTC().Format(time.RFC3339Nano)),
			"files":      structpb.NewStructValue(&structpb.Struct{Fields: files}),
			"records":    structpb.NewListValue(&structpb.ListValue{Values: records}),
		}})
	}

	root := &structpb.Struct{Fields: map[string]*structpb.Value{
		"version":  structpb.NewNumberValue(snapshotVersion),
		"datasets": structpb.NewStructValue(&structpb.Struct{Fields: datasets}),
	}}

	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (map[string]*entry, error) {
	var root structpb.Struct
	if err := proto.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if v := root.Fields["version"].GetNumberValue(); v != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %v", v)
	}

	entries := make(map[string]*entry)
	for key, dv := range root.Fields["datasets"].GetStructValue().GetFields() {
		ds := dv.GetStructValue().GetFields()

		createdAt, err := time.Parse(time.RFC3339Nano, ds["created_at"].GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("dataset %s: created_at: %w", key, err)
		}

		files := make(map[string]time.Time)
		for path, fv := range ds["files"].GetStructValue().GetFields() {
			mtime, err := time.Parse(time.RFC3339Nano, fv.GetStringValue())
			if err != nil {
				return nil, fmt.Errorf("dataset %s: mtime of %s: %w", key, path, err)
			}
			files[path] = mtime
		}

		list := ds["records"].GetListValue().GetValues()
		records := make([]v1.Record, len(list))
		for i, rv := range list {
			fields := rv.GetStructValue().GetFields()
			records[i] = v1.Record{
				Dataset:    key,
				SourceFile: fields["source_file"].GetStringValue(),
				Row:        int(fields["row"].GetNumberValue()),
				Data:       fields["data"].GetStructValue().AsMap(),
			}
		}

		entries[key] = &entry{records: records, createdAt: createdAt, files: files}
	}
	return entries, nil
}

// toStruct converts a cell map, rendering values structpb cannot hold as
// strings.
func toStruct(data map[string]interface{}) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(data))
	for k, v := range data {
		pv, err := structpb.NewValue(v)
		if err != nil {
			pv = structpb.NewStringValue(fmt.Sprint(v))
		}
		fields[k] = pv
	}
	return &structpb.Struct{Fields: fields}
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
