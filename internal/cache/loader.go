package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/core/storage"
	"github.com/aevon-lab/salesboard/internal/metrics"
	"github.com/aevon-lab/salesboard/internal/source"
)

type loadResult struct {
	records []v1.Record
	files   map[string]time.Time
	layer   string

	// degraded is set when the source could not be listed.
	degraded bool
}

type parsedFile struct {
	file    source.File
	records []v1.Record
	err     error
}

// load reads a dataset from the durable store when the store is fresh for
// the current files, and from the files themselves otherwise. Store
// failures are never fatal: the files are re-parsed instead.
func (m *Manager) load(ctx context.Context, key string) (loadResult, error) {
	files, err := m.src.Files(ctx, key)
	switch {
	case errors.Is(err, source.ErrDatasetNotFound):
		slog.Warn("[CacheManager] Dataset folder missing, serving empty dataset", "dataset", key)
		return loadResult{records: []v1.Record{}, files: map[string]time.Time{}, layer: metrics.LayerSource}, nil
	case err != nil:
		// Leave the store alone: an unreadable share must not erase it.
		return m.loadUnlisted(ctx, key, err), nil
	}

	mtimes := make(map[string]time.Time, len(files))
	for _, f := range files {
		mtimes[f.Path] = f.ModTime
	}

	var tracked map[string]storage.SourceFile
	if m.store != nil {
		tracked = m.trackedSources(ctx, key)
		if tracked != nil && storeFresh(tracked, files) {
			records, err := m.store.ReadRecords(ctx, key)
			if err == nil {
				metrics.RecordLookup(metrics.LayerStore, metrics.ResultHit)
				if records == nil {
					records = []v1.Record{}
				}
				return loadResult{records: records, files: mtimes, layer: metrics.LayerStore}, nil
			}
			metrics.RecordLookup(metrics.LayerStore, metrics.ResultError)
			slog.Warn("[CacheManager] Store read failed, re-parsing source files", "dataset", key, "error", err)
		} else if tracked != nil {
			metrics.RecordLookup(metrics.LayerStore, metrics.ResultStale)
		}
	}

	parsed := m.parseFiles(ctx, files)

	records := make([]v1.Record, 0)
	for _, p := range parsed {
		if p.err != nil {
			// Left out until the file changes or the entry expires.
			continue
		}
		records = append(records, p.records...)
	}

	if m.store != nil {
		m.syncStore(ctx, key, parsed, tracked)
	}

	return loadResult{records: records, files: mtimes, layer: metrics.LayerSource}, nil
}

// loadUnlisted serves whatever the store holds for key when its files
// cannot be listed, and an empty dataset without a store.
func (m *Manager) loadUnlisted(ctx context.Context, key string, listErr error) loadResult {
	result := loadResult{records: []v1.Record{}, files: map[string]time.Time{}, layer: metrics.LayerSource, degraded: true}
	if m.store == nil {
		slog.Error("[CacheManager] Source unavailable, serving empty dataset", "dataset", key, "error", listErr)
		return result
	}

	records, err := m.store.ReadRecords(ctx, key)
	if err != nil {
		metrics.RecordLookup(metrics.LayerStore, metrics.ResultError)
		slog.Error("[CacheManager] Source and store unavailable, serving empty dataset",
			"dataset", key,
			"source_error", listErr,
			"store_error", err)
		return result
	}

	metrics.RecordLookup(metrics.LayerStore, metrics.ResultHit)
	slog.Warn("[CacheManager] Source unavailable, serving records from store", "dataset", key, "error", listErr)
	if records != nil {
		result.records = records
	}
	result.layer = metrics.LayerStore
	return result
}

// trackedSources returns nil when the store cannot be read.
func (m *Manager) trackedSources(ctx context.Context, key string) map[string]storage.SourceFile {
	sources, err := m.store.TrackedSources(ctx, key)
	if err != nil {
		metrics.RecordLookup(metrics.LayerStore, metrics.ResultError)
		slog.Warn("[CacheManager] Store tracking unreadable, re-parsing source files", "dataset", key, "error", err)
		return nil
	}
	tracked := make(map[string]storage.SourceFile, len(sources))
	for _, s := range sources {
		tracked[s.Path] = s
	}
	return tracked
}

// storeFresh holds when every current file is tracked at or past its mtime
// and no tracked file has disappeared.
func storeFresh(tracked map[string]storage.SourceFile, files []source.File) bool {
	if len(tracked) != len(files) {
		return false
	}
	for _, f := range files {
		t, ok := tracked[f.Path]
		if !ok || t.MTime.Before(f.ModTime) {
			return false
		}
	}
	return true
}

// parseFiles reads files on a bounded pool of workers. Results keep the
// order of files so repeated loads produce identical record lists.
func (m *Manager) parseFiles(ctx context.Context, files []source.File) []parsedFile {
	results := make([]parsedFile, len(files))
	if len(files) == 0 {
		return results
	}

	workerCount := minInt(m.opts.Workers, len(files))
	jobs := make(chan int, len(files))

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				f := files[idx]
				records, err := m.src.Read(ctx, f)
				if err != nil {
					metrics.RecordParse(string(f.Format), "error")
					slog.Warn("[CacheManager] Skipping unreadable source file",
						"dataset", f.Dataset,
						"path", f.Path,
						"error", err)
				} else {
					metrics.RecordParse(string(f.Format), "ok")
				}
				// Each worker writes only its own index.
				results[idx] = parsedFile{file: f, records: records, err: err}
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// syncStore upserts every parsed file that is new or changed and forgets
// tracked files that no longer exist. When tracking could not be read
// (tracked == nil) every file is offered to the store, which skips the
// unchanged ones, and nothing is deleted.
func (m *Manager) syncStore(ctx context.Context, key string, parsed []parsedFile, tracked map[string]storage.SourceFile) {
	present := make(map[string]bool, len(parsed))
	upserted := 0

	for _, p := range parsed {
		present[p.file.Path] = true
		if p.err != nil {
			continue
		}
		if t, ok := tracked[p.file.Path]; ok && !t.MTime.Before(p.file.ModTime) {
			continue
		}

		written, err := m.store.UpsertSource(ctx, storage.SourceFile{
			Path:    p.file.Path,
			Dataset: key,
			MTime:   p.file.ModTime,
		}, p.records)
		if err != nil {
			slog.Warn("[CacheManager] Failed to upsert source into store",
				"dataset", key,
				"path", p.file.Path,
				"error", err)
			continue
		}
		if written {
			upserted++
		}
	}

	deleted := 0
	for path := range tracked {
		if present[path] {
			continue
		}
		if err := m.store.DeleteSource(ctx, path); err != nil {
			slog.Warn("[CacheManager] Failed to forget vanished source", "dataset", key, "path", path, "error", err)
			continue
		}
		deleted++
	}

	if upserted > 0 || deleted > 0 {
		slog.Info("[CacheManager] Store synchronized",
			"dataset", key,
			"upserted", upserted,
			"deleted", deleted)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
