// Package cache keeps parsed datasets in memory in front of two slower
// tiers: an on-disk snapshot of the whole in-memory cache and the durable
// record store. Source files stay the single source of truth; every tier is
// validated against their modification times.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/core/storage"
	"github.com/aevon-lab/salesboard/internal/metrics"
	"github.com/aevon-lab/salesboard/internal/source"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL bounds how long an entry is served without a reload.
const DefaultTTL = time.Hour

// Source lists and parses the files behind a dataset key.
type Source interface {
	Datasets(ctx context.Context) ([]string, error)
	Files(ctx context.Context, dataset string) ([]source.File, error)
	Read(ctx context.Context, f source.File) ([]v1.Record, error)
}

// State is the lifecycle of one dataset key.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateFresh    State = "fresh"
	StateStale    State = "stale"
)

// Options configures a Manager. Zero values fall back to defaults.
type Options struct {
	TTL time.Duration

	// Workers bounds concurrent file parses per reload and concurrent
	// reloads per RefreshAll.
	Workers int

	// SnapshotPath enables the on-disk snapshot when non-empty.
	SnapshotPath string
}

func (o Options) normalized() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	return o
}

type entry struct {
	records   []v1.Record
	createdAt time.Time
	files     map[string]time.Time
}

// fresh reports whether e may still be served for the current file listing.
func (e *entry) fresh(files []source.File, now time.Time, ttl time.Duration) bool {
	if now.Sub(e.createdAt) >= ttl {
		return false
	}
	if len(files) != len(e.files) {
		return false
	}
	for _, f := range files {
		seen, ok := e.files[f.Path]
		if !ok || !seen.Equal(f.ModTime) || f.ModTime.After(e.createdAt) {
			return false
		}
	}
	return true
}

// Manager owns the in-memory cache and the durable store. It is safe for
// concurrent use; reloads of one key are collapsed into a single load.
type Manager struct {
	src   Source
	store storage.RecordStore
	opts  Options
	nowFn func() time.Time

	mu      sync.RWMutex
	entries map[string]*entry
	loading map[string]int

	reloads singleflight.Group

	hooksMu   sync.Mutex
	onRefresh []func()

	snapshotMu sync.Mutex
}

// NewManager creates a manager over src. store may be nil, in which case
// every reload parses the source files.
func NewManager(src Source, store storage.RecordStore, opts Options) *Manager {
	return &Manager{
		src:     src,
		store:   store,
		opts:    opts.normalized(),
		nowFn:   time.Now,
		entries: make(map[string]*entry),
		loading: make(map[string]int),
	}
}

// OnRefresh registers fn to run whenever RefreshAll clears the cache.
// Derived caches use it to drop their own entries.
func (m *Manager) OnRefresh(fn func()) {
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.onRefresh = append(m.onRefresh, fn)
}

// GetRecords returns the records of key. With useCache the in-memory entry
// is served while fresh; without it the reload path always runs. A missing
// dataset yields an empty list, not an error. The returned slice is shared
// and must not be modified.
func (m *Manager) GetRecords(ctx context.Context, key string, useCache bool) ([]v1.Record, error) {
	if useCache {
		if records, ok := m.lookup(ctx, key); ok {
			return records, nil
		}
	}

	result, err, shared := m.reloads.Do(key, func() (interface{}, error) {
		if useCache {
			// Another caller may have finished a reload while we waited.
			if records, ok := m.lookup(ctx, key); ok {
				return records, nil
			}
		}
		// A started reload runs to completion even if the caller gives up.
		return m.reload(context.WithoutCancel(ctx), key)
	})
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", key, err)
	}
	if shared {
		slog.Debug("[CacheManager] Joined in-flight reload", "dataset", key)
	}
	return result.([]v1.Record), nil
}

// lookup serves the in-memory entry if it is still fresh. When the source
// cannot be listed the entry is served until its TTL runs out.
func (m *Manager) lookup(ctx context.Context, key string) ([]v1.Record, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		metrics.RecordLookup(metrics.LayerMemory, metrics.ResultMiss)
		return nil, false
	}

	now := m.nowFn()
	files, err := m.listFiles(ctx, key)
	if err != nil {
		if now.Sub(e.createdAt) < m.opts.TTL {
			slog.Warn("[CacheManager] Source unavailable, serving cached entry", "dataset", key, "error", err)
			metrics.RecordLookup(metrics.LayerMemory, metrics.ResultHit)
			return e.records, true
		}
		metrics.RecordLookup(metrics.LayerMemory, metrics.ResultStale)
		return nil, false
	}
	if !e.fresh(files, now, m.opts.TTL) {
		metrics.RecordLookup(metrics.LayerMemory, metrics.ResultStale)
		return nil, false
	}

	metrics.RecordLookup(metrics.LayerMemory, metrics.ResultHit)
	return e.records, true
}

func (m *Manager) reload(ctx context.Context, key string) ([]v1.Record, error) {
	m.setLoading(key, true)
	defer m.setLoading(key, false)

	started := m.nowFn()
	loaded, err := m.load(ctx, key)
	if err != nil {
		return nil, err
	}

	if loaded.degraded {
		// Not installed: the listing failed, so the result cannot be
		// validated later and must not replace a good entry.
		m.mu.RLock()
		e, ok := m.entries[key]
		m.mu.RUnlock()
		if ok {
			slog.Warn("[CacheManager] Source unavailable, keeping previous entry", "dataset", key)
			return e.records, nil
		}
		return loaded.records, nil
	}

	m.mu.Lock()
	m.entries[key] = &entry{records: loaded.records, createdAt: m.nowFn(), files: loaded.files}
	m.mu.Unlock()

	elapsed := m.nowFn().Sub(started)
	metrics.RecordReload(key, loaded.layer, len(loaded.records), elapsed)
	slog.Info("[CacheManager] Dataset loaded",
		"dataset", key,
		"layer", loaded.layer,
		"files", len(loaded.files),
		"records", len(loaded.records),
		"duration", elapsed)

	if err := m.saveSnapshot(); err != nil {
		slog.Warn("[CacheManager] Failed to persist snapshot", "error", err)
	}

	return loaded.records, nil
}

// State reports the lifecycle state of key without loading it.
func (m *Manager) State(ctx context.Context, key string) (State, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	loading := m.loading[key] > 0
	m.mu.RUnlock()

	switch {
	case loading:
		return StateLoading, nil
	case !ok:
		return StateUnloaded, nil
	}

	files, err := m.listFiles(ctx, key)
	if err != nil {
		return "", err
	}
	if e.fresh(files, m.nowFn(), m.opts.TTL) {
		return StateFresh, nil
	}
	return StateStale, nil
}

// RefreshAll drops every in-memory entry and derived cache, then reloads
// every known key: the source datasets plus any key loaded before.
func (m *Manager) RefreshAll(ctx context.Context) error {
	m.mu.Lock()
	previous := make([]string, 0, len(m.entries))
	for key := range m.entries {
		previous = append(previous, key)
	}
	m.entries = make(map[string]*entry)
	m.mu.Unlock()

	m.hooksMu.Lock()
	hooks := append([]func(){}, m.onRefresh...)
	m.hooksMu.Unlock()
	for _, fn := range hooks {
		fn()
	}

	keys, err := m.src.Datasets(ctx)
	if err != nil {
		return fmt.Errorf("refresh all: list datasets: %w", err)
	}
	keys = union(keys, previous)

	slog.Info("[CacheManager] Refreshing all datasets", "datasets", len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)
	for _, key := range keys {
		g.Go(func() error {
			_, err := m.GetRecords(gctx, key, false)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh all: %w", err)
	}
	return nil
}

// Datasets lists every dataset key known from the source or the cache.
func (m *Manager) Datasets(ctx context.Context) ([]string, error) {
	keys, err := m.src.Datasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	m.mu.RLock()
	loaded := make([]string, 0, len(m.entries))
	for key := range m.entries {
		loaded = append(loaded, key)
	}
	m.mu.RUnlock()

	return union(keys, loaded), nil
}

// SourceVersion identifies the current source files of a dataset. Two
// listings with the same Fingerprint have the same paths and mtimes.
type SourceVersion struct {
	Newest      time.Time
	Fingerprint string
}

// SourceVersion describes the source files of key as they are now. Derived
// caches compare it with the version their values were built from.
func (m *Manager) SourceVersion(ctx context.Context, key string) (SourceVersion, error) {
	files, err := m.listFiles(ctx, key)
	if err != nil {
		return SourceVersion{}, err
	}
	return versionOf(files), nil
}

// Invalidate drops the in-memory entry of key.
func (m *Manager) Invalidate(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// listFiles treats a missing dataset as one without files.
func (m *Manager) listFiles(ctx context.Context, key string) ([]source.File, error) {
	files, err := m.src.Files(ctx, key)
	if errors.Is(err, source.ErrDatasetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list files of %s: %w", key, err)
	}
	return files, nil
}

func (m *Manager) setLoading(key string, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if on {
		m.loading[key]++
		return
	}
	if m.loading[key]--; m.loading[key] <= 0 {
		delete(m.loading, key)
	}
}

func newest(files []source.File) time.Time {
	var t time.Time
	for _, f := range files {
		if f.ModTime.After(t) {
			t = f.ModTime
		}
	}
	return t
}

func versionOf(files []source.File) SourceVersion {
	sorted := make([]source.File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	h := sha256.New()
	for _, f := range sorted {
		h.Write([]byte(f.Path))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatInt(f.ModTime.UnixNano(), 10)))
		h.Write([]byte{'\n'})
	}
	return SourceVersion{Newest: newest(files), Fingerprint: hex.EncodeToString(h.Sum(nil))}
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, k := range list {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}
