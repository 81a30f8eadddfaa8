// Package report serves the dashboard API: it loads records through the
// cache manager, narrows them with a filter and runs the aggregation passes.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/cache"
	"github.com/aevon-lab/salesboard/internal/core/aggregation"
	"github.com/aevon-lab/salesboard/internal/core/filter"
	"github.com/aevon-lab/salesboard/internal/core/record"
	"github.com/aevon-lab/salesboard/internal/metrics"
)

const (
	defaultRecordLimit = 100
	maxRecordLimit     = 1000

	kindSummary = "summary"
	kindItems   = "items"
)

// ErrUnknownDataset marks dataset keys that can never name a dataset
// directory. A well-formed key without a directory is not an error; it
// yields an empty bundle.
var ErrUnknownDataset = errors.New("unknown dataset")

// RecordProvider is the cache manager as seen by the report layer.
type RecordProvider interface {
	GetRecords(ctx context.Context, key string, useCache bool) ([]v1.Record, error)
	Datasets(ctx context.Context) ([]string, error)
	State(ctx context.Context, key string) (cache.State, error)
	SourceVersion(ctx context.Context, key string) (cache.SourceVersion, error)
	RefreshAll(ctx context.Context) error
}

// Service implements the report queries.
type Service struct {
	provider  RecordProvider
	engine    *aggregation.Engine
	summaries *cache.SummaryCache
	nowFn     func() time.Time
}

// NewService creates a report service. summaries may be nil to compute
// every bundle on demand.
func NewService(provider RecordProvider, engine *aggregation.Engine, summaries *cache.SummaryCache) *Service {
	return &Service{
		provider:  provider,
		engine:    engine,
		summaries: summaries,
		nowFn:     time.Now,
	}
}

// Summary returns the summary bundle of dataset under criteria. With
// useCache false both the summary cache and the in-memory records are
// bypassed.
func (s *Service) Summary(ctx context.Context, dataset string, criteria filter.Criteria, useCache bool) (*aggregation.Summary, error) {
	v, err := s.bundle(ctx, dataset, kindSummary, criteria, useCache, func(records []v1.Record) interface{} {
		return s.engine.AggregateFiltered(records, criteria)
	})
	if err != nil {
		return nil, err
	}
	return v.(*aggregation.Summary), nil
}

// Items returns the item-level bundle of dataset under criteria.
func (s *Service) Items(ctx context.Context, dataset string, criteria filter.Criteria, useCache bool) (*aggregation.ItemSummary, error) {
	v, err := s.bundle(ctx, dataset, kindItems, criteria, useCache, func(records []v1.Record) interface{} {
		return s.engine.AggregateItems(records, criteria)
	})
	if err != nil {
		return nil, err
	}
	return v.(*aggregation.ItemSummary), nil
}

func (s *Service) bundle(
	ctx context.Context,
	dataset string,
	kind string,
	criteria filter.Criteria,
	useCache bool,
	build func(records []v1.Record) interface{},
) (interface{}, error) {
	if err := validateDataset(dataset); err != nil {
		return nil, err
	}

	key := cache.SummaryKey(dataset, kind, criteria.Key())
	cacheable := s.summaries != nil
	var version cache.SourceVersion
	if cacheable {
		var err error
		version, err = s.provider.SourceVersion(ctx, dataset)
		if err != nil {
			slog.Warn("[Report] Source freshness unknown, skipping summary cache", "dataset", dataset, "error", err)
			cacheable = false
		} else if useCache {
			if v, ok := s.summaries.Get(key, version); ok {
				return v, nil
			}
		}
	}

	builtAt := s.nowFn()
	records, err := s.provider.GetRecords(ctx, dataset, useCache)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", dataset, err)
	}

	timer := metrics.NewTimer()
	v := build(records)
	elapsed := timer.ObserveAggregation(kind)

	slog.Debug("[Report] Bundle computed",
		"dataset", dataset,
		"kind", kind,
		"filter", criteria.Key(),
		"records", len(records),
		"duration", elapsed)

	if cacheable {
		s.summaries.Put(key, v, builtAt, version)
	}
	return v, nil
}

// Records returns up to limit records of dataset matching criteria, and the
// total number of matches.
func (s *Service) Records(ctx context.Context, dataset string, criteria filter.Criteria, limit int) ([]v1.Record, int, error) {
	if err := validateDataset(dataset); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = defaultRecordLimit
	}
	if limit > maxRecordLimit {
		limit = maxRecordLimit
	}

	records, err := s.provider.GetRecords(ctx, dataset, true)
	if err != nil {
		return nil, 0, fmt.Errorf("load dataset %s: %w", dataset, err)
	}

	out := make([]v1.Record, 0, minInt(limit, len(records)))
	total := 0
	for i := range records {
		f := record.Normalize(&records[i])
		if !criteria.Match(&f) {
			continue
		}
		total++
		if len(out) < limit {
			out = append(out, records[i])
		}
	}
	return out, total, nil
}

// Datasets lists the known datasets with their cache state.
func (s *Service) Datasets(ctx context.Context) ([]DatasetInfo, error) {
	keys, err := s.provider.Datasets(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]DatasetInfo, len(keys))
	for i, key := range keys {
		state, err := s.provider.State(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("state of %s: %w", key, err)
		}
		infos[i] = DatasetInfo{Key: key, State: state}
	}
	return infos, nil
}

// Refresh reloads every dataset.
func (s *Service) Refresh(ctx context.Context) error {
	started := s.nowFn()
	if err := s.provider.RefreshAll(ctx); err != nil {
		return err
	}
	slog.Info("[Report] Refresh complete", "duration", s.nowFn().Sub(started))
	return nil
}

func validateDataset(dataset string) error {
	if dataset == "" || dataset == ".." || strings.ContainsAny(dataset, `/\`) || strings.HasPrefix(dataset, ".") {
		return fmt.Errorf("%w: %q", ErrUnknownDataset, dataset)
	}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
