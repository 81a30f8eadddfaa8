package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/cache"
	"github.com/aevon-lab/salesboard/internal/core/aggregation"
	"github.com/aevon-lab/salesboard/internal/core/filter"
	reportmocks "github.com/aevon-lab/salesboard/internal/mocks/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRecords() []v1.Record {
	return []v1.Record{
		{Dataset: "2024", Row: 1, Data: map[string]interface{}{
			"manager": "A", "sales_amount": "1,000", "purpose": "X", "received_date": "2024-01-10", "client": "c1",
		}},
		{Dataset: "2024", Row: 2, Data: map[string]interface{}{
			"manager": "B", "sales_amount": "2000", "purpose": "Y", "received_date": "2024-02-10", "client": "c2",
		}},
		{Dataset: "2024", Row: 3, Data: map[string]interface{}{
			"manager": "A", "sales_amount": "500", "purpose": "X", "received_date": "2024-03-10", "client": "c1",
		}},
	}
}

func newTestService(provider RecordProvider, summaries *cache.SummaryCache) *Service {
	engine := aggregation.NewEngine(aggregation.DefaultLimits(), aggregation.NewBranchTable())
	return NewService(provider, engine, summaries)
}

func TestService_Summary(t *testing.T) {
	provider := reportmocks.NewRecordProvider(t)
	provider.EXPECT().
		GetRecords(mock.Anything, "2024", true).
		Return(testRecords(), nil).
		Once()

	svc := newTestService(provider, nil)
	s, err := svc.Summary(context.Background(), "2024", filter.Purpose("X"), true)
	require.NoError(t, err)
	require.Equal(t, "X", s.PurposeFilter)
	require.Equal(t, int64(2), s.TotalCount)
	require.True(t, decimal.NewFromInt(1500).Equal(s.TotalSales))
}

func TestService_SummaryCached(t *testing.T) {
	version := cache.SourceVersion{Newest: time.Now().Add(-time.Hour), Fingerprint: "a@1"}

	provider := reportmocks.NewRecordProvider(t)
	provider.EXPECT().
		SourceVersion(mock.Anything, "2024").
		Return(version, nil).
		Times(2)
	provider.EXPECT().
		GetRecords(mock.Anything, "2024", true).
		Return(testRecords(), nil).
		Once()

	svc := newTestService(provider, cache.NewSummaryCache(4, time.Hour))

	first, err := svc.Summary(context.Background(), "2024", filter.Criteria{}, true)
	require.NoError(t, err)
	second, err := svc.Summary(context.Background(), "2024", filter.Criteria{}, true)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestService_SummaryRebuiltAfterSourceChange(t *testing.T) {
	now := time.Now()
	built := cache.SourceVersion{Newest: now.Add(-time.Hour), Fingerprint: "a@1,b@2"}

	tests := []struct {
		name  string
		after cache.SourceVersion
	}{
		{
			name:  "file written after the bundle",
			after: cache.SourceVersion{Newest: now.Add(time.Hour), Fingerprint: "a@1,b@3"},
		},
		{
			name:  "file replaced with an older mtime",
			after: cache.SourceVersion{Newest: now.Add(-2 * time.Hour), Fingerprint: "a@1,b@0"},
		},
		{
			name:  "file deleted",
			after: cache.SourceVersion{Newest: now.Add(-3 * time.Hour), Fingerprint: "a@1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			changed := testRecords()[:2]

			provider := reportmocks.NewRecordProvider(t)
			provider.EXPECT().
				SourceVersion(mock.Anything, "2024").
				Return(built, nil).
				Once()
			provider.EXPECT().
				SourceVersion(mock.Anything, "2024").
				Return(tc.after, nil).
				Once()
			provider.EXPECT().
				GetRecords(mock.Anything, "2024", true).
				Return(testRecords(), nil).
				Once()
			provider.EXPECT().
				GetRecords(mock.Anything, "2024", true).
				Return(changed, nil).
				Once()

			svc := newTestService(provider, cache.NewSummaryCache(4, time.Hour))

			first, err := svc.Summary(context.Background(), "2024", filter.Criteria{}, true)
			require.NoError(t, err)
			require.Equal(t, int64(3), first.TotalCount)

			second, err := svc.Summary(context.Background(), "2024", filter.Criteria{}, true)
			require.NoError(t, err)
			require.Equal(t, int64(2), second.TotalCount)
		})
	}
}

func TestService_SummaryBypassCache(t *testing.T) {
	version := cache.SourceVersion{Newest: time.Now().Add(-time.Hour), Fingerprint: "a@1"}

	provider := reportmocks.NewRecordProvider(t)
	provider.EXPECT().
		SourceVersion(mock.Anything, "2024").
		Return(version, nil).
		Times(2)
	provider.EXPECT().
		GetRecords(mock.Anything, "2024", false).
		Return(testRecords(), nil).
		Times(2)

	svc := newTestService(provider, cache.NewSummaryCache(4, time.Hour))

	for i := 0; i < 2; i++ {
		_, err := svc.Summary(context.Background(), "2024", filter.Criteria{}, false)
		require.NoError(t, err)
	}
}

func TestService_SummaryFreshnessUnknown(t *testing.T) {
	summaries := cache.NewSummaryCache(4, time.Hour)

	provider := reportmocks.NewRecordProvider(t)
	provider.EXPECT().
		SourceVersion(mock.Anything, "2024").
		Return(cache.SourceVersion{}, fmt.Errorf("stat failed")).
		Once()
	provider.EXPECT().
		GetRecords(mock.Anything, "2024", true).
		Return(testRecords(), nil).
		Once()

	svc := newTestService(provider, summaries)
	_, err := svc.Summary(context.Background(), "2024", filter.Criteria{}, true)
	require.NoError(t, err)
	require.Equal(t, 0, summaries.Len())
}

func TestService_Items(t *testing.T) {
	provider := reportmocks.NewRecordProvider(t)
	provider.EXPECT().
		GetRecords(mock.Anything, "2024", true).
		Return(testRecords(), nil).
		Once()

	svc := newTestService(provider, nil)
	items, err := svc.Items(context.Background(), "2024", filter.Criteria{}, true)
	require.NoError(t, err)
	require.Equal(t, "ALL", items.PurposeFilter)
	require.Equal(t, int64(3), items.TotalCount)
}

func TestService_InvalidDatasetKey(t *testing.T) {
	svc := newTestService(reportmocks.NewRecordProvider(t), nil)

	for _, key := range []string{"", "..", ".hidden", "a/b", `a\b`} {
		t.Run(key, func(t *testing.T) {
			_, err := svc.Summary(context.Background(), key, filter.Criteria{}, true)
			require.ErrorIs(t, err, ErrUnknownDataset)

			_, _, err = svc.Records(context.Background(), key, filter.Criteria{}, 10)
			require.ErrorIs(t, err, ErrUnknownDataset)
		})
	}
}

func TestService_LoadError(t *testing.T) {
	provider := reportmocks.NewRecordProvider(t)
	provider.EXPECT().
		GetRecords(mock.Anything, "2024", true).
		Return(nil, fmt.Errorf("disk failure")).
		Once()

	svc := newTestService(provider, nil)
	_, err := svc.Summary(context.Background(), "2024", filter.Criteria{}, true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk failure")
}

func TestService_Records(t *testing.T) {
	tests := []struct {
		name          string
		criteria      filter.Criteria
		limit         int
		expectedTotal int
		expectedRows  []int
	}{
		{
			name:          "no filter",
			expectedTotal: 3,
			expectedRows:  []int{1, 2, 3},
		},
		{
			name:          "purpose filter",
			criteria:      filter.Purpose("X"),
			expectedTotal: 2,
			expectedRows:  []int{1, 3},
		},
		{
			name:          "limit truncates but total counts all",
			limit:         1,
			expectedTotal: 3,
			expectedRows:  []int{1},
		},
		{
			name:          "manager filter",
			criteria:      filter.Criteria{Manager: "B"},
			expectedTotal: 1,
			expectedRows:  []int{2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := reportmocks.NewRecordProvider(t)
			provider.EXPECT().
				GetRecords(mock.Anything, "2024", true).
				Return(testRecords(), nil).
				Once()

			svc := newTestService(provider, nil)
			records, total, err := svc.Records(context.Background(), "2024", tc.criteria, tc.limit)
			require.NoError(t, err)
			require.Equal(t, tc.expectedTotal, total)

			rows := make([]int, len(records))
			for i, r := range records {
				rows[i] = r.Row
			}
			require.Equal(t, tc.expectedRows, rows)
		})
	}
}

func TestService_Datasets(t *testing.T) {
	provider := reportmocks.NewRecordProvider(t)
	provider.EXPECT().Datasets(mock.Anything).Return([]string{"2023", "2024"}, nil).Once()
	provider.EXPECT().State(mock.Anything, "2023").Return(cache.StateUnloaded, nil).Once()
	provider.EXPECT().State(mock.Anything, "2024").Return(cache.StateFresh, nil).Once()

	svc := newTestService(provider, nil)
	infos, err := svc.Datasets(context.Background())
	require.NoError(t, err)
	require.Equal(t, []DatasetInfo{
		{Key: "2023", State: cache.StateUnloaded},
		{Key: "2024", State: cache.StateFresh},
	}, infos)
}

func TestService_Refresh(t *testing.T) {
	provider := reportmocks.NewRecordProvider(t)
	provider.EXPECT().RefreshAll(mock.Anything).Return(nil).Once()

	svc := newTestService(provider, nil)
	require.NoError(t, svc.Refresh(context.Background()))
}
