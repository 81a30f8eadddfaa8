package aggregation

import (
	"encoding/json"
	"fmt"
	"testing"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/core/filter"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func rec(data map[string]interface{}) v1.Record {
	return v1.Record{Dataset: "2024", Data: data}
}

func newTestEngine() *Engine {
	return NewEngine(DefaultLimits(), NewBranchTable(
		Branch{Name: "서울지사", Managers: []string{"A", "C"}},
		Branch{Name: "부산지사", Managers: []string{"B"}},
	))
}

func sampleRecords() []v1.Record {
	return []v1.Record{
		rec(map[string]interface{}{
			"manager": "A", "sales_amount": "1,000", "purpose": "X", "received_date": "2024-01-10",
			"client": "c1", "sample_type": "과자류", "defect_item": "대장균", "address": "서울특별시 강남구 역삼동",
		}),
		rec(map[string]interface{}{
			"manager": "A", "sales_amount": 500.0, "purpose": "Y", "received_date": "2024-02-03",
			"client": "c2", "sample_type": "음료류", "address": "부산광역시 해운대구",
		}),
		rec(map[string]interface{}{
			"manager": "B", "sales_amount": 2000.0, "purpose": "X", "received_date": "2024-01-20",
			"client": "c1", "sample_type": "과자류-스낵", "defect_item": "대장균", "address": "경기도 수원시 팔달구",
		}),
		rec(map[string]interface{}{
			"manager": "C", "sales_amount": "bad-number", "purpose": "X", "received_date": "someday",
			"client": "", "defect_item": "세균수",
		}),
		rec(map[string]interface{}{
			"manager": "", "sales_amount": "300원", "purpose": "Z", "received_date": "2024-03-01",
			"client": "c3", "address": "서울시 마포구",
		}),
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func requireDecimal(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	require.True(t, want.Equal(got), "want=%s got=%s", want, got)
}

func TestEngine_EndToEndPurposeFilter(t *testing.T) {
	records := []v1.Record{
		rec(map[string]interface{}{"manager": "A", "sales_amount": "1,000", "purpose": "X", "received_date": "2024-01-05"}),
		rec(map[string]interface{}{"manager": "A", "sales_amount": 500, "purpose": "Y", "received_date": "2024-02-05"}),
		rec(map[string]interface{}{"manager": "B", "sales_amount": 2000, "purpose": "X", "received_date": "2024-01-15"}),
	}

	s := newTestEngine().Aggregate(records, "X")

	require.Equal(t, "X", s.PurposeFilter)
	requireDecimal(t, dec(3000), s.TotalSales)
	require.Equal(t, int64(2), s.TotalCount)

	byManager := map[string]ManagerSummary{}
	for _, m := range s.ByManager {
		byManager[m.Manager] = m
	}
	requireDecimal(t, dec(1000), byManager["A"].Sales)
	require.Equal(t, int64(1), byManager["A"].Count)
	requireDecimal(t, dec(2000), byManager["B"].Sales)
	require.Equal(t, int64(1), byManager["B"].Count)

	require.Len(t, s.ByMonth, 1)
	require.Equal(t, 1, s.ByMonth[0].Month)
	requireDecimal(t, dec(3000), s.ByMonth[0].Sales)
	require.Equal(t, int64(2), s.ByMonth[0].Count)

	// The purpose domain ignores the filter.
	require.Equal(t, []string{"X", "Y"}, s.Purposes)
}

func TestEngine_TotalCountMatchesFilter(t *testing.T) {
	e := newTestEngine()
	records := sampleRecords()

	tests := []struct {
		purpose   string
		wantCount int64
	}{
		{purpose: "", wantCount: 5},
		{purpose: filter.All, wantCount: 5},
		{purpose: "X", wantCount: 3},
		{purpose: "Y", wantCount: 1},
		{purpose: "none", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("purpose=%q", tt.purpose), func(t *testing.T) {
			s := e.Aggregate(records, tt.purpose)
			require.Equal(t, tt.wantCount, s.TotalCount)
		})
	}
}

func TestEngine_SalesConservation(t *testing.T) {
	e := newTestEngine()
	records := sampleRecords()

	for _, purpose := range []string{"", "X"} {
		s := e.Aggregate(records, purpose)

		managerSum := decimal.Zero
		for _, m := range s.ByManager {
			managerSum = managerSum.Add(m.Sales)
		}
		requireDecimal(t, s.TotalSales, managerSum)

		branchSum := decimal.Zero
		var branchCount int64
		for _, b := range s.ByBranch {
			branchSum = branchSum.Add(b.Sales)
			branchCount += b.Count
		}
		requireDecimal(t, s.TotalSales, branchSum)
		require.Equal(t, s.TotalCount, branchCount)

		// Every sample record carries a purpose.
		purposeSum := decimal.Zero
		for _, p := range s.ByPurpose {
			purposeSum = purposeSum.Add(p.Sales)
		}
		requireDecimal(t, s.TotalSales, purposeSum)
	}
}

func TestEngine_EmptyPurposeCountsTowardTotalsOnly(t *testing.T) {
	s := newTestEngine().Aggregate([]v1.Record{
		rec(map[string]interface{}{"manager": "A", "sales_amount": 100, "purpose": ""}),
		rec(map[string]interface{}{"manager": "A", "sales_amount": 50, "purpose": "X"}),
	}, "")

	requireDecimal(t, dec(150), s.TotalSales)
	require.Len(t, s.ByPurpose, 1)
	requireDecimal(t, dec(50), s.ByPurpose[0].Sales)
	require.Equal(t, []string{"X"}, s.Purposes)
}

func TestEngine_AveragePriceIsGuarded(t *testing.T) {
	s := newTestEngine().Aggregate(nil, "")

	require.Equal(t, int64(0), s.TotalCount)
	requireDecimal(t, decimal.Zero, s.AvgPrice)
	require.Empty(t, s.ByManager)

	s = newTestEngine().Aggregate(sampleRecords(), "")
	for _, m := range s.ByManager {
		requireDecimal(t, SafeDiv(m.Sales, m.Count), m.AvgPrice)
	}
	for _, b := range s.ByBranch {
		requireDecimal(t, SafeDiv(b.Sales, int64(b.Headcount)), b.SalesPerHead)
	}
}

func TestEngine_BadDataDegradesWithoutDroppingRecords(t *testing.T) {
	s := newTestEngine().Aggregate(sampleRecords(), "X")

	var c ManagerSummary
	for _, m := range s.ByManager {
		if m.Manager == "C" {
			c = m
		}
	}
	require.Equal(t, int64(1), c.Count)
	requireDecimal(t, decimal.Zero, c.Sales)
	require.Equal(t, "unassigned", c.TopClients[0].Key)

	// The undated record is in totals but in no month bucket.
	var monthCount int64
	for _, m := range s.ByMonth {
		monthCount += m.Count
	}
	require.Equal(t, s.TotalCount-1, monthCount)
}

func TestEngine_IdempotentOutput(t *testing.T) {
	e := newTestEngine()
	records := sampleRecords()

	first, err := json.Marshal(e.Aggregate(records, "X"))
	require.NoError(t, err)
	second, err := json.Marshal(e.Aggregate(records, "X"))
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))
}

func TestEngine_DoesNotMutateRecords(t *testing.T) {
	records := sampleRecords()
	before, err := json.Marshal(records)
	require.NoError(t, err)

	newTestEngine().Aggregate(records, "X")

	after, err := json.Marshal(records)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestEngine_BranchesAndHeadcount(t *testing.T) {
	s := newTestEngine().Aggregate(sampleRecords(), "")

	byBranch := map[string]BranchSummary{}
	for _, b := range s.ByBranch {
		byBranch[b.Branch] = b
	}

	seoul := byBranch["서울지사"]
	require.Equal(t, 2, seoul.Headcount)
	requireDecimal(t, dec(1500), seoul.Sales)
	requireDecimal(t, dec(750), seoul.SalesPerHead)

	other := byBranch[OtherBranch]
	require.Equal(t, 1, other.Headcount)
	require.Equal(t, "unassigned", other.Managers[0].Key)
}

func TestEngine_DefectsRankedByCountWithoutSales(t *testing.T) {
	s := newTestEngine().Aggregate(sampleRecords(), "")

	require.Len(t, s.ByDefect, 2)
	require.Equal(t, "대장균", s.ByDefect[0].Defect)
	require.Equal(t, int64(2), s.ByDefect[0].Count)
	require.Equal(t, []MonthCount{{Month: 1, Count: 2}}, s.ByDefect[0].Months)
	require.Equal(t, "X", s.ByDefect[0].Purposes[0].Purpose)
	require.Equal(t, []MonthCount{{Month: 1, Count: 2}}, s.ByDefect[0].Purposes[0].Months)

	// Undated defect: counted, no months.
	require.Equal(t, "세균수", s.ByDefect[1].Defect)
	require.Empty(t, s.ByDefect[1].Months)
}

func TestEngine_RegionViews(t *testing.T) {
	s := newTestEngine().Aggregate(sampleRecords(), "X")

	// Regions are keyed "province city".
	require.Equal(t, "경기 수원시", s.ByRegion[0].Region)
	require.Equal(t, "B", s.ByRegion[0].Managers[0].Key)
	require.Equal(t, "서울 강남구", s.ByRegion[1].Region)

	require.Equal(t, "B", s.ManagerRegions[0].Manager)
	require.Equal(t, "경기 수원시", s.ManagerRegions[0].Regions[0].Key)

	// Pre-filter views keep purposes the filter rejected.
	require.Equal(t, []string{"경기 수원시", "부산 해운대구", "서울 강남구", "서울 마포구"}, s.Regions)
	purposes := make([]string, len(s.PurposeRegions))
	for i, p := range s.PurposeRegions {
		purposes[i] = p.Purpose
	}
	require.ElementsMatch(t, []string{"X", "Y", "Z"}, purposes)
}

func TestEngine_SampleTypeNesting(t *testing.T) {
	s := newTestEngine().AggregateFiltered(sampleRecords(), filter.Criteria{SampleType: "과자*"})

	require.Equal(t, int64(2), s.TotalCount)
	require.Len(t, s.BySampleType, 2)
	top := s.BySampleType[0]
	require.Equal(t, "과자류-스낵", top.SampleType)
	require.Equal(t, "B", top.Managers[0].Key)
	require.Equal(t, "X", top.Purposes[0].Key)
	require.Len(t, top.Months, 1)
	require.Equal(t, 1, top.Months[0].Month)
	require.Equal(t, "B", top.Months[0].Managers[0].Key)

	// Stream narrowing applies to domains too.
	require.Equal(t, []string{"과자류", "과자류-스낵"}, s.SampleTypes)
}

func TestEngine_PurposeMonthsNestManagers(t *testing.T) {
	s := newTestEngine().Aggregate(sampleRecords(), "")

	var x PurposeSummary
	for _, p := range s.ByPurpose {
		if p.Purpose == "X" {
			x = p
		}
	}
	require.Equal(t, int64(3), x.Count)
	require.Len(t, x.Months, 1)
	require.Equal(t, 1, x.Months[0].Month)
	require.Equal(t, []string{"B", "A"}, []string{x.Months[0].Managers[0].Key, x.Months[0].Managers[1].Key})
}

func TestEngine_EfficiencyAndVolumeAreIndependentLenses(t *testing.T) {
	var records []v1.Record
	// "bulk" has many cheap orders, "premium" one expensive order.
	for i := 0; i < 5; i++ {
		records = append(records, rec(map[string]interface{}{"client": "bulk", "sales_amount": 100}))
	}
	records = append(records, rec(map[string]interface{}{"client": "premium", "sales_amount": 400}))

	s := newTestEngine().Aggregate(records, "")

	require.Equal(t, "premium", s.HighEfficiencyClients[0].Key)
	requireDecimal(t, dec(400), s.HighEfficiencyClients[0].AvgPrice)
	require.Equal(t, "bulk", s.HighVolumeClients[0].Key)
	require.Equal(t, int64(5), s.HighVolumeClients[0].Count)
	require.Equal(t, "bulk", s.ByClient[0].Client)
}

func TestEngine_TopNLimits(t *testing.T) {
	var records []v1.Record
	for i := 0; i < 60; i++ {
		records = append(records, rec(map[string]interface{}{
			"manager":      "A",
			"client":       fmt.Sprintf("client-%02d", i),
			"sales_amount": 1000 + i,
		}))
	}

	limits := DefaultLimits()
	s := NewEngine(limits, BranchTable{}).Aggregate(records, "")

	require.Len(t, s.ByClient, limits.Clients)
	require.Len(t, s.HighEfficiencyClients, limits.EfficiencyClients)
	require.Len(t, s.HighVolumeClients, limits.VolumeClients)
	require.Len(t, s.ByManager[0].TopClients, limits.ClientsPerManager)
	require.Equal(t, "client-59", s.ByClient[0].Client)

	limits.Clients = 0
	s = NewEngine(limits, BranchTable{}).Aggregate(records, "")
	require.Len(t, s.ByClient, 60)
}

func TestEngine_AggregateItems(t *testing.T) {
	records := []v1.Record{
		rec(map[string]interface{}{"manager": "A", "test_item": "세균수", "sales_amount": 100, "purpose": "X", "received_date": "2024-04-01"}),
		rec(map[string]interface{}{"manager": "B", "test_item": "세균수", "sales_amount": 200, "purpose": "Y", "received_date": "2024-04-02"}),
		rec(map[string]interface{}{"manager": "A", "test_item": "대장균", "sales_amount": 50, "purpose": "X"}),
		rec(map[string]interface{}{"manager": "A", "sales_amount": 10, "purpose": "X"}),
	}

	s := newTestEngine().AggregateItems(records, filter.Purpose("X"))

	require.Equal(t, int64(3), s.TotalCount)
	requireDecimal(t, dec(160), s.TotalSales)
	require.Equal(t, []string{"대장균", "세균수"}, s.Items)
	require.Len(t, s.ByItem, 2)
	require.Equal(t, "세균수", s.ByItem[0].Item)
	requireDecimal(t, dec(100), s.ByItem[0].Sales)
	require.Len(t, s.ByItem[0].Months, 1)
	require.Equal(t, 4, s.ByItem[0].Months[0].Month)
	requireDecimal(t, dec(100), s.ByItem[0].Months[0].AvgPrice)
	require.Empty(t, s.ByItem[1].Months)
}
