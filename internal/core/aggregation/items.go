package aggregation

import (
	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/core/filter"
	"github.com/aevon-lab/salesboard/internal/core/record"
	"github.com/shopspring/decimal"
)

// ItemSummary is the item-level view: one row per test item instead of per
// order.
type ItemSummary struct {
	PurposeFilter string          `json:"purpose_filter"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalCount    int64           `json:"total_count"`
	AvgPrice      decimal.Decimal `json:"avg_price"`
	ByItem        []ItemRow       `json:"by_item"`
	Items         []string        `json:"items"`
}

type ItemRow struct {
	Item string `json:"item"`
	Stat
	Purposes []Entry      `json:"purposes"`
	Managers []Entry      `json:"managers"`
	Months   []MonthEntry `json:"months"`
}

func itemDimensions() []Dimension {
	item := nonEmpty(func(f *record.Fields) string { return f.Item })
	return []Dimension{
		{Name: dimTotal, Key: func(*record.Fields) (string, bool) { return totalKey, true }},
		{
			Name: dimItem,
			Key:  item,
			Sub: []Dimension{
				{Name: subPurpose, Key: nonEmpty(func(f *record.Fields) string { return f.Purpose })},
				{Name: subManager, Key: managerOf},
				{Name: subMonth, Key: monthOfRecord},
			},
		},
		{Name: dimItemDomain, Key: item, PreFilter: true},
	}
}

// AggregateItems runs the item-level pass with the same filter semantics as
// AggregateFiltered.
func (e *Engine) AggregateItems(records []v1.Record, criteria filter.Criteria) *ItemSummary {
	g := NewGrouping(e.itemDims)
	fold(g, records, criteria)

	s := &ItemSummary{
		PurposeFilter: purposeTag(criteria),
		Items:         sortedKeys(g.Level(dimItemDomain)),
	}
	if total := g.Level(dimTotal).Lookup(totalKey); total != nil {
		s.TotalSales = total.Sales
		s.TotalCount = total.Count
		s.AvgPrice = total.AvgPrice()
	}

	items := g.Level(dimItem).Ranked(BySales, e.limits.Items)
	s.ByItem = make([]ItemRow, len(items))
	for i, n := range items {
		s.ByItem[i] = ItemRow{
			Item:     n.Key,
			Stat:     statOf(n.Bucket),
			Purposes: entries(n.Sub(subPurpose), BySales, 0),
			Managers: entries(n.Sub(subManager), BySales, 0),
			Months:   monthEntries(n.Sub(subMonth)),
		}
	}
	return s
}
