// Package aggregation folds a record stream into the summary bundle in a
// single pass. The engine is a pure function of its inputs: it keeps only
// read-only configuration between calls and is safe for concurrent use as
// long as callers do not share a record slice they are mutating.
package aggregation

import (
	"sort"
	"strings"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/core/filter"
	"github.com/aevon-lab/salesboard/internal/core/record"
)

// Dimension names of the summary pass.
const (
	dimTotal          = "total"
	dimManager        = "manager"
	dimBranch         = "branch"
	dimMonth          = "month"
	dimClient         = "client"
	dimPurpose        = "purpose"
	dimDefect         = "defect"
	dimSampleType     = "sample_type"
	dimRegion         = "region"
	dimManagerRegion  = "manager_region"
	dimPurposeRegion  = "purpose_region"
	dimPurposeDomain  = "purpose_domain"
	dimSampleDomain   = "sample_type_domain"
	dimRegionDomain   = "region_domain"
	dimItem           = "item"
	dimItemDomain     = "item_domain"
	totalKey          = "total"
	subClient         = "client"
	subManager        = "manager"
	subPurpose        = "purpose"
	subMonth          = "month"
	subRegion         = "region"
	defaultPurposeTag = filter.All
)

// Engine computes summaries. Build one with NewEngine and share it.
type Engine struct {
	limits      Limits
	branches    BranchTable
	summaryDims []Dimension
	itemDims    []Dimension
}

// NewEngine creates an engine with the given caps and branch table.
func NewEngine(limits Limits, branches BranchTable) *Engine {
	e := &Engine{limits: limits, branches: branches}
	e.summaryDims = e.summaryDimensions()
	e.itemDims = itemDimensions()
	return e
}

// Aggregate runs the summary pass with only a purpose filter ("" or "ALL"
// for none).
func (e *Engine) Aggregate(records []v1.Record, purposeFilter string) *Summary {
	return e.AggregateFiltered(records, filter.Purpose(purposeFilter))
}

// AggregateFiltered runs the summary pass. Every criterion except purpose
// narrows the stream up front; the purpose criterion is applied inside the
// pass so pre-filter dimensions still observe the full purpose domain.
func (e *Engine) AggregateFiltered(records []v1.Record, criteria filter.Criteria) *Summary {
	g := NewGrouping(e.summaryDims)
	fold(g, records, criteria)
	return e.buildSummary(g, criteria)
}

func fold(g *Grouping, records []v1.Record, criteria filter.Criteria) {
	for i := range records {
		f := record.Normalize(&records[i])
		if !criteria.MatchRest(&f) {
			continue
		}
		g.Observe(&f, criteria.MatchPurpose(f.Purpose))
	}
}

func (e *Engine) summaryDimensions() []Dimension {
	month := Dimension{Name: subMonth, Key: monthOfRecord}
	manager := Dimension{Name: subManager, Key: managerOf}
	purpose := Dimension{Name: subPurpose, Key: nonEmpty(func(f *record.Fields) string { return f.Purpose })}
	region := Dimension{Name: subRegion, Key: regionOf}

	return []Dimension{
		{Name: dimTotal, Key: func(*record.Fields) (string, bool) { return totalKey, true }},
		{
			Name: dimManager,
			Key:  managerOf,
			Sub:  []Dimension{{Name: subClient, Key: clientOf}},
		},
		{
			Name: dimBranch,
			Key:  func(f *record.Fields) (string, bool) { return e.branches.Lookup(f.Manager), true },
			Sub:  []Dimension{manager},
		},
		{Name: dimMonth, Key: monthOfRecord},
		{
			Name: dimClient,
			Key:  clientOf,
			Sub:  []Dimension{purpose},
		},
		{
			Name: dimPurpose,
			Key:  nonEmpty(func(f *record.Fields) string { return f.Purpose }),
			Sub: []Dimension{
				manager,
				{Name: subMonth, Key: monthOfRecord, Sub: []Dimension{manager}},
			},
		},
		{
			Name:   dimDefect,
			Key:    nonEmpty(func(f *record.Fields) string { return f.Defect }),
			Update: UpdateCount,
			Sub: []Dimension{
				month,
				{Name: subPurpose, Key: purpose.Key, Sub: []Dimension{month}},
			},
		},
		{
			Name: dimSampleType,
			Key:  nonEmpty(func(f *record.Fields) string { return f.SampleType }),
			Sub: []Dimension{
				manager,
				purpose,
				{Name: subMonth, Key: monthOfRecord, Sub: []Dimension{manager, purpose}},
			},
		},
		{
			Name: dimRegion,
			Key:  regionOf,
			Sub:  []Dimension{manager},
		},
		{
			Name: dimManagerRegion,
			Key: func(f *record.Fields) (string, bool) {
				if !f.Region.Found() {
					return "", false
				}
				return f.Manager, true
			},
			Sub: []Dimension{region},
		},

		// Collected ahead of the purpose filter.
		{
			Name:      dimPurposeRegion,
			Key:       purpose.Key,
			PreFilter: true,
			Sub:       []Dimension{region},
		},
		{Name: dimPurposeDomain, Key: purpose.Key, PreFilter: true},
		{Name: dimSampleDomain, Key: nonEmpty(func(f *record.Fields) string { return f.SampleType }), PreFilter: true},
		{Name: dimRegionDomain, Key: regionOf, PreFilter: true},
	}
}

func (e *Engine) buildSummary(g *Grouping, criteria filter.Criteria) *Summary {
	lim := e.limits
	total := g.Level(dimTotal).Lookup(totalKey)

	s := &Summary{
		PurposeFilter: purposeTag(criteria),
		Purposes:      sortedKeys(g.Level(dimPurposeDomain)),
		Regions:       sortedKeys(g.Level(dimRegionDomain)),
		SampleTypes:   sortedKeys(g.Level(dimSampleDomain)),
	}
	if total != nil {
		s.TotalSales = total.Sales
		s.TotalCount = total.Count
		s.AvgPrice = total.AvgPrice()
	}

	managers := g.Level(dimManager).Ranked(BySales, 0)
	s.ByManager = make([]ManagerSummary, len(managers))
	for i, n := range managers {
		s.ByManager[i] = ManagerSummary{
			Manager:    n.Key,
			Branch:     e.branches.Lookup(n.Key),
			Stat:       statOf(n.Bucket),
			TopClients: entries(n.Sub(subClient), BySales, lim.ClientsPerManager),
		}
	}

	branches := g.Level(dimBranch).Ranked(BySales, 0)
	s.ByBranch = make([]BranchSummary, len(branches))
	for i, n := range branches {
		heads := n.Sub(subManager).Len()
		s.ByBranch[i] = BranchSummary{
			Branch:       n.Key,
			Stat:         statOf(n.Bucket),
			Headcount:    heads,
			SalesPerHead: SafeDiv(n.Sales, int64(heads)),
			Managers:     entries(n.Sub(subManager), BySales, 0),
		}
	}

	s.ByMonth = monthEntries(g.Level(dimMonth))

	clients := g.Level(dimClient)
	top := clients.Ranked(BySales, lim.Clients)
	s.ByClient = make([]ClientSummary, len(top))
	for i, n := range top {
		s.ByClient[i] = ClientSummary{
			Client:   n.Key,
			Stat:     statOf(n.Bucket),
			Purposes: entries(n.Sub(subPurpose), BySales, 0),
		}
	}
	s.HighEfficiencyClients = entries(clients, ByAvgPrice, lim.EfficiencyClients)
	s.HighVolumeClients = entries(clients, ByCount, lim.VolumeClients)

	purposes := g.Level(dimPurpose).Ranked(BySales, 0)
	s.ByPurpose = make([]PurposeSummary, len(purposes))
	for i, n := range purposes {
		months := n.Sub(subMonth).Ranked(ByKey, 0)
		pm := make([]PurposeMonth, len(months))
		for j, m := range months {
			pm[j] = PurposeMonth{
				Month:    monthOf(m.Key),
				Stat:     statOf(m.Bucket),
				Managers: entries(m.Sub(subManager), BySales, 0),
			}
		}
		s.ByPurpose[i] = PurposeSummary{
			Purpose:  n.Key,
			Stat:     statOf(n.Bucket),
			Managers: entries(n.Sub(subManager), BySales, lim.ManagersPerPurpose),
			Months:   pm,
		}
	}

	defects := g.Level(dimDefect).Ranked(ByCount, lim.Defects)
	s.ByDefect = make([]DefectSummary, len(defects))
	for i, n := range defects {
		dp := n.Sub(subPurpose).Ranked(ByCount, 0)
		purposesOut := make([]DefectPurpose, len(dp))
		for j, p := range dp {
			purposesOut[j] = DefectPurpose{
				Purpose: p.Key,
				Count:   p.Count,
				Months:  monthCounts(p.Sub(subMonth)),
			}
		}
		s.ByDefect[i] = DefectSummary{
			Defect:   n.Key,
			Count:    n.Count,
			Months:   monthCounts(n.Sub(subMonth)),
			Purposes: purposesOut,
		}
	}

	sampleTypes := g.Level(dimSampleType).Ranked(BySales, 0)
	s.BySampleType = make([]SampleTypeSummary, len(sampleTypes))
	for i, n := range sampleTypes {
		months := n.Sub(subMonth).Ranked(ByKey, 0)
		sm := make([]SampleTypeMonth, len(months))
		for j, m := range months {
			sm[j] = SampleTypeMonth{
				Month:    monthOf(m.Key),
				Stat:     statOf(m.Bucket),
				Managers: entries(m.Sub(subManager), BySales, 0),
				Purposes: entries(m.Sub(subPurpose), BySales, 0),
			}
		}
		s.BySampleType[i] = SampleTypeSummary{
			SampleType: n.Key,
			Stat:       statOf(n.Bucket),
			Managers:   entries(n.Sub(subManager), BySales, 0),
			Purposes:   entries(n.Sub(subPurpose), BySales, 0),
			Months:     sm,
		}
	}

	regions := g.Level(dimRegion).Ranked(BySales, 0)
	s.ByRegion = make([]RegionSummary, len(regions))
	for i, n := range regions {
		s.ByRegion[i] = RegionSummary{
			Region:   n.Key,
			Stat:     statOf(n.Bucket),
			Managers: entries(n.Sub(subManager), BySales, lim.ManagersPerRegion),
		}
	}

	managerRegions := g.Level(dimManagerRegion).Ranked(BySales, 0)
	s.ManagerRegions = make([]ManagerRegionSummary, len(managerRegions))
	for i, n := range managerRegions {
		s.ManagerRegions[i] = ManagerRegionSummary{
			Manager: n.Key,
			Stat:    statOf(n.Bucket),
			Regions: entries(n.Sub(subRegion), BySales, lim.RegionsPerManager),
		}
	}

	purposeRegions := g.Level(dimPurposeRegion).Ranked(BySales, 0)
	s.PurposeRegions = make([]PurposeRegionSummary, len(purposeRegions))
	for i, n := range purposeRegions {
		s.PurposeRegions[i] = PurposeRegionSummary{
			Purpose: n.Key,
			Stat:    statOf(n.Bucket),
			Regions: entries(n.Sub(subRegion), BySales, lim.RegionsPerPurpose),
		}
	}

	return s
}

func managerOf(f *record.Fields) (string, bool) { return f.Manager, true }
func clientOf(f *record.Fields) (string, bool)  { return f.Client, true }

func regionOf(f *record.Fields) (string, bool) {
	key := f.Region.Key()
	return key, key != ""
}

func monthOfRecord(f *record.Fields) (string, bool) {
	m := f.Month()
	if m == 0 {
		return "", false
	}
	return monthKey(m), true
}

// nonEmpty keeps blank values out of a dimension.
func nonEmpty(get func(f *record.Fields) string) func(f *record.Fields) (string, bool) {
	return func(f *record.Fields) (string, bool) {
		v := get(f)
		return v, v != ""
	}
}

func purposeTag(c filter.Criteria) string {
	if !c.PurposeActive() {
		return defaultPurposeTag
	}
	return strings.TrimSpace(c.Purpose)
}

func sortedKeys(l *Level) []string {
	keys := l.Keys()
	if keys == nil {
		keys = []string{}
	}
	sort.Strings(keys)
	return keys
}
