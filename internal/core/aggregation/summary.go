package aggregation

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Summary is the full output of one aggregation run. Field names and nesting
// are a wire contract with the dashboard renderer.
type Summary struct {
	PurposeFilter string          `json:"purpose_filter"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalCount    int64           `json:"total_count"`
	AvgPrice      decimal.Decimal `json:"avg_price"`

	ByManager             []ManagerSummary       `json:"by_manager"`
	ByBranch              []BranchSummary        `json:"by_branch"`
	ByMonth               []MonthEntry           `json:"by_month"`
	ByClient              []ClientSummary        `json:"by_client"`
	HighEfficiencyClients []Entry                `json:"high_efficiency_clients"`
	HighVolumeClients     []Entry                `json:"high_volume_clients"`
	ByPurpose             []PurposeSummary       `json:"by_purpose"`
	ByDefect              []DefectSummary        `json:"by_defect"`
	BySampleType          []SampleTypeSummary    `json:"by_sample_type"`
	ByRegion              []RegionSummary        `json:"by_region"`
	ManagerRegions        []ManagerRegionSummary `json:"manager_regions"`
	PurposeRegions        []PurposeRegionSummary `json:"purpose_regions"`

	// Value domains observed before the purpose filter.
	Purposes    []string `json:"purposes"`
	Regions     []string `json:"regions"`
	SampleTypes []string `json:"sample_types"`
}

// Stat is the metric triple shown for every bucket.
type Stat struct {
	Sales    decimal.Decimal `json:"sales"`
	Count    int64           `json:"count"`
	AvgPrice decimal.Decimal `json:"avg_price"`
}

func statOf(b Bucket) Stat {
	return Stat{Sales: b.Sales, Count: b.Count, AvgPrice: b.AvgPrice()}
}

// Entry is a generic ranked (key, stat) pair.
type Entry struct {
	Key string `json:"key"`
	Stat
}

type MonthEntry struct {
	Month int `json:"month"`
	Stat
}

type MonthCount struct {
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

type ManagerSummary struct {
	Manager string `json:"manager"`
	Branch  string `json:"branch"`
	Stat
	TopClients []Entry `json:"top_clients"`
}

type BranchSummary struct {
	Branch string `json:"branch"`
	Stat
	Headcount    int             `json:"headcount"`
	SalesPerHead decimal.Decimal `json:"sales_per_head"`
	Managers     []Entry         `json:"managers"`
}

type ClientSummary struct {
	Client string `json:"client"`
	Stat
	Purposes []Entry `json:"purposes"`
}

type PurposeSummary struct {
	Purpose string `json:"purpose"`
	Stat
	Managers []Entry        `json:"managers"`
	Months   []PurposeMonth `json:"months"`
}

type PurposeMonth struct {
	Month int `json:"month"`
	Stat
	Managers []Entry `json:"managers"`
}

// DefectSummary is ranked by count; defects carry no sales.
type DefectSummary struct {
	Defect   string          `json:"defect"`
	Count    int64           `json:"count"`
	Months   []MonthCount    `json:"months"`
	Purposes []DefectPurpose `json:"purposes"`
}

type DefectPurpose struct {
	Purpose string       `json:"purpose"`
	Count   int64        `json:"count"`
	Months  []MonthCount `json:"months"`
}

type SampleTypeSummary struct {
	SampleType string `json:"sample_type"`
	Stat
	Managers []Entry           `json:"managers"`
	Purposes []Entry           `json:"purposes"`
	Months   []SampleTypeMonth `json:"months"`
}

type SampleTypeMonth struct {
	Month int `json:"month"`
	Stat
	Managers []Entry `json:"managers"`
	Purposes []Entry `json:"purposes"`
}

type RegionSummary struct {
	Region string `json:"region"`
	Stat
	Managers []Entry `json:"managers"`
}

type ManagerRegionSummary struct {
	Manager string `json:"manager"`
	Stat
	Regions []Entry `json:"regions"`
}

type PurposeRegionSummary struct {
	Purpose string `json:"purpose"`
	Stat
	Regions []Entry `json:"regions"`
}

// entries renders a ranked level as (key, stat) pairs.
func entries(l *Level, order Order, limit int) []Entry {
	nodes := l.Ranked(order, limit)
	out := make([]Entry, len(nodes))
	for i, n := range nodes {
		out[i] = Entry{Key: n.Key, Stat: statOf(n.Bucket)}
	}
	return out
}

func monthEntries(l *Level) []MonthEntry {
	nodes := l.Ranked(ByKey, 0)
	out := make([]MonthEntry, len(nodes))
	for i, n := range nodes {
		out[i] = MonthEntry{Month: monthOf(n.Key), Stat: statOf(n.Bucket)}
	}
	return out
}

func monthCounts(l *Level) []MonthCount {
	nodes := l.Ranked(ByKey, 0)
	out := make([]MonthCount, len(nodes))
	for i, n := range nodes {
		out[i] = MonthCount{Month: monthOf(n.Key), Count: n.Count}
	}
	return out
}

// monthKey is zero-padded so key order is chronological.
func monthKey(m int) string {
	if m < 10 {
		return "0" + strconv.Itoa(m)
	}
	return strconv.Itoa(m)
}

func monthOf(key string) int {
	m, _ := strconv.Atoi(key)
	return m
}
