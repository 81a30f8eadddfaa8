package aggregation

import (
	"github.com/aevon-lab/salesboard/internal/core/record"
)

// Supported bucket updaters.
const (
	UpdateSales = "sales"
	UpdateCount = "count"
)

// Updater defines how a record folds into a bucket.
// To add a new one: implement this interface and register it in Updaters.
type Updater interface {
	Apply(b *Bucket, f *record.Fields)
}

// Updaters is the registry of all supported bucket updaters.
var Updaters = map[string]Updater{
	UpdateSales: salesUpdater{},
	UpdateCount: countUpdater{},
}

// salesUpdater adds the record's sales amount and counts it.
type salesUpdater struct{}

func (salesUpdater) Apply(b *Bucket, f *record.Fields) {
	b.Sales = b.Sales.Add(f.Sales)
	b.Count++
}

// countUpdater counts the record and ignores its amount.
type countUpdater struct{}

func (countUpdater) Apply(b *Bucket, _ *record.Fields) { b.Count++ }
