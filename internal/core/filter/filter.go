// Package filter decides whether a normalized record participates in an
// aggregation. Criteria are plain values: matching has no side effects and
// may be called any number of times per record.
package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aevon-lab/salesboard/internal/core/record"
	"github.com/shopspring/decimal"
)

// All disables the purpose criterion, same as an empty purpose.
const All = "ALL"

// Wildcard at the end of a sample type turns equality into a prefix match.
const Wildcard = "*"

const dateLayout = "2006-01-02"

// ErrInvalidCriteria is returned by ParseQuery for malformed parameters.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Criteria narrows the record stream. Zero values mean "no constraint".
type Criteria struct {
	Purpose    string
	SampleType string
	Manager    string

	// From and To bound the received date, inclusive, by calendar day.
	From time.Time
	To   time.Time

	// MinSales and MaxSales bound the sales amount, inclusive.
	MinSales *decimal.Decimal
	MaxSales *decimal.Decimal
}

// Purpose builds criteria holding only a purpose filter.
func Purpose(purpose string) Criteria {
	return Criteria{Purpose: purpose}
}

// Match reports whether f passes every criterion.
func (c Criteria) Match(f *record.Fields) bool {
	return c.MatchPurpose(f.Purpose) && c.MatchRest(f)
}

// MatchRest applies every criterion except purpose.
func (c Criteria) MatchRest(f *record.Fields) bool {
	return c.MatchSampleType(f.SampleType) &&
		c.MatchManager(f.Manager) &&
		c.MatchDate(f) &&
		c.MatchSales(f.Sales)
}

// PurposeActive reports whether the purpose criterion constrains anything.
func (c Criteria) PurposeActive() bool {
	p := strings.TrimSpace(c.Purpose)
	return p != "" && p != All
}

func (c Criteria) MatchPurpose(purpose string) bool {
	if !c.PurposeActive() {
		return true
	}
	return strings.TrimSpace(c.Purpose) == purpose
}

func (c Criteria) MatchSampleType(sampleType string) bool {
	want := strings.TrimSpace(c.SampleType)
	if want == "" {
		return true
	}
	if prefix, ok := strings.CutSuffix(want, Wildcard); ok {
		return strings.HasPrefix(sampleType, prefix)
	}
	return sampleType == want
}

func (c Criteria) MatchManager(manager string) bool {
	want := strings.TrimSpace(c.Manager)
	return want == "" || manager == want
}

// MatchDate fails records without a usable date whenever a bound is set.
func (c Criteria) MatchDate(f *record.Fields) bool {
	if c.From.IsZero() && c.To.IsZero() {
		return true
	}
	if !f.HasDate {
		return false
	}
	day := truncateDay(f.Date)
	if !c.From.IsZero() && day.Before(truncateDay(c.From)) {
		return false
	}
	if !c.To.IsZero() && day.After(truncateDay(c.To)) {
		return false
	}
	return true
}

func (c Criteria) MatchSales(sales decimal.Decimal) bool {
	if c.MinSales != nil && sales.LessThan(*c.MinSales) {
		return false
	}
	if c.MaxSales != nil && sales.GreaterThan(*c.MaxSales) {
		return false
	}
	return true
}

// Key renders the criteria canonically, for use as a cache key.
func (c Criteria) Key() string {
	purpose := strings.TrimSpace(c.Purpose)
	if !c.PurposeActive() {
		purpose = All
	}
	return url.Values{
		"purpose":     {purpose},
		"sample_type": {strings.TrimSpace(c.SampleType)},
		"manager":     {strings.TrimSpace(c.Manager)},
		"from":        {formatDay(c.From)},
		"to":          {formatDay(c.To)},
		"min_sales":   {formatAmount(c.MinSales)},
		"max_sales":   {formatAmount(c.MaxSales)},
	}.Encode()
}

// ParseQuery builds criteria from HTTP query parameters: purpose,
// sample_type, manager, from, to (YYYY-MM-DD), min_sales, max_sales.
func ParseQuery(q url.Values) (Criteria, error) {
	c := Criteria{
		Purpose:    strings.TrimSpace(q.Get("purpose")),
		SampleType: strings.TrimSpace(q.Get("sample_type")),
		Manager:    strings.TrimSpace(q.Get("manager")),
	}

	var err error
	if c.From, err = parseDay(q.Get("from")); err != nil {
		return Criteria{}, fmt.Errorf("%w: from: %v", ErrInvalidCriteria, err)
	}
	if c.To, err = parseDay(q.Get("to")); err != nil {
		return Criteria{}, fmt.Errorf("%w: to: %v", ErrInvalidCriteria, err)
	}
	if !c.From.IsZero() && !c.To.IsZero() && c.To.Before(c.From) {
		return Criteria{}, fmt.Errorf("%w: to is before from", ErrInvalidCriteria)
	}
	if c.MinSales, err = parseAmount(q.Get("min_sales")); err != nil {
		return Criteria{}, fmt.Errorf("%w: min_sales: %v", ErrInvalidCriteria, err)
	}
	if c.MaxSales, err = parseAmount(q.Get("max_sales")); err != nil {
		return Criteria{}, fmt.Errorf("%w: max_sales: %v", ErrInvalidCriteria, err)
	}
	if c.MinSales != nil && c.MaxSales != nil && c.MaxSales.LessThan(*c.MinSales) {
		return Criteria{}, fmt.Errorf("%w: max_sales is below min_sales", ErrInvalidCriteria)
	}

	return c, nil
}

func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func parseAmount(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatAmount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
