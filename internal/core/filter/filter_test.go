package filter

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/aevon-lab/salesboard/internal/core/record"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func fields(purpose, sampleType, manager string, sales int64, date string) *record.Fields {
	f := &record.Fields{
		Purpose:    purpose,
		SampleType: sampleType,
		Manager:    manager,
		Sales:      decimal.NewFromInt(sales),
	}
	if date != "" {
		f.Date, f.HasDate = record.ParseDate(date)
	}
	return f
}

func amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCriteria_Match(t *testing.T) {
	base := fields("자가품질", "과자류", "kim", 1000, "2024-03-10")

	tests := []struct {
		name     string
		criteria Criteria
		want     bool
	}{
		{name: "empty criteria", criteria: Criteria{}, want: true},
		{name: "purpose ALL", criteria: Criteria{Purpose: All}, want: true},
		{name: "purpose equal", criteria: Criteria{Purpose: "자가품질"}, want: true},
		{name: "purpose differs", criteria: Criteria{Purpose: "수출"}, want: false},
		{name: "sample type equal", criteria: Criteria{SampleType: "과자류"}, want: true},
		{name: "sample type prefix", criteria: Criteria{SampleType: "과자*"}, want: true},
		{name: "sample type prefix miss", criteria: Criteria{SampleType: "음료*"}, want: false},
		{name: "sample type without wildcard is exact", criteria: Criteria{SampleType: "과자"}, want: false},
		{name: "manager equal", criteria: Criteria{Manager: "kim"}, want: true},
		{name: "manager differs", criteria: Criteria{Manager: "lee"}, want: false},
		{
			name:     "date inside range",
			criteria: Criteria{From: day("2024-03-01"), To: day("2024-03-31")},
			want:     true,
		},
		{
			name:     "date bounds are inclusive",
			criteria: Criteria{From: day("2024-03-10"), To: day("2024-03-10")},
			want:     true,
		},
		{name: "date after range", criteria: Criteria{To: day("2024-03-09")}, want: false},
		{name: "date before range", criteria: Criteria{From: day("2024-03-11")}, want: false},
		{name: "sales inside range", criteria: Criteria{MinSales: amount(1000), MaxSales: amount(1000)}, want: true},
		{name: "sales below min", criteria: Criteria{MinSales: amount(1001)}, want: false},
		{name: "sales above max", criteria: Criteria{MaxSales: amount(999)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.criteria.Match(base))
		})
	}
}

func TestCriteria_EmptyPurposeNeverMatchesActiveFilter(t *testing.T) {
	require.False(t, Purpose("자가품질").MatchPurpose(""))
	require.True(t, Purpose("").MatchPurpose(""))
}

func TestCriteria_DateRangeRejectsUndatedRecords(t *testing.T) {
	undated := fields("", "", "kim", 0, "")
	require.True(t, Criteria{}.Match(undated))
	require.False(t, Criteria{From: day("2024-01-01")}.Match(undated))
}

func TestCriteria_MatchRestIgnoresPurpose(t *testing.T) {
	f := fields("수출", "과자류", "kim", 10, "2024-01-02")
	c := Criteria{Purpose: "자가품질", Manager: "kim"}

	require.False(t, c.Match(f))
	require.True(t, c.MatchRest(f))
}

func TestCriteria_Key(t *testing.T) {
	require.Equal(t, Criteria{}.Key(), Criteria{Purpose: All}.Key())
	require.NotEqual(t, Criteria{}.Key(), Criteria{Purpose: "수출"}.Key())

	key := Criteria{Purpose: "수출", SampleType: "과자*", Manager: "kim", From: day("2024-01-01"), MinSales: amount(10)}.Key()
	values, err := url.ParseQuery(key)
	require.NoError(t, err)
	require.Equal(t, url.Values{
		"purpose":     {"수출"},
		"sample_type": {"과자*"},
		"manager":     {"kim"},
		"from":        {"2024-01-01"},
		"to":          {""},
		"min_sales":   {"10"},
		"max_sales":   {""},
	}, values)
	require.NotContains(t, key, "|", "keys are joined with | into summary cache keys")
}

func TestCriteria_KeyEscapesValues(t *testing.T) {
	tests := []struct {
		name string
		a, b Criteria
	}{
		{
			name: "separator inside purpose",
			a:    Criteria{Purpose: "A&sample_type=B"},
			b:    Criteria{Purpose: "A", SampleType: "B&sample_type="},
		},
		{
			name: "separator inside manager",
			a:    Criteria{Manager: "kim&from=2024-01-01"},
			b:    Criteria{Manager: "kim", From: day("2024-01-01")},
		},
		{
			name: "pipe inside sample type",
			a:    Criteria{SampleType: "x|y"},
			b:    Criteria{SampleType: "x", Manager: "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEqual(t, tt.a.Key(), tt.b.Key())
		})
	}
}

func TestParseQuery(t *testing.T) {
	c, err := ParseQuery(url.Values{
		"purpose":     {"수출"},
		"sample_type": {"과자*"},
		"from":        {"2024-01-01"},
		"to":          {"2024-06-30"},
		"min_sales":   {"1,000"},
	})
	require.NoError(t, err)
	require.Equal(t, "수출", c.Purpose)
	require.Equal(t, "과자*", c.SampleType)
	require.Equal(t, day("2024-01-01"), c.From)
	require.Equal(t, day("2024-06-30"), c.To)
	require.True(t, decimal.NewFromInt(1000).Equal(*c.MinSales))
	require.Nil(t, c.MaxSales)
}

func TestParseQuery_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
	}{
		{name: "bad from", query: url.Values{"from": {"01/02/2024"}}},
		{name: "bad to", query: url.Values{"to": {"soon"}}},
		{name: "inverted dates", query: url.Values{"from": {"2024-02-01"}, "to": {"2024-01-01"}}},
		{name: "bad amount", query: url.Values{"min_sales": {"lots"}}},
		{name: "inverted amounts", query: url.Values{"min_sales": {"10"}, "max_sales": {"5"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(tt.query)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidCriteria))
		})
	}
}

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
