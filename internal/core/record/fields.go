// Package record turns raw source rows into the normalized view the
// aggregation pass and the filter work on.
package record

import (
	"time"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/core/region"
	"github.com/shopspring/decimal"
)

// Unassigned replaces a blank manager or client.
const Unassigned = "unassigned"

// Field aliases, first non-empty wins. Source workbooks use Korean headers;
// the English names are what the durable store and API clients use.
var (
	ManagerFields    = []string{"manager", "담당자", "영업담당", "영업담당자"}
	SalesFields      = []string{"sales_amount", "sales", "공급가액", "금액", "매출액"}
	DateFields       = []string{"received_date", "date", "접수일", "접수일자"}
	ClientFields     = []string{"client", "거래처", "의뢰업체", "업체명"}
	PurposeFields    = []string{"purpose", "검사목적", "목적"}
	DefectFields     = []string{"defect_item", "부적합항목", "부적합"}
	SampleTypeFields = []string{"sample_type", "검체유형", "시료유형"}
	ItemFields       = []string{"test_item", "item", "검사항목", "시험항목"}

	// AddressFields is the priority list for the region lookup.
	AddressFields = []string{"address", "client_address", "주소", "거래처주소", "사업장주소", "소재지"}
)

// Fields is the normalized view of one record.
type Fields struct {
	Manager    string
	Sales      decimal.Decimal
	Date       time.Time
	HasDate    bool
	Client     string
	Purpose    string
	Defect     string
	SampleType string
	Item       string
	Address    string
	Region     region.Result
}

// Month returns 1..12, or 0 when the record has no usable date.
func (f *Fields) Month() int {
	if !f.HasDate {
		return 0
	}
	return int(f.Date.Month())
}

// Normalize extracts every dimension value from rec. It never fails: bad
// values degrade to zero, blank or Unassigned.
func Normalize(rec *v1.Record) Fields {
	f := Fields{
		Manager:    orUnassigned(rec.Text(ManagerFields...)),
		Client:     orUnassigned(rec.Text(ClientFields...)),
		Purpose:    rec.Text(PurposeFields...),
		Defect:     rec.Text(DefectFields...),
		SampleType: rec.Text(SampleTypeFields...),
		Item:       rec.Text(ItemFields...),
		Address:    rec.Text(AddressFields...),
	}

	if v, ok := rec.Value(SalesFields...); ok {
		f.Sales = ParseAmount(v)
	}
	if v, ok := rec.Value(DateFields...); ok {
		f.Date, f.HasDate = ParseDate(v)
	}
	f.Region = region.Extract(f.Address)

	return f
}

func orUnassigned(s string) string {
	if s == "" {
		return Unassigned
	}
	return s
}
