// Package region classifies free-form Korean addresses into a
// (province, city/county) pair. It is a best-effort heuristic, not geocoding:
// nothing is checked against a gazetteer.
package region

import (
	"regexp"
	"strings"
)

// Province is one of the 17 first-level divisions. Name is the short form
// reported in results; LongForms are the official spellings that also
// identify it inside an address.
type Province struct {
	Name      string
	LongForms []string
}

// Provinces is the fixed lookup list. Order matters: it breaks ties when two
// names start at the same position.
var Provinces = []Province{
	{Name: "서울", LongForms: []string{"서울특별시"}},
	{Name: "부산", LongForms: []string{"부산광역시"}},
	{Name: "대구", LongForms: []string{"대구광역시"}},
	{Name: "인천", LongForms: []string{"인천광역시"}},
	{Name: "광주", LongForms: []string{"광주광역시"}},
	{Name: "대전", LongForms: []string{"대전광역시"}},
	{Name: "울산", LongForms: []string{"울산광역시"}},
	{Name: "세종", LongForms: []string{"세종특별자치시"}},
	{Name: "경기", LongForms: []string{"경기도"}},
	{Name: "강원", LongForms: []string{"강원특별자치도", "강원도"}},
	{Name: "충북", LongForms: []string{"충청북도"}},
	{Name: "충남", LongForms: []string{"충청남도"}},
	{Name: "전북", LongForms: []string{"전북특별자치도", "전라북도"}},
	{Name: "전남", LongForms: []string{"전라남도"}},
	{Name: "경북", LongForms: []string{"경상북도"}},
	{Name: "경남", LongForms: []string{"경상남도"}},
	{Name: "제주", LongForms: []string{"제주특별자치도", "제주도"}},
}

// cityCountyPattern matches a run of Hangul ending in 시 (city), 군 (county)
// or 구 (district).
var cityCountyPattern = regexp.MustCompile(`[가-힣]+[시군구]`)

// Result is the outcome of one extraction.
type Result struct {
	Province   string `json:"province,omitempty"`
	CityCounty string `json:"city_county,omitempty"`

	// Ambiguous is set when the city/county token only re-captured the
	// province name and nothing better existed, or when more than one
	// province name appears in the address.
	Ambiguous bool `json:"ambiguous"`

	// Candidates lists every city/county token found, in address order.
	Candidates []string `json:"candidates,omitempty"`
}

// Found reports whether any part was recognized.
func (r Result) Found() bool {
	return r.Province != "" || r.CityCounty != ""
}

// Key renders the result as a bucket key: "province city", or whichever
// part is present. Empty when nothing was recognized.
func (r Result) Key() string {
	switch {
	case r.Province != "" && r.CityCounty != "":
		return r.Province + " " + r.CityCounty
	case r.Province != "":
		return r.Province
	default:
		return r.CityCounty
	}
}

// Extract parses an address. Blank input yields the zero Result.
func Extract(address string) Result {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{}
	}

	var res Result

	province, others := matchProvince(address)
	if province != nil {
		res.Province = province.Name
	}

	tokens := cityCountyPattern.FindAllString(address, -1)
	if len(tokens) > 0 {
		res.Candidates = tokens
		res.CityCounty = tokens[0]

		if province != nil && isDegenerate(tokens[0], province) {
			if len(tokens) > 1 {
				res.CityCounty = tokens[1]
			} else {
				res.Ambiguous = true
			}
		}
	}

	// "경기도 광주시" names 광주 too, but only as part of the city token.
	for _, other := range others {
		if !strings.Contains(res.CityCounty, other.Name) {
			res.Ambiguous = true
			break
		}
	}

	return res
}

// matchProvince returns the province whose name occurs earliest in the
// address along with every other province that also occurs.
func matchProvince(address string) (*Province, []*Province) {
	var (
		best    *Province
		bestPos = -1
		found   []*Province
	)
	for i := range Provinces {
		p := &Provinces[i]
		pos := p.index(address)
		if pos < 0 {
			continue
		}
		found = append(found, p)
		if bestPos < 0 || pos < bestPos {
			best, bestPos = p, pos
		}
	}

	others := make([]*Province, 0, len(found))
	for _, p := range found {
		if p != best {
			others = append(others, p)
		}
	}
	return best, others
}

// index is the earliest byte offset of any spelling of p in s, or -1.
func (p *Province) index(s string) int {
	pos := strings.Index(s, p.Name)
	for _, long := range p.LongForms {
		if i := strings.Index(s, long); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}
	return pos
}

// isDegenerate reports whether token merely restates the province with a
// city or province suffix ("서울시", "서울특별시").
func isDegenerate(token string, p *Province) bool {
	if token == p.Name+"시" || token == p.Name+"도" {
		return true
	}
	for _, long := range p.LongForms {
		if token == long {
			return true
		}
	}
	return false
}
