package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyTrim = strings.NewReplacer("₫", "", "đ", "", "Đ", "", "VND", "", "vnd", "", "VNĐ", "", " ", "", " ", "")
	starTextRe   = regexp.MustCompile(`(?i)([1-5])(?:[.,]5)?\s*(sao|stars?|\*|★)`)
	districtRe   = regexp.MustCompile(`(?i)\b(?:quận|quan|district|q\.?)\s*(\d{1,2})\b`)
)

// ParseNumber reads a number written the way the catalog and the external
// services write them: "1.200.000", "1,200,000", "8,6", "650000đ".
func ParseNumber(s string) (float64, bool) {
	s = currencyTrim.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	dots, commas := strings.Count(s, "."), strings.Count(s, ",")
	switch {
	case dots > 0 && commas > 0:
		// whichever comes last is the decimal separator
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas > 1 || (commas == 1 && digitsAfter(s, ",") == 3):
		s = strings.ReplaceAll(s, ",", "")
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case dots > 1 || (dots == 1 && digitsAfter(s, ".") == 3):
		s = strings.ReplaceAll(s, ".", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func digitsAfter(s, sep string) int {
	return len(s) - strings.LastIndex(s, sep) - 1
}

func parseNumberPtr(s string) *float64 {
	if f, ok := ParseNumber(s); ok {
		return &f
	}
	return nil
}

// ParseStar accepts "4", "4.5" or descriptive text such as "Khách sạn 4 sao".
// The text is returned only when it is not a plain number.
func ParseStar(s string) (*float64, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ""
	}
	if f, ok := ParseNumber(s); ok {
		return &f, ""
	}
	if m := starTextRe.FindStringSubmatch(s); m != nil {
		f, _ := strconv.ParseFloat(m[1], 64)
		return &f, s
	}
	return nil, s
}

// ParseDistrictNumber reads an explicit number column, falling back to
// patterns like "Quận 1" or "District 3" in the free-text district.
func ParseDistrictNumber(raw, district string) *int {
	if f, ok := ParseNumber(raw); ok && f > 0 && f == math.Trunc(f) {
		n := int(f)
		return &n
	}
	if m := districtRe.FindStringSubmatch(district); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return &n
		}
	}
	return nil
}
