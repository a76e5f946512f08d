package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency renders a VND amount: grouped digits below a million
// ("500,000đ"), one-decimal millions above ("3.2 triệu", "3 triệu").
func Currency(v float64) string {
	r := math.Round(v)
	if r >= MillionUnit {
		m := math.Round(v/(MillionUnit/10)) / 10
		if m == math.Trunc(m) {
			return printer.Sprintf("%d triệu", int64(m))
		}
		return printer.Sprintf("%.1f triệu", m)
	}
	return printer.Sprintf("%dđ", int64(r))
}
