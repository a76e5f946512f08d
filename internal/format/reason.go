package format

import (
	"fmt"
	"regexp"
	"strings"

	"hotel_finder/internal/domain"
)

var (
	reasonLabelRe = regexp.MustCompile(`(?i)^\s*(match reason|reason|lý do|ly do)\s*[:\-–]\s*`)
	spaceRunRe    = regexp.MustCompile(`\s+`)

	reasonPhrases = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`(?i)\b(high\s+)?semantic\s+(similarity|match)\b`), "Phù hợp với mô tả của bạn"},
		{regexp.MustCompile(`(?i)\bsimilar\s+to\s+(your\s+)?(query|request)\b`), "Phù hợp với mô tả của bạn"},
		{regexp.MustCompile(`(?i)\bmatch(es)?\s+(your\s+)?(search|query)\b`), "Phù hợp với tìm kiếm của bạn"},
		{regexp.MustCompile(`(?i)\bkeyword\s+match\b`), "Khớp từ khóa bạn tìm"},
	}
)

// CleanReason tidies a free-text reason coming from the external service.
func CleanReason(s string) string {
	s = spaceRunRe.ReplaceAllString(strings.TrimSpace(s), " ")
	s = reasonLabelRe.ReplaceAllString(s, "")
	for _, p := range reasonPhrases {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return strings.TrimRight(strings.TrimSpace(s), ".;,")
}

// MatchReason explains in at most MaxReasonClauses short clauses why h fits.
func MatchReason(h domain.HotelRecord, externalReason string) string {
	var clauses []string
	switch {
	case IsDowntown(h):
		clauses = append(clauses, ReasonCentral)
	case hasDistrict(h):
		clauses = append(clauses, ReasonArea)
	}
	if ratingAtLeast(h.Rating, ReasonRated5, ReasonRated10) {
		clauses = append(clauses, fmt.Sprintf("Đánh giá cao (%s)", RatingLabel(h)))
	}
	if lo, ok := MinPrice(h); ok && lo <= BudgetMaxPrice {
		clauses = append(clauses, ReasonBudget)
	}
	if len(clauses) > 0 {
		if len(clauses) > MaxReasonClauses {
			clauses = clauses[:MaxReasonClauses]
		}
		return strings.Join(clauses, ReasonSeparator)
	}
	if c := CleanReason(externalReason); c != "" {
		return c
	}
	return ReasonFallback
}
