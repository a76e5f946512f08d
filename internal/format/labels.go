package format

import (
	"fmt"
	"strconv"
	"strings"

	"hotel_finder/internal/domain"
)

func positive(p *float64) (float64, bool) {
	if p == nil || *p <= 0 {
		return 0, false
	}
	return *p, true
}

// MinPrice is the lowest nightly price known for h: priceMin, else price.
func MinPrice(h domain.HotelRecord) (float64, bool) {
	if v, ok := positive(h.PriceMin); ok {
		return v, true
	}
	return positive(h.Price)
}

func IsDowntown(h domain.HotelRecord) bool {
	if h.DistrictNumber == nil {
		return false
	}
	_, ok := DowntownDistricts[*h.DistrictNumber]
	return ok
}

func hasDistrict(h domain.HotelRecord) bool {
	return (h.DistrictNumber != nil && *h.DistrictNumber > 0) || strings.TrimSpace(h.District) != ""
}

// RatingScale guesses whether a raw rating is out of 5 or out of 10.
// A genuine 10-point score of 5.0 or less is misread as 5-point.
func RatingScale(r float64) int {
	if r <= FiveScaleCeiling {
		return 5
	}
	return 10
}

func ratingAtLeast(p *float64, min5, min10 float64) bool {
	r, ok := positive(p)
	if !ok {
		return false
	}
	if RatingScale(r) == 5 {
		return r >= min5
	}
	return r >= min10
}

func DistrictLabel(h domain.HotelRecord) string {
	if h.DistrictNumber != nil && *h.DistrictNumber > 0 {
		return "District " + strconv.Itoa(*h.DistrictNumber)
	}
	if d := strings.TrimSpace(h.District); d != "" {
		return d
	}
	return DistrictPlaceholder
}

func PriceLabel(h domain.HotelRecord) string {
	lo, hasLo := positive(h.PriceMin)
	hi, hasHi := positive(h.PriceMax)
	if hasLo && hasHi {
		if lo > hi {
			lo, hi = hi, lo
		}
		// distinct once rendered, not just numerically
		if a, b := Currency(lo), Currency(hi); a != b {
			return fmt.Sprintf("%s – %s /night", a, b)
		}
	}
	if hasLo {
		return "From " + Currency(lo) + " /night"
	}
	if mid, ok := positive(h.Price); ok {
		return "About " + Currency(mid) + " /night"
	}
	if hasHi {
		return "About " + Currency(hi) + " /night"
	}
	if txt := strings.TrimSpace(h.PriceText); txt != "" && !strings.EqualFold(txt, NoPriceSentinel) {
		return txt
	}
	return PriceUnavailable
}

func RatingLabel(h domain.HotelRecord) string {
	r, ok := positive(h.Rating)
	if !ok {
		return RatingUnavailable
	}
	return fmt.Sprintf("%.1f/%d", r, RatingScale(r))
}

func CTALabel(h domain.HotelRecord) string {
	if _, ok := positive(h.PriceMin); ok {
		return CTABook
	}
	if _, ok := positive(h.Price); ok {
		return CTABook
	}
	if _, ok := positive(h.PriceMax); ok {
		return CTABook
	}
	return CTADetails
}

// Badges returns at most MaxBadges tags, in priority order.
func Badges(h domain.HotelRecord) []string {
	out := make([]string, 0, MaxBadges)
	add := func(ok bool, label string) {
		if ok && len(out) < MaxBadges {
			out = append(out, label)
		}
	}
	lo, hasLo := MinPrice(h)
	add(IsDowntown(h), BadgeCentral)
	add(ratingAtLeast(h.Rating, HighlyRated5, HighlyRated10), BadgeHighlyRated)
	add((h.Star != nil && *h.Star >= PremiumStar) || (hasLo && lo >= PremiumMinPrice), BadgePremium)
	add(hasLo && lo <= GoodValueMaxPrice, BadgeGoodValue)
	return out
}

// UI derives the whole presentation block for a card.
func UI(h domain.HotelRecord, externalReason string) domain.CardUI {
	return domain.CardUI{
		PriceLabel:    PriceLabel(h),
		DistrictLabel: DistrictLabel(h),
		RatingLabel:   RatingLabel(h),
		Badges:        Badges(h),
		Highlights:    Highlights(h),
		CTALabel:      CTALabel(h),
		MatchReason:   MatchReason(h, externalReason),
	}
}
