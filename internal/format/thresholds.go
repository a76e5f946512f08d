package format

// Tuning knobs for badges, highlights and match reasons. They were picked by
// hand against the catalog; keep them here rather than inline.
const (
	MaxBadges        = 2
	MaxHighlights    = 3
	MaxReasonClauses = 3

	// A raw rating at or below this value is read as a 5-point score.
	FiveScaleCeiling = 5.0

	HighlyRated5  = 4.4
	HighlyRated10 = 8.8
	ReasonRated5  = 4.3
	ReasonRated10 = 8.6

	PremiumStar       = 4.0
	PremiumMinPrice   = 1_500_000
	GoodValueMaxPrice = 700_000
	BudgetMaxPrice    = 900_000

	HighlightMinRunes = 3
	HighlightMaxRunes = 26

	MillionUnit = 1_000_000
)

// DowntownDistricts are the district numbers treated as central.
var DowntownDistricts = map[int]struct{}{1: {}, 3: {}, 4: {}, 5: {}}

const (
	DistrictPlaceholder = "—"
	PriceUnavailable    = "Price not available"
	NoPriceSentinel     = "no price"
	RatingUnavailable   = "Chưa có đánh giá"
	CTABook             = "Đặt phòng ngay"
	CTADetails          = "Xem chi tiết"

	BadgeCentral     = "Trung tâm"
	BadgeHighlyRated = "Được đánh giá cao"
	BadgePremium     = "Cao cấp"
	BadgeGoodValue   = "Giá tốt"

	ReasonCentral   = "Vị trí trung tâm"
	ReasonArea      = "Phù hợp khu vực bạn chọn"
	ReasonBudget    = "Giá hợp lý với ngân sách"
	ReasonFallback  = "Gợi ý phù hợp với yêu cầu của bạn"
	ReasonSeparator = " · "
)
