package domain

const (
	MethodSemantic = "semantic_search"
	MethodSimple   = "simple_search"
)

// SearchQuery carries the semantic search input and its optional filters.
type SearchQuery struct {
	Query    string
	TopK     int
	MinPrice *float64
	MaxPrice *float64
	MinStar  *float64
	District string
}

// SearchResponse is the body produced by the local fallback search.
type SearchResponse struct {
	Success        bool        `json:"success"`
	Query          string      `json:"query"`
	Total          int         `json:"total"`
	Hotels         []HotelCard `json:"hotels"`
	Method         string      `json:"method"`
	FallbackReason string      `json:"fallback_reason,omitempty"`
	Error          string      `json:"error,omitempty"`
}

type PriceRange struct {
	Label string   `json:"label"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max,omitempty"` // nil for the open-ended top bucket
	Count int      `json:"count"`
}

// FilterOptions lists the distinct values a client can filter on.
type FilterOptions struct {
	Districts   []string     `json:"districts"`
	SearchTypes []string     `json:"search_types"`
	Stars       []int        `json:"stars"`
	PriceRanges []PriceRange `json:"price_ranges"`
}
