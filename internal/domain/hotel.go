package domain

// HotelRecord is one row of the hotel catalog. Optional numeric fields are
// pointers so "absent" and "zero" stay distinguishable.
type HotelRecord struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	Address        string   `json:"address,omitempty"`
	District       string   `json:"district,omitempty"`
	DistrictNumber *int     `json:"districtNumber,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	PriceMin       *float64 `json:"priceMin,omitempty"`
	PriceMax       *float64 `json:"priceMax,omitempty"`
	PriceText      string   `json:"priceText,omitempty"`
	Star           *float64 `json:"star,omitempty"`
	StarText       string   `json:"starText,omitempty"` // descriptive star column, e.g. "Khách sạn 4 sao"
	Rating         *float64 `json:"rating,omitempty"`   // 0-5 or 0-10, see format.RatingScale
	Amenities      []string `json:"amenities,omitempty"`
	Description    string   `json:"description,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	SearchType     string   `json:"searchType,omitempty"`
}

// ExternalHotel is a hotel-like object returned by the inference or search
// service. Any field may be missing and any number may arrive as text.
type ExternalHotel map[string]any

// CardUI holds the presentation fields derived by the formatter.
type CardUI struct {
	PriceLabel    string   `json:"priceLabel"`
	DistrictLabel string   `json:"districtLabel"`
	RatingLabel   string   `json:"ratingLabel"`
	Badges        []string `json:"badges"`
	Highlights    []string `json:"highlights"`
	CTALabel      string   `json:"ctaLabel"`
	MatchReason   string   `json:"matchReason"`
}

// HotelCard is a record ready for the client: catalog-merged fields plus the ui block.
type HotelCard struct {
	HotelRecord
	Score          *float64 `json:"score,omitempty"`
	MatchReason    string   `json:"matchReason,omitempty"` // raw reason from the external service
	CatalogMatched bool     `json:"catalogMatched"`
	UI             CardUI   `json:"ui"`
}

// PropertyQuery filters the catalog listing.
type PropertyQuery struct {
	District   string
	SearchType string
	Limit      int
	Offset     int
}

type PropertiesPage struct {
	Items  []HotelCard `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}
