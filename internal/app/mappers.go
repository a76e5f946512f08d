package app

import (
	"math"
	"strconv"
	"strings"

	"hotel_finder/internal/catalog"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/format"
)

/********** alias registry (single source of truth) **********/

var hotelAliases = map[string][]string{
	"name":            {"name", "hotel_name", "title"},
	"id":              {"id", "hotel_id", "property_id"},
	"address":         {"address", "full_address", "location.address"},
	"price":           {"price", "price_avg"},
	"price_min":       {"price_min", "priceMin", "min_price"},
	"price_max":       {"price_max", "priceMax", "max_price"},
	"price_text":      {"price_text", "priceText"},
	"district":        {"district", "area"},
	"district_number": {"district_number", "districtNumber"},
	"star":            {"star", "stars", "hotel_star"},
	"rating":          {"rating", "score_rating", "review_score"},
	"amenities":       {"amenities", "facilities"},
	"description":     {"description", "summary"},
	"image":           {"image_url", "imageUrl", "image", "thumbnail"},
	"search_type":     {"search_type", "searchType", "type"},
	"reason":          {"match_reason", "reason", "why"},
	"score":           {"score", "similarity", "relevance"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the value at path as trimmed text; numbers are rendered
// without a trailing ".0" so numeric ids still join.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) string {
	for _, p := range hotelAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "1.200.000" or "8,6").
func getFloatFlexible(m map[string]any, key string) *float64 {
	for _, p := range hotelAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			if f, ok := catalog.ParseNumber(v); ok {
				return &f
			}
		}
	}
	return nil
}

func firstAnyAlias(m map[string]any, key string) any {
	for _, p := range hotelAliases[key] {
		if v := lookupAny(m, p); v != nil {
			return v
		}
	}
	return nil
}

/********** external hotel mapper **********/

// mapExternal turns an untyped hotel from the inference or search service
// into a record plus the service's own score and reason.
func mapExternal(x domain.ExternalHotel) (domain.HotelRecord, *float64, string) {
	m := map[string]any(x)
	district := firstNonEmptyAlias(m, "district")
	rec := domain.HotelRecord{
		ID:             firstNonEmptyAlias(m, "id"),
		Name:           firstNonEmptyAlias(m, "name"),
		Address:        firstNonEmptyAlias(m, "address"),
		District:       district,
		DistrictNumber: catalog.ParseDistrictNumber(firstNonEmptyAlias(m, "district_number"), district),
		Price:          getFloatFlexible(m, "price"),
		PriceMin:       getFloatFlexible(m, "price_min"),
		PriceMax:       getFloatFlexible(m, "price_max"),
		PriceText:      firstNonEmptyAlias(m, "price_text"),
		Rating:         getFloatFlexible(m, "rating"),
		Amenities:      format.ParseList(firstAnyAlias(m, "amenities")),
		Description:    firstNonEmptyAlias(m, "description"),
		ImageURL:       firstNonEmptyAlias(m, "image"),
		SearchType:     firstNonEmptyAlias(m, "search_type"),
	}
	rec.Star, rec.StarText = catalog.ParseStar(firstNonEmptyAlias(m, "star"))
	if rec.Price == nil && rec.PriceText == "" {
		// "price" sometimes carries prose such as "Liên hệ"
		rec.PriceText = firstNonEmptyAlias(m, "price")
	}
	return rec, getFloatFlexible(m, "score"), firstNonEmptyAlias(m, "reason")
}
