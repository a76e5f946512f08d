package app

import (
	"context"

	"hotel_finder/internal/catalog"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/format"
)

// CatalogReader is the read side of the hotel catalog.
type CatalogReader interface {
	Get(ctx context.Context) (*catalog.Snapshot, error)
}

// lookup joins by id first, then by normalized name. A nil snapshot never matches.
func lookup(snap *catalog.Snapshot, rec domain.HotelRecord) (domain.HotelRecord, bool) {
	if snap == nil {
		return domain.HotelRecord{}, false
	}
	if rec.ID != "" {
		if base, ok := snap.ByID(rec.ID); ok {
			return base, true
		}
	}
	return snap.ByName(rec.Name)
}

// merge lays the non-empty external fields over the catalog record. id and
// image stay with the catalog when it has them.
func merge(base, over domain.HotelRecord) domain.HotelRecord {
	out := base
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	num := func(dst **float64, v *float64) {
		if v != nil {
			*dst = v
		}
	}
	if out.ID == "" {
		out.ID = over.ID
	}
	if out.ImageURL == "" {
		out.ImageURL = over.ImageURL
	}
	str(&out.Name, over.Name)
	str(&out.Address, over.Address)
	str(&out.District, over.District)
	str(&out.PriceText, over.PriceText)
	str(&out.StarText, over.StarText)
	str(&out.Description, over.Description)
	str(&out.SearchType, over.SearchType)
	num(&out.Price, over.Price)
	num(&out.PriceMin, over.PriceMin)
	num(&out.PriceMax, over.PriceMax)
	num(&out.Star, over.Star)
	num(&out.Rating, over.Rating)
	if over.DistrictNumber != nil {
		out.DistrictNumber = over.DistrictNumber
	}
	if len(over.Amenities) > 0 {
		out.Amenities = over.Amenities
	}
	return out
}

// cardFromExternal enriches one external hotel against the snapshot and formats it.
func cardFromExternal(snap *catalog.Snapshot, x domain.ExternalHotel) domain.HotelCard {
	rec, score, reason := mapExternal(x)
	matched := false
	if base, ok := lookup(snap, rec); ok {
		rec = merge(base, rec)
		matched = true
	}
	return domain.HotelCard{
		HotelRecord:    rec,
		Score:          score,
		MatchReason:    reason,
		CatalogMatched: matched,
		UI:             format.UI(rec, reason),
	}
}

// cardFromRecord formats a catalog record as-is.
func cardFromRecord(rec domain.HotelRecord) domain.HotelCard {
	return domain.HotelCard{HotelRecord: rec, CatalogMatched: true, UI: format.UI(rec, "")}
}

// asExternalList accepts a decoded JSON array and keeps its object elements.
func asExternalList(v any) []domain.ExternalHotel {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]domain.ExternalHotel, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			out = append(out, domain.ExternalHotel(m))
		}
	}
	return out
}
