package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/domain"
	"hotel_finder/internal/format"
)

const (
	PropertiesDefaultLimit = 20
	PropertiesMaxLimit     = 100
)

// priceEdges bound the filter buckets; the last bucket is open-ended.
var priceEdges = []float64{0, 500_000, 1_000_000, 2_000_000, 5_000_000}

type QueryService struct {
	catalog  CatalogReader
	repo     domain.WishlistRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(cat CatalogReader, r domain.WishlistRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{catalog: cat, repo: r, cache: c, cacheTTL: ttl}
}

// ListProperties pages through catalog cards matching the query.
func (s *QueryService) ListProperties(ctx context.Context, q domain.PropertyQuery) (domain.PropertiesPage, error) {
	if q.Limit <= 0 {
		q.Limit = PropertiesDefaultLimit
	}
	q.Limit = min(q.Limit, PropertiesMaxLimit)
	q.Offset = max(q.Offset, 0)

	snap, err := s.catalog.Get(ctx)
	if err != nil {
		return domain.PropertiesPage{}, err
	}
	var matched []domain.HotelRecord
	for _, rec := range snap.Records() {
		if q.District != "" && !containsFold(q.District, rec.District) {
			continue
		}
		if q.SearchType != "" && !strings.EqualFold(strings.TrimSpace(rec.SearchType), q.SearchType) {
			continue
		}
		matched = append(matched, rec)
	}

	page := domain.PropertiesPage{Items: []domain.HotelCard{}, Total: len(matched), Limit: q.Limit, Offset: q.Offset}
	if q.Offset >= len(matched) {
		return page, nil
	}
	end := min(q.Offset+q.Limit, len(matched))
	for _, rec := range matched[q.Offset:end] {
		page.Items = append(page.Items, cardFromRecord(rec))
	}
	return page, nil
}

func (s *QueryService) GetProperty(ctx context.Context, id string) (domain.HotelCard, error) {
	snap, err := s.catalog.Get(ctx)
	if err != nil {
		return domain.HotelCard{}, err
	}
	rec, ok := snap.ByID(strings.TrimSpace(id))
	if !ok {
		return domain.HotelCard{}, fmt.Errorf("property %q: %w", id, domain.ErrNotFound)
	}
	return cardFromRecord(rec), nil
}

// Filters lists the distinct values present in the catalog.
func (s *QueryService) Filters(ctx context.Context) (domain.FilterOptions, error) {
	snap, err := s.catalog.Get(ctx)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	districts := map[string]*int{}
	types := map[string]struct{}{}
	stars := map[int]struct{}{}
	counts := make([]int, len(priceEdges))

	for _, rec := range snap.Records() {
		if d := strings.TrimSpace(rec.District); d != "" {
			if _, seen := districts[d]; !seen || districts[d] == nil {
				districts[d] = rec.DistrictNumber
			}
		}
		if t := strings.TrimSpace(rec.SearchType); t != "" {
			types[t] = struct{}{}
		}
		if rec.Star != nil && *rec.Star > 0 {
			stars[int(math.Floor(*rec.Star))] = struct{}{}
		}
		if lo, ok := format.MinPrice(rec); ok {
			counts[bucketOf(lo)]++
		}
	}

	out := domain.FilterOptions{
		Districts:   sortDistricts(districts),
		SearchTypes: make([]string, 0, len(types)),
		Stars:       make([]int, 0, len(stars)),
		PriceRanges: []domain.PriceRange{},
	}
	for t := range types {
		out.SearchTypes = append(out.SearchTypes, t)
	}
	sort.Strings(out.SearchTypes)
	for st := range stars {
		out.Stars = append(out.Stars, st)
	}
	sort.Ints(out.Stars)
	for i, n := range counts {
		if n == 0 {
			continue
		}
		out.PriceRanges = append(out.PriceRanges, priceRange(i, n))
	}
	return out, nil
}

func bucketOf(v float64) int {
	for i := len(priceEdges) - 1; i > 0; i-- {
		if v >= priceEdges[i] {
			return i
		}
	}
	return 0
}

func priceRange(i, count int) domain.PriceRange {
	lo := priceEdges[i]
	if i == len(priceEdges)-1 {
		return domain.PriceRange{Label: "Trên " + format.Currency(lo), Min: lo, Count: count}
	}
	hi := priceEdges[i+1]
	label := format.Currency(lo) + " – " + format.Currency(hi)
	if lo == 0 {
		label = "Dưới " + format.Currency(hi)
	}
	return domain.PriceRange{Label: label, Min: lo, Max: &hi, Count: count}
}

// sortDistricts puts numbered districts first in numeric order, then the rest alphabetically.
func sortDistricts(m map[string]*int) []string {
	out := make([]string, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	num := func(d string) (int, bool) {
		if n := m[d]; n != nil {
			return *n, true
		}
		if n, err := strconv.Atoi(d); err == nil {
			return n, true
		}
		return 0, false
	}
	sort.Slice(out, func(i, j int) bool {
		ni, oki := num(out[i])
		nj, okj := num(out[j])
		switch {
		case oki && okj && ni != nj:
			return ni < nj
		case oki != okj:
			return oki
		}
		return out[i] < out[j]
	})
	return out
}

func wishlistKey(userID string) string { return "wishlist:" + userID }

// Wishlist returns the user's saved hotels, decorated with catalog cards when known.
func (s *QueryService) Wishlist(ctx context.Context, userID string) (domain.Wishlist, error) {
	key := wishlistKey(userID)
	var wl domain.Wishlist
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &wl); ok {
			return wl, nil
		}
	}

	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return domain.Wishlist{}, err
	}
	snap, cerr := s.catalog.Get(ctx)
	if cerr != nil {
		log.Warn().Err(cerr).Str("component", "wishlist").Msg("catalog unavailable, listing bare ids")
	}

	wl = domain.Wishlist{Items: make([]domain.WishlistItem, 0, len(items))}
	for _, it := range items {
		if snap != nil {
			if rec, ok := snap.ByID(it.HotelID); ok {
				card := cardFromRecord(rec)
				it.Hotel = &card
			}
		}
		wl.Items = append(wl.Items, it)
	}
	// a degraded listing is not cached so cards return once the catalog does
	if s.cache != nil && cerr == nil {
		_ = s.cache.Set(ctx, key, wl, int(s.cacheTTL.Seconds()))
	}
	return wl, nil
}
