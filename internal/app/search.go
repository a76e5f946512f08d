package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/format"
	"hotel_finder/internal/textnorm"
)

const (
	SearchDefaultTopK = 20
	SearchMaxTopK     = 100
	FallbackLimit     = 50

	FallbackInvalidOutput = "invalid_output"
	FallbackUnsuccessful  = "unsuccessful"
)

// ParseSearchQuery validates search parameters taken from a JSON body or a
// query string. Numbers may arrive as text.
func ParseSearchQuery(params map[string]any) (domain.SearchQuery, error) {
	q, _ := params["query"].(string)
	q = strings.TrimSpace(q)
	if q == "" {
		return domain.SearchQuery{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	district, _ := params["district"].(string)
	return domain.SearchQuery{
		Query:    q,
		TopK:     clampInt(intFlexible(params["top_k"]), SearchDefaultTopK, 1, SearchMaxTopK),
		MinPrice: floatFlexible(params["min_price"]),
		MaxPrice: floatFlexible(params["max_price"]),
		MinStar:  floatFlexible(params["min_star"]),
		District: strings.TrimSpace(district),
	}, nil
}

func floatFlexible(v any) *float64 {
	return getFloatFlexible(map[string]any{"v": v}, "v")
}

// SearchResult is either the semantic payload, passed through, or the
// fallback response.
type SearchResult struct {
	Method   string
	Semantic map[string]any
	Fallback *domain.SearchResponse
}

// Body returns whatever should be written to the client.
func (r SearchResult) Body() any {
	if r.Semantic != nil {
		return r.Semantic
	}
	return r.Fallback
}

type SearchService struct {
	runner   domain.SearchRunner
	catalog  CatalogReader
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewSearchService(r domain.SearchRunner, cat CatalogReader, c domain.Cache, ttl time.Duration) *SearchService {
	return &SearchService{runner: r, catalog: cat, cache: c, cacheTTL: ttl}
}

// Search tries the semantic process first and filters the catalog locally
// when it cannot produce a successful payload.
func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery) SearchResult {
	key := searchCacheKey(q)
	if s.cache != nil {
		var cached map[string]any
		if ok, _ := s.cache.Get(ctx, key, &cached); ok && cached != nil {
			observability.ObserveSearch(domain.MethodSemantic, "cached")
			return SearchResult{Method: domain.MethodSemantic, Semantic: cached}
		}
	}

	payload, reason := s.semantic(ctx, q)
	if payload != nil {
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, payload, int(s.cacheTTL.Seconds())); err != nil {
				log.Warn().Err(err).Str("component", "search").Msg("cache set failed")
			}
		}
		observability.ObserveSearch(domain.MethodSemantic, "")
		return SearchResult{Method: domain.MethodSemantic, Semantic: payload}
	}

	observability.ObserveSearch(domain.MethodSimple, reason)
	resp := s.fallback(ctx, q, reason)
	return SearchResult{Method: domain.MethodSimple, Fallback: &resp}
}

// semantic returns the process payload, or nil and the reason it was rejected.
func (s *SearchService) semantic(ctx context.Context, q domain.SearchQuery) (map[string]any, string) {
	out, err := s.runner.Search(ctx, q)
	if err != nil {
		reason := "error"
		var fr interface{ FailureReason() string }
		if errors.As(err, &fr) {
			reason = fr.FailureReason()
		}
		log.Warn().Err(err).Str("component", "search").Str("reason", reason).Msg("semantic search failed, falling back")
		return nil, reason
	}
	var payload map[string]any
	if err := json.Unmarshal(out, &payload); err != nil || payload == nil {
		log.Warn().Err(err).Str("component", "search").Int("bytes", len(out)).Msg("semantic search output is not a JSON object")
		return nil, FallbackInvalidOutput
	}
	if ok, _ := payload["success"].(bool); !ok {
		log.Warn().Str("component", "search").Interface("error", payload["error"]).Msg("semantic search reported failure")
		return nil, FallbackUnsuccessful
	}
	payload["method"] = domain.MethodSemantic
	return payload, ""
}

func (s *SearchService) fallback(ctx context.Context, q domain.SearchQuery, reason string) domain.SearchResponse {
	snap, err := s.catalog.Get(ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "search").Msg("fallback search without catalog")
		return domain.SearchResponse{
			Success: false,
			Query:   q.Query,
			Hotels:  []domain.HotelCard{},
			Method:  domain.MethodSimple,
			Error:   "catalog unavailable",
		}
	}

	hotels := []domain.HotelCard{}
	for _, rec := range snap.Records() {
		if len(hotels) == FallbackLimit {
			break
		}
		if MatchesQuery(rec, q) {
			hotels = append(hotels, cardFromRecord(rec))
		}
	}
	return domain.SearchResponse{
		Success:        true,
		Query:          q.Query,
		Total:          len(hotels),
		Hotels:         hotels,
		Method:         domain.MethodSimple,
		FallbackReason: reason,
	}
}

// MatchesQuery is the local fallback filter.
func MatchesQuery(rec domain.HotelRecord, q domain.SearchQuery) bool {
	if !containsFold(q.Query, rec.Name, rec.Address, rec.District, rec.SearchType) {
		return false
	}
	lo, hasPrice := format.MinPrice(rec)
	if q.MinPrice != nil && (!hasPrice || lo < *q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && (!hasPrice || lo > *q.MaxPrice) {
		return false
	}
	if q.MinStar != nil && (rec.Star == nil || *rec.Star < *q.MinStar) {
		return false
	}
	if q.District != "" && !containsFold(q.District, rec.District) {
		return false
	}
	return true
}

// containsFold reports whether needle occurs in any field, either as a plain
// lowercase substring or after normalization.
func containsFold(needle string, fields ...string) bool {
	low := strings.ToLower(strings.TrimSpace(needle))
	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.Contains(strings.ToLower(f), low) || textnorm.Contains(f, needle) {
			return true
		}
	}
	return false
}

func searchCacheKey(q domain.SearchQuery) string {
	f := func(p *float64) string {
		if p == nil {
			return ""
		}
		return fmt.Sprintf("%g", *p)
	}
	raw := strings.Join([]string{
		textnorm.Normalize(q.Query),
		fmt.Sprint(q.TopK),
		f(q.MinPrice), f(q.MaxPrice), f(q.MinStar),
		textnorm.Normalize(q.District),
	}, "|")
	sum := sha1.Sum([]byte(raw))
	return "search:" + hex.EncodeToString(sum[:])
}

// CreateEmbeddings rebuilds the vector index and returns the process output as-is.
func (s *SearchService) CreateEmbeddings(ctx context.Context) (json.RawMessage, error) {
	out, err := s.runner.CreateEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create embeddings: %w", domain.ErrUpstream, err)
	}
	if !json.Valid(out) {
		return nil, fmt.Errorf("%w: create embeddings: output is not JSON", domain.ErrUpstream)
	}
	return json.RawMessage(out), nil
}
