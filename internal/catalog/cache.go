// Package catalog holds the CSV-backed hotel catalog used for enrichment and
// fallback search.
package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/textnorm"
)

// TTL is how long a loaded snapshot is served before the next Get reloads it.
const TTL = 5 * time.Minute

type Source interface {
	Load(ctx context.Context) ([]domain.HotelRecord, error)
}

type SourceFunc func(ctx context.Context) ([]domain.HotelRecord, error)

func (f SourceFunc) Load(ctx context.Context) ([]domain.HotelRecord, error) { return f(ctx) }

// Snapshot is an immutable view of the catalog with its join indexes.
type Snapshot struct {
	records  []domain.HotelRecord
	byID     map[string]int
	byName   map[string]int
	loadedAt time.Time
}

func newSnapshot(recs []domain.HotelRecord, at time.Time) *Snapshot {
	s := &Snapshot{
		records:  recs,
		byID:     make(map[string]int, len(recs)),
		byName:   make(map[string]int, len(recs)),
		loadedAt: at,
	}
	for i, r := range recs {
		if r.ID != "" {
			if _, dup := s.byID[r.ID]; !dup {
				s.byID[r.ID] = i
			}
		}
		// an empty key would join every nameless result to the same record
		if key := textnorm.Normalize(r.Name); key != "" {
			if _, dup := s.byName[key]; !dup {
				s.byName[key] = i
			}
		}
	}
	return s
}

// Records returns the shared backing slice; callers must not modify it.
func (s *Snapshot) Records() []domain.HotelRecord { return s.records }

func (s *Snapshot) Len() int { return len(s.records) }

func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

func (s *Snapshot) ByID(id string) (domain.HotelRecord, bool) {
	if id == "" {
		return domain.HotelRecord{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return domain.HotelRecord{}, false
	}
	return s.records[i], true
}

// ByName looks a record up by its normalized display name.
func (s *Snapshot) ByName(name string) (domain.HotelRecord, bool) {
	key := textnorm.Normalize(name)
	if key == "" {
		return domain.HotelRecord{}, false
	}
	i, ok := s.byName[key]
	if !ok {
		return domain.HotelRecord{}, false
	}
	return s.records[i], true
}

type Catalog struct {
	src Source
	ttl time.Duration
	now func() time.Time
	cur atomic.Pointer[Snapshot]
}

type Option func(*Catalog)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

func New(src Source, opts ...Option) *Catalog {
	c := &Catalog{src: src, ttl: TTL, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the current snapshot, reloading it when missing or older than
// TTL. Concurrent callers may each reload; the last one to finish wins.
func (c *Catalog) Get(ctx context.Context) (*Snapshot, error) {
	if s := c.cur.Load(); s != nil && c.now().Sub(s.loadedAt) < c.ttl {
		return s, nil
	}
	start := time.Now()
	recs, err := c.src.Load(ctx)
	if err != nil {
		observability.ObserveCatalogReload("error")
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalog, err)
	}
	s := newSnapshot(recs, c.now())
	c.cur.Store(s)
	observability.ObserveCatalogReload("ok")
	log.Debug().
		Str("component", "catalog").
		Int("records", len(recs)).
		Dur("took", time.Since(start)).
		Msg("catalog reloaded")
	return s, nil
}

// Invalidate drops the snapshot so the next Get reloads.
func (c *Catalog) Invalidate() { c.cur.Store(nil) }
