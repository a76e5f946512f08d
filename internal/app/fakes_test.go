package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"hotel_finder/internal/catalog"
	"hotel_finder/internal/domain"
)

// ---- fakes ----

func fptr(f float64) *float64 { return &f }
func iptr(n int) *int         { return &n }

func fixtureRecords() []domain.HotelRecord {
	return []domain.HotelRecord{
		{
			ID: "h1", Name: "Khách Sạn Rex", Address: "141 Nguyễn Huệ", District: "Quận 1",
			DistrictNumber: iptr(1), PriceMin: fptr(1_200_000), PriceMax: fptr(2_500_000),
			Star: fptr(5), Rating: fptr(8.9), Amenities: []string{"Wifi", "Hồ bơi"},
			ImageURL: "https://img.example/rex.jpg", SearchType: "Khách sạn",
		},
		{
			ID: "h2", Name: "Bông Sen Budget", Address: "22 Lê Lợi", District: "Quận 3",
			DistrictNumber: iptr(3), Price: fptr(650_000), Star: fptr(3), Rating: fptr(4.1),
			SearchType: "Nhà nghỉ",
		},
		{
			ID: "h3", Name: "Saigon Riverside Homestay", Address: "9 Thảo Điền", District: "Thủ Đức",
			PriceText: "Liên hệ", SearchType: "Homestay",
		},
	}
}

func fixtureCatalog() *catalog.Catalog {
	return catalog.New(catalog.SourceFunc(func(ctx context.Context) ([]domain.HotelRecord, error) {
		return fixtureRecords(), nil
	}))
}

func brokenCatalog() *catalog.Catalog {
	return catalog.New(catalog.SourceFunc(func(ctx context.Context) ([]domain.HotelRecord, error) {
		return nil, errors.New("csv missing")
	}))
}

type fakeChat struct {
	body map[string]any
	err  error
	got  domain.ChatRequest
}

func (f *fakeChat) Chat(ctx context.Context, req domain.ChatRequest) (map[string]any, error) {
	f.got = req
	return f.body, f.err
}

type fakeRunner struct {
	out      []byte
	err      error
	calls    int
	embedOut []byte
	embedErr error
}

func (f *fakeRunner) Search(ctx context.Context, q domain.SearchQuery) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

func (f *fakeRunner) CreateEmbeddings(ctx context.Context) ([]byte, error) {
	return f.embedOut, f.embedErr
}

type reasonErr string

func (e reasonErr) Error() string         { return "search process " + string(e) }
func (e reasonErr) FailureReason() string { return string(e) }

// fakeCache stores JSON like the real adapters do, so values round-trip through encoding.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeRepo struct {
	items map[string][]domain.WishlistItem
	lists int
}

func (r *fakeRepo) AddItem(ctx context.Context, userID, hotelID string) error {
	if r.items == nil {
		r.items = map[string][]domain.WishlistItem{}
	}
	for _, it := range r.items[userID] {
		if it.HotelID == hotelID {
			return nil
		}
	}
	r.items[userID] = append(r.items[userID], domain.WishlistItem{
		UserID: userID, HotelID: hotelID, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	return nil
}

func (r *fakeRepo) RemoveItem(ctx context.Context, userID, hotelID string) error {
	kept := r.items[userID][:0]
	for _, it := range r.items[userID] {
		if it.HotelID != hotelID {
			kept = append(kept, it)
		}
	}
	r.items[userID] = kept
	return nil
}

func (r *fakeRepo) ListItems(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	r.lists++
	return append([]domain.WishlistItem(nil), r.items[userID]...), nil
}
