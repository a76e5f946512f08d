package domain

import "context"

type WishlistRepository interface {
	// Write paths
	AddItem(ctx context.Context, userID, hotelID string) error
	RemoveItem(ctx context.Context, userID, hotelID string) error

	// Read paths
	ListItems(ctx context.Context, userID string) ([]WishlistItem, error)
}

// ChatClient talks to the external inference service. The returned map is the
// decoded upstream body, untouched.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (map[string]any, error)
}

// SearchRunner runs the external semantic search process and returns its raw stdout.
type SearchRunner interface {
	Search(ctx context.Context, q SearchQuery) ([]byte, error)
	CreateEmbeddings(ctx context.Context) ([]byte, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
