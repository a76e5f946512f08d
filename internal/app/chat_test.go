package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

func TestParseChatRequest(t *testing.T) {
	_, err := app.ParseChatRequest(map[string]any{"message": "   "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = app.ParseChatRequest(map[string]any{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	cases := []struct {
		name string
		topK any
		want int
	}{
		{"default", nil, 10},
		{"number", 7.0, 7},
		{"numeric string", "25", 25},
		{"clamped high", 500.0, 50},
		{"clamped low", 0.0, 1},
		{"garbage", "many", 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := app.ParseChatRequest(map[string]any{"message": "hi", "top_k": tc.topK})
			require.NoError(t, err)
			assert.Equal(t, tc.want, req.TopK)
		})
	}
}

func TestParseChatRequest_History(t *testing.T) {
	var hist []any
	hist = append(hist,
		map[string]any{"role": "robot", "content": "dropped"},
		map[string]any{"role": "user", "content": "  "},
		"not an object",
	)
	for i := 0; i < 25; i++ {
		hist = append(hist, map[string]any{"role": "user", "content": fmt.Sprintf("turn %d", i)})
	}
	req, err := app.ParseChatRequest(map[string]any{
		"message": "khách sạn quận 1",
		"filters": map[string]any{"district": "1"},
		"history": hist,
	})
	require.NoError(t, err)
	require.Len(t, req.History, app.MaxHistoryTurns)
	assert.Equal(t, "turn 5", req.History[0].Content)
	assert.Equal(t, "turn 24", req.History[19].Content)
	assert.Equal(t, "1", req.Filters["district"])
}

func TestChat_EnrichesAndCaps(t *testing.T) {
	fc := &fakeChat{body: map[string]any{
		"answer": "Đây là vài gợi ý",
		"tool_result": map[string]any{"results": []any{
			map[string]any{"hotel_name": "khach san rex", "price": "1.800.000", "score": 0.91, "reason": "Reason: gần trung tâm"},
			map[string]any{"name": "Unknown Inn", "image": "https://img.example/x.jpg"},
			map[string]any{"name": "Third"},
		}},
	}}
	svc := app.NewChatService(fc, fixtureCatalog())

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "hi", TopK: 2})
	require.NoError(t, err)
	assert.Equal(t, "Đây là vài gợi ý", resp.Response)
	require.Len(t, resp.Hotels, 2)
	assert.Equal(t, resp.Hotels, resp.Sources)
	assert.Equal(t, 2, resp.TopK)
	assert.False(t, resp.Timestamp.IsZero())

	rex := resp.Hotels[0]
	assert.True(t, rex.CatalogMatched)
	assert.Equal(t, "h1", rex.ID)
	assert.Equal(t, "https://img.example/rex.jpg", rex.ImageURL)
	require.NotNil(t, rex.Price)
	assert.Equal(t, 1_800_000.0, *rex.Price)
	require.NotNil(t, rex.Score)
	assert.InDelta(t, 0.91, *rex.Score, 1e-9)
	assert.Equal(t, "District 1", rex.UI.DistrictLabel)
	assert.Contains(t, rex.UI.Badges, "Trung tâm")

	unknown := resp.Hotels[1]
	assert.False(t, unknown.CatalogMatched)
	assert.Equal(t, "https://img.example/x.jpg", unknown.ImageURL)
	assert.Equal(t, "Price not available", unknown.UI.PriceLabel)
}

func TestChat_UpstreamFailure(t *testing.T) {
	fc := &fakeChat{err: fmt.Errorf("%w: dial tcp: connection refused", domain.ErrUpstream)}
	svc := app.NewChatService(fc, fixtureCatalog())

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "hi", TopK: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.Equal(t, app.ChatApology, resp.Response)
	assert.NotContains(t, resp.Response, "refused")
	assert.Empty(t, resp.Hotels)
	assert.NotNil(t, resp.Hotels)
	assert.NotNil(t, resp.Sources)
	assert.Equal(t, 10, resp.TopK)
}

func TestChat_CatalogFailureStillAnswers(t *testing.T) {
	fc := &fakeChat{body: map[string]any{
		"response": "ok",
		"hotels":   []any{map[string]any{"name": "Khách Sạn Rex", "price_min": 900000.0}},
	}}
	svc := app.NewChatService(fc, brokenCatalog())

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "hi", TopK: 5})
	require.NoError(t, err)
	require.Len(t, resp.Hotels, 1)
	assert.False(t, resp.Hotels[0].CatalogMatched)
	assert.Equal(t, "From 900,000đ /night", resp.Hotels[0].UI.PriceLabel)
}

func TestChat_EmptyHotelsFallsThroughToSources(t *testing.T) {
	fc := &fakeChat{body: map[string]any{
		"reply":   "x",
		"hotels":  []any{},
		"sources": []any{map[string]any{"name": "From sources"}},
	}}
	svc := app.NewChatService(fc, fixtureCatalog())

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{Message: "hi", TopK: 5})
	require.NoError(t, err)
	require.Len(t, resp.Hotels, 1)
	assert.Equal(t, "From sources", resp.Hotels[0].Name)
	assert.Equal(t, "x", resp.Response)
}
