package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/catalog"
	"hotel_finder/internal/domain"
)

const (
	ChatDefaultTopK = 10
	ChatMaxTopK     = 50
	MaxHistoryTurns = 20

	// ChatApology is shown to the user whenever the inference service fails.
	ChatApology = "Xin lỗi, hệ thống tư vấn đang gặp sự cố. Bạn vui lòng thử lại sau ít phút nhé."
)

var chatRoles = map[string]bool{"user": true, "assistant": true, "system": true}

// ParseChatRequest validates a decoded chat body.
func ParseChatRequest(body map[string]any) (domain.ChatRequest, error) {
	msg, _ := body["message"].(string)
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return domain.ChatRequest{}, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}
	req := domain.ChatRequest{
		Message: msg,
		TopK:    clampInt(intFlexible(body["top_k"]), ChatDefaultTopK, 1, ChatMaxTopK),
	}
	if f, ok := body["filters"].(map[string]any); ok {
		req.Filters = f
	}
	req.History = parseHistory(body["history"])
	return req, nil
}

func parseHistory(v any) []domain.ChatTurn {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []domain.ChatTurn
	for _, it := range raw {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		role, _ := m["role"].(string)
		content, _ := m["content"].(string)
		role = strings.ToLower(strings.TrimSpace(role))
		if !chatRoles[role] || strings.TrimSpace(content) == "" {
			continue
		}
		out = append(out, domain.ChatTurn{Role: role, Content: content})
	}
	if len(out) > MaxHistoryTurns {
		out = out[len(out)-MaxHistoryTurns:]
	}
	return out
}

// intFlexible reads an int from a JSON number or numeric text, nil otherwise.
func intFlexible(v any) *int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		p, ok := catalog.ParseNumber(t)
		if !ok {
			return nil
		}
		f = p
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Round(f))
	return &n
}

func clampInt(p *int, def, lo, hi int) int {
	if p == nil {
		return def
	}
	return min(max(*p, lo), hi)
}

type ChatService struct {
	client  domain.ChatClient
	catalog CatalogReader
	now     func() time.Time
}

func NewChatService(c domain.ChatClient, cat CatalogReader) *ChatService {
	return &ChatService{client: c, catalog: cat, now: time.Now}
}

// Chat forwards the request and enriches the returned hotels. On upstream
// failure it returns the apology payload together with the error.
func (s *ChatService) Chat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	out := domain.ChatResponse{
		Hotels:    []domain.HotelCard{},
		Sources:   []domain.HotelCard{},
		TopK:      req.TopK,
		Timestamp: s.now().UTC(),
	}

	body, err := s.client.Chat(ctx, req)
	if err != nil {
		out.Response = ChatApology
		return out, err
	}

	out.Response = chatText(body)
	candidates := chatCandidates(body)
	if len(candidates) > req.TopK {
		candidates = candidates[:req.TopK]
	}
	if len(candidates) == 0 {
		return out, nil
	}

	snap, cerr := s.catalog.Get(ctx)
	if cerr != nil {
		log.Warn().Err(cerr).Str("component", "chat").Msg("catalog unavailable, skipping enrichment")
		snap = nil
	}
	cards := make([]domain.HotelCard, 0, len(candidates))
	for _, x := range candidates {
		cards = append(cards, cardFromExternal(snap, x))
	}
	out.Hotels = cards
	out.Sources = cards
	return out, nil
}

func chatText(body map[string]any) string {
	for _, k := range []string{"response", "answer", "reply", "message"} {
		if s, ok := body[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// chatCandidates takes the first non-empty hotel array the service sent.
func chatCandidates(body map[string]any) []domain.ExternalHotel {
	for _, p := range []string{"hotels", "tool_result.results", "sources"} {
		if list := asExternalList(lookupAny(body, p)); len(list) > 0 {
			return list
		}
	}
	return nil
}
