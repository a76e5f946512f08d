package chatapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel_finder/internal/adapters/chatapi"
	"hotel_finder/internal/domain"
)

func TestClient_Chat_ForwardsPayload(t *testing.T) {
	var got domain.ChatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": "Đây là vài gợi ý",
			"hotels":   []any{map[string]any{"name": "Rex"}},
		})
	}))
	defer ts.Close()

	cl, err := chatapi.New(ts.URL+"/", time.Second, 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := cl.Chat(ctx, domain.ChatRequest{
		Message: "khách sạn quận 1",
		TopK:    5,
		History: []domain.ChatTurn{{Role: "user", Content: "xin chào"}},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out["response"] != "Đây là vài gợi ý" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if got.Message != "khách sạn quận 1" || got.TopK != 5 || len(got.History) != 1 {
		t.Fatalf("upstream saw: %+v", got)
	}
}

func TestClient_Chat_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cl, _ := chatapi.New(ts.URL, time.Second, 100)
	_, err := cl.Chat(context.Background(), domain.ChatRequest{Message: "hi", TopK: 10})
	if err == nil {
		t.Fatalf("expected error for 503")
	}
	if !errors.Is(err, domain.ErrUpstream) || !errors.Is(err, chatapi.ErrBadStatus) {
		t.Fatalf("unexpected error chain: %v", err)
	}
}

func TestClient_Chat_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close() // nothing listens there any more

	cl, _ := chatapi.New(url, time.Second, 100)
	_, err := cl.Chat(context.Background(), domain.ChatRequest{Message: "hi", TopK: 10})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestClient_Chat_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer ts.Close()

	cl, _ := chatapi.New(ts.URL, time.Second, 100)
	_, err := cl.Chat(context.Background(), domain.ChatRequest{Message: "hi", TopK: 10})
	if !errors.Is(err, chatapi.ErrBadBody) {
		t.Fatalf("expected bad body error, got %v", err)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := chatapi.New("", time.Second, 1); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
