package domain

import "time"

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload forwarded to the inference service.
type ChatRequest struct {
	Message string         `json:"message"`
	TopK    int            `json:"top_k"`
	Filters map[string]any `json:"filters,omitempty"`
	History []ChatTurn     `json:"history,omitempty"`
}

type ChatResponse struct {
	Response  string      `json:"response"`
	Hotels    []HotelCard `json:"hotels"`
	Sources   []HotelCard `json:"sources"`
	TopK      int         `json:"top_k"`
	Timestamp time.Time   `json:"timestamp"`
}
