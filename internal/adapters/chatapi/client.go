// internal/adapters/chatapi/client.go
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
)

// Client forwards chat turns to the inference service. One attempt per call:
// the caller answers failures with an apology rather than retrying.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, timeout time.Duration, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("chat service URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrBadStatus = errors.New("chatapi: bad status")
	ErrBadBody   = errors.New("chatapi: undecodable body")
)

func (c *Client) Chat(ctx context.Context, req domain.ChatRequest) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/chat", req, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// post sends in as JSON and decodes a 2xx JSON answer into out.
func (c *Client) post(ctx context.Context, endpoint string, in, out any) error {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-finder/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("chat_service", endpoint, -1, time.Since(start))
		log.Warn().Str("endpoint", endpoint).Str("err_type", observability.LabelErr(err)).Err(err).Msg("chat service unreachable")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("chat_service", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w %d: %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrBadBody, err)
	}
	return nil
}
