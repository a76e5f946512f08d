// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

const maxBodyBytes = 1 << 20

// Handlers holds the application services. Wishlist is nil when no
// database is configured.
type Handlers struct {
	Chat     *app.ChatService
	Search   *app.SearchService
	Q        *app.QueryService
	Wishlist *app.WishlistService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(s.opts.Timeout))

		r.Post("/api/chat", h.chat)
		r.Get("/api/semantic-search", h.search)
		r.Post("/api/semantic-search", h.search)

		r.Get("/api/properties", h.listProperties)
		r.Get("/api/properties/filters", h.filters)
		r.Get("/api/properties/{id}", h.getProperty)

		r.Get("/api/wishlist", h.getWishlist)
		r.Post("/api/wishlist", h.addWishlist)
		r.Delete("/api/wishlist/{hotelId}", h.removeWishlist)
	})

	// index builds run far longer than a normal request
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(s.opts.EmbedTimeout + embedMargin))
		r.Post("/api/create-embeddings", h.createEmbeddings)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Bad Request", strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": "))
	case errors.Is(err, domain.ErrUnauthenticated):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "X-User-ID header is required")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
	case errors.Is(err, domain.ErrCatalog):
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "hotel catalog is unavailable")
	case errors.Is(err, domain.ErrUpstream):
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "upstream service failed")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// decodeObject reads a JSON object body; an empty body is an empty object.
func decodeObject(r *http.Request) (map[string]any, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	body, err := decodeObject(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "body must be a JSON object")
		return
	}
	req, err := app.ParseChatRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Chat.Chat(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("component", "chat").Msg("chat service failed")
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	params := map[string]any{}
	if r.Method == http.MethodPost {
		body, err := decodeObject(r)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "body must be a JSON object")
			return
		}
		params = body
	} else {
		for k := range r.URL.Query() {
			params[k] = r.URL.Query().Get(k)
		}
	}
	q, err := app.ParseSearchQuery(params)
	if err != nil {
		writeError(w, err)
		return
	}
	res := h.Search.Search(r.Context(), q)
	writeJSON(w, http.StatusOK, res.Body())
}

func (h *Handlers) createEmbeddings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Search.CreateEmbeddings(r.Context())
	if err != nil {
		log.Error().Err(err).Str("component", "embeddings").Msg("create embeddings failed")
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "embedding creation failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		log.Error().Err(err).Msg("failed to write embeddings body")
	}
}

func queryInt(r *http.Request, key string) (int, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	return n, err == nil && n >= 0
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit")
	if !ok || limit > app.PropertiesMaxLimit {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100")
		return
	}
	offset, ok := queryInt(r, "offset")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid offset", "offset must be a non-negative integer")
		return
	}
	page, err := h.Q.ListProperties(r.Context(), domain.PropertyQuery{
		District:   strings.TrimSpace(r.URL.Query().Get("district")),
		SearchType: strings.TrimSpace(r.URL.Query().Get("search_type")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) filters(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Filters(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Q.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(resp)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getProperty body")
	}
}

// wishlistUser returns the caller's id, or writes the error response and "".
func (h *Handlers) wishlistUser(w http.ResponseWriter, r *http.Request) string {
	if h.Wishlist == nil {
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "wishlist storage is not configured")
		return ""
	}
	uid := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if uid == "" {
		writeError(w, domain.ErrUnauthenticated)
	}
	return uid
}

func (h *Handlers) getWishlist(w http.ResponseWriter, r *http.Request) {
	uid := h.wishlistUser(w, r)
	if uid == "" {
		return
	}
	wl, err := h.Q.Wishlist(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

func (h *Handlers) addWishlist(w http.ResponseWriter, r *http.Request) {
	uid := h.wishlistUser(w, r)
	if uid == "" {
		return
	}
	body, err := decodeObject(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "body must be a JSON object")
		return
	}
	hotelID, _ := body["hotel_id"].(string)
	if hotelID == "" {
		hotelID, _ = body["hotelId"].(string)
	}
	if err := h.Wishlist.Add(r.Context(), uid, hotelID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"hotelId": strings.TrimSpace(hotelID)})
}

func (h *Handlers) removeWishlist(w http.ResponseWriter, r *http.Request) {
	uid := h.wishlistUser(w, r)
	if uid == "" {
		return
	}
	if err := h.Wishlist.Remove(r.Context(), uid, chi.URLParam(r, "hotelId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
