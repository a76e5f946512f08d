package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// embedMargin leaves room for the embeddings handler to answer after the
// process itself has been killed at its own deadline.
const embedMargin = 30 * time.Second

type Options struct {
	CORSOrigins []string
	// Timeout bounds an ordinary API request; it must exceed the search process ceiling.
	Timeout time.Duration
	// EmbedTimeout is the embeddings process ceiling; that route gets it plus a margin.
	EmbedTimeout time.Duration
}

type Server struct {
	mux  *chi.Mux
	opts Options
}

func New(o Options) *Server {
	if o.Timeout <= 0 {
		o.Timeout = 150 * time.Second
	}
	if o.EmbedTimeout <= 0 {
		o.EmbedTimeout = 10 * time.Minute
	}
	m := chi.NewRouter()

	// Metrics and Logger sit outside the per-route timeouts so a timed-out
	// request is recorded with the 503 it actually got.
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(cors.New(cors.Options{
		AllowedOrigins:   o.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-User-ID", "If-None-Match"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m, opts: o}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
