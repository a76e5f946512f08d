package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_finder/internal/adapters/chatapi"
	server "hotel_finder/internal/adapters/http_server"
	"hotel_finder/internal/adapters/memcache"
	"hotel_finder/internal/adapters/observability"
	redisad "hotel_finder/internal/adapters/redis"
	"hotel_finder/internal/adapters/searchproc"
	"hotel_finder/internal/app"
	"hotel_finder/internal/catalog"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/shared"
	mysqlrepo "hotel_finder/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// cache: redis when configured, in-process otherwise
	var cache domain.Cache = memcache.New(cfg.CacheTTL)
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, using in-process cache")
		} else {
			cache = rc
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache ok")
		}
	}

	// deps
	cat := catalog.New(catalog.CSVSource{Path: cfg.CatalogCSV})
	if snap, err := cat.Get(ctx); err != nil {
		log.Warn().Err(err).Str("path", cfg.CatalogCSV).Msg("catalog not loaded at startup")
	} else {
		log.Info().Int("records", snap.Len()).Msg("catalog loaded")
	}

	chat, err := chatapi.New(cfg.ChatBase, cfg.ChatTimeout, cfg.ChatRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize chat client")
	}
	runner := searchproc.New(searchproc.Options{
		Python:       cfg.SearchPython,
		Script:       cfg.SearchScript,
		MaxProcs:     cfg.SearchWorkers,
		EmbedTimeout: cfg.EmbedTimeout,
	})

	h := &server.Handlers{
		Chat:   app.NewChatService(chat, cat),
		Search: app.NewSearchService(runner, cat, cache, cfg.SearchCacheTTL),
	}

	var repo domain.WishlistRepository
	if cfg.MySQLDSN != "" {
		db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()
		log.Info().Msg("database connection ok")
		r := mysqlrepo.New(db)
		repo = r
		h.Wishlist = app.NewWishlistService(r, cache)
	}
	h.Q = app.NewQueryService(cat, repo, cache, cfg.CacheTTL)

	// http
	srv := server.New(server.Options{
		CORSOrigins:  cfg.CORSOrigins,
		Timeout:      cfg.RequestTimeout,
		EmbedTimeout: cfg.EmbedTimeout,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("chat", cfg.ChatBase).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
