package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CatalogCSV     string
	ChatBase       string
	ChatTimeout    time.Duration
	ChatRPS        int
	SearchPython   string
	SearchScript   string
	SearchWorkers  int
	EmbedTimeout   time.Duration
	SearchCacheTTL time.Duration
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honoured outside production; real env vars always win.
func Load() Config {
	if env("APP_ENV", "prod") != "prod" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Msg(".env could not be loaded")
		}
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	secs := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Second
	}

	addr := env("HTTP_ADDR", "")
	if addr == "" {
		addr = ":" + env("PORT", "3001")
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       addr,
		MetricsAddr:    env("METRICS_ADDR", ""),
		MySQLDSN:       env("MYSQL_DSN", ""),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CatalogCSV:     env("CATALOG_CSV", "data/hotels.csv"),
		ChatBase:       strings.TrimRight(env("CHAT_SERVICE_URL", "http://localhost:8000"), "/"),
		ChatTimeout:    secs("CHAT_TIMEOUT_SECONDS", 60),
		ChatRPS:        atoi("CHAT_RPS", 10),
		SearchPython:   env("SEARCH_PYTHON", "python3"),
		SearchScript:   env("SEARCH_SCRIPT", "scripts/semantic_search.py"),
		SearchWorkers:  atoi("SEARCH_MAX_PROCS", 4),
		EmbedTimeout:   secs("EMBEDDINGS_TIMEOUT_SECONDS", 600),
		SearchCacheTTL: secs("SEARCH_CACHE_TTL_SECONDS", 600),
		CacheTTL:       secs("CACHE_TTL_SECONDS", 300),
		RequestTimeout: secs("REQUEST_TIMEOUT_SECONDS", 150),
		CORSOrigins:    splitList(env("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}
	if c.MySQLDSN == "" {
		log.Warn().Msg("MYSQL_DSN is empty; wishlist routes are disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
