package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appmiddleware "github.com/BorisDmv/tweetbot/internal/middleware"
)

type RouterOptions struct {
	Bot                http.Handler
	Metrics            http.Handler
	Limiter            *appmiddleware.RateLimiter
	CorsAllowedOrigins []string
}

// NewRouter mounts the bot at / and /api, plus /health and /metrics.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   opts.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", CronHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/health", Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	bot := opts.Bot
	if opts.Limiter != nil {
		bot = opts.Limiter.Limit(bot)
	}
	r.Handle("/", bot)
	r.Handle("/api", bot)
	return r
}
