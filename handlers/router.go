package handlers

import (
	"net/http"
	"time"

	"Marquee/config"
	"Marquee/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the API routes and middleware stack.
func NewRouter(cfg *config.Config, h *Handler, users middleware.UserLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
		}

		r.Get("/genres", h.Genres)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", h.ListMovies)
			r.Post("/search", h.SearchMovies)
			r.Get("/search", h.RankedSearch)
			r.Get("/{id}", h.GetMovie)
			r.Get("/{id}/similar", h.SimilarMovies)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(middleware.RequireAuth(users)).Get("/me", h.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(users))

			r.Route("/watchlist", func(r chi.Router) {
				r.Get("/", h.GetWatchlist)
				r.Post("/", h.ToggleWatchlist)
				r.Get("/recommendations", h.Recommendations)
				r.Put("/{id}", h.AddToWatchlist)
				r.Delete("/{id}", h.RemoveFromWatchlist)
			})

			r.Post("/admin/sync", h.TriggerSync)
		})
	})

	return r
}
