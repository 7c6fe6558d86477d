package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/maxirosso/tpo-sipii-back/internal/config"
	"github.com/maxirosso/tpo-sipii-back/internal/handlers"
	"github.com/maxirosso/tpo-sipii-back/internal/middleware"
	"github.com/maxirosso/tpo-sipii-back/internal/repo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the full HTTP surface: public catalog and auth endpoints,
// and the bearer-token group for collection and trading.
func newRouter(db *sql.DB, cfg config.Config) chi.Router {
	userRepo := repo.NewUserRepo(db)
	cardRepo := repo.NewCardRepo(db)
	tradeRepo := repo.NewTradeRepo(db)

	authHandler := &handlers.AuthHandler{
		Users:    userRepo,
		Cards:    cardRepo,
		Trades:   tradeRepo,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: time.Duration(cfg.JWTExpireMinutes) * time.Minute,
	}
	cardHandler := &handlers.CardHandler{
		Cards:       cardRepo,
		Trades:      tradeRepo,
		RandomCount: cfg.RandomCardsCount,
	}
	tradeHandler := &handlers.TradeHandler{
		Cards:             cardRepo,
		Users:             userRepo,
		Trades:            tradeRepo,
		AllowUnownedClaim: cfg.AllowUnownedClaim,
	}
	userHandler := &handlers.UserHandler{Repo: userRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	// Operational endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public
	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})
	r.Get("/all-cards", cardHandler.ListAllCards)

	// Bearer token required
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTMiddleware([]byte(cfg.JWTSecret)))
		r.Get("/cards", cardHandler.ListMyCards)
		r.Post("/add-card", cardHandler.AddCard)
		r.Post("/add-random-cards", cardHandler.AddRandomCards)
		r.Post("/trade", tradeHandler.Trade)
		r.Get("/trades", tradeHandler.ListTrades)
		r.Get("/users", userHandler.ListUsers)
	})

	return r
}
