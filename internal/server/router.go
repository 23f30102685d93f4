// Package server wires the HTTP surface together.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/langerprakhar/referral-service/internal/config"
	"github.com/langerprakhar/referral-service/internal/handler"
	"github.com/langerprakhar/referral-service/internal/middleware"
	"github.com/langerprakhar/referral-service/pkg/auth"
)

// Auth endpoints share a strict per-IP budget.
const (
	authRateLimit  = 5
	authRateWindow = 15 * time.Minute
)

// NewRouter builds the chi router with all cross-cutting middleware applied.
func NewRouter(
	cfg *config.Config,
	logger *zerolog.Logger,
	jwtAuth auth.JWTAuthenticator,
	authHandler *handler.AuthHandler,
	referralHandler *handler.ReferralHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(hlog.NewHandler(*logger))
	r.Use(hlog.AccessHandler(func(req *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(req).Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
	}))
	r.Use(csrf.Protect(
		[]byte(cfg.CSRFKey),
		csrf.Secure(cfg.IsProduction()),
		csrf.Path("/"),
	))

	r.Get("/health", handler.Health)
	r.Get("/api/csrf-token", handler.CSRFToken)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(authRateLimit, authRateWindow))
		r.Post("/api/register", authHandler.Register)
		r.Post("/api/login", authHandler.Login)
		r.Post("/api/forgot-password", authHandler.ForgotPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(logger, jwtAuth, cfg.JWTSecret))
		r.Get("/api/referrals", referralHandler.GetReferrals)
		r.Get("/api/referral-stats", referralHandler.GetReferralStats)
	})

	return r
}
