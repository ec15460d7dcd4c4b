package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-session-auth/internal/config"
	"go-session-auth/internal/handler"
	"go-session-auth/internal/middleware"
)

const (
	APIPrefix   = "/api/v1"
	RefreshPath = APIPrefix + "/auth/refresh-token"
)

func New(
	cfg *config.Config,
	sessionMiddleware *middleware.SessionMiddleware,
	authHandler *handler.AuthHandler,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route(APIPrefix, func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(sessionMiddleware.Handler)

		api.Get("/session", authHandler.Session)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.Post("/refresh-token", authHandler.RefreshToken)
			auth.Post("/logout", authHandler.Logout)
		})

		api.With(sessionMiddleware.RequireIdentity).Get("/protected", authHandler.Protected)
	})

	return r
}
