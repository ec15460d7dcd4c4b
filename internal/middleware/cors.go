package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the listed origins to call the API with cookies attached. With
// no origins configured the API is same-origin only and no CORS headers are
// emitted; rs/cors would otherwise treat an empty list as "allow all".
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           3600,
		AllowCredentials: true,
	})

	return handler.Handler
}
