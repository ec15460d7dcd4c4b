package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-session-auth/internal/model"
	"go-session-auth/pkg/apierror"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

type accessTokenVerifier interface {
	VerifyAccessToken(token string) (model.SessionIdentity, error)
}

type contextKey string

const identityContextKey contextKey = "session_identity"

// SessionMiddleware decodes the access token on every request and attaches
// the resulting identity to the context. It only decodes; enforcing that an
// identity is present is left to RequireIdentity or the handler.
type SessionMiddleware struct {
	verifier    accessTokenVerifier
	refreshPath string
}

// NewSessionMiddleware takes the path of the refresh operation, which must
// stay reachable with an expired access token.
func NewSessionMiddleware(verifier accessTokenVerifier, refreshPath string) *SessionMiddleware {
	return &SessionMiddleware{verifier: verifier, refreshPath: normalizePath(refreshPath)}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := accessTokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.verifier.VerifyAccessToken(token)
		switch {
		case err == nil:
			r = r.WithContext(WithIdentity(r.Context(), identity))
		case errors.Is(err, model.ErrTokenExpired):
			if normalizePath(r.URL.Path) != m.refreshPath {
				writeAPIError(w, apierror.TokenExpired("Access token expired, please refresh"))
				return
			}
		default:
			// Malformed or foreign tokens are treated as no token at all.
			slog.Debug("ignoring invalid access token", "path", r.URL.Path)
		}

		next.ServeHTTP(w, r)
	})
}

// RequireIdentity rejects requests that carry no verified identity.
func (m *SessionMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			writeAPIError(w, apierror.Forbidden("Access not authorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, identity model.SessionIdentity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (model.SessionIdentity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.SessionIdentity)
	return identity, ok
}

// accessTokenFromRequest prefers the cookie and falls back to a bearer
// header for clients that do not keep cookies.
func accessTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value
		}
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return ""
}

func normalizePath(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}
	return path
}
