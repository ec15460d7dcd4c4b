package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-session-auth/internal/model"
)

type stubVerifier struct {
	tokens map[string]model.SessionIdentity
	errs   map[string]error
	seen   []string
}

func (s *stubVerifier) VerifyAccessToken(token string) (model.SessionIdentity, error) {
	s.seen = append(s.seen, token)
	if err, ok := s.errs[token]; ok {
		return model.SessionIdentity{}, err
	}
	if identity, ok := s.tokens[token]; ok {
		return identity, nil
	}
	return model.SessionIdentity{}, model.ErrTokenInvalid
}

const refreshPath = "/api/v1/auth/refresh-token"

var ann = model.SessionIdentity{UserID: "u-1", Username: "ann"}

func newStubVerifier() *stubVerifier {
	return &stubVerifier{
		tokens: map[string]model.SessionIdentity{"good": ann},
		errs:   map[string]error{"stale": model.ErrTokenExpired},
	}
}

// captureIdentity records what the downstream handler saw.
func captureIdentity(identity *model.SessionIdentity, present *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*identity, *present = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionMiddleware_Handler(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		cookie       string
		header       string
		wantStatus   int
		wantIdentity bool
		wantCode     string
	}{
		{name: "valid cookie", path: "/api/v1/session", cookie: "good", wantStatus: http.StatusOK, wantIdentity: true},
		{name: "bearer fallback", path: "/api/v1/session", header: "Bearer good", wantStatus: http.StatusOK, wantIdentity: true},
		{name: "lowercase bearer", path: "/api/v1/session", header: "bearer good", wantStatus: http.StatusOK, wantIdentity: true},
		{name: "no token", path: "/api/v1/session", wantStatus: http.StatusOK},
		{name: "invalid token passes through", path: "/api/v1/protected", cookie: "garbage", wantStatus: http.StatusOK},
		{name: "expired token is rejected", path: "/api/v1/protected", cookie: "stale", wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_EXPIRED"},
		{name: "expired token on session check", path: "/api/v1/session", cookie: "stale", wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_EXPIRED"},
		{name: "expired token may refresh", path: refreshPath, cookie: "stale", wantStatus: http.StatusOK},
		{name: "expired token may refresh with trailing slash", path: refreshPath + "/", cookie: "stale", wantStatus: http.StatusOK},
		{name: "non-bearer header ignored", path: "/api/v1/session", header: "Basic Zm9vOmJhcg==", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewSessionMiddleware(newStubVerifier(), refreshPath)

			var (
				identity model.SessionIdentity
				present  bool
			)
			handler := mw.Handler(captureIdentity(&identity, &present))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantIdentity, present)
			if tt.wantIdentity {
				assert.Equal(t, ann, identity)
			}

			if tt.wantCode != "" {
				var body model.APIResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				require.NotNil(t, body.Error)
				assert.False(t, body.Success)
				assert.Equal(t, tt.wantCode, body.Error.Code)
				assert.Equal(t, "Access token expired, please refresh", body.Error.Message)
			}
		})
	}
}

func TestSessionMiddleware_CookieWinsOverHeader(t *testing.T) {
	verifier := newStubVerifier()
	mw := NewSessionMiddleware(verifier, refreshPath)

	var (
		identity model.SessionIdentity
		present  bool
	)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "good"})
	req.Header.Set("Authorization", "Bearer garbage")

	mw.Handler(captureIdentity(&identity, &present)).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, present)
	assert.Equal(t, []string{"good"}, verifier.seen)
}

func TestSessionMiddleware_SkipsVerificationWithoutToken(t *testing.T) {
	verifier := newStubVerifier()
	mw := NewSessionMiddleware(verifier, refreshPath)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "  "})

	var (
		identity model.SessionIdentity
		present  bool
	)
	mw.Handler(captureIdentity(&identity, &present)).ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, present)
	assert.Empty(t, verifier.seen)
}

func TestSessionMiddleware_RequireIdentity(t *testing.T) {
	mw := NewSessionMiddleware(newStubVerifier(), refreshPath)
	protected := mw.Handler(mw.RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	t.Run("without identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil))

		require.Equal(t, http.StatusForbidden, rec.Code)
		var body model.APIResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.NotNil(t, body.Error)
		assert.Equal(t, "Access not authorized", body.Error.Message)
	})

	t.Run("with identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "good"})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
