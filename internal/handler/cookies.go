package handler

import (
	"net/http"
	"time"

	"go-session-auth/internal/middleware"
)

type sessionCookies struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func (c sessionCookies) access(token string) *http.Cookie {
	return c.cookie(middleware.AccessTokenCookie, token, c.accessTTL)
}

func (c sessionCookies) refresh(token string) *http.Cookie {
	return c.cookie(middleware.RefreshTokenCookie, token, c.refreshTTL)
}

// clear returns a cookie that makes the browser drop name immediately.
func (c sessionCookies) clear(name string) *http.Cookie {
	cookie := c.cookie(name, "", 0)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	return cookie
}

func (c sessionCookies) cookie(name string, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
