package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-session-auth/internal/metrics"
	"go-session-auth/internal/model"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type sessionClaims struct {
	Username string `json:"username"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the access/refresh pair. The two kinds use
// separate keys, so a leaked key only compromises one of them. Validity is a
// function of signature and expiry alone; nothing is stored server side.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration, opts ...TokenOption) (*TokenService, error) {
	if strings.TrimSpace(accessSecret) == "" || strings.TrimSpace(refreshSecret) == "" {
		return nil, errors.New("access and refresh signing keys are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh signing keys must differ")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	s := &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// IssueTokenPair signs an access and a refresh token for the same identity.
func (s *TokenService) IssueTokenPair(identity model.SessionIdentity) (model.TokenPair, error) {
	if identity.UserID == "" {
		return model.TokenPair{}, errors.New("session identity has no user id")
	}

	now := s.now()

	access, err := s.sign(identity, TokenTypeAccess, now, s.accessTTL, s.accessSecret)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.sign(identity, TokenTypeRefresh, now, s.refreshTTL, s.refreshSecret)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return model.TokenPair{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// VerifyAccessToken returns model.ErrTokenExpired for a correctly signed but
// expired token and model.ErrTokenInvalid for everything else.
func (s *TokenService) VerifyAccessToken(token string) (model.SessionIdentity, error) {
	identity, err := s.verify(token, TokenTypeAccess, s.accessSecret)
	metrics.RecordTokenVerification(TokenTypeAccess, verificationResult(err))
	return identity, err
}

// VerifyRefreshToken is the refresh-key counterpart of VerifyAccessToken.
func (s *TokenService) VerifyRefreshToken(token string) (model.SessionIdentity, error) {
	identity, err := s.verify(token, TokenTypeRefresh, s.refreshSecret)
	metrics.RecordTokenVerification(TokenTypeRefresh, verificationResult(err))
	return identity, err
}

// RefreshAccessToken mints a new access token from a refresh token. The
// refresh token itself is neither rotated nor invalidated. Any verification
// failure, expiry included, is reported as model.ErrTokenInvalid.
func (s *TokenService) RefreshAccessToken(refreshToken string) (model.AccessToken, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		metrics.RecordTokenRefresh(metrics.ResultMissing)
		return model.AccessToken{}, model.ErrTokenMissing
	}

	identity, err := s.VerifyRefreshToken(refreshToken)
	if err != nil {
		metrics.RecordTokenRefresh(metrics.ResultInvalid)
		return model.AccessToken{}, model.ErrTokenInvalid
	}

	access, err := s.sign(identity, TokenTypeAccess, s.now(), s.accessTTL, s.accessSecret)
	if err != nil {
		metrics.RecordTokenRefresh(metrics.ResultError)
		return model.AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	metrics.RecordTokenRefresh(metrics.ResultSuccess)
	return access, nil
}

func (s *TokenService) sign(identity model.SessionIdentity, typ string, now time.Time, ttl time.Duration, secret []byte) (model.AccessToken, error) {
	expiresAt := now.Add(ttl)
	claims := sessionClaims{
		Username: identity.Username,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return model.AccessToken{}, err
	}

	return model.AccessToken{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *TokenService) verify(token string, expectedType string, secret []byte) (model.SessionIdentity, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	// jwt/v5 checks the signature before the claims, so an expiry error
	// implies the token was signed with our key.
	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		return model.SessionIdentity{}, model.ErrTokenInvalid
	}
	if claims.Type != expectedType || claims.Subject == "" {
		return model.SessionIdentity{}, model.ErrTokenInvalid
	}
	if err != nil {
		return model.SessionIdentity{}, model.ErrTokenExpired
	}

	return model.SessionIdentity{UserID: claims.Subject, Username: claims.Username}, nil
}

func verificationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultValid
	case errors.Is(err, model.ErrTokenExpired):
		return metrics.ResultExpired
	default:
		return metrics.ResultInvalid
	}
}
