package service

import (
	"context"
	"errors"

	"go-session-auth/internal/model"
)

// AuthService ties the credential store to the token service for the
// login/register/refresh operations exposed over HTTP.
type AuthService struct {
	credentials *CredentialService
	tokens      *TokenService
}

func NewAuthService(credentials *CredentialService, tokens *TokenService) (*AuthService, error) {
	if credentials == nil || tokens == nil {
		return nil, errors.New("credential and token services are required")
	}
	return &AuthService{credentials: credentials, tokens: tokens}, nil
}

func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

func (s *AuthService) Register(ctx context.Context, in model.Credentials) (string, error) {
	return s.credentials.Create(ctx, in)
}

// Login verifies the credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, in model.Credentials) (model.PublicUser, model.TokenPair, error) {
	user, err := s.credentials.VerifyCredentials(ctx, in)
	if err != nil {
		return model.PublicUser{}, model.TokenPair{}, err
	}

	pair, err := s.tokens.IssueTokenPair(model.SessionIdentity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return model.PublicUser{}, model.TokenPair{}, err
	}

	return user, pair, nil
}

func (s *AuthService) Refresh(refreshToken string) (model.AccessToken, error) {
	return s.tokens.RefreshAccessToken(refreshToken)
}

func (s *AuthService) VerifyAccessToken(token string) (model.SessionIdentity, error) {
	return s.tokens.VerifyAccessToken(token)
}
