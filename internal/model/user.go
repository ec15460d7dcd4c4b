package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public strips everything but the identifying fields.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// SessionIdentity is the payload carried inside both token kinds.
type SessionIdentity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type AccessToken struct {
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"access_expires_at"`
}
