package model

// Credentials is the typed input of both the login and register operations.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
