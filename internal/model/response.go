package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type LoginResponse struct {
	User         PublicUser `json:"user"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
}

type RegisterResponse struct {
	ID string `json:"id"`
}

type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *SessionIdentity `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
