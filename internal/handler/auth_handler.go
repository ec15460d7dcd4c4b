package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go-session-auth/internal/middleware"
	"go-session-auth/internal/model"
	"go-session-auth/internal/service"
	"go-session-auth/pkg/apierror"
)

const maxCredentialsBody = 1 << 20

type AuthHandlerOptions struct {
	SecureCookies bool
	// VerboseRegisterErrors surfaces the store's own failure message on
	// registration. Validation and conflict messages are always surfaced.
	VerboseRegisterErrors bool
}

type AuthHandler struct {
	service *service.AuthService
	cookies sessionCookies
	verbose bool
}

func NewAuthHandler(service *service.AuthService, opts AuthHandlerOptions) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: sessionCookies{
			secure:     opts.SecureCookies,
			accessTTL:  service.Tokens().AccessTTL(),
			refreshTTL: service.Tokens().RefreshTTL(),
		},
		verbose: opts.VerboseRegisterErrors,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCredentials(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.service.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, h.registerError(err))
		return
	}

	writeSuccess(w, http.StatusCreated, model.RegisterResponse{ID: id})
}

func (h *AuthHandler) registerError(err error) error {
	if errors.Is(err, model.ErrValidation) || errors.Is(err, model.ErrUserAlreadyExists) {
		return err
	}
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) || !h.verbose {
		return err
	}
	return apierror.BadRequest(err.Error(), "")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCredentials(w, r)
	if err != nil {
		writeError(w, r, loginError(err))
		return
	}

	user, pair, err := h.service.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, loginError(err))
		return
	}

	http.SetCookie(w, h.cookies.access(pair.AccessToken))
	http.SetCookie(w, h.cookies.refresh(pair.RefreshToken))

	writeSuccess(w, http.StatusOK, model.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// loginError reports every credential failure as 401 with a plain message.
func loginError(err error) error {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return apierror.Unauthorized(validationErr.Message)
	}
	return err
}

// RefreshToken reads the refresh cookie only; it never looks at the body.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(middleware.RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	access, err := h.service.Refresh(refreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, h.cookies.access(access.Token))
	writeSuccess(w, http.StatusOK, access)
}

// Logout only clears the cookies. Tokens already handed out stay valid until
// they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookies.clear(middleware.AccessTokenCookie))
	http.SetCookie(w, h.cookies.clear(middleware.RefreshTokenCookie))

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Logout successful"})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeSuccess(w, http.StatusOK, model.SessionResponse{})
		return
	}

	writeSuccess(w, http.StatusOK, model.SessionResponse{Authenticated: true, User: &identity})
}

func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, apierror.Forbidden("Access not authorized"))
		return
	}

	writeSuccess(w, http.StatusOK, identity)
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (model.Credentials, error) {
	defer r.Body.Close()

	var in model.Credentials
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCredentialsBody)).Decode(&in)
	if err == nil || errors.Is(err, io.EOF) {
		return in, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := strings.ToLower(typeErr.Field)
		return in, model.NewValidationError(field, strings.ToUpper(field[:1])+field[1:]+" must be a string")
	}

	return in, apierror.BadRequest("invalid JSON body", "")
}

func requestID(r *http.Request) string {
	return middleware.RequestIDFromContext(r.Context())
}
