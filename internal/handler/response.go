package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-session-auth/internal/model"
	"go-session-auth/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    apierror.CodeInternal,
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	var validationErr *model.ValidationError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.As(err, &validationErr) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeBadRequest
		body.Message = validationErr.Message
		body.Details = validationErr.Field
	} else if errors.Is(err, model.ErrUserAlreadyExists) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeBadRequest
		body.Message = "User already exists"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthorized
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrInvalidPassword) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthorized
		body.Message = "Invalid password"
	} else if errors.Is(err, model.ErrTokenMissing) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthorized
		body.Message = "No refresh token provided"
	} else if errors.Is(err, model.ErrTokenInvalid) || errors.Is(err, model.ErrTokenExpired) {
		status = http.StatusForbidden
		body.Code = apierror.CodeForbidden
		body.Message = "Invalid refresh token"
	} else {
		slog.Error("unhandled error in writeError",
			"error", err.Error(),
			"path", r.URL.Path,
			"request_id", requestID(r))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
