package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"taskhub/internal/domain"
	"taskhub/internal/service/impl"
)

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorBody{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrDuplicateMobile),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrInvalidOrExpiredOtp),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrVerificationFailed),
		errors.Is(err, impl.ErrNoUpdateFields),
		errors.Is(err, impl.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTooManyOtpRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrOtpDeliveryFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrUnknownRefreshToken),
		errors.Is(err, domain.ErrDeviceMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPhoneNotVerified):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTodoNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
