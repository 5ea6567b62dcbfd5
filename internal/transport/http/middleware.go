package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/observability/metrics"
	"taskhub/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

const (
	headerDeviceName = "Device-Name"
	headerDeviceUUID = "Device-Uuid"
)

// RequireStandardHeaders enforces the client contract on register/login/
// refresh: a JSON content type plus device identification headers.
func RequireStandardHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		details := map[string]string{}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			details["Content-Type"] = "must be application/json"
		}
		if r.Header.Get(headerDeviceName) == "" {
			details[headerDeviceName] = "this header is required"
		}
		if r.Header.Get(headerDeviceUUID) == "" {
			details[headerDeviceUUID] = "this header is required"
		}
		if len(details) > 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing required headers", Details: details})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate validates the bearer access token and puts the caller's user
// id on the context. Refresh tokens are rejected here; their only home is the
// refresh endpoint.
func Authenticate(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "token is missing"})
				return
			}
			claims, err := tokens.Decode(raw)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if claims.Type != service.TokenTypeAccess {
				writeError(w, r, domain.ErrInvalidToken)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUserID, claims.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return token, token != ""
}

func userIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(uuid.UUID)
	return id, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Observe records request counts and latency against the chi route pattern
// so path parameters do not explode the label space.
func Observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
