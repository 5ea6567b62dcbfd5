package http

import (
	"net/http"
	"time"

	"taskhub/internal/dto"
	"taskhub/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(auth service.AuthService, todos service.TodoService, tokens service.TokenService) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(httprate.LimitByIP(100, 1*time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Device-Name", "Device-Uuid", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(Observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/user", func(r chi.Router) {
		r.With(RequireStandardHeaders).Post("/register", handleRegister(auth))
		r.Post("/verify-otp", handleVerifyOtp(auth))
		r.Post("/resend-otp", handleResendOtp(auth))
		r.With(RequireStandardHeaders).Post("/login", handleLogin(auth))
		r.With(RequireStandardHeaders).Post("/refresh", handleRefresh(auth))
		r.Post("/logout", handleLogout(tokens))
		r.With(Authenticate(tokens)).Post("/logout-all", handleLogoutAll(tokens))
	})

	r.Route("/todo", func(r chi.Router) {
		r.Use(Authenticate(tokens))
		r.Post("/create", handleTodoCreate(todos))
		r.Get("/gettodo", handleTodoList(todos))
		r.Put("/update", handleTodoUpdate(todos))
		r.Delete("/delete", handleTodoDelete(todos))
	})

	return r
}

func handleRegister(auth service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RegisterRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		res, err := auth.Register(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

func handleVerifyOtp(auth service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.VerifyOtpRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		res, err := auth.VerifyOtp(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleResendOtp(auth service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ResendOtpRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		res, err := auth.ResendOtp(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleLogin(auth service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		res, err := auth.Login(r.Context(), req, r.Header.Get(headerDeviceUUID))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// The refresh token rides in the Authorization header, not the body; the
// Device-Uuid header must match the device the session was bound to at login.
func handleRefresh(auth service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "refresh token is missing"})
			return
		}
		res, err := auth.Refresh(r.Context(), token, r.Header.Get(headerDeviceUUID))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// Logout carries the refresh token in the Authorization header, mirroring
// refresh. Revoking the session kills the refresh token for good; the access
// token dies on its own short expiry.
func handleLogout(tokens service.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "refresh token is missing"})
			return
		}
		if err := tokens.RevokeRefresh(r.Context(), token); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	}
}

func handleLogoutAll(tokens service.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "token is missing"})
			return
		}
		if _, err := tokens.RevokeAllForUser(r.Context(), userID); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out on all devices"})
	}
}

func handleTodoCreate(todos service.TodoService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "token is missing"})
			return
		}
		var req dto.TodoCreateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		todo, err := todos.Create(r.Context(), userID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, dto.TodoCreateResponse{
			Message: "ToDo created",
			TodoUID: todo.ID.String(),
		})
	}
}

func handleTodoList(todos service.TodoService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "token is missing"})
			return
		}
		var day *time.Time
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{
					Error:   "validation error",
					Details: map[string]string{"date": "must be formatted YYYY-MM-DD"},
				})
				return
			}
			day = &parsed
		}
		list, err := todos.List(r.Context(), userID, day)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]dto.TodoResponse, 0, len(list))
		for _, t := range list {
			out = append(out, dto.TodoFromDomain(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleTodoUpdate(todos service.TodoService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "token is missing"})
			return
		}
		todoID, ok := todoUIDParam(w, r)
		if !ok {
			return
		}
		var req dto.TodoUpdateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		todo, err := todos.Update(r.Context(), userID, todoID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Todo updated successfully",
			"todo":    dto.TodoFromDomain(todo),
		})
	}
}

func handleTodoDelete(todos service.TodoService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "token is missing"})
			return
		}
		todoID, ok := todoUIDParam(w, r)
		if !ok {
			return
		}
		if err := todos.Delete(r.Context(), userID, todoID); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully"})
	}
}

func todoUIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("todo_uid")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "todo_uid is required in query parameters"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid todo_uid"})
		return uuid.Nil, false
	}
	return id, true
}
