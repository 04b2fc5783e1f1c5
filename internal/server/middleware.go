package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/raphaelgruber/keymap/internal/models"
)

// SessionCookie is the cookie carrying the opaque session ID.
const SessionCookie = "session_id"

// slowRequestThreshold is the duration above which requests are logged at
// WARN level. Generous because chat turns wait on the model.
const slowRequestThreshold = 2 * time.Second

type contextKey string

const userContextKey contextKey = "keymap.user"

// RequestLogger logs every request with method, path, status and timing.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", duration.Milliseconds(),
			}

			switch {
			case ww.Status() >= http.StatusInternalServerError:
				logger.Error("request failed", attrs...)
			case duration > slowRequestThreshold:
				logger.Warn("slow request", attrs...)
			default:
				logger.Debug("request completed", attrs...)
			}
		})
	}
}

// SessionContext resolves the session cookie, if any, and stores the user
// in the request context. It never rejects: handlers that need an identity
// use currentUser and answer 401 themselves.
func (s *Server) SessionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err == nil && cookie.Value != "" {
			user, err := s.auth.UserBySession(r.Context(), cookie.Value)
			if err == nil {
				ctx := context.WithValue(r.Context(), userContextKey, user)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// currentUser returns the authenticated user, or nil.
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// currentUserID returns the authenticated user's ID, or "".
func currentUserID(r *http.Request) string {
	if user := currentUser(r); user != nil {
		return user.ID
	}
	return ""
}
