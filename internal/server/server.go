// Package server provides the HTTP API: routing, session middleware and
// request handlers.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/raphaelgruber/keymap/internal/service"
)

// Server wires the services into a chi router.
type Server struct {
	auth     *service.AuthService
	projects *service.ProjectService
	chat     *service.ChatService
	logger   *slog.Logger
}

// New creates a Server over the given services.
func New(auth *service.AuthService, projects *service.ProjectService, chat *service.ChatService, logger *slog.Logger) *Server {
	return &Server{
		auth:     auth,
		projects: projects,
		chat:     chat,
		logger:   logger,
	}
}

// Router builds the HTTP route tree.
//
// Session handling is optional on most routes: the middleware resolves the
// cookie when present, and each handler decides whether an identity is
// required. Share view and export are deliberately open, as is guest chat.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.SessionContext)

		r.Post("/auth/signup", s.handleSignUp)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/user", s.handleCurrentUser)
		r.Post("/auth/forgot-password", s.handlePasswordResetDisabled)
		r.Get("/auth/verify-reset-token", s.handlePasswordResetDisabled)

		r.Get("/projects", s.handleListProjects)
		r.Post("/projects", s.handleCreateProject)
		r.Get("/projects/{id}", s.handleGetProject)
		r.Patch("/projects/{id}", s.handleUpdateProject)
		r.Delete("/projects/{id}", s.handleDeleteProject)
		r.Get("/projects/{id}/view", s.handleViewProject)
		r.Get("/projects/{id}/export", s.handleExportProject)

		r.Post("/chat/guest", s.handleGuestChat)
		r.Post("/chat/{projectID}", s.handleSendMessage)
		r.Get("/chat/{projectID}", s.handleTranscript)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
