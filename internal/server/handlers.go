package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/raphaelgruber/keymap/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// projectError maps service errors on project access to status codes.
// Foreign projects answer 401, matching the ownership check the web app
// relies on.
func (s *Server) projectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusUnauthorized, "you do not have permission to access this project")
	default:
		s.logger.Error("project request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	projects, err := s.projects.List(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Guests may create projects; they simply have no owner.
	project, err := s.projects.Create(r.Context(), req.Title, currentUserID(r))
	if err != nil {
		s.logger.Error("failed to create project", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"), currentUserID(r))
	if err != nil {
		s.projectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var update service.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := s.projects.Update(r.Context(), chi.URLParam(r, "id"), currentUserID(r), update)
	if err != nil {
		s.projectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), chi.URLParam(r, "id"), currentUserID(r)); err != nil {
		s.projectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleViewProject(w http.ResponseWriter, r *http.Request) {
	view, err := s.projects.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.projectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleExportProject(w http.ResponseWriter, r *http.Request) {
	filename, code, err := s.projects.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrNoSchema) {
			writeError(w, http.StatusNotFound, "project has no schema to export")
			return
		}
		s.projectError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(code))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	projectID := chi.URLParam(r, "projectID")
	if _, err := s.projects.Get(r.Context(), projectID, currentUserID(r)); err != nil {
		s.projectError(w, err)
		return
	}

	result, err := s.chat.SendMessage(r.Context(), projectID, req.Message)
	if err != nil {
		s.projectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.projects.Get(r.Context(), projectID, currentUserID(r)); err != nil {
		s.projectError(w, err)
		return
	}

	messages, err := s.chat.Transcript(r.Context(), projectID)
	if err != nil {
		s.projectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Message{"messages": messages})
}

func (s *Server) handleGuestChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message  string           `json:"message"`
		Messages []models.Message `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result := s.chat.GuestTurn(r.Context(), req.Messages, req.Message)
	writeJSON(w, http.StatusOK, result)
}
