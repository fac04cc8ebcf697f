package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"minotes/internal/auth"
	"minotes/internal/note"
)

const sessionCookie = "notes_session"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func apiError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps the store taxonomy onto HTTP: validation 400, not found
// 404, everything else (IO, parse) 500.
func errorStatus(err error) int {
	var ve *note.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, note.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("store operation failed", "err", err)
	}
	apiError(w, status, err.Error())
}

func (s *Server) sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.sessions.Validate(s.sessionToken(r)) {
		return true
	}
	apiError(w, http.StatusUnauthorized, "authentication required")
	return false
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	notes, fileErrs, err := s.notes.ListAll(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	for _, fe := range fileErrs {
		s.log.Warn("skipping unreadable note file", "file", fe.Name, "err", fe.Err)
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleAPIGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/notes/"), "/")
	if slug == "" {
		apiError(w, http.StatusBadRequest, "missing slug")
		return
	}
	n, err := s.notes.Get(r.Context(), slug)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleAPISave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	var n note.Note
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		apiError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(n.Slug) == "" || strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Content) == "" {
		apiError(w, http.StatusBadRequest, "missing required fields: slug, title or content")
		return
	}
	if err := s.notes.Save(r.Context(), &n); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "slug": n.Slug})
}

func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		apiError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		apiError(w, http.StatusBadRequest, "missing slug parameter")
		return
	}
	if err := s.notes.Delete(r.Context(), slug); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		apiError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := s.sessions.Login(creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			apiError(w, http.StatusUnauthorized, err.Error())
			return
		}
		apiError(w, http.StatusInternalServerError, err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleAPILogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.sessions.Expire(s.sessionToken(r))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string][]string{
			"defaults": note.DefaultCategories(),
			"custom":   s.cats.Custom(),
		})
	case http.MethodPost:
		if !s.requireAdmin(w, r) {
			return
		}
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			apiError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.cats.Add(strings.TrimSpace(body.Name)); err != nil {
			s.categoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case http.MethodDelete:
		if !s.requireAdmin(w, r) {
			return
		}
		name := r.URL.Query().Get("name")
		if err := s.cats.Remove(name); err != nil {
			s.categoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		apiError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) categoryError(w http.ResponseWriter, err error) {
	var ve *note.ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, ErrCategoryExists), errors.Is(err, ErrDefaultCategory):
		apiError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCategoryUnknown):
		apiError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("category operation failed", "err", err)
		apiError(w, http.StatusInternalServerError, err.Error())
	}
}
