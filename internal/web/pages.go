package web

import (
	"errors"
	"net/http"
	"strings"

	"minotes/internal/index"
	"minotes/internal/note"
)

func (s *Server) loadNotes(w http.ResponseWriter, r *http.Request) ([]*note.Note, bool) {
	notes, fileErrs, err := s.notes.ListAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	for _, fe := range fileErrs {
		s.log.Warn("skipping unreadable note file", "file", fe.Name, "err", fe.Err)
	}
	return notes, true
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	notes, ok := s.loadNotes(w, r)
	if !ok {
		return
	}
	recent := index.SortByDateDesc(notes)
	if len(recent) > 10 {
		recent = recent[:10]
	}
	s.views.RenderPage(w, ViewData{
		Title:           "Home",
		ContentTemplate: "home",
		Notes:           recent,
		Sidebar:         index.GroupByCategoryByTitle(notes),
		AllCats:         index.Categories(notes, s.cats.Custom()),
	})
}

func (s *Server) handleNotesPage(w http.ResponseWriter, r *http.Request) {
	notes, ok := s.loadNotes(w, r)
	if !ok {
		return
	}
	s.views.RenderPage(w, ViewData{
		Title:           "Notes",
		ContentTemplate: "notes",
		Groups:          index.GroupByCategory(notes),
		Sidebar:         index.GroupByCategoryByTitle(notes),
		AllCats:         index.Categories(notes, s.cats.Custom()),
	})
}

func (s *Server) handleNotePage(w http.ResponseWriter, r *http.Request) {
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/notes/"), "/")
	if slug == "" {
		http.Redirect(w, r, "/notes", http.StatusSeeOther)
		return
	}
	n, err := s.notes.Get(r.Context(), slug)
	if err != nil {
		if errors.Is(err, note.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	html, err := s.renderer.Render(n.Content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	notes, ok := s.loadNotes(w, r)
	if !ok {
		return
	}
	s.views.RenderPage(w, ViewData{
		Title:           n.Title,
		ContentTemplate: "note",
		Note:            n,
		NoteHTML:        html,
		Headings:        index.ExtractHeadings(n.Content),
		Sidebar:         index.GroupByCategoryByTitle(notes),
	})
}

func (s *Server) handleCategoryPage(w http.ResponseWriter, r *http.Request) {
	category := strings.Trim(strings.TrimPrefix(r.URL.Path, "/categories/"), "/")
	if category == "" {
		http.Redirect(w, r, "/notes", http.StatusSeeOther)
		return
	}
	notes, ok := s.loadNotes(w, r)
	if !ok {
		return
	}
	s.views.RenderPage(w, ViewData{
		Title:           category,
		ContentTemplate: "category",
		Category:        category,
		Notes:           index.SortByDateDesc(index.FilterByCategory(notes, category)),
		Sidebar:         index.GroupByCategoryByTitle(notes),
	})
}

func (s *Server) handleTagPage(w http.ResponseWriter, r *http.Request) {
	tag := strings.Trim(strings.TrimPrefix(r.URL.Path, "/tags/"), "/")
	if tag == "" {
		http.Redirect(w, r, "/notes", http.StatusSeeOther)
		return
	}
	notes, ok := s.loadNotes(w, r)
	if !ok {
		return
	}
	s.views.RenderPage(w, ViewData{
		Title:           "#" + tag,
		ContentTemplate: "tag",
		Tag:             tag,
		Notes:           index.SortByDateDesc(index.FilterByTag(notes, tag)),
		Sidebar:         index.GroupByCategoryByTitle(notes),
	})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.views.RenderPage(w, ViewData{Title: "Login", ContentTemplate: "login"})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	token, err := s.sessions.Login(r.Form.Get("email"), r.Form.Get("password"))
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		s.views.RenderPage(w, ViewData{Title: "Login", ContentTemplate: "login", LoginErr: "Invalid email or password"})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
