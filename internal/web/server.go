package web

import (
	"log/slog"
	"net/http"

	"minotes/internal/auth"
	"minotes/internal/config"
	"minotes/internal/store"
)

type Server struct {
	cfg      config.Config
	notes    *store.Tiered
	cats     *Categories
	sessions *auth.Sessions
	renderer *Renderer
	views    *Templates
	mux      *http.ServeMux
	log      *slog.Logger
}

func NewServer(cfg config.Config, notes *store.Tiered, cats *Categories, sessions *auth.Sessions, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		notes:    notes,
		cats:     cats,
		sessions: sessions,
		renderer: NewRenderer(),
		views:    MustParseTemplates(),
		mux:      http.NewServeMux(),
		log:      log,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// pages
	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/notes", s.handleNotesPage)
	s.mux.HandleFunc("/notes/", s.handleNotePage)
	s.mux.HandleFunc("/categories/", s.handleCategoryPage)
	s.mux.HandleFunc("/tags/", s.handleTagPage)
	s.mux.HandleFunc("/login", s.handleLoginPage)
	s.mux.HandleFunc("/static/chroma.css", s.handleHighlightCSS)

	// JSON API
	s.mux.HandleFunc("/api/notes", s.handleAPIList)
	s.mux.HandleFunc("/api/notes/save", s.handleAPISave)
	s.mux.HandleFunc("/api/notes/delete", s.handleAPIDelete)
	s.mux.HandleFunc("/api/notes/", s.handleAPIGet)
	s.mux.HandleFunc("/api/auth/login", s.handleAPILogin)
	s.mux.HandleFunc("/api/auth/logout", s.handleAPILogout)
	s.mux.HandleFunc("/api/categories", s.handleAPICategories)
}

func (s *Server) handleHighlightCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	if err := WriteHighlightCSS(w); err != nil {
		s.log.Warn("write highlight css", "err", err)
	}
}
