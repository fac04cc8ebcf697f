package web

import (
	"html/template"

	"minotes/internal/index"
	"minotes/internal/note"
)

// ViewData carries everything the page templates can show. ContentTemplate
// names the inner template RenderPage wraps in base.
type ViewData struct {
	Title           string
	ContentTemplate string
	ContentHTML     template.HTML

	Note      *note.Note
	NoteHTML  template.HTML
	Headings  []index.Heading
	Notes     []*note.Note
	Groups    map[string][]*note.Note
	Sidebar   map[string][]*note.Note
	Category  string
	Tag       string
	AllCats   []string
	LoginErr  string
}
