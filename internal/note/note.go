package note

import (
	"errors"
	"strings"
	"unicode"
)

// DefaultCategory is assigned to notes whose frontmatter carries no category.
const DefaultCategory = "Uncategorized"

// DefaultCategories returns the built-in category set. These cannot be
// removed through the category API.
func DefaultCategories() []string {
	return []string{"C++", "Rust", "Pytorch", "CUDA", DefaultCategory}
}

// Note is a single markdown note. Date is stamped once at creation and
// never changes on later saves. Tags keep insertion order; duplicates are
// not rejected.
type Note struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Summary  string   `json:"summary"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// ErrNotFound reports that no note exists for a slug, in either the
// filesystem store or the mirror.
var ErrNotFound = errors.New("note not found")

// ValidationError reports a missing required field on save or delete.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

// Validate checks the fields a save requires. Summary, tags and category
// are optional; the store fills their defaults.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Slug) == "" {
		return &ValidationError{Field: "slug"}
	}
	if strings.TrimSpace(n.Title) == "" {
		return &ValidationError{Field: "title"}
	}
	if strings.TrimSpace(n.Content) == "" {
		return &ValidationError{Field: "content"}
	}
	return nil
}

// Slugify derives a URL-safe identifier: lowercase, runs of anything that
// is not a letter or digit collapse to a single dash, no leading or
// trailing dash. Unicode letters (including CJK) survive.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		dash = true
	}
	return b.String()
}

const summaryLimit = 150

// DefaultSummary is the first 150 runes of content, with an ellipsis when
// truncated.
func DefaultSummary(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryLimit {
		return content
	}
	return string(runes[:summaryLimit]) + "..."
}
