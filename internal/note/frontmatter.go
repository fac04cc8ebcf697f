package note

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseError reports a malformed frontmatter header. The enumeration code
// in the store collects these per file instead of aborting a listing.
type ParseError struct {
	Slug string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse note %q: %v", e.Slug, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type frontmatter struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Tags     []string `yaml:"tags"`
	Summary  string   `yaml:"summary"`
	Category string   `yaml:"category"`
}

var fence = []byte("---")

// Encode renders a note as a YAML frontmatter block followed by a blank
// line and the raw markdown body.
func Encode(n *Note) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(frontmatter{
		Title:    n.Title,
		Date:     n.Date,
		Tags:     n.Tags,
		Summary:  n.Summary,
		Category: n.Category,
	}); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(n.Content)
	return buf.Bytes(), nil
}

// Decode parses a note file. Files without a frontmatter fence are treated
// as bare markdown. Missing header fields get the same defaults the site
// always applied: title falls back to the slug, date to now, category to
// Uncategorized.
func Decode(slug string, data []byte) (*Note, error) {
	n := &Note{Slug: slug}

	body := data
	if bytes.HasPrefix(data, fence) {
		parts := bytes.SplitN(data, fence, 3)
		if len(parts) < 3 {
			return nil, &ParseError{Slug: slug, Err: fmt.Errorf("unterminated frontmatter")}
		}
		var fm frontmatter
		if err := yaml.Unmarshal(parts[1], &fm); err != nil {
			return nil, &ParseError{Slug: slug, Err: err}
		}
		n.Title = fm.Title
		n.Date = fm.Date
		n.Tags = fm.Tags
		n.Summary = fm.Summary
		n.Category = fm.Category
		body = parts[2]
	}

	n.Content = string(bytes.TrimLeft(body, "\r\n"))
	if n.Title == "" {
		n.Title = slug
	}
	if n.Date == "" {
		n.Date = time.Now().UTC().Format(time.RFC3339)
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Category == "" {
		n.Category = DefaultCategory
	}
	return n, nil
}
