package note

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n := &Note{
		Slug:     "intro",
		Title:    "Intro",
		Date:     "2024-01-02T03:04:05Z",
		Summary:  "a summary",
		Content:  "# Intro\n\nHello",
		Tags:     []string{"a", "b"},
		Category: "C++",
	}
	data, err := Encode(n)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode("intro", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Title != n.Title || got.Date != n.Date || got.Summary != n.Summary || got.Category != n.Category {
		t.Fatalf("header fields changed: %+v", got)
	}
	if got.Content != n.Content {
		t.Fatalf("content changed: %q", got.Content)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "a" || got.Tags[1] != "b" {
		t.Fatalf("tags changed: %v", got.Tags)
	}
}

func TestDecodeDefaults(t *testing.T) {
	data := []byte("---\ntitle: \"\"\n---\n\nbody text")
	n, err := Decode("some-slug", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n.Title != "some-slug" {
		t.Fatalf("expected title to fall back to slug, got %q", n.Title)
	}
	if n.Date == "" {
		t.Fatalf("expected date default")
	}
	if n.Category != DefaultCategory {
		t.Fatalf("expected category %q, got %q", DefaultCategory, n.Category)
	}
	if n.Tags == nil {
		t.Fatalf("expected non-nil tags")
	}
}

func TestDecodeBareMarkdown(t *testing.T) {
	n, err := Decode("plain", []byte("# Heading\n\nNo frontmatter here"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !strings.HasPrefix(n.Content, "# Heading") {
		t.Fatalf("expected content preserved, got %q", n.Content)
	}
	if n.Title != "plain" {
		t.Fatalf("expected slug title, got %q", n.Title)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := [][]byte{
		[]byte("---\ntitle: unterminated"),
		[]byte("---\n: [\n---\nbody"),
	}
	for _, data := range cases {
		_, err := Decode("bad", data)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected ParseError for %q, got %v", data, err)
		}
		if pe.Slug != "bad" {
			t.Fatalf("expected slug in error, got %q", pe.Slug)
		}
	}
}
