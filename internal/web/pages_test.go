package web

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func getPage(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestHomePageEmpty(t *testing.T) {
	ts := newTestServer(t)
	status, body := getPage(t, ts.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if !strings.Contains(body, "No notes yet") {
		t.Fatalf("expected empty-state message")
	}
}

func TestNotePageRendersMarkdownAndTOC(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/notes/save", token, map[string]string{
		"slug": "intro", "title": "Intro",
		"content": "# First\n\nbody\n\n## Second",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status %d", resp.StatusCode)
	}

	status, body := getPage(t, ts.URL+"/notes/intro")
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if !strings.Contains(body, `id="first"`) || !strings.Contains(body, `href="#second"`) {
		t.Fatalf("expected rendered heading and TOC link, got %s", body)
	}
	if !strings.Contains(body, "Intro") {
		t.Fatalf("expected note title on page")
	}
}

func TestNotePageMissing(t *testing.T) {
	ts := newTestServer(t)
	status, _ := getPage(t, ts.URL+"/notes/nope")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestCategoryAndTagPages(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/notes/save", token, map[string]any{
		"slug": "rusty", "title": "Rusty", "content": "body",
		"category": "Rust", "tags": []string{"memory"},
	})
	resp.Body.Close()

	status, body := getPage(t, ts.URL+"/categories/Rust")
	if status != http.StatusOK || !strings.Contains(body, "Rusty") {
		t.Fatalf("category page: %d", status)
	}

	status, body = getPage(t, ts.URL+"/tags/memory")
	if status != http.StatusOK || !strings.Contains(body, "Rusty") {
		t.Fatalf("tag page: %d", status)
	}

	status, body = getPage(t, ts.URL+"/tags/unused")
	if status != http.StatusOK || !strings.Contains(body, "No notes carry this tag") {
		t.Fatalf("empty tag page: %d", status)
	}
}
