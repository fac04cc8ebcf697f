package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"minotes/internal/note"
)

// fakeMirror is an in-memory Mirror for tier-policy tests.
type fakeMirror struct {
	notes     map[string]*note.Note
	upsertErr error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{notes: make(map[string]*note.Note)}
}

func (f *fakeMirror) Upsert(_ context.Context, n *note.Note) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	clone := *n
	f.notes[n.Slug] = &clone
	return nil
}

func (f *fakeMirror) Delete(_ context.Context, slug string) error {
	delete(f.notes, slug)
	return nil
}

func (f *fakeMirror) Get(_ context.Context, slug string) (*note.Note, error) {
	n, ok := f.notes[slug]
	if !ok {
		return nil, note.ErrNotFound
	}
	return n, nil
}

func (f *fakeMirror) ListAll(_ context.Context) ([]*note.Note, error) {
	out := make([]*note.Note, 0, len(f.notes))
	for _, n := range f.notes {
		out = append(out, n)
	}
	return out, nil
}

func newTestTiered(t *testing.T) (*Tiered, *fakeMirror) {
	t.Helper()
	m := newFakeMirror()
	s := New(filepath.Join(t.TempDir(), "notes"))
	return NewTiered(s, m, nil), m
}

func TestTieredSaveWritesBothTiers(t *testing.T) {
	tiered, m := newTestTiered(t)
	ctx := context.Background()

	n := &note.Note{Slug: "intro", Title: "Intro", Content: "body"}
	if err := tiered.Save(ctx, n); err != nil {
		t.Fatalf("Save: %v", err)
	}
	mirrored, ok := m.notes["intro"]
	if !ok {
		t.Fatalf("expected mirror entry after save")
	}
	if mirrored.Date != n.Date || mirrored.Summary != n.Summary {
		t.Fatalf("mirror holds un-normalized note: %+v", mirrored)
	}
}

func TestTieredSaveSurvivesMirrorFailure(t *testing.T) {
	tiered, m := newTestTiered(t)
	m.upsertErr = errors.New("mirror down")

	n := &note.Note{Slug: "intro", Title: "Intro", Content: "body"}
	if err := tiered.Save(context.Background(), n); err != nil {
		t.Fatalf("expected save to succeed despite mirror failure, got %v", err)
	}
	if _, err := tiered.Get(context.Background(), "intro"); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestTieredGetFallsBackToMirror(t *testing.T) {
	tiered, m := newTestTiered(t)
	ctx := context.Background()

	m.notes["cached"] = &note.Note{Slug: "cached", Title: "Cached", Content: "offline copy"}

	got, err := tiered.Get(ctx, "cached")
	if err != nil {
		t.Fatalf("expected mirror fallback, got %v", err)
	}
	if got.Title != "Cached" {
		t.Fatalf("wrong note from mirror: %+v", got)
	}

	if _, err := tiered.Get(ctx, "nowhere"); !errors.Is(err, note.ErrNotFound) {
		t.Fatalf("expected ErrNotFound when both tiers miss, got %v", err)
	}
}

func TestTieredStoreWinsOnConflict(t *testing.T) {
	tiered, m := newTestTiered(t)
	ctx := context.Background()

	if err := tiered.Save(ctx, &note.Note{Slug: "n", Title: "Authoritative", Content: "disk"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m.notes["n"] = &note.Note{Slug: "n", Title: "Stale", Content: "mirror"}

	got, err := tiered.Get(ctx, "n")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Authoritative" {
		t.Fatalf("mirror overrode the store: %+v", got)
	}
}

func TestTieredDeleteCleansMirror(t *testing.T) {
	tiered, m := newTestTiered(t)
	ctx := context.Background()

	if err := tiered.Save(ctx, &note.Note{Slug: "n", Title: "N", Content: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := tiered.Delete(ctx, "n"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := m.notes["n"]; ok {
		t.Fatalf("expected mirror entry removed on delete")
	}

	// Deleting a slug the store lacks still clears a stale mirror entry,
	// so the mirror cannot resurrect it.
	m.notes["stale"] = &note.Note{Slug: "stale", Title: "Stale", Content: "x"}
	if err := tiered.Delete(ctx, "stale"); !errors.Is(err, note.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok := m.notes["stale"]; ok {
		t.Fatalf("expected stale mirror entry removed")
	}
}

func TestTieredListMergesMirrorOnlySlugs(t *testing.T) {
	tiered, m := newTestTiered(t)
	ctx := context.Background()

	if err := tiered.Save(ctx, &note.Note{Slug: "disk", Title: "Disk", Content: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m.notes["only-mirror"] = &note.Note{Slug: "only-mirror", Title: "Mirror", Content: "y"}
	m.notes["disk"] = &note.Note{Slug: "disk", Title: "Stale", Content: "z"}

	notes, _, err := tiered.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 merged notes, got %d", len(notes))
	}
	bySlug := make(map[string]*note.Note)
	for _, n := range notes {
		bySlug[n.Slug] = n
	}
	if bySlug["disk"].Title != "Disk" {
		t.Fatalf("store entry must win the merge, got %q", bySlug["disk"].Title)
	}
	if bySlug["only-mirror"] == nil {
		t.Fatalf("mirror-only slug missing from merge")
	}
}
