package index

import (
	"testing"

	"minotes/internal/note"
)

func sampleNotes() []*note.Note {
	return []*note.Note{
		{Slug: "b", Title: "beta", Date: "2024-01-01T00:00:00Z", Category: "Rust", Tags: []string{"x"}},
		{Slug: "a", Title: "Alpha", Date: "2024-03-01T00:00:00Z", Category: "Rust", Tags: []string{"x", "y"}},
		{Slug: "c", Title: "Gamma", Date: "2024-02-01T00:00:00Z", Category: "C++", Tags: []string{"y"}},
		{Slug: "d", Title: "delta", Date: "2024-03-01T00:00:00Z", Category: "Uncategorized"},
	}
}

func TestSortByDateDesc(t *testing.T) {
	notes := sampleNotes()
	sorted := SortByDateDesc(notes)

	want := []string{"a", "d", "c", "b"}
	for i, slug := range want {
		if sorted[i].Slug != slug {
			t.Fatalf("position %d: expected %q, got %q", i, slug, sorted[i].Slug)
		}
	}
	// Stability: "a" and "d" share a date and keep enumeration order.
	if notes[0].Slug != "b" {
		t.Fatalf("input mutated")
	}
}

func TestGroupByCategoryPartitions(t *testing.T) {
	notes := sampleNotes()
	groups := GroupByCategory(notes)

	total := 0
	seen := make(map[string]bool)
	for _, group := range groups {
		for _, n := range group {
			if seen[n.Slug] {
				t.Fatalf("note %q appears in two groups", n.Slug)
			}
			seen[n.Slug] = true
			total++
		}
	}
	if total != len(notes) {
		t.Fatalf("expected %d notes across groups, got %d", len(notes), total)
	}

	rust := groups["Rust"]
	if len(rust) != 2 || rust[0].Slug != "a" || rust[1].Slug != "b" {
		t.Fatalf("expected Rust group date-descending, got %v", rust)
	}
}

func TestGroupByCategoryByTitle(t *testing.T) {
	groups := GroupByCategoryByTitle(sampleNotes())
	rust := groups["Rust"]
	if len(rust) != 2 || rust[0].Title != "Alpha" || rust[1].Title != "beta" {
		t.Fatalf("expected case-insensitive title order, got %v", rust)
	}
}

func TestFilters(t *testing.T) {
	notes := sampleNotes()

	cpp := FilterByCategory(notes, "C++")
	if len(cpp) != 1 || cpp[0].Slug != "c" {
		t.Fatalf("FilterByCategory: %v", cpp)
	}
	if got := FilterByCategory(notes, "Zig"); len(got) != 0 {
		t.Fatalf("expected empty filter result, got %v", got)
	}

	tagged := FilterByTag(notes, "y")
	if len(tagged) != 2 || tagged[0].Slug != "a" || tagged[1].Slug != "c" {
		t.Fatalf("FilterByTag: %v", tagged)
	}
}

func TestCategoriesUnion(t *testing.T) {
	notes := []*note.Note{{Slug: "a", Category: "Homelab"}}
	all := Categories(notes, []string{"Reading"})

	want := map[string]bool{"C++": true, "Rust": true, "Pytorch": true, "CUDA": true,
		"Uncategorized": true, "Homelab": true, "Reading": true}
	if len(all) != len(want) {
		t.Fatalf("expected %d categories, got %v", len(want), all)
	}
	for _, c := range all {
		if !want[c] {
			t.Fatalf("unexpected category %q", c)
		}
	}
	for i := 1; i < len(all); i++ {
		if all[i-1] > all[i] {
			t.Fatalf("categories not sorted: %v", all)
		}
	}
}
