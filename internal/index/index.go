// Package index provides derived, read-only views over a note set:
// sorting, grouping, filtering and heading extraction. It never touches
// the store.
package index

import (
	"sort"
	"strings"

	"minotes/internal/note"
)

// SortByDateDesc returns the notes most-recent first. The sort is stable:
// equal dates keep their enumeration order. Dates are RFC3339 strings, so
// lexicographic comparison orders them chronologically.
func SortByDateDesc(notes []*note.Note) []*note.Note {
	out := make([]*note.Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// GroupByCategory partitions notes by category with each group ordered
// date-descending, the order the listing page shows. Every note lands in
// exactly one group.
func GroupByCategory(notes []*note.Note) map[string][]*note.Note {
	groups := make(map[string][]*note.Note)
	for _, n := range SortByDateDesc(notes) {
		groups[n.Category] = append(groups[n.Category], n)
	}
	return groups
}

// GroupByCategoryByTitle partitions like GroupByCategory but orders each
// group by title ascending, case-insensitive, the order the sidebar shows.
func GroupByCategoryByTitle(notes []*note.Note) map[string][]*note.Note {
	groups := make(map[string][]*note.Note)
	for _, n := range notes {
		groups[n.Category] = append(groups[n.Category], n)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return strings.ToLower(group[i].Title) < strings.ToLower(group[j].Title)
		})
	}
	return groups
}

// FilterByCategory keeps notes whose category matches exactly.
func FilterByCategory(notes []*note.Note, category string) []*note.Note {
	out := make([]*note.Note, 0)
	for _, n := range notes {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out
}

// FilterByTag keeps notes carrying the tag.
func FilterByTag(notes []*note.Note, tag string) []*note.Note {
	out := make([]*note.Note, 0)
	for _, n := range notes {
		for _, t := range n.Tags {
			if t == tag {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// Categories returns the union of the default set, the custom list and
// every category in use, sorted. Feeds the sidebar.
func Categories(notes []*note.Note, custom []string) []string {
	seen := make(map[string]bool)
	var all []string
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			all = append(all, c)
		}
	}
	for _, c := range note.DefaultCategories() {
		add(c)
	}
	for _, c := range custom {
		add(c)
	}
	for _, n := range notes {
		add(n.Category)
	}
	sort.Strings(all)
	return all
}
