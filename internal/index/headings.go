package index

import (
	"fmt"
	"regexp"
	"strings"

	"minotes/internal/note"
)

// Heading is one table-of-contents entry.
type Heading struct {
	Level    int    `json:"level"`
	Text     string `json:"text"`
	AnchorID string `json:"anchorId"`
}

var headingRe = regexp.MustCompile(`^(#{1,3})\s+(.+)$`)

// ExtractHeadings scans markdown for level 1-3 headings, in document
// order. Anchor ids are the slugified heading text; a repeated heading
// gets -2, -3 and so on, matching the ids the renderer assigns.
func ExtractHeadings(content string) []Heading {
	ids := NewAnchorSet()
	var headings []Heading
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		headings = append(headings, Heading{
			Level:    len(m[1]),
			Text:     text,
			AnchorID: ids.Generate(text),
		})
	}
	return headings
}

// AnchorSet produces collision-free heading anchors for one document.
type AnchorSet struct {
	used map[string]int
}

func NewAnchorSet() *AnchorSet {
	return &AnchorSet{used: make(map[string]int)}
}

// Generate slugifies text and disambiguates repeats with a numeric suffix.
func (a *AnchorSet) Generate(text string) string {
	base := note.Slugify(text)
	if base == "" {
		base = "heading"
	}
	a.used[base]++
	if a.used[base] == 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, a.used[base])
}
