package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	headingPattern   = regexp.MustCompile(`(?m)^#{1,6}[ \t]+\S.*$`)
	paragraphPattern = regexp.MustCompile(`\n[ \t]*\n`)
)

// Part is a titled piece of a document before it is stored
type Part struct {
	Title   string
	Content string
}

// Split divides document content into titled parts.
//
// Markdown headings delimit parts and give them their title. Text before the
// first heading becomes an "Introduction" part. Content without headings is
// split into paragraphs titled after their first five words, and content with
// no paragraph at all becomes a single "Document complet" part.
func Split(content string) []Part {
	if locs := headingPattern.FindAllStringIndex(content, -1); len(locs) > 0 {
		return splitHeadings(content, locs)
	}

	var parts []Part
	for _, p := range paragraphPattern.Split(content, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts = append(parts, Part{
			Title:   fmt.Sprintf("Section %d: %s...", len(parts)+1, firstWords(p, 5)),
			Content: p,
		})
	}
	if len(parts) > 0 {
		return parts
	}

	return []Part{{Title: "Document complet", Content: content}}
}

func splitHeadings(content string, locs [][]int) []Part {
	parts := make([]Part, 0, len(locs)+1)

	if intro := strings.TrimSpace(content[:locs[0][0]]); intro != "" {
		parts = append(parts, Part{Title: "Introduction", Content: intro})
	}

	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		heading := content[loc[0]:loc[1]]
		parts = append(parts, Part{
			Title:   strings.TrimSpace(strings.TrimLeft(heading, "#")),
			Content: strings.TrimSpace(content[loc[1]:end]),
		})
	}

	return parts
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
