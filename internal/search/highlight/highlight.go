// Package highlight marks query occurrences inside display fields.
//
// The output is HTML: text outside and inside the markers is escaped, so a
// stored name can never inject markup of its own.
package highlight

import (
	"html"
	"strings"

	"golang.org/x/text/cases"
)

// Marker pair wrapped around every match.
const (
	Open  = "<mark>"
	Close = "</mark>"
)

// Highlight wraps every case-insensitive, non-overlapping occurrence of query
// in text with Open/Close, keeping the original casing of the matched text.
// Matching uses full Unicode case folding, the same folding ranking scores
// with, so "strasse" marks "Straße". An empty query returns the escaped text.
func Highlight(text, query string) string {
	if query == "" || text == "" {
		return html.EscapeString(text)
	}

	caser := cases.Fold()
	needle := caser.String(query)
	if needle == "" {
		return html.EscapeString(text)
	}
	folded, origin := foldWithOrigin(caser, text)

	var b strings.Builder
	last, pos := 0, 0
	for pos <= len(folded)-len(needle) {
		idx := strings.Index(folded[pos:], needle)
		if idx < 0 {
			break
		}
		start, end := pos+idx, pos+idx+len(needle)
		// A match must begin and end on whole folded runes of text.
		if origin[start] < 0 || origin[end] < 0 {
			pos = start + 1
			continue
		}
		if b.Len() == 0 {
			b.Grow(len(text) + len(Open) + len(Close))
		}
		b.WriteString(html.EscapeString(text[last:origin[start]]))
		b.WriteString(Open)
		b.WriteString(html.EscapeString(text[origin[start]:origin[end]]))
		b.WriteString(Close)
		last, pos = origin[end], end
	}

	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

// foldWithOrigin folds text rune by rune. origin[i] is the byte offset in
// text of the rune whose fold starts at folded[i], or -1 inside a fold.
func foldWithOrigin(caser cases.Caser, text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	origin := make([]int, 0, len(text)+1)

	for i, r := range text {
		f := caser.String(string(r))
		origin = append(origin, i)
		for k := 1; k < len(f); k++ {
			origin = append(origin, -1)
		}
		b.WriteString(f)
	}
	origin = append(origin, len(text))
	return b.String(), origin
}
