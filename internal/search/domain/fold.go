package domain

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s used for every case-insensitive
// comparison in matching and ranking.
func Fold(s string) string {
	if s == "" {
		return s
	}
	// Casers carry state and must not be shared across goroutines.
	return cases.Fold().String(s)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
