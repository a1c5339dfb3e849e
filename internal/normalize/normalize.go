// Package normalize provides text normalization used for matching catalog data.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s in NFC form with Unicode case folding applied, so that
// "JULIO VERNE", "julio verne" and a decomposed "Júlio" compare equal to
// their folded counterparts.
func Fold(s string) string {
	// cases.Caser is stateful; a fresh one per call keeps Fold goroutine safe.
	return cases.Fold().String(norm.NFC.String(s))
}

// ContainsFold reports whether substr occurs in s, ignoring case.
// An empty substr matches every string.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// Field cleans a raw record field: a leading UTF-8 byte order mark and null
// bytes are dropped. Surrounding whitespace is kept; callers decide on trimming.
func Field(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	if !strings.ContainsRune(s, 0) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
