// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug folds arbitrary Unicode strings into ASCII identifiers.
//
// # Usage
//
// Uploaded gallery files are renamed with a folded base so the stored name is
// safe in URLs, on every filesystem and as an object key ("Café Night" → "cafe_night").
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold converts s into lowercase ASCII letters and digits joined by separator.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Collapses every run of other characters into a single separator.
// 5. Trims leading and trailing separators.
func Fold(s string, separator rune) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Keep ASCII alphanumerics, collapse everything else
	var builder strings.Builder
	pending := false
	for _, r := range strings.ToLower(result) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && builder.Len() > 0 {
				builder.WriteRune(separator)
			}
			builder.WriteRune(r)
			pending = false
			continue
		}
		pending = true
	}

	return builder.String()
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
