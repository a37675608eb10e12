// Package textnorm canonicalizes free text for entity matching and
// recognizes the small controlled vocabulary of portion sizes.
// All functions are pure and total: any input, including the empty string,
// produces a well-defined result.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text for matching:
//  1. Unicode NFKD decomposition, dropping combining marks (strips diacritics)
//  2. lowercase
//  3. every run of non-ASCII-alphanumeric characters becomes a single space
//  4. trimmed ends
//
// Normalizing an already-normalized string returns it unchanged.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue // combining mark left over from decomposition
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			pendingSpace = false
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

// NormalizePortion maps a portion word to its canonical form:
// sm/small -> small, md/med/medium -> medium, lg/large -> large,
// kid/kids -> kid, reg/regular -> regular. Any other non-empty token is
// passed through normalized. Returns "" when no token remains.
func NormalizePortion(s string) string {
	t := Normalize(s)
	if t == "" {
		return ""
	}
	switch t {
	case "sm", "small":
		return "small"
	case "md", "med", "medium":
		return "medium"
	case "lg", "large":
		return "large"
	case "kid", "kids":
		return "kid"
	case "reg", "regular":
		return "regular"
	}
	return t
}

// portionKeywords lists recognized portion words, long forms before
// abbreviations so "small" wins over "sm" when both appear.
var portionKeywords = []string{
	"small", "sm",
	"medium", "med", "md",
	"large", "lg",
	"kid", "kids",
	"regular", "reg",
}

// ExtractPortionToken scans normalized tokens for the first portion keyword
// and returns its canonical form, or "" if none is present.
func ExtractPortionToken(s string) string {
	t := Normalize(s)
	if t == "" {
		return ""
	}
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(t) {
		tokens[tok] = true
	}
	for _, kw := range portionKeywords {
		if tokens[kw] {
			return NormalizePortion(kw)
		}
	}
	return ""
}
