// Package fold prepares raw text for stemming: Unicode NFC composition
// followed by Indonesian lowercasing.
//
// The stemmer's tables are written in lowercase ASCII, so "Buku-Buku" and
// a decomposed "café" must be folded before tokenizing.
//
// All functions are safe for concurrent use. A cases.Caser carries state,
// so one is built per call rather than shared.
package fold

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ComposeNFC returns s in Unicode Normalization Form C.
// Already-normalized input is returned without allocating.
func ComposeNFC(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Lower returns s lowercased with Indonesian case rules.
func Lower(s string) string {
	if isLowerASCII(s) {
		return s
	}
	return cases.Lower(language.Indonesian).String(s)
}

// String composes s to NFC and lowercases it.
func String(s string) string {
	return Lower(ComposeNFC(s))
}

// isLowerASCII reports whether s has no bytes that lowercasing could change.
func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || (c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
