// Package morph strips Indonesian inflectional and derivational affixes to
// recover a root form for search indexing.
//
// The package provides two API layers:
//
//   - Structured: Analyze returns an Analysis with the recognized prefix
//     and suffix descriptors, the reduplication rule that fired, and
//     diagnostics for ambiguous or short results.
//
//   - Convenience: Stem returns the root and whether it differs from the
//     input, and Stems is a batch wrapper for use with tokenizer.Words().
//
// Stripping is table-driven and gated by syllable counts: a suffix cluster
// is removed first, then a prefix if the remainder still has more than two
// syllables. Hyphenated compounds (buku-buku, berabad-abad) are resolved by
// comparing the two halves. No dictionary is consulted.
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations (v1.0):
//
//   - The recovered root is not guaranteed to be a dictionary word.
//   - Nasal mutation is tracked but never undone in the output:
//     menuliskan stems to ulis, not tulis.
//   - A bare clitic -i is stripped whenever the word is long enough, so
//     some roots ending in i lose it (berlari -> berlar).
//   - Input is expected in lowercase Latin script. Use the tokenizer and
//     internal/fold packages to prepare raw text.
package morph

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Resolution names the rule that decided a hyphenated compound.
type Resolution int

const (
	ResolvedNone      Resolution = iota // not a compound
	ResolvedKe                          // ke-X: the second half is kept
	ResolvedIdentical                   // X-X
	ResolvedSuffix                      // one half ends with the other's stripped form
	ResolvedPrefix                      // one half starts with the other's stripped form
	ResolvedNasal                       // related after keeping the nasal of meng-, mem-, ...
	ResolvedAmbiguous                   // no relation; best-effort choice
)

var resolutionNames = map[Resolution]string{
	ResolvedNone:      "none",
	ResolvedKe:        "ke",
	ResolvedIdentical: "identical",
	ResolvedSuffix:    "suffix",
	ResolvedPrefix:    "prefix",
	ResolvedNasal:     "nasal",
	ResolvedAmbiguous: "ambiguous",
}

// String returns the rule name (e.g. "identical").
func (r Resolution) String() string {
	if name, ok := resolutionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Resolution(%d)", int(r))
}

// MarshalJSON encodes the resolution as its name.
func (r Resolution) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a rule name into a Resolution.
func (r *Resolution) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for res, name := range resolutionNames {
		if name == s {
			*r = res
			return nil
		}
	}
	return fmt.Errorf("unknown resolution: %q", s)
}

// Diagnostics reports conditions a caller may want to act on. None of them
// is an error: Stem always returns a usable result.
type Diagnostics struct {
	// Ambiguous is set when neither half of a compound relates to the other.
	Ambiguous bool `json:"ambiguous,omitempty"`
	// ShortStem is set when the root has fewer than two syllables and no
	// affix layer was left to give back.
	ShortStem bool `json:"short_stem,omitempty"`
	// Backoffs counts affix layers given back to lengthen a short root.
	Backoffs int `json:"backoffs,omitempty"`
}

// Analysis is the full result of stemming one word.
// Word[Start:End] == Stem always holds.
type Analysis struct {
	Word        string      `json:"word"`
	Stem        string      `json:"stem"`
	Start       int         `json:"start"`
	End         int         `json:"end"`
	Prefix      Prefix      `json:"prefix"`
	Suffix      Suffix      `json:"suffix"`
	Resolution  Resolution  `json:"resolution"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Changed reports whether the stem differs from the input word.
func (a Analysis) Changed() bool { return a.Stem != a.Word }

// String returns a debug representation, e.g.
// baca[prefix:mem|suffix:kan] or abad[prefix:ber|redup:suffix].
func (a Analysis) String() string {
	var parts []string
	if !a.Prefix.IsZero() {
		parts = append(parts, "prefix:"+a.Prefix.String())
	}
	if !a.Suffix.IsZero() {
		parts = append(parts, "suffix:"+a.Suffix.String())
	}
	if a.Resolution != ResolvedNone {
		parts = append(parts, "redup:"+a.Resolution.String())
	}
	if a.Diagnostics.Backoffs > 0 {
		parts = append(parts, fmt.Sprintf("backoff:%d", a.Diagnostics.Backoffs))
	}
	if a.Diagnostics.ShortStem {
		parts = append(parts, "short")
	}
	if len(parts) == 0 {
		return a.Stem
	}
	return a.Stem + "[" + strings.Join(parts, "|") + "]"
}

// Options tunes a Stemmer.
type Options struct {
	// StripBarePrefix strips a prefix even when no suffix was removed
	// (terbuka -> buka). By default a prefix is only considered after a
	// suffix, which keeps roots such as mereka and sepatu intact.
	StripBarePrefix bool
}

// Stemmer stems words with fixed options. It holds no mutable state, so a
// single Stemmer may be shared by any number of goroutines.
type Stemmer struct {
	opts Options
}

// New returns a Stemmer configured with opts.
func New(opts Options) *Stemmer {
	return &Stemmer{opts: opts}
}

// Options returns the options the Stemmer was built with.
func (s *Stemmer) Options() Options { return s.opts }

var defaultStemmer = New(Options{})

const maxWordBytes = 256

// Stem returns the root of word and whether it differs from word.
// Empty input, input without letters, and input longer than maxWordBytes
// are returned unchanged.
func Stem(word string) (string, bool) { return defaultStemmer.Stem(word) }

// Analyze returns the full analysis of word with default options.
func Analyze(word string) Analysis { return defaultStemmer.Analyze(word) }

// Stems stems a slice of words with default options.
// Designed to be used with tokenizer.Words().
// Returns nil if the input is nil.
func Stems(words []string) []string { return defaultStemmer.Stems(words) }

// Stem returns the root of word and whether it differs from word.
func (s *Stemmer) Stem(word string) (string, bool) {
	a := s.Analyze(word)
	return a.Stem, a.Changed()
}

// Stems stems every word in words.
func (s *Stemmer) Stems(words []string) []string {
	if words == nil {
		return nil
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i], _ = s.Stem(w)
	}
	return out
}

// Analyze stems word and reports how the root was found.
func (s *Stemmer) Analyze(word string) Analysis {
	if !stemmable(word) {
		return Analysis{Word: word, Stem: word, End: len(word)}
	}
	idx := strings.IndexByte(word, '-')
	if idx < 0 {
		return s.analyzeWord(word)
	}
	return s.analyzeCompound(word, idx)
}

// stemmable reports whether word passes the entry guard.
func stemmable(word string) bool {
	if word == "" || len(word) > maxWordBytes {
		return false
	}
	for _, r := range word {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// analyzeWord strips a suffix cluster and then, if more than two syllables
// remain, a prefix.
func (s *Stemmer) analyzeWord(word string) Analysis {
	w := newWindow(word)
	sfx := matchSuffix(word, syllables(word))
	w.trimEnd(sfx.Length)

	var pfx Prefix
	if !sfx.IsZero() || s.opts.StripBarePrefix {
		rest := w.text()
		if syl := syllables(rest); syl > 2 {
			pfx = matchPrefix(rest, syl)
		}
	}

	st := stripping{word: word, prefix: pfx, suffix: sfx}
	stripped := st.hasLayers()
	st, peels, short := backoff(st)

	w = newWindow(word)
	w.trimStart(st.prefix.Length)
	w.trimEnd(st.suffix.Length)
	return Analysis{
		Word:   word,
		Stem:   w.text(),
		Start:  w.start,
		End:    w.end,
		Prefix: st.prefix,
		Suffix: st.suffix,
		Diagnostics: Diagnostics{
			ShortStem: stripped && short,
			Backoffs:  peels,
		},
	}
}

// analyzeCompound handles a word containing a hyphen at idx.
func (s *Stemmer) analyzeCompound(word string, idx int) Analysis {
	// A hyphen at an edge, or more than one, does not split a compound.
	if idx == 0 || idx == len(word)-1 || strings.Count(word, "-") > 1 {
		return s.analyzeWord(word)
	}
	// rumah-nya: the hyphen belongs to the possessive.
	if sfx := matchSuffix(word, syllables(word)); sfx.Possessive.Dashed() {
		return s.analyzeWord(word)
	}

	r, rule := resolveRedup(word, idx)
	peels := 0
	if r.st.hasLayers() {
		var st stripping
		st, peels, _ = backoff(r.st)
		r = affixed(r.h, st)
	}

	w := window{buf: word, start: r.h.off + r.start, end: r.h.off + r.end}
	return Analysis{
		Word:       word,
		Stem:       w.text(),
		Start:      w.start,
		End:        w.end,
		Prefix:     r.st.prefix,
		Suffix:     r.st.suffix,
		Resolution: rule,
		Diagnostics: Diagnostics{
			Ambiguous: rule == ResolvedAmbiguous,
			ShortStem: syllables(w.text()) < minRootSyllables,
			Backoffs:  peels,
		},
	}
}
