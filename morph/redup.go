package morph

import "strings"

// half is one side of a reduplicated compound. text is an independent copy;
// off is its byte offset in the compound.
type half struct {
	text   string
	off    int
	prefix Prefix
	suffix Suffix
}

func newHalf(word string, start, end int) *half {
	text := strings.Clone(word[start:end])
	syl := syllables(text)
	return &half{
		text:   text,
		off:    start,
		prefix: matchPrefix(text, syl),
		suffix: matchSuffix(text, syl),
	}
}

// stripped is the half without its prefix.
func (h *half) stripped() string { return h.text[h.prefix.Length:] }

// full applies both affixes, both gated on the half's own syllable count.
// A prefix that would overlap the suffix is dropped.
func (h *half) full() stripping {
	st := stripping{word: h.text, prefix: h.prefix, suffix: h.suffix}
	if st.affixLength() >= len(h.text) {
		st.prefix = Prefix{}
	}
	return st
}

// resolved is the outcome of the resolver: a range of one half. When st
// carries layers the range is derived from it and may be backed off.
type resolved struct {
	h          *half
	st         stripping
	start, end int
}

func wholeHalf(h *half) resolved {
	return resolved{h: h, st: stripping{word: h.text}, end: len(h.text)}
}

func affixed(h *half, st stripping) resolved {
	return resolved{h: h, st: st, start: st.prefix.Length, end: len(h.text) - st.suffix.Length}
}

func (r resolved) text() string { return r.h.text[r.start:r.end] }

// relation reports whether f is related to other: as its suffix for the
// suffix relation, as its prefix otherwise.
type relation func(other, f string) bool

var (
	suffixRelation relation = strings.HasSuffix
	prefixRelation relation = strings.HasPrefix
)

// locate returns the range of f inside y: its tail when suffix is set,
// its head otherwise.
func locate(y *half, f string, suffix bool) resolved {
	r := wholeHalf(y)
	if suffix {
		r.start = len(y.text) - len(f)
	} else {
		r.end = len(f)
	}
	return r
}

// relate tests every form of each half against the other half and keeps
// the longest related form. A half's forms are its prefix-stripped text and,
// after nasal mutation, the text with the elided consonant restored. On
// equal length the form without stripped layers wins.
func relate(first, second *half, rel relation, suffix bool) (resolved, bool) {
	var best resolved
	found := false
	consider := func(c resolved) {
		if !found || c.end-c.start > best.end-best.start ||
			(c.end-c.start == best.end-best.start && best.st.hasLayers() && !c.st.hasLayers()) {
			best, found = c, true
		}
	}

	for _, pair := range [2][2]*half{{first, second}, {second, first}} {
		x, y := pair[0], pair[1]
		f := x.stripped()
		if rel(y.text, f) {
			consider(affixed(x, stripping{word: x.text, prefix: x.prefix}))
		}
		if x.prefix.Elided != "" {
			if r := x.prefix.Restored(f); rel(y.text, r) {
				consider(locate(y, r, suffix))
			}
		}
	}
	return best, found
}

// reconcileNasal keeps the nasal of the first half's mutated prefix and
// re-tests both relations: mengata-ngatai relates through "ngata".
func reconcileNasal(first, second *half) (resolved, bool) {
	p := first.prefix
	if p.Elided == "" {
		return resolved{}, false
	}
	nasal := first.text[len(p.Underlying):]
	if !suffixRelation(second.text, nasal) && !prefixRelation(second.text, nasal) {
		return resolved{}, false
	}
	under := Prefix{
		Family:     p.Family,
		Surface:    p.Underlying,
		Length:     len(p.Underlying),
		Underlying: p.Underlying,
	}
	return affixed(first, stripping{word: first.text, prefix: under}), true
}

// chooseAmbiguous keeps the half carrying more affix material, fully
// stripped. On a tie it prefers the half whose root keeps more syllables
// after one peel, then the first half.
func chooseAmbiguous(first, second *half) resolved {
	fs, ss := first.full(), second.full()
	switch la, lb := fs.affixLength(), ss.affixLength(); {
	case la > lb:
		return affixed(first, fs)
	case lb > la:
		return affixed(second, ss)
	}
	if peeledSyllables(ss) > peeledSyllables(fs) {
		return affixed(second, ss)
	}
	return affixed(first, fs)
}

func peeledSyllables(st stripping) int {
	if st.hasLayers() {
		st = st.peelOnce()
	}
	return syllables(st.root())
}

// resolveRedup decides the root of a compound split at the hyphen idx.
func resolveRedup(word string, idx int) (resolved, Resolution) {
	first := newHalf(word, 0, idx)
	second := newHalf(word, idx+1, len(word))

	if first.text == "ke" {
		return wholeHalf(second), ResolvedKe
	}
	if strings.EqualFold(first.text, second.text) {
		return wholeHalf(first), ResolvedIdentical
	}
	if r, ok := relate(first, second, suffixRelation, true); ok {
		return r, ResolvedSuffix
	}
	if r, ok := relate(first, second, prefixRelation, false); ok {
		return r, ResolvedPrefix
	}
	if r, ok := reconcileNasal(first, second); ok {
		return r, ResolvedNasal
	}
	return chooseAmbiguous(first, second), ResolvedAmbiguous
}
