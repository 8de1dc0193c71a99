package morph

// minRootSyllables is the smallest root the backoff accepts.
const minRootSyllables = 2

// stripping is the set of affixes applied to one word or half.
type stripping struct {
	word   string
	prefix Prefix
	suffix Suffix
}

// root returns word without the applied affixes. Overlapping affixes
// yield the empty string.
func (st stripping) root() string {
	start, end := st.prefix.Length, len(st.word)-st.suffix.Length
	if start >= end {
		return ""
	}
	return st.word[start:end]
}

func (st stripping) affixLength() int {
	return st.prefix.Length + st.suffix.Length
}

func (st stripping) hasLayers() bool {
	return !st.prefix.IsZero() || !st.suffix.IsZero()
}

// peelOnce gives back one layer of the longer affix. Ties go to the
// suffix: -an and -i are the likeliest over-strips.
func (st stripping) peelOnce() stripping {
	if st.suffix.Length >= st.prefix.Length && !st.suffix.IsZero() {
		st.suffix = st.suffix.peel()
	} else {
		st.prefix = st.prefix.peel(st.word)
	}
	return st
}

// backoff peels layers until the root has minRootSyllables or nothing is
// left to peel. It reports the number of peels and whether the final root
// is still short.
func backoff(st stripping) (stripping, int, bool) {
	peels := 0
	for syllables(st.root()) < minRootSyllables && st.hasLayers() {
		st = st.peelOnce()
		peels++
	}
	return st, peels, syllables(st.root()) < minRootSyllables
}
