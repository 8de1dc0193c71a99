package morph

// isVowel reports whether b is one of the five Indonesian vowel letters.
func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// isConsonant reports whether s[pos] acts as a consonant.
//
// 'y' is a consonant at the start of s; elsewhere it is a consonant iff the
// character before it is a vowel. Runs of 'y' alternate, so the walk goes
// back to the first non-'y' character and flips once per 'y' after it.
func isConsonant(s string, pos int) bool {
	if pos < 0 || pos >= len(s) {
		return false
	}
	c := s[pos]
	if c != 'y' {
		return !isVowel(c)
	}

	i := pos
	for i > 0 && s[i-1] == 'y' {
		i--
	}
	// i is the first 'y' of the run.
	cons := i == 0 || isVowel(s[i-1])
	for j := i + 1; j <= pos; j++ {
		cons = !cons
	}
	return cons
}

// isGlide reports whether s[pos] closes a diphthong opened by s[pos-1]:
// the i of ai/oi or the u of au.
func isGlide(s string, pos int) bool {
	if pos == 0 {
		return false
	}
	switch s[pos-1] {
	case 'a':
		return s[pos] == 'i' || s[pos] == 'u'
	case 'o':
		return s[pos] == 'i'
	}
	return false
}

// syllables counts vowel nuclei in s. Each vowel opens a nucleus unless it
// is the glide of a diphthong whose first vowel opened one, so "pakai"
// counts 2 and "kauai" counts 2. The count gates affix stripping only.
func syllables(s string) int {
	n := 0
	glideAllowed := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isVowel(c) {
			glideAllowed = false
			continue
		}
		if glideAllowed && isGlide(s, i) {
			glideAllowed = false
			continue
		}
		n++
		glideAllowed = true
	}
	return n
}
