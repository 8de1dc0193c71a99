package tokenizer

import (
	"unicode"
	"unicode/utf8"
)

// wordTokens splits s into tokens using a rune-by-rune state machine.
// The caller guarantees s is non-empty.
//
// Rule priority (highest first):
//   - Whitespace merging
//   - Number grouping (dot as thousand separator, comma as decimal)
//   - Letter runs, joined across a single U+002D
//   - Default unicode classification
func wordTokens(s string) []Token {
	tokens := make([]Token, 0, len(s)/4+1)

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])

		// Whitespace: merge contiguous into one Space token
		if unicode.IsSpace(r) {
			start := i
			i += size
			for i < len(s) {
				nr, ns := utf8.DecodeRuneInString(s[i:])
				if !unicode.IsSpace(nr) {
					break
				}
				i += ns
			}
			tokens = append(tokens, Token{Text: s[start:i], Start: start, End: i, Type: Space})
			continue
		}

		// Digits: scan a number token with possible thousand-separator dots and decimal comma
		if unicode.IsDigit(r) {
			tok := scanNumber(s, i)
			tokens = append(tokens, tok)
			i = tok.End
			continue
		}

		// Letters: scan a word token with at most one hyphen
		if unicode.IsLetter(r) {
			tok := scanWord(s, i)
			tokens = append(tokens, tok)
			i = tok.End
			continue
		}

		// Punctuation: a run of hyphens is one token, anything else is one rune
		if unicode.IsPunct(r) {
			start := i
			i += size
			if r == '-' {
				for i < len(s) && s[i] == '-' {
					i++
				}
			}
			tokens = append(tokens, Token{Text: s[start:i], Start: start, End: i, Type: Punctuation})
			continue
		}

		// Fallback: treat unclassified runes as Symbol
		tokens = append(tokens, Token{Text: s[i : i+size], Start: i, End: i + size, Type: Symbol})
		i += size
	}

	return tokens
}

// scanNumber reads a number token starting at position pos.
// Handles thousand-separator dots (groups of exactly 3) and decimal commas,
// as written in Indonesian (1.000.000,50).
func scanNumber(s string, pos int) Token {
	i := pos

	// Consume initial digits
	for i < len(s) && isDigitByte(s[i]) {
		i++
	}

	// Try thousand-separator dots: \d{1,3}(\.\d{3})+
	for i < len(s) && s[i] == '.' {
		// Peek ahead: must be exactly 3 digits followed by non-digit or end
		if i+4 <= len(s) && isDigitByte(s[i+1]) && isDigitByte(s[i+2]) && isDigitByte(s[i+3]) {
			if i+4 >= len(s) || !isDigitByte(s[i+4]) {
				i += 4
				continue
			}
		}
		break
	}

	// Try decimal comma: must be followed by at least one digit
	if i < len(s) && s[i] == ',' {
		if i+1 < len(s) && isDigitByte(s[i+1]) {
			i++ // skip comma
			for i < len(s) && isDigitByte(s[i]) {
				i++
			}
		}
	}

	// A non-ASCII digit (e.g. Arabic-Indic) is consumed on its own.
	if i == pos {
		_, size := utf8.DecodeRuneInString(s[pos:])
		i += size
	}

	return Token{Text: s[pos:i], Start: pos, End: i, Type: Number}
}

// scanWord reads a word token starting at position pos: a run of letters,
// optionally followed by a single U+002D and a second run of letters.
// A hyphen that is doubled, trailing, or not followed by a letter is left
// for the punctuation rule.
func scanWord(s string, pos int) Token {
	i := consumeLetters(s, pos)

	if i < len(s) && s[i] == '-' {
		next := i + 1
		if next < len(s) {
			nr, _ := utf8.DecodeRuneInString(s[next:])
			if unicode.IsLetter(nr) {
				i = consumeLetters(s, next)
			}
		}
	}

	return Token{Text: s[pos:i], Start: pos, End: i, Type: Word}
}

// consumeLetters consumes a contiguous run of letters and combining marks.
func consumeLetters(s string, pos int) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if !unicode.IsLetter(r) && !unicode.Is(unicode.Mn, r) {
			break
		}
		pos += size
	}
	return pos
}

// isDigitByte returns true for ASCII digit bytes.
func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}
