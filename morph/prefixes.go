package morph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// PrefixFamily classifies the outer prefix of a word.
type PrefixFamily int

const (
	PrefixNone   PrefixFamily = iota
	PrefixBer                 // ber-
	PrefixTer                 // ter-
	PrefixPer                 // per-
	PrefixPe                  // pe-, peng-, pem-, pen-, peny-, penge-
	PrefixMe                  // me-, meng-, mem-, men-, meny-, menge-
	PrefixDi                  // di-
	PrefixSe                  // se-
	PrefixKe                  // ke-
	PrefixKeDash              // "ke-" written with the hyphen
	PrefixKau                 // kau-
	PrefixKu                  // ku-
)

var prefixFamilyNames = map[PrefixFamily]string{
	PrefixNone:   "none",
	PrefixBer:    "ber",
	PrefixTer:    "ter",
	PrefixPer:    "per",
	PrefixPe:     "pe",
	PrefixMe:     "me",
	PrefixDi:     "di",
	PrefixSe:     "se",
	PrefixKe:     "ke",
	PrefixKeDash: "ke-",
	PrefixKau:    "kau",
	PrefixKu:     "ku",
}

// String returns the family name (e.g. "me"), or PrefixFamily(n).
func (f PrefixFamily) String() string {
	if name, ok := prefixFamilyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("PrefixFamily(%d)", int(f))
}

// MarshalJSON encodes the family as its name (e.g. "me").
func (f PrefixFamily) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes a family name (e.g. "me") into a PrefixFamily.
func (f *PrefixFamily) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for fam, name := range prefixFamilyNames {
		if name == s {
			*f = fam
			return nil
		}
	}
	return fmt.Errorf("unknown prefix family: %q", s)
}

// Prefix describes one recognized prefix. The zero value means no prefix
// was recognized.
//
// Underlying is the prefix before nasal mutation. For meng- before a vowel
// it is "me" and Elided is "k": the root began with a k that the nasal
// replaced. When no mutation is implied Underlying equals Surface and
// Elided is empty.
type Prefix struct {
	Family     PrefixFamily `json:"family"`
	Surface    string       `json:"surface"`         // stripped text, e.g. "memper"
	Inner      string       `json:"inner,omitempty"` // second-order layer, e.g. "per"
	Length     int          `json:"length"`
	Underlying string       `json:"underlying"`
	Elided     string       `json:"elided,omitempty"`
}

// IsZero reports whether no prefix was recognized.
func (p Prefix) IsZero() bool { return p.Length == 0 }

// String returns a debug representation, e.g. meng(me+k) or mem+per.
func (p Prefix) String() string {
	if p.IsZero() {
		return "none"
	}
	var sb strings.Builder
	if p.Inner != "" {
		sb.WriteString(p.Surface[:len(p.Surface)-len(p.Inner)])
		sb.WriteByte('+')
		sb.WriteString(p.Inner)
	} else {
		sb.WriteString(p.Surface)
	}
	if p.Elided != "" {
		sb.WriteByte('(')
		sb.WriteString(p.Underlying)
		sb.WriteByte('+')
		sb.WriteString(p.Elided)
		sb.WriteByte(')')
	}
	return sb.String()
}

// Restored returns the root as it was before nasal mutation: the elided
// consonant followed by rest. Without mutation it returns rest.
func (p Prefix) Restored(rest string) string {
	return p.Elided + rest
}

// nasalElision maps a mutated nasal prefix to the consonant it replaced
// when a vowel follows.
var nasalElision = map[string]string{
	"peng": "k", "meng": "k",
	"pem": "p", "mem": "p",
	"pen": "t", "men": "t",
	"peny": "s", "meny": "s",
}

// describePrefix builds the descriptor for stripping surface from the front
// of word. inner is the second-order layer at the end of surface, or "".
func describePrefix(word string, family PrefixFamily, surface, inner string) Prefix {
	p := Prefix{
		Family:     family,
		Surface:    surface,
		Inner:      inner,
		Length:     len(surface),
		Underlying: surface,
	}
	if inner != "" || len(surface) >= len(word) {
		return p
	}
	if c, ok := nasalElision[surface]; ok && !isConsonant(word, len(surface)) {
		p.Underlying = surface[:2]
		p.Elided = c
	}
	return p
}

// peel gives back the innermost layer of the prefix.
func (p Prefix) peel(word string) Prefix {
	if p.Inner == "" {
		return Prefix{}
	}
	return describePrefix(word, p.Family, p.Surface[:len(p.Surface)-len(p.Inner)], "")
}

// prefixRow is one gated outcome of a prefix pattern. Rows sharing a
// pattern are contiguous in prefixTable, highest minSyllables first.
type prefixRow struct {
	pattern      string
	minSyllables int
	family       PrefixFamily
	surface      string
	inner        string
}

// prefixTable is scanned longest pattern first.
var prefixTable []prefixRow

func init() {
	prefixTable = buildPrefixTable()
}

func buildPrefixTable() []prefixRow {
	var rows []prefixRow

	single := func(pattern string, family PrefixFamily) {
		rows = append(rows, prefixRow{pattern: pattern, minSyllables: baseSyllables, family: family, surface: pattern})
	}
	// compound strips outer+inner at one syllable more, else only outer.
	compound := func(outer, inner string, family PrefixFamily) {
		pattern := outer + inner
		rows = append(rows,
			prefixRow{pattern: pattern, minSyllables: baseSyllables + 1, family: family, surface: pattern, inner: inner},
			prefixRow{pattern: pattern, minSyllables: baseSyllables, family: family, surface: outer},
		)
	}
	// extended strips the long allomorph at one syllable more, else the short one.
	extended := func(long, short string, family PrefixFamily) {
		rows = append(rows,
			prefixRow{pattern: long, minSyllables: baseSyllables + 1, family: family, surface: long},
			prefixRow{pattern: long, minSyllables: baseSyllables, family: family, surface: short},
		)
	}

	// ---- ber-, ter-, per- ----
	compound("ber", "ke", PrefixBer)
	compound("ber", "se", PrefixBer)
	single("ber", PrefixBer)
	single("ter", PrefixTer)
	single("per", PrefixPer)

	// ---- pe- ----
	compound("pen", "ter", PrefixPe)
	compound("pem", "ber", PrefixPe)
	extended("penge", "peng", PrefixPe)
	for _, s := range []string{"peng", "peny", "pen", "pem", "pe"} {
		single(s, PrefixPe)
	}

	// ---- me- ----
	compound("men", "ter", PrefixMe)
	compound("mem", "per", PrefixMe)
	compound("mem", "ber", PrefixMe)
	extended("menge", "meng", PrefixMe)
	for _, s := range []string{"meng", "meny", "men", "mem", "me"} {
		single(s, PrefixMe)
	}

	// ---- di-, se-, ke-, kau-, ku- with second-order ter/per/ber ----
	for _, o := range []struct {
		outer  string
		family PrefixFamily
	}{
		{"di", PrefixDi},
		{"se", PrefixSe},
		{"ke", PrefixKe},
		{"kau", PrefixKau},
		{"ku", PrefixKu},
	} {
		for _, inner := range []string{"ter", "per", "ber"} {
			compound(o.outer, inner, o.family)
		}
		single(o.outer, o.family)
	}
	compound("di", "ke", PrefixDi)
	single("ke-", PrefixKeDash)

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if len(a.pattern) != len(b.pattern) {
			return len(a.pattern) > len(b.pattern)
		}
		if a.pattern != b.pattern {
			return a.pattern < b.pattern
		}
		return a.minSyllables > b.minSyllables
	})
	return rows
}

// matchPrefix returns the descriptor of the longest catalog pattern
// starting s whose gate is met by syl, the syllable count of s. As with
// suffixes, a matched pattern without a satisfied tier yields no prefix.
func matchPrefix(s string, syl int) Prefix {
	matched := ""
	for _, r := range prefixTable {
		if matched == "" {
			if len(r.pattern) >= len(s) || !strings.HasPrefix(s, r.pattern) {
				continue
			}
			matched = r.pattern
		} else if r.pattern != matched {
			break
		}
		if syl >= r.minSyllables {
			return describePrefix(s, r.family, r.surface, r.inner)
		}
	}
	return Prefix{}
}
