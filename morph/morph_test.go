package morph

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Classifier
// ---------------------------------------------------------------------------

func TestIsVowel(t *testing.T) {
	for _, c := range []byte("aeiou") {
		if !isVowel(c) {
			t.Errorf("isVowel(%q) = false, want true", c)
		}
	}
	for _, c := range []byte("bcdfghjklmnpqrstvwxyz-") {
		if isVowel(c) {
			t.Errorf("isVowel(%q) = true, want false", c)
		}
	}
}

func TestIsConsonant(t *testing.T) {
	tests := []struct {
		name string
		s    string
		pos  int
		want bool
	}{
		{"plain consonant", "buku", 0, true},
		{"plain vowel", "buku", 1, false},
		{"y at start", "yoga", 0, true},
		{"y after vowel", "kaya", 2, true},
		{"y after consonant", "sky", 2, false},
		{"second y of run after vowel", "ayy", 2, false},
		{"third y of run after vowel", "ayyy", 3, true},
		{"y run at start", "yy", 1, false},
		{"negative position", "buku", -1, false},
		{"past end", "buku", 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConsonant(tt.s, tt.pos); got != tt.want {
				t.Errorf("isConsonant(%q, %d) = %v, want %v", tt.s, tt.pos, got, tt.want)
			}
		})
	}
}

func TestSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"", 0},
		{"xyz", 0},
		{"tak", 1},
		{"lauk", 1},
		{"buku", 2},
		{"pakai", 2},
		{"kauai", 2},
		{"ngatai", 2},
		{"ahli", 2},
		{"dia", 2},
		{"ahlimu", 3},
		{"berabad", 3},
		{"mengambil", 3},
		{"dimakan", 3},
		{"mengenai", 3},
		{"bukunyalah", 4},
		{"persatuan", 4},
		{"pengertianmukah", 6},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := syllables(tt.word); got != tt.want {
				t.Errorf("syllables(%q) = %d, want %d", tt.word, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Suffix table
// ---------------------------------------------------------------------------

func TestSuffixTableOrder(t *testing.T) {
	seen := make(map[string]bool)
	for i, r := range suffixTable {
		if r.desc.Length > len(r.pattern) {
			t.Errorf("row %d %q strips %d bytes, longer than the pattern", i, r.pattern, r.desc.Length)
		}
		if !r.desc.IsZero() && !strings.HasSuffix(r.pattern, r.desc.Surface()) {
			t.Errorf("row %d %q strips %q, not a tail of the pattern", i, r.pattern, r.desc.Surface())
		}
		if i == 0 {
			seen[r.pattern] = true
			continue
		}
		prev := suffixTable[i-1]
		if len(prev.pattern) < len(r.pattern) {
			t.Errorf("row %d %q is longer than row %d %q", i, r.pattern, i-1, prev.pattern)
		}
		if prev.pattern == r.pattern {
			if prev.minSyllables <= r.minSyllables {
				t.Errorf("rows for %q not ordered by gate: %d then %d", r.pattern, prev.minSyllables, r.minSyllables)
			}
			continue
		}
		if seen[r.pattern] {
			t.Errorf("rows for %q are not contiguous", r.pattern)
		}
		seen[r.pattern] = true
	}
}

func TestSuffixTableCompleteness(t *testing.T) {
	for _, pattern := range []string{
		"i", "an", "kan", "wi", "wan",
		"ku", "mu", "nya", "-ku", "-mu", "-nya",
		"kah", "lah", "pun", "tah",
		"kannya", "kan-nya", "nyalah", "-nyalah", "kannyalah", "annyapun",
		"ai", "ainya", "ai-nyalah",
	} {
		found := false
		for _, r := range suffixTable {
			if r.pattern == pattern {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("suffix pattern %q missing from table", pattern)
		}
	}
	for _, r := range suffixTable {
		if strings.Contains(r.pattern, "tah") && r.pattern != "tah" {
			t.Errorf("tah only stands alone, found in %q", r.pattern)
		}
	}
}

func TestMatchSuffix(t *testing.T) {
	tests := []struct {
		name string
		word string
		syl  int
		want Suffix
	}{
		{"possessive", "bukunya", 3, newSuffix(CliticNone, PossNya, ParticleNone)},
		{"possessive gated", "bukunya", 2, Suffix{}},
		{"kan gated, no fallback to an", "makan", 2, Suffix{}},
		{"an", "makanan", 3, newSuffix(CliticAn, PossNone, ParticleNone)},
		{"diphthong guard", "pakai", 2, Suffix{}},
		{"diphthong guard long word", "mengenai", 3, Suffix{}},
		{"guarded outer layer", "sampaiku", 3, newSuffix(CliticNone, PossKu, ParticleNone)},
		{"two layers", "bukunyalah", 4, newSuffix(CliticNone, PossNya, ParticleLah)},
		{"two layers degraded", "bukunyalah", 3, newSuffix(CliticNone, PossNone, ParticleLah)},
		{"clitic and possessive", "dimakannya", 4, newSuffix(CliticKan, PossNya, ParticleNone)},
		{"clitic and possessive degraded", "dimakannya", 3, newSuffix(CliticNone, PossNya, ParticleNone)},
		{"three layers", "pengertianmukah", 6, newSuffix(CliticAn, PossMu, ParticleKah)},
		{"three layers degraded once", "pengertianmukah", 4, newSuffix(CliticNone, PossMu, ParticleKah)},
		{"dash possessive", "rumah-nya", 3, newSuffix(CliticNone, PossDashNya, ParticleNone)},
		{"tah", "apatah", 3, newSuffix(CliticNone, PossNone, ParticleTah)},
		{"tah gated", "titah", 2, Suffix{}},
		{"wan", "wartawan", 3, newSuffix(CliticWan, PossNone, ParticleNone)},
		{"pattern is the whole word", "nya", 5, Suffix{}},
		{"no match", "buku", 2, Suffix{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchSuffix(tt.word, tt.syl)
			if got != tt.want {
				t.Errorf("matchSuffix(%q, %d) = %v, want %v", tt.word, tt.syl, got, tt.want)
			}
		})
	}
}

func TestSuffixGate(t *testing.T) {
	for _, r := range suffixTable {
		if r.desc.IsZero() {
			continue
		}
		word := "bbbb" + r.pattern
		if got := matchSuffix(word, r.minSyllables); got.Length < r.desc.Length {
			t.Errorf("matchSuffix(%q, %d) = %v, want at least %v", word, r.minSyllables, got, r.desc)
		}
		if got := matchSuffix(word, r.minSyllables-1); got.Length >= r.desc.Length {
			t.Errorf("matchSuffix(%q, %d) = %v, gate of %v violated", word, r.minSyllables-1, got, r.desc)
		}
	}
}

func TestSuffixPeel(t *testing.T) {
	s := newSuffix(CliticKan, PossNya, ParticleLah)
	want := []string{"kan+nya+lah", "nya+lah", "lah", "none"}
	for i, w := range want {
		if got := s.String(); got != w {
			t.Errorf("peel %d: String() = %q, want %q", i, got, w)
		}
		s = s.peel()
	}
	if !s.IsZero() {
		t.Errorf("peeling an empty suffix = %v, want zero", s)
	}
}

func TestSuffixJSON(t *testing.T) {
	in := newSuffix(CliticKan, PossDashNya, ParticlePun)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"clitic":"kan","possessive":"-nya","particle":"pun","length":10}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
	var out Suffix
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("Unmarshal = %v, want %v", out, in)
	}
	var c Clitic
	if err := json.Unmarshal([]byte(`"xyz"`), &c); err == nil {
		t.Error("Unmarshal of unknown clitic succeeded, want error")
	}
}

// ---------------------------------------------------------------------------
// Prefix table
// ---------------------------------------------------------------------------

func TestMatchPrefix(t *testing.T) {
	tests := []struct {
		name       string
		word       string
		syl        int
		surface    string
		family     PrefixFamily
		inner      string
		underlying string
		elided     string
	}{
		{"mem before consonant", "membaca", 3, "mem", PrefixMe, "", "mem", ""},
		{"meng before vowel", "mengambil", 3, "meng", PrefixMe, "", "me", "k"},
		{"men before vowel", "menolong", 3, "men", PrefixMe, "", "me", "t"},
		{"mem before vowel", "memukul", 3, "mem", PrefixMe, "", "me", "p"},
		{"meny before vowel", "menyapu", 3, "meny", PrefixMe, "", "me", "s"},
		{"compound", "mempermudah", 4, "memper", PrefixMe, "per", "memper", ""},
		{"compound degraded", "mempermudah", 3, "mem", PrefixMe, "", "mem", ""},
		{"penge", "pengetahu", 4, "penge", PrefixPe, "", "penge", ""},
		{"penge degraded", "pengetahu", 3, "peng", PrefixPe, "", "pe", "k"},
		{"keber degraded to ke", "kebersih", 3, "ke", PrefixKe, "", "ke", ""},
		{"ber", "berabad", 3, "ber", PrefixBer, "", "ber", ""},
		{"dike", "dikenali", 4, "dike", PrefixDi, "ke", "dike", ""},
		{"ke dash", "ke-atas", 3, "ke-", PrefixKeDash, "", "ke-", ""},
		{"kau", "kaulihat", 3, "kau", PrefixKau, "", "kau", ""},
		{"gated", "buka", 2, "", PrefixNone, "", "", ""},
		{"pattern is the whole word", "me", 5, "", PrefixNone, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchPrefix(tt.word, tt.syl)
			if got.Surface != tt.surface || got.Family != tt.family || got.Inner != tt.inner ||
				got.Underlying != tt.underlying || got.Elided != tt.elided || got.Length != len(tt.surface) {
				t.Errorf("matchPrefix(%q, %d) = %+v, want surface=%q family=%v inner=%q underlying=%q elided=%q",
					tt.word, tt.syl, got, tt.surface, tt.family, tt.inner, tt.underlying, tt.elided)
			}
		})
	}
}

func TestPrefixGate(t *testing.T) {
	for _, r := range prefixTable {
		word := r.pattern + "xxxx"
		if got := matchPrefix(word, r.minSyllables); got.Length < len(r.surface) {
			t.Errorf("matchPrefix(%q, %d) = %v, want at least %q", word, r.minSyllables, got, r.surface)
		}
		if got := matchPrefix(word, r.minSyllables-1); got.Length >= len(r.surface) {
			t.Errorf("matchPrefix(%q, %d) = %v, gate of %q violated", word, r.minSyllables-1, got, r.surface)
		}
	}
}

func TestPrefixPeelAndRestore(t *testing.T) {
	word := "mempermudah"
	p := matchPrefix(word, 4)
	if got := p.String(); got != "mem+per" {
		t.Errorf("String() = %q, want %q", got, "mem+per")
	}
	p = p.peel(word)
	if p.Surface != "mem" || p.Length != 3 {
		t.Errorf("peel = %+v, want mem", p)
	}
	if p = p.peel(word); !p.IsZero() {
		t.Errorf("second peel = %+v, want zero", p)
	}

	q := matchPrefix("menulis", 3)
	if got := q.Restored("ulis"); got != "tulis" {
		t.Errorf("Restored(%q) = %q, want %q", "ulis", got, "tulis")
	}
	if got := q.String(); got != "men(me+t)" {
		t.Errorf("String() = %q, want %q", got, "men(me+t)")
	}
}

func TestPrefixFamilyJSON(t *testing.T) {
	data, err := json.Marshal(PrefixKeDash)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"ke-"` {
		t.Errorf("Marshal = %s, want %q", data, "ke-")
	}
	var f PrefixFamily
	if err := json.Unmarshal(data, &f); err != nil || f != PrefixKeDash {
		t.Errorf("Unmarshal = %v, %v, want %v", f, err, PrefixKeDash)
	}
	if err := json.Unmarshal([]byte(`"xyz"`), &f); err == nil {
		t.Error("Unmarshal of unknown family succeeded, want error")
	}
}

// ---------------------------------------------------------------------------
// Stem
// ---------------------------------------------------------------------------

func TestStem(t *testing.T) {
	tests := []struct {
		word        string
		want        string
		wantChanged bool
	}{
		// Malformed
		{"", "", false},
		{"-", "-", false},
		{"!!", "!!", false},

		// Roots
		{"buku", "buku", false},
		{"makan", "makan", false},
		{"mereka", "mereka", false},

		// Suffixes, then prefixes
		{"bukunya", "buku", true},
		{"apakah", "apa", true},
		{"makanan", "makan", true},
		{"membacakan", "baca", true},
		{"persatuan", "satu", true},
		{"kebersihan", "bersih", true},
		{"pengetahuan", "tahu", true},
		{"menuliskan", "ulis", true},
		{"rumah-nya", "rumah", true},

		// Reduplication
		{"buku-buku", "buku", true},
		{"ahli-ahli", "ahli", true},
		{"berabad-abad", "abad", true},
		{"ambil-mengambil", "ambil", true},
		{"ahli-ahlimu", "ahli", true},
		{"buah-buahan", "buah", true},
		{"tolong-menolong", "tolong", true},
		{"mengata-ngatai", "ngata", true},
		{"ke-atas", "atas", true},
		{"sayur-dimakan", "makan", true},
		{"tak-tak", "tak", true},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, changed := Stem(tt.word)
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("Stem(%q) = (%q, %v), want (%q, %v)", tt.word, got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

func TestStripBarePrefix(t *testing.T) {
	s := New(Options{StripBarePrefix: true})
	tests := []struct {
		word string
		want string
	}{
		{"terbuka", "buka"},
		{"mereka", "reka"},
		{"buku", "buku"},
		{"bukunya", "buku"},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got, _ := s.Stem(tt.word); got != tt.want {
				t.Errorf("Stem(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
	if got, _ := Stem("terbuka"); got != "terbuka" {
		t.Errorf("default Stem(%q) = %q, want unchanged", "terbuka", got)
	}
	if !s.Options().StripBarePrefix {
		t.Error("Options().StripBarePrefix = false, want true")
	}
}

// ---------------------------------------------------------------------------
// Analyze
// ---------------------------------------------------------------------------

func TestAnalyze(t *testing.T) {
	tests := []struct {
		word       string
		stem       string
		start, end int
		prefix     string
		suffix     string
		resolution Resolution
		diag       Diagnostics
	}{
		{"membacakan", "baca", 3, 7, "mem", "kan", ResolvedNone, Diagnostics{}},
		{"buku", "buku", 0, 4, "none", "none", ResolvedNone, Diagnostics{}},
		{"berabad-abad", "abad", 8, 12, "none", "none", ResolvedSuffix, Diagnostics{}},
		{"ahli-ahlimu", "ahli", 0, 4, "none", "none", ResolvedPrefix, Diagnostics{}},
		{"buku-buku", "buku", 0, 4, "none", "none", ResolvedIdentical, Diagnostics{}},
		{"ke-atas", "atas", 3, 7, "none", "none", ResolvedKe, Diagnostics{}},
		{"mengata-ngatai", "ngata", 2, 7, "me", "none", ResolvedNasal, Diagnostics{}},
		{"sayur-dimakan", "makan", 8, 13, "di", "none", ResolvedAmbiguous, Diagnostics{Ambiguous: true, Backoffs: 1}},
		{"lauk-pauk", "lauk", 0, 4, "none", "none", ResolvedAmbiguous, Diagnostics{Ambiguous: true, ShortStem: true}},
		{"tak-tak", "tak", 0, 3, "none", "none", ResolvedIdentical, Diagnostics{ShortStem: true}},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			a := Analyze(tt.word)
			if a.Stem != tt.stem || a.Start != tt.start || a.End != tt.end {
				t.Errorf("Analyze(%q) stem = %q [%d:%d], want %q [%d:%d]",
					tt.word, a.Stem, a.Start, a.End, tt.stem, tt.start, tt.end)
			}
			if got := a.Prefix.String(); got != tt.prefix {
				t.Errorf("Analyze(%q).Prefix = %q, want %q", tt.word, got, tt.prefix)
			}
			if got := a.Suffix.String(); got != tt.suffix {
				t.Errorf("Analyze(%q).Suffix = %q, want %q", tt.word, got, tt.suffix)
			}
			if a.Resolution != tt.resolution {
				t.Errorf("Analyze(%q).Resolution = %v, want %v", tt.word, a.Resolution, tt.resolution)
			}
			if a.Diagnostics != tt.diag {
				t.Errorf("Analyze(%q).Diagnostics = %+v, want %+v", tt.word, a.Diagnostics, tt.diag)
			}
			if a.Word[a.Start:a.End] != a.Stem {
				t.Errorf("Analyze(%q): Word[%d:%d] = %q, want %q", tt.word, a.Start, a.End, a.Word[a.Start:a.End], a.Stem)
			}
		})
	}
}

func TestAnalysisString(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"buku", "buku"},
		{"membacakan", "baca[prefix:mem|suffix:kan]"},
		{"berabad-abad", "abad[redup:suffix]"},
		{"sayur-dimakan", "makan[prefix:di|redup:ambiguous|backoff:1]"},
		{"tak-tak", "tak[redup:identical|short]"},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := Analyze(tt.word).String(); got != tt.want {
				t.Errorf("Analyze(%q).String() = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestResolutionJSON(t *testing.T) {
	for r := ResolvedNone; r <= ResolvedAmbiguous; r++ {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", r, err)
		}
		var got Resolution
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if got != r {
			t.Errorf("round trip of %v = %v", r, got)
		}
	}
	if got := Resolution(99).String(); got != "Resolution(99)" {
		t.Errorf("String() = %q, want %q", got, "Resolution(99)")
	}
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

var propertyWords = []string{
	"", "-", "a", "ke", "buku", "bukunya", "membacakan", "pengertianmukah",
	"berabad-abad", "ambil-mengambil", "ahli-ahlimu", "sayur-dimakan",
	"lauk-pauk", "tak-tak", "rumah-nya", "ke-atas", "a-b", "a--b", "-a", "a-",
	"kannyalah", "menyanyikan", "dikerjakannyalah", "keberhasilannya",
}

func TestStemProperties(t *testing.T) {
	for _, w := range propertyWords {
		a := Analyze(w)
		if len(a.Stem) > len(w) {
			t.Errorf("Analyze(%q).Stem = %q, longer than input", w, a.Stem)
		}
		if w != "" && a.Stem == "" {
			t.Errorf("Analyze(%q).Stem is empty", w)
		}
		if a.Start < 0 || a.Start > a.End || a.End > len(w) || w[a.Start:a.End] != a.Stem {
			t.Errorf("Analyze(%q) window [%d:%d] does not match stem %q", w, a.Start, a.End, a.Stem)
		}
		if a.Suffix.Length > len(a.Suffix.Surface()) {
			t.Errorf("Analyze(%q).Suffix strips more than its surface", w)
		}
		if got, changed := Stem(w); changed != (got != w) {
			t.Errorf("Stem(%q) = (%q, %v): changed flag disagrees", w, got, changed)
		}
	}
}

func TestStemIdempotentOnRoots(t *testing.T) {
	for _, w := range []string{"buku", "makan", "abad", "ahli", "ambil", "rumah", "satu", "baca"} {
		if got, changed := Stem(w); got != w || changed {
			t.Errorf("Stem(%q) = (%q, %v), want (%q, false)", w, got, changed, w)
		}
	}
}

func TestStems(t *testing.T) {
	if got := Stems(nil); got != nil {
		t.Errorf("Stems(nil) = %v, want nil", got)
	}
	got := Stems([]string{"bukunya", "buku-buku", ""})
	want := []string{"buku", "buku", ""}
	if len(got) != len(want) {
		t.Fatalf("Stems() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Stems()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Benchmarks
// ---------------------------------------------------------------------------

func BenchmarkStem(b *testing.B) {
	for b.Loop() {
		Stem("pengertianmukah")
	}
}

func BenchmarkStemCompound(b *testing.B) {
	for b.Loop() {
		Stem("tolong-menolong")
	}
}

func BenchmarkStemBare(b *testing.B) {
	for b.Loop() {
		Stem("buku")
	}
}

func BenchmarkSyllables(b *testing.B) {
	for b.Loop() {
		syllables("pengertianmukah")
	}
}

// ---------------------------------------------------------------------------
// Fuzz
// ---------------------------------------------------------------------------

func FuzzStem(f *testing.F) {
	f.Add("bukunya")
	f.Add("berabad-abad")
	f.Add("")
	f.Add("-")
	f.Add("a-")
	f.Add("sayur-dimakan")
	f.Add("kan-nyalah")
	f.Fuzz(func(t *testing.T, word string) {
		a := Analyze(word)
		if word != "" && a.Stem == "" {
			t.Errorf("Analyze(%q) returned empty stem", word)
		}
		if len(a.Stem) > len(word) {
			t.Errorf("Analyze(%q).Stem = %q, longer than input", word, a.Stem)
		}
		if word[a.Start:a.End] != a.Stem {
			t.Errorf("Analyze(%q) window [%d:%d] does not match stem %q", word, a.Start, a.End, a.Stem)
		}
	})
}

// ---------------------------------------------------------------------------
// Examples
// ---------------------------------------------------------------------------

func ExampleStem() {
	fmt.Println(Stem("bukunya"))
	fmt.Println(Stem("berabad-abad"))
	fmt.Println(Stem("makan"))
	// Output:
	// buku true
	// abad true
	// makan false
}

func ExampleAnalyze() {
	fmt.Println(Analyze("membacakan"))
	fmt.Println(Analyze("berabad-abad"))
	fmt.Println(Analyze("sayur-dimakan"))
	// Output:
	// baca[prefix:mem|suffix:kan]
	// abad[redup:suffix]
	// makan[prefix:di|redup:ambiguous|backoff:1]
}

func ExampleStems() {
	fmt.Println(Stems([]string{"kebersihan", "persatuan", "buku-buku"}))
	// Output:
	// [bersih satu buku]
}
