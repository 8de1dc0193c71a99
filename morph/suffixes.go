package morph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Clitic is the derivational suffix closest to the root.
type Clitic int

const (
	CliticNone Clitic = iota
	CliticI           // -i
	CliticAn          // -an
	CliticKan         // -kan
	CliticWi          // -wi
	CliticWan         // -wan
)

// Possessive is the possessive pronoun clitic. The Dash forms are written
// with a hyphen (rumah-nya).
type Possessive int

const (
	PossNone    Possessive = iota
	PossKu                 // -ku
	PossMu                 // -mu
	PossNya                // -nya
	PossDashKu             // "-ku" written with the hyphen
	PossDashMu             // "-mu" written with the hyphen
	PossDashNya            // "-nya" written with the hyphen
)

// Particle is the outermost discourse particle.
type Particle int

const (
	ParticleNone Particle = iota
	ParticleKah           // -kah
	ParticleLah           // -lah
	ParticlePun           // -pun
	ParticleTah           // -tah
)

var cliticSurfaces = [...]string{"", "i", "an", "kan", "wi", "wan"}

var possessiveSurfaces = [...]string{"", "ku", "mu", "nya", "-ku", "-mu", "-nya"}

var particleSurfaces = [...]string{"", "kah", "lah", "pun", "tah"}

// Surface returns the written form, or "" for CliticNone.
func (c Clitic) Surface() string {
	if c < 0 || int(c) >= len(cliticSurfaces) {
		return ""
	}
	return cliticSurfaces[c]
}

// String returns the surface form, "none", or Clitic(n) for unknown values.
func (c Clitic) String() string {
	if c == CliticNone {
		return "none"
	}
	if s := c.Surface(); s != "" {
		return s
	}
	return fmt.Sprintf("Clitic(%d)", int(c))
}

// MarshalJSON encodes the clitic as its surface string (e.g. "kan").
func (c Clitic) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a surface string (e.g. "kan") into a Clitic.
func (c *Clitic) UnmarshalJSON(data []byte) error {
	v, err := decodeSurface(data, "clitic", cliticSurfaces[:])
	if err != nil {
		return err
	}
	*c = Clitic(v)
	return nil
}

// Surface returns the written form including any hyphen, or "".
func (p Possessive) Surface() string {
	if p < 0 || int(p) >= len(possessiveSurfaces) {
		return ""
	}
	return possessiveSurfaces[p]
}

// Dashed reports whether the possessive is written with a hyphen.
func (p Possessive) Dashed() bool {
	return p == PossDashKu || p == PossDashMu || p == PossDashNya
}

// String returns the surface form, "none", or Possessive(n) for unknown values.
func (p Possessive) String() string {
	if p == PossNone {
		return "none"
	}
	if s := p.Surface(); s != "" {
		return s
	}
	return fmt.Sprintf("Possessive(%d)", int(p))
}

// MarshalJSON encodes the possessive as its surface string (e.g. "-nya").
func (p Possessive) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a surface string into a Possessive.
func (p *Possessive) UnmarshalJSON(data []byte) error {
	v, err := decodeSurface(data, "possessive", possessiveSurfaces[:])
	if err != nil {
		return err
	}
	*p = Possessive(v)
	return nil
}

// Surface returns the written form, or "" for ParticleNone.
func (p Particle) Surface() string {
	if p < 0 || int(p) >= len(particleSurfaces) {
		return ""
	}
	return particleSurfaces[p]
}

// String returns the surface form, "none", or Particle(n) for unknown values.
func (p Particle) String() string {
	if p == ParticleNone {
		return "none"
	}
	if s := p.Surface(); s != "" {
		return s
	}
	return fmt.Sprintf("Particle(%d)", int(p))
}

// MarshalJSON encodes the particle as its surface string (e.g. "lah").
func (p Particle) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a surface string into a Particle.
func (p *Particle) UnmarshalJSON(data []byte) error {
	v, err := decodeSurface(data, "particle", particleSurfaces[:])
	if err != nil {
		return err
	}
	*p = Particle(v)
	return nil
}

// decodeSurface maps "none" or a surface string back to its index.
func decodeSurface(data []byte, kind string, surfaces []string) (int, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, err
	}
	if s == "none" || s == "" {
		return 0, nil
	}
	for i, surf := range surfaces {
		if i > 0 && surf == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s: %q", kind, s)
}

// Suffix describes one recognized suffix cluster. The zero value means no
// suffix was recognized.
type Suffix struct {
	Clitic     Clitic     `json:"clitic"`
	Possessive Possessive `json:"possessive"`
	Particle   Particle   `json:"particle"`
	Length     int        `json:"length"` // bytes stripped from the end of the word
}

func newSuffix(c Clitic, p Possessive, l Particle) Suffix {
	return Suffix{
		Clitic:     c,
		Possessive: p,
		Particle:   l,
		Length:     len(c.Surface()) + len(p.Surface()) + len(l.Surface()),
	}
}

// IsZero reports whether no suffix was recognized.
func (s Suffix) IsZero() bool { return s.Length == 0 }

// Surface returns the stripped text, e.g. "kannyalah".
func (s Suffix) Surface() string {
	return s.Clitic.Surface() + s.Possessive.Surface() + s.Particle.Surface()
}

// String returns a debug representation, e.g. kan+nya+lah.
func (s Suffix) String() string {
	if s.IsZero() {
		return "none"
	}
	parts := make([]string, 0, 3)
	if s.Clitic != CliticNone {
		parts = append(parts, s.Clitic.Surface())
	}
	if s.Possessive != PossNone {
		parts = append(parts, s.Possessive.Surface())
	}
	if s.Particle != ParticleNone {
		parts = append(parts, s.Particle.Surface())
	}
	return strings.Join(parts, "+")
}

// layers returns the number of components in the cluster.
func (s Suffix) layers() int {
	n := 0
	if s.Clitic != CliticNone {
		n++
	}
	if s.Possessive != PossNone {
		n++
	}
	if s.Particle != ParticleNone {
		n++
	}
	return n
}

// peel gives back the component closest to the root.
func (s Suffix) peel() Suffix {
	switch {
	case s.Clitic != CliticNone:
		return newSuffix(CliticNone, s.Possessive, s.Particle)
	case s.Possessive != PossNone:
		return newSuffix(CliticNone, PossNone, s.Particle)
	default:
		return Suffix{}
	}
}

// suffixRow is one gated outcome of a suffix pattern. Rows sharing a
// pattern are contiguous in suffixTable, highest minSyllables first.
type suffixRow struct {
	pattern      string
	minSyllables int
	desc         Suffix
}

// suffixTable is scanned longest pattern first. Built in init from the
// morpheme inventories below.
var suffixTable []suffixRow

var (
	chainClitics     = []Clitic{CliticI, CliticAn, CliticKan}
	chainPossessives = []Possessive{PossKu, PossMu, PossNya, PossDashKu, PossDashMu, PossDashNya}
	// -tah only ever stands alone: as the last layer of a chain it eats
	// roots like titah.
	chainParticles = []Particle{ParticleKah, ParticleLah, ParticlePun}
)

// baseSyllables is the minimum syllable count for stripping a single layer.
// Each additional layer raises the gate by one.
const baseSyllables = 3

func init() {
	suffixTable = buildSuffixTable()
}

func buildSuffixTable() []suffixRow {
	var rows []suffixRow

	add := func(c Clitic, p Possessive, l Particle) {
		full := newSuffix(c, p, l)
		pattern := full.Surface()
		rows = append(rows, chainRows(pattern, full)...)

		// A clitic -i directly after 'a' is the glide of a diphthong
		// (pakai, sampai). The guarded pattern strips only the outer layers.
		if c == CliticI {
			outer := newSuffix(CliticNone, p, l)
			guarded := "a" + pattern
			if outer.IsZero() {
				rows = append(rows, suffixRow{pattern: guarded})
			} else {
				rows = append(rows, chainRows(guarded, outer)...)
			}
		}
	}

	// ---- single layers ----
	for c := CliticI; c <= CliticWan; c++ {
		add(c, PossNone, ParticleNone)
	}
	for p := PossKu; p <= PossDashNya; p++ {
		add(CliticNone, p, ParticleNone)
	}
	for l := ParticleKah; l <= ParticleTah; l++ {
		add(CliticNone, PossNone, l)
	}

	// ---- two layers ----
	for _, c := range chainClitics {
		for _, p := range chainPossessives {
			add(c, p, ParticleNone)
		}
		for _, l := range chainParticles {
			add(c, PossNone, l)
		}
	}
	for _, p := range chainPossessives {
		for _, l := range chainParticles {
			add(CliticNone, p, l)
		}
	}

	// ---- three layers ----
	for _, c := range chainClitics {
		for _, p := range chainPossessives {
			for _, l := range chainParticles {
				add(c, p, l)
			}
		}
	}

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

// chainRows yields the tiers for a cluster: the full strip needs one extra
// syllable per layer, and each lower tier gives back the innermost layer.
func chainRows(pattern string, full Suffix) []suffixRow {
	rows := make([]suffixRow, 0, full.layers())
	for d := full; !d.IsZero(); d = d.peel() {
		rows = append(rows, suffixRow{
			pattern:      pattern,
			minSyllables: baseSyllables - 1 + d.layers(),
			desc:         d,
		})
	}
	return rows
}

// matchSuffix returns the descriptor of the longest catalog pattern ending
// s whose gate is met by syl, the syllable count of s. When the longest
// pattern has no satisfied tier the result is the zero Suffix: shorter
// patterns are not tried.
func matchSuffix(s string, syl int) Suffix {
	matched := ""
	for _, r := range suffixTable {
		if matched == "" {
			if len(r.pattern) >= len(s) || !strings.HasSuffix(s, r.pattern) {
				continue
			}
			matched = r.pattern
		} else if r.pattern != matched {
			break
		}
		if syl >= r.minSyllables {
			return r.desc
		}
	}
	return Suffix{}
}
