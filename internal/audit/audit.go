// Package audit scans a corpus of .txt files and checks the tokenizer and
// stemmer against it: every chunk must reconstruct from its tokens,
// and every analysis must keep its stem inside the word window.
package audit

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arissetyawan/indostemmer/internal/fold"
	"github.com/arissetyawan/indostemmer/internal/logging"
	"github.com/arissetyawan/indostemmer/morph"
	"github.com/arissetyawan/indostemmer/pipeline"
	"github.com/arissetyawan/indostemmer/tokenizer"
)

const (
	chunkSize      = 4 << 20 // 4 MB per read chunk
	bytesToMBShift = 20
	outlierFactor  = 3
	topAmbiguous   = 10
)

// Failure is one problem found in a file.
type Failure struct {
	Path   string
	Kind   string // RECON_FAIL, WINDOW_FAIL, CHANGE_OUTLIER
	Detail string
}

// Count pairs a word with its number of occurrences.
type Count struct {
	Word  string
	Count int
}

// Report is the aggregate result of a run.
type Report struct {
	Files       int
	Bytes       int64
	ReconOK     int
	ReconFail   int
	Words       int
	Changed     int
	ShortStems  int
	Backoffs    int
	TokenTypes  map[tokenizer.TokenType]int
	Resolutions map[morph.Resolution]int
	Ambiguous   []Count
	Failures    []Failure
	Duration    time.Duration

	mu        sync.Mutex
	ambiguous map[string]int
	ratios    []fileRatio
}

type fileRatio struct {
	path    string
	words   int
	changed int
	ratio   float64
}

type fileState struct {
	path        string
	stemmer     pipeline.Stemmer
	tokenCounts map[tokenizer.TokenType]int
	resolutions map[morph.Resolution]int
	ambiguous   map[string]int
	totalBytes  int64
	words       int
	changed     int
	shortStems  int
	backoffs    int
	reconFailed bool
	failures    []Failure
}

// Auditor runs corpus audits.
type Auditor struct {
	stemmer pipeline.Stemmer
	log     *slog.Logger
	workers int
}

// New returns an Auditor that stems with stemmer and scans at most workers
// files at a time. log may be nil.
func New(stemmer pipeline.Stemmer, workers int, log *slog.Logger) *Auditor {
	if stemmer == nil {
		stemmer = pipeline.Direct(morph.New(morph.Options{}))
	}
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Auditor{stemmer: stemmer, log: log, workers: workers}
}

// Files returns the .txt files under dir in lexical order.
func Files(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return paths, nil
}

// Run audits every .txt file under dir. Stemmer errors abort the run;
// check failures are collected in the report.
func (a *Auditor) Run(ctx context.Context, dir string) (*Report, error) {
	paths, err := Files(dir)
	if err != nil {
		return nil, err
	}
	a.log.Info("audit started", "dir", dir, "files", len(paths))
	start := time.Now()

	r := &Report{
		TokenTypes:  make(map[tokenizer.TokenType]int),
		Resolutions: make(map[morph.Resolution]int),
		ambiguous:   make(map[string]int),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for _, path := range paths {
		g.Go(func() error {
			st, err := a.processFile(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			r.merge(st)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.flagChangeOutliers()
	r.Ambiguous = topCounts(r.ambiguous, topAmbiguous)
	slices.SortStableFunc(r.Failures, func(x, y Failure) int { return cmp.Compare(x.Path, y.Path) })
	r.Duration = time.Since(start)
	a.log.Info("audit finished", "files", r.Files, "duration", r.Duration.Round(time.Millisecond))
	return r, nil
}

func (a *Auditor) processFile(ctx context.Context, path string) (*fileState, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	a.log.Debug("file started", "path", path, "mb", info.Size()>>bytesToMBShift)
	fileStart := time.Now()

	state := &fileState{
		path:        path,
		stemmer:     a.stemmer,
		tokenCounts: make(map[tokenizer.TokenType]int),
		resolutions: make(map[morph.Resolution]int),
		ambiguous:   make(map[string]int),
	}

	buf := make([]byte, chunkSize)
	var leftover []byte

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, readErr := f.Read(buf)
		if n > 0 {
			leftover = append(leftover, buf[:n]...)
			chunk := leftover

			if readErr == nil {
				idx := bytes.LastIndexByte(chunk, '\n')
				if idx < 0 {
					continue
				}
				leftover = make([]byte, len(chunk)-idx-1)
				copy(leftover, chunk[idx+1:])
				chunk = chunk[:idx+1]
			} else {
				leftover = nil
			}

			if err := state.processChunk(chunk); err != nil {
				return nil, err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
	}

	if len(leftover) > 0 {
		if err := state.processChunk(leftover); err != nil {
			return nil, err
		}
	}

	a.log.Debug("file done",
		"path", filepath.Base(path),
		"duration", time.Since(fileStart).Round(time.Millisecond),
		"words", state.words)
	return state, nil
}

func (st *fileState) processChunk(chunk []byte) error {
	text := string(chunk)
	st.totalBytes += int64(len(chunk))

	tokens := tokenizer.WordTokens(text)

	var sb strings.Builder
	if !st.reconFailed {
		sb.Grow(len(text))
	}
	for _, token := range tokens {
		st.tokenCounts[token.Type]++
		if !st.reconFailed {
			sb.WriteString(token.Text)
		}
		if token.Type != tokenizer.Word {
			continue
		}
		a, err := st.stemmer.Analyze(fold.String(token.Text))
		if err != nil {
			return fmt.Errorf("stemming %q: %w", token.Text, err)
		}
		st.observe(a)
	}
	if !st.reconFailed && sb.String() != text {
		st.reconFailed = true
		pos, got, want := firstDivergence(text, sb.String())
		st.failures = append(st.failures, Failure{
			Path:   st.path,
			Kind:   "RECON_FAIL",
			Detail: fmt.Sprintf("first divergence at byte %d (got 0x%02x, want 0x%02x)", pos, got, want),
		})
	}
	return nil
}

func (st *fileState) observe(a morph.Analysis) {
	st.words++
	if a.Changed() {
		st.changed++
	}
	if a.Resolution != morph.ResolvedNone {
		st.resolutions[a.Resolution]++
	}
	if a.Diagnostics.Ambiguous {
		st.ambiguous[a.Word]++
	}
	if a.Diagnostics.ShortStem {
		st.shortStems++
	}
	st.backoffs += a.Diagnostics.Backoffs

	if a.Start < 0 || a.End > len(a.Word) || a.Start > a.End || a.Word[a.Start:a.End] != a.Stem {
		st.failures = append(st.failures, Failure{
			Path:   st.path,
			Kind:   "WINDOW_FAIL",
			Detail: fmt.Sprintf("%q: stem %q outside window [%d:%d]", a.Word, a.Stem, a.Start, a.End),
		})
	}
}

func (r *Report) merge(st *fileState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Files++
	r.Bytes += st.totalBytes
	if st.reconFailed {
		r.ReconFail++
	} else {
		r.ReconOK++
	}
	r.Words += st.words
	r.Changed += st.changed
	r.ShortStems += st.shortStems
	r.Backoffs += st.backoffs

	for tokenType, count := range st.tokenCounts {
		r.TokenTypes[tokenType] += count
	}
	for res, count := range st.resolutions {
		r.Resolutions[res] += count
	}
	for word, count := range st.ambiguous {
		r.ambiguous[word] += count
	}
	r.Failures = append(r.Failures, st.failures...)

	if st.words > 0 {
		r.ratios = append(r.ratios, fileRatio{
			path:    st.path,
			words:   st.words,
			changed: st.changed,
			ratio:   float64(st.changed) / float64(st.words),
		})
	}
}

// flagChangeOutliers computes the median changed/words ratio across all
// files and flags any file whose ratio exceeds 3x the median.
func (r *Report) flagChangeOutliers() {
	if len(r.ratios) == 0 {
		return
	}

	ratios := make([]float64, len(r.ratios))
	for i, fr := range r.ratios {
		ratios[i] = fr.ratio
	}
	med := computeMedian(ratios)

	for _, fr := range r.ratios {
		if med > 0 && fr.ratio > outlierFactor*med {
			r.Failures = append(r.Failures, Failure{
				Path: fr.path,
				Kind: "CHANGE_OUTLIER",
				Detail: fmt.Sprintf("%d changed / %d words (ratio %.2f, median %.2f)",
					fr.changed, fr.words, fr.ratio, med),
			})
		}
	}
}

// firstDivergence finds the byte position where two strings first differ.
// Returns the position and the differing bytes from each string.
func firstDivergence(original, reconstructed string) (pos int, got, want byte) {
	n := min(len(original), len(reconstructed))
	for i := range n {
		if original[i] != reconstructed[i] {
			return i, reconstructed[i], original[i]
		}
	}
	pos = n
	if pos < len(reconstructed) {
		got = reconstructed[pos]
	}
	if pos < len(original) {
		want = original[pos]
	}
	return pos, got, want
}

func computeMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2 //nolint:mnd // arithmetic mean of two middle values
	}
	return sorted[mid]
}

// topCounts returns the n most frequent words, ties broken alphabetically.
func topCounts(m map[string]int, n int) []Count {
	out := make([]Count, 0, len(m))
	for w, c := range m {
		out = append(out, Count{Word: w, Count: c})
	}
	slices.SortFunc(out, func(x, y Count) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return cmp.Compare(x.Word, y.Word)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Print writes the report as an aligned table.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Files scanned:           %d\n", r.Files)
	fmt.Fprintf(w, "Total bytes:             %d\n", r.Bytes)
	fmt.Fprintf(w, "Reconstruction OK:       %d\n", r.ReconOK)
	fmt.Fprintf(w, "Reconstruction FAIL:     %d\n", r.ReconFail)
	fmt.Fprintf(w, "Words:                   %d\n", r.Words)
	fmt.Fprintf(w, "Changed:                 %d\n", r.Changed)
	fmt.Fprintf(w, "Short stems:             %d\n", r.ShortStems)
	fmt.Fprintf(w, "Backoffs:                %d\n", r.Backoffs)
	fmt.Fprintln(w)

	totalTokens := 0
	for _, count := range r.TokenTypes {
		totalTokens += count
	}
	fmt.Fprintln(w, "Token type distribution:")
	for _, tt := range []tokenizer.TokenType{tokenizer.Word, tokenizer.Number, tokenizer.Punctuation, tokenizer.Space, tokenizer.Symbol} {
		printShare(w, tt.String(), r.TokenTypes[tt], totalTokens)
	}

	totalCompounds := 0
	for _, count := range r.Resolutions {
		totalCompounds += count
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reduplication rules:")
	for res := morph.ResolvedKe; res <= morph.ResolvedAmbiguous; res++ {
		printShare(w, res.String(), r.Resolutions[res], totalCompounds)
	}

	if len(r.Ambiguous) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Most frequent ambiguous compounds:")
		for _, c := range r.Ambiguous {
			fmt.Fprintf(w, "  %-24s %d\n", c.Word, c.Count)
		}
	}

	if len(r.Failures) > 0 {
		fmt.Fprintln(w)
		for _, f := range r.Failures {
			fmt.Fprintf(w, "%s: %s: %s\n", f.Kind, f.Path, f.Detail)
		}
	}
}

func printShare(w io.Writer, label string, count, total int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(count) / float64(total) * 100
	}
	fmt.Fprintf(w, "  %-15s %d  (%.1f%%)\n", label+":", count, percentage)
}
