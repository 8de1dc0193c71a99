// Package pipeline runs the batch stemming driver: it reads text line by
// line, tokenizes each line, replaces every word with the stem of its folded
// form, and passes the separators through verbatim. Parentheses are dropped.
//
// A Processor is safe for concurrent use when its Stemmer is.
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arissetyawan/indostemmer/internal/fold"
	"github.com/arissetyawan/indostemmer/internal/logging"
	"github.com/arissetyawan/indostemmer/internal/metrics"
	"github.com/arissetyawan/indostemmer/morph"
	"github.com/arissetyawan/indostemmer/tokenizer"
)

// ErrNoInput is returned by ProcessFiles when no paths are given.
var ErrNoInput = errors.New("pipeline: no input files")

// Stemmer analyzes one folded word token. *stemcache.Cache satisfies it.
type Stemmer interface {
	Analyze(word string) (morph.Analysis, error)
}

// StemmerFunc adapts a function to the Stemmer interface.
type StemmerFunc func(word string) (morph.Analysis, error)

// Analyze calls f(word).
func (f StemmerFunc) Analyze(word string) (morph.Analysis, error) { return f(word) }

// Direct returns a Stemmer that calls s without caching.
func Direct(s *morph.Stemmer) Stemmer {
	return StemmerFunc(func(word string) (morph.Analysis, error) {
		return s.Analyze(word), nil
	})
}

// Stats summarizes one run.
type Stats struct {
	Lines     int `json:"lines"`
	Tokens    int `json:"tokens"`
	Changed   int `json:"changed"`
	Ambiguous int `json:"ambiguous"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Lines += o.Lines
	s.Tokens += o.Tokens
	s.Changed += o.Changed
	s.Ambiguous += o.Ambiguous
}

// Processor stems text streams.
type Processor struct {
	stemmer Stemmer
	log     *slog.Logger
	metrics *metrics.Metrics
}

// New returns a Processor. log and m may be nil.
func New(stemmer Stemmer, log *slog.Logger, m *metrics.Metrics) *Processor {
	if stemmer == nil {
		stemmer = Direct(morph.New(morph.Options{}))
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Processor{stemmer: stemmer, log: log, metrics: m}
}

// Process stems r into w line by line. Line endings are preserved.
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var st Stats
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	var out strings.Builder

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		line, readErr := br.ReadString('\n')
		if line != "" {
			st.Lines++
			out.Reset()
			if err := p.line(line, &out, &st); err != nil {
				return st, err
			}
			if _, err := bw.WriteString(out.String()); err != nil {
				return st, fmt.Errorf("writing output: %w", err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return st, fmt.Errorf("reading input: %w", readErr)
		}
	}

	if err := bw.Flush(); err != nil {
		return st, fmt.Errorf("writing output: %w", err)
	}
	return st, nil
}

// line stems one line into out.
func (p *Processor) line(line string, out *strings.Builder, st *Stats) error {
	for _, tok := range tokenizer.WordTokens(line) {
		if tok.IsSeparator() {
			out.WriteString(dropParens(tok.Text))
			continue
		}

		// Only words are folded; separators are written as read.
		a, err := p.stemmer.Analyze(fold.String(tok.Text))
		if err != nil {
			return fmt.Errorf("stemming %q: %w", tok.Text, err)
		}
		p.metrics.ObserveAnalysis(a)
		st.Tokens++
		if a.Changed() {
			st.Changed++
		}
		if a.Diagnostics.Ambiguous {
			st.Ambiguous++
			p.log.Debug("ambiguous compound", "word", a.Word, "stem", a.Stem)
		}
		out.WriteString(a.Stem)
	}
	return nil
}

func dropParens(s string) string {
	if !strings.ContainsAny(s, "()") {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '(' || r == ')' {
			return -1
		}
		return r
	}, s)
}

// ProcessFiles stems every file with at most workers files in flight and
// writes the outputs to w in argument order. A file that fails is skipped
// and the others still complete; all failures are joined into the returned
// error, each wrapped with its path.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string, workers int, w io.Writer) (Stats, error) {
	if len(paths) == 0 {
		return Stats{}, ErrNoInput
	}
	if workers <= 0 {
		workers = 1
	}

	outputs := make([]bytes.Buffer, len(paths))
	stats := make([]Stats, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			stats[i], errs[i] = p.processFile(ctx, path, &outputs[i])
			return nil
		})
	}
	_ = g.Wait()

	var total Stats
	for i := range paths {
		if errs[i] != nil {
			continue
		}
		total.Add(stats[i])
		if _, err := outputs[i].WriteTo(w); err != nil {
			errs[i] = fmt.Errorf("%s: writing output: %w", paths[i], err)
		}
	}
	return total, errors.Join(errs...)
}

func (p *Processor) processFile(ctx context.Context, path string, out *bytes.Buffer) (st Stats, err error) {
	start := time.Now()
	defer func() {
		p.metrics.ObserveFile(err, time.Since(start))
	}()

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		p.log.Error("opening input", "path", path, "error", err)
		return Stats{}, fmt.Errorf("%s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	st, err = p.Process(ctx, f, out)
	if err != nil {
		p.log.Error("stemming input", "path", path, "error", err)
		return st, fmt.Errorf("%s: %w", path, err)
	}

	p.log.Info("file stemmed",
		"path", path,
		"lines", st.Lines,
		"tokens", st.Tokens,
		"changed", st.Changed,
		"duration", time.Since(start).Round(time.Millisecond))
	return st, nil
}
