package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arissetyawan/indostemmer/internal/fold"
	"github.com/arissetyawan/indostemmer/morph"
	"github.com/arissetyawan/indostemmer/pipeline"
)

// StemRequest carries either running text or a word list, not both.
type StemRequest struct {
	Text  string   `json:"text,omitempty"`
	Words []string `json:"words,omitempty"`
}

// StemResponse mirrors the request: Text for text input, Stems for words.
type StemResponse struct {
	Text  string         `json:"text,omitempty"`
	Stems []string       `json:"stems,omitempty"`
	Stats pipeline.Stats `json:"stats"`
}

// AnalyzeRequest lists the words to analyze.
type AnalyzeRequest struct {
	Words []string `json:"words"`
}

// AnalyzeResponse holds one analysis per requested word, in order.
type AnalyzeResponse struct {
	Analyses []morph.Analysis `json:"analyses"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CacheEntries  *int    `json:"cache_entries,omitempty"`
	Persistent    *bool   `json:"persistent,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := HealthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(s.startTime).Seconds(),
	}
	if l, ok := s.stemmer.(interface{ Len() int }); ok {
		n := l.Len()
		resp.CacheEntries = &n
	}
	if p, ok := s.stemmer.(interface{ Persistent() bool }); ok {
		persistent := p.Persistent()
		resp.Persistent = &persistent
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStem(c *gin.Context) {
	var req StemRequest
	if !bindJSON(c, &req) {
		return
	}
	switch {
	case req.Text == "" && len(req.Words) == 0:
		abort(c, http.StatusBadRequest, "one of text or words is required")
		return
	case req.Text != "" && len(req.Words) > 0:
		abort(c, http.StatusBadRequest, "text and words are mutually exclusive")
		return
	case len(req.Words) > MaxWords:
		abort(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d words per request", MaxWords))
		return
	}

	if req.Text != "" {
		var out bytes.Buffer
		stats, err := s.processor.Process(c.Request.Context(), strings.NewReader(req.Text), &out)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, StemResponse{Text: out.String(), Stats: stats})
		return
	}

	analyses, err := s.analyze(req.Words)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp := StemResponse{Stems: make([]string, len(analyses))}
	for i, a := range analyses {
		resp.Stems[i] = a.Stem
		resp.Stats.Tokens++
		if a.Changed() {
			resp.Stats.Changed++
		}
		if a.Diagnostics.Ambiguous {
			resp.Stats.Ambiguous++
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Words) == 0 {
		abort(c, http.StatusBadRequest, "words is required")
		return
	}
	if len(req.Words) > MaxWords {
		abort(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d words per request", MaxWords))
		return
	}

	analyses, err := s.analyze(req.Words)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalyzeResponse{Analyses: analyses})
}

// analyze folds and analyzes each word.
func (s *Server) analyze(words []string) ([]morph.Analysis, error) {
	out := make([]morph.Analysis, len(words))
	for i, w := range words {
		a, err := s.stemmer.Analyze(fold.String(w))
		if err != nil {
			return nil, fmt.Errorf("stemming %q: %w", w, err)
		}
		s.metrics.ObserveAnalysis(a)
		if a.Diagnostics.Ambiguous {
			s.log.Debug("ambiguous compound", "word", a.Word, "stem", a.Stem)
		}
		out[i] = a
	}
	return out, nil
}

// bindJSON decodes the body into v, answering 413 or 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		abort(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return false
	}
	abort(c, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
	return false
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
	abort(c, http.StatusInternalServerError, "internal error")
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: msg})
}
