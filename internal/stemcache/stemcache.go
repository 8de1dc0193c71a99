// Package stemcache memoizes stemming results. An in-memory LRU sits in
// front of an optional pogreb store, so repeated runs over the same corpus
// skip recomputation.
//
// A Cache is safe for concurrent use.
package stemcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/akrylysov/pogreb"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arissetyawan/indostemmer/internal/metrics"
	"github.com/arissetyawan/indostemmer/morph"
)

// DefaultSize is the LRU capacity used when Config.Size is not positive.
const DefaultSize = 4096

// keyVersion is the format of persisted keys and values. Bump it whenever
// the affix tables or the Analysis encoding change, so stores written by an
// older build are ignored instead of served.
const keyVersion = "v1"

// ErrClosed is returned by every operation on a closed Cache.
var ErrClosed = errors.New("stemcache: closed")

// Config configures a Cache.
type Config struct {
	// Size is the number of analyses kept in memory.
	Size int
	// Path is the pogreb directory. Empty disables the persistent store.
	Path string
}

// Cache stems words through a Stemmer and remembers the results.
type Cache struct {
	stemmer *morph.Stemmer
	metrics *metrics.Metrics
	mem     *lru.Cache[string, morph.Analysis]
	db      *pogreb.DB
	prefix  string

	mu     sync.RWMutex
	closed bool
}

// New opens a cache around stemmer. m may be nil.
func New(stemmer *morph.Stemmer, cfg Config, m *metrics.Metrics) (*Cache, error) {
	if stemmer == nil {
		stemmer = morph.New(morph.Options{})
	}
	size := cfg.Size
	if size <= 0 {
		size = DefaultSize
	}
	mem, err := lru.New[string, morph.Analysis](size)
	if err != nil {
		return nil, fmt.Errorf("stemcache: %w", err)
	}

	c := &Cache{
		stemmer: stemmer,
		metrics: m,
		mem:     mem,
		prefix:  keyPrefix(stemmer.Options()),
	}
	if cfg.Path != "" {
		c.db, err = pogreb.Open(cfg.Path, &pogreb.Options{
			BackgroundSyncInterval:       0,
			BackgroundCompactionInterval: 0,
		})
		if err != nil {
			return nil, fmt.Errorf("stemcache: open %s: %w", cfg.Path, err)
		}
	}
	return c, nil
}

// keyPrefix separates persisted results of differently configured
// stemmers and of different store formats sharing one store.
func keyPrefix(opts morph.Options) string {
	if opts.StripBarePrefix {
		return keyVersion + ":b:"
	}
	return keyVersion + ":d:"
}

// Analyze returns the analysis of word, computing and storing it on a miss.
// Persistent store errors are returned together with a valid analysis, so a
// caller may log them and continue.
func (c *Cache) Analyze(word string) (morph.Analysis, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return morph.Analysis{}, ErrClosed
	}

	if a, ok := c.mem.Get(word); ok {
		c.metrics.ObserveCache(metrics.CacheMemory)
		return a, nil
	}

	key := []byte(c.prefix + word)
	if c.db != nil {
		raw, err := c.db.Get(key)
		if err != nil {
			return c.compute(word), fmt.Errorf("stemcache: get %q: %w", word, err)
		}
		if raw != nil {
			var a morph.Analysis
			if err := json.Unmarshal(raw, &a); err == nil && a.Word == word {
				c.metrics.ObserveCache(metrics.CacheDisk)
				c.mem.Add(word, a)
				return a, nil
			}
		}
	}

	c.metrics.ObserveCache(metrics.CacheMiss)
	a := c.compute(word)
	if c.db != nil {
		raw, err := json.Marshal(a)
		if err != nil {
			return a, fmt.Errorf("stemcache: encode %q: %w", word, err)
		}
		if err := c.db.Put(key, raw); err != nil {
			return a, fmt.Errorf("stemcache: put %q: %w", word, err)
		}
	}
	return a, nil
}

func (c *Cache) compute(word string) morph.Analysis {
	a := c.stemmer.Analyze(word)
	c.mem.Add(word, a)
	return a
}

// Len returns the number of analyses held in memory.
func (c *Cache) Len() int { return c.mem.Len() }

// Persistent reports whether the cache is backed by a pogreb store.
func (c *Cache) Persistent() bool { return c.db != nil }

// Close flushes and closes the persistent store. Further calls return
// ErrClosed.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.mem.Purge()
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("stemcache: close: %w", err)
	}
	return nil
}
