// Package cache provides memoization for script parsing. Editors
// re-submit identical buffers often, such as after undo or when a
// debounce timer fires twice, and a cache hit skips the full
// lex-parse-lower pipeline.
package cache

import (
	"crypto/sha256"
	"sync"

	"github.com/retroauto/go-retroscript/diag"
	"github.com/retroauto/go-retroscript/ir"
)

type entry struct {
	// Scripts are cached serialized so a hit hands out an independent
	// copy. Callers mutate their IR in place.
	data  []byte
	diags []diag.Diagnostic
}

// ParseCache caches parse results keyed by source hash.
type ParseCache struct {
	mu        sync.Mutex
	entries   map[[32]byte]entry
	order     [][32]byte
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// New creates a cache with the specified maximum size. When the cache
// is full the oldest entry is evicted. Set maxSize to 0 for unlimited.
func New(maxSize int) *ParseCache {
	return &ParseCache{
		entries: make(map[[32]byte]entry),
		maxSize: maxSize,
	}
}

// Parse returns the cached result for the source, parsing and caching
// on a miss.
func (c *ParseCache) Parse(source string) (*ir.ScriptIR, []diag.Diagnostic) {
	key := sha256.Sum256([]byte(source))

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		if script, err := ir.FromJSON(e.data); err == nil {
			return script, append([]diag.Diagnostic(nil), e.diags...)
		}
	} else {
		c.misses++
		c.mu.Unlock()
	}

	script, diags := ir.ParseToIR(source)

	data, err := ir.ToJSON(script)
	if err != nil {
		return script, diags
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if c.maxSize > 0 && len(c.entries) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
			c.evictions++
		}
		c.entries[key] = entry{data: data, diags: append([]diag.Diagnostic(nil), diags...)}
		c.order = append(c.order, key)
	}
	return script, diags
}

// Contains reports whether a result for the source is cached.
func (c *ParseCache) Contains(source string) bool {
	key := sha256.Sum256([]byte(source))
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Clear removes all entries.
func (c *ParseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[[32]byte]entry)
	c.order = nil
}

// Size returns the current number of cached entries.
func (c *ParseCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats reports cache effectiveness.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

func (c *ParseCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:      len(c.entries),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}
