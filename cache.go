package htmlxpath

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// defaultCacheSize bounds the number of distinct expression strings kept
// compiled at once, mirroring the teacher's own expression-cache sizing.
const defaultCacheSize = 256

// Cache memoizes Parse by expression text (§4.6, §1B): ASTs are immutable
// once parsed and the expected calling pattern is one expression applied
// to many documents/items, so re-parsing on every call is wasted work.
// Cache is the one piece of shared mutable state in the library (§5) and
// is internally synchronized; Parse and Apply themselves stay cache-unaware
// pure functions.
type Cache struct {
	mu sync.Mutex
	c  *lru.Cache
}

// NewCache creates an expression cache holding up to size distinct
// expression strings. size <= 0 uses defaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	return &Cache{c: lru.New(size)}
}

var defaultCache = NewCache(defaultCacheSize)

// CompileCached parses text, returning a cached AST when text was seen
// before (§4.6).
func (c *Cache) CompileCached(text string) (*Xpath, error) {
	c.mu.Lock()
	if v, ok := c.c.Get(text); ok {
		c.mu.Unlock()
		return v.(*Xpath), nil
	}
	c.mu.Unlock()

	xp, err := Parse(text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.c.Add(text, xp)
	c.mu.Unlock()

	Log.WithField("expression", text).Debug("htmlxpath: compiled and cached expression")
	return xp, nil
}

// Query compiles text via the cache and applies it to tree (§4.6 "Cache
// transparency": the result is always equal to Apply(MustParse(text), t)).
func (c *Cache) Query(tree *Tree, text string) (*ItemSet, error) {
	xp, err := c.CompileCached(text)
	if err != nil {
		return nil, err
	}
	return Apply(xp, tree)
}

// CompileCached and Query on the package-level default cache, for callers
// who don't need a dedicated Cache instance.
func CompileCached(text string) (*Xpath, error)         { return defaultCache.CompileCached(text) }
func Query(tree *Tree, text string) (*ItemSet, error)    { return defaultCache.Query(tree, text) }
