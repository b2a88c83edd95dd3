package evidence

import (
	"context"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of provider responses kept in memory.
const DefaultCacheSize = 4096

// CacheKey identifies one provider request.
type CacheKey struct {
	Provider   string
	SourceLang string
	TargetLang string
	Text       string
}

func (k CacheKey) String() string {
	return strings.Join([]string{k.Provider, k.SourceLang, k.TargetLang, k.Text}, "\x00")
}

// Cache stores verified provider responses. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key CacheKey) (string, bool)
	Put(ctx context.Context, key CacheKey, response string)
}

// MemoryCache is a fixed-size LRU cache.
type MemoryCache struct {
	entries *lru.Cache[string, string]
}

func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{entries: entries}, nil
}

func (c *MemoryCache) Get(_ context.Context, key CacheKey) (string, bool) {
	return c.entries.Get(key.String())
}

func (c *MemoryCache) Put(_ context.Context, key CacheKey, response string) {
	c.entries.Add(key.String(), response)
}

// Len returns the number of cached responses.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// Persistent is a durable response store, see internal/store.
type Persistent interface {
	GetTranslation(ctx context.Context, provider, sourceLang, targetLang, text string) (string, bool, error)
	SaveTranslation(ctx context.Context, provider, sourceLang, targetLang, text, response string) error
}

// LayeredCache fronts a Persistent store with a MemoryCache. Store failures
// are logged and otherwise ignored.
type LayeredCache struct {
	mem    *MemoryCache
	disk   Persistent
	logger *slog.Logger
}

func NewLayeredCache(mem *MemoryCache, disk Persistent, logger *slog.Logger) *LayeredCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &LayeredCache{mem: mem, disk: disk, logger: logger}
}

func (c *LayeredCache) Get(ctx context.Context, key CacheKey) (string, bool) {
	if v, ok := c.mem.Get(ctx, key); ok {
		return v, true
	}
	v, ok, err := c.disk.GetTranslation(ctx, key.Provider, key.SourceLang, key.TargetLang, key.Text)
	if err != nil {
		c.logger.Warn("cache lookup failed", "provider", key.Provider, "error", err)
		return "", false
	}
	if ok {
		c.mem.Put(ctx, key, v)
	}
	return v, ok
}

func (c *LayeredCache) Put(ctx context.Context, key CacheKey, response string) {
	c.mem.Put(ctx, key, response)
	if err := c.disk.SaveTranslation(ctx, key.Provider, key.SourceLang, key.TargetLang, key.Text, response); err != nil {
		c.logger.Warn("cache write failed", "provider", key.Provider, "error", err)
	}
}
