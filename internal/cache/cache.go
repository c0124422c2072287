// Package cache memoizes generated product cards for a short time so that
// repeated requests do not reach the LLM.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/donaldgifford/cardsmith/internal/metrics"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// Defaults match the generation section of the config.
const (
	DefaultTTL        = 10 * time.Minute
	DefaultMaxEntries = 256
)

type entry struct {
	key      string
	card     domain.ProductCard
	storedAt time.Time
}

// Cache is a bounded, TTL-limited map from request keys to cards. Entries
// are evicted in insertion order once the cache is full; expiry is checked
// when an entry is read. It is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	items      map[string]*list.Element
	order      *list.List
	nowFunc    func() time.Time

	hits      uint64
	misses    uint64
	evictions uint64
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// Option configures the Cache.
type Option func(*Cache)

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Cache) {
		c.nowFunc = f
	}
}

// New creates a cache holding at most maxEntries cards for ttl each.
// Non-positive arguments fall back to the defaults.
func New(ttl time.Duration, maxEntries int, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		items:      make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds the cache key for a request from its lowercased, trimmed
// content fields.
func Key(req domain.GenerationRequest) string {
	parts := []string{
		req.ProductName,
		req.Features,
		req.Platform,
		string(req.Tone),
		string(req.Length),
		string(req.Language),
		req.Category,
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}

// Get returns a copy of the card stored under key. Expired entries are
// removed and reported as misses.
func (c *Cache) Get(key string) (domain.ProductCard, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.miss()
		return domain.ProductCard{}, false
	}

	e := el.Value.(*entry)
	if c.nowFunc().Sub(e.storedAt) > c.ttl {
		c.remove(el)
		c.miss()
		return domain.ProductCard{}, false
	}

	c.hits++
	metrics.CacheHitsTotal.Inc()
	return e.card.Clone(), true
}

// Put stores a copy of card under key, replacing any previous value and
// evicting the oldest entries when the cache is full.
func (c *Cache) Put(key string, card domain.ProductCard) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.remove(el)
	}

	for c.order.Len() >= c.maxEntries {
		c.remove(c.order.Front())
		c.evictions++
		metrics.CacheEvictionsTotal.Inc()
	}

	c.items[key] = c.order.PushBack(&entry{
		key:      key,
		card:     card.Clone(),
		storedAt: c.nowFunc(),
	})
	metrics.CacheEntries.Set(float64(c.order.Len()))
}

// Len returns the number of stored entries, including expired ones that
// have not been read yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:   c.order.Len(),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *Cache) miss() {
	c.misses++
	metrics.CacheMissesTotal.Inc()
}

func (c *Cache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
	metrics.CacheEntries.Set(float64(c.order.Len()))
}
