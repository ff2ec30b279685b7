// Package ratecache holds recently observed exchange rates in memory, bounded
// both in size (least-recently-used eviction) and in age (a fixed TTL measured
// from insertion).
package ratecache

import (
	"sync"
	"time"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
)

const (
	// DefaultMaxSize is the default entry capacity.
	DefaultMaxSize = 1000
	// DefaultTTL is the default time-to-live of an entry.
	DefaultTTL = 15 * time.Minute
)

type key struct {
	base  domain.CurrencyCode
	quote domain.CurrencyCode
	date  string
}

type entry struct {
	rate      domain.ExchangeRate
	expiresAt time.Time
}

// Cache is a size- and time-bounded store of exchange rates keyed by
// (base, quote, rate date). It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[key, entry]
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxSize sets the entry capacity. Non-positive values keep the default.
func WithMaxSize(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithTTL sets the entry lifetime. A zero TTL makes every entry stale as soon
// as it is written.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an isolated cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		maxSize: DefaultMaxSize,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	entries, err := lru.New[key, entry](c.maxSize)
	if err != nil {
		// only returned for a non-positive size, which the options rule out
		panic(err)
	}
	c.entries = entries
	return c
}

var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// Default returns the process-wide cache with default limits.
func Default() *Cache {
	defaultOnce.Do(func() {
		defaultCache = New()
	})
	return defaultCache
}

// MaxSize returns the configured capacity.
func (c *Cache) MaxSize() int { return c.maxSize }

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the cached rate if present and fresh, promoting it to most
// recently used. An expired entry is removed and reported as a miss.
func (c *Cache) Get(base, quote domain.CurrencyCode, date domain.Date) (domain.ExchangeRate, bool) {
	k := key{base: base, quote: quote, date: date.String()}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(k)
	if !ok {
		return domain.ExchangeRate{}, false
	}
	if c.expired(e) {
		c.entries.Remove(k)
		return domain.ExchangeRate{}, false
	}
	c.entries.Get(k) // promote
	return e.rate, true
}

// Set stores rate under (Base, Quote, RateDate), evicting the least recently
// used entry when a new key would exceed capacity.
func (c *Cache) Set(rate domain.ExchangeRate) {
	c.SetFor(rate.RateDate, rate)
}

// SetFor stores rate under an explicit lookup date, which may differ from the
// observation date (e.g. a Saturday lookup answered by Friday's rate).
func (c *Cache) SetFor(date domain.Date, rate domain.ExchangeRate) {
	k := key{base: rate.Base, quote: rate.Quote, date: date.String()}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(k, entry{rate: rate, expiresAt: c.now().Add(c.ttl)})
}

// SetDailyRates inserts one entry per quote currency against base for date,
// all stamped with the same fetch time and source.
func (c *Cache) SetDailyRates(base domain.CurrencyCode, date domain.Date, rates map[domain.CurrencyCode]decimal.Decimal, source domain.RateSource) int {
	fetchedAt := c.now()
	n := 0
	for quote, value := range rates {
		if quote == base {
			continue
		}
		c.Set(domain.ExchangeRate{
			Base:      base,
			Quote:     quote,
			Rate:      value,
			RateDate:  date,
			Source:    source,
			FetchedAt: fetchedAt,
		})
		n++
	}
	return n
}

// PurgeExpired removes every expired entry and returns how many were removed.
func (c *Cache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, k := range c.entries.Keys() {
		e, ok := c.entries.Peek(k)
		if ok && c.expired(e) {
			c.entries.Remove(k)
			removed++
		}
	}
	return removed
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

// Size returns the number of entries, including expired ones not yet purged.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

func (c *Cache) expired(e entry) bool {
	return !c.now().Before(e.expiresAt)
}
