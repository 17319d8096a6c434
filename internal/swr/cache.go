// Package swr implements a keyed stale-while-revalidate cache with two
// independent timers per entry: a fresh window during which cached values
// are served without any fetch, and a retention window during which cached
// values are served immediately while a refresh runs in the background.
// After the retention window the entry is evicted and the next lookup
// blocks on a fetch. A failed fetch is retried once before the error is
// surfaced; a failed background refresh keeps the last cached value.
package swr

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/singleflight"
)

// Lookup outcomes reported to the observer.
const (
	ResultFresh = "fresh"
	ResultStale = "stale"
	ResultMiss  = "miss"
)

// FetchFunc loads the value for a key from its source of truth.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Options configure a Cache. Zero values fall back to the defaults:
// 5 minutes fresh, 10 minutes retained, one automatic retry.
type Options struct {
	FreshFor time.Duration
	KeepFor  time.Duration
	Retries  int
	Clock    clock.Clock
	// OnResult, when set, is called with the lookup outcome
	// (fresh/stale/miss) for metrics.
	OnResult func(state string)
}

type entry struct {
	value        interface{}
	fetchedAt    time.Time
	revalidating bool
}

// Cache is safe for concurrent use. Concurrent lookups of the same key
// collapse into a single upstream fetch.
type Cache struct {
	opts    Options
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

// New builds a Cache with the given options.
func New(opts Options) *Cache {
	if opts.FreshFor == 0 {
		opts.FreshFor = 5 * time.Minute
	}
	if opts.KeepFor == 0 {
		opts.KeepFor = 10 * time.Minute
	}
	if opts.Retries == 0 {
		opts.Retries = 1
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Cache{
		opts:    opts,
		entries: make(map[string]*entry),
	}
}

// Get returns the value for key, fetching it when needed. Within the fresh
// window the cached value is returned without calling fetch. Between the
// fresh and retention windows the cached value is returned immediately and
// a single background revalidation is started. Otherwise Get blocks on a
// deduplicated fetch.
func (c *Cache) Get(ctx context.Context, key string, fetch FetchFunc) (interface{}, error) {
	now := c.opts.Clock.Now()

	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && now.Sub(e.fetchedAt) >= c.opts.KeepFor {
		delete(c.entries, key)
		e, ok = nil, false
	}

	if ok {
		age := now.Sub(e.fetchedAt)
		value := e.value
		if age < c.opts.FreshFor {
			c.mu.Unlock()
			c.observe(ResultFresh)
			return value, nil
		}

		// Stale but retained: serve immediately, refresh once in the
		// background.
		if !e.revalidating {
			e.revalidating = true
			go func() {
				_, _ = c.fetchAndStore(context.Background(), key, fetch)
			}()
		}
		c.mu.Unlock()
		c.observe(ResultStale)
		return value, nil
	}
	c.mu.Unlock()

	c.observe(ResultMiss)
	return c.fetchAndStore(ctx, key, fetch)
}

// Invalidate drops a single key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}

// Sweep evicts every entry past its retention window and reports how many
// were dropped.
func (c *Cache) Sweep() int {
	now := c.opts.Clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key, e := range c.entries {
		if now.Sub(e.fetchedAt) >= c.opts.KeepFor {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len reports the number of retained entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) observe(state string) {
	if c.opts.OnResult != nil {
		c.opts.OnResult(state)
	}
}

// fetchAndStore runs fetch (with retries) under singleflight and stores a
// successful result. On failure any stale entry is left in place so the
// next lookup can still serve it within the retention window.
func (c *Cache) fetchAndStore(ctx context.Context, key string, fetch FetchFunc) (interface{}, error) {
	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		var value interface{}
		var err error
		for attempt := 0; attempt <= c.opts.Retries; attempt++ {
			value, err = fetch(ctx)
			if err == nil {
				break
			}
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			if e, ok := c.entries[key]; ok {
				e.revalidating = false
			}
			return nil, err
		}
		c.entries[key] = &entry{value: value, fetchedAt: c.opts.Clock.Now()}
		return value, nil
	})
	return value, err
}
