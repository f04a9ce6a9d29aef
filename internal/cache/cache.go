// Package cache holds the single in-memory CV document slot.
//
// A Cache answers "give me the current document" against a TTL freshness
// policy:
//   - Fresh (age < TTL): the cached document is returned without network access.
//   - Stale or Empty: the document is fetched again. Success installs a new entry.
//   - Fetch failure with an entry present: the stale document is served unchanged.
//   - Fetch failure with nothing cached: the error (wrapping cv.ErrFetchFailed) is returned.
//
// Expiry is evaluated lazily on the next request; there is no timer.
// Concurrent refreshes are coalesced so callers that arrive during one fetch
// share its outcome.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/neo1908/cv-terminal/internal/cv"
	"github.com/neo1908/cv-terminal/internal/events"
	"github.com/neo1908/cv-terminal/internal/log"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/neo1908/cv-terminal/internal/cache Fetcher

// DefaultTTL is how long a fetched document is served without re-fetching.
const DefaultTTL = 5 * time.Minute

const refreshKey = "document"

// Fetcher retrieves a new document snapshot from the remote endpoint.
type Fetcher interface {
	Fetch(ctx context.Context) (*cv.Snapshot, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type entry struct {
	doc       *cv.Document
	fetchedAt time.Time
	digest    string
}

// Cache owns the one document slot. The zero value is not usable; call New.
type Cache struct {
	fetcher Fetcher
	clock   Clock
	events  events.Publisher
	logger  *slog.Logger

	mu    sync.RWMutex
	ttl   time.Duration
	entry *entry

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(cache *Cache) { cache.clock = c }
}

// WithPublisher attaches an event publisher for refresh outcomes.
func WithPublisher(p events.Publisher) Option {
	return func(cache *Cache) { cache.events = p }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(cache *Cache) { cache.logger = l }
}

// New creates an empty Cache. Negative TTLs are treated as zero, which disables freshness.
func New(fetcher Fetcher, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		clock:   systemClock{},
		ttl:     max(ttl, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.WithComponent("cache")
	}
	return c
}

// Get returns the current document, fetching it when the slot is empty or stale.
//
// The shared fetch is detached from ctx so one caller giving up does not fail
// the others; it stays bounded by the fetcher's own timeout. A caller whose ctx
// ends first stops waiting and gets the stale document if one is held.
func (c *Cache) Get(ctx context.Context) (*cv.Document, error) {
	if doc, ok := c.fresh(); ok {
		return doc, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		// A refresh may have completed between the check above and joining the group.
		if doc, ok := c.fresh(); ok {
			return doc, nil
		}
		return c.refresh(fetchCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("joined in-flight refresh")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*cv.Document), nil
	case <-ctx.Done():
		c.mu.RLock()
		prev := c.entry
		c.mu.RUnlock()
		if prev != nil {
			c.logger.Debug("caller gave up waiting, serving stale", "error", ctx.Err())
			return prev.doc, nil
		}
		return nil, fmt.Errorf("%w: %w", cv.ErrFetchFailed, ctx.Err())
	}
}

// fresh reports the cached document when its age is strictly below the TTL.
func (c *Cache) fresh() (*cv.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil || c.clock.Now().Sub(c.entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.entry.doc, true
}

// refresh fetches once and applies the stale-on-error policy.
func (c *Cache) refresh(ctx context.Context) (*cv.Document, error) {
	snap, err := c.fetcher.Fetch(ctx)
	if err == nil && (snap == nil || snap.Document == nil) {
		err = errors.New("fetcher returned no document")
	}
	if err != nil {
		if !errors.Is(err, cv.ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", cv.ErrFetchFailed, err)
		}

		c.mu.RLock()
		prev := c.entry
		c.mu.RUnlock()

		if prev != nil {
			age := c.clock.Now().Sub(prev.fetchedAt)
			c.logger.Warn("using stale cache due to fetch error",
				"error", err,
				"age_ms", age.Milliseconds(),
				"digest", cv.ShortDigest(prev.digest),
			)
			c.publish(events.CacheStaleServed, map[string]any{
				"error":  err.Error(),
				"age_ms": age.Milliseconds(),
			})
			return prev.doc, nil
		}

		c.logger.Error("fetch failed with nothing cached", "error", err)
		c.publish(events.CacheFetchFailed, map[string]any{"error": err.Error()})
		return nil, err
	}

	next := &entry{
		doc:       snap.Document,
		fetchedAt: c.clock.Now(),
		digest:    snap.Digest,
	}

	c.mu.Lock()
	prev := c.entry
	c.entry = next
	c.mu.Unlock()

	changed := prev == nil || prev.digest != next.digest
	c.logger.Info("document fetched",
		"digest", cv.ShortDigest(next.digest),
		"bytes", snap.Bytes,
		"changed", changed,
	)
	c.publish(events.CacheRefreshed, map[string]any{
		"digest":  next.digest,
		"bytes":   snap.Bytes,
		"changed": changed,
	})
	return next.doc, nil
}

// Status reports slot metadata. It never fetches.
func (c *Cache) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Status{TTL: c.ttl, State: StateEmpty}
	if c.entry == nil {
		return s
	}

	s.Cached = true
	s.Age = c.clock.Now().Sub(c.entry.fetchedAt)
	s.FetchedAt = c.entry.fetchedAt
	s.Digest = c.entry.digest
	if s.Age < c.ttl {
		s.State = StateFresh
	} else {
		s.State = StateStale
	}
	return s
}

// TTL returns the current freshness window.
func (c *Cache) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttl
}

// Reconfigure replaces the TTL used by later freshness checks. The current entry is kept.
func (c *Cache) Reconfigure(ttl time.Duration) {
	c.mu.Lock()
	c.ttl = max(ttl, 0)
	c.mu.Unlock()
	c.logger.Info("cache ttl reconfigured", "ttl", ttl.String())
}

// Invalidate drops the cached entry, returning the slot to Empty.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
	c.publish(events.CacheInvalidated, nil)
}

func (c *Cache) publish(eventType string, data any) {
	if c.events != nil {
		c.events.Publish(eventType, data)
	}
}
