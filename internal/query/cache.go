package query

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Cache holds the latest snapshot per collection key together with the
// subscribers interested in that key. Invalidation is a "mark stale and
// notify" call; it never blocks and never fetches by itself.
//
// The subscriber mechanism follows the ping-channel broadcast pattern:
// listeners receive an empty struct and are expected to refetch through
// Fetch, which re-derives the snapshot.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	logger  *slog.Logger
}

type entry struct {
	snapshot    any // Query[T] for the key's payload type
	seq         uint64
	stale       bool
	subscribers map[chan struct{}]struct{}
}

// NewCache creates an empty cache.
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

func (c *Cache) entryLocked(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{subscribers: make(map[chan struct{}]struct{})}
		c.entries[key] = e
	}
	return e
}

// Subscribe returns a channel that receives a ping whenever the key is
// invalidated. The caller must Unsubscribe when its view unmounts.
func (c *Cache) Subscribe(key string) chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.entryLocked(key).subscribers[ch] = struct{}{}
	c.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it. Pings broadcast
// after this call are dropped for the removed listener.
func (c *Cache) Unsubscribe(key string, ch chan struct{}) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		delete(e.subscribers, ch)
	}
	c.mu.Unlock()
	close(ch)
}

// Invalidate marks the key stale and pings all subscribers. Non-blocking:
// a subscriber whose channel is full will catch up on its pending ping.
// Sends happen under the cache lock so a concurrent Unsubscribe cannot
// close a channel mid-broadcast.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.stale = true
	subscribers := len(e.subscribers)
	for ch := range e.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	c.mu.Unlock()

	c.logger.Debug("collection invalidated", "key", key, "subscribers", subscribers)
}

// Stale reports whether the key has been invalidated since its last
// completed fetch.
func (c *Cache) Stale(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && e.stale
}

// Lookup returns the latest snapshot for the key, if any. A snapshot stored
// with a different payload type reports !ok.
func Lookup[T any](c *Cache, key string) (Query[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.snapshot == nil {
		return Query[T]{}, false
	}
	q, ok := e.snapshot.(Query[T])
	return q, ok
}

// Fetch runs fn for the key and returns the resulting snapshot. The entry
// transitions to pending first (refetching when prior data exists), so
// concurrent readers observe a loading state rather than stale content.
//
// Each call is stamped with a per-key sequence number; a completion whose
// sequence has been superseded by a later Fetch is discarded and the later
// call's outcome wins, regardless of completion order.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) Query[T] {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.seq++
	seq := e.seq
	var loading Query[T]
	if prev, ok := e.snapshot.(Query[T]); ok && prev.Status == StatusSuccess {
		loading = Refetch(prev)
	} else {
		loading = Pending[T]()
	}
	e.snapshot = loading
	c.mu.Unlock()

	data, err := fn(ctx)

	var result Query[T]
	if err != nil {
		result = Failure[T](AsTypedError(err))
		c.logger.Debug("collection fetch failed", "key", key, "error", err)
	} else {
		result = Success(data)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e = c.entryLocked(key)
	if e.seq != seq {
		// A later fetch was issued for this key; its outcome supersedes
		// ours even if it has not completed yet.
		if q, ok := e.snapshot.(Query[T]); ok {
			return q
		}
		return loading
	}
	e.snapshot = result
	e.stale = false
	return result
}

// AsTypedError converts any error into the TypedError surfaced to views.
// Errors that already carry a code keep it; everything else becomes a
// plain message with no code.
func AsTypedError(err error) *TypedError {
	if err == nil {
		return nil
	}
	var typed *TypedError
	if errors.As(err, &typed) {
		return typed
	}
	type coded interface {
		error
		ErrorMessage() string
		ErrorCode() string
	}
	var withCode coded
	if errors.As(err, &withCode) {
		return &TypedError{Message: withCode.ErrorMessage(), Code: withCode.ErrorCode()}
	}
	return &TypedError{Message: err.Error()}
}
