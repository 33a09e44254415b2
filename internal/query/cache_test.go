package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStoresSnapshot(t *testing.T) {
	cache := NewCache(nil)
	ctx := context.Background()

	q := Fetch(ctx, cache, "hosts", func(context.Context) ([]string, error) {
		return []string{"web-1", "web-2"}, nil
	})

	assert.Equal(t, StatusSuccess, q.Status)
	assert.Equal(t, []string{"web-1", "web-2"}, q.Data)

	cached, ok := Lookup[[]string](cache, "hosts")
	require.True(t, ok)
	assert.Equal(t, q, cached)
}

func TestFetchErrorSnapshot(t *testing.T) {
	cache := NewCache(nil)

	q := Fetch(context.Background(), cache, "hosts", func(context.Context) ([]string, error) {
		return nil, errors.New("connection refused")
	})

	assert.Equal(t, StatusError, q.Status)
	require.NotNil(t, q.Err)
	assert.Equal(t, "connection refused", q.Err.Message)
}

func TestFetchMarksRefetchWhenDataExists(t *testing.T) {
	cache := NewCache(nil)
	ctx := context.Background()

	Fetch(ctx, cache, "hosts", func(context.Context) ([]string, error) {
		return []string{"web-1"}, nil
	})

	// Observe the in-flight snapshot from inside the second fetch.
	var inflight Query[[]string]
	Fetch(ctx, cache, "hosts", func(context.Context) ([]string, error) {
		inflight, _ = Lookup[[]string](cache, "hosts")
		return []string{"web-1", "web-2"}, nil
	})

	assert.True(t, inflight.Refetching, "second fetch should expose a refetching snapshot while in flight")
	assert.Equal(t, []string{"web-1"}, inflight.Data, "stale data stays on the snapshot during refetch")

	final, ok := Lookup[[]string](cache, "hosts")
	require.True(t, ok)
	assert.False(t, final.Refetching)
	assert.Equal(t, []string{"web-1", "web-2"}, final.Data)
}

func TestLaterFetchSupersedesEarlier(t *testing.T) {
	cache := NewCache(nil)
	ctx := context.Background()

	firstStarted := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		Fetch(ctx, cache, "hosts", func(context.Context) ([]string, error) {
			close(firstStarted)
			<-release
			return []string{"stale"}, nil
		})
	}()

	<-firstStarted
	q := Fetch(ctx, cache, "hosts", func(context.Context) ([]string, error) {
		return []string{"fresh"}, nil
	})
	assert.Equal(t, []string{"fresh"}, q.Data)

	// Let the first fetch complete after the second; its result must not
	// overwrite the later fetch's outcome.
	close(release)
	wg.Wait()

	final, ok := Lookup[[]string](cache, "hosts")
	require.True(t, ok)
	assert.Equal(t, []string{"fresh"}, final.Data, "earlier fetch completing late must be discarded")
}

func TestInvalidateNotifiesSubscribers(t *testing.T) {
	cache := NewCache(nil)

	ch := cache.Subscribe("activation-keys")
	defer cache.Unsubscribe("activation-keys", ch)

	assert.False(t, cache.Stale("activation-keys"))
	cache.Invalidate("activation-keys")
	assert.True(t, cache.Stale("activation-keys"))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive invalidation ping")
	}
}

func TestInvalidateIsScopedByKey(t *testing.T) {
	cache := NewCache(nil)

	keysCh := cache.Subscribe("activation-keys")
	defer cache.Unsubscribe("activation-keys", keysCh)
	hostsCh := cache.Subscribe("hosts")
	defer cache.Unsubscribe("hosts", hostsCh)

	cache.Invalidate("activation-keys")

	select {
	case <-keysCh:
	case <-time.After(time.Second):
		t.Fatal("activation-keys subscriber did not receive ping")
	}
	select {
	case <-hostsCh:
		t.Fatal("hosts subscriber must not be pinged by activation-keys invalidation")
	default:
	}
}

func TestFetchClearsStale(t *testing.T) {
	cache := NewCache(nil)
	ctx := context.Background()

	Fetch(ctx, cache, "cas", func(context.Context) (int, error) { return 1, nil })
	cache.Invalidate("cas")
	require.True(t, cache.Stale("cas"))

	Fetch(ctx, cache, "cas", func(context.Context) (int, error) { return 2, nil })
	assert.False(t, cache.Stale("cas"))
}

func TestUnsubscribeDropsListener(t *testing.T) {
	cache := NewCache(nil)

	ch := cache.Subscribe("hosts")
	cache.Unsubscribe("hosts", ch)

	// Channel is closed; a receive completes immediately with the zero
	// value rather than a ping.
	_, open := <-ch
	assert.False(t, open)

	// Broadcasting after unsubscribe must not panic on the closed channel.
	cache.Invalidate("hosts")
}

func TestInvalidateConcurrentWithUnsubscribe(t *testing.T) {
	// A stream unmounting while a mutation broadcasts must never send on
	// the closed channel. Run with -race to catch regressions.
	cache := NewCache(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			ch := cache.Subscribe("hosts")
			cache.Unsubscribe("hosts", ch)
		}
	}()

	for i := 0; i < 10000; i++ {
		cache.Invalidate("hosts")
	}
	<-done
}

func TestInvalidateThenRefetchSequence(t *testing.T) {
	// A mounted view over the same collection observes success, then a
	// loading snapshot, then fresh data once the refetch lands.
	cache := NewCache(nil)
	ctx := context.Background()

	items := []string{"key-1"}
	fetch := func() Query[[]string] {
		return Fetch(ctx, cache, "activation-keys", func(context.Context) ([]string, error) {
			return items, nil
		})
	}

	first := fetch()
	assert.Equal(t, StatusSuccess, first.Status)
	assert.Len(t, first.Data, 1)

	ch := cache.Subscribe("activation-keys")
	defer cache.Unsubscribe("activation-keys", ch)

	// A successful create mutation acknowledges, then invalidates.
	items = []string{"key-1", "key-2"}
	cache.Invalidate("activation-keys")
	<-ch

	second := fetch()
	assert.Equal(t, StatusSuccess, second.Status)
	assert.Equal(t, []string{"key-1", "key-2"}, second.Data)
}
