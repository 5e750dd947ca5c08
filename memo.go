package registry

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memo caches the results of a Matcher, misses included. It implements
// Matcher, so it can wrap a whole tree and sit at its root:
//
//	changes := registry.NewNotifier[struct{}]()
//	root := registry.NewWithOptions([]registry.Option{registry.WithNotifier(changes)}, a, b)
//	memo := registry.Memoize[Event, string](root, eventID, 0)
//	memo.Watch(changes)
//
// The cached result for an item is served until the entry expires or the
// cache is invalidated. Memo is safe for concurrent use.
type Memo[T, R any] struct {
	next  Matcher[T, R]
	key   func(item T, params ...any) (string, bool)
	cache *gocache.Cache
}

type memoized[R any] struct {
	value R
	ok    bool
}

// Memoize wraps m with a cache. key derives the cache key for an item and
// its params; items without a key bypass the cache. A ttl of zero or less
// keeps entries until invalidated and starts no cleanup goroutine.
func Memoize[T, R any](m Matcher[T, R], key func(item T, params ...any) (string, bool), ttl time.Duration) *Memo[T, R] {
	if isNil(m) {
		panic(ErrNilMatcher)
	}

	expiration, cleanup := time.Duration(gocache.NoExpiration), time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, ttl
	}

	return &Memo[T, R]{
		next:  m,
		key:   key,
		cache: gocache.New(expiration, cleanup),
	}
}

// Match implements Matcher.
func (c *Memo[T, R]) Match(item T, params ...any) (R, bool) {
	k, ok := c.key(item, params...)
	if !ok {
		return c.next.Match(item, params...)
	}

	if cached, found := c.cache.Get(k); found {
		if m, ok := cached.(memoized[R]); ok {
			return m.value, m.ok
		}
	}

	v, ok := c.next.Match(item, params...)
	c.cache.SetDefault(k, memoized[R]{value: v, ok: ok})
	return v, ok
}

// MatchAll matches each item independently and returns the results in input
// order.
func (c *Memo[T, R]) MatchAll(items []T, params ...any) []Result[R] {
	return matchAll[T, R](c, items, params)
}

// Invalidate drops every cached result.
func (c *Memo[T, R]) Invalidate() {
	c.cache.Flush()
}

// Watch invalidates the cache on every pulse from n. Unsubscribe the
// returned subscription to stop watching.
func (c *Memo[T, R]) Watch(n *Notifier[struct{}]) *Subscription[struct{}] {
	return n.Subscribe(func(struct{}) {
		c.Invalidate()
	})
}

// Len returns the number of cached entries, including expired entries not
// yet cleaned up.
func (c *Memo[T, R]) Len() int {
	return c.cache.ItemCount()
}
