package registry

import (
	"maps"
	"slices"
	"sync"
)

// KeyFunc derives a lookup key from an item. It returns ok == false when the
// item has no key, in which case the Lookup does not match it.
//
// Zero values are ordinary keys: a KeyFunc returning (0, true) or ("", true)
// looks up 0 or "". Use Truthy to treat zero values as "no key".
type KeyFunc[T any, K comparable] func(item T) (K, bool)

// Truthy adapts fn into a KeyFunc that reports no key whenever fn returns
// the zero value of K.
//
//	byID := registry.Truthy(func(e Event) string { return e.ID })
func Truthy[T any, K comparable](fn func(item T) K) KeyFunc[T, K] {
	return func(item T) (K, bool) {
		var zero K
		k := fn(item)
		return k, k != zero
	}
}

// Lookup dispatches on a key derived from each item. Every key is bound to
// a Matcher, which is either a literal (Const, HandleValue) or a resolver
// (MatchFunc, HandleFunc, or any nested Registry or Lookup) that receives
// the item and params.
//
// Lookup implements Matcher and is safe for concurrent use.
//
// Example:
//
//	l := registry.NewLookup[Event, string, string](
//	    registry.Truthy(func(e Event) string { return e.Type }),
//	    nil,
//	)
//	l.HandleValue("created", "user/created", "account/created")
//	l.HandleFunc(func(e Event, _ ...any) (string, bool) {
//	    return "deleted:" + e.ID, true
//	}, "user/deleted")
type Lookup[T any, K comparable, R any] struct {
	key KeyFunc[T, K]

	mu    sync.RWMutex
	table map[K]*binding[T, R]
	opts  options
}

// binding is the value stored for a key. The cleanup returned by Handle
// compares bindings by pointer so it never deletes a later registration.
type binding[T, R any] struct {
	value Matcher[T, R]
}

// NewLookup creates a Lookup with key derivation fn and an initial table.
// table may be nil; it is copied, so later changes to it have no effect.
func NewLookup[T any, K comparable, R any](key KeyFunc[T, K], table map[K]Matcher[T, R], opts ...Option) *Lookup[T, K, R] {
	l := &Lookup[T, K, R]{
		key:   key,
		table: make(map[K]*binding[T, R], len(table)),
		opts:  newOptions(opts),
	}
	for k, v := range table {
		if isNil(v) {
			panic(ErrNilMatcher)
		}
		l.table[k] = &binding[T, R]{value: v}
	}
	return l
}

// Handle binds value to each key, replacing existing bindings. It returns a
// cleanup that removes the bindings made by this call. Keys that were bound
// again after this call keep their newer value. The cleanup is idempotent.
//
// Handle panics with ErrNilMatcher if value is nil.
func (l *Lookup[T, K, R]) Handle(value Matcher[T, R], keys ...K) func() {
	if isNil(value) {
		panic(ErrNilMatcher)
	}
	b := &binding[T, R]{value: value}

	l.mu.Lock()
	for _, k := range keys {
		l.table[k] = b
	}
	size := len(l.table)
	l.mu.Unlock()

	l.opts.callOnAdd(len(keys), size)
	emit(l.opts.notifier)

	var once sync.Once
	return func() {
		once.Do(func() {
			l.unbind(b, keys)
		})
	}
}

// HandleValue binds the literal result r to each key.
func (l *Lookup[T, K, R]) HandleValue(r R, keys ...K) func() {
	return l.Handle(Const[T, R](r), keys...)
}

// HandleFunc binds a resolver function to each key.
func (l *Lookup[T, K, R]) HandleFunc(fn func(item T, params ...any) (R, bool), keys ...K) func() {
	return l.Handle(MatchFunc[T, R](fn), keys...)
}

// Unhandle removes the bindings for keys. Absent keys are ignored.
func (l *Lookup[T, K, R]) Unhandle(keys ...K) {
	l.mu.Lock()
	removed := 0
	for _, k := range keys {
		if _, ok := l.table[k]; ok {
			delete(l.table, k)
			removed++
		}
	}
	size := len(l.table)
	l.mu.Unlock()

	l.opts.callOnRemove(removed, size)
	emit(l.opts.notifier)
}

// unbind removes keys that are still bound to b.
func (l *Lookup[T, K, R]) unbind(b *binding[T, R], keys []K) {
	l.mu.Lock()
	removed := 0
	for _, k := range keys {
		if l.table[k] == b {
			delete(l.table, k)
			removed++
		}
	}
	size := len(l.table)
	l.mu.Unlock()

	l.opts.callOnRemove(removed, size)
	emit(l.opts.notifier)
}

// Match implements Matcher. It derives the item's key and resolves the bound
// value with item and params. Items without a key, and keys without a
// binding, do not match. A bound resolver may itself decline the item.
func (l *Lookup[T, K, R]) Match(item T, params ...any) (R, bool) {
	start := l.opts.now()

	v, ok := l.resolve(item, params)

	l.opts.callOnResolve(ok, start)
	return v, ok
}

func (l *Lookup[T, K, R]) resolve(item T, params []any) (R, bool) {
	var zero R

	k, ok := l.key(item)
	if !ok {
		return zero, false
	}

	l.mu.RLock()
	b, found := l.table[k]
	l.mu.RUnlock()

	if !found {
		return zero, false
	}
	return b.value.Match(item, params...)
}

// MatchAll matches each item independently and returns the results in input
// order.
func (l *Lookup[T, K, R]) MatchAll(items []T, params ...any) []Result[R] {
	return matchAll[T, R](l, items, params)
}

// Changes returns the Notifier given with WithNotifier, or nil.
func (l *Lookup[T, K, R]) Changes() *Notifier[struct{}] {
	return l.opts.notifier
}

// Keys returns the bound keys in unspecified order.
func (l *Lookup[T, K, R]) Keys() []K {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Collect(maps.Keys(l.table))
}

// Len returns the number of bound keys.
func (l *Lookup[T, K, R]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.table)
}
