package registry

import (
	"reflect"
	"slices"
	"sync"
)

// Registry is an ordered, mutable list of matchers. Match tries each matcher
// in insertion order and returns the first result; earlier matchers win.
//
// A Registry is itself a Matcher, so registries nest:
//
//	users := registry.New[Event, string](userCreated, userDeleted)
//	root := registry.New[Event, string](users, fallback)
//
// Registry is safe for concurrent use. Mutations replace the matcher list
// rather than editing it, so Match works on the list as it was when the call
// started: a matcher added during an in-flight Match is not consulted by that
// call, and a matcher removed during it may still be. Add and Remove cost
// O(n) in the number of registered matchers.
type Registry[T, R any] struct {
	mu      sync.RWMutex
	entries []*entry[T, R]
	opts    options
}

// entry is one slot in the list. Cleanups returned by Add hold entries, not
// indices, so they stay valid across other mutations.
type entry[T, R any] struct {
	matcher Matcher[T, R]
}

// New creates a Registry holding matchers, in order.
func New[T, R any](matchers ...Matcher[T, R]) *Registry[T, R] {
	return NewWithOptions(nil, matchers...)
}

// NewWithOptions creates a Registry with options and initial matchers. The
// initial matchers count as a single Add: one notification, one OnAdd call.
//
// Example:
//
//	reg := registry.NewWithOptions(
//	    []registry.Option{
//	        registry.WithName("events"),
//	        registry.WithNotifier(changes),
//	    },
//	    legacyMatcher,
//	    currentMatcher,
//	)
func NewWithOptions[T, R any](opts []Option, matchers ...Matcher[T, R]) *Registry[T, R] {
	r := &Registry[T, R]{opts: newOptions(opts)}
	r.add(matchers)
	return r
}

// Add appends matchers in argument order, after everything already
// registered. It returns a cleanup that removes exactly the slots this call
// created, leaving duplicates added by other calls in place. The cleanup is
// idempotent: only its first call removes anything or notifies.
//
// Add panics with ErrNilMatcher if any matcher is nil; nothing is added in
// that case.
func (r *Registry[T, R]) Add(matchers ...Matcher[T, R]) func() {
	added := r.add(matchers)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.removeEntries(added)
		})
	}
}

func (r *Registry[T, R]) add(matchers []Matcher[T, R]) []*entry[T, R] {
	added := make([]*entry[T, R], len(matchers))
	for i, m := range matchers {
		if isNil(m) {
			panic(ErrNilMatcher)
		}
		added[i] = &entry[T, R]{matcher: m}
	}

	r.mu.Lock()
	r.entries = append(slices.Clip(r.entries), added...)
	size := len(r.entries)
	r.mu.Unlock()

	r.opts.callOnAdd(len(added), size)
	emit(r.opts.notifier)

	return added
}

// Remove takes out the first remaining occurrence of each matcher. Matchers
// that are not registered are ignored. Every call notifies once, whether or
// not anything was removed.
//
// Matchers are compared with ==. Values whose dynamic type is not comparable,
// such as MatchFunc, never compare equal; remove them with the cleanup
// returned by Add instead.
func (r *Registry[T, R]) Remove(matchers ...Matcher[T, R]) {
	r.mu.Lock()
	next := slices.Clone(r.entries)
	removed := 0
	for _, m := range matchers {
		i := slices.IndexFunc(next, func(e *entry[T, R]) bool {
			return sameMatcher(e.matcher, m)
		})
		if i != -1 {
			next = slices.Delete(next, i, i+1)
			removed++
		}
	}
	r.entries = next
	size := len(next)
	r.mu.Unlock()

	r.opts.callOnRemove(removed, size)
	emit(r.opts.notifier)
}

// removeEntries deletes the given slots if they are still present.
func (r *Registry[T, R]) removeEntries(targets []*entry[T, R]) {
	r.mu.Lock()
	next := slices.DeleteFunc(slices.Clone(r.entries), func(e *entry[T, R]) bool {
		return slices.Contains(targets, e)
	})
	removed := len(r.entries) - len(next)
	r.entries = next
	size := len(next)
	r.mu.Unlock()

	r.opts.callOnRemove(removed, size)
	emit(r.opts.notifier)
}

// Match implements Matcher. It returns the first result any registered
// matcher produces for item, or ok == false if none does.
func (r *Registry[T, R]) Match(item T, params ...any) (R, bool) {
	start := r.opts.now()

	r.mu.RLock()
	entries := r.entries
	r.mu.RUnlock()

	for _, e := range entries {
		if v, ok := e.matcher.Match(item, params...); ok {
			r.opts.callOnResolve(true, start)
			return v, true
		}
	}

	r.opts.callOnResolve(false, start)
	var zero R
	return zero, false
}

// MatchAll matches each item independently and returns the results in input
// order.
func (r *Registry[T, R]) MatchAll(items []T, params ...any) []Result[R] {
	return matchAll[T, R](r, items, params)
}

// Changes returns the Notifier given with WithNotifier, or nil when change
// notification is not enabled.
func (r *Registry[T, R]) Changes() *Notifier[struct{}] {
	return r.opts.notifier
}

// Len returns the number of registered slots, counting duplicates.
func (r *Registry[T, R]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Matchers returns the registered matchers in priority order.
func (r *Registry[T, R]) Matchers() []Matcher[T, R] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Matcher[T, R], len(r.entries))
	for i, e := range r.entries {
		out[i] = e.matcher
	}
	return out
}

// sameMatcher compares a and b with == when their dynamic type allows it.
func sameMatcher[T, R any](a, b Matcher[T, R]) (same bool) {
	if a == nil || b == nil {
		return false
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	// A comparable struct can still hold an uncomparable value in an
	// interface field, which makes == panic.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
