package registry

import (
	"errors"
	"reflect"
)

// ErrNilMatcher is the panic value used when a nil matcher, or an interface
// holding a nil pointer or func, is added to a Registry or bound in a Lookup.
// A nil matcher is a programming error, not a runtime condition.
var ErrNilMatcher = errors.New("registry: nil matcher")

// Matcher resolves an item to a result. It returns ok == false when it has
// nothing to say about the item, which lets a Registry fall through to the
// next matcher. A zero R with ok == true is a match.
//
// Registry, Lookup and Memo all implement Matcher, so any of them can be
// nested inside a Registry or bound as a Lookup value.
//
// Example:
//
//	type prefixMatcher struct {
//	    prefix string
//	}
//
//	func (m *prefixMatcher) Match(item string, _ ...any) (string, bool) {
//	    if !strings.HasPrefix(item, m.prefix) {
//	        return "", false
//	    }
//	    return strings.TrimPrefix(item, m.prefix), true
//	}
type Matcher[T, R any] interface {
	Match(item T, params ...any) (R, bool)
}

// MatchFunc is a function adapter for Matcher. Use for simple matchers
// that don't need a struct:
//
//	reg.Add(registry.MatchFunc[string, int](func(s string, _ ...any) (int, bool) {
//	    n, err := strconv.Atoi(s)
//	    return n, err == nil
//	}))
//
// Function values are not comparable, so a MatchFunc can only be taken out
// of a Registry through the cleanup returned by Add, never by Remove.
type MatchFunc[T, R any] func(item T, params ...any) (R, bool)

// Match implements the Matcher interface.
func (f MatchFunc[T, R]) Match(item T, params ...any) (R, bool) {
	return f(item, params...)
}

// Const returns a Matcher that matches every item with r. It is how literal
// results are stored in a Lookup. Each call returns a distinct matcher.
func Const[T, R any](r R) Matcher[T, R] {
	return &constant[T, R]{value: r}
}

type constant[T, R any] struct {
	value R
}

func (c *constant[T, R]) Match(T, ...any) (R, bool) { return c.value, true }

// Result is one element of a MatchAll result. OK reports whether the item
// was matched; Value is the zero R when it was not.
type Result[R any] struct {
	Value R
	OK    bool
}

// matchAll applies m to each item independently, preserving order.
func matchAll[T, R any](m Matcher[T, R], items []T, params []any) []Result[R] {
	out := make([]Result[R], len(items))
	for i, item := range items {
		v, ok := m.Match(item, params...)
		out[i] = Result[R]{Value: v, OK: ok}
	}
	return out
}

// isNil reports whether m is nil or holds a nil pointer, func, map, chan or
// slice, such as a nil *Registry or a nil MatchFunc.
func isNil[T, R any](m Matcher[T, R]) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Chan, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}
