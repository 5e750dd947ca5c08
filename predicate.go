package registry

// Predicate is a cheap test on an item. Predicates guard matchers that are
// expensive or only valid for some shapes of item (see When).
type Predicate[T any] func(item T) bool

// All returns a Predicate that holds when every predicate holds.
// All() holds for every item.
func All[T any](ps ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range ps {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

// Any returns a Predicate that holds when at least one predicate holds.
// Any() holds for no item.
func Any[T any](ps ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range ps {
			if p(item) {
				return true
			}
		}
		return false
	}
}

// Not negates p.
func Not[T any](p Predicate[T]) Predicate[T] {
	return func(item T) bool {
		return !p(item)
	}
}

// When returns a Matcher that consults m only for items satisfying p.
//
// Example:
//
//	reg.Add(registry.When(
//	    registry.FieldEquals("source", "billing"),
//	    billingLookup,
//	))
func When[T, R any](p Predicate[T], m Matcher[T, R]) Matcher[T, R] {
	if isNil(m) {
		panic(ErrNilMatcher)
	}
	return &guarded[T, R]{pred: p, next: m}
}

type guarded[T, R any] struct {
	pred Predicate[T]
	next Matcher[T, R]
}

func (g *guarded[T, R]) Match(item T, params ...any) (R, bool) {
	if !g.pred(item) {
		var zero R
		return zero, false
	}
	return g.next.Match(item, params...)
}
