package registry

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
)

// ErrNilCallback is the panic value used when Subscribe is given a nil
// function.
var ErrNilCallback = errors.New("registry: nil callback")

// Notifier is a synchronous publish/subscribe primitive. Callbacks run on the
// emitting goroutine, in subscription order.
//
// The zero value is ready to use. A Notifier[struct{}] is the "something
// changed" pulse used by Registry and Lookup (see WithNotifier).
type Notifier[T any] struct {
	mu   sync.Mutex
	subs []*Subscription[T]
}

// NewNotifier creates an empty Notifier.
func NewNotifier[T any]() *Notifier[T] {
	return &Notifier[T]{}
}

// Subscription is a registered callback. Its Unsubscribe method value is the
// cleanup handle for the subscription:
//
//	sub := n.Subscribe(func(struct{}) { cache.Invalidate() })
//	defer sub.Unsubscribe()
type Subscription[T any] struct {
	n      *Notifier[T]
	fn     func(T)
	active atomic.Bool
}

// Unsubscribe removes the subscription from its Notifier. Calling it more
// than once, or on a zero Subscription, is a no-op.
func (s *Subscription[T]) Unsubscribe() {
	if s.n == nil {
		return
	}
	s.n.Unsubscribe(s)
}

// Subscribe registers fn and returns its subscription. Subscribing the same
// function twice creates two independent subscriptions. Subscribe panics with
// ErrNilCallback if fn is nil.
func (n *Notifier[T]) Subscribe(fn func(T)) *Subscription[T] {
	if fn == nil {
		panic(ErrNilCallback)
	}

	s := &Subscription[T]{n: n, fn: fn}
	s.active.Store(true)

	n.mu.Lock()
	n.subs = append(n.subs, s)
	n.mu.Unlock()

	return s
}

// Unsubscribe removes s. It is a no-op when s is nil, belongs to another
// Notifier, or was already removed.
func (n *Notifier[T]) Unsubscribe(s *Subscription[T]) {
	if s == nil || s.n != n {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if i := slices.Index(n.subs, s); i != -1 {
		s.active.Store(false)
		n.subs = slices.Delete(slices.Clone(n.subs), i, i+1)
	}
}

// Emit calls every subscribed callback with v.
//
// The subscriber list is captured when Emit starts: callbacks subscribed
// during the emission are not called for it, and callbacks unsubscribed
// before their turn are skipped. No lock is held while callbacks run.
func (n *Notifier[T]) Emit(v T) {
	n.mu.Lock()
	subs := n.subs
	n.mu.Unlock()

	for _, s := range subs {
		if s.active.Load() {
			s.fn(v)
		}
	}
}

// Len returns the number of active subscriptions.
func (n *Notifier[T]) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// emit is a nil-safe pulse used by the mutation paths.
func emit(n *Notifier[struct{}]) {
	if n != nil {
		n.Emit(struct{}{})
	}
}
