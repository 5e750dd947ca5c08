package registry

import "time"

// OnAddFunc is called after a mutation adds matchers to a Registry or keys to
// a Lookup. added is the number of matchers or keys in the call; size is the
// total afterwards.
type OnAddFunc func(name string, added, size int)

// OnRemoveFunc is called after a mutation takes matchers out of a Registry or
// keys out of a Lookup. removed counts only what was actually present.
type OnRemoveFunc func(name string, removed, size int)

// OnMatchFunc is called after Match finds a result.
type OnMatchFunc func(name string, duration time.Duration)

// OnMissFunc is called after Match finds nothing.
type OnMissFunc func(name string, duration time.Duration)

// options holds the configuration shared by Registry and Lookup.
type options struct {
	name     string
	notifier *Notifier[struct{}]

	onAdd    []OnAddFunc
	onRemove []OnRemoveFunc
	onMatch  []OnMatchFunc
	onMiss   []OnMissFunc
}

// Option configures a Registry or Lookup.
type Option func(*options)

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Compose bundles several options into one. Packages that wire hooks to a
// logger or metrics backend return their hooks this way.
func Compose(opts ...Option) Option {
	return func(o *options) {
		for _, opt := range opts {
			opt(o)
		}
	}
}

// WithName sets the name passed to hooks. It identifies a Registry or Lookup
// in logs and metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithNotifier enables change notification. n receives one pulse per
// structural mutation. The same Notifier may be shared by every node of a
// tree to get a single "tree changed" signal.
//
// Example:
//
//	changes := registry.NewNotifier[struct{}]()
//	reg := registry.NewWithOptions([]registry.Option{registry.WithNotifier(changes)}, m1, m2)
//	changes.Subscribe(func(struct{}) { rebuildMenu() })
func WithNotifier(n *Notifier[struct{}]) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithOnAdd adds a hook called after matchers or keys are added.
// Multiple hooks are called in order.
//
// Example:
//
//	registry.WithOnAdd(func(name string, added, size int) {
//	    logger.Debug("matchers added", "registry", name, "added", added)
//	})
func WithOnAdd(fn OnAddFunc) Option {
	return func(o *options) {
		o.onAdd = append(o.onAdd, fn)
	}
}

// WithOnRemove adds a hook called after matchers or keys are removed.
// Multiple hooks are called in order.
func WithOnRemove(fn OnRemoveFunc) Option {
	return func(o *options) {
		o.onRemove = append(o.onRemove, fn)
	}
}

// WithOnMatch adds a hook called after a successful Match.
// Multiple hooks are called in order.
//
// Example:
//
//	registry.WithOnMatch(func(name string, d time.Duration) {
//	    metrics.Timing("registry.match", d, "registry:"+name)
//	})
func WithOnMatch(fn OnMatchFunc) Option {
	return func(o *options) {
		o.onMatch = append(o.onMatch, fn)
	}
}

// WithOnMiss adds a hook called after a Match that found nothing.
// Multiple hooks are called in order.
func WithOnMiss(fn OnMissFunc) Option {
	return func(o *options) {
		o.onMiss = append(o.onMiss, fn)
	}
}

// timed reports whether Match needs to measure its duration.
func (o *options) timed() bool {
	return len(o.onMatch) > 0 || len(o.onMiss) > 0
}

func (o *options) callOnAdd(added, size int) {
	for _, fn := range o.onAdd {
		fn(o.name, added, size)
	}
}

func (o *options) callOnRemove(removed, size int) {
	for _, fn := range o.onRemove {
		fn(o.name, removed, size)
	}
}

// callOnResolve runs the match or miss hooks for a finished Match.
func (o *options) callOnResolve(ok bool, start time.Time) {
	if !o.timed() {
		return
	}
	d := time.Since(start)
	if ok {
		for _, fn := range o.onMatch {
			fn(o.name, d)
		}
		return
	}
	for _, fn := range o.onMiss {
		fn(o.name, d)
	}
}

// now returns the current time only when a hook will consume it.
func (o *options) now() time.Time {
	if !o.timed() {
		return time.Time{}
	}
	return time.Now()
}
