// Package registry provides composable first-match dispatch.
//
// An item goes in; the first matcher with something to say about it decides
// the result. Matchers are plain functions, keyed lookup tables, or whole
// registries of other matchers, so dispatch trees nest to any depth and can be
// reshaped at runtime.
//
// # Quick Start
//
// Build a registry from matchers. Earlier matchers have priority:
//
//	type Event struct {
//	    Source string
//	    Type   string
//	}
//
//	billing := registry.MatchFunc[Event, string](func(e Event, _ ...any) (string, bool) {
//	    if e.Source != "billing" {
//	        return "", false
//	    }
//	    return "billing-queue", true
//	})
//
//	byType := registry.NewLookup[Event, string, string](
//	    registry.Truthy(func(e Event) string { return e.Type }),
//	    nil,
//	)
//	byType.HandleValue("users-queue", "user/created", "user/deleted")
//
//	root := registry.New[Event, string](billing, byType)
//
//	queue, ok := root.Match(Event{Source: "auth", Type: "user/created"})
//	// queue == "users-queue", ok == true
//
// # The Matcher Contract
//
// Everything that takes part in dispatch implements one interface:
//
//	type Matcher[T, R any] interface {
//	    Match(item T, params ...any) (R, bool)
//	}
//
// ok == false means "no opinion" and lets dispatch continue. ok == true is a
// match even when the result is R's zero value, so a matcher answering 0,
// false or "" still stops the search.
//
// Implementations in this package:
//   - MatchFunc: a function adapter
//   - Const: always matches with a fixed result
//   - Registry: ordered list, first match wins
//   - Lookup: derives a key from the item and dispatches on it
//   - Memo: caches another matcher's results
//   - When: guards a matcher with a Predicate
//
// Extra params given to Match are passed unchanged to every matcher consulted.
//
// # Registry
//
// Add appends matchers and returns a cleanup that removes exactly the slots
// it created, so adding the same matcher twice and cleaning up once leaves
// the other copy in place:
//
//	remove := root.Add(override)
//	defer remove()
//
// Remove takes out the first occurrence of a matcher by ==. Function values
// are not comparable; remove a MatchFunc with its cleanup.
//
// # Lookup
//
// A Lookup binds keys to matchers. Literal results are stored with Const
// (HandleValue does this for you); resolvers receive the item and params.
// The KeyFunc reports whether an item has a key at all:
//
//	byCode := registry.NewLookup[int, int, string](
//	    func(status int) (int, bool) { return status / 100, status > 0 },
//	    nil,
//	)
//
// Zero keys are ordinary keys. Wrap a plain key function in Truthy to treat
// the zero value as "no key".
//
// # Change Notification
//
// Registries and Lookups can publish a pulse after every mutation. Pass a
// Notifier with WithNotifier; share it across a tree for one signal per
// change anywhere in it:
//
//	changes := registry.NewNotifier[struct{}]()
//	opts := []registry.Option{registry.WithNotifier(changes)}
//	root := registry.NewWithOptions[Event, string](opts, billing, byType)
//
//	memo := registry.Memoize[Event, string](root, eventKey, 0)
//	memo.Watch(changes)
//
// Each Add, Remove, Handle, Unhandle and effective cleanup emits exactly once,
// however many matchers or keys it touched. Construction with initial
// matchers counts as one Add.
//
// # Hooks
//
// Observability is injected with options, never printed by the package:
//
//	reg := registry.NewWithOptions[Event, string]([]registry.Option{
//	    registry.WithName("events"),
//	    registry.WithOnMiss(func(name string, d time.Duration) {
//	        log.Printf("%s: no match (%v)", name, d)
//	    }),
//	})
//
// Package observe provides ready-made zerolog and Prometheus hooks.
//
// # JSON Items
//
// For registries over raw JSON, JSONKey, HasFields and FieldEquals read
// fields with gjson paths without unmarshaling the document:
//
//	events := registry.NewLookup[[]byte, string, Handler](registry.JSONKey("detail-type"), nil)
//	root := registry.New[[]byte, Handler](
//	    registry.When(registry.FieldEquals("source", "aws.s3"), s3Handlers),
//	    events,
//	)
//
// DecodeTable loads literal Lookup bindings from YAML.
//
// # Concurrency
//
// All types are safe for concurrent use. Match works on the matcher list as
// it was when the call began: matchers added during a Match are not consulted
// by it, and matchers removed during it may still be. Hooks, notifier
// callbacks and matchers run without internal locks held, so they may mutate
// the registry that invoked them.
package registry
