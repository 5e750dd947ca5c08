package registry

import (
	"testing"
)

type testItem struct {
	ID string
}

type testResult struct {
	ID      string
	Message string
	Second  bool
}

var (
	mapping1 = map[string]string{"a": "ma1", "c": "mc1"}
	mapping2 = map[string]string{"b": "mb2", "c": "mc2"}
)

func match1(it testItem, _ ...any) (testResult, bool) {
	msg, ok := mapping1[it.ID]
	if !ok {
		return testResult{}, false
	}
	return testResult{ID: it.ID, Message: msg}, true
}

func match2(it testItem, _ ...any) (testResult, bool) {
	msg, ok := mapping2[it.ID]
	if !ok {
		return testResult{}, false
	}
	return testResult{ID: it.ID, Message: msg, Second: true}, true
}

// countingMatcher is a comparable matcher that records calls.
type countingMatcher struct {
	result string
	calls  int
}

func (m *countingMatcher) Match(string, ...any) (string, bool) {
	m.calls++
	return m.result, true
}

func TestRegistry_Match(t *testing.T) {
	t.Run("empty registry never matches", func(t *testing.T) {
		root := New[testItem, testResult]()

		for _, id := range []string{"a", "b", "", "zzz"} {
			if _, ok := root.Match(testItem{ID: id}); ok {
				t.Errorf("Match(%q) matched on empty registry", id)
			}
		}
	})

	t.Run("direct matching", func(t *testing.T) {
		reg := New[testItem, testResult](MatchFunc[testItem, testResult](match1))

		got, ok := reg.Match(testItem{ID: "a"})
		if !ok {
			t.Fatal("expected match")
		}
		want := testResult{ID: "a", Message: "ma1"}
		if got != want {
			t.Errorf("Match = %+v, want %+v", got, want)
		}
	})

	t.Run("nested registry resolves transitively", func(t *testing.T) {
		reg1 := New[testItem, testResult](MatchFunc[testItem, testResult](match1))
		root := New[testItem, testResult](reg1)

		got, ok := root.Match(testItem{ID: "a"})
		direct, directOK := reg1.Match(testItem{ID: "a"})
		if !ok || !directOK {
			t.Fatal("expected match")
		}
		if got != direct {
			t.Errorf("nested Match = %+v, want %+v", got, direct)
		}
	})

	t.Run("falls through to second matcher", func(t *testing.T) {
		reg1 := New[testItem, testResult](MatchFunc[testItem, testResult](match1))
		reg2 := New[testItem, testResult](MatchFunc[testItem, testResult](match2))
		root := New[testItem, testResult](reg1, reg2)

		got, _ := root.Match(testItem{ID: "b"})
		want := testResult{ID: "b", Message: "mb2", Second: true}
		if got != want {
			t.Errorf("Match = %+v, want %+v", got, want)
		}
	})

	t.Run("earlier matcher wins", func(t *testing.T) {
		reg1 := New[testItem, testResult](MatchFunc[testItem, testResult](match1))
		reg2 := New[testItem, testResult](MatchFunc[testItem, testResult](match2))
		root := New[testItem, testResult](reg1, reg2)

		got, _ := root.Match(testItem{ID: "c"})
		want := testResult{ID: "c", Message: "mc1"}
		if got != want {
			t.Errorf("Match = %+v, want %+v", got, want)
		}
	})

	t.Run("zero value result short-circuits", func(t *testing.T) {
		second := &countingMatcher{result: "later"}
		reg := New[string, string](
			MatchFunc[string, string](func(string, ...any) (string, bool) { return "", true }),
			second,
		)

		got, ok := reg.Match("x")
		if !ok || got != "" {
			t.Errorf("Match = (%q, %v), want (\"\", true)", got, ok)
		}
		if second.calls != 0 {
			t.Errorf("second matcher called %d times, want 0", second.calls)
		}
	})

	t.Run("params reach matchers", func(t *testing.T) {
		reg := New[string, string](MatchFunc[string, string](func(item string, params ...any) (string, bool) {
			if len(params) != 1 {
				return "", false
			}
			return item + params[0].(string), true
		}))

		got, ok := reg.Match("a", "b")
		if !ok || got != "ab" {
			t.Errorf("Match = (%q, %v), want (\"ab\", true)", got, ok)
		}
	})
}

func TestRegistry_MatchAll(t *testing.T) {
	root := New[testItem, testResult](MatchFunc[testItem, testResult](match1))

	got := root.MatchAll([]testItem{{ID: "c"}, {ID: "b"}, {ID: "a"}})

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if !got[0].OK || got[0].Value.Message != "mc1" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].OK {
		t.Errorf("got[1] = %+v, want no match", got[1])
	}
	if !got[2].OK || got[2].Value.Message != "ma1" {
		t.Errorf("got[2] = %+v", got[2])
	}
}

func TestRegistry_Add(t *testing.T) {
	t.Run("cleanup removes added matchers", func(t *testing.T) {
		reg1 := New[testItem, testResult](MatchFunc[testItem, testResult](match1))
		reg2 := New[testItem, testResult](MatchFunc[testItem, testResult](match2))
		root := New[testItem, testResult](reg2)

		cleanup := root.Add(reg1)
		cleanup()

		if _, ok := root.Match(testItem{ID: "a"}); ok {
			t.Error("expected no match after cleanup")
		}
		if root.Len() != 1 {
			t.Errorf("Len = %d, want 1", root.Len())
		}
	})

	t.Run("priority after cleanup", func(t *testing.T) {
		reg1 := New[testItem, testResult](MatchFunc[testItem, testResult](match1))
		reg2 := New[testItem, testResult](MatchFunc[testItem, testResult](match2))
		root := New[testItem, testResult]()

		cleanup := root.Add(reg1)
		root.Add(reg2)
		cleanup()

		got, _ := root.Match(testItem{ID: "c"})
		want := testResult{ID: "c", Message: "mc2", Second: true}
		if got != want {
			t.Errorf("Match = %+v, want %+v", got, want)
		}
	})

	t.Run("second cleanup call does not touch later additions", func(t *testing.T) {
		m := &countingMatcher{result: "m"}
		root := New[string, string]()

		cleanup := root.Add(m)
		cleanup()
		root.Add(m)
		cleanup()

		if root.Len() != 1 {
			t.Errorf("Len = %d, want 1", root.Len())
		}
	})

	t.Run("cleanup removes only its own duplicate slot", func(t *testing.T) {
		m := &countingMatcher{result: "m"}
		root := New[string, string](m)

		cleanup := root.Add(m)
		cleanup()

		if root.Len() != 1 {
			t.Errorf("Len = %d, want 1", root.Len())
		}
	})

	t.Run("cleanup removes function matchers", func(t *testing.T) {
		root := New[testItem, testResult]()

		cleanup := root.Add(MatchFunc[testItem, testResult](match1), MatchFunc[testItem, testResult](match2))
		cleanup()

		if root.Len() != 0 {
			t.Errorf("Len = %d, want 0", root.Len())
		}
	})

	t.Run("matchers keep argument order", func(t *testing.T) {
		a := &countingMatcher{result: "a"}
		b := &countingMatcher{result: "b"}
		root := New[string, string]()

		root.Add(a, b)

		got := root.Matchers()
		if len(got) != 2 || got[0] != Matcher[string, string](a) || got[1] != Matcher[string, string](b) {
			t.Errorf("Matchers = %v, want [a b]", got)
		}
	})

	t.Run("nil matcher panics", func(t *testing.T) {
		root := New[string, string]()

		defer func() {
			if r := recover(); r != ErrNilMatcher {
				t.Errorf("recover = %v, want ErrNilMatcher", r)
			}
			if root.Len() != 0 {
				t.Errorf("Len = %d, want 0", root.Len())
			}
		}()
		root.Add(&countingMatcher{}, nil)
	})

	t.Run("nil MatchFunc panics", func(t *testing.T) {
		defer func() {
			if r := recover(); r != ErrNilMatcher {
				t.Errorf("recover = %v, want ErrNilMatcher", r)
			}
		}()
		New[string, string](MatchFunc[string, string](nil))
	})

	t.Run("typed nil pointer panics", func(t *testing.T) {
		var inner *Registry[string, string]
		root := New[string, string]()

		defer func() {
			if r := recover(); r != ErrNilMatcher {
				t.Errorf("recover = %v, want ErrNilMatcher", r)
			}
			if root.Len() != 0 {
				t.Errorf("Len = %d, want 0", root.Len())
			}
		}()
		root.Add(inner)
	})
}

func TestRegistry_Remove(t *testing.T) {
	t.Run("direct removal", func(t *testing.T) {
		reg1 := New[testItem, testResult](MatchFunc[testItem, testResult](match1))
		reg2 := New[testItem, testResult](MatchFunc[testItem, testResult](match2))
		root := New[testItem, testResult]()

		root.Add(reg1, reg2)
		root.Remove(reg1)

		if _, ok := root.Match(testItem{ID: "a"}); ok {
			t.Error("expected no match after removal")
		}
	})

	t.Run("removing everything empties the registry", func(t *testing.T) {
		reg1 := New[testItem, testResult](MatchFunc[testItem, testResult](match1))
		reg2 := New[testItem, testResult](MatchFunc[testItem, testResult](match2))
		root := New[testItem, testResult]()

		root.Add(reg1, reg2)
		root.Remove(reg1, reg2)

		if _, ok := root.Match(testItem{ID: "b"}); ok {
			t.Error("expected no match")
		}
	})

	t.Run("removes first occurrence only", func(t *testing.T) {
		a := &countingMatcher{result: "a"}
		b := &countingMatcher{result: "b"}
		root := New[string, string](a, b, a)

		root.Remove(a)

		got := root.Matchers()
		if len(got) != 2 || got[0] != Matcher[string, string](b) || got[1] != Matcher[string, string](a) {
			t.Errorf("Matchers = %v, want [b a]", got)
		}
	})

	t.Run("absent matcher is a no-op", func(t *testing.T) {
		a := &countingMatcher{result: "a"}
		root := New[string, string](a)

		root.Remove(&countingMatcher{result: "a"})

		if root.Len() != 1 {
			t.Errorf("Len = %d, want 1", root.Len())
		}
	})

	t.Run("function matchers are not removable by value", func(t *testing.T) {
		f := MatchFunc[string, string](func(string, ...any) (string, bool) { return "f", true })
		root := New[string, string](f)

		root.Remove(f)

		if root.Len() != 1 {
			t.Errorf("Len = %d, want 1", root.Len())
		}
	})
}

func TestRegistry_ReentrantMutation(t *testing.T) {
	t.Run("matcher added during Match is not consulted", func(t *testing.T) {
		root := New[string, string]()
		late := &countingMatcher{result: "late"}

		root.Add(MatchFunc[string, string](func(string, ...any) (string, bool) {
			root.Add(late)
			return "", false
		}))

		if _, ok := root.Match("x"); ok {
			t.Error("expected no match")
		}
		if late.calls != 0 {
			t.Errorf("late matcher called %d times, want 0", late.calls)
		}
		if root.Len() != 2 {
			t.Errorf("Len = %d, want 2", root.Len())
		}
	})

	t.Run("matcher removed during Match is still consulted", func(t *testing.T) {
		next := &countingMatcher{result: "next"}
		root := New[string, string]()
		root.Add(MatchFunc[string, string](func(string, ...any) (string, bool) {
			root.Remove(next)
			return "", false
		}), next)

		got, ok := root.Match("x")
		if !ok || got != "next" {
			t.Errorf("Match = (%q, %v), want (\"next\", true)", got, ok)
		}
		if root.Len() != 1 {
			t.Errorf("Len = %d, want 1", root.Len())
		}
	})
}

func TestRegistry_Changes(t *testing.T) {
	t.Run("nil without notifier", func(t *testing.T) {
		if New[string, string]().Changes() != nil {
			t.Error("expected nil notifier")
		}
	})

	t.Run("one pulse per mutation call", func(t *testing.T) {
		n := NewNotifier[struct{}]()
		root := NewWithOptions[string, string]([]Option{WithNotifier(n)})

		calls := 0
		root.Changes().Subscribe(func(struct{}) { calls++ })

		cleanup := root.Add(MatchFunc[string, string](func(string, ...any) (string, bool) { return "", false }))
		if calls != 1 {
			t.Errorf("after Add calls = %d, want 1", calls)
		}

		cleanup()
		if calls != 2 {
			t.Errorf("after cleanup calls = %d, want 2", calls)
		}

		cleanup()
		if calls != 2 {
			t.Errorf("after second cleanup calls = %d, want 2", calls)
		}

		h := &countingMatcher{}
		root.Add(h, &countingMatcher{})
		if calls != 3 {
			t.Errorf("after second Add calls = %d, want 3", calls)
		}

		root.Remove(h)
		if calls != 4 {
			t.Errorf("after Remove calls = %d, want 4", calls)
		}
	})

	t.Run("construction emits once", func(t *testing.T) {
		n := NewNotifier[struct{}]()
		calls := 0
		n.Subscribe(func(struct{}) { calls++ })

		NewWithOptions[string, string]([]Option{WithNotifier(n)}, &countingMatcher{}, &countingMatcher{})

		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}
