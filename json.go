package registry

import "github.com/tidwall/gjson"

// Helpers for registries over raw JSON documents. Paths use gjson syntax,
// e.g. "detail.type" or "Records.0.eventSource".

// JSONKey returns a KeyFunc that reads the string at path. Invalid JSON, a
// missing path, or a non-string value yields no key.
//
//	byType := registry.NewLookup[[]byte, string, Handler](registry.JSONKey("type"), nil)
func JSONKey(path string) KeyFunc[[]byte, string] {
	return func(raw []byte) (string, bool) {
		if !gjson.ValidBytes(raw) {
			return "", false
		}
		r := gjson.GetBytes(raw, path)
		if !r.Exists() || r.Type != gjson.String {
			return "", false
		}
		return r.String(), true
	}
}

// HasFields returns a Predicate that holds when raw is valid JSON and every
// path exists.
func HasFields(paths ...string) Predicate[[]byte] {
	return func(raw []byte) bool {
		if !gjson.ValidBytes(raw) {
			return false
		}
		for _, p := range paths {
			if !gjson.GetBytes(raw, p).Exists() {
				return false
			}
		}
		return true
	}
}

// FieldEquals returns a Predicate that holds when the string at path equals
// value.
func FieldEquals(path, value string) Predicate[[]byte] {
	key := JSONKey(path)
	return func(raw []byte) bool {
		s, ok := key(raw)
		return ok && s == value
	}
}
