package registry

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyKey is returned by DecodeTable for a blank key.
var ErrEmptyKey = errors.New("registry: empty key")

// DecodeTable decodes a YAML mapping of key to literal result into Lookup
// bindings, ready to pass to NewLookup. Each value is decoded into R.
//
// Example:
//
//	data := []byte(`
//	user/created: {queue: onboarding, priority: 1}
//	user/deleted: {queue: offboarding, priority: 2}
//	`)
//	table, err := registry.DecodeTable[[]byte, Route](data)
//	if err != nil {
//	    return err
//	}
//	routes := registry.NewLookup(registry.JSONKey("type"), table)
func DecodeTable[T, R any](data []byte) (map[string]Matcher[T, R], error) {
	var raw map[string]R
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}

	table := make(map[string]Matcher[T, R], len(raw))
	for k, v := range raw {
		if strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("decode table: %w", ErrEmptyKey)
		}
		table[k] = Const[T, R](v)
	}
	return table, nil
}
