package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type route struct {
	Queue    string `yaml:"queue"`
	Priority int    `yaml:"priority"`
}

func TestDecodeTable(t *testing.T) {
	t.Run("decodes literal bindings", func(t *testing.T) {
		data := []byte(`
user/created: {queue: onboarding, priority: 1}
user/deleted: {queue: offboarding, priority: 2}
`)
		table, err := DecodeTable[[]byte, route](data)
		require.NoError(t, err)
		require.Len(t, table, 2)

		l := NewLookup(JSONKey("type"), table)

		got, ok := l.Match([]byte(`{"type": "user/deleted"}`))
		require.True(t, ok)
		assert.Equal(t, route{Queue: "offboarding", Priority: 2}, got)

		_, ok = l.Match([]byte(`{"type": "user/updated"}`))
		assert.False(t, ok)
	})

	t.Run("scalar values", func(t *testing.T) {
		table, err := DecodeTable[string, string]([]byte("a: aa\nc: cc\n"))
		require.NoError(t, err)

		l := NewLookup[string, string, string](func(s string) (string, bool) { return s, true }, table)
		got, ok := l.Match("c")
		require.True(t, ok)
		assert.Equal(t, "cc", got)
	})

	t.Run("empty document", func(t *testing.T) {
		table, err := DecodeTable[string, int](nil)
		require.NoError(t, err)
		assert.Empty(t, table)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := DecodeTable[string, int]([]byte("a: [1, 2"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode table")
	})

	t.Run("value of wrong type", func(t *testing.T) {
		_, err := DecodeTable[string, int]([]byte("a: not-a-number"))
		assert.Error(t, err)
	})

	t.Run("duplicate keys", func(t *testing.T) {
		_, err := DecodeTable[string, int]([]byte("a: 1\na: 2\n"))
		assert.Error(t, err)
	})

	t.Run("blank key", func(t *testing.T) {
		_, err := DecodeTable[string, int]([]byte(`" ": 1`))
		assert.ErrorIs(t, err, ErrEmptyKey)
		assert.EqualError(t, err, "decode table: registry: empty key")
	})
}
